// Package packedrtree provides a static, bulk-loaded R-tree over 2D
// minimum bounding rectangles (MBRs).
//
// The tree is built once from a batch of entries, ordered by a
// space-filling-curve locality key, and is read-only afterwards. Two query
// algorithms are provided: axis-aligned range search (recursive descent with
// MBR pruning) and k-nearest-neighbor search (best-first traversal with an
// admissible lower-bound distance).
//
// # Quick Start
//
//	entries := []packedrtree.Entry{
//	    {ID: 1, MBR: packedrtree.MBR{XLow: 0, YLow: 0, XHigh: 1, YHigh: 1}},
//	    {ID: 2, MBR: packedrtree.MBR{XLow: 5, YLow: 5, XHigh: 6, YHigh: 6}},
//	    {ID: 3, MBR: packedrtree.MBR{XLow: 2, YLow: 2, XHigh: 3, YHigh: 3}},
//	}
//
//	tree, _ := packedrtree.BulkLoad(entries)
//
//	hits := tree.Search(packedrtree.MBR{XLow: 1, YLow: 1, XHigh: 4, YHigh: 4})
//	nearest, _ := tree.Nearest(0, 0, 2)
//
// Trees serialize to a line-oriented text format via the codec package and
// can be stored on the local file system, S3 or MinIO through the blobstore
// package, optionally compressed (see treefile).
//
// Because the tree and its nodes are never mutated after construction, a
// single tree may be shared by any number of concurrent readers without
// locking.
package packedrtree
