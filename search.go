package packedrtree

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/packedrtree/internal/queue"
)

// SearchOptions controls the execution of a query.
type SearchOptions struct {
	// Filter restricts results to entry ids contained in the bitmap.
	// If nil, all entries qualify.
	Filter *roaring.Bitmap
}

// WithFilter restricts a query to the given entry id set.
func WithFilter(filter *roaring.Bitmap) func(*SearchOptions) {
	return func(o *SearchOptions) {
		o.Filter = filter
	}
}

func (o SearchOptions) admits(id int) bool {
	return o.Filter == nil || o.Filter.Contains(uint32(id))
}

// Search returns the ids of all entries whose MBR intersects query, in
// traversal order. Each leaf is reachable via exactly one path, so ids never
// repeat. A nil or empty tree yields no results.
//
// Subtrees whose covering MBR does not intersect query are pruned without
// descending into them.
func (t *Tree) Search(query MBR, optFns ...func(o *SearchOptions)) []int {
	var opts SearchOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if t == nil || t.root == nil {
		return nil
	}

	var results []int
	if leaf, ok := t.root.(*Leaf); ok {
		// Degenerate one-entry tree.
		if leaf.MBR.Intersects(query) && opts.admits(leaf.ID) {
			results = append(results, leaf.ID)
		}
		return results
	}

	searchNode(t.root.(*Internal), query, opts, &results)
	return results
}

func searchNode(n *Internal, query MBR, opts SearchOptions, results *[]int) {
	for _, child := range n.Children {
		if !child.Bounds().Intersects(query) {
			continue
		}

		switch child := child.(type) {
		case *Internal:
			searchNode(child, query, opts, results)
		case *Leaf:
			if opts.admits(child.ID) {
				*results = append(*results, child.ID)
			}
		}
	}
}

// Nearest returns the ids of up to k entries closest to the point (x, y),
// ordered by increasing distance from the point to each entry's MBR.
//
// It runs a best-first search: a min-priority queue of nodes keyed by
// MinDist, seeded with the root. Because MinDist never overestimates the
// distance to any entry inside a node, the first k leaves popped are exactly
// the k nearest — no closer leaf can still be queued when a leaf is popped.
// Entries at equal distance are returned in queue insertion order.
//
// If k exceeds the number of entries, all entries are returned. A nil or
// empty tree yields no results.
func (t *Tree) Nearest(x, y float64, k int, optFns ...func(o *SearchOptions)) ([]int, error) {
	var opts SearchOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if k <= 0 {
		return nil, ErrInvalidK
	}
	if t == nil || t.root == nil {
		return nil, nil
	}

	pq := queue.New[Node]()
	pq.Push(t.root, t.root.Bounds().MinDist(x, y))

	var results []int
	for pq.Len() > 0 && len(results) < k {
		node, _, _ := pq.Pop()

		switch node := node.(type) {
		case *Internal:
			for _, child := range node.Children {
				pq.Push(child, child.Bounds().MinDist(x, y))
			}
		case *Leaf:
			if opts.admits(node.ID) {
				results = append(results, node.ID)
			}
		}
	}

	return results, nil
}
