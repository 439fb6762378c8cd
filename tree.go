package packedrtree

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// Tree is a static R-tree. It has exactly one root: an Internal node, or a
// degenerate Leaf if the tree was built from a single entry.
//
// A Tree is immutable after construction and safe for concurrent readers.
type Tree struct {
	root Node
}

// New creates a tree from an already-built root node. It is used by the
// decoder; applications normally obtain trees from BulkLoad.
func New(root Node) *Tree {
	return &Tree{root: root}
}

// Root returns the root node, or nil for a nil tree.
func (t *Tree) Root() Node {
	if t == nil {
		return nil
	}
	return t.root
}

// Len returns the number of leaves in the tree.
func (t *Tree) Len() int {
	n := 0
	t.walkLeaves(func(*Leaf) { n++ })
	return n
}

// Height returns the number of levels, counting the leaf level. A one-entry
// tree has height 1.
func (t *Tree) Height() int {
	if t == nil || t.root == nil {
		return 0
	}
	h := 1
	for n := t.root; ; {
		in, ok := n.(*Internal)
		if !ok {
			return h
		}
		h++
		n = in.Children[0]
	}
}

// LeafIDs returns the set of all entry ids as a bitmap. The bitmap is built
// on each call and owned by the caller; it is handy as a starting point for
// query filters.
func (t *Tree) LeafIDs() *roaring.Bitmap {
	ids := roaring.New()
	t.walkLeaves(func(l *Leaf) {
		ids.Add(uint32(l.ID))
	})
	return ids
}

// walkLeaves visits every leaf in traversal order.
func (t *Tree) walkLeaves(fn func(*Leaf)) {
	if t == nil || t.root == nil {
		return
	}
	walkLeaves(t.root, fn)
}

func walkLeaves(n Node, fn func(*Leaf)) {
	switch n := n.(type) {
	case *Leaf:
		fn(n)
	case *Internal:
		for _, c := range n.Children {
			walkLeaves(c, fn)
		}
	}
}

// Validate checks the structural invariants of the tree:
//
//   - every internal node's MBR is the exact union of its children's MBRs
//   - every non-root internal node holds between minFanout and maxFanout
//     children inclusive (the root may hold fewer)
//   - the ChildrenAreLeaves flag matches the actual child variants
//
// It returns nil if the tree is valid.
func (t *Tree) Validate(minFanout, maxFanout int) error {
	if t == nil || t.root == nil {
		return ErrEmptyTree
	}
	return validateNode(t.root, minFanout, maxFanout, true)
}

func validateNode(n Node, minFanout, maxFanout int, isRoot bool) error {
	in, ok := n.(*Internal)
	if !ok {
		return nil
	}

	if len(in.Children) == 0 {
		return fmt.Errorf("node %d has no children", in.ID)
	}
	if !isRoot && (len(in.Children) < minFanout || len(in.Children) > maxFanout) {
		return fmt.Errorf("node %d has %d children, want between %d and %d", in.ID, len(in.Children), minFanout, maxFanout)
	}

	union := in.Children[0].Bounds()
	for _, c := range in.Children {
		union.ExpandToCover(c.Bounds())

		_, leaf := c.(*Leaf)
		if leaf != in.ChildrenAreLeaves {
			return fmt.Errorf("node %d: child %d variant conflicts with children-are-leaves flag", in.ID, c.NodeID())
		}
		if err := validateNode(c, minFanout, maxFanout, false); err != nil {
			return err
		}
	}
	if union != in.MBR {
		return fmt.Errorf("node %d: MBR %v is not the union of its children %v", in.ID, in.MBR, union)
	}
	return nil
}
