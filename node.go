package packedrtree

// Compile-time checks to ensure both variants satisfy Node.
var (
	_ Node = (*Leaf)(nil)
	_ Node = (*Internal)(nil)
)

// Node is a node in the tree. There are exactly two variants: Leaf wraps a
// single entry, Internal holds an ordered sequence of children it
// exclusively owns (the tree is a tree, not a graph — no shared subtrees).
type Node interface {
	// NodeID returns the node identifier. For leaves this is the
	// caller-assigned entry id; for internal nodes it is assigned by the
	// bulk loader in creation order.
	NodeID() int

	// Bounds returns the node's MBR. For internal nodes it is the tightest
	// rectangle covering all children.
	Bounds() MBR
}

// Leaf wraps one entry: its id and MBR. It has no children.
type Leaf struct {
	ID  int
	MBR MBR
}

// NodeID returns the entry id.
func (l *Leaf) NodeID() int { return l.ID }

// Bounds returns the entry MBR.
func (l *Leaf) Bounds() MBR { return l.MBR }

// Internal is a non-leaf node covering all of its children.
type Internal struct {
	ID  int
	MBR MBR

	// Children is the ordered child sequence. All children are leaves or
	// all are internals, as marked by ChildrenAreLeaves.
	Children          []Node
	ChildrenAreLeaves bool
}

// NodeID returns the node id.
func (n *Internal) NodeID() int { return n.ID }

// Bounds returns the covering MBR.
func (n *Internal) Bounds() MBR { return n.MBR }

// RecomputeMBR resets the node MBR to the exact union of its children.
// Children must be non-empty.
func (n *Internal) RecomputeMBR() {
	mbr := n.Children[0].Bounds()
	for _, c := range n.Children[1:] {
		mbr.ExpandToCover(c.Bounds())
	}
	n.MBR = mbr
}
