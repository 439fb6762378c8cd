// Package codec implements the line-oriented text encoding of packed trees.
//
// One line per node, emitted bottom-up so that a single decoding pass never
// meets a forward reference:
//
//	[flag, node_id, [[child_id, [x_low, x_high, y_low, y_high]], ...]]
//
// flag is 0 when the children are leaves and 1 otherwise. Child MBRs are
// embedded redundantly so a top-down reader has the geometry of a child
// before (or without) reading the child's own line. A degenerate one-entry
// tree is a single leaf line:
//
//	[node_id, [x_low, x_high, y_low, y_high]]
//
// Coordinates are written with fixed 6-decimal precision; decoding a tree
// re-encodes to the same bytes.
package codec

import (
	"bufio"
	"io"
	"strconv"

	"github.com/hupe1980/packedrtree"
)

// floatPrec is the fixed number of decimal digits for coordinates.
const floatPrec = 6

// Encode writes the tree to w, children before any node referencing them.
// Node order is deterministic: deepest level first, left to right within a
// level, root last.
func Encode(w io.Writer, t *packedrtree.Tree) error {
	root := t.Root()
	if root == nil {
		return packedrtree.ErrEmptyTree
	}

	bw := bufio.NewWriter(w)

	if leaf, ok := root.(*packedrtree.Leaf); ok {
		if _, err := bw.Write(appendLeafLine(nil, leaf)); err != nil {
			return err
		}
		return bw.Flush()
	}

	for _, level := range levels(root.(*packedrtree.Internal)) {
		for _, n := range level {
			if _, err := bw.Write(appendInternalLine(nil, n)); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

// levels collects the internal nodes per depth, deepest first.
func levels(root *packedrtree.Internal) [][]*packedrtree.Internal {
	var byDepth [][]*packedrtree.Internal

	var visit func(n *packedrtree.Internal, depth int)
	visit = func(n *packedrtree.Internal, depth int) {
		if depth == len(byDepth) {
			byDepth = append(byDepth, nil)
		}
		byDepth[depth] = append(byDepth[depth], n)

		if n.ChildrenAreLeaves {
			return
		}
		for _, c := range n.Children {
			visit(c.(*packedrtree.Internal), depth+1)
		}
	}
	visit(root, 0)

	// Reverse: children before parents.
	for i, j := 0, len(byDepth)-1; i < j; i, j = i+1, j-1 {
		byDepth[i], byDepth[j] = byDepth[j], byDepth[i]
	}
	return byDepth
}

func appendLeafLine(b []byte, l *packedrtree.Leaf) []byte {
	b = append(b, '[')
	b = strconv.AppendInt(b, int64(l.ID), 10)
	b = append(b, ", "...)
	b = appendMBR(b, l.MBR)
	b = append(b, "]\n"...)
	return b
}

func appendInternalLine(b []byte, n *packedrtree.Internal) []byte {
	flag := int64(1)
	if n.ChildrenAreLeaves {
		flag = 0
	}

	b = append(b, '[')
	b = strconv.AppendInt(b, flag, 10)
	b = append(b, ", "...)
	b = strconv.AppendInt(b, int64(n.ID), 10)
	b = append(b, ", ["...)
	for i, c := range n.Children {
		if i > 0 {
			b = append(b, ", "...)
		}
		b = append(b, '[')
		b = strconv.AppendInt(b, int64(c.NodeID()), 10)
		b = append(b, ", "...)
		b = appendMBR(b, c.Bounds())
		b = append(b, ']')
	}
	b = append(b, "]]\n"...)
	return b
}

// appendMBR writes "[x_low, x_high, y_low, y_high]" at fixed precision.
func appendMBR(b []byte, m packedrtree.MBR) []byte {
	b = append(b, '[')
	b = strconv.AppendFloat(b, m.XLow, 'f', floatPrec, 64)
	b = append(b, ", "...)
	b = strconv.AppendFloat(b, m.XHigh, 'f', floatPrec, 64)
	b = append(b, ", "...)
	b = strconv.AppendFloat(b, m.YLow, 'f', floatPrec, 64)
	b = append(b, ", "...)
	b = strconv.AppendFloat(b, m.YHigh, 'f', floatPrec, 64)
	b = append(b, ']')
	return b
}
