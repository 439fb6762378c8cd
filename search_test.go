package packedrtree_test

import (
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/packedrtree"
	"github.com/hupe1980/packedrtree/testutil"
)

// smallTree builds the three-entry fixture used throughout the query tests:
//
//	1: [0,0]-[1,1]
//	2: [5,5]-[6,6]
//	3: [2,2]-[3,3]
func smallTree(t *testing.T) *packedrtree.Tree {
	t.Helper()

	tree, err := packedrtree.BulkLoad([]packedrtree.Entry{
		{ID: 1, MBR: packedrtree.MBR{XLow: 0, YLow: 0, XHigh: 1, YHigh: 1}},
		{ID: 2, MBR: packedrtree.MBR{XLow: 5, YLow: 5, XHigh: 6, YHigh: 6}},
		{ID: 3, MBR: packedrtree.MBR{XLow: 2, YLow: 2, XHigh: 3, YHigh: 3}},
	})
	require.NoError(t, err)

	return tree
}

func TestSearch(t *testing.T) {
	t.Run("closed interval intersection", func(t *testing.T) {
		tree := smallTree(t)

		// Entry 1 touches the query at (1,1); touching rectangles intersect.
		got := tree.Search(packedrtree.MBR{XLow: 1, YLow: 1, XHigh: 4, YHigh: 4})
		assert.ElementsMatch(t, []int{1, 3}, got)
	})

	t.Run("full extent returns every entry once", func(t *testing.T) {
		tree := smallTree(t)

		got := tree.Search(packedrtree.MBR{XLow: -10, YLow: -10, XHigh: 10, YHigh: 10})
		assert.ElementsMatch(t, []int{1, 2, 3}, got)
	})

	t.Run("disjoint query", func(t *testing.T) {
		tree := smallTree(t)

		got := tree.Search(packedrtree.MBR{XLow: 100, YLow: 100, XHigh: 101, YHigh: 101})
		assert.Empty(t, got)
	})

	t.Run("nil tree", func(t *testing.T) {
		var tree *packedrtree.Tree
		assert.Empty(t, tree.Search(packedrtree.MBR{XLow: 0, YLow: 0, XHigh: 1, YHigh: 1}))
	})

	t.Run("leaf root", func(t *testing.T) {
		tree, err := packedrtree.BulkLoad([]packedrtree.Entry{
			{ID: 7, MBR: packedrtree.MBR{XLow: 0, YLow: 0, XHigh: 1, YHigh: 1}},
		})
		require.NoError(t, err)

		assert.Equal(t, []int{7}, tree.Search(packedrtree.MBR{XLow: 0.5, YLow: 0.5, XHigh: 2, YHigh: 2}))
		assert.Empty(t, tree.Search(packedrtree.MBR{XLow: 2, YLow: 2, XHigh: 3, YHigh: 3}))
	})

	t.Run("filter restricts results", func(t *testing.T) {
		tree := smallTree(t)

		filter := roaring.BitmapOf(3)
		got := tree.Search(
			packedrtree.MBR{XLow: -10, YLow: -10, XHigh: 10, YHigh: 10},
			packedrtree.WithFilter(filter),
		)
		assert.Equal(t, []int{3}, got)
	})

	t.Run("result set independent of input order", func(t *testing.T) {
		rng := testutil.NewRNG(13)
		entries := rng.RandomEntries(200, 1000, 10)

		shuffled := make([]packedrtree.Entry, len(entries))
		copy(shuffled, entries)
		for i := len(shuffled) - 1; i > 0; i-- {
			j := rng.Intn(i + 1)
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		}

		a, err := packedrtree.BulkLoad(entries)
		require.NoError(t, err)
		b, err := packedrtree.BulkLoad(shuffled)
		require.NoError(t, err)

		query := packedrtree.MBR{XLow: 200, YLow: 200, XHigh: 700, YHigh: 700}
		assert.ElementsMatch(t, a.Search(query), b.Search(query))
	})

	t.Run("matches brute force", func(t *testing.T) {
		rng := testutil.NewRNG(21)
		entries := rng.RandomEntries(1000, 1000, 15)

		tree, err := packedrtree.BulkLoad(entries)
		require.NoError(t, err)

		for i := 0; i < 50; i++ {
			x := rng.Float64() * 1000
			y := rng.Float64() * 1000
			query := packedrtree.MBR{
				XLow:  x,
				YLow:  y,
				XHigh: x + rng.Float64()*100,
				YHigh: y + rng.Float64()*100,
			}

			want := testutil.BruteForceRange(entries, query)
			got := tree.Search(query)

			assert.ElementsMatch(t, want, got, "query %v", query)
		}
	})
}

func TestNearest(t *testing.T) {
	t.Run("orders by distance", func(t *testing.T) {
		tree := smallTree(t)

		got, err := tree.Nearest(0, 0, 2)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 3}, got)
	})

	t.Run("k larger than tree", func(t *testing.T) {
		tree := smallTree(t)

		got, err := tree.Nearest(0, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 3, 2}, got)
	})

	t.Run("invalid k", func(t *testing.T) {
		tree := smallTree(t)

		_, err := tree.Nearest(0, 0, 0)
		assert.ErrorIs(t, err, packedrtree.ErrInvalidK)

		_, err = tree.Nearest(0, 0, -1)
		assert.ErrorIs(t, err, packedrtree.ErrInvalidK)
	})

	t.Run("nil tree", func(t *testing.T) {
		var tree *packedrtree.Tree

		got, err := tree.Nearest(0, 0, 3)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("query point inside an entry", func(t *testing.T) {
		tree := smallTree(t)

		got, err := tree.Nearest(2.5, 2.5, 1)
		require.NoError(t, err)
		assert.Equal(t, []int{3}, got)
	})

	t.Run("deterministic ties", func(t *testing.T) {
		// Four unit squares at the same distance from the origin.
		entries := []packedrtree.Entry{
			{ID: 0, MBR: packedrtree.MBR{XLow: 2, YLow: 0, XHigh: 3, YHigh: 1}},
			{ID: 1, MBR: packedrtree.MBR{XLow: -3, YLow: 0, XHigh: -2, YHigh: 1}},
			{ID: 2, MBR: packedrtree.MBR{XLow: 0, YLow: 2, XHigh: 1, YHigh: 3}},
			{ID: 3, MBR: packedrtree.MBR{XLow: 0, YLow: -3, XHigh: 1, YHigh: -2}},
		}

		tree, err := packedrtree.BulkLoad(entries)
		require.NoError(t, err)

		first, err := tree.Nearest(0.5, 0.5, 4)
		require.NoError(t, err)
		for i := 0; i < 10; i++ {
			got, err := tree.Nearest(0.5, 0.5, 4)
			require.NoError(t, err)
			assert.Equal(t, first, got)
		}
	})

	t.Run("filter restricts results", func(t *testing.T) {
		tree := smallTree(t)

		got, err := tree.Nearest(0, 0, 2, packedrtree.WithFilter(roaring.BitmapOf(2, 3)))
		require.NoError(t, err)
		assert.Equal(t, []int{3, 2}, got)
	})

	t.Run("matches brute force", func(t *testing.T) {
		rng := testutil.NewRNG(33)
		entries := rng.RandomEntries(1000, 1000, 5)

		tree, err := packedrtree.BulkLoad(entries)
		require.NoError(t, err)

		for i := 0; i < 50; i++ {
			x := rng.Float64() * 1000
			y := rng.Float64() * 1000
			k := 1 + rng.Intn(20)

			want := testutil.BruteForceNearest(entries, x, y, k)
			got, err := tree.Nearest(x, y, k)
			require.NoError(t, err)

			require.Len(t, got, len(want))
			for j := range got {
				// Ties may order differently between the oracle and the
				// tree; compare by distance instead of id.
				wantDist := entries[want[j]].MBR.MinDist(x, y)
				gotDist := entries[got[j]].MBR.MinDist(x, y)
				assert.InDelta(t, wantDist, gotDist, 1e-9, "point (%v,%v) k=%d rank %d", x, y, k, j)
			}
		}
	})
}
