// Package testutil provides deterministic random data and brute-force query
// oracles for tests.
package testutil

import (
	"math/rand"
	"sort"

	"github.com/hupe1980/packedrtree"
)

// RNG struct encapsulates the random number generator and seed.
type RNG struct {
	rand *rand.Rand
	seed int64
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 { return r.seed }

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 { return r.rand.Float64() }

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int { return r.rand.Intn(n) }

// RandomEntries generates n entries with ids 0..n-1 whose MBRs lie inside
// [0, extent) on both axes, each at most maxSide wide and high.
func (r *RNG) RandomEntries(n int, extent, maxSide float64) []packedrtree.Entry {
	entries := make([]packedrtree.Entry, n)
	for i := range entries {
		x := r.rand.Float64() * extent
		y := r.rand.Float64() * extent
		entries[i] = packedrtree.Entry{
			ID: i,
			MBR: packedrtree.MBR{
				XLow:  x,
				YLow:  y,
				XHigh: x + r.rand.Float64()*maxSide,
				YHigh: y + r.rand.Float64()*maxSide,
			},
		}
	}
	return entries
}

// BruteForceRange returns the ids of all entries intersecting query, in
// input order.
func BruteForceRange(entries []packedrtree.Entry, query packedrtree.MBR) []int {
	var ids []int
	for _, e := range entries {
		if e.MBR.Intersects(query) {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// BruteForceNearest returns the ids of the k entries whose MBRs are closest
// to the point (x, y), ordered by distance (stable for ties).
func BruteForceNearest(entries []packedrtree.Entry, x, y float64, k int) []int {
	type candidate struct {
		id   int
		dist float64
	}

	candidates := make([]candidate, len(entries))
	for i, e := range entries {
		candidates[i] = candidate{id: e.ID, dist: e.MBR.MinDist(x, y)}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].dist < candidates[j].dist
	})

	if k > len(candidates) {
		k = len(candidates)
	}
	ids := make([]int, k)
	for i := range ids {
		ids[i] = candidates[i].id
	}
	return ids
}
