package packedrtree

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/hupe1980/packedrtree/zorder"
)

// Entry is one input rectangle for bulk loading: a caller-assigned stable
// identifier, its MBR, and a locality key. The key is assigned by BulkLoad
// and never mutated afterwards.
type Entry struct {
	ID  int
	MBR MBR
	Key uint64
}

// Options represents the options for configuring the bulk loader.
type Options struct {
	// MinFanout is the minimum number of children per internal node.
	// An undersized trailing group borrows children from its left sibling
	// to reach MinFanout; see BulkLoad. Must not exceed (MaxFanout+1)/2,
	// or the borrow could push the donor below MinFanout.
	MinFanout int

	// MaxFanout is the maximum number of children per internal node.
	MaxFanout int

	// KeyFunc produces the locality key for an entry center. If nil, a
	// z-order curve scaled over the extent of all entry centers is used.
	// Any deterministic, total, locality-preserving order works.
	KeyFunc func(x, y float64) uint64

	// Logger is used for build progress. If nil, logging is disabled.
	Logger *Logger
}

// DefaultOptions contains the default configuration options for the bulk loader.
var DefaultOptions = Options{
	MinFanout: 8,
	MaxFanout: 20,
}

// WithFanout configures the fanout bounds.
func WithFanout(minFanout, maxFanout int) func(*Options) {
	return func(o *Options) {
		o.MinFanout = minFanout
		o.MaxFanout = maxFanout
	}
}

// WithLocalityKeyFunc substitutes the locality key producer.
func WithLocalityKeyFunc(fn func(x, y float64) uint64) func(*Options) {
	return func(o *Options) {
		o.KeyFunc = fn
	}
}

// WithLogger configures the logger used during the build.
func WithLogger(logger *Logger) func(*Options) {
	return func(o *Options) {
		o.Logger = logger
	}
}

// BulkLoad builds a balanced tree over the given entries.
//
// Entries are sorted by locality key (stable, ties keep input order) and
// packed one leaf per entry, then level by level into groups of MaxFanout.
// A trailing group smaller than MinFanout borrows the missing children from
// the tail of its left sibling, prepended so relative order is preserved;
// if the trailing group is the only group on its level the shortfall is
// accepted (small inputs).
//
// Zero entries yield ErrEmptyTree. A single entry yields a tree whose root
// is the Leaf itself.
func BulkLoad(entries []Entry, optFns ...func(o *Options)) (*Tree, error) {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = NoopLogger()
	}
	if opts.MinFanout < 1 || opts.MaxFanout < opts.MinFanout {
		return nil, fmt.Errorf("invalid fanout bounds [%d, %d]", opts.MinFanout, opts.MaxFanout)
	}
	// A trailing group of one borrows MinFanout-1 children, so the donor must
	// be able to spare them: MaxFanout - (MinFanout-1) >= MinFanout.
	if opts.MinFanout > (opts.MaxFanout+1)/2 {
		return nil, fmt.Errorf("invalid fanout bounds [%d, %d]: min fanout must not exceed (max+1)/2", opts.MinFanout, opts.MaxFanout)
	}
	if len(entries) == 0 {
		return nil, ErrEmptyTree
	}
	for _, e := range entries {
		if e.MBR.XLow > e.MBR.XHigh || e.MBR.YLow > e.MBR.YHigh {
			return nil, fmt.Errorf("entry %d: inverted MBR %v", e.ID, e.MBR)
		}
	}

	// Work on a copy; the caller keeps ownership of its slice.
	sorted := slices.Clone(entries)
	assignKeys(sorted, opts.KeyFunc)
	slices.SortStableFunc(sorted, func(a, b Entry) int {
		return cmp.Compare(a.Key, b.Key)
	})

	level := make([]Node, len(sorted))
	for i, e := range sorted {
		level[i] = &Leaf{ID: e.ID, MBR: e.MBR}
	}

	logger := opts.Logger.WithFanout(opts.MinFanout, opts.MaxFanout)

	nextID := 0
	for height := 0; len(level) > 1; height++ {
		level = packLevel(level, &nextID, height == 0, opts)
		logger.Debug("packed level", "level", height, "nodes", len(level))
	}

	return &Tree{root: level[0]}, nil
}

// assignKeys fills in the locality key of every entry from its MBR center.
func assignKeys(entries []Entry, keyFunc func(x, y float64) uint64) {
	if keyFunc == nil {
		xc, yc := entries[0].MBR.Center()
		xMin, yMin, xMax, yMax := xc, yc, xc, yc
		for _, e := range entries[1:] {
			x, y := e.MBR.Center()
			xMin, xMax = min(xMin, x), max(xMax, x)
			yMin, yMax = min(yMin, y), max(yMax, y)
		}
		keyFunc = zorder.New(xMin, yMin, xMax, yMax).Key
	}

	for i := range entries {
		x, y := entries[i].MBR.Center()
		entries[i].Key = keyFunc(x, y)
	}
}

// packLevel groups one node level into its parents.
func packLevel(nodes []Node, nextID *int, childrenAreLeaves bool, opts Options) []Node {
	fullNodes := len(nodes) / opts.MaxFanout

	var parents []Node
	for i := 0; i < fullNodes; i++ {
		parents = append(parents, newInternal(nextID, nodes[i*opts.MaxFanout:(i+1)*opts.MaxFanout], childrenAreLeaves))
	}

	remainder := nodes[fullNodes*opts.MaxFanout:]
	if len(remainder) > 0 {
		parent := newInternal(nextID, remainder, childrenAreLeaves)

		// A trailing group below MinFanout violates the fanout invariant.
		// Compensate by reassigning children from the most recently built
		// full sibling; with no prior sibling the violation is accepted.
		if needed := opts.MinFanout - len(parent.Children); needed > 0 && len(parents) > 0 {
			donor, _ := parents[len(parents)-1].(*Internal)
			for i := 0; i < needed; i++ {
				last := donor.Children[len(donor.Children)-1]
				donor.Children = donor.Children[:len(donor.Children)-1]
				parent.Children = append([]Node{last}, parent.Children...)
			}
			donor.RecomputeMBR()
			parent.RecomputeMBR()
		}

		parents = append(parents, parent)
	}

	return parents
}

func newInternal(nextID *int, children []Node, childrenAreLeaves bool) *Internal {
	n := &Internal{
		ID:                *nextID,
		Children:          slices.Clip(slices.Clone(children)),
		ChildrenAreLeaves: childrenAreLeaves,
	}
	*nextID++
	n.RecomputeMBR()
	return n
}
