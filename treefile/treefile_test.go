package treefile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/packedrtree"
	"github.com/hupe1980/packedrtree/blobstore"
	"github.com/hupe1980/packedrtree/testutil"
)

func TestCompressionForName(t *testing.T) {
	assert.Equal(t, CompressionNone, CompressionForName("tree.txt"))
	assert.Equal(t, CompressionNone, CompressionForName("tree"))
	assert.Equal(t, CompressionZstd, CompressionForName("tree.txt.zst"))
	assert.Equal(t, CompressionLZ4, CompressionForName("tree.txt.lz4"))
	assert.Equal(t, CompressionZstd, CompressionForName("dir/nested/tree.zst"))
}

func TestWriteRead(t *testing.T) {
	ctx := context.Background()
	entries := testutil.NewRNG(23).RandomEntries(500, 1000, 10)

	tree, err := packedrtree.BulkLoad(entries)
	require.NoError(t, err)

	for _, name := range []string{"tree.txt", "tree.txt.zst", "tree.txt.lz4"} {
		t.Run(name, func(t *testing.T) {
			store := blobstore.NewMemoryStore()
			require.NoError(t, Write(ctx, store, name, tree))

			got, err := Read(ctx, store, name)
			require.NoError(t, err)

			assert.Equal(t, tree.Len(), got.Len())
			assert.Equal(t, tree.Height(), got.Height())

			query := packedrtree.MBR{XLow: 0, YLow: 0, XHigh: 500, YHigh: 500}
			assert.ElementsMatch(t, tree.Search(query), got.Search(query))
		})
	}
}

func TestCompressionShrinksOutput(t *testing.T) {
	ctx := context.Background()
	entries := testutil.NewRNG(24).RandomEntries(2000, 1000, 10)

	tree, err := packedrtree.BulkLoad(entries)
	require.NoError(t, err)

	store := blobstore.NewMemoryStore()
	require.NoError(t, Write(ctx, store, "tree.txt", tree))
	require.NoError(t, Write(ctx, store, "tree.txt.zst", tree))

	plain, err := store.Open(ctx, "tree.txt")
	require.NoError(t, err)
	defer plain.Close()

	compressed, err := store.Open(ctx, "tree.txt.zst")
	require.NoError(t, err)
	defer compressed.Close()

	assert.Less(t, compressed.Size(), plain.Size())
}

func TestReadMissing(t *testing.T) {
	_, err := Read(context.Background(), blobstore.NewMemoryStore(), "nope.txt")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestReadEmptyFile(t *testing.T) {
	// A zero-byte tree file is distinguishable from a missing one: the query
	// tools treat it as a tree with no entries and answer every query with
	// zero results instead of exiting.
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, "tree.txt", nil))

	tree, err := Read(ctx, store, "tree.txt")
	require.ErrorIs(t, err, packedrtree.ErrEmptyTree)

	// The nil tree the tools fall back to answers empty on both query kinds.
	tree = nil
	assert.Empty(t, tree.Search(packedrtree.MBR{XLow: 0, YLow: 0, XHigh: 10, YHigh: 10}))

	ids, err := tree.Nearest(0, 0, 5)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestReadLocalStoreRoundTrip(t *testing.T) {
	// End-to-end through the mmap-backed local store, the same path the
	// command line tools take.
	ctx := context.Background()
	store := blobstore.NewLocalStore(t.TempDir())

	entries := testutil.NewRNG(25).RandomEntries(100, 100, 5)
	tree, err := packedrtree.BulkLoad(entries)
	require.NoError(t, err)

	require.NoError(t, Write(ctx, store, "tree.txt", tree))

	got, err := Read(ctx, store, "tree.txt")
	require.NoError(t, err)
	assert.Equal(t, 100, got.Len())
}
