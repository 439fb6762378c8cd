package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/packedrtree"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestReadCoords(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		got, err := readCoords(strings.NewReader("1.5,2.5\n-3,4\n0,0\n"), "coords")
		require.NoError(t, err)

		assert.Equal(t, []Point{{X: 1.5, Y: 2.5}, {X: -3, Y: 4}, {X: 0, Y: 0}}, got)
	})

	t.Run("tolerates surrounding spaces", func(t *testing.T) {
		got, err := readCoords(strings.NewReader(" 1 , 2 \n"), "coords")
		require.NoError(t, err)

		assert.Equal(t, []Point{{X: 1, Y: 2}}, got)
	})

	t.Run("missing comma", func(t *testing.T) {
		_, err := readCoords(strings.NewReader("1.5 2.5\n"), "coords")

		var malformed *packedrtree.ErrMalformedInput
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, "coords", malformed.File)
		assert.Equal(t, 1, malformed.Line)
	})

	t.Run("bad number", func(t *testing.T) {
		_, err := readCoords(strings.NewReader("1,2\nx,3\n"), "coords")

		var malformed *packedrtree.ErrMalformedInput
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, 2, malformed.Line)
	})

	t.Run("from file", func(t *testing.T) {
		path := writeFile(t, "coords.txt", "7,8\n")

		got, err := ReadCoords(path)
		require.NoError(t, err)
		assert.Equal(t, []Point{{X: 7, Y: 8}}, got)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadCoords(filepath.Join(t.TempDir(), "nope.txt"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestReadOffsets(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		got, err := readOffsets(strings.NewReader("1,0,3\n2,4,4\n"), "offsets")
		require.NoError(t, err)

		assert.Equal(t, []Offset{{ID: 1, Start: 0, End: 3}, {ID: 2, Start: 4, End: 4}}, got)
	})

	t.Run("wrong field count", func(t *testing.T) {
		_, err := readOffsets(strings.NewReader("1,0\n"), "offsets")

		var malformed *packedrtree.ErrMalformedInput
		assert.ErrorAs(t, err, &malformed)
	})

	t.Run("bad integer", func(t *testing.T) {
		_, err := readOffsets(strings.NewReader("1,zero,3\n"), "offsets")

		var malformed *packedrtree.ErrMalformedInput
		assert.ErrorAs(t, err, &malformed)
	})
}

func TestEntries(t *testing.T) {
	coords := []Point{
		{X: 0, Y: 0}, {X: 2, Y: 1}, {X: 1, Y: 3}, // Polygon 1
		{X: 5, Y: 5}, // Polygon 2, single point
	}

	t.Run("ok", func(t *testing.T) {
		got, err := Entries(coords, []Offset{
			{ID: 1, Start: 0, End: 2},
			{ID: 2, Start: 3, End: 3},
		}, "offsets")
		require.NoError(t, err)

		assert.Equal(t, []packedrtree.Entry{
			{ID: 1, MBR: packedrtree.MBR{XLow: 0, YLow: 0, XHigh: 2, YHigh: 3}},
			{ID: 2, MBR: packedrtree.MBR{XLow: 5, YLow: 5, XHigh: 5, YHigh: 5}},
		}, got)
	})

	t.Run("end past coordinates", func(t *testing.T) {
		_, err := Entries(coords, []Offset{{ID: 1, Start: 0, End: 4}}, "offsets")

		var malformed *packedrtree.ErrMalformedInput
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, 1, malformed.Line)
	})

	t.Run("inverted range", func(t *testing.T) {
		_, err := Entries(coords, []Offset{{ID: 1, Start: 2, End: 1}}, "offsets")
		assert.Error(t, err)
	})

	t.Run("negative start", func(t *testing.T) {
		_, err := Entries(coords, []Offset{{ID: 1, Start: -1, End: 1}}, "offsets")
		assert.Error(t, err)
	})
}

func TestReadRangeQueries(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		path := writeFile(t, "ranges.txt", "1 1 4 4\n-2.5 0 3 9.75\n")

		got, err := ReadRangeQueries(path)
		require.NoError(t, err)

		assert.Equal(t, []packedrtree.MBR{
			{XLow: 1, YLow: 1, XHigh: 4, YHigh: 4},
			{XLow: -2.5, YLow: 0, XHigh: 3, YHigh: 9.75},
		}, got)
	})

	t.Run("wrong field count", func(t *testing.T) {
		path := writeFile(t, "ranges.txt", "1 1 4\n")

		_, err := ReadRangeQueries(path)

		var malformed *packedrtree.ErrMalformedInput
		assert.ErrorAs(t, err, &malformed)
	})
}

func TestReadPointQueries(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		path := writeFile(t, "points.txt", "0 0\n3.5 -1\n")

		got, err := ReadPointQueries(path)
		require.NoError(t, err)

		assert.Equal(t, []Point{{X: 0, Y: 0}, {X: 3.5, Y: -1}}, got)
	})

	t.Run("bad number", func(t *testing.T) {
		path := writeFile(t, "points.txt", "0 zero\n")

		_, err := ReadPointQueries(path)

		var malformed *packedrtree.ErrMalformedInput
		assert.ErrorAs(t, err, &malformed)
	})
}
