// Package treefile reads and writes serialized trees through a blob store,
// with optional compression chosen by file extension: ".zst" for zstd,
// ".lz4" for LZ4, anything else plain text.
package treefile

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"github.com/hupe1980/packedrtree"
	"github.com/hupe1980/packedrtree/blobstore"
	"github.com/hupe1980/packedrtree/codec"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression defines the compression algorithm used for a tree file.
type Compression int

const (
	// CompressionNone stores the text encoding as-is.
	CompressionNone Compression = iota
	// CompressionZstd wraps the encoding in a zstd stream (better ratio).
	CompressionZstd
	// CompressionLZ4 wraps the encoding in an LZ4 frame (fast).
	CompressionLZ4
)

// CompressionForName returns the compression implied by the file extension.
func CompressionForName(name string) Compression {
	switch path.Ext(name) {
	case ".zst":
		return CompressionZstd
	case ".lz4":
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// Write encodes the tree and stores it under name, compressed according to
// the name's extension.
func Write(ctx context.Context, store blobstore.Store, name string, t *packedrtree.Tree) error {
	var buf bytes.Buffer

	var w io.Writer = &buf
	var finish func() error

	switch CompressionForName(name) {
	case CompressionZstd:
		zw, err := zstd.NewWriter(&buf)
		if err != nil {
			return fmt.Errorf("zstd writer: %w", err)
		}
		w, finish = zw, zw.Close
	case CompressionLZ4:
		lw := lz4.NewWriter(&buf)
		w, finish = lw, lw.Close
	}

	if err := codec.Encode(w, t); err != nil {
		return err
	}
	if finish != nil {
		if err := finish(); err != nil {
			return err
		}
	}

	return store.Put(ctx, name, buf.Bytes())
}

// Read loads the blob stored under name, decompresses it according to the
// name's extension, and decodes the tree.
func Read(ctx context.Context, store blobstore.Store, name string) (*packedrtree.Tree, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	data, err := blobstore.ReadAll(blob)
	if err != nil {
		return nil, err
	}

	var r io.Reader = bytes.NewReader(data)

	switch CompressionForName(name) {
	case CompressionZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		defer zr.Close()
		r = zr
	case CompressionLZ4:
		r = lz4.NewReader(r)
	}

	return codec.Decode(r, name)
}
