// Command rtree-bulkload builds a packed R-tree from polygon data and
// writes the serialized tree.
//
// Usage:
//
//	rtree-bulkload [flags] <coords-file> <offsets-file> <tree-dest>
//
// The coords file holds one "x,y" point per line; the offsets file one
// "id,start,end" polygon record per line (inclusive indices into the coords
// file). The destination may be a local path, s3://bucket/key or
// minio://endpoint/bucket/key, with ".zst" or ".lz4" enabling compression.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/hupe1980/packedrtree"
	"github.com/hupe1980/packedrtree/dataset"
	"github.com/hupe1980/packedrtree/internal/cli"
	"github.com/hupe1980/packedrtree/treefile"
)

var (
	minFanout = flag.Int("min-fanout", packedrtree.DefaultOptions.MinFanout, "minimum children per internal node")
	maxFanout = flag.Int("max-fanout", packedrtree.DefaultOptions.MaxFanout, "maximum children per internal node")
	rateLimit = flag.Int("rate-limit", 0, "remote store throughput in bytes/sec (0 = unlimited)")
	verbose   = flag.Bool("v", false, "enable debug logging")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <coords-file> <offsets-file> <tree-dest>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 3 {
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := packedrtree.NewTextLogger(level)

	ctx := context.Background()
	coordsFile, offsetsFile, dest := flag.Arg(0), flag.Arg(1), flag.Arg(2)

	coords, err := dataset.ReadCoords(coordsFile)
	if err != nil {
		fatal(logger, "read coords", err)
	}

	offsets, err := dataset.ReadOffsets(offsetsFile)
	if err != nil {
		fatal(logger, "read offsets", err)
	}

	entries, err := dataset.Entries(coords, offsets, offsetsFile)
	if err != nil {
		fatal(logger, "compute entry MBRs", err)
	}

	tree, err := packedrtree.BulkLoad(entries,
		packedrtree.WithFanout(*minFanout, *maxFanout),
		packedrtree.WithLogger(logger),
	)
	if err != nil {
		fatal(logger, "bulk load", err)
	}

	store, name, err := cli.StoreFor(ctx, dest, *rateLimit)
	if err != nil {
		fatal(logger, "resolve tree destination", err)
	}
	if err := treefile.Write(ctx, store, name, tree); err != nil {
		fatal(logger, "write tree", err)
	}

	logger.Info("tree written", "entries", len(entries), "height", tree.Height(), "dest", dest)
}

func fatal(logger *packedrtree.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}
