// Command rtree-knn answers a batch of k-nearest-neighbor queries against a
// serialized tree.
//
// Usage:
//
//	rtree-knn [flags] <tree-file> <queries-file> <k>
//
// The queries file holds one point per line, "x y". One line is printed per
// query: "<index> (<count>): <ids...>", ids ordered by increasing distance.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"

	"github.com/hupe1980/packedrtree"
	"github.com/hupe1980/packedrtree/dataset"
	"github.com/hupe1980/packedrtree/internal/cli"
	"github.com/hupe1980/packedrtree/treefile"
	"golang.org/x/sync/errgroup"
)

var (
	rateLimit = flag.Int("rate-limit", 0, "remote store throughput in bytes/sec (0 = unlimited)")
	verbose   = flag.Bool("v", false, "enable debug logging")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <tree-file> <queries-file> <k>\n", os.Args[0])
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
	treeLoc, queriesFile := flag.Arg(0), flag.Arg(1)

	k, err := strconv.Atoi(flag.Arg(2))
	if err != nil || k <= 0 {
		fatal(logger, "parse k", fmt.Errorf("k must be a positive integer, got %q", flag.Arg(2)))
	}
	logger = logger.WithK(k)

	store, name, err := cli.StoreFor(ctx, treeLoc, *rateLimit)
	if err != nil {
		fatal(logger, "resolve tree location", err)
	}

	tree, err := treefile.Read(ctx, store, name)
	if errors.Is(err, packedrtree.ErrEmptyTree) {
		// An empty tree is a valid (if unusual) input: every query simply
		// has no results.
		logger.Warn("tree file holds no entries", "tree", treeLoc)
		tree = nil
	} else if err != nil {
		fatal(logger, "read tree", err)
	}

	queries, err := dataset.ReadPointQueries(queriesFile)
	if err != nil {
		fatal(logger, "read queries", err)
	}

	// The tree is read-only, so queries fan out freely; each goroutine
	// writes its own result slot to keep output in file order.
	results := make([][]int, len(queries))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			ids, err := tree.Nearest(q.X, q.Y, k)
			if err != nil {
				return fmt.Errorf("query %d: %w", i, err)
			}
			results[i] = ids
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fatal(logger, "run queries", err)
	}

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	for i, ids := range results {
		fmt.Fprintln(w, cli.FormatResult(i, ids))
	}
}

func fatal(logger *packedrtree.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}
