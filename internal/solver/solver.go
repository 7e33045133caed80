// Package solver answers the single-agent and two-agent queries from a filled
// table. It only reads the table; it never builds one.
package solver

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/specialistvlad/releaseplan/internal/ctxlog"
	"github.com/specialistvlad/releaseplan/internal/engine"
	"github.com/specialistvlad/releaseplan/internal/graph"
	"github.com/specialistvlad/releaseplan/internal/statespace"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrBudgetExceedsTable is returned when a budget needs layers the table
	// was not built with.
	ErrBudgetExceedsTable = errors.New("solver: budget exceeds table horizon")

	// ErrTableMismatch is returned when the table was built for another graph.
	ErrTableMismatch = errors.New("solver: table does not match graph")
)

// minShard keeps tiny mask ranges on a single goroutine.
const minShard = 1 << 10

type options struct {
	workers int
}

// Option configures Second.
type Option func(*options)

// WithWorkers sets the number of goroutines scanning mask pairs. Values below
// one mean GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// First returns the best single-agent release for the budget: cell
// (budget-1, start, full mask). Budgets below one yield zero.
func First(tbl *engine.Table, g *graph.Graph, budget int) (int, error) {
	layer, ok, err := layerFor(tbl, g, budget)
	if err != nil || !ok {
		return 0, err
	}
	return tbl.Value(layer, g.Start(), tbl.Space().Full()), nil
}

// Second returns the best combined release of two agents that each get the
// full budget and split the rate-positive nodes between them. Only masks
// below 2^(k-1) are scanned: the top bit always goes to the complement, which
// visits every unordered pair exactly once.
func Second(ctx context.Context, tbl *engine.Table, g *graph.Graph, budget int, opts ...Option) (int, error) {
	layer, ok, err := layerFor(tbl, g, budget)
	if err != nil || !ok {
		return 0, err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		o.workers = runtime.GOMAXPROCS(0)
	}

	space := tbl.Space()
	half := space.Masks() / 2
	if half == 0 {
		// k == 0: the only split is (empty, empty).
		half = 1
	}

	shard := max((half+o.workers-1)/o.workers, minShard)
	maxima := make([]int, (half+shard-1)/shard)

	eg, egCtx := errgroup.WithContext(ctx)
	for i := range maxima {
		lo, hi := i*shard, min((i+1)*shard, half)
		eg.Go(func() error {
			// Cancellation is checked between blocks of minShard masks.
			for blk := lo; blk < hi; blk += minShard {
				if err := egCtx.Err(); err != nil {
					return err
				}
				maxima[i] = max(maxima[i], bestSplit(tbl, g.Start(), layer, space.Full(), blk, min(blk+minShard, hi)))
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return 0, fmt.Errorf("split search interrupted: %w", err)
	}

	best := 0
	for _, m := range maxima {
		best = max(best, m)
	}
	ctxlog.FromContext(ctx).Debug("Split search finished.", "budget", budget, "pairs", half, "shards", len(maxima), "best", best)
	return best, nil
}

// SecondFullScan is Second without the symmetry shortcut: it scans every mask
// and its complement on one goroutine. It exists to check that shortcut.
func SecondFullScan(tbl *engine.Table, g *graph.Graph, budget int) (int, error) {
	layer, ok, err := layerFor(tbl, g, budget)
	if err != nil || !ok {
		return 0, err
	}
	space := tbl.Space()
	return bestSplit(tbl, g.Start(), layer, space.Full(), 0, space.Masks()), nil
}

// bestSplit scans masks in [lo, hi).
func bestSplit(tbl *engine.Table, start, layer int, full statespace.Mask, lo, hi int) int {
	best := 0
	for m := lo; m < hi; m++ {
		mask := statespace.Mask(m)
		best = max(best, tbl.Value(layer, start, mask)+tbl.Value(layer, start, mask.Complement(full)))
	}
	return best
}

// layerFor maps a budget onto the table layer to read. ok is false when the
// budget leaves no time to act, in which case the answer is zero.
func layerFor(tbl *engine.Table, g *graph.Graph, budget int) (layer int, ok bool, err error) {
	space := tbl.Space()
	if space.Nodes != g.Len() || space.RatePositive != g.RatePositive() {
		return 0, false, fmt.Errorf("%w: table has %d nodes/%d rate-positive, graph has %d/%d",
			ErrTableMismatch, space.Nodes, space.RatePositive, g.Len(), g.RatePositive())
	}
	if budget < 1 {
		return 0, false, nil
	}
	layer = budget - 1
	if layer > tbl.MaxTime() {
		return 0, false, fmt.Errorf("%w: budget %d needs layer %d, table holds 0..%d",
			ErrBudgetExceedsTable, budget, layer, tbl.MaxTime())
	}
	return layer, true, nil
}
