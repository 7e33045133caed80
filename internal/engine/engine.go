// Package engine fills the dynamic-programming table bottom-up.
//
// Cell (t, v, S) holds the best release obtainable in the remaining t time
// units when standing at node v with the rate-positive nodes in S still
// available for activation. Layer t reads only layer t-1, so the engine fills
// one layer at a time: workers own disjoint node ranges inside a layer and the
// errgroup Wait between layers is the barrier.
package engine

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/specialistvlad/releaseplan/internal/ctxlog"
	"github.com/specialistvlad/releaseplan/internal/graph"
	"github.com/specialistvlad/releaseplan/internal/statespace"
	"golang.org/x/sync/errgroup"
)

type options struct {
	workers int
	limits  statespace.Limits
}

// Option configures Build.
type Option func(*options)

// WithWorkers sets the number of goroutines filling each layer. Values below
// one mean GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithLimits sets the size limits checked before allocation.
func WithLimits(l statespace.Limits) Option {
	return func(o *options) { o.limits = l }
}

// Build allocates and fills the table for layers 0..maxTime. It fails with
// statespace.ErrStateSpaceTooLarge before allocating when the table would be
// too big.
func Build(ctx context.Context, g *graph.Graph, maxTime int, opts ...Option) (*Table, error) {
	logger := ctxlog.FromContext(ctx)

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		o.workers = runtime.GOMAXPROCS(0)
	}

	space, err := statespace.New(g.Len(), g.RatePositive(), maxTime, o.limits)
	if err != nil {
		return nil, err
	}
	if err := space.CheckValues(g.TotalRate()); err != nil {
		return nil, err
	}

	logger.Debug("Allocating table.",
		"layers", space.Layers(),
		"nodes", space.Nodes,
		"rate_positive", space.RatePositive,
		"cells", space.Cells(),
		"workers", o.workers,
	)

	started := time.Now()
	tbl := &Table{
		space: space,
		cells: make([]int32, space.Cells()),
	}

	for t := 1; t <= maxTime; t++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("table build interrupted at layer %d: %w", t, err)
		}
		if err := tbl.fillLayer(ctx, g, t, o.workers); err != nil {
			return nil, fmt.Errorf("table build interrupted at layer %d: %w", t, err)
		}
		logger.Debug("Layer filled.", "t", t)
	}

	tbl.duration = time.Since(started)
	logger.Debug("Table built.", "cells", space.Cells(), "duration", tbl.duration)
	return tbl, nil
}

// fillLayer computes layer t from layer t-1, splitting nodes into contiguous
// ranges so that no two workers write the same cell.
func (tbl *Table) fillLayer(ctx context.Context, g *graph.Graph, t, workers int) error {
	nodes := tbl.space.Nodes
	if workers > nodes {
		workers = nodes
	}
	if workers < 1 {
		return nil
	}
	chunk := (nodes + workers - 1) / workers

	eg, egCtx := errgroup.WithContext(ctx)
	for lo := 0; lo < nodes; lo += chunk {
		lo, hi := lo, min(lo+chunk, nodes)
		eg.Go(func() error {
			for v := lo; v < hi; v++ {
				if err := egCtx.Err(); err != nil {
					return err
				}
				tbl.fillNode(g, t, v)
			}
			return nil
		})
	}
	return eg.Wait()
}

// fillNode computes every mask of cell row (t, v).
func (tbl *Table) fillNode(g *graph.Graph, t, v int) {
	s := tbl.space
	masks := s.Masks()
	prev := (t - 1) * s.LayerSize()
	row := t*s.LayerSize() + v*masks
	neighbors := g.Neighbors(v)

	activatable := s.IsRatePositive(v)
	var gain int32
	if activatable {
		gain = int32(g.Rate(v) * t)
	}

	for m := 0; m < masks; m++ {
		mask := statespace.Mask(m)
		best := int32(0)

		if activatable && mask.Has(v) {
			best = max(best, tbl.cells[prev+v*masks+int(mask.Without(v))]+gain)
		}
		for _, u := range neighbors {
			best = max(best, tbl.cells[prev+u*masks+m])
		}

		tbl.cells[row+m] = best
	}
}
