package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/releaseplan/internal/ctxlog"
	"github.com/specialistvlad/releaseplan/internal/engine"
	"github.com/specialistvlad/releaseplan/internal/graph"
	"github.com/specialistvlad/releaseplan/internal/hclconf"
	"github.com/specialistvlad/releaseplan/internal/metrics"
	"github.com/specialistvlad/releaseplan/internal/solver"
)

// Run loads the input, answers both queries from one table and writes the
// report. With EmitHCL set it writes the resolved model as HCL instead and
// returns a nil Result.
func (a *App) Run(ctx context.Context) (_ *Result, err error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.ctx = ctx
	a.logger.Debug("App.Run method started.")

	a.healthCheckServer()
	defer func() {
		if cerr := a.closeHealthCheckServer(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	model, err := a.loader.Load(ctx, a.config.InputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load input: %w", err)
	}
	scenario := a.config.Scenario.Merge(model.Scenario).Merge(DefaultScenario)
	soloMinutes, duoMinutes := scenario.Budgets()
	a.logger.Debug("Scenario resolved.",
		"start", scenario.Start,
		"solo_minutes", soloMinutes,
		"duo_minutes", duoMinutes,
	)

	if a.config.EmitHCL {
		resolved := *model
		resolved.Scenario = scenario
		return nil, hclconf.Emit(a.outW, &resolved)
	}

	g, err := graph.Build(model.Nodes, scenario.Start)
	if err != nil {
		return nil, fmt.Errorf("failed to build graph: %w", err)
	}
	a.logger.Info("Graph built.", "nodes", g.Len(), "rate_positive", g.RatePositive(), "start", scenario.Start)

	horizon := max(soloMinutes, duoMinutes, 1) - 1
	tbl, err := engine.Build(ctx, g, horizon,
		engine.WithWorkers(a.config.Workers),
		engine.WithLimits(a.config.Limits),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build table: %w", err)
	}
	a.metrics.ObserveTable(tbl.Space().Cells(), tbl.BuildDuration())
	a.logger.Info("Table built.", "cells", tbl.Space().Cells(), "duration", tbl.BuildDuration())

	first, err := solver.First(tbl, g, soloMinutes)
	if err != nil {
		return nil, fmt.Errorf("single-agent query failed: %w", err)
	}
	a.metrics.ObserveSolve(metrics.ScenarioSolo, first)

	second, err := solver.Second(ctx, tbl, g, duoMinutes, solver.WithWorkers(a.config.Workers))
	if err != nil {
		return nil, fmt.Errorf("two-agent query failed: %w", err)
	}
	a.metrics.ObserveSolve(metrics.ScenarioDuo, second)

	result := &Result{
		Start:         scenario.Start,
		SoloMinutes:   soloMinutes,
		DuoMinutes:    duoMinutes,
		Solo:          first,
		Duo:           second,
		Nodes:         g.Len(),
		RatePositive:  g.RatePositive(),
		Cells:         tbl.Space().Cells(),
		BuildDuration: tbl.BuildDuration(),
	}

	if a.config.Verify {
		if err := a.verify(g, soloMinutes, duoMinutes, result); err != nil {
			return nil, err
		}
	}

	if err := result.Write(a.outW, a.config.OutputFormat); err != nil {
		return nil, err
	}
	a.logger.Debug("App.Run method finished.")
	return result, nil
}
