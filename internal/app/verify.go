package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/releaseplan/internal/graph"
	"github.com/specialistvlad/releaseplan/internal/search"
	"github.com/specialistvlad/releaseplan/internal/statespace"
)

// ErrVerifyMismatch is returned when the branch-and-bound search disagrees
// with the table.
var ErrVerifyMismatch = errors.New("app: search disagrees with table")

// verify reruns both queries with the branch-and-bound search, replays the
// single-agent plan it found and attaches the plan to the result.
func (a *App) verify(g *graph.Graph, soloMinutes, duoMinutes int, result *Result) error {
	plan := search.Solo(g, soloMinutes)
	duo := search.Duo(g, duoMinutes)
	if plan.Value != result.Solo || duo != result.Duo {
		a.metrics.ObserveMismatch()
		return fmt.Errorf("%w: table solo=%d duo=%d, search solo=%d duo=%d",
			ErrVerifyMismatch, result.Solo, result.Duo, plan.Value, duo)
	}

	opened, replayed, err := replayPlan(g, soloMinutes, plan.Steps)
	if err == nil && replayed != plan.Value {
		err = fmt.Errorf("plan releases %d, search reported %d", replayed, plan.Value)
	}
	if err != nil {
		a.metrics.ObserveMismatch()
		return fmt.Errorf("%w: %w", ErrVerifyMismatch, err)
	}

	result.Plan = plan.Steps
	a.logger.Info("Search agrees with table.", "solo", plan.Value, "duo", duo, "opened", opened.Len())
	return nil
}

// replayPlan walks the steps of a single-agent plan and returns the set of
// activated nodes and the release they earn within budget. Each step must
// name a distinct rate-positive node at a strictly later minute.
func replayPlan(g *graph.Graph, budget int, steps []search.Step) (statespace.Mask, int, error) {
	var opened statespace.Mask
	total, last := 0, 0
	for _, step := range steps {
		idx, ok := g.Index(step.Node)
		if !ok || idx >= g.RatePositive() {
			return 0, 0, fmt.Errorf("plan activates %q, which is not a rate-positive node", step.Node)
		}
		if opened.Has(idx) {
			return 0, 0, fmt.Errorf("plan activates %q twice", step.Node)
		}
		if step.Minute <= last || step.Minute >= budget {
			return 0, 0, fmt.Errorf("plan activates %q at minute %d, outside (%d, %d)", step.Node, step.Minute, last, budget)
		}
		opened = opened.With(idx)
		total += g.Rate(idx) * (budget - step.Minute)
		last = step.Minute
	}
	return opened, total, nil
}
