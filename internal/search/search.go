// Package search is a depth-first branch-and-bound alternative to the table
// engine. It walks the compressed distance matrix, so each step is "travel to
// a rate-positive node and activate it" rather than a single hop. Its answers
// are checked against the table engine in tests and, with -verify, at run time.
package search

import (
	"github.com/specialistvlad/releaseplan/internal/graph"
	"github.com/specialistvlad/releaseplan/internal/statespace"
)

// Step is one activation in a plan.
type Step struct {
	Node string `json:"node"`
	// Minute is the number of time units elapsed once the activation is done.
	Minute int `json:"minute"`
}

// Plan is the best single-agent activation order.
type Plan struct {
	Value int
	Steps []Step
}

// searcher holds the per-query state of one walk.
type searcher struct {
	g      *graph.Graph
	d      *graph.Distances
	rates  []int
	budget int

	// solo mode
	best     int
	path     []int
	bestPath []int
	prune    bool

	// subset mode; nil in solo mode
	bySubset []int
}

func newSearcher(g *graph.Graph, budget int) *searcher {
	d := g.Distances()
	rates := make([]int, g.RatePositive())
	for i := range rates {
		rates[i] = g.Rate(d.Keys[i])
	}
	return &searcher{g: g, d: d, rates: rates, budget: budget}
}

// Solo returns the best single-agent plan within budget time units.
func Solo(g *graph.Graph, budget int) Plan {
	if budget < 1 || g.RatePositive() == 0 {
		return Plan{}
	}
	s := newSearcher(g, budget)
	s.prune = true
	s.walk(s.d.Start, budget, 0, 0)

	plan := Plan{Value: s.best}
	remaining := budget
	pos := s.d.Start
	for _, next := range s.bestPath {
		remaining -= s.d.Hops(pos, next) + 1
		plan.Steps = append(plan.Steps, Step{Node: g.Node(s.d.Keys[next]).Name, Minute: budget - remaining})
		pos = next
	}
	return plan
}

// Duo returns the best combined release of two agents with budget time units
// each and disjoint activation sets.
func Duo(g *graph.Graph, budget int) int {
	if budget < 1 || g.RatePositive() == 0 {
		return 0
	}
	s := newSearcher(g, budget)
	s.bySubset = make([]int, 1<<g.RatePositive())
	s.walk(s.d.Start, budget, 0, 0)

	// Lift each entry to "best using any subset of this set".
	k := g.RatePositive()
	best := s.bySubset
	for bit := 0; bit < k; bit++ {
		for m := range best {
			if statespace.Mask(m).Has(bit) {
				best[m] = max(best[m], best[statespace.Mask(m).Without(bit)])
			}
		}
	}

	full := statespace.Mask(len(best) - 1)
	total := 0
	for m := 0; m < len(best)/2; m++ {
		total = max(total, best[m]+best[statespace.Mask(m).Complement(full)])
	}
	return total
}

// walk extends the current branch from key position pos with remaining time
// units left, having opened the nodes in opened for a running score.
func (s *searcher) walk(pos, remaining int, opened statespace.Mask, score int) {
	if s.bySubset != nil {
		s.bySubset[opened] = max(s.bySubset[opened], score)
	}
	if score > s.best {
		s.best = score
		s.bestPath = append(s.bestPath[:0], s.path...)
	}
	if s.prune && score+s.bound(pos, remaining, opened) <= s.best {
		return
	}

	for next, rate := range s.rates {
		if opened.Has(next) {
			continue
		}
		hops := s.d.Hops(pos, next)
		if hops == graph.Unreachable {
			continue
		}
		left := remaining - hops - 1
		if left <= 0 {
			continue
		}
		s.path = append(s.path, next)
		s.walk(next, left, opened.With(next), score+rate*left)
		s.path = s.path[:len(s.path)-1]
	}
}

// bound is an optimistic estimate of what is still obtainable: every unopened
// node is credited as if it were reached directly from pos.
func (s *searcher) bound(pos, remaining int, opened statespace.Mask) int {
	total := 0
	for next, rate := range s.rates {
		if opened.Has(next) {
			continue
		}
		hops := s.d.Hops(pos, next)
		if hops == graph.Unreachable {
			continue
		}
		if left := remaining - hops - 1; left > 0 {
			total += rate * left
		}
	}
	return total
}
