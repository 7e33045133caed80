// Package config defines the format-agnostic input model and the Loader
// interface implemented by the concrete input formats (package scan for the
// line format, package hclconf for HCL).
package config

import (
	"context"

	"github.com/specialistvlad/releaseplan/internal/graph"
)

// Model is everything a loader can extract from an input file.
type Model struct {
	// Source is the path the model was loaded from.
	Source string
	Nodes  []graph.Record
	// Scenario carries optional defaults declared by the file.
	Scenario Scenario
}

// Scenario is the set of run parameters an input file or the command line may
// declare. A nil budget is undeclared; an explicit zero is a valid budget.
type Scenario struct {
	Start       string
	SoloMinutes *int
	DuoMinutes  *int
}

// Minutes returns a declared budget of n time units.
func Minutes(n int) *int {
	return &n
}

// Loader reads one input file into the unified model.
type Loader interface {
	Load(ctx context.Context, path string) (*Model, error)
}

// Merge fills every unset field of s from fallback.
func (s Scenario) Merge(fallback Scenario) Scenario {
	if s.Start == "" {
		s.Start = fallback.Start
	}
	if s.SoloMinutes == nil {
		s.SoloMinutes = fallback.SoloMinutes
	}
	if s.DuoMinutes == nil {
		s.DuoMinutes = fallback.DuoMinutes
	}
	return s
}

// Budgets returns the solo and duo budgets, with undeclared ones as zero.
func (s Scenario) Budgets() (solo, duo int) {
	if s.SoloMinutes != nil {
		solo = *s.SoloMinutes
	}
	if s.DuoMinutes != nil {
		duo = *s.DuoMinutes
	}
	return solo, duo
}
