// Package hclconf provides the HCL implementation of config.Loader and an
// emitter that renders a config.Model back to HCL.
//
// A scenario file looks like:
//
//	scenario {
//	  start        = "AA"
//	  solo_minutes = 30
//	  duo_minutes  = 26
//	}
//
//	node "AA" {
//	  rate    = 0
//	  tunnels = ["DD", "II", "BB"]
//	}
package hclconf

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/releaseplan/internal/config"
	"github.com/specialistvlad/releaseplan/internal/ctxlog"
	"github.com/specialistvlad/releaseplan/internal/fsutil"
	"github.com/specialistvlad/releaseplan/internal/graph"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ErrInvalidConfig is wrapped by every decoding error.
var ErrInvalidConfig = errors.New("hclconf: invalid configuration")

// fileRoot is the set of top-level blocks a file may contain.
type fileRoot struct {
	Scenarios []*scenarioBlock `hcl:"scenario,block"`
	Nodes     []*nodeBlock     `hcl:"node,block"`
}

type scenarioBlock struct {
	Start       *string        `hcl:"start,optional"`
	SoloMinutes hcl.Expression `hcl:"solo_minutes,optional"`
	DuoMinutes  hcl.Expression `hcl:"duo_minutes,optional"`
	DefRange    hcl.Range      `hcl:",def_range"`
}

type nodeBlock struct {
	Name     string         `hcl:"name,label"`
	Rate     hcl.Expression `hcl:"rate"`
	Tunnels  []string       `hcl:"tunnels,optional"`
	DefRange hcl.Range      `hcl:",def_range"`
}

// Loader is the HCL implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new HCL loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads a single .hcl file, or every .hcl file below a directory in
// lexical order, into one model. At most one scenario block may appear across
// all files.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	files, err := fsutil.ExpandInputs(path, ".hcl")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no .hcl files found at %s", ErrInvalidConfig, path)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	d := newDecoder()
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
		if err := d.decode(file, src); err != nil {
			return nil, err
		}
	}

	model := d.model(path)
	logger.Debug("HCL loading complete.", "nodes", len(model.Nodes), "scenario", model.Scenario)
	return model, nil
}

// Decode parses a single in-memory HCL document.
func Decode(filename string, src []byte) (*config.Model, error) {
	d := newDecoder()
	if err := d.decode(filename, src); err != nil {
		return nil, err
	}
	return d.model(filename), nil
}

// decoder accumulates blocks across files.
type decoder struct {
	parser      *hclparse.Parser
	nodes       []graph.Record
	scenario    config.Scenario
	scenarioDef *hcl.Range
}

func newDecoder() *decoder {
	return &decoder{parser: hclparse.NewParser()}
}

func (d *decoder) model(source string) *config.Model {
	return &config.Model{Source: source, Nodes: d.nodes, Scenario: d.scenario}
}

func (d *decoder) decode(filename string, src []byte) error {
	file, diags := d.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return fmt.Errorf("%w: failed to parse HCL file %s: %w", ErrInvalidConfig, filename, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return fmt.Errorf("%w: failed to decode HCL file %s: %w", ErrInvalidConfig, filename, diags)
	}

	for _, sb := range root.Scenarios {
		if d.scenarioDef != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate \"scenario\" block",
				Detail:   fmt.Sprintf("A scenario block is already defined at %s.", d.scenarioDef),
				Subject:  sb.DefRange.Ptr(),
			})
			continue
		}
		def := sb.DefRange
		d.scenarioDef = &def
		diags = append(diags, d.decodeScenario(sb)...)
	}

	for _, nb := range root.Nodes {
		// The sign of a rate is left to graph.Build so both input formats
		// report negative rates the same way.
		rate, rateDiags := wholeNumber(nb.Rate, "rate")
		diags = append(diags, rateDiags...)
		record := graph.Record{Name: nb.Name, Tunnels: nb.Tunnels}
		if rate != nil {
			record.Rate = *rate
		}
		d.nodes = append(d.nodes, record)
	}

	if diags.HasErrors() {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, filename, diags)
	}
	return nil
}

func (d *decoder) decodeScenario(sb *scenarioBlock) hcl.Diagnostics {
	var diags hcl.Diagnostics
	if sb.Start != nil {
		d.scenario.Start = *sb.Start
	}
	solo, soloDiags := minutes(sb.SoloMinutes, "solo_minutes")
	diags = append(diags, soloDiags...)
	duo, duoDiags := minutes(sb.DuoMinutes, "duo_minutes")
	diags = append(diags, duoDiags...)
	d.scenario.SoloMinutes = solo
	d.scenario.DuoMinutes = duo
	return diags
}

// minutes is wholeNumber restricted to budgets, which must not be negative.
func minutes(expr hcl.Expression, attr string) (*int, hcl.Diagnostics) {
	n, diags := wholeNumber(expr, attr)
	if n != nil && *n < 0 {
		return nil, append(diags, invalid(expr, attr, fmt.Sprintf("must not be negative, got %d", *n)))
	}
	return n, diags
}

// wholeNumber evaluates an optional expression that must hold a whole number.
// It returns nil when the attribute was not written or is null, so callers
// can tell an explicit zero from an omission.
func wholeNumber(expr hcl.Expression, attr string) (*int, hcl.Diagnostics) {
	if !isExprDefined(expr) {
		return nil, nil
	}

	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, nil
	}

	var n int
	if val.Type() != cty.Number {
		return nil, hcl.Diagnostics{invalid(expr, attr, fmt.Sprintf("must be a number, got %s", val.Type().FriendlyName()))}
	}
	if err := gocty.FromCtyValue(val, &n); err != nil {
		return nil, hcl.Diagnostics{invalid(expr, attr, err.Error())}
	}
	return &n, nil
}

func invalid(expr hcl.Expression, attr, detail string) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  fmt.Sprintf("Invalid %q value", attr),
		Detail:   fmt.Sprintf("The %q attribute %s.", attr, detail),
		Subject:  expr.Range().Ptr(),
	}
}

// isExprDefined reports whether an optional attribute was actually written.
// gohcl fills omitted optional expressions with a zero-width placeholder, so
// a nil check alone is not enough.
func isExprDefined(expr hcl.Expression) bool {
	if expr == nil {
		return false
	}
	r := expr.Range()
	return r.End.Byte > r.Start.Byte
}
