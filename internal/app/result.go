package app

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/specialistvlad/releaseplan/internal/search"
)

// Result is the report of one run.
type Result struct {
	Start       string `json:"start"`
	SoloMinutes int    `json:"solo_minutes"`
	DuoMinutes  int    `json:"duo_minutes"`

	Solo int `json:"first"`
	Duo  int `json:"second"`

	Nodes         int           `json:"nodes"`
	RatePositive  int           `json:"rate_positive"`
	Cells         int64         `json:"cells"`
	BuildDuration time.Duration `json:"build_duration_ns"`

	// Plan is only filled when the search verified the table.
	Plan []search.Step `json:"plan,omitempty"`
}

// Write renders the result as "first = N" / "second = N" lines or as JSON.
func (r *Result) Write(w io.Writer, format string) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("writing result: %w", err)
		}
		return nil
	}
	if _, err := fmt.Fprintf(w, "first = %d\nsecond = %d\n", r.Solo, r.Duo); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}
	return nil
}
