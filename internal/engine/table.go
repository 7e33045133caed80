package engine

import (
	"time"

	"github.com/specialistvlad/releaseplan/internal/statespace"
)

// Table is a filled, read-only dynamic-programming table.
type Table struct {
	space    statespace.Space
	cells    []int32
	duration time.Duration
}

// Space returns the table's shape.
func (tbl *Table) Space() statespace.Space { return tbl.space }

// MaxTime is the highest layer index held by the table.
func (tbl *Table) MaxTime() int { return tbl.space.MaxTime }

// Value reads cell (t, v, m). It panics on out-of-range coordinates, like a
// slice index would.
func (tbl *Table) Value(t, v int, m statespace.Mask) int {
	return int(tbl.cells[tbl.space.Index(t, v, m)])
}

// BuildDuration is the wall time spent filling the table.
func (tbl *Table) BuildDuration() time.Duration { return tbl.duration }
