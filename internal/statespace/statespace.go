// Package statespace defines the shape of the dynamic-programming table: time
// remaining × current node × opened-set mask, flattened into one slice index.
// It also owns the size limits checked before any table is allocated.
package statespace

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrStateSpaceTooLarge is returned when a table would exceed the
	// configured limits or its values could overflow the cell type.
	ErrStateSpaceTooLarge = errors.New("statespace: state space too large")

	// ErrInvalidTime is returned for a negative time horizon.
	ErrInvalidTime = errors.New("statespace: invalid time horizon")
)

const (
	// DefaultMaxRatePositive bounds k, the number of mask bits.
	DefaultMaxRatePositive = 20
	// DefaultMaxCells bounds the total number of table cells (1 GiB of int32).
	DefaultMaxCells int64 = 1 << 28

	// hardMaxRatePositive is the width of Mask minus one sign-safe bit.
	hardMaxRatePositive = 31
)

// Limits caps the table size. Zero fields fall back to the defaults.
type Limits struct {
	MaxRatePositive int
	MaxCells        int64
}

func (l Limits) withDefaults() Limits {
	if l.MaxRatePositive <= 0 {
		l.MaxRatePositive = DefaultMaxRatePositive
	}
	if l.MaxRatePositive > hardMaxRatePositive {
		l.MaxRatePositive = hardMaxRatePositive
	}
	if l.MaxCells <= 0 {
		l.MaxCells = DefaultMaxCells
	}
	return l
}

// Space is the validated shape of a table with layers t = 0..MaxTime.
type Space struct {
	MaxTime      int
	Nodes        int
	RatePositive int
}

// New validates the dimensions against limits. It never allocates the table.
func New(nodes, ratePositive, maxTime int, limits Limits) (Space, error) {
	limits = limits.withDefaults()

	if maxTime < 0 {
		return Space{}, fmt.Errorf("%w: %d", ErrInvalidTime, maxTime)
	}
	if ratePositive > limits.MaxRatePositive {
		return Space{}, fmt.Errorf("%w: %d rate-positive nodes, limit is %d",
			ErrStateSpaceTooLarge, ratePositive, limits.MaxRatePositive)
	}

	s := Space{MaxTime: maxTime, Nodes: nodes, RatePositive: ratePositive}
	if cells := s.Cells(); cells > limits.MaxCells {
		return Space{}, fmt.Errorf("%w: %d cells, limit is %d", ErrStateSpaceTooLarge, cells, limits.MaxCells)
	}
	return s, nil
}

// CheckValues rejects a space whose largest possible cell value,
// totalRate*MaxTime, does not fit the int32 cell type. A negative total can
// only come from a wrapped sum and is rejected as well.
func (s Space) CheckValues(totalRate int) error {
	if totalRate < 0 || totalRate > math.MaxInt32 {
		return fmt.Errorf("%w: total rate %d does not fit int32 cells", ErrStateSpaceTooLarge, totalRate)
	}
	if s.MaxTime > 0 && int64(totalRate) > math.MaxInt32/int64(s.MaxTime) {
		return fmt.Errorf("%w: total rate %d over %d time units overflows int32 cells",
			ErrStateSpaceTooLarge, totalRate, s.MaxTime)
	}
	return nil
}

// Layers is the number of time layers, MaxTime+1.
func (s Space) Layers() int { return s.MaxTime + 1 }

// Masks is the number of opened-set masks, 2^k.
func (s Space) Masks() int { return 1 << s.RatePositive }

// Full is the mask with every rate-positive bit set.
func (s Space) Full() Mask { return Mask(s.Masks() - 1) }

// LayerSize is the number of cells in one time layer.
func (s Space) LayerSize() int { return s.Nodes * s.Masks() }

// Cells is the total number of table cells.
func (s Space) Cells() int64 {
	return int64(s.Layers()) * int64(s.Nodes) * int64(s.Masks())
}

// Index flattens (t, v, m) into a slice offset.
func (s Space) Index(t, v int, m Mask) int {
	return t*s.LayerSize() + v*s.Masks() + int(m)
}

// IsRatePositive reports whether node v owns a mask bit.
func (s Space) IsRatePositive(v int) bool { return v < s.RatePositive }
