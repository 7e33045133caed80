package statespace

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("reference shape", func(t *testing.T) {
		s, err := New(10, 6, 30, Limits{})
		require.NoError(t, err)

		assert.Equal(t, 31, s.Layers())
		assert.Equal(t, 64, s.Masks())
		assert.Equal(t, Mask(63), s.Full())
		assert.Equal(t, 640, s.LayerSize())
		assert.Equal(t, int64(31*10*64), s.Cells())
	})

	t.Run("no rate-positive nodes has a single mask", func(t *testing.T) {
		s, err := New(3, 0, 5, Limits{})
		require.NoError(t, err)
		assert.Equal(t, 1, s.Masks())
		assert.Equal(t, Mask(0), s.Full())
	})

	t.Run("too many rate-positive nodes", func(t *testing.T) {
		_, err := New(30, 21, 30, Limits{})
		assert.ErrorIs(t, err, ErrStateSpaceTooLarge)
		assert.ErrorContains(t, err, "limit is 20")
	})

	t.Run("configured bound is honoured", func(t *testing.T) {
		_, err := New(10, 6, 30, Limits{MaxRatePositive: 5})
		assert.ErrorIs(t, err, ErrStateSpaceTooLarge)
	})

	t.Run("cell ceiling", func(t *testing.T) {
		_, err := New(10, 6, 30, Limits{MaxCells: 1000})
		assert.ErrorIs(t, err, ErrStateSpaceTooLarge)
		assert.ErrorContains(t, err, "cells")
	})

	t.Run("negative time", func(t *testing.T) {
		_, err := New(10, 6, -1, Limits{})
		assert.ErrorIs(t, err, ErrInvalidTime)
	})
}

func TestSpace_Index(t *testing.T) {
	s, err := New(3, 2, 2, Limits{})
	require.NoError(t, err)

	seen := make(map[int]bool)
	for tt := 0; tt < s.Layers(); tt++ {
		for v := 0; v < s.Nodes; v++ {
			for m := Mask(0); int(m) < s.Masks(); m++ {
				idx := s.Index(tt, v, m)
				require.False(t, seen[idx], "index %d reused", idx)
				require.Less(t, idx, int(s.Cells()))
				seen[idx] = true
			}
		}
	}
	assert.Len(t, seen, int(s.Cells()))
}

func TestSpace_CheckValues(t *testing.T) {
	s, err := New(2, 1, 30, Limits{})
	require.NoError(t, err)

	assert.NoError(t, s.CheckValues(1000))
	assert.ErrorIs(t, s.CheckValues(1<<30), ErrStateSpaceTooLarge)
	assert.ErrorIs(t, s.CheckValues(math.MinInt), ErrStateSpaceTooLarge)
	assert.ErrorIs(t, s.CheckValues(1<<62), ErrStateSpaceTooLarge)

	zero, err := New(2, 1, 0, Limits{})
	require.NoError(t, err)
	assert.NoError(t, zero.CheckValues(math.MaxInt32))
	assert.ErrorIs(t, zero.CheckValues(-1), ErrStateSpaceTooLarge)
}

func TestMask(t *testing.T) {
	var m Mask
	m = m.With(0).With(3)

	assert.True(t, m.Has(0))
	assert.False(t, m.Has(1))
	assert.True(t, m.Has(3))
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, Mask(0b1000), m.Without(0))
	assert.Equal(t, Mask(0b0110), m.Complement(0b1111))
	assert.Equal(t, Mask(1<<5), Bit(5))
}
