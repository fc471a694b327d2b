package frac_test

import (
	"testing"

	"github.com/fermion-go/fermion/frac"
	"github.com/stretchr/testify/assert"
)

func TestIntersect(t *testing.T) {
	a := frac.NewSpan(frac.FromInt(0), frac.New(3, 2))
	b := frac.NewSpan(frac.FromInt(1), frac.FromInt(2))
	got, ok := a.Intersect(b)
	assert.True(t, ok)
	assert.Equal(t, frac.FromInt(1), got.Begin)
	assert.Equal(t, frac.New(3, 2), got.End)
}

func TestIntersectDisjoint(t *testing.T) {
	a := frac.NewSpan(frac.FromInt(0), frac.FromInt(1))
	b := frac.NewSpan(frac.FromInt(2), frac.FromInt(3))
	_, ok := a.Intersect(b)
	assert.False(t, ok)
}

func TestSpanCyclesSplitsAtBoundaries(t *testing.T) {
	s := frac.NewSpan(frac.New(1, 2), frac.New(5, 2))
	cycles := s.SpanCycles()
	assert.Len(t, cycles, 3)
	assert.Equal(t, frac.New(1, 2), cycles[0].Begin)
	assert.Equal(t, frac.FromInt(1), cycles[0].End)
	assert.Equal(t, frac.FromInt(1), cycles[1].Begin)
	assert.Equal(t, frac.FromInt(2), cycles[1].End)
	assert.Equal(t, frac.FromInt(2), cycles[2].Begin)
	assert.Equal(t, frac.New(5, 2), cycles[2].End)
}

func TestSpanCyclesEmptySpan(t *testing.T) {
	s := frac.NewSpan(frac.FromInt(1), frac.FromInt(1))
	cycles := s.SpanCycles()
	assert.Len(t, cycles, 1)
	assert.True(t, cycles[0].Empty())
}
