package frac_test

import (
	"testing"

	"github.com/fermion-go/fermion/frac"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestArithmetic(t *testing.T) {
	a := frac.New(1, 3)
	b := frac.New(1, 6)
	assert.Equal(t, frac.New(1, 2), a.Add(b))
	assert.Equal(t, frac.New(1, 6), a.Sub(b))
	assert.Equal(t, frac.New(1, 18), a.Mul(b))
	assert.Equal(t, frac.New(2, 1), a.Div(b))
}

func TestReduceNormalizesSign(t *testing.T) {
	f := frac.New(3, -4)
	assert.Equal(t, int64(-3), f.Num)
	assert.Equal(t, int64(4), f.Den)
}

func TestSamAndCyclePos(t *testing.T) {
	f := frac.New(7, 2) // 3.5
	require.Equal(t, int64(3), f.Sam().Num)
	assert.Equal(t, frac.Half, f.CyclePos())
}

func TestFloorCeilNegative(t *testing.T) {
	f := frac.New(-1, 2)
	assert.Equal(t, int64(-1), f.Floor())
	assert.Equal(t, int64(0), f.Ceil())
}

func TestOrdering(t *testing.T) {
	assert.True(t, frac.New(1, 3).Lt(frac.New(1, 2)))
	assert.True(t, frac.New(2, 4).Eq(frac.New(1, 2)))
}

// PropertyArithmeticMatchesFloat checks that rational arithmetic tracks the
// float64 approximation within tolerance across a wide range of fractions
// at subdivisions no finer than 1/1024, per the spec's precision budget.
func PropertyArithmeticMatchesFloat(t *rapid.T) {
	denLimit := int64(1024)
	n1 := rapid.Int64Range(-64, 64).Draw(t, "n1")
	d1 := rapid.Int64Range(1, denLimit).Draw(t, "d1")
	n2 := rapid.Int64Range(-64, 64).Draw(t, "n2")
	d2 := rapid.Int64Range(1, denLimit).Draw(t, "d2")

	a := frac.New(n1, d1)
	b := frac.New(n2, d2)

	sum := a.Add(b)
	want := a.Float() + b.Float()
	got := sum.Float()
	diff := want - got
	if diff < 0 {
		diff = -diff
	}
	if diff > 1e-9 {
		t.Fatalf("fraction add diverged from float: %v vs %v", want, got)
	}
}

func TestPropertyArithmeticMatchesFloat(t *testing.T) {
	rapid.Check(t, PropertyArithmeticMatchesFloat)
}
