package pattern_test

import (
	"sort"
	"testing"

	"github.com/fermion-go/fermion/frac"
	"github.com/fermion-go/fermion/pattern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullCycle(n int64) pattern.State {
	return pattern.State{Span: frac.NewSpan(frac.FromInt(0), frac.FromInt(n))}
}

func sortHaps[T any](haps []pattern.Hap[T]) {
	sort.Slice(haps, func(i, j int) bool {
		return haps[i].Part.Begin.Lt(haps[j].Part.Begin)
	})
}

func TestPureOneEventPerCycle(t *testing.T) {
	p := pattern.Pure("bd")
	haps := p.Query(fullCycle(3))
	require.Len(t, haps, 3)
	sortHaps(haps)
	for i, h := range haps {
		assert.Equal(t, "bd", h.Value)
		assert.Equal(t, frac.FromInt(int64(i)), h.Whole.Begin)
		assert.Equal(t, frac.FromInt(int64(i+1)), h.Whole.End)
	}
}

func TestSilenceIsAlwaysEmpty(t *testing.T) {
	p := pattern.Silence[string]()
	assert.Empty(t, p.Query(fullCycle(4)))
}

func TestFromSequenceEvenSpacing(t *testing.T) {
	p := pattern.FromSequence([]string{"a", "b", "c", "d"})
	haps := p.Query(fullCycle(1))
	require.Len(t, haps, 4)
	sortHaps(haps)
	want := []string{"a", "b", "c", "d"}
	for i, h := range haps {
		assert.Equal(t, want[i], h.Value)
		assert.Equal(t, frac.New(int64(i), 4), h.Whole.Begin)
	}
}

func TestStackUnionsChildren(t *testing.T) {
	p := pattern.Stack(pattern.Pure("bd"), pattern.Pure("sn"))
	haps := p.Query(fullCycle(1))
	assert.Len(t, haps, 2)
}

// P1 Locality: query(s1) == query(s2) clipped to s1, for s1 subset of s2.
func TestLocality(t *testing.T) {
	p := pattern.FromSequence([]string{"a", "b", "c", "d"})
	full := p.Query(fullCycle(1))

	s1 := frac.NewSpan(frac.New(1, 4), frac.New(3, 4))
	sub := p.Query(pattern.State{Span: s1})

	var wantClipped []pattern.Hap[string]
	for _, h := range full {
		part, ok := h.Part.Intersect(s1)
		if !ok {
			continue
		}
		h.Part = part
		wantClipped = append(wantClipped, h)
	}
	sortHaps(sub)
	sortHaps(wantClipped)
	require.Len(t, sub, len(wantClipped))
	for i := range sub {
		assert.Equal(t, wantClipped[i].Value, sub[i].Value)
		assert.Equal(t, wantClipped[i].Part, sub[i].Part)
	}
}

// P2 Fast/slow round trip.
func TestFastSlowRoundTrip(t *testing.T) {
	p := pattern.FromSequence([]string{"a", "b", "c"})
	rt := pattern.Slow(pattern.Fast(p, frac.New(3, 1)), frac.New(3, 1))
	a := p.Query(fullCycle(2))
	b := rt.Query(fullCycle(2))
	sortHaps(a)
	sortHaps(b)
	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].Value, b[i].Value)
		assert.Equal(t, a[i].Whole, b[i].Whole)
	}
}

// P3 Reverse involution.
func TestRevInvolution(t *testing.T) {
	p := pattern.FromSequence([]string{"a", "b", "c", "d"})
	rr := pattern.Rev(pattern.Rev(p))
	a := p.Query(fullCycle(2))
	b := rr.Query(fullCycle(2))
	sortHaps(a)
	sortHaps(b)
	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].Value, b[i].Value)
		assert.Equal(t, a[i].Whole, b[i].Whole)
	}
}

func TestRevOrderWithinCycle(t *testing.T) {
	p := pattern.FromSequence([]string{"bd", "sn"})
	rp := pattern.Rev(p)
	haps := rp.Query(fullCycle(1))
	sortHaps(haps)
	require.Len(t, haps, 2)
	assert.Equal(t, "sn", haps[0].Value)
	assert.Equal(t, "bd", haps[1].Value)
	assert.Equal(t, haps[0].Whole.Duration(), haps[1].Whole.Duration())
}

// P4 Zoom/compress inverse within queried range.
func TestZoomCompressInverse(t *testing.T) {
	p := pattern.FromSequence([]string{"a", "b", "c", "d"})
	a, b := frac.New(1, 4), frac.New(3, 4)
	roundTrip := pattern.Compress(pattern.Zoom(p, a, b), a, b)

	window := frac.NewSpan(a, b)
	want := p.Query(pattern.State{Span: window})
	got := roundTrip.Query(pattern.State{Span: window})
	sortHaps(want)
	sortHaps(got)
	require.Equal(t, len(want), len(got))
	for i := range want {
		assert.Equal(t, want[i].Value, got[i].Value)
	}
}

// P5 Euclidean count and rotation-equivariance.
func TestEuclideanCount(t *testing.T) {
	for _, tc := range []struct{ k, n int }{{3, 8}, {5, 8}, {2, 5}} {
		p := pattern.Euclid(tc.k, tc.n, 0)
		haps := p.Query(fullCycle(1))
		count := 0
		for _, h := range haps {
			if h.Value {
				count++
			}
		}
		min := tc.k
		if tc.n < min {
			min = tc.n
		}
		assert.Equal(t, min, count, "k=%d n=%d", tc.k, tc.n)
	}
}

func TestEuclideanRotationEquivariant(t *testing.T) {
	base := pattern.Bjorklund(3, 8)
	rotated := pattern.Euclid(3, 8, 1).Query(fullCycle(1))
	sortHaps(rotated)
	for i, h := range rotated {
		expectIdx := (i + 1) % 8
		assert.Equal(t, base[expectIdx], h.Value)
	}
}

func TestEuclideanEdgeCases(t *testing.T) {
	allOn := pattern.Bjorklund(9, 8)
	for _, b := range allOn {
		assert.True(t, b)
	}
	allOff := pattern.Bjorklund(0, 8)
	for _, b := range allOff {
		assert.False(t, b)
	}
}

func TestEveryAppliesOnMatchingCycles(t *testing.T) {
	p := pattern.Pure("bd")
	transformed := pattern.Every(p, 2, func(p pattern.Pattern[string]) pattern.Pattern[string] {
		return pattern.Map(p, func(string) string { return "sn" })
	})
	haps := transformed.Query(fullCycle(4))
	byCycle := map[int64]string{}
	for _, h := range haps {
		byCycle[h.Whole.Begin.Floor()] = h.Value
	}
	assert.Equal(t, "sn", byCycle[0])
	assert.Equal(t, "bd", byCycle[1])
	assert.Equal(t, "sn", byCycle[2])
	assert.Equal(t, "bd", byCycle[3])
}

func TestDegradeByIsDeterministic(t *testing.T) {
	p := pattern.FromSequence(make([]int, 16))
	d1 := pattern.DegradeBy(p, 0.5)
	d2 := pattern.DegradeBy(p, 0.5)
	h1 := d1.Query(fullCycle(1))
	h2 := d2.Query(fullCycle(1))
	require.Equal(t, len(h1), len(h2))
	for i := range h1 {
		assert.Equal(t, h1[i].Part, h2[i].Part)
	}
}

func TestStutterSubdividesEvent(t *testing.T) {
	p := pattern.Pure("bd")
	s := pattern.Stutter(p, 4)
	haps := s.Query(fullCycle(1))
	require.Len(t, haps, 4)
	sortHaps(haps)
	for i, h := range haps {
		assert.Equal(t, frac.New(int64(i), 4), h.Whole.Begin)
	}
}

func TestStructUsesBoolForRhythm(t *testing.T) {
	rhythm := pattern.FromSequence([]bool{true, false, true, false})
	vals := pattern.Pure("bd")
	p := pattern.Struct(rhythm, vals)
	haps := p.Query(fullCycle(1))
	assert.Len(t, haps, 2)
}

func TestCombineLeftStructure(t *testing.T) {
	a := pattern.FromSequence([]float64{1, 2})
	b := pattern.Pure(10.0)
	sum := pattern.Add(a, b, pattern.StructLeft)
	haps := sum.Query(fullCycle(1))
	sortHaps(haps)
	require.Len(t, haps, 2)
	assert.Equal(t, 11.0, haps[0].Value)
	assert.Equal(t, 12.0, haps[1].Value)
}
