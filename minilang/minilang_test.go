package minilang_test

import (
	"sort"
	"testing"

	"github.com/fermion-go/fermion/frac"
	"github.com/fermion-go/fermion/minilang"
	"github.com/fermion-go/fermion/pattern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queryCycle(t *testing.T, src string, n int64) []pattern.Hap[string] {
	t.Helper()
	p, err := minilang.Parse(src)
	require.NoError(t, err)
	haps := p.Query(pattern.State{Span: frac.NewSpan(frac.FromInt(0), frac.FromInt(n))})
	sort.Slice(haps, func(i, j int) bool { return haps[i].Part.Begin.Lt(haps[j].Part.Begin) })
	return haps
}

func values(haps []pattern.Hap[string]) []string {
	out := make([]string, len(haps))
	for i, h := range haps {
		out[i] = h.Value
	}
	return out
}

func TestSimpleSequence(t *testing.T) {
	haps := queryCycle(t, "bd sn", 1)
	assert.Equal(t, []string{"bd", "sn"}, values(haps))
	assert.Equal(t, frac.Half, haps[0].Whole.Duration())
}

func TestRestToken(t *testing.T) {
	haps := queryCycle(t, "bd ~ sn -", 1)
	assert.Equal(t, []string{"bd", "sn"}, values(haps))
}

func TestNestedGroup(t *testing.T) {
	haps := queryCycle(t, "bd [sn sn]", 1)
	require.Len(t, haps, 3)
	assert.Equal(t, "bd", haps[0].Value)
	assert.Equal(t, frac.Half, haps[0].Whole.Duration())
	assert.Equal(t, frac.New(1, 4), haps[1].Whole.Duration())
}

func TestFastReplicate(t *testing.T) {
	haps := queryCycle(t, "bd*4", 1)
	assert.Len(t, haps, 4)
}

func TestSlowStretch(t *testing.T) {
	haps := queryCycle(t, "bd/2", 2)
	require.Len(t, haps, 1)
	assert.Equal(t, frac.FromInt(2), haps[0].Whole.Duration())
}

func TestBangRepeatDistinctFromStar(t *testing.T) {
	haps := queryCycle(t, "bd!3", 1)
	require.Len(t, haps, 3)
	for _, h := range haps {
		assert.Equal(t, frac.New(1, 3), h.Whole.Duration())
	}
}

func TestAlternation(t *testing.T) {
	p, err := minilang.Parse("<bd sn hh>")
	require.NoError(t, err)
	for i, want := range []string{"bd", "sn", "hh"} {
		h := p.Query(pattern.State{Span: frac.NewSpan(frac.FromInt(int64(i)), frac.FromInt(int64(i+1)))})
		require.Len(t, h, 1)
		assert.Equal(t, want, h[0].Value)
	}
}

func TestPolyrhythmicStack(t *testing.T) {
	haps := queryCycle(t, "[bd, sn hh]", 1)
	assert.Len(t, haps, 3)
}

func TestEuclideanRhythm(t *testing.T) {
	haps := queryCycle(t, "bd(3,8)", 1)
	assert.Len(t, haps, 3)
}

func TestWeightedSequence(t *testing.T) {
	haps := queryCycle(t, "bd@3 sn", 1)
	require.Len(t, haps, 2)
	assert.Equal(t, frac.New(3, 4), haps[0].Whole.Duration())
	assert.Equal(t, frac.New(1, 4), haps[1].Whole.Duration())
}

func TestDegradeIsDeterministic(t *testing.T) {
	p, err := minilang.Parse("hh*16?")
	require.NoError(t, err)
	span := frac.NewSpan(frac.FromInt(0), frac.FromInt(1))
	a := p.Query(pattern.State{Span: span})
	b := p.Query(pattern.State{Span: span})
	require.Equal(t, len(a), len(b))
}

func TestQualifiedSampleNameWithSlash(t *testing.T) {
	haps := queryCycle(t, "bd/BT0A0A7", 1)
	require.Len(t, haps, 1)
	assert.Equal(t, "bd/BT0A0A7", haps[0].Value)
}

func TestReplicateCountAlternatesPerCycle(t *testing.T) {
	p, err := minilang.Parse("bd*<2 3>")
	require.NoError(t, err)
	h0 := p.Query(pattern.State{Span: frac.NewSpan(frac.FromInt(0), frac.FromInt(1))})
	h1 := p.Query(pattern.State{Span: frac.NewSpan(frac.FromInt(1), frac.FromInt(2))})
	assert.Len(t, h0, 2)
	assert.Len(t, h1, 3)
}

// Scenario S3: "hh(3,8)" over 1 cycle has 3 onsets at fractions 0, 3/8, 6/8.
func TestScenarioS3EuclideanOnsetFractions(t *testing.T) {
	haps := queryCycle(t, "hh(3,8)", 1)
	require.Len(t, haps, 3)
	want := []frac.Fraction{frac.FromInt(0), frac.New(3, 8), frac.New(6, 8)}
	for i, h := range haps {
		assert.True(t, h.Whole.Begin.Eq(want[i]), "onset %d: got %v want %v", i, h.Whole.Begin, want[i])
	}
}

func TestParseErrorReportsPosition(t *testing.T) {
	_, err := minilang.Parse("bd [sn")
	require.Error(t, err)
	var pe *minilang.ParseError
	assert.ErrorAs(t, err, &pe)
}
