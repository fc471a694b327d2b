package signal_test

import (
	"testing"

	"github.com/fermion-go/fermion/frac"
	"github.com/fermion-go/fermion/signal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDJFilterMorphIsPassThroughAtNeutral guards the spec §4.3 convention
// (0=lpf, 0.5=neutral, 1=hpf): at the midpoint DJFilter must not color the
// signal at all.
func TestDJFilterMorphIsPassThroughAtNeutral(t *testing.T) {
	g := signal.New()
	osc := g.AddNode(&signal.Saw{Freq: signal.Const(440)})
	dj := g.AddNode(&signal.DJFilter{In: osc, Morph: signal.Const(0.5)})
	g.Output = dj
	require.NoError(t, g.Compile())

	in := g.RenderBlock(64, 44100, frac.FromInt(1))

	g2 := signal.New()
	osc2 := g2.AddNode(&signal.Saw{Freq: signal.Const(440)})
	g2.Output = osc2
	require.NoError(t, g2.Compile())
	dry := g2.RenderBlock(64, 44100, frac.FromInt(1))

	for i := range in {
		assert.InDelta(t, dry[i], in[i], 1e-9)
	}
}

// TestDJFilterLowMorphAttenuatesHighFrequencies exercises the m=0 end of the
// range: a full low-pass must strongly attenuate a high-frequency tone
// relative to a low-frequency one, the opposite of the old [-1,1] convention
// this replaced.
func TestDJFilterLowMorphAttenuatesHighFrequencies(t *testing.T) {
	const sr = 44100
	const n = 4096

	lowEnergy := djFilterEnergy(t, 110, 0, sr, n)
	highEnergy := djFilterEnergy(t, 8000, 0, sr, n)

	assert.Greater(t, lowEnergy, highEnergy)
}

// TestDJFilterHighMorphAttenuatesLowFrequencies exercises the m=1 end.
func TestDJFilterHighMorphAttenuatesLowFrequencies(t *testing.T) {
	const sr = 44100
	const n = 4096

	lowEnergy := djFilterEnergy(t, 110, 1, sr, n)
	highEnergy := djFilterEnergy(t, 8000, 1, sr, n)

	assert.Greater(t, highEnergy, lowEnergy)
}

func djFilterEnergy(t *testing.T, freq, morph, sampleRate float64, blockSize int) float64 {
	t.Helper()
	g := signal.New()
	osc := g.AddNode(&signal.Sine{Freq: signal.Const(freq)})
	dj := g.AddNode(&signal.DJFilter{In: osc, Morph: signal.Const(morph)})
	g.Output = dj
	require.NoError(t, g.Compile())

	// Let the biquad state settle before measuring steady-state energy.
	g.RenderBlock(blockSize, sampleRate, frac.FromInt(1))
	out := g.RenderBlock(blockSize, sampleRate, frac.FromInt(1))

	var energy float64
	for _, v := range out {
		energy += v * v
	}
	return energy
}
