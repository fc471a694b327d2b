package signal

import "math"

// LowPass is a one-pole low-pass filter, the same style of smoothing the
// teacher's mixer applies to MIDI-driven parameter changes, generalized to
// an audio-rate cutoff applied to an arbitrary input signal.
type LowPass struct {
	In     Signal
	Cutoff Signal
	state  float64
}

func (n *LowPass) IntroducesDelay() bool { return false }
func (n *LowPass) Inputs() []Signal      { return []Signal{n.In, n.Cutoff} }
func (n *LowPass) Render(g *Graph, blk Block, out []float64) {
	in := g.EvalSignalBlock(n.In, blk)
	cutoff := g.EvalSignalBlock(n.Cutoff, blk)
	for i := range out {
		a := onePoleCoeff(cutoff[i], blk.SampleRate)
		n.state += a * (in[i] - n.state)
		out[i] = n.state
	}
}

// HighPass subtracts a one-pole low-pass from the dry signal.
type HighPass struct {
	In     Signal
	Cutoff Signal
	state  float64
}

func (n *HighPass) IntroducesDelay() bool { return false }
func (n *HighPass) Inputs() []Signal      { return []Signal{n.In, n.Cutoff} }
func (n *HighPass) Render(g *Graph, blk Block, out []float64) {
	in := g.EvalSignalBlock(n.In, blk)
	cutoff := g.EvalSignalBlock(n.Cutoff, blk)
	for i := range out {
		a := onePoleCoeff(cutoff[i], blk.SampleRate)
		n.state += a * (in[i] - n.state)
		out[i] = in[i] - n.state
	}
}

func onePoleCoeff(cutoff, sampleRate float64) float64 {
	if cutoff <= 0 {
		return 0
	}
	rc := 1 / (2 * math.Pi * cutoff)
	dt := 1 / sampleRate
	return dt / (rc + dt)
}

// BiquadMode selects the transfer function a Biquad node implements.
type BiquadMode int

const (
	BiquadLowPass BiquadMode = iota
	BiquadHighPass
	BiquadBandPass
	BiquadNotch
)

// Biquad is a standard RBJ-cookbook two-pole filter with resonance (Q),
// used where LowPass/HighPass's gentler one-pole roll-off isn't enough —
// the DJFilter and Formant nodes below both build on it.
type Biquad struct {
	Mode         BiquadMode
	In           Signal
	Cutoff       Signal
	Q            Signal
	x1, x2       float64
	y1, y2       float64
}

func (n *Biquad) IntroducesDelay() bool { return false }
func (n *Biquad) Inputs() []Signal      { return []Signal{n.In, n.Cutoff, n.Q} }
func (n *Biquad) Render(g *Graph, blk Block, out []float64) {
	in := g.EvalSignalBlock(n.In, blk)
	cutoff := g.EvalSignalBlock(n.Cutoff, blk)
	q := g.EvalSignalBlock(n.Q, blk)
	for i := range out {
		b0, b1, b2, a0, a1, a2 := biquadCoeffs(n.Mode, cutoff[i], q[i], blk.SampleRate)
		x0 := in[i]
		y0 := (b0*x0 + b1*n.x1 + b2*n.x2 - a1*n.y1 - a2*n.y2) / a0
		n.x2, n.x1 = n.x1, x0
		n.y2, n.y1 = n.y1, y0
		out[i] = y0
	}
}

func biquadCoeffs(mode BiquadMode, cutoff, q, sampleRate float64) (b0, b1, b2, a0, a1, a2 float64) {
	if cutoff <= 0 {
		cutoff = 1
	}
	if q <= 0 {
		q = 0.707
	}
	w0 := 2 * math.Pi * cutoff / sampleRate
	alpha := math.Sin(w0) / (2 * q)
	cosw0 := math.Cos(w0)

	switch mode {
	case BiquadHighPass:
		b0 = (1 + cosw0) / 2
		b1 = -(1 + cosw0)
		b2 = (1 + cosw0) / 2
	case BiquadBandPass:
		b0 = alpha
		b1 = 0
		b2 = -alpha
	case BiquadNotch:
		b0 = 1
		b1 = -2 * cosw0
		b2 = 1
	default: // BiquadLowPass
		b0 = (1 - cosw0) / 2
		b1 = 1 - cosw0
		b2 = (1 - cosw0) / 2
	}
	a0 = 1 + alpha
	a1 = -2 * cosw0
	a2 = 1 - alpha
	return
}

// ParametricEQ is a peaking Biquad variant with independent gain, used for
// surgical boosts/cuts rather than a hard roll-off.
type ParametricEQ struct {
	In        Signal
	Freq      Signal
	Q         Signal
	GainDB    Signal
	x1, x2    float64
	y1, y2    float64
}

func (n *ParametricEQ) IntroducesDelay() bool { return false }
func (n *ParametricEQ) Inputs() []Signal {
	return []Signal{n.In, n.Freq, n.Q, n.GainDB}
}
func (n *ParametricEQ) Render(g *Graph, blk Block, out []float64) {
	in := g.EvalSignalBlock(n.In, blk)
	freq := g.EvalSignalBlock(n.Freq, blk)
	q := g.EvalSignalBlock(n.Q, blk)
	gain := g.EvalSignalBlock(n.GainDB, blk)
	for i := range out {
		f := freq[i]
		if f <= 0 {
			f = 1
		}
		qq := q[i]
		if qq <= 0 {
			qq = 0.707
		}
		a := math.Pow(10, gain[i]/40)
		w0 := 2 * math.Pi * f / blk.SampleRate
		alpha := math.Sin(w0) / (2 * qq)
		cosw0 := math.Cos(w0)

		b0 := 1 + alpha*a
		b1 := -2 * cosw0
		b2 := 1 - alpha*a
		a0 := 1 + alpha/a
		a1 := -2 * cosw0
		a2 := 1 - alpha/a

		x0 := in[i]
		y0 := (b0*x0 + b1*n.x1 + b2*n.x2 - a1*n.y1 - a2*n.y2) / a0
		n.x2, n.x1 = n.x1, x0
		n.y2, n.y1 = n.y1, y0
		out[i] = y0
	}
}

// DJFilter is a single morph control sweeping from full low-pass (morph 0)
// through flat (0.5) to full high-pass (morph 1), the classic "filter knob"
// club mixers expose as one parameter instead of two.
type DJFilter struct {
	In    Signal
	Morph Signal // 0..1: 0=lpf (cutoff swept down from Nyquist), 0.5=neutral, 1=hpf
	hp    Biquad
	lp    Biquad
}

func (n *DJFilter) IntroducesDelay() bool { return false }
func (n *DJFilter) Inputs() []Signal      { return []Signal{n.In, n.Morph} }
func (n *DJFilter) Render(g *Graph, blk Block, out []float64) {
	in := g.EvalSignalBlock(n.In, blk)
	morph := g.EvalSignalBlock(n.Morph, blk)
	for i := range out {
		m := morph[i]
		x0 := in[i]
		switch {
		case m < 0.5:
			t := m / 0.5                   // 0..1 as m: 0..0.5
			cutoff := 20 * math.Pow(1000, t) // sweeps 20Hz..20kHz as m: 0..0.5
			b0, b1, b2, a0, a1, a2 := biquadCoeffs(BiquadLowPass, cutoff, 0.707, blk.SampleRate)
			y0 := (b0*x0 + b1*n.lp.x1 + b2*n.lp.x2 - a1*n.lp.y1 - a2*n.lp.y2) / a0
			n.lp.x2, n.lp.x1 = n.lp.x1, x0
			n.lp.y2, n.lp.y1 = n.lp.y1, y0
			out[i] = y0
		case m > 0.5:
			t := (m - 0.5) / 0.5                  // 0..1 as m: 0.5..1
			cutoff := 20000 * math.Pow(0.001, 1-t) // sweeps 20Hz..20kHz as m: 0.5..1
			b0, b1, b2, a0, a1, a2 := biquadCoeffs(BiquadHighPass, cutoff, 0.707, blk.SampleRate)
			y0 := (b0*x0 + b1*n.hp.x1 + b2*n.hp.x2 - a1*n.hp.y1 - a2*n.hp.y2) / a0
			n.hp.x2, n.hp.x1 = n.hp.x1, x0
			n.hp.y2, n.hp.y1 = n.hp.y1, y0
			out[i] = y0
		default:
			out[i] = x0
		}
	}
}

// Formant models a vowel by summing three band-pass Biquads at formant
// frequencies, cross-faded by Vowel (0=A, 1=E, 2=I, 3=O, 4=U).
type Formant struct {
	In    Signal
	Vowel Signal
	bands [3]Biquad
}

var formantTable = [5][3]float64{
	{800, 1150, 2900},  // A
	{350, 2000, 2800},  // E
	{270, 2140, 2950},  // I
	{450, 800, 2830},   // O
	{325, 700, 2700},   // U
}

func (n *Formant) IntroducesDelay() bool { return false }
func (n *Formant) Inputs() []Signal      { return []Signal{n.In, n.Vowel} }
func (n *Formant) Render(g *Graph, blk Block, out []float64) {
	in := g.EvalSignalBlock(n.In, blk)
	vowel := g.EvalSignalBlock(n.Vowel, blk)
	for i := range out {
		v := vowel[i]
		if v < 0 {
			v = 0
		} else if v > 4 {
			v = 4
		}
		lo := int(math.Floor(v))
		hi := lo + 1
		if hi > 4 {
			hi = 4
		}
		frac := v - float64(lo)

		x0 := in[i]
		var sum float64
		for b := 0; b < 3; b++ {
			freq := formantTable[lo][b]*(1-frac) + formantTable[hi][b]*frac
			b0, b1, b2, a0, a1, a2 := biquadCoeffs(BiquadBandPass, freq, 8, blk.SampleRate)
			y0 := (b0*x0 + b1*n.bands[b].x1 + b2*n.bands[b].x2 - a1*n.bands[b].y1 - a2*n.bands[b].y2) / a0
			n.bands[b].x2, n.bands[b].x1 = n.bands[b].x1, x0
			n.bands[b].y2, n.bands[b].y1 = n.bands[b].y1, y0
			sum += y0
		}
		out[i] = sum / 3
	}
}
