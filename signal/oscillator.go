package signal

import "math"

// oscPhase advances a phase accumulator by freq/sampleRate each sample,
// wrapping into [0,1) — the same accumulate-and-wrap idiom the teacher uses
// for its kick/lead/pad voices, generalized to an arbitrary modulatable
// frequency input instead of a fixed per-channel constant.
type oscPhase struct {
	phase float64
}

func (p *oscPhase) advance(freq, sampleRate float64) float64 {
	ph := p.phase
	p.phase += freq / sampleRate
	p.phase -= math.Floor(p.phase)
	return ph
}

// polyBlep returns the PolyBLEP correction for a phase discontinuity,
// reducing aliasing on the naive saw/square/pulse waveforms below. dt is
// the phase increment for this sample (freq/sampleRate).
func polyBlep(t, dt float64) float64 {
	if dt <= 0 {
		return 0
	}
	switch {
	case t < dt:
		t /= dt
		return t + t - t*t - 1
	case t > 1-dt:
		t = (t - 1) / dt
		return t*t + t + t + 1
	default:
		return 0
	}
}

// Sine is a pure sine oscillator.
type Sine struct {
	Freq Signal
	osc  oscPhase
}

func (n *Sine) IntroducesDelay() bool { return false }
func (n *Sine) Inputs() []Signal      { return []Signal{n.Freq} }
func (n *Sine) Render(g *Graph, blk Block, out []float64) {
	freq := g.EvalSignalBlock(n.Freq, blk)
	for i := range out {
		ph := n.osc.advance(freq[i], blk.SampleRate)
		out[i] = math.Sin(2 * math.Pi * ph)
	}
}

// Saw is a band-limited sawtooth oscillator using PolyBLEP correction.
type Saw struct {
	Freq Signal
	osc  oscPhase
}

func (n *Saw) IntroducesDelay() bool { return false }
func (n *Saw) Inputs() []Signal      { return []Signal{n.Freq} }
func (n *Saw) Render(g *Graph, blk Block, out []float64) {
	freq := g.EvalSignalBlock(n.Freq, blk)
	for i := range out {
		ph := n.osc.advance(freq[i], blk.SampleRate)
		dt := freq[i] / blk.SampleRate
		v := 2*ph - 1
		v -= polyBlep(ph, dt)
		out[i] = v
	}
}

// Square is a band-limited square oscillator (50% duty), PolyBLEP
// corrected at both edges.
type Square struct {
	Freq Signal
	osc  oscPhase
}

func (n *Square) IntroducesDelay() bool { return false }
func (n *Square) Inputs() []Signal      { return []Signal{n.Freq} }
func (n *Square) Render(g *Graph, blk Block, out []float64) {
	freq := g.EvalSignalBlock(n.Freq, blk)
	for i := range out {
		ph := n.osc.advance(freq[i], blk.SampleRate)
		dt := freq[i] / blk.SampleRate
		v := 1.0
		if ph >= 0.5 {
			v = -1.0
		}
		v += polyBlep(ph, dt)
		shifted := ph + 0.5
		shifted -= math.Floor(shifted)
		v -= polyBlep(shifted, dt)
		out[i] = v
	}
}

// Triangle integrates a PolyBLEP square wave, the standard trick for a
// band-limited triangle without a dedicated correction kernel.
type Triangle struct {
	Freq  Signal
	osc   oscPhase
	accum float64
}

func (n *Triangle) IntroducesDelay() bool { return false }
func (n *Triangle) Inputs() []Signal      { return []Signal{n.Freq} }
func (n *Triangle) Render(g *Graph, blk Block, out []float64) {
	freq := g.EvalSignalBlock(n.Freq, blk)
	for i := range out {
		ph := n.osc.advance(freq[i], blk.SampleRate)
		dt := freq[i] / blk.SampleRate
		sq := 1.0
		if ph >= 0.5 {
			sq = -1.0
		}
		sq += polyBlep(ph, dt)
		shifted := ph + 0.5
		shifted -= math.Floor(shifted)
		sq -= polyBlep(shifted, dt)

		n.accum = (1-4*dt)*n.accum + 4*dt*sq
		out[i] = n.accum
	}
}

// Pulse is a PolyBLEP-corrected pulse oscillator with a modulatable duty
// cycle (Width, in (0,1), default 0.5 reproduces Square).
type Pulse struct {
	Freq  Signal
	Width Signal
	osc   oscPhase
}

func (n *Pulse) IntroducesDelay() bool { return false }
func (n *Pulse) Inputs() []Signal      { return []Signal{n.Freq, n.Width} }
func (n *Pulse) Render(g *Graph, blk Block, out []float64) {
	freq := g.EvalSignalBlock(n.Freq, blk)
	width := g.EvalSignalBlock(n.Width, blk)
	for i := range out {
		ph := n.osc.advance(freq[i], blk.SampleRate)
		dt := freq[i] / blk.SampleRate
		w := width[i]
		if w <= 0 {
			w = 0.01
		} else if w >= 1 {
			w = 0.99
		}
		v := 1.0
		if ph >= w {
			v = -1.0
		}
		v += polyBlep(ph, dt)
		shifted := ph + (1 - w)
		shifted -= math.Floor(shifted)
		v -= polyBlep(shifted, dt)
		out[i] = v
	}
}

// VCO is a voltage-controlled oscillator: Saw/Square/Triangle/Sine
// selectable by Shape, with 1V/oct-style exponential FreqMod applied on
// top of the base Freq (semitone-scaled, matching how the bridge patches a
// "note" control pattern into an oscillator's pitch).
type VCOShape int

const (
	VCOSine VCOShape = iota
	VCOSaw
	VCOSquare
	VCOTriangle
)

type VCO struct {
	Shape   VCOShape
	Freq    Signal
	FreqMod Signal // semitone offset, 0 = no modulation
	osc     oscPhase
	accum   float64
}

func (n *VCO) IntroducesDelay() bool { return false }
func (n *VCO) Inputs() []Signal      { return []Signal{n.Freq, n.FreqMod} }
func (n *VCO) Render(g *Graph, blk Block, out []float64) {
	freq := g.EvalSignalBlock(n.Freq, blk)
	mod := g.EvalSignalBlock(n.FreqMod, blk)
	for i := range out {
		f := freq[i] * math.Pow(2, mod[i]/12)
		ph := n.osc.advance(f, blk.SampleRate)
		dt := f / blk.SampleRate
		switch n.Shape {
		case VCOSaw:
			v := 2*ph - 1
			out[i] = v - polyBlep(ph, dt)
		case VCOSquare:
			v := 1.0
			if ph >= 0.5 {
				v = -1.0
			}
			v += polyBlep(ph, dt)
			shifted := ph + 0.5
			shifted -= math.Floor(shifted)
			v -= polyBlep(shifted, dt)
			out[i] = v
		case VCOTriangle:
			sq := 1.0
			if ph >= 0.5 {
				sq = -1.0
			}
			sq += polyBlep(ph, dt)
			shifted := ph + 0.5
			shifted -= math.Floor(shifted)
			sq -= polyBlep(shifted, dt)
			n.accum = (1-4*dt)*n.accum + 4*dt*sq
			out[i] = n.accum
		default:
			out[i] = math.Sin(2 * math.Pi * ph)
		}
	}
}

// FMOsc is a two-operator FM oscillator: a modulator sine at Freq*Ratio,
// scaled by Index, phase-modulates a carrier sine at Freq.
type FMOsc struct {
	Freq      Signal
	Ratio     Signal
	Index     Signal
	carrier   oscPhase
	modulator oscPhase
}

func (n *FMOsc) IntroducesDelay() bool { return false }
func (n *FMOsc) Inputs() []Signal      { return []Signal{n.Freq, n.Ratio, n.Index} }
func (n *FMOsc) Render(g *Graph, blk Block, out []float64) {
	freq := g.EvalSignalBlock(n.Freq, blk)
	ratio := g.EvalSignalBlock(n.Ratio, blk)
	index := g.EvalSignalBlock(n.Index, blk)
	for i := range out {
		mph := n.modulator.advance(freq[i]*ratio[i], blk.SampleRate)
		modSample := math.Sin(2 * math.Pi * mph)
		cph := n.carrier.advance(freq[i], blk.SampleRate)
		out[i] = math.Sin(2*math.Pi*cph + index[i]*modSample)
	}
}

// PMOsc is phase modulation between two independently specified
// oscillators' phases (CarrierFreq modulated by a unit-rate phase offset
// derived from ModFreq*Index), distinct from FMOsc in that the modulator
// is a raw phase term rather than a frequency-domain sideband generator.
type PMOsc struct {
	CarrierFreq Signal
	ModFreq     Signal
	Index       Signal
	carrier     oscPhase
	modulator   oscPhase
}

func (n *PMOsc) IntroducesDelay() bool { return false }
func (n *PMOsc) Inputs() []Signal {
	return []Signal{n.CarrierFreq, n.ModFreq, n.Index}
}
func (n *PMOsc) Render(g *Graph, blk Block, out []float64) {
	cf := g.EvalSignalBlock(n.CarrierFreq, blk)
	mf := g.EvalSignalBlock(n.ModFreq, blk)
	idx := g.EvalSignalBlock(n.Index, blk)
	for i := range out {
		mph := n.modulator.advance(mf[i], blk.SampleRate)
		cph := n.carrier.advance(cf[i], blk.SampleRate)
		out[i] = math.Sin(2*math.Pi*cph + idx[i]*math.Sin(2*math.Pi*mph))
	}
}
