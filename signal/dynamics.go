package signal

import "math"

// Compressor is a feed-forward peak compressor with one-pole attack/release
// smoothing of the gain-reduction envelope, the same smoothing idiom the
// teacher uses for its decaying drum envelopes.
type Compressor struct {
	In          Signal
	ThresholdDB Signal
	Ratio       Signal
	AttackMs    Signal
	ReleaseMs   Signal
	KneeDB      Signal // 0 = hard knee, >0 = width (dB) of the soft-knee transition around ThresholdDB
	envelope    float64
}

func (n *Compressor) IntroducesDelay() bool { return false }
func (n *Compressor) Inputs() []Signal {
	return []Signal{n.In, n.ThresholdDB, n.Ratio, n.AttackMs, n.ReleaseMs, n.KneeDB}
}
func (n *Compressor) Render(g *Graph, blk Block, out []float64) {
	in := g.EvalSignalBlock(n.In, blk)
	thresh := g.EvalSignalBlock(n.ThresholdDB, blk)
	ratio := g.EvalSignalBlock(n.Ratio, blk)
	attack := g.EvalSignalBlock(n.AttackMs, blk)
	release := g.EvalSignalBlock(n.ReleaseMs, blk)
	knee := g.EvalSignalBlock(n.KneeDB, blk)
	for i := range out {
		x := in[i]
		rectified := math.Abs(x)
		var coeff float64
		if rectified > n.envelope {
			coeff = timeConstCoeff(attack[i], blk.SampleRate)
		} else {
			coeff = timeConstCoeff(release[i], blk.SampleRate)
		}
		n.envelope += coeff * (rectified - n.envelope)

		levelDB := ampToDB(n.envelope)
		over := levelDB - thresh[i]
		r := ratio[i]
		w := knee[i]
		var gainDB float64
		switch {
		case r <= 0:
			gainDB = 0
		case w <= 0:
			if over > 0 {
				gainDB = over/r - over
			}
		case 2*over < -w:
			gainDB = 0
		case 2*math.Abs(over) <= w:
			gainDB = (1/r - 1) * (over + w/2) * (over + w/2) / (2 * w)
		default:
			gainDB = (1/r - 1) * over
		}
		out[i] = x * dbToAmp(gainDB)
	}
}

// Expander is a downward expander: signal below the threshold is pushed
// further down rather than up, the mirror image of Compressor, useful for
// gating noise floors between drum hits.
type Expander struct {
	In          Signal
	ThresholdDB Signal
	Ratio       Signal
	AttackMs    Signal
	ReleaseMs   Signal
	envelope    float64
}

func (n *Expander) IntroducesDelay() bool { return false }
func (n *Expander) Inputs() []Signal {
	return []Signal{n.In, n.ThresholdDB, n.Ratio, n.AttackMs, n.ReleaseMs}
}
func (n *Expander) Render(g *Graph, blk Block, out []float64) {
	in := g.EvalSignalBlock(n.In, blk)
	thresh := g.EvalSignalBlock(n.ThresholdDB, blk)
	ratio := g.EvalSignalBlock(n.Ratio, blk)
	attack := g.EvalSignalBlock(n.AttackMs, blk)
	release := g.EvalSignalBlock(n.ReleaseMs, blk)
	for i := range out {
		x := in[i]
		rectified := math.Abs(x)
		var coeff float64
		if rectified > n.envelope {
			coeff = timeConstCoeff(attack[i], blk.SampleRate)
		} else {
			coeff = timeConstCoeff(release[i], blk.SampleRate)
		}
		n.envelope += coeff * (rectified - n.envelope)

		levelDB := ampToDB(n.envelope)
		under := thresh[i] - levelDB
		var gainDB float64
		if under > 0 && ratio[i] > 0 {
			gainDB = -(under * (ratio[i] - 1))
		}
		out[i] = x * dbToAmp(gainDB)
	}
}

// Distortion is a symmetric soft-clip waveshaper parameterized by Drive,
// grounded on the teacher's SoftClip cubic used on its final master bus.
type Distortion struct {
	In    Signal
	Drive Signal
	Mix   Signal // 0 = dry, 1 = fully distorted; an unset Mix is the zero Signal, Const(0), i.e. fully dry, so the lang builtins wire Mix explicitly (default 1)
}

func (n *Distortion) IntroducesDelay() bool { return false }
func (n *Distortion) Inputs() []Signal      { return []Signal{n.In, n.Drive, n.Mix} }
func (n *Distortion) Render(g *Graph, blk Block, out []float64) {
	in := g.EvalSignalBlock(n.In, blk)
	drive := g.EvalSignalBlock(n.Drive, blk)
	mix := g.EvalSignalBlock(n.Mix, blk)
	for i := range out {
		d := drive[i]
		if d < 1 {
			d = 1
		}
		wet := SoftClip(in[i] * d)
		m := mix[i]
		out[i] = in[i]*(1-m) + wet*m
	}
}

// SoftClip is the teacher's cubic soft-clipper, shared with Distortion and
// used by the render package as the final master-bus limiter.
func SoftClip(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return 1.5*x - 0.5*x*x*x
}

func timeConstCoeff(ms, sampleRate float64) float64 {
	if ms <= 0 {
		return 1
	}
	return 1 - math.Exp(-1/(0.001*ms*sampleRate))
}

func ampToDB(amp float64) float64 {
	if amp <= 0 {
		return -120
	}
	return 20 * math.Log10(amp)
}

func dbToAmp(db float64) float64 {
	return math.Pow(10, db/20)
}
