package signal

import "math"

// envelope stage constants shared by the AD/ADSR/ASR state machines below.
type envStage int

const (
	envIdle envStage = iota
	envAttack
	envDecay
	envSustain
	envRelease
)

// AD is a one-shot attack/decay envelope, retriggered whenever Gate crosses
// from <=0 to >0 — generalizing the teacher's fixed 0.9997-per-sample decay
// multiplier into an explicit, modulatable attack/decay pair.
type AD struct {
	Gate   Signal
	Attack Signal // seconds
	Decay  Signal // seconds

	stage    envStage
	level    float64
	prevGate float64
}

func (n *AD) IntroducesDelay() bool { return false }
func (n *AD) Inputs() []Signal      { return []Signal{n.Gate, n.Attack, n.Decay} }
func (n *AD) Render(g *Graph, blk Block, out []float64) {
	gate := g.EvalSignalBlock(n.Gate, blk)
	attack := g.EvalSignalBlock(n.Attack, blk)
	decay := g.EvalSignalBlock(n.Decay, blk)
	for i := range out {
		if n.prevGate <= 0 && gate[i] > 0 {
			n.stage = envAttack
		}
		n.prevGate = gate[i]

		switch n.stage {
		case envAttack:
			step := 1.0
			if attack[i] > 0 {
				step = 1 / (attack[i] * blk.SampleRate)
			}
			n.level += step
			if n.level >= 1 {
				n.level = 1
				n.stage = envDecay
			}
		case envDecay:
			step := 1.0
			if decay[i] > 0 {
				step = 1 / (decay[i] * blk.SampleRate)
			}
			n.level -= step
			if n.level <= 0 {
				n.level = 0
				n.stage = envIdle
			}
		}
		out[i] = n.level
	}
}

// ADSR is the classic four-stage envelope: Gate held high sustains at
// Sustain level after the attack/decay ramp, and releases when Gate drops.
type ADSR struct {
	Gate    Signal
	Attack  Signal
	Decay   Signal
	Sustain Signal
	Release Signal

	stage    envStage
	level    float64
	prevGate float64
}

func (n *ADSR) IntroducesDelay() bool { return false }
func (n *ADSR) Inputs() []Signal {
	return []Signal{n.Gate, n.Attack, n.Decay, n.Sustain, n.Release}
}
func (n *ADSR) Render(g *Graph, blk Block, out []float64) {
	gate := g.EvalSignalBlock(n.Gate, blk)
	attack := g.EvalSignalBlock(n.Attack, blk)
	decay := g.EvalSignalBlock(n.Decay, blk)
	sustain := g.EvalSignalBlock(n.Sustain, blk)
	release := g.EvalSignalBlock(n.Release, blk)
	for i := range out {
		open := gate[i] > 0
		if open && n.prevGate <= 0 {
			n.stage = envAttack
		} else if !open && n.prevGate > 0 {
			n.stage = envRelease
		}
		n.prevGate = gate[i]

		switch n.stage {
		case envAttack:
			step := 1.0
			if attack[i] > 0 {
				step = 1 / (attack[i] * blk.SampleRate)
			}
			n.level += step
			if n.level >= 1 {
				n.level = 1
				n.stage = envDecay
			}
		case envDecay:
			step := 1.0
			if decay[i] > 0 {
				step = 1 / (decay[i] * blk.SampleRate)
			}
			n.level -= step * (1 - sustain[i])
			if n.level <= sustain[i] {
				n.level = sustain[i]
				n.stage = envSustain
			}
		case envSustain:
			n.level = sustain[i]
		case envRelease:
			step := 1.0
			if release[i] > 0 {
				step = 1 / (release[i] * blk.SampleRate)
			}
			n.level -= step
			if n.level <= 0 {
				n.level = 0
				n.stage = envIdle
			}
		}
		out[i] = n.level
	}
}

// ASR is an attack/sustain/release envelope (no decay stage): it ramps to
// full level while Gate is high and holds there, then ramps back to zero
// once Gate drops — the shape a sustained pad or organ voice wants instead
// of ADSR's decay-to-sustain knee.
type ASR struct {
	Gate    Signal
	Attack  Signal
	Release Signal

	stage    envStage
	level    float64
	prevGate float64
}

func (n *ASR) IntroducesDelay() bool { return false }
func (n *ASR) Inputs() []Signal      { return []Signal{n.Gate, n.Attack, n.Release} }
func (n *ASR) Render(g *Graph, blk Block, out []float64) {
	gate := g.EvalSignalBlock(n.Gate, blk)
	attack := g.EvalSignalBlock(n.Attack, blk)
	release := g.EvalSignalBlock(n.Release, blk)
	for i := range out {
		open := gate[i] > 0
		if open && n.prevGate <= 0 {
			n.stage = envAttack
		} else if !open && n.prevGate > 0 {
			n.stage = envRelease
		}
		n.prevGate = gate[i]

		switch n.stage {
		case envAttack:
			step := 1.0
			if attack[i] > 0 {
				step = 1 / (attack[i] * blk.SampleRate)
			}
			n.level += step
			if n.level >= 1 {
				n.level = 1
			}
		case envRelease:
			step := 1.0
			if release[i] > 0 {
				step = 1 / (release[i] * blk.SampleRate)
			}
			n.level -= step
			if n.level <= 0 {
				n.level = 0
				n.stage = envIdle
			}
		}
		out[i] = n.level
	}
}

// Curve applies an exponential shaping curve to an existing envelope-like
// signal: Amount 0 leaves In linear, positive values bow the curve toward
// a slow start/fast finish (convex), negative values the reverse (concave).
type Curve struct {
	In     Signal
	Amount Signal
}

func (n *Curve) IntroducesDelay() bool { return false }
func (n *Curve) Inputs() []Signal      { return []Signal{n.In, n.Amount} }
func (n *Curve) Render(g *Graph, blk Block, out []float64) {
	in := g.EvalSignalBlock(n.In, blk)
	amount := g.EvalSignalBlock(n.Amount, blk)
	for i := range out {
		x := in[i]
		if x < 0 {
			x = 0
		} else if x > 1 {
			x = 1
		}
		k := amount[i]
		if k == 0 {
			out[i] = x
			continue
		}
		// Exponential curve family: k>0 bows toward slow-start, k<0
		// toward fast-start, matching the bipolar "curve" knob found on
		// most hardware envelope generators.
		if k > 0 {
			out[i] = 1 - expCurve(1-x, k)
		} else {
			out[i] = expCurve(x, -k)
		}
	}
}

func expCurve(x, k float64) float64 {
	if k <= 0 {
		return x
	}
	// Normalized so expCurve(0,k)=0 and expCurve(1,k)=1.
	return 1 - math.Pow(1-x, 1+k)
}
