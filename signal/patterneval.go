package signal

import "github.com/fermion-go/fermion/pattern"

// PatternMode selects what a PatternEval node outputs.
type PatternMode int

const (
	// PatternContinuous samples the pattern's numeric value at control
	// rate, holding the last value across silent gaps — an LFO shape, a
	// filter-cutoff automation curve, anything driven by a Pattern[float64].
	PatternContinuous PatternMode = iota
	// PatternTrigger emits a one-sample impulse (1.0) at the first sample
	// of every onset, 0 elsewhere — a Gate source for envelopes that
	// should fire on the pattern's rhythm directly, independent of the
	// voice manager's sample dispatch (C7/C8).
	PatternTrigger
)

// PatternEval reads a registered pattern into the signal graph. Continuous
// mode is evaluated by delegating straight to Graph.evalPatternBlock (via a
// SignalPattern edge) from any node that wires this one in as an input;
// trigger mode needs the source Hap boundaries themselves, which the
// piecewise-constant continuous sampler does not preserve, so it re-queries
// the pattern directly here.
type PatternEval struct {
	ID   PatternId
	Mode PatternMode
}

func (n *PatternEval) IntroducesDelay() bool { return false }
func (n *PatternEval) Inputs() []Signal      { return nil }

func (n *PatternEval) Render(g *Graph, blk Block, out []float64) {
	switch n.Mode {
	case PatternTrigger:
		n.renderTrigger(g, blk, out)
	default:
		g.evalPatternBlock(n.ID, blk, out)
	}
}

func (n *PatternEval) renderTrigger(g *Graph, blk Block, out []float64) {
	rp, ok := g.patterns[n.ID]
	if !ok {
		return
	}
	span := spanFromBlock(blk)
	haps := rp.pat.Query(pattern.State{Span: span})
	width := blk.SpanEnd - blk.SpanBegin
	for _, h := range haps {
		if h.Whole == nil {
			continue
		}
		if !h.HasOnset() {
			continue
		}
		onset := h.Whole.Begin.Float()
		if onset < blk.SpanBegin || onset >= blk.SpanEnd {
			continue
		}
		var idx int
		if width > 0 {
			idx = int((onset - blk.SpanBegin) / width * float64(blk.Size))
		}
		if idx >= 0 && idx < len(out) {
			out[idx] = 1
		}
	}
}
