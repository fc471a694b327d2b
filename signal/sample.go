package signal

import "math"

// SampleBuffer is an in-memory mono sample, decoded once at load time and
// shared (read-only) across every voice that plays it.
type SampleBuffer struct {
	Data       []float64
	SampleRate float64
}

// Sample plays back a SampleBuffer, retriggering from Begin whenever Gate
// rises from <=0 to >0. Begin/End are fractions of the buffer (0..1), Speed
// is a playback-rate multiplier (1 = original pitch), and Loop repeats
// between Begin and End instead of stopping at End — the per-voice
// primitive the voice manager (C7) instantiates once per active playback.
type Sample struct {
	Buffer *SampleBuffer
	Gate   Signal
	Begin  Signal
	End    Signal
	Speed  Signal
	Loop   bool

	pos      float64
	active   bool
	prevGate float64
}

func (n *Sample) IntroducesDelay() bool { return false }
func (n *Sample) Inputs() []Signal {
	return []Signal{n.Gate, n.Begin, n.End, n.Speed}
}

func (n *Sample) Render(g *Graph, blk Block, out []float64) {
	if n.Buffer == nil || len(n.Buffer.Data) == 0 {
		return
	}
	gate := g.EvalSignalBlock(n.Gate, blk)
	begin := g.EvalSignalBlock(n.Begin, blk)
	end := g.EvalSignalBlock(n.End, blk)
	speed := g.EvalSignalBlock(n.Speed, blk)
	data := n.Buffer.Data
	rateRatio := n.Buffer.SampleRate / blk.SampleRate

	for i := range out {
		if n.prevGate <= 0 && gate[i] > 0 {
			n.pos = begin[i] * float64(len(data))
			n.active = true
		}
		n.prevGate = gate[i]
		if !n.active {
			continue
		}

		endPos := end[i] * float64(len(data))
		if endPos <= 0 {
			endPos = float64(len(data))
		}

		idx := int(n.pos)
		if idx < 0 {
			idx = 0
		}
		if idx >= len(data)-1 {
			out[i] = data[len(data)-1]
		} else {
			frac := n.pos - math.Floor(n.pos)
			out[i] = data[idx]*(1-frac) + data[idx+1]*frac
		}

		n.pos += speed[i] * rateRatio
		if n.pos >= endPos {
			if n.Loop {
				span := endPos - begin[i]*float64(len(data))
				if span <= 0 {
					span = endPos
				}
				for n.pos >= endPos {
					n.pos -= span
				}
			} else {
				n.active = false
			}
		}
	}
}

// Active reports whether the voice is still producing output, used by the
// voice manager to know when a channel is free to steal.
func (n *Sample) Active() bool { return n.active }

// Stop forces immediate silence, bypassing the normal end-of-buffer/loop
// exit — the primitive a cut-group uses to abruptly silence a voice rather
// than letting it ring out (spec supplement: Tidal-style "cut").
func (n *Sample) Stop() { n.active = false }

// Retrigger restarts playback from the beginning immediately, independent
// of Gate's edge-detection. The voice manager (C7) owns exactly when a
// voice starts — it calls this directly once per dispatched onset rather
// than threading a separate Gate signal through the graph for pool-managed
// voices; Gate/edge-detection remains available for a Sample node wired up
// standalone (e.g. driven straight from a PatternEval trigger).
func (n *Sample) Retrigger() {
	if n.Buffer == nil {
		return
	}
	begin := 0.0
	if n.Begin.Kind == SignalConstant {
		begin = n.Begin.Const
	}
	n.pos = begin * float64(len(n.Buffer.Data))
	n.active = true
}
