// Package render drives a compiled signal graph block by block, either to
// completion for an offline WAV bounce or continuously to an oto audio
// device for the live path. Both loops share the same per-block sequence:
// dispatch this block's pattern onsets into the voice manager, then pull
// one rendered buffer out of the graph — the bridge (C8) always runs one
// step ahead of the samples it feeds.
package render

import (
	"math"

	"github.com/fermion-go/fermion/bridge"
	"github.com/fermion-go/fermion/frac"
	"github.com/fermion-go/fermion/internal/xlog"
	"github.com/fermion-go/fermion/signal"
)

var log = xlog.For("render")

// Clock tracks the render loop's position in both sample and cycle time,
// shared by the offline and live paths so they dispatch identically.
type Clock struct {
	SampleRate float64
	CPS        frac.Fraction
	sample     int64
}

// Span returns the cycle-time [begin,end) the next block of size covers,
// matching signal.Graph.RenderBlock's own span computation so the bridge
// dispatches onsets for exactly the block about to render.
func (c *Clock) Span(size int) (begin, end frac.Fraction) {
	cps := c.CPS.Float()
	begin = frac.FromFloat(float64(c.sample) * cps / c.SampleRate)
	end = frac.FromFloat(float64(c.sample+int64(size)) * cps / c.SampleRate)
	return begin, end
}

func (c *Clock) advance(size int) { c.sample += int64(size) }

// Block renders one block: dispatches the block's onsets through br into
// the voice manager, then pulls the graph's output, replacing any NaN/Inf
// sample with silence and logging once per block it happens in, rather
// than propagating a fault into the mix (spec §7's render-error policy —
// a bad sample is a synthesis bug to flag, never a reason to abort).
func Block(g *signal.Graph, br *bridge.Bridge, clk *Clock, size int) []float64 {
	begin, end := clk.Span(size)
	if br != nil {
		for _, err := range br.Dispatch(begin, end) {
			log.Warn("dispatch", "err", err)
		}
	}

	out := g.RenderBlock(size, clk.SampleRate, clk.CPS)
	clk.advance(size)

	faulted := false
	for i, v := range out {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out[i] = 0
			faulted = true
		} else {
			out[i] = signal.SoftClip(v)
		}
	}
	if faulted {
		log.Warn("non-finite sample replaced with silence this block")
	}
	return out
}

// Offline renders durationSec seconds of g in fixed-size blocks and returns
// the concatenated mono samples, ready for wavio.Encode.
func Offline(g *signal.Graph, br *bridge.Bridge, sampleRate float64, cps frac.Fraction, blockSize int, durationSec float64) []float64 {
	clk := &Clock{SampleRate: sampleRate, CPS: cps}
	total := int(durationSec * sampleRate)
	out := make([]float64, 0, total)
	for len(out) < total {
		size := blockSize
		if remaining := total - len(out); remaining < size {
			size = remaining
		}
		out = append(out, Block(g, br, clk, size)...)
	}
	return out
}
