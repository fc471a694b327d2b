package signal

// Add sums an arbitrary number of input signals, the node every node kind
// above implicitly relies on the compiler to insert when a program mixes
// several sources onto one bus.
type Add struct {
	Ins []Signal
}

func (n *Add) IntroducesDelay() bool { return false }
func (n *Add) Inputs() []Signal      { return n.Ins }
func (n *Add) Render(g *Graph, blk Block, out []float64) {
	for _, in := range n.Ins {
		buf := g.EvalSignalBlock(in, blk)
		for i := range out {
			out[i] += buf[i]
		}
	}
}

// Multiply multiplies an arbitrary number of input signals together,
// commonly used for amplitude modulation (an envelope times an oscillator).
type Multiply struct {
	Ins []Signal
}

func (n *Multiply) IntroducesDelay() bool { return false }
func (n *Multiply) Inputs() []Signal      { return n.Ins }
func (n *Multiply) Render(g *Graph, blk Block, out []float64) {
	if len(n.Ins) == 0 {
		return
	}
	first := g.EvalSignalBlock(n.Ins[0], blk)
	copy(out, first)
	for _, in := range n.Ins[1:] {
		buf := g.EvalSignalBlock(in, blk)
		for i := range out {
			out[i] *= buf[i]
		}
	}
}

// Divide divides Num by Denom sample-by-sample; a Denom of exactly zero
// yields zero rather than Inf, matching the render-path's "never propagate
// NaN/Inf" error policy.
type Divide struct {
	Num, Denom Signal
}

func (n *Divide) IntroducesDelay() bool { return false }
func (n *Divide) Inputs() []Signal      { return []Signal{n.Num, n.Denom} }
func (n *Divide) Render(g *Graph, blk Block, out []float64) {
	num := g.EvalSignalBlock(n.Num, blk)
	den := g.EvalSignalBlock(n.Denom, blk)
	for i := range out {
		if den[i] == 0 {
			out[i] = 0
			continue
		}
		out[i] = num[i] / den[i]
	}
}

// Negate inverts a signal's sign.
type Negate struct {
	In Signal
}

func (n *Negate) IntroducesDelay() bool { return false }
func (n *Negate) Inputs() []Signal      { return []Signal{n.In} }
func (n *Negate) Render(g *Graph, blk Block, out []float64) {
	in := g.EvalSignalBlock(n.In, blk)
	for i := range out {
		out[i] = -in[i]
	}
}
