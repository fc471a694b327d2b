package signal

import "math"

const maxDelaySeconds = 4.0

// Delay is a feedback delay line: the classic cycle-breaking node. Its
// Render reads purely from the ring buffer (no dependency on In for the
// current block); Ingest pulls In afterward and writes it, combined with
// the fed-back tap, into the buffer for future blocks.
type Delay struct {
	In       Signal
	TimeSec  Signal
	Feedback Signal
	Mix      Signal

	buf       []float64
	writePos  int
	sampleRate float64
}

func (n *Delay) IntroducesDelay() bool { return true }
func (n *Delay) Inputs() []Signal {
	return []Signal{n.In, n.TimeSec, n.Feedback, n.Mix}
}

func (n *Delay) ensureBuf(sampleRate float64) {
	if n.buf != nil {
		return
	}
	n.sampleRate = sampleRate
	n.buf = make([]float64, int(maxDelaySeconds*sampleRate)+1)
}

func (n *Delay) Render(g *Graph, blk Block, out []float64) {
	n.ensureBuf(blk.SampleRate)
	timeSec := g.EvalSignalBlock(n.TimeSec, blk)
	mix := g.EvalSignalBlock(n.Mix, blk)
	dry := g.EvalSignalBlock(n.In, blk)
	for i := range out {
		delaySamples := int(timeSec[i] * blk.SampleRate)
		if delaySamples < 1 {
			delaySamples = 1
		}
		if delaySamples >= len(n.buf) {
			delaySamples = len(n.buf) - 1
		}
		readPos := n.writePos - delaySamples
		for readPos < 0 {
			readPos += len(n.buf)
		}
		wet := n.buf[readPos%len(n.buf)]
		out[i] = dry[i]*(1-mix[i]) + wet*mix[i]
		n.writePos = (n.writePos + 1) % len(n.buf)
	}
	n.writePos -= blk.Size
	for n.writePos < 0 {
		n.writePos += len(n.buf)
	}
}

func (n *Delay) Ingest(g *Graph, blk Block) {
	n.ensureBuf(blk.SampleRate)
	in := g.EvalSignalBlock(n.In, blk)
	timeSec := g.EvalSignalBlock(n.TimeSec, blk)
	feedback := g.EvalSignalBlock(n.Feedback, blk)
	for i := 0; i < blk.Size; i++ {
		delaySamples := int(timeSec[i] * blk.SampleRate)
		if delaySamples < 1 {
			delaySamples = 1
		}
		if delaySamples >= len(n.buf) {
			delaySamples = len(n.buf) - 1
		}
		readPos := n.writePos - delaySamples
		for readPos < 0 {
			readPos += len(n.buf)
		}
		tap := n.buf[readPos%len(n.buf)]
		n.buf[n.writePos] = in[i] + tap*feedback[i]
		n.writePos = (n.writePos + 1) % len(n.buf)
	}
}

// Reverb is a Schroeder reverb: four parallel comb filters feeding two
// series allpass stages, the standard cheap-and-cheerful topology. Like
// Delay, it is a delay-introducing node and splits state update (Ingest)
// from output read (Render) for the same cycle-breaking reason.
type Reverb struct {
	In       Signal
	Mix      Signal
	RoomSize Signal // 0..1
	Damping  Signal // 0..1

	combs    [4]combFilter
	allpass  [2]allpassFilter
	initDone bool
	lastOut  float64
}

type combFilter struct {
	buf      []float64
	pos      int
	filtered float64
}

type allpassFilter struct {
	buf []float64
	pos int
}

var combTunings = [4]float64{0.0297, 0.0371, 0.0411, 0.0437}
var allpassTunings = [2]float64{0.005, 0.0017}

func (n *Reverb) IntroducesDelay() bool { return true }
func (n *Reverb) Inputs() []Signal {
	return []Signal{n.In, n.Mix, n.RoomSize, n.Damping}
}

func (n *Reverb) ensureInit(sampleRate float64) {
	if n.initDone {
		return
	}
	for i := range n.combs {
		n.combs[i].buf = make([]float64, int(combTunings[i]*sampleRate)+1)
	}
	for i := range n.allpass {
		n.allpass[i].buf = make([]float64, int(allpassTunings[i]*sampleRate)+1)
	}
	n.initDone = true
}

func (n *Reverb) Render(g *Graph, blk Block, out []float64) {
	n.ensureInit(blk.SampleRate)
	mix := g.EvalSignalBlock(n.Mix, blk)
	dry := g.EvalSignalBlock(n.In, blk)
	for i := range out {
		out[i] = dry[i]*(1-mix[i]) + n.lastOut*mix[i]
	}
}

func (n *Reverb) Ingest(g *Graph, blk Block) {
	n.ensureInit(blk.SampleRate)
	in := g.EvalSignalBlock(n.In, blk)
	roomSize := g.EvalSignalBlock(n.RoomSize, blk)
	damping := g.EvalSignalBlock(n.Damping, blk)
	for i := 0; i < blk.Size; i++ {
		x := in[i]
		var sum float64
		feedback := 0.28 + 0.7*clamp01(roomSize[i])
		damp := clamp01(damping[i])
		for c := range n.combs {
			cf := &n.combs[c]
			delayed := cf.buf[cf.pos]
			cf.filtered = delayed*(1-damp) + cf.filtered*damp
			cf.buf[cf.pos] = x + cf.filtered*feedback
			cf.pos = (cf.pos + 1) % len(cf.buf)
			sum += delayed
		}
		sum /= 4
		for a := range n.allpass {
			ap := &n.allpass[a]
			delayed := ap.buf[ap.pos]
			ap.buf[ap.pos] = sum + delayed*0.5
			sum = delayed - sum*0.5
			ap.pos = (ap.pos + 1) % len(ap.buf)
		}
		n.lastOut = sum
	}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Convolution applies a fixed finite impulse response (direct-form FIR),
// intended for short, explicitly supplied kernels (cabinet/room IRs). Like
// Delay and Reverb it splits state update (Ingest) from output read
// (Render): a feedback ring broken only by a Convolution node must not have
// this block's In baked into this block's output, so Render reads purely
// from history written by a prior block's Ingest, and Ingest pushes this
// block's In into history afterward. history is sized for len(Kernel)
// taps plus a full block, so Render's reads never alias positions Ingest
// hasn't written yet this block.
type Convolution struct {
	In     Signal
	Kernel []float64

	history  []float64
	writePos int
}

func (n *Convolution) IntroducesDelay() bool { return true }
func (n *Convolution) Inputs() []Signal      { return []Signal{n.In} }

func (n *Convolution) ensureHistory(blockSize int) {
	if n.history != nil {
		return
	}
	size := len(n.Kernel) + blockSize
	if size < 1 {
		size = 1
	}
	n.history = make([]float64, size)
}

func (n *Convolution) Render(g *Graph, blk Block, out []float64) {
	n.ensureHistory(blk.Size)
	if len(n.Kernel) == 0 {
		return
	}
	start := n.writePos - blk.Size
	for start < 0 {
		start += len(n.history)
	}
	for i := range out {
		pos := (start + i) % len(n.history)
		var sum float64
		for k, coeff := range n.Kernel {
			idx := (pos - k + len(n.history)) % len(n.history)
			sum += n.history[idx] * coeff
		}
		out[i] = sum
	}
}

func (n *Convolution) Ingest(g *Graph, blk Block) {
	n.ensureHistory(blk.Size)
	in := g.EvalSignalBlock(n.In, blk)
	for i := 0; i < blk.Size; i++ {
		n.history[n.writePos] = in[i]
		n.writePos = (n.writePos + 1) % len(n.history)
	}
}

// BitCrush reduces sample rate (via zero-order hold) and bit depth, the
// lo-fi effect family original_source's FX parameter bank uses for
// glitch/crush texture.
type BitCrush struct {
	In       Signal
	Bits     Signal // effective bit depth, e.g. 4..16
	RateDiv  Signal // hold each sample for RateDiv samples

	held     float64
	counter  float64
}

func (n *BitCrush) IntroducesDelay() bool { return false }
func (n *BitCrush) Inputs() []Signal      { return []Signal{n.In, n.Bits, n.RateDiv} }
func (n *BitCrush) Render(g *Graph, blk Block, out []float64) {
	in := g.EvalSignalBlock(n.In, blk)
	bits := g.EvalSignalBlock(n.Bits, blk)
	rateDiv := g.EvalSignalBlock(n.RateDiv, blk)
	for i := range out {
		div := rateDiv[i]
		if div < 1 {
			div = 1
		}
		if n.counter <= 0 {
			n.held = in[i]
			n.counter = div
		}
		n.counter--

		b := bits[i]
		if b < 1 {
			b = 1
		}
		levels := math.Pow(2, b)
		out[i] = math.Round(n.held*levels) / levels
	}
}
