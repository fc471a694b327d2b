package signal

import (
	"fmt"

	"github.com/fermion-go/fermion/frac"
	"github.com/fermion-go/fermion/pattern"
)

// Graph is the compiled signal arena: a fixed set of nodes wired by Signal
// edges, plus the registered control-rate patterns PatternEval nodes read
// from. A Graph is built once by the compiler (C9) and then driven block by
// block for the lifetime of a render or a live session; hot-reload (spec §1
// Non-goals) replaces the whole Graph rather than mutating one in place.
type Graph struct {
	nodes    map[NodeId]*nodeEntry
	order    []NodeId // cached render order, see compileOrder
	patterns map[PatternId]*registeredPattern
	Output   Signal // the node (or constant) sampled as the final mono signal

	sampleCount int64 // total samples rendered so far; the sample clock
}

type nodeEntry struct {
	id     NodeId
	kind   NodeKind
	cached []float64
	valid  bool
}

// New returns an empty Graph. Nodes are added with AddNode before the graph
// is handed to Compile.
func New() *Graph {
	return &Graph{
		nodes:    make(map[NodeId]*nodeEntry),
		patterns: make(map[PatternId]*registeredPattern),
	}
}

// AddNode inserts a node kind under a freshly minted NodeId and returns it
// as a Signal ready to be wired as another node's input.
func (g *Graph) AddNode(k NodeKind) Signal {
	id := NewID()
	g.nodes[id] = &nodeEntry{id: id, kind: k}
	return Ref(id)
}

// AddNodeWithID inserts a node kind under a caller-chosen NodeId, used when
// two nodes need to reference each other before both are constructed (a
// feedback loop's mix point and its delay node, for instance).
func (g *Graph) AddNodeWithID(id NodeId, k NodeKind) Signal {
	g.nodes[id] = &nodeEntry{id: id, kind: k}
	return Ref(id)
}

// RegisterPattern registers a continuous control-rate pattern and returns
// the PatternId a PatternEval(mode=continuous) node binds to.
func (g *Graph) RegisterPattern(p pattern.Pattern[float64]) PatternId {
	id := NewID()
	g.patterns[id] = &registeredPattern{pat: p}
	return id
}

// Compile validates the graph (every referenced node exists) and computes
// the cached render order. It must be called once after wiring is complete
// and before the first RenderBlock. Its topological sort is also the
// zero-delay cycle check: it rejects any cycle that does not route through
// at least one delay-introducing node. The compiler package (C9) relies on
// this check rather than running a cycle pass of its own.
func (g *Graph) Compile() error {
	order, err := topoOrder(g)
	if err != nil {
		return err
	}
	g.order = order
	return nil
}

// topoOrder computes a valid evaluation order: a node's non-delay inputs
// must be computed before it. Edges out of a delay-introducing node's
// Inputs() are deliberately excluded, since that node's Render reads only
// its own internal state for the current block (see DelayIngester) — which
// is exactly what lets a feedback loop through a Delay/Reverb node render
// without a topological contradiction.
func topoOrder(g *Graph) ([]NodeId, error) {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[NodeId]int, len(g.nodes))
	var order []NodeId

	var visit func(id NodeId, path []NodeId) error
	visit = func(id NodeId, path []NodeId) error {
		switch color[id] {
		case black:
			return nil
		case gray:
			return fmt.Errorf("signal: cycle detected at node %s (path %v) with no delay-introducing node to break it", id, path)
		}
		entry, ok := g.nodes[id]
		if !ok {
			return fmt.Errorf("signal: reference to unknown node %s", id)
		}
		color[id] = gray
		if !entry.kind.IntroducesDelay() {
			for _, in := range entry.kind.Inputs() {
				if in.Kind != SignalNode {
					continue
				}
				if err := visit(in.Node, append(path, id)); err != nil {
					return err
				}
			}
		}
		color[id] = black
		order = append(order, id)
		return nil
	}

	for id := range g.nodes {
		if err := visit(id, nil); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// RenderBlock evaluates every reachable node once for a block of the given
// size and returns the Output signal's mono buffer. The block's cycle-time
// span is derived from the sample clock, the sample rate, and cps (cycles
// per second) — the bridge between wall-clock sample indices and the
// pattern domain's rational cycle coordinates (spec §5).
func (g *Graph) RenderBlock(size int, sampleRate float64, cps frac.Fraction) []float64 {
	spanBegin := float64(g.sampleCount) * cps.Float() / sampleRate
	spanEnd := float64(g.sampleCount+int64(size)) * cps.Float() / sampleRate
	blk := Block{
		Size:         size,
		SampleRate:   sampleRate,
		StartSample:  g.sampleCount,
		CyclesPerSec: cps.Float(),
		SpanBegin:    spanBegin,
		SpanEnd:      spanEnd,
	}

	for _, entry := range g.nodes {
		entry.valid = false
	}

	for _, id := range g.order {
		g.evalNode(id, blk)
	}
	// Second pass: let every delay-introducing node pull its (now fully
	// resolvable) input and fold it into state for the next block.
	for _, id := range g.order {
		entry := g.nodes[id]
		if ing, ok := entry.kind.(DelayIngester); ok {
			ing.Ingest(g, blk)
		}
	}

	out := g.EvalSignalBlock(g.Output, blk)
	g.sampleCount += int64(size)
	return out
}

func (g *Graph) evalNode(id NodeId, blk Block) []float64 {
	entry := g.nodes[id]
	if entry.valid {
		return entry.cached
	}
	if len(entry.cached) != blk.Size {
		entry.cached = make([]float64, blk.Size)
	} else {
		for i := range entry.cached {
			entry.cached[i] = 0
		}
	}
	entry.kind.Render(g, blk, entry.cached)
	entry.valid = true
	return entry.cached
}

// EvalSignalBlock resolves any Signal (constant, node reference, or pattern
// reference) into a length-blk.Size buffer. Node kinds call this on their
// own Inputs() to assemble their Render output.
func (g *Graph) EvalSignalBlock(s Signal, blk Block) []float64 {
	out := make([]float64, blk.Size)
	switch s.Kind {
	case SignalConstant:
		for i := range out {
			out[i] = s.Const
		}
	case SignalNode:
		copy(out, g.evalNode(s.Node, blk))
	case SignalPattern:
		g.evalPatternBlock(s.Pattern, blk, out)
	}
	return out
}

// evalPatternBlock produces a piecewise-constant control buffer: the
// pattern is queried once for the whole block span, and each sample takes
// the value of whichever Hap's Part covers its cycle-time position, holding
// the previous value across any silent gap.
func (g *Graph) evalPatternBlock(id PatternId, blk Block, out []float64) {
	rp, ok := g.patterns[id]
	if !ok {
		return
	}
	haps := rp.pat.Query(pattern.State{Span: spanFromBlock(blk)})

	width := blk.SpanEnd - blk.SpanBegin
	for i := 0; i < blk.Size; i++ {
		var t float64
		if blk.Size > 1 {
			t = blk.SpanBegin + width*float64(i)/float64(blk.Size)
		} else {
			t = blk.SpanBegin
		}
		val, found := valueAt(haps, t)
		if found {
			rp.last = val
		}
		out[i] = rp.last
	}
}

// spanFromBlock converts a Block's cycle-time window into a TimeSpan,
// shared by the continuous control sampler and PatternEval's trigger mode.
func spanFromBlock(blk Block) frac.TimeSpan {
	return frac.NewSpan(frac.FromFloat(blk.SpanBegin), frac.FromFloat(blk.SpanEnd))
}

func valueAt(haps []pattern.Hap[float64], t float64) (float64, bool) {
	var best *pattern.Hap[float64]
	for i := range haps {
		h := &haps[i]
		b, e := h.Part.Begin.Float(), h.Part.End.Float()
		if t < b || t >= e {
			continue
		}
		if best == nil || h.Part.Begin.Float() > best.Part.Begin.Float() {
			best = h
		}
	}
	if best == nil {
		return 0, false
	}
	return best.Value, true
}
