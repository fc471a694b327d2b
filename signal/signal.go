// Package signal implements the unified signal graph (C5/C6): an arena of
// audio nodes whose inputs are constants, references to other nodes, or
// pattern-derived control signals, evaluated at sample rate in blocks with
// persistent per-node state.
package signal

import (
	"github.com/fermion-go/fermion/pattern"
	"github.com/google/uuid"
)

// NodeId identifies a node within a Graph's arena. IDs are generated with
// uuid.New rather than an incrementing counter so that IDs minted by a
// freshly rebuilt graph (a hot-reload "stop and rebuild", spec §1 Non-goals)
// never collide with a prior graph's IDs during the pointer handoff
// described in spec §5.
type NodeId = uuid.UUID

// PatternId identifies a registered control-rate pattern referenced by a
// PatternEval node.
type PatternId = uuid.UUID

// NewID mints a fresh, collision-free identifier.
func NewID() uuid.UUID {
	return uuid.New()
}

// SignalSourceKind distinguishes the three flavors of Signal (spec §3).
type SignalSourceKind int

const (
	// SignalConstant is a fixed scalar value.
	SignalConstant SignalSourceKind = iota
	// SignalNode references another node's output.
	SignalNode
	// SignalPattern references a registered control-rate pattern.
	SignalPattern
)

// Signal is an edge value: a constant scalar, a reference to another node,
// or a reference to a pattern queried at control rate.
type Signal struct {
	Kind    SignalSourceKind
	Const   float64
	Node    NodeId
	Pattern PatternId
}

// Const builds a constant Signal.
func Const(v float64) Signal { return Signal{Kind: SignalConstant, Const: v} }

// Ref builds a Signal referencing another node's output.
func Ref(id NodeId) Signal { return Signal{Kind: SignalNode, Node: id} }

// PatternRef builds a Signal referencing a registered pattern.
func PatternRef(id PatternId) Signal { return Signal{Kind: SignalPattern, Pattern: id} }

// IsZero reports whether s is the zero Signal value (used to detect an
// unset optional input).
func (s Signal) IsZero() bool {
	return s == Signal{}
}

// NodeKind is the behavior every signal node kind implements: oscillators,
// filters, envelopes, dynamics, effects, arithmetic, sample playback, and
// pattern evaluation all satisfy this interface.
type NodeKind interface {
	// IntroducesDelay reports whether this node kind is a valid cycle
	// breaker for feedback routing (spec §9): Delay, Reverb and
	// Convolution report true.
	IntroducesDelay() bool

	// Inputs returns every Signal this node reads, used for the
	// render-order topological sort, which is also the zero-delay cycle
	// check.
	Inputs() []Signal

	// Render computes this block's output into out (length == block
	// size). For delay-introducing kinds, Render must produce its
	// output purely from internally held state — it must NOT read its
	// own Inputs() here; see Ingest.
	Render(g *Graph, blk Block, out []float64)
}

// DelayIngester is implemented by delay-introducing node kinds: after every
// other node's output has been computed and cached for the block, Graph
// calls Ingest once per delay node so it can pull its input (now safely
// resolvable, since the cycle was cut at this very node) and fold it into
// the state that will drive Render on the next block.
type DelayIngester interface {
	Ingest(g *Graph, blk Block)
}

// Block describes one render pass: the sample-rate window of B samples and
// the cycle-time span it corresponds to, used to query PatternEval nodes
// and the bridge (C8).
type Block struct {
	Size          int
	SampleRate    float64
	StartSample   int64
	CyclesPerSec  float64
	SpanBegin     float64 // cycle time of the block's first sample
	SpanEnd       float64 // cycle time just past the block's last sample
	ControlValues map[string]float64
}

// registeredPattern holds a control-rate pattern plus the last value seen,
// used by PatternEval(mode=continuous) to produce a piecewise-constant
// buffer that only changes at event boundaries inside the block.
type registeredPattern struct {
	pat  pattern.Pattern[float64]
	last float64
}
