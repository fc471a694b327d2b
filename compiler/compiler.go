// Package compiler implements the program compiler (C9): it binds named
// buses and the output sink, resolving cross-references (including
// forward and cyclic ones) via the classic two-pass placeholder strategy,
// and rejects any zero-delay feedback cycle before handing the finished
// graph to the caller.
package compiler

import (
	"fmt"

	"github.com/fermion-go/fermion/signal"
)

// CompileError reports a problem found while compiling a program, carrying
// enough context for a REPL or CLI to print something actionable: the bus
// name where one applies, and for cycle errors the graph's own message in
// Msg, which names the node where the cycle closed and the node path that
// reached it. Compile does not fill Cycle.
type CompileError struct {
	Bus   string
	Cycle []string
	Msg   string
}

func (e *CompileError) Error() string {
	if len(e.Cycle) > 0 {
		return fmt.Sprintf("compiler: zero-delay cycle through buses %v: %s", e.Cycle, e.Msg)
	}
	if e.Bus != "" {
		return fmt.Sprintf("compiler: bus %q: %s", e.Bus, e.Msg)
	}
	return "compiler: " + e.Msg
}

// BusExpr is one named bus statement: a builder function that, given the
// in-progress Graph and the resolved placeholder signals for every bus
// (including itself and any not-yet-defined forward reference), produces
// the Signal this bus should resolve to. Builders run in pass 2, once
// every bus name is already backed by a placeholder node, so a builder may
// freely reference any other bus by name — including one defined later in
// program order, or itself (feedback).
type BusExpr struct {
	Name  string
	Build func(g *signal.Graph, buses map[string]signal.Signal) signal.Signal
}

// Program is an ordered set of bus definitions plus the expression that
// produces the final output signal.
type Program struct {
	Buses  []BusExpr
	Output func(g *signal.Graph, buses map[string]signal.Signal) signal.Signal
}

// placeholderKind is a node kind used only during pass 1: it has exactly
// one input (Identity), initially Constant(0), later rewritten in-place
// once pass 2 resolves the bus's real expression. It never introduces
// delay itself — the delay, if any, must come from inside the resolved
// subgraph it forwards to.
type placeholderKind struct {
	Identity signal.Signal
}

func (p *placeholderKind) IntroducesDelay() bool { return false }
func (p *placeholderKind) Inputs() []signal.Signal {
	return []signal.Signal{p.Identity}
}
func (p *placeholderKind) Render(g *signal.Graph, blk signal.Block, out []float64) {
	copy(out, g.EvalSignalBlock(p.Identity, blk))
}

// Compile runs the two-pass bus resolution described in spec §9, then
// validates that every remaining cycle in the resulting graph routes
// through at least one delay-introducing node (via Graph.Compile's own
// topological sort, which already rejects any cycle with no delay-breaking
// node in its Inputs()).
func Compile(prog Program) (*signal.Graph, error) {
	g := signal.New()

	// Pass 1: collect. Every bus name gets a placeholder node wired to
	// Constant(0) so forward and self references resolve to something
	// during pass 2's Build calls, even before the real expression exists.
	placeholders := make(map[string]*placeholderKind, len(prog.Buses))
	placeholderIDs := make(map[string]signal.NodeId, len(prog.Buses))
	buses := make(map[string]signal.Signal, len(prog.Buses))

	for _, b := range prog.Buses {
		if _, dup := buses[b.Name]; dup {
			return nil, &CompileError{Bus: b.Name, Msg: "duplicate bus definition"}
		}
		id := signal.NewID()
		ph := &placeholderKind{Identity: signal.Const(0)}
		g.AddNodeWithID(id, ph)
		placeholders[b.Name] = ph
		placeholderIDs[b.Name] = id
		buses[b.Name] = signal.Ref(id)
	}

	// Pass 2: resolve. Build each bus's real subgraph (which may reference
	// any entry in `buses`, including itself) and rewrite that bus's
	// placeholder to forward to it.
	for _, b := range prog.Buses {
		resolved := b.Build(g, buses)
		placeholders[b.Name].Identity = resolved
	}

	if prog.Output == nil {
		return nil, &CompileError{Msg: "program has no output expression"}
	}
	g.Output = prog.Output(g, buses)

	if err := g.Compile(); err != nil {
		return nil, wrapCycleError(err)
	}
	return g, nil
}

// wrapCycleError re-wraps the Graph-level topological-sort error (which
// already names the offending node) as a *CompileError so callers can
// type-switch on one error family regardless of which compile stage failed.
func wrapCycleError(err error) error {
	return &CompileError{Msg: err.Error()}
}
