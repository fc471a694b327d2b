package compiler

import "github.com/fermion-go/fermion/signal"

// KeywordArgs binds named node parameters (spec supplement: original_source
// allows node construction with keyword arguments — "freq: 440, q: 0.7" —
// rather than strict positional ordering). Each value is itself a Signal
// builder, so a keyword argument can be a literal, a bus reference, or a
// pattern reference just as easily as a bare constant.
type KeywordArgs map[string]func(g *signal.Graph, buses map[string]signal.Signal) signal.Signal

// Resolve evaluates every entry in a against g/buses, returning the
// concrete Signal values keyed by argument name.
func (a KeywordArgs) Resolve(g *signal.Graph, buses map[string]signal.Signal) map[string]signal.Signal {
	out := make(map[string]signal.Signal, len(a))
	for name, build := range a {
		out[name] = build(g, buses)
	}
	return out
}

// Get returns the resolved signal for name, or def if the keyword argument
// was not supplied — the fallback every node-building helper uses so a
// program can omit any parameter and get the node kind's documented default.
func Get(resolved map[string]signal.Signal, name string, def signal.Signal) signal.Signal {
	if v, ok := resolved[name]; ok {
		return v
	}
	return def
}

// Lit is shorthand for a keyword argument that's always a plain constant.
func Lit(v float64) func(g *signal.Graph, buses map[string]signal.Signal) signal.Signal {
	return func(*signal.Graph, map[string]signal.Signal) signal.Signal {
		return signal.Const(v)
	}
}

// Bus is shorthand for a keyword argument that references another bus by
// name, resolving to Constant(0) if the bus doesn't exist (the compiler's
// placeholder-collection pass guarantees every declared bus name resolves,
// but an argument may legitimately reference an undeclared bus as a typo —
// silently falling back rather than panicking keeps Resolve total).
func Bus(name string) func(g *signal.Graph, buses map[string]signal.Signal) signal.Signal {
	return func(_ *signal.Graph, buses map[string]signal.Signal) signal.Signal {
		if s, ok := buses[name]; ok {
			return s
		}
		return signal.Const(0)
	}
}
