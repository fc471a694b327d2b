package minilang

import (
	"github.com/fermion-go/fermion/frac"
	"github.com/fermion-go/fermion/pattern"
)

// compile turns a parsed AST node into a Pattern[string].
func compile(n node) pattern.Pattern[string] {
	switch n.kind {
	case nodeWord:
		return pattern.Pure(n.word)
	case nodeRest:
		return pattern.Silence[string]()
	case nodeSeq:
		return compileWeightedSeq(n.children)
	case nodeStack:
		ps := make([]pattern.Pattern[string], len(n.children))
		for i, c := range n.children {
			ps[i] = compile(c)
		}
		return pattern.Stack(ps...)
	case nodeAlt:
		return compileAlt(n.children)
	case nodeFast:
		return compilePerCycleFactor(*n.inner, n.argInt, false)
	case nodeSlow:
		return compilePerCycleFactor(*n.inner, n.argInt, true)
	case nodeDegrade:
		return pattern.DegradeBy(compile(*n.inner), 0.5)
	case nodeEuclid:
		return compileEuclid(n)
	case nodeRepeat:
		// A bare nodeRepeat reached here (not expanded by a containing
		// sequence, e.g. "bd!3" as the whole program) behaves as a
		// same-value sequence of its resolved count.
		count := resolveIntArg(n.argInt, 0)
		children := make([]node, count)
		for i := range children {
			children[i] = *n.inner
		}
		return compileWeightedSeq(children)
	default:
		return pattern.Silence[string]()
	}
}

// resolveIntArg resolves a numeric argument for the given absolute cycle
// index: a plain literal is constant; a <a b c> alternation picks
// altLiterals[cycle mod len].
func resolveIntArg(a *intArgNode, cycle int64) int {
	if a == nil {
		return 1
	}
	if !a.isAlt {
		return a.literal
	}
	if len(a.altLiterals) == 0 {
		return 0
	}
	idx := cycle % int64(len(a.altLiterals))
	if idx < 0 {
		idx += int64(len(a.altLiterals))
	}
	return a.altLiterals[idx]
}

// compilePerCycleFactor implements "*n"/"/n" where n may itself vary per
// cycle (spec §4.2: "bd*<3,4> alternates the replication count per
// cycle"). It resolves the factor once per cycle and applies Fast/Slow
// with that cycle's value, rather than requiring a single constant ratio
// across the whole query.
func compilePerCycleFactor(inner node, arg *intArgNode, slow bool) pattern.Pattern[string] {
	compiled := compile(inner)

	apply := func(n int) pattern.Pattern[string] {
		r := frac.FromInt(int64(n))
		if slow {
			return pattern.Slow(compiled, r)
		}
		return pattern.Fast(compiled, r)
	}

	// A constant factor (the common case: "bd*4", "bd/2") needs no
	// per-cycle splitting at all — applying the transform once over the
	// whole query span lets multi-cycle Wholes (e.g. a slow stretch that
	// spans several cycles) stay a single Hap instead of being sliced
	// into one fragment per cycle.
	if arg == nil || !arg.isAlt {
		n := 1
		if arg != nil {
			n = arg.literal
		}
		if n == 0 {
			return pattern.Silence[string]()
		}
		return apply(n)
	}

	return pattern.Pattern[string]{
		Query: func(s pattern.State) []pattern.Hap[string] {
			var out []pattern.Hap[string]
			for _, span := range s.Span.SpanCycles() {
				cycle := span.Begin.Sam().Floor()
				n := resolveIntArg(arg, cycle)
				if n == 0 {
					continue
				}
				out = append(out, apply(n).Query(s.WithSpan(span))...)
			}
			return out
		},
	}
}

// compileAlt picks one child per cycle, advancing each cycle, per spec
// §4.2's "<a b c>" alternation.
func compileAlt(children []node) pattern.Pattern[string] {
	if len(children) == 0 {
		return pattern.Silence[string]()
	}
	compiled := make([]pattern.Pattern[string], len(children))
	for i, c := range children {
		compiled[i] = compile(c)
	}
	return pattern.Pattern[string]{
		Query: func(s pattern.State) []pattern.Hap[string] {
			var out []pattern.Hap[string]
			for _, span := range s.Span.SpanCycles() {
				cycle := span.Begin.Sam().Floor()
				idx := cycle % int64(len(compiled))
				if idx < 0 {
					idx += int64(len(compiled))
				}
				out = append(out, compiled[idx].Query(s.WithSpan(span))...)
			}
			return out
		},
	}
}

// compileEuclid resolves k/n/rot (each itself possibly a per-cycle
// alternation) and attaches the resulting rhythm to the inner pattern via
// EuclidLegato.
func compileEuclid(n node) pattern.Pattern[string] {
	compiled := compile(*n.inner)
	return pattern.Pattern[string]{
		Query: func(s pattern.State) []pattern.Hap[string] {
			var out []pattern.Hap[string]
			for _, span := range s.Span.SpanCycles() {
				cycle := span.Begin.Sam().Floor()
				k := resolveIntArg(n.euclidK, cycle)
				nn := resolveIntArg(n.euclidN, cycle)
				rot := 0
				if n.euclidR != nil {
					rot = resolveIntArg(n.euclidR, cycle)
				}
				legato := pattern.EuclidLegato(k, nn, rot, compiled)
				out = append(out, legato.Query(s.WithSpan(span))...)
			}
			return out
		},
	}
}

// expandRepeats replaces every nodeRepeat child with N sequential copies of
// its inner node (N resolved statically at cycle 0 — repeat changes the
// sequence's step count, so unlike */ euclid it cannot vary per cycle
// without the whole sequence's layout becoming cycle-dependent).
func expandRepeats(children []node) []node {
	var out []node
	for _, c := range children {
		if c.kind == nodeRepeat {
			count := resolveIntArg(c.argInt, 0)
			for i := 0; i < count; i++ {
				rep := *c.inner
				rep.weight = c.weight
				out = append(out, rep)
			}
			continue
		}
		out = append(out, c)
	}
	return out
}

// compileWeightedSeq lays out children within [0,1) of each cycle
// proportional to their weights (default 1), using exact Fraction
// arithmetic throughout so layout never drifts.
func compileWeightedSeq(children []node) pattern.Pattern[string] {
	expanded := expandRepeats(children)
	if len(expanded) == 0 {
		return pattern.Silence[string]()
	}
	total := frac.Zero
	for _, c := range expanded {
		total = total.Add(c.weight)
	}
	if total.Num == 0 {
		return pattern.Silence[string]()
	}
	var parts []pattern.Pattern[string]
	cum := frac.Zero
	for _, c := range expanded {
		a := cum.Div(total)
		cum = cum.Add(c.weight)
		b := cum.Div(total)
		parts = append(parts, pattern.Compress(compile(c), a, b))
	}
	return pattern.Stack(parts...)
}
