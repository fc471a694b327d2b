// Package pattern implements the time-queryable pattern algebra: Pattern[T]
// is a pure function from a query State to the Haps (events) visible in that
// window. All combinators here are read-only compositions; a Pattern value
// never mutates after construction.
package pattern

import "github.com/fermion-go/fermion/frac"

// State is the query context threaded through every Pattern.Query call.
// Controls carries externally injected modulation values a pattern may read
// (e.g. a bus value captured at query time for a control-rate reference).
type State struct {
	Span     frac.TimeSpan
	Controls map[string]float64
}

// WithSpan returns a copy of s with a different query span, keeping Controls.
func (s State) WithSpan(span frac.TimeSpan) State {
	return State{Span: span, Controls: s.Controls}
}

// Hap is one realized event. Whole is the event's intrinsic span (nil for a
// continuous signal sample with no onset duration); Part is the
// intersection with the query span that produced this Hap.
type Hap[T any] struct {
	Whole *frac.TimeSpan
	Part  frac.TimeSpan
	Value T
}

// HasOnset reports whether this Hap's Part begins exactly at its Whole's
// begin — i.e. whether querying it marks a genuine onset rather than a
// fragment of an event that started before the query window.
func (h Hap[T]) HasOnset() bool {
	return h.Whole != nil && h.Whole.Begin.Eq(h.Part.Begin)
}

// WithValue returns a copy of h with a different value, used by fmap-style
// transforms that only touch the payload.
func WithValue[T, U any](h Hap[T], v U) Hap[U] {
	return Hap[U]{Whole: h.Whole, Part: h.Part, Value: v}
}

// WithSpans maps both Whole and Part of h through f, preserving Value.
func (h Hap[T]) WithSpans(f func(frac.TimeSpan) frac.TimeSpan) Hap[T] {
	out := h
	out.Part = f(h.Part)
	if h.Whole != nil {
		w := f(*h.Whole)
		out.Whole = &w
	}
	return out
}

// Pattern is a pure query function plus a display name used only for
// diagnostics; it carries no other state. Patterns are immutable: every
// combinator below returns a new Pattern rather than mutating its operand.
type Pattern[T any] struct {
	Query func(State) []Hap[T]
	name  string
}

// Named attaches a display name to p, used only for debugging/printing.
func (p Pattern[T]) Named(name string) Pattern[T] {
	p.name = name
	return p
}

// String returns the pattern's display name if set, else a generic marker.
func (p Pattern[T]) String() string {
	if p.name != "" {
		return p.name
	}
	return "<pattern>"
}

// queryCycles runs query once per integer cycle inside s.Span and
// concatenates the results. Nearly every transform below needs to reason
// about a single cycle at a time (for alternation, rev, euclid, seeded
// randomness keyed by cycle index), so this is the shared entry point.
func queryCycles[T any](s State, f func(State) []Hap[T]) []Hap[T] {
	var out []Hap[T]
	for _, span := range s.Span.SpanCycles() {
		out = append(out, f(s.WithSpan(span))...)
	}
	return out
}

// Silence is the pattern with no events, ever.
func Silence[T any]() Pattern[T] {
	return Pattern[T]{
		Query: func(State) []Hap[T] { return nil },
		name:  "silence",
	}
}

// Pure returns a pattern producing one event per cycle with the given
// value, whole = [n, n+1).
func Pure[T any](v T) Pattern[T] {
	return Pattern[T]{
		Query: func(s State) []Hap[T] {
			return queryCycles(s, func(s State) []Hap[T] {
				whole := frac.CycleArc(s.Span.Begin)
				part, ok := whole.Intersect(s.Span)
				if !ok {
					return nil
				}
				return []Hap[T]{{Whole: &whole, Part: part, Value: v}}
			})
		},
		name: "pure",
	}
}

// FromSequence lays out n values evenly spaced within each cycle.
func FromSequence[T any](vs []T) Pattern[T] {
	n := len(vs)
	if n == 0 {
		return Silence[T]()
	}
	return Pattern[T]{
		Query: func(s State) []Hap[T] {
			return queryCycles(s, func(s State) []Hap[T] {
				sam := s.Span.Begin.Sam()
				var out []Hap[T]
				for i := 0; i < n; i++ {
					begin := sam.Add(frac.New(int64(i), int64(n)))
					end := sam.Add(frac.New(int64(i+1), int64(n)))
					whole := frac.TimeSpan{Begin: begin, End: end}
					part, ok := whole.Intersect(s.Span)
					if !ok {
						continue
					}
					out = append(out, Hap[T]{Whole: &whole, Part: part, Value: vs[i]})
				}
				return out
			})
		},
		name: "fromSequence",
	}
}

// Stack unions the events of every child pattern: a query against the stack
// returns the haps of every pattern in ps, queried independently over the
// same span.
func Stack[T any](ps ...Pattern[T]) Pattern[T] {
	return Pattern[T]{
		Query: func(s State) []Hap[T] {
			var out []Hap[T]
			for _, p := range ps {
				out = append(out, p.Query(s)...)
			}
			return out
		},
		name: "stack",
	}
}

// Map transforms every Hap's value via f, preserving timing exactly.
func Map[T, U any](p Pattern[T], f func(T) U) Pattern[U] {
	return Pattern[U]{
		Query: func(s State) []Hap[U] {
			in := p.Query(s)
			out := make([]Hap[U], len(in))
			for i, h := range in {
				out[i] = WithValue(h, f(h.Value))
			}
			return out
		},
		name: "map(" + p.String() + ")",
	}
}

// Filter keeps only Haps whose value satisfies pred.
func Filter[T any](p Pattern[T], pred func(T) bool) Pattern[T] {
	return Pattern[T]{
		Query: func(s State) []Hap[T] {
			in := p.Query(s)
			out := in[:0:0]
			for _, h := range in {
				if pred(h.Value) {
					out = append(out, h)
				}
			}
			return out
		},
		name: "filter(" + p.String() + ")",
	}
}

// FilterOnsets keeps only Haps that are genuine onsets (HasOnset true) or
// are continuous (Whole == nil); it drops fragments of events that started
// before the query window, which is the convention used when dispatching
// triggers (C8 should not re-trigger a voice for the tail of an event).
func FilterOnsets[T any](p Pattern[T]) Pattern[T] {
	return p.filterHaps(func(h Hap[T]) bool {
		return h.Whole == nil || h.HasOnset()
	})
}

func (p Pattern[T]) filterHaps(pred func(Hap[T]) bool) Pattern[T] {
	return Pattern[T]{
		Query: func(s State) []Hap[T] {
			in := p.Query(s)
			out := in[:0:0]
			for _, h := range in {
				if pred(h) {
					out = append(out, h)
				}
			}
			return out
		},
		name: p.name,
	}
}
