package pattern

import "github.com/fermion-go/fermion/frac"

// withQueryTime rewrites the query span through fwd before passing it to the
// child, then rewrites every returned Hap's spans through inv. This is the
// standard "coordinate change" shape every time transform below is built
// from: fwd maps parent time -> child time, inv maps child time -> parent
// time. Composition of several such transforms is plain function
// composition, with no special-cased reordering (spec §4.1).
func withQueryTime[T any](p Pattern[T], fwd, inv func(frac.Fraction) frac.Fraction) Pattern[T] {
	mapSpan := func(sp frac.TimeSpan) frac.TimeSpan {
		return frac.TimeSpan{Begin: fwd(sp.Begin), End: fwd(sp.End)}
	}
	invSpan := func(sp frac.TimeSpan) frac.TimeSpan {
		return frac.TimeSpan{Begin: inv(sp.Begin), End: inv(sp.End)}
	}
	return Pattern[T]{
		Query: func(s State) []Hap[T] {
			childSpan := mapSpan(s.Span)
			in := p.Query(s.WithSpan(childSpan))
			out := make([]Hap[T], len(in))
			for i, h := range in {
				out[i] = h.WithSpans(invSpan)
			}
			return out
		},
		name: p.name,
	}
}

// Fast multiplies internal time by r: r cycles of the child pass for every
// one cycle of the parent's query span. r == 0 collapses to silence.
func Fast[T any](p Pattern[T], r frac.Fraction) Pattern[T] {
	if r.Num == 0 {
		return Silence[T]()
	}
	if r.Lt(frac.Zero) {
		return Fast(Rev(p), r.Neg())
	}
	return withQueryTime(p,
		func(t frac.Fraction) frac.Fraction { return t.Mul(r) },
		func(t frac.Fraction) frac.Fraction { return t.Div(r) },
	).Named("fast")
}

// Slow is Fast(1/r).
func Slow[T any](p Pattern[T], r frac.Fraction) Pattern[T] {
	return Fast(p, frac.One.Div(r)).Named("slow")
}

// Early shifts the pattern earlier by t (events appear sooner).
func Early[T any](p Pattern[T], t frac.Fraction) Pattern[T] {
	return withQueryTime(p,
		func(x frac.Fraction) frac.Fraction { return x.Add(t) },
		func(x frac.Fraction) frac.Fraction { return x.Sub(t) },
	).Named("early")
}

// Late shifts the pattern later by t (events appear delayed).
func Late[T any](p Pattern[T], t frac.Fraction) Pattern[T] {
	return Early(p, t.Neg()).Named("late")
}

// Rev mirrors each cycle independently around its own midpoint, so a
// pattern whose events straddle a cycle boundary still reverses as a
// self-contained per-cycle mirror (spec §4.1 tie-break).
func Rev[T any](p Pattern[T]) Pattern[T] {
	reflect := func(sam frac.Fraction) func(frac.Fraction) frac.Fraction {
		return func(t frac.Fraction) frac.Fraction {
			cyclePos := t.Sub(sam)
			return sam.Add(frac.One.Sub(cyclePos))
		}
	}
	return Pattern[T]{
		Query: func(s State) []Hap[T] {
			return queryCycles(s, func(s State) []Hap[T] {
				sam := s.Span.Begin.Sam()
				refl := reflect(sam)
				// Reflecting a half-open [begin,end) swaps and negates
				// orientation, so begin/end must also swap after mapping.
				mapSpan := func(sp frac.TimeSpan) frac.TimeSpan {
					b, e := refl(sp.Begin), refl(sp.End)
					return frac.TimeSpan{Begin: e, End: b}
				}
				queried := mapSpan(s.Span)
				in := p.Query(s.WithSpan(queried))
				out := make([]Hap[T], len(in))
				for i, h := range in {
					out[i] = h.WithSpans(mapSpan)
				}
				return out
			})
		},
		name: "rev",
	}
}

// Palindrome plays the pattern forward on even cycles and reversed on odd
// cycles, i.e. a 2-cycle forward-then-reverse loop.
func Palindrome[T any](p Pattern[T]) Pattern[T] {
	rev := Rev(p)
	return Pattern[T]{
		Query: func(s State) []Hap[T] {
			return queryCycles(s, func(s State) []Hap[T] {
				cycle := s.Span.Begin.Sam().Floor()
				if cycle%2 == 0 {
					return p.Query(s)
				}
				return rev.Query(s)
			})
		},
		name: "palindrome",
	}
}

// Zoom keeps only the window [a,b) of each cycle, rescaled to fill the
// whole cycle. Compress is its inverse: it places the whole cycle's content
// into [a,b), leaving the rest of the cycle silent.
func Zoom[T any](p Pattern[T], a, b frac.Fraction) Pattern[T] {
	width := b.Sub(a)
	if width.Num <= 0 {
		return Silence[T]()
	}
	return Pattern[T]{
		Query: func(s State) []Hap[T] {
			return queryCycles(s, func(s State) []Hap[T] {
				sam := s.Span.Begin.Sam()
				toChild := func(t frac.Fraction) frac.Fraction {
					return sam.Add(t.Sub(sam).Sub(a).Div(width))
				}
				toParent := func(t frac.Fraction) frac.Fraction {
					return sam.Add(t.Sub(sam).Mul(width).Add(a))
				}
				mapSpan := func(sp frac.TimeSpan) frac.TimeSpan {
					return frac.TimeSpan{Begin: toChild(sp.Begin), End: toChild(sp.End)}
				}
				invSpan := func(sp frac.TimeSpan) frac.TimeSpan {
					return frac.TimeSpan{Begin: toParent(sp.Begin), End: toParent(sp.End)}
				}
				childSpan := mapSpan(s.Span)
				in := p.Query(s.WithSpan(childSpan))
				out := make([]Hap[T], len(in))
				for i, h := range in {
					out[i] = h.WithSpans(invSpan)
				}
				return out
			})
		},
		name: "zoom",
	}
}

// Compress places the whole cycle's pattern content into the sub-window
// [a,b) of each cycle, silent elsewhere. It is Zoom's inverse per spec P4.
func Compress[T any](p Pattern[T], a, b frac.Fraction) Pattern[T] {
	width := b.Sub(a)
	if width.Num <= 0 {
		return Silence[T]()
	}
	inner := Pattern[T]{
		Query: func(s State) []Hap[T] {
			return queryCycles(s, func(s State) []Hap[T] {
				sam := s.Span.Begin.Sam()
				window := frac.TimeSpan{Begin: sam.Add(a), End: sam.Add(b)}
				clipped, ok := window.Intersect(s.Span)
				if !ok {
					return nil
				}
				toChild := func(t frac.Fraction) frac.Fraction {
					return sam.Add(t.Sub(sam).Sub(a).Div(width))
				}
				toParent := func(t frac.Fraction) frac.Fraction {
					return sam.Add(t.Sub(sam).Mul(width).Add(a))
				}
				childSpan := frac.TimeSpan{Begin: toChild(clipped.Begin), End: toChild(clipped.End)}
				in := p.Query(s.WithSpan(childSpan))
				out := make([]Hap[T], 0, len(in))
				for _, h := range in {
					mapped := h.WithSpans(func(sp frac.TimeSpan) frac.TimeSpan {
						return frac.TimeSpan{Begin: toParent(sp.Begin), End: toParent(sp.End)}
					})
					part, ok := mapped.Part.Intersect(clipped)
					if !ok {
						continue
					}
					mapped.Part = part
					out = append(out, mapped)
				}
				return out
			})
		},
	}
	return inner.Named("compress")
}

// Every applies transform f only on cycles whose index ≡ 0 (mod n). n == 1
// applies f on every cycle; n <= 0 returns p unchanged.
func Every[T any](p Pattern[T], n int, f func(Pattern[T]) Pattern[T]) Pattern[T] {
	if n <= 0 {
		return p
	}
	transformed := f(p)
	return Pattern[T]{
		Query: func(s State) []Hap[T] {
			return queryCycles(s, func(s State) []Hap[T] {
				cycle := s.Span.Begin.Sam().Floor()
				m := cycle % int64(n)
				if m < 0 {
					m += int64(n)
				}
				if m == 0 {
					return transformed.Query(s)
				}
				return p.Query(s)
			})
		},
		name: "every",
	}
}
