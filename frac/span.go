package frac

// TimeSpan is a half-open interval [Begin, End) of cycle time. Begin <= End
// is an invariant of every constructor below; an empty span (Begin == End)
// is allowed and represents a point query.
type TimeSpan struct {
	Begin, End Fraction
}

// NewSpan builds a TimeSpan, panicking if Begin > End.
func NewSpan(begin, end Fraction) TimeSpan {
	if begin.Gt(end) {
		panic("frac: span begin after end")
	}
	return TimeSpan{begin, end}
}

// Empty reports whether the span covers no time at all.
func (s TimeSpan) Empty() bool {
	return s.Begin.Eq(s.End)
}

// Duration returns End - Begin.
func (s TimeSpan) Duration() Fraction {
	return s.End.Sub(s.Begin)
}

// Intersect returns the overlap of s and t, and whether they overlap at all.
// Two spans that merely touch at a point (shared boundary, zero-width
// overlap) are reported as intersecting with an empty result span, matching
// the half-open convention events are clipped against.
func (s TimeSpan) Intersect(t TimeSpan) (TimeSpan, bool) {
	begin := Max(s.Begin, t.Begin)
	end := Min(s.End, t.End)
	if begin.Gt(end) {
		return TimeSpan{}, false
	}
	return TimeSpan{begin, end}, true
}

// Shift translates the span by d.
func (s TimeSpan) Shift(d Fraction) TimeSpan {
	return TimeSpan{s.Begin.Add(d), s.End.Add(d)}
}

// Scale scales the span around the origin by factor r (r > 0 expected; the
// caller is responsible for sign/zero checks specific to the transform).
func (s TimeSpan) Scale(r Fraction) TimeSpan {
	return TimeSpan{s.Begin.Mul(r), s.End.Mul(r)}
}

// WithTime maps both endpoints of the span through f, used by transforms
// that need a non-linear but monotonic coordinate change (e.g. zoom/compress
// composed with an offset).
func (s TimeSpan) WithTime(f func(Fraction) Fraction) TimeSpan {
	return TimeSpan{f(s.Begin), f(s.End)}
}

// SpanCycles splits s into one sub-span per cycle it overlaps, so that each
// resulting span lies within a single integer cycle. This is the standard
// "whole cycle split" used by every transform that must reason about one
// cycle at a time (rev, euclid, alternation, structure transforms).
func (s TimeSpan) SpanCycles() []TimeSpan {
	if s.Begin.Gte(s.End) {
		if s.Empty() {
			return []TimeSpan{s}
		}
		return nil
	}
	var out []TimeSpan
	begin := s.Begin
	for begin.Lt(s.End) {
		nextSam := begin.NextSam()
		end := Min(nextSam, s.End)
		out = append(out, TimeSpan{begin, end})
		begin = end
	}
	return out
}

// CycleArc returns the span corresponding to the single integer cycle
// containing point p: [floor(p), floor(p)+1).
func CycleArc(p Fraction) TimeSpan {
	sam := p.Sam()
	return TimeSpan{sam, sam.NextSam()}
}

// WithCycle re-expresses s relative to the cycle containing its Begin,
// i.e. subtracts the cycle's start from both endpoints.
func (s TimeSpan) WithCycle() TimeSpan {
	sam := s.Begin.Sam()
	return TimeSpan{s.Begin.Sub(sam), s.End.Sub(sam)}
}
