package pattern

import "github.com/fermion-go/fermion/frac"

// Stutter (alias Ply) subdivides each event into n equal sub-events
// carrying the same value, preserving the event's overall span.
func Stutter[T any](p Pattern[T], n int) Pattern[T] {
	if n <= 1 {
		return p
	}
	return Pattern[T]{
		Query: func(s State) []Hap[T] {
			in := p.Query(s)
			var out []Hap[T]
			for _, h := range in {
				if h.Whole == nil {
					out = append(out, h)
					continue
				}
				whole := *h.Whole
				step := whole.Duration().Div(frac.FromInt(int64(n)))
				for i := 0; i < n; i++ {
					subWhole := frac.TimeSpan{
						Begin: whole.Begin.Add(step.Mul(frac.FromInt(int64(i)))),
						End:   whole.Begin.Add(step.Mul(frac.FromInt(int64(i + 1)))),
					}
					part, ok := subWhole.Intersect(h.Part)
					if !ok {
						continue
					}
					out = append(out, Hap[T]{Whole: &subWhole, Part: part, Value: h.Value})
				}
			}
			return out
		},
		name: "stutter",
	}
}

// Ply is an alias of Stutter, matching the mini-notation's separate naming
// for the same operation.
func Ply[T any](p Pattern[T], n int) Pattern[T] {
	return Stutter(p, n)
}

// Chop slices each event into n equal sub-windows and stacks them
// simultaneously: unlike Stutter, the sub-windows occupy the *same* overall
// time span as the source event rather than subdividing it sequentially —
// here expressed over the value type via a slice index, so T must carry
// enough information for the caller to select a windowed value. This
// generic form simply stacks n copies tagged with their slice index via
// the withIndex callback.
func Chop[T any](p Pattern[T], n int, withIndex func(v T, idx, of int) T) Pattern[T] {
	if n <= 1 {
		return p
	}
	return Pattern[T]{
		Query: func(s State) []Hap[T] {
			in := p.Query(s)
			var out []Hap[T]
			for _, h := range in {
				if h.Whole == nil {
					out = append(out, h)
					continue
				}
				for i := 0; i < n; i++ {
					whole := *h.Whole
					out = append(out, Hap[T]{Whole: &whole, Part: h.Part, Value: withIndex(h.Value, i, n)})
				}
			}
			return out
		},
		name: "chop",
	}
}

// Striate is an alias of Chop (spec §9: the two names describe the same
// transform in the source corpus).
func Striate[T any](p Pattern[T], n int, withIndex func(v T, idx, of int) T) Pattern[T] {
	return Chop(p, n, withIndex)
}

// Slice splits each cycle of p into n equal windows and, for each event of
// idxPat, plays the window whose index (idxPat's value mod n) that event
// selects.
func Slice(p Pattern[float64], n int, idxPat Pattern[int]) Pattern[float64] {
	if n <= 0 {
		return Silence[float64]()
	}
	return Pattern[float64]{
		Query: func(s State) []Hap[float64] {
			idxHaps := idxPat.Query(s)
			var out []Hap[float64]
			for _, ih := range idxHaps {
				if ih.Whole == nil {
					continue
				}
				idx := ih.Value % n
				if idx < 0 {
					idx += n
				}
				step := frac.New(1, int64(n))
				sam := ih.Part.Begin.Sam()
				winBegin := sam.Add(step.Mul(frac.FromInt(int64(idx))))
				winEnd := sam.Add(step.Mul(frac.FromInt(int64(idx + 1))))
				valHaps := p.Query(s.WithSpan(frac.TimeSpan{Begin: winBegin, End: winEnd}))
				for _, vh := range valHaps {
					out = append(out, Hap[float64]{Whole: ih.Whole, Part: ih.Part, Value: vh.Value})
				}
			}
			return out
		},
		name: "slice",
	}
}

// Struct uses boolPat for rhythm (an onset plays iff the bool at that
// position is true) and valPat for the values carried by those onsets.
func Struct[T any](boolPat Pattern[bool], valPat Pattern[T]) Pattern[T] {
	return Pattern[T]{
		Query: func(s State) []Hap[T] {
			bh := boolPat.Query(s)
			var out []Hap[T]
			for _, b := range bh {
				if !b.Value {
					continue
				}
				valHaps := valPat.Query(s.WithSpan(b.Part))
				for _, vh := range valHaps {
					out = append(out, Hap[T]{Whole: b.Whole, Part: b.Part, Value: vh.Value})
				}
			}
			return out
		},
		name: "struct",
	}
}
