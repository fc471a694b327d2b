package pattern

// DegradeBy drops each onset with probability p (0..1), seeded
// deterministically by (cycle index, local index within the query) so that
// identical queries across runs are bit-identical (spec §4.1, §9).
func DegradeBy[T any](p Pattern[T], prob float64) Pattern[T] {
	return Pattern[T]{
		Query: func(s State) []Hap[T] {
			return queryCycles(s, func(s State) []Hap[T] {
				cycle := s.Span.Begin.Sam().Floor()
				in := p.Query(s)
				out := in[:0:0]
				for i, h := range in {
					if unitRand(cycle, int64(i)) >= prob {
						out = append(out, h)
					}
				}
				return out
			})
		},
		name: "degradeBy",
	}
}

// Degrade is DegradeBy(0.5).
func Degrade[T any](p Pattern[T]) Pattern[T] {
	return DegradeBy(p, 0.5)
}

// SometimesBy applies transform f to the fraction prob of cycles (chosen
// deterministically per cycle index) and leaves the rest untouched.
func SometimesBy[T any](p Pattern[T], prob float64, f func(Pattern[T]) Pattern[T]) Pattern[T] {
	transformed := f(p)
	return Pattern[T]{
		Query: func(s State) []Hap[T] {
			return queryCycles(s, func(s State) []Hap[T] {
				cycle := s.Span.Begin.Sam().Floor()
				if unitRand(cycle, -1) < prob {
					return transformed.Query(s)
				}
				return p.Query(s)
			})
		},
		name: "sometimesBy",
	}
}

// Sometimes is SometimesBy(0.5, f).
func Sometimes[T any](p Pattern[T], f func(Pattern[T]) Pattern[T]) Pattern[T] {
	return SometimesBy(p, 0.5, f)
}
