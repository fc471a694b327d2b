package pattern

import "github.com/fermion-go/fermion/frac"

// Structure selects which side's onsets drive the combined pattern's
// rhythm, per spec §4.1's "|+ / +| / +" convention.
type Structure int

const (
	// StructLeft ("|+") takes onsets from the left operand only.
	StructLeft Structure = iota
	// StructRight ("+|") takes onsets from the right operand only.
	StructRight
	// StructBoth ("+") takes onsets from the union of both operands.
	StructBoth
)

// CombineWith combines two float patterns element-wise with op, selecting
// onset structure per structure.
func CombineWith(a, b Pattern[float64], structure Structure, op func(x, y float64) float64) Pattern[float64] {
	switch structure {
	case StructLeft:
		return combineStructured(a, b, op)
	case StructRight:
		return combineStructured(b, a, func(y, x float64) float64 { return op(x, y) })
	default:
		return combineUnion(a, b, op)
	}
}

// combineStructured takes rhythm from `driver`, sampling `other`'s
// most-recent value at each driver onset (piecewise-constant hold).
func combineStructured(driver, other Pattern[float64], op func(x, y float64) float64) Pattern[float64] {
	return Pattern[float64]{
		Query: func(s State) []Hap[float64] {
			driverHaps := driver.Query(s)
			var out []Hap[float64]
			for _, dh := range driverHaps {
				otherVal, ok := sampleAt(other, s, dh.Part.Begin)
				if !ok {
					continue
				}
				out = append(out, Hap[float64]{Whole: dh.Whole, Part: dh.Part, Value: op(dh.Value, otherVal)})
			}
			return out
		},
		name: "combine",
	}
}

// combineUnion takes the union of onsets from both sides: every onset from
// either pattern produces a combined event, with the non-driving side's
// value resolved by piecewise-constant hold at that onset's start.
func combineUnion(a, b Pattern[float64], op func(x, y float64) float64) Pattern[float64] {
	return Pattern[float64]{
		Query: func(s State) []Hap[float64] {
			var out []Hap[float64]
			for _, ah := range a.Query(s) {
				bv, ok := sampleAt(b, s, ah.Part.Begin)
				if !ok {
					continue
				}
				out = append(out, Hap[float64]{Whole: ah.Whole, Part: ah.Part, Value: op(ah.Value, bv)})
			}
			for _, bh := range b.Query(s) {
				av, ok := sampleAt(a, s, bh.Part.Begin)
				if !ok {
					continue
				}
				out = append(out, Hap[float64]{Whole: bh.Whole, Part: bh.Part, Value: op(av, bh.Value)})
			}
			return out
		},
		name: "combine",
	}
}

// sampleAt queries p for the value active at instant t, used to resolve the
// "hold" side of a structured combine: it queries the whole cycle
// containing t and picks the segment whose part covers t, preferring the
// one with the latest begin (the most recent onset at or before t), per
// the piecewise-constant hold convention of spec §4.1.
func sampleAt(p Pattern[float64], s State, t frac.Fraction) (float64, bool) {
	return SampleAt(p, s, t)
}

// SampleAt queries p for the value active at instant t under query context
// s, preferring the onset with the latest begin at-or-before t. It is the
// exported form of the piecewise-constant hold lookup combine uses
// internally, reused by the bridge (C8) to resolve a control-rate pattern's
// value at a dispatched onset's start time.
func SampleAt(p Pattern[float64], s State, t frac.Fraction) (float64, bool) {
	cycleSpan := frac.CycleArc(t)
	haps := p.Query(s.WithSpan(cycleSpan))
	var best *Hap[float64]
	for i := range haps {
		h := &haps[i]
		covers := h.Part.Begin.Lte(t) && (h.Part.End.Gt(t) || h.Part.Begin.Eq(t))
		if !covers {
			continue
		}
		if best == nil || h.Part.Begin.Gt(best.Part.Begin) {
			best = h
		}
	}
	if best == nil {
		return 0, false
	}
	return best.Value, true
}

// Add, Sub, Mul, Div are the four element-wise operators with a chosen
// onset structure.
func Add(a, b Pattern[float64], structure Structure) Pattern[float64] {
	return CombineWith(a, b, structure, func(x, y float64) float64 { return x + y })
}

func Sub(a, b Pattern[float64], structure Structure) Pattern[float64] {
	return CombineWith(a, b, structure, func(x, y float64) float64 { return x - y })
}

func Mul(a, b Pattern[float64], structure Structure) Pattern[float64] {
	return CombineWith(a, b, structure, func(x, y float64) float64 { return x * y })
}

func Div(a, b Pattern[float64], structure Structure) Pattern[float64] {
	return CombineWith(a, b, structure, func(x, y float64) float64 {
		if y == 0 {
			return 0
		}
		return x / y
	})
}
