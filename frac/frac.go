// Package frac implements exact rational time arithmetic used throughout the
// pattern engine so that cycle boundaries and subdivisions never drift under
// repeated fast/slow/early/late composition.
package frac

import "fmt"

// Fraction is an exact rational number, always kept reduced with a positive
// denominator.
type Fraction struct {
	Num, Den int64
}

// Zero, One and Half are convenience constants used throughout the pattern
// combinators.
var (
	Zero = Fraction{0, 1}
	One  = Fraction{1, 1}
	Half = Fraction{1, 2}
)

// New builds a reduced Fraction from a numerator and denominator. It panics
// on a zero denominator, mirroring the teacher's fail-fast style for
// programmer errors rather than threading an error through hot arithmetic.
func New(num, den int64) Fraction {
	if den == 0 {
		panic("frac: zero denominator")
	}
	return Fraction{num, den}.reduce()
}

// FromInt lifts an integer into a Fraction.
func FromInt(n int64) Fraction {
	return Fraction{n, 1}
}

// FromFloat approximates a float64 as a Fraction with a bounded denominator,
// used only where float time enters the rational domain (the CLI's --cps
// value, and the once-per-block conversion of a render block's float cycle
// bounds into a query span) — never inside the pattern query hot path.
// Mini-notation weight literals use an exact decimal parser instead.
func FromFloat(f float64) Fraction {
	const maxDen = 1 << 20
	if f == 0 {
		return Zero
	}
	neg := f < 0
	if neg {
		f = -f
	}
	bestNum, bestDen := int64(0), int64(1)
	bestErr := f
	for den := int64(1); den <= maxDen; den *= 2 {
		num := int64(f*float64(den) + 0.5)
		approx := float64(num) / float64(den)
		err := approx - f
		if err < 0 {
			err = -err
		}
		if err < bestErr {
			bestErr, bestNum, bestDen = err, num, den
		}
		if err < 1e-12 {
			break
		}
	}
	if neg {
		bestNum = -bestNum
	}
	return New(bestNum, bestDen)
}

func gcd(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func (f Fraction) reduce() Fraction {
	if f.Den < 0 {
		f.Num, f.Den = -f.Num, -f.Den
	}
	g := gcd(f.Num, f.Den)
	return Fraction{f.Num / g, f.Den / g}
}

// Add returns f + g.
func (f Fraction) Add(g Fraction) Fraction {
	return New(f.Num*g.Den+g.Num*f.Den, f.Den*g.Den)
}

// Sub returns f - g.
func (f Fraction) Sub(g Fraction) Fraction {
	return New(f.Num*g.Den-g.Num*f.Den, f.Den*g.Den)
}

// Mul returns f * g.
func (f Fraction) Mul(g Fraction) Fraction {
	return New(f.Num*g.Num, f.Den*g.Den)
}

// Div returns f / g. Panics if g is zero, same as a native division by zero.
func (f Fraction) Div(g Fraction) Fraction {
	if g.Num == 0 {
		panic("frac: division by zero")
	}
	return New(f.Num*g.Den, f.Den*g.Num)
}

// Neg returns -f.
func (f Fraction) Neg() Fraction {
	return Fraction{-f.Num, f.Den}
}

// Cmp returns -1, 0, or 1 as f is less than, equal to, or greater than g.
func (f Fraction) Cmp(g Fraction) int {
	lhs := f.Num * g.Den
	rhs := g.Num * f.Den
	// Den is always positive after reduce, so cross-multiplication preserves order.
	switch {
	case lhs < rhs:
		return -1
	case lhs > rhs:
		return 1
	default:
		return 0
	}
}

// Lt, Lte, Gt, Gte, Eq are ordering sugar over Cmp.
func (f Fraction) Lt(g Fraction) bool  { return f.Cmp(g) < 0 }
func (f Fraction) Lte(g Fraction) bool { return f.Cmp(g) <= 0 }
func (f Fraction) Gt(g Fraction) bool  { return f.Cmp(g) > 0 }
func (f Fraction) Gte(g Fraction) bool { return f.Cmp(g) >= 0 }
func (f Fraction) Eq(g Fraction) bool  { return f.Cmp(g) == 0 }

// Float returns the float64 approximation of f, used only at the final
// sample-index boundary per the spec's precision discipline.
func (f Fraction) Float() float64 {
	return float64(f.Num) / float64(f.Den)
}

// Floor returns the greatest integer <= f.
func (f Fraction) Floor() int64 {
	q := f.Num / f.Den
	if f.Num%f.Den != 0 && (f.Num < 0) != (f.Den < 0) {
		q--
	}
	return q
}

// Ceil returns the least integer >= f.
func (f Fraction) Ceil() int64 {
	q := f.Num / f.Den
	if f.Num%f.Den != 0 && (f.Num < 0) == (f.Den < 0) {
		q++
	}
	return q
}

// Sam returns the start of the cycle containing f (the floor as a Fraction).
func (f Fraction) Sam() Fraction {
	return FromInt(f.Floor())
}

// NextSam returns the start of the next cycle after f.
func (f Fraction) NextSam() Fraction {
	return f.Sam().Add(One)
}

// CyclePos returns f's offset within its own cycle, in [0, 1).
func (f Fraction) CyclePos() Fraction {
	return f.Sub(f.Sam())
}

// Min returns the smaller of f and g.
func Min(f, g Fraction) Fraction {
	if f.Lte(g) {
		return f
	}
	return g
}

// Max returns the larger of f and g.
func Max(f, g Fraction) Fraction {
	if f.Gte(g) {
		return f
	}
	return g
}

// String renders "n/d", or just "n" when the denominator is 1.
func (f Fraction) String() string {
	if f.Den == 1 {
		return fmt.Sprintf("%d", f.Num)
	}
	return fmt.Sprintf("%d/%d", f.Num, f.Den)
}
