package minilang

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fermion-go/fermion/frac"
)

// parseDecimalFraction parses a literal like "2" or "0.25" into an exact
// Fraction (num/10^d), avoiding the binary-float rounding a strconv.
// ParseFloat + frac.FromFloat round trip would introduce for common
// weights like @0.25.
func parseDecimalFraction(s string) (frac.Fraction, error) {
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return frac.Fraction{}, fmt.Errorf("invalid integer %q", s)
		}
		return frac.FromInt(n), nil
	}
	whole := s[:dot]
	frac_ := s[dot+1:]
	combined := whole + frac_
	if combined == "" {
		return frac.Fraction{}, fmt.Errorf("invalid decimal %q", s)
	}
	n, err := strconv.ParseInt(combined, 10, 64)
	if err != nil {
		return frac.Fraction{}, fmt.Errorf("invalid decimal %q", s)
	}
	den := int64(1)
	for i := 0; i < len(frac_); i++ {
		den *= 10
	}
	return frac.New(n, den), nil
}
