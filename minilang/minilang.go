// Package minilang compiles the mini-notation grammar (spec §4.2) — strings
// like "bd sn hh*4 [cp, ~] bd(3,8)" — into Pattern[string] values usable
// directly by the signal graph's PatternEval nodes or by the program
// compiler's string-literal expressions.
package minilang

import "github.com/fermion-go/fermion/pattern"

// Parse compiles a mini-notation string into a Pattern[string]. A malformed
// string returns a *ParseError carrying the offending line/column, per
// spec §7.
func Parse(src string) (pattern.Pattern[string], error) {
	toks, err := newLexer(src).tokenize()
	if err != nil {
		return pattern.Pattern[string]{}, err
	}
	ast, err := newParser(toks).parseProgram()
	if err != nil {
		return pattern.Pattern[string]{}, err
	}
	return compile(ast), nil
}

// MustParse is Parse but panics on error; useful for literals known to be
// well-formed at call sites such as tests and compiler defaults.
func MustParse(src string) pattern.Pattern[string] {
	p, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return p
}
