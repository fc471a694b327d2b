package minilang

import (
	"fmt"
	"strconv"

	"github.com/fermion-go/fermion/frac"
)

type parser struct {
	toks []token
	pos  int
}

func newParser(toks []token) *parser {
	return &parser{toks: toks}
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) errf(t token, format string, args ...interface{}) error {
	return &ParseError{Line: t.line, Column: t.column, Msg: fmt.Sprintf(format, args...)}
}

// parseProgram parses a whole mini-notation string as an implicit top-level
// sequence, per spec §4.2's grammar.
func (p *parser) parseProgram() (node, error) {
	children, err := p.parseSeqUntil(tokEOF)
	if err != nil {
		return node{}, err
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return node{kind: nodeSeq, children: children, weight: frac.One}, nil
}

// parseSeqUntil parses space-separated steps until a token of kind `until`
// is encountered (not consumed) or EOF.
func (p *parser) parseSeqUntil(until tokenKind) ([]node, error) {
	var out []node
	for p.peek().kind != until && p.peek().kind != tokEOF {
		n, err := p.parseStep()
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// parseStep parses one primary plus any postfix modifiers (*n, /n, !n, ?,
// @w, (k,n[,rot])), which may be chained and apply left to right.
func (p *parser) parseStep() (node, error) {
	n, err := p.parsePrimary()
	if err != nil {
		return node{}, err
	}
	for {
		switch p.peek().kind {
		case tokStar:
			p.next()
			arg, err := p.parseIntArg()
			if err != nil {
				return node{}, err
			}
			inner := n
			n = node{kind: nodeFast, inner: &inner, argInt: arg, weight: n.weight}
		case tokSlash:
			p.next()
			arg, err := p.parseIntArg()
			if err != nil {
				return node{}, err
			}
			inner := n
			n = node{kind: nodeSlow, inner: &inner, argInt: arg, weight: n.weight}
		case tokBang:
			p.next()
			arg := &intArgNode{literal: 2}
			if p.peek().kind == tokNumber {
				a, err := p.parseIntArg()
				if err != nil {
					return node{}, err
				}
				arg = a
			}
			inner := n
			n = node{kind: nodeRepeat, inner: &inner, argInt: arg, weight: n.weight}
		case tokQuestion:
			p.next()
			inner := n
			n = node{kind: nodeDegrade, inner: &inner, weight: n.weight}
		case tokAt:
			p.next()
			t := p.peek()
			if t.kind != tokNumber {
				return node{}, p.errf(t, "expected number after @")
			}
			p.next()
			w, err := parseDecimalFraction(t.text)
			if err != nil {
				return node{}, p.errf(t, "invalid weight %q", t.text)
			}
			n.weight = w
		case tokLParen:
			p.next()
			k, err := p.parseIntArg()
			if err != nil {
				return node{}, err
			}
			if p.peek().kind != tokComma {
				return node{}, p.errf(p.peek(), "expected ',' in euclidean arguments")
			}
			p.next()
			nn, err := p.parseIntArg()
			if err != nil {
				return node{}, err
			}
			var rot *intArgNode
			if p.peek().kind == tokComma {
				p.next()
				r, err := p.parseIntArg()
				if err != nil {
					return node{}, err
				}
				rot = r
			}
			if p.peek().kind != tokRParen {
				return node{}, p.errf(p.peek(), "expected ')' to close euclidean arguments")
			}
			p.next()
			inner := n
			n = node{kind: nodeEuclid, inner: &inner, euclidK: k, euclidN: nn, euclidR: rot, weight: n.weight}
		default:
			return n, nil
		}
	}
}

// parsePrimary parses a word, rest, bracket group, or alternation.
func (p *parser) parsePrimary() (node, error) {
	t := p.peek()
	switch t.kind {
	case tokWord:
		p.next()
		return leaf(nodeWord, t.text), nil
	case tokRest:
		p.next()
		return leaf(nodeRest, ""), nil
	case tokLBrack:
		p.next()
		return p.parseBracket()
	case tokLAngle:
		p.next()
		return p.parseAlt()
	default:
		return node{}, p.errf(t, "unexpected token in pattern")
	}
}

// parseBracket parses the body of [...]: either a single sequence, or
// several comma-separated sequences stacked together.
func (p *parser) parseBracket() (node, error) {
	var parts [][]node
	seq, err := p.parseSeqUntil(tokRBrack)
	if err != nil {
		return node{}, err
	}
	parts = append(parts, seq)
	for p.peek().kind == tokComma {
		p.next()
		seq, err := p.parseSeqUntilComma()
		if err != nil {
			return node{}, err
		}
		parts = append(parts, seq)
	}
	if p.peek().kind != tokRBrack {
		return node{}, p.errf(p.peek(), "expected ']' to close group")
	}
	p.next()
	if len(parts) == 1 {
		return node{kind: nodeSeq, children: parts[0], weight: frac.One}, nil
	}
	children := make([]node, len(parts))
	for i, part := range parts {
		children[i] = node{kind: nodeSeq, children: part, weight: frac.One}
	}
	return node{kind: nodeStack, children: children, weight: frac.One}, nil
}

// parseSeqUntilComma parses a sequence that stops at either ',' or ']',
// used for every part of a stacked bracket group after the first.
func (p *parser) parseSeqUntilComma() ([]node, error) {
	var out []node
	for p.peek().kind != tokComma && p.peek().kind != tokRBrack && p.peek().kind != tokEOF {
		n, err := p.parseStep()
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// parseAlt parses the body of <...>: one element per cycle, in order.
func (p *parser) parseAlt() (node, error) {
	var children []node
	for p.peek().kind != tokRAngle && p.peek().kind != tokEOF {
		n, err := p.parseStep()
		if err != nil {
			return node{}, err
		}
		children = append(children, n)
	}
	if p.peek().kind != tokRAngle {
		return node{}, p.errf(p.peek(), "expected '>' to close alternation")
	}
	p.next()
	return node{kind: nodeAlt, children: children, weight: frac.One}, nil
}

// parseIntArg parses a numeric argument to *, /, !, or a euclidean slot:
// either a bare integer literal or a <n1 n2 ...> alternation of integers.
func (p *parser) parseIntArg() (*intArgNode, error) {
	t := p.peek()
	switch t.kind {
	case tokNumber:
		p.next()
		v, err := strconv.Atoi(t.text)
		if err != nil {
			return nil, p.errf(t, "invalid integer %q", t.text)
		}
		return &intArgNode{literal: v}, nil
	case tokLAngle:
		p.next()
		var lits []int
		for p.peek().kind != tokRAngle && p.peek().kind != tokEOF {
			nt := p.peek()
			if nt.kind != tokNumber {
				return nil, p.errf(nt, "expected integer in alternation argument")
			}
			p.next()
			v, err := strconv.Atoi(nt.text)
			if err != nil {
				return nil, p.errf(nt, "invalid integer %q", nt.text)
			}
			lits = append(lits, v)
		}
		if p.peek().kind != tokRAngle {
			return nil, p.errf(p.peek(), "expected '>' to close argument alternation")
		}
		p.next()
		return &intArgNode{isAlt: true, altLiterals: lits}, nil
	default:
		return nil, p.errf(t, "expected a number")
	}
}
