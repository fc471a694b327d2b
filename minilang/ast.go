package minilang

import "github.com/fermion-go/fermion/frac"

// node is a mini-notation AST node. Weight defaults to 1 and is mutated by
// the '@' postfix; every constructor below returns a node with Weight: 1 so
// callers can freely override it. Weight is an exact Fraction (not a
// float64) so that sequence layout never accumulates rounding error across
// a cycle, per the spec's precision discipline.
type node struct {
	kind     nodeKind
	word     string      // kind == nodeWord
	children []node      // kind == nodeSeq / nodeStack / nodeAlt
	inner    *node       // kind == nodeFast/nodeSlow/nodeRepeat/nodeDegrade/nodeEuclid
	argInt   *intArgNode // kind == nodeFast/nodeSlow/nodeRepeat (numeric argument, itself patternable)
	euclidK  *intArgNode // kind == nodeEuclid
	euclidN  *intArgNode // kind == nodeEuclid
	euclidR  *intArgNode // kind == nodeEuclid, nil if rotation omitted
	weight   frac.Fraction
}

type nodeKind int

const (
	nodeWord nodeKind = iota
	nodeRest
	nodeSeq
	nodeStack
	nodeAlt
	nodeFast
	nodeSlow
	nodeRepeat
	nodeDegrade
	nodeEuclid
)

func leaf(kind nodeKind, word string) node {
	return node{kind: kind, word: word, weight: frac.One}
}

// intArgNode is a numeric argument that may itself vary per cycle, per
// spec §4.2 ("replicate inside alternation... by making the numeric
// argument itself a pattern"): either a plain literal or a <a b c>
// alternation of literals.
type intArgNode struct {
	literal      int
	isAlt        bool
	altLiterals  []int
}
