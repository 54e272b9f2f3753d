package clp

import (
	"fmt"
	"strings"
)

// Term is any logical object the solver manipulates: integers, symbols,
// pairs, extensional sets, integer expressions, logical variables,
// restricted intensional sets and constraints.
//
// The set of Term implementations is closed; every rule engine switches
// over it exhaustively. Terms are immutable once built: the state of a
// logical variable lives in the solver that owns it, never in the term.
type Term interface {
	fmt.Stringer
	isTerm()
}

// Int is an integer constant.
type Int int

func (Int) isTerm() {}

// String returns the decimal representation.
func (i Int) String() string { return fmt.Sprintf("%d", int(i)) }

// Sym is an uninterpreted symbolic constant such as "a" or "alice".
type Sym string

func (Sym) isTerm() {}

// String returns the symbol name.
func (s Sym) String() string { return string(s) }

// Pair is an ordered pair, the element type of binary relations.
type Pair struct {
	First, Second Term
}

func (Pair) isTerm() {}

// NewPair returns the ordered pair (a, b).
func NewPair(a, b Term) Pair { return Pair{First: a, Second: b} }

// String renders the pair as "(a,b)".
func (p Pair) String() string {
	return fmt.Sprintf("(%s,%s)", p.First, p.Second)
}

// Set is an extensional set {e1, ..., en | tail}. A nil tail closes the
// set; otherwise the tail is a variable standing for the remaining,
// unknown part. Elements may repeat: {1, 1} and {1} denote the same set.
type Set struct {
	elems []Term
	tail  Term
}

func (*Set) isTerm() {}

// EmptySet is the closed set with no elements.
var EmptySet = &Set{}

// NewSet returns the closed set containing elems.
func NewSet(elems ...Term) *Set {
	return &Set{elems: append([]Term(nil), elems...)}
}

// SetOf returns the closed set of the given integers.
func SetOf(values ...int) *Set {
	elems := make([]Term, len(values))
	for i, v := range values {
		elems[i] = Int(v)
	}
	return &Set{elems: elems}
}

// WithTail returns the open set {elems | tail}.
func WithTail(tail *Var, elems ...Term) *Set {
	s := &Set{elems: append([]Term(nil), elems...)}
	if tail != nil {
		s.tail = tail
	}
	return s
}

// newSet builds a set without copying elems. tail is nil or a set-valued
// term (a variable or a restricted intensional set).
func newSet(elems []Term, tail Term) *Set {
	return &Set{elems: elems, tail: tail}
}

// Elems returns a copy of the explicitly listed elements.
func (s *Set) Elems() []Term {
	return append([]Term(nil), s.elems...)
}

// Tail returns the tail variable, or nil for a closed set.
func (s *Set) Tail() Term { return s.tail }

// String renders the set as "{a,b|T}".
func (s *Set) String() string {
	parts := make([]string, len(s.elems))
	for i, e := range s.elems {
		parts[i] = e.String()
	}
	body := strings.Join(parts, ",")
	if s.tail != nil {
		if body == "" {
			return s.tail.String()
		}
		body += "|" + s.tail.String()
	}
	return "{" + body + "}"
}

// ExprOp is an integer expression operator.
type ExprOp uint8

const (
	ExprPlus ExprOp = iota
	ExprMinus
	ExprTimes
)

var exprSymbols = [...]string{ExprPlus: "+", ExprMinus: "-", ExprTimes: "*"}

// Expr is an integer expression over terms. Expressions are flattened into
// arithmetic constraints on fresh integer variables when a constraint that
// mentions them is propagated; ground expressions are evaluated.
type Expr struct {
	op   ExprOp
	a, b Term
}

func (*Expr) isTerm() {}

// Plus returns the expression a + b.
func Plus(a, b Term) *Expr { return &Expr{op: ExprPlus, a: a, b: b} }

// Minus returns the expression a - b.
func Minus(a, b Term) *Expr { return &Expr{op: ExprMinus, a: a, b: b} }

// Times returns the expression a * b.
func Times(a, b Term) *Expr { return &Expr{op: ExprTimes, a: a, b: b} }

// String renders the expression with explicit parentheses.
func (e *Expr) String() string {
	return fmt.Sprintf("(%s%s%s)", e.a, exprSymbols[e.op], e.b)
}

func (e *Expr) eval(x, y int) int {
	switch e.op {
	case ExprPlus:
		return x + y
	case ExprMinus:
		return x - y
	case ExprTimes:
		return x * y
	default:
		panic(contractf("expr", "unknown operator %d", e.op))
	}
}
