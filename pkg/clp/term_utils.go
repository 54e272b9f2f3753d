package clp

import (
	"strings"

	"github.com/gitrdm/gokanset/pkg/interval"
	"golang.org/x/exp/slices"
)

// setFromInts returns the closed set holding the elements of m.
func setFromInts(m interval.MultiInterval) *Set {
	vals := m.Values()
	elems := make([]Term, len(vals))
	for i, v := range vals {
		elems[i] = Int(v)
	}
	return newSet(elems, nil)
}

// setParts flattens a set-valued term into its known elements and its
// remaining part. rest is nil for a closed set, an unbound variable for an
// open set, or a *Ris when the tail is an intensional set. ok is false
// when t is not set-valued.
func (s *Solver) setParts(t Term) (elems []Term, rest Term, ok bool) {
	for {
		switch x := s.walk(t).(type) {
		case *Set:
			elems = append(elems, x.elems...)
			if x.tail == nil {
				return elems, nil, true
			}
			t = x.tail
		case *Var:
			return elems, x, true
		case *Ris:
			return elems, x, true
		default:
			return nil, nil, false
		}
	}
}

// peekParts is the read-only counterpart of setParts.
func (s *Solver) peekParts(t Term) (elems []Term, rest Term, ok bool) {
	for {
		switch x := s.peek(t).(type) {
		case *Set:
			elems = append(elems, x.elems...)
			if x.tail == nil {
				return elems, nil, true
			}
			t = x.tail
		case *Var:
			return elems, x, true
		case *Ris:
			return elems, x, true
		default:
			return nil, nil, false
		}
	}
}

// isSetLike reports whether t walks to a set, a RIS or an unbound
// variable of sort any or set.
func (s *Solver) isSetLike(t Term) bool {
	switch x := s.walk(t).(type) {
	case *Set, *Ris:
		return true
	case *Var:
		return s.sortOf(x) != SortInt
	default:
		return false
	}
}

// resolve substitutes every bound variable in t by its value and
// evaluates ground expressions. Constraints and RIS filters are left
// untouched.
func (s *Solver) resolve(t Term) Term {
	switch x := s.peek(t).(type) {
	case Pair:
		return Pair{First: s.resolve(x.First), Second: s.resolve(x.Second)}
	case *Set:
		elems, rest, _ := s.peekParts(x)
		out := make([]Term, len(elems))
		for i, e := range elems {
			out[i] = s.resolve(e)
		}
		if rest != nil {
			rest = s.resolve(rest)
		}
		return newSet(out, rest)
	case *Expr:
		a, b := s.resolve(x.a), s.resolve(x.b)
		ia, okA := a.(Int)
		ib, okB := b.(Int)
		if okA && okB {
			return Int(x.eval(int(ia), int(ib)))
		}
		return &Expr{op: x.op, a: a, b: b}
	case *Ris:
		return &Ris{control: x.control, domain: s.resolve(x.domain), filter: x.filter, pattern: x.pattern, dummies: x.dummies}
	default:
		return x
	}
}

// Value returns t with every bound variable replaced by its value.
func (s *Solver) Value(t Term) Term {
	return s.resolve(t)
}

// isGround reports whether t contains no unbound variable. Intensional
// sets are never ground.
func (s *Solver) isGround(t Term) bool {
	switch x := s.peek(t).(type) {
	case Int, Sym:
		return true
	case *Var, *Ris, *Constraint:
		return false
	case Pair:
		return s.isGround(x.First) && s.isGround(x.Second)
	case *Set:
		elems, rest, _ := s.peekParts(x)
		if rest != nil {
			return false
		}
		for _, e := range elems {
			if !s.isGround(e) {
				return false
			}
		}
		return true
	case *Expr:
		return s.isGround(x.a) && s.isGround(x.b)
	default:
		return false
	}
}

// groundKind orders the kinds of ground terms in canonical output.
func groundKind(t Term) int {
	switch t.(type) {
	case Int:
		return 0
	case Sym:
		return 1
	case Pair:
		return 2
	default:
		return 3
	}
}

// compareGround is a total order on resolved ground terms.
func compareGround(a, b Term) int {
	ka, kb := groundKind(a), groundKind(b)
	if ka != kb {
		return ka - kb
	}
	switch x := a.(type) {
	case Int:
		y := b.(Int)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case Pair:
		y := b.(Pair)
		if c := compareGround(x.First, y.First); c != 0 {
			return c
		}
		return compareGround(x.Second, y.Second)
	default:
		return strings.Compare(canonical(a), canonical(b))
	}
}

// canonical renders a resolved ground term so that equal terms render
// equally: set elements are sorted and duplicates dropped.
func canonical(t Term) string {
	switch x := t.(type) {
	case Pair:
		return "(" + canonical(x.First) + "," + canonical(x.Second) + ")"
	case *Set:
		elems := normalizeElems(x.elems)
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i] = canonical(e)
		}
		return "{" + strings.Join(parts, ",") + "}"
	default:
		return t.String()
	}
}

// normalizeElems sorts resolved ground elements and removes duplicates.
func normalizeElems(elems []Term) []Term {
	out := slices.Clone(elems)
	slices.SortFunc(out, compareGround)
	return slices.CompactFunc(out, func(a, b Term) bool { return compareGround(a, b) == 0 })
}

// groundEqual compares two ground terms semantically.
func (s *Solver) groundEqual(a, b Term) bool {
	return canonical(s.resolve(a)) == canonical(s.resolve(b))
}

// Canonical renders t resolved in s. Ground sets are printed sorted and
// without duplicates, which makes the result suitable for comparisons.
func (s *Solver) Canonical(t Term) string {
	r := s.resolve(t)
	if s.isGround(r) {
		return canonical(r)
	}
	return r.String()
}

// groundInts returns the elements of a ground set of integers. ok is
// false when t is not such a set.
func (s *Solver) groundInts(t Term) (interval.MultiInterval, bool) {
	elems, rest, ok := s.setParts(t)
	if !ok || rest != nil {
		return interval.MultiInterval{}, false
	}
	vals := make([]int, 0, len(elems))
	for _, e := range elems {
		i, isInt := s.walk(e).(Int)
		if !isInt {
			return interval.MultiInterval{}, false
		}
		vals = append(vals, int(i))
	}
	return interval.Of(vals...), true
}

// mayUnify is a cheap, conservative test: false means a and b certainly
// cannot be made equal.
func (s *Solver) mayUnify(a, b Term) bool {
	a, b = s.walk(a), s.walk(b)
	if _, ok := a.(*Var); ok {
		return true
	}
	if _, ok := b.(*Var); ok {
		return true
	}
	if s.isGround(a) && s.isGround(b) {
		return s.groundEqual(a, b)
	}
	switch a.(type) {
	case Pair:
		_, ok := b.(Pair)
		return ok
	case *Set, *Ris:
		switch b.(type) {
		case *Set, *Ris:
			return true
		}
		return false
	case Int, *Expr:
		switch b.(type) {
		case Int, *Expr:
			return true
		}
		return false
	}
	return true
}

// identical reports whether a and b are the same term after walking:
// same root variable or equal ground values.
func (s *Solver) identical(a, b Term) bool {
	a, b = s.walk(a), s.walk(b)
	if va, ok := a.(*Var); ok {
		vb, ok := b.(*Var)
		return ok && va == vb
	}
	if _, ok := b.(*Var); ok {
		return false
	}
	return s.isGround(a) && s.isGround(b) && s.groundEqual(a, b)
}

// sameTerm is structural identity of unresolved terms, used by
// Atomic.Equal and Constraint.Equal.
func sameTerm(a, b Term) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case Int, Sym:
		return a == b
	case *Var:
		y, ok := b.(*Var)
		return ok && x.id == y.id
	case Pair:
		y, ok := b.(Pair)
		return ok && sameTerm(x.First, y.First) && sameTerm(x.Second, y.Second)
	case *Set:
		y, ok := b.(*Set)
		if !ok || len(x.elems) != len(y.elems) || !sameTerm(x.tail, y.tail) {
			return false
		}
		for i := range x.elems {
			if !sameTerm(x.elems[i], y.elems[i]) {
				return false
			}
		}
		return true
	case *Expr:
		y, ok := b.(*Expr)
		return ok && x.op == y.op && sameTerm(x.a, y.a) && sameTerm(x.b, y.b)
	case *Ris:
		y, ok := b.(*Ris)
		if !ok || len(x.dummies) != len(y.dummies) {
			return false
		}
		for i := range x.dummies {
			if x.dummies[i].id != y.dummies[i].id {
				return false
			}
		}
		return sameTerm(x.control, y.control) && sameTerm(x.domain, y.domain) &&
			x.filter.Equal(y.filter) && sameTerm(x.pattern, y.pattern)
	case *Constraint:
		y, ok := b.(*Constraint)
		return ok && x.Equal(y)
	default:
		return false
	}
}
