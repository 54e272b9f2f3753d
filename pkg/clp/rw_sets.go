package clp

import (
	"github.com/gitrdm/gokanset/pkg/interval"
)

// Structural rewrite rules for set constraints whose arguments are not
// all integer sets: each rule consumes the known elements of a bound
// operand and recurses on its tail. A rule leaves the constraint pending
// when the operands it would decompose are unbound variables.

// closed reports whether t is a set with no tail, returning its elements.
func (s *Solver) closed(t Term) ([]Term, bool) {
	elems, rest, ok := s.setParts(t)
	return elems, ok && rest == nil
}

// isEmptySet reports whether t is the closed empty set.
func (s *Solver) isEmptySet(t Term) bool {
	elems, ok := s.closed(t)
	return ok && len(elems) == 0
}

func (s *Solver) subsetRw(a *Atomic) error {
	x, y := a.args[0], a.args[1]
	if s.identical(x, y) {
		return s.solve(a)
	}
	elems, rest, ok := s.setParts(x)
	if !ok {
		return ErrFailure
	}
	if len(elems) == 0 {
		switch {
		case rest == nil:
			return s.solve(a)
		case s.isEmptySet(y):
			return s.rewrite(a, Eq(rest, EmptySet))
		}
		return nil
	}
	cs := make([]*Constraint, 0, len(elems)+1)
	for _, e := range elems {
		cs = append(cs, In(e, y))
	}
	if rest != nil {
		cs = append(cs, Subset(rest, y))
	}
	return s.rewrite(a, cs...)
}

func (s *Solver) unionRw(a *Atomic) error {
	x, y, z := a.args[0], a.args[1], a.args[2]
	if s.identical(x, y) {
		return s.rewrite(a, Eq(x, z))
	}
	switch {
	case s.isEmptySet(z):
		return s.rewrite(a, Eq(x, EmptySet), Eq(y, EmptySet))
	case s.isEmptySet(x):
		return s.rewrite(a, Eq(y, z))
	case s.isEmptySet(y):
		return s.rewrite(a, Eq(x, z))
	}
	ex, rx, okX := s.setParts(x)
	ey, ry, okY := s.setParts(y)
	if !okX || !okY {
		return ErrFailure
	}
	if rx == nil || ry == nil || s.identical(rx, ry) {
		tail := rx
		if tail == nil {
			tail = ry
		}
		all := append(append([]Term(nil), ex...), ey...)
		return s.rewrite(a, Eq(z, newSet(all, tail)))
	}
	if ez, ok := s.closed(z); ok {
		cs := []*Constraint{Subset(x, z), Subset(y, z)}
		for _, t := range ez {
			cs = append(cs, In(t, x).Or(In(t, y)))
		}
		return s.rewrite(a, cs...)
	}
	return nil
}

// intersRw recurses on the head of a closed operand t: either the head
// belongs to the other operand and to the result, or to neither.
func (s *Solver) intersRw(a *Atomic) error {
	x, y, z := a.args[0], a.args[1], a.args[2]
	if s.identical(x, y) {
		return s.rewrite(a, Eq(x, z))
	}
	if s.isEmptySet(x) || s.isEmptySet(y) {
		return s.rewrite(a, Eq(z, EmptySet))
	}
	ex, okX := s.closed(x)
	if !okX {
		ey, okY := s.closed(y)
		if !okY {
			return nil
		}
		x, y, ex = y, x, ey
	}
	t, r := ex[0], newSet(ex[1:], nil)
	if s.choose(a, 2) == 0 {
		n := s.fresh(SortAny)
		return s.rewrite(a, In(t, y), Eq(z, newSet([]Term{t}, n)), Inters(r, y, n))
	}
	return s.rewrite(a, Nin(t, y), Inters(r, y, z))
}

// diffRw recurses on the head of a closed x: either it is removed by y or
// it belongs to the result.
func (s *Solver) diffRw(a *Atomic) error {
	x, y, z := a.args[0], a.args[1], a.args[2]
	switch {
	case s.identical(x, y), s.isEmptySet(x):
		return s.rewrite(a, Eq(z, EmptySet))
	case s.isEmptySet(y):
		return s.rewrite(a, Eq(x, z))
	}
	ex, ok := s.closed(x)
	if !ok {
		return nil
	}
	t, r := ex[0], newSet(ex[1:], nil)
	if s.choose(a, 2) == 0 {
		return s.rewrite(a, In(t, y), Diff(r, y, z))
	}
	n := s.fresh(SortAny)
	return s.rewrite(a, Nin(t, y), Eq(z, newSet([]Term{t}, n)), Diff(r, y, n))
}

func (s *Solver) disjRw(a *Atomic) error {
	x, y := a.args[0], a.args[1]
	if s.identical(x, y) {
		return s.rewrite(a, Eq(x, EmptySet))
	}
	ex, rx, okX := s.setParts(x)
	ey, ry, okY := s.setParts(y)
	if !okX || !okY {
		return ErrFailure
	}
	if len(ex) == 0 {
		if len(ey) == 0 {
			if rx == nil || ry == nil {
				return s.solve(a)
			}
			return nil
		}
		x, y, ex, rx = y, x, ey, ry
	}
	cs := make([]*Constraint, 0, len(ex)+1)
	for _, e := range ex {
		cs = append(cs, Nin(e, y))
	}
	if rx != nil {
		cs = append(cs, Disj(rx, y))
	}
	return s.rewrite(a, cs...)
}

// sizeRw computes the cardinality of a set whose elements may be unbound:
// the head either repeats in the rest or adds one.
func (s *Solver) sizeRw(a *Atomic) error {
	x, n := a.args[0], a.args[1]
	if _, ok := s.intDom(n); !ok {
		return ErrFailure
	}
	if err := s.restrictInt(n, interval.Range(0, interval.Sup)); err != nil {
		return err
	}
	if s.isGround(x) {
		r, ok := s.resolve(x).(*Set)
		if !ok {
			return ErrFailure
		}
		if err := s.restrictInt(n, interval.Of(len(normalizeElems(r.elems)))); err != nil {
			return err
		}
		return s.solve(a)
	}
	elems, rest, ok := s.setParts(x)
	if !ok {
		return ErrFailure
	}
	if len(elems) == 0 {
		if k, isInt := s.walk(n).(Int); isInt && k == 0 {
			return s.rewrite(a, Eq(rest, EmptySet))
		}
		return nil
	}
	t, r := elems[0], newSet(elems[1:], rest)
	if rest != nil {
		// {t|R} = {t|N} with t ∉ N removes the duplicates of t.
		nv, m := s.fresh(SortAny), s.fresh(SortInt)
		return s.rewrite(a, Eq(x, newSet([]Term{t}, nv)), Nin(t, nv), Size(nv, m), Sum(m, Int(1), n))
	}
	if s.choose(a, 2) == 0 {
		return s.rewrite(a, In(t, r), Size(r, n))
	}
	m := s.fresh(SortInt)
	return s.rewrite(a, Nin(t, r), Size(r, m), Sum(m, Int(1), n))
}
