package clp

import (
	"golang.org/x/exp/slices"
)

// Rewrite rules for binary relations, i.e. sets of ordered pairs. Each
// rule takes the head pair of a bound relation, constrains it, and
// recurses on the rest, so every recursive call shrinks a bound operand.

// expectPair returns the components of t, binding a generic variable to
// a pair of fresh variables.
func (s *Solver) expectPair(t Term) (first, second Term, err error) {
	switch x := s.walk(t).(type) {
	case Pair:
		return x.First, x.Second, nil
	case *Var:
		if s.sortOf(x) != SortAny {
			return nil, nil, ErrFailure
		}
		p := Pair{First: s.fresh(SortAny), Second: s.fresh(SortAny)}
		s.bindAny(x, p)
		return p.First, p.Second, nil
	default:
		return nil, nil, ErrFailure
	}
}

// relHead splits a relation into its head pair and the rest. ok is false
// when t has no known element; rest is nil when t is not set-valued.
func (s *Solver) relHead(t Term) (x, y Term, rest Term, ok bool, err error) {
	elems, tail, isSet := s.setParts(t)
	if !isSet {
		return nil, nil, nil, false, ErrFailure
	}
	if len(elems) == 0 {
		return nil, nil, tail, false, nil
	}
	x, y, err = s.expectPair(elems[0])
	return x, y, newSet(elems[1:], tail), true, err
}

// groundPairs returns the pairs of a ground relation. ok is false when t
// is not ground or not a relation.
func (s *Solver) groundPairs(t Term) ([]Pair, bool) {
	if !s.isGround(t) {
		return nil, false
	}
	set, isSet := s.resolve(t).(*Set)
	if !isSet {
		return nil, false
	}
	out := make([]Pair, 0, len(set.elems))
	for _, e := range set.elems {
		p, isPair := e.(Pair)
		if !isPair {
			return nil, false
		}
		out = append(out, p)
	}
	return out, true
}

// compose returns the ground composition {(x, z) | (x, y) ∈ r, (y, z) ∈ t}.
func compose(r, t []Pair) *Set {
	var out []Term
	for _, p := range r {
		for _, q := range t {
			if compareGround(p.Second, q.First) == 0 {
				out = append(out, Pair{First: p.First, Second: q.Second})
			}
		}
	}
	return newSet(normalizeElems(out), nil)
}

func (s *Solver) isRelRule(a *Atomic) error {
	elems, rest, ok := s.setParts(a.args[0])
	if !ok {
		return ErrFailure
	}
	for _, e := range elems {
		if _, _, err := s.expectPair(e); err != nil {
			return err
		}
	}
	switch {
	case rest == nil:
		return s.solve(a)
	case len(elems) > 0:
		return s.rewrite(a, IsRel(rest))
	}
	return nil
}

// idRule: r = {(x, x) | x ∈ a}.
func (s *Solver) idRule(a *Atomic) error {
	set, rel := a.args[0], a.args[1]
	elems, rest, ok := s.setParts(set)
	if !ok {
		return ErrFailure
	}
	if len(elems) > 0 {
		t, n := elems[0], s.fresh(SortAny)
		return s.rewrite(a, Eq(rel, newSet([]Term{Pair{First: t, Second: t}}, n)), Id(newSet(elems[1:], rest), n))
	}
	if rest == nil {
		return s.rewrite(a, Eq(rel, EmptySet))
	}
	x, y, relRest, has, err := s.relHead(rel)
	if err != nil {
		return err
	}
	if !has {
		if relRest == nil {
			return s.rewrite(a, Eq(set, EmptySet))
		}
		return nil
	}
	n := s.fresh(SortAny)
	return s.rewrite(a, Eq(x, y), Eq(set, newSet([]Term{x}, n)), Id(n, relRest))
}

// invRule: t = {(y, x) | (x, y) ∈ r}.
func (s *Solver) invRule(a *Atomic) error {
	r, t := a.args[0], a.args[1]
	x, y, rest, has, err := s.relHead(r)
	if err != nil {
		return err
	}
	if has {
		n := s.fresh(SortAny)
		return s.rewrite(a, Eq(t, newSet([]Term{Pair{First: y, Second: x}}, n)), Inv(rest, n))
	}
	if rest == nil {
		return s.rewrite(a, Eq(t, EmptySet))
	}
	if _, _, tRest, tHas, err := s.relHead(t); err != nil {
		return err
	} else if tHas || tRest == nil {
		return s.rewrite(a, Inv(t, r))
	}
	return nil
}

// domRanRule: set = {x | (x, y) ∈ r} for dom, {y | (x, y) ∈ r} for ran.
func (s *Solver) domRanRule(a *Atomic, isDom bool) error {
	r, set := a.args[0], a.args[1]
	project := func(x, y Term) Term {
		if isDom {
			return x
		}
		return y
	}
	rebuild := func(rest, n Term) *Constraint {
		if isDom {
			return Dom(rest, n)
		}
		return Ran(rest, n)
	}
	x, y, rest, has, err := s.relHead(r)
	if err != nil {
		return err
	}
	if has {
		n := s.fresh(SortAny)
		return s.rewrite(a, Eq(set, newSet([]Term{project(x, y)}, n)), rebuild(rest, n))
	}
	if rest == nil {
		return s.rewrite(a, Eq(set, EmptySet))
	}
	elems, setRest, ok := s.setParts(set)
	if !ok {
		return ErrFailure
	}
	if len(elems) == 0 {
		if setRest == nil {
			return s.rewrite(a, Eq(r, EmptySet))
		}
		return nil
	}
	other, n := s.fresh(SortAny), s.fresh(SortAny)
	var head Pair
	if isDom {
		head = Pair{First: elems[0], Second: other}
	} else {
		head = Pair{First: other, Second: elems[0]}
	}
	return s.rewrite(a, Eq(r, newSet([]Term{head}, n)), rebuild(n, newSet(elems[1:], setRest)))
}

// compRule: t = r ∘ s.
func (s *Solver) compRule(a *Atomic) error {
	r, sr, t := a.args[0], a.args[1], a.args[2]
	if pr, ok := s.groundPairs(r); ok {
		if ps, ok := s.groundPairs(sr); ok {
			return s.rewrite(a, Eq(t, compose(pr, ps)))
		}
	}
	if s.isEmptySet(r) || s.isEmptySet(sr) {
		return s.rewrite(a, Eq(t, EmptySet))
	}
	if s.config.FastComposition {
		return s.rewrite(a, CompSubset(r, sr, t), SubsetComp(r, sr, t))
	}
	x, y, rest, has, err := s.relHead(r)
	if err != nil || !has {
		return err
	}
	t1, t2 := s.fresh(SortAny), s.fresh(SortAny)
	return s.rewrite(a,
		single(OpCompPair, Pair{First: x, Second: y}, sr, t1),
		Comp(rest, sr, t2),
		Union(t1, t2, t),
	)
}

// compPairRule: t = {(x, v) | (u, v) ∈ s, u = y} for the pair (x, y).
func (s *Solver) compPairRule(a *Atomic) error {
	p, sr, t := a.args[0].(Pair), a.args[1], a.args[2]
	u, v, rest, has, err := s.relHead(sr)
	if err != nil {
		return err
	}
	if !has {
		if rest == nil {
			return s.rewrite(a, Eq(t, EmptySet))
		}
		return nil
	}
	next := func(t Term) *Constraint { return single(OpCompPair, p, rest, t) }
	match := func() error {
		n := s.fresh(SortAny)
		return s.rewrite(a, Eq(p.Second, u), Eq(t, newSet([]Term{Pair{First: p.First, Second: v}}, n)), next(n))
	}
	switch s.decideEq(p.Second, u) {
	case decidedEqual:
		return match()
	case decidedDifferent:
		return s.rewrite(a, next(t))
	}
	if s.choose(a, 2) == 0 {
		return match()
	}
	return s.rewrite(a, Neq(p.Second, u), next(t))
}

// compSubsetRule: r ∘ s ⊆ t.
func (s *Solver) compSubsetRule(a *Atomic) error {
	r, sr, t := a.args[0], a.args[1], a.args[2]
	if s.isEmptySet(r) || s.isEmptySet(sr) {
		return s.solve(a)
	}
	if pr, ok := s.groundPairs(r); ok {
		if ps, ok := s.groundPairs(sr); ok {
			return s.rewrite(a, Subset(compose(pr, ps), t))
		}
	}
	x, y, rest, has, err := s.relHead(r)
	if err != nil || !has {
		return err
	}
	return s.rewrite(a,
		single(OpCompSubsetPair, Pair{First: x, Second: y}, sr, t),
		CompSubset(rest, sr, t),
	)
}

// compSubsetPairRule: (x, v) ∈ t for every (u, v) ∈ s with u = y.
func (s *Solver) compSubsetPairRule(a *Atomic) error {
	p, sr, t := a.args[0].(Pair), a.args[1], a.args[2]
	u, v, rest, has, err := s.relHead(sr)
	if err != nil {
		return err
	}
	if !has {
		if rest == nil {
			return s.solve(a)
		}
		return nil
	}
	next := single(OpCompSubsetPair, p, rest, t)
	match := func() error {
		return s.rewrite(a, Eq(p.Second, u), In(Pair{First: p.First, Second: v}, t), next)
	}
	switch s.decideEq(p.Second, u) {
	case decidedEqual:
		return match()
	case decidedDifferent:
		return s.rewrite(a, next)
	}
	if s.choose(a, 2) == 0 {
		return match()
	}
	return s.rewrite(a, Neq(p.Second, u), next)
}

// subsetCompRule: t ⊆ r ∘ s.
func (s *Solver) subsetCompRule(a *Atomic) error {
	r, sr, t := a.args[0], a.args[1], a.args[2]
	if pt, ok := s.groundPairs(t); ok {
		if pr, ok := s.groundPairs(r); ok {
			if ps, ok := s.groundPairs(sr); ok {
				comp := compose(pr, ps)
				for _, p := range pt {
					if slices.IndexFunc(comp.elems, func(e Term) bool { return compareGround(e, p) == 0 }) < 0 {
						return ErrFailure
					}
				}
				return s.solve(a)
			}
		}
	}
	x, z, rest, has, err := s.relHead(t)
	if err != nil {
		return err
	}
	if !has {
		if rest == nil {
			return s.solve(a)
		}
		return nil
	}
	y := s.fresh(SortAny)
	return s.rewrite(a,
		In(Pair{First: x, Second: y}, r),
		In(Pair{First: y, Second: z}, sr),
		SubsetComp(r, sr, rest),
	)
}

// pfunRule: no two pairs of r share their first component with different
// second components.
func (s *Solver) pfunRule(a *Atomic) error {
	r := a.args[0]
	if pr, ok := s.groundPairs(r); ok {
		for i := range pr {
			for j := i + 1; j < len(pr); j++ {
				if compareGround(pr[i].First, pr[j].First) == 0 && compareGround(pr[i].Second, pr[j].Second) != 0 {
					return ErrFailure
				}
			}
		}
		return s.solve(a)
	}
	x, y, rest, has, err := s.relHead(r)
	if err != nil {
		return err
	}
	if !has {
		if rest == nil {
			return s.solve(a)
		}
		return nil
	}
	return s.rewrite(a, single(OpPfunPair, Pair{First: x, Second: y}, rest), Pfun(rest))
}

// pfunPairRule: every (u, v) in the relation has u != x or v = y.
func (s *Solver) pfunPairRule(a *Atomic) error {
	p, sr := a.args[0].(Pair), a.args[1]
	u, v, rest, has, err := s.relHead(sr)
	if err != nil {
		return err
	}
	if !has {
		if rest == nil {
			return s.solve(a)
		}
		return nil
	}
	next := single(OpPfunPair, p, rest)
	switch s.decideEq(p.First, u) {
	case decidedEqual:
		return s.rewrite(a, Eq(p.Second, v), next)
	case decidedDifferent:
		return s.rewrite(a, next)
	}
	if s.choose(a, 2) == 0 {
		return s.rewrite(a, Neq(p.First, u), next)
	}
	return s.rewrite(a, Eq(p.First, u), Eq(p.Second, v), next)
}

type decision uint8

const (
	undecided decision = iota
	decidedEqual
	decidedDifferent
)

// decideEq tells whether a = b is already known to hold or to fail.
func (s *Solver) decideEq(a, b Term) decision {
	switch {
	case s.identical(a, b):
		return decidedEqual
	case !s.mayUnify(a, b):
		return decidedDifferent
	}
	return undecided
}
