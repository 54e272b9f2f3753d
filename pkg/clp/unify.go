package clp

import (
	"github.com/gitrdm/gokanset/pkg/interval"
)

// eqRule unifies the two arguments of a.
func (s *Solver) eqRule(a *Atomic) error {
	x, y := s.walk(a.args[0]), s.walk(a.args[1])
	if _, ok := y.(*Var); ok {
		x, y = y, x
	}
	if v, ok := x.(*Var); ok {
		return s.eqVar(a, v, y)
	}

	switch xv := x.(type) {
	case Int, Sym:
		if x != y {
			return ErrFailure
		}
		return s.solve(a)
	case Pair:
		yv, ok := y.(Pair)
		if !ok {
			return ErrFailure
		}
		return s.rewrite(a, Eq(xv.First, yv.First), Eq(xv.Second, yv.Second))
	case *Set:
		switch yv := y.(type) {
		case *Set:
			return s.eqSets(a, xv, yv)
		case *Ris:
			return s.eqRis(a)
		}
		return ErrFailure
	case *Ris:
		switch y.(type) {
		case *Set, *Ris:
			return s.eqRis(a)
		}
		return ErrFailure
	default:
		return ErrFailure
	}
}

// eqVar unifies the unbound root v with t.
func (s *Solver) eqVar(a *Atomic, v *Var, t Term) error {
	if w, ok := t.(*Var); ok {
		if err := s.link(v, w); err != nil {
			return err
		}
		return s.solve(a)
	}
	sort := s.sortOf(v)
	switch x := t.(type) {
	case Int:
		switch sort {
		case SortSet:
			return ErrFailure
		case SortInt:
			if err := s.restrictInt(v, interval.Of(int(x))); err != nil {
				return err
			}
		default:
			s.bindAny(v, x)
		}
		return s.solve(a)
	case Sym, Pair:
		if sort != SortAny || s.occurs(v, x) {
			return ErrFailure
		}
		s.bindAny(v, x)
		return s.solve(a)
	case *Set:
		if sort == SortInt {
			return ErrFailure
		}
		return s.eqVarSet(a, v, x)
	case *Ris:
		if sort == SortInt {
			return ErrFailure
		}
		if s.IsExpandable(x) {
			exp, err := s.expand(a, x)
			if err != nil {
				return err
			}
			return s.rewrite(a, Eq(v, exp))
		}
		if sort == SortAny {
			s.bindAny(v, x)
			return s.solve(a)
		}
		return nil
	default:
		return ErrFailure
	}
}

// eqVarSet unifies the unbound root v with the set t.
func (s *Solver) eqVarSet(a *Atomic, v *Var, t *Set) error {
	elems, rest, _ := s.setParts(t)
	for _, e := range elems {
		if s.occurs(v, e) {
			return ErrFailure
		}
	}
	if r, ok := rest.(*Var); ok && s.find(r) == v {
		// X = {t1..tn | X} holds exactly when X = {t1..tn | N}.
		n := s.fresh(s.sortOf(v))
		return s.rewrite(a, Eq(v, newSet(elems, n)))
	}

	if s.sortOf(v) == SortAny {
		s.bindAny(v, t)
		return s.solve(a)
	}

	// v is a set variable: t must lie in its bracket.
	if vals, ok := s.groundInts(t); ok {
		if err := s.narrowSet(v, vals, vals); err != nil {
			return err
		}
		return s.solve(a)
	}
	st := s.vars[v.id]
	glb := st.glb
	for _, e := range elems {
		switch x := s.walk(e).(type) {
		case Int:
			if !st.lub.Contains(int(x)) {
				return ErrFailure
			}
			glb = glb.Add(int(x))
		case *Var:
			if err := s.restrictInt(x, st.lub); err != nil {
				return err
			}
		default:
			return ErrFailure
		}
	}
	if err := s.narrowSet(v, glb, st.lub); err != nil {
		return err
	}
	if r, ok := rest.(*Var); ok {
		if !s.promote(r, SortSet) {
			return ErrFailure
		}
		if err := s.narrowSet(r, interval.Empty(), st.lub); err != nil {
			return err
		}
	}
	if vals, ok := s.groundInts(t); ok {
		if err := s.narrowSet(v, vals, vals); err != nil {
			return err
		}
		return s.solve(a)
	}
	return nil
}

// eqSets unifies two extensional sets.
func (s *Solver) eqSets(a *Atomic, x, y *Set) error {
	if s.isGround(x) && s.isGround(y) {
		if !s.groundEqual(x, y) {
			return ErrFailure
		}
		return s.solve(a)
	}
	ex, rx, _ := s.setParts(x)
	ey, ry, _ := s.setParts(y)
	if _, ok := rx.(*Ris); ok {
		return s.eqRis(a)
	}
	if _, ok := ry.(*Ris); ok {
		return s.eqRis(a)
	}

	switch {
	case len(ex) == 0 && len(ey) == 0:
		switch {
		case rx == nil && ry == nil:
			return s.solve(a)
		case rx == nil:
			return s.rewrite(a, Eq(ry, EmptySet))
		case ry == nil:
			return s.rewrite(a, Eq(rx, EmptySet))
		}
		return s.rewrite(a, Eq(rx, ry))
	case len(ex) == 0:
		if rx == nil {
			return ErrFailure
		}
		return s.rewrite(a, Eq(rx, newSet(ey, ry)))
	case len(ey) == 0:
		if ry == nil {
			return ErrFailure
		}
		return s.rewrite(a, Eq(ry, newSet(ex, rx)))
	}

	if rx != nil && ry != nil && s.identical(rx, ry) {
		return s.eqSameTail(a, ex, ey, rx)
	}
	return s.eqSetsDovier(a, ex, rx, ey, ry)
}

// eqSetsDovier solves {t|r} = {t'|r'} by the four alternatives
//
//	t = t' && r = r'
//	t = t' && {t|r} = r'
//	t = t' && r = {t'|r'}
//	r = {t'|N} && {t|N} = r'
//
// The first three are skipped when t and t' cannot unify.
func (s *Solver) eqSetsDovier(a *Atomic, ex []Term, rx Term, ey []Term, ry Term) error {
	t, r := ex[0], newSet(ex[1:], rx)
	u, q := ey[0], newSet(ey[1:], ry)
	x, y := newSet(ex, rx), newSet(ey, ry)

	var alts []func() []*Constraint
	if s.mayUnify(t, u) {
		alts = append(alts,
			func() []*Constraint { return []*Constraint{Eq(t, u), Eq(r, q)} },
			func() []*Constraint { return []*Constraint{Eq(t, u), Eq(x, q)} },
			func() []*Constraint { return []*Constraint{Eq(t, u), Eq(r, y)} },
		)
	}
	alts = append(alts, func() []*Constraint {
		n := s.fresh(SortAny)
		return []*Constraint{Eq(r, newSet([]Term{u}, n)), Eq(newSet([]Term{t}, n), q)}
	})
	alt := s.choose(a, len(alts))
	return s.rewrite(a, alts[alt]()...)
}

// eqSameTail solves {t0..tm|X} = {u0..un|X}. For every j the head t0 is
// either matched with uj, with uj dropped from the right, kept on the
// left, or dropped from both; or t0 belongs to X.
func (s *Solver) eqSameTail(a *Atomic, ex, ey []Term, tail Term) error {
	t0, rest := ex[0], newSet(ex[1:], tail)
	left := newSet(ex, tail)
	right := newSet(ey, tail)

	var alts []func() []*Constraint
	for j := range ey {
		j := j
		if !s.mayUnify(t0, ey[j]) {
			continue
		}
		without := make([]Term, 0, len(ey)-1)
		without = append(without, ey[:j]...)
		without = append(without, ey[j+1:]...)
		dropped := newSet(without, tail)
		alts = append(alts,
			func() []*Constraint { return []*Constraint{Eq(t0, ey[j]), Eq(rest, dropped)} },
			func() []*Constraint { return []*Constraint{Eq(t0, ey[j]), Eq(left, dropped)} },
			func() []*Constraint { return []*Constraint{Eq(t0, ey[j]), Eq(rest, right)} },
		)
	}
	alts = append(alts, func() []*Constraint {
		n := s.fresh(s.tailSort(tail))
		return []*Constraint{
			Eq(tail, newSet([]Term{t0}, n)),
			Eq(newSet(ex[1:], n), newSet(ey, n)),
		}
	})
	alt := s.choose(a, len(alts))
	return s.rewrite(a, alts[alt]()...)
}

func (s *Solver) tailSort(t Term) Sort {
	if v, ok := s.walk(t).(*Var); ok {
		return s.sortOf(v)
	}
	return SortAny
}

// neqRule handles a != b.
func (s *Solver) neqRule(a *Atomic) error {
	x, y := s.walk(a.args[0]), s.walk(a.args[1])
	if s.identical(x, y) {
		return ErrFailure
	}
	if s.isGround(x) && s.isGround(y) {
		return s.solve(a)
	}
	if _, ok := y.(*Var); ok {
		x, y = y, x
	}
	if v, ok := x.(*Var); ok {
		return s.neqVar(a, v, y)
	}

	switch xv := x.(type) {
	case Pair:
		yv, ok := y.(Pair)
		if !ok {
			return s.solve(a)
		}
		if s.choose(a, 2) == 0 {
			return s.rewrite(a, Neq(xv.First, yv.First))
		}
		return s.rewrite(a, Eq(xv.First, yv.First), Neq(xv.Second, yv.Second))
	case *Set, *Ris:
		switch y.(type) {
		case *Set, *Ris:
			return s.rewrite(a, single(OpNeqSet, x, y))
		}
		return s.solve(a)
	default:
		if groundKind(x) != groundKind(y) {
			return s.solve(a)
		}
		return nil
	}
}

// neqVar handles v != t for an unbound root v.
func (s *Solver) neqVar(a *Atomic, v *Var, t Term) error {
	switch s.sortOf(v) {
	case SortInt:
		switch x := t.(type) {
		case Int:
			if err := s.removeInt(v, int(x)); err != nil {
				return err
			}
			return s.solve(a)
		case *Var:
			if s.sortOf(x) == SortSet {
				return s.solve(a)
			}
			dv, _ := s.intDom(v)
			if dx, ok := s.intDom(x); ok && dv.Intersect(dx).IsEmpty() {
				return s.solve(a)
			}
			return nil
		default:
			return s.solve(a)
		}
	case SortSet:
		switch x := t.(type) {
		case *Set:
			vals, ok := s.groundInts(x)
			if !ok {
				if s.isGround(x) {
					return s.solve(a)
				}
				return nil
			}
			st := s.vars[v.id]
			if !st.glb.Subset(vals) || !vals.Subset(st.lub) {
				return s.solve(a)
			}
			return nil
		case *Var, *Ris:
			return nil
		default:
			return s.solve(a)
		}
	default:
		if p, ok := t.(Pair); ok && s.occurs(v, p) {
			return s.solve(a)
		}
		return nil
	}
}

// neqSetRule applies extensionality: x != y when some N is in one set
// and not in the other.
func (s *Solver) neqSetRule(a *Atomic) error {
	x, y := a.args[0], a.args[1]
	if s.identical(x, y) {
		return ErrFailure
	}
	if s.isGround(x) && s.isGround(y) {
		if s.groundEqual(x, y) {
			return ErrFailure
		}
		return s.solve(a)
	}
	alt := s.choose(a, 2)
	n := s.fresh(SortAny)
	if alt == 0 {
		return s.rewrite(a, In(n, x), Nin(n, y))
	}
	return s.rewrite(a, In(n, y), Nin(n, x))
}

// inRule handles e ∈ S.
func (s *Solver) inRule(a *Atomic) error {
	e := a.args[0]
	switch x := s.walk(a.args[1]).(type) {
	case *Var:
		switch s.sortOf(x) {
		case SortInt:
			return ErrFailure
		case SortSet:
			return s.inSetVar(a, e, x)
		}
		if s.occurs(x, e) {
			return ErrFailure
		}
		s.bindAny(x, newSet([]Term{e}, s.fresh(SortAny)))
		return s.solve(a)
	case *Set:
		elems, rest, _ := s.setParts(x)
		var cands []Term
		for _, el := range elems {
			if s.identical(e, el) {
				return s.solve(a)
			}
			if s.mayUnify(e, el) {
				cands = append(cands, el)
			}
		}
		n := len(cands)
		if rest != nil {
			n++
		}
		if n == 0 {
			return ErrFailure
		}
		alt := s.choose(a, n)
		if alt < len(cands) {
			return s.rewrite(a, Eq(e, cands[alt]))
		}
		return s.rewrite(a, In(e, rest))
	case *Ris:
		return s.inRis(a, e, x)
	default:
		return ErrFailure
	}
}

// inSetVar handles e ∈ S for a set variable S.
func (s *Solver) inSetVar(a *Atomic, e Term, v *Var) error {
	lub := s.vars[v.id].lub
	switch x := s.walk(e).(type) {
	case Int:
		if err := s.narrowSet(v, interval.Of(int(x)), interval.Universe()); err != nil {
			return err
		}
		return s.solve(a)
	case *Var:
		return s.restrictInt(x, lub)
	default:
		return ErrFailure
	}
}

// ninRule handles e ∉ S.
func (s *Solver) ninRule(a *Atomic) error {
	e := a.args[0]
	switch x := s.walk(a.args[1]).(type) {
	case *Var:
		switch s.sortOf(x) {
		case SortInt:
			return s.solve(a)
		case SortSet:
			return s.ninSetVar(a, e, x)
		}
		if s.identical(e, x) {
			return s.solve(a)
		}
		return nil
	case *Set:
		if s.isGround(e) && s.isGround(x) {
			r := s.resolve(e)
			for _, el := range s.resolve(x).(*Set).elems {
				if s.groundEqual(r, el) {
					return ErrFailure
				}
			}
			return s.solve(a)
		}
		elems, rest, _ := s.setParts(x)
		cs := make([]*Constraint, 0, len(elems)+1)
		for _, el := range elems {
			cs = append(cs, Neq(e, el))
		}
		if rest != nil {
			cs = append(cs, Nin(e, rest))
		}
		return s.rewrite(a, cs...)
	case *Ris:
		if !s.IsExpandable(x) {
			return nil
		}
		exp, err := s.expand(a, x)
		if err != nil {
			return err
		}
		return s.rewrite(a, Nin(e, exp))
	default:
		return s.solve(a)
	}
}

// ninSetVar handles e ∉ S for a set variable S.
func (s *Solver) ninSetVar(a *Atomic, e Term, v *Var) error {
	st := s.vars[v.id]
	switch x := s.walk(e).(type) {
	case Int:
		if err := s.narrowSet(v, interval.Empty(), st.lub.Remove(int(x))); err != nil {
			return err
		}
		return s.solve(a)
	case *Var:
		switch s.sortOf(x) {
		case SortSet:
			return s.solve(a)
		case SortInt:
			if err := s.restrictInt(x, st.glb.Complement()); err != nil {
				return err
			}
			if dx, _ := s.intDom(x); dx.Intersect(st.lub).IsEmpty() {
				return s.solve(a)
			}
		}
		return nil
	default:
		return s.solve(a)
	}
}
