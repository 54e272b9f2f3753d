package clp

import (
	"go.uber.org/zap"

	"github.com/gitrdm/gokanset/pkg/interval"
)

// fsKind classifies a set argument for the finite-set domain rules.
type fsKind uint8

const (
	fsOther   fsKind = iota // not handled by domain rules
	fsGround                // ground set of integers
	fsVar                   // set variable with a bracket
	fsGeneric               // generic variable, may be promoted
)

func (s *Solver) fsKindOf(t Term) fsKind {
	switch x := s.walk(t).(type) {
	case *Set:
		if _, ok := s.groundInts(x); ok {
			return fsGround
		}
	case *Var:
		switch s.sortOf(x) {
		case SortSet:
			return fsVar
		case SortAny:
			return fsGeneric
		}
	}
	return fsOther
}

func isFS(k fsKind) bool { return k == fsGround || k == fsVar }

// fsBounds returns the bracket of a ground integer set or set variable.
func (s *Solver) fsBounds(t Term) (glb, lub interval.MultiInterval) {
	switch x := s.walk(t).(type) {
	case *Var:
		st := s.vars[x.id]
		return st.glb, st.lub
	default:
		vals, _ := s.groundInts(x)
		return vals, vals
	}
}

// narrowSet grows the glb of t by glb and shrinks its lub to lub. For a
// ground set it only checks that the set lies in [glb, lub].
func (s *Solver) narrowSet(t Term, glb, lub interval.MultiInterval) error {
	switch x := s.walk(t).(type) {
	case *Var:
		if !s.promote(x, SortSet) {
			return ErrFailure
		}
		st := &s.vars[x.id]
		ng, nl := st.glb.Union(glb), st.lub.Intersect(lub)
		if !ng.Subset(nl) {
			return ErrFailure
		}
		if ng.Equal(st.glb) && nl.Equal(st.lub) {
			return nil
		}
		st.glb, st.lub = ng, nl
		if ng.Equal(nl) {
			st.value = setFromInts(ng)
		}
		s.changed()
		return nil
	default:
		vals, ok := s.groundInts(x)
		if !ok || !glb.Subset(vals) || !vals.Subset(lub) {
			return ErrFailure
		}
		return nil
	}
}

// setRule dispatches subset, union, inters, diff, disj and size either to
// the domain rules, when every set argument is a ground integer set or a
// set variable, or to the structural rewrite rules.
func (s *Solver) setRule(a *Atomic) error {
	pending, err := s.expandRisArgs(a)
	if err != nil || pending {
		return err
	}
	if s.prepareFS(a) {
		switch a.op {
		case OpSubset:
			return s.subsetFS(a)
		case OpUnion:
			return s.unionFS(a)
		case OpInters:
			return s.intersFS(a)
		case OpDiff:
			return s.diffFS(a)
		case OpDisj:
			return s.disjFS(a)
		case OpSize:
			return s.sizeFS(a)
		}
	}
	switch a.op {
	case OpSubset:
		return s.subsetRw(a)
	case OpUnion:
		return s.unionRw(a)
	case OpInters:
		return s.intersRw(a)
	case OpDiff:
		return s.diffRw(a)
	case OpDisj:
		return s.disjRw(a)
	default:
		return s.sizeRw(a)
	}
}

// prepareFS promotes the generic variables that are bounded by integer
// sets and reports whether every set argument of a is then handled by the
// domain rules. A generic variable is promoted only when the constraint
// forces it to be a subset of an integer set.
func (s *Solver) prepareFS(a *Atomic) bool {
	n := 3
	switch a.op {
	case OpSubset, OpDisj:
		n = 2
	case OpSize:
		n = 1
	}
	kinds := make([]fsKind, n)
	for i := range kinds {
		kinds[i] = s.fsKindOf(a.args[i])
	}
	promotable := make([]bool, n)
	switch a.op {
	case OpSubset:
		promotable[0] = isFS(kinds[1])
	case OpUnion:
		promotable[0] = isFS(kinds[2])
		promotable[1] = promotable[0]
		promotable[2] = isFS(kinds[0]) && isFS(kinds[1])
	case OpInters:
		promotable[2] = isFS(kinds[0]) || isFS(kinds[1])
	case OpDiff:
		promotable[2] = isFS(kinds[0])
	}
	for i, k := range kinds {
		if k == fsGeneric && promotable[i] {
			s.promote(s.walk(a.args[i]).(*Var), SortSet)
			kinds[i] = fsVar
		}
	}
	for _, k := range kinds {
		if !isFS(k) {
			return false
		}
	}
	return true
}

// bound reports whether the set argument t has a known value.
func (s *Solver) bound(t Term) bool {
	_, ok := s.walk(t).(*Var)
	return !ok
}

// subsetFS: glb(y) grows by glb(x), lub(x) shrinks to lub(y).
func (s *Solver) subsetFS(a *Atomic) error {
	x, y := a.args[0], a.args[1]
	gx, _ := s.fsBounds(x)
	_, ly := s.fsBounds(y)
	if err := s.narrowSet(y, gx, interval.Universe()); err != nil {
		return err
	}
	if err := s.narrowSet(x, interval.Empty(), ly); err != nil {
		return err
	}
	if s.bound(x) || s.bound(y) {
		return s.solve(a)
	}
	gx, _ = s.fsBounds(x)
	_, ly = s.fsBounds(y)
	if gx.Size() == ly.Size() {
		// |x| >= |glb(x)| = |lub(y)| >= |y| >= |x|
		return s.rewrite(a, Eq(x, y))
	}
	return nil
}

// disjFS removes the glb of each side from the lub of the other.
func (s *Solver) disjFS(a *Atomic) error {
	x, y := a.args[0], a.args[1]
	gx, _ := s.fsBounds(x)
	gy, _ := s.fsBounds(y)
	if err := s.narrowSet(y, interval.Empty(), gx.Complement()); err != nil {
		return err
	}
	if err := s.narrowSet(x, interval.Empty(), gy.Complement()); err != nil {
		return err
	}
	_, lx := s.fsBounds(x)
	_, ly := s.fsBounds(y)
	if s.bound(x) || s.bound(y) || lx.Intersect(ly).IsEmpty() {
		return s.solve(a)
	}
	return nil
}

// unionFS propagates z = x ∪ y.
func (s *Solver) unionFS(a *Atomic) error {
	x, y, z := a.args[0], a.args[1], a.args[2]
	gx, lx := s.fsBounds(x)
	gy, ly := s.fsBounds(y)
	if err := s.narrowSet(z, gx.Union(gy), lx.Union(ly)); err != nil {
		return err
	}
	gz, lz := s.fsBounds(z)
	if err := s.narrowSet(x, gz.Diff(ly), lz); err != nil {
		return err
	}
	gx, lx = s.fsBounds(x)
	if err := s.narrowSet(y, gz.Diff(lx), lz); err != nil {
		return err
	}
	return s.solveIfExact(a, func(x, y interval.MultiInterval) interval.MultiInterval { return x.Union(y) })
}

// intersFS propagates z = x ∩ y.
func (s *Solver) intersFS(a *Atomic) error {
	x, y, z := a.args[0], a.args[1], a.args[2]
	gx, lx := s.fsBounds(x)
	gy, ly := s.fsBounds(y)
	if err := s.narrowSet(z, gx.Intersect(gy), lx.Intersect(ly)); err != nil {
		return err
	}
	gz, lz := s.fsBounds(z)
	if err := s.narrowSet(x, gz, gy.Diff(lz).Complement()); err != nil {
		return err
	}
	gx, _ = s.fsBounds(x)
	if err := s.narrowSet(y, gz, gx.Diff(lz).Complement()); err != nil {
		return err
	}
	return s.solveIfExact(a, func(x, y interval.MultiInterval) interval.MultiInterval { return x.Intersect(y) })
}

// diffFS propagates z = x \ y.
func (s *Solver) diffFS(a *Atomic) error {
	x, y, z := a.args[0], a.args[1], a.args[2]
	gx, lx := s.fsBounds(x)
	gy, ly := s.fsBounds(y)
	if err := s.narrowSet(z, gx.Diff(ly), lx.Diff(gy)); err != nil {
		return err
	}
	gz, lz := s.fsBounds(z)
	if err := s.narrowSet(x, gz, lz.Union(ly)); err != nil {
		return err
	}
	gx, _ = s.fsBounds(x)
	if err := s.narrowSet(y, gx.Diff(lz), gz.Complement()); err != nil {
		return err
	}
	return s.solveIfExact(a, func(x, y interval.MultiInterval) interval.MultiInterval { return x.Diff(y) })
}

// solveIfExact checks z = op(x, y) once the three sets are bound.
func (s *Solver) solveIfExact(a *Atomic, op func(x, y interval.MultiInterval) interval.MultiInterval) error {
	for i := 0; i < 3; i++ {
		if !s.bound(a.args[i]) {
			return nil
		}
	}
	x, _ := s.fsBounds(a.args[0])
	y, _ := s.fsBounds(a.args[1])
	z, _ := s.fsBounds(a.args[2])
	if !op(x, y).Equal(z) {
		return ErrFailure
	}
	return s.solve(a)
}

// sizeFS links the cardinality of a set variable to its bracket.
func (s *Solver) sizeFS(a *Atomic) error {
	set, n := a.args[0], a.args[1]
	glb, lub := s.fsBounds(set)
	if s.bound(set) {
		if err := s.restrictInt(n, interval.Of(glb.Size())); err != nil {
			return err
		}
		return s.solve(a)
	}
	if err := s.restrictInt(n, interval.Range(glb.Size(), lub.Size())); err != nil {
		return err
	}
	if k, ok := s.walk(n).(Int); ok {
		switch int(k) {
		case glb.Size():
			return s.narrowSet(set, glb, glb)
		case lub.Size():
			return s.narrowSet(set, lub, lub)
		}
	}
	return nil
}

// labelSetRule enumerates the value of a set variable one element of
// lub \ glb at a time.
func (s *Solver) labelSetRule(a *Atomic) error {
	switch x := s.walk(a.args[0]).(type) {
	case *Var:
		if s.sortOf(x) != SortSet {
			return contractf("labelSet", "%s is not a set variable", a.args[0])
		}
		glb, lub := s.fsBounds(x)
		undecided := lub.Diff(glb)
		if undecided.Size() > labelLimit {
			return contractf("labelSet", "%s has an unbounded domain", a.args[0])
		}
		e := undecided.Min()
		s.logger.Debug("label set", zap.Stringer("var", x), zap.Int("element", e))
		return s.rewrite(a, single(OpChooseElem, x, Int(e)), single(OpLabelSet, x))
	case *Set:
		elems, rest, _ := s.setParts(x)
		var cs []*Constraint
		for _, e := range elems {
			if v, ok := s.walk(e).(*Var); ok {
				cs = append(cs, Label(v))
			}
		}
		if rest != nil {
			cs = append(cs, LabelSet(rest))
		}
		return s.rewrite(a, cs...)
	default:
		return s.solve(a)
	}
}

// chooseElemRule includes, then excludes, e in a set variable (or the
// reverse when Config.IncludeFirst is false).
func (s *Solver) chooseElemRule(a *Atomic) error {
	x, e := a.args[0], int(a.args[1].(Int))
	v, ok := s.walk(x).(*Var)
	if !ok {
		return s.solve(a)
	}
	glb, lub := s.fsBounds(v)
	if glb.Contains(e) || !lub.Contains(e) {
		return s.solve(a)
	}
	include := s.choose(a, 2) == 0
	if !s.config.IncludeFirst {
		include = !include
	}
	if include {
		if err := s.narrowSet(v, interval.Of(e), interval.Universe()); err != nil {
			return err
		}
	} else if err := s.narrowSet(v, interval.Empty(), lub.Remove(e)); err != nil {
		return err
	}
	return s.solve(a)
}
