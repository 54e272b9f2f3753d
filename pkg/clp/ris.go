package clp

import (
	"fmt"

	"go.uber.org/zap"
)

// Ris is a restricted intensional set {control : domain | filter @ pattern}:
// the set of pattern values obtained for every element of domain that
// matches control and satisfies filter. The variables of control and the
// dummies are local: every element gets fresh copies of them.
//
// A Ris is never materialized as a whole; the solver expands it lazily,
// one ground domain element at a time.
type Ris struct {
	control Term
	domain  Term
	filter  *Constraint
	pattern Term
	dummies []*Var
}

func (*Ris) isTerm() {}

// NewRis builds {control : domain | filter @ pattern}. A nil filter is
// true; a nil pattern is the control term.
func NewRis(control, domain Term, filter *Constraint, pattern Term, dummies ...*Var) *Ris {
	if filter == nil {
		filter = True()
	}
	if pattern == nil {
		pattern = control
	}
	return &Ris{control: control, domain: domain, filter: filter, pattern: pattern, dummies: dummies}
}

// Domain returns the domain term.
func (r *Ris) Domain() Term { return r.domain }

func (r *Ris) String() string {
	return fmt.Sprintf("{%s : %s | %s @ %s}", r.control, r.domain, r.filter, r.pattern)
}

// withDomain returns r over another domain.
func (r *Ris) withDomain(d Term) *Ris {
	return &Ris{control: r.control, domain: d, filter: r.filter, pattern: r.pattern, dummies: r.dummies}
}

// locals returns the variables of the control term and the dummies.
func (r *Ris) locals() []*Var {
	vs := templateVars(r.control, nil)
	return append(vs, r.dummies...)
}

// templateVars collects the variables occurring syntactically in t,
// without following bindings.
func templateVars(t Term, acc []*Var) []*Var {
	switch x := t.(type) {
	case *Var:
		return append(acc, x)
	case Pair:
		return templateVars(x.Second, templateVars(x.First, acc))
	case *Set:
		for _, e := range x.elems {
			acc = templateVars(e, acc)
		}
		if x.tail != nil {
			acc = templateVars(x.tail, acc)
		}
	case *Expr:
		return templateVars(x.b, templateVars(x.a, acc))
	case *Ris:
		acc = templateVars(x.pattern, templateVars(x.filter, templateVars(x.domain, templateVars(x.control, acc))))
		return append(acc, x.dummies...)
	case *Constraint:
		for _, a := range x.atoms {
			for _, arg := range a.args {
				if arg != nil {
					acc = templateVars(arg, acc)
				}
			}
		}
	}
	return acc
}

// cacheKey identifies the expansion of r at the ground element d. Locals
// are numbered by position and the other variables of the filter and
// pattern are replaced by their values. ok is false when one of them is
// not ground, in which case the result must not be cached.
func (s *Solver) cacheKey(r *Ris, d Term) (key string, ok bool) {
	c := newCloner()
	for i, v := range r.locals() {
		if _, dup := c.mapping[v.id]; !dup {
			c.mapping[v.id] = Sym(fmt.Sprintf("#%d", i))
		}
	}
	for _, v := range templateVars(r.pattern, templateVars(r.filter, nil)) {
		if _, done := c.mapping[v.id]; done {
			continue
		}
		val := s.resolve(v)
		if !s.isGround(val) {
			return "", false
		}
		c.mapping[v.id] = val
	}
	return fmt.Sprintf("%s | %s @ %s <- %s", c.term(r.control), c.constraint(r.filter), c.term(r.pattern), canonical(s.resolve(d))), true
}

// IsExpandable reports whether r can be expanded deterministically: its
// domain is the closed empty set, or it has a ground element and the
// filter mentions no unbound variable besides the local ones. Free
// variables of the pattern are allowed: they end up in the expanded
// elements. It does not modify the solver.
func (s *Solver) IsExpandable(r *Ris) bool {
	elems, rest, ok := s.peekParts(r.domain)
	if !ok {
		return false
	}
	if len(elems) == 0 {
		return rest == nil
	}
	ground := false
	for _, e := range elems {
		if s.isGround(e) {
			ground = true
			break
		}
	}
	if !ground {
		return false
	}
	local := map[int]bool{}
	for _, v := range r.locals() {
		local[s.peekRoot(v).id] = true
	}
	for _, v := range s.varsOf(r.filter) {
		if !local[v.id] {
			return false
		}
	}
	return true
}

// Expand expands the ground domain elements of r. The result is a closed
// set when every domain element was ground, otherwise a set whose tail is
// a Ris over the remaining elements.
func (s *Solver) Expand(r *Ris) (Term, error) {
	if !s.IsExpandable(r) {
		return nil, contractf("Expand", "%s is not expandable", r)
	}
	return s.expand(nil, r)
}

// expand implements Expand. Constraints needed by non-ground pattern
// values are posted after a, or added to the store when a is nil.
func (s *Solver) expand(a *Atomic, r *Ris) (Term, error) {
	elems, rest, _ := s.setParts(r.domain)
	var (
		out       []Term
		remaining []Term
	)
	for _, d := range elems {
		if !s.isGround(d) {
			remaining = append(remaining, d)
			continue
		}
		val, extra, err := s.expandElem(r, d)
		if err != nil {
			return nil, err
		}
		if val != nil {
			out = append(out, val)
		}
		if extra != nil {
			if a != nil {
				s.post(a, extra)
			} else {
				s.Add(extra)
			}
		}
	}
	if len(remaining) == 0 && rest == nil {
		return newSet(out, nil), nil
	}
	return newSet(out, r.withDomain(newSet(remaining, rest))), nil
}

// expandElem computes the contribution of the ground domain element d:
// nil when the filter rejects it, otherwise the pattern value. When the
// pattern value is not ground it is rebuilt in s from fresh locals and
// extra holds the constraints that define it.
func (s *Solver) expandElem(r *Ris, d Term) (val Term, extra *Constraint, err error) {
	s.stats.Expansions++
	key, cacheable := s.cacheKey(r, d)
	cacheable = cacheable && s.risCache != nil
	if cacheable {
		if hit, ok := s.risCache.Get(key); ok {
			if len(hit.elems) == 0 {
				return nil, nil, nil
			}
			return hit.elems[0], nil, nil
		}
	}

	f := s.fork(false)
	c := newCloner()
	c.freshen(f, r.locals())
	pv := f.fresh(SortAny)
	ok, err := satisfiable(f.Solve(s.ctx, Eq(c.term(r.control), d).And(c.constraint(r.filter), Eq(pv, c.term(r.pattern)))))
	if err != nil {
		return nil, nil, err
	}
	s.logger.Debug("ris expansion", zap.Stringer("ris", r), zap.Stringer("element", d), zap.Bool("included", ok))
	if !ok {
		if cacheable {
			s.risCache.Add(key, EmptySet)
		}
		return nil, nil, nil
	}
	if v := f.resolve(pv); f.isGround(v) {
		if cacheable {
			s.risCache.Add(key, newSet([]Term{v}, nil))
		}
		return v, nil, nil
	}

	c = newCloner()
	c.freshen(s, r.locals())
	return c.term(r.pattern), Eq(c.term(r.control), d).And(c.constraint(r.filter)), nil
}

// instance returns fresh copies of the control term, filter and pattern
// of r.
func (s *Solver) instance(r *Ris) (control Term, filter *Constraint, pattern Term) {
	c := newCloner()
	c.freshen(s, r.locals())
	return c.term(r.control), c.constraint(r.filter), c.term(r.pattern)
}

// inRis rewrites e ∈ {c : D | F @ P} into c' ∈ D && F' && e = P' over a
// fresh instance.
func (s *Solver) inRis(a *Atomic, e Term, r *Ris) error {
	ctrl, filter, pattern := s.instance(r)
	return s.rewrite(a, In(ctrl, r.domain), filter, Eq(e, pattern))
}

// eqRis handles an equality one of whose sides is, or ends with, an
// intensional set.
func (s *Solver) eqRis(a *Atomic) error {
	pending, err := s.expandRisArgs(a)
	if err != nil || !pending {
		return err
	}
	// {c : D | F @ P} = {} holds when F fails for every element of D.
	x, y := s.walk(a.args[0]), s.walk(a.args[1])
	r, ok := x.(*Ris)
	if !ok {
		if r, ok = y.(*Ris); !ok {
			return nil
		}
		y = x
	}
	elems, rest, _ := s.setParts(y)
	if ctrl, isVar := r.control.(*Var); isVar && len(elems) == 0 && rest == nil {
		return s.rewrite(a, ForAll(ctrl, r.domain, r.filter.NotTest(), r.dummies...))
	}
	return nil
}

// expandRisArgs replaces the expandable intensional sets among the
// arguments of a, at top level or as set tails, by their expansions.
// pending reports whether a still mentions an intensional set that
// cannot be expanded yet.
func (s *Solver) expandRisArgs(a *Atomic) (pending bool, err error) {
	for i, arg := range a.args {
		if arg == nil {
			continue
		}
		for {
			r, elems, isTail := s.risOf(arg)
			if r == nil {
				break
			}
			if !s.IsExpandable(r) {
				pending = true
				break
			}
			exp, err := s.expand(a, r)
			if err != nil {
				return false, err
			}
			if isTail {
				exp = newSet(elems, exp)
			}
			a.args[i] = exp
			arg = exp
			s.changed()
		}
	}
	return pending, nil
}

// risOf returns the intensional set t denotes or ends with.
func (s *Solver) risOf(t Term) (r *Ris, elems []Term, isTail bool) {
	switch x := s.walk(t).(type) {
	case *Ris:
		return x, nil, false
	case *Set:
		elems, rest, _ := s.setParts(x)
		if r, ok := rest.(*Ris); ok {
			return r, elems, true
		}
	}
	return nil, nil, false
}

// forceExpansion picks an unsolved constraint that mentions an
// intensional set with a non-empty domain and introduces a choice on the
// first domain element. It reports whether it did so.
func (s *Solver) forceExpansion() (bool, error) {
	for _, a := range s.store.Unsolved() {
		for i, arg := range a.args {
			if arg == nil {
				continue
			}
			if _, isConstraint := arg.(*Constraint); isConstraint {
				continue
			}
			r, elems, isTail := s.risOf(arg)
			if r == nil {
				continue
			}
			if de, _, _ := s.setParts(r.domain); len(de) == 0 {
				continue
			}
			v := s.fresh(SortAny)
			na := a.clone()
			if isTail {
				na.args[i] = newSet(elems, v)
			} else {
				na.args[i] = v
			}
			s.store.Replace(a, na)
			s.store.InsertAfter(na, newAtomic(OpRisChoose, r, v))
			s.changed()
			s.logger.Debug("forced ris expansion", zap.Stringer("ris", r), zap.Stringer("constraint", na))
			return true, nil
		}
	}
	return false, nil
}

// risChooseRule decides whether the first domain element of the
// intensional set in arg 0 contributes to the set v in arg 1.
func (s *Solver) risChooseRule(a *Atomic) error {
	r, v := a.args[0].(*Ris), a.args[1]
	elems, rest, _ := s.setParts(r.domain)
	if len(elems) == 0 {
		if rest == nil {
			return s.rewrite(a, Eq(v, EmptySet))
		}
		return s.rewrite(a, Eq(v, r))
	}
	d, tail := elems[0], r.withDomain(newSet(elems[1:], rest))
	s.stats.Expansions++
	if s.choose(a, 2) == 0 {
		ctrl, filter, pattern := s.instance(r)
		n := s.fresh(SortAny)
		return s.rewrite(a, Eq(ctrl, d), filter, Eq(v, newSet([]Term{pattern}, n)), Eq(n, tail))
	}
	ctrl, filter, _ := s.instance(r)
	return s.rewrite(a, NotTest(Eq(ctrl, d).And(filter)), Eq(v, tail))
}
