package clp

// orRule tries the left disjunct, then the right one on backtracking.
func (s *Solver) orRule(a *Atomic) error {
	alt := s.choose(a, 2)
	return s.rewrite(a, a.args[alt].(*Constraint))
}

// notTestRule succeeds when its argument is unsatisfiable under the
// current bindings. The test runs in a fork with an empty store.
func (s *Solver) notTestRule(a *Atomic) error {
	ok, err := s.probe(a.args[0].(*Constraint))
	if err != nil {
		return err
	}
	if ok {
		return ErrFailure
	}
	return s.solve(a)
}

// impliesTestRule posts its consequent unless the antecedent is
// unsatisfiable under the current bindings.
func (s *Solver) impliesTestRule(a *Atomic) error {
	ok, err := s.probe(a.args[0].(*Constraint))
	if err != nil {
		return err
	}
	if !ok {
		return s.solve(a)
	}
	return s.rewrite(a, a.args[1].(*Constraint))
}

// probe reports whether c is satisfiable given the current bindings and
// domains, ignoring the store.
func (s *Solver) probe(c *Constraint) (bool, error) {
	f := s.fork(false)
	return satisfiable(f.Solve(s.ctx, c))
}

// forAllRule instantiates its body for every known element of the set,
// with fresh copies of the dummies, and keeps quantifying over the tail.
func (s *Solver) forAllRule(a *Atomic) error {
	if _, err := s.expandRisArgs(a); err != nil {
		return err
	}
	x := a.args[0].(*Var)
	body := a.args[2].(*Constraint)
	dummies := a.args[3].(*Set).elems

	switch set := s.walk(a.args[1]).(type) {
	case *Set:
		elems, rest, _ := s.setParts(set)
		if len(elems) == 0 {
			if rest == nil {
				return s.solve(a)
			}
			return nil
		}
		cs := make([]*Constraint, 0, len(elems)+1)
		for _, e := range elems {
			c := newCloner()
			c.mapping[x.id] = e
			for _, d := range dummies {
				c.mapping[d.(*Var).id] = s.fresh(SortAny)
			}
			cs = append(cs, c.constraint(body))
		}
		if rest != nil {
			cs = append(cs, single(OpForAll, x, rest, body, a.args[3]))
		}
		return s.rewrite(a, cs...)
	case *Var, *Ris:
		return nil
	default:
		return ErrFailure
	}
}
