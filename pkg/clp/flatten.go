package clp

// flattenArgs replaces the expression arguments of a by integer
// variables defined through sum and prod constraints placed right after
// a. Ground expressions are evaluated in place.
func (s *Solver) flattenArgs(a *Atomic) error {
	for i, t := range a.args {
		if t == nil {
			continue
		}
		e, ok := s.walk(t).(*Expr)
		if !ok {
			continue
		}
		v, err := s.flattenExpr(a, e)
		if err != nil {
			return err
		}
		a.args[i] = v
	}
	return nil
}

// flattenExpr returns a term equal to e: its value when e is ground, or
// a fresh integer variable constrained by arithmetic posted after a.
func (s *Solver) flattenExpr(a *Atomic, e *Expr) (Term, error) {
	switch r := s.resolve(e).(type) {
	case Int:
		return r, nil
	case *Expr:
		if !s.maybeInt(r.a) || !s.maybeInt(r.b) {
			return nil, ErrFailure
		}
	}
	v := s.fresh(SortInt)
	switch e.op {
	case ExprPlus:
		s.post(a, Sum(e.a, e.b, v))
	case ExprMinus:
		s.post(a, Sum(v, e.b, e.a))
	case ExprTimes:
		s.post(a, Prod(e.a, e.b, v))
	default:
		panic(contractf("expr", "unknown operator %d", e.op))
	}
	return v, nil
}

// maybeInt reports whether t could still denote an integer.
func (s *Solver) maybeInt(t Term) bool {
	switch x := s.walk(t).(type) {
	case Int, *Expr:
		return true
	case *Var:
		return s.sortOf(x) != SortSet
	default:
		return false
	}
}
