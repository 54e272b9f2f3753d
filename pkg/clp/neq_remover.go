package clp

import (
	"go.uber.org/zap"
)

// setOperands lists, per constraint kind, the argument positions that
// hold sets.
var setOperands = map[Op][]int{
	OpSubset:         {0, 1},
	OpUnion:          {0, 1, 2},
	OpInters:         {0, 1, 2},
	OpDiff:           {0, 1, 2},
	OpDisj:           {0, 1},
	OpSize:           {0},
	OpIsRel:          {0},
	OpId:             {0, 1},
	OpInv:            {0, 1},
	OpDom:            {0, 1},
	OpRan:            {0, 1},
	OpComp:           {0, 1, 2},
	OpCompPair:       {1, 2},
	OpCompSubset:     {0, 1, 2},
	OpCompSubsetPair: {1, 2},
	OpSubsetComp:     {0, 1, 2},
	OpPfun:           {0},
	OpPfunPair:       {1},
}

// removeNeqs revisits the irreducible inequalities once propagation is
// stuck. X != t stays irreducible when X is an unbound variable, but if X
// is also a set operand of another irreducible constraint the pair may
// hide a contradiction (X ⊆ Y, Y ⊆ X, X != Y). Such inequalities are
// rewritten by extensionality. It reports whether the store changed.
func (s *Solver) removeNeqs() (bool, error) {
	unsolved := s.store.Unsolved()
	operands := map[int]bool{}
	for _, a := range unsolved {
		for _, i := range setOperands[a.op] {
			if v, ok := s.walk(a.args[i]).(*Var); ok {
				operands[v.id] = true
			}
		}
	}
	if len(operands) == 0 {
		return false, nil
	}

	changed := false
	for _, a := range unsolved {
		if a.op != OpNeq {
			continue
		}
		x, y := s.walk(a.args[0]), s.walk(a.args[1])
		if s.identical(x, y) {
			return false, ErrFailure
		}
		v, ok := x.(*Var)
		if !ok || !operands[v.id] {
			if v, ok = y.(*Var); !ok || !operands[v.id] {
				continue
			}
			x, y = y, x
		}
		if s.sortOf(v) == SortInt {
			continue
		}
		s.logger.Debug("neq rewrite", zap.Stringer("constraint", a))
		changed = true
		var err error
		switch t := y.(type) {
		case *Set, *Ris:
			err = s.rewrite(a, single(OpNeqSet, x, t))
		case *Var:
			if s.sortOf(t) == SortInt {
				err = s.solve(a)
			} else {
				err = s.rewrite(a, single(OpNeqSet, x, t))
			}
		default:
			// a set is never equal to an integer, symbol or pair
			err = s.solve(a)
		}
		if err != nil {
			return changed, err
		}
	}
	return changed, nil
}
