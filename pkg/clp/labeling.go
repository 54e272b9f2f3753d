package clp

import (
	"golang.org/x/exp/slices"
	"go.uber.org/zap"

	"github.com/gitrdm/gokanset/pkg/interval"
)

// labelLimit is the largest number of candidate values (or undecided
// elements) a variable may have to be enumerated.
const labelLimit = 1 << 16

// labelable reports the number of candidates of v, and whether final
// labeling can enumerate it.
func (s *Solver) labelable(v *Var) (int, bool) {
	st := s.vars[v.id]
	switch st.sort {
	case SortInt:
		if st.dom.IsEmpty() || st.dom.Min() <= interval.Inf || st.dom.Max() >= interval.Sup {
			return 0, false
		}
		n := st.dom.Size()
		return n, n <= labelLimit
	case SortSet:
		undecided := st.lub.Diff(st.glb)
		if undecided.IsEmpty() || undecided.Min() <= interval.Inf || undecided.Max() >= interval.Sup {
			return 0, false
		}
		n := undecided.Size()
		return n, n <= labelLimit
	}
	return 0, false
}

// finalLabeling enumerates the integer and set variables that still occur
// in irreducible constraints, so that a reported solution is always
// consistent. Bound variables of quantifiers and the local variables of
// intensional sets are skipped. It reports whether labeling constraints
// were added.
func (s *Solver) finalLabeling() (bool, error) {
	e := newExplorer(s, true)
	for _, a := range s.store.Unsolved() {
		for i, arg := range a.args {
			if arg == nil || (a.op == OpForAll && (i == 0 || i == 3)) {
				continue
			}
			e.visit(arg)
		}
	}

	type candidate struct {
		v    *Var
		size int
	}
	var cands []candidate
	for _, v := range e.vars {
		if n, ok := s.labelable(v); ok {
			cands = append(cands, candidate{v, n})
		}
	}
	if len(cands) == 0 {
		return false, nil
	}
	if s.config.VarHeuristic == VarFirstFail {
		slices.SortStableFunc(cands, func(a, b candidate) int { return a.size - b.size })
	}

	var atoms []*Atomic
	for _, c := range cands {
		if s.sortOf(c.v) == SortSet {
			atoms = append(atoms, newAtomic(OpLabelSet, c.v))
		} else {
			atoms = append(atoms, newAtomic(OpLabel, c.v))
		}
	}
	s.logger.Debug("final labeling", zap.Int("vars", len(atoms)))
	s.store.Add(atoms...)
	s.changed()
	return true, nil
}
