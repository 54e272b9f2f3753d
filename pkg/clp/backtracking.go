package clp

import (
	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

// choicePoint is a snapshot of the search state: the whole variable arena
// and copies of the unsolved atomics. Restoring replaces the live state
// wholesale.
type choicePoint struct {
	vars  []varState
	store *Store
}

// addChoicePoint records the state in which a will resume with its next
// alternative. The snapshot holds a copy of a whose alternative is one
// higher than the live a.
func (s *Solver) addChoicePoint(a *Atomic) {
	a.alternative++
	cp := &choicePoint{
		vars:  slices.Clone(s.vars),
		store: s.store.Clone(),
	}
	a.alternative--
	s.choices = append(s.choices, cp)

	s.stats.ChoicePoints++
	if d := len(s.choices); d > s.stats.MaxDepth {
		s.stats.MaxDepth = d
	}
	s.logger.Debug("choice point", zap.Stringer("constraint", a), zap.Int("depth", len(s.choices)))
	if s.tracer != nil {
		s.tracer.Trace(Event{Kind: EventChoicePoint, Depth: len(s.choices), Constraint: a})
	}
}

// choose returns the alternative a must try now, out of n. A choice point
// for the next alternative is pushed unless this is the last one. Rules
// call choose before mutating anything, and once they have chosen they
// must solve or rewrite a.
func (s *Solver) choose(a *Atomic, n int) int {
	alt := a.alternative
	if alt < n-1 {
		s.addChoicePoint(a)
	}
	return alt
}

// backtrack restores the most recent choice point. It returns
// errExhausted when there is none.
func (s *Solver) backtrack() error {
	n := len(s.choices)
	if n == 0 {
		return errExhausted
	}
	cp := s.choices[n-1]
	s.choices[n-1] = nil
	s.choices = s.choices[:n-1]

	s.vars = cp.vars
	s.store = cp.store
	s.progress++

	s.stats.Backtracks++
	s.logger.Debug("backtrack", zap.Int("depth", n-1))
	if s.tracer != nil {
		s.tracer.Trace(Event{Kind: EventBacktrack, Depth: n - 1})
	}
	return nil
}

// updateAlternativesVars appends the creation state of a new variable to
// every snapshot, keeping all arenas aligned with the handle table.
func (s *Solver) updateAlternativesVars(st varState) {
	for _, cp := range s.choices {
		cp.vars = append(cp.vars, st)
	}
}

// updateAlternativesStores adds copies of atoms to every snapshot, so that
// constraints posted after a choice point still hold when it is resumed.
func (s *Solver) updateAlternativesStores(atoms []*Atomic) {
	for _, cp := range s.choices {
		for _, a := range atoms {
			cp.store.Add(a.clone())
		}
	}
}
