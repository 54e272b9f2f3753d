package clp

import (
	"context"
	"errors"
	"testing"

	"github.com/gitrdm/gokanset/pkg/interval"
)

func TestNeqRemoverRefutesMutualSubsets(t *testing.T) {
	s := newTestSolver(t)
	x, y := s.NewVar("X"), s.NewVar("Y")
	err := s.Solve(context.Background(), Subset(x, y).And(Subset(y, x), Neq(x, y)))
	if !errors.Is(err, ErrUnsatisfiable) {
		t.Fatalf("Solve = %v, want ErrUnsatisfiable", err)
	}
}

func TestNeqRemoverOnSetVariables(t *testing.T) {
	s := newTestSolver(t)
	x := s.NewSetVar("X", interval.Range(1, 2))
	y := s.NewSetVar("Y", interval.Range(1, 2))
	if mustCheck(t, s, Subset(x, y).And(Subset(y, x), Neq(x, y))) {
		t.Fatalf("X ⊆ Y, Y ⊆ X and X != Y should be unsatisfiable")
	}
	if !mustCheck(t, s, Subset(x, y).And(Neq(x, y))) {
		t.Fatalf("X ⊂ Y should be satisfiable")
	}
}

func TestNeqRemoverLeavesUnrelatedInequalities(t *testing.T) {
	s := newTestSolver(t)
	x, y, z := s.NewVar("X"), s.NewVar("Y"), s.NewVar("Z")
	mustSolve(t, s, Subset(x, z).And(Neq(x, Int(3)), Neq(y, Sym("a"))))

	var neqs int
	for _, a := range s.Residual().Atomics() {
		if a.Op() == OpNeq {
			neqs++
		}
	}
	// X != 3 is dropped: a set never equals an integer.
	if neqs != 1 {
		t.Fatalf("residual %s, want only Y != a left", s.Residual())
	}
}
