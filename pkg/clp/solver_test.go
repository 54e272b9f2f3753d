package clp

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/gitrdm/gokanset/pkg/interval"
)

func newTestSolver(t *testing.T, opts ...func(*Config)) *Solver {
	t.Helper()
	cfg := DefaultConfig()
	for _, o := range opts {
		o(cfg)
	}
	s, err := NewSolverWithConfig(cfg)
	if err != nil {
		t.Fatalf("NewSolverWithConfig: %v", err)
	}
	s.SetLogger(zaptest.NewLogger(t, zaptest.Level(zap.InfoLevel)))
	return s
}

func mustSolve(t *testing.T, s *Solver, c *Constraint) {
	t.Helper()
	if err := s.Solve(context.Background(), c); err != nil {
		t.Fatalf("Solve(%s): %v", c, err)
	}
}

func mustSetof(t *testing.T, s *Solver, x Term, c *Constraint) *Set {
	t.Helper()
	set, err := s.Setof(context.Background(), x, c)
	if err != nil {
		t.Fatalf("Setof(%s, %s): %v", x, c, err)
	}
	return set
}

func mustCheck(t *testing.T, s *Solver, c *Constraint) bool {
	t.Helper()
	ok, err := s.Check(context.Background(), c)
	if err != nil {
		t.Fatalf("Check(%s): %v", c, err)
	}
	return ok
}

func TestSolveNarrowsIntegerDomain(t *testing.T) {
	s := newTestSolver(t)
	x := s.NewIntVar("X", interval.Range(1, 3))
	mustSolve(t, s, Gt(x, Int(1)))

	dom, err := s.Domain(x)
	if err != nil {
		t.Fatal(err)
	}
	if !dom.Equal(interval.Range(2, 3)) {
		t.Fatalf("domain = %v, want [2..3]", dom)
	}
	if s.IsBound(x) {
		t.Fatalf("X should stay unbound without labeling")
	}
}

func TestSetofEnumeratesLabels(t *testing.T) {
	s := newTestSolver(t)
	x := s.NewIntVar("X", interval.Range(1, 3))
	got := mustSetof(t, s, x, Gt(x, Int(1)).And(Label(x)))
	if want := "{2,3}"; s.Canonical(got) != want {
		t.Fatalf("Setof = %s, want %s", s.Canonical(got), want)
	}
	if s.IsBound(x) {
		t.Fatalf("Setof must not bind X in the caller")
	}
}

func TestValueHeuristics(t *testing.T) {
	tests := []struct {
		h    ValueHeuristic
		want int
	}{
		{ValueMin, 1},
		{ValueMax, 9},
		{ValueMid, 5},
	}
	for _, tt := range tests {
		t.Run(tt.h.String(), func(t *testing.T) {
			s := newTestSolver(t, func(c *Config) { c.ValueHeuristic = tt.h })
			x := s.NewIntVar("X", interval.Range(1, 9))
			mustSolve(t, s, Label(x))
			v, err := s.IntValue(x)
			if err != nil {
				t.Fatal(err)
			}
			if v != tt.want {
				t.Fatalf("first value = %d, want %d", v, tt.want)
			}
		})
	}
}

func TestRandomHeuristicIsReproducible(t *testing.T) {
	first := func() int {
		s := newTestSolver(t, func(c *Config) {
			c.ValueHeuristic = ValueRandom
			c.RandomSeed = 42
		})
		x := s.NewIntVar("X", interval.Range(1, 100))
		mustSolve(t, s, Label(x))
		v, err := s.IntValue(x)
		if err != nil {
			t.Fatal(err)
		}
		return v
	}
	if a, b := first(), first(); a != b {
		t.Fatalf("same seed gave %d and %d", a, b)
	}
}

func TestNextSolutionSeesLaterConstraints(t *testing.T) {
	s := newTestSolver(t)
	ctx := context.Background()
	x := s.NewIntVar("X", interval.Range(1, 3))
	mustSolve(t, s, Label(x))
	if v, _ := s.IntValue(x); v != 1 {
		t.Fatalf("first solution X = %d, want 1", v)
	}

	// Posted after the choice point on X: must also hold on resumption.
	s.Add(Neq(x, Int(2)))
	if err := s.NextSolution(ctx); err != nil {
		t.Fatalf("NextSolution: %v", err)
	}
	if v, _ := s.IntValue(x); v != 3 {
		t.Fatalf("second solution X = %d, want 3", v)
	}
	if err := s.NextSolution(ctx); !errors.Is(err, ErrUnsatisfiable) {
		t.Fatalf("NextSolution = %v, want ErrUnsatisfiable", err)
	}
}

func TestCheckAndTestLeaveSolverUntouched(t *testing.T) {
	s := newTestSolver(t)
	ctx := context.Background()
	x := s.NewIntVar("X", interval.Range(1, 3))

	if !mustCheck(t, s, Eq(x, Int(2))) {
		t.Fatalf("X = 2 should be satisfiable")
	}
	if mustCheck(t, s, Eq(x, Int(5))) {
		t.Fatalf("X = 5 should not be satisfiable")
	}
	if s.IsBound(x) {
		t.Fatalf("Check bound X")
	}

	s.Add(Lt(x, Int(1)))
	ok, err := s.Test(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatalf("X < 1 with X in [1..3] should not be satisfiable")
	}
	if dom, _ := s.Domain(x); !dom.Equal(interval.Range(1, 3)) {
		t.Fatalf("Test changed the domain of X to %v", dom)
	}
}

func TestUnsatisfiable(t *testing.T) {
	s := newTestSolver(t)
	x := s.NewVar("X")
	err := s.Solve(context.Background(), Eq(x, Sym("a")).And(Neq(x, Sym("a"))))
	if !errors.Is(err, ErrUnsatisfiable) {
		t.Fatalf("Solve = %v, want ErrUnsatisfiable", err)
	}
}

func allDifferentProblem(s *Solver, n int) *Constraint {
	vars := make([]Term, n)
	for i := range vars {
		vars[i] = s.NewIntVar("", interval.Range(1, n))
	}
	return AllDifferent(vars...).And(Label(vars...))
}

func TestStepLimit(t *testing.T) {
	s := newTestSolver(t, func(c *Config) { c.MaxSteps = 10 })
	err := s.Solve(context.Background(), allDifferentProblem(s, 20))
	if !errors.Is(err, ErrStepLimit) {
		t.Fatalf("Solve = %v, want ErrStepLimit", err)
	}
}

func TestCancelledContext(t *testing.T) {
	s := newTestSolver(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Solve(ctx, allDifferentProblem(s, 30))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Solve = %v, want context.Canceled", err)
	}
}

func TestInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"value heuristic", Config{ValueHeuristic: 42}},
		{"var heuristic", Config{VarHeuristic: 7}},
		{"negative steps", Config{MaxSteps: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			_, err := NewSolverWithConfig(&cfg)
			var ce *ContractError
			if !errors.As(err, &ce) {
				t.Fatalf("NewSolverWithConfig = %v, want *ContractError", err)
			}
		})
	}
}

func TestParseValueHeuristic(t *testing.T) {
	for _, h := range []ValueHeuristic{ValueMin, ValueMax, ValueMid, ValueRandom} {
		got, err := ParseValueHeuristic(h.String())
		if err != nil || got != h {
			t.Fatalf("ParseValueHeuristic(%q) = %v, %v", h.String(), got, err)
		}
	}
	if _, err := ParseValueHeuristic("median"); err == nil {
		t.Fatalf("expected an error for an unknown heuristic")
	}
}

func TestIntValueOfUnboundVar(t *testing.T) {
	s := newTestSolver(t)
	x := s.NewIntVar("X", interval.Range(1, 3))
	_, err := s.IntValue(x)
	var ce *ContractError
	if !errors.As(err, &ce) {
		t.Fatalf("IntValue = %v, want *ContractError", err)
	}
}

func TestArithmeticExpressions(t *testing.T) {
	s := newTestSolver(t)
	x := s.NewIntVar("X", interval.Range(0, 10))
	y := s.NewIntVar("Y", interval.Range(0, 10))
	got := mustSetof(t, s, NewPair(x, y),
		Eq(Plus(x, y), Int(10)).And(Eq(Minus(x, y), Int(4)), Label(x, y)))
	if want := "{(7,3)}"; s.Canonical(got) != want {
		t.Fatalf("Setof = %s, want %s", s.Canonical(got), want)
	}

	z := s.NewIntVar("Z", interval.Range(0, 20))
	mustSolve(t, s, Eq(Times(Int(3), z), Int(12)))
	if v, err := s.IntValue(z); err != nil || v != 4 {
		t.Fatalf("Z = %d, %v; want 4", v, err)
	}
}

func TestStatsCountSearch(t *testing.T) {
	s := newTestSolver(t)
	x := s.NewIntVar("X", interval.Range(1, 3))
	mustSolve(t, s, Label(x))
	st := s.Stats()
	if st.Solutions != 1 || st.ChoicePoints == 0 || st.Steps == 0 {
		t.Fatalf("unexpected stats %s", st)
	}
}
