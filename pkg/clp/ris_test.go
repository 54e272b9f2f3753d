package clp

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gitrdm/gokanset/pkg/interval"
)

func TestRisExpansion(t *testing.T) {
	s := newTestSolver(t)
	x, y := s.NewVar("x"), s.NewVar("Y")
	r := NewRis(x, SetOf(1, 2, 3), Gt(x, Int(1)), Times(x, Int(2)))
	if !s.IsExpandable(r) {
		t.Fatalf("%s should be expandable", r)
	}
	mustSolve(t, s, Eq(y, r))
	if got, want := s.Canonical(y), "{4,6}"; got != want {
		t.Fatalf("Y = %s, want %s", got, want)
	}
	if s.Stats().Expansions != 3 {
		t.Fatalf("expansions = %d, want 3", s.Stats().Expansions)
	}
}

func TestRisExpansionIsCached(t *testing.T) {
	s := newTestSolver(t)
	x := s.NewVar("x")
	r := NewRis(x, SetOf(1, 2, 3), Gt(x, Int(1)), Times(x, Int(2)))
	for i := 0; i < 2; i++ {
		if _, err := s.Expand(r); err != nil {
			t.Fatal(err)
		}
	}
	// Every expansion step is counted; only the first round forks.
	st := s.Stats()
	if st.Expansions != 6 || st.Forks != 3 {
		t.Fatalf("expansions = %d, forks = %d; want 6 and 3", st.Expansions, st.Forks)
	}
}

func TestExpandRequiresGroundDomain(t *testing.T) {
	s := newTestSolver(t)
	x, d := s.NewVar("x"), s.NewVar("D")
	r := NewRis(x, d, nil, nil)
	if s.IsExpandable(r) {
		t.Fatalf("%s should not be expandable", r)
	}
	_, err := s.Expand(r)
	var ce *ContractError
	if !errors.As(err, &ce) {
		t.Fatalf("Expand = %v, want *ContractError", err)
	}
}

func TestRisMembership(t *testing.T) {
	tests := []struct {
		e   Term
		sat bool
	}{
		{Int(4), true},
		{Int(6), true},
		{Int(2), false},
		{Sym("a"), false},
	}
	for _, tt := range tests {
		t.Run(tt.e.String(), func(t *testing.T) {
			s := newTestSolver(t)
			x := s.NewVar("x")
			r := NewRis(x, SetOf(1, 2, 3), Gt(x, Int(1)), Times(x, Int(2)))
			if got := mustCheck(t, s, In(tt.e, r)); got != tt.sat {
				t.Fatalf("%s ∈ %s: got %v, want %v", tt.e, r, got, tt.sat)
			}
		})
	}
}

func TestRisEmpty(t *testing.T) {
	s := newTestSolver(t)
	x := s.NewVar("x")
	if !mustCheck(t, s, Eq(NewRis(x, SetOf(1, 2, 3), Gt(x, Int(5)), nil), EmptySet)) {
		t.Fatalf("no element of {1,2,3} is > 5")
	}
	if mustCheck(t, s, Eq(NewRis(x, SetOf(1, 2, 3), Gt(x, Int(2)), nil), EmptySet)) {
		t.Fatalf("3 > 2, the set is not empty")
	}
}

func TestRisWaitsForFreeVariables(t *testing.T) {
	tests := []struct {
		bound int
		sat   bool
	}{
		{2, true},
		{3, false},
	}
	for _, tt := range tests {
		s := newTestSolver(t)
		x, y := s.NewVar("x"), s.NewVar("Y")
		r := NewRis(x, SetOf(1, 2), Lt(x, y), nil)
		if s.IsExpandable(r) {
			t.Fatalf("%s mentions Y and should not be expandable", r)
		}
		c := Subset(r, SetOf(1)).And(Eq(y, Int(tt.bound)))
		if got := mustCheck(t, s, c); got != tt.sat {
			t.Fatalf("Y = %d: got %v, want %v", tt.bound, got, tt.sat)
		}
	}
}

func TestForcedRisExpansion(t *testing.T) {
	s := newTestSolver(t)
	x := s.NewVar("x")
	y := s.NewIntVar("Y", interval.Range(5, 6))
	r := NewRis(x, SetOf(1, 2), Lt(x, y), NewPair(x, x))
	mustSolve(t, s, Subset(r, pairs([2]Term{Int(1), Int(1)}, [2]Term{Int(2), Int(2)})))
	if s.Stats().Expansions == 0 {
		t.Fatalf("the intensional set should have been expanded")
	}
	if mustCheck(t, s, Subset(r, pairs([2]Term{Int(1), Int(1)}))) {
		t.Fatalf("(2,2) belongs to the set")
	}
}

func TestRisCacheFollowsOutsideBindings(t *testing.T) {
	for _, size := range []int{0, 256} {
		t.Run(fmt.Sprintf("cache=%d", size), func(t *testing.T) {
			s := newTestSolver(t, func(c *Config) { c.RisCacheSize = size })
			n := s.NewIntVar("N", interval.Range(1, 2))
			x, y := s.NewVar("x"), s.NewVar("Y")
			r := NewRis(x, SetOf(1, 2, 3), Gt(x, n), nil)
			got := mustSetof(t, s, NewPair(n, y), Label(n).And(Eq(y, r)))
			if want := "{(1,{2,3}),(2,{3})}"; s.Canonical(got) != want {
				t.Fatalf("Setof = %s, want %s", s.Canonical(got), want)
			}
		})
	}
}

func TestRisCacheKeysOnOutsideValues(t *testing.T) {
	s := newTestSolver(t)
	n, x := s.NewVar("N"), s.NewVar("x")
	r := NewRis(x, SetOf(1, 2, 3), Gt(x, n), nil)
	mustSolve(t, s, Eq(n, Int(1)))
	before := s.Stats().Forks
	for i := 0; i < 2; i++ {
		got, err := s.Expand(r)
		if err != nil {
			t.Fatal(err)
		}
		if s.Canonical(got) != "{2,3}" {
			t.Fatalf("expansion = %s, want {2,3}", s.Canonical(got))
		}
	}
	if forks := s.Stats().Forks - before; forks != 3 {
		t.Fatalf("forks = %d, want 3: the second round should hit the cache", forks)
	}
}

func TestRisPatternMayMentionFreeVariables(t *testing.T) {
	s := newTestSolver(t)
	x, y, z := s.NewVar("x"), s.NewVar("Y"), s.NewVar("Z")
	r := NewRis(x, SetOf(1, 2), nil, NewPair(x, y))
	if !s.IsExpandable(r) {
		t.Fatalf("%s should be expandable: only the pattern mentions Y", r)
	}
	mustSolve(t, s, Eq(z, r).And(Eq(y, Int(7))))
	if got, want := s.Canonical(z), "{(1,7),(2,7)}"; got != want {
		t.Fatalf("Z = %s, want %s", got, want)
	}
	if s.Stats().ChoicePoints != 0 {
		t.Fatalf("expansion opened %d choice points", s.Stats().ChoicePoints)
	}
}
