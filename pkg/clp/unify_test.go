package clp

import (
	"testing"
)

func TestSetUnificationEnumeratesPermutations(t *testing.T) {
	s := newTestSolver(t)
	x, y := s.NewVar("X"), s.NewVar("Y")
	got := mustSetof(t, s, NewPair(x, y), Eq(NewSet(x, y), SetOf(1, 2)))
	if want := "{(1,2),(2,1)}"; s.Canonical(got) != want {
		t.Fatalf("Setof = %s, want %s", s.Canonical(got), want)
	}
}

func TestSetUnificationIgnoresDuplicates(t *testing.T) {
	s := newTestSolver(t)
	x := s.NewVar("X")
	if !mustCheck(t, s, Eq(NewSet(Int(1), Int(1), Int(2)), SetOf(2, 1))) {
		t.Fatalf("{1,1,2} = {2,1} should hold")
	}
	got := mustSetof(t, s, x, Eq(NewSet(x, Int(1)), SetOf(1)))
	if want := "{1}"; s.Canonical(got) != want {
		t.Fatalf("Setof = %s, want %s", s.Canonical(got), want)
	}
}

func TestOpenSetSelfReference(t *testing.T) {
	s := newTestSolver(t)
	x := s.NewVar("X")
	mustSolve(t, s, Eq(x, WithTail(x, Int(1))))

	set, ok := s.Value(x).(*Set)
	if !ok {
		t.Fatalf("X = %s, want a set", s.Value(x))
	}
	if elems := set.Elems(); len(elems) != 1 || elems[0] != Int(1) {
		t.Fatalf("elements of X = %v, want [1]", elems)
	}
	if tail, ok := set.Tail().(*Var); !ok || tail == x {
		t.Fatalf("tail of X = %v, want a fresh variable", set.Tail())
	}
}

func TestPairUnification(t *testing.T) {
	s := newTestSolver(t)
	x, y := s.NewVar("X"), s.NewVar("Y")
	mustSolve(t, s, Eq(NewPair(x, Int(2)), NewPair(Int(1), y)))
	if got := s.Canonical(NewPair(x, y)); got != "(1,2)" {
		t.Fatalf("(X,Y) = %s, want (1,2)", got)
	}
	if mustCheck(t, s, Eq(NewPair(x, y), NewPair(y, x))) {
		t.Fatalf("(1,2) = (2,1) should fail")
	}
}

func TestOccursCheck(t *testing.T) {
	s := newTestSolver(t)
	x := s.NewVar("X")
	if mustCheck(t, s, Eq(x, NewPair(x, Int(1)))) {
		t.Fatalf("X = (X,1) should fail")
	}
	if mustCheck(t, s, Eq(x, NewSet(x))) {
		t.Fatalf("X = {X} should fail")
	}
}

func TestMembership(t *testing.T) {
	s := newTestSolver(t)
	x := s.NewVar("X")
	got := mustSetof(t, s, x, In(x, NewSet(Sym("a"), Sym("b"))))
	if want := "{a,b}"; s.Canonical(got) != want {
		t.Fatalf("Setof = %s, want %s", s.Canonical(got), want)
	}

	got = mustSetof(t, s, x, In(x, SetOf(1, 2, 3)).And(Nin(x, SetOf(1, 3))))
	if want := "{2}"; s.Canonical(got) != want {
		t.Fatalf("Setof = %s, want %s", s.Canonical(got), want)
	}
}

func TestMembershipBuildsOpenSet(t *testing.T) {
	s := newTestSolver(t)
	x := s.NewVar("X")
	mustSolve(t, s, In(Sym("a"), x))
	if !mustCheck(t, s, In(Sym("a"), x)) {
		t.Fatalf("a should belong to X")
	}
	if mustCheck(t, s, Nin(Sym("a"), x)) {
		t.Fatalf("a ∉ X should fail")
	}
}

func TestInequality(t *testing.T) {
	tests := []struct {
		name string
		c    func(x, y *Var) *Constraint
		sat  bool
	}{
		{"different symbols", func(x, y *Var) *Constraint { return Neq(Sym("a"), Sym("b")) }, true},
		{"bound to same value", func(x, y *Var) *Constraint { return Eq(x, Int(1)).And(Eq(y, Int(1)), Neq(x, y)) }, false},
		{"pairs differ in second", func(x, y *Var) *Constraint {
			return Neq(NewPair(Int(1), x), NewPair(Int(1), Int(2))).And(Eq(x, Int(2)))
		}, false},
		{"sets by extensionality", func(x, y *Var) *Constraint {
			return Neq(NewSet(x), SetOf(1)).And(In(x, SetOf(1, 2)))
		}, true},
		{"equal ground sets", func(x, y *Var) *Constraint { return Neq(SetOf(1, 2), SetOf(2, 1)) }, false},
		{"int vs symbol", func(x, y *Var) *Constraint { return Neq(Int(1), Sym("a")) }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSolver(t)
			x, y := s.NewVar("X"), s.NewVar("Y")
			if got := mustCheck(t, s, tt.c(x, y)); got != tt.sat {
				t.Fatalf("Check = %v, want %v", got, tt.sat)
			}
		})
	}
}

func TestOrAndNegation(t *testing.T) {
	s := newTestSolver(t)
	x := s.NewVar("X")
	got := mustSetof(t, s, x, Or(Eq(x, Int(1)), Eq(x, Int(2)), Eq(x, Int(3))).And(NotTest(Eq(x, Int(2)))))
	if want := "{1,3}"; s.Canonical(got) != want {
		t.Fatalf("Setof = %s, want %s", s.Canonical(got), want)
	}

	y := s.NewVar("Y")
	got = mustSetof(t, s, y, In(x, SetOf(1, 2)).And(ImpliesTest(Eq(x, Int(1)), Eq(y, Sym("one"))), ImpliesTest(Eq(x, Int(2)), Eq(y, Sym("two")))))
	if want := "{one,two}"; s.Canonical(got) != want {
		t.Fatalf("Setof = %s, want %s", s.Canonical(got), want)
	}
}

func TestForAll(t *testing.T) {
	s := newTestSolver(t)
	x := s.NewVar("x")
	if !mustCheck(t, s, ForAll(x, SetOf(2, 4, 6), Gt(x, Int(1)))) {
		t.Fatalf("every element of {2,4,6} is > 1")
	}
	if mustCheck(t, s, ForAll(x, SetOf(2, 4, 6), Lt(x, Int(5)))) {
		t.Fatalf("6 is not < 5")
	}

	// A dummy gets a fresh copy per element.
	d := s.NewVar("d")
	if !mustCheck(t, s, ForAll(x, SetOf(1, 2), Eq(d, x), d)) {
		t.Fatalf("d = x must hold for each element with a fresh d")
	}
}
