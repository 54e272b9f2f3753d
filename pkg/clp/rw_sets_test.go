package clp

import (
	"testing"
)

func TestSetRewriteRules(t *testing.T) {
	a, b, c := Sym("a"), Sym("b"), Sym("c")
	tests := []struct {
		name string
		c    func(z *Var) *Constraint
		want string
	}{
		{"union", func(z *Var) *Constraint { return Union(NewSet(a), NewSet(b), z) }, "{a,b}"},
		{"union with empty", func(z *Var) *Constraint { return Union(EmptySet, NewSet(a, b), z) }, "{a,b}"},
		{"inters", func(z *Var) *Constraint { return Inters(NewSet(a, b), NewSet(b, c), z) }, "{b}"},
		{"diff", func(z *Var) *Constraint { return Diff(NewSet(a, b), NewSet(b), z) }, "{a}"},
		{"inters with empty", func(z *Var) *Constraint { return Inters(NewSet(a, b), EmptySet, z) }, "{}"},
		{"diff of itself", func(z *Var) *Constraint { return Diff(NewSet(a, b), NewSet(a, b), z) }, "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSolver(t)
			z := s.NewVar("Z")
			mustSolve(t, s, tt.c(z))
			if got := s.Canonical(z); got != tt.want {
				t.Fatalf("Z = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSetRewriteChecks(t *testing.T) {
	a, b, c := Sym("a"), Sym("b"), Sym("c")
	tests := []struct {
		name string
		c    *Constraint
		sat  bool
	}{
		{"subset", Subset(NewSet(a), NewSet(a, b)), true},
		{"not subset", Subset(NewSet(a, c), NewSet(a, b)), false},
		{"disjoint", Disj(NewSet(a), NewSet(b, c)), true},
		{"not disjoint", Disj(NewSet(a, b), NewSet(b, c)), false},
		{"size", Size(NewSet(a, b, a), Int(2)), true},
		{"wrong size", Size(NewSet(a, b), Int(3)), false},
		{"union mismatch", Union(NewSet(a), NewSet(b), NewSet(a)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSolver(t)
			if got := mustCheck(t, s, tt.c); got != tt.sat {
				t.Fatalf("Check(%s) = %v, want %v", tt.c, got, tt.sat)
			}
		})
	}
}

func TestSizeOfSetWithUnknownElements(t *testing.T) {
	s := newTestSolver(t)
	x, y, n := s.NewVar("X"), s.NewVar("Y"), s.NewVar("N")
	got := mustSetof(t, s, n, Size(NewSet(x, y), n).And(In(x, SetOf(1, 2)), In(y, SetOf(1, 2))))
	if want := "{1,2}"; s.Canonical(got) != want {
		t.Fatalf("Setof = %s, want %s", s.Canonical(got), want)
	}
}

func TestSubsetOfOpenSet(t *testing.T) {
	s := newTestSolver(t)
	x := s.NewVar("X")
	mustSolve(t, s, Subset(NewSet(Sym("a"), Sym("b")), x))
	if !mustCheck(t, s, In(Sym("b"), x)) {
		t.Fatalf("b should belong to X")
	}
}
