package clp

import (
	"fmt"
	"testing"
)

func pairs(ps ...[2]Term) *Set {
	elems := make([]Term, len(ps))
	for i, p := range ps {
		elems[i] = NewPair(p[0], p[1])
	}
	return NewSet(elems...)
}

func TestRelationRules(t *testing.T) {
	a, b := Sym("a"), Sym("b")
	r := pairs([2]Term{Int(1), a}, [2]Term{Int(2), b})
	tests := []struct {
		name string
		c    func(z *Var) *Constraint
		want string
	}{
		{"id", func(z *Var) *Constraint { return Id(SetOf(1, 2), z) }, "{(1,1),(2,2)}"},
		{"inv", func(z *Var) *Constraint { return Inv(r, z) }, "{(a,1),(b,2)}"},
		{"dom", func(z *Var) *Constraint { return Dom(r, z) }, "{1,2}"},
		{"ran", func(z *Var) *Constraint { return Ran(r, z) }, "{a,b}"},
		{"comp", func(z *Var) *Constraint {
			return Comp(pairs([2]Term{Int(1), Int(2)}, [2]Term{Int(2), Int(3)}), pairs([2]Term{Int(2), a}, [2]Term{Int(3), b}), z)
		}, "{(1,a),(2,b)}"},
		{"comp with empty", func(z *Var) *Constraint { return Comp(EmptySet, r, z) }, "{}"},
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

func TestRelationChecks(t *testing.T) {
	tests := []struct {
		name string
		c    func(x *Var) *Constraint
		sat  bool
	}{
		{"is relation", func(x *Var) *Constraint { return IsRel(NewSet(NewPair(Int(1), Int(2)), x)) }, true},
		{"not a relation", func(x *Var) *Constraint { return IsRel(SetOf(1)) }, false},
		{"partial function", func(x *Var) *Constraint { return Pfun(pairs([2]Term{Int(1), Int(2)}, [2]Term{Int(2), Int(2)})) }, true},
		{"not a partial function", func(x *Var) *Constraint { return Pfun(pairs([2]Term{Int(1), Int(2)}, [2]Term{Int(1), Int(3)})) }, false},
		{"partial function forces value", func(x *Var) *Constraint {
			return Pfun(pairs([2]Term{Int(1), Int(2)}, [2]Term{Int(1), x})).And(Neq(x, Int(2)))
		}, false},
		{"inverse of inverse", func(x *Var) *Constraint {
			return Inv(pairs([2]Term{Int(1), Int(2)}), x).And(Inv(x, pairs([2]Term{Int(1), Int(2)})))
		}, true},
		{"domain from range", func(x *Var) *Constraint {
			return Dom(NewSet(NewPair(x, Int(5))), SetOf(3)).And(Eq(x, Int(4)))
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSolver(t)
			x := s.NewVar("X")
			if got := mustCheck(t, s, tt.c(x)); got != tt.sat {
				t.Fatalf("Check = %v, want %v", got, tt.sat)
			}
		})
	}
}

func TestCompositionStrategiesAgree(t *testing.T) {
	type candidate struct {
		t   *Set
		sat bool
	}
	candidates := []candidate{
		{pairs([2]Term{Int(1), Int(5)}, [2]Term{Int(2), Int(6)}), true},
		{pairs([2]Term{Int(1), Int(6)}, [2]Term{Int(2), Int(6)}), true},
		{pairs([2]Term{Int(1), Int(5)}), false},
		{pairs([2]Term{Int(1), Int(5)}, [2]Term{Int(1), Int(6)}, [2]Term{Int(2), Int(6)}), false},
		{EmptySet, false},
	}
	sr := pairs([2]Term{Int(2), Int(5)}, [2]Term{Int(3), Int(6)})
	for _, fast := range []bool{false, true} {
		for i, cand := range candidates {
			t.Run(fmt.Sprintf("fast=%v/%d", fast, i), func(t *testing.T) {
				s := newTestSolver(t, func(c *Config) { c.FastComposition = fast })
				y := s.NewVar("Y")
				r := NewSet(NewPair(Int(1), y), NewPair(Int(2), Int(3)))
				c := Comp(r, sr, cand.t).And(In(y, SetOf(2, 3)))
				if got := mustCheck(t, s, c); got != cand.sat {
					t.Fatalf("Check(%s) = %v, want %v", c, got, cand.sat)
				}
			})
		}
	}
}

func TestGeneralCompositionEnumerates(t *testing.T) {
	s := newTestSolver(t)
	y, z := s.NewVar("Y"), s.NewVar("Z")
	r := NewSet(NewPair(Int(1), y), NewPair(Int(2), Int(3)))
	sr := pairs([2]Term{Int(2), Int(5)}, [2]Term{Int(3), Int(6)})
	got := mustSetof(t, s, z, Comp(r, sr, z).And(In(y, SetOf(2, 3))))
	if want := "{{(1,5),(2,6)},{(1,6),(2,6)}}"; s.Canonical(got) != want {
		t.Fatalf("Setof = %s, want %s", s.Canonical(got), want)
	}
}

func TestCompSubsetWithEmptyRelation(t *testing.T) {
	s := newTestSolver(t)
	sr, z := s.NewVar("S"), s.NewVar("T")
	mustSolve(t, s, CompSubset(EmptySet, sr, z))
	if n := s.Residual().Len(); n != 0 {
		t.Fatalf("residual %s, want none", s.Residual())
	}
}
