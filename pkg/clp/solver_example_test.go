package clp

import (
	"context"
	"fmt"

	"github.com/gitrdm/gokanset/pkg/interval"
)

// ExampleSolver_NextSolution enumerates the ordered pairs X < Y over
// [1..3] by resuming the search after each solution.
func ExampleSolver_NextSolution() {
	ctx := context.Background()
	s := NewSolver()
	x := s.NewIntVar("X", interval.Range(1, 3))
	y := s.NewIntVar("Y", interval.Range(1, 3))

	for err := s.Solve(ctx, Lt(x, y).And(Label(x, y))); err == nil; err = s.NextSolution(ctx) {
		fmt.Println(s.Canonical(NewPair(x, y)))
	}
	// Output:
	// (1,2)
	// (1,3)
	// (2,3)
}

// ExampleSolver_Setof collects every way of matching {X,Y} with {1,2}.
func ExampleSolver_Setof() {
	s := NewSolver()
	x, y := s.NewVar("X"), s.NewVar("Y")
	all, err := s.Setof(context.Background(), NewPair(x, y), Eq(NewSet(x, y), SetOf(1, 2)))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(all)
	// Output:
	// {(1,2),(2,1)}
}

// ExampleSolver_NewSetVar narrows a set variable with finite-set
// constraints, without labeling it.
func ExampleSolver_NewSetVar() {
	cfg := DefaultConfig()
	cfg.FinalLabeling = false
	s, _ := NewSolverWithConfig(cfg)
	x := s.NewSetVar("X", interval.Range(1, 9))
	err := s.Solve(context.Background(), Union(SetOf(1, 2), x, SetOf(1, 2, 3)).And(Disj(x, SetOf(1))))
	if err != nil {
		fmt.Println(err)
		return
	}
	glb, lub, _ := s.SetBounds(x)
	fmt.Println(glb, lub)
	// Output:
	// {3} {2..3}
}

// ExampleNewRis builds {2x : x ∈ {1,2,3} | x > 1}.
func ExampleNewRis() {
	s := NewSolver()
	x, y := s.NewVar("x"), s.NewVar("Y")
	r := NewRis(x, SetOf(1, 2, 3), Gt(x, Int(1)), Times(x, Int(2)))
	if err := s.Solve(context.Background(), Eq(y, r)); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(s.Canonical(y))
	// Output:
	// {4,6}
}

// ExampleComp composes two relations.
func ExampleComp() {
	s := NewSolver()
	t := s.NewVar("T")
	parent := NewSet(NewPair(Sym("ann"), Sym("bob")), NewPair(Sym("bob"), Sym("cy")))
	if err := s.Solve(context.Background(), Comp(parent, parent, t)); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(s.Canonical(t))
	// Output:
	// {(ann,cy)}
}
