package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gitrdm/gokanset/pkg/clp"
	"github.com/gitrdm/gokanset/pkg/interval"
)

// A demo posts one constraint program on s and prints what it finds.
type demo func(ctx context.Context, s *clp.Solver, w io.Writer) error

// partitions prints every split of {1,2,3} into two disjoint sets.
func partitions(ctx context.Context, s *clp.Solver, w io.Writer) error {
	x := s.NewSetVar("X", interval.Range(1, 3))
	y := s.NewSetVar("Y", interval.Range(1, 3))
	all, err := s.Setof(ctx, clp.NewPair(x, y), clp.Union(x, y, clp.SetOf(1, 2, 3)).And(clp.Disj(x, y)))
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "partitions of {1,2,3}: %d\n", len(all.Elems()))
	for _, p := range all.Elems() {
		fmt.Fprintf(w, "  %s\n", p)
	}

	// Unknown elements: {A,B} = {1,2} has two solutions.
	a, b := s.NewVar("A"), s.NewVar("B")
	matches, err := s.Setof(ctx, clp.NewPair(a, b), clp.Eq(clp.NewSet(a, b), clp.SetOf(1, 2)))
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "{A,B} = {1,2}: %s\n", matches)
	return nil
}

// family derives relations from a parent relation by composition.
func family(ctx context.Context, s *clp.Solver, w io.Writer) error {
	sym := func(a, b string) clp.Term { return clp.NewPair(clp.Sym(a), clp.Sym(b)) }
	parent := clp.NewSet(
		sym("ann", "bob"), sym("ann", "cy"),
		sym("bob", "dee"), sym("cy", "eve"),
	)
	grand, child, parents := s.NewVar("Grand"), s.NewVar("Child"), s.NewVar("Parents")
	c := clp.Comp(parent, parent, grand).
		And(clp.Inv(parent, child)).
		And(clp.Dom(parent, parents)).
		And(clp.Pfun(child))
	if err := s.Solve(ctx, c); err != nil {
		return err
	}
	fmt.Fprintf(w, "grandparent: %s\n", s.Canonical(grand))
	fmt.Fprintf(w, "child:       %s\n", s.Canonical(child))
	fmt.Fprintf(w, "parents:     %s\n", s.Canonical(parents))

	ok, err := s.Check(ctx, clp.Pfun(parent))
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "parent is a function: %t\n", ok)
	return nil
}

// squares builds an intensional set and queries it.
func squares(ctx context.Context, s *clp.Solver, w io.Writer) error {
	x, sq := s.NewVar("x"), s.NewVar("Squares")
	r := clp.NewRis(x, clp.SetOf(1, 2, 3, 4, 5, 6), clp.Gt(x, clp.Int(2)), clp.Times(x, x))
	fmt.Fprintf(w, "intensional set: %s\n", r)
	for _, n := range []int{9, 4} {
		ok, err := s.Check(ctx, clp.In(clp.Int(n), r))
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d in it: %t\n", n, ok)
	}
	if err := s.Solve(ctx, clp.Eq(sq, r)); err != nil {
		return err
	}
	fmt.Fprintf(w, "expanded: %s\n", s.Canonical(sq))
	return nil
}

// queens counts the solutions of the n-queens puzzle and prints the first.
func queens(n int) demo {
	return func(ctx context.Context, s *clp.Solver, w io.Writer) error {
		q := make([]clp.Term, n)
		for i := range q {
			q[i] = s.NewIntVar(fmt.Sprintf("Q%d", i+1), interval.Range(1, n))
		}
		c := clp.AllDifferent(q...)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				d := clp.Int(j - i)
				c = c.And(clp.Neq(q[i], clp.Plus(q[j], d))).And(clp.Neq(q[i], clp.Minus(q[j], d)))
			}
		}
		c = c.And(clp.Label(q...))

		count := 0
		err := s.Solve(ctx, c)
		for ; err == nil; err = s.NextSolution(ctx) {
			if count == 0 {
				fmt.Fprintf(w, "%d-queens: %s\n", n, board(s, q))
			}
			count++
		}
		if !errors.Is(err, clp.ErrUnsatisfiable) {
			return err
		}
		fmt.Fprintf(w, "%d-queens: %d solutions\n", n, count)
		return nil
	}
}

func board(s *clp.Solver, q []clp.Term) string {
	cols := make([]string, len(q))
	for i, t := range q {
		cols[i] = s.Canonical(t)
	}
	return "[" + strings.Join(cols, " ") + "]"
}
