// Package clp provides a constraint logic programming engine over
// integers, finite sets and binary relations.
//
// A Solver owns logical variables and a store of atomic constraints.
// Clients build Constraint values with the constructors of this package
// (Eq, In, Subset, Union, Comp, ForAll, ...) and post them with Solve:
//
//	s := clp.NewSolver()
//	x := s.NewVar("X")
//	err := s.Solve(ctx, clp.Union(x, clp.SetOf(1), clp.SetOf(1, 2)))
//
// Propagation repeatedly picks an unsolved atomic constraint and applies
// the matching rule:
//   - integer constraints narrow the MultiInterval domain of their
//     variables (package interval);
//   - set constraints over integer sets narrow the [glb, lub] bracket of
//     set variables;
//   - set constraints over arbitrary elements, and relation constraints,
//     are rewritten structurally, head element first;
//   - intensional sets (Ris) are expanded lazily, one ground domain
//     element at a time.
//
// Non-deterministic rules push a choice point before committing to an
// alternative. A local failure (ErrFailure) restores the most recent
// choice point; when none is left the search fails with
// ErrUnsatisfiable. NextSolution resumes the search to enumerate further
// solutions.
//
// At a fixpoint the solver rewrites inequalities that involve set
// operands, forces the expansion of pending intensional sets and, if
// Config.FinalLabeling is set, enumerates the remaining integer and set
// variables. The constraints left unsolved are returned by Residual.
package clp
