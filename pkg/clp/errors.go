package clp

import (
	"errors"
	"fmt"
)

var (
	// ErrFailure signals a local failure: some rule found an empty domain
	// or a value mismatch. It is intercepted by the solver, which
	// backtracks to the most recent choice point.
	ErrFailure = errors.New("clp: failure")

	// ErrUnsatisfiable is the global failure returned by Solve and
	// NextSolution when no (further) solution exists.
	ErrUnsatisfiable = errors.New("clp: unsatisfiable")

	// ErrStepLimit is returned when propagation exceeds Config.MaxSteps.
	ErrStepLimit = errors.New("clp: step limit exceeded")

	// errExhausted is raised by backtrack when the choice point stack is
	// empty; callers promote it to ErrUnsatisfiable.
	errExhausted = errors.New("clp: no choice points left")
)

// ContractError reports misuse of the API, such as an unsupported
// heuristic or reading the value of an unbound variable. Contract errors
// are never caught by backtracking.
type ContractError struct {
	Op  string
	Msg string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("clp: %s: %s", e.Op, e.Msg)
}

func contractf(op, format string, args ...any) *ContractError {
	return &ContractError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// IsFailure reports whether err is a local failure.
func IsFailure(err error) bool {
	return errors.Is(err, ErrFailure)
}
