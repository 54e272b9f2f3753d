package clp

//go:generate mockgen -source tracer.go -destination tracer_mock.go -package clp

// EventKind classifies search events reported to a Tracer.
type EventKind uint8

const (
	// EventChoicePoint is reported when a choice point is pushed.
	EventChoicePoint EventKind = iota
	// EventBacktrack is reported when a choice point is popped.
	EventBacktrack
	// EventSolution is reported when propagation reaches a solution.
	EventSolution
)

func (k EventKind) String() string {
	switch k {
	case EventChoicePoint:
		return "choice-point"
	case EventBacktrack:
		return "backtrack"
	case EventSolution:
		return "solution"
	default:
		return "unknown"
	}
}

// Event describes a search position. Constraint is the atomic that
// opened the choice point, or nil for backtracks and solutions.
type Event struct {
	Kind       EventKind
	Depth      int
	Constraint *Atomic
}

// Tracer observes the search of a Solver.
type Tracer interface {
	Trace(e Event)
}
