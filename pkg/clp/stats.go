package clp

import "fmt"

// Stats holds counters about the search performed by a Solver.
type Stats struct {
	Steps        int // atomic constraint propagations
	ChoicePoints int // choice points pushed
	Backtracks   int // choice points popped
	Solutions    int // solutions reached
	Expansions   int // RIS expansion steps
	Forks        int // disposable solver copies (tests, checks, setof)
	MaxDepth     int // peak choice point stack depth
}

func (st Stats) String() string {
	return fmt.Sprintf("steps=%d choice-points=%d backtracks=%d solutions=%d expansions=%d forks=%d max-depth=%d",
		st.Steps, st.ChoicePoints, st.Backtracks, st.Solutions, st.Expansions, st.Forks, st.MaxDepth)
}

// Stats returns a copy of the solver's counters.
func (s *Solver) Stats() Stats {
	return s.stats
}
