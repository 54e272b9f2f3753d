package clp

// ValueHeuristic selects the order in which labeling tries the values of
// an integer variable.
type ValueHeuristic int

const (
	// ValueMin tries the smallest value first.
	ValueMin ValueHeuristic = iota
	// ValueMax tries the largest value first.
	ValueMax
	// ValueMid tries the value closest to the middle of the domain first.
	ValueMid
	// ValueRandom tries a pseudo-random value first, drawn from a generator
	// seeded with Config.RandomSeed.
	ValueRandom
)

func (h ValueHeuristic) String() string {
	switch h {
	case ValueMin:
		return "min"
	case ValueMax:
		return "max"
	case ValueMid:
		return "mid"
	case ValueRandom:
		return "random"
	default:
		return "unknown"
	}
}

// ParseValueHeuristic maps a heuristic name back to its value.
func ParseValueHeuristic(name string) (ValueHeuristic, error) {
	for h := ValueMin; h <= ValueRandom; h++ {
		if h.String() == name {
			return h, nil
		}
	}
	return 0, contractf("ParseValueHeuristic", "unsupported value heuristic %q", name)
}

// VarHeuristic selects which variable final labeling enumerates next.
type VarHeuristic int

const (
	// VarInputOrder labels variables in order of first occurrence.
	VarInputOrder VarHeuristic = iota
	// VarFirstFail labels the variable with the smallest domain first.
	VarFirstFail
)

// Config holds solver configuration.
type Config struct {
	// MaxSteps bounds the number of atomic propagation steps of a single
	// Solve or NextSolution call. Zero means unbounded.
	MaxSteps int

	// FinalLabeling enumerates the integer and set variables left unbound
	// in irreducible constraints once propagation reaches a fixpoint, so
	// that every solution is consistent.
	FinalLabeling bool

	// FastComposition solves comp(R, S, T) as compSubset plus subsetComp
	// instead of the head/tail recursion on R.
	FastComposition bool

	ValueHeuristic ValueHeuristic
	VarHeuristic   VarHeuristic

	// IncludeFirst makes set labeling try "element included" before
	// "element excluded".
	IncludeFirst bool

	// RandomSeed seeds ValueRandom.
	RandomSeed uint64

	// RisCacheSize is the number of memoized RIS expansions. Zero disables
	// the cache.
	RisCacheSize int
}

// DefaultConfig returns the configuration used by NewSolver.
func DefaultConfig() *Config {
	return &Config{
		MaxSteps:       1_000_000,
		FinalLabeling:  true,
		ValueHeuristic: ValueMin,
		VarHeuristic:   VarInputOrder,
		IncludeFirst:   true,
		RandomSeed:     1,
		RisCacheSize:   256,
	}
}

func (c *Config) validate() error {
	switch c.ValueHeuristic {
	case ValueMin, ValueMax, ValueMid, ValueRandom:
	default:
		return contractf("Config", "unsupported value heuristic %d", c.ValueHeuristic)
	}
	switch c.VarHeuristic {
	case VarInputOrder, VarFirstFail:
	default:
		return contractf("Config", "unsupported variable heuristic %d", c.VarHeuristic)
	}
	if c.MaxSteps < 0 || c.RisCacheSize < 0 {
		return contractf("Config", "negative limit")
	}
	return nil
}
