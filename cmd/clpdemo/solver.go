package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dsnet/golib/unitconv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/gitrdm/gokanset/pkg/clp"
)

var solverFlags = []cli.Flag{
	&cli.Uint64Flag{
		Name:  "seed",
		Usage: "seed for the random value heuristic",
		Value: 1,
	},
	&cli.StringFlag{
		Name:  "heuristic",
		Usage: "value heuristic used by labeling (min, max, mid, random)",
		Value: "min",
	},
	&cli.BoolFlag{
		Name:  "first-fail",
		Usage: "label the variable with the smallest domain first",
	},
	&cli.BoolFlag{
		Name:  "fast-comp",
		Usage: "solve relation composition through the subset decomposition",
	},
	&cli.IntFlag{
		Name:  "max-steps",
		Usage: "aborts a search after the given number of propagation steps, 0 for no limit",
		Value: clp.DefaultConfig().MaxSteps,
	},
	&cli.BoolFlag{
		Name:  "verbose",
		Usage: "log solver internals",
	},
	&cli.BoolFlag{
		Name:  "stats",
		Usage: "print search statistics after each demo",
	},
}

// newSolver builds a solver from the command line flags.
func newSolver(c *cli.Context) (*clp.Solver, error) {
	h, err := clp.ParseValueHeuristic(c.String("heuristic"))
	if err != nil {
		return nil, err
	}
	cfg := clp.DefaultConfig()
	cfg.ValueHeuristic = h
	cfg.RandomSeed = c.Uint64("seed")
	cfg.FastComposition = c.Bool("fast-comp")
	cfg.MaxSteps = c.Int("max-steps")
	if c.Bool("first-fail") {
		cfg.VarHeuristic = clp.VarFirstFail
	}

	s, err := clp.NewSolverWithConfig(cfg)
	if err != nil {
		return nil, err
	}
	if c.Bool("verbose") {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("creating logger: %w", err)
		}
		s.SetLogger(logger)
	}
	return s, nil
}

func printStats(w io.Writer, st clp.Stats, elapsed time.Duration) {
	rate := float64(st.Steps) / elapsed.Seconds()
	fmt.Fprintf(w, "  [%s] %s steps/s, %d choice points, %d backtracks, %d expansions\n",
		elapsed.Round(time.Microsecond),
		unitconv.FormatPrefix(rate, unitconv.SI, 0),
		st.ChoicePoints, st.Backtracks, st.Expansions,
	)
}
