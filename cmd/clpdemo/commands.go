package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/gitrdm/gokanset/internal/parallel"
)

var SetsCmd = cli.Command{
	Action: func(c *cli.Context) error { return runDemo(c, "sets", partitions) },
	Name:   "sets",
	Usage:  "Enumerate set partitions and set unification solutions",
}

var RelationsCmd = cli.Command{
	Action: func(c *cli.Context) error { return runDemo(c, "relations", family) },
	Name:   "relations",
	Usage:  "Derive relations by composition, inverse and domain",
}

var RisCmd = cli.Command{
	Action: func(c *cli.Context) error { return runDemo(c, "ris", squares) },
	Name:   "ris",
	Usage:  "Query and expand an intensional set",
}

func queensFlag() cli.Flag {
	return &cli.IntFlag{
		Name:  "n",
		Usage: "board size",
		Value: 6,
	}
}

var QueensCmd = cli.Command{
	Action: func(c *cli.Context) error { return runDemo(c, "queens", queens(c.Int("n"))) },
	Name:   "queens",
	Usage:  "Count the solutions of the n-queens puzzle",
	Flags:  []cli.Flag{queensFlag()},
}

var AllCmd = cli.Command{
	Action: doAll,
	Name:   "all",
	Usage:  "Run every demo, each on its own solver",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "jobs",
			Usage: "number of demos run simultaneously",
			Value: runtime.NumCPU(),
		},
		queensFlag(),
	},
}

func runDemo(c *cli.Context, name string, d demo) error {
	return execute(c.Context, c, name, d, os.Stdout)
}

func execute(ctx context.Context, c *cli.Context, name string, d demo, w io.Writer) error {
	s, err := newSolver(c)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "== %s\n", name)
	start := time.Now()
	if err := d(ctx, s, w); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if c.Bool("stats") {
		printStats(w, s.Stats(), time.Since(start))
	}
	return nil
}

func doAll(c *cli.Context) error {
	names := []string{"sets", "relations", "ris", "queens"}
	demos := []demo{partitions, family, squares, queens(c.Int("n"))}

	outputs := make([]bytes.Buffer, len(demos))
	jobs := make([]parallel.Job, len(demos))
	for i := range demos {
		i := i
		jobs[i] = func(ctx context.Context) error {
			return execute(ctx, c, names[i], demos[i], &outputs[i])
		}
	}

	err := parallel.RunAll(c.Context, c.Int("jobs"), jobs)
	for i := range outputs {
		os.Stdout.Write(outputs[i].Bytes())
	}
	return err
}
