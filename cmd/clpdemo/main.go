// Command clpdemo runs small constraint programs over integers, finite
// sets and binary relations and prints their solutions.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "clpdemo",
		Usage: "Set and relation constraint solving demos",
		Flags: solverFlags,
		Commands: []*cli.Command{
			&SetsCmd,
			&RelationsCmd,
			&RisCmd,
			&QueensCmd,
			&AllCmd,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
