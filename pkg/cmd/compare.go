package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/pgerd/pgerd/pkg/config"
	"github.com/pgerd/pgerd/pkg/consts"
	"github.com/pgerd/pgerd/pkg/drawio"
	"github.com/pgerd/pgerd/pkg/project"
	"github.com/pgerd/pgerd/pkg/schemadiff"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
)

// compare creates the CLI command that reports drift between the schema
// described by migration files and an existing draw.io diagram. The run
// exits nonzero when any drift is found, so CI can gate on it.
func compare(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "compare",
		Usage: "Report drift between migrations and an existing diagram",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "migrations",
				Aliases: []string{"m"},
				Usage:   "directory of ordered .sql migration files",
			},
			&cli.StringFlag{
				Name:  "diagram",
				Usage: "the .drawio file to compare against",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "write the report to a file instead of stdout",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			migrations := cfg.Migrations
			if dir := cmd.String("migrations"); dir != "" {
				migrations = dir
			}

			// The configured output diagram is the natural comparison
			// target when none is named
			diagramPath := cfg.Out
			if path := cmd.String("diagram"); path != "" {
				diagramPath = path
			}

			// 1. Replay migrations into a snapshot
			snap, err := project.New(migrations).Snapshot()
			if err != nil {
				return err
			}
			logWarnings(snap.Warnings())

			// 2. Parse the diagram under comparison
			diagram, err := drawio.ParseFile(diagramPath)
			if err != nil {
				return err
			}

			// 3. Summarize both sides and report the difference
			report := schemadiff.Compare(
				schemadiff.SummarizeSnapshot(snap),
				schemadiff.SummarizeDiagram(diagram),
			)

			if out := cmd.String("out"); out != "" {
				if err := os.WriteFile(out, []byte(report.String()), consts.ModeFile); err != nil {
					return errors.Wrapf(err, "failed to write report: %s", out)
				}
				fmt.Fprintf(cmd.Writer, "Report written to %s\n", out)
			} else {
				fmt.Fprint(cmd.Writer, report.String())
			}

			if report.HasDrift() {
				return cli.Exit("", 1)
			}

			return nil
		},
	}
}
