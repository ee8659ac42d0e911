package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pgerd/pgerd/pkg/config"
	"github.com/pgerd/pgerd/pkg/project"
	"github.com/urfave/cli/v3"
)

// stats creates the CLI command that prints a per table summary of the
// schema the migrations produce.
func stats(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Summarize the schema derived from migration files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "migrations",
				Aliases: []string{"m"},
				Usage:   "directory of ordered .sql migration files",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			migrations := cfg.Migrations
			if dir := cmd.String("migrations"); dir != "" {
				migrations = dir
			}

			snap, err := project.New(migrations).Snapshot()
			if err != nil {
				return err
			}
			logWarnings(snap.Warnings())

			if snap.Empty() {
				return cli.Exit("No tables detected. Check your migration path or SQL dialect support.", 1)
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(cmd.Writer)
			tw.SetStyle(table.StyleLight)
			tw.AppendHeader(table.Row{"Table", "Columns", "Primary Key", "FKs", "Indexes"})

			tables := snap.Tables()
			for _, tbl := range tables {
				pk := "-"
				if tbl.PrimaryKey != nil {
					pk = strings.Join(tbl.PrimaryKey.Columns, ", ")
				}

				tw.AppendRow(table.Row{
					tbl.Name.String(),
					len(tbl.Columns),
					pk,
					len(tbl.ForeignKeys),
					len(snap.TableIndexes(tbl.Name)),
				})
			}

			tw.Render()
			fmt.Fprintf(cmd.Writer, "(%d tables)\n", len(tables))
			return nil
		},
	}
}
