package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pgerd/pgerd/pkg/config"
	"github.com/pgerd/pgerd/pkg/consts"
	"github.com/pgerd/pgerd/pkg/drawio"
	"github.com/pgerd/pgerd/pkg/graph"
	"github.com/pgerd/pgerd/pkg/layout"
	"github.com/pgerd/pgerd/pkg/project"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
)

// generateOpts is the effective input for one generation pass, after
// merging configuration with command line flags.
type generateOpts struct {
	migrations string
	out        string
	overrides  string
	showTypes  bool
	layout     layout.Config
}

// generate creates the CLI command that renders migration files into a
// draw.io ER diagram.
func generate(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Generate a draw.io ER diagram from migration files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "migrations",
				Aliases: []string{"m"},
				Usage:   "directory of ordered .sql migration files",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "path of the .drawio file to write",
			},
			&cli.StringFlag{
				Name:  "overrides",
				Usage: "YAML file declaring relationships not expressed as constraints",
			},
			&cli.IntFlag{
				Name:  "per-row",
				Usage: "fixed number of tables per row (default groups by relationship depth)",
			},
			&cli.BoolFlag{
				Name:  "show-types",
				Usage: "render column types next to column names",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "stay running and regenerate whenever inputs change",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts := newGenerateOpts(cfg, cmd)
			if cmd.Bool("watch") {
				return watch(ctx, cmd.Writer, opts)
			}

			return runGenerate(cmd.Writer, opts)
		},
	}
}

// newGenerateOpts merges config values with command line flags. Flags win.
func newGenerateOpts(cfg *config.Config, cmd *cli.Command) generateOpts {
	opts := generateOpts{
		migrations: cfg.Migrations,
		out:        cfg.Out,
		overrides:  cfg.Overrides,
		showTypes:  cfg.ShowTypes || cmd.Bool("show-types"),
		layout:     cfg.Layout,
	}

	if dir := cmd.String("migrations"); dir != "" {
		opts.migrations = dir
	}
	if out := cmd.String("out"); out != "" {
		opts.out = out
	}
	if path := cmd.String("overrides"); path != "" {
		opts.overrides = path
	}
	if perRow := int(cmd.Int("per-row")); perRow > 0 {
		opts.layout.PerRow = perRow
	}

	return opts
}

// runGenerate performs one full pass: replay migrations, build the
// relationship graph, plan the grid, render the XML, and write it out.
func runGenerate(w io.Writer, opts generateOpts) error {
	// 1. Replay migrations into a frozen snapshot
	snap, err := project.New(opts.migrations).Snapshot()
	if err != nil {
		return err
	}
	logWarnings(snap.Warnings())

	if snap.Empty() {
		return cli.Exit("No tables detected. Check your migration path or SQL dialect support.", 1)
	}

	// 2. Build the relationship graph, including declared overrides
	var overrides []graph.Override
	if opts.overrides != "" {
		if overrides, err = graph.LoadOverridesFile(opts.overrides); err != nil {
			return err
		}
	}

	g, warnings := graph.Build(snap, overrides)
	logWarnings(warnings)

	// 3. Plan the grid and render the document
	placements, warnings := layout.Plan(snap, g, opts.layout)
	logWarnings(warnings)

	out, err := drawio.Render(placements, g, drawio.Options{
		ShowTypes: opts.showTypes,
		Layout:    opts.layout,
	})
	if err != nil {
		return err
	}

	// 4. Write the diagram, creating parent directories as needed
	if dir := filepath.Dir(opts.out); dir != "." {
		if err := os.MkdirAll(dir, consts.ModeDir); err != nil {
			return errors.Wrapf(err, "failed to create output dir: %s", dir)
		}
	}

	if err := os.WriteFile(opts.out, out, consts.ModeFile); err != nil {
		return errors.Wrapf(err, "failed to write diagram: %s", opts.out)
	}

	fmt.Fprintf(w, "Diagram written to %s\n", opts.out)
	return nil
}
