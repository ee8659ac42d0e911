package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/pgerd/pgerd/pkg/config"
	"github.com/pgerd/pgerd/pkg/consts"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type (
	Params struct {
		fx.In

		Args       []string
		Commands   []*cli.Command `group:"commands"`
		Config     *config.Config
		Ctx        context.Context
		Lifecycle  fx.Lifecycle
		Shutdowner fx.Shutdowner
		Version    *Version
	}

	Version struct {
		Version   string
		Commit    string
		Timestamp string
	}
)

// Run creates and executes the main pgerd CLI application. This function
// serves as the entry point for all CLI operations and handles global
// configuration.
//
// Global Flags:
//   - --dir, -d: Project directory (defaults to current directory)
//   - --config, -c: Config file path (defaults to pgerd.yaml)
//
// The application resolves configuration before dispatching to a
// subcommand: it changes into the project directory, then loads the
// config file when one exists. Commands see the result through the
// shared *config.Config, and their own flags still win over it.
//
// The command runs inside the fx lifecycle: a start hook launches it and
// the outcome is translated into the process exit code through the
// Shutdowner.
func Run(p Params) {
	cli.VersionPrinter = func(cmd *cli.Command) {
		fmt.Fprintln(cmd.Writer, "Version:", p.Version.Version)
		fmt.Fprintln(cmd.Writer, "Commit:", p.Version.Commit)
		fmt.Fprintln(cmd.Writer, "Date:", p.Version.Timestamp)
	}

	app := &cli.Command{
		Name:  "pgerd",
		Usage: "Generate draw.io ER diagrams from PostgreSQL migration files",
		Description: `pgerd reads a directory of ordered migration files, replays them to
rebuild the schema they produce, and renders the result as a draw.io
entity relationship diagram. No database connection is involved; the
migrations themselves are the source of truth.`,
		Version: p.Version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "dir",
				Aliases:     []string{"d"},
				Usage:       "the project directory",
				Value:       ".",
				DefaultText: "Current directory",
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "the project config file",
				Value:   consts.DefaultConfigFile,
				Sources: cli.EnvVars("PGERD_CONFIG"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			// Change to project directory first
			if err := os.Chdir(cmd.String("dir")); err != nil {
				return ctx, err
			}

			// An explicitly named config file must exist
			if cmd.IsSet("config") {
				loaded, err := config.LoadConfigFile(cmd.String("config"))
				if err != nil {
					return ctx, err
				}

				*p.Config = *loaded
				return ctx, nil
			}

			// Otherwise pick up pgerd.yaml when the project has one
			if _, err := os.Stat(consts.DefaultConfigFile); err != nil {
				if os.IsNotExist(err) {
					return ctx, nil
				}

				return ctx, err
			}

			loaded, err := config.LoadConfigFile(consts.DefaultConfigFile)
			if err != nil {
				return ctx, err
			}

			*p.Config = *loaded
			return ctx, nil
		},
		Commands: p.Commands,
	}

	// The hook only launches the command so that long-running modes like
	// generate --watch do not trip the fx start timeout.
	p.Lifecycle.Append(fx.StartHook(func() {
		go func() {
			code := 0
			if err := app.Run(p.Ctx, p.Args); err != nil {
				code = 1

				var coder cli.ExitCoder
				if errors.As(err, &coder) {
					code = coder.ExitCode()
				} else {
					slog.Error("Error running command", "err", err)
				}
			}

			_ = p.Shutdowner.Shutdown(fx.ExitCode(code))
		}()
	}))
}
