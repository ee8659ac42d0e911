// Package cmd wires the pgerd command line interface.
//
// Commands are plain urfave/cli commands provided to the root command
// through an fx value group, so each one declares its dependencies as
// constructor arguments and stays independently testable.
//
// Available commands:
//
//   - generate: build a draw.io ER diagram from migration files, with an
//     optional watch mode that regenerates on change
//   - compare: report drift between migrations and an existing diagram
//   - stats: summarize the schema derived from migration files
//
// The root command resolves configuration before any subcommand runs:
// built-in defaults, then pgerd.yaml from the project directory, then
// command line flags.
package cmd
