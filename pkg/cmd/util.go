package cmd

import (
	"log/slog"

	"github.com/pgerd/pgerd/pkg/schema"
)

// logWarnings reports schema anomalies without interrupting the run.
func logWarnings(warnings []schema.Warning) {
	for _, w := range warnings {
		slog.Warn(w.String())
	}
}
