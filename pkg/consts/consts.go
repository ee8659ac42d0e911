package consts

import "os"

const (
	// ModeDir is the standard file mode for creating directories
	ModeDir = os.FileMode(0o755)

	// ModeFile is the standard file mode for creating files
	ModeFile = os.FileMode(0o644)

	// DefaultConfigFile is the config file commands look for in the working directory
	DefaultConfigFile = "pgerd.yaml"

	// DefaultMigrationsDir is the migrations directory used when neither flag nor config names one
	DefaultMigrationsDir = "migrations"

	// DefaultOutFile is the diagram path written when neither flag nor config names one
	DefaultOutFile = "schema.drawio"
)
