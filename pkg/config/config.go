package config

import (
	"io"
	"os"

	"github.com/pgerd/pgerd/pkg/consts"
	"github.com/pgerd/pgerd/pkg/layout"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type (
	// Config represents the project configuration for diagram generation.
	//
	// Every field has a usable default, so a project needs a pgerd.yaml only
	// when it wants to deviate from them. Command line flags take precedence
	// over values configured here.
	Config struct {
		// Migrations specifies the directory migration files are read from.
		// The directory is walked recursively and files apply in ascending
		// path order.
		Migrations string `yaml:"migrations"`

		// Out specifies the path of the draw.io file to write. It also
		// serves as the default diagram path for drift comparison.
		Out string `yaml:"out"`

		// Overrides names a YAML file declaring relationships the
		// migrations do not express as foreign key constraints.
		Overrides string `yaml:"overrides,omitempty"`

		// ShowTypes renders column types next to column names in the
		// generated diagram.
		ShowTypes bool `yaml:"show_types,omitempty"`

		// Layout tunes the diagram grid geometry. Keys left unset keep
		// their defaults, so partial overrides are fine.
		Layout layout.Config `yaml:"layout"`
	}
)

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Migrations: consts.DefaultMigrationsDir,
		Out:        consts.DefaultOutFile,
		Layout:     layout.DefaultConfig(),
	}
}

// LoadConfig parses a project configuration from the provided io.Reader.
//
// The function expects YAML-formatted configuration data. Values the
// document does not set keep their defaults, including individual layout
// keys. An empty document yields the default configuration.
//
// Example:
//
//	yamlData := `
//	migrations: db/migrations
//	out: docs/schema.drawio
//	layout:
//	  per_row: 4
//	`
//
//	cfg, err := config.LoadConfig(strings.NewReader(yamlData))
//	if err != nil {
//		panic(err)
//	}
//
//	fmt.Printf("Reading migrations from: %s\n", cfg.Migrations)
func LoadConfig(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := yaml.NewDecoder(r).Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return Default(), nil
		}
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	// Explicit empty strings fall back to defaults as well
	if cfg.Migrations == "" {
		cfg.Migrations = consts.DefaultMigrationsDir
	}
	if cfg.Out == "" {
		cfg.Out = consts.DefaultOutFile
	}

	return cfg, nil
}

// LoadConfigFile loads a project configuration from the specified file path.
// This is a convenience function that opens the file and calls LoadConfig.
//
// Example:
//
//	cfg, err := config.LoadConfigFile("pgerd.yaml")
//	if err != nil {
//		log.Fatal("Failed to load config:", err)
//	}
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer func() { _ = f.Close() }()

	return LoadConfig(f)
}
