package graph

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type (
	// Override declares a relationship the migrations never state as a
	// foreign key: a referencing table and columns pointing at a
	// referenced table. Implicit relationships (application-level joins,
	// polymorphic references) enter the diagram this way.
	Override struct {
		Table      string   `yaml:"table"`
		Columns    []string `yaml:"columns"`
		RefTable   string   `yaml:"ref_table"`
		RefColumns []string `yaml:"ref_columns"`
	}

	overridesFile struct {
		Relationships []Override `yaml:"relationships"`
	}
)

// LoadOverrides parses override relationships from YAML.
//
// Example input:
//
//	relationships:
//	  - table: orders
//	    columns: [user_id]
//	    ref_table: users
//	    ref_columns: [id]
func LoadOverrides(r io.Reader) ([]Override, error) {
	var f overridesFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal overrides")
	}

	return f.Relationships, nil
}

// LoadOverridesFile loads override relationships from the specified file
// path. This is a convenience function that opens the file and calls
// LoadOverrides.
func LoadOverridesFile(path string) ([]Override, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer func() { _ = f.Close() }()

	return LoadOverrides(f)
}
