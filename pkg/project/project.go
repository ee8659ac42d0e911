package project

import (
	"github.com/pgerd/pgerd/pkg/schema"
)

type (
	// Project is one migrations source tree rooted at a directory.
	Project struct {
		root string
	}
)

// New creates a Project rooted at path. The directory is not touched
// until migrations are collected.
func New(path string) *Project {
	return &Project{root: path}
}

// Root returns the project root directory.
func (p *Project) Root() string {
	return p.root
}

// Migrations collects every .sql file under the project root.
func (p *Project) Migrations() (*MigrationSet, error) {
	return CollectMigrations(p.root)
}

// Snapshot collects the project's migrations and replays them into a
// frozen schema snapshot.
func (p *Project) Snapshot() (*schema.Snapshot, error) {
	ms, err := p.Migrations()
	if err != nil {
		return nil, err
	}
	return ms.Snapshot()
}
