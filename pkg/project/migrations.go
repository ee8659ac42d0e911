package project

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pkg/errors"

	"github.com/pgerd/pgerd/pkg/schema"
)

type (
	// MigrationSet is the ordered list of migration files under one
	// root. Order is ascending full-path order, which is also the order
	// the files are applied in.
	MigrationSet struct {
		root  string
		files []string
	}
)

// CollectMigrations walks dir recursively and collects every file with
// a .sql suffix, sorted by path.
func CollectMigrations(dir string) (*MigrationSet, error) {
	ms := &MigrationSet{root: dir}
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			return nil
		}
		ms.files = append(ms.files, path)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read migrations dir: %s", dir)
	}

	slices.Sort(ms.files)
	return ms, nil
}

// Files returns the migration file paths in application order.
func (ms *MigrationSet) Files() []string {
	return ms.files
}

// Empty reports whether the set holds no migration files.
func (ms *MigrationSet) Empty() bool {
	return len(ms.files) == 0
}

// Snapshot replays every migration file, in order, into a fresh
// snapshot and freezes it. A file that cannot be read aborts the run.
func (ms *MigrationSet) Snapshot() (*schema.Snapshot, error) {
	snap := schema.NewSnapshot()
	for _, path := range ms.files {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read migration file: %s", path)
		}
		if err := snap.Apply(ms.displayName(path), string(content)); err != nil {
			return nil, err
		}
	}

	snap.Freeze()
	return snap, nil
}

// displayName is the path recorded in warnings: relative to the root
// when possible, so reports read the same regardless of where the tool
// ran from.
func (ms *MigrationSet) displayName(path string) string {
	rel, err := filepath.Rel(ms.root, path)
	if err != nil {
		return path
	}
	return rel
}
