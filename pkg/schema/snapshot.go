package schema

import (
	"fmt"
	"sort"
	"strings"
)

type (
	// Snapshot is the complete schema state at a point in the statement
	// application sequence. One snapshot is created per run and threaded
	// through every applied statement; downstream consumers receive it
	// frozen and must not mutate it.
	Snapshot struct {
		tables   map[Identifier]*Table
		indexes  map[string]*Index // keyed by lowercased name, one namespace for the whole schema
		pending  []*pendingFK
		warnings []Warning
		frozen   bool
	}

	// pendingFK is a foreign key waiting for its target table, with enough
	// context to warn usefully if the target never appears.
	pendingFK struct {
		table *Table
		fk    *ForeignKey
		file  string
		stmt  string
	}
)

// NewSnapshot returns an empty snapshot ready to apply migrations.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		tables:  make(map[Identifier]*Table),
		indexes: make(map[string]*Index),
	}
}

// Table returns the table registered under the identifier, or nil.
func (s *Snapshot) Table(id Identifier) *Table {
	return s.tables[id]
}

// Tables returns every table, sorted by identifier.
func (s *Snapshot) Tables() []*Table {
	out := make([]*Table, 0, len(s.tables))
	for _, t := range s.tables {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Index returns the index registered under the name, matching
// case-insensitively, or nil.
func (s *Snapshot) Index(name string) *Index {
	return s.indexes[strings.ToLower(name)]
}

// Indexes returns every index, sorted by name.
func (s *Snapshot) Indexes() []*Index {
	out := make([]*Index, 0, len(s.indexes))
	for _, idx := range s.indexes {
		out = append(out, idx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// TableIndexes returns the indexes owned by one table, sorted by name.
func (s *Snapshot) TableIndexes(id Identifier) []*Index {
	var out []*Index
	for _, idx := range s.indexes {
		if idx.Table == id {
			out = append(out, idx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Empty reports whether the snapshot contains no tables.
func (s *Snapshot) Empty() bool {
	return len(s.tables) == 0
}

// Warnings returns every warning recorded so far, in emission order.
func (s *Snapshot) Warnings() []Warning {
	return s.warnings
}

// Frozen reports whether Freeze has run.
func (s *Snapshot) Frozen() bool {
	return s.frozen
}

// Freeze runs the final foreign key resolution pass, drops keys that are
// still unresolved (their local columns stay on their tables), defaults
// empty reference column lists to the target's primary key, and marks
// the snapshot final. Apply must not be called afterwards.
func (s *Snapshot) Freeze() {
	if s.frozen {
		return
	}

	s.resolvePending()
	for _, p := range s.pending {
		p.table.removeForeignKey(p.fk)
		s.warnf(WarningUnresolvedReference, p.file, p.stmt,
			"foreign key %s on %s references unknown table %s", p.fk.Name, p.table.Name, p.fk.RefTable)
	}
	s.pending = nil

	for _, t := range s.tables {
		for _, fk := range t.ForeignKeys {
			if len(fk.RefColumns) > 0 {
				continue
			}
			if target := s.tables[fk.RefTable]; target != nil && target.PrimaryKey != nil {
				fk.RefColumns = append([]string(nil), target.PrimaryKey.Columns...)
			}
		}
	}
	s.frozen = true
}

// renameTable re-keys the table and rewrites every foreign key and index
// in the snapshot that references the old identifier. This is the one
// mutation with cross-table fan-out.
func (s *Snapshot) renameTable(from, to Identifier) {
	t := s.tables[from]
	delete(s.tables, from)
	t.Name = to
	s.tables[to] = t

	for _, other := range s.tables {
		for _, fk := range other.ForeignKeys {
			if fk.RefTable == from {
				fk.RefTable = to
			}
		}
	}
	for _, idx := range s.indexes {
		if idx.Table == from {
			idx.Table = to
		}
	}

	s.resolvePending()
}

// dropTable removes the table and scrubs every reference to it: foreign
// keys elsewhere targeting it, its own pending foreign keys, and its
// indexes. No dangling reference survives a drop.
func (s *Snapshot) dropTable(id Identifier) {
	t := s.tables[id]
	delete(s.tables, id)

	for _, other := range s.tables {
		var kept []*ForeignKey
		for _, fk := range other.ForeignKeys {
			if fk.RefTable != id {
				kept = append(kept, fk)
			}
		}
		other.ForeignKeys = kept
	}

	for name, idx := range s.indexes {
		if idx.Table == id {
			delete(s.indexes, name)
		}
	}

	var pending []*pendingFK
	for _, p := range s.pending {
		if p.table != t {
			pending = append(pending, p)
		}
	}
	s.pending = pending
}

// indexName builds a system-assigned index name from the table and
// element names, appending a numeric suffix until it clears the global
// namespace.
func (s *Snapshot) indexName(table Identifier, elements []string) string {
	var columns []string
	for _, el := range elements {
		if ident := leadingIdent(el); ident != "" {
			columns = append(columns, ident)
		}
	}

	base := autoName(table, columns, "_idx")
	name := base
	for n := 1; s.Index(name) != nil; n++ {
		name = fmt.Sprintf("%s%d", base, n)
	}
	return name
}

func (s *Snapshot) warnf(kind WarningKind, file, stmt, format string, args ...any) {
	s.warnings = append(s.warnings, Warning{
		Kind:      kind,
		File:      file,
		Statement: stmt,
		Reason:    fmt.Sprintf(format, args...),
	})
}
