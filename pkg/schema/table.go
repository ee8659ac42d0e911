package schema

import (
	"strconv"
	"strings"
)

const (
	// FKPending marks a foreign key whose target table has not been seen
	// yet. Pending keys are retried as tables appear and dropped with a
	// warning if still unresolved when the snapshot freezes.
	FKPending FKState = "pending"
	// FKResolved marks a foreign key whose target table exists in the
	// snapshot.
	FKResolved FKState = "resolved"
)

type (
	// Table is one database table tracked by the snapshot: an ordered
	// column list plus the constraint metadata the diagram renders. Column
	// order is declaration order and determines row order in the output.
	//
	// Mutations that stay within one table live here; anything with cross
	// table fan-out (renames, drops, foreign key resolution) goes through
	// the Snapshot so the bookkeeping stays consistent.
	Table struct {
		Name        Identifier
		Columns     []*Column
		PrimaryKey  *PrimaryKey // nil when the table has no primary key
		Uniques     []*UniqueConstraint
		ForeignKeys []*ForeignKey
	}

	// Column is a single table column. Type is the declared type as raw
	// text; the engine never interprets it.
	Column struct {
		Name    string
		Type    string
		NotNull bool
	}

	// PrimaryKey is a table's primary key: an ordered column list under a
	// constraint name handle. A table has at most one; redeclaring it
	// replaces the previous key.
	PrimaryKey struct {
		Name    string
		Columns []string
	}

	// UniqueConstraint is one UNIQUE constraint over an ordered column
	// list.
	UniqueConstraint struct {
		Name    string
		Columns []string
	}

	// ForeignKey links an ordered local column list to a target table and
	// column list. The name is the handle for DROP CONSTRAINT and RENAME
	// CONSTRAINT, system assigned when the declaration had none.
	ForeignKey struct {
		Name       string
		Columns    []string
		RefTable   Identifier
		RefColumns []string // empty until resolution when the declaration named none
		State      FKState
	}

	// FKState is the resolution state of a foreign key.
	FKState string

	// Index is a secondary index. Elements are columns or expressions in
	// canonical text form. Indexes live in a snapshot-wide namespace keyed
	// by name, mirroring the database rule that index names are unique per
	// schema rather than per table.
	Index struct {
		Table    Identifier
		Name     string
		Elements []string
		Unique   bool
		Using    string // access method, empty for the default
		Where    string // partial index predicate, empty for none
	}
)

// Column returns the named column, matching case-insensitively, or nil.
func (t *Table) Column(name string) *Column {
	for _, col := range t.Columns {
		if strings.EqualFold(col.Name, name) {
			return col
		}
	}
	return nil
}

// IsPrimaryKey reports whether the named column is part of the primary
// key.
func (t *Table) IsPrimaryKey(name string) bool {
	return t.PrimaryKey != nil && containsFold(t.PrimaryKey.Columns, name)
}

// IsForeignKey reports whether the named column appears in any foreign
// key's local column list.
func (t *Table) IsForeignKey(name string) bool {
	for _, fk := range t.ForeignKeys {
		if containsFold(fk.Columns, name) {
			return true
		}
	}
	return false
}

// addColumn appends a column, or overwrites the definition in place when
// a column with the same name exists, keeping its position.
func (t *Table) addColumn(col *Column) {
	if existing := t.Column(col.Name); existing != nil {
		*existing = *col
		return
	}
	t.Columns = append(t.Columns, col)
}

// dropColumn removes the named column and scrubs it from the primary key,
// unique constraints, and foreign key column lists. A constraint is
// removed entirely only when its column list becomes empty.
func (t *Table) dropColumn(name string) bool {
	idx := -1
	for i, col := range t.Columns {
		if strings.EqualFold(col.Name, name) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	t.Columns = append(t.Columns[:idx], t.Columns[idx+1:]...)

	if t.PrimaryKey != nil {
		t.PrimaryKey.Columns = removeFold(t.PrimaryKey.Columns, name)
		if len(t.PrimaryKey.Columns) == 0 {
			t.PrimaryKey = nil
		}
	}

	var uniques []*UniqueConstraint
	for _, u := range t.Uniques {
		u.Columns = removeFold(u.Columns, name)
		if len(u.Columns) > 0 {
			uniques = append(uniques, u)
		}
	}
	t.Uniques = uniques

	var fks []*ForeignKey
	for _, fk := range t.ForeignKeys {
		fk.dropLocalColumn(name)
		if len(fk.Columns) > 0 {
			fks = append(fks, fk)
		}
	}
	t.ForeignKeys = fks

	return true
}

// renameColumn rewrites every use of the old column name within the
// table: the column itself, primary key and unique constraint members,
// foreign key local columns, and the target side of self-referencing
// foreign keys. Target rewrites in other tables are the snapshot's job.
func (t *Table) renameColumn(from, to string) bool {
	col := t.Column(from)
	if col == nil {
		return false
	}
	col.Name = to

	if t.PrimaryKey != nil {
		replaceFold(t.PrimaryKey.Columns, from, to)
	}
	for _, u := range t.Uniques {
		replaceFold(u.Columns, from, to)
	}
	for _, fk := range t.ForeignKeys {
		replaceFold(fk.Columns, from, to)
		if fk.RefTable == t.Name {
			replaceFold(fk.RefColumns, from, to)
		}
	}
	return true
}

// setPrimaryKey replaces the table's primary key. Primary key members are
// never nullable, so the named columns are promoted to NOT NULL.
func (t *Table) setPrimaryKey(columns []string, name string) {
	t.PrimaryKey = nil
	if name == "" {
		name = t.constraintName(autoName(t.Name, nil, "_pkey"))
	}
	t.PrimaryKey = &PrimaryKey{Name: name, Columns: columns}
	t.promoteNotNull(columns)
}

// appendPrimaryKey grows the primary key by one column, creating the key
// when the table has none. Inline markers on added columns extend the
// existing key rather than replace it.
func (t *Table) appendPrimaryKey(column, name string) {
	if t.PrimaryKey == nil {
		t.setPrimaryKey([]string{column}, name)
		return
	}
	if !containsFold(t.PrimaryKey.Columns, column) {
		t.PrimaryKey.Columns = append(t.PrimaryKey.Columns, column)
	}
	if name != "" {
		t.PrimaryKey.Name = name
	}
	t.promoteNotNull([]string{column})
}

// addUnique records a unique constraint over the columns. A constraint
// over the same column list is updated in place rather than duplicated.
func (t *Table) addUnique(columns []string, name string) {
	for _, u := range t.Uniques {
		if equalFoldSlices(u.Columns, columns) {
			if name != "" {
				u.Name = name
			}
			return
		}
	}
	if name == "" {
		name = t.constraintName(autoName(t.Name, columns, "_key"))
	}
	t.Uniques = append(t.Uniques, &UniqueConstraint{Name: name, Columns: columns})
}

// dropConstraint removes the named constraint, whichever of the primary
// key, unique constraints, or foreign keys carries it.
func (t *Table) dropConstraint(name string) bool {
	if t.PrimaryKey != nil && strings.EqualFold(t.PrimaryKey.Name, name) {
		t.PrimaryKey = nil
		return true
	}
	for i, u := range t.Uniques {
		if strings.EqualFold(u.Name, name) {
			t.Uniques = append(t.Uniques[:i], t.Uniques[i+1:]...)
			return true
		}
	}
	for i, fk := range t.ForeignKeys {
		if strings.EqualFold(fk.Name, name) {
			t.ForeignKeys = append(t.ForeignKeys[:i], t.ForeignKeys[i+1:]...)
			return true
		}
	}
	return false
}

// renameConstraint renames a constraint's stored name. No structural
// change.
func (t *Table) renameConstraint(from, to string) bool {
	if t.PrimaryKey != nil && strings.EqualFold(t.PrimaryKey.Name, from) {
		t.PrimaryKey.Name = to
		return true
	}
	for _, u := range t.Uniques {
		if strings.EqualFold(u.Name, from) {
			u.Name = to
			return true
		}
	}
	for _, fk := range t.ForeignKeys {
		if strings.EqualFold(fk.Name, from) {
			fk.Name = to
			return true
		}
	}
	return false
}

// hasForeignKey reports whether fk is still one of the table's keys.
func (t *Table) hasForeignKey(fk *ForeignKey) bool {
	for _, have := range t.ForeignKeys {
		if have == fk {
			return true
		}
	}
	return false
}

// removeForeignKey deletes the exact key from the table, if present.
func (t *Table) removeForeignKey(fk *ForeignKey) {
	for i, have := range t.ForeignKeys {
		if have == fk {
			t.ForeignKeys = append(t.ForeignKeys[:i], t.ForeignKeys[i+1:]...)
			return
		}
	}
}

// promoteNotNull marks the named columns NOT NULL.
func (t *Table) promoteNotNull(columns []string) {
	for _, name := range columns {
		if col := t.Column(name); col != nil {
			col.NotNull = true
		}
	}
}

// constraintName returns base, or base with the smallest numeric suffix
// that avoids the table's existing constraint names.
func (t *Table) constraintName(base string) string {
	name := base
	for n := 1; t.hasConstraintName(name); n++ {
		name = base + strconv.Itoa(n)
	}
	return name
}

func (t *Table) hasConstraintName(name string) bool {
	if t.PrimaryKey != nil && strings.EqualFold(t.PrimaryKey.Name, name) {
		return true
	}
	for _, u := range t.Uniques {
		if strings.EqualFold(u.Name, name) {
			return true
		}
	}
	for _, fk := range t.ForeignKeys {
		if strings.EqualFold(fk.Name, name) {
			return true
		}
	}
	return false
}

// dropLocalColumn removes a column from the key's local list. When local
// and target lists pair one to one, the paired target column goes too,
// keeping the pairing aligned.
func (fk *ForeignKey) dropLocalColumn(name string) {
	paired := len(fk.RefColumns) == len(fk.Columns)

	var cols, refs []string
	for i, col := range fk.Columns {
		if strings.EqualFold(col, name) {
			continue
		}
		cols = append(cols, col)
		if paired {
			refs = append(refs, fk.RefColumns[i])
		}
	}
	fk.Columns = cols
	if paired {
		fk.RefColumns = refs
	}
}
