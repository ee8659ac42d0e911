package schema

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/pgerd/pgerd/pkg/parser"
)

// Apply splits src into statements and folds each one into the snapshot
// in order. Statements that cannot be classified or parsed are recorded
// as warnings and skipped; only lexer failures surface as errors.
func (s *Snapshot) Apply(file, src string) error {
	if s.frozen {
		return errors.Errorf("cannot apply %s: snapshot is frozen", file)
	}

	sc := parser.SplitStatements(file, src)
	for sc.Scan() {
		s.applyStatement(sc.Statement())
	}

	return errors.Wrapf(sc.Err(), "failed to split %s", file)
}

func (s *Snapshot) applyStatement(span parser.Span) {
	if parser.Classify(span) == parser.KindUnrecognized {
		s.warnf(WarningUnrecognizedStatement, span.File, span.Text, "unrecognized statement skipped")
		return
	}

	stmt, err := parser.ParseStatement(span)
	if err != nil {
		if perr, ok := err.(*parser.ParseError); ok {
			s.warnf(WarningParseError, span.File, span.Text, "line %d: %v", perr.Line, perr.Reason)
		} else {
			s.warnf(WarningParseError, span.File, span.Text, "%v", err)
		}
		return
	}

	switch {
	case stmt.CreateTable != nil:
		s.applyCreateTable(span, stmt.CreateTable)
	case stmt.CreateIndex != nil:
		s.applyCreateIndex(span, stmt.CreateIndex)
	case stmt.AlterTable != nil:
		s.applyAlterTable(span, stmt.AlterTable)
	case stmt.AlterIndex != nil:
		s.applyAlterIndex(span, stmt.AlterIndex)
	case stmt.DropTable != nil:
		s.applyDropTable(span, stmt.DropTable)
	case stmt.DropIndex != nil:
		s.applyDropIndex(span, stmt.DropIndex)
	}
}

func (s *Snapshot) applyCreateTable(span parser.Span, stmt *parser.CreateTableStmt) {
	id := NormalizeIdentifier(stmt.Name.String())
	if s.tables[id] != nil {
		if !stmt.IfNotExists {
			s.warnf(WarningDuplicateObject, span.File, span.Text, "table %s already defined", id)
		}
		return
	}

	// The table registers before its body applies so self references
	// resolve immediately.
	t := &Table{Name: id}
	s.tables[id] = t

	for _, el := range stmt.Elements {
		switch {
		case el.Column != nil:
			s.addColumnDef(t, el.Column, span)
		case el.Constraint != nil:
			s.addTableConstraint(t, el.Constraint, span)
		}
	}
	s.applyColumnHints(t, stmt.ColumnHints(), span)
	s.resolvePending()
}

// addColumnDef folds one parsed column definition into the table,
// covering both CREATE TABLE bodies and ADD COLUMN actions. Inline
// constraints land as their table-level equivalents.
func (s *Snapshot) addColumnDef(t *Table, def *parser.ColumnDef, span parser.Span) {
	name := NormalizeName(def.Name)

	col := &Column{Name: name, NotNull: def.IsNotNull() || def.IsPrimaryKey()}
	if def.Type != nil {
		col.Type = def.Type.String()
	}
	t.addColumn(col)

	for _, con := range def.Constraints {
		conName := ""
		if con.Name != nil {
			conName = NormalizeName(*con.Name)
		}

		switch {
		case con.PrimaryKey:
			t.appendPrimaryKey(name, conName)
		case con.Unique:
			t.addUnique([]string{name}, conName)
		case con.References != nil:
			s.addForeignKey(t, &ForeignKey{
				Name:       conName,
				Columns:    []string{name},
				RefTable:   NormalizeIdentifier(con.References.Table.String()),
				RefColumns: refColumnNames(con.References.Columns),
			}, span.File, span.Text)
		}
	}
}

func (s *Snapshot) addTableConstraint(t *Table, con *parser.TableConstraint, span parser.Span) {
	name := ""
	if con.Name != nil {
		name = NormalizeName(*con.Name)
	}

	switch {
	case con.PrimaryKey != nil:
		t.setPrimaryKey(NormalizeNames(con.PrimaryKey.Names), name)
	case con.Unique != nil:
		t.addUnique(NormalizeNames(con.Unique.Names), name)
	case con.ForeignKey != nil:
		s.addForeignKey(t, &ForeignKey{
			Name:       name,
			Columns:    NormalizeNames(con.ForeignKey.Columns.Names),
			RefTable:   NormalizeIdentifier(con.ForeignKey.Ref.Table.String()),
			RefColumns: refColumnNames(con.ForeignKey.Ref.Columns),
		}, span.File, span.Text)
	}
}

// applyColumnHints turns FK hint comments into foreign keys on their
// annotated columns. Hints left without a matching column, for example
// when the column was dropped by a later action of the same statement,
// are reported in name order.
func (s *Snapshot) applyColumnHints(t *Table, hints map[string][]parser.FKHint, span parser.Span) {
	if len(hints) == 0 {
		return
	}

	byColumn := make(map[string][]parser.FKHint, len(hints))
	for raw, list := range hints {
		key := strings.ToLower(NormalizeName(raw))
		byColumn[key] = append(byColumn[key], list...)
	}

	for _, col := range t.Columns {
		key := strings.ToLower(col.Name)
		list, ok := byColumn[key]
		if !ok {
			continue
		}
		delete(byColumn, key)

		for _, hint := range list {
			s.addForeignKey(t, &ForeignKey{
				Columns:    []string{col.Name},
				RefTable:   NormalizeIdentifier(hint.Table),
				RefColumns: NormalizeNames(hint.Columns),
			}, span.File, span.Text)
		}
	}

	leftover := make([]string, 0, len(byColumn))
	for key := range byColumn {
		leftover = append(leftover, key)
	}
	sort.Strings(leftover)
	for _, key := range leftover {
		s.warnf(WarningUnresolvedReference, span.File, span.Text, "FK hint on unknown column %s of %s", key, t.Name)
	}
}

func (s *Snapshot) applyAlterTable(span parser.Span, stmt *parser.AlterTableStmt) {
	id := NormalizeIdentifier(stmt.Name.String())
	t := s.tables[id]
	if t == nil {
		if stmt.IfExists {
			return
		}
		// A table altered before it is created is tracked as an implicit
		// empty table.
		t = &Table{Name: id}
		s.tables[id] = t
		s.resolvePending()
	}

	for _, action := range stmt.Actions {
		s.applyAlterAction(t, action, span)
	}
	s.applyColumnHints(t, stmt.ColumnHints(), span)
}

func (s *Snapshot) applyAlterAction(t *Table, action *parser.AlterAction, span parser.Span) {
	switch {
	case action.AddConstraint != nil:
		s.addTableConstraint(t, action.AddConstraint, span)

	case action.AddColumn != nil:
		name := NormalizeName(action.AddColumn.Def.Name)
		if action.AddColumn.IfNotExists && t.Column(name) != nil {
			return
		}
		s.addColumnDef(t, action.AddColumn.Def, span)

	case action.DropConstraint != nil:
		name := NormalizeName(action.DropConstraint.Name)
		if !t.dropConstraint(name) && !action.DropConstraint.IfExists {
			s.warnf(WarningUnresolvedReference, span.File, span.Text, "constraint %s not found on %s", name, t.Name)
		}

	case action.DropColumn != nil:
		name := NormalizeName(action.DropColumn.Name)
		if !t.dropColumn(name) && !action.DropColumn.IfExists {
			s.warnf(WarningUnresolvedReference, span.File, span.Text, "column %s not found on %s", name, t.Name)
		}

	case action.RenameConstraint != nil:
		from := NormalizeName(action.RenameConstraint.From)
		if !t.renameConstraint(from, NormalizeName(action.RenameConstraint.To)) {
			s.warnf(WarningUnresolvedReference, span.File, span.Text, "constraint %s not found on %s", from, t.Name)
		}

	case action.RenameColumn != nil:
		s.renameColumn(t, NormalizeName(action.RenameColumn.From), NormalizeName(action.RenameColumn.To), span)

	case action.RenameTo != nil:
		s.renameTo(t, NormalizeIdentifier(*action.RenameTo), span)

	case action.AlterColumn != nil:
		s.alterColumn(t, action.AlterColumn, span)
	}
}

// renameColumn renames the column on its table and rewrites the
// referencing side of foreign keys elsewhere that target this table.
func (s *Snapshot) renameColumn(t *Table, from, to string, span parser.Span) {
	if !t.renameColumn(from, to) {
		s.warnf(WarningUnresolvedReference, span.File, span.Text, "column %s not found on %s", from, t.Name)
		return
	}

	for _, other := range s.tables {
		if other == t {
			continue
		}
		for _, fk := range other.ForeignKeys {
			if fk.RefTable == t.Name {
				replaceFold(fk.RefColumns, from, to)
			}
		}
	}
}

// renameTo renames the table unless the target name is taken. Renaming a
// table to its current name is a no-op.
func (s *Snapshot) renameTo(t *Table, to Identifier, span parser.Span) {
	if to == t.Name {
		return
	}
	if s.tables[to] != nil {
		s.warnf(WarningDuplicateObject, span.File, span.Text, "cannot rename %s to %s: name already in use", t.Name, to)
		return
	}
	s.renameTable(t.Name, to)
}

// alterColumn applies type changes and nullability flips. Attribute
// changes the model does not track (defaults, statistics, storage) pass
// through without requiring the column to exist.
func (s *Snapshot) alterColumn(t *Table, action *parser.AlterColumn, span parser.Span) {
	if action.Type == nil && !action.SetNotNull && !action.DropNotNull {
		return
	}

	name := NormalizeName(action.Name)
	col := t.Column(name)
	if col == nil {
		s.warnf(WarningUnresolvedReference, span.File, span.Text, "column %s not found on %s", name, t.Name)
		return
	}

	switch {
	case action.Type != nil:
		col.Type = action.Type.String()
	case action.SetNotNull:
		col.NotNull = true
	case action.DropNotNull:
		col.NotNull = false
	}
}

func (s *Snapshot) applyCreateIndex(span parser.Span, stmt *parser.CreateIndexStmt) {
	table := NormalizeIdentifier(stmt.Table.String())
	if s.tables[table] == nil {
		s.warnf(WarningUnresolvedReference, span.File, span.Text, "index on unknown table %s", table)
		return
	}

	name := ""
	if stmt.Name != nil {
		name = NormalizeName(*stmt.Name)
	}
	switch {
	case name == "":
		name = s.indexName(table, stmt.ElementTexts())
	case s.Index(name) != nil:
		if !stmt.IfNotExists {
			s.warnf(WarningDuplicateObject, span.File, span.Text, "index %s already defined", name)
		}
		return
	}

	idx := &Index{
		Table:    table,
		Name:     name,
		Elements: stmt.ElementTexts(),
		Unique:   stmt.Unique,
	}
	if stmt.Using != nil {
		idx.Using = *stmt.Using
	}
	if stmt.Where != nil {
		idx.Where = stmt.Where.String()
	}
	s.indexes[strings.ToLower(name)] = idx
}

func (s *Snapshot) applyDropIndex(span parser.Span, stmt *parser.DropIndexStmt) {
	for _, n := range stmt.Names {
		name := NormalizeIdentifier(n.String()).Name()
		if s.Index(name) == nil {
			if !stmt.IfExists {
				s.warnf(WarningUnresolvedReference, span.File, span.Text, "index %s not found", name)
			}
			continue
		}
		delete(s.indexes, strings.ToLower(name))
	}
}

func (s *Snapshot) applyAlterIndex(span parser.Span, stmt *parser.AlterIndexStmt) {
	name := NormalizeIdentifier(stmt.Name.String()).Name()
	idx := s.Index(name)
	if idx == nil {
		if !stmt.IfExists {
			s.warnf(WarningUnresolvedReference, span.File, span.Text, "index %s not found", name)
		}
		return
	}
	if stmt.RenameTo == nil {
		return
	}

	to := NormalizeName(*stmt.RenameTo)
	if other := s.Index(to); other != nil && other != idx {
		s.warnf(WarningDuplicateObject, span.File, span.Text, "cannot rename index %s to %s: name already in use", idx.Name, to)
		return
	}

	delete(s.indexes, strings.ToLower(idx.Name))
	idx.Name = to
	s.indexes[strings.ToLower(to)] = idx
}

func (s *Snapshot) applyDropTable(span parser.Span, stmt *parser.DropTableStmt) {
	for _, n := range stmt.Names {
		id := NormalizeIdentifier(n.String())
		if s.tables[id] == nil {
			if !stmt.IfExists {
				s.warnf(WarningUnresolvedReference, span.File, span.Text, "table %s not found", id)
			}
			continue
		}
		s.dropTable(id)
	}
}

func refColumnNames(list *parser.NameList) []string {
	if list == nil {
		return nil
	}
	return NormalizeNames(list.Names)
}
