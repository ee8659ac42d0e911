package schema

import (
	"fmt"
	"strings"
)

// NoteLines renders the relationship and index annotations for a table,
// foreign keys in declaration order followed by indexes by name. These
// lines become the text of the note placed beside the table in a diagram,
// and the comparison layer parses the same format back out of existing
// diagrams.
func (s *Snapshot) NoteLines(t *Table) []string {
	var lines []string
	for _, fk := range t.ForeignKeys {
		lines = append(lines, fkNote(fk))
	}
	for _, idx := range s.TableIndexes(t.Name) {
		lines = append(lines, indexNote(idx))
	}
	return lines
}

// fkNote renders one foreign key annotation.
// Format: FK col[, col] -> table[.col[, col]]
func fkNote(fk *ForeignKey) string {
	var b strings.Builder
	b.WriteString("FK ")
	b.WriteString(strings.Join(fk.Columns, ", "))
	b.WriteString(" -> ")
	b.WriteString(fk.RefTable.String())
	if len(fk.RefColumns) > 0 {
		b.WriteString(".")
		b.WriteString(strings.Join(fk.RefColumns, ", "))
	}
	return b.String()
}

// indexNote renders one index annotation.
// Format: [Unique ]Index on [element[, element]][ where predicate]
func indexNote(idx *Index) string {
	var b strings.Builder
	if idx.Unique {
		b.WriteString("Unique ")
	}
	fmt.Fprintf(&b, "Index on [%s]", strings.Join(idx.Elements, ", "))
	if idx.Where != "" {
		fmt.Fprintf(&b, " where %s", idx.Where)
	}
	return b.String()
}
