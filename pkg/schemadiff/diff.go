// Package schemadiff compares the schema derived from migration files
// against the schema recovered from a draw.io diagram and reports the
// drift between them. Both sides are reduced to the same comparable
// shape first (lowercased table, column, and constraint identities), so
// the comparison ignores case and spelling differences but nothing
// structural.
package schemadiff

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pgerd/pgerd/pkg/drawio"
	"github.com/pgerd/pgerd/pkg/schema"
)

type (
	// Summary is one side of a comparison: table summaries keyed by
	// normalized table name.
	Summary struct {
		Tables map[string]*TableSummary
	}

	// TableSummary is the comparable shape of one table. The maps are
	// keyed by a canonical string form of each member so that membership
	// checks work on column lists, which are not comparable directly.
	TableSummary struct {
		Name        string
		Columns     map[string]struct{}
		ForeignKeys map[string]ForeignKey
		Indexes     map[string]Index
	}

	// ForeignKey is the comparable identity of one foreign key: the
	// ordered local column list, the target table, and the ordered target
	// column list, all normalized.
	ForeignKey struct {
		LocalColumns []string
		RefTable     string
		RefColumns   []string
	}

	// Index is the comparable identity of one index: the ordered element
	// list, the uniqueness flag, and the partial predicate. Index names
	// are deliberately not part of the identity; diagrams do not carry
	// them.
	Index struct {
		Columns []string
		Unique  bool
		Where   string
	}
)

// SummarizeSnapshot reduces a frozen migration snapshot to its
// comparable shape.
func SummarizeSnapshot(snap *schema.Snapshot) *Summary {
	summary := &Summary{Tables: make(map[string]*TableSummary)}
	for _, table := range snap.Tables() {
		ts := newTableSummary(table.Name.String())
		for _, col := range table.Columns {
			ts.Columns[normalize(col.Name)] = struct{}{}
		}
		for _, fk := range table.ForeignKeys {
			ts.addForeignKey(ForeignKey{
				LocalColumns: normalizeAll(fk.Columns),
				RefTable:     normalize(fk.RefTable.String()),
				RefColumns:   normalizeAll(fk.RefColumns),
			})
		}
		for _, idx := range snap.TableIndexes(table.Name) {
			ts.addIndex(Index{
				Columns: normalizeAll(idx.Elements),
				Unique:  idx.Unique,
				Where:   normalize(idx.Where),
			})
		}
		summary.Tables[normalize(table.Name.String())] = ts
	}
	return summary
}

// SummarizeDiagram reduces a parsed diagram to its comparable shape.
// Column labels become the column set; FK and index annotations are
// recovered from the note lines, one summary per parseable line.
func SummarizeDiagram(diagram *drawio.Diagram) *Summary {
	summary := &Summary{Tables: make(map[string]*TableSummary)}
	for _, name := range sortedKeys(diagram.Tables) {
		table := diagram.Tables[name]
		ts := newTableSummary(table.Name)
		for _, col := range table.Columns {
			if col == "" {
				continue
			}
			ts.Columns[normalize(col)] = struct{}{}
		}
		for _, line := range table.NoteLines {
			if fk, ok := parseFKNote(line); ok {
				ts.addForeignKey(fk)
				continue
			}
			if idx, ok := parseIndexNote(line); ok {
				ts.addIndex(idx)
			}
		}
		summary.Tables[normalize(table.Name)] = ts
	}
	return summary
}

func newTableSummary(name string) *TableSummary {
	return &TableSummary{
		Name:        name,
		Columns:     make(map[string]struct{}),
		ForeignKeys: make(map[string]ForeignKey),
		Indexes:     make(map[string]Index),
	}
}

func (t *TableSummary) addForeignKey(fk ForeignKey) {
	t.ForeignKeys[fk.key()] = fk
}

func (t *TableSummary) addIndex(idx Index) {
	t.Indexes[idx.key()] = idx
}

// key returns a canonical string identity. %q quotes every column, so
// list boundaries survive commas inside expression elements.
func (fk ForeignKey) key() string {
	return fmt.Sprintf("%q|%q|%q", fk.LocalColumns, fk.RefTable, fk.RefColumns)
}

func (idx Index) key() string {
	return fmt.Sprintf("%q|%t|%q", idx.Columns, idx.Unique, idx.Where)
}

// parseFKNote recovers a foreign key from a note line of the form
// "FK a, b -> table.c, d". The target column list is optional.
func parseFKNote(line string) (ForeignKey, bool) {
	stripped := strings.TrimSpace(line)
	if !strings.HasPrefix(strings.ToUpper(stripped), "FK ") {
		return ForeignKey{}, false
	}
	local, target, found := strings.Cut(strings.TrimSpace(stripped[3:]), "->")
	if !found {
		return ForeignKey{}, false
	}

	fk := ForeignKey{LocalColumns: splitColumns(local)}
	target = strings.TrimSpace(target)
	if table, cols, ok := strings.Cut(target, "."); ok {
		fk.RefTable = normalize(table)
		fk.RefColumns = splitColumns(cols)
	} else {
		fk.RefTable = normalize(target)
	}
	return fk, true
}

// parseIndexNote recovers an index from a note line of the form
// "Index on [a, b] where pred" with an optional "Unique " prefix.
func parseIndexNote(line string) (Index, bool) {
	stripped := strings.TrimSpace(line)
	lowered := strings.ToLower(stripped)
	if !strings.Contains(lowered, "index on [") {
		return Index{}, false
	}

	idx := Index{Unique: strings.HasPrefix(lowered, "unique ")}
	if idx.Unique {
		stripped = stripped[len("unique "):]
		lowered = strings.ToLower(stripped)
	}
	if !strings.HasPrefix(lowered, "index on [") {
		return Index{}, false
	}

	columns, tail, found := strings.Cut(stripped[len("index on ["):], "]")
	if !found {
		return Index{}, false
	}
	idx.Columns = splitColumns(columns)

	tail = strings.TrimSpace(tail)
	if strings.HasPrefix(strings.ToLower(tail), "where ") {
		idx.Where = strings.ToLower(strings.TrimSpace(tail[len("where "):]))
	}
	return idx, true
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func normalizeAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, normalize(v))
	}
	return out
}

// splitColumns breaks a comma separated column list, dropping blank
// chunks and normalizing the rest.
func splitColumns(raw string) []string {
	var cols []string
	for _, chunk := range strings.Split(raw, ",") {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		cols = append(cols, normalize(chunk))
	}
	return cols
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
