package schemadiff

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

const (
	// SectionTablesOnlyMigrations lists tables the diagram is missing.
	SectionTablesOnlyMigrations = "Tables only in migrations"
	// SectionTablesOnlyDiagram lists tables the migrations never create.
	SectionTablesOnlyDiagram = "Tables only in draw.io"
	// SectionColumnsMissing lists columns absent from the diagram.
	SectionColumnsMissing = "Columns missing in draw.io"
	// SectionColumnsExtra lists columns only the diagram has.
	SectionColumnsExtra = "Columns only in draw.io"
	// SectionForeignKeysMissing lists foreign keys absent from the diagram.
	SectionForeignKeysMissing = "Foreign keys missing in draw.io"
	// SectionForeignKeysExtra lists foreign keys only the diagram has.
	SectionForeignKeysExtra = "Foreign keys only in draw.io"
	// SectionIndexesMissing lists indexes absent from the diagram.
	SectionIndexesMissing = "Indexes missing in draw.io"
	// SectionIndexesExtra lists indexes only the diagram has.
	SectionIndexesExtra = "Indexes only in draw.io"
)

type (
	// Report is the outcome of one comparison, sections in print order.
	Report struct {
		Sections []Section
	}

	// Section is one titled block of drift items.
	Section struct {
		Title string
		Items []string
	}
)

// Compare diffs the migration side against the diagram side. The report
// always carries all eight sections so the rendered output has a stable
// shape; empty sections mean no drift of that kind.
func Compare(migrations, diagram *Summary) *Report {
	shared := sharedKeys(migrations, diagram)

	report := &Report{}
	report.add(SectionTablesOnlyMigrations, tablesOnly(migrations, diagram))
	report.add(SectionTablesOnlyDiagram, tablesOnly(diagram, migrations))

	missing, extra := columnDrift(migrations, diagram, shared)
	report.add(SectionColumnsMissing, missing)
	report.add(SectionColumnsExtra, extra)

	missing, extra = foreignKeyDrift(migrations, diagram, shared)
	report.add(SectionForeignKeysMissing, missing)
	report.add(SectionForeignKeysExtra, extra)

	missing, extra = indexDrift(migrations, diagram, shared)
	report.add(SectionIndexesMissing, missing)
	report.add(SectionIndexesExtra, extra)

	return report
}

// HasDrift reports whether any section found differences.
func (r *Report) HasDrift() bool {
	for _, section := range r.Sections {
		if len(section.Items) > 0 {
			return true
		}
	}
	return false
}

// String renders the report: each section as its title, either indented
// items or "(none)", and a separating blank line.
func (r *Report) String() string {
	var b strings.Builder
	for _, section := range r.Sections {
		b.WriteString(section.Title)
		b.WriteByte('\n')
		if len(section.Items) == 0 {
			b.WriteString("  (none)\n")
		}
		for _, item := range section.Items {
			b.WriteString("  - ")
			b.WriteString(item)
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func (r *Report) add(title string, items []string) {
	r.Sections = append(r.Sections, Section{Title: title, Items: items})
}

func tablesOnly(have, other *Summary) []string {
	var items []string
	for _, key := range sortedKeys(have.Tables) {
		if _, ok := other.Tables[key]; !ok {
			items = append(items, have.Tables[key].Name)
		}
	}
	return items
}

func sharedKeys(a, b *Summary) []string {
	var keys []string
	for _, key := range sortedKeys(a.Tables) {
		if _, ok := b.Tables[key]; ok {
			keys = append(keys, key)
		}
	}
	return keys
}

func columnDrift(migrations, diagram *Summary, shared []string) (missing, extra []string) {
	for _, key := range shared {
		mig, dia := migrations.Tables[key], diagram.Tables[key]
		if cols := columnsOnly(mig.Columns, dia.Columns); len(cols) > 0 {
			missing = append(missing, fmt.Sprintf("%s: %s", mig.Name, strings.Join(cols, ", ")))
		}
		if cols := columnsOnly(dia.Columns, mig.Columns); len(cols) > 0 {
			extra = append(extra, fmt.Sprintf("%s: %s", mig.Name, strings.Join(cols, ", ")))
		}
	}
	return missing, extra
}

func foreignKeyDrift(migrations, diagram *Summary, shared []string) (missing, extra []string) {
	for _, key := range shared {
		mig, dia := migrations.Tables[key], diagram.Tables[key]
		for _, fk := range foreignKeysOnly(mig.ForeignKeys, dia.ForeignKeys) {
			missing = append(missing, formatForeignKey(mig.Name, fk))
		}
		for _, fk := range foreignKeysOnly(dia.ForeignKeys, mig.ForeignKeys) {
			extra = append(extra, formatForeignKey(dia.Name, fk))
		}
	}
	return missing, extra
}

func indexDrift(migrations, diagram *Summary, shared []string) (missing, extra []string) {
	for _, key := range shared {
		mig, dia := migrations.Tables[key], diagram.Tables[key]
		for _, idx := range indexesOnly(mig.Indexes, dia.Indexes) {
			missing = append(missing, formatIndex(mig.Name, idx))
		}
		for _, idx := range indexesOnly(dia.Indexes, mig.Indexes) {
			extra = append(extra, formatIndex(dia.Name, idx))
		}
	}
	return missing, extra
}

func columnsOnly(have, other map[string]struct{}) []string {
	var only []string
	for col := range have {
		if _, ok := other[col]; !ok {
			only = append(only, col)
		}
	}
	sort.Strings(only)
	return only
}

func foreignKeysOnly(have, other map[string]ForeignKey) []ForeignKey {
	var only []ForeignKey
	for key, fk := range have {
		if _, ok := other[key]; !ok {
			only = append(only, fk)
		}
	}
	sort.Slice(only, func(i, j int) bool {
		if only[i].RefTable != only[j].RefTable {
			return only[i].RefTable < only[j].RefTable
		}
		return slices.Compare(only[i].LocalColumns, only[j].LocalColumns) < 0
	})
	return only
}

func indexesOnly(have, other map[string]Index) []Index {
	var only []Index
	for key, idx := range have {
		if _, ok := other[key]; !ok {
			only = append(only, idx)
		}
	}
	sort.Slice(only, func(i, j int) bool {
		if c := slices.Compare(only[i].Columns, only[j].Columns); c != 0 {
			return c < 0
		}
		if only[i].Unique != only[j].Unique {
			return !only[i].Unique
		}
		return only[i].Where < only[j].Where
	})
	return only
}

func formatForeignKey(table string, fk ForeignKey) string {
	local := joinSorted(fk.LocalColumns)
	if local == "" {
		local = "<none>"
	}
	target := fk.RefTable
	if target == "" {
		target = "<unknown>"
	}
	if refs := joinSorted(fk.RefColumns); refs != "" {
		target += "." + refs
	}
	return fmt.Sprintf("%s: (%s) -> %s", table, local, target)
}

func formatIndex(table string, idx Index) string {
	prefix := ""
	if idx.Unique {
		prefix = "Unique "
	}
	cols := joinSorted(idx.Columns)
	if cols == "" {
		cols = "<none>"
	}
	text := fmt.Sprintf("%s: %sindex on [%s]", table, prefix, cols)
	if idx.Where != "" {
		text += " where " + idx.Where
	}
	return text
}

func joinSorted(columns []string) string {
	ordered := slices.Clone(columns)
	sort.Strings(ordered)
	return strings.Join(ordered, ", ")
}
