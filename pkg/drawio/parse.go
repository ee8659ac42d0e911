package drawio

import (
	"encoding/xml"
	"html"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

type (
	// Table is one table recovered from a diagram: its label, the column
	// labels in document order (deduplicated case-insensitively), and the
	// annotation note lines attached to its group.
	Table struct {
		Name      string
		Columns   []string
		NoteLines []string
	}

	// Edge is one connector with both endpoints resolved to a table and,
	// when the endpoint is a column cell, the column label. Unresolvable
	// endpoints come back empty.
	Edge struct {
		SourceTable  string
		SourceColumn string
		TargetTable  string
		TargetColumn string
	}

	// Diagram is the schema-relevant content of a draw.io document.
	Diagram struct {
		Tables map[string]*Table
		Edges  []Edge
	}

	// cell is one mxCell element, attributes as written.
	cell struct {
		id     string
		value  string
		style  string
		parent string
		source string
		target string
		vertex bool
		edge   bool
	}

	columnRef struct {
		table  string
		column string
	}
)

// maxSearchDepth bounds the neighborhood walk used to find a column
// cell's label among its children and siblings.
const maxSearchDepth = 6

var (
	tagPattern      = regexp.MustCompile(`<[^>]+>`)
	spacePattern    = regexp.MustCompile(`\s+`)
	brPattern       = regexp.MustCompile(`(?i)<br\s*/?>`)
	divOpenPattern  = regexp.MustCompile(`(?i)<div[^>]*>`)
	divClosePattern = regexp.MustCompile(`(?i)</div>`)
)

// Parse reads a draw.io document and extracts its tables, columns, note
// lines, and edges. It tolerates hand-edited files: cells it cannot
// attribute to a table are ignored, labels are cleaned of HTML markup,
// and structural quirks like reparented label cells resolve through a
// bounded neighborhood search rather than a fixed hierarchy.
func Parse(r io.Reader) (*Diagram, error) {
	cells, err := readCells(r)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*cell, len(cells))
	children := make(map[string][]string)
	for _, c := range cells {
		byID[c.id] = c
		if c.parent != "" {
			children[c.parent] = append(children[c.parent], c.id)
		}
	}

	// A table is a non-empty-labelled shape=table vertex. Its parent
	// group, when present, is where note cells attach.
	tableIDs := make(map[string]string)
	groups := make(map[string]string)
	for _, c := range cells {
		if c.vertex && styleContains(c.style, "shape=table") {
			if name := cleanValue(c.value); name != "" {
				tableIDs[c.id] = name
				if c.parent != "" {
					groups[c.parent] = name
				}
			}
		}
	}

	columns := make(map[string]columnRef)
	for _, c := range cells {
		if c.edge || isNoteStyle(c.style) {
			continue
		}
		if _, ok := tableIDs[c.id]; ok {
			continue
		}
		tableID := findTableAncestor(c.id, byID, tableIDs)
		if tableID == "" {
			continue
		}
		columns[c.id] = columnRef{
			table:  tableIDs[tableID],
			column: resolveColumnName(c.id, tableID, byID, children),
		}
	}

	tables := make(map[string]*Table)
	for _, name := range tableIDs {
		if _, ok := tables[name]; !ok {
			tables[name] = &Table{Name: name}
		}
	}

	seen := make(map[string]map[string]bool)
	for _, c := range cells {
		ref, ok := columns[c.id]
		if !ok || ref.column == "" {
			continue
		}
		normalized := strings.ToLower(ref.column)
		if seen[ref.table] == nil {
			seen[ref.table] = make(map[string]bool)
		}
		if seen[ref.table][normalized] {
			continue
		}
		seen[ref.table][normalized] = true
		tables[ref.table].Columns = append(tables[ref.table].Columns, ref.column)
	}

	for _, c := range cells {
		if !isNoteStyle(c.style) {
			continue
		}
		name := groups[c.parent]
		if name == "" {
			continue
		}
		if lines := extractNoteLines(c.value); len(lines) > 0 {
			tables[name].NoteLines = append(tables[name].NoteLines, lines...)
		}
	}

	diagram := &Diagram{Tables: tables}
	for _, c := range cells {
		if !c.edge {
			continue
		}
		var e Edge
		if ref := resolveEndpoint(c.source, byID, tableIDs, columns); ref != nil {
			e.SourceTable, e.SourceColumn = ref.table, ref.column
		}
		if ref := resolveEndpoint(c.target, byID, tableIDs, columns); ref != nil {
			e.TargetTable, e.TargetColumn = ref.table, ref.column
		}
		diagram.Edges = append(diagram.Edges, e)
	}

	return diagram, nil
}

// ParseFile reads the draw.io document at path.
func ParseFile(path string) (*Diagram, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer func() { _ = f.Close() }()

	return Parse(f)
}

// readCells collects every mxCell element in document order, wherever it
// nests. Cells without an id are skipped.
func readCells(r io.Reader) ([]*cell, error) {
	dec := xml.NewDecoder(r)
	var cells []*cell
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return cells, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse diagram XML")
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "mxCell" {
			continue
		}

		c := &cell{}
		for _, attr := range start.Attr {
			switch attr.Name.Local {
			case "id":
				c.id = attr.Value
			case "value":
				c.value = attr.Value
			case "style":
				c.style = attr.Value
			case "parent":
				c.parent = attr.Value
			case "source":
				c.source = attr.Value
			case "target":
				c.target = attr.Value
			case "vertex":
				c.vertex = attr.Value == "1"
			case "edge":
				c.edge = attr.Value == "1"
			}
		}
		if c.id != "" {
			cells = append(cells, c)
		}
	}
}

// findTableAncestor walks the parent chain, cycle-safe, until it hits a
// table cell.
func findTableAncestor(id string, byID map[string]*cell, tableIDs map[string]string) string {
	seen := make(map[string]bool)
	for current := id; current != "" && !seen[current]; {
		seen[current] = true
		if _, ok := tableIDs[current]; ok {
			return current
		}
		c := byID[current]
		if c == nil {
			break
		}
		current = c.parent
	}
	return ""
}

// resolveColumnName searches outward from a cell for the first label that
// is neither empty nor a PK/FK marker: the cell itself, then its
// children, parent, and siblings, breadth-first up to maxSearchDepth.
func resolveColumnName(startID, tableID string, byID map[string]*cell, children map[string][]string) string {
	type item struct {
		id    string
		depth int
	}

	queue := []item{{id: startID}}
	visited := make(map[string]bool)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current.id] || current.depth > maxSearchDepth {
			continue
		}
		visited[current.id] = true

		node := byID[current.id]
		if node == nil {
			continue
		}
		if v := cleanValue(node.value); v != "" && !isMarkerLabel(v) {
			return v
		}

		for _, childID := range children[current.id] {
			if !visited[childID] {
				queue = append(queue, item{id: childID, depth: current.depth + 1})
			}
		}
		if node.parent == "" || node.parent == tableID {
			continue
		}
		if !visited[node.parent] {
			queue = append(queue, item{id: node.parent, depth: current.depth + 1})
		}
		for _, siblingID := range children[node.parent] {
			if siblingID == current.id || visited[siblingID] {
				continue
			}
			queue = append(queue, item{id: siblingID, depth: current.depth + 1})
		}
	}
	return ""
}

// resolveEndpoint maps an edge endpoint to the table or column cell it
// lands on, walking up through intermediate cells.
func resolveEndpoint(id string, byID map[string]*cell, tableIDs map[string]string, columns map[string]columnRef) *columnRef {
	seen := make(map[string]bool)
	for current := id; current != "" && !seen[current]; {
		seen[current] = true
		if name, ok := tableIDs[current]; ok {
			return &columnRef{table: name}
		}
		if ref, ok := columns[current]; ok {
			return &ref
		}
		c := byID[current]
		if c == nil {
			break
		}
		current = c.parent
	}
	return nil
}

// cleanValue strips HTML markup from a label and collapses whitespace.
func cleanValue(raw string) string {
	if raw == "" {
		return ""
	}
	text := html.UnescapeString(raw)
	text = tagPattern.ReplaceAllString(text, " ")
	text = spacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// extractNoteLines splits a note cell's value into trimmed lines, taking
// <br> and <div> blocks as line breaks and dropping other markup.
func extractNoteLines(raw string) []string {
	if raw == "" {
		return nil
	}
	text := brPattern.ReplaceAllString(raw, "\n")
	text = divClosePattern.ReplaceAllString(text, "\n")
	text = divOpenPattern.ReplaceAllString(text, "")
	text = html.UnescapeString(text)
	text = tagPattern.ReplaceAllString(text, " ")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// isMarkerLabel reports whether a label is a PK/FK marker rather than a
// column name.
func isMarkerLabel(v string) bool {
	n := strings.ToLower(strings.TrimSpace(v))
	return n == "pk" || n == "fk"
}

func isNoteStyle(style string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(style)), "text;")
}

func styleContains(style, fragment string) bool {
	return strings.Contains(strings.ToLower(style), strings.ToLower(fragment))
}
