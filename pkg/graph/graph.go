// Package graph builds the relationship graph between the tables of a
// frozen schema snapshot. Nodes are table identifiers; one directed edge
// runs from each referencing table to the table its foreign key targets,
// carrying the column pairing. Override edges from a relationships file
// join the same graph, so downstream layout and rendering treat declared
// and curated relationships alike.
package graph

import (
	"fmt"
	"strings"

	"github.com/pgerd/pgerd/pkg/schema"
)

type (
	// Pair links one referencing column to the referenced column it
	// points at. To may be empty when the relationship names no target
	// column.
	Pair struct {
		From string
		To   string
	}

	// Edge is one relationship from a referencing table to the table it
	// targets. Self edges (From == To) are valid and preserved.
	Edge struct {
		From  schema.Identifier
		To    schema.Identifier
		Pairs []Pair
	}

	// Graph is the relationship graph over a frozen snapshot. Both
	// endpoints of every edge are nodes of the graph.
	Graph struct {
		nodes []schema.Identifier
		edges []Edge
	}
)

// Build assembles the graph from a frozen snapshot and override edges.
// Foreign keys contribute edges in table-name order; overrides follow in
// file order. Duplicate edges (same endpoints, same pairing) collapse.
// Overrides naming tables the snapshot does not have are skipped with a
// warning.
func Build(snap *schema.Snapshot, overrides []Override) (*Graph, []schema.Warning) {
	g := &Graph{}
	seen := map[string]bool{}

	tables := snap.Tables()
	for _, t := range tables {
		g.nodes = append(g.nodes, t.Name)
	}

	for _, t := range tables {
		for _, fk := range t.ForeignKeys {
			g.addEdge(seen, Edge{
				From:  t.Name,
				To:    fk.RefTable,
				Pairs: pairColumns(fk.Columns, fk.RefColumns),
			})
		}
	}

	var warnings []schema.Warning
	for _, o := range overrides {
		from := schema.NormalizeIdentifier(o.Table)
		to := schema.NormalizeIdentifier(o.RefTable)
		if snap.Table(from) == nil || snap.Table(to) == nil {
			warnings = append(warnings, schema.Warning{
				Kind:   schema.WarningUnresolvedReference,
				Reason: fmt.Sprintf("override %s -> %s names an unknown table", from, to),
			})
			continue
		}

		g.addEdge(seen, Edge{
			From:  from,
			To:    to,
			Pairs: pairColumns(schema.NormalizeNames(o.Columns), schema.NormalizeNames(o.RefColumns)),
		})
	}

	return g, warnings
}

// Nodes returns every table of the graph, sorted by identifier.
func (g *Graph) Nodes() []schema.Identifier {
	return append([]schema.Identifier(nil), g.nodes...)
}

// Edges returns the edges in build order.
func (g *Graph) Edges() []Edge {
	return append([]Edge(nil), g.edges...)
}

func (g *Graph) addEdge(seen map[string]bool, e Edge) {
	key := edgeKey(e)
	if seen[key] {
		return
	}
	seen[key] = true
	g.edges = append(g.edges, e)
}

func edgeKey(e Edge) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(e.From.String()))
	b.WriteString("->")
	b.WriteString(strings.ToLower(e.To.String()))
	for _, p := range e.Pairs {
		b.WriteString("|")
		b.WriteString(strings.ToLower(p.From))
		b.WriteString(":")
		b.WriteString(strings.ToLower(p.To))
	}
	return b.String()
}

// pairColumns zips local and referenced columns. Mismatched lengths
// degrade to the first local column, paired with the first referenced
// column when one exists.
func pairColumns(from, to []string) []Pair {
	if len(from) == 0 {
		return nil
	}

	if len(from) == len(to) {
		pairs := make([]Pair, len(from))
		for i := range from {
			pairs[i] = Pair{From: from[i], To: to[i]}
		}
		return pairs
	}

	pair := Pair{From: from[0]}
	if len(to) > 0 {
		pair.To = to[0]
	}
	return []Pair{pair}
}
