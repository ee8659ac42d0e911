// Package layout turns a frozen snapshot and its relationship graph into
// canvas positions. Tables group into levels by foreign key depth, levels
// chunk into rows, and rows stack vertically with room for the tallest
// member and its annotation note.
package layout

import (
	"math"
	"sort"

	"github.com/pgerd/pgerd/pkg/graph"
	"github.com/pgerd/pgerd/pkg/schema"
)

type (
	// Config holds the grid geometry. The zero value is not usable; start
	// from DefaultConfig and override selectively.
	Config struct {
		// PerRow fixes the number of tables per row. Zero derives the
		// count from the table total instead.
		PerRow         int `yaml:"per_row"`
		TableWidth     int `yaml:"table_width"`
		RowHeight      int `yaml:"row_height"`
		HeaderHeight   int `yaml:"header_height"`
		PaddingX       int `yaml:"padding_x"`
		PaddingY       int `yaml:"padding_y"`
		GapX           int `yaml:"gap_x"`
		GapY           int `yaml:"gap_y"`
		NoteMargin     int `yaml:"note_margin"`
		NoteLineHeight int `yaml:"note_line_height"`
	}

	// Placement is one table's slot on the canvas. When NoteLines is
	// non-empty the note block renders in the same slot, directly under
	// the table body.
	Placement struct {
		Table      *schema.Table
		X          float64
		Y          float64
		Width      float64
		Height     float64
		NoteLines  []string
		NoteHeight float64
	}
)

// DefaultConfig returns the standard geometry with automatic row sizing.
func DefaultConfig() Config {
	return Config{
		TableWidth:     340,
		RowHeight:      30,
		HeaderHeight:   30,
		PaddingX:       120,
		PaddingY:       60,
		GapX:           140,
		GapY:           120,
		NoteMargin:     12,
		NoteLineHeight: 16,
	}
}

// TableHeight is the rendered height of a table body: a header band plus
// one band per column. Tables without columns keep a single band so they
// stay visible.
func TableHeight(t *schema.Table, cfg Config) float64 {
	rows := len(t.Columns)
	if rows < 1 {
		rows = 1
	}
	return float64(cfg.HeaderHeight + rows*cfg.RowHeight)
}

func noteHeight(lines []string, cfg Config) float64 {
	if len(lines) == 0 {
		return 0
	}
	return float64(cfg.NoteMargin + len(lines)*cfg.NoteLineHeight)
}

// Plan computes a placement for every table of the snapshot. Rows are
// filled level by level, left to right in name order, and each row is
// centered against the widest one. Placements come out in row order; the
// whole arrangement is a pure function of the snapshot and graph.
//
// The graph must have been built from the same snapshot.
func Plan(snap *schema.Snapshot, g *graph.Graph, cfg Config) ([]Placement, []schema.Warning) {
	tables := snap.Tables()
	if len(tables) == 0 {
		return nil, nil
	}

	heights := make(map[schema.Identifier]float64, len(tables))
	notes := make(map[schema.Identifier][]string, len(tables))
	noteHeights := make(map[schema.Identifier]float64, len(tables))
	for _, t := range tables {
		heights[t.Name] = TableHeight(t, cfg)
		notes[t.Name] = snap.NoteLines(t)
		noteHeights[t.Name] = noteHeight(notes[t.Name], cfg)
	}

	levels, warnings := Levels(g)

	byLevel := make(map[int][]schema.Identifier)
	for id, level := range levels {
		byLevel[level] = append(byLevel[level], id)
	}

	ordered := make([]int, 0, len(byLevel))
	for level := range byLevel {
		ordered = append(ordered, level)
	}
	sort.Ints(ordered)

	perRow := cfg.PerRow
	if perRow <= 0 {
		perRow = autoPerRow(len(tables))
	}

	var rows [][]schema.Identifier
	for _, level := range ordered {
		names := byLevel[level]
		sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
		for start := 0; start < len(names); start += perRow {
			end := start + perRow
			if end > len(names) {
				end = len(names)
			}
			rows = append(rows, names[start:end])
		}
	}

	rowWidths := make([]float64, len(rows))
	var maxRowWidth float64
	for i, row := range rows {
		rowWidths[i] = float64(cfg.TableWidth*len(row) + cfg.GapX*(len(row)-1))
		if rowWidths[i] > maxRowWidth {
			maxRowWidth = rowWidths[i]
		}
	}

	placements := make([]Placement, 0, len(tables))
	y := float64(cfg.PaddingY)
	for i, row := range rows {
		var rowHeight float64
		for _, id := range row {
			if h := heights[id] + noteHeights[id]; h > rowHeight {
				rowHeight = h
			}
		}

		startX := float64(cfg.PaddingX) + (maxRowWidth-rowWidths[i])/2
		for col, id := range row {
			placements = append(placements, Placement{
				Table:      snap.Table(id),
				X:          startX + float64(col*(cfg.TableWidth+cfg.GapX)),
				Y:          y,
				Width:      float64(cfg.TableWidth),
				Height:     heights[id],
				NoteLines:  notes[id],
				NoteHeight: noteHeights[id],
			})
		}
		y += rowHeight + float64(cfg.GapY)
	}

	return placements, warnings
}

func autoPerRow(n int) int {
	if per := int(math.Sqrt(float64(n))); per > 1 {
		return per
	}
	return 1
}
