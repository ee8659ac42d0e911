// Package drawio serializes a planned schema into draw.io documents and
// reads table, note, and edge content back out of existing ones. The two
// halves share one cell vocabulary: what Render writes, Parse recovers,
// and hand-edited diagrams that keep the same shapes stay readable.
package drawio

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/pgerd/pgerd/pkg/graph"
	"github.com/pgerd/pgerd/pkg/layout"
	"github.com/pgerd/pgerd/pkg/schema"
)

type (
	mxFile struct {
		XMLName xml.Name  `xml:"mxfile"`
		Host    string    `xml:"host,attr"`
		Version string    `xml:"version,attr"`
		Diagram mxDiagram `xml:"diagram"`
	}

	mxDiagram struct {
		Name  string  `xml:"name,attr"`
		ID    string  `xml:"id,attr"`
		Model mxModel `xml:"mxGraphModel"`
	}

	mxModel struct {
		Dx         string `xml:"dx,attr"`
		Dy         string `xml:"dy,attr"`
		Grid       string `xml:"grid,attr"`
		GridSize   string `xml:"gridSize,attr"`
		Guides     string `xml:"guides,attr"`
		Tooltips   string `xml:"tooltips,attr"`
		Connect    string `xml:"connect,attr"`
		Arrows     string `xml:"arrows,attr"`
		Fold       string `xml:"fold,attr"`
		Page       string `xml:"page,attr"`
		PageScale  string `xml:"pageScale,attr"`
		PageWidth  string `xml:"pageWidth,attr"`
		PageHeight string `xml:"pageHeight,attr"`
		Math       string `xml:"math,attr"`
		Shadow     string `xml:"shadow,attr"`
		Root       mxRoot `xml:"root"`
	}

	mxRoot struct {
		Cells []mxCell `xml:"mxCell"`
	}

	mxCell struct {
		ID          string      `xml:"id,attr"`
		Value       string      `xml:"value,attr,omitempty"`
		Style       string      `xml:"style,attr,omitempty"`
		Vertex      string      `xml:"vertex,attr,omitempty"`
		Connectable string      `xml:"connectable,attr,omitempty"`
		Edge        string      `xml:"edge,attr,omitempty"`
		Parent      string      `xml:"parent,attr,omitempty"`
		Source      string      `xml:"source,attr,omitempty"`
		Target      string      `xml:"target,attr,omitempty"`
		Geometry    *mxGeometry `xml:"mxGeometry,omitempty"`
	}

	mxGeometry struct {
		X        string       `xml:"x,attr,omitempty"`
		Y        string       `xml:"y,attr,omitempty"`
		Width    string       `xml:"width,attr,omitempty"`
		Height   string       `xml:"height,attr,omitempty"`
		Relative string       `xml:"relative,attr,omitempty"`
		As       string       `xml:"as,attr"`
		Rect     *mxRectangle `xml:"mxRectangle,omitempty"`
	}

	mxRectangle struct {
		X      string `xml:"x,attr,omitempty"`
		Y      string `xml:"y,attr,omitempty"`
		Width  string `xml:"width,attr,omitempty"`
		Height string `xml:"height,attr,omitempty"`
		As     string `xml:"as,attr"`
	}
)

// Options controls diagram rendering.
type Options struct {
	// ShowTypes appends " (type)" to column labels.
	ShowTypes bool
	// Layout supplies the band geometry the placements were computed
	// with, for row and note positioning inside each table.
	Layout layout.Config
}

const markerWidth = 30

// Render serializes placements and relationship edges into a draw.io
// document. Each table renders as a group holding the table container,
// one row per column with a PK/FK marker and a label, and a note cell
// when the table carries annotations. Output is deterministic for a
// given input and ends with a newline, without an XML declaration.
func Render(placements []layout.Placement, g *graph.Graph, opts Options) ([]byte, error) {
	ids := newIDGen()
	cells := []mxCell{
		{ID: "0"},
		{ID: "1", Parent: "0"},
	}

	tableCells := make(map[schema.Identifier]string)
	rowCells := make(map[schema.Identifier]map[string]string)
	for _, p := range placements {
		cells = append(cells, tableGroup(ids, p, opts, tableCells, rowCells)...)
	}

	for _, e := range g.Edges() {
		if edge, ok := edgeCell(ids, e, tableCells, rowCells); ok {
			cells = append(cells, edge)
		}
	}

	file := mxFile{
		Host:    "app.diagrams.net",
		Version: "28.2.3",
		Diagram: mxDiagram{
			Name: "Page-1",
			ID:   "auto-gen",
			Model: mxModel{
				Dx:         "1372",
				Dy:         "773",
				Grid:       "1",
				GridSize:   "10",
				Guides:     "1",
				Tooltips:   "1",
				Connect:    "1",
				Arrows:     "1",
				Fold:       "1",
				Page:       "1",
				PageScale:  "1",
				PageWidth:  "850",
				PageHeight: "1100",
				Math:       "0",
				Shadow:     "0",
				Root:       mxRoot{Cells: cells},
			},
		},
	}

	out, err := xml.MarshalIndent(file, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal diagram")
	}
	return append(out, '\n'), nil
}

// tableGroup emits the cells for one placed table and records the table
// and row cell ids so edges can attach to them.
func tableGroup(ids *idGen, p layout.Placement, opts Options, tableCells map[schema.Identifier]string, rowCells map[schema.Identifier]map[string]string) []mxCell {
	t := p.Table
	cfg := opts.Layout

	gid := ids.next()
	out := []mxCell{{
		ID:          gid,
		Style:       groupStyle,
		Vertex:      "1",
		Connectable: "0",
		Parent:      "1",
		Geometry: &mxGeometry{
			X:      num(p.X),
			Y:      num(p.Y),
			Width:  num(p.Width),
			Height: num(p.Height + p.NoteHeight),
			As:     "geometry",
		},
	}}

	tid := ids.next()
	tableCells[t.Name] = tid
	rowCells[t.Name] = make(map[string]string, len(t.Columns))
	out = append(out, mxCell{
		ID:     tid,
		Value:  t.Name.String(),
		Style:  tableStyle,
		Vertex: "1",
		Parent: gid,
		Geometry: &mxGeometry{
			Width:  num(p.Width),
			Height: num(p.Height),
			As:     "geometry",
			Rect: &mxRectangle{
				X:      "80",
				Y:      "10",
				Width:  "50",
				Height: "30",
				As:     "alternateBounds",
			},
		},
	})

	rowH := float64(cfg.RowHeight)
	for i, c := range t.Columns {
		rid := ids.next()
		rowCells[t.Name][strings.ToLower(c.Name)] = rid
		out = append(out, mxCell{
			ID:     rid,
			Style:  rowStyle,
			Vertex: "1",
			Parent: tid,
			Geometry: &mxGeometry{
				Y:      num(float64(cfg.HeaderHeight) + float64(i)*rowH),
				Width:  num(p.Width),
				Height: num(rowH),
				As:     "geometry",
			},
		})

		pk := isPrimaryKeyColumn(t, c.Name)
		marker, mstyle := "", markerPlainStyle
		switch {
		case pk:
			marker, mstyle = "PK", markerStyle
		case isForeignKeyColumn(t, c.Name):
			marker, mstyle = "FK", markerStyle
		}
		out = append(out, mxCell{
			ID:     ids.next(),
			Value:  marker,
			Style:  mstyle,
			Vertex: "1",
			Parent: rid,
			Geometry: &mxGeometry{
				Width:  num(markerWidth),
				Height: num(rowH),
				As:     "geometry",
			},
		})

		label, lstyle := c.Name, labelStyle
		if opts.ShowTypes && c.Type != "" {
			label += " (" + c.Type + ")"
		}
		if pk {
			lstyle = labelPKStyle
		}
		out = append(out, mxCell{
			ID:     ids.next(),
			Value:  label,
			Style:  lstyle,
			Vertex: "1",
			Parent: rid,
			Geometry: &mxGeometry{
				X:      num(markerWidth),
				Width:  num(p.Width - markerWidth),
				Height: num(rowH),
				As:     "geometry",
			},
		})
	}

	if len(p.NoteLines) > 0 {
		out = append(out, mxCell{
			ID:     ids.next(),
			Value:  strings.Join(p.NoteLines, "<br>"),
			Style:  noteStyle,
			Vertex: "1",
			Parent: gid,
			Geometry: &mxGeometry{
				Y:      num(p.Height + float64(cfg.NoteMargin)),
				Width:  num(p.Width),
				Height: num(p.NoteHeight - float64(cfg.NoteMargin)),
				As:     "geometry",
			},
		})
	}

	return out
}

// edgeCell connects a relationship's endpoints, preferring the column row
// cells when the pairing names a known column on each side and falling
// back to the table containers. Edges whose tables were never placed are
// dropped.
func edgeCell(ids *idGen, e graph.Edge, tableCells map[schema.Identifier]string, rowCells map[schema.Identifier]map[string]string) (mxCell, bool) {
	source := tableCells[e.From]
	target := tableCells[e.To]
	if len(e.Pairs) > 0 {
		if id, ok := rowCells[e.From][strings.ToLower(e.Pairs[0].From)]; ok {
			source = id
		}
		if id, ok := rowCells[e.To][strings.ToLower(e.Pairs[0].To)]; ok {
			target = id
		}
	}
	if source == "" || target == "" {
		return mxCell{}, false
	}

	return mxCell{
		ID:       ids.next(),
		Style:    edgeStyle,
		Edge:     "1",
		Parent:   "1",
		Source:   source,
		Target:   target,
		Geometry: &mxGeometry{Relative: "1", As: "geometry"},
	}, true
}

func isPrimaryKeyColumn(t *schema.Table, column string) bool {
	if t.PrimaryKey == nil {
		return false
	}
	for _, c := range t.PrimaryKey.Columns {
		if strings.EqualFold(c, column) {
			return true
		}
	}
	return false
}

func isForeignKeyColumn(t *schema.Table, column string) bool {
	for _, fk := range t.ForeignKeys {
		for _, c := range fk.Columns {
			if strings.EqualFold(c, column) {
				return true
			}
		}
	}
	return false
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
