package parser

import (
	"regexp"
	"strings"
)

// FKHint is a foreign-key candidate declared in a line comment next to a
// column definition, for relationships the migrations never declare as
// real constraints.
// Format: -- FK [schema.]table(col [, ...])
type FKHint struct {
	Table   string
	Columns []string
}

var fkHintRe = regexp.MustCompile(`(?i)^--+\s*FK\s+([\w".]+)\s*\(\s*([^)]*?)\s*\)\s*$`)

// parseFKHint extracts a hint from one line comment. Comments that do not
// match the hint shape are ignored.
func parseFKHint(comment string) (FKHint, bool) {
	m := fkHintRe.FindStringSubmatch(strings.TrimSpace(comment))
	if m == nil {
		return FKHint{}, false
	}

	var cols []string
	for _, c := range strings.Split(m[2], ",") {
		if c = strings.TrimSpace(c); c != "" {
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		return FKHint{}, false
	}

	return FKHint{Table: m[1], Columns: cols}, true
}

// hintCollector attaches hint comments to columns by position: a comment
// on the same line as a column definition annotates that column, a comment
// on its own line annotates the next column. Hints with no column to land
// on are dropped.
type hintCollector struct {
	hints   map[string][]FKHint
	prev    *hintAnchor
	pending []FKHint
}

type hintAnchor struct {
	name string
	line int
}

func newHintCollector() *hintCollector {
	return &hintCollector{hints: map[string][]FKHint{}}
}

func (h *hintCollector) comment(c *CommentToken) {
	hint, ok := parseFKHint(c.Value)
	if !ok {
		return
	}
	if h.prev != nil && c.Pos.Line == h.prev.line {
		h.hints[h.prev.name] = append(h.hints[h.prev.name], hint)
		return
	}
	h.pending = append(h.pending, hint)
}

func (h *hintCollector) column(def *ColumnDef) {
	h.hints[def.Name] = append(h.hints[def.Name], h.pending...)
	h.pending = nil
	h.prev = &hintAnchor{name: def.Name, line: def.EndPos.Line}
}

func (h *hintCollector) result() map[string][]FKHint {
	out := map[string][]FKHint{}
	for name, hints := range h.hints {
		if len(hints) > 0 {
			out[name] = hints
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ColumnHints returns FK hints found in the statement's comments, keyed by
// the raw name of the column each hint annotates.
func (s *CreateTableStmt) ColumnHints() map[string][]FKHint {
	hc := newHintCollector()
	for _, el := range s.Elements {
		for _, c := range el.Leading {
			hc.comment(c)
		}
		if el.Column != nil {
			hc.column(el.Column)
		}
		for _, c := range el.Trailing {
			hc.comment(c)
		}
	}
	for _, c := range s.Trailing {
		hc.comment(c)
	}

	return hc.result()
}

// ColumnHints returns FK hints attached to columns added by this
// statement's ADD COLUMN actions.
func (s *AlterTableStmt) ColumnHints() map[string][]FKHint {
	hc := newHintCollector()
	for _, action := range s.Actions {
		for _, c := range action.Leading {
			hc.comment(c)
		}
		if action.AddColumn != nil {
			hc.column(action.AddColumn.Def)
		}
		for _, c := range action.Trailing {
			hc.comment(c)
		}
	}
	for _, c := range s.Trailing {
		hc.comment(c)
	}

	return hc.result()
}
