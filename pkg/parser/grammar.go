package parser

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

type (
	// TableName represents a possibly schema-qualified, possibly quoted
	// table name. Quotes are preserved here; normalization happens when the
	// name is turned into a schema identifier.
	// Format: [schema.]name
	TableName struct {
		Parts []string `parser:"@(Ident | QuotedIdent) ('.' @(Ident | QuotedIdent))*"`
	}

	// NameList is a parenthesized, comma-separated list of column names.
	// Format: (name [, ...])
	NameList struct {
		Names []string `parser:"'(' @(Ident | QuotedIdent) (',' @(Ident | QuotedIdent))* ')'"`
	}

	// ParenGroup consumes a balanced parenthesized token group without
	// interpreting it. Used to step over sub-clauses the schema model does
	// not need (sequence options, storage parameters, CHECK bodies).
	ParenGroup struct {
		Parts []*GroupPart `parser:"'(' @@* ')'"`
	}

	// BracketGroup consumes a balanced bracketed token group, e.g. array
	// type suffixes and array literals.
	BracketGroup struct {
		Parts []*GroupPart `parser:"'[' @@* ']'"`
	}

	// GroupPart is one token or nested group inside a balanced group.
	GroupPart struct {
		Paren   *ParenGroup   `parser:"@@"`
		Bracket *BracketGroup `parser:"| @@"`
		Token   *string       `parser:"| @(~('(' | ')' | '[' | ']'))"`
	}

	// TokenRun is a flat token run that stops at the enclosing statement
	// structure: a top-level comma, closing paren, or the end of the
	// statement. Groups keep nested commas and parens from ending the run.
	TokenRun struct {
		Parts []*RunPart `parser:"@@+"`
	}

	// RunPart is one token or balanced group inside a TokenRun.
	RunPart struct {
		Paren   *ParenGroup   `parser:"@@"`
		Bracket *BracketGroup `parser:"| @@"`
		Token   *string       `parser:"| @(~(',' | '(' | ')' | '[' | ']' | ';'))"`
	}

	// ColumnType is a column's declared type, kept as raw token text. Type
	// names run until the first constraint keyword, mirroring how types are
	// written in practice: multi-word names (character varying, timestamp
	// with time zone), parametric arguments, and array suffixes all fold
	// into one canonical string.
	ColumnType struct {
		Name  string       `parser:"@Ident"`
		Parts []*ValuePart `parser:"@@*"`
	}

	// ValuePart is one token or balanced group of an uninterpreted value,
	// ending at constraint keywords or statement structure. It backs both
	// type names and DEFAULT expressions.
	ValuePart struct {
		Paren   *ParenGroup   `parser:"@@"`
		Bracket *BracketGroup `parser:"| @@"`
		Token   *string       `parser:"| @(~('NOT' | 'NULL' | 'PRIMARY' | 'UNIQUE' | 'REFERENCES' | 'CHECK' | 'CONSTRAINT' | 'DEFAULT' | 'GENERATED' | 'COLLATE' | 'AS' | ',' | '(' | ')' | '[' | ']' | ';'))"`
	}

	// DefaultValue captures a DEFAULT expression far enough to skip it.
	// The leading NULL alternative exists because NULL is otherwise a stop
	// keyword for value runs, and pg_dump likes DEFAULT NULL::type.
	DefaultValue struct {
		Null  bool         `parser:"( @'NULL'"`
		Parts []*ValuePart `parser:"@@* | @@+ )"`
	}

	// CommentToken captures a line comment with its source position, so
	// hint comments can be matched to the column on their line.
	CommentToken struct {
		Pos   lexer.Position
		Value string `parser:"@Comment"`
	}
)

func (t *TableName) String() string {
	return strings.Join(t.Parts, ".")
}

func (g *ParenGroup) tokens() []string {
	out := []string{"("}
	for _, p := range g.Parts {
		out = append(out, p.tokens()...)
	}
	return append(out, ")")
}

func (g *BracketGroup) tokens() []string {
	out := []string{"["}
	for _, p := range g.Parts {
		out = append(out, p.tokens()...)
	}
	return append(out, "]")
}

func (p *GroupPart) tokens() []string {
	switch {
	case p.Paren != nil:
		return p.Paren.tokens()
	case p.Bracket != nil:
		return p.Bracket.tokens()
	case p.Token != nil:
		return []string{*p.Token}
	}
	return nil
}

func (p *RunPart) tokens() []string {
	switch {
	case p.Paren != nil:
		return p.Paren.tokens()
	case p.Bracket != nil:
		return p.Bracket.tokens()
	case p.Token != nil:
		return []string{*p.Token}
	}
	return nil
}

func (p *ValuePart) tokens() []string {
	switch {
	case p.Paren != nil:
		return p.Paren.tokens()
	case p.Bracket != nil:
		return p.Bracket.tokens()
	case p.Token != nil:
		return []string{*p.Token}
	}
	return nil
}

// String renders the run as canonical text: single spaces between words,
// tight punctuation, call-style parens. The result is deterministic for a
// given token sequence regardless of source formatting.
func (r *TokenRun) String() string {
	var tokens []string
	for _, p := range r.Parts {
		tokens = append(tokens, p.tokens()...)
	}
	return joinTokens(tokens)
}

func (t *ColumnType) String() string {
	tokens := []string{t.Name}
	for _, p := range t.Parts {
		tokens = append(tokens, p.tokens()...)
	}
	return joinTokens(tokens)
}

// joinTokens renders a token sequence with canonical spacing: no space
// around dots and casts, none before closing or after opening brackets, and
// call-style attachment of ( and [ to a preceding word.
func joinTokens(tokens []string) string {
	var b strings.Builder
	prev := ""
	for i, tok := range tokens {
		if i > 0 && needSpace(prev, tok) {
			b.WriteByte(' ')
		}
		b.WriteString(tok)
		prev = tok
	}
	return b.String()
}

func needSpace(prev, next string) bool {
	switch next {
	case ",", ")", "]", ".", "::", ";":
		return false
	}
	switch prev {
	case "(", "[", ".", "::":
		return false
	}
	if next == "(" || next == "[" {
		return !wordLike(prev)
	}
	return true
}

func wordLike(s string) bool {
	if s == ")" || s == "]" {
		return true
	}
	if s == "" {
		return false
	}
	c := s[0]
	return c == '_' || c == '"' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
