package parser

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// postgresLexer defines the lexer for the PostgreSQL DDL subset. The same
// token rules back the statement splitter, the classifier, and the grammar,
// so semicolons inside strings, comments, and dollar-quoted bodies are never
// mistaken for statement boundaries.
//
// The trailing AnyChar rule keeps the lexer total: characters outside the
// supported operator set (custom operators, positional parameters) lex as
// single throwaway tokens instead of failing the whole file. Statements that
// depend on them fail at parse time, one statement at a time.
var postgresLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `--[^\r\n]*`},
	{Name: "MultilineComment", Pattern: `/\*[^*]*\*+([^/*][^*]*\*+)*/`},
	{Name: "String", Pattern: `'([^']|'')*'`},
	{Name: "DollarString", Pattern: `(?s)\$\$.*?\$\$`},
	{Name: "QuotedIdent", Pattern: `"([^"]|"")*"`},
	{Name: "Number", Pattern: `\d+(\.\d*)?`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "NotEq", Pattern: `!=|<>`},
	{Name: "LtEq", Pattern: `<=`},
	{Name: "GtEq", Pattern: `>=`},
	{Name: "Cast", Pattern: `::`},
	{Name: "Concat", Pattern: `\|\|`},
	{Name: "Punct", Pattern: `[(),.;=+\-*/%<>\[\]!:]`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "AnyChar", Pattern: `.`},
})

// statementParser is the participle parser instance for single DDL statements.
// Comments are elided everywhere except the explicit capture points that carry
// foreign key hints.
var statementParser = participle.MustBuild[Statement](
	participle.Lexer(postgresLexer),
	participle.Elide("Comment", "MultilineComment", "Whitespace"),
	participle.CaseInsensitive("Ident"),
	participle.UseLookahead(4),
)
