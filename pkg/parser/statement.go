package parser

import "fmt"

type (
	// Statement represents any supported DDL statement. Exactly one field
	// is non-nil after a successful parse; consumers switch on that field,
	// so adding a statement kind extends the switch at compile time.
	Statement struct {
		CreateTable *CreateTableStmt `parser:"@@"`
		CreateIndex *CreateIndexStmt `parser:"| @@"`
		AlterTable  *AlterTableStmt  `parser:"| @@"`
		AlterIndex  *AlterIndexStmt  `parser:"| @@"`
		DropTable   *DropTableStmt   `parser:"| @@"`
		DropIndex   *DropIndexStmt   `parser:"| @@"`
	}
)

// ParseError reports a statement of a recognized kind that could not be
// structurally parsed. The statement is skipped and processing continues;
// the error is surfaced to callers for warning collection.
type ParseError struct {
	File      string
	Line      int
	Statement string
	Reason    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Reason }

// ParseStatement parses a single statement span into its structured form.
// Errors are always *ParseError values carrying the originating file, the
// statement text, and the underlying parser failure.
func ParseStatement(span Span) (*Statement, error) {
	stmt, err := statementParser.ParseString(span.File, span.Text)
	if err != nil {
		return nil, &ParseError{File: span.File, Line: span.Line, Statement: span.Text, Reason: err}
	}

	return stmt, nil
}
