package parser_test

import (
	"testing"

	. "github.com/pgerd/pgerd/pkg/parser"
	"github.com/stretchr/testify/require"
)

// mustParse splits sql into exactly one span and parses it, failing the
// test on any error along the way.
func mustParse(t *testing.T, sql string) *Statement {
	t.Helper()

	sc := SplitStatements("test.sql", sql)
	require.True(t, sc.Scan(), "expected one statement in %q", sql)
	span := sc.Statement()
	require.NoError(t, sc.Err())

	stmt, err := ParseStatement(span)
	require.NoError(t, err)
	return stmt
}

// mustCreateTable parses sql and requires it to be a CREATE TABLE statement.
func mustCreateTable(t *testing.T, sql string) *CreateTableStmt {
	t.Helper()

	stmt := mustParse(t, sql)
	require.NotNil(t, stmt.CreateTable)
	return stmt.CreateTable
}

// mustAlterTable parses sql and requires it to be an ALTER TABLE statement.
func mustAlterTable(t *testing.T, sql string) *AlterTableStmt {
	t.Helper()

	stmt := mustParse(t, sql)
	require.NotNil(t, stmt.AlterTable)
	return stmt.AlterTable
}

// scanAll collects every span the scanner produces.
func scanAll(t *testing.T, file, src string) []Span {
	t.Helper()

	var spans []Span
	sc := SplitStatements(file, src)
	for sc.Scan() {
		spans = append(spans, sc.Statement())
	}
	require.NoError(t, sc.Err())
	return spans
}
