// Package parser provides a participle-based parser for the PostgreSQL DDL
// subset that matters to schema diagrams.
//
// Migration files are first split into statement spans (semicolon-delimited,
// string- and comment-aware), each span is classified by its leading
// keywords, and recognized statements are parsed into a typed AST. The
// grammar is deliberately shallow: expressions, DEFAULT values and CHECK
// bodies are consumed as balanced token runs rather than interpreted, so
// exotic SQL flows through without breaking the structural parse.
//
// Key properties:
//   - CREATE/ALTER/DROP TABLE and CREATE/ALTER/DROP INDEX coverage
//   - Statement-level error isolation: one bad statement never aborts a file
//   - FK hint comments (-- FK table(col)) captured alongside the grammar
//   - Structured errors with file and line information
//
// Basic usage:
//
//	scanner := parser.SplitStatements("0001_init.sql", src)
//	for scanner.Scan() {
//	    span := scanner.Statement()
//	    if parser.Classify(span) == parser.KindUnrecognized {
//	        continue
//	    }
//	    stmt, err := parser.ParseStatement(span)
//	    ...
//	}
package parser
