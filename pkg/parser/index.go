package parser

type (
	// CreateIndexStmt represents a CREATE INDEX statement. Index elements
	// are kept as raw expression runs: plain columns, function calls and
	// operator expressions all round-trip through the same text form.
	// PostgreSQL syntax:
	//   CREATE [UNIQUE] INDEX [CONCURRENTLY] [IF NOT EXISTS] [name] ON [ONLY] table
	//     [USING method] (element [, ...])
	//     [INCLUDE (cols)] [WITH (...)] [TABLESPACE name] [WHERE predicate]
	CreateIndexStmt struct {
		Unique        bool        `parser:"'CREATE' @'UNIQUE'? 'INDEX' 'CONCURRENTLY'?"`
		IfNotExists   bool        `parser:"@('IF' 'NOT' 'EXISTS')?"`
		Name          *string     `parser:"(@(Ident | QuotedIdent) 'ON' | 'ON') 'ONLY'?"`
		Table         *TableName  `parser:"@@"`
		Using         *string     `parser:"('USING' @Ident)?"`
		NullsDistinct []string    `parser:"('NULLS' @'NOT'? @'DISTINCT')?"`
		Elements      []*TokenRun `parser:"'(' @@ (',' @@)* ')'"`
		Include       *NameList   `parser:"('INCLUDE' @@)?"`
		With          *ParenGroup `parser:"('WITH' @@)?"`
		Tablespace    *string     `parser:"('TABLESPACE' @(Ident | QuotedIdent))?"`
		Where         *TokenRun   `parser:"('WHERE' @@)?"`
		Semicolon     bool        `parser:"';'?"`
	}

	// DropIndexStmt represents a DROP INDEX statement.
	// Format: DROP INDEX [CONCURRENTLY] [IF EXISTS] name [, ...] [CASCADE | RESTRICT]
	DropIndexStmt struct {
		Concurrently bool         `parser:"'DROP' 'INDEX' @'CONCURRENTLY'?"`
		IfExists     bool         `parser:"@('IF' 'EXISTS')?"`
		Names        []*TableName `parser:"@@ (',' @@)*"`
		Behavior     string       `parser:"@('CASCADE' | 'RESTRICT')?"`
		Semicolon    bool         `parser:"';'?"`
	}

	// AlterIndexStmt represents an ALTER INDEX statement. Only renames
	// affect the schema model; every other form is consumed and dropped.
	// Format: ALTER INDEX [IF EXISTS] name {RENAME TO new | anything else}
	AlterIndexStmt struct {
		IfExists  bool       `parser:"'ALTER' 'INDEX' @('IF' 'EXISTS')?"`
		Name      *TableName `parser:"@@"`
		RenameTo  *string    `parser:"( 'RENAME' 'TO' @(Ident | QuotedIdent)"`
		Rest      *TokenRun  `parser:"| @@ )"`
		Semicolon bool       `parser:"';'?"`
	}
)

// ElementTexts returns the index elements rendered to canonical text.
func (s *CreateIndexStmt) ElementTexts() []string {
	out := make([]string, 0, len(s.Elements))
	for _, el := range s.Elements {
		out = append(out, el.String())
	}
	return out
}
