package parser

import "github.com/alecthomas/participle/v2/lexer"

type (
	// CreateTableStmt represents a CREATE TABLE statement.
	// PostgreSQL syntax:
	//   CREATE [[GLOBAL | LOCAL] TEMP | TEMPORARY | UNLOGGED] TABLE [IF NOT EXISTS] [schema.]table_name (
	//     column_name type [column_constraint ...],
	//     ...
	//     [CONSTRAINT name] PRIMARY KEY (cols) | UNIQUE (cols) | FOREIGN KEY (cols) REFERENCES ... | CHECK (...),
	//     ...
	//   )
	//   [INHERITS (...)] [PARTITION BY ...] [WITH (...)] [TABLESPACE name]
	CreateTableStmt struct {
		Temporary   bool            `parser:"'CREATE' (('GLOBAL' | 'LOCAL')? @('TEMP' | 'TEMPORARY') | 'UNLOGGED')? 'TABLE'"`
		IfNotExists bool            `parser:"@('IF' 'NOT' 'EXISTS')?"`
		Name        *TableName      `parser:"@@"`
		Elements    []*TableElement `parser:"'(' (@@ (',' @@)*)? ')'"`
		Options     *TokenRun       `parser:"@@?"`
		Semicolon   bool            `parser:"';'?"`
		Trailing    []*CommentToken `parser:"@@*"`
	}

	// TableElement represents one comma-separated entry of a CREATE TABLE
	// body: a column definition, a table-level constraint, or a LIKE
	// clause. Comments around elements are kept for FK hint extraction.
	TableElement struct {
		Leading    []*CommentToken  `parser:"@@*"`
		Constraint *TableConstraint `parser:"( @@"`
		Like       *TokenRun        `parser:"| 'LIKE' @@"`
		Column     *ColumnDef       `parser:"| @@ )"`
		Trailing   []*CommentToken  `parser:"@@*"`
	}

	// ColumnDef represents a column definition.
	// Format: name type [constraint ...]
	ColumnDef struct {
		Pos         lexer.Position
		EndPos      lexer.Position
		Name        string              `parser:"@(Ident | QuotedIdent)"`
		Type        *ColumnType         `parser:"@@"`
		Constraints []*ColumnConstraint `parser:"@@*"`
	}

	// ColumnConstraint represents a single column-level constraint or
	// attribute. Constraints the schema model does not track (CHECK,
	// DEFAULT, COLLATE, identity options) are still consumed so the rest
	// of the column parses.
	ColumnConstraint struct {
		Name       *string          `parser:"('CONSTRAINT' @(Ident | QuotedIdent))?"`
		NotNull    bool             `parser:"( @('NOT' 'NULL')"`
		Null       bool             `parser:"| @'NULL'"`
		PrimaryKey bool             `parser:"| @('PRIMARY' 'KEY')"`
		Unique     bool             `parser:"| @'UNIQUE'"`
		Default    *DefaultValue    `parser:"| 'DEFAULT' @@"`
		References *RefClause       `parser:"| 'REFERENCES' @@"`
		Check      *ParenGroup      `parser:"| 'CHECK' @@"`
		NoInherit  bool             `parser:"| @('NO' 'INHERIT')"`
		Generated  *GeneratedClause `parser:"| @@"`
		Collate    *TableName       `parser:"| 'COLLATE' @@"`
		Deferred   []string         `parser:"| @('NOT'? 'DEFERRABLE') | 'INITIALLY' @('DEFERRED' | 'IMMEDIATE') )"`
	}

	// GeneratedClause represents GENERATED column clauses, both identity
	// and computed variants.
	// Format: GENERATED {ALWAYS | BY DEFAULT} AS {IDENTITY [(options)] | (expr) STORED}
	GeneratedClause struct {
		ByDefault bool        `parser:"'GENERATED' ('ALWAYS' | @('BY' 'DEFAULT')) 'AS'"`
		Identity  bool        `parser:"( @'IDENTITY'"`
		Expr      *ParenGroup `parser:"| @@ )"`
		Options   *ParenGroup `parser:"( @@"`
		Stored    bool        `parser:"| @'STORED' )?"`
	}

	// RefClause represents the target side of a REFERENCES constraint.
	// Format: [schema.]table [(col [, ...])] [MATCH kind] [ON DELETE action] [ON UPDATE action]
	RefClause struct {
		Table   *TableName   `parser:"@@"`
		Columns *NameList    `parser:"@@?"`
		Actions []*RefAction `parser:"@@*"`
	}

	// RefAction represents one MATCH or ON DELETE/UPDATE clause of a
	// REFERENCES constraint. Actions do not affect the schema model but
	// must be consumed.
	RefAction struct {
		Match string   `parser:"'MATCH' @Ident"`
		Event string   `parser:"| 'ON' @('DELETE' | 'UPDATE')"`
		Do    []string `parser:"@('CASCADE' | 'RESTRICT' | 'SET' 'NULL' | 'SET' 'DEFAULT' | 'NO' 'ACTION')"`
	}

	// TableConstraint represents a table-level constraint entry.
	// Format: [CONSTRAINT name] {PRIMARY KEY (cols) | UNIQUE (cols) | FOREIGN KEY (cols) REFERENCES ... | CHECK (...) | EXCLUDE ...}
	TableConstraint struct {
		Name       *string     `parser:"('CONSTRAINT' @(Ident | QuotedIdent))?"`
		PrimaryKey *NameList   `parser:"( 'PRIMARY' 'KEY' @@"`
		Unique     *NameList   `parser:"| 'UNIQUE' @@"`
		ForeignKey *FKClause   `parser:"| 'FOREIGN' 'KEY' @@"`
		Check      *ParenGroup `parser:"| 'CHECK' @@"`
		Exclude    *TokenRun   `parser:"| 'EXCLUDE' @@ )"`
		Rest       *TokenRun   `parser:"@@?"`
	}

	// FKClause represents the column pairing of a table-level FOREIGN KEY.
	// Format: (cols) REFERENCES [schema.]table [(cols)] [actions]
	FKClause struct {
		Columns *NameList  `parser:"@@"`
		Ref     *RefClause `parser:"'REFERENCES' @@"`
	}

	// AlterTableStmt represents an ALTER TABLE statement with one or more
	// comma-separated actions applied in order.
	// PostgreSQL syntax:
	//   ALTER TABLE [IF EXISTS] [ONLY] name action [, action ...]
	AlterTableStmt struct {
		IfExists  bool            `parser:"'ALTER' 'TABLE' @('IF' 'EXISTS')? 'ONLY'?"`
		Name      *TableName      `parser:"@@"`
		Actions   []*AlterAction  `parser:"@@ (',' @@)*"`
		Semicolon bool            `parser:"';'?"`
		Trailing  []*CommentToken `parser:"@@*"`
	}

	// AlterAction represents one action of an ALTER TABLE statement.
	// Recognized actions map onto schema mutations; anything else (OWNER
	// TO, SET SCHEMA, VALIDATE CONSTRAINT, trigger toggles) falls through
	// to Skipped and is dropped.
	AlterAction struct {
		Leading          []*CommentToken   `parser:"@@*"`
		AddConstraint    *TableConstraint  `parser:"( 'ADD' ( @@"`
		AddColumn        *AddColumn        `parser:"| @@ )"`
		DropConstraint   *DropConstraint   `parser:"| 'DROP' ( 'CONSTRAINT' @@"`
		DropColumn       *DropColumn       `parser:"| @@ )"`
		RenameConstraint *RenameConstraint `parser:"| 'RENAME' ( 'CONSTRAINT' @@"`
		RenameTo         *string           `parser:"| 'TO' @(Ident | QuotedIdent)"`
		RenameColumn     *RenameColumn     `parser:"| @@ )"`
		AlterColumn      *AlterColumn      `parser:"| 'ALTER' 'COLUMN'? @@"`
		Skipped          *TokenRun         `parser:"| @@ )"`
		Trailing         []*CommentToken   `parser:"@@*"`
	}

	// AddColumn represents ALTER TABLE ... ADD [COLUMN] [IF NOT EXISTS] definition.
	AddColumn struct {
		IfNotExists bool       `parser:"'COLUMN'? @('IF' 'NOT' 'EXISTS')?"`
		Def         *ColumnDef `parser:"@@"`
	}

	// DropColumn represents ALTER TABLE ... DROP [COLUMN] [IF EXISTS] name [CASCADE | RESTRICT].
	DropColumn struct {
		IfExists bool   `parser:"'COLUMN'? @('IF' 'EXISTS')?"`
		Name     string `parser:"@(Ident | QuotedIdent)"`
		Behavior string `parser:"@('CASCADE' | 'RESTRICT')?"`
	}

	// DropConstraint represents ALTER TABLE ... DROP CONSTRAINT [IF EXISTS] name.
	DropConstraint struct {
		IfExists bool   `parser:"@('IF' 'EXISTS')?"`
		Name     string `parser:"@(Ident | QuotedIdent)"`
		Behavior string `parser:"@('CASCADE' | 'RESTRICT')?"`
	}

	// RenameColumn represents ALTER TABLE ... RENAME [COLUMN] old TO new.
	RenameColumn struct {
		From string `parser:"'COLUMN'? @(Ident | QuotedIdent)"`
		To   string `parser:"'TO' @(Ident | QuotedIdent)"`
	}

	// RenameConstraint represents ALTER TABLE ... RENAME CONSTRAINT old TO new.
	RenameConstraint struct {
		From string `parser:"@(Ident | QuotedIdent)"`
		To   string `parser:"'TO' @(Ident | QuotedIdent)"`
	}

	// AlterColumn represents ALTER TABLE ... ALTER [COLUMN] name action.
	// Type changes and nullability flips mutate the schema; SET DEFAULT,
	// SET STATISTICS and friends are consumed and dropped.
	AlterColumn struct {
		Name        string        `parser:"@(Ident | QuotedIdent)"`
		Type        *ColumnType   `parser:"( ('SET' 'DATA')? 'TYPE' @@"`
		Using       *TokenRun     `parser:"('USING' @@)?"`
		SetNotNull  bool          `parser:"| 'SET' ( @('NOT' 'NULL')"`
		SetDefault  *DefaultValue `parser:"| 'DEFAULT' @@"`
		SetRest     *TokenRun     `parser:"| @@ )"`
		DropNotNull bool          `parser:"| 'DROP' ( @('NOT' 'NULL')"`
		DropRest    *TokenRun     `parser:"| @@ )"`
		Rest        *TokenRun     `parser:"| @@ )"`
	}

	// DropTableStmt represents a DROP TABLE statement.
	// Format: DROP TABLE [IF EXISTS] name [, ...] [CASCADE | RESTRICT]
	DropTableStmt struct {
		IfExists  bool         `parser:"'DROP' 'TABLE' @('IF' 'EXISTS')?"`
		Names     []*TableName `parser:"@@ (',' @@)*"`
		Behavior  string       `parser:"@('CASCADE' | 'RESTRICT')?"`
		Semicolon bool         `parser:"';'?"`
	}
)

// IsPrimaryKey reports whether the column carries an inline PRIMARY KEY
// marker.
func (c *ColumnDef) IsPrimaryKey() bool {
	for _, con := range c.Constraints {
		if con.PrimaryKey {
			return true
		}
	}
	return false
}

// IsUnique reports whether the column carries an inline UNIQUE marker.
func (c *ColumnDef) IsUnique() bool {
	for _, con := range c.Constraints {
		if con.Unique {
			return true
		}
	}
	return false
}

// IsNotNull reports whether the column carries an inline NOT NULL marker.
// PRIMARY KEY implying NOT NULL is the schema layer's business, not the
// grammar's.
func (c *ColumnDef) IsNotNull() bool {
	for _, con := range c.Constraints {
		if con.NotNull {
			return true
		}
	}
	return false
}

// Ref returns the column's inline REFERENCES clause, or nil.
func (c *ColumnDef) Ref() *RefClause {
	for _, con := range c.Constraints {
		if con.References != nil {
			return con.References
		}
	}
	return nil
}

// Columns returns the column definitions of the CREATE TABLE body in
// declaration order.
func (s *CreateTableStmt) Columns() []*ColumnDef {
	var cols []*ColumnDef
	for _, el := range s.Elements {
		if el.Column != nil {
			cols = append(cols, el.Column)
		}
	}
	return cols
}

// Constraints returns the table-level constraints of the CREATE TABLE
// body in declaration order.
func (s *CreateTableStmt) Constraints() []*TableConstraint {
	var cons []*TableConstraint
	for _, el := range s.Elements {
		if el.Constraint != nil {
			cons = append(cons, el.Constraint)
		}
	}
	return cons
}
