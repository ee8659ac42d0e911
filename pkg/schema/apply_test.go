package schema_test

import (
	"fmt"
	"testing"

	. "github.com/pgerd/pgerd/pkg/schema"
	"github.com/stretchr/testify/require"
)

// build applies each source as its own migration file, in order, and
// returns the frozen snapshot.
func build(t *testing.T, files ...string) *Snapshot {
	t.Helper()

	snap := NewSnapshot()
	for i, src := range files {
		require.NoError(t, snap.Apply(fmt.Sprintf("%04d_test.sql", i+1), src))
	}
	snap.Freeze()
	return snap
}

func kinds(snap *Snapshot) []WarningKind {
	out := make([]WarningKind, 0, len(snap.Warnings()))
	for _, w := range snap.Warnings() {
		out = append(out, w.Kind)
	}
	return out
}

func TestApplyCreateTable(t *testing.T) {
	t.Parallel()

	snap := build(t, `
		CREATE TABLE users (
			id uuid PRIMARY KEY,
			email text NOT NULL UNIQUE,
			created_at timestamptz DEFAULT now()
		);
	`)

	require.Empty(t, snap.Warnings())

	tbl := snap.Table("users")
	require.NotNil(t, tbl)
	require.Len(t, tbl.Columns, 3)
	require.Equal(t, "id", tbl.Columns[0].Name)
	require.Equal(t, "uuid", tbl.Columns[0].Type)
	require.True(t, tbl.Columns[0].NotNull)
	require.Equal(t, "email", tbl.Columns[1].Name)
	require.True(t, tbl.Columns[1].NotNull)
	require.Equal(t, "timestamptz", tbl.Columns[2].Type)
	require.False(t, tbl.Columns[2].NotNull)

	require.Equal(t, "users_pkey", tbl.PrimaryKey.Name)
	require.Equal(t, []string{"id"}, tbl.PrimaryKey.Columns)
	require.True(t, tbl.IsPrimaryKey("id"))
	require.Len(t, tbl.Uniques, 1)
	require.Equal(t, "users_email_key", tbl.Uniques[0].Name)
	require.Equal(t, []string{"email"}, tbl.Uniques[0].Columns)
}

func TestApplyForeignKeys(t *testing.T) {
	t.Parallel()

	snap := build(t,
		`CREATE TABLE users (id uuid PRIMARY KEY);`,
		`CREATE TABLE orders (
			id uuid PRIMARY KEY,
			user_id uuid NOT NULL REFERENCES users (id)
		);`,
	)

	require.Empty(t, snap.Warnings())

	orders := snap.Table("orders")
	require.Len(t, orders.ForeignKeys, 1)

	fk := orders.ForeignKeys[0]
	require.Equal(t, "orders_user_id_fkey", fk.Name)
	require.Equal(t, []string{"user_id"}, fk.Columns)
	require.Equal(t, Identifier("users"), fk.RefTable)
	require.Equal(t, []string{"id"}, fk.RefColumns)
	require.Equal(t, FKResolved, fk.State)
	require.True(t, orders.IsForeignKey("user_id"))
}

func TestLateForeignKeyResolution(t *testing.T) {
	t.Parallel()

	snap := build(t,
		`CREATE TABLE orders (
			id uuid PRIMARY KEY,
			user_id uuid REFERENCES users
		);`,
		`CREATE TABLE users (id uuid PRIMARY KEY);`,
	)

	require.Empty(t, snap.Warnings())

	fk := snap.Table("orders").ForeignKeys[0]
	require.Equal(t, FKResolved, fk.State)
	require.Equal(t, []string{"id"}, fk.RefColumns)
}

func TestUnresolvedForeignKeyDropped(t *testing.T) {
	t.Parallel()

	snap := build(t, `
		CREATE TABLE orders (
			id uuid PRIMARY KEY,
			user_id uuid REFERENCES users (id)
		);
	`)

	orders := snap.Table("orders")
	require.Empty(t, orders.ForeignKeys)
	require.NotNil(t, orders.Column("user_id"))

	require.Equal(t, []WarningKind{WarningUnresolvedReference}, kinds(snap))
	require.Contains(t, snap.Warnings()[0].Reason, "users")
}

func TestCreateRenameDropRoundTrip(t *testing.T) {
	t.Parallel()

	snap := build(t,
		`CREATE TABLE widgets (id serial PRIMARY KEY);`,
		`ALTER TABLE widgets RENAME TO gadgets;`,
		`DROP TABLE gadgets;`,
	)

	require.True(t, snap.Empty())
	require.Empty(t, snap.Warnings())
}

func TestDuplicateCreateTableKeepsFirst(t *testing.T) {
	t.Parallel()

	snap := build(t,
		`CREATE TABLE users (id uuid PRIMARY KEY);`,
		`CREATE TABLE users (other text);`,
		`CREATE TABLE IF NOT EXISTS users (another text);`,
	)

	tbl := snap.Table("users")
	require.NotNil(t, tbl.Column("id"))
	require.Nil(t, tbl.Column("other"))
	require.Nil(t, tbl.Column("another"))
	require.Equal(t, []WarningKind{WarningDuplicateObject}, kinds(snap))
}

func TestAlterUnknownTableCreatesImplicitly(t *testing.T) {
	t.Parallel()

	snap := build(t,
		`ALTER TABLE audit_log ADD COLUMN id bigint;`,
		`ALTER TABLE IF EXISTS missing ADD COLUMN x int;`,
	)

	require.Empty(t, snap.Warnings())

	tbl := snap.Table("audit_log")
	require.NotNil(t, tbl)
	require.NotNil(t, tbl.Column("id"))
	require.Nil(t, snap.Table("missing"))
}

func TestAddDropColumnRestoresShape(t *testing.T) {
	t.Parallel()

	base := build(t, `CREATE TABLE users (id uuid PRIMARY KEY, email text NOT NULL);`)
	modified := build(t,
		`CREATE TABLE users (id uuid PRIMARY KEY, email text NOT NULL);`,
		`ALTER TABLE users ADD COLUMN tmp text;`,
		`ALTER TABLE users DROP COLUMN tmp;`,
	)

	require.Equal(t, base.Tables(), modified.Tables())
}

func TestReapplyIsIdempotent(t *testing.T) {
	t.Parallel()

	files := []string{
		`CREATE TABLE users (id uuid PRIMARY KEY, email text UNIQUE);`,
		`CREATE TABLE orders (id uuid PRIMARY KEY, user_id uuid REFERENCES users (id));`,
		`CREATE INDEX ON orders (user_id);`,
		`ALTER TABLE users ADD COLUMN name text;`,
	}

	first := build(t, files...)
	second := build(t, files...)

	require.Equal(t, first.Tables(), second.Tables())
	require.Equal(t, first.Indexes(), second.Indexes())
	require.Equal(t, first.Warnings(), second.Warnings())
}

func TestRenameColumnRewritesReferences(t *testing.T) {
	t.Parallel()

	snap := build(t,
		`CREATE TABLE users (id uuid PRIMARY KEY);`,
		`CREATE TABLE orders (id uuid PRIMARY KEY, user_id uuid REFERENCES users (id));`,
		`ALTER TABLE users RENAME COLUMN id TO user_uid;`,
	)

	require.Empty(t, snap.Warnings())
	require.Equal(t, []string{"user_uid"}, snap.Table("users").PrimaryKey.Columns)
	require.Equal(t, []string{"user_uid"}, snap.Table("orders").ForeignKeys[0].RefColumns)
}

func TestRenameTableRewritesReferences(t *testing.T) {
	t.Parallel()

	snap := build(t,
		`CREATE TABLE users (id uuid PRIMARY KEY);`,
		`CREATE TABLE orders (id uuid PRIMARY KEY, user_id uuid REFERENCES users (id));`,
		`CREATE INDEX users_id_idx ON users (id);`,
		`ALTER TABLE users RENAME TO customers;`,
	)

	require.Empty(t, snap.Warnings())
	require.Nil(t, snap.Table("users"))
	require.NotNil(t, snap.Table("customers"))
	require.Equal(t, Identifier("customers"), snap.Table("orders").ForeignKeys[0].RefTable)
	require.Equal(t, Identifier("customers"), snap.Index("users_id_idx").Table)
}

func TestRenameTableNameInUse(t *testing.T) {
	t.Parallel()

	snap := build(t,
		`CREATE TABLE a (id int);`,
		`CREATE TABLE b (id int);`,
		`ALTER TABLE a RENAME TO b;`,
	)

	require.NotNil(t, snap.Table("a"))
	require.NotNil(t, snap.Table("b"))
	require.Equal(t, []WarningKind{WarningDuplicateObject}, kinds(snap))
}

func TestDropTableScrubsReferences(t *testing.T) {
	t.Parallel()

	snap := build(t,
		`CREATE TABLE users (id uuid PRIMARY KEY);`,
		`CREATE TABLE orders (id uuid PRIMARY KEY, user_id uuid REFERENCES users (id));`,
		`CREATE INDEX users_id_idx ON users (id);`,
		`DROP TABLE users;`,
	)

	require.Empty(t, snap.Warnings())
	require.Nil(t, snap.Table("users"))
	require.Empty(t, snap.Table("orders").ForeignKeys)
	require.Nil(t, snap.Index("users_id_idx"))
}

func TestDropTableUnknown(t *testing.T) {
	t.Parallel()

	snap := build(t,
		`DROP TABLE IF EXISTS nothing;`,
		`DROP TABLE missing;`,
	)

	require.Equal(t, []WarningKind{WarningUnresolvedReference}, kinds(snap))
}

func TestAddConstraintViaAlter(t *testing.T) {
	t.Parallel()

	snap := build(t,
		`CREATE TABLE users (id uuid, tenant_id uuid);`,
		`CREATE TABLE orders (id uuid, user_id uuid, tenant_id uuid);`,
		`ALTER TABLE users ADD CONSTRAINT users_pk PRIMARY KEY (id, tenant_id);`,
		`ALTER TABLE orders ADD CONSTRAINT orders_users_fk FOREIGN KEY (user_id, tenant_id) REFERENCES users (id, tenant_id);`,
	)

	require.Empty(t, snap.Warnings())

	users := snap.Table("users")
	require.Equal(t, "users_pk", users.PrimaryKey.Name)
	require.Equal(t, []string{"id", "tenant_id"}, users.PrimaryKey.Columns)
	require.True(t, users.Column("id").NotNull)
	require.True(t, users.Column("tenant_id").NotNull)

	fk := snap.Table("orders").ForeignKeys[0]
	require.Equal(t, "orders_users_fk", fk.Name)
	require.Equal(t, []string{"user_id", "tenant_id"}, fk.Columns)
	require.Equal(t, []string{"id", "tenant_id"}, fk.RefColumns)
	require.Equal(t, FKResolved, fk.State)
}

func TestAlterColumnMutations(t *testing.T) {
	t.Parallel()

	snap := build(t,
		`CREATE TABLE users (id int, email text);`,
		`ALTER TABLE users ALTER COLUMN id SET DATA TYPE bigint USING id::bigint;`,
		`ALTER TABLE users ALTER COLUMN email SET NOT NULL;`,
		`ALTER TABLE users ALTER COLUMN email SET DEFAULT 'none';`,
		`ALTER TABLE users ALTER COLUMN id DROP NOT NULL;`,
	)

	require.Empty(t, snap.Warnings())

	tbl := snap.Table("users")
	require.Equal(t, "bigint", tbl.Column("id").Type)
	require.False(t, tbl.Column("id").NotNull)
	require.True(t, tbl.Column("email").NotNull)
}

func TestAlterColumnUnknownWarns(t *testing.T) {
	t.Parallel()

	snap := build(t,
		`CREATE TABLE users (id int);`,
		`ALTER TABLE users ALTER COLUMN ghost SET NOT NULL;`,
		`ALTER TABLE users ALTER COLUMN ghost SET STATISTICS 100;`,
	)

	// Only the tracked mutation warns; attribute changes pass through.
	require.Equal(t, []WarningKind{WarningUnresolvedReference}, kinds(snap))
}

func TestDropColumnRemovesForeignKey(t *testing.T) {
	t.Parallel()

	snap := build(t,
		`CREATE TABLE users (id uuid PRIMARY KEY);`,
		`CREATE TABLE orders (id uuid PRIMARY KEY, user_id uuid REFERENCES users (id));`,
		`ALTER TABLE orders DROP COLUMN user_id;`,
	)

	require.Empty(t, snap.Warnings())
	require.Empty(t, snap.Table("orders").ForeignKeys)
}

func TestDropColumnUnknown(t *testing.T) {
	t.Parallel()

	snap := build(t,
		`CREATE TABLE users (id int);`,
		`ALTER TABLE users DROP COLUMN IF EXISTS ghost;`,
		`ALTER TABLE users DROP COLUMN ghost;`,
	)

	require.Equal(t, []WarningKind{WarningUnresolvedReference}, kinds(snap))
}

func TestCreateIndexes(t *testing.T) {
	t.Parallel()

	snap := build(t,
		`CREATE TABLE users (id uuid PRIMARY KEY, email text, deleted_at timestamptz);`,
		`CREATE INDEX ON users (lower(email));`,
		`CREATE UNIQUE INDEX users_email_key ON users USING btree (email) WHERE deleted_at IS NULL;`,
	)

	require.Empty(t, snap.Warnings())
	require.Len(t, snap.Indexes(), 2)

	auto := snap.Index("users_lower_idx")
	require.NotNil(t, auto)
	require.Equal(t, []string{"lower(email)"}, auto.Elements)
	require.False(t, auto.Unique)

	named := snap.Index("USERS_EMAIL_KEY")
	require.NotNil(t, named)
	require.True(t, named.Unique)
	require.Equal(t, "btree", named.Using)
	require.Equal(t, "deleted_at IS NULL", named.Where)
	require.Equal(t, Identifier("users"), named.Table)

	require.Equal(t, []*Index{named, auto}, snap.TableIndexes("users"))
}

func TestIndexNameCollisions(t *testing.T) {
	t.Parallel()

	snap := build(t,
		`CREATE TABLE users (id uuid, email text);`,
		`CREATE INDEX ON users (email);`,
		`CREATE INDEX ON users (email);`,
		`CREATE INDEX users_email_idx ON users (id);`,
		`CREATE INDEX IF NOT EXISTS users_email_idx ON users (id);`,
	)

	// Unnamed indexes suffix their way past the taken name; a named
	// duplicate warns unless IF NOT EXISTS asked for silence.
	require.NotNil(t, snap.Index("users_email_idx"))
	require.NotNil(t, snap.Index("users_email_idx1"))
	require.Equal(t, []WarningKind{WarningDuplicateObject}, kinds(snap))
}

func TestIndexOnUnknownTable(t *testing.T) {
	t.Parallel()

	snap := build(t, `CREATE INDEX ghosts_idx ON ghosts (id);`)

	require.Empty(t, snap.Indexes())
	require.Equal(t, []WarningKind{WarningUnresolvedReference}, kinds(snap))
}

func TestDropAndRenameIndex(t *testing.T) {
	t.Parallel()

	snap := build(t,
		`CREATE TABLE users (id uuid, email text);`,
		`CREATE INDEX users_email_idx ON users (email);`,
		`CREATE INDEX users_id_idx ON users (id);`,
		`ALTER INDEX users_email_idx RENAME TO users_by_email;`,
		`ALTER INDEX users_id_idx RENAME TO users_by_email;`,
		`ALTER INDEX IF EXISTS whatever RENAME TO other;`,
		`DROP INDEX IF EXISTS gone_idx;`,
		`DROP INDEX users_by_email;`,
		`DROP INDEX really_gone;`,
	)

	require.Equal(t, []WarningKind{WarningDuplicateObject, WarningUnresolvedReference}, kinds(snap))
	require.Nil(t, snap.Index("users_email_idx"))
	require.Nil(t, snap.Index("users_by_email"))
	require.NotNil(t, snap.Index("users_id_idx"))
}

func TestColumnHintForeignKeys(t *testing.T) {
	t.Parallel()

	snap := build(t,
		`CREATE TABLE users (id uuid PRIMARY KEY);`,
		`CREATE TABLE orders (
			id uuid PRIMARY KEY,
			-- FK users(id)
			user_id uuid,
			approved_by uuid REFERENCES users (id)
		);`,
		`ALTER TABLE orders ADD COLUMN reviewer_id uuid; -- FK users(id)`,
	)

	require.Empty(t, snap.Warnings())

	orders := snap.Table("orders")
	require.Len(t, orders.ForeignKeys, 3)
	require.Equal(t, []string{"approved_by"}, orders.ForeignKeys[0].Columns)

	hinted := orders.ForeignKeys[1]
	require.Equal(t, "orders_user_id_fkey", hinted.Name)
	require.Equal(t, []string{"user_id"}, hinted.Columns)
	require.Equal(t, Identifier("users"), hinted.RefTable)
	require.Equal(t, []string{"id"}, hinted.RefColumns)
	require.Equal(t, FKResolved, hinted.State)

	require.Equal(t, []string{"reviewer_id"}, orders.ForeignKeys[2].Columns)
}

func TestColumnHintMergesWithDeclaredKey(t *testing.T) {
	t.Parallel()

	snap := build(t,
		`CREATE TABLE users (id uuid PRIMARY KEY);`,
		`CREATE TABLE orders (
			id uuid PRIMARY KEY,
			-- FK users(id)
			user_id uuid REFERENCES users
		);`,
	)

	require.Empty(t, snap.Warnings())

	orders := snap.Table("orders")
	require.Len(t, orders.ForeignKeys, 1)
	require.Equal(t, []string{"id"}, orders.ForeignKeys[0].RefColumns)
}

func TestUnrecognizedAndParseErrorWarnings(t *testing.T) {
	t.Parallel()

	snap := build(t,
		`INSERT INTO users VALUES (1);
		 CREATE TABLE users;`,
		`CREATE TABLE users (id int);`,
	)

	require.Equal(t, []WarningKind{WarningUnrecognizedStatement, WarningParseError}, kinds(snap))
	require.NotNil(t, snap.Table("users"))

	for _, w := range snap.Warnings() {
		require.Equal(t, "0001_test.sql", w.File)
		require.NotEmpty(t, w.Statement)
		require.NotEmpty(t, w.String())
	}
}

func TestQuotedIdentifiers(t *testing.T) {
	t.Parallel()

	snap := build(t,
		`CREATE TABLE "Users" ("ID" uuid PRIMARY KEY);`,
		`CREATE TABLE posts (author_id uuid REFERENCES "Users" ("ID"));`,
		`ALTER TABLE "Users" ADD COLUMN Email text;`,
	)

	require.Empty(t, snap.Warnings())

	tbl := snap.Table("Users")
	require.NotNil(t, tbl)
	require.NotNil(t, tbl.Column("ID"))
	require.NotNil(t, tbl.Column("email"))

	fk := snap.Table("posts").ForeignKeys[0]
	require.Equal(t, Identifier("Users"), fk.RefTable)
	require.Equal(t, []string{"ID"}, fk.RefColumns)
}

func TestFrozenSnapshotRejectsApply(t *testing.T) {
	t.Parallel()

	snap := build(t, `CREATE TABLE users (id int);`)

	require.True(t, snap.Frozen())
	require.Error(t, snap.Apply("0002_test.sql", `CREATE TABLE late (id int);`))
}
