package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateIndex(t *testing.T) {
	t.Parallel()

	t.Run("basic", func(t *testing.T) {
		t.Parallel()

		stmt := mustParse(t, "CREATE INDEX users_email_idx ON users (email);").CreateIndex
		require.NotNil(t, stmt)
		require.False(t, stmt.Unique)
		require.Equal(t, "users_email_idx", *stmt.Name)
		require.Equal(t, "users", stmt.Table.String())
		require.Equal(t, []string{"email"}, stmt.ElementTexts())
		require.Nil(t, stmt.Where)
	})

	t.Run("unnamed", func(t *testing.T) {
		t.Parallel()

		stmt := mustParse(t, "CREATE INDEX ON users (email);").CreateIndex
		require.NotNil(t, stmt)
		require.Nil(t, stmt.Name)
		require.Equal(t, "users", stmt.Table.String())
	})

	t.Run("full options", func(t *testing.T) {
		t.Parallel()

		stmt := mustParse(t, `CREATE UNIQUE INDEX CONCURRENTLY IF NOT EXISTS active_emails
			ON app.users USING btree (lower(email) varchar_pattern_ops, created_at DESC NULLS LAST)
			WHERE deleted_at IS NULL;`).CreateIndex
		require.NotNil(t, stmt)
		require.True(t, stmt.Unique)
		require.True(t, stmt.IfNotExists)
		require.Equal(t, "active_emails", *stmt.Name)
		require.Equal(t, "app.users", stmt.Table.String())
		require.Equal(t, "btree", *stmt.Using)
		require.Equal(t, []string{
			"lower(email) varchar_pattern_ops",
			"created_at DESC NULLS LAST",
		}, stmt.ElementTexts())
		require.Equal(t, "deleted_at IS NULL", stmt.Where.String())
	})

	t.Run("expression element", func(t *testing.T) {
		t.Parallel()

		stmt := mustParse(t, "CREATE INDEX ON t ((a + b));").CreateIndex
		require.NotNil(t, stmt)
		require.Equal(t, []string{"(a + b)"}, stmt.ElementTexts())
	})

	t.Run("gin with include and storage", func(t *testing.T) {
		t.Parallel()

		stmt := mustParse(t, `CREATE UNIQUE INDEX orders_no_key ON orders (order_no)
			INCLUDE (status) WITH (fillfactor = 90) TABLESPACE fast;`).CreateIndex
		require.NotNil(t, stmt)
		require.NotNil(t, stmt.Include)
		require.Equal(t, []string{"status"}, stmt.Include.Names)
		require.NotNil(t, stmt.With)
		require.Equal(t, "fast", *stmt.Tablespace)

		stmt = mustParse(t, "CREATE INDEX ON events USING gin (payload jsonb_path_ops);").CreateIndex
		require.NotNil(t, stmt)
		require.Equal(t, "gin", *stmt.Using)
	})
}

func TestDropIndex(t *testing.T) {
	t.Parallel()

	stmt := mustParse(t, "DROP INDEX CONCURRENTLY IF EXISTS users_email_idx, app.orders_idx CASCADE;").DropIndex
	require.NotNil(t, stmt)
	require.True(t, stmt.Concurrently)
	require.True(t, stmt.IfExists)
	require.Len(t, stmt.Names, 2)
	require.Equal(t, "users_email_idx", stmt.Names[0].String())
	require.Equal(t, "app.orders_idx", stmt.Names[1].String())
	require.Equal(t, "CASCADE", stmt.Behavior)
}

func TestAlterIndex(t *testing.T) {
	t.Parallel()

	stmt := mustParse(t, "ALTER INDEX IF EXISTS users_email_idx RENAME TO users_email_key;").AlterIndex
	require.NotNil(t, stmt)
	require.True(t, stmt.IfExists)
	require.Equal(t, "users_email_idx", stmt.Name.String())
	require.Equal(t, "users_email_key", *stmt.RenameTo)

	stmt = mustParse(t, "ALTER INDEX big_idx SET TABLESPACE slow;").AlterIndex
	require.NotNil(t, stmt)
	require.Nil(t, stmt.RenameTo)
	require.NotNil(t, stmt.Rest)
}
