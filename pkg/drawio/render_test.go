package drawio_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	. "github.com/pgerd/pgerd/pkg/drawio"
	"github.com/pgerd/pgerd/pkg/graph"
	"github.com/pgerd/pgerd/pkg/layout"
	"github.com/pgerd/pgerd/pkg/schema"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/golden"
)

func snapshot(t *testing.T, files ...string) *schema.Snapshot {
	t.Helper()

	snap := schema.NewSnapshot()
	for i, src := range files {
		require.NoError(t, snap.Apply(fmt.Sprintf("%04d_test.sql", i+1), src))
	}
	snap.Freeze()
	return snap
}

// render runs the full pipeline from SQL to XML with default geometry.
func render(t *testing.T, opts Options, files ...string) []byte {
	t.Helper()

	snap := snapshot(t, files...)
	g, warnings := graph.Build(snap, nil)
	require.Empty(t, warnings)
	placements, _ := layout.Plan(snap, g, opts.Layout)
	out, err := Render(placements, g, opts)
	require.NoError(t, err)
	return out
}

func TestRenderGolden(t *testing.T) {
	t.Parallel()

	out := render(t, Options{Layout: layout.DefaultConfig()},
		`CREATE TABLE users (id uuid PRIMARY KEY);`,
		`CREATE TABLE orders (
			id uuid PRIMARY KEY,
			user_id uuid REFERENCES users (id)
		);`,
	)

	golden.Assert(t, string(out), "users_orders.drawio.golden")
}

func TestRenderShowTypes(t *testing.T) {
	t.Parallel()

	out := render(t, Options{ShowTypes: true, Layout: layout.DefaultConfig()},
		`CREATE TABLE users (id uuid PRIMARY KEY, email text);`,
	)

	require.Contains(t, string(out), `value="id (uuid)"`)
	require.Contains(t, string(out), `value="email (text)"`)
}

func TestRenderRoundTrip(t *testing.T) {
	t.Parallel()

	out := render(t, Options{Layout: layout.DefaultConfig()},
		`CREATE TABLE users (
			id uuid PRIMARY KEY,
			email text
		);`,
		`CREATE TABLE orders (
			id uuid PRIMARY KEY,
			user_id uuid REFERENCES users (id)
		);`,
		`CREATE UNIQUE INDEX users_email_key ON users (lower(email)) WHERE deleted_at IS NULL;`,
	)

	diagram, err := Parse(bytes.NewReader(out))
	require.NoError(t, err)
	require.Len(t, diagram.Tables, 2)

	users := diagram.Tables["users"]
	require.NotNil(t, users)
	require.Equal(t, []string{"id", "email"}, users.Columns)
	require.Equal(t, []string{"Unique Index on [lower(email)] where deleted_at IS NULL"}, users.NoteLines)

	orders := diagram.Tables["orders"]
	require.NotNil(t, orders)
	require.Equal(t, []string{"id", "user_id"}, orders.Columns)
	require.Equal(t, []string{"FK user_id -> users.id"}, orders.NoteLines)

	require.Equal(t, []Edge{{
		SourceTable:  "orders",
		SourceColumn: "user_id",
		TargetTable:  "users",
		TargetColumn: "id",
	}}, diagram.Edges)
}

// Relationships without a resolved target column attach to the table
// container instead of a row.
func TestRenderEdgeFallsBackToTable(t *testing.T) {
	t.Parallel()

	snap := snapshot(t,
		`CREATE TABLE users (id uuid PRIMARY KEY);`,
		`CREATE TABLE orders (id uuid PRIMARY KEY, user_id uuid);`,
	)
	g, warnings := graph.Build(snap, []graph.Override{
		{Table: "orders", RefTable: "users"},
	})
	require.Empty(t, warnings)

	placements, _ := layout.Plan(snap, g, layout.DefaultConfig())
	out, err := Render(placements, g, Options{Layout: layout.DefaultConfig()})
	require.NoError(t, err)

	diagram, err := Parse(bytes.NewReader(out))
	require.NoError(t, err)
	require.Len(t, diagram.Edges, 1)
	require.Equal(t, "orders", diagram.Edges[0].SourceTable)
	require.Equal(t, "", diagram.Edges[0].SourceColumn)
	require.Equal(t, "users", diagram.Edges[0].TargetTable)
	require.Equal(t, "", diagram.Edges[0].TargetColumn)
}

func TestRenderEmptySchema(t *testing.T) {
	t.Parallel()

	snap := snapshot(t)
	g, _ := graph.Build(snap, nil)
	out, err := Render(nil, g, Options{Layout: layout.DefaultConfig()})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(out), "<mxfile"))

	diagram, err := Parse(bytes.NewReader(out))
	require.NoError(t, err)
	require.Empty(t, diagram.Tables)
	require.Empty(t, diagram.Edges)
}
