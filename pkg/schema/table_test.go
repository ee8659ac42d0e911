package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddColumnReplacesInPlace(t *testing.T) {
	t.Parallel()

	tbl := &Table{Name: "users"}
	tbl.addColumn(&Column{Name: "id", Type: "integer"})
	tbl.addColumn(&Column{Name: "email", Type: "text"})
	tbl.addColumn(&Column{Name: "ID", Type: "bigint", NotNull: true})

	require.Len(t, tbl.Columns, 2)
	require.Equal(t, "ID", tbl.Columns[0].Name)
	require.Equal(t, "bigint", tbl.Columns[0].Type)
	require.True(t, tbl.Columns[0].NotNull)
	require.Equal(t, "email", tbl.Columns[1].Name)
}

func TestDropColumnCascades(t *testing.T) {
	t.Parallel()

	tbl := &Table{
		Name: "orders",
		Columns: []*Column{
			{Name: "id"}, {Name: "tenant_id"}, {Name: "user_id"}, {Name: "email"},
		},
		PrimaryKey: &PrimaryKey{Name: "orders_pkey", Columns: []string{"id", "tenant_id"}},
		Uniques: []*UniqueConstraint{
			{Name: "orders_email_key", Columns: []string{"email"}},
		},
		ForeignKeys: []*ForeignKey{
			{
				Name:       "orders_user_id_fkey",
				Columns:    []string{"tenant_id", "user_id"},
				RefTable:   "users",
				RefColumns: []string{"tenant_id", "id"},
			},
		},
	}

	require.True(t, tbl.dropColumn("tenant_id"))
	require.Equal(t, []string{"id"}, tbl.PrimaryKey.Columns)
	require.Equal(t, []string{"user_id"}, tbl.ForeignKeys[0].Columns)
	require.Equal(t, []string{"id"}, tbl.ForeignKeys[0].RefColumns)

	require.True(t, tbl.dropColumn("email"))
	require.Empty(t, tbl.Uniques)

	require.True(t, tbl.dropColumn("user_id"))
	require.Empty(t, tbl.ForeignKeys)

	require.True(t, tbl.dropColumn("id"))
	require.Nil(t, tbl.PrimaryKey)
	require.Empty(t, tbl.Columns)

	require.False(t, tbl.dropColumn("missing"))
}

func TestRenameColumnRewritesLocalReferences(t *testing.T) {
	t.Parallel()

	tbl := &Table{
		Name:       "categories",
		Columns:    []*Column{{Name: "id"}, {Name: "parent_id"}},
		PrimaryKey: &PrimaryKey{Name: "categories_pkey", Columns: []string{"id"}},
		Uniques:    []*UniqueConstraint{{Name: "categories_id_key", Columns: []string{"id"}}},
		ForeignKeys: []*ForeignKey{
			{Name: "categories_parent_id_fkey", Columns: []string{"parent_id"}, RefTable: "categories", RefColumns: []string{"id"}},
			{Name: "categories_owner_fkey", Columns: []string{"id"}, RefTable: "users", RefColumns: []string{"id"}},
		},
	}

	require.True(t, tbl.renameColumn("id", "category_id"))
	require.Equal(t, "category_id", tbl.Columns[0].Name)
	require.Equal(t, []string{"category_id"}, tbl.PrimaryKey.Columns)
	require.Equal(t, []string{"category_id"}, tbl.Uniques[0].Columns)

	// The self reference follows the rename on both sides; the key into
	// users only on the local side.
	require.Equal(t, []string{"category_id"}, tbl.ForeignKeys[0].RefColumns)
	require.Equal(t, []string{"category_id"}, tbl.ForeignKeys[1].Columns)
	require.Equal(t, []string{"id"}, tbl.ForeignKeys[1].RefColumns)

	require.False(t, tbl.renameColumn("missing", "other"))
}

func TestSetPrimaryKeyGeneratesName(t *testing.T) {
	t.Parallel()

	tbl := &Table{Name: "public.users", Columns: []*Column{{Name: "id"}}}
	tbl.setPrimaryKey([]string{"id"}, "")

	require.Equal(t, "users_pkey", tbl.PrimaryKey.Name)
	require.Equal(t, []string{"id"}, tbl.PrimaryKey.Columns)
	require.True(t, tbl.Columns[0].NotNull)

	tbl.setPrimaryKey([]string{"id"}, "users_pk")
	require.Equal(t, "users_pk", tbl.PrimaryKey.Name)
}

func TestAppendPrimaryKeyExtends(t *testing.T) {
	t.Parallel()

	tbl := &Table{Name: "events", Columns: []*Column{{Name: "id"}, {Name: "tenant_id"}}}

	tbl.appendPrimaryKey("id", "")
	require.Equal(t, "events_pkey", tbl.PrimaryKey.Name)
	require.Equal(t, []string{"id"}, tbl.PrimaryKey.Columns)

	tbl.appendPrimaryKey("tenant_id", "")
	require.Equal(t, []string{"id", "tenant_id"}, tbl.PrimaryKey.Columns)
	require.True(t, tbl.Columns[1].NotNull)

	tbl.appendPrimaryKey("ID", "")
	require.Equal(t, []string{"id", "tenant_id"}, tbl.PrimaryKey.Columns)
}

func TestAddUniqueDeduplicates(t *testing.T) {
	t.Parallel()

	tbl := &Table{Name: "users", Columns: []*Column{{Name: "email"}}}

	tbl.addUnique([]string{"email"}, "")
	require.Len(t, tbl.Uniques, 1)
	require.Equal(t, "users_email_key", tbl.Uniques[0].Name)

	tbl.addUnique([]string{"EMAIL"}, "uq_users_email")
	require.Len(t, tbl.Uniques, 1)
	require.Equal(t, "uq_users_email", tbl.Uniques[0].Name)

	tbl.addUnique([]string{"email", "tenant_id"}, "")
	require.Len(t, tbl.Uniques, 2)
	require.Equal(t, "users_email_tenant_id_key", tbl.Uniques[1].Name)
}

func TestConstraintNameCollision(t *testing.T) {
	t.Parallel()

	tbl := &Table{Name: "users"}
	tbl.addUnique([]string{"alias"}, "users_email_key")
	tbl.addUnique([]string{"email"}, "")

	require.Equal(t, "users_email_key1", tbl.Uniques[1].Name)
}

func TestDropAndRenameConstraint(t *testing.T) {
	t.Parallel()

	tbl := &Table{
		Name:        "users",
		PrimaryKey:  &PrimaryKey{Name: "users_pkey", Columns: []string{"id"}},
		Uniques:     []*UniqueConstraint{{Name: "users_email_key", Columns: []string{"email"}}},
		ForeignKeys: []*ForeignKey{{Name: "users_org_fkey", Columns: []string{"org_id"}, RefTable: "orgs"}},
	}

	require.True(t, tbl.renameConstraint("USERS_EMAIL_KEY", "uq_email"))
	require.Equal(t, "uq_email", tbl.Uniques[0].Name)

	require.True(t, tbl.dropConstraint("users_pkey"))
	require.Nil(t, tbl.PrimaryKey)

	require.True(t, tbl.dropConstraint("users_org_fkey"))
	require.Empty(t, tbl.ForeignKeys)

	require.False(t, tbl.dropConstraint("uq_missing"))
	require.False(t, tbl.renameConstraint("nope", "other"))
}

func TestForeignKeyDropLocalColumn(t *testing.T) {
	t.Parallel()

	paired := &ForeignKey{Columns: []string{"a", "b"}, RefColumns: []string{"x", "y"}}
	paired.dropLocalColumn("a")
	require.Equal(t, []string{"b"}, paired.Columns)
	require.Equal(t, []string{"y"}, paired.RefColumns)

	unpaired := &ForeignKey{Columns: []string{"a", "b"}, RefColumns: []string{"x"}}
	unpaired.dropLocalColumn("b")
	require.Equal(t, []string{"a"}, unpaired.Columns)
	require.Equal(t, []string{"x"}, unpaired.RefColumns)
}
