package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAutoName(t *testing.T) {
	t.Parallel()

	require.Equal(t, "users_pkey", autoName("public.users", nil, "_pkey"))
	require.Equal(t, "users_email_key", autoName("users", []string{"email"}, "_key"))
	require.Equal(t, "orders_a_b_fkey", autoName("orders", []string{"a", "b"}, "_fkey"))
}

func TestLeadingIdent(t *testing.T) {
	t.Parallel()

	tests := []struct{ in, out string }{
		{"email", "email"},
		{"lower(email)", "lower"},
		{"Email DESC", "email"},
		{"(a + b)", ""},
		{"_hidden", "_hidden"},
		{"", ""},
	}

	for _, tt := range tests {
		require.Equal(t, tt.out, leadingIdent(tt.in), "leadingIdent(%q)", tt.in)
	}
}

func TestEqualFoldSlices(t *testing.T) {
	t.Parallel()

	require.True(t, equalFoldSlices(nil, nil))
	require.True(t, equalFoldSlices([]string{"A", "b"}, []string{"a", "B"}))
	require.False(t, equalFoldSlices([]string{"a"}, []string{"a", "b"}))
	require.False(t, equalFoldSlices([]string{"a", "c"}, []string{"a", "b"}))
}

func TestRemoveFold(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"a", "c"}, removeFold([]string{"a", "B", "c"}, "b"))
	require.Nil(t, removeFold([]string{"only"}, "ONLY"))
}
