package schema

import "strings"

// containsFold reports whether names contains name, case-insensitively.
func containsFold(names []string, name string) bool {
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

// removeFold returns names without every case-insensitive match of name.
func removeFold(names []string, name string) []string {
	var out []string
	for _, n := range names {
		if !strings.EqualFold(n, name) {
			out = append(out, n)
		}
	}
	return out
}

// replaceFold rewrites every case-insensitive match of from to to, in
// place.
func replaceFold(names []string, from, to string) {
	for i, n := range names {
		if strings.EqualFold(n, from) {
			names[i] = to
		}
	}
}

// equalFoldSlices reports whether two name lists match pairwise,
// case-insensitively.
func equalFoldSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !strings.EqualFold(a[i], b[i]) {
			return false
		}
	}
	return true
}

// autoName builds a system-assigned name the way the database names
// unnamed constraints: the table name, the column names, and a kind
// suffix, joined with underscores.
func autoName(table Identifier, columns []string, suffix string) string {
	parts := append([]string{table.Name()}, columns...)
	return strings.Join(parts, "_") + suffix
}

// leadingIdent returns the identifier characters at the start of an index
// element, which for common elements is the column or function name.
func leadingIdent(s string) string {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || i > 0 && c >= '0' && c <= '9' {
			continue
		}
		return strings.ToLower(s[:i])
	}
	return strings.ToLower(s)
}
