package schema

import "strings"

// Identifier is a normalized, possibly schema-qualified object name.
// Normalization strips surrounding double quotes per dotted part (keeping
// the quoted part's case) and lowercases unquoted parts, so references
// written with different casing or quoting compare equal by value.
type Identifier string

// NormalizeIdentifier normalizes a raw identifier as written in DDL.
//
//	users        -> users
//	Users        -> users
//	"Users"      -> Users
//	app."Users"  -> app.Users
func NormalizeIdentifier(raw string) Identifier {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	parts := strings.Split(raw, ".")
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if len(part) >= 2 && part[0] == '"' && part[len(part)-1] == '"' {
			parts[i] = part[1 : len(part)-1]
		} else {
			parts[i] = strings.ToLower(part)
		}
	}

	return Identifier(strings.Join(parts, "."))
}

// NormalizeName normalizes a raw column or constraint name.
func NormalizeName(raw string) string {
	return string(NormalizeIdentifier(raw))
}

// NormalizeNames normalizes a list of raw names, preserving order.
func NormalizeNames(raw []string) []string {
	if len(raw) == 0 {
		return nil
	}

	out := make([]string, len(raw))
	for i, r := range raw {
		out[i] = NormalizeName(r)
	}
	return out
}

// Schema returns the schema qualifier, or "" for unqualified identifiers.
func (id Identifier) Schema() string {
	if i := strings.LastIndex(string(id), "."); i >= 0 {
		return string(id)[:i]
	}
	return ""
}

// Name returns the object name without its schema qualifier.
func (id Identifier) Name() string {
	if i := strings.LastIndex(string(id), "."); i >= 0 {
		return string(id)[i+1:]
	}
	return string(id)
}

func (id Identifier) String() string {
	return string(id)
}
