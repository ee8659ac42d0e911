package parser

import "strings"

// Kind identifies which family of DDL statement a span belongs to. The set
// is closed: anything outside it is KindUnrecognized and is skipped by the
// caller with a warning rather than parsed.
type Kind int

const (
	KindUnrecognized Kind = iota
	KindCreateTable
	KindAlterTable
	KindCreateIndex
	KindDropIndex
	KindAlterIndex
	KindDropTable
)

var kindNames = map[Kind]string{
	KindUnrecognized: "UNRECOGNIZED",
	KindCreateTable:  "CREATE_TABLE",
	KindAlterTable:   "ALTER_TABLE",
	KindCreateIndex:  "CREATE_INDEX",
	KindDropIndex:    "DROP_INDEX",
	KindAlterIndex:   "ALTER_INDEX",
	KindDropTable:    "DROP_TABLE",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNRECOGNIZED"
}

// tableModifiers are the keywords that may sit between CREATE and TABLE.
var tableModifiers = map[string]bool{
	"GLOBAL":    true,
	"LOCAL":     true,
	"TEMP":      true,
	"TEMPORARY": true,
	"UNLOGGED":  true,
}

// Classify inspects the leading keywords of a statement span and reports its
// kind. Classification is purely prefix based; a span classified as a known
// kind can still fail to parse.
func Classify(span Span) Kind {
	words := leadingKeywords(span, 6)

	switch {
	case matchKeywords(words, "CREATE", "TABLE"):
		return KindCreateTable
	case matchKeywords(words, "CREATE", "INDEX"), matchKeywords(words, "CREATE", "UNIQUE", "INDEX"):
		return KindCreateIndex
	case matchKeywords(words, "ALTER", "TABLE"):
		return KindAlterTable
	case matchKeywords(words, "ALTER", "INDEX"):
		return KindAlterIndex
	case matchKeywords(words, "DROP", "TABLE"):
		return KindDropTable
	case matchKeywords(words, "DROP", "INDEX"):
		return KindDropIndex
	default:
		return KindUnrecognized
	}
}

// leadingKeywords returns up to max uppercase keyword tokens from the start
// of the span, skipping comments and whitespace.
func leadingKeywords(span Span, max int) []string {
	lex, err := postgresLexer.Lex(span.File, strings.NewReader(span.Text))
	if err != nil {
		return nil
	}

	words := make([]string, 0, max)
	for len(words) < max {
		tok, err := lex.Next()
		if err != nil || tok.EOF() {
			break
		}
		if tok.Type == symWhitespace || tok.Type == symComment || tok.Type == symMultilineComment {
			continue
		}
		words = append(words, strings.ToUpper(tok.Value))
	}
	return words
}

// matchKeywords reports whether words begins with the expected sequence,
// ignoring any table modifier keywords between CREATE and TABLE.
func matchKeywords(words []string, expected ...string) bool {
	i := 0
	for _, want := range expected {
		for i < len(words) && want == "TABLE" && tableModifiers[words[i]] {
			i++
		}
		if i >= len(words) || words[i] != want {
			return false
		}
		i++
	}
	return true
}
