package schema

import "fmt"

const (
	// WarningParseError marks a statement of a recognized kind that could
	// not be structurally parsed.
	WarningParseError WarningKind = "parse_error"
	// WarningUnrecognizedStatement marks a statement outside the supported
	// kinds; it is skipped without being parsed.
	WarningUnrecognizedStatement WarningKind = "unrecognized_statement"
	// WarningUnresolvedReference marks a mutation whose target (table,
	// column, constraint, or index) was not found.
	WarningUnresolvedReference WarningKind = "unresolved_reference"
	// WarningDuplicateObject marks creation of an object whose name is
	// already taken.
	WarningDuplicateObject WarningKind = "duplicate_object"
	// WarningCycleBroken marks a foreign key cycle the layout engine had
	// to break to assign levels.
	WarningCycleBroken WarningKind = "cycle_broken"
)

type (
	// WarningKind classifies a warning record.
	WarningKind string

	// Warning records one skipped or degraded construct. Nothing in the
	// engine is fatal: every anomaly becomes a warning and processing
	// continues with the next statement.
	Warning struct {
		Kind      WarningKind
		File      string // migration file the statement came from
		Statement string // offending statement text, empty when not statement scoped
		Reason    string
	}
)

// String renders the warning for log output.
func (w Warning) String() string {
	if w.File == "" {
		return fmt.Sprintf("%s: %s", w.Kind, w.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", w.Kind, w.File, w.Reason)
}
