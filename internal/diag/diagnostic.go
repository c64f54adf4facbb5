package diag

import (
	"g4t/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	// Rule is the grammar rule the finding concerns, empty for file-level findings.
	Rule string
	// Suggestion is an optional short "use X instead" hint.
	Suggestion string
	Notes      []Note
}
