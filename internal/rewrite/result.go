package rewrite

import (
	"errors"

	"g4t/internal/diag"
	"g4t/internal/grammar"
	"g4t/internal/scan"
	"g4t/internal/source"
)

var (
	ErrRuleExists      = errors.New("a rule with this exact name already exists")
	ErrRuleNotFound    = errors.New("rule not found")
	ErrAnchorNotFound  = errors.New("anchor rule not found")
	ErrNotReferenced   = errors.New("rule is never referenced")
	ErrRecursiveInline = errors.New("rule references itself")
	ErrCycleInline     = errors.New("rule participates in a reference cycle")
	ErrBadStrategy     = errors.New("unknown sort strategy")
)

// Result is the outcome of one rewrite operation. On failure Text is the
// input, byte-for-byte.
type Result struct {
	OK     bool
	Err    error
	Reason string
	Text   string
	// Count is operation-specific: occurrences for rename, reference
	// sites for inline.
	Count int
	// PerFile holds per-file occurrence counts for multi-file operations.
	PerFile map[string]int
	// Inline statistics (also filled by dry runs).
	Parenthesized bool
	AltCount      int
}

func failure(text string, err error, reason string) Result {
	return Result{Err: err, Reason: reason, Text: text}
}

func success(text string) Result {
	return Result{OK: true, Text: text}
}

// parse rebuilds the model from text. Structural problems do not abort:
// operations work with whatever the scanner recovered, and the caller is
// expected to run analysis separately.
func parse(text string) (*grammar.Grammar, *source.File) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("input.g4", []byte(text))
	f := fs.Get(id)
	g := grammar.Parse(f, diag.NopReporter{}, scan.Options{})
	return g, f
}
