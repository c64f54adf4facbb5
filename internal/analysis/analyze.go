package analysis

import (
	"g4t/internal/diag"
	"g4t/internal/grammar"
)

type Options struct {
	// Strict reports undefined references even when an imported grammar or
	// token vocabulary could plausibly define them.
	Strict bool
	// DisableNaming turns off naming-convention checks.
	DisableNaming bool
	// PrefixLen is the number of leading tokens two alternatives must share
	// to be flagged as overlapping; 0 means the default of 2.
	PrefixLen int
	// KnownTokens holds the resolved token vocabulary, when the caller
	// managed to load it. With it the reference check validates token
	// names against the actual vocabulary instead of trusting any
	// token-shaped name.
	KnownTokens map[string]bool
}

// Analyze runs every check against the grammar.
func Analyze(g *grammar.Grammar, rep diag.Reporter, opts Options) {
	CheckReferences(g, rep, opts)
	CheckUnused(g, rep)
	CheckRecursion(g, rep)
	if !opts.DisableNaming {
		CheckNaming(g, rep)
	}
	CheckAmbiguity(g, rep, opts)
	CheckModes(g, rep)
}
