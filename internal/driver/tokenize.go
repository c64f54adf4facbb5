package driver

import (
	"context"
	"path/filepath"

	"g4t/internal/diag"
	"g4t/internal/grammar"
	"g4t/internal/sim"
	"g4t/internal/source"
)

// TokenizeResult pairs the simulated token stream with the diagnostics
// produced while compiling and running the lexer.
type TokenizeResult struct {
	Tokens []sim.Token
	Bag    *diag.Bag
}

// TokenizeInput loads the grammar at path and runs its simulated lexer
// over input.
func TokenizeInput(path, input string, opts Options) (*source.FileSet, *TokenizeResult, error) {
	fileSet, res, err := loadGrammar(path, opts)
	if err != nil {
		return nil, nil, err
	}
	rep := diag.BagReporter{Bag: res.Bag}
	tokens := sim.Lex(res.Grammar, input, rep)
	res.Bag.Sort()
	return fileSet, &TokenizeResult{Tokens: tokens, Bag: res.Bag}, nil
}

// MatchResult is the simulator's verdict plus the stream it consumed.
type MatchResult struct {
	Report sim.Report
	Tokens []sim.Token
	Bag    *diag.Bag
}

// MatchRule tokenizes input and matches it against ruleName. When oracle
// is non-nil its verdict wins; a conflict is surfaced as a
// SimDisagreement diagnostic on top of the Report flag.
func MatchRule(ctx context.Context, path, ruleName, input string, oracle sim.Oracle, opts Options) (*source.FileSet, *MatchResult, error) {
	fileSet, res, err := loadGrammar(path, opts)
	if err != nil {
		return nil, nil, err
	}
	rep := diag.BagReporter{Bag: res.Bag}

	report, tokens, err := sim.MatchWithOracle(ctx, res.Grammar, ruleName, input, oracle, rep)
	if err != nil {
		return nil, nil, err
	}
	if report.Disagreement {
		res.Bag.Add(diag.NewWarning(diag.SimDisagreement, source.Span{},
			"simulator and oracle disagree on rule "+ruleName+"; oracle verdict kept"))
	}
	if report.Confidence == sim.ConfidenceLow {
		res.Bag.Add(diag.NewInfo(diag.SimDepthCutoff, source.Span{},
			"low-confidence verdict for rule "+ruleName))
	}
	res.Bag.Sort()
	return fileSet, &MatchResult{Report: report, Tokens: tokens, Bag: res.Bag}, nil
}

// loadGrammar parses path without running the analyzers.
func loadGrammar(path string, opts Options) (*source.FileSet, *FileResult, error) {
	dir := filepath.Dir(path)
	manifest := manifestFor(dir, opts)

	fileSet := source.NewFileSetWithBase(dir)
	id, err := fileSet.Load(path)
	if err != nil {
		return nil, nil, err
	}
	bag := diag.NewBag(opts.maxDiagnostics())
	rep := diag.BagReporter{Bag: bag}
	g := grammar.Parse(fileSet.Get(id), rep, scanOptions(manifest))
	return fileSet, &FileResult{Path: path, FileID: id, Grammar: g, Bag: bag}, nil
}
