package sim

import (
	"context"
	"errors"

	"g4t/internal/diag"
	"g4t/internal/grammar"
)

// ErrUnavailable is returned by oracles that cannot serve the request
// right now; the caller falls back to the simulator silently.
var ErrUnavailable = errors.New("oracle unavailable")

// OracleResult is an external verdict on a rule match.
type OracleResult struct {
	Matched  bool
	Consumed int
}

// Oracle is an optional external checker (a real generated parser, a
// language server, a remote service) consulted to cross-validate the
// simulator's verdict.
type Oracle interface {
	Match(ctx context.Context, grammarText, rule, input string) (OracleResult, error)
}

// MatchWithOracle tokenizes input, runs the simulator, and when an
// oracle is present prefers its verdict. A verdict conflict keeps the
// oracle's answer and sets Disagreement.
func MatchWithOracle(ctx context.Context, g *grammar.Grammar, rule, input string, o Oracle, rep diag.Reporter) (Report, []Token, error) {
	tokens := Lex(g, input, rep)
	local, err := Match(g, rule, Significant(tokens))
	if err != nil {
		return Report{}, tokens, err
	}
	if o == nil {
		return local, tokens, nil
	}

	verdict, oerr := o.Match(ctx, string(g.File.Content), rule, input)
	if oerr != nil {
		// недоступный оракул — не ошибка, работаем по симуляции
		return local, tokens, nil
	}
	if verdict.Matched != local.Matched {
		local.Disagreement = true
	}
	local.Matched = verdict.Matched
	local.Consumed = verdict.Consumed
	local.Confidence = ConfidenceHigh
	return local, tokens, nil
}
