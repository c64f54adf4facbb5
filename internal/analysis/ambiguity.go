package analysis

import (
	"fmt"
	"strings"

	"g4t/internal/diag"
	"g4t/internal/grammar"
	"g4t/internal/sim"
)

// CheckAmbiguity runs alternative-level pattern checks on every rule and
// the literal-vs-class conflict check across lexer rules.
func CheckAmbiguity(g *grammar.Grammar, rep diag.Reporter, opts Options) {
	prefixLen := opts.PrefixLen
	if prefixLen == 0 {
		prefixLen = 2
	}

	for _, r := range g.Rules {
		alts := grammar.SplitAlternatives(r.Body)
		if len(alts) > 1 {
			checkIdenticalAlts(r, alts, rep)
			checkOverlappingPrefixes(r, alts, prefixLen, rep)
		}
		for _, alt := range alts {
			checkOptionalPatterns(r, alt, rep)
		}
	}

	checkLiteralShadowing(g, rep)
}

func checkIdenticalAlts(r *grammar.Rule, alts []grammar.Alt, rep diag.Reporter) {
	first := make(map[string]int)
	reportedNorm := make(map[string]bool)
	for i, alt := range alts {
		norm := grammar.NormalizeAlt(alt.Text)
		if norm == "" {
			continue // пустые альтернативы (опциональность) не сравниваем
		}
		if j, ok := first[norm]; ok {
			if !reportedNorm[norm] {
				reportedNorm[norm] = true
				rep.Report(diag.NewError(diag.AmbigIdenticalAlts, r.NameSpan,
					fmt.Sprintf("rule %q: alternatives %d and %d are identical", r.Name, j+1, i+1)).
					WithRule(r.Name))
			}
			continue
		}
		first[norm] = i
	}
}

func checkOverlappingPrefixes(r *grammar.Rule, alts []grammar.Alt, n int, rep diag.Reporter) {
	toks := make([][]string, len(alts))
	norms := make([]string, len(alts))
	for i, alt := range alts {
		toks[i] = grammar.AltTokens(alt.Text)
		norms[i] = strings.Join(toks[i], " ")
	}

	for i := 0; i < len(alts); i++ {
		for j := i + 1; j < len(alts); j++ {
			if norms[i] == norms[j] {
				continue // уже identical-alternatives
			}
			if len(toks[i]) < n || len(toks[j]) < n {
				continue
			}
			shared := true
			for k := 0; k < n; k++ {
				if toks[i][k] != toks[j][k] {
					shared = false
					break
				}
			}
			if !shared {
				continue
			}
			prefix := strings.Join(toks[i][:n], " ")
			rep.Report(diag.NewWarning(diag.AmbigOverlappingPrefix, r.NameSpan,
				fmt.Sprintf("rule %q: alternatives %d and %d share the leading tokens %q — the parser must look past them to decide",
					r.Name, i+1, j+1, prefix)).
				WithRule(r.Name))
		}
	}
}

// checkOptionalPatterns flags `(X)? X` (equivalent to X+ but ambiguous for
// the parser) and `(X)? X*` (the optional is redundant).
func checkOptionalPatterns(r *grammar.Rule, alt grammar.Alt, rep diag.Reporter) {
	toks := grammar.AltTokens(alt.Text)
	for i := 0; i+4 < len(toks); i++ {
		if toks[i] != "(" || toks[i+2] != ")" || toks[i+3] != "?" {
			continue
		}
		x := toks[i+1]
		if toks[i+4] != x {
			continue
		}
		if i+5 < len(toks) && toks[i+5] == "*" {
			rep.Report(diag.NewWarning(diag.AmbigOptionalStar, r.NameSpan,
				fmt.Sprintf("rule %q: `(%s)? %s*` — the optional is redundant", r.Name, x, x)).
				WithRule(r.Name).
				WithSuggestion(x + "*"))
			continue
		}
		rep.Report(diag.NewWarning(diag.AmbigOptionalPlus, r.NameSpan,
			fmt.Sprintf("rule %q: `(%s)? %s` is ambiguous", r.Name, x, x)).
			WithRule(r.Name).
			WithSuggestion(x + "+"))
	}
	// та же пара без скобок: X? X
	for i := 0; i+2 < len(toks); i++ {
		if toks[i+1] != "?" || toks[i] != toks[i+2] || !isIdentToken(toks[i]) {
			continue
		}
		if i+3 < len(toks) && toks[i+3] == "*" {
			rep.Report(diag.NewWarning(diag.AmbigOptionalStar, r.NameSpan,
				fmt.Sprintf("rule %q: `%s? %s*` — the optional is redundant", r.Name, toks[i], toks[i])).
				WithRule(r.Name).
				WithSuggestion(toks[i] + "*"))
			continue
		}
		rep.Report(diag.NewWarning(diag.AmbigOptionalPlus, r.NameSpan,
			fmt.Sprintf("rule %q: `%s? %s` is ambiguous", r.Name, toks[i], toks[i])).
			WithRule(r.Name).
			WithSuggestion(toks[i] + "+"))
	}
}

func isIdentToken(tok string) bool {
	if tok == "" {
		return false
	}
	b := tok[0]
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// checkLiteralShadowing flags literal-string lexer rules whose text is
// fully matched by another rule's character-class pattern. Declaration
// order decides which rule produces the token, which regularly surprises.
func checkLiteralShadowing(g *grammar.Grammar, rep diag.Reporter) {
	type classRule struct {
		rule  *grammar.Rule
		class sim.Class
		quant string
	}
	var classRules []classRule
	for _, r := range g.LexerRules() {
		if r.Fragment {
			continue
		}
		body, quant, ok := sim.LiteralClassShape(r.Body)
		if !ok {
			continue
		}
		cls, err := sim.ParseClass(body)
		if err != nil {
			continue
		}
		classRules = append(classRules, classRule{rule: r, class: cls, quant: quant})
	}
	if len(classRules) == 0 {
		return
	}

	for _, r := range g.LexerRules() {
		if r.Fragment {
			continue
		}
		lit, ok := literalShape(r.Body)
		if !ok {
			continue
		}
		for _, cr := range classRules {
			if cr.rule == r {
				continue
			}
			if cr.quant == "" && len([]rune(lit)) != 1 {
				continue
			}
			if !cr.class.ContainsAll(lit) {
				continue
			}
			winner, loser := r, cr.rule
			if cr.rule.Line < r.Line {
				winner, loser = cr.rule, r
			}
			rep.Report(diag.NewWarning(diag.AmbigLiteralShadowed, r.NameSpan,
				fmt.Sprintf("literal rule %q is fully matched by %q — declaration order makes %q win for %q",
					r.Name, cr.rule.Name, winner.Name, lit)).
				WithRule(r.Name).
				WithNote(loser.NameSpan, fmt.Sprintf("%q declared later, loses ties", loser.Name)))
		}
	}
}

// literalShape recognizes a body that is exactly one string literal.
func literalShape(body string) (string, bool) {
	s := strings.TrimSpace(body)
	if len(s) < 2 || s[0] != '\'' {
		return "", false
	}
	var sb strings.Builder
	i := 1
	for i < len(s) {
		switch s[i] {
		case '\\':
			if i+1 >= len(s) {
				return "", false
			}
			switch s[i+1] {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			default:
				sb.WriteByte(s[i+1])
			}
			i += 2
		case '\'':
			// после закрывающей кавычки ничего быть не должно
			if strings.TrimSpace(s[i+1:]) != "" {
				return "", false
			}
			return sb.String(), true
		default:
			sb.WriteByte(s[i])
			i++
		}
	}
	return "", false
}
