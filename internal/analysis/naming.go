package analysis

import (
	"fmt"
	"strings"

	"g4t/internal/diag"
	"g4t/internal/grammar"
)

// CheckNaming flags departures from the usual conventions: lowerCamelCase
// parser rules and UPPER_SNAKE lexer rules. Purely informational.
func CheckNaming(g *grammar.Grammar, rep diag.Reporter) {
	for _, r := range g.Rules {
		switch r.Kind {
		case grammar.RuleParser:
			if strings.Contains(r.Name, "_") {
				rep.Report(diag.NewInfo(diag.RefNamingParser, r.NameSpan,
					fmt.Sprintf("parser rule %q: lowerCamelCase is conventional", r.Name)).
					WithRule(r.Name).
					WithSuggestion(toLowerCamel(r.Name)))
			}
		case grammar.RuleLexer:
			if !isUpperSnake(r.Name) {
				code := diag.RefNamingLexer
				if r.Fragment {
					code = diag.RefNamingFragment
				}
				rep.Report(diag.NewInfo(code, r.NameSpan,
					fmt.Sprintf("%s rule %q: UPPER_SNAKE_CASE is conventional", ruleNoun(r), r.Name)).
					WithRule(r.Name).
					WithSuggestion(toUpperSnake(r.Name)))
			}
		}
	}
}

func ruleNoun(r *grammar.Rule) string {
	if r.Fragment {
		return "fragment"
	}
	return "lexer"
}

func isUpperSnake(name string) bool {
	for i := 0; i < len(name); i++ {
		b := name[i]
		if b >= 'a' && b <= 'z' {
			return false
		}
	}
	return true
}

func toUpperSnake(name string) string {
	var sb strings.Builder
	for i := 0; i < len(name); i++ {
		b := name[i]
		if b >= 'a' && b <= 'z' {
			if i > 0 && name[i-1] >= 'a' && name[i-1] <= 'z' {
				// строчная за строчной — просто поднимаем
			} else if i > 0 && name[i-1] != '_' && !(name[i-1] >= 'A' && name[i-1] <= 'Z') {
				sb.WriteByte('_')
			}
			sb.WriteByte(b - 'a' + 'A')
			continue
		}
		if b >= 'A' && b <= 'Z' && i > 0 && name[i-1] >= 'a' && name[i-1] <= 'z' {
			sb.WriteByte('_')
		}
		sb.WriteByte(b)
	}
	return sb.String()
}

func toLowerCamel(name string) string {
	parts := strings.Split(name, "_")
	var sb strings.Builder
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 {
			sb.WriteString(strings.ToLower(p[:1]) + p[1:])
			continue
		}
		sb.WriteString(strings.ToUpper(p[:1]) + p[1:])
	}
	return sb.String()
}
