package analysis

import (
	"fmt"
	"sort"

	"g4t/internal/diag"
	"g4t/internal/grammar"
)

// entryPointNames are conventional grammar entry rules exempt from the
// unused-rule check.
var entryPointNames = map[string]bool{
	"file":            true,
	"prog":            true,
	"program":         true,
	"start":           true,
	"startRule":       true,
	"root":            true,
	"main":            true,
	"compilationUnit": true,
	"translationUnit": true,
}

// CheckReferences reports references to rules that are defined nowhere.
// Findings are grouped per missing name so a token misspelled in twenty
// rules yields one diagnostic with a count, not twenty.
func CheckReferences(g *grammar.Grammar, rep diag.Reporter, opts Options) {
	type use struct {
		rule  *grammar.Rule
		count int
	}
	missing := make(map[string]*use)
	var order []string

	for _, r := range g.Rules {
		for _, ref := range r.Refs {
			if _, ok := g.Rule(ref); ok {
				continue
			}
			if !opts.Strict && plausiblyExternal(g, ref, opts) {
				continue
			}
			if u, ok := missing[ref]; ok {
				u.count++
				continue
			}
			missing[ref] = &use{rule: r, count: 1}
			order = append(order, ref)
		}
	}

	sort.Strings(order)
	for _, name := range order {
		u := missing[name]
		msg := fmt.Sprintf("reference to undefined rule %q (first in %q on line %d)",
			name, u.rule.Name, u.rule.Line)
		if u.count > 1 {
			msg = fmt.Sprintf("reference to undefined rule %q in %d places (first in %q on line %d)",
				name, u.count, u.rule.Name, u.rule.Line)
		}
		rep.Report(diag.NewError(diag.RefUndefined, u.rule.NameSpan, msg).WithRule(u.rule.Name))
	}
}

// plausiblyExternal reports whether an unresolved name may come from an
// imported grammar or a declared token vocabulary. Imports can contribute
// rules of either kind; a tokenVocab contributes only tokens — and when
// the vocabulary itself was resolved, only the tokens it actually defines.
func plausiblyExternal(g *grammar.Grammar, name string, opts Options) bool {
	if len(g.Imports) > 0 {
		return true
	}
	if g.Options != nil && g.Options.TokenVocab != "" {
		if grammar.ClassifyName(name) != grammar.RuleLexer {
			return false
		}
		if opts.KnownTokens != nil {
			return opts.KnownTokens[name]
		}
		return true
	}
	return false
}

// CheckUnused reports rules that nothing references and that are not
// conventional entry points. Lexer rules carrying a command (skip,
// channel, mode switching) participate in tokenization without being
// referenced, so they are exempt.
func CheckUnused(g *grammar.Grammar, rep diag.Reporter) {
	referenced := make(map[string]bool)
	for _, r := range g.Rules {
		for _, ref := range r.Refs {
			referenced[ref] = true
		}
	}

	firstParser, hasParser := g.FirstParserRule()

	for _, r := range g.Rules {
		if referenced[r.Name] {
			continue
		}
		if entryPointNames[r.Name] {
			continue
		}
		if hasParser && r == firstParser {
			continue
		}
		if grammar.BodyUsesEOF(r.Body) {
			// правило с EOF — почти наверняка точка входа
			continue
		}
		if r.Kind == grammar.RuleLexer && !r.Fragment {
			if len(r.Commands) > 0 {
				continue
			}
			// обычные токены потребляет парсер другого файла
			if g.Kind == grammar.KindLexer {
				continue
			}
		}
		rep.Report(diag.NewWarning(diag.RefUnusedRule, r.NameSpan,
			fmt.Sprintf("rule %q is never referenced", r.Name)).WithRule(r.Name))
	}
}
