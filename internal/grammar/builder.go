package grammar

import (
	"fmt"
	"path/filepath"
	"strings"

	"g4t/internal/diag"
	"g4t/internal/scan"
	"g4t/internal/source"
)

// Parse scans and builds in one step.
func Parse(f *source.File, rep diag.Reporter, opts scan.Options) *Grammar {
	return Build(f, scan.Scan(f, rep, opts), rep)
}

// Build turns scanner output into a Grammar model. The model is derived
// wholesale; calling Build twice on the same text yields equal models.
func Build(f *source.File, res *scan.Result, rep diag.Reporter) *Grammar {
	g := &Grammar{
		File:   f,
		byName: make(map[string]*Rule, len(res.Rules)),
	}

	if res.Header != nil {
		g.Name = res.Header.Name
		g.HeaderSpan = res.Header.Span
		switch res.Header.Kind {
		case "lexer":
			g.Kind = KindLexer
		case "parser":
			g.Kind = KindParser
		default:
			g.Kind = KindCombined
		}
	} else {
		base := filepath.Base(f.Path)
		g.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	for _, imp := range res.Imports {
		for _, name := range imp.Names {
			g.Imports = append(g.Imports, Import{Name: name, Span: imp.Span})
		}
	}
	if res.Options != nil {
		g.Options = &Options{TokenVocab: res.Options.TokenVocab, Span: res.Options.Span}
	}

	for i := range res.Rules {
		rs := &res.Rules[i]
		if prev, ok := g.byName[rs.Name]; ok {
			rep.Report(diag.NewError(diag.RefDuplicateRule, rs.NameSpan,
				fmt.Sprintf("rule %q is already defined on line %d", rs.Name, prev.Line)).
				WithRule(rs.Name).
				WithNote(prev.NameSpan, "first definition here"))
			continue
		}

		kind := ClassifyName(rs.Name)
		r := &Rule{
			Name:       rs.Name,
			Kind:       kind,
			Fragment:   rs.Fragment,
			Body:       rs.BodySpan.Text(f),
			Span:       rs.Span,
			HeaderSpan: rs.HeaderSpan,
			BodySpan:   rs.BodySpan,
			NameSpan:   rs.NameSpan,
			ColonOff:   rs.ColonOff,
			SemiOff:    rs.SemiOff,
			Line:       rs.Line,
			Commands:   rs.Commands,
			Terminated: rs.Terminated,
		}
		if kind == RuleLexer {
			if rs.Mode == "" {
				r.Mode = DefaultModeName
			} else {
				r.Mode = rs.Mode
			}
		}
		r.Refs = ExtractRefs(r.Body)

		g.Rules = append(g.Rules, r)
		g.byName[r.Name] = r
	}

	if res.Header == nil {
		g.Kind = inferKind(g.Rules)
	}

	g.Modes = buildModes(res, g.Rules)
	return g
}

// inferKind is only used for headerless files.
func inferKind(rules []*Rule) Kind {
	hasLexer, hasParser := false, false
	for _, r := range rules {
		if r.Kind == RuleLexer {
			hasLexer = true
		} else {
			hasParser = true
		}
	}
	switch {
	case hasLexer && !hasParser:
		return KindLexer
	case hasParser && !hasLexer:
		return KindParser
	default:
		return KindCombined
	}
}

// buildModes produces DEFAULT_MODE first, then declared modes in order,
// each with its member lexer rules.
func buildModes(res *scan.Result, rules []*Rule) []Mode {
	modes := []Mode{{Name: DefaultModeName}}
	index := map[string]int{DefaultModeName: 0}

	for _, ms := range res.Modes {
		if _, ok := index[ms.Name]; ok {
			continue
		}
		index[ms.Name] = len(modes)
		modes = append(modes, Mode{Name: ms.Name, Line: ms.Line})
	}

	for _, r := range rules {
		if r.Kind != RuleLexer {
			continue
		}
		idx, ok := index[r.Mode]
		if !ok {
			// режим объявлен только через правило — не должен случаться, но не теряем
			idx = len(modes)
			index[r.Mode] = idx
			modes = append(modes, Mode{Name: r.Mode, Line: r.Line})
		}
		modes[idx].Rules = append(modes[idx].Rules, r.Name)
	}
	return modes
}
