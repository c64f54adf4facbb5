// Package resolve follows grammar imports and token vocabularies across
// files, producing a merged rule namespace for cross-file analysis.
package resolve

import (
	"fmt"
	"os"
	"path/filepath"

	"g4t/internal/diag"
	"g4t/internal/grammar"
	"g4t/internal/scan"
	"g4t/internal/source"
)

// Merged is the flattened view of a root grammar and everything it
// imports. Rule lookups prefer the root: the first definition wins, which
// mirrors how import overrides behave in practice.
type Merged struct {
	Root     *grammar.Grammar
	Grammars []*grammar.Grammar
	// Sources lists the contributing file paths, root first.
	Sources []string
	// Origin maps each rule name to the path that defined it first.
	Origin map[string]string
}

// Rule looks a name up across all merged grammars, nearest first.
func (m *Merged) Rule(name string) (*grammar.Rule, bool) {
	for _, g := range m.Grammars {
		if r, ok := g.Rule(name); ok {
			return r, true
		}
	}
	return nil, false
}

// Resolver loads imported grammars relative to a base directory. Import
// X is searched as {base}/X.g4 then {base}/imports/X.g4.
type Resolver struct {
	Base string
	FS   *source.FileSet
	Opts scan.Options
}

func NewResolver(base string) *Resolver {
	return &Resolver{Base: base, FS: source.NewFileSetWithBase(base)}
}

// Resolve walks root's imports (and tokenVocab) recursively. A missing
// import file is a warning: its names stay plausibly external, matching
// the single-file analysis contract. A circular import is a warning too;
// the revisit is skipped and resolution continues.
func (rv *Resolver) Resolve(root *grammar.Grammar, rep diag.Reporter) *Merged {
	m := &Merged{
		Root:     root,
		Grammars: []*grammar.Grammar{root},
		Sources:  []string{root.File.Path},
		Origin:   make(map[string]string),
	}
	visited := map[string]bool{root.Name: true}
	rv.follow(root, m, visited, rep)

	for _, g := range m.Grammars {
		for _, r := range g.Rules {
			if _, ok := m.Origin[r.Name]; !ok {
				m.Origin[r.Name] = g.File.Path
			}
		}
	}
	return m
}

func (rv *Resolver) follow(g *grammar.Grammar, m *Merged, visited map[string]bool, rep diag.Reporter) {
	var names []grammar.Import
	names = append(names, g.Imports...)
	if g.Options != nil && g.Options.TokenVocab != "" {
		names = append(names, grammar.Import{Name: g.Options.TokenVocab, Span: g.Options.Span})
	}

	for _, imp := range names {
		if visited[imp.Name] {
			rep.Report(diag.NewWarning(diag.EditImportCycle, imp.Span,
				fmt.Sprintf("circular import of %s; already resolved, skipping", imp.Name)))
			continue
		}
		visited[imp.Name] = true

		file, ok := rv.load(imp.Name)
		if !ok {
			rep.Report(diag.NewWarning(diag.EditImportMissing, imp.Span,
				fmt.Sprintf("imported grammar %s not found under %s", imp.Name, rv.Base)))
			continue
		}
		sub := grammar.Parse(file, rep, rv.Opts)
		m.Grammars = append(m.Grammars, sub)
		m.Sources = append(m.Sources, file.Path)
		rv.follow(sub, m, visited, rep)
	}
}

func (rv *Resolver) load(name string) (*source.File, bool) {
	for _, path := range []string{
		filepath.Join(rv.Base, name+".g4"),
		filepath.Join(rv.Base, "imports", name+".g4"),
	} {
		if f, ok := rv.FS.GetByPath(path); ok {
			return f, true
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		id, err := rv.FS.Load(path)
		if err != nil {
			continue
		}
		return rv.FS.Get(id), true
	}
	return nil, false
}
