package rewrite

import (
	"fmt"
	"sort"
	"strings"

	"g4t/internal/grammar"
)

// Sort strategies.
const (
	SortAlphabetical = "alphabetical"
	SortByType       = "type"
	SortDependency   = "dependency"
	SortUsage        = "usage"
)

// SortOptions tune declaration reordering.
type SortOptions struct {
	// Anchor names the focal rule of the dependency strategy.
	Anchor string
	// GroupOrder overrides the type strategy's grouping, e.g.
	// ["lexer", "parser", "fragment"]. Defaults to parser, lexer, fragment.
	GroupOrder []string
}

// Sort reorders rule declarations. Each rule's verbatim text moves as a
// unit; the gaps between declaration slots (blank lines, detached
// comments) stay where they were. Mode sections are sorted internally —
// rules never cross a `mode` boundary.
func Sort(text, strategy string, opts SortOptions) Result {
	g, _ := parse(text)

	switch strategy {
	case SortAlphabetical, SortByType, SortUsage:
	case SortDependency:
		if _, ok := g.Rule(opts.Anchor); !ok {
			return failure(text, ErrAnchorNotFound, fmt.Sprintf("anchor rule %q not found", opts.Anchor))
		}
	default:
		return failure(text, ErrBadStrategy, fmt.Sprintf("unknown sort strategy %q", strategy))
	}

	var edits []edit
	for _, section := range splitSections(g) {
		order := make([]*grammar.Rule, len(section))
		copy(order, section)
		switch strategy {
		case SortAlphabetical:
			sortAlphabetical(order)
		case SortByType:
			sortByType(order, opts.GroupOrder)
		case SortDependency:
			order = sortDependency(g, section, opts.Anchor)
		case SortUsage:
			sortUsage(g, order)
		}
		for i, r := range order {
			slot := section[i].Span
			edits = append(edits, edit{slot.Start, slot.End, text[r.Span.Start:r.Span.End]})
		}
	}
	return success(applyEdits(text, edits))
}

// splitSections groups rules by the mode declarations between them.
func splitSections(g *grammar.Grammar) [][]*grammar.Rule {
	var boundaries []uint32
	for _, m := range g.Modes {
		if m.Name != grammar.DefaultModeName && m.Line > 0 {
			boundaries = append(boundaries, m.Line)
		}
	}
	sort.Slice(boundaries, func(i, j int) bool { return boundaries[i] < boundaries[j] })

	sections := make([][]*grammar.Rule, len(boundaries)+1)
	for _, r := range g.Rules {
		idx := 0
		for idx < len(boundaries) && r.Line > boundaries[idx] {
			idx++
		}
		sections[idx] = append(sections[idx], r)
	}
	var out [][]*grammar.Rule
	for _, s := range sections {
		if len(s) > 1 {
			out = append(out, s)
		}
	}
	return out
}

func sortAlphabetical(rules []*grammar.Rule) {
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Kind != rules[j].Kind {
			return rules[i].Kind == grammar.RuleParser
		}
		return strings.ToLower(rules[i].Name) < strings.ToLower(rules[j].Name)
	})
}

func sortByType(rules []*grammar.Rule, groupOrder []string) {
	if len(groupOrder) == 0 {
		groupOrder = []string{"parser", "lexer", "fragment"}
	}
	rank := make(map[string]int, len(groupOrder))
	for i, grp := range groupOrder {
		rank[grp] = i
	}
	category := func(r *grammar.Rule) int {
		name := "parser"
		switch {
		case r.Fragment:
			name = "fragment"
		case r.Kind == grammar.RuleLexer:
			name = "lexer"
		}
		if i, ok := rank[name]; ok {
			return i
		}
		return len(groupOrder)
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return category(rules[i]) < category(rules[j])
	})
}

// sortDependency orders the anchor's section as: transitive dependencies,
// the anchor, its transitive dependents, then everything else. Relative
// order inside each band follows the file.
func sortDependency(g *grammar.Grammar, section []*grammar.Rule, anchor string) []*grammar.Rule {
	inSection := false
	for _, r := range section {
		if r.Name == anchor {
			inSection = true
			break
		}
	}
	if !inSection {
		return section
	}

	deps := transitiveRefs(g, anchor)
	dependents := make(map[string]bool)
	for _, r := range g.Rules {
		if r.Name != anchor && transitiveRefs(g, r.Name)[anchor] {
			dependents[r.Name] = true
		}
	}

	var before, mid, after, rest []*grammar.Rule
	for _, r := range section {
		switch {
		case r.Name == anchor:
			mid = append(mid, r)
		case deps[r.Name]:
			before = append(before, r)
		case dependents[r.Name]:
			after = append(after, r)
		default:
			rest = append(rest, r)
		}
	}
	out := make([]*grammar.Rule, 0, len(section))
	out = append(out, before...)
	out = append(out, mid...)
	out = append(out, after...)
	return append(out, rest...)
}

func transitiveRefs(g *grammar.Grammar, name string) map[string]bool {
	seen := make(map[string]bool)
	var walk func(string)
	walk = func(n string) {
		r, ok := g.Rule(n)
		if !ok {
			return
		}
		for _, ref := range r.Refs {
			if !seen[ref] {
				seen[ref] = true
				walk(ref)
			}
		}
	}
	walk(name)
	return seen
}

func sortUsage(g *grammar.Grammar, rules []*grammar.Rule) {
	uses := make(map[string]int, len(g.Rules))
	for _, r := range g.Rules {
		for _, ref := range r.Refs {
			uses[ref]++
		}
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return uses[rules[i].Name] > uses[rules[j].Name]
	})
}
