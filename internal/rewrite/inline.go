package rewrite

import (
	"fmt"
	"strings"

	"g4t/internal/diag"
	"g4t/internal/grammar"
	"g4t/internal/scan"
)

// InlineOptions tune body substitution.
type InlineOptions struct {
	// Force wraps the substituted body in parentheses even when a single
	// alternative would not need them.
	Force bool
	// DryRun reports the statistics without touching the text.
	DryRun bool
}

// Inline substitutes a rule's body at every reference site and deletes
// the definition. Bodies with multiple alternatives (or with alternative
// labels, which are dropped) are parenthesized so repetition suffixes at
// the call site keep their meaning. Self-recursive rules and rules on a
// reference cycle are rejected; the text comes back unchanged.
func Inline(text, name string, opts InlineOptions) Result {
	g, f := parse(text)
	r, ok := g.Rule(name)
	if !ok {
		return failure(text, ErrRuleNotFound, fmt.Sprintf("rule %q not found", name))
	}
	if r.RefersTo(name) {
		return failure(text, ErrRecursiveInline, fmt.Sprintf("rule %q references itself", name))
	}
	if onCycle(g, name) {
		return failure(text, ErrCycleInline, fmt.Sprintf("rule %q participates in a reference cycle", name))
	}

	clean := scan.Decomment(f, diag.NopReporter{})
	var sites []uint32
	for _, other := range g.Rules {
		if other == r {
			continue
		}
		sites = append(sites, wordSites(clean, other.BodySpan.Start, other.BodySpan.End, name, true)...)
	}
	if len(sites) == 0 {
		return failure(text, ErrNotReferenced, fmt.Sprintf("rule %q is never referenced", name))
	}

	body, hadLabels := stripAltLabels(flattenBody(r.Body))
	altCount := len(grammar.SplitAlternatives(r.Body))
	paren := opts.Force || hadLabels || altCount > 1
	replacement := body
	if paren {
		replacement = "(" + body + ")"
	}

	res := Result{
		OK:            true,
		Text:          text,
		Count:         len(sites),
		Parenthesized: paren,
		AltCount:      altCount,
	}
	if opts.DryRun {
		res.Reason = fmt.Sprintf("would inline %q at %d site(s)", name, len(sites))
		return res
	}

	edits := make([]edit, 0, len(sites)+1)
	for _, off := range sites {
		edits = append(edits, edit{off, off + uint32(len(name)), replacement})
	}
	delStart, delEnd := deletionSpan(text, r.Span)
	edits = append(edits, edit{delStart, delEnd, ""})
	res.Text = applyEdits(text, edits)
	return res
}

// onCycle reports whether name is reachable from its own references.
func onCycle(g *grammar.Grammar, name string) bool {
	seen := make(map[string]bool)
	var reach func(from string) bool
	reach = func(from string) bool {
		if seen[from] {
			return false
		}
		seen[from] = true
		r, ok := g.Rule(from)
		if !ok {
			return false
		}
		for _, ref := range r.Refs {
			if ref == name || reach(ref) {
				return true
			}
		}
		return false
	}
	start, _ := g.Rule(name)
	for _, ref := range start.Refs {
		if ref == name || reach(ref) {
			return true
		}
	}
	return false
}

// stripAltLabels removes `# Label` markers from a flattened body.
func stripAltLabels(body string) (string, bool) {
	if !strings.Contains(body, "#") {
		return body, false
	}
	var sb strings.Builder
	stripped := false
	i := 0
	for i < len(body) {
		b := body[i]
		switch {
		case b == '\'':
			j := i + 1
			for j < len(body) {
				if body[j] == '\\' {
					j += 2
					continue
				}
				if body[j] == '\'' {
					j++
					break
				}
				j++
			}
			sb.WriteString(body[i:j])
			i = j
		case b == '#':
			j := i + 1
			for j < len(body) && body[j] == ' ' {
				j++
			}
			k := j
			for k < len(body) && isIdentPart(body[k]) {
				k++
			}
			if k > j {
				stripped = true
				i = k
				continue
			}
			sb.WriteByte(b)
			i++
		default:
			sb.WriteByte(b)
			i++
		}
	}
	return strings.Join(strings.Fields(sb.String()), " "), stripped
}
