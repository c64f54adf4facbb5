package rewrite

import (
	"fmt"
	"strings"

	"g4t/internal/grammar"
	"g4t/internal/style"
)

// AddOptions control where a new rule lands. When neither anchor is set
// the rule is inserted alphabetically among rules of its own kind.
type AddOptions struct {
	Fragment bool
	After    string // insert right after this rule
	Before   string // insert right before this rule
}

// Add inserts a new rule rendered in the file's inferred style. The name
// must not collide exactly; a casing variant of an existing name is allowed.
func Add(text, name, body string, opts AddOptions) Result {
	g, _ := parse(text)
	if _, ok := g.Rule(name); ok {
		return failure(text, ErrRuleExists, fmt.Sprintf("rule %q already exists", name))
	}

	st := style.Infer(g)
	decl := name
	if opts.Fragment {
		decl = "fragment " + name
	}
	rendered := st.FormatRule(decl, st.IndentBody(body))
	sep := st.Separator()

	switch {
	case opts.After != "":
		anchor, ok := g.Rule(opts.After)
		if !ok {
			return failure(text, ErrAnchorNotFound, fmt.Sprintf("anchor rule %q not found", opts.After))
		}
		return success(applyEdits(text, []edit{{anchor.Span.End, anchor.Span.End, sep + rendered}}))
	case opts.Before != "":
		anchor, ok := g.Rule(opts.Before)
		if !ok {
			return failure(text, ErrAnchorNotFound, fmt.Sprintf("anchor rule %q not found", opts.Before))
		}
		return success(applyEdits(text, []edit{{anchor.Span.Start, anchor.Span.Start, rendered + sep}}))
	}

	kind := grammar.ClassifyName(name)
	if opts.Fragment {
		kind = grammar.RuleLexer
	}

	// алфавитная вставка среди правил того же вида
	var last *grammar.Rule
	for _, r := range g.Rules {
		if r.Kind != kind {
			continue
		}
		if strings.ToLower(r.Name) > strings.ToLower(name) {
			return success(applyEdits(text, []edit{{r.Span.Start, r.Span.Start, rendered + sep}}))
		}
		last = r
	}
	if last != nil {
		return success(applyEdits(text, []edit{{last.Span.End, last.Span.End, sep + rendered}}))
	}
	if kind == grammar.RuleParser {
		// new parser section opens before the lexer rules
		for _, r := range g.Rules {
			if r.Kind == grammar.RuleLexer {
				return success(applyEdits(text, []edit{{r.Span.Start, r.Span.Start, rendered + sep}}))
			}
		}
	}
	return success(appendAtEnd(text, rendered, st))
}

func appendAtEnd(text, rendered string, st style.Style) string {
	var sb strings.Builder
	sb.WriteString(text)
	if text != "" && !strings.HasSuffix(text, "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString(strings.Repeat("\n", st.BlankLinesBetweenRules))
	sb.WriteString(rendered)
	sb.WriteString("\n")
	return sb.String()
}

// Remove deletes a rule declaration together with the blank lines that
// followed it. References to the rule elsewhere are left alone; analysis
// will flag them as undefined on the next run.
func Remove(text, name string) Result {
	g, _ := parse(text)
	r, ok := g.Rule(name)
	if !ok {
		return failure(text, ErrRuleNotFound, fmt.Sprintf("rule %q not found", name))
	}
	start, end := deletionSpan(text, r.Span)
	return success(applyEdits(text, []edit{{start, end, ""}}))
}

// Update replaces a rule's body with newBody, rendered in the file's
// style. The header (name, arguments, returns) and everything outside the
// body span are untouched.
func Update(text, name, newBody string) Result {
	g, _ := parse(text)
	r, ok := g.Rule(name)
	if !ok {
		return failure(text, ErrRuleNotFound, fmt.Sprintf("rule %q not found", name))
	}
	st := style.Infer(g)
	rendered := " " + st.IndentBody(newBody)
	if st.SemiOnOwnLine {
		rendered += "\n" + st.Indent
	} else {
		rendered += " "
	}
	return success(applyEdits(text, []edit{{r.BodySpan.Start, r.BodySpan.End, rendered}}))
}

// Merge replaces two rules with a single rule whose body is the
// alternation of their bodies. The new rule takes the position of the
// first of the two; referrers of the originals are not rewritten.
func Merge(text, first, second, newName string) Result {
	g, _ := parse(text)
	a, ok := g.Rule(first)
	if !ok {
		return failure(text, ErrRuleNotFound, fmt.Sprintf("rule %q not found", first))
	}
	b, ok := g.Rule(second)
	if !ok {
		return failure(text, ErrRuleNotFound, fmt.Sprintf("rule %q not found", second))
	}
	if _, ok := g.Rule(newName); ok && newName != first && newName != second {
		return failure(text, ErrRuleExists, fmt.Sprintf("rule %q already exists", newName))
	}

	st := style.Infer(g)
	body := flattenBody(a.Body) + " | " + flattenBody(b.Body)
	rendered := st.FormatRule(newName, body)

	// first становится новым правилом, second удаляется
	if a.Span.Start > b.Span.Start {
		a, b = b, a
	}
	delStart, delEnd := deletionSpan(text, b.Span)
	return success(applyEdits(text, []edit{
		{a.Span.Start, a.Span.End, rendered},
		{delStart, delEnd, ""},
	}))
}

// Extract adds a named fragment for a lexer pattern, placed after the
// last lexer rule. Rewriting existing rules to reference the fragment is
// left to the caller.
func Extract(text, fragName, pattern string) Result {
	g, _ := parse(text)
	if _, ok := g.Rule(fragName); ok {
		return failure(text, ErrRuleExists, fmt.Sprintf("rule %q already exists", fragName))
	}
	st := style.Infer(g)
	rendered := st.FormatRule("fragment "+fragName, pattern)
	if lexer := g.LexerRules(); len(lexer) > 0 {
		last := lexer[len(lexer)-1]
		return success(applyEdits(text, []edit{{last.Span.End, last.Span.End, st.Separator() + rendered}}))
	}
	return success(appendAtEnd(text, rendered, st))
}

// flattenBody collapses a verbatim body to one line with single spaces.
func flattenBody(body string) string {
	return strings.Join(strings.Fields(body), " ")
}
