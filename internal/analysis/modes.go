package analysis

import (
	"fmt"
	"strings"

	"g4t/internal/diag"
	"g4t/internal/grammar"
)

// CheckModes builds the mode-transition graph (edges from pushMode and
// mode() commands) and validates it: undeclared targets, unreachable
// modes, popMode with nothing to pop, and transition cycles.
func CheckModes(g *grammar.Grammar, rep diag.Reporter) {
	declared := make(map[string]bool, len(g.Modes))
	for _, m := range g.Modes {
		declared[m.Name] = true
	}
	if len(declared) <= 1 {
		// только DEFAULT_MODE — проверять нечего, кроме popMode
		checkPopFromDefault(g, rep)
		return
	}

	edges := make(map[string]map[string]bool)
	for _, r := range g.Rules {
		if r.Kind != grammar.RuleLexer {
			continue
		}
		for _, cmd := range r.Commands {
			switch cmd.Name {
			case "pushMode", "mode":
				target := cmd.Arg
				if target == "" {
					continue
				}
				if !declared[target] {
					rep.Report(diag.NewError(diag.ModeUndeclared, cmd.Span,
						fmt.Sprintf("rule %q switches to undeclared mode %q", r.Name, target)).
						WithRule(r.Name))
					continue
				}
				if edges[r.Mode] == nil {
					edges[r.Mode] = make(map[string]bool)
				}
				edges[r.Mode][target] = true
			}
		}
	}

	checkPopFromDefault(g, rep)

	// недостижимые режимы: нет входящего ребра
	inbound := make(map[string]bool)
	for _, targets := range edges {
		for t := range targets {
			inbound[t] = true
		}
	}
	for _, m := range g.Modes {
		if m.Name == grammar.DefaultModeName {
			continue
		}
		if !inbound[m.Name] {
			span := g.HeaderSpan
			if r, ok := firstRuleOfMode(g, m.Name); ok {
				span = r.NameSpan
			}
			rep.Report(diag.NewWarning(diag.ModeUnreachable, span,
				fmt.Sprintf("mode %q has no pushMode/mode transition leading to it", m.Name)))
		}
	}

	// циклы переходов — информационно, часто намеренные
	reportModeCycles(g, edges, rep)
}

func checkPopFromDefault(g *grammar.Grammar, rep diag.Reporter) {
	for _, r := range g.Rules {
		if r.Kind != grammar.RuleLexer || r.Mode != grammar.DefaultModeName {
			continue
		}
		for _, cmd := range r.Commands {
			if cmd.Name == "popMode" {
				rep.Report(diag.NewError(diag.ModePopFromDefault, cmd.Span,
					fmt.Sprintf("rule %q pops from the default mode — the mode stack is empty there", r.Name)).
					WithRule(r.Name))
			}
		}
	}
}

func firstRuleOfMode(g *grammar.Grammar, mode string) (*grammar.Rule, bool) {
	for _, r := range g.Rules {
		if r.Kind == grammar.RuleLexer && r.Mode == mode {
			return r, true
		}
	}
	return nil, false
}

func reportModeCycles(g *grammar.Grammar, edges map[string]map[string]bool, rep diag.Reporter) {
	adj := make(map[string][]string, len(edges))
	for from, targets := range edges {
		for t := range targets {
			adj[from] = append(adj[from], t)
		}
	}
	reported := make(map[string]bool)
	for _, m := range g.Modes {
		if reported[m.Name] {
			continue
		}
		if cycle := findCycle(adj, m.Name); cycle != nil {
			for _, name := range cycle {
				reported[name] = true
			}
			path := strings.Join(append(cycle, cycle[0]), " -> ")
			rep.Report(diag.NewInfo(diag.ModeCycle, g.HeaderSpan,
				fmt.Sprintf("mode transitions form a cycle: %s", path)))
		}
	}
}
