package analysis

import (
	"fmt"
	"strings"

	"g4t/internal/diag"
	"g4t/internal/grammar"
)

// CheckRecursion classifies left recursion. Direct left recursion (a rule
// whose alternative starts with the rule itself) is legal and reported as
// info. A left-recursive cycle spanning two or more rules cannot be
// rewritten mechanically by the target compiler and is an error.
func CheckRecursion(g *grammar.Grammar, rep diag.Reporter) {
	// left-corner graph: rule -> rules appearing as the first symbol of
	// any of its alternatives
	leftCorner := make(map[string][]string)
	for _, r := range g.Rules {
		if r.Kind != grammar.RuleParser {
			continue
		}
		seen := make(map[string]bool)
		for _, alt := range grammar.SplitAlternatives(r.Body) {
			first := grammar.FirstSymbol(alt.Text)
			if first == "" || seen[first] {
				continue
			}
			if target, ok := g.Rule(first); !ok || target.Kind != grammar.RuleParser {
				continue
			}
			seen[first] = true
			leftCorner[r.Name] = append(leftCorner[r.Name], first)
		}
	}

	// direct recursion first; self-edges are excluded from cycle search
	for _, r := range g.Rules {
		for _, first := range leftCorner[r.Name] {
			if first == r.Name {
				rep.Report(diag.NewInfo(diag.RefDirectLeftRec, r.NameSpan,
					fmt.Sprintf("rule %q is directly left-recursive", r.Name)).WithRule(r.Name))
			}
		}
	}

	reported := make(map[string]bool)
	for _, r := range g.Rules {
		if r.Kind != grammar.RuleParser || reported[r.Name] {
			continue
		}
		if cycle := findCycle(leftCorner, r.Name); cycle != nil {
			for _, name := range cycle {
				reported[name] = true
			}
			path := strings.Join(append(cycle, cycle[0]), " -> ")
			rep.Report(diag.NewError(diag.RefHiddenLeftRec, r.NameSpan,
				fmt.Sprintf("hidden left recursion: %s", path)).WithRule(r.Name))
		}
	}
}

// findCycle looks for a left-corner cycle of length >= 2 that passes
// through start. Returns the cycle rule names in traversal order, or nil.
func findCycle(graph map[string][]string, start string) []string {
	var path []string
	onPath := make(map[string]bool)
	visited := make(map[string]bool)

	var dfs func(node string) []string
	dfs = func(node string) []string {
		if onPath[node] {
			if node != start {
				return nil
			}
			// цикл длины >= 2 через start
			if len(path) < 2 {
				return nil
			}
			return append([]string(nil), path...)
		}
		if visited[node] {
			return nil
		}
		visited[node] = true
		onPath[node] = true
		path = append(path, node)
		for _, next := range graph[node] {
			if next == node {
				continue // прямая рекурсия — легальна
			}
			if cycle := dfs(next); cycle != nil {
				return cycle
			}
		}
		path = path[:len(path)-1]
		onPath[node] = false
		return nil
	}

	return dfs(start)
}
