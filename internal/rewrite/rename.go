package rewrite

import (
	"fmt"

	"g4t/internal/diag"
	"g4t/internal/scan"
)

// Rename replaces every whole-word occurrence of oldName — the definition
// and all references outside literals, classes, actions and comments —
// with newName. A grammar that already defines newName is rejected to
// avoid silently fusing two rules.
func Rename(text, oldName, newName string) Result {
	g, _ := parse(text)
	if _, ok := g.Rule(oldName); !ok {
		return failure(text, ErrRuleNotFound, fmt.Sprintf("rule %q not found", oldName))
	}
	if _, ok := g.Rule(newName); ok {
		return failure(text, ErrRuleExists, fmt.Sprintf("rule %q already exists", newName))
	}

	out, count := RenameOccurrences(text, oldName, newName)
	res := success(out)
	res.Count = count
	return res
}

// RenameOccurrences rewrites whole-word occurrences of oldName without
// requiring a local definition. Multi-file renames use it on files that
// only reference the rule.
func RenameOccurrences(text, oldName, newName string) (string, int) {
	_, f := parse(text)
	clean := scan.Decomment(f, diag.NopReporter{})
	sites := wordSites(clean, 0, uint32(len(clean)), oldName, false)
	edits := make([]edit, 0, len(sites))
	for _, off := range sites {
		edits = append(edits, edit{off, off + uint32(len(oldName)), newName})
	}
	return applyEdits(text, edits), len(sites)
}
