package resolve

import (
	"fmt"

	"g4t/internal/diag"
	"g4t/internal/grammar"
	"g4t/internal/rewrite"
	"g4t/internal/scan"
	"g4t/internal/source"
)

// RenameAll renames a rule across a set of files, definition and
// references alike. Input maps path to content; the result holds the new
// content only for files that actually changed, alongside per-file
// occurrence counts. At least one file must define oldName, and no file
// may already define newName.
func RenameAll(files map[string]string, oldName, newName string) (map[string]string, map[string]int, error) {
	definedOld, definedNew := "", ""
	for path, text := range files {
		g := parseText(path, text)
		if _, ok := g.Rule(oldName); ok && definedOld == "" {
			definedOld = path
		}
		if _, ok := g.Rule(newName); ok && definedNew == "" {
			definedNew = path
		}
	}
	if definedOld == "" {
		return nil, nil, fmt.Errorf("rule %q is not defined in any of the %d file(s)", oldName, len(files))
	}
	if definedNew != "" {
		return nil, nil, fmt.Errorf("rule %q already exists in %s", newName, definedNew)
	}

	changed := make(map[string]string)
	counts := make(map[string]int)
	for path, text := range files {
		out, n := rewrite.RenameOccurrences(text, oldName, newName)
		if n == 0 {
			continue
		}
		changed[path] = out
		counts[path] = n
	}
	return changed, counts, nil
}

func parseText(path, text string) *grammar.Grammar {
	fs := source.NewFileSet()
	id := fs.AddVirtual(path, []byte(text))
	return grammar.Parse(fs.Get(id), diag.NopReporter{}, scan.Options{})
}
