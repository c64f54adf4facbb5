package rewrite

import (
	"sort"
	"strings"

	"g4t/internal/source"
)

// edit replaces [Start, End) with NewText.
type edit struct {
	Start   uint32
	End     uint32
	NewText string
}

// applyEdits splices a set of non-overlapping edits into text. Edits are
// applied back-to-front so earlier offsets stay valid.
func applyEdits(text string, edits []edit) string {
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].Start == edits[j].Start {
			return edits[i].End > edits[j].End
		}
		return edits[i].Start > edits[j].Start
	})
	out := []byte(text)
	for _, e := range edits {
		if int(e.End) > len(out) || e.Start > e.End {
			continue
		}
		suffix := append([]byte(nil), out[e.End:]...)
		out = append(append(out[:e.Start], []byte(e.NewText)...), suffix...)
	}
	return string(out)
}

// deletionSpan widens a rule span to swallow its line and the blank lines
// that separated it from the next rule, so removals leave no holes.
func deletionSpan(text string, span source.Span) (uint32, uint32) {
	start := span.Start
	// до начала строки, если слева только пробелы
	lineStart := start
	for lineStart > 0 && text[lineStart-1] != '\n' {
		lineStart--
	}
	if strings.TrimSpace(text[lineStart:start]) == "" {
		start = lineStart
	}

	end := span.End
	// хвост строки + последующие пустые строки
	for int(end) < len(text) && (text[end] == ' ' || text[end] == '\t') {
		end++
	}
	if int(end) < len(text) && text[end] == '\n' {
		end++
		for int(end) < len(text) {
			lineEnd := end
			for int(lineEnd) < len(text) && text[lineEnd] != '\n' {
				lineEnd++
			}
			if strings.TrimSpace(text[end:lineEnd]) != "" {
				break
			}
			if int(lineEnd) >= len(text) {
				end = lineEnd
				break
			}
			end = lineEnd + 1
		}
	}
	return start, end
}
