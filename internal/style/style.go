// Package style detects the formatting conventions of a grammar file so
// machine edits blend in with hand-written rules.
package style

import (
	"strings"

	"g4t/internal/grammar"
	"g4t/internal/source"
)

// sampleLimit caps how many rules the inferencer looks at. Early rules
// set the tone of a file; sampling keeps Infer O(1) on huge grammars.
const sampleLimit = 10

// Style is the inferred house style of one file. It is derived once per
// operation and consumed by every write.
type Style struct {
	// ColonOnOwnLine: the ':' starts its own (indented) line.
	ColonOnOwnLine bool
	// SpaceBeforeColon: `name :` rather than `name:` (inline colons only).
	SpaceBeforeColon bool
	// SemiOnOwnLine: the ';' starts its own line.
	SemiOnOwnLine bool
	// Indent is the continuation indentation unit.
	Indent string
	// BlankLinesBetweenRules is the dominant number of blank lines
	// separating consecutive rules.
	BlankLinesBetweenRules int
}

// Default is used when a file has no rules to sample.
func Default() Style {
	return Style{
		SpaceBeforeColon:       true,
		Indent:                 "    ",
		BlankLinesBetweenRules: 1,
	}
}

// Infer samples the first rules of the grammar and derives its style.
func Infer(g *grammar.Grammar) Style {
	if len(g.Rules) == 0 {
		return Default()
	}
	f := g.File

	var colonOwn, colonInline, spaceBefore, noSpaceBefore, semiOwn, semiInline int
	indentVotes := make(map[string]int)

	n := len(g.Rules)
	if n > sampleLimit {
		n = sampleLimit
	}
	for _, r := range g.Rules[:n] {
		colonLine := f.Pos(r.ColonOff).Line
		if colonLine > r.Line {
			colonOwn++
			if ws := leadingWS(f.GetLine(colonLine)); ws != "" {
				indentVotes[ws]++
			}
		} else {
			colonInline++
			if r.ColonOff > 0 && isHSpace(f.Content[r.ColonOff-1]) {
				spaceBefore++
			} else {
				noSpaceBefore++
			}
		}

		semiLine := f.Pos(r.SemiOff).Line
		if semiLine > prevContentLine(f, r.SemiOff) {
			semiOwn++
		} else {
			semiInline++
		}

		// отступ строк продолжения
		if bodyFirst := f.Pos(r.BodySpan.Start).Line; bodyFirst < f.Pos(r.BodySpan.End).Line {
			for line := bodyFirst + 1; line <= f.Pos(r.BodySpan.End).Line; line++ {
				text := f.GetLine(line)
				if strings.TrimSpace(text) == "" {
					continue
				}
				if ws := leadingWS(text); ws != "" {
					indentVotes[ws]++
				}
			}
		}
	}

	st := Default()
	st.ColonOnOwnLine = colonOwn > colonInline
	st.SpaceBeforeColon = spaceBefore >= noSpaceBefore
	st.SemiOnOwnLine = semiOwn > semiInline
	if ind := majority(indentVotes); ind != "" {
		st.Indent = ind
	}
	st.BlankLinesBetweenRules = blankLineConvention(g)
	return st
}

// FormatRule renders a complete rule declaration in this style, without a
// trailing newline. For fragments, pass "fragment NAME" as the name.
func (st Style) FormatRule(name, body string) string {
	body = strings.TrimSpace(body)
	var sb strings.Builder
	sb.WriteString(name)

	switch {
	case st.ColonOnOwnLine:
		sb.WriteString("\n")
		sb.WriteString(st.Indent)
		sb.WriteString(": ")
		sb.WriteString(body)
	case st.SpaceBeforeColon:
		sb.WriteString(" : ")
		sb.WriteString(body)
	default:
		sb.WriteString(": ")
		sb.WriteString(body)
	}

	if st.SemiOnOwnLine {
		sb.WriteString("\n")
		sb.WriteString(st.Indent)
		sb.WriteString(";")
	} else {
		sb.WriteString(" ;")
	}
	return sb.String()
}

// IndentBody re-indents a (possibly multi-line) body so its continuation
// lines sit at the style's indentation unit.
func (st Style) IndentBody(body string) string {
	lines := strings.Split(strings.TrimSpace(body), "\n")
	if len(lines) == 1 {
		return lines[0]
	}
	for i := 1; i < len(lines); i++ {
		lines[i] = st.Indent + strings.TrimSpace(lines[i])
	}
	return strings.Join(lines, "\n")
}

// Separator is the blank-line run placed between rules.
func (st Style) Separator() string {
	return strings.Repeat("\n", st.BlankLinesBetweenRules+1)
}

func blankLineConvention(g *grammar.Grammar) int {
	votes := make(map[int]int)
	f := g.File
	n := len(g.Rules)
	if n > sampleLimit {
		n = sampleLimit
	}
	for i := 1; i < n; i++ {
		prevEnd := f.Pos(g.Rules[i-1].Span.End).Line
		curStart := g.Rules[i].Line
		gap := int(curStart) - int(prevEnd) - 1
		if gap >= 0 && gap <= 4 {
			votes[gap]++
		}
	}
	best, bestCount := 1, 0
	for gap, count := range votes {
		if count > bestCount || (count == bestCount && gap < best) {
			best, bestCount = gap, count
		}
	}
	return best
}

// prevContentLine returns the line of the last non-whitespace byte
// before off.
func prevContentLine(f *source.File, off uint32) uint32 {
	for i := int(off) - 1; i >= 0; i-- {
		b := f.Content[i]
		if b != ' ' && b != '\t' && b != '\n' && b != '\r' {
			return f.Pos(uint32(i)).Line
		}
	}
	return 1
}

func leadingWS(line string) string {
	for i := 0; i < len(line); i++ {
		if !isHSpace(line[i]) {
			return line[:i]
		}
	}
	return line
}

func isHSpace(b byte) bool {
	return b == ' ' || b == '\t'
}

func majority(votes map[string]int) string {
	best := ""
	bestCount := 0
	for s, count := range votes {
		if count > bestCount || (count == bestCount && len(s) < len(best)) {
			best, bestCount = s, count
		}
	}
	return best
}
