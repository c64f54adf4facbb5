package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"g4t/internal/diag"
	"g4t/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan, color.Bold)
	pathColor    = color.New(color.Bold)
	caretColor   = color.New(color.FgGreen, color.Bold)
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE> (<tag>): <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	restore := color.NoColor
	color.NoColor = !opts.Color
	defer func() { color.NoColor = restore }()

	for _, d := range bag.Items() {
		printOne(w, d, fs, opts)
	}
}

func printOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	sev := severityColor(d.Severity)
	fmt.Fprintf(w, "%s: %s %s (%s): %s\n",
		pathColor.Sprint(location(d.Primary, fs, opts.PathMode)),
		sev.Sprint(d.Severity.String()),
		d.Code.ID(),
		d.Code.String(),
		d.Message)

	if opts.ShowContext {
		printContext(w, d.Primary, fs)
	}
	if d.Suggestion != "" {
		fmt.Fprintf(w, "    suggestion: %s\n", d.Suggestion)
	}
	if opts.ShowNotes {
		for _, note := range d.Notes {
			fmt.Fprintf(w, "    note: %s: %s\n", location(note.Span, fs, opts.PathMode), note.Msg)
		}
	}
}

func printContext(w io.Writer, span source.Span, fs *source.FileSet) {
	if int(span.File) >= fs.Len() || span.Empty() {
		return
	}
	f := fs.Get(span.File)
	start := f.Pos(span.Start)
	line := f.GetLine(start.Line)
	if line == "" {
		return
	}
	fmt.Fprintf(w, "    %s\n", strings.TrimRight(line, "\r\n"))

	// подчёркивание ^~~~ в пределах одной строки
	width := int(span.End - span.Start)
	lineEnd := len(strings.TrimRight(line, "\r\n"))
	if maxW := lineEnd - int(start.Col) + 1; width > maxW {
		width = maxW
	}
	if width < 1 {
		width = 1
	}
	marker := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, "    %s%s\n", strings.Repeat(" ", int(start.Col)-1), caretColor.Sprint(marker))
}

func location(span source.Span, fs *source.FileSet, mode PathMode) string {
	if int(span.File) >= fs.Len() {
		return "<unknown>"
	}
	f := fs.Get(span.File)
	pos := f.Pos(span.Start)
	return fmt.Sprintf("%s:%d:%d", formatPath(f, fs, mode), pos.Line, pos.Col)
}

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	default:
		return f.FormatPath("auto", "")
	}
}

func severityColor(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return errorColor
	case diag.SevWarning:
		return warningColor
	default:
		return infoColor
	}
}
