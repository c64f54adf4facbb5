package scan

import (
	"g4t/internal/diag"
	"g4t/internal/source"

	"fortio.org/safecast"
)

// cleanState tracks what region of the file the de-commenting pass is in.
type cleanState uint8

const (
	stCode cleanState = iota
	stLineComment
	stBlockComment
	stString    // '...'
	stCharClass // [...]
)

// Decomment returns a copy of content with comments blanked by spaces.
// Newlines inside comments are preserved so byte offsets and line numbers
// stay valid. Quote and class regions shield // and /* markers.
func Decomment(f *source.File, rep diag.Reporter) []byte {
	content := f.Content
	out := make([]byte, len(content))
	copy(out, content)

	state := stCode
	var regionStart uint32

	i := 0
	for i < len(content) {
		b := content[i]
		switch state {
		case stCode:
			switch {
			case b == '/' && i+1 < len(content) && content[i+1] == '/':
				state = stLineComment
				out[i], out[i+1] = ' ', ' '
				i += 2
				continue
			case b == '/' && i+1 < len(content) && content[i+1] == '*':
				state = stBlockComment
				regionStart = mustU32(i)
				out[i], out[i+1] = ' ', ' '
				i += 2
				continue
			case b == '\'':
				state = stString
				regionStart = mustU32(i)
			case b == '[':
				state = stCharClass
				regionStart = mustU32(i)
			}
		case stLineComment:
			if b == '\n' {
				state = stCode
			} else {
				out[i] = ' '
			}
		case stBlockComment:
			if b == '*' && i+1 < len(content) && content[i+1] == '/' {
				out[i], out[i+1] = ' ', ' '
				state = stCode
				i += 2
				continue
			}
			if b != '\n' {
				out[i] = ' '
			}
		case stString:
			switch b {
			case '\\':
				i += 2 // escape consumes the next byte too
				continue
			case '\'':
				state = stCode
			case '\n':
				// незакрытая строка — закрываем на конце строки
				rep.Report(diag.NewError(diag.ScanUnterminatedLit,
					source.Span{File: f.ID, Start: regionStart, End: mustU32(i)},
					"string literal is not terminated before end of line"))
				state = stCode
			}
		case stCharClass:
			switch b {
			case '\\':
				i += 2
				continue
			case ']':
				state = stCode
			case '\n':
				rep.Report(diag.NewError(diag.ScanUnterminatedLit,
					source.Span{File: f.ID, Start: regionStart, End: mustU32(i)},
					"character class is not terminated before end of line"))
				state = stCode
			}
		}
		i++
	}

	if state == stBlockComment {
		rep.Report(diag.NewError(diag.ScanUnterminatedLit,
			source.Span{File: f.ID, Start: regionStart, End: mustU32(len(content))},
			"block comment is not terminated"))
	}
	return out
}

func mustU32(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(err)
	}
	return v
}
