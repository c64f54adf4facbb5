package sim

import (
	"fmt"
	"strconv"
	"strings"
)

// Class is a parsed character class: a set of rune ranges, optionally
// negated. The zero value matches nothing.
type Class struct {
	Ranges  []RuneRange
	Negated bool
}

type RuneRange struct {
	Lo, Hi rune
}

// ParseClass parses the inside of a [...] character class (without the
// brackets). Supported: ranges a-z, escapes \n \r \t \\ \] \- \u{...}
// \uXXXX, literal chars. A leading '-' or trailing '-' is literal.
func ParseClass(body string) (Class, error) {
	var cls Class
	runes := []rune(body)
	i := 0
	for i < len(runes) {
		r := runes[i]
		var lo rune
		switch r {
		case '\\':
			esc, n, err := parseEscape(runes[i:])
			if err != nil {
				return cls, err
			}
			lo = esc
			i += n
		default:
			lo = r
			i++
		}

		hi := lo
		// диапазон a-z; дефис в конце класса — литерал
		if i+1 < len(runes) && runes[i] == '-' {
			i++
			if runes[i] == '\\' {
				esc, n, err := parseEscape(runes[i:])
				if err != nil {
					return cls, err
				}
				hi = esc
				i += n
			} else {
				hi = runes[i]
				i++
			}
			if hi < lo {
				return cls, fmt.Errorf("inverted range %q-%q in character class", lo, hi)
			}
		}
		cls.Ranges = append(cls.Ranges, RuneRange{Lo: lo, Hi: hi})
	}
	return cls, nil
}

func parseEscape(runes []rune) (rune, int, error) {
	if len(runes) < 2 {
		return 0, 0, fmt.Errorf("dangling backslash in character class")
	}
	switch runes[1] {
	case 'n':
		return '\n', 2, nil
	case 'r':
		return '\r', 2, nil
	case 't':
		return '\t', 2, nil
	case 'f':
		return '\f', 2, nil
	case 'b':
		return '\b', 2, nil
	case '\\', ']', '-', '\'', '[':
		return runes[1], 2, nil
	case 'u':
		return parseUnicodeEscape(runes)
	default:
		// неизвестный escape — принимаем как сам символ
		return runes[1], 2, nil
	}
}

func parseUnicodeEscape(runes []rune) (rune, int, error) {
	// \u{1F600} или \uXXXX
	if len(runes) > 2 && runes[2] == '{' {
		end := 3
		for end < len(runes) && runes[end] != '}' {
			end++
		}
		if end >= len(runes) {
			return 0, 0, fmt.Errorf("unterminated \\u{...} escape")
		}
		v, err := strconv.ParseInt(string(runes[3:end]), 16, 32)
		if err != nil {
			return 0, 0, fmt.Errorf("bad \\u{...} escape: %w", err)
		}
		return rune(v), end + 1, nil
	}
	if len(runes) < 6 {
		return 0, 0, fmt.Errorf("truncated \\uXXXX escape")
	}
	v, err := strconv.ParseInt(string(runes[2:6]), 16, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("bad \\uXXXX escape: %w", err)
	}
	return rune(v), 6, nil
}

// Contains reports whether the class matches r.
func (c Class) Contains(r rune) bool {
	in := false
	for _, rr := range c.Ranges {
		if r >= rr.Lo && r <= rr.Hi {
			in = true
			break
		}
	}
	if c.Negated {
		return !in
	}
	return in
}

// ContainsAll reports whether every rune of s is matched by the class.
func (c Class) ContainsAll(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !c.Contains(r) {
			return false
		}
	}
	return true
}

// LiteralClassShape recognizes a lexer rule body that is a single
// character class with an optional + or * quantifier, e.g. `[a-zA-Z]+`.
// Returns the class body (without brackets) and the quantifier ("" when
// absent), or ok=false for any other shape.
func LiteralClassShape(body string) (class, quant string, ok bool) {
	s := strings.TrimSpace(body)
	if !strings.HasPrefix(s, "[") {
		return "", "", false
	}
	end := classEnd(s)
	if end < 0 {
		return "", "", false
	}
	class = s[1:end]
	rest := strings.TrimSpace(s[end+1:])
	switch rest {
	case "":
		return class, "", true
	case "+", "*":
		return class, rest, true
	}
	return "", "", false
}

func classEnd(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case ']':
			return i
		}
	}
	return -1
}
