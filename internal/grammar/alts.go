package grammar

import "strings"

// Alt is one top-level alternative of a rule body.
type Alt struct {
	Text string
	// Off is the byte offset of the alternative inside the body text.
	Off int
}

// SplitAlternatives splits a rule body on top-level '|', respecting
// parentheses, literals, character classes and embedded actions.
func SplitAlternatives(body string) []Alt {
	var alts []Alt
	depthParen, depthBrace := 0, 0
	start := 0

	i := 0
	for i < len(body) {
		switch body[i] {
		case '\'':
			i = skipQuoted(body, i+1, '\'')
			continue
		case '[':
			i = skipQuoted(body, i+1, ']')
			continue
		case '(':
			depthParen++
		case ')':
			if depthParen > 0 {
				depthParen--
			}
		case '{':
			depthBrace++
		case '}':
			if depthBrace > 0 {
				depthBrace--
			}
		case '|':
			if depthParen == 0 && depthBrace == 0 {
				alts = append(alts, Alt{Text: body[start:i], Off: start})
				start = i + 1
			}
		}
		i++
	}
	alts = append(alts, Alt{Text: body[start:], Off: start})
	return alts
}

// AltTokens reduces an alternative to its lexical items: identifiers,
// literals, character classes and structural punctuation. Element labels,
// alternative labels, embedded actions and lexer command lists are dropped.
func AltTokens(alt string) []string {
	var out []string
	depthBrace := 0
	arrow := false

	i := 0
	for i < len(alt) {
		b := alt[i]
		switch {
		case b == '\'':
			end := skipQuoted(alt, i+1, '\'')
			if depthBrace == 0 && !arrow {
				out = append(out, alt[i:end])
			}
			i = end
		case b == '[':
			end := skipQuoted(alt, i+1, ']')
			if depthBrace == 0 && !arrow {
				out = append(out, alt[i:end])
			}
			i = end
		case b == '{':
			depthBrace++
			i++
		case b == '}':
			if depthBrace > 0 {
				depthBrace--
			}
			i++
		case b == '-' && i+1 < len(alt) && alt[i+1] == '>' && depthBrace == 0:
			arrow = true
			i += 2
		case b == '#' && depthBrace == 0:
			i = skipIdent(alt, i+1)
		case isIdentStartByte(b):
			start := i
			i = skipIdent(alt, i)
			if depthBrace > 0 || arrow {
				continue
			}
			// пропускаем метки элементов: name= / name+=
			j := skipWS(alt, i)
			if j < len(alt) && alt[j] == '=' && (j+1 >= len(alt) || alt[j+1] != '=') {
				i = j + 1
				continue
			}
			if j+1 < len(alt) && alt[j] == '+' && alt[j+1] == '=' {
				i = j + 2
				continue
			}
			out = append(out, alt[start:i])
		case b == '(' || b == ')' || b == '?' || b == '*' || b == '+' || b == '~' || b == '.':
			if depthBrace == 0 && !arrow {
				out = append(out, string(b))
			}
			i++
		default:
			i++
		}
	}
	return out
}

// NormalizeAlt renders an alternative as a whitespace-normalized token
// string, suitable for exact comparison of alternatives.
func NormalizeAlt(alt string) string {
	return strings.Join(AltTokens(alt), " ")
}

// FirstSymbol returns the first referenced rule name of an alternative, or
// "" when the alternative starts with a literal, class, wildcard or is
// empty. Leading parentheses are looked through.
func FirstSymbol(alt string) string {
	for _, tok := range AltTokens(alt) {
		switch {
		case tok == "(":
			continue
		case len(tok) > 0 && isIdentStartByte(tok[0]):
			if IsKeyword(tok) {
				return ""
			}
			return tok
		default:
			return ""
		}
	}
	return ""
}
