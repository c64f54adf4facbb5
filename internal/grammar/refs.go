package grammar

// ExtractRefs collects rule names referenced in a rule body: identifiers
// outside string literals, character classes, embedded actions and lexer
// command lists, excluding DSL keywords, element labels (x=..., x+=...)
// and alternative labels (#Name). First-seen order, deduplicated.
func ExtractRefs(body string) []string {
	var out []string
	seen := make(map[string]bool)

	depth := 0   // embedded action {}
	arrow := false

	i := 0
	for i < len(body) {
		b := body[i]
		switch {
		case b == '\'':
			i = skipQuoted(body, i+1, '\'')
		case b == '[':
			i = skipQuoted(body, i+1, ']')
		case b == '{':
			depth++
			i++
		case b == '}':
			if depth > 0 {
				depth--
			}
			i++
		case b == '-' && i+1 < len(body) && body[i+1] == '>' && depth == 0:
			arrow = true
			i += 2
		case b == '|' && depth == 0:
			arrow = false
			i++
		case b == '#' && depth == 0:
			// альтернативная метка #Name
			i++
			i = skipIdent(body, i)
		case isIdentStartByte(b):
			start := i
			i = skipIdent(body, i)
			name := body[start:i]
			if depth > 0 || arrow {
				continue
			}
			// element label: name= or name+=
			j := skipWS(body, i)
			if j < len(body) && (body[j] == '=' && (j+1 >= len(body) || body[j+1] != '=')) {
				continue
			}
			if j+1 < len(body) && body[j] == '+' && body[j+1] == '=' {
				continue
			}
			if IsKeyword(name) || seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, name)
		default:
			i++
		}
	}
	return out
}

// BodyUsesEOF reports whether the body references the implicit EOF token
// outside literals and actions.
func BodyUsesEOF(body string) bool {
	for _, tok := range AltTokensAll(body) {
		if tok == "EOF" {
			return true
		}
	}
	return false
}

// AltTokensAll tokenizes every alternative of a body.
func AltTokensAll(body string) []string {
	var out []string
	for _, alt := range SplitAlternatives(body) {
		out = append(out, AltTokens(alt.Text)...)
	}
	return out
}

func skipQuoted(s string, i int, close byte) int {
	for i < len(s) {
		switch s[i] {
		case '\\':
			i += 2
		case close:
			return i + 1
		case '\n':
			return i
		default:
			i++
		}
	}
	return i
}

func skipIdent(s string, i int) int {
	for i < len(s) && isIdentPartByte(s[i]) {
		i++
	}
	return i
}

func skipWS(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentPartByte(b byte) bool {
	return isIdentStartByte(b) || (b >= '0' && b <= '9')
}
