package rewrite

// wordSites finds the byte offsets of whole-word occurrences of word in a
// comment-blanked view, skipping string literals, character classes and
// embedded actions. With skipArrows set, lexer-command tails (from '->' to
// the end of the alternative) are skipped as well.
func wordSites(clean []byte, lo, hi uint32, word string, skipArrows bool) []uint32 {
	var sites []uint32
	i := int(lo)
	end := int(hi)
	if end > len(clean) {
		end = len(clean)
	}
	for i < end {
		b := clean[i]
		switch {
		case b == '\'':
			i = skipDelimited(clean, i+1, '\'', end)
		case b == '[':
			i = skipDelimited(clean, i+1, ']', end)
		case b == '{':
			i = skipBalancedBraces(clean, i, end)
		case skipArrows && b == '-' && i+1 < end && clean[i+1] == '>':
			i = skipToAltEnd(clean, i+2, end)
		case isIdentStart(b):
			j := i
			for j < end && isIdentPart(clean[j]) {
				j++
			}
			if j-i == len(word) && string(clean[i:j]) == word {
				sites = append(sites, uint32(i))
			}
			i = j
		default:
			i++
		}
	}
	return sites
}

func skipDelimited(clean []byte, i int, close byte, end int) int {
	for i < end {
		switch clean[i] {
		case '\\':
			i += 2
		case close:
			return i + 1
		default:
			i++
		}
	}
	return i
}

func skipBalancedBraces(clean []byte, i, end int) int {
	depth := 0
	for i < end {
		switch clean[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		case '\'', '"':
			i = skipDelimited(clean, i+1, clean[i], end) - 1
		}
		i++
	}
	return i
}

// skipToAltEnd advances past a lexer-command tail: up to a top-level '|'
// or the end of the range.
func skipToAltEnd(clean []byte, i, end int) int {
	depth := 0
	for i < end {
		switch clean[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case '|':
			if depth == 0 {
				return i
			}
		case ';':
			return i
		}
		i++
	}
	return i
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentPart(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}
