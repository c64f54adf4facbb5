package scan

import (
	"g4t/internal/source"
)

// cursor is a position inside the de-commented view of a file.
type cursor struct {
	file  *source.File
	clean []byte
	off   uint32
}

func (c *cursor) eof() bool {
	return int(c.off) >= len(c.clean)
}

func (c *cursor) peek() byte {
	if c.eof() {
		return 0
	}
	return c.clean[c.off]
}

func (c *cursor) bump() byte {
	if c.eof() {
		return 0
	}
	b := c.clean[c.off]
	c.off++
	return b
}

func (c *cursor) eat(b byte) bool {
	if !c.eof() && c.clean[c.off] == b {
		c.off++
		return true
	}
	return false
}

func (c *cursor) spanFrom(start uint32) source.Span {
	return source.Span{File: c.file.ID, Start: start, End: c.off}
}

// skipSpace advances past whitespace.
func (c *cursor) skipSpace() {
	for !c.eof() {
		switch c.clean[c.off] {
		case ' ', '\t', '\n', '\r':
			c.off++
		default:
			return
		}
	}
}

// ident reads an identifier at the current position, or returns "" without
// moving when none starts here.
func (c *cursor) ident() (string, source.Span) {
	start := c.off
	if c.eof() || !isIdentStart(c.clean[c.off]) {
		return "", source.Span{}
	}
	for !c.eof() && isIdentPart(c.clean[c.off]) {
		c.off++
	}
	return string(c.clean[start:c.off]), c.spanFrom(start)
}

// skipBalanced consumes a brace/bracket block starting at the current
// position, respecting string literals and char classes inside it.
func (c *cursor) skipBalanced(open, close byte) {
	if !c.eat(open) {
		return
	}
	depth := 1
	for !c.eof() && depth > 0 {
		switch b := c.bump(); b {
		case open:
			depth++
		case close:
			depth--
		case '\'':
			c.skipLiteral('\'')
		case '[':
			if open != '[' {
				c.skipLiteral(']')
			}
		}
	}
}

// skipLiteral consumes a quoted region whose opening delimiter was already
// read, honoring backslash escapes. Stops at end of line.
func (c *cursor) skipLiteral(close byte) {
	for !c.eof() {
		b := c.bump()
		switch b {
		case '\\':
			c.bump()
		case close:
			return
		case '\n':
			c.off-- // не съедаем перевод строки
			return
		}
	}
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentPart(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}
