package sim

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultMaxDepth bounds rule-reference recursion during matching.
const DefaultMaxDepth = 64

type nodeKind uint8

const (
	nodeSeq nodeKind = iota
	nodeAlt
	nodeLiteral
	nodeClass
	nodeAny
	nodeRepeat
	nodeRef
	nodeEOF
)

// node is one vertex of a compiled pattern tree.
type node struct {
	kind     nodeKind
	children []*node
	text     string // nodeLiteral: unescaped value
	class    Class  // nodeClass
	min, max int    // nodeRepeat; max < 0 means unbounded
	greedy   bool   // nodeRepeat
	ref      string // nodeRef: rule name
}

// compileError marks a body the compiler could not make sense of.
type compileError struct {
	Rule   string
	Detail string
}

func (e *compileError) Error() string {
	return fmt.Sprintf("rule %s: %s", e.Rule, e.Detail)
}

// patternParser is a recursive-descent parser over one rule body.
type patternParser struct {
	src []rune
	pos int
}

func compileBody(rule, body string) (*node, error) {
	p := &patternParser{src: []rune(stripBodyComments(body))}
	n, err := p.alternation()
	if err != nil {
		return nil, &compileError{Rule: rule, Detail: err.Error()}
	}
	p.ws()
	if !p.eof() && p.peek() != '-' {
		return nil, &compileError{Rule: rule, Detail: fmt.Sprintf("unexpected %q at offset %d", p.peek(), p.pos)}
	}
	return n, nil
}

func (p *patternParser) alternation() (*node, error) {
	first, err := p.sequence()
	if err != nil {
		return nil, err
	}
	alts := []*node{first}
	for {
		p.ws()
		if p.eof() || p.peek() != '|' {
			break
		}
		p.pos++
		n, err := p.sequence()
		if err != nil {
			return nil, err
		}
		alts = append(alts, n)
	}
	if len(alts) == 1 {
		return first, nil
	}
	return &node{kind: nodeAlt, children: alts}, nil
}

func (p *patternParser) sequence() (*node, error) {
	var items []*node
	for {
		p.ws()
		if p.eof() {
			break
		}
		switch p.peek() {
		case '|', ')':
			goto done
		case '-':
			// '->' начинает команды, тело закончилось
			if p.pos+1 < len(p.src) && p.src[p.pos+1] == '>' {
				p.pos = len(p.src)
				goto done
			}
			return nil, fmt.Errorf("stray '-' at offset %d", p.pos)
		case '{':
			// действие или предикат — для симуляции прозрачны
			p.skipAction()
			p.ws()
			if !p.eof() && p.peek() == '?' {
				p.pos++
			}
			continue
		case '#':
			// метка альтернативы: до конца альтернативы
			p.pos++
			p.ws()
			p.ident()
			continue
		}
		n, err := p.suffixed()
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}
done:
	switch len(items) {
	case 0:
		return &node{kind: nodeSeq}, nil
	case 1:
		return items[0], nil
	}
	return &node{kind: nodeSeq, children: items}, nil
}

func (p *patternParser) suffixed() (*node, error) {
	n, err := p.primary()
	if err != nil {
		return nil, err
	}
	p.ws()
	if p.eof() {
		return n, nil
	}
	min, max := 0, 0
	switch p.peek() {
	case '?':
		min, max = 0, 1
	case '*':
		min, max = 0, -1
	case '+':
		min, max = 1, -1
	default:
		return n, nil
	}
	p.pos++
	greedy := true
	if !p.eof() && p.peek() == '?' {
		p.pos++
		greedy = false
	}
	return &node{kind: nodeRepeat, children: []*node{n}, min: min, max: max, greedy: greedy}, nil
}

func (p *patternParser) primary() (*node, error) {
	switch p.peek() {
	case '\'':
		return p.literal()
	case '[':
		return p.charClass()
	case '.':
		p.pos++
		return &node{kind: nodeAny}, nil
	case '(':
		p.pos++
		n, err := p.alternation()
		if err != nil {
			return nil, err
		}
		p.ws()
		if p.eof() || p.peek() != ')' {
			return nil, fmt.Errorf("unbalanced '(' at offset %d", p.pos)
		}
		p.pos++
		return n, nil
	case '~':
		p.pos++
		p.ws()
		return p.negatedSet()
	}
	if name := p.ident(); name != "" {
		if name == "EOF" {
			return &node{kind: nodeEOF}, nil
		}
		return &node{kind: nodeRef, ref: name}, nil
	}
	return nil, fmt.Errorf("unexpected %q at offset %d", p.peek(), p.pos)
}

// literal parses '...' with escapes; a following '..' makes a range.
func (p *patternParser) literal() (*node, error) {
	text, err := p.quoted()
	if err != nil {
		return nil, err
	}
	p.ws()
	if p.pos+1 < len(p.src) && p.src[p.pos] == '.' && p.src[p.pos+1] == '.' {
		p.pos += 2
		p.ws()
		if p.eof() || p.peek() != '\'' {
			return nil, fmt.Errorf("range '..' without right bound at offset %d", p.pos)
		}
		hiText, err := p.quoted()
		if err != nil {
			return nil, err
		}
		lo, _ := utf8.DecodeRuneInString(text)
		hi, _ := utf8.DecodeRuneInString(hiText)
		if utf8.RuneCountInString(text) != 1 || utf8.RuneCountInString(hiText) != 1 || hi < lo {
			return nil, fmt.Errorf("bad literal range %q..%q", text, hiText)
		}
		return &node{kind: nodeClass, class: Class{Ranges: []RuneRange{{Lo: lo, Hi: hi}}}}, nil
	}
	return &node{kind: nodeLiteral, text: text}, nil
}

func (p *patternParser) quoted() (string, error) {
	p.pos++ // opening quote
	var sb strings.Builder
	for !p.eof() {
		r := p.src[p.pos]
		switch r {
		case '\'':
			p.pos++
			return sb.String(), nil
		case '\\':
			esc, n, err := parseEscape(p.src[p.pos:])
			if err != nil {
				return "", err
			}
			sb.WriteRune(esc)
			p.pos += n
		default:
			sb.WriteRune(r)
			p.pos++
		}
	}
	return "", fmt.Errorf("unterminated literal")
}

func (p *patternParser) charClass() (*node, error) {
	start := p.pos
	p.pos++ // '['
	for !p.eof() {
		switch p.src[p.pos] {
		case '\\':
			p.pos += 2
			continue
		case ']':
			body := string(p.src[start+1 : p.pos])
			p.pos++
			cls, err := ParseClass(body)
			if err != nil {
				return nil, err
			}
			return &node{kind: nodeClass, class: cls}, nil
		}
		p.pos++
	}
	return nil, fmt.Errorf("unterminated character class")
}

// negatedSet handles ~[...] and ~'x'.
func (p *patternParser) negatedSet() (*node, error) {
	switch p.peek() {
	case '[':
		n, err := p.charClass()
		if err != nil {
			return nil, err
		}
		n.class.Negated = !n.class.Negated
		return n, nil
	case '\'':
		text, err := p.quoted()
		if err != nil {
			return nil, err
		}
		if utf8.RuneCountInString(text) != 1 {
			return nil, fmt.Errorf("~ applies to a single character, got %q", text)
		}
		r, _ := utf8.DecodeRuneInString(text)
		return &node{kind: nodeClass, class: Class{Ranges: []RuneRange{{Lo: r, Hi: r}}, Negated: true}}, nil
	case '(':
		// ~( 'a' | 'b' ) — собираем одиночные символы в один класс
		p.pos++
		var cls Class
		cls.Negated = true
		for {
			p.ws()
			if p.eof() {
				return nil, fmt.Errorf("unbalanced '~('")
			}
			switch p.peek() {
			case ')':
				p.pos++
				return &node{kind: nodeClass, class: cls}, nil
			case '|':
				p.pos++
			case '\'':
				text, err := p.quoted()
				if err != nil {
					return nil, err
				}
				if utf8.RuneCountInString(text) != 1 {
					return nil, fmt.Errorf("~(...) alternative %q is not a single character", text)
				}
				r, _ := utf8.DecodeRuneInString(text)
				cls.Ranges = append(cls.Ranges, RuneRange{Lo: r, Hi: r})
			case '[':
				n, err := p.charClass()
				if err != nil {
					return nil, err
				}
				cls.Ranges = append(cls.Ranges, n.class.Ranges...)
			default:
				return nil, fmt.Errorf("unsupported element in ~(...) at offset %d", p.pos)
			}
		}
	}
	return nil, fmt.Errorf("~ must be followed by a set")
}

func (p *patternParser) skipAction() {
	depth := 0
	for !p.eof() {
		switch p.src[p.pos] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				p.pos++
				return
			}
		case '\'', '"':
			q := p.src[p.pos]
			p.pos++
			for !p.eof() && p.src[p.pos] != q {
				if p.src[p.pos] == '\\' {
					p.pos++
				}
				p.pos++
			}
		}
		p.pos++
	}
}

func (p *patternParser) ident() string {
	start := p.pos
	for !p.eof() {
		r := p.src[p.pos]
		ok := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(p.pos > start && r >= '0' && r <= '9')
		if !ok {
			break
		}
		p.pos++
	}
	return string(p.src[start:p.pos])
}

func (p *patternParser) ws() {
	for !p.eof() {
		r := p.src[p.pos]
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return
		}
		p.pos++
	}
}

func (p *patternParser) eof() bool { return p.pos >= len(p.src) }

func (p *patternParser) peek() rune {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

// stripBodyComments blanks // and /* */ comments inside a verbatim rule
// body, preserving literals and classes.
func stripBodyComments(body string) string {
	out := []byte(body)
	i := 0
	for i < len(out) {
		switch out[i] {
		case '\'':
			i++
			for i < len(out) && out[i] != '\'' {
				if out[i] == '\\' {
					i++
				}
				i++
			}
			i++
		case '[':
			i++
			for i < len(out) && out[i] != ']' {
				if out[i] == '\\' {
					i++
				}
				i++
			}
			i++
		case '/':
			if i+1 < len(out) && out[i+1] == '/' {
				for i < len(out) && out[i] != '\n' {
					out[i] = ' '
					i++
				}
			} else if i+1 < len(out) && out[i+1] == '*' {
				for i < len(out) && !(out[i] == '*' && i+1 < len(out) && out[i+1] == '/') {
					if out[i] != '\n' {
						out[i] = ' '
					}
					i++
				}
				if i+1 < len(out) {
					out[i], out[i+1] = ' ', ' '
					i += 2
				}
			} else {
				i++
			}
		default:
			i++
		}
	}
	return string(out)
}
