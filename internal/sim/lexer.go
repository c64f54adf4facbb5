package sim

import (
	"fmt"
	"unicode/utf8"

	"g4t/internal/diag"
	"g4t/internal/grammar"
	"g4t/internal/source"
)

// matchBudget caps backtracking steps per rule per position so a
// pathological pattern cannot hang tokenization.
const matchBudget = 200_000

// Token is one simulated lexeme.
type Token struct {
	Type    string
	Text    string
	Channel string
	Skipped bool
	Start   int
	End     int
	Line    int
	Col     int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)", t.Type, t.Text)
}

// compiledRule pairs a lexer rule with its matcher tree and commands.
type compiledRule struct {
	rule *grammar.Rule
	root *node
}

// Lexer simulates the grammar's tokenizer.
type Lexer struct {
	g     *grammar.Grammar
	env   map[string]*node
	modes map[string][]*compiledRule
}

// NewLexer compiles every lexer rule of g. Rules whose bodies the
// compiler cannot express are reported as SimBadPattern and excluded.
func NewLexer(g *grammar.Grammar, rep diag.Reporter) *Lexer {
	lx := &Lexer{
		g:     g,
		env:   make(map[string]*node),
		modes: make(map[string][]*compiledRule),
	}
	for _, r := range g.Rules {
		if r.Kind != grammar.RuleLexer {
			continue
		}
		root, err := compileBody(r.Name, r.Body)
		if err != nil {
			rep.Report(diag.NewWarning(diag.SimBadPattern, r.NameSpan,
				fmt.Sprintf("cannot simulate rule %s: %v", r.Name, err)).
				WithRule(r.Name))
			continue
		}
		lx.env[r.Name] = root
		if !r.Fragment {
			lx.modes[r.Mode] = append(lx.modes[r.Mode], &compiledRule{rule: r, root: root})
		}
	}
	if g.Kind == grammar.KindCombined {
		lx.addImplicitLiterals()
	}
	return lx
}

// addImplicitLiterals synthesizes anonymous tokens for string literals
// that appear in parser rules of a combined grammar, the way a generated
// lexer declares them. They go to the front of the default mode so a
// keyword literal beats an identifier rule on equal length.
func (lx *Lexer) addImplicitLiterals() {
	defined := make(map[string]bool)
	for _, cr := range lx.modes[grammar.DefaultModeName] {
		if lit, ok := constantLiteral(cr.root); ok {
			defined[lit] = true
		}
	}

	var implicit []*compiledRule
	seen := make(map[string]bool)
	for _, r := range lx.g.Rules {
		if r.Kind != grammar.RuleParser {
			continue
		}
		for _, lit := range literalStrings(r.Body) {
			if lit == "" || seen[lit] || defined[lit] {
				continue
			}
			seen[lit] = true
			implicit = append(implicit, &compiledRule{
				rule: &grammar.Rule{
					Name: "'" + lit + "'",
					Kind: grammar.RuleLexer,
					Mode: grammar.DefaultModeName,
				},
				root: &node{kind: nodeLiteral, text: lit},
			})
		}
	}
	if len(implicit) > 0 {
		lx.modes[grammar.DefaultModeName] = append(implicit, lx.modes[grammar.DefaultModeName]...)
	}
}

// constantLiteral reports whether a compiled pattern is exactly one
// string literal.
func constantLiteral(n *node) (string, bool) {
	switch n.kind {
	case nodeLiteral:
		return n.text, true
	case nodeSeq:
		if len(n.children) == 1 {
			return constantLiteral(n.children[0])
		}
	}
	return "", false
}

// literalStrings extracts the unescaped '...' values of a rule body in
// order of appearance, skipping classes and actions.
func literalStrings(body string) []string {
	p := &patternParser{src: []rune(stripBodyComments(body))}
	var out []string
	for !p.eof() {
		switch p.peek() {
		case '\'':
			text, err := p.quoted()
			if err != nil {
				return out
			}
			out = append(out, text)
		case '[':
			p.pos++
			for !p.eof() && p.peek() != ']' {
				if p.peek() == '\\' {
					p.pos++
				}
				p.pos++
			}
		case '{':
			p.skipAction()
		default:
			p.pos++
		}
	}
	return out
}

// Tokenize runs maximal munch over input. Ties in match length go to the
// rule declared first. Where no rule matches, a SimNoMatch diagnostic is
// reported and the lexer advances one rune.
func (lx *Lexer) Tokenize(input string, rep diag.Reporter) []Token {
	var tokens []Token
	var modeStack []string
	mode := grammar.DefaultModeName
	line, col := 1, 1

	pos := 0
	for pos < len(input) {
		best := -1
		var bestRule *grammar.Rule
		for _, cr := range lx.modes[mode] {
			m := &charMatcher{input: input, env: lx.env, budget: matchBudget}
			if end, ok := m.longest(cr.root, pos); ok && end > pos && end > best {
				best = end
				bestRule = cr.rule
			}
		}

		if bestRule == nil {
			r, size := utf8.DecodeRuneInString(input[pos:])
			rep.Report(diag.NewWarning(diag.SimNoMatch, source.Span{},
				fmt.Sprintf("no lexer rule matches %q at offset %d", r, pos)))
			line, col = advance(input[pos:pos+size], line, col)
			pos += size
			continue
		}

		tok := Token{
			Type:  bestRule.Name,
			Text:  input[pos:best],
			Start: pos,
			End:   best,
			Line:  line,
			Col:   col,
		}
		for _, cmd := range bestRule.Commands {
			switch cmd.Name {
			case "skip":
				tok.Skipped = true
			case "channel":
				tok.Channel = cmd.Arg
			case "type":
				tok.Type = cmd.Arg
			case "pushMode":
				modeStack = append(modeStack, mode)
				mode = cmd.Arg
			case "popMode":
				if n := len(modeStack); n > 0 {
					mode = modeStack[n-1]
					modeStack = modeStack[:n-1]
				} else {
					mode = grammar.DefaultModeName
				}
			case "mode":
				mode = cmd.Arg
			}
		}
		tokens = append(tokens, tok)
		line, col = advance(tok.Text, line, col)
		pos = best
	}
	return tokens
}

// Lex is the one-shot convenience: compile and tokenize.
func Lex(g *grammar.Grammar, input string, rep diag.Reporter) []Token {
	return NewLexer(g, rep).Tokenize(input, rep)
}

// Significant filters out skipped tokens, mirroring what a parser sees.
func Significant(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if !t.Skipped {
			out = append(out, t)
		}
	}
	return out
}

func advance(text string, line, col int) (int, int) {
	for _, r := range text {
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// charMatcher walks a pattern tree over raw input with backtracking.
type charMatcher struct {
	input  string
	env    map[string]*node
	budget int
	depth  int
	maxEnd int
	found  bool
}

// longest explores every way n can match at pos and returns the furthest
// end reached.
func (m *charMatcher) longest(n *node, pos int) (int, bool) {
	m.maxEnd, m.found = pos, false
	m.match(n, pos, func(end int) bool {
		m.found = true
		if end > m.maxEnd {
			m.maxEnd = end
		}
		return false // продолжаем перебор ради максимального совпадения
	})
	return m.maxEnd, m.found
}

// match calls cont for every end position n can reach from pos. A true
// return from cont stops the search.
func (m *charMatcher) match(n *node, pos int, cont func(int) bool) bool {
	if m.budget <= 0 {
		return false
	}
	m.budget--

	switch n.kind {
	case nodeSeq:
		return m.matchSeq(n.children, pos, cont)
	case nodeAlt:
		for _, alt := range n.children {
			if m.match(alt, pos, cont) {
				return true
			}
		}
		return false
	case nodeLiteral:
		end := pos + len(n.text)
		if end <= len(m.input) && m.input[pos:end] == n.text {
			return cont(end)
		}
		return false
	case nodeClass:
		if pos >= len(m.input) {
			return false
		}
		r, size := utf8.DecodeRuneInString(m.input[pos:])
		if n.class.Contains(r) {
			return cont(pos + size)
		}
		return false
	case nodeAny:
		if pos >= len(m.input) {
			return false
		}
		_, size := utf8.DecodeRuneInString(m.input[pos:])
		return cont(pos + size)
	case nodeRepeat:
		return m.matchRepeat(n, pos, cont)
	case nodeRef:
		target, ok := m.env[n.ref]
		if !ok {
			return false
		}
		if m.depth >= DefaultMaxDepth {
			return false
		}
		m.depth++
		r := m.match(target, pos, cont)
		m.depth--
		return r
	case nodeEOF:
		if pos == len(m.input) {
			return cont(pos)
		}
		return false
	}
	return false
}

func (m *charMatcher) matchSeq(items []*node, pos int, cont func(int) bool) bool {
	if len(items) == 0 {
		return cont(pos)
	}
	return m.match(items[0], pos, func(next int) bool {
		return m.matchSeq(items[1:], next, cont)
	})
}

func (m *charMatcher) matchRepeat(n *node, pos int, cont func(int) bool) bool {
	child := n.children[0]
	var rep func(count, at int) bool
	rep = func(count, at int) bool {
		if m.budget <= 0 {
			return false
		}
		more := func() bool {
			if n.max >= 0 && count >= n.max {
				return false
			}
			return m.match(child, at, func(next int) bool {
				if next == at {
					// пустое совпадение — прерываем, иначе зациклимся
					return false
				}
				return rep(count+1, next)
			})
		}
		if count >= n.min {
			if n.greedy {
				return more() || cont(at)
			}
			return cont(at) || more()
		}
		return more()
	}
	return rep(0, pos)
}
