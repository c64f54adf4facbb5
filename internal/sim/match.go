package sim

import (
	"fmt"
	"sort"

	"g4t/internal/grammar"
)

// Confidence grades how much a match verdict should be trusted. The
// simulator is an approximation: it cannot follow semantic predicates or
// embedded actions, so a verdict is never more than advisory.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Report is the outcome of matching a parser rule against a token stream.
type Report struct {
	Matched    bool
	Consumed   int
	Confidence Confidence

	// FailOffset is the furthest token index reached before failing.
	FailOffset int

	// Expected lists what could have continued the match at FailOffset.
	Expected []string

	// Partial: the tokens are a correct prefix but the stream ended (or
	// diverged) before the rule completed.
	Partial bool

	// Disagreement is set by MatchWithOracle when the oracle and the
	// simulator reach different verdicts.
	Disagreement bool
}

// Match runs ruleName against tokens with bounded-depth backtracking.
func Match(g *grammar.Grammar, ruleName string, tokens []Token) (Report, error) {
	r, ok := g.Rule(ruleName)
	if !ok {
		return Report{}, fmt.Errorf("rule %q not found", ruleName)
	}
	root, err := compileBody(r.Name, r.Body)
	if err != nil {
		return Report{}, err
	}

	m := &tokMatcher{
		g:        g,
		tokens:   tokens,
		cache:    map[string]*node{r.Name: root},
		budget:   matchBudget,
		expected: make(map[string]bool),
	}

	// полный перебор ради максимального потребления
	found, maxEnd := false, 0
	m.match(root, 0, func(end int) bool {
		found = true
		if end > maxEnd {
			maxEnd = end
		}
		return false
	})

	rep := Report{
		Matched:    found,
		Consumed:   maxEnd,
		FailOffset: m.deepest,
	}
	for name := range m.expected {
		rep.Expected = append(rep.Expected, name)
	}
	sort.Strings(rep.Expected)

	switch {
	case m.cutoff:
		rep.Confidence = ConfidenceLow
	case found && maxEnd == len(tokens) && !m.rematchBacktracks(root, maxEnd):
		rep.Confidence = ConfidenceHigh
	case found:
		rep.Confidence = ConfidenceMedium
	default:
		rep.Confidence = ConfidenceLow
	}
	if !found && m.deepest >= len(tokens) {
		rep.Partial = true
	}
	if found && maxEnd < len(tokens) {
		rep.Partial = true
	}
	return rep, nil
}

// tokMatcher walks pattern trees over a token stream.
type tokMatcher struct {
	g      *grammar.Grammar
	tokens []Token
	cache  map[string]*node
	budget int
	depth  int
	cutoff bool

	deepest    int
	expected   map[string]bool
	backtracks int
}

// rematchBacktracks replays the search accept-first and reports whether
// any top-level alternative had to be abandoned on the way to the full
// match.
func (m *tokMatcher) rematchBacktracks(root *node, want int) bool {
	m.budget = matchBudget
	m.backtracks = 0
	m.match(root, 0, func(end int) bool { return end == want })
	return m.backtracks > 0
}

func (m *tokMatcher) fail(pos int, what string) bool {
	if pos > m.deepest {
		m.deepest = pos
		for k := range m.expected {
			delete(m.expected, k)
		}
	}
	if pos == m.deepest {
		m.expected[what] = true
	}
	return false
}

func (m *tokMatcher) match(n *node, pos int, cont func(int) bool) bool {
	if m.budget <= 0 {
		return false
	}
	m.budget--

	switch n.kind {
	case nodeSeq:
		return m.matchSeq(n.children, pos, cont)
	case nodeAlt:
		tried := false
		for _, alt := range n.children {
			if m.match(alt, pos, cont) {
				if tried && m.depth == 0 {
					m.backtracks++
				}
				return true
			}
			tried = true
		}
		return false
	case nodeLiteral:
		if pos < len(m.tokens) && m.tokens[pos].Text == n.text {
			return cont(pos + 1)
		}
		return m.fail(pos, fmt.Sprintf("'%s'", n.text))
	case nodeRef:
		return m.matchRef(n.ref, pos, cont)
	case nodeAny:
		if pos < len(m.tokens) {
			return cont(pos + 1)
		}
		return m.fail(pos, "any token")
	case nodeRepeat:
		return m.matchRepeat(n, pos, cont)
	case nodeEOF:
		if pos == len(m.tokens) {
			return cont(pos)
		}
		return m.fail(pos, "end of input")
	case nodeClass:
		// класс символов в параметрическом правиле не встречается
		return m.fail(pos, "token")
	}
	return false
}

func (m *tokMatcher) matchRef(name string, pos int, cont func(int) bool) bool {
	if grammar.ClassifyName(name) == grammar.RuleLexer {
		if pos < len(m.tokens) && m.tokens[pos].Type == name {
			return cont(pos + 1)
		}
		return m.fail(pos, name)
	}

	body, ok := m.cache[name]
	if !ok {
		r, exists := m.g.Rule(name)
		if !exists {
			return m.fail(pos, name)
		}
		compiled, err := compileBody(r.Name, r.Body)
		if err != nil {
			return m.fail(pos, name)
		}
		body = compiled
		m.cache[name] = body
	}
	if m.depth >= DefaultMaxDepth {
		m.cutoff = true
		return false
	}
	m.depth++
	res := m.match(body, pos, cont)
	m.depth--
	return res
}

func (m *tokMatcher) matchSeq(items []*node, pos int, cont func(int) bool) bool {
	if len(items) == 0 {
		return cont(pos)
	}
	return m.match(items[0], pos, func(next int) bool {
		return m.matchSeq(items[1:], next, cont)
	})
}

func (m *tokMatcher) matchRepeat(n *node, pos int, cont func(int) bool) bool {
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
