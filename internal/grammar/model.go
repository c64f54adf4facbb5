package grammar

import (
	"g4t/internal/scan"
	"g4t/internal/source"
)

// Kind classifies a whole grammar file.
type Kind uint8

const (
	KindCombined Kind = iota
	KindLexer
	KindParser
)

func (k Kind) String() string {
	switch k {
	case KindLexer:
		return "lexer"
	case KindParser:
		return "parser"
	}
	return "combined"
}

// RuleKind classifies a single rule by its leading-case convention.
type RuleKind uint8

const (
	RuleParser RuleKind = iota
	RuleLexer
)

func (k RuleKind) String() string {
	if k == RuleLexer {
		return "lexer"
	}
	return "parser"
}

// DefaultModeName is the implicit lexer mode every grammar has.
const DefaultModeName = "DEFAULT_MODE"

// Rule is one lexer or parser production. Body text is kept verbatim so
// rewrites can splice without disturbing formatting.
type Rule struct {
	Name     string
	Kind     RuleKind
	Fragment bool
	// Body is the verbatim text between ':' and ';'.
	Body       string
	Span       source.Span // 'fragment'/name through ';'
	HeaderSpan source.Span
	BodySpan   source.Span
	NameSpan   source.Span
	ColonOff   uint32
	SemiOff    uint32
	Line       uint32
	// Mode is set for lexer rules only; DefaultModeName when undeclared.
	Mode string
	// Refs are rule names referenced from the body, outside literals,
	// classes, actions and lexer commands. First-seen order, deduplicated.
	Refs     []string
	Commands []scan.Command
	// Terminated is false when the scanner never found the closing ';'.
	Terminated bool
}

// RefersTo reports whether the rule references name.
func (r *Rule) RefersTo(name string) bool {
	for _, ref := range r.Refs {
		if ref == name {
			return true
		}
	}
	return false
}

// Mode is a named lexer state and its member rules, in declaration order.
type Mode struct {
	Name  string
	Line  uint32
	Rules []string
}

type Import struct {
	Name string
	Span source.Span
}

type Options struct {
	TokenVocab string
	Span       source.Span
}

// Grammar is the structured model of one grammar file. It is rebuilt
// wholesale from text on every call; nothing in it is incrementally mutated.
type Grammar struct {
	Name       string
	Kind       Kind
	HeaderSpan source.Span
	Rules      []*Rule
	Imports    []Import
	Options    *Options
	Modes      []Mode
	File       *source.File

	byName map[string]*Rule
}

// Rule returns the rule with the exact (case-sensitive) name.
func (g *Grammar) Rule(name string) (*Rule, bool) {
	r, ok := g.byName[name]
	return r, ok
}

// RuleNames returns every rule name in declaration order.
func (g *Grammar) RuleNames() []string {
	out := make([]string, 0, len(g.Rules))
	for _, r := range g.Rules {
		out = append(out, r.Name)
	}
	return out
}

// ParserRules returns the parser rules in declaration order.
func (g *Grammar) ParserRules() []*Rule {
	return g.rulesOfKind(RuleParser)
}

// LexerRules returns the lexer rules (fragments included) in declaration order.
func (g *Grammar) LexerRules() []*Rule {
	return g.rulesOfKind(RuleLexer)
}

func (g *Grammar) rulesOfKind(kind RuleKind) []*Rule {
	var out []*Rule
	for _, r := range g.Rules {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

// FirstParserRule returns the conventional entry rule, if any.
func (g *Grammar) FirstParserRule() (*Rule, bool) {
	for _, r := range g.Rules {
		if r.Kind == RuleParser {
			return r, true
		}
	}
	return nil, false
}

// HasExternalVocabulary reports whether undefined token references may
// plausibly come from an imported grammar or a token vocabulary.
func (g *Grammar) HasExternalVocabulary() bool {
	if len(g.Imports) > 0 {
		return true
	}
	return g.Options != nil && g.Options.TokenVocab != ""
}
