package scan

import (
	"fmt"
	"strings"

	"g4t/internal/diag"
	"g4t/internal/source"
)

// DefaultMaxRuleLines bounds how many lines a single rule body may span
// before the scanner gives up looking for its semicolon.
const DefaultMaxRuleLines = 10000

type Options struct {
	// MaxRuleLines overrides the scan ceiling; 0 means DefaultMaxRuleLines.
	MaxRuleLines uint32
}

// Command is one lexer command attached to a rule, either after `->` or
// inside an embedded action: skip, more, popMode, pushMode(X), mode(X),
// channel(X), type(X).
type Command struct {
	Name string
	Arg  string
	Span source.Span
}

// RuleSpan locates one rule declaration.
type RuleSpan struct {
	Name       string
	NameSpan   source.Span
	HeaderSpan source.Span // name through the text just before ':' (returns, locals, ...)
	Span       source.Span // 'fragment'/name through ';' inclusive
	BodySpan   source.Span // between ':' and ';' exclusive
	ColonOff   uint32
	SemiOff    uint32
	Line       uint32 // 1-based line of the rule name
	Mode       string // lexer mode active at the declaration, "" for the default mode
	Fragment   bool
	Terminated bool
	Commands   []Command
}

// ModeSpan locates one `mode NAME;` declaration.
type ModeSpan struct {
	Name string
	Line uint32
	Span source.Span
}

// ImportDecl is one `import A, B;` statement.
type ImportDecl struct {
	Names []string
	Span  source.Span
}

// Header is the `grammar X;` / `lexer grammar X;` / `parser grammar X;` line.
type Header struct {
	Kind string // "combined", "lexer", "parser"
	Name string
	Span source.Span
}

// OptionsDecl captures an `options { ... }` block and its tokenVocab, if any.
type OptionsDecl struct {
	TokenVocab string
	Span       source.Span
}

// Result is everything the scanner learned about one file.
type Result struct {
	File    *source.File
	Clean   []byte
	Header  *Header
	Rules   []RuleSpan
	Modes   []ModeSpan
	Imports []ImportDecl
	Options *OptionsDecl
}

// Rule returns the span record for the named rule, if present.
func (r *Result) Rule(name string) (*RuleSpan, bool) {
	for i := range r.Rules {
		if r.Rules[i].Name == name {
			return &r.Rules[i], true
		}
	}
	return nil, false
}

// Scan locates every declaration in the file. It never parses the DSL in
// full: rule bodies are opaque except for literal/class/action nesting and
// lexer commands.
func Scan(f *source.File, rep diag.Reporter, opts Options) *Result {
	maxLines := opts.MaxRuleLines
	if maxLines == 0 {
		maxLines = DefaultMaxRuleLines
	}

	res := &Result{File: f}
	res.Clean = Decomment(f, rep)

	c := &cursor{file: f, clean: res.Clean}
	currentMode := ""

	for {
		c.skipSpace()
		if c.eof() {
			break
		}
		start := c.off
		b := c.peek()

		if b == '@' {
			// named action: @header {...}, @lexer::members {...}
			c.bump()
			c.ident()
			if c.eat(':') {
				c.eat(':')
				c.ident()
			}
			c.skipSpace()
			c.skipBalanced('{', '}')
			continue
		}

		if !isIdentStart(b) {
			c.bump() // stray punctuation, often left by recovery
			continue
		}

		name, nameSpan := c.ident()
		switch name {
		case "grammar":
			scanHeader(c, res, rep, "combined", start)
		case "lexer", "parser":
			c.skipSpace()
			if kw, _ := c.ident(); kw == "grammar" {
				scanHeader(c, res, rep, name, start)
				continue
			}
			// не заголовок — считаем правилом с таким именем
			c.off = nameSpan.End
			scanRule(c, res, rep, name, nameSpan, false, currentMode, maxLines)
		case "import":
			scanImport(c, res, start)
		case "options":
			scanOptions(c, res, start)
		case "tokens", "channels":
			c.skipSpace()
			c.skipBalanced('{', '}')
		case "mode":
			c.skipSpace()
			modeName, _ := c.ident()
			if modeName == "" {
				rep.Report(diag.NewError(diag.ScanDanglingMode, c.spanFrom(start),
					"mode declaration without a name"))
				continue
			}
			c.skipSpace()
			c.eat(';')
			currentMode = modeName
			res.Modes = append(res.Modes, ModeSpan{
				Name: modeName,
				Line: f.Pos(start).Line,
				Span: c.spanFrom(start),
			})
		case "fragment":
			c.skipSpace()
			ruleName, ruleNameSpan := c.ident()
			if ruleName == "" {
				c.bump()
				continue
			}
			scanRuleAt(c, res, rep, ruleName, ruleNameSpan, start, true, currentMode, maxLines)
		default:
			scanRule(c, res, rep, name, nameSpan, false, currentMode, maxLines)
		}
	}

	return res
}

func scanHeader(c *cursor, res *Result, rep diag.Reporter, kind string, start uint32) {
	c.skipSpace()
	name, _ := c.ident()
	c.skipSpace()
	terminated := c.eat(';')
	span := c.spanFrom(start)
	if name == "" || !terminated {
		rep.Report(diag.NewError(diag.ScanBadHeader, span,
			fmt.Sprintf("malformed %s declaration", kind)))
		return
	}
	if res.Header == nil {
		res.Header = &Header{Kind: kind, Name: name, Span: span}
	}
}

func scanImport(c *cursor, res *Result, start uint32) {
	decl := ImportDecl{}
	for {
		c.skipSpace()
		name, _ := c.ident()
		if name == "" {
			break
		}
		decl.Names = append(decl.Names, name)
		c.skipSpace()
		if !c.eat(',') {
			break
		}
	}
	c.skipSpace()
	c.eat(';')
	decl.Span = c.spanFrom(start)
	if len(decl.Names) > 0 {
		res.Imports = append(res.Imports, decl)
	}
}

func scanOptions(c *cursor, res *Result, start uint32) {
	c.skipSpace()
	blockStart := c.off
	c.skipBalanced('{', '}')
	span := c.spanFrom(start)
	if res.Options != nil {
		return
	}
	decl := &OptionsDecl{Span: span}
	// tokenVocab = Name ; внутри блока
	block := string(c.clean[blockStart:c.off])
	if idx := strings.Index(block, "tokenVocab"); idx >= 0 {
		rest := block[idx+len("tokenVocab"):]
		rest = strings.TrimLeft(rest, " \t\n=")
		end := 0
		for end < len(rest) && isIdentPart(rest[end]) {
			end++
		}
		decl.TokenVocab = rest[:end]
	}
	res.Options = decl
}

// scanRule continues after the rule name has been read.
func scanRule(c *cursor, res *Result, rep diag.Reporter, name string, nameSpan source.Span, fragment bool, mode string, maxLines uint32) {
	scanRuleAt(c, res, rep, name, nameSpan, nameSpan.Start, fragment, mode, maxLines)
}

func scanRuleAt(c *cursor, res *Result, rep diag.Reporter, name string, nameSpan source.Span, declStart uint32, fragment bool, mode string, maxLines uint32) {
	// header items between name and ':' (args, returns, locals, throws, options)
	for {
		c.skipSpace()
		switch c.peek() {
		case '[':
			c.skipBalanced('[', ']')
			continue
		case '{':
			c.skipBalanced('{', '}')
			continue
		case ':':
			// конец заголовка
		default:
			if isIdentStart(c.peek()) {
				save := c.off
				id, _ := c.ident()
				switch id {
				case "returns", "locals", "options":
					continue
				case "throws":
					// список исключений: Name (',' Name)*
					for {
						c.skipSpace()
						c.ident()
						c.skipSpace()
						if !c.eat(',') {
							break
						}
					}
					continue
				}
				// чужой идентификатор — началось следующее объявление,
				// текущее имя правилом не было
				c.off = save
				return
			}
			// нет двоеточия — это не правило
			return
		}
		break
	}

	headerSpan := source.Span{File: c.file.ID, Start: nameSpan.Start, End: c.off}
	colonOff := c.off
	c.eat(':')

	rule := RuleSpan{
		Name:       name,
		NameSpan:   nameSpan,
		HeaderSpan: headerSpan,
		ColonOff:   colonOff,
		Line:       c.file.Pos(nameSpan.Start).Line,
		Mode:       mode,
		Fragment:   fragment,
	}

	bodyStart := c.off
	terminated, commands := scanBody(c, rep, name, nameSpan, maxLines)
	rule.Terminated = terminated
	rule.Commands = commands
	if terminated {
		rule.SemiOff = c.off - 1
		rule.BodySpan = source.Span{File: c.file.ID, Start: bodyStart, End: c.off - 1}
	} else {
		rule.SemiOff = c.off
		rule.BodySpan = source.Span{File: c.file.ID, Start: bodyStart, End: c.off}
	}
	rule.Span = source.Span{File: c.file.ID, Start: declStart, End: c.off}
	res.Rules = append(res.Rules, rule)
}

// scanBody consumes a rule body up to and including the terminating ';'.
// A semicolon inside an embedded action or literal does not terminate.
// Returns whether the body was terminated before EOF or the line ceiling.
func scanBody(c *cursor, rep diag.Reporter, ruleName string, nameSpan source.Span, maxLines uint32) (bool, []Command) {
	braceDepth := 0
	var lines uint32
	var commands []Command
	arrow := false // после '->' до конца альтернативы

	for !c.eof() {
		b := c.peek()
		switch b {
		case ';':
			c.bump()
			if braceDepth == 0 {
				return true, commands
			}
		case '\n':
			c.bump()
			lines++
			if lines > maxLines {
				rep.Report(diag.NewError(diag.ScanUnterminatedRule, nameSpan,
					fmt.Sprintf("rule %q spans more than %d lines without a closing ';', likely a missing semicolon", ruleName, maxLines)).
					WithRule(ruleName))
				return false, commands
			}
		case '\'':
			c.bump()
			c.skipLiteral('\'')
		case '[':
			c.bump()
			c.skipLiteral(']')
		case '{':
			c.bump()
			braceDepth++
		case '}':
			c.bump()
			if braceDepth > 0 {
				braceDepth--
			}
		case '-':
			c.bump()
			if braceDepth == 0 && c.eat('>') {
				arrow = true
			}
		case '|':
			c.bump()
			if braceDepth == 0 {
				arrow = false
			}
		default:
			if isIdentStart(b) {
				id, idSpan := c.ident()
				if cmd, ok := commandFrom(c, id, idSpan, arrow, braceDepth); ok {
					commands = append(commands, cmd)
				}
				continue
			}
			c.bump()
		}
	}

	rep.Report(diag.NewError(diag.ScanUnterminatedRule, nameSpan,
		fmt.Sprintf("rule %q is not terminated before end of file — likely missing semicolon", ruleName)).
		WithRule(ruleName))
	return false, commands
}

// commandFrom recognizes lexer commands after '->' or inside actions.
func commandFrom(c *cursor, id string, idSpan source.Span, arrow bool, braceDepth int) (Command, bool) {
	if !arrow && braceDepth == 0 {
		return Command{}, false
	}
	switch id {
	case "skip", "more", "popMode":
		return Command{Name: id, Span: idSpan}, true
	case "pushMode", "mode", "channel", "type":
		c.skipSpace()
		if c.eat('(') {
			c.skipSpace()
			arg, _ := c.ident()
			c.skipSpace()
			c.eat(')')
			return Command{Name: id, Arg: arg, Span: c.spanFrom(idSpan.Start)}, true
		}
		return Command{Name: id, Span: idSpan}, true
	}
	return Command{}, false
}
