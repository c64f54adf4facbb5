package grammar

// keywords are DSL words that look like identifiers inside a rule body but
// never name a rule. EOF is the implicit end-of-input token.
var keywords = map[string]bool{
	"grammar":  true,
	"lexer":    true,
	"parser":   true,
	"fragment": true,
	"import":   true,
	"options":  true,
	"tokens":   true,
	"channels": true,
	"mode":     true,
	"returns":  true,
	"locals":   true,
	"throws":   true,
	"catch":    true,
	"finally":  true,
	"skip":     true,
	"more":     true,
	"popMode":  true,
	"pushMode": true,
	"channel":  true,
	"type":     true,
	"EOF":      true,
}

// IsKeyword reports whether name is reserved by the DSL.
func IsKeyword(name string) bool {
	return keywords[name]
}

// ClassifyName applies the leading-case convention: an uppercase first
// letter makes a lexer rule, anything else a parser rule.
func ClassifyName(name string) RuleKind {
	if name == "" {
		return RuleParser
	}
	if c := name[0]; c >= 'A' && c <= 'Z' {
		return RuleLexer
	}
	return RuleParser
}
