package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Структурные (сканер)
	ScanInfo             Code = 1000
	ScanUnterminatedRule Code = 1001
	ScanUnterminatedLit  Code = 1002
	ScanStrayChar        Code = 1003
	ScanBadHeader        Code = 1004
	ScanDanglingMode     Code = 1005
	ScanLoadFailed       Code = 1006

	// Ссылки и валидация модели
	RefInfo           Code = 2000
	RefUndefined      Code = 2001
	RefUnusedRule     Code = 2002
	RefDuplicateRule  Code = 2003
	RefHiddenLeftRec  Code = 2004
	RefDirectLeftRec  Code = 2005
	RefNamingParser   Code = 2006
	RefNamingLexer    Code = 2007
	RefNamingFragment Code = 2008

	// Неоднозначности альтернатив
	AmbigInfo              Code = 3000
	AmbigIdenticalAlts     Code = 3001
	AmbigOverlappingPrefix Code = 3002
	AmbigOptionalPlus      Code = 3003
	AmbigOptionalStar      Code = 3004
	AmbigLiteralShadowed   Code = 3005

	// Лексерные режимы
	ModeInfo           Code = 4000
	ModeUndeclared     Code = 4001
	ModeUnreachable    Code = 4002
	ModePopFromDefault Code = 4003
	ModeCycle          Code = 4004

	// Предусловия операций правки
	EditInfo           Code = 5000
	EditRuleExists     Code = 5001
	EditRuleNotFound   Code = 5002
	EditAnchorNotFound Code = 5003
	EditInlineRejected Code = 5004
	EditImportCycle    Code = 5005
	EditImportMissing  Code = 5006

	// Симулятор
	SimInfo         Code = 6000
	SimNoMatch      Code = 6001
	SimBadPattern   Code = 6002
	SimDepthCutoff  Code = 6003
	SimDisagreement Code = 6004
)

// ID returns the stable textual form used in JSON output and fix IDs.
func (c Code) ID() string {
	return fmt.Sprintf("G4%04d", uint16(c))
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return c.ID()
}

// codeNames даёт человекочитаемые теги для вывода и тестов.
var codeNames = map[Code]string{
	ScanUnterminatedRule: "unterminated-rule",
	ScanUnterminatedLit:  "unterminated-literal",
	ScanStrayChar:        "stray-character",
	ScanBadHeader:        "bad-grammar-header",
	ScanDanglingMode:     "dangling-mode",
	ScanLoadFailed:       "load-failed",

	RefUndefined:      "undefined-reference",
	RefUnusedRule:     "unused-rule",
	RefDuplicateRule:  "duplicate-rule",
	RefHiddenLeftRec:  "hidden-left-recursion",
	RefDirectLeftRec:  "direct-left-recursion",
	RefNamingParser:   "parser-rule-naming",
	RefNamingLexer:    "lexer-rule-naming",
	RefNamingFragment: "fragment-rule-naming",

	AmbigIdenticalAlts:     "identical-alternatives",
	AmbigOverlappingPrefix: "overlapping-prefix",
	AmbigOptionalPlus:      "ambiguous-optional",
	AmbigOptionalStar:      "redundant-optional",
	AmbigLiteralShadowed:   "literal-shadowed-by-class",

	ModeUndeclared:     "undeclared-mode",
	ModeUnreachable:    "unreachable-mode",
	ModePopFromDefault: "pop-from-default-mode",
	ModeCycle:          "mode-cycle",

	EditRuleExists:     "rule-exists",
	EditRuleNotFound:   "rule-not-found",
	EditAnchorNotFound: "anchor-not-found",
	EditInlineRejected: "inline-rejected",
	EditImportCycle:    "circular-import",
	EditImportMissing:  "missing-import",

	SimNoMatch:      "no-viable-token",
	SimBadPattern:   "unsupported-pattern",
	SimDepthCutoff:  "match-depth-cutoff",
	SimDisagreement: "oracle-disagreement",
}
