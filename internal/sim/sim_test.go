package sim

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"g4t/internal/diag"
	"g4t/internal/grammar"
	"g4t/internal/scan"
	"g4t/internal/source"
)

func buildGrammar(t *testing.T, text string) *grammar.Grammar {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("G.g4", []byte(text))
	return grammar.Parse(fs.Get(id), diag.NopReporter{}, scan.Options{})
}

func tokenTypes(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Type + "(" + tok.Text + ")"
	}
	return out
}

func TestLex_MaximalMunchWithDeclarationOrderTies(t *testing.T) {
	g := buildGrammar(t, `lexer grammar L;
IF : 'if' ;
ID : [a-z]+ ;
WS : [ \t]+ -> skip ;
`)
	tokens := Lex(g, "if ifx", diag.NopReporter{})

	got := tokenTypes(Significant(tokens))
	want := []string{"IF(if)", "ID(ifx)"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokens = %v, want %v", got, want)
	}

	// скрытый WS присутствует с пометкой Skipped
	if len(tokens) != 3 || !tokens[1].Skipped || tokens[1].Type != "WS" {
		t.Errorf("skipped WS missing from full stream: %v", tokenTypes(tokens))
	}
}

func TestLex_FragmentsAndRanges(t *testing.T) {
	g := buildGrammar(t, `lexer grammar L;
NUM : DIGIT+ ('.' DIGIT+)? ;
fragment DIGIT : '0'..'9' ;
WS : [ ]+ -> skip ;
`)
	tokens := Significant(Lex(g, "3.14 42", diag.NopReporter{}))
	got := tokenTypes(tokens)
	want := []string{"NUM(3.14)", "NUM(42)"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokens = %v, want %v", got, want)
	}
}

func TestLex_ChannelAndTypeCommands(t *testing.T) {
	g := buildGrammar(t, `lexer grammar L;
COMMENT : '//' ~[\n]* -> channel(HIDDEN) ;
KW : 'begin' -> type(ID) ;
ID : [a-z]+ ;
NL : '\n' -> skip ;
`)
	tokens := Lex(g, "// note\nbegin", diag.NopReporter{})
	if tokens[0].Channel != "HIDDEN" {
		t.Errorf("comment channel = %q, want HIDDEN", tokens[0].Channel)
	}
	last := tokens[len(tokens)-1]
	if last.Type != "ID" || last.Text != "begin" {
		t.Errorf("type command not applied: %v", last)
	}
}

func TestLex_ModeTransitions(t *testing.T) {
	g := buildGrammar(t, `lexer grammar L;
OPEN : '<' -> pushMode(TAG) ;
TEXT : ~[<]+ ;

mode TAG;
NAME : [a-z]+ ;
CLOSE : '>' -> popMode ;
`)
	tokens := Lex(g, "hi<b>yo", diag.NopReporter{})
	got := tokenTypes(tokens)
	want := []string{"TEXT(hi)", "OPEN(<)", "NAME(b)", "CLOSE(>)", "TEXT(yo)"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokens = %v, want %v", got, want)
	}
}

func TestLex_NoMatchRecovery(t *testing.T) {
	g := buildGrammar(t, `lexer grammar L;
ID : [a-z]+ ;
`)
	bag := diag.NewBag(16)
	tokens := Lex(g, "ab#cd", diag.BagReporter{Bag: bag})

	got := tokenTypes(tokens)
	want := []string{"ID(ab)", "ID(cd)"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokens = %v, want %v", got, want)
	}
	if len(bag.ByCode(diag.SimNoMatch)) != 1 {
		t.Errorf("want one no-match diagnostic, got %d", bag.Len())
	}
}

func TestLex_LineAndColumn(t *testing.T) {
	g := buildGrammar(t, `lexer grammar L;
ID : [a-z]+ ;
NL : '\n' -> skip ;
`)
	tokens := Lex(g, "ab\ncd", diag.NopReporter{})
	last := tokens[len(tokens)-1]
	if last.Line != 2 || last.Col != 1 {
		t.Errorf("cd at %d:%d, want 2:1", last.Line, last.Col)
	}
}

func TestLex_ImplicitParserLiterals(t *testing.T) {
	g := buildGrammar(t, matchGrammar)
	bag := diag.NewBag(16)
	tokens := Significant(Lex(g, "x = 1;", diag.BagReporter{Bag: bag}))

	got := tokenTypes(tokens)
	want := []string{"ID(x)", "'='(=)", "INT(1)", "';'(;)"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokens = %v, want %v", got, want)
	}
	if bag.Len() != 0 {
		t.Errorf("unexpected diagnostics: %v", bag.Items())
	}
}

func TestLex_ImplicitLiteralBeatsIdentifier(t *testing.T) {
	g := buildGrammar(t, `grammar K;
stat : 'if' ID ;
ID : [a-z]+ ;
WS : [ ]+ -> skip ;
`)
	tokens := Significant(Lex(g, "if x", diag.NopReporter{}))
	got := tokenTypes(tokens)
	want := []string{"'if'(if)", "ID(x)"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokens = %v, want %v", got, want)
	}
}

func TestLex_DefinedLiteralNotDuplicated(t *testing.T) {
	g := buildGrammar(t, `grammar K;
stat : ID '=' INT ;
ASSIGN : '=' ;
ID : [a-z]+ ;
INT : [0-9]+ ;
WS : [ ]+ -> skip ;
`)
	tokens := Significant(Lex(g, "x = 1", diag.NopReporter{}))
	got := tokenTypes(tokens)
	want := []string{"ID(x)", "ASSIGN(=)", "INT(1)"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokens = %v, want %v", got, want)
	}

	// литерал в правиле сверяется с текстом токена, имя не важно
	rep, err := Match(g, "stat", tokens)
	if err != nil || !rep.Matched {
		t.Errorf("stat did not match: %+v err=%v", rep, err)
	}
}

const matchGrammar = `grammar M;
prog : stat+ EOF ;
stat : ID '=' expr ';' ;
expr : term ('+' term)* ;
term : ID | INT ;
ID : [a-z]+ ;
INT : [0-9]+ ;
WS : [ \t\n]+ -> skip ;
`

func matchInput(t *testing.T, rule, input string) Report {
	t.Helper()
	g := buildGrammar(t, matchGrammar)
	tokens := Significant(Lex(g, input, diag.NopReporter{}))
	rep, err := Match(g, rule, tokens)
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	return rep
}

func TestMatch_FullConsumptionHighConfidence(t *testing.T) {
	rep := matchInput(t, "prog", "x = a + 1;\ny = 2;")
	if !rep.Matched {
		t.Fatalf("Matched = false, want true (report %+v)", rep)
	}
	if rep.Confidence != ConfidenceHigh {
		t.Errorf("Confidence = %s, want high", rep.Confidence)
	}
	if rep.Consumed != 10 {
		t.Errorf("Consumed = %d, want 10", rep.Consumed)
	}
}

func TestMatch_PartialPrefix(t *testing.T) {
	rep := matchInput(t, "stat", "x = a +")
	if rep.Matched {
		t.Fatalf("Matched = true for incomplete input")
	}
	if !rep.Partial {
		t.Errorf("Partial = false, want true (stream ended mid-rule)")
	}
	if rep.FailOffset != 4 {
		t.Errorf("FailOffset = %d, want 4", rep.FailOffset)
	}
}

func TestMatch_MismatchReportsExpected(t *testing.T) {
	rep := matchInput(t, "stat", "x = ;")
	if rep.Matched {
		t.Fatalf("Matched = true, want false")
	}
	if rep.FailOffset != 2 {
		t.Errorf("FailOffset = %d, want 2", rep.FailOffset)
	}
	wantSome := map[string]bool{"ID": true, "INT": true}
	found := false
	for _, e := range rep.Expected {
		if wantSome[e] {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected = %v, want ID or INT listed", rep.Expected)
	}
}

func TestMatch_UnknownRule(t *testing.T) {
	g := buildGrammar(t, matchGrammar)
	if _, err := Match(g, "nosuch", nil); err == nil {
		t.Fatalf("Match(nosuch) succeeded, want error")
	}
}

type fakeOracle struct {
	res OracleResult
	err error
}

func (f fakeOracle) Match(ctx context.Context, grammarText, rule, input string) (OracleResult, error) {
	return f.res, f.err
}

func TestMatchWithOracle_Disagreement(t *testing.T) {
	g := buildGrammar(t, matchGrammar)
	o := fakeOracle{res: OracleResult{Matched: false}}
	rep, _, err := MatchWithOracle(context.Background(), g, "stat", "x = a;", o, diag.NopReporter{})
	if err != nil {
		t.Fatalf("MatchWithOracle failed: %v", err)
	}
	if !rep.Disagreement {
		t.Errorf("Disagreement = false; simulator matches, oracle does not")
	}
	if rep.Matched {
		t.Errorf("oracle verdict must win")
	}
}

func TestMatchWithOracle_UnavailableFallsBack(t *testing.T) {
	g := buildGrammar(t, matchGrammar)
	o := fakeOracle{err: errors.New("boom: " + ErrUnavailable.Error())}
	rep, _, err := MatchWithOracle(context.Background(), g, "stat", "x = a;", o, diag.NopReporter{})
	if err != nil {
		t.Fatalf("MatchWithOracle failed: %v", err)
	}
	if !rep.Matched || rep.Disagreement {
		t.Errorf("fallback verdict wrong: %+v", rep)
	}
}

func TestParseClassNegation(t *testing.T) {
	cls, err := ParseClass(`a-z0-9`)
	if err != nil {
		t.Fatalf("ParseClass: %v", err)
	}
	if !cls.Contains('m') || !cls.Contains('5') || cls.Contains('M') {
		t.Errorf("class membership wrong: %+v", cls)
	}
	cls.Negated = true
	if cls.Contains('m') || !cls.Contains('M') {
		t.Errorf("negated membership wrong")
	}
}
