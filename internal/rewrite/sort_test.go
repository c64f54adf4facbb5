package rewrite

import (
	"errors"
	"strings"
	"testing"
)

const unsortedGrammar = `grammar U;

prog : stat+ ;

atom : INT ;

stat : atom ;

WS : [ \t]+ -> skip ;

INT : [0-9]+ ;
`

func ruleOrder(t *testing.T, text string) []int {
	t.Helper()
	names := []string{"prog :", "atom :", "stat :", "WS :", "INT :"}
	out := make([]int, len(names))
	for i, n := range names {
		out[i] = strings.Index(text, n)
		if out[i] < 0 {
			t.Fatalf("rule %q missing from:\n%s", n, text)
		}
	}
	return out
}

func TestSort_Alphabetical(t *testing.T) {
	res := Sort(unsortedGrammar, SortAlphabetical, SortOptions{})
	if !res.OK {
		t.Fatalf("Sort failed: %v (%s)", res.Err, res.Reason)
	}
	at := ruleOrder(t, res.Text)
	prog, atom, stat, ws, intAt := at[0], at[1], at[2], at[3], at[4]
	// parser A-Z, затем lexer A-Z
	if !(atom < prog && prog < stat && stat < intAt && intAt < ws) {
		t.Errorf("order wrong:\n%s", res.Text)
	}
}

func TestSort_AlphabeticalIdempotent(t *testing.T) {
	once := Sort(unsortedGrammar, SortAlphabetical, SortOptions{})
	if !once.OK {
		t.Fatalf("first sort failed: %v", once.Err)
	}
	twice := Sort(once.Text, SortAlphabetical, SortOptions{})
	if !twice.OK {
		t.Fatalf("second sort failed: %v", twice.Err)
	}
	if twice.Text != once.Text {
		t.Errorf("alphabetical sort is not idempotent:\n--- once ---\n%s\n--- twice ---\n%s",
			once.Text, twice.Text)
	}
}

func TestSort_PreservesRuleBytes(t *testing.T) {
	res := Sort(unsortedGrammar, SortAlphabetical, SortOptions{})
	if !res.OK {
		t.Fatalf("Sort failed: %v", res.Err)
	}
	for _, decl := range []string{
		"prog : stat+ ;",
		"atom : INT ;",
		"stat : atom ;",
		"WS : [ \\t]+ -> skip ;",
		"INT : [0-9]+ ;",
	} {
		if !strings.Contains(res.Text, decl) {
			t.Errorf("declaration %q not preserved verbatim:\n%s", decl, res.Text)
		}
	}
}

func TestSort_ByType(t *testing.T) {
	const g = `grammar T;

ID : LETTER+ ;

prog : ID+ ;

fragment LETTER : [a-z] ;
`
	res := Sort(g, SortByType, SortOptions{})
	if !res.OK {
		t.Fatalf("Sort failed: %v", res.Err)
	}
	progAt := strings.Index(res.Text, "prog :")
	idAt := strings.Index(res.Text, "ID :")
	fragAt := strings.Index(res.Text, "fragment LETTER")
	if !(progAt < idAt && idAt < fragAt) {
		t.Errorf("type grouping wrong:\n%s", res.Text)
	}
}

func TestSort_Dependency(t *testing.T) {
	res := Sort(unsortedGrammar, SortDependency, SortOptions{Anchor: "stat"})
	if !res.OK {
		t.Fatalf("Sort failed: %v", res.Err)
	}
	at := ruleOrder(t, res.Text)
	prog, atom, stat := at[0], at[1], at[2]
	// зависимости stat, сам stat, затем его пользователи
	if !(atom < stat && stat < prog) {
		t.Errorf("dependency order wrong:\n%s", res.Text)
	}

	missing := Sort(unsortedGrammar, SortDependency, SortOptions{Anchor: "ghost"})
	if missing.OK || !errors.Is(missing.Err, ErrAnchorNotFound) {
		t.Errorf("missing anchor: OK=%v err=%v, want ErrAnchorNotFound", missing.OK, missing.Err)
	}
}

func TestSort_Usage(t *testing.T) {
	const g = `grammar V;

prog : stat stat ;

stat : atom atom atom ;

atom : INT ;

INT : [0-9]+ ;
`
	res := Sort(g, SortUsage, SortOptions{})
	if !res.OK {
		t.Fatalf("Sort failed: %v", res.Err)
	}
	atomAt := strings.Index(res.Text, "atom :")
	statAt := strings.Index(res.Text, "stat :")
	progAt := strings.Index(res.Text, "prog :")
	// atom на каждого ссылающегося считается один раз; порядок по числу ссылающихся правил
	if !(atomAt < progAt && statAt < progAt) {
		t.Errorf("usage order wrong:\n%s", res.Text)
	}
}

func TestSort_UnknownStrategy(t *testing.T) {
	res := Sort(unsortedGrammar, "entropy", SortOptions{})
	if res.OK || !errors.Is(res.Err, ErrBadStrategy) {
		t.Fatalf("OK=%v err=%v, want ErrBadStrategy", res.OK, res.Err)
	}
	if res.Text != unsortedGrammar {
		t.Errorf("failed Sort modified the text")
	}
}

func TestSort_ModesStayPut(t *testing.T) {
	const g = `lexer grammar M;

B : 'b' ;

A : 'a' -> pushMode(ISLAND) ;

mode ISLAND;

Z : 'z' ;

Y : 'y' -> popMode ;
`
	res := Sort(g, SortAlphabetical, SortOptions{})
	if !res.OK {
		t.Fatalf("Sort failed: %v", res.Err)
	}
	modeAt := strings.Index(res.Text, "mode ISLAND;")
	for _, n := range []string{"A :", "B :"} {
		if strings.Index(res.Text, n) > modeAt {
			t.Errorf("default-mode rule %q crossed the mode boundary:\n%s", n, res.Text)
		}
	}
	for _, n := range []string{"Y :", "Z :"} {
		if strings.Index(res.Text, n) < modeAt {
			t.Errorf("mode rule %q crossed the mode boundary:\n%s", n, res.Text)
		}
	}
	// внутри секций — алфавит
	if !(strings.Index(res.Text, "A :") < strings.Index(res.Text, "B :")) {
		t.Errorf("default section not sorted:\n%s", res.Text)
	}
	if !(strings.Index(res.Text, "Y :") < strings.Index(res.Text, "Z :")) {
		t.Errorf("mode section not sorted:\n%s", res.Text)
	}
}
