package rewrite

import (
	"errors"
	"strings"
	"testing"
)

func TestInline_SingleAlternative(t *testing.T) {
	const g = `grammar I;
stat : expr ';' ;
expr : ID '=' ID ;
ID : [a-z]+ ;
`
	res := Inline(g, "expr", InlineOptions{})
	if !res.OK {
		t.Fatalf("Inline failed: %v (%s)", res.Err, res.Reason)
	}
	if res.Count != 1 {
		t.Errorf("Count = %d, want 1", res.Count)
	}
	if res.Parenthesized {
		t.Errorf("single alternative must not be parenthesized")
	}
	if !strings.Contains(res.Text, "stat : ID '=' ID ';' ;") {
		t.Errorf("body not substituted:\n%s", res.Text)
	}
	if strings.Contains(res.Text, "expr") {
		t.Errorf("definition not deleted:\n%s", res.Text)
	}
}

func TestInline_MultiAlternativeParenthesized(t *testing.T) {
	const g = `grammar I;
stat : value* ;
value : INT | ID ;
INT : [0-9]+ ;
ID : [a-z]+ ;
`
	res := Inline(g, "value", InlineOptions{})
	if !res.OK {
		t.Fatalf("Inline failed: %v", res.Err)
	}
	if !res.Parenthesized || res.AltCount != 2 {
		t.Errorf("Parenthesized=%v AltCount=%d, want true/2", res.Parenthesized, res.AltCount)
	}
	// скобки сохраняют смысл '*'
	if !strings.Contains(res.Text, "stat : (INT | ID)* ;") {
		t.Errorf("substitution wrong:\n%s", res.Text)
	}
}

func TestInline_DropsAlternativeLabels(t *testing.T) {
	const g = `grammar I;
stat : value ;
value : INT # Num | ID # Name ;
INT : [0-9]+ ;
ID : [a-z]+ ;
`
	res := Inline(g, "value", InlineOptions{})
	if !res.OK {
		t.Fatalf("Inline failed: %v", res.Err)
	}
	if strings.Contains(res.Text, "# Num") || strings.Contains(res.Text, "# Name") {
		t.Errorf("labels survived inlining:\n%s", res.Text)
	}
	if !strings.Contains(res.Text, "stat : (INT | ID) ;") {
		t.Errorf("substitution wrong:\n%s", res.Text)
	}
}

func TestInline_SelfRecursiveRejected(t *testing.T) {
	const g = `grammar I;
stat : expr ;
expr : expr '+' INT | INT ;
INT : [0-9]+ ;
`
	res := Inline(g, "expr", InlineOptions{})
	if res.OK || !errors.Is(res.Err, ErrRecursiveInline) {
		t.Fatalf("OK=%v err=%v, want ErrRecursiveInline", res.OK, res.Err)
	}
	if res.Text != g {
		t.Errorf("failed Inline must leave text byte-identical")
	}
}

func TestInline_CycleRejected(t *testing.T) {
	const g = `grammar I;
stat : a ;
a : b ;
b : a | INT ;
INT : [0-9]+ ;
`
	res := Inline(g, "a", InlineOptions{})
	if res.OK || !errors.Is(res.Err, ErrCycleInline) {
		t.Fatalf("OK=%v err=%v, want ErrCycleInline", res.OK, res.Err)
	}
	if res.Text != g {
		t.Errorf("failed Inline must leave text byte-identical")
	}
}

func TestInline_UnreferencedRejected(t *testing.T) {
	const g = `grammar I;
stat : INT ;
orphan : INT ;
INT : [0-9]+ ;
`
	res := Inline(g, "orphan", InlineOptions{})
	if res.OK || !errors.Is(res.Err, ErrNotReferenced) {
		t.Fatalf("OK=%v err=%v, want ErrNotReferenced", res.OK, res.Err)
	}
}

func TestInline_DryRun(t *testing.T) {
	const g = `grammar I;
stat : value value ;
value : INT | ID ;
INT : [0-9]+ ;
ID : [a-z]+ ;
`
	res := Inline(g, "value", InlineOptions{DryRun: true})
	if !res.OK {
		t.Fatalf("dry run failed: %v", res.Err)
	}
	if res.Text != g {
		t.Errorf("dry run modified the text")
	}
	if res.Count != 2 || !res.Parenthesized || res.AltCount != 2 {
		t.Errorf("stats = %d sites, paren=%v, alts=%d; want 2/true/2",
			res.Count, res.Parenthesized, res.AltCount)
	}
}
