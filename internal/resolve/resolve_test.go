package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"g4t/internal/diag"
	"g4t/internal/grammar"
	"g4t/internal/source"
)

func parseFile(t *testing.T, rv *Resolver, id source.FileID) *grammar.Grammar {
	t.Helper()
	return grammar.Parse(rv.FS.Get(id), diag.NopReporter{}, rv.Opts)
}

func writeGrammar(t *testing.T, dir, name, text string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
}

func resolveRoot(t *testing.T, dir, rootText string) (*Merged, *diag.Bag) {
	t.Helper()
	rv := NewResolver(dir)
	writeGrammar(t, dir, "Root.g4", rootText)
	id, err := rv.FS.Load(filepath.Join(dir, "Root.g4"))
	if err != nil {
		t.Fatal(err)
	}
	bag := diag.NewBag(32)
	rep := diag.BagReporter{Bag: bag}
	root := parseFile(t, rv, id)
	return rv.Resolve(root, rep), bag
}

func TestResolve_ImportChain(t *testing.T) {
	dir := t.TempDir()
	writeGrammar(t, dir, "Common.g4", `grammar Common;
ID : [a-z]+ ;
WS : [ \t]+ -> skip ;
`)
	m, bag := resolveRoot(t, dir, `grammar Root;
import Common;
prog : ID+ ;
`)
	if len(m.Sources) != 2 {
		t.Fatalf("Sources = %v, want root + Common", m.Sources)
	}
	if _, ok := m.Rule("ID"); !ok {
		t.Errorf("imported rule ID not visible")
	}
	if m.Origin["ID"] != filepath.Join(dir, "Common.g4") {
		t.Errorf("Origin[ID] = %q", m.Origin["ID"])
	}
	if m.Origin["prog"] != filepath.Join(dir, "Root.g4") {
		t.Errorf("Origin[prog] = %q", m.Origin["prog"])
	}
	if bag.Len() != 0 {
		t.Errorf("unexpected diagnostics: %v", bag.Items())
	}
}

func TestResolve_ImportsSubdirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "imports"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeGrammar(t, filepath.Join(dir, "imports"), "Tokens.g4", `lexer grammar Tokens;
INT : [0-9]+ ;
`)
	m, _ := resolveRoot(t, dir, `grammar Root;
options { tokenVocab=Tokens; }
prog : INT+ ;
`)
	if _, ok := m.Rule("INT"); !ok {
		t.Errorf("tokenVocab rule INT not visible; sources = %v", m.Sources)
	}
}

func TestResolve_MissingImportIsWarning(t *testing.T) {
	dir := t.TempDir()
	m, bag := resolveRoot(t, dir, `grammar Root;
import Ghost;
prog : ID ;
`)
	if len(m.Sources) != 1 {
		t.Errorf("Sources = %v, want root only", m.Sources)
	}
	if len(bag.ByCode(diag.EditImportMissing)) != 1 {
		t.Errorf("want one missing-import warning, got %v", bag.Items())
	}
	if bag.HasErrors() {
		t.Errorf("missing import must not be an error")
	}
}

func TestResolve_CircularImportIsWarning(t *testing.T) {
	dir := t.TempDir()
	writeGrammar(t, dir, "A.g4", `grammar A;
import B;
a : X ;
`)
	writeGrammar(t, dir, "B.g4", `grammar B;
import A;
X : 'x' ;
`)
	m, bag := resolveRoot(t, dir, `grammar Root;
import A;
prog : a ;
`)
	if len(m.Sources) != 3 {
		t.Errorf("Sources = %v, want Root, A, B", m.Sources)
	}
	if len(bag.ByCode(diag.EditImportCycle)) != 1 {
		t.Errorf("want one cycle warning, got %v", bag.Items())
	}
}

func TestRenameAll(t *testing.T) {
	files := map[string]string{
		"Lexer.g4": `lexer grammar Lexer;
IDENT : [a-z]+ ;
WS : [ ]+ -> skip ;
`,
		"Parser.g4": `parser grammar Parser;
options { tokenVocab=Lexer; }
prog : IDENT+ ;
`,
		"Other.g4": `grammar Other;
x : INT ;
INT : [0-9]+ ;
`,
	}
	changed, counts, err := RenameAll(files, "IDENT", "NAME")
	if err != nil {
		t.Fatalf("RenameAll failed: %v", err)
	}
	if len(changed) != 2 {
		t.Fatalf("changed %d files, want 2 (Other.g4 untouched): %v", len(changed), counts)
	}
	if counts["Lexer.g4"] != 1 || counts["Parser.g4"] != 1 {
		t.Errorf("counts = %v, want 1 and 1", counts)
	}
	if _, ok := changed["Other.g4"]; ok {
		t.Errorf("file without occurrences must be excluded")
	}
}

func TestRenameAll_Preconditions(t *testing.T) {
	files := map[string]string{
		"A.g4": "grammar A;\nx : Y ;\nY : 'y' ;\n",
	}
	if _, _, err := RenameAll(files, "ghost", "spirit"); err == nil {
		t.Errorf("rename of undefined rule must fail")
	}
	if _, _, err := RenameAll(files, "x", "Y"); err == nil {
		t.Errorf("rename onto existing rule must fail")
	}
}
