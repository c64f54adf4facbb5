package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"g4t/internal/diag"
	"g4t/internal/project"
	"g4t/internal/rewrite"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validGrammar = `grammar Demo;
prog : ID+ EOF ;
ID : [a-z]+ ;
WS : [ \t\n]+ -> skip ;
`

func TestAnalyzeFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Demo.g4", validGrammar)

	_, res, err := AnalyzeFile(path, Options{})
	if err != nil {
		t.Fatalf("AnalyzeFile failed: %v", err)
	}
	if res.Grammar.Name != "Demo" {
		t.Errorf("grammar name = %q", res.Grammar.Name)
	}
	if res.Bag.HasErrors() {
		t.Errorf("unexpected errors: %v", res.Bag.Items())
	}
}

func TestAnalyzeFile_ReportsUndefined(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Bad.g4", "grammar Bad;\nprog : ghost ;\n")

	_, res, err := AnalyzeFile(path, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Bag.ByCode(diag.RefUndefined)) != 1 {
		t.Errorf("want undefined-reference, got %v", res.Bag.Items())
	}
}

func TestAnalyzeDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "A.g4", validGrammar)
	writeFile(t, dir, "B.g4", "grammar B;\nprog : ghost ;\n")

	_, results, err := AnalyzeDir(context.Background(), dir, Options{Jobs: 2})
	if err != nil {
		t.Fatalf("AnalyzeDir failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	// порядок по пути: A, затем B
	if !strings.HasSuffix(results[0].Path, "A.g4") || !strings.HasSuffix(results[1].Path, "B.g4") {
		t.Errorf("results out of order: %s, %s", results[0].Path, results[1].Path)
	}
	if results[0].Bag.HasErrors() {
		t.Errorf("A.g4 unexpectedly has errors")
	}
	if !results[1].Bag.HasErrors() {
		t.Errorf("B.g4 must report the undefined reference")
	}
}

func TestManifestOverridesScanCeiling(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "grammar.toml", "[scan]\nmax_rule_lines = 3\n")
	path := writeFile(t, dir, "Long.g4", "grammar Long;\nr : A\nB\nC\nD\nE ;\nA:'a';B:'b';C:'c';D:'d';E:'e';\n")

	_, res, err := AnalyzeFile(path, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Bag.ByCode(diag.ScanUnterminatedRule)) == 0 {
		t.Errorf("manifest ceiling not applied: %v", res.Bag.Items())
	}
}

func TestTokenizeInput(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Demo.g4", validGrammar)

	_, res, err := TokenizeInput(path, "ab cd", Options{})
	if err != nil {
		t.Fatal(err)
	}
	var types []string
	for _, tok := range res.Tokens {
		if !tok.Skipped {
			types = append(types, tok.Type)
		}
	}
	if len(types) != 2 || types[0] != "ID" || types[1] != "ID" {
		t.Errorf("tokens = %v", res.Tokens)
	}
}

func TestMatchRule(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Demo.g4", validGrammar)

	_, res, err := MatchRule(context.Background(), path, "prog", "ab cd", nil, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Report.Matched {
		t.Errorf("prog did not match: %+v", res.Report)
	}
}

func TestApplyEdit_PreviewAndWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Demo.g4", validGrammar)

	preview, err := ApplyEdit(path, false, Options{}, func(text string) rewrite.Result {
		return rewrite.Update(text, "prog", "ID* EOF")
	})
	if err != nil {
		t.Fatal(err)
	}
	if !preview.Result.OK || preview.Written {
		t.Fatalf("preview outcome wrong: %+v", preview.Result)
	}
	onDisk, _ := os.ReadFile(path)
	if string(onDisk) != validGrammar {
		t.Errorf("preview must not touch the file")
	}
	if preview.Verify.HasErrors() {
		t.Errorf("verification errors on valid edit: %v", preview.Verify.Items())
	}

	applied, err := ApplyEdit(path, true, Options{}, func(text string) rewrite.Result {
		return rewrite.Update(text, "prog", "ID* EOF")
	})
	if err != nil {
		t.Fatal(err)
	}
	if !applied.Written {
		t.Fatalf("write did not happen")
	}
	onDisk, _ = os.ReadFile(path)
	if !strings.Contains(string(onDisk), "prog : ID* EOF ;") {
		t.Errorf("file not updated:\n%s", onDisk)
	}
}

func TestSafeWrite_RefusesShrinkage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.g4")
	old := strings.Repeat("X : 'x' ;\n", 20)
	if err := os.WriteFile(path, []byte(old), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := SafeWrite(path, []byte(old), []byte("grammar G;\n")); err == nil {
		t.Fatalf("shrinking write accepted")
	}
	onDisk, _ := os.ReadFile(path)
	if string(onDisk) != old {
		t.Errorf("refused write still modified the file")
	}

	// небольшое сокращение проходит
	smaller := strings.Repeat("X : 'x' ;\n", 15)
	if err := SafeWrite(path, []byte(old), []byte(smaller)); err != nil {
		t.Errorf("legitimate write refused: %v", err)
	}
}

func TestAnalyzeFile_ResolvedVocabulary(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "MyLexer.g4", "lexer grammar MyLexer;\nID : [a-z]+ ;\nWS : [ \t]+ -> skip ;\n")
	path := writeFile(t, dir, "P.g4", "parser grammar P;\noptions { tokenVocab = MyLexer; }\nprog : ID NUM ;\n")

	opts := Options{Manifest: &project.Manifest{
		Root:  dir,
		Cache: project.CacheConfig{Dir: "cache"},
	}}

	_, res, err := AnalyzeFile(path, opts)
	if err != nil {
		t.Fatal(err)
	}
	// ID есть в словаре, NUM — нет
	undef := res.Bag.ByCode(diag.RefUndefined)
	if len(undef) != 1 || !strings.Contains(undef[0].Message, "NUM") {
		t.Fatalf("undefined = %v", res.Bag.Items())
	}

	entries, err := os.ReadDir(filepath.Join(dir, "cache", "vocab"))
	if err != nil || len(entries) != 1 {
		t.Fatalf("vocab cache not populated: %v %v", entries, err)
	}

	// повторный прогон читает словарь из кеша
	_, res2, err := AnalyzeFile(path, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(res2.Bag.ByCode(diag.RefUndefined)) != 1 {
		t.Errorf("cached run diverged: %v", res2.Bag.Items())
	}
}

func TestVocabCache(t *testing.T) {
	dir := t.TempDir()
	cache, err := OpenVocabCache(dir)
	if err != nil {
		t.Fatal(err)
	}

	path := writeFile(t, dir, "Demo.g4", validGrammar)
	_, res, err := AnalyzeFile(path, Options{})
	if err != nil {
		t.Fatal(err)
	}

	key := HashContent([]byte(validGrammar))
	payload := VocabFromGrammar(res.Grammar)
	if err := cache.Put(key, payload); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, ok, err := cache.Get(key)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if len(got.TokenNames) != 2 || got.TokenNames[0] != "ID" || got.TokenNames[1] != "WS" {
		t.Errorf("TokenNames = %v", got.TokenNames)
	}

	if _, ok, _ := cache.Get(HashContent([]byte("other"))); ok {
		t.Errorf("hit on unknown key")
	}
}
