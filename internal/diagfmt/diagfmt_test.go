package diagfmt

import (
	"encoding/json"
	"strings"
	"testing"

	"g4t/internal/diag"
	"g4t/internal/sim"
	"g4t/internal/source"
)

func sampleBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("G.g4", []byte("grammar G;\nprog : ghost ;\n"))
	bag := diag.NewBag(16)
	span := source.Span{File: id, Start: 18, End: 23} // ghost
	bag.Add(diag.NewError(diag.RefUndefined, span, "reference to undefined rule ghost").
		WithRule("prog").
		WithSuggestion("define ghost or remove the reference"))
	return bag, fs
}

func TestPretty(t *testing.T) {
	bag, fs := sampleBag(t)
	var sb strings.Builder
	Pretty(&sb, bag, fs, PrettyOpts{ShowContext: true, ShowNotes: true, PathMode: PathModeBasename})
	out := sb.String()

	for _, want := range []string{
		"G.g4:2:8:",
		"ERROR",
		"G42001",
		"undefined-reference",
		"reference to undefined rule ghost",
		"^~~~~",
		"suggestion:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("pretty output missing %q:\n%s", want, out)
		}
	}
}

func TestPretty_NoColorByDefault(t *testing.T) {
	bag, fs := sampleBag(t)
	var sb strings.Builder
	Pretty(&sb, bag, fs, PrettyOpts{})
	if strings.Contains(sb.String(), "\x1b[") {
		t.Errorf("ANSI escapes present with Color=false:\n%q", sb.String())
	}
}

func TestJSON(t *testing.T) {
	bag, fs := sampleBag(t)
	var sb strings.Builder
	if err := JSON(&sb, bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeBasename}); err != nil {
		t.Fatal(err)
	}

	var out DiagnosticsOutput
	if err := json.Unmarshal([]byte(sb.String()), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, sb.String())
	}
	if out.Count != 1 || out.Errors != 1 {
		t.Errorf("Count=%d Errors=%d, want 1/1", out.Count, out.Errors)
	}
	d := out.Diagnostics[0]
	if d.Code != "G42001" || d.Tag != "undefined-reference" || d.Rule != "prog" {
		t.Errorf("diagnostic fields wrong: %+v", d)
	}
	if d.Location.StartLine != 2 || d.Location.StartCol != 8 {
		t.Errorf("location = %+v, want 2:8", d.Location)
	}
}

func TestFormatTokens(t *testing.T) {
	tokens := []sim.Token{
		{Type: "IF", Text: "if", Start: 0, End: 2, Line: 1, Col: 1},
		{Type: "WS", Text: " ", Skipped: true, Start: 2, End: 3, Line: 1, Col: 3},
		{Type: "COMMENT", Text: "//x", Channel: "HIDDEN", Start: 3, End: 6, Line: 1, Col: 4},
	}

	var pretty strings.Builder
	if err := FormatTokensPretty(&pretty, tokens); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(pretty.String(), "(skipped)") || !strings.Contains(pretty.String(), "(channel HIDDEN)") {
		t.Errorf("pretty token output wrong:\n%s", pretty.String())
	}

	var buf strings.Builder
	if err := FormatTokensJSON(&buf, tokens); err != nil {
		t.Fatal(err)
	}
	var out []TokenOutput
	if err := json.Unmarshal([]byte(buf.String()), &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 || !out[1].Skipped || out[2].Channel != "HIDDEN" {
		t.Errorf("JSON token output wrong: %+v", out)
	}
}
