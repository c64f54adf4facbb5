package style

import (
	"testing"

	"g4t/internal/diag"
	"g4t/internal/grammar"
	"g4t/internal/scan"
	"g4t/internal/source"
)

func inferText(t *testing.T, text string) Style {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("S.g4", []byte(text))
	g := grammar.Parse(fs.Get(id), diag.NopReporter{}, scan.Options{})
	return Infer(g)
}

func TestInfer_InlineStyle(t *testing.T) {
	st := inferText(t, `grammar S;
a : X ;
b : Y ;

X : 'x' ;
Y : 'y' ;
`)
	if st.ColonOnOwnLine {
		t.Errorf("ColonOnOwnLine = true, want false")
	}
	if !st.SpaceBeforeColon {
		t.Errorf("SpaceBeforeColon = false, want true")
	}
	if st.SemiOnOwnLine {
		t.Errorf("SemiOnOwnLine = true, want false")
	}
}

func TestInfer_HangingStyle(t *testing.T) {
	st := inferText(t, `grammar S;
a
    : X
    | Y
    ;

b
    : Z
    ;

X : 'x' ;

Y : 'y' ;

Z : 'z' ;
`)
	if !st.ColonOnOwnLine {
		t.Errorf("ColonOnOwnLine = false, want true")
	}
	if !st.SemiOnOwnLine {
		t.Errorf("SemiOnOwnLine = false, want true")
	}
	if st.Indent != "    " {
		t.Errorf("Indent = %q, want four spaces", st.Indent)
	}
	if st.BlankLinesBetweenRules != 1 {
		t.Errorf("BlankLinesBetweenRules = %d, want 1", st.BlankLinesBetweenRules)
	}
}

func TestInfer_NoSpaceBeforeColon(t *testing.T) {
	st := inferText(t, `grammar S;
a: X ;
b: Y ;
X: 'x' ;
Y: 'y' ;
`)
	if st.SpaceBeforeColon {
		t.Errorf("SpaceBeforeColon = true, want false")
	}
	if st.BlankLinesBetweenRules != 0 {
		t.Errorf("BlankLinesBetweenRules = %d, want 0", st.BlankLinesBetweenRules)
	}
}

func TestFormatRule(t *testing.T) {
	tests := []struct {
		name string
		st   Style
		want string
	}{
		{
			name: "inline with space",
			st:   Style{SpaceBeforeColon: true, Indent: "    "},
			want: "newRule : A B ;",
		},
		{
			name: "inline without space",
			st:   Style{Indent: "    "},
			want: "newRule: A B ;",
		},
		{
			name: "hanging colon and semi",
			st:   Style{ColonOnOwnLine: true, SemiOnOwnLine: true, Indent: "    "},
			want: "newRule\n    : A B\n    ;",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.st.FormatRule("newRule", "A B")
			if got != tt.want {
				t.Errorf("FormatRule() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIndentBody(t *testing.T) {
	st := Style{Indent: "  "}
	got := st.IndentBody("A\n      | B\n| C")
	want := "A\n  | B\n  | C"
	if got != want {
		t.Errorf("IndentBody() = %q, want %q", got, want)
	}
}

func TestInfer_EmptyGrammar(t *testing.T) {
	st := inferText(t, "grammar E;\n")
	if st != Default() {
		t.Errorf("style of empty grammar = %+v, want Default()", st)
	}
}
