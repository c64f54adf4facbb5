package diag

import (
	"testing"

	"g4t/internal/source"
)

func TestBag_Limit(t *testing.T) {
	b := NewBag(2)
	if !b.Add(NewError(RefUndefined, source.Span{}, "one")) {
		t.Fatalf("first Add rejected")
	}
	if !b.Add(NewError(RefUndefined, source.Span{Start: 1, End: 2}, "two")) {
		t.Fatalf("second Add rejected")
	}
	if b.Add(NewError(RefUndefined, source.Span{Start: 3, End: 4}, "three")) {
		t.Errorf("Add beyond capacity accepted")
	}
	if b.Len() != 2 {
		t.Errorf("Len() = %d, want 2", b.Len())
	}
}

func TestBag_SortAndSeverity(t *testing.T) {
	b := NewBag(10)
	b.Add(NewInfo(RefDirectLeftRec, source.Span{Start: 20, End: 21}, "info later"))
	b.Add(NewError(RefUndefined, source.Span{Start: 5, End: 6}, "error early"))
	b.Add(NewWarning(RefUnusedRule, source.Span{Start: 5, End: 6}, "warning same span"))
	b.Sort()

	items := b.Items()
	if items[0].Severity != SevError {
		t.Errorf("first after Sort = %v, want error", items[0].Severity)
	}
	if items[1].Severity != SevWarning {
		t.Errorf("second after Sort = %v, want warning", items[1].Severity)
	}
	if !b.HasErrors() || !b.HasWarnings() {
		t.Errorf("HasErrors/HasWarnings = %v/%v, want true/true", b.HasErrors(), b.HasWarnings())
	}
}

func TestBag_Dedup(t *testing.T) {
	b := NewBag(10)
	d := NewWarning(RefUnusedRule, source.Span{Start: 1, End: 4}, "rule never used").WithRule("dead")
	b.Add(d)
	b.Add(d)
	b.Add(d.WithRule("other"))
	b.Dedup()
	if b.Len() != 2 {
		t.Errorf("Len() after Dedup = %d, want 2", b.Len())
	}
}

func TestCode_Names(t *testing.T) {
	if got := AmbigIdenticalAlts.String(); got != "identical-alternatives" {
		t.Errorf("String() = %q", got)
	}
	if got := RefHiddenLeftRec.String(); got != "hidden-left-recursion" {
		t.Errorf("String() = %q", got)
	}
	if got := Code(999).String(); got != "G40999" {
		t.Errorf("unnamed code String() = %q, want fallback ID", got)
	}
}
