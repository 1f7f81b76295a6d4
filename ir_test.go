package klex

import (
	"testing"

	"github.com/kr/pretty"
)

const sampleSpecText = `
// prefix passthrough
%%
[0-9]+ -> NUMBER
/[a-zA-Z_][a-zA-Z0-9_]*/ -> ID
'+' -> PLUS
/[ \t]+/ -> _
%%
// suffix passthrough
`

func TestBuildSpecAppearanceOrder(t *testing.T) {
	spec, err := ParseSpec(sampleSpecText, "sample.klex")
	if err != nil {
		t.Fatalf("ParseSpec: %v", err)
	}

	wantNames := []string{"NUMBER", "ID", "PLUS", "Whitespace", "Newline", "Unknown"}
	if len(spec.kindNames) != len(wantNames) {
		t.Fatalf("kind names = %# v, want %# v", pretty.Formatter(spec.kindNames), pretty.Formatter(wantNames))
	}
	for i, name := range wantNames {
		if spec.kindNames[i] != name {
			t.Errorf("kind %d = %q, want %q\n%s", i, spec.kindNames[i], name, diff(spec.kindNames, wantNames))
		}
	}

	if got := spec.KindName(spec.WhitespaceKind()); got != "Whitespace" {
		t.Errorf("WhitespaceKind name = %q", got)
	}
	if got := spec.KindName(spec.UnknownKind()); got != "Unknown" {
		t.Errorf("UnknownKind name = %q", got)
	}

	numberID, ok := spec.KindByName("NUMBER")
	if !ok || numberID != 0 {
		t.Errorf("NUMBER id = %d, ok=%v; want 0, true", numberID, ok)
	}
}

func TestBuildSpecPassthrough(t *testing.T) {
	spec, err := ParseSpec(sampleSpecText, "sample.klex")
	if err != nil {
		t.Fatalf("ParseSpec: %v", err)
	}
	if got := spec.PrefixCode; got == "" {
		t.Errorf("expected non-empty prefix passthrough")
	}
	if got := spec.SuffixCode; got == "" {
		t.Errorf("expected non-empty suffix passthrough")
	}
}

func TestBuildSpecUnknownContextRef(t *testing.T) {
	text := `
%%
%MISSING [0-9]+ -> NUMBER
%%
`
	_, err := ParseSpec(text, "bad.klex")
	if err == nil {
		t.Fatal("expected UnknownContextRef, got nil")
	}
	if err.Kind != UnknownContextRef {
		t.Errorf("error kind = %v, want UnknownContextRef", err.Kind)
	}
}

func TestBuildSpecSectionCount(t *testing.T) {
	_, err := ParseSpec("no separators here", "bad.klex")
	if err == nil || err.Kind != SpecSectionError {
		t.Fatalf("expected SpecSectionError, got %v", err)
	}
}

// diff renders a structural mismatch using kr/pretty, the same tool the
// teacher's suite reaches for when a plain %v diff is too noisy to read.
func diff(got, want any) string {
	out := "diff:\n"
	for _, line := range pretty.Diff(got, want) {
		out += line + "\n"
	}
	return out
}
