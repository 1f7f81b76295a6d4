package klex

import (
	"strings"
	"testing"
)

// Property 8 (round-trip of passthrough), spec.md §8.
func TestGeneratePassthroughRoundTrip(t *testing.T) {
	text := "// package comment\n%%\n'a' -> A\n%%\n// trailing helper\n"
	spec, err := ParseSpec(text, "rt.klex")
	if err != nil {
		t.Fatalf("ParseSpec: %v", err)
	}
	out, gerr := Generate(spec, "rt.klex", "lexer")
	if gerr != nil {
		t.Fatalf("Generate: %v", gerr)
	}
	if !strings.Contains(out, "package comment") {
		t.Errorf("prefix_code missing from output")
	}
	if !strings.Contains(out, "trailing helper") {
		t.Errorf("suffix_code missing from output")
	}
	if !strings.Contains(out, "Code generated from rt.klex") {
		t.Errorf("missing traceability header")
	}
}

func TestGenerateDeclaresKindsAndPackage(t *testing.T) {
	text := "%%\n[0-9]+ -> NUMBER\n%%\n"
	spec, err := ParseSpec(text, "num.klex")
	if err != nil {
		t.Fatalf("ParseSpec: %v", err)
	}
	out, gerr := Generate(spec, "num.klex", "tok")
	if gerr != nil {
		t.Fatalf("Generate: %v", gerr)
	}
	if !strings.Contains(out, "package tok") {
		t.Errorf("missing package clause")
	}
	if !strings.Contains(out, "KindNUMBER") {
		t.Errorf("missing generated kind constant for NUMBER")
	}
	if !strings.Contains(out, "func NewLexer(input string) *Lexer") {
		t.Errorf("missing Lexer constructor")
	}
	if !strings.Contains(out, "func (l *Lexer) NextToken() (Token, bool)") {
		t.Errorf("missing NextToken")
	}
}

