package klex

import (
	_ "embed"
	"strings"
	"text/template"

	"golang.org/x/tools/imports"
)

//go:embed runtime_template.go.tmpl
var runtimeTemplateSource string

var runtimeTemplate = template.Must(template.New("runtime").Parse(runtimeTemplateSource))

// templateRule is the per-rule view the emitted table is built from,
// matching spec.md §4.4's "(token_id, canonical_regex,
// context_predecessor?, body_descriptor)" ordered table.
type templateRule struct {
	TokenID        int
	CanonicalRegex string
	HasContext     bool
	ContextID      int
	IsAction       bool
	ActionCode     string
}

type templateData struct {
	SourceLabel        string
	Package            string
	PrefixCode         string
	SuffixCode         string
	KindNames          []string
	Rules              []templateRule
	WhitespaceKindName string
	NewlineKindName    string
	UnknownKindName    string
}

// Generate implements the C5 Code Emitter (spec.md §4.4): it combines spec
// with the embedded runtime template into one self-contained Go source
// file exposing Kind, Token, Lexer and NewLexer. spec's prefix_code is
// placed after the package clause and import block, and suffix_code at the
// end of the file. The whole rendered file, passthrough text included, goes
// through imports.Process, so prefix_code and suffix_code come out
// byte-identical only when they are already gofmt-formatted.
//
// sourceLabel is inserted verbatim as a traceability comment. packageName
// is the emitted file's package clause; an empty string defaults to
// "lexer".
func Generate(spec *LexerSpec, sourceLabel, packageName string) (string, *Error) {
	if packageName == "" {
		packageName = "lexer"
	}

	rules := make([]templateRule, 0, len(spec.Rules))
	for _, r := range spec.Rules {
		tr := templateRule{
			TokenID:        int(r.TokenID),
			CanonicalRegex: r.CanonicalRegex,
			IsAction:       r.Body == BodyAction,
			ActionCode:     r.ActionCode,
		}
		if r.ContextPredecessor != "" {
			id, ok := spec.KindByName(r.ContextPredecessor)
			if !ok {
				return "", newError(UnknownContextRef, "emit",
					"context predecessor refers to an undeclared kind: "+r.ContextPredecessor, 0, 0, "", nil)
			}
			tr.HasContext = true
			tr.ContextID = int(id)
		}
		rules = append(rules, tr)
	}

	data := templateData{
		SourceLabel:        sourceLabel,
		Package:            packageName,
		PrefixCode:         spec.PrefixCode,
		SuffixCode:         spec.SuffixCode,
		KindNames:          append([]string(nil), spec.kindNames...),
		Rules:              rules,
		WhitespaceKindName: spec.KindName(spec.WhitespaceKind()),
		NewlineKindName:    spec.KindName(spec.NewlineKind()),
		UnknownKindName:    spec.KindName(spec.UnknownKind()),
	}

	var buf strings.Builder
	if err := runtimeTemplate.Execute(&buf, data); err != nil {
		return "", newError(RuleSyntaxError, "emit", "failed to render runtime template: "+err.Error(), 0, 0, "", err)
	}

	formatted, err := imports.Process(packageName+".go", []byte(buf.String()), nil)
	if err != nil {
		// The template renders syntactically valid Go for any well-formed
		// LexerSpec; a failure here most often means a rule's ActionCode
		// is not itself valid Go, which this package cannot validate
		// (spec.md §1: action-code fragments are opaque, passed through
		// verbatim). Surface the unformatted source rather than losing it.
		return buf.String(), newError(RuleSyntaxError, "emit",
			"generated source failed gofmt/goimports processing, likely invalid action code: "+err.Error(), 0, 0, "", err)
	}
	return string(formatted), nil
}

// MustGenerate is Generate for callers that would rather panic than thread
// an *Error through.
func MustGenerate(spec *LexerSpec, sourceLabel, packageName string) string {
	out, err := Generate(spec, sourceLabel, packageName)
	if err != nil {
		panic(err)
	}
	return out
}
