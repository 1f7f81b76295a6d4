package klex

import (
	"fmt"

	"github.com/juju/errors"
)

// ErrorKind classifies the fatal errors ParseSpec, Generate and
// Lexer.NextToken can raise, per spec.md §7.
type ErrorKind int

const (
	// SpecSectionError: wrong number of %% separators.
	SpecSectionError ErrorKind = iota
	// RuleSyntaxError: malformed pattern or missing "->".
	RuleSyntaxError
	// UnknownContextRef: a %NAME predicate refers to an undeclared kind.
	UnknownContextRef
	// RegexCompileError: a bad /.../ body, raised lazily at runtime.
	RegexCompileError
)

func (k ErrorKind) String() string {
	switch k {
	case SpecSectionError:
		return "SpecSectionError"
	case RuleSyntaxError:
		return "RuleSyntaxError"
	case UnknownContextRef:
		return "UnknownContextRef"
	case RegexCompileError:
		return "RegexCompileError"
	}
	return "UnknownError"
}

// Error is the single value type used to report every fatal error raised by
// this package, whether at spec-compile time (ParseSpec, Generate) or at
// runtime (Lexer.NextToken's lazy regex compilation). If you want to return
// an Error yourself (for example while experimenting with a spec), fill in
// as much of this as you have; Sender identifies which component raised it.
type Error struct {
	Kind     ErrorKind
	Filename string // free-form source label, empty unless the caller set one
	Line     int
	Column   int
	Excerpt  string // offending source region, one line
	Sender   string // e.g. "pattern", "spec_lexer", "ir", "runtime", "emit"
	ErrorMsg string
	cause    error // raw underlying cause, see Unwrap
	annotated error // cause wrapped with juju/errors context, see Annotated
}

// Error returns a nicely formatted error string.
func (e *Error) Error() string {
	s := "[" + e.Kind.String()
	if e.Sender != "" {
		s += " (where: " + e.Sender + ")"
	}
	if e.Filename != "" {
		s += " in " + e.Filename
	}
	if e.Line > 0 {
		s += fmt.Sprintf(" | Line %d Col %d", e.Line, e.Column)
		if e.Excerpt != "" {
			s += fmt.Sprintf(" near %q", e.Excerpt)
		}
	}
	s += "] "
	s += e.ErrorMsg
	return s
}

// Unwrap exposes the raw cause, if any, for stdlib errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.cause
}

// Annotated returns the cause wrapped with juju/errors context (message plus
// call-site trace), or nil if this Error has no cause. Prefer this over
// Unwrap when formatting a diagnostic for a human, since it retains the
// context newError added; prefer Unwrap when comparing against a sentinel
// error with errors.Is.
func (e *Error) Annotated() error {
	return e.annotated
}

// newError builds an *Error. The optional cause (e.g. a regexp2 compile
// failure) is annotated with juju/errors so that a caller formatting a
// diagnostic sees the original failure plus the context this package added,
// while Unwrap still exposes the bare cause so stdlib errors.Is/As keep
// working regardless of which errors package the cause itself came from.
func newError(kind ErrorKind, sender, msg string, line, col int, excerpt string, cause error) *Error {
	e := &Error{
		Kind:     kind,
		Line:     line,
		Column:   col,
		Excerpt:  excerpt,
		Sender:   sender,
		ErrorMsg: msg,
		cause:    cause,
	}
	if cause != nil {
		e.annotated = errors.Annotate(cause, msg)
	}
	return e
}
