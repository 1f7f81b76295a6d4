package klex

import (
	"errors"
	"testing"
)

func TestErrorUnwrap(t *testing.T) {
	origErr := errors.New("original error")
	e := newError(RuleSyntaxError, "test", "wrapped", 0, 0, "", origErr)

	if !errors.Is(e, origErr) {
		t.Error("errors.Is should return true for the original error")
	}
}

func TestErrorFormatting(t *testing.T) {
	cases := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "minimal",
			err:  &Error{Kind: SpecSectionError, ErrorMsg: "expected exactly two %% separators"},
			want: "[SpecSectionError] expected exactly two %% separators",
		},
		{
			name: "with location and excerpt",
			err: &Error{
				Kind:     RuleSyntaxError,
				Sender:   "spec_parser",
				Line:     4,
				Column:   2,
				Excerpt:  "[0-9]+ NUMBER",
				ErrorMsg: "missing '->'",
			},
			want: `[RuleSyntaxError (where: spec_parser) | Line 4 Col 2 near "[0-9]+ NUMBER"] missing '->'`,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.err.Error(); got != c.want {
				t.Errorf("Error() = %q, want %q", got, c.want)
			}
		})
	}
}
