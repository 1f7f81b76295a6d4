package klex

import (
	"testing"

	. "gopkg.in/check.v1"
)

func TestGoCheck(t *testing.T) { TestingT(t) }

type IRSuite struct{}

var _ = Suite(&IRSuite{})

// IDNUM is declared before NUMBER: both match a run of digits with equal
// length, and spec.md §8 scenario 2 requires the context-gated rule to win
// that tie (declaration order is the final tiebreak, per spec.md §4.5
// step 5, once the context filter and longest-match rule leave a tie).
const contextSpecText = `
%%
%ID /[0-9]+/ -> IDNUM
[0-9]+ -> NUMBER
/[a-zA-Z_][a-zA-Z0-9_]*/ -> ID
'+' -> PLUS
/[ \t]+/ -> _
%%
`

// Scenario 2 from spec.md §8: a context-gated rule keyed off ID fires on
// the digits after an ID, and whitespace between the ID and the digits does
// not reset the gate.
func (s *IRSuite) TestContextGateSurvivesWhitespace(c *C) {
	spec, err := ParseSpec(contextSpecText, "context.klex")
	c.Assert(err, IsNil)

	lx := NewLexer(spec, "abc 42")
	var kinds []string
	for {
		tok, ok, terr := lx.NextToken()
		c.Assert(terr, IsNil)
		if !ok {
			break
		}
		kinds = append(kinds, spec.KindName(tok.Kind))
	}
	c.Assert(kinds, DeepEquals, []string{"ID", "Whitespace", "IDNUM"})
}

func (s *IRSuite) TestContextGateRequiresExactPredecessor(c *C) {
	spec, err := ParseSpec(contextSpecText, "context.klex")
	c.Assert(err, IsNil)

	lx := NewLexer(spec, "42")
	tok, ok, terr := lx.NextToken()
	c.Assert(terr, IsNil)
	c.Assert(ok, Equals, true)
	c.Assert(spec.KindName(tok.Kind), Equals, "NUMBER")
}

func (s *IRSuite) TestDeclaredTokensAreValidIdentifiers(c *C) {
	text := `
%%
%token FOO, BAR
'a' -> FOO
%%
`
	spec, err := ParseSpec(text, "tokens.klex")
	c.Assert(err, IsNil)
	_, ok := spec.KindByName("BAR")
	c.Assert(ok, Equals, true)
}

func (s *IRSuite) TestInvalidTokenNameRejected(c *C) {
	text := `
%%
%token not valid!
'a' -> FOO
%%
`
	_, err := ParseSpec(text, "bad_tokens.klex")
	c.Assert(err, NotNil)
	c.Assert(err.Kind, Equals, RuleSyntaxError)
}
