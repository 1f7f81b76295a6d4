package klex

import (
	"regexp"
)

// RuleBody distinguishes the two kinds of rule body a LexerRule can carry,
// per spec.md §3.
type RuleBody int

const (
	// BodyKind rules simply emit a token of TokenName with the matched text.
	BodyKind RuleBody = iota
	// BodyAction rules emit whatever the user's opaque code block returns.
	BodyAction
)

func (b RuleBody) String() string {
	if b == BodyAction {
		return "Action"
	}
	return "Kind"
}

// LexerRule is one compiled rule record, per spec.md §3.
type LexerRule struct {
	TokenName           string // canonical identifier; "" for an unnamed action rule
	TokenID             Kind   // -1 when TokenName == ""
	CanonicalRegex      string
	ContextPredecessor  string // "" if the rule has no context gate
	Body                RuleBody
	ActionCode          string // only meaningful when Body == BodyAction
}

// noTokenID is the sentinel TokenID for action rules whose code does not
// name a token of its own — e.g. a pure side-effecting rule like
// `"debug" -> { None }` (spec.md §8 scenario 3).
const noTokenID Kind = -1

// LexerSpec is the IR root produced by ParseSpec, per spec.md §3. It is
// built once and is immutable afterward.
type LexerSpec struct {
	PrefixCode     string
	Rules          []LexerRule
	SuffixCode     string
	DeclaredTokens map[string]struct{}

	kindNames []string       // dense, index == int(Kind)
	kindIDs   map[string]Kind

	whitespaceKind Kind
	newlineKind    Kind
	unknownKind    Kind
}

// NumKinds returns the number of distinct kinds in the closed kind set.
func (s *LexerSpec) NumKinds() int { return len(s.kindNames) }

// KindName returns the declared name for k, or "" if k is out of range.
func (s *LexerSpec) KindName(k Kind) string {
	if int(k) < 0 || int(k) >= len(s.kindNames) {
		return ""
	}
	return s.kindNames[k]
}

// KindByName looks up the Kind assigned to name, if any.
func (s *LexerSpec) KindByName(name string) (Kind, bool) {
	k, ok := s.kindIDs[name]
	return k, ok
}

// WhitespaceKind, NewlineKind and UnknownKind return the three kinds that
// always exist in a built LexerSpec (spec.md §3 invariant 2, 3).
func (s *LexerSpec) WhitespaceKind() Kind { return s.whitespaceKind }
func (s *LexerSpec) NewlineKind() Kind    { return s.newlineKind }
func (s *LexerSpec) UnknownKind() Kind    { return s.unknownKind }

// IsSignificant reports whether k should update last_significant_kind —
// every kind except Whitespace and Newline (the glossary's "significant
// token" definition).
func (s *LexerSpec) IsSignificant(k Kind) bool {
	return k != s.whitespaceKind && k != s.newlineKind
}

// tokenKindRefPattern matches the "TokenKind::Name" reference form an
// action code block may use to name the token it emits, per the simple
// text-scan hinted at in spec.md §4.3 and §9's open question.
var tokenKindRefPattern = regexp.MustCompile(`TokenKind::([A-Za-z_][A-Za-z0-9_]*)`)

// buildSpec implements the C3 IR Builder (spec.md §4.3) over the directives
// produced by parseRuleSection, plus the opaque prefix/suffix passthrough
// text from C2.
func buildSpec(prefixCode string, directives []rawDirective, suffixCode string) (*LexerSpec, *Error) {
	declared := map[string]struct{}{}
	var declaredOrder []string
	var ruleDirs []rawDirective
	for _, d := range directives {
		if d.isTokenDecl {
			for _, name := range d.tokenNames {
				if !isValidIdentifier(name) {
					return nil, newError(RuleSyntaxError, "ir", "invalid token name in %token: "+name, d.line, 0, "", nil)
				}
				declared[name] = struct{}{}
				declaredOrder = append(declaredOrder, name)
			}
			continue
		}
		ruleDirs = append(ruleDirs, d)
	}
	if len(ruleDirs) == 0 {
		return nil, newError(RuleSyntaxError, "ir", "rule section declares no rules", 0, 0, "", nil)
	}

	// Appearance-order name collection (spec.md §4.3): rule-output names
	// first, in declaration order (invariant 1 ties ids 0.. to this order
	// for Kind rules), then any remaining %token names in the order they
	// were declared, then the three
	// reserved kinds if still absent.
	var names []string
	seen := map[string]bool{}
	addName := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	rules := make([]LexerRule, 0, len(ruleDirs))
	for _, d := range ruleDirs {
		canonical, perr := normalizePattern(d.patternText)
		if perr != nil {
			perr.Line = d.line
			return nil, perr
		}

		rule := LexerRule{
			CanonicalRegex:     canonical,
			ContextPredecessor: d.contextPred,
			TokenID:            noTokenID,
		}

		if d.isAction {
			rule.Body = BodyAction
			rule.ActionCode = d.body
			if m := tokenKindRefPattern.FindStringSubmatch(d.body); m != nil {
				rule.TokenName = m[1]
				// Only bind the id once every rule name is known; defer.
			}
		} else {
			name := d.body
			if name == "_" {
				name = "Whitespace"
			}
			if !isValidIdentifier(name) {
				return nil, newError(RuleSyntaxError, "ir", "invalid token name: "+name, d.line, 0, "", nil)
			}
			rule.Body = BodyKind
			rule.TokenName = name
			addName(name)
		}
		rules = append(rules, rule)
	}

	for _, name := range declaredOrder {
		addName(name)
	}
	addName("Whitespace")
	addName("Newline")
	addName("Unknown")

	kindIDs := make(map[string]Kind, len(names))
	for i, name := range names {
		kindIDs[name] = Kind(i)
	}

	// Second pass: bind Kind-rule and recognized Action-rule TokenIDs now
	// that the full name table exists, and validate context predecessors.
	for i := range rules {
		r := &rules[i]
		if r.Body == BodyKind {
			r.TokenID = kindIDs[r.TokenName]
		} else if r.TokenName != "" {
			if id, ok := kindIDs[r.TokenName]; ok {
				r.TokenID = id
			} else {
				// Not a declared/rule-output name: per this implementation's
				// resolution of the open question in spec.md §9, action
				// code may only *name* a token that was already declared
				// via %token or produced by some Kind rule; an
				// unrecognized TokenKind::X reference is left anonymous
				// rather than silently minting a new kind.
				r.TokenName = ""
			}
		}
		if r.ContextPredecessor != "" {
			if _, ok := kindIDs[r.ContextPredecessor]; !ok {
				return nil, newError(UnknownContextRef, "ir",
					"context predecessor refers to an undeclared kind: "+r.ContextPredecessor,
					ruleDirs[i].line, 0, "", nil)
			}
		}
	}

	spec := &LexerSpec{
		PrefixCode:     prefixCode,
		Rules:          rules,
		SuffixCode:     suffixCode,
		DeclaredTokens: declared,
		kindNames:      names,
		kindIDs:        kindIDs,
		whitespaceKind: kindIDs["Whitespace"],
		newlineKind:    kindIDs["Newline"],
		unknownKind:    kindIDs["Unknown"],
	}
	return spec, nil
}

// isValidIdentifier reports whether s is a legal token/context-predicate
// name. Adapted from the teacher's context-key validation (context.go's
// isValidIdentifier/isValidIdentifierChar): non-empty, and every byte is
// a letter, digit, or underscore.
func isValidIdentifier(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isValidIdentifierChar(s[i]) {
			return false
		}
	}
	return true
}

func isValidIdentifierChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '_'
}

// isValidIdentifierRegex is the regex-based twin kept for the benchmark
// comparison in ir_bench_test.go (teacher's contest_test.go benchmarked the
// same regex-vs-char-check tradeoff for Context keys).
var validIdentifierRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

func isValidIdentifierRegex(s string) bool {
	return validIdentifierRegex.MatchString(s)
}
