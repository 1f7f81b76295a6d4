package klex

import (
	"strconv"
	"strings"
)

// splitSections implements spec.md §4.2 step 1: split the whole .klex text
// on lines whose trimmed content is exactly "%%". Exactly two such
// separators must appear.
func splitSections(text string) (prefix, ruleSection, suffix string, err *Error) {
	lines := strings.Split(text, "\n")
	var seps []int
	for i, line := range lines {
		if strings.TrimSpace(line) == "%%" {
			seps = append(seps, i)
		}
	}
	if len(seps) != 2 {
		return "", "", "", newError(SpecSectionError, "spec_lexer",
			"expected exactly two '%%' separators, found "+strconv.Itoa(len(seps)), 0, 0, "", nil)
	}
	prefix = strings.Join(lines[:seps[0]], "\n")
	ruleSection = strings.Join(lines[seps[0]+1:seps[1]], "\n")
	suffix = strings.Join(lines[seps[1]+1:], "\n")
	if strings.TrimSpace(ruleSection) == "" {
		return "", "", "", newError(SpecSectionError, "spec_lexer", "rule section is empty", 0, 0, "", nil)
	}
	return prefix, ruleSection, suffix, nil
}

// rawDirective is one logical entry from the rule section: either a %token
// declaration or a single rule (context predicate + pattern + body).
type rawDirective struct {
	line int // 1-based line within the rule section, for diagnostics

	isTokenDecl bool
	tokenNames  []string // only set when isTokenDecl

	contextPred string // "" if the rule carries no %NAME predicate
	patternText string
	isAction    bool
	body        string // bare kind name, or the action code with braces stripped
}

// parseRuleSection implements spec.md §4.2 steps 2-4: walk the rule section
// line by line, skipping blanks and `//` comments, recognizing %token and
// %NAME directives, and splitting each rule line on the first unquoted,
// unbracketed "->". Action bodies ("{ ... }") may span multiple lines; the
// braces are balanced by scanning forward from the "{" rather than by line.
func parseRuleSection(ruleSection string) ([]rawDirective, *Error) {
	var out []rawDirective
	lines := strings.Split(ruleSection, "\n")
	lineNo := 0
	for i := 0; i < len(lines); i++ {
		lineNo = i + 1
		line := lines[i]
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			continue
		}

		if strings.HasPrefix(trimmed, "%token") {
			rest := strings.TrimSpace(trimmed[len("%token"):])
			if rest == "" {
				return nil, newError(RuleSyntaxError, "spec_lexer", "%token directive has no names", lineNo, 0, line, nil)
			}
			names := splitTokenNames(rest)
			if len(names) == 0 {
				return nil, newError(RuleSyntaxError, "spec_lexer", "%token directive has no names", lineNo, 0, line, nil)
			}
			out = append(out, rawDirective{line: lineNo, isTokenDecl: true, tokenNames: names})
			continue
		}

		contextPred := ""
		body := trimmed
		if strings.HasPrefix(trimmed, "%") {
			name, rest, ok := splitContextPredicate(trimmed)
			if !ok {
				return nil, newError(RuleSyntaxError, "spec_lexer", "malformed context predicate directive", lineNo, 0, line, nil)
			}
			contextPred = name
			body = rest
		}

		// Find the whole rule's text, joining continuation lines if an
		// action body's braces aren't balanced within this line.
		full := body
		for !bracesBalanced(full) {
			i++
			if i >= len(lines) {
				return nil, newError(RuleSyntaxError, "spec_lexer", "unbalanced '{' in action rule", lineNo, 0, line, nil)
			}
			full += "\n" + lines[i]
		}

		patternText, bodyText, isAction, derr := splitRuleArrow(full)
		if derr != nil {
			derr.Line = lineNo
			derr.Excerpt = line
			return nil, derr
		}

		out = append(out, rawDirective{
			line:        lineNo,
			contextPred: contextPred,
			patternText: patternText,
			isAction:    isAction,
			body:        bodyText,
		})
	}
	return out, nil
}

// splitTokenNames splits the identifier list after "%token" on commas and/or
// whitespace, per spec.md §6.
func splitTokenNames(rest string) []string {
	fields := strings.FieldsFunc(rest, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	var names []string
	for _, f := range fields {
		if f != "" {
			names = append(names, f)
		}
	}
	return names
}

// splitContextPredicate implements "%NAME <rest>": NAME is the run of
// non-space characters right after '%'.
func splitContextPredicate(trimmed string) (name, rest string, ok bool) {
	body := trimmed[1:]
	idx := strings.IndexAny(body, " \t")
	if idx <= 0 {
		return "", "", false
	}
	return body[:idx], strings.TrimSpace(body[idx+1:]), true
}

// bracesBalanced reports whether every '{' in s (outside of '...'/"..."/
// /.../ literals) has a matching '}'. A line with no action body at all
// (no unmatched '{') is trivially balanced.
func bracesBalanced(s string) bool {
	depth := 0
	inQuote := rune(0)
	for i := 0; i < len(s); i++ {
		c := rune(s[i])
		if inQuote != 0 {
			if c == '\\' {
				i++
				continue
			}
			if c == inQuote {
				inQuote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '/':
			inQuote = c
		case '{':
			depth++
		case '}':
			depth--
		}
	}
	return depth <= 0
}

// splitRuleArrow implements spec.md §4.2 step 3: split on the first
// unquoted, unbracketed "->", then classify the right-hand side as a bare
// Kind identifier or a "{ ... }" action block.
func splitRuleArrow(full string) (patternText, bodyText string, isAction bool, err *Error) {
	idx := findUnquotedArrow(full)
	if idx < 0 {
		return "", "", false, newError(RuleSyntaxError, "spec_lexer", "rule is missing '->'", 0, 0, full, nil)
	}
	patternText = strings.TrimSpace(full[:idx])
	rhs := strings.TrimSpace(full[idx+2:])
	if patternText == "" {
		return "", "", false, newError(RuleSyntaxError, "spec_lexer", "rule has an empty pattern", 0, 0, full, nil)
	}
	if strings.HasPrefix(rhs, "{") {
		if !strings.HasSuffix(rhs, "}") {
			return "", "", false, newError(RuleSyntaxError, "spec_lexer", "unbalanced '{' in action rule", 0, 0, full, nil)
		}
		code := rhs[1 : len(rhs)-1]
		return patternText, code, true, nil
	}
	if rhs == "" {
		return "", "", false, newError(RuleSyntaxError, "spec_lexer", "rule has an empty token name", 0, 0, full, nil)
	}
	return patternText, rhs, false, nil
}

// findUnquotedArrow returns the byte index of the first "->" that appears
// outside of '...', "...", and /.../ literals and outside of [...] classes
// and (...) groups, or -1 if none is found.
func findUnquotedArrow(s string) int {
	inQuote := rune(0)
	depth := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inQuote != 0 {
			if c == '\\' {
				i++
				continue
			}
			if rune(c) == inQuote {
				inQuote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '/':
			inQuote = rune(c)
		case '[', '(':
			depth++
		case ']', ')':
			if depth > 0 {
				depth--
			}
		case '-':
			if depth == 0 && i+1 < len(s) && s[i+1] == '>' {
				return i
			}
		}
	}
	return -1
}
