package klex

// ParseSpec implements the full front end (C2 Spec Parser feeding C3 IR
// Builder) of spec.md §4: it turns the raw text of a .klex source into a
// built LexerSpec, or a single *Error describing the first problem found.
//
// sourceLabel is an optional free-form string (e.g. a filename) copied into
// any *Error's Filename field; pass "" if the text has no file of origin.
func ParseSpec(text string, sourceLabel string) (*LexerSpec, *Error) {
	prefix, ruleSection, suffix, err := splitSections(text)
	if err != nil {
		err.Filename = sourceLabel
		return nil, err
	}
	directives, err := parseRuleSection(ruleSection)
	if err != nil {
		err.Filename = sourceLabel
		return nil, err
	}
	spec, err := buildSpec(prefix, directives, suffix)
	if err != nil {
		err.Filename = sourceLabel
		return nil, err
	}
	return spec, nil
}

// MustParseSpec is ParseSpec for callers (examples, tests) that would
// rather panic than thread an *Error through, mirrored
// on the teacher's Must(tpl, err) helper for template compilation.
func MustParseSpec(text string, sourceLabel string) *LexerSpec {
	spec, err := ParseSpec(text, sourceLabel)
	if err != nil {
		panic(err)
	}
	return spec
}
