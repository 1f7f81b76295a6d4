package klex

import (
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// ActionFunc is how this package's in-process reference runtime executes an
// Action rule's opaque code, since that code is opaque Go source text meant
// for splicing into a generated file (see emit.go), not something this
// runtime can evaluate directly. A caller wanting working action semantics
// registers one ActionFunc per rule index (its position in LexerSpec.Rules);
// an Action rule with nothing registered defaults to "skip", which matches
// every bare side-effecting action rule the spec itself shows (e.g. a
// `"debug" -> { None }` rule that discards its match).
type ActionFunc func(provisional Token) (result Token, skip bool)

// Lexer is the C4 Runtime Tokenizer: state carried across NextToken calls,
// per spec.md §4.5. It is not safe for concurrent use; independent Lexer
// values over independent inputs are fully independent (spec.md §5).
type Lexer struct {
	spec  *LexerSpec
	input string

	pos       int
	row, col  int
	lineStart int // byte offset where the current row begins

	lastSignificant    Kind
	haveLastSignificant bool

	actions map[int]ActionFunc

	regexCache map[string]*regexp2.Regexp
}

// NewLexer constructs a Lexer over input, ready to tokenize from offset 0.
func NewLexer(spec *LexerSpec, input string) *Lexer {
	return &Lexer{
		spec:       spec,
		input:      input,
		pos:        0,
		row:        1,
		col:        1,
		lineStart:  0,
		actions:    map[int]ActionFunc{},
		regexCache: map[string]*regexp2.Regexp{},
	}
}

// SetAction registers the Go implementation of the ruleIndex'th rule's
// Action body (LexerSpec.Rules[ruleIndex] must have Body == BodyAction).
func (l *Lexer) SetAction(ruleIndex int, fn ActionFunc) {
	l.actions[ruleIndex] = fn
}

// candidate is one rule that produced an anchored match at the lexer's
// current position, during a single NextToken call.
type candidate struct {
	ruleIndex int
	rule      *LexerRule
	matched   string
}

// compile returns the cached matcher for canonical, compiling and caching it
// on first use (spec.md §3's regex_cache, §4.5's "Regex cache discipline").
func (l *Lexer) compile(canonical string) (*regexp2.Regexp, *Error) {
	if rx, ok := l.regexCache[canonical]; ok {
		return rx, nil
	}
	rx, err := regexp2.Compile("^(?:"+canonical+")", regexp2.None)
	if err != nil {
		return nil, newError(RegexCompileError, "runtime",
			"failed to compile rule pattern: "+err.Error(), l.row, l.col, canonical, err)
	}
	l.regexCache[canonical] = rx
	return rx, nil
}

// enabled reports whether rule is part of the enabled rule set at the
// lexer's current context (spec.md §4.5 step 2).
func (l *Lexer) enabled(rule *LexerRule) bool {
	if rule.ContextPredecessor == "" {
		return true
	}
	if !l.haveLastSignificant {
		return false
	}
	predID, ok := l.spec.KindByName(rule.ContextPredecessor)
	if !ok {
		return false
	}
	return l.lastSignificant == predID
}

// NextToken implements spec.md §4.5 in full. It returns (token, true) for a
// produced token, (zero, false) at end of input, and a non-nil
// RegexCompileError *Error when the pattern of any rule enabled at the
// current position fails to compile or to run (every enabled rule is tried
// before a winner is chosen).
func (l *Lexer) NextToken() (Token, bool, *Error) {
	for {
		if l.pos >= len(l.input) {
			return Token{}, false, nil
		}

		rest := l.input[l.pos:]

		var actionCands, kindCands []candidate
		for i := range l.spec.Rules {
			rule := &l.spec.Rules[i]
			if !l.enabled(rule) {
				continue
			}
			rx, cerr := l.compile(rule.CanonicalRegex)
			if cerr != nil {
				return Token{}, false, cerr
			}
			m, merr := rx.FindStringMatch(rest)
			if merr != nil {
				return Token{}, false, newError(RegexCompileError, "runtime",
					"regex match failed: "+merr.Error(), l.row, l.col, rule.CanonicalRegex, merr)
			}
			if m == nil || m.Length == 0 {
				continue
			}
			c := candidate{ruleIndex: i, rule: rule, matched: m.String()}
			if rule.Body == BodyAction {
				actionCands = append(actionCands, c)
			} else {
				kindCands = append(kindCands, c)
			}
		}

		winner, ok := selectCandidate(actionCands, kindCands)
		if !ok {
			return l.emitUnknown(), true, nil
		}

		matchStart := l.pos
		startRow, startCol := l.row, l.col
		indent := l.computeIndent(matchStart)

		provisional := Token{
			Value:  winner.matched,
			Index:  matchStart,
			Row:    startRow,
			Col:    startCol,
			Length: len(winner.matched),
			Indent: indent,
			Tag:    0,
		}
		if winner.rule.Body == BodyKind {
			provisional.Kind = winner.rule.TokenID
		} else if winner.rule.TokenID != noTokenID {
			provisional.Kind = winner.rule.TokenID
		}

		if winner.rule.Body == BodyAction {
			fn, hasFn := l.actions[winner.ruleIndex]
			var result Token
			skip := true
			if hasFn {
				result, skip = fn(provisional)
			}
			l.advance(winner.matched)
			if skip {
				continue
			}
			l.updateContext(result.Kind)
			return result, true, nil
		}

		l.advance(winner.matched)
		l.updateContext(provisional.Kind)
		return provisional, true, nil
	}
}

// selectCandidate implements spec.md §4.5 step 5: the longest match wins
// overall, across both partitions; a tie is broken by priority (action
// before kind), then by declaration order within whichever partition wins.
func selectCandidate(actionCands, kindCands []candidate) (candidate, bool) {
	bestLen := -1
	for _, c := range actionCands {
		if len(c.matched) > bestLen {
			bestLen = len(c.matched)
		}
	}
	for _, c := range kindCands {
		if len(c.matched) > bestLen {
			bestLen = len(c.matched)
		}
	}
	if bestLen <= 0 {
		return candidate{}, false
	}
	for _, c := range actionCands {
		if len(c.matched) == bestLen {
			return c, true
		}
	}
	for _, c := range kindCands {
		if len(c.matched) == bestLen {
			return c, true
		}
	}
	return candidate{}, false
}

// emitUnknown implements spec.md §4.5 step 6: a single UTF-8 code point
// consumed as an Unknown token when nothing matched.
func (l *Lexer) emitUnknown() Token {
	matchStart := l.pos
	startRow, startCol := l.row, l.col
	indent := l.computeIndent(matchStart)

	_, size := decodeRuneAt(l.input, l.pos)
	value := l.input[l.pos : l.pos+size]

	t := Token{
		Kind:   l.spec.UnknownKind(),
		Value:  value,
		Index:  matchStart,
		Row:    startRow,
		Col:    startCol,
		Length: size,
		Indent: indent,
		Tag:    0,
	}
	l.advance(value)
	l.updateContext(t.Kind)
	return t
}

// computeIndent implements spec.md §4.5 step 7's indent rule: the count of
// contiguous space/tab characters from the start of the current line up to
// matchStart.
func (l *Lexer) computeIndent(matchStart int) int {
	n := 0
	for i := l.lineStart; i < matchStart; i++ {
		c := l.input[i]
		if c == ' ' || c == '\t' {
			n++
		} else {
			break
		}
	}
	return n
}

// advance implements spec.md §4.5 steps 10: move pos past matched, updating
// row/col/lineStart.
func (l *Lexer) advance(matched string) {
	for i := 0; i < len(matched); i++ {
		if matched[i] == '\n' {
			l.row++
			l.col = 1
			l.lineStart = l.pos + i + 1
		} else {
			l.col++
		}
	}
	l.pos += len(matched)
}

// updateContext implements spec.md §4.5 step 11.
func (l *Lexer) updateContext(k Kind) {
	if l.spec.IsSignificant(k) {
		l.lastSignificant = k
		l.haveLastSignificant = true
	}
}

// decodeRuneAt returns the byte width of the UTF-8 code point starting at
// input[pos]. Malformed UTF-8 is treated as a single-byte code point, the
// same degrade-gracefully choice utf8.DecodeRuneInString makes.
func decodeRuneAt(input string, pos int) (rune, int) {
	return utf8.DecodeRuneInString(input[pos:])
}
