// A lexer-generator toolchain: compile a declarative .klex rule file into
// an IR, then either tokenize directly against that IR or emit a
// standalone, dependency-light Go source file implementing the same
// tokenizer.
//
// A tiny example:
//
//	spec, err := klex.ParseSpec(source, "numbers.klex")
//	if err != nil {
//	    panic(err)
//	}
//	lx := klex.NewLexer(spec, "12 + 34")
//	for {
//	    tok, ok, err := lx.NextToken()
//	    if err != nil {
//	        panic(err)
//	    }
//	    if !ok {
//	        break
//	    }
//	    fmt.Println(spec.KindName(tok.Kind), tok.Value)
//	}
package klex

// Version string.
const Version = "v1"
