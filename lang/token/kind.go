package token

//go:generate go tool stringer --linecomment --type Kind --output kind_string.go

import "regexp"

// Kind identifies the lexical category of a [Token].
type Kind int

const (
	EOI          Kind = iota // END_OF_INPUT
	Unknown                  // UNKNOWN
	Content                  // CONTENT
	CodeBlock                // CODE_BLOCK
	VarBlock                 // VAR_BLOCK
	CodeEnd                  // CODE_END
	VarStart                 // VAR_START
	VarEnd                   // VAR_END
	Space                    // WS
	For                      // FOR
	EndFor                   // ENDFOR
	In                       // IN
	If                       // IF
	Filter                   // FILTER
	EndIf                    // ENDIF
	Elif                     // ELIF
	Else                     // ELSE
	Not                      // NOT
	True                     // TRUE
	False                    // FALSE
	Comma                    // COMMA
	OpenParen                // OPENP
	CloseParen               // CLOSEP
	OpenBracket              // OPENB
	CloseBracket             // CLOSEB
	BinOp                    // BIN_OP
	Number                   // NUMBER
	String                   // STRING
	Identifier               // IDENTIFIER
	Set                      // SET
	Assign                   // ASSIGNMENT
	Macro                    // MACRO
	EndMacro                 // ENDMACRO

	numKinds
)

// pattern holds the source of each category's regular expression.
// Kinds without an entry (EOI, Unknown) are never matched.
//
// Statement keywords carry the code block opener so that a statement "if"
// and a loop filter "if" are distinct categories.
var pattern = [numKinds]string{
	Content:   `(?:[^{]|\{[^%{]|\{$)+`,
	CodeBlock: `\{%(?:[^%]|%[^}])*%\}`,
	VarBlock:  `\{\{(?:[^}]|\}[^}])*\}\}`,

	CodeEnd:  `%\}`,
	VarStart: `\{\{`,
	VarEnd:   `\}\}`,
	Space:    `\s`,

	For:      `\{%\s*for\b`,
	EndFor:   `\{%\s*endfor\b`,
	In:       `in\b`,
	If:       `\{%\s*if\b`,
	Filter:   `if\b`,
	EndIf:    `\{%\s*endif\b`,
	Elif:     `\{%\s*elif\b`,
	Else:     `\{%\s*else\b`,
	Set:      `\{%\s*set\b`,
	Macro:    `\{%\s*macro\b`,
	EndMacro: `\{%\s*endmacro\b`,

	Not:   `not\b`,
	True:  `true\b`,
	False: `false\b`,

	Comma:        `,`,
	OpenParen:    `\(`,
	CloseParen:   `\)`,
	OpenBracket:  `\[`,
	CloseBracket: `\]`,
	Assign:       `=`,

	BinOp:      `\+|-|\*|/|==|!=|>=|<=|>|<|and\b|or\b|\.|->`,
	Number:     `[0-9]+(?:\.[0-9]+)?`,
	String:     `"[^"]*"`,
	Identifier: `_*[[:alpha:]][[:alnum:]_]*`,
}

// registry is the compiled form of pattern. Each expression is anchored at
// the start of its input and reports the leftmost-longest match.
var registry = func() (re [numKinds]*regexp.Regexp) {
	for k, p := range pattern {
		if p == "" {
			continue
		}

		re[k] = regexp.MustCompile(`^(?:` + p + `)`)
		re[k].Longest()
	}

	return re
}()

// Pattern returns the anchored regular expression that recognizes k, or nil
// if k is never produced by matching.
func (k Kind) Pattern() *regexp.Regexp {
	if k < 0 || k >= numKinds {
		return nil
	}

	return registry[k]
}

// Match returns the length in bytes of the longest prefix of s recognized by
// k. Zero means no non-empty match.
func (k Kind) Match(s string) int {
	re := k.Pattern()
	if re == nil {
		return 0
	}

	loc := re.FindStringIndex(s)
	if loc == nil {
		return 0
	}

	return loc[1]
}

// Kinds returns every defined category in declaration order.
func Kinds() []Kind {
	k := make([]Kind, numKinds)
	for i := range k {
		k[i] = Kind(i)
	}

	return k
}
