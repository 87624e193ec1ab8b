package token

// Vocabulary is an ordered set of categories matched at a single position.
// Earlier entries win ties in match length.
type Vocabulary []Kind

// Block-level and block-interior vocabularies.
var (
	// Blocks splits raw template text into top-level blocks.
	Blocks = Vocabulary{Content, CodeBlock, VarBlock}

	// Code is the vocabulary of a code block interior.
	Code = Vocabulary{
		For, EndFor, In, If, Filter, EndIf, Elif, Else,
		Not, True, False,
		Comma, OpenParen, CloseParen, OpenBracket, CloseBracket,
		BinOp, Number, String, Identifier, Assign,
		Set, Macro, EndMacro,
	}

	// CodeIgnore is skipped inside code blocks.
	CodeIgnore = Vocabulary{CodeEnd, Space}

	// Interp is the vocabulary of an interpolation block interior.
	Interp = Vocabulary{
		VarStart, VarEnd,
		Not, True, False,
		Comma, OpenParen, CloseParen, OpenBracket, CloseBracket,
		BinOp, Number, String, Identifier, Assign,
	}

	// InterpIgnore is skipped inside interpolation blocks.
	InterpIgnore = Vocabulary{Space}
)

// Longest returns the category of v with the longest non-empty match at the
// start of s and the length of that match. Ties go to the earlier category.
// ok is false if no category matches.
func (v Vocabulary) Longest(s string) (kind Kind, n int, ok bool) {
	for _, k := range v {
		if m := k.Match(s); m > n {
			kind, n, ok = k, m, true
		}
	}

	return kind, n, ok
}

// Contains reports whether k is a member of v.
func (v Vocabulary) Contains(k Kind) bool {
	for _, c := range v {
		if c == k {
			return true
		}
	}

	return false
}
