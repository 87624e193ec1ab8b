package token

import (
	"strconv"
	"strings"
)

// Token is a single lexical unit of template source.
type Token struct {
	Kind  Kind
	Value string
	Line  int // 0-based line on which the token starts
	Lines int // number of line breaks embedded in Value
}

// New returns a token of the given kind starting on line.
func New(kind Kind, value string, line int) Token {
	return Token{
		Kind:  kind,
		Value: value,
		Line:  line,
		Lines: strings.Count(value, "\n"),
	}
}

// End returns the line on which the token ends.
func (t Token) End() int { return t.Line + t.Lines }

// Is reports whether the token is one of the given kinds.
func (t Token) Is(kinds ...Kind) bool {
	for _, k := range kinds {
		if t.Kind == k {
			return true
		}
	}

	return false
}

// String formats the token as KIND:line[value].
func (t Token) String() string {
	var sb strings.Builder

	sb.WriteString(t.Kind.String())
	sb.WriteByte(':')
	sb.WriteString(strconv.Itoa(t.Line))
	sb.WriteByte('[')
	sb.WriteString(t.Value)
	sb.WriteByte(']')

	return sb.String()
}
