package token

// Cursor is a forward-only position in a token sequence.
//
// Once the sequence is exhausted the cursor yields an EOI token positioned
// on the line following the last token, so callers never index out of
// bounds. Advancing past EOI has no effect.
type Cursor struct {
	tokens []Token
	pos    int
	eoi    Token
}

// NewCursor returns a cursor at the first token of tokens.
func NewCursor(tokens []Token) *Cursor {
	eoi := Token{Kind: EOI}
	if n := len(tokens); n > 0 {
		eoi.Line = tokens[n-1].End()
	}

	return &Cursor{tokens: tokens, eoi: eoi}
}

// Peek returns the current token without consuming it.
func (c *Cursor) Peek() Token { return c.PeekAt(0) }

// PeekAt returns the token n positions after the current one.
func (c *Cursor) PeekAt(n int) Token {
	if i := c.pos + n; i >= 0 && i < len(c.tokens) {
		return c.tokens[i]
	}

	return c.eoi
}

// Next consumes and returns the current token.
func (c *Cursor) Next() Token {
	t := c.Peek()
	if c.pos < len(c.tokens) {
		c.pos++
	}

	return t
}

// Done reports whether every token has been consumed.
func (c *Cursor) Done() bool { return c.pos >= len(c.tokens) }
