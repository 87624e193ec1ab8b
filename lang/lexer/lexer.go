// Package lexer splits template source into tokens.
//
// Tokenization runs in two phases. The first phase divides the source into
// top-level blocks: plain content, code blocks ({% ... %}) and interpolation
// blocks ({{ ... }}). The second phase re-tokenizes the interior of each code
// and interpolation block against that block's own vocabulary, dropping
// whitespace and closing delimiters. Both phases take the longest match at
// the current position.
package lexer

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ardnew/tplc/lang/token"
	"github.com/ardnew/tplc/log"
)

// ErrDeadEnd indicates that no block category matches at some position.
var ErrDeadEnd = errors.New("lexical dead-end")

// Error describes a position in the source where tokenization cannot
// proceed. It always unwraps to [ErrDeadEnd].
type Error struct {
	Line int    // 0-based line of the failing position
	Text string // remaining source starting at the failing position
}

// Error implements the error interface.
func (e *Error) Error() string {
	return ErrDeadEnd.Error() + " on line " + strconv.Itoa(e.Line+1) +
		": no block matches " + strconv.Quote(excerpt(e.Text))
}

// Unwrap returns [ErrDeadEnd].
func (e *Error) Unwrap() error { return ErrDeadEnd }

// excerpt returns at most the first line of s, truncated for display.
func excerpt(s string) string {
	const maxLen = 24

	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}

	if len(s) > maxLen {
		n := maxLen
		for n > 0 && !utf8.RuneStart(s[n]) {
			n--
		}

		s = s[:n] + "..."
	}

	return s
}

// Tokenize converts template source into a token sequence.
//
// Content blocks are emitted as single [token.Content] tokens. Code and
// interpolation blocks are expanded into the tokens of their interior.
// Characters inside a block that match no category become single-rune
// [token.Unknown] tokens, so block interiors never fail to tokenize.
func Tokenize(ctx context.Context, source string) ([]token.Token, error) {
	logger := log.FromContext(ctx)

	var (
		tokens []token.Token
		line   int
	)

	for rest := source; rest != ""; {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		kind, n, ok := token.Blocks.Longest(rest)
		if !ok {
			return nil, &Error{Line: line, Text: rest}
		}

		text := rest[:n]
		rest = rest[n:]

		logger.TraceContext(ctx, "tokenize block",
			slog.String("kind", kind.String()),
			slog.Int("line", line),
			slog.Int("length", n),
		)

		switch kind {
		case token.CodeBlock:
			tokens = tokenize(tokens, text, line, token.Code, token.CodeIgnore)

		case token.VarBlock:
			tokens = tokenize(tokens, text, line, token.Interp, token.InterpIgnore)

		default:
			tokens = append(tokens, token.New(kind, text, line))
		}

		line += strings.Count(text, "\n")
	}

	logger.DebugContext(ctx, "tokenized",
		slog.Int("tokens", len(tokens)),
		slog.Int("lines", line+1),
	)

	return tokens, nil
}

// tokenize appends the tokens of a block interior to dst. Ignored categories
// are tried before accepted ones.
func tokenize(
	dst []token.Token,
	text string,
	line int,
	accept, ignore token.Vocabulary,
) []token.Token {
	for text != "" {
		if _, n, ok := ignore.Longest(text); ok {
			line += strings.Count(text[:n], "\n")
			text = text[n:]

			continue
		}

		kind, n, ok := accept.Longest(text)
		if !ok {
			kind = token.Unknown
			_, n = utf8.DecodeRuneInString(text)
		}

		tok := token.New(kind, text[:n], line)
		dst = append(dst, tok)
		line += tok.Lines
		text = text[n:]
	}

	return dst
}
