// Package token defines the lexical categories of the template language and
// the [Token] values produced by the lexer.
//
// Each [Kind] is bound to a fixed regular expression held in a read-only,
// package-level table. Expressions are anchored and report the
// leftmost-longest match, which is what the two-phase lexer relies on to
// resolve competing categories:
//
//	{% for user in users if user.active %}
//	FOR IDENTIFIER IN IDENTIFIER FILTER IDENTIFIER BIN_OP IDENTIFIER
//
// A [Cursor] walks a token slice and yields a distinguished [EOI] token once
// the slice is exhausted.
package token
