package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/tplc/lang/token"
)

// Predefined errors (sentinel values).
var (
	ErrReadInput = NewError("failed to read input")
	ErrLex       = NewError("tokenize failed")
	ErrParse     = NewError("parse failed")
	ErrType      = NewError("type check failed")
	ErrStrict    = NewError("warnings treated as errors")
	ErrFold      = NewError("constant folding failed")
	ErrGenerate  = NewError("code generation failed")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
	base  *Error      // Sentinel this error was derived from
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from, so that
// errors.Is(ErrParse.Wrap(err), ErrParse) holds.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e == t || (e.base != nil && e.base == t)
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
		base:  e.root(),
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
		base:  e.root(),
	}
}

func (e *Error) root() *Error {
	if e.base != nil {
		return e.base
	}

	return e
}

// ParseError reports a token that does not fit the grammar at its position.
type ParseError struct {
	Token    token.Token  // The offending token
	Expected []token.Kind // Categories that would have been accepted

	// Reason, if set, explains why a token of an accepted category was
	// still rejected. Expected is ignored.
	Reason string
}

// Error implements the error interface.
//
// The message has the form:
//
//	unexpected token '<value>' (<KIND>) on line <n>[, expected <KIND>]
//	unexpected token '<value>' (<KIND>) on line <n>, expected one of <K1>, <K2>
//	invalid token '<value>' (<KIND>) on line <n>: <reason>
func (e *ParseError) Error() string {
	var sb strings.Builder

	if e.Reason != "" {
		sb.WriteString("invalid token '")
		sb.WriteString(e.Token.Value)
		sb.WriteString("' (")
		sb.WriteString(e.Token.Kind.String())
		sb.WriteString(") on line ")
		sb.WriteString(strconv.Itoa(e.Token.Line + 1))
		sb.WriteString(": ")
		sb.WriteString(e.Reason)

		return sb.String()
	}

	sb.WriteString("unexpected token '")
	sb.WriteString(e.Token.Value)
	sb.WriteString("' (")
	sb.WriteString(e.Token.Kind.String())
	sb.WriteString(") on line ")
	sb.WriteString(strconv.Itoa(e.Token.Line + 1))

	switch len(e.Expected) {
	case 0:
	case 1:
		sb.WriteString(", expected ")
		sb.WriteString(e.Expected[0].String())

	default:
		sb.WriteString(", expected one of ")

		for i, k := range e.Expected {
			if i > 0 {
				sb.WriteString(", ")
			}

			sb.WriteString(k.String())
		}
	}

	return sb.String()
}

// TypeError reports an expression whose static type does not satisfy the
// type required by its context.
type TypeError struct {
	Node     Expr
	Actual   Type
	Expected Type
}

// Error implements the error interface.
//
// The message has the form:
//
//	expression '<text>' on line <n> has type '<A>', but expected type '<E>'
func (e *TypeError) Error() string {
	var sb strings.Builder

	sb.WriteString("expression '")
	sb.WriteString(e.Node.String())
	sb.WriteString("' on ")
	sb.WriteString(lineRange(e.Node.Lines()))
	sb.WriteString(" has type '")
	sb.WriteString(e.Actual.String())
	sb.WriteString("', but expected type '")
	sb.WriteString(e.Expected.String())
	sb.WriteString("'")

	return sb.String()
}

// lineRange formats a 0-based inclusive line range for humans.
func lineRange(begin, end int) string {
	if begin == end {
		return "line " + strconv.Itoa(begin+1)
	}

	return "lines " + strconv.Itoa(begin+1) + "-" + strconv.Itoa(end+1)
}
