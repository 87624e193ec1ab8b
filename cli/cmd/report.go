package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/tplc/lang"
	"github.com/ardnew/tplc/lang/lexer"
)

// SourceError attaches the template source an error was found in, so that
// [Report] can quote the offending lines.
type SourceError struct {
	Name   string
	Source string
	Err    error
}

func (e *SourceError) Error() string { return e.Err.Error() }

func (e *SourceError) Unwrap() error { return e.Err }

// withSource wraps err with the source it refers to. Nil stays nil.
func withSource(name, source string, err error) error {
	if err == nil {
		return nil
	}

	return &SourceError{Name: name, Source: source, Err: err}
}

// Report writes err to w as "Error: <message>". When err locates a position
// in template source, the affected lines follow with a caret under the first
// column of the first line.
func Report(w io.Writer, err error) {
	if err == nil {
		return
	}

	r := lipgloss.NewRenderer(w)
	label := r.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))

	fmt.Fprintln(w, label.Render("Error:")+" "+err.Error())

	var se *SourceError
	if !errors.As(err, &se) {
		return
	}

	if begin, end, ok := errorLines(err); ok {
		writeExcerpt(w, r, se.Source, begin, end)
	}
}

// errorLines returns the 0-based inclusive line range an error refers to.
func errorLines(err error) (begin, end int, ok bool) {
	var (
		te *lang.TypeError
		pe *lang.ParseError
		le *lexer.Error
	)

	switch {
	case errors.As(err, &te):
		begin, end = te.Node.Lines()

		return begin, end, true

	case errors.As(err, &pe):
		return pe.Token.Line, pe.Token.End(), true

	case errors.As(err, &le):
		return le.Line, le.Line, true

	default:
		return 0, 0, false
	}
}

// writeExcerpt writes source lines begin through end, numbered from 1:
//
//	3 | {{ a + "b" }}
//	  | ^
func writeExcerpt(w io.Writer, r *lipgloss.Renderer, source string, begin, end int) {
	lines := strings.Split(source, "\n")

	// A token past the end of input reports the line after the last one.
	begin = min(max(begin, 0), len(lines)-1)
	end = min(max(end, begin), len(lines)-1)

	gutter := r.NewStyle().Faint(true)
	caret := r.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))

	width := len(strconv.Itoa(end + 1))

	for n := begin; n <= end; n++ {
		num := fmt.Sprintf("%*d |", width, n+1)
		fmt.Fprintln(w, gutter.Render(num)+" "+lines[n])
	}

	first := lines[begin]
	pad := first[:len(first)-len(strings.TrimLeft(first, " \t"))]

	fmt.Fprintln(w, gutter.Render(strings.Repeat(" ", width)+" |")+" "+pad+caret.Render("^"))
}
