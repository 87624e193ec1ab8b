package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the template back as template source in canonical form:
// macro definitions first, one space inside delimiters, and elif chains
// collapsed. Parsing the output yields an equivalent template.
func (t *Template) Format(_ context.Context, w io.Writer) error {
	var sb strings.Builder

	for _, m := range t.Macros {
		sb.WriteString("{% macro " + m.Name.Name + "(")

		for i, a := range m.Args {
			if i > 0 {
				sb.WriteString(", ")
			}

			sb.WriteString(a.Name.Name)

			if a.Default != nil {
				sb.WriteString(" = " + a.Default.String())
			}
		}

		sb.WriteString(") %}")
		formatStmts(&sb, m.Body)
		sb.WriteString("{% endmacro %}")
	}

	formatStmts(&sb, t.Body)

	_, err := io.WriteString(w, sb.String())

	return err
}

func formatStmts(sb *strings.Builder, stmts []Stmt) {
	for _, s := range stmts {
		formatStmt(sb, s)
	}
}

func formatStmt(sb *strings.Builder, s Stmt) {
	switch s := s.(type) {
	case *Content:
		sb.WriteString(s.Text)

	case *Output:
		sb.WriteString("{{ " + s.Value.String() + " }}")

	case *Call:
		args := make([]string, len(s.Args))
		for i, a := range s.Args {
			args[i] = a.String()
		}

		sb.WriteString("{{ " + s.Name.Name + "(" + strings.Join(args, ", ") + ") }}")

	case *If:
		sb.WriteString("{% if " + s.Cond.String() + " %}")
		formatStmts(sb, s.Body)

		tail := s
		for len(tail.Else) == 1 {
			elif, ok := tail.Else[0].(*If)
			if !ok {
				break
			}

			sb.WriteString("{% elif " + elif.Cond.String() + " %}")
			formatStmts(sb, elif.Body)
			tail = elif
		}

		if len(tail.Else) > 0 {
			sb.WriteString("{% else %}")
			formatStmts(sb, tail.Else)
		}

		sb.WriteString("{% endif %}")

	case *For:
		sb.WriteString("{% for " + s.Var.Name + " in " + s.Coll.String())

		if !isLiteralTrue(s.Filter) {
			sb.WriteString(" if " + s.Filter.String())
		}

		sb.WriteString(" %}")
		formatStmts(sb, s.Body)
		sb.WriteString("{% endfor %}")

	case *Set:
		sb.WriteString("{% set " + s.Var.Name + " = " + s.Value.String() + " %}")
		formatStmts(sb, s.Body)
	}
}

// FormatTree writes an indented outline of the template, one node per line.
func (t *Template) FormatTree(_ context.Context, w io.Writer, indent int) error {
	tw := &treeWriter{w: w, unit: strings.Repeat(" ", max(indent, 1))}

	tw.line(0, "Template")

	for _, m := range t.Macros {
		args := make([]string, len(m.Args))

		for i, a := range m.Args {
			args[i] = a.Name.Name
			if a.Default != nil {
				args[i] += " = " + a.Default.String()
			}
		}

		tw.line(1, "Macro %s(%s) @%d", m.Name.Name, strings.Join(args, ", "), m.Line+1)
		tw.stmts(2, m.Body)
	}

	tw.stmts(1, t.Body)

	return tw.err
}

type treeWriter struct {
	w    io.Writer
	unit string
	err  error
}

func (tw *treeWriter) line(depth int, format string, args ...any) {
	if tw.err != nil {
		return
	}

	_, tw.err = io.WriteString(tw.w,
		strings.Repeat(tw.unit, depth)+fmt.Sprintf(format, args...)+"\n")
}

func (tw *treeWriter) stmts(depth int, stmts []Stmt) {
	for _, s := range stmts {
		switch s := s.(type) {
		case *Content:
			tw.line(depth, "Content %s @%d", strconv.Quote(s.Text), s.Line+1)

		case *Output:
			tw.line(depth, "Output %s @%d", s.Value, s.Line+1)

		case *Call:
			args := make([]string, len(s.Args))
			for i, a := range s.Args {
				args[i] = a.String()
			}

			tw.line(depth, "Call %s(%s) @%d", s.Name.Name, strings.Join(args, ", "), s.Line+1)

		case *If:
			tw.line(depth, "If %s @%d", s.Cond, s.Line+1)
			tw.stmts(depth+1, s.Body)

			if len(s.Else) > 0 {
				tw.line(depth, "Else")
				tw.stmts(depth+1, s.Else)
			}

		case *For:
			tw.line(depth, "For %s in %s if %s @%d", s.Var.Name, s.Coll, s.Filter, s.Line+1)
			tw.stmts(depth+1, s.Body)

		case *Set:
			tw.line(depth, "Set %s = %s @%d", s.Var.Name, s.Value, s.Line+1)
			tw.stmts(depth+1, s.Body)
		}
	}
}

// FormatJSON writes the template as JSON to the writer.
func (t *Template) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(t, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(t)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the template as YAML to the writer.
func (t *Template) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, t.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}
