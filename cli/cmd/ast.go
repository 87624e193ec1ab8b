package cmd

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ardnew/tplc/lang"
	"github.com/ardnew/tplc/lang/lexer"
	"github.com/ardnew/tplc/log"
)

// AST prints the syntax tree of a template.
type AST struct {
	Format string `default:"tree" enum:"tree,json,yaml" help:"Output format (${enum})." short:"f"`
	Indent int    `default:"2"                          help:"Indent width; 0 selects compact output." short:"i"`

	Source string `arg:"" default:"-" help:"Template source file or '-' for stdin." name:"source"`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	source, name, err := readSource(ctx, a.Source)
	if err != nil {
		return err
	}

	t, err := parseSource(ctx, source)
	if err != nil {
		return withSource(name, source, err)
	}

	out := streamsFrom(ctx).Out

	switch a.Format {
	case "tree":
		err = t.FormatTree(ctx, out, a.Indent)
	case "json":
		err = t.FormatJSON(ctx, out, a.Indent)
	case "yaml":
		err = t.FormatYAML(ctx, out, a.Indent)
	default:
		return ErrUnknownDump.With(slog.String("format", a.Format))
	}

	if err != nil {
		return ErrWriteOutput.With(slog.String("format", a.Format)).Wrap(err)
	}

	return nil
}

// parseSource tokenizes and parses template source without type checking.
func parseSource(ctx context.Context, source string) (*lang.Template, error) {
	logger := log.FromContext(ctx)

	tokens, err := lexer.Tokenize(ctx, source)
	if err != nil {
		if errors.Is(err, lexer.ErrDeadEnd) {
			return nil, lang.ErrLex.Wrap(err)
		}

		return nil, err
	}

	return lang.Parse(ctx, tokens, lang.WithLogger(logger))
}
