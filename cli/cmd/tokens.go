package cmd

import (
	"bufio"
	"context"
	"log/slog"

	"github.com/ardnew/tplc/lang"
	"github.com/ardnew/tplc/lang/lexer"
)

// Tokens prints the token sequence of a template, one KIND:line[value]
// token per line.
type Tokens struct {
	Source string `arg:"" default:"-" help:"Template source file or '-' for stdin." name:"source"`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	source, name, err := readSource(ctx, t.Source)
	if err != nil {
		return err
	}

	tokens, err := lexer.Tokenize(ctx, source)
	if err != nil {
		return withSource(name, source, lang.ErrLex.Wrap(err))
	}

	w := bufio.NewWriter(streamsFrom(ctx).Out)

	for _, tok := range tokens {
		w.WriteString(tok.String())
		w.WriteByte('\n')
	}

	if err := w.Flush(); err != nil {
		return ErrWriteOutput.With(slog.String("command", "tokens")).Wrap(err)
	}

	return nil
}
