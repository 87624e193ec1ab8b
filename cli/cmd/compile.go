package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/ardnew/tplc/lang"
	"github.com/ardnew/tplc/log"
)

// Compile translates a template into a C++ compilation unit.
type Compile struct {
	Output string `default:"-"    help:"Output file or '-' for stdout."                     placeholder:"FILE" short:"o"`
	Fold   bool   `               help:"Fold literal-only subexpressions into constants."`
	Strict bool   `               help:"Fail if any warning is reported."`
	Header bool   `default:"true" help:"Prefix output with a generated-code comment."                                         negatable:""`
	Indent string `               help:"Indentation unit of generated code (default tab)."`

	Source string `arg:"" default:"-" help:"Template source file or '-' for stdin." name:"source"`
}

// options returns the pipeline options selected by the command's flags.
func (c *Compile) options(ctx context.Context, name string) []lang.Option {
	opts := []lang.Option{
		lang.WithLogger(log.FromContext(ctx)),
		lang.WithFold(c.Fold),
		lang.WithStrict(c.Strict),
		lang.WithIndent(c.Indent),
	}

	if c.Header {
		opts = append(opts, lang.WithHeader(name))
	}

	return opts
}

// Run executes the compile command.
func (c *Compile) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	r, name, err := openSource(ctx, c.Source)
	if err != nil {
		return err
	}
	defer r.Close()

	// Keep a copy of the source for diagnostics.
	var source bytes.Buffer

	res, err := lang.CompileReader(ctx, io.TeeReader(r, &source), c.options(ctx, name)...)
	if err != nil {
		if errors.Is(err, lang.ErrType) {
			c.logPartial(ctx, res)
		}

		return withSource(name, source.String(), err)
	}

	log.FromContext(ctx).DebugContext(ctx, "compiled",
		slog.String("source", name),
		slog.String("output", c.Output),
		slog.Int("params", len(res.Unit.Params)),
	)

	return writeOutput(ctx, c.Output, res.Unit.Code)
}

// logPartial logs, at debug level, the code generated for a template that
// failed type checking.
func (c *Compile) logPartial(ctx context.Context, res *lang.Result) {
	logger := log.FromContext(ctx)

	if res == nil || res.Template == nil || !logger.Enabled(ctx, log.LevelDebug) {
		return
	}

	unit, err := lang.Generate(ctx, res.Template, lang.WithIndent(c.Indent))
	if err != nil {
		return
	}

	logger.DebugContext(ctx, "partial code", slog.String("code", unit.Code))
}
