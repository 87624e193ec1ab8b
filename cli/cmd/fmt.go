package cmd

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/ardnew/tplc/lang"
	"github.com/ardnew/tplc/log"
)

// Fmt rewrites a template in canonical form: macro definitions first and
// one space inside every delimiter.
type Fmt struct {
	Check bool `help:"Type-check the template before formatting."`
	Write bool `help:"Write the result back to the source file instead of stdout." short:"w"`

	Source string `arg:"" default:"-" help:"Template source file or '-' for stdin." name:"source"`
}

// Run executes the fmt command.
func (f *Fmt) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	source, name, err := readSource(ctx, f.Source)
	if err != nil {
		return err
	}

	t, err := parseSource(ctx, source)
	if err != nil {
		return withSource(name, source, err)
	}

	if f.Check {
		if err := lang.Validate(ctx, t, lang.WithLogger(log.FromContext(ctx))); err != nil {
			return withSource(name, source, err)
		}
	}

	var sb strings.Builder
	if err := t.Format(ctx, &sb); err != nil {
		return ErrWriteOutput.With(slog.String("command", "fmt")).Wrap(err)
	}

	if !f.Write || f.Source == stdinSource {
		if _, err := streamsFrom(ctx).Out.Write([]byte(sb.String())); err != nil {
			return ErrWriteOutput.With(slog.String("command", "fmt")).Wrap(err)
		}

		return nil
	}

	if sb.String() == source {
		return nil
	}

	info, err := os.Stat(f.Source)
	if err != nil {
		return ErrWriteOutput.With(slog.String("file", f.Source)).Wrap(err)
	}

	if err := os.WriteFile(f.Source, []byte(sb.String()), info.Mode().Perm()); err != nil {
		return ErrWriteOutput.With(slog.String("file", f.Source)).Wrap(err)
	}

	log.FromContext(ctx).DebugContext(ctx, "formatted",
		slog.String("file", f.Source),
		slog.Int("bytes", sb.Len()),
	)

	return nil
}
