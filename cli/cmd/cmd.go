package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// Streams are the standard streams a command reads from and writes to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

type streamsKey struct{}

// WithStreams returns a new context.Context whose commands use the given
// streams. Nil members fall back to the process's standard streams.
func WithStreams(ctx context.Context, s Streams) context.Context {
	return context.WithValue(ctx, streamsKey{}, s)
}

// streamsFrom returns the streams stored in ctx by [WithStreams], with the
// process's standard streams substituted for any that are unset.
func streamsFrom(ctx context.Context) Streams {
	s, _ := ctx.Value(streamsKey{}).(Streams)

	if s.In == nil {
		s.In = os.Stdin
	}

	if s.Out == nil {
		s.Out = os.Stdout
	}

	if s.Err == nil {
		s.Err = os.Stderr
	}

	return s
}

// stdinSource is the special source (and output) indicator for the
// standard streams.
const stdinSource = "-"

// stdinName is the name reported for source read from standard input.
const stdinName = "<stdin>"

// openSource opens the template source at path, or standard input if path
// is "-", and returns it with the name used in diagnostics and headers.
func openSource(ctx context.Context, path string) (io.ReadCloser, string, error) {
	if path == "" || path == stdinSource {
		return io.NopCloser(streamsFrom(ctx).In), stdinName, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, "", ErrOpenSource.
			With(slog.String("file", path)).
			Wrap(err)
	}

	return file, filepath.Base(path), nil
}

// readSource reads the whole template source at path.
func readSource(ctx context.Context, path string) (string, string, error) {
	r, name, err := openSource(ctx, path)
	if err != nil {
		return "", "", err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return "", "", ErrOpenSource.
			With(slog.String("file", name)).
			Wrap(err)
	}

	return string(data), name, nil
}

// nopWriteCloser adds a no-op Close to a writer the command does not own.
type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// createOutput creates the file at path, or returns standard output if
// path is "-".
func createOutput(ctx context.Context, path string) (io.WriteCloser, error) {
	if path == "" || path == stdinSource {
		return nopWriteCloser{streamsFrom(ctx).Out}, nil
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, ErrWriteOutput.
			With(slog.String("file", path)).
			Wrap(err)
	}

	return file, nil
}

// writeOutput writes text to path with exactly one trailing newline.
func writeOutput(ctx context.Context, path, text string) (err error) {
	w, err := createOutput(ctx, path)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = ErrWriteOutput.With(slog.String("file", path)).Wrap(cerr)
		}
	}()

	if n := len(text); n == 0 || text[n-1] != '\n' {
		text += "\n"
	}

	if _, err := io.WriteString(w, text); err != nil {
		return ErrWriteOutput.With(slog.String("file", path)).Wrap(err)
	}

	return nil
}
