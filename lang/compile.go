package lang

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/tplc/lang/lexer"
	"github.com/ardnew/tplc/log"
)

// DefaultIndent is the indentation unit of generated code.
const DefaultIndent = "\t"

// config holds the options shared by every pipeline stage.
type config struct {
	logger log.Logger // zero value discards
	strict bool
	fold   bool
	header string // source name printed in the header comment
	digest uint64 // source digest printed in the header comment
	indent string
}

// Option configures a pipeline stage.
type Option func(*config)

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithStrict makes generation fail with [ErrStrict] if any warning is
// reported.
func WithStrict(strict bool) Option {
	return func(c *config) {
		c.strict = strict
	}
}

// WithFold enables constant folding of literal-only subexpressions before
// code generation.
func WithFold(fold bool) Option {
	return func(c *config) {
		c.fold = fold
	}
}

// WithHeader prefixes generated code with a comment naming the source it
// was generated from. An empty name disables the header.
func WithHeader(name string) Option {
	return func(c *config) {
		c.header = name
	}
}

// WithIndent sets the indentation unit of generated code. An empty string
// selects [DefaultIndent].
func WithIndent(indent string) Option {
	return func(c *config) {
		c.indent = indent
	}
}

// withDigest records the source digest for the header comment.
func withDigest(digest uint64) Option {
	return func(c *config) {
		c.digest = digest
	}
}

// makeConfig applies options over the defaults.
func makeConfig(opts ...Option) config {
	var c config

	for _, opt := range opts {
		opt(&c)
	}

	if c.indent == "" {
		c.indent = DefaultIndent
	}

	return c
}

// Result holds the products of a compilation.
type Result struct {
	// Template is the parsed tree. It is set whenever parsing succeeded,
	// including when a later stage failed.
	Template *Template

	// Unit is the generated code. It is set whenever generation ran,
	// including when strict mode rejected its warnings.
	Unit *Unit
}

// Compile runs the whole pipeline over template source: tokenize, parse,
// validate, optionally fold, and generate. Every call starts from fresh
// state.
//
// On a type error the returned Result still carries the parsed Template so
// that callers can render it for context.
func Compile(ctx context.Context, source string, opts ...Option) (*Result, error) {
	cfg := makeConfig(opts...)
	ctx = log.NewContext(ctx, cfg.logger)

	cfg.logger.TraceContext(ctx, "compile start",
		slog.Int("source_bytes", len(source)),
		slog.Bool("fold", cfg.fold),
		slog.Bool("strict", cfg.strict),
	)

	tokens, err := lexer.Tokenize(ctx, source)
	if err != nil {
		if errors.Is(err, lexer.ErrDeadEnd) {
			return nil, ErrLex.Wrap(err)
		}

		return nil, err
	}

	t, err := Parse(ctx, tokens, opts...)
	if err != nil {
		return nil, err
	}

	res := &Result{Template: t}

	if err := Validate(ctx, t, opts...); err != nil {
		return res, err
	}

	if cfg.fold {
		if err := Fold(ctx, t, opts...); err != nil {
			return res, err
		}
	}

	genOpts := opts
	if cfg.header != "" {
		genOpts = append(slices.Clone(opts), withDigest(Digest(source)))
	}

	res.Unit, err = Generate(ctx, t, genOpts...)

	return res, err
}

// CompileReader reads template source from r and compiles it with
// [Compile].
func CompileReader(ctx context.Context, r io.Reader, opts ...Option) (*Result, error) {
	cfg := makeConfig(opts...)

	// Read ahead asynchronously while the buffer grows.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("source", "reader"))
	}

	cfg.logger.TraceContext(ctx, "read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	return Compile(ctx, string(data), opts...)
}

// Digest returns the xxh3 digest of source as printed in generated headers.
func Digest(source string) uint64 { return xxh3.HashString(source) }
