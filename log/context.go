package log

import "context"

type contextKey struct{}

// NewContext returns a copy of ctx carrying logger.
func NewContext(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the Logger carried by ctx, or the zero Logger, which
// discards everything, if there is none.
func FromContext(ctx context.Context) Logger {
	if ctx == nil {
		return Logger{}
	}

	logger, _ := ctx.Value(contextKey{}).(Logger)

	return logger
}
