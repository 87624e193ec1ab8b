// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("compiled", slog.String("source", "page.tpl"))
//
// # Configuration
//
// Loggers are configured with functional options at creation time, or
// derived from an existing logger with [Logger.Wrap]:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("RFC3339"),
//		log.WithCaller(true))
//
// # Levels
//
// Five levels are supported, from most to least verbose: [LevelTrace],
// [LevelDebug], [LevelInfo], [LevelWarn] and [LevelError]. Messages below
// the configured level are discarded.
//
// # Output Formats
//
// [FormatText] (default) writes one line per message. With [WithPretty]
// enabled the line is styled for terminals; styling is dropped when the
// output is not a color-capable terminal. [FormatJSON] writes one JSON object
// per message.
//
// # Context
//
// [NewContext] attaches a logger to a context and [FromContext] retrieves
// it. A context without a logger yields the zero [Logger], which discards
// everything.
//
// # Package Functions
//
// The package-level functions ([Info], [Debug] and so on) log through a
// default logger writing to standard error, reconfigured with [Config].
// Context-unaware variants use [DefaultContextProvider], which returns
// [context.TODO] by default.
package log
