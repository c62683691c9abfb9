// Package log provides a concurrency-safe logging interface based on
// [log/slog] with an additional Trace level.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("loaded", slog.String("file", ".env"), slog.Int("pairs", 3))
//
// # Configuration
//
// Loggers are configured with functional options at creation time:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("kitchen"),
//		log.WithCaller(true))
//
// [Logger.Wrap] derives a logger with some options overridden, and
// [Logger.With] derives a logger that adds attributes to every record.
//
// # Default Logger
//
// The package-level functions ([Info], [DebugContext], ...) write through a
// default logger that [Config] reconfigures in place. The command-line
// interface configures it from its --log-* flags.
//
// # Zero Value
//
// The zero [Logger] discards everything, so library code can carry a
// Logger field without requiring callers to supply one.
package log
