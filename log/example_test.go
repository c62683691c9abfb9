package log_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/dotenv/log"
)

func Example_basic() {
	logger := log.Make(os.Stdout)
	logger.Info("loaded environment", slog.Int("pairs", 3))
}

func Example_configuration() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelTrace),
		log.WithFormat(log.FormatText),
		log.WithTimeLayout("RFC3339Nano"),
		log.WithCaller(true))

	logger.Trace("scanner state", slog.String("state", "key"))
}

func Example_withContext() {
	type requestIDKey struct{}

	ctx := context.WithValue(context.Background(), requestIDKey{}, "req-789")

	logger := log.Make(os.Stdout).With(slog.String("file", ".env"))
	logger.InfoContext(ctx, "parse complete")
}
