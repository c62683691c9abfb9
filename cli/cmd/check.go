package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/dotenv/envfile"
	"github.com/ardnew/dotenv/log"
)

// Check parses each file on its own and reports the first error in each.
type Check struct {
	Quiet bool `help:"Only report files with errors" short:"q"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) error {
	src := sourcesFrom(ctx)
	opts := src.options()
	w := stdout(ctx)

	failed, checked := 0, 0
	stdin := false

	for _, path := range src.Files {
		if path == stdinSource {
			if stdin {
				continue
			}

			stdin = true
		}

		checked++

		m := envfile.Map{}

		err := envfile.Load(ctx, path, m, opts...)
		if err != nil {
			failed++

			log.WarnContext(ctx, "check failed",
				slog.String("file", path),
				slog.Any("error", err),
			)

			if _, werr := fmt.Fprintf(w, "%s: %v\n", path, err); werr != nil {
				return werr
			}

			continue
		}

		if c.Quiet {
			continue
		}

		if _, werr := fmt.Fprintf(w, "%s: ok (%d pairs)\n", path, len(m)); werr != nil {
			return werr
		}
	}

	if failed > 0 {
		return ErrCheck.With(
			slog.Int("failed", failed),
			slog.Int("files", checked),
		)
	}

	return nil
}
