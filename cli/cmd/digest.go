package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/dotenv/envfile"
	"github.com/ardnew/dotenv/log"
)

// Digest prints a fingerprint of the loaded pairs that is independent of their
// order in the source files.
type Digest struct{}

// Run executes the digest command.
func (*Digest) Run(ctx context.Context) error {
	m, err := sourcesFrom(ctx).Load(ctx)
	if err != nil {
		return err
	}

	sum := envfile.Digest(m)

	log.DebugContext(ctx, "computed digest",
		slog.Int("pairs", len(m)),
		slog.String("digest", fmt.Sprintf("%016x", sum)),
	)

	_, err = fmt.Fprintf(stdout(ctx), "%016x\n", sum)

	return err
}
