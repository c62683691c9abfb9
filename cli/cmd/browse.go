package cmd

import (
	"context"

	"github.com/ardnew/dotenv/cli/cmd/browse"
	"github.com/ardnew/dotenv/envfile"
	"github.com/ardnew/dotenv/log"
)

// Browse opens an interactive fuzzy finder over the loaded keys and prints
// the selected pair in .env format.
type Browse struct{}

// Run executes the browse command.
func (*Browse) Run(ctx context.Context) error {
	m, err := sourcesFrom(ctx).Load(ctx)
	if err != nil {
		return err
	}

	key, err := browse.Run(ctx, m, log.Default())
	if err != nil {
		return ErrBrowse.Wrap(err)
	}

	if key == "" {
		return nil
	}

	return envfile.Format(stdout(ctx), envfile.Map{key: m[key]})
}
