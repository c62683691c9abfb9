package cmd

import (
	"context"
	"fmt"
	"log/slog"
)

// Get prints the value of each key, one per line.
type Get struct {
	Keys []string `arg:"" help:"Keys to look up" name:"key"`
}

// Run executes the get command.
func (g *Get) Run(ctx context.Context) error {
	m, err := sourcesFrom(ctx).Load(ctx)
	if err != nil {
		return err
	}

	w := stdout(ctx)

	for _, key := range g.Keys {
		value, ok := m.Get(key)
		if !ok {
			return ErrKeyNotFound.With(slog.String("key", key))
		}

		if _, err := fmt.Fprintln(w, value); err != nil {
			return err
		}
	}

	return nil
}
