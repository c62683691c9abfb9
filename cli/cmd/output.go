package cmd

import (
	"context"
	"io"
	"os"
)

// stdout returns the writer commands print results to: the kong context's
// Stdout when one is available, otherwise os.Stdout.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}
