package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/dotenv/envfile"
	"github.com/ardnew/dotenv/log"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, _ := ctx.Value(contextKey{}).(*kong.Context)

	return ktx
}

// stdinSource is the file name that selects standard input.
const stdinSource = "-"

// Sources selects the pairs a command operates on.
type Sources struct {
	// Files are parsed in order into one sink, so later files override
	// earlier ones. "-" reads standard input.
	Files []string
	// Environ seeds the sink with the process environment.
	Environ bool
	// Capacity is the scanner's scratch buffer size in bytes.
	Capacity int
}

type sourcesKey struct{}

// WithSources returns a new context.Context carrying src.
func WithSources(ctx context.Context, src Sources) context.Context {
	return context.WithValue(ctx, sourcesKey{}, src)
}

func sourcesFrom(ctx context.Context) Sources {
	src, _ := ctx.Value(sourcesKey{}).(Sources)

	return src
}

// options returns the parser options selected by src.
func (src Sources) options() []envfile.Option {
	return []envfile.Option{
		envfile.WithCapacity(src.Capacity),
		envfile.WithLogger(log.Default()),
	}
}

// Load parses every file of src into a new Map.
func (src Sources) Load(ctx context.Context) (envfile.Map, error) {
	m := envfile.Map{}
	if src.Environ {
		m = envfile.MapFromEnviron(os.Environ())
	}

	opts := src.options()

	stdin := false

	for _, path := range src.Files {
		if path == stdinSource {
			// Standard input can only be consumed once.
			if stdin {
				continue
			}

			stdin = true
		}

		before := len(m)

		if err := envfile.Load(ctx, path, m, opts...); err != nil {
			return m, ErrLoad.Wrap(err).With(slog.String("file", path))
		}

		log.DebugContext(ctx, "loaded file",
			slog.String("file", path),
			slog.Int("new_keys", len(m)-before),
			slog.Int("total_keys", len(m)),
		)
	}

	return m, nil
}
