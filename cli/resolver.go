package cli

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/dotenv/envfile"
	"github.com/ardnew/dotenv/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads the configuration
// file in .env format, mapping each key to the flag of the same name.
//
// Keys may use hyphens or underscores, so both of these set --log-level:
//
//	log-level=debug
//	log_level=debug
//
// Repeatable flags take a comma-separated list:
//
//	file=.env,.env.local
//
// Command-line flags and environment variables override config file values.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		m, err := envfile.ParseMap(ctx, r, envfile.WithLogger(log.Default()))
		if err != nil {
			return nil, envfile.WrapError(err).With(slog.String("source", "config"))
		}

		log.TraceContext(ctx, "config loaded", slog.Int("pairs", len(m)))

		return config(m), nil
	}
}

// config implements [kong.Resolver] over the pairs of a configuration file.
type config envfile.Map

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil //nolint:nilnil
}
