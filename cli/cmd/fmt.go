package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/dotenv/envfile"
	"github.com/ardnew/dotenv/log"
)

// Fmt prints the loaded pairs in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as .env text (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
}

// Selection holds the flags shared by every fmt format.
type Selection struct {
	Where string `help:"Only print pairs for which this expr-lang expression over 'key' and 'value' is true" short:"w"`
}

// load returns the loaded pairs selected by s.
func (s Selection) load(ctx context.Context, format string) (envfile.Map, error) {
	f, err := compileFilter(s.Where)
	if err != nil {
		return nil, err
	}

	m, err := sourcesFrom(ctx).Load(ctx)
	if err != nil {
		return nil, err
	}

	selected, err := f.apply(m)
	if err != nil {
		return nil, err
	}

	log.DebugContext(ctx, "selected pairs",
		slog.String("format", format),
		slog.String("where", s.Where),
		slog.Int("selected", len(selected)),
		slog.Int("loaded", len(m)),
	)

	return selected, nil
}

// Native formats pairs as KEY=VALUE lines that parse back to the same pairs.
type Native struct {
	Selection `embed:""`
}

// Run executes the fmt native command.
func (n *Native) Run(ctx context.Context) error {
	m, err := n.load(ctx, "native")
	if err != nil {
		return err
	}

	if err := envfile.Format(stdout(ctx), m); err != nil {
		return envfile.WrapError(err).With(slog.String("format", "native"))
	}

	return nil
}

// JSON formats pairs as a JSON object.
type JSON struct {
	Selection `embed:""`

	Indent int `default:"2" help:"Indent width for JSON output (0 for compact)" short:"i"`
}

// Run executes the fmt json command.
func (j *JSON) Run(ctx context.Context) error {
	m, err := j.load(ctx, "json")
	if err != nil {
		return err
	}

	if err := envfile.FormatJSON(stdout(ctx), m, j.Indent); err != nil {
		return envfile.WrapError(err).With(slog.String("format", "json"))
	}

	return nil
}

// YAML formats pairs as a YAML mapping.
type YAML struct {
	Selection `embed:""`

	Indent int `default:"2" help:"Indent width for YAML output (0 for flow style)" short:"i"`
}

// Run executes the fmt yaml command.
func (y *YAML) Run(ctx context.Context) error {
	m, err := y.load(ctx, "yaml")
	if err != nil {
		return err
	}

	if err := envfile.FormatYAML(ctx, stdout(ctx), m, y.Indent); err != nil {
		return envfile.WrapError(err).With(slog.String("format", "yaml"))
	}

	return nil
}
