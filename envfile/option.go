package envfile

import "github.com/ardnew/dotenv/log"

// Option configures a [Scanner] or one of the parse functions.
type Option func(*config)

type config struct {
	logger   log.Logger
	capacity int
}

func makeConfig(opts ...Option) config {
	cfg := config{capacity: DefaultCapacity}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// WithCapacity sets the size in bytes of the scanner's scratch buffer.
// Non-positive sizes select [DefaultCapacity].
func WithCapacity(n int) Option {
	return func(c *config) {
		if n <= 0 {
			n = DefaultCapacity
		}

		c.capacity = n
	}
}

// WithLogger sets the logger receiving scanner trace output.
// The zero [log.Logger] discards everything and is the default.
func WithLogger(l log.Logger) Option {
	return func(c *config) { c.logger = l }
}
