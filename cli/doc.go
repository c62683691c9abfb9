// Package cli contains the command line interface for dotenv.
//
// # Usage
//
//	dotenv [flags] <command> [args]
//
// Pairs are read from the files named with --file (default .env, "-" for
// stdin). Later files override earlier ones, and --environ seeds the pairs
// from the process environment first.
//
//	dotenv fmt json                          # print pairs as JSON
//	dotenv -f .env -f .env.local get DB_URL  # print one value
//	dotenv fmt --where 'key startsWith "DB_"'
//	dotenv exec -- ./server                  # run with pairs applied
//	dotenv check -f prod.env                 # validate only
//
// # Configuration
//
// Flag defaults are read from the configuration file in the user config
// directory (for example ~/.config/dotenv/config), which is itself a .env
// file whose keys are flag names with hyphens or underscores:
//
//	log_level=debug
//	file=.env,.env.local
//
// A config.json beside it is read as well, and every flag can also be set
// from an environment variable such as DOTENV_LOG_LEVEL. Run "dotenv init"
// to write the current flags to the configuration file.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, ...)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o dotenv .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory
package cli
