package cli

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/dotenv/cli/cmd"
	"github.com/ardnew/dotenv/envfile"
	"github.com/ardnew/dotenv/pkg"
)

// baseConfig is the base name of the configuration file.
const baseConfig = "config"

// defaultDirMode is the permission mode for created directories.
const defaultDirMode os.FileMode = 0o700

// CLI is the top-level command-line interface for dotenv.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	File     []string         `default:".env"        help:"Input .env file(s), '-' for stdin; later files override earlier ones" short:"f"`
	Environ  bool             `                      help:"Seed pairs from the process environment before loading files"`
	Capacity int              `default:"${capacity}" help:"Scratch buffer size in bytes (half for keys, half for values)"`
	Version  kong.VersionFlag `                      help:"Print version and exit"`

	Fmt    cmd.Fmt    `cmd:"" default:"withargs" help:"Print the loaded pairs"`
	Get    cmd.Get    `cmd:""                    help:"Print the values of keys"`
	Check  cmd.Check  `cmd:""                    help:"Validate .env files"`
	Digest cmd.Digest `cmd:""                    help:"Print a fingerprint of the loaded pairs"`
	Exec   cmd.Exec   `cmd:""                    help:"Run a command with the loaded pairs in its environment"`
	Browse cmd.Browse `cmd:""                    help:"Interactively search the loaded pairs"`
	Init   cmd.Init   `cmd:""                    help:"Write the current flags to the configuration file"`
}

// Run executes the dotenv CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := os.MkdirAll(pkg.ConfigDir(), defaultDirMode); err != nil {
		return err
	}

	configFilePath := filepath.Join(pkg.ConfigDir(), baseConfig)

	vars := kong.Vars{
		"version":            pkg.Version,
		"capacity":           strconv.Itoa(envfile.DefaultCapacity),
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Apply logger flags before kong parses, so that errors reported during
	// parsing already honor them.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.DefaultEnvars(pkg.EnvPrefix()),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve(ctx), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSources(ctx, cmd.Sources{
		Files:    cli.File,
		Environ:  cli.Environ,
		Capacity: cli.Capacity,
	})

	cli.Log.start(ctx)

	// No-op unless built with tag pprof and a mode is selected.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
