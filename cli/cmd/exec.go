package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ardnew/mung"

	"github.com/ardnew/dotenv/envfile"
	"github.com/ardnew/dotenv/log"
)

// Exec runs a command with the process environment overlaid by the loaded
// pairs.
type Exec struct {
	PrependPath []string `help:"Directories to prepend to PATH"  name:"prepend-path" placeholder:"DIR"`
	Clean       bool     `help:"Start from an empty environment instead of the process environment"`

	Command []string `arg:"" help:"Command and arguments" passthrough:""`
}

// Run executes the exec command.
func (e *Exec) Run(ctx context.Context) error {
	if len(e.Command) == 0 {
		return ErrNoCommand
	}

	loaded, err := sourcesFrom(ctx).Load(ctx)
	if err != nil {
		return err
	}

	env := e.environ(loaded)

	name := resolveCommand(e.Command[0], env["PATH"])

	log.DebugContext(ctx, "exec",
		slog.String("command", name),
		slog.Int("args", len(e.Command)-1),
		slog.Int("env", len(env)),
	)

	c := exec.CommandContext(ctx, name, e.Command[1:]...)
	c.Env = env.Environ()
	c.Stdin = os.Stdin
	c.Stdout = stdout(ctx)
	c.Stderr = os.Stderr

	if err := c.Run(); err != nil {
		xerr := ErrExec.Wrap(err).With(slog.String("command", e.Command[0]))

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			xerr = xerr.With(slog.Int("exit_code", exitErr.ExitCode()))
		}

		return xerr
	}

	return nil
}

// environ builds the child environment from the loaded pairs.
func (e *Exec) environ(loaded envfile.Map) envfile.Map {
	env := envfile.Map{}
	if !e.Clean {
		env = envfile.MapFromEnviron(os.Environ())
	}

	for k, v := range loaded {
		env.Set(k, v)
	}

	if len(e.PrependPath) > 0 {
		env.Set("PATH", prependPath(env["PATH"], e.PrependPath...))
	}

	return env
}

// prependPath returns the PATH-like list path with dirs moved to the front.
func prependPath(path string, dirs ...string) string {
	return mung.Make(
		mung.WithSubjectItems(path),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(dirs...),
	).String()
}

// resolveCommand searches path for name the way a shell would with the child
// environment's PATH. Names containing a separator, or not found, are
// returned unchanged for exec.Command to resolve.
func resolveCommand(name, path string) string {
	if strings.ContainsRune(name, filepath.Separator) {
		return name
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			continue
		}

		if p, err := exec.LookPath(filepath.Join(dir, name)); err == nil {
			return p
		}
	}

	return name
}
