// Package profile provides optional runtime profiling for dotenv, backed by
// [github.com/pkg/profile].
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof -o dotenv .
//	dotenv --pprof-mode=cpu --file=large.env check
//
// Without the tag, [Profiler.Start] is a no-op and [Modes] is empty.
//
// Profiles are written to the configured directory (by default the pprof
// directory under the user cache directory) and can be inspected with:
//
//	go tool pprof -http=: ~/.cache/dotenv/pprof/cpu.pprof
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`

// Profiler describes a profiling session.
type Profiler struct {
	Mode  string // one of [Modes]; empty disables profiling
	Path  string // output directory; empty uses the working directory
	Quiet bool   // suppress pkg/profile's own log output
}

// Stopper ends a profiling session and flushes its output.
type Stopper interface{ Stop() }

// Start begins profiling as described by p. Unknown or empty modes, and
// binaries built without the pprof tag, return a Stopper that does nothing.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
