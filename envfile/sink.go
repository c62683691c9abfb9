package envfile

import (
	"maps"
	"slices"
	"strings"
)

// Sink receives each key/value pair as it is scanned.
//
// Set is called in source order; a key that appears more than once is set
// once per occurrence.
type Sink interface {
	Set(key, value string)
}

// SinkFunc adapts an ordinary function to the [Sink] interface.
type SinkFunc func(key, value string)

// Set calls f(key, value).
func (f SinkFunc) Set(key, value string) { f(key, value) }

// Map is a [Sink] that keeps the last value set for each key.
type Map map[string]string

// MapFromEnviron builds a Map from "KEY=VALUE" entries such as those returned
// by [os.Environ]. Entries without '=' are ignored.
func MapFromEnviron(environ []string) Map {
	m := make(Map, len(environ))

	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			m[k] = v
		}
	}

	return m
}

// Set implements [Sink].
func (m Map) Set(key, value string) { m[key] = value }

// Get returns the value of key and whether it was set.
func (m Map) Get(key string) (string, bool) {
	v, ok := m[key]

	return v, ok
}

// Keys returns the keys of m in sorted order.
func (m Map) Keys() []string {
	return slices.Sorted(maps.Keys(m))
}

// Environ returns m as sorted "KEY=VALUE" strings suitable for
// [os/exec.Cmd.Env].
func (m Map) Environ() []string {
	env := make([]string, 0, len(m))

	for _, k := range m.Keys() {
		env = append(env, k+"="+m[k])
	}

	return env
}

// Clone returns a shallow copy of m.
func (m Map) Clone() Map {
	if m == nil {
		return Map{}
	}

	return maps.Clone(m)
}
