package cmd

import (
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/dotenv/envfile"
)

// pair is the environment a filter expression is evaluated in.
type pair struct {
	Key   string `expr:"key"`
	Value string `expr:"value"`
}

// filter selects pairs with a compiled expr-lang boolean expression such as
//
//	key startsWith "DB_" && value != ""
type filter struct {
	program *vm.Program
	source  string
}

// compileFilter compiles source. An empty source selects every pair.
func compileFilter(source string) (*filter, error) {
	if source == "" {
		return &filter{}, nil
	}

	program, err := expr.Compile(source, expr.Env(pair{}), expr.AsBool())
	if err != nil {
		return nil, ErrFilter.Wrap(err).With(slog.String("where", source))
	}

	return &filter{program: program, source: source}, nil
}

// match reports whether the pair key=value is selected.
func (f *filter) match(key, value string) (bool, error) {
	if f.program == nil {
		return true, nil
	}

	out, err := expr.Run(f.program, pair{Key: key, Value: value})
	if err != nil {
		return false, ErrFilter.Wrap(err).With(
			slog.String("where", f.source),
			slog.String("key", key),
		)
	}

	ok, _ := out.(bool)

	return ok, nil
}

// apply returns the pairs of m selected by f.
func (f *filter) apply(m envfile.Map) (envfile.Map, error) {
	if f.program == nil {
		return m, nil
	}

	out := make(envfile.Map, len(m))

	for k, v := range m {
		ok, err := f.match(k, v)
		if err != nil {
			return nil, err
		}

		if ok {
			out[k] = v
		}
	}

	return out, nil
}
