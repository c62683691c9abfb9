package envfile

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/klauspost/readahead"
)

// Parse scans every pair from r and delivers each to sink in source order.
//
// Parsing stops at the first error. Pairs delivered before the error remain
// in sink. Errors from r are returned unchanged; all others match one of the
// package's sentinel errors.
func Parse(ctx context.Context, r io.ByteReader, sink Sink, opts ...Option) error {
	s := NewScanner(r, opts...)

	n := 0

	for {
		key, value, err := s.Next(ctx)
		if errors.Is(err, io.EOF) {
			s.logger.DebugContext(ctx, "parse complete",
				slog.Int("pairs", n),
				slog.Int("lines", s.Line()),
			)

			return nil
		}

		if err != nil {
			s.logger.DebugContext(ctx, "parse failed",
				slog.Int("pairs", n),
				slog.Any("error", err),
			)

			return err
		}

		sink.Set(string(key), string(value))
		n++
	}
}

// ParseReader is like [Parse] but accepts any [io.Reader], buffering it if it
// does not already implement [io.ByteReader].
func ParseReader(ctx context.Context, r io.Reader, sink Sink, opts ...Option) error {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}

	return Parse(ctx, br, sink, opts...)
}

// ParseString parses the pairs in s into sink.
func ParseString(ctx context.Context, s string, sink Sink, opts ...Option) error {
	return Parse(ctx, strings.NewReader(s), sink, opts...)
}

// ParseMap parses the pairs in r into a new [Map]. On error the returned Map
// holds the pairs scanned before the failure.
func ParseMap(ctx context.Context, r io.Reader, opts ...Option) (Map, error) {
	m := Map{}
	err := ParseReader(ctx, r, m, opts...)

	return m, err
}

// Load parses the file at path into sink. The path "-" reads standard input.
//
// Errors opening the file match [ErrReadInput]. Every returned error of type
// [*Error] carries the path as a structured attribute.
func Load(ctx context.Context, path string, sink Sink, opts ...Option) error {
	var err error

	if path == "-" {
		// A read-ahead goroutine blocked on an open stdin would stall Close
		// after a syntax error, so stdin is buffered directly.
		err = Parse(ctx, bufio.NewReader(os.Stdin), sink, opts...)
	} else {
		f, oerr := os.Open(path)
		if oerr != nil {
			return ErrReadInput.Wrap(oerr).With(slog.String("path", path))
		}

		defer f.Close()

		ra := readahead.NewReader(f)
		defer ra.Close()

		err = Parse(ctx, bufio.NewReader(ra), sink, opts...)
	}

	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e.With(slog.String("path", path))
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	return ErrReadInput.Wrap(err).With(slog.String("path", path))
}
