package envfile

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/ardnew/dotenv/log"
)

// DefaultCapacity is the default size in bytes of a scanner's scratch
// buffer. Half of it holds the key and half holds the value, so the default
// admits keys and values of up to 2 KiB each.
const DefaultCapacity = 4096

// Scanner reads key/value pairs from a byte stream one at a time.
//
// A Scanner owns a fixed-size scratch buffer split into a key region and a
// value region. Keys or values that do not fit fail with [ErrBufferOverflow];
// size the buffer with [WithCapacity] for the largest expected pair.
//
// A Scanner is not safe for concurrent use.
type Scanner struct {
	r      io.ByteReader
	key    []byte // key region of the scratch buffer
	value  []byte // value region of the scratch buffer
	line   int
	nl     bool // last byte read was a newline
	logger log.Logger
}

// NewScanner returns a Scanner reading from r.
func NewScanner(r io.ByteReader, opts ...Option) *Scanner {
	cfg := makeConfig(opts...)

	buf := make([]byte, cfg.capacity)
	half := cfg.capacity / 2

	return &Scanner{
		r:      r,
		key:    buf[:half:half],
		value:  buf[half:],
		line:   1,
		logger: cfg.logger,
	}
}

// Capacity returns the total size of the scratch buffer in bytes.
func (s *Scanner) Capacity() int { return len(s.key) + len(s.value) }

// Line returns the 1-based line number of the most recently read byte.
func (s *Scanner) Line() int { return s.line }

// Next scans the next pair from the stream, skipping blank lines and
// comment lines.
//
// The returned slices alias the scratch buffer and are valid only until the
// next call to Next. At the end of the stream Next returns [io.EOF].
// Errors from the underlying reader are returned unchanged.
func (s *Scanner) Next(ctx context.Context) (key, value []byte, err error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		nk, err := s.scanKey()
		if err != nil {
			return nil, nil, err
		}

		if nk == 0 {
			continue
		}

		nv, err := s.scanValue()
		if err != nil {
			return nil, nil, err
		}

		s.logger.TraceContext(ctx, "pair scanned",
			slog.Int("line", s.line),
			slog.Int("key_length", nk),
			slog.Int("value_length", nv),
		)

		return s.key[:nk], s.value[:nv], nil
	}
}

// readByte reads the next byte, tracking line numbers.
func (s *Scanner) readByte() (byte, error) {
	c, err := s.r.ReadByte()
	if err != nil {
		return 0, err
	}

	if s.nl {
		s.line++
	}

	s.nl = c == '\n'

	return c, nil
}

// fail attaches the scanner position to a sentinel error.
func (s *Scanner) fail(sentinel *Error, attrs ...slog.Attr) error {
	return sentinel.With(append([]slog.Attr{slog.Int("line", s.line)}, attrs...)...)
}

// eof translates end-of-stream in the middle of a token.
func (s *Scanner) eof(err error, where string) error {
	if errors.Is(err, io.EOF) {
		return s.fail(ErrUnexpectedEOF, slog.String("in", where))
	}

	return err
}

// scanKey reads the key into the key region and returns its length.
// A zero length with a nil error means the line held no pair. End of stream
// before any key byte is reported as io.EOF.
func (s *Scanner) scanKey() (int, error) {
	for i := 0; ; {
		c, err := s.readByte()
		if err != nil {
			if i == 0 {
				return 0, err
			}

			return 0, s.eof(err, "key")
		}

		switch {
		case i == 0 && c == '\n':
			return 0, nil

		case i == 0 && c == '#':
			return 0, s.skipComment()

		case isSpace(c):
			return 0, s.fail(ErrTrailingSpace,
				slog.String("in", "key"), slog.Int("offset", i))

		case c == '=':
			if i == 0 {
				return 0, s.fail(ErrEmptyKey)
			}

			return i, nil
		}

		if i >= len(s.key) {
			return 0, s.fail(ErrBufferOverflow,
				slog.String("region", "key"), slog.Int("capacity", len(s.key)))
		}

		s.key[i] = c
		i++
	}
}

// scanValue reads the value following '=' into the value region and returns
// its length. It consumes the rest of the line.
func (s *Scanner) scanValue() (int, error) {
	for i := 0; ; {
		c, err := s.readByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return i, nil
			}

			return 0, err
		}

		switch {
		case i == 0 && c == '"':
			return s.scanQuoted()

		case c == '\n':
			return i, nil

		case c == '"':
			return 0, s.fail(ErrUnexpectedQuote, slog.Int("offset", i))

		case isSpace(c):
			if i == 0 {
				return 0, s.fail(ErrTrailingSpace, slog.String("in", "value"))
			}

			return i, s.skipTrailing()
		}

		if err := s.put(i, c); err != nil {
			return 0, err
		}

		i++
	}
}

// scanQuoted reads a double-quoted value whose opening quote has already
// been consumed, decoding escapes into the value region. It consumes the
// closing quote and the rest of the line.
func (s *Scanner) scanQuoted() (int, error) {
	closing := false

	for i := 0; ; {
		c, err := s.readByte()
		if err != nil {
			if closing && errors.Is(err, io.EOF) {
				return i, nil
			}

			return 0, s.eof(err, "quoted value")
		}

		if closing {
			switch {
			case c == '\n':
				return i, nil

			case c == '#':
				return i, s.skipComment()

			case isSpace(c):
				continue
			}

			return 0, s.fail(ErrUnexpectedChars, slog.String("byte", string([]byte{c})))
		}

		switch c {
		case '"':
			closing = true

			continue

		case '\\':
			c, err = s.decodeEscape()
			if err != nil {
				return 0, err
			}
		}

		if err := s.put(i, c); err != nil {
			return 0, err
		}

		i++
	}
}

// decodeEscape decodes the escape sequence following a backslash.
func (s *Scanner) decodeEscape() (byte, error) {
	c, err := s.readByte()
	if err != nil {
		return 0, s.eof(err, "escape")
	}

	switch c {
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case '\\', '"':
		return c, nil
	case 'x':
		hi, err := s.hexDigit()
		if err != nil {
			return 0, err
		}

		lo, err := s.hexDigit()
		if err != nil {
			return 0, err
		}

		return hi<<4 | lo, nil
	}

	return 0, s.fail(ErrUnexpectedEscape, slog.String("byte", string([]byte{c})))
}

func (s *Scanner) hexDigit() (byte, error) {
	c, err := s.readByte()
	if err != nil {
		return 0, s.eof(err, "hex escape")
	}

	d, ok := fromHex(c)
	if !ok {
		return 0, s.fail(ErrInvalidHex, slog.String("byte", string([]byte{c})))
	}

	return d, nil
}

// skipTrailing consumes the remainder of a line after a value, permitting
// only whitespace and a comment.
func (s *Scanner) skipTrailing() error {
	for {
		c, err := s.readByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}

			return err
		}

		switch {
		case c == '\n':
			return nil

		case c == '#':
			return s.skipComment()

		case isSpace(c):
			continue
		}

		return s.fail(ErrUnexpectedChars, slog.String("byte", string([]byte{c})))
	}
}

// skipComment discards everything up to and including the next newline.
func (s *Scanner) skipComment() error {
	for {
		c, err := s.readByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}

			return err
		}

		if c == '\n' {
			return nil
		}
	}
}

// put stores c at index i of the value region.
func (s *Scanner) put(i int, c byte) error {
	if i >= len(s.value) {
		return s.fail(ErrBufferOverflow,
			slog.String("region", "value"), slog.Int("capacity", len(s.value)))
	}

	s.value[i] = c

	return nil
}

// isSpace reports whether c is ASCII whitespace.
func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}

	return false
}

// fromHex returns the value of the hexadecimal digit c.
func fromHex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}

	return 0, false
}
