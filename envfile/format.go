package envfile

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/zeebo/xxh3"
)

const hexDigits = "0123456789abcdef"

// Format writes the pairs of m to w sorted by key, one KEY=VALUE per line,
// quoting values with [Quote]. The output parses back into m.
func Format(w io.Writer, m Map) error {
	bw := bufio.NewWriter(w)

	for _, k := range m.Keys() {
		if !ValidKey(k) {
			return ErrInvalidKey.With(slog.String("key", k))
		}

		bw.WriteString(k)
		bw.WriteByte('=')
		bw.WriteString(Quote(m[k]))
		bw.WriteByte('\n')
	}

	return bw.Flush()
}

// ValidKey reports whether key can be written in KEY=VALUE form and read back.
func ValidKey(key string) bool {
	if key == "" || key[0] == '#' {
		return false
	}

	for i := range len(key) {
		if c := key[i]; c == '=' || isSpace(c) {
			return false
		}
	}

	return true
}

// Quote returns value in a form the scanner reads back verbatim: bare when
// possible, otherwise double-quoted with escapes.
func Quote(value string) string {
	if isBare(value) {
		return value
	}

	var sb strings.Builder

	sb.Grow(len(value) + 2)
	sb.WriteByte('"')

	for i := range len(value) {
		switch c := value[i]; c {
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\\', '"':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		default:
			if isControl(c) {
				sb.WriteString(`\x`)
				sb.WriteByte(hexDigits[c>>4])
				sb.WriteByte(hexDigits[c&0xf])

				continue
			}

			sb.WriteByte(c)
		}
	}

	sb.WriteByte('"')

	return sb.String()
}

func isBare(value string) bool {
	if value == "" {
		return false
	}

	for i := range len(value) {
		switch c := value[i]; {
		case c == '"', c == '\\', c == '#', isSpace(c), isControl(c):
			return false
		}
	}

	return true
}

func isControl(c byte) bool { return c < 0x20 || c == 0x7f }

// FormatJSON writes m to w as a JSON object. A positive indent pretty-prints
// with that many spaces per level.
func FormatJSON(w io.Writer, m Map, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(m, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(m)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes m to w as a YAML mapping. A non-positive indent selects
// flow style.
func FormatYAML(ctx context.Context, w io.Writer, m Map, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, map[string]string(m), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}

// Digest returns a fingerprint of the pairs in m that does not depend on
// insertion order.
func Digest(m Map) uint64 {
	h := xxh3.New()

	var n [8]byte

	for _, k := range m.Keys() {
		v := m[k]

		writeLen(h, n[:], len(k))
		h.WriteString(k)
		writeLen(h, n[:], len(v))
		h.WriteString(v)
	}

	return h.Sum64()
}

// writeLen frames each field so that distinct maps cannot share an encoding.
func writeLen(w io.Writer, buf []byte, n int) {
	for i := range buf {
		buf[i] = byte(n >> (8 * i))
	}

	w.Write(buf)
}
