package envfile

import (
	"context"
	"errors"
	"io"
	"maps"
	"strings"
	"testing"
)

func TestParseString_Pairs(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Map
	}{
		{
			name:  "empty input",
			input: "",
			want:  Map{},
		},
		{
			name:  "single pair without newline",
			input: "a=bbb",
			want:  Map{"a": "bbb"},
		},
		{
			name: "multiple pairs",
			input: "ws_server_port=9777\n" +
				"serial_device_path=\"/dev/ttyUSB0\"\n" +
				"a=bbb\n",
			want: Map{
				"ws_server_port":     "9777",
				"serial_device_path": "/dev/ttyUSB0",
				"a":                  "bbb",
			},
		},
		{
			name:  "trailing comment",
			input: "ws_server_port=9777 #note",
			want:  Map{"ws_server_port": "9777"},
		},
		{
			name:  "hex escape",
			input: `key="a\x41b"`,
			want:  Map{"key": "aAb"},
		},
		{
			name:  "all escapes",
			input: `k="\n\r\t\\\"\x7e\x7E"`,
			want:  Map{"k": "\n\r\t\\\"~~"},
		},
		{
			name:  "blank and comment lines",
			input: "\n# header\n\na=1\n#b=2\n\nc=3\n# footer",
			want:  Map{"a": "1", "c": "3"},
		},
		{
			name:  "empty unquoted value",
			input: "a=\nb=",
			want:  Map{"a": "", "b": ""},
		},
		{
			name:  "empty quoted value",
			input: `a=""`,
			want:  Map{"a": ""},
		},
		{
			name:  "quoted value with trailing whitespace and comment",
			input: "a=\"x y\" \t # comment \"quoted\"\nb=2",
			want:  Map{"a": "x y", "b": "2"},
		},
		{
			name:  "quoted value spanning lines",
			input: "a=\"one\ntwo\"\nb=3",
			want:  Map{"a": "one\ntwo", "b": "3"},
		},
		{
			name:  "hash inside values",
			input: "a=b#c\nb=#d\nc=\"#e\"",
			want:  Map{"a": "b#c", "b": "#d", "c": "#e"},
		},
		{
			name:  "backslash in unquoted value",
			input: `a=C:\path\n`,
			want:  Map{"a": `C:\path\n`},
		},
		{
			name:  "carriage return line endings",
			input: "a=1\r\nb=\"2\"\r\n",
			want:  Map{"a": "1", "b": "2"},
		},
		{
			name:  "equals in value",
			input: "url=a=b=c",
			want:  Map{"url": "a=b=c"},
		},
		{
			name:  "last write wins",
			input: "a=1\nb=2\na=3",
			want:  Map{"a": "3", "b": "2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Map{}
			if err := ParseString(context.Background(), tt.input, got); err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if !maps.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseString_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"leading space in key", " KEY=value", ErrTrailingSpace},
		{"space before equals", "KEY =value", ErrTrailingSpace},
		{"leading space in value", "KEY= value", ErrTrailingSpace},
		{"leading tab in value", "KEY=\tvalue", ErrTrailingSpace},
		{"whitespace-only line", "a=1\n  \nb=2", ErrTrailingSpace},
		{"carriage return blank line", "a=1\r\n\r\n", ErrTrailingSpace},
		{"key without equals", "KEY", ErrUnexpectedEOF},
		{"key then newline", "KEY\nb=2", ErrTrailingSpace},
		{"empty key", "=value", ErrEmptyKey},
		{"text after quote", `KEY="abc"xyz`, ErrUnexpectedChars},
		{"text after unquoted value", "KEY=abc xyz", ErrUnexpectedChars},
		{"unterminated quote", `KEY="abc`, ErrUnexpectedEOF},
		{"quote inside unquoted value", `KEY=ab"c"`, ErrUnexpectedQuote},
		{"unknown escape", `KEY="\q"`, ErrUnexpectedEscape},
		{"invalid hex digit", `KEY="\xg1"`, ErrInvalidHex},
		{"invalid second hex digit", `KEY="\x1z"`, ErrInvalidHex},
		{"truncated hex escape", `KEY="\x4`, ErrUnexpectedEOF},
		{"truncated escape", `KEY="\`, ErrUnexpectedEOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ParseString(context.Background(), tt.input, Map{})
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParse_KeepsPairsBeforeError(t *testing.T) {
	got := Map{"seed": "x"}

	err := ParseString(context.Background(), "a=1\nb=2\nc=\"3\nd=4", got)
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("expected unexpected EOF, got %v", err)
	}

	want := Map{"seed": "x", "a": "1", "b": "2"}
	if !maps.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParse_Idempotent(t *testing.T) {
	const input = "# config\nA=1\nB=\"two\\tparts\"\n\nC=3 # three\nA=4\n"

	first, err := ParseMap(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("first parse: %v", err)
	}

	second, err := ParseMap(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("second parse: %v", err)
	}

	if !maps.Equal(first, second) {
		t.Errorf("parses differ: %v != %v", first, second)
	}
}

func TestParse_SinkFunc_SourceOrder(t *testing.T) {
	var keys []string

	sink := SinkFunc(func(key, _ string) { keys = append(keys, key) })

	if err := ParseString(context.Background(), "z=1\na=2\nz=3\n", sink); err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if got := strings.Join(keys, ","); got != "z,a,z" {
		t.Errorf("expected z,a,z, got %s", got)
	}
}

// failingReader yields n bytes from r and then fails with err.
type failingReader struct {
	r   *strings.Reader
	err error
	n   int
}

func (f *failingReader) ReadByte() (byte, error) {
	if f.n == 0 {
		return 0, f.err
	}

	f.n--

	return f.r.ReadByte()
}

func TestParse_ReaderErrorUnchanged(t *testing.T) {
	errBoom := errors.New("boom")

	const input = "a=1\nbb=\"x\\ty\" # c\n"

	// Fail at every byte offset, covering each sub-scanner.
	for n := range len(input) {
		r := &failingReader{r: strings.NewReader(input), n: n, err: errBoom}

		err := Parse(context.Background(), r, Map{})
		if err != errBoom { //nolint:errorlint
			t.Errorf("offset %d: expected reader error unchanged, got %v", n, err)
		}
	}
}

func TestScanner_BufferOverflow(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		region string
		fails  bool
	}{
		{"key fits", "abcd=1", "", false},
		{"key overflows", "abcde=1", "key", true},
		{"value fits", "a=1234", "", false},
		{"value overflows", "a=12345", "value", true},
		{"quoted value fits", `a="\x41\x42CD"`, "", false},
		{"quoted value overflows", `a="12345"`, "value", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ParseString(context.Background(), tt.input, Map{}, WithCapacity(8))
			if !tt.fails {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}

				return
			}

			if !errors.Is(err, ErrBufferOverflow) {
				t.Fatalf("expected buffer overflow, got %v", err)
			}

			if got := attr(err, "region"); got != tt.region {
				t.Errorf("expected region %q, got %q", tt.region, got)
			}
		})
	}
}

func TestScanner_Capacity(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{0, DefaultCapacity},
		{-1, DefaultCapacity},
		{7, 7},
		{64, 64},
	}

	for _, tt := range tests {
		s := NewScanner(strings.NewReader(""), WithCapacity(tt.n))
		if got := s.Capacity(); got != tt.want {
			t.Errorf("WithCapacity(%d): capacity = %d, want %d", tt.n, got, tt.want)
		}
	}

	if got := NewScanner(strings.NewReader("")).Capacity(); got != DefaultCapacity {
		t.Errorf("default capacity = %d, want %d", got, DefaultCapacity)
	}
}

func TestScanner_Next(t *testing.T) {
	s := NewScanner(strings.NewReader("# c\nA=1\n\nB=\"2\"\n"))
	ctx := context.Background()

	for _, want := range [][2]string{{"A", "1"}, {"B", "2"}} {
		key, value, err := s.Next(ctx)
		if err != nil {
			t.Fatalf("next: %v", err)
		}

		if string(key) != want[0] || string(value) != want[1] {
			t.Errorf("got %s=%s, want %s=%s", key, value, want[0], want[1])
		}
	}

	if _, _, err := s.Next(ctx); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}

	if _, _, err := s.Next(ctx); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF to repeat, got %v", err)
	}
}

func TestScanner_ErrorLine(t *testing.T) {
	err := ParseString(context.Background(), "a=1\n\n# c\n b=2", Map{})
	if !errors.Is(err, ErrTrailingSpace) {
		t.Fatalf("expected trailing space, got %v", err)
	}

	if got := attr(err, "line"); got != "4" {
		t.Errorf("expected line 4, got %q", got)
	}
}

func TestParse_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := Map{}

	err := ParseString(ctx, "a=1", got)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	if len(got) != 0 {
		t.Errorf("expected no pairs, got %v", got)
	}
}

// attr returns the string form of the named attribute attached to err.
func attr(err error, key string) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}

	for _, a := range e.Attrs() {
		if a.Key == key {
			return a.Value.Resolve().String()
		}
	}

	return ""
}
