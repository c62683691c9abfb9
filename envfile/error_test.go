package envfile

import (
	"errors"
	"io/fs"
	"log/slog"
	"strings"
	"testing"
)

func TestError_IsSentinel(t *testing.T) {
	derived := ErrInvalidHex.With(slog.Int("line", 3))

	if !errors.Is(derived, ErrInvalidHex) {
		t.Error("expected derived error to match its sentinel")
	}

	if errors.Is(derived, ErrUnexpectedEOF) {
		t.Error("expected derived error not to match another sentinel")
	}

	if len(ErrInvalidHex.Attrs()) != 0 {
		t.Error("With mutated the sentinel")
	}
}

func TestError_WrapKeepsCause(t *testing.T) {
	err := ErrReadInput.Wrap(fs.ErrNotExist).With(slog.String("path", ".env"))

	if !errors.Is(err, ErrReadInput) {
		t.Error("expected wrapped error to match its sentinel")
	}

	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("expected wrapped error to match its cause")
	}

	if got := err.Error(); !strings.HasPrefix(got, ErrReadInput.Error()+": ") {
		t.Errorf("unexpected message %q", got)
	}
}

func TestError_LogValue(t *testing.T) {
	var e slog.LogValuer = ErrBufferOverflow.With(slog.String("region", "key"))

	v := e.LogValue()
	if v.Kind() != slog.KindGroup {
		t.Fatalf("expected group value, got %v", v.Kind())
	}

	found := map[string]string{}
	for _, a := range v.Group() {
		found[a.Key] = a.Value.String()
	}

	if found["error"] != ErrBufferOverflow.Error() || found["region"] != "key" {
		t.Errorf("unexpected attributes %v", found)
	}
}

func TestWrapError(t *testing.T) {
	if got := WrapError(ErrEmptyKey); got != ErrEmptyKey {
		t.Error("expected WrapError to return an existing *Error")
	}

	cause := errors.New("cause")
	if got := WrapError(cause); !errors.Is(got, cause) {
		t.Errorf("expected wrapped cause, got %v", got)
	}
}
