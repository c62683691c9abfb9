package cmd

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/dotenv/envfile"
)

func TestGet_Run(t *testing.T) {
	path := writeFile(t, t.TempDir(), ".env", "A=1\nB=\"two words\"\n")

	ctx, out := testContext(t, nil, Sources{Files: []string{path}})
	if err := (&Get{Keys: []string{"B", "A"}}).Run(ctx); err != nil {
		t.Fatalf("Get.Run() error = %v", err)
	}

	if got := out.String(); got != "two words\n1\n" {
		t.Errorf("got %q", got)
	}

	ctx, _ = testContext(t, nil, Sources{Files: []string{path}})
	if err := (&Get{Keys: []string{"A", "MISSING"}}).Run(ctx); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("expected key not found, got %v", err)
	}
}

func TestCheck_Run(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.env", "A=1\nB=2\n")
	bad := writeFile(t, dir, "bad.env", "A=\"unterminated\n")

	ctx, out := testContext(t, nil, Sources{Files: []string{good}})
	if err := (&Check{}).Run(ctx); err != nil {
		t.Fatalf("Check.Run() error = %v", err)
	}

	if want := good + ": ok (2 pairs)\n"; out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}

	ctx, out = testContext(t, nil, Sources{Files: []string{good, bad}})

	err := (&Check{Quiet: true}).Run(ctx)
	if !errors.Is(err, ErrCheck) {
		t.Fatalf("expected check error, got %v", err)
	}

	got := out.String()
	if strings.Contains(got, good) {
		t.Errorf("quiet check reported a good file: %q", got)
	}

	if !strings.HasPrefix(got, bad+": ") || !strings.Contains(got, envfile.ErrUnexpectedEOF.Error()) {
		t.Errorf("expected bad file report, got %q", got)
	}
}

func TestCheck_Run_StdinOnce(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}

	defer r.Close()

	if _, err := w.WriteString("A=1\n"); err != nil {
		t.Fatal(err)
	}

	w.Close()

	stdin := os.Stdin
	os.Stdin = r

	defer func() { os.Stdin = stdin }()

	ctx, out := testContext(t, nil, Sources{Files: []string{"-", "-"}})
	if err := (&Check{}).Run(ctx); err != nil {
		t.Fatalf("Check.Run() error = %v", err)
	}

	if want := "-: ok (1 pairs)\n"; out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}
}

func TestDigest_Run(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "a.env", "A=1\nB=2\n")
	second := writeFile(t, dir, "b.env", "# same pairs\nB=2\nA=1\n")

	digest := func(path string) string {
		ctx, out := testContext(t, nil, Sources{Files: []string{path}})
		if err := (&Digest{}).Run(ctx); err != nil {
			t.Fatalf("Digest.Run() error = %v", err)
		}

		return out.String()
	}

	a, b := digest(first), digest(second)
	if a != b {
		t.Errorf("digests differ for equal pairs: %q != %q", a, b)
	}

	want := fmt.Sprintf("%016x\n", envfile.Digest(envfile.Map{"A": "1", "B": "2"}))
	if a != want {
		t.Errorf("got %q, want %q", a, want)
	}
}

func TestExec_Environ(t *testing.T) {
	t.Setenv("DOTENV_TEST_INHERITED", "yes")
	t.Setenv("PATH", "/usr/bin")

	e := &Exec{PrependPath: []string{"/opt/tool/bin"}}
	env := e.environ(envfile.Map{"DOTENV_TEST_LOADED": "1"})

	if env["DOTENV_TEST_INHERITED"] != "yes" || env["DOTENV_TEST_LOADED"] != "1" {
		t.Errorf("expected inherited and loaded pairs, got %v", env)
	}

	if !strings.HasPrefix(env["PATH"], "/opt/tool/bin") || !strings.Contains(env["PATH"], "/usr/bin") {
		t.Errorf("unexpected PATH %q", env["PATH"])
	}

	clean := (&Exec{Clean: true}).environ(envfile.Map{"ONLY": "this"})
	if !maps.Equal(clean, envfile.Map{"ONLY": "this"}) {
		t.Errorf("expected clean environment, got %v", clean)
	}
}

func TestResolveCommand(t *testing.T) {
	dir := t.TempDir()

	tool := filepath.Join(dir, "dotenv-test-tool")
	if err := os.WriteFile(tool, []byte("#!/bin/sh\n"), 0o700); err != nil {
		t.Fatal(err)
	}

	path := strings.Join([]string{filepath.Join(dir, "missing"), dir}, string(os.PathListSeparator))

	if got := resolveCommand("dotenv-test-tool", path); got != tool {
		t.Errorf("expected %q, got %q", tool, got)
	}

	if got := resolveCommand("not-a-command", path); got != "not-a-command" {
		t.Errorf("expected unresolved name unchanged, got %q", got)
	}

	if got := resolveCommand("./local", path); got != "./local" {
		t.Errorf("expected path unchanged, got %q", got)
	}
}

func TestExec_Run(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}

	path := writeFile(t, t.TempDir(), ".env", "DOTENV_TEST_GREETING=\"hello there\"\n")
	ctx, out := testContext(t, nil, Sources{Files: []string{path}})

	e := &Exec{Command: []string{sh, "-c", `printf '%s' "$DOTENV_TEST_GREETING"; exit 3`}}

	err = e.Run(ctx)
	if !errors.Is(err, ErrExec) {
		t.Fatalf("expected exec error for exit status 3, got %v", err)
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 3 {
		t.Errorf("expected exit code 3, got %v", err)
	}

	if got := out.String(); got != "hello there" {
		t.Errorf("child saw %q", got)
	}

	if err := (&Exec{}).Run(ctx); !errors.Is(err, ErrNoCommand) {
		t.Errorf("expected no command error, got %v", err)
	}
}

func TestInit_Run(t *testing.T) {
	tests := []struct {
		name    string
		force   bool
		exists  bool
		wantErr error
	}{
		{"create new config", false, false, nil},
		{"overwrite with force", true, true, nil},
		{"refuse without force", false, true, ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			confPath := filepath.Join(t.TempDir(), "config")
			if tt.exists {
				writeFile(t, filepath.Dir(confPath), "config", "existing=content\n")
			}

			var grammar struct {
				LogLevel string   `default:"debug"`
				Pretty   bool     `default:"true"`
				File     []string `default:".env,.env.local"`
				Empty    string
			}

			ctx, _ := testContext(t, &grammar, Sources{}, kong.Vars{ConfigIdentifier: confPath})

			err := (&Init{Force: tt.force}).Run(ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}

				return
			}

			if err != nil {
				t.Fatalf("Init.Run() error = %v", err)
			}

			got := envfile.Map{}
			if err := envfile.Load(context.Background(), confPath, got); err != nil {
				t.Fatalf("generated config does not parse: %v", err)
			}

			want := envfile.Map{"log-level": "debug", "pretty": "true", "file": ".env,.env.local"}
			if !maps.Equal(got, want) {
				t.Errorf("got %v, want %v", got, want)
			}
		})
	}
}

func TestFlagString(t *testing.T) {
	tests := []struct {
		in   any
		want string
		ok   bool
	}{
		{nil, "", false},
		{true, "true", true},
		{"", "", false},
		{"x", "x", true},
		{[]string{}, "", false},
		{[]string{"a", "b"}, "a,b", true},
		{4096, "4096", true},
	}

	for _, tt := range tests {
		got, ok := flagString(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("flagString(%#v) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
