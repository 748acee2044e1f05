package main

// Notes:
// - testEnv wires buffers, a fixed clock, a runner that fails every command
//   and a recording opener, so CLI tests never touch a real browser or the
//   desktop. A PDF request in these tests always degrades unless the test
//   installs a runner that writes the file.

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

var fixedNow = time.Date(2026, time.March, 7, 9, 5, 0, 0, time.UTC)

var errNoBrowser = errors.New("no such browser")

// stubRunner answers subprocess calls. A nil respond fails every call.
type stubRunner struct {
	mu      sync.Mutex
	names   []string
	respond func(name string, args []string) (string, string, error)
}

func (s *stubRunner) Run(ctx context.Context, timeout time.Duration, name string, args ...string) (string, string, error) {
	s.mu.Lock()
	s.names = append(s.names, name)
	s.mu.Unlock()
	if s.respond == nil {
		return "", "", errNoBrowser
	}
	return s.respond(name, args)
}

// printingRunner answers --version for bin and writes a PDF for print calls.
func printingRunner(bin string) *stubRunner {
	return &stubRunner{respond: func(name string, args []string) (string, string, error) {
		if name != bin {
			return "", "", errNoBrowser
		}
		for _, a := range args {
			if strings.HasPrefix(a, "--print-to-pdf=") {
				path := strings.TrimPrefix(a, "--print-to-pdf=")
				return "", "", os.WriteFile(path, []byte("%PDF-1.4\n"), 0o644)
			}
		}
		return "Fake Browser 1.0\n", "", nil
	}}
}

// stubOpener records the paths it was asked to open.
type stubOpener struct {
	mu     sync.Mutex
	opened []string
}

func (s *stubOpener) Open(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opened = append(s.opened, path)
	return nil
}

func (s *stubOpener) paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.opened...)
}

// testEnv returns an Environment backed by buffers.
func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer, *stubOpener) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	opener := &stubOpener{}
	env := &Environment{
		Now:    func() time.Time { return fixedNow },
		Stdout: stdout,
		Stderr: stderr,
		Runner: &stubRunner{},
		Opener: opener,
	}
	return env, stdout, stderr, opener
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
