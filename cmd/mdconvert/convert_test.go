package main

// Notes:
// - runConvert is exercised end to end through runMain with temp dirs, the
//   real goldmark engine and embedded assets. Browsers and the desktop
//   opener are stubbed through Environment.
// - Timing output in verbose mode is only checked for its shape.
// - Env var interaction lives in env_config_test.go (t.Setenv).
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-mdconvert"
	"github.com/alnah/go-mdconvert/internal/config"
)

// ---------------------------------------------------------------------------
// TestConvert_SingleFile - One Markdown file to HTML or PDF
// ---------------------------------------------------------------------------

func TestConvert_SingleFile(t *testing.T) {
	t.Parallel()

	t.Run("html next to source", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := filepath.Join(dir, "team_notes.md")
		writeFile(t, in, "# Agenda\n\n- item\n")
		env, stdout, stderr, _ := testEnv()

		code := runMain([]string{"mdconvert", "convert", in}, env)
		if code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
		}

		out := filepath.Join(dir, "team_notes.html")
		if got := stdout.String(); got != "Created "+out+"\n" {
			t.Errorf("stdout = %q", got)
		}
		page := readFile(t, out)
		for _, want := range []string{"<title>Team Notes</title>", "Generated on 2026-03-07 09:05", "<li>item</li>"} {
			if !strings.Contains(page, want) {
				t.Errorf("page missing %q", want)
			}
		}
	})

	t.Run("no header", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := filepath.Join(dir, "notes.md")
		writeFile(t, in, "body text\n")
		env, _, stderr, _ := testEnv()

		if code := runMain([]string{"mdconvert", "convert", "--no-header", in}, env); code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
		}

		page := readFile(t, filepath.Join(dir, "notes.html"))
		if strings.Contains(page, "Generated on") {
			t.Error("header rendered despite --no-header")
		}
		if !strings.Contains(page, "body text") {
			t.Error("body missing")
		}
	})

	t.Run("output into directory", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := filepath.Join(dir, "notes.md")
		writeFile(t, in, "text\n")
		outDir := filepath.Join(dir, "site") + string(os.PathSeparator)
		env, _, stderr, _ := testEnv()

		if code := runMain([]string{"mdconvert", "convert", "-o", outDir, in}, env); code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
		}
		if _, err := os.Stat(filepath.Join(dir, "site", "notes.html")); err != nil {
			t.Errorf("expected output in site/: %v", err)
		}
	})

	t.Run("pdf printed by first browser", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := filepath.Join(dir, "notes.md")
		writeFile(t, in, "# PDF\n")
		env, stdout, stderr, opener := testEnv()
		env.Runner = printingRunner("/opt/fake/chrome")

		code := runMain([]string{"mdconvert", "convert", "-f", "pdf", "--browser", "/opt/fake/chrome", in}, env)
		if code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
		}

		pdf := filepath.Join(dir, "notes.pdf")
		if !strings.HasPrefix(readFile(t, pdf), "%PDF") {
			t.Error("pdf not written")
		}
		if _, err := os.Stat(filepath.Join(dir, "notes.html")); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("intermediate HTML should be removed, stat err = %v", err)
		}
		if !strings.Contains(stdout.String(), "Created "+pdf) {
			t.Errorf("stdout = %q", stdout.String())
		}
		if len(opener.paths()) != 0 {
			t.Errorf("opener called on success: %v", opener.paths())
		}
	})

	t.Run("pdf degrades to html", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := filepath.Join(dir, "notes.md")
		writeFile(t, in, "# Fallback\n")
		env, stdout, stderr, opener := testEnv()

		code := runMain([]string{"mdconvert", "convert", "--format", "pdf", in}, env)
		if code != ExitSuccess {
			t.Fatalf("exit code = %d, want %d for a degraded PDF", code, ExitSuccess)
		}

		htmlPath := filepath.Join(dir, "notes.html")
		if !strings.Contains(stdout.String(), "Created "+htmlPath) {
			t.Errorf("stdout = %q, want HTML path", stdout.String())
		}
		if !strings.Contains(stderr.String(), "warning: no browser could print") {
			t.Errorf("stderr = %q, want degrade warning", stderr.String())
		}
		if got := opener.paths(); len(got) != 1 || got[0] != htmlPath {
			t.Errorf("opened = %v, want [%s]", got, htmlPath)
		}
	})

	t.Run("pdf degrade without opening", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := filepath.Join(dir, "notes.md")
		writeFile(t, in, "text\n")
		env, _, _, opener := testEnv()

		if code := runMain([]string{"mdconvert", "convert", "-f", "pdf", "--no-open", in}, env); code != ExitSuccess {
			t.Fatalf("exit code = %d", code)
		}
		if len(opener.paths()) != 0 {
			t.Errorf("opener called with --no-open: %v", opener.paths())
		}
	})

	t.Run("quiet suppresses output", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := filepath.Join(dir, "notes.md")
		writeFile(t, in, "text\n")
		env, stdout, stderr, _ := testEnv()

		if code := runMain([]string{"mdconvert", "convert", "-q", "-f", "pdf", in}, env); code != ExitSuccess {
			t.Fatalf("exit code = %d", code)
		}
		if stdout.Len() != 0 || stderr.Len() != 0 {
			t.Errorf("quiet output: stdout=%q stderr=%q", stdout.String(), stderr.String())
		}
	})

	t.Run("verbose shows timing and logs", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := filepath.Join(dir, "notes.md")
		writeFile(t, in, "text\n")
		env, stdout, stderr, _ := testEnv()

		if code := runMain([]string{"mdconvert", "convert", "-v", "-f", "pdf", in}, env); code != ExitSuccess {
			t.Fatalf("exit code = %d", code)
		}
		if !strings.Contains(stdout.String(), in+" -> ") {
			t.Errorf("stdout = %q, want verbose arrow line", stdout.String())
		}
		if !strings.Contains(stderr.String(), "pdf candidate failed") {
			t.Errorf("stderr = %q, want debug log lines", stderr.String())
		}
	})

	t.Run("binary input", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := filepath.Join(dir, "image.md")
		writeFile(t, in, "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01")
		env, _, stderr, _ := testEnv()

		code := runMain([]string{"mdconvert", "convert", in}, env)
		if code != ExitGeneral {
			t.Errorf("exit code = %d, want %d", code, ExitGeneral)
		}
		if !strings.Contains(stderr.String(), "hint:") {
			t.Errorf("stderr = %q, want hint", stderr.String())
		}
	})
}

// ---------------------------------------------------------------------------
// TestConvert_Directory - Batch conversion
// ---------------------------------------------------------------------------

func TestConvert_Directory(t *testing.T) {
	t.Parallel()

	t.Run("converts matching files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "b.md"), "# B\n")
		writeFile(t, filepath.Join(dir, "a.md"), "# A\n")
		writeFile(t, filepath.Join(dir, "notes.txt"), "skip\n")
		outDir := filepath.Join(dir, "out")
		env, stdout, stderr, _ := testEnv()

		code := runMain([]string{"mdconvert", "convert", "-o", outDir, dir}, env)
		if code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
		}

		want := fmt.Sprintf("Converting 2 files...\nCreated %s\nCreated %s\n\n2 succeeded, 0 failed\n",
			filepath.Join(outDir, "a.html"), filepath.Join(outDir, "b.html"))
		if got := stdout.String(); got != want {
			t.Errorf("stdout = %q, want %q", got, want)
		}
	})

	t.Run("failed file sets exit code", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "good.md"), "fine\n")
		writeFile(t, filepath.Join(dir, "junk.md"), "\x01\x02\x03\x04\x05binary\x00\x00")
		env, stdout, stderr, _ := testEnv()

		code := runMain([]string{"mdconvert", "convert", dir}, env)
		if code != ExitGeneral {
			t.Errorf("exit code = %d, want %d", code, ExitGeneral)
		}
		if !strings.Contains(stderr.String(), "FAILED "+filepath.Join(dir, "junk.md")) {
			t.Errorf("stderr = %q, want FAILED line", stderr.String())
		}
		if !strings.Contains(stdout.String(), "1 succeeded, 1 failed") {
			t.Errorf("stdout = %q, want summary", stdout.String())
		}
		if _, err := os.Stat(filepath.Join(dir, "good.html")); err != nil {
			t.Errorf("good file not converted: %v", err)
		}
	})

	t.Run("custom pattern", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "a.markdown"), "a\n")
		writeFile(t, filepath.Join(dir, "b.md"), "b\n")
		env, _, stderr, _ := testEnv()

		if code := runMain([]string{"mdconvert", "convert", "--pattern", "*.markdown", dir}, env); code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
		}
		if _, err := os.Stat(filepath.Join(dir, "a.html")); err != nil {
			t.Errorf("a.markdown not converted: %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, "b.html")); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("b.md should not match, stat err = %v", err)
		}
	})

	t.Run("no matches warns", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		env, _, stderr, _ := testEnv()

		if code := runMain([]string{"mdconvert", "convert", dir}, env); code != ExitSuccess {
			t.Fatalf("exit code = %d", code)
		}
		if !strings.Contains(stderr.String(), "warning: no files matching *.md in "+dir) {
			t.Errorf("stderr = %q", stderr.String())
		}
	})

	t.Run("invalid pattern", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		env, _, _, _ := testEnv()

		if code := runMain([]string{"mdconvert", "convert", "--pattern", "[", dir}, env); code != ExitUsage {
			t.Errorf("exit code = %d, want %d", code, ExitUsage)
		}
	})
}

// ---------------------------------------------------------------------------
// TestResolveOutputPath - Single-file output resolution
// ---------------------------------------------------------------------------

func TestResolveOutputPath(t *testing.T) {
	t.Parallel()

	existing := t.TempDir()
	sep := string(os.PathSeparator)

	tests := []struct {
		name       string
		input      string
		flagOutput string
		cfgDir     string
		format     mdconvert.Format
		want       string
	}{
		{"nothing set", "docs/a.md", "", "", mdconvert.FormatHTML, ""},
		{"explicit file", "docs/a.md", "out/b.html", "", mdconvert.FormatHTML, "out/b.html"},
		{"existing dir", "docs/a.md", existing, "", mdconvert.FormatPDF, filepath.Join(existing, "a.pdf")},
		{"trailing separator", "docs/a.md", "build" + sep, "", mdconvert.FormatHTML, filepath.Join("build", "a.html")},
		{"config dir", "docs/a.md", "", "site", mdconvert.FormatHTML, filepath.Join("site", "a.html")},
		{"flag beats config", "docs/a.md", "x.html", "site", mdconvert.FormatHTML, "x.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := resolveOutputPath(tt.input, tt.flagOutput, tt.cfgDir, tt.format)
			if got != tt.want {
				t.Errorf("resolveOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestMergeFlags - CLI flags over config
// ---------------------------------------------------------------------------

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	t.Run("flags override config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.PDF.Browsers = []string{"/cfg/chrome"}
		flags := &convertFlags{
			format:   "PDF",
			pattern:  "*.markdown",
			engine:   "Rod",
			browsers: []string{"/flag/chrome"},
			noHeader: true,
			noOpen:   true,
		}

		mergeFlags(flags, cfg)

		if cfg.Output.Format != "pdf" {
			t.Errorf("Format = %q, want pdf", cfg.Output.Format)
		}
		if cfg.Input.Pattern != "*.markdown" {
			t.Errorf("Pattern = %q", cfg.Input.Pattern)
		}
		if cfg.PDF.Engine != "rod" {
			t.Errorf("Engine = %q, want rod", cfg.PDF.Engine)
		}
		if got := strings.Join(cfg.PDF.Browsers, ","); got != "/flag/chrome,/cfg/chrome" {
			t.Errorf("Browsers = %q, want flag first", got)
		}
		if cfg.HeaderEnabled() {
			t.Error("HeaderEnabled() = true after --no-header")
		}
		if cfg.OpenFallback() {
			t.Error("OpenFallback() = true after --no-open")
		}
	})

	t.Run("empty flags keep config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Output.Format = "pdf"
		mergeFlags(&convertFlags{}, cfg)

		if cfg.Output.Format != "pdf" {
			t.Errorf("Format = %q, want pdf", cfg.Output.Format)
		}
		if !cfg.HeaderEnabled() || !cfg.OpenFallback() {
			t.Error("defaults changed without flags")
		}
	})
}

// ---------------------------------------------------------------------------
// TestLoadConfig - Config selection
// ---------------------------------------------------------------------------

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults without name", func(t *testing.T) {
		t.Parallel()

		cfg, err := loadConfig("", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Pattern() != config.DefaultPattern {
			t.Errorf("Pattern() = %q", cfg.Pattern())
		}
	})

	t.Run("flag wins over env", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "work.yaml")
		writeFile(t, path, "output:\n  format: pdf\n")

		cfg, err := loadConfig(path, "/nonexistent/other.yaml")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Output.Format != "pdf" {
			t.Errorf("Format = %q, want pdf", cfg.Output.Format)
		}
	})

	t.Run("missing config", func(t *testing.T) {
		t.Parallel()

		_, err := loadConfig("/nonexistent/missing.yaml", "")
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestPrintError - Error and hint formatting
// ---------------------------------------------------------------------------

func TestPrintError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"cancelled", fmt.Errorf("converting: %w", context.Canceled), "interrupted\n"},
		{"plain", errors.New("boom"), "error: boom\n"},
		{"missing input", fmt.Errorf("%w: x.md", mdconvert.ErrInputNotFound), "hint: check the file path"},
		{"missing dir", mdconvert.ErrInputDirectoryNotFound, "hint: check the directory path"},
		{"write output", mdconvert.ErrWriteOutput, "hint: check parent directory"},
		{"dependency", mdconvert.ErrDependencyMissing, "mdconvert doctor"},
		{"config not found", config.ErrConfigNotFound, "--config"},
		{"unknown highlight style", mdconvert.ErrInvalidHighlightStyle, "monokai"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf strings.Builder
			printError(&buf, tt.err, "work")
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("printError() = %q, want substring %q", buf.String(), tt.want)
			}
		})
	}
}

func TestFirstNonEmpty(t *testing.T) {
	t.Parallel()

	if got := firstNonEmpty("", "b", "c"); got != "b" {
		t.Errorf("firstNonEmpty() = %q, want b", got)
	}
	if got := firstNonEmpty("", ""); got != "" {
		t.Errorf("firstNonEmpty() = %q, want empty", got)
	}
}
