package mdconvert

// Notes:
// - Hand-written fakes for the subprocess runner, the PDF stage and the
//   opener let converter and batch tests run without a browser.
// - newTestConverter wires the real goldmark engine and embedded assets, so
//   HTML assertions cover the actual page output.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/net/html"
)

// fixedNow is the clock used by converter tests.
var fixedNow = time.Date(2026, time.March, 7, 9, 5, 0, 0, time.UTC)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

// runCall records one CommandRunner invocation.
type runCall struct {
	name    string
	args    []string
	timeout time.Duration
}

// fakeRunner answers commands through respond; a nil respond fails everything.
type fakeRunner struct {
	mu      sync.Mutex
	calls   []runCall
	respond func(name string, args []string) (string, string, error)
}

var errFakeCommand = errors.New("fake command failed")

func (f *fakeRunner) Run(ctx context.Context, timeout time.Duration, name string, args ...string) (string, string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, runCall{name: name, args: args, timeout: timeout})
	f.mu.Unlock()
	if f.respond == nil {
		return "", "", errFakeCommand
	}
	return f.respond(name, args)
}

func (f *fakeRunner) recorded() []runCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]runCall(nil), f.calls...)
}

// fakeRenderer writes a placeholder PDF when ok is true.
type fakeRenderer struct {
	ok    bool
	calls int
	html  string
	pdf   string
}

func (f *fakeRenderer) RenderToPDF(ctx context.Context, htmlPath, pdfPath string) bool {
	f.calls++
	f.html, f.pdf = htmlPath, pdfPath
	if !f.ok {
		return false
	}
	return os.WriteFile(pdfPath, []byte("%PDF-1.4\n"), 0o644) == nil
}

// fakeOpener records opened paths.
type fakeOpener struct {
	opened []string
	err    error
}

func (f *fakeOpener) Open(ctx context.Context, path string) error {
	f.opened = append(f.opened, path)
	return f.err
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// newTestConverter builds a Converter with a fixed clock, a fake PDF stage
// and a fake opener, plus any extra options.
func newTestConverter(t *testing.T, opts ...Option) *Converter {
	t.Helper()
	base := []Option{
		WithClock(func() time.Time { return fixedNow }),
		withPDFRenderer(&fakeRenderer{}),
		WithOpener(&fakeOpener{}),
		WithCommandRunner(&fakeRunner{}),
	}
	c, err := NewConverter(append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// writeFile creates dir/name with content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", p, err)
	}
	return p
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// elementText returns the text of the first element named tag in page.
func elementText(t *testing.T, page, tag string) (string, bool) {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		t.Fatalf("parsing HTML: %v", err)
	}
	var find func(*html.Node) (string, bool)
	find = func(n *html.Node) (string, bool) {
		if n.Type == html.ElementNode && n.Data == tag {
			var b strings.Builder
			collectText(n, &b)
			return b.String(), true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if s, ok := find(c); ok {
				return s, true
			}
		}
		return "", false
	}
	return find(doc)
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}
