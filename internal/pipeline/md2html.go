package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// ErrEngineUnavailable indicates the Markdown engine failed its self-check.
var ErrEngineUnavailable = errors.New("markdown engine unavailable")

// DefaultHighlightStyle is the chroma style used when none is configured.
const DefaultHighlightStyle = "github"

// HTMLConverter abstracts Markdown to HTML conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// GoldmarkOptions configures NewGoldmarkConverter.
type GoldmarkOptions struct {
	HighlightStyle string // chroma style name; empty = DefaultHighlightStyle
	UnsafeHTML     bool   // pass raw HTML through instead of escaping it
}

// GoldmarkConverter converts Markdown to an HTML fragment using goldmark.
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter creates a GoldmarkConverter with tables, definition
// lists, footnotes, strikethrough, linkify and class-based highlighting.
// Headings get automatic IDs and accept {#id .class} attribute lists.
func NewGoldmarkConverter(opts GoldmarkOptions) *GoldmarkConverter {
	style := opts.HighlightStyle
	if style == "" {
		style = DefaultHighlightStyle
	}

	htmlOpts := []renderer.Option{html.WithXHTML()}
	if opts.UnsafeHTML {
		htmlOpts = append(htmlOpts, html.WithUnsafe())
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			extension.DefinitionList,
			extension.Footnote,
			extension.Strikethrough,
			extension.Linkify,
			highlighting.NewHighlighting(
				highlighting.WithStyle(style),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true), // colors come from HighlightCSS
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithAttribute(),
		),
		goldmark.WithRendererOptions(htmlOpts...),
	)
	return &GoldmarkConverter{md: md}
}

// ToHTML converts Markdown content to an HTML fragment.
// Supports context cancellation via goroutine + select pattern since
// Goldmark doesn't natively support context.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// sampleSource exercises every extension the page stylesheet styles.
const sampleSource = "| a | b |\n|---|---|\n| 1 | 2 |\n\n" +
	"```go\nfunc main() {}\n```\n\n" +
	"Term\n: Definition\n\n" +
	"Note[^1]\n\n[^1]: Footnote.\n"

// sampleMarkers must all appear in the rendered sample.
var sampleMarkers = []string{"<table>", "<th>", "<pre", "<dl>", "<dd>", "footnote"}

// SelfCheck renders a fixed sample and checks that every extension produced
// its markup. A nil converter or a failed check returns ErrEngineUnavailable.
func SelfCheck(ctx context.Context, c HTMLConverter) error {
	if c == nil {
		return fmt.Errorf("%w: no converter configured", ErrEngineUnavailable)
	}
	out, err := c.ToHTML(ctx, sampleSource)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	for _, m := range sampleMarkers {
		if !strings.Contains(out, m) {
			return fmt.Errorf("%w: sample output lacks %s", ErrEngineUnavailable, m)
		}
	}
	return nil
}

// Compile-time interface check.
var _ HTMLConverter = (*GoldmarkConverter)(nil)
