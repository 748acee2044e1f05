package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/alnah/go-mdconvert/internal/assets"
)

// ErrTemplateRender indicates page template execution failed.
var ErrTemplateRender = errors.New("page template rendering failed")

// PageData holds the values of one rendered page.
type PageData struct {
	Title               string // Page <title> and header heading
	GeneratedOn         string // Pre-formatted timestamp for the header
	Body                string // Trusted HTML fragment from the Markdown stage
	IncludeHeaderFooter bool
}

// Assembler defines the contract for wrapping a body into a full page.
type Assembler interface {
	Assemble(ctx context.Context, data *PageData) (string, error)
}

// pageView is the value the templates are executed with.
type pageView struct {
	Title               string
	GeneratedOn         string
	Body                template.HTML
	CSS                 template.CSS
	IncludeHeaderFooter bool
}

// TemplateRenderer assembles standalone HTML pages from a template set and
// a stylesheet. It is immutable after construction and safe for concurrent use.
type TemplateRenderer struct {
	tmpl *template.Template
	css  template.CSS
}

// NewTemplateRenderer parses the set's page, header and footer templates.
// The header and footer are registered as "header" and "footer" so the
// page template can invoke them. css is embedded verbatim in <style>.
func NewTemplateRenderer(ts *assets.TemplateSet, css string) (*TemplateRenderer, error) {
	if ts == nil {
		return nil, fmt.Errorf("%w: nil template set", ErrTemplateRender)
	}

	tmpl, err := template.New("page").Parse(ts.Page)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}
	if _, err := tmpl.New("header").Parse(ts.Header); err != nil {
		return nil, fmt.Errorf("parsing header template: %w", err)
	}
	if _, err := tmpl.New("footer").Parse(ts.Footer); err != nil {
		return nil, fmt.Errorf("parsing footer template: %w", err)
	}

	// #nosec G203 -- stylesheet comes from embedded or operator-provided assets
	return &TemplateRenderer{tmpl: tmpl, css: template.CSS(sanitizeCSS(css))}, nil
}

// Assemble renders data into a complete HTML document. Title and timestamp
// are escaped; Body is inserted as-is. With IncludeHeaderFooter false the
// header and footer blocks are omitted entirely.
func (r *TemplateRenderer) Assemble(ctx context.Context, data *PageData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if data == nil {
		return "", fmt.Errorf("%w: nil page data", ErrTemplateRender)
	}

	view := pageView{
		Title:       data.Title,
		GeneratedOn: data.GeneratedOn,
		// #nosec G203 -- body is goldmark output, raw HTML escaped unless opted in
		Body:                template.HTML(data.Body),
		CSS:                 r.css,
		IncludeHeaderFooter: data.IncludeHeaderFooter,
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "page", view); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}
	return buf.String(), nil
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// Compile-time interface check.
var _ Assembler = (*TemplateRenderer)(nil)
