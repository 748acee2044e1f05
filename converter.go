package mdconvert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-mdconvert/internal/assets"
	"github.com/alnah/go-mdconvert/internal/dateutil"
	"github.com/alnah/go-mdconvert/internal/fileutil"
	"github.com/alnah/go-mdconvert/internal/hints"
	"github.com/alnah/go-mdconvert/internal/pipeline"
)

// engineCheckTimeout bounds the Markdown engine self-check in NewConverter.
const engineCheckTimeout = 5 * time.Second

// Compile-time interface implementation checks.
var (
	_ pipeline.Preprocessor  = (*pipeline.SourcePreprocessor)(nil)
	_ pipeline.HTMLConverter = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.Assembler     = (*pipeline.TemplateRenderer)(nil)
)

// Converter runs the Markdown to HTML to PDF pipeline.
// Create with NewConverter, and Close when done. A Converter is meant for
// sequential use.
type Converter struct {
	cfg converterConfig

	preprocessor  pipeline.Preprocessor
	htmlConverter pipeline.HTMLConverter
	assembler     pipeline.Assembler
	layout        dateutil.Layout

	runner      CommandRunner
	candidates  []string
	rod         *rodRenderer
	pdfRenderer PDFRenderer
	opener      Opener
}

// NewConverter builds a Converter. It fails with ErrDependencyMissing when
// the Markdown engine does not pass its self-check, and with
// ErrInvalidEngine, ErrInvalidHighlightStyle, ErrInvalidDateFormat or
// ErrInvalidAssetPath for bad options.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{cfg: defaultConfig()}
	for _, opt := range opts {
		opt(c)
	}

	if _, err := ParseEngine(string(c.cfg.engine)); err != nil {
		return nil, err
	}
	if c.cfg.highlightStyle == "" {
		c.cfg.highlightStyle = pipeline.DefaultHighlightStyle
	}
	if !pipeline.IsHighlightStyle(c.cfg.highlightStyle) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidHighlightStyle, c.cfg.highlightStyle)
	}

	layout, err := dateutil.Compile(c.cfg.dateFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDateFormat, err)
	}
	c.layout = layout

	if c.htmlConverter == nil {
		c.htmlConverter = pipeline.NewGoldmarkConverter(pipeline.GoldmarkOptions{
			HighlightStyle: c.cfg.highlightStyle,
			UnsafeHTML:     c.cfg.unsafeHTML,
		})
	}
	checkCtx, cancel := context.WithTimeout(context.Background(), engineCheckTimeout)
	defer cancel()
	if err := pipeline.SelfCheck(checkCtx, c.htmlConverter); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependencyMissing, err)
	}

	assembler, err := c.buildAssembler()
	if err != nil {
		return nil, err
	}
	c.assembler = assembler
	c.preprocessor = &pipeline.SourcePreprocessor{}

	if c.runner == nil {
		c.runner = &ExecRunner{}
	}
	c.candidates = BrowserCandidates(c.cfg.browsers)
	if c.pdfRenderer == nil {
		if c.cfg.engine != EngineExec {
			c.rod = newRodRenderer(c.candidates, c.cfg.renderTimeout)
		}
		c.pdfRenderer = &browserRenderer{
			runner:         c.runner,
			candidates:     c.candidates,
			versionTimeout: c.cfg.versionTimeout,
			renderTimeout:  c.cfg.renderTimeout,
			engine:         c.cfg.engine,
			rod:            c.rod,
			logger:         c.cfg.logger,
		}
	}
	if c.opener == nil {
		c.opener = newSystemOpener(c.runner)
	}

	return c, nil
}

// buildAssembler loads the stylesheet and template set and parses them once.
func (c *Converter) buildAssembler() (*pipeline.TemplateRenderer, error) {
	resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}

	css, err := resolver.LoadStyle(assets.DefaultStyleName)
	if err != nil {
		return nil, fmt.Errorf("%w: loading style: %v", ErrInvalidAssetPath, err)
	}
	highlightCSS, err := pipeline.HighlightCSS(c.cfg.highlightStyle)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}

	ts, err := resolver.LoadTemplateSet(assets.DefaultTemplateSetName)
	if err != nil {
		return nil, fmt.Errorf("%w: loading templates: %v", ErrInvalidAssetPath, err)
	}

	renderer, err := pipeline.NewTemplateRenderer(ts, css+"\n"+highlightCSS)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	return renderer, nil
}

// Close releases the go-rod browser if one was launched.
func (c *Converter) Close() error {
	if c.rod != nil {
		return c.rod.Close()
	}
	return nil
}

// ConvertToHTML renders inputPath to a standalone HTML page and returns its
// path. An empty outputPath writes next to the input with a .html extension.
func (c *Converter) ConvertToHTML(ctx context.Context, inputPath, outputPath string, includeHeaderFooter bool) (string, error) {
	doc, err := ReadDocument(inputPath)
	if err != nil {
		return "", err
	}
	if outputPath == "" {
		outputPath = fileutil.ReplaceExt(inputPath, FormatHTML.Extension())
	}

	content := c.preprocessor.Preprocess(ctx, doc.Content)
	if err := ctx.Err(); err != nil {
		return "", err
	}

	body, err := c.htmlConverter.ToHTML(ctx, content)
	if err != nil {
		return "", fmt.Errorf("converting %s: %w", inputPath, err)
	}
	body = pipeline.InsertTOC(body)

	body, err = pipeline.RebaseRelativePaths(body, absDir(inputPath), absDir(outputPath))
	if err != nil {
		return "", fmt.Errorf("rebasing links: %w", err)
	}

	page, err := c.assembler.Assemble(ctx, &pipeline.PageData{
		Title:               doc.Title,
		GeneratedOn:         c.layout.Format(c.cfg.clock()),
		Body:                body,
		IncludeHeaderFooter: includeHeaderFooter,
	})
	if err != nil {
		return "", err
	}

	if err := fileutil.WriteFileAtomic(outputPath, []byte(page)); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrWriteOutput, outputPath, err)
	}
	return outputPath, nil
}

// ConvertToPDF renders inputPath to PDF and returns the PDF path. The
// intermediate HTML is written next to the PDF target and removed on
// success. When no browser can print it, the HTML path is returned with a
// nil error, and the HTML is opened if the open fallback is enabled.
func (c *Converter) ConvertToPDF(ctx context.Context, inputPath, outputPath string, includeHeaderFooter bool) (string, error) {
	path, _, err := c.convertPDF(ctx, inputPath, outputPath, includeHeaderFooter)
	return path, err
}

func (c *Converter) convertPDF(ctx context.Context, inputPath, outputPath string, includeHeaderFooter bool) (path string, degraded bool, err error) {
	if outputPath == "" {
		outputPath = fileutil.ReplaceExt(inputPath, FormatPDF.Extension())
	}
	htmlPath := fileutil.ReplaceExt(outputPath, FormatHTML.Extension())
	if htmlPath == outputPath {
		htmlPath = outputPath + FormatHTML.Extension()
	}

	htmlPath, err = c.ConvertToHTML(ctx, inputPath, htmlPath, includeHeaderFooter)
	if err != nil {
		return "", false, err
	}

	if c.pdfRenderer.RenderToPDF(ctx, htmlPath, outputPath) {
		if rmErr := os.Remove(htmlPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			c.cfg.logger.Warn("intermediate HTML not removed",
				zap.String("output", htmlPath),
				zap.Error(rmErr))
		}
		return outputPath, false, nil
	}

	// Interrupted mid-render: keep the HTML, skip the opener.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return htmlPath, true, ctxErr
	}

	c.cfg.logger.Warn("PDF unavailable, kept HTML",
		zap.String("input", inputPath),
		zap.String("output", htmlPath),
		zap.Error(ErrRenderFailure),
		zap.String("hint", strings.TrimPrefix(hints.ForBrowserNotFound(), "\n  hint: ")))

	if c.cfg.openFallback {
		if openErr := c.opener.Open(ctx, htmlPath); openErr != nil {
			c.cfg.logger.Warn("could not open HTML fallback",
				zap.String("output", htmlPath),
				zap.Error(openErr))
		}
	}
	return htmlPath, true, nil
}

// Convert runs the requested format and reports the outcome as a
// ConversionResult. Recovers from internal panics so one bad document
// cannot crash the caller.
func (c *Converter) Convert(ctx context.Context, inputPath, outputPath string, format Format, includeHeaderFooter bool) (result ConversionResult) {
	start := time.Now()
	result = ConversionResult{InputPath: inputPath, Format: format}
	defer func() {
		if r := recover(); r != nil {
			result.OutputPath = ""
			result.Err = fmt.Errorf("internal error: %v", r)
		}
		result.Duration = time.Since(start)
	}()

	switch format {
	case FormatPDF:
		result.OutputPath, result.Degraded, result.Err = c.convertPDF(ctx, inputPath, outputPath, includeHeaderFooter)
	case FormatHTML, "":
		result.Format = FormatHTML
		result.OutputPath, result.Err = c.ConvertToHTML(ctx, inputPath, outputPath, includeHeaderFooter)
	default:
		result.Err = fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}
	return result
}

// BrowserStatus is the outcome of probing one PDF candidate.
type BrowserStatus struct {
	Bin     string
	Version string // First line of --version output
	Err     error
}

// Available reports whether the candidate answered its version check.
func (s BrowserStatus) Available() bool {
	return s.Err == nil
}

// CheckBrowsers runs the version check on every candidate without printing.
func (c *Converter) CheckBrowsers(ctx context.Context) []BrowserStatus {
	statuses := make([]BrowserStatus, 0, len(c.candidates))
	for _, bin := range c.candidates {
		stdout, _, err := c.runner.Run(ctx, c.cfg.versionTimeout, bin, "--version")
		version := strings.TrimSpace(stdout)
		if i := strings.IndexByte(version, '\n'); i >= 0 {
			version = version[:i]
		}
		statuses = append(statuses, BrowserStatus{Bin: bin, Version: version, Err: err})
	}
	return statuses
}

// Candidates returns the ordered browser candidate list in use.
func (c *Converter) Candidates() []string {
	return append([]string(nil), c.candidates...)
}

// absDir returns the absolute directory of path, or "" if it cannot be resolved.
func absDir(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return ""
	}
	return filepath.Dir(abs)
}
