package mdconvert

import (
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-mdconvert/internal/pipeline"
)

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds the settings options write before NewConverter
// builds the pipeline.
type converterConfig struct {
	logger         *zap.Logger
	versionTimeout time.Duration
	renderTimeout  time.Duration
	browsers       []string
	engine         Engine
	openFallback   bool
	highlightStyle string
	unsafeHTML     bool
	dateFormat     string
	assetPath      string
	clock          func() time.Time
}

func defaultConfig() converterConfig {
	return converterConfig{
		logger:         zap.NewNop(),
		versionTimeout: DefaultVersionTimeout,
		renderTimeout:  DefaultRenderTimeout,
		engine:         EngineExec,
		openFallback:   true,
		highlightStyle: pipeline.DefaultHighlightStyle,
		dateFormat:     DefaultDateFormat,
		clock:          time.Now,
	}
}

// DefaultDateFormat is the "Generated on" timestamp format.
const DefaultDateFormat = "YYYY-MM-DD HH:mm"

// WithLogger sets the structured logger. A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.cfg.logger = l
		}
	}
}

// WithVersionTimeout sets the browser --version timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithVersionTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mdconvert: WithVersionTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.versionTimeout = d
	}
}

// WithRenderTimeout sets the print-to-PDF timeout per candidate.
// Panics if d <= 0.
func WithRenderTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mdconvert: WithRenderTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.renderTimeout = d
	}
}

// WithBrowsers prepends browser binaries to the candidate list.
func WithBrowsers(bins ...string) Option {
	return func(c *Converter) {
		c.cfg.browsers = append(c.cfg.browsers, bins...)
	}
}

// WithEngine selects the PDF engine. Invalid values fail NewConverter.
func WithEngine(e Engine) Option {
	return func(c *Converter) {
		c.cfg.engine = e
	}
}

// WithOpenFallback controls whether the HTML is opened when no PDF could be printed.
func WithOpenFallback(open bool) Option {
	return func(c *Converter) {
		c.cfg.openFallback = open
	}
}

// WithHighlightStyle sets the chroma style for code blocks. Empty selects
// the default (github); unknown names fail NewConverter.
func WithHighlightStyle(name string) Option {
	return func(c *Converter) {
		c.cfg.highlightStyle = name
	}
}

// WithUnsafeHTML lets raw HTML in the Markdown pass through.
func WithUnsafeHTML(unsafe bool) Option {
	return func(c *Converter) {
		c.cfg.unsafeHTML = unsafe
	}
}

// WithDateFormat sets the "Generated on" format (tokens or a preset).
func WithDateFormat(format string) Option {
	return func(c *Converter) {
		c.cfg.dateFormat = format
	}
}

// WithAssetPath loads styles and templates from dir, falling back to the
// embedded ones for anything it lacks.
func WithAssetPath(dir string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = dir
	}
}

// WithClock sets the time source for the "Generated on" line.
func WithClock(now func() time.Time) Option {
	return func(c *Converter) {
		if now != nil {
			c.cfg.clock = now
		}
	}
}

// withHTMLConverter injects the Markdown engine (for testing).
func withHTMLConverter(hc pipeline.HTMLConverter) Option {
	return func(c *Converter) {
		c.htmlConverter = hc
	}
}

// WithCommandRunner replaces how browser and opener subprocesses are run.
func WithCommandRunner(r CommandRunner) Option {
	return func(c *Converter) {
		if r != nil {
			c.runner = r
		}
	}
}

// withPDFRenderer injects the PDF stage (for testing).
func withPDFRenderer(r PDFRenderer) Option {
	return func(c *Converter) {
		c.pdfRenderer = r
	}
}

// WithOpener replaces how the HTML fallback is shown to the user.
func WithOpener(o Opener) Option {
	return func(c *Converter) {
		if o != nil {
			c.opener = o
		}
	}
}
