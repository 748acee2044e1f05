package mdconvert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/launcher"
	"go.uber.org/zap"

	"github.com/alnah/go-mdconvert/internal/fileutil"
)

// Default subprocess limits.
const (
	DefaultVersionTimeout = 5 * time.Second
	DefaultRenderTimeout  = 30 * time.Second
)

// Environment variables naming an extra browser candidate.
const (
	EnvBrowserBin    = "MDCONVERT_BROWSER_BIN"
	EnvRodBrowserBin = "ROD_BROWSER_BIN"
)

// fixedCandidates are tried after configured and environment browsers.
var fixedCandidates = []string{
	"chrome",
	"google-chrome",
	"chromium",
	"chromium-browser",
	`C:\Program Files\Google\Chrome\Application\chrome.exe`,
	`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
	"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
}

// lookPath finds the system browser go-rod would use. Replaced in tests.
var lookPath = launcher.LookPath

// PDFRenderer prints an HTML file to a PDF file, reporting success.
type PDFRenderer interface {
	RenderToPDF(ctx context.Context, htmlPath, pdfPath string) bool
}

// BrowserCandidates returns the ordered, deduplicated list of browser
// binaries to try: configured ones, then the environment overrides, then
// the well-known names and install paths, then go-rod's system lookup.
func BrowserCandidates(configured []string) []string {
	var list []string
	list = append(list, configured...)
	for _, env := range []string{EnvBrowserBin, EnvRodBrowserBin} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			list = append(list, v)
		}
	}
	list = append(list, fixedCandidates...)
	if p, ok := lookPath(); ok {
		list = append(list, p)
	}
	return dedupe(list)
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// attempt is one fallible way of producing the PDF.
type attempt struct {
	name string
	run  func(ctx context.Context, htmlPath, pdfPath string) error
}

// firstSuccess runs attempts in order and stops at the first that succeeds.
// Failures are logged at debug level.
func firstSuccess(ctx context.Context, logger *zap.Logger, attempts []attempt, htmlPath, pdfPath string) bool {
	for _, a := range attempts {
		if ctx.Err() != nil {
			return false
		}
		start := time.Now()
		err := a.run(ctx, htmlPath, pdfPath)
		if err == nil {
			logger.Debug("pdf rendered",
				zap.String("candidate", a.name),
				zap.String("output", pdfPath),
				zap.Duration("duration", time.Since(start)))
			return true
		}
		logger.Debug("pdf candidate failed",
			zap.String("candidate", a.name),
			zap.Error(err))
	}
	return false
}

// browserRenderer implements PDFRenderer over the candidate list and,
// depending on the engine, the go-rod renderer.
type browserRenderer struct {
	runner         CommandRunner
	candidates     []string
	versionTimeout time.Duration
	renderTimeout  time.Duration
	engine         Engine
	rod            *rodRenderer
	logger         *zap.Logger
}

// RenderToPDF tries each attempt until one prints pdfPath.
func (b *browserRenderer) RenderToPDF(ctx context.Context, htmlPath, pdfPath string) bool {
	return firstSuccess(ctx, b.logger, b.attempts(), htmlPath, pdfPath)
}

func (b *browserRenderer) attempts() []attempt {
	var list []attempt
	if b.engine != EngineRod {
		for _, bin := range b.candidates {
			list = append(list, b.execAttempt(bin))
		}
	}
	if b.engine != EngineExec && b.rod != nil {
		list = append(list, attempt{name: "go-rod", run: b.rod.render})
	}
	return list
}

// execAttempt checks bin with --version, then prints through its headless mode.
func (b *browserRenderer) execAttempt(bin string) attempt {
	return attempt{
		name: bin,
		run: func(ctx context.Context, htmlPath, pdfPath string) error {
			if _, _, err := b.runner.Run(ctx, b.versionTimeout, bin, "--version"); err != nil {
				return fmt.Errorf("version check: %w", err)
			}

			absPDF, err := filepath.Abs(pdfPath)
			if err != nil {
				return err
			}
			pageURL, err := fileutil.FileURL(htmlPath)
			if err != nil {
				return err
			}

			_, stderr, err := b.runner.Run(ctx, b.renderTimeout, bin, printArgs(absPDF, pageURL)...)
			if err != nil {
				return fmt.Errorf("print: %w%s", err, stderrSuffix(stderr))
			}
			return nil
		},
	}
}

// printArgs builds the headless print invocation: no browser header or
// footer, no margins.
func printArgs(absPDF, pageURL string) []string {
	return []string{
		"--headless",
		"--disable-gpu",
		"--print-to-pdf=" + absPDF,
		"--print-to-pdf-no-header",
		"--no-pdf-header-footer",
		"--no-margins",
		pageURL,
	}
}

// stderrSuffix returns the last line of stderr for error context.
func stderrSuffix(stderr string) string {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return ""
	}
	if i := strings.LastIndexByte(stderr, '\n'); i >= 0 {
		stderr = stderr[i+1:]
	}
	const maxLen = 200
	if len(stderr) > maxLen {
		stderr = stderr[:maxLen]
	}
	return " (" + stderr + ")"
}

// Compile-time interface check.
var _ PDFRenderer = (*browserRenderer)(nil)
