package mdconvert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-mdconvert/internal/fileutil"
)

// Sentinel errors for the go-rod engine.
var (
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrNoBrowserBin   = errors.New("no local browser binary for go-rod")
)

// rodRenderer prints through the DevTools protocol. It never downloads a
// browser: the binary is the first candidate resolvable on this machine.
// The browser is launched lazily and reused until Close.
type rodRenderer struct {
	candidates []string
	timeout    time.Duration

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
}

func newRodRenderer(candidates []string, timeout time.Duration) *rodRenderer {
	return &rodRenderer{candidates: candidates, timeout: timeout}
}

// resolveBin returns the first candidate that is an executable on PATH or disk.
func (r *rodRenderer) resolveBin() (string, error) {
	for _, c := range r.candidates {
		if p, err := exec.LookPath(c); err == nil {
			return p, nil
		}
	}
	return "", ErrNoBrowserBin
}

// ensureBrowser lazily launches and connects to the browser.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	bin, err := r.resolveBin()
	if err != nil {
		return err
	}

	l := launcher.New().Bin(bin).Headless(true)

	// NoSandbox required for CI and containerized environments
	if os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("CI") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.launcher = l
	r.browser = browser
	return nil
}

// render prints htmlPath to pdfPath with zero margins and backgrounds.
func (r *rodRenderer) render(ctx context.Context, htmlPath, pdfPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureBrowser(); err != nil {
		return err
	}

	pageURL, err := fileutil.FileURL(htmlPath)
	if err != nil {
		return err
	}

	page, err := r.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: pageURL})
	if err != nil {
		return fmt.Errorf("creating page: %w", err)
	}
	defer page.Close()

	if err := page.Timeout(r.timeout).WaitLoad(); err != nil {
		return fmt.Errorf("loading page: %w", err)
	}

	zero := 0.0
	reader, err := page.Timeout(r.timeout).PDF(&proto.PagePrintToPDF{
		PrintBackground: true,
		MarginTop:       &zero,
		MarginBottom:    &zero,
		MarginLeft:      &zero,
		MarginRight:     &zero,
	})
	if err != nil {
		return fmt.Errorf("printing page: %w", err)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("reading PDF stream: %w", err)
	}

	return fileutil.WriteFileAtomic(pdfPath, data)
}

// Close releases browser resources. Safe to call more than once.
func (r *rodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		r.launcher.Kill()
		r.launcher = nil
	}
	return err
}
