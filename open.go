package mdconvert

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/alnah/go-mdconvert/internal/fileutil"
)

// openTimeout bounds how long the system handler may take to return.
const openTimeout = 10 * time.Second

// Opener shows a file to the user in their default application.
type Opener interface {
	Open(ctx context.Context, path string) error
}

// systemOpener hands the file to the platform's URL handler. If that fails,
// go-rod's launcher.Open is used as a second attempt.
type systemOpener struct {
	runner   CommandRunner
	goos     string
	fallback func(url string)
}

func newSystemOpener(runner CommandRunner) *systemOpener {
	return &systemOpener{
		runner:   runner,
		goos:     runtime.GOOS,
		fallback: launcher.Open,
	}
}

// Open opens path with the desktop's default handler.
func (o *systemOpener) Open(ctx context.Context, path string) error {
	u, err := fileutil.FileURL(path)
	if err != nil {
		return err
	}

	name, args := openCommand(o.goos, u)
	if _, stderr, err := o.runner.Run(ctx, openTimeout, name, args...); err != nil {
		if o.fallback == nil {
			return fmt.Errorf("opening %s: %w%s", path, err, stderrSuffix(stderr))
		}
		o.fallback(u)
	}
	return nil
}

// openCommand returns the handler invocation for goos.
func openCommand(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}

// Compile-time interface check.
var _ Opener = (*systemOpener)(nil)
