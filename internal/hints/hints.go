// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mdconvert/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserNotFound returns hints for a PDF request that fell back to HTML
// because no browser could print it.
func ForBrowserNotFound() string {
	var hints []string

	if os.Getenv("MDCONVERT_BROWSER_BIN") == "" && os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "install Chrome or Chromium, or set MDCONVERT_BROWSER_BIN")
	}

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}

	if len(hints) == 0 {
		hints = append(hints, "run 'mdconvert doctor' to see which candidates were tried")
	}

	return formatHints(hints)
}

// ForDependencyMissing returns hints when the Markdown engine self-check fails.
func ForDependencyMissing() string {
	return format("run 'mdconvert doctor' for details; reinstall with 'go install'")
}

// ForTimeout returns a hint about increasing timeout for slow renders.
func ForTimeout() string {
	return format("for large documents, set MDCONVERT_TIMEOUT (e.g. 2m)")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	marker := string(filepath.Separator) + "go-mdconvert" + string(filepath.Separator)
	for _, p := range searchedPaths {
		if strings.Contains(p, marker) || strings.Contains(p, "/go-mdconvert/") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForInputNotFound returns hints when the input path does not exist.
func ForInputNotFound(isDir bool) string {
	if isDir {
		return format("check the directory path; use --pattern to change which files match")
	}
	return format("check the file path and extension (.md, .markdown)")
}

// ForHighlightStyle lists the style names a config may use.
func ForHighlightStyle(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("valid markdown.highlightStyle values: " + strings.Join(available, ", "))
}

// ForInvalidInput returns hints for sources that are not Markdown text.
func ForInvalidInput() string {
	return format("the file looks binary; only UTF-8 or legacy-encoded text is accepted")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
