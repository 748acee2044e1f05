package main

import (
	"errors"
	"os"

	"github.com/alnah/go-mdconvert"
	"github.com/alnah/go-mdconvert/internal/config"
)

// Exit codes for the mdconvert CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess    = 0 // Successful conversion, including a PDF degraded to HTML
	ExitGeneral    = 1 // General error or at least one failed batch file
	ExitUsage      = 2 // Invalid flags, config, or validation
	ExitIO         = 3 // File not found, permission denied, write failure
	ExitDependency = 4 // Markdown engine unavailable
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Dependency errors (exit 4)
	if errors.Is(err, mdconvert.ErrDependencyMissing) {
		return ExitDependency
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, mdconvert.ErrInvalidFormat) ||
		errors.Is(err, mdconvert.ErrInvalidEngine) ||
		errors.Is(err, mdconvert.ErrInvalidPattern) ||
		errors.Is(err, mdconvert.ErrInvalidAssetPath) ||
		errors.Is(err, mdconvert.ErrInvalidDateFormat) ||
		errors.Is(err, mdconvert.ErrInvalidHighlightStyle) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, mdconvert.ErrInputNotFound) ||
		errors.Is(err, mdconvert.ErrInputDirectoryNotFound) ||
		errors.Is(err, mdconvert.ErrWriteOutput) {
		return ExitIO
	}

	return ExitGeneral
}
