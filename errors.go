package mdconvert

import (
	"errors"

	"github.com/alnah/go-mdconvert/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrInputNotFound          = errors.New("input file not found")
	ErrInputDirectoryNotFound = errors.New("input directory not found")
	ErrDependencyMissing      = errors.New("markdown engine unavailable")
	ErrInvalidInput           = errors.New("input is not a text document")
	ErrInvalidFormat          = errors.New("invalid output format")
	ErrInvalidEngine          = errors.New("invalid PDF engine")
	ErrInvalidPattern         = errors.New("invalid file pattern")
	ErrWriteOutput            = errors.New("failed to write output")
	ErrInvalidAssetPath       = errors.New("invalid asset path")
	ErrInvalidDateFormat      = errors.New("invalid date format")
	ErrInvalidHighlightStyle  = errors.New("unknown highlight style")

	// ErrRenderFailure marks a PDF print that no candidate completed.
	// It is logged, never returned: the conversion degrades to HTML.
	ErrRenderFailure = errors.New("PDF rendering failed")

	// ErrHTMLConversion is returned when goldmark fails on a document.
	ErrHTMLConversion = pipeline.ErrHTMLConversion
)
