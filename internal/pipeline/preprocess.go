package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// utf8BOM is stripped from the start of sources saved by some editors.
const utf8BOM = "\ufeff"

var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// More than two consecutive blank lines
	excessBlankLines = regexp.MustCompile(`\n{4,}`)
)

// Preprocessor defines the contract for Markdown preprocessing.
type Preprocessor interface {
	Preprocess(ctx context.Context, content string) string
}

// SourcePreprocessor normalizes Markdown source before conversion.
type SourcePreprocessor struct{}

// Preprocess strips a leading BOM, normalizes line endings to \n and
// limits consecutive blank lines to two.
func (p *SourcePreprocessor) Preprocess(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}

	content = strings.TrimPrefix(content, utf8BOM)
	content = normalizeLineEndings(content)
	content = compressBlankLines(content)
	return content
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// compressBlankLines limits consecutive blank lines to 2 maximum.
func compressBlankLines(content string) string {
	return excessBlankLines.ReplaceAllString(content, "\n\n\n")
}
