package mdconvert

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/alnah/go-mdconvert/internal/fileutil"
)

// MaxInputSize bounds the size of a source document.
const MaxInputSize = 32 << 20

// ReadDocument loads a Markdown source, rejecting directories, binary
// content, and text whose encoding cannot be decoded to UTF-8.
func ReadDocument(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrInputNotFound, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInputNotFound, path)
	}
	if info.Size() > MaxInputSize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrInvalidInput, path, MaxInputSize)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	content, err := decodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %v", ErrInvalidInput, path, err)
	}

	return &Document{
		Path:    path,
		Content: content,
		Title:   TitleFromPath(path),
	}, nil
}

// decodeDocument returns data as UTF-8 text. UTF-8 without NUL bytes is
// accepted as is, whatever its leading bytes look like ("%PDF-1.4 notes").
// Anything else must sniff as text before a legacy charset is tried.
func decodeDocument(data []byte) (string, error) {
	if utf8.Valid(data) && !bytes.ContainsRune(data, 0) {
		return string(data), nil
	}
	if !isText(data) {
		return "", fmt.Errorf("is %s", mimetype.Detect(data).String())
	}
	content, err := decodeText(data)
	if err != nil {
		return "", fmt.Errorf("is undecodable: %v", err)
	}
	return content, nil
}

// isText reports whether data sniffs as a text/plain descendant.
func isText(data []byte) bool {
	if len(data) == 0 {
		return true
	}
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

// decodeText returns data as UTF-8. Valid UTF-8 passes through; anything
// else is decoded with the charset chardet ranks highest that x/text knows.
func decodeText(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}

	results, err := chardet.NewTextDetector().DetectAll(data)
	if err != nil {
		return "", fmt.Errorf("detecting charset: %w", err)
	}
	for _, r := range results {
		if strings.EqualFold(r.Charset, "UTF-8") {
			continue // already known invalid
		}
		enc, err := lookupEncoding(r.Charset)
		if err != nil {
			continue
		}
		decoded, err := enc.NewDecoder().Bytes(data)
		if err != nil || !utf8.Valid(decoded) {
			continue
		}
		return string(decoded), nil
	}
	return "", fmt.Errorf("no decodable charset among %d candidates", len(results))
}

// lookupEncoding resolves a chardet charset name through the WHATWG index.
// chardet writes some names with an extra hyphen (GB-18030).
func lookupEncoding(name string) (encoding.Encoding, error) {
	if enc, err := htmlindex.Get(name); err == nil {
		return enc, nil
	}
	return htmlindex.Get(strings.ReplaceAll(name, "-", ""))
}

// TitleFromPath derives a display title from a file name: the stem with
// underscores replaced by spaces, then title-cased so that each run of
// letters starts upper-case and continues lower-case ("my_notes" becomes
// "My Notes", "3rd_draft" becomes "3Rd Draft").
func TitleFromPath(path string) string {
	return titleCase(strings.ReplaceAll(fileutil.Stem(path), "_", " "))
}

func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevCased := false
	for _, r := range s {
		if isCased(r) {
			if prevCased {
				r = unicode.ToLower(r)
			} else {
				r = unicode.ToTitle(r)
			}
			prevCased = true
		} else {
			prevCased = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isCased(r rune) bool {
	return unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r)
}
