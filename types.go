package mdconvert

import (
	"fmt"
	"strings"
	"time"
)

// Format is a conversion target.
type Format string

// Supported formats.
const (
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
)

// ParseFormat parses a format name (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatHTML:
		return FormatHTML, nil
	case FormatPDF:
		return FormatPDF, nil
	}
	return "", fmt.Errorf("%w: %q (must be html or pdf)", ErrInvalidFormat, s)
}

// Extension returns the file extension for the format, with the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// Engine selects how PDFs are printed.
type Engine string

// Supported PDF engines.
const (
	EngineExec Engine = "exec" // browser subprocess scan
	EngineRod  Engine = "rod"  // DevTools protocol via go-rod only
	EngineAuto Engine = "auto" // subprocess scan, then go-rod
)

// ParseEngine parses an engine name (case-insensitive).
func ParseEngine(s string) (Engine, error) {
	switch Engine(strings.ToLower(strings.TrimSpace(s))) {
	case EngineExec:
		return EngineExec, nil
	case EngineRod:
		return EngineRod, nil
	case EngineAuto:
		return EngineAuto, nil
	}
	return "", fmt.Errorf("%w: %q (must be exec, rod, or auto)", ErrInvalidEngine, s)
}

// Document is a source file read into memory.
type Document struct {
	Path    string // Source path as given
	Content string // UTF-8 Markdown
	Title   string // Derived from the file name
}

// ConversionResult describes one converted input.
type ConversionResult struct {
	InputPath  string
	OutputPath string // Same stem as InputPath
	Format     Format // Requested format
	Degraded   bool   // PDF requested, HTML returned
	Err        error
	Duration   time.Duration
}

// BatchJob describes a directory conversion.
type BatchJob struct {
	InputDir            string
	OutputDir           string // Empty = InputDir
	Pattern             string // Glob matched against file names; empty = *.md
	Format              Format // Empty = FormatHTML
	IncludeHeaderFooter bool
	Observer            func(BatchEvent) // Optional; called synchronously
}

// DefaultPattern is the batch glob used when BatchJob.Pattern is empty.
const DefaultPattern = "*.md"

// EventKind identifies a batch progress event.
type EventKind int

// Batch event kinds.
const (
	EventStart EventKind = iota
	EventFileDone
	EventFileFailed
	EventFinish
)

// String returns the event name.
func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventFileDone:
		return "done"
	case EventFileFailed:
		return "failed"
	case EventFinish:
		return "finish"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// BatchEvent reports batch progress to an observer.
type BatchEvent struct {
	Kind      EventKind
	Index     int // 0-based position of the file; -1 for start/finish
	Total     int // Number of matched files
	InputPath string
	Result    ConversionResult // Set for EventFileDone and EventFileFailed
	Succeeded int              // Running count
	Failed    int              // Running count
}
