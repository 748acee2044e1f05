package config

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mdconvert/internal/fileutil"
	"github.com/alnah/go-mdconvert/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength       = 4096
	MaxPatternLength    = 256
	MaxDateFormatLength = 50
	MaxStyleNameLength  = 64
	MaxBrowsers         = 16
)

// Defaults applied by DefaultConfig and by the accessors when a field is empty.
const (
	DefaultPattern        = "*.md"
	DefaultFormat         = "html"
	DefaultEngine         = "exec"
	DefaultVersionTimeout = 5 * time.Second
	DefaultRenderTimeout  = 30 * time.Second
	DefaultDateFormat     = "YYYY-MM-DD HH:mm"
	DefaultHighlightStyle = "github"
)

// configDirName is the directory under os.UserConfigDir searched for named configs.
const configDirName = "go-mdconvert"

// Config holds all configuration for document conversion.
type Config struct {
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	Header   HeaderConfig   `yaml:"header"`
	PDF      PDFConfig      `yaml:"pdf"`
	Markdown MarkdownConfig `yaml:"markdown"`
	Assets   AssetsConfig   `yaml:"assets"`
}

// InputConfig defines input discovery options.
type InputConfig struct {
	Pattern string `yaml:"pattern"` // Glob for batch mode (default: *.md)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	Dir    string `yaml:"dir"`    // Empty = next to the source
	Format string `yaml:"format"` // "html" or "pdf"
}

// HeaderConfig defines the header/footer blocks around the document body.
type HeaderConfig struct {
	Enabled    *bool  `yaml:"enabled"`    // nil = enabled
	DateFormat string `yaml:"dateFormat"` // Token format for "Generated on"
}

// PDFConfig defines the browser print pipeline.
type PDFConfig struct {
	Engine         string   `yaml:"engine"`         // "exec", "rod", "auto"
	Browsers       []string `yaml:"browsers"`       // Extra candidates tried first
	VersionTimeout string   `yaml:"versionTimeout"` // e.g. "5s"
	RenderTimeout  string   `yaml:"renderTimeout"`  // e.g. "30s"
	OpenFallback   *bool    `yaml:"openFallback"`   // nil = open HTML when PDF fails
}

// MarkdownConfig defines Markdown engine options.
type MarkdownConfig struct {
	HighlightStyle string `yaml:"highlightStyle"` // chroma style name
	UnsafeHTML     bool   `yaml:"unsafeHTML"`     // pass raw HTML through
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Input:    InputConfig{Pattern: DefaultPattern},
		Output:   OutputConfig{Format: DefaultFormat},
		Header:   HeaderConfig{DateFormat: DefaultDateFormat},
		PDF:      PDFConfig{Engine: DefaultEngine},
		Markdown: MarkdownConfig{HighlightStyle: DefaultHighlightStyle},
	}
}

// HeaderEnabled reports whether header/footer blocks are included.
func (c *Config) HeaderEnabled() bool {
	return c.Header.Enabled == nil || *c.Header.Enabled
}

// OpenFallback reports whether the HTML is opened when PDF rendering fails.
func (c *Config) OpenFallback() bool {
	return c.PDF.OpenFallback == nil || *c.PDF.OpenFallback
}

// VersionTimeout returns the version-check timeout. Validate guarantees the
// string parses; an empty value yields the default.
func (c *Config) VersionTimeout() time.Duration {
	return durationOr(c.PDF.VersionTimeout, DefaultVersionTimeout)
}

// RenderTimeout returns the print-to-PDF timeout.
func (c *Config) RenderTimeout() time.Duration {
	return durationOr(c.PDF.RenderTimeout, DefaultRenderTimeout)
}

// Pattern returns the batch glob, defaulting to *.md.
func (c *Config) Pattern() string {
	if c.Input.Pattern == "" {
		return DefaultPattern
	}
	return c.Input.Pattern
}

func durationOr(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// Validate checks values and field lengths.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("input.pattern", c.Input.Pattern, MaxPatternLength); err != nil {
		return err
	}
	if c.Input.Pattern != "" {
		if _, err := path.Match(c.Input.Pattern, ""); err != nil {
			return fmt.Errorf("%w: input.pattern %q: %v", ErrInvalidValue, c.Input.Pattern, err)
		}
	}

	if err := validateFieldLength("output.dir", c.Output.Dir, MaxPathLength); err != nil {
		return err
	}
	switch strings.ToLower(c.Output.Format) {
	case "", "html", "pdf":
	default:
		return fmt.Errorf("%w: output.format %q (must be html or pdf)", ErrInvalidValue, c.Output.Format)
	}

	if err := validateFieldLength("header.dateFormat", c.Header.DateFormat, MaxDateFormatLength); err != nil {
		return err
	}

	switch strings.ToLower(c.PDF.Engine) {
	case "", "exec", "rod", "auto":
	default:
		return fmt.Errorf("%w: pdf.engine %q (must be exec, rod, or auto)", ErrInvalidValue, c.PDF.Engine)
	}
	if len(c.PDF.Browsers) > MaxBrowsers {
		return fmt.Errorf("%w: pdf.browsers has %d entries (max %d)", ErrInvalidValue, len(c.PDF.Browsers), MaxBrowsers)
	}
	for i, b := range c.PDF.Browsers {
		if err := validateFieldLength(fmt.Sprintf("pdf.browsers[%d]", i), b, MaxPathLength); err != nil {
			return err
		}
		if strings.TrimSpace(b) == "" {
			return fmt.Errorf("%w: pdf.browsers[%d] is empty", ErrInvalidValue, i)
		}
	}
	if err := validateDuration("pdf.versionTimeout", c.PDF.VersionTimeout); err != nil {
		return err
	}
	if err := validateDuration("pdf.renderTimeout", c.PDF.RenderTimeout); err != nil {
		return err
	}

	if err := validateFieldLength("markdown.highlightStyle", c.Markdown.HighlightStyle, MaxStyleNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}

	return nil
}

func validateDuration(fieldName, value string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%w: %s %q: %v", ErrInvalidValue, fieldName, value, err)
	}
	if d <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidValue, fieldName, value)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields absent from the file take their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := yamlutil.DecodeFile(configPath, cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return cfg, nil
}

// applyDefaults fills empty fields with DefaultConfig values.
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Input.Pattern == "" {
		c.Input.Pattern = d.Input.Pattern
	}
	if c.Output.Format == "" {
		c.Output.Format = d.Output.Format
	}
	c.Output.Format = strings.ToLower(c.Output.Format)
	if c.Header.DateFormat == "" {
		c.Header.DateFormat = d.Header.DateFormat
	}
	if c.PDF.Engine == "" {
		c.PDF.Engine = d.PDF.Engine
	}
	c.PDF.Engine = strings.ToLower(c.PDF.Engine)
	if c.Markdown.HighlightStyle == "" {
		c.Markdown.HighlightStyle = d.Markdown.HighlightStyle
	}
}

// SearchPaths lists the files LoadConfig tries for a config name, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, configDirName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name in standard locations.
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
