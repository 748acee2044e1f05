package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/alnah/go-mdconvert/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // MDCONVERT_CONFIG: config file name or path
	OutputDir  string        // MDCONVERT_OUTPUT_DIR: default output directory
	Format     string        // MDCONVERT_FORMAT: html or pdf
	Pattern    string        // MDCONVERT_PATTERN: batch glob
	BrowserBin string        // MDCONVERT_BROWSER_BIN: read by the candidate scan
	Timeout    time.Duration // MDCONVERT_TIMEOUT: per-candidate render timeout
}

// knownEnvVars lists valid MDCONVERT_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MDCONVERT_CONFIG":      true,
	"MDCONVERT_OUTPUT_DIR":  true,
	"MDCONVERT_FORMAT":      true,
	"MDCONVERT_PATTERN":     true,
	"MDCONVERT_BROWSER_BIN": true,
	"MDCONVERT_TIMEOUT":     true,
	"MDCONVERT_CONTAINER":   true,
}

// loadEnvConfig reads configuration from environment variables.
// An unparsable or non-positive MDCONVERT_TIMEOUT is ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("MDCONVERT_CONFIG"),
		OutputDir:  os.Getenv("MDCONVERT_OUTPUT_DIR"),
		Format:     os.Getenv("MDCONVERT_FORMAT"),
		Pattern:    os.Getenv("MDCONVERT_PATTERN"),
		BrowserBin: os.Getenv("MDCONVERT_BROWSER_BIN"),
	}

	if timeout := os.Getenv("MDCONVERT_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MDCONVERT_* variables.
// Helps catch typos like MDCONVERT_OUTPUTDIR instead of MDCONVERT_OUTPUT_DIR.
func warnUnknownEnvVars(w io.Writer) {
	var unknown []string
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "MDCONVERT_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				unknown = append(unknown, name)
			}
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
	}
}

// applyEnvConfig applies environment values over the config file.
// CLI flags are applied afterwards by mergeFlags, giving:
// CLI flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.OutputDir != "" {
		cfg.Output.Dir = env.OutputDir
	}
	if env.Format != "" {
		cfg.Output.Format = env.Format
	}
	if env.Pattern != "" {
		cfg.Input.Pattern = env.Pattern
	}
	if env.Timeout > 0 {
		cfg.PDF.RenderTimeout = env.Timeout.String()
	}
}
