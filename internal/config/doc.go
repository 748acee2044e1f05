// Package config loads and validates YAML configuration for mdconvert.
//
// A config is located by path, or by name in the current directory and
// then in the user config directory (go-mdconvert/<name>.yaml|.yml).
// Decoding is strict: unknown keys are rejected.
//
// Example:
//
//	input:
//	  pattern: "*.md"
//	output:
//	  dir: ./site
//	  format: pdf
//	header:
//	  enabled: true
//	  dateFormat: "YYYY-MM-DD HH:mm"
//	pdf:
//	  engine: auto
//	  browsers: [/opt/chrome/chrome]
//	  versionTimeout: 5s
//	  renderTimeout: 30s
//	  openFallback: false
//	markdown:
//	  highlightStyle: github
//	assets:
//	  basePath: ./theme
package config
