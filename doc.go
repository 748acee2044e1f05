// Package mdconvert converts Markdown files to standalone HTML pages and,
// when a Chrome-family browser is installed, to PDF.
//
// # Quick Start
//
//	conv, err := mdconvert.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	out, err := conv.ConvertToHTML(ctx, "notes.md", "", true)
//
// An empty output path writes next to the source with the target extension.
// The third argument controls the header (title, timestamp, print link) and
// footer (rule, attribution) blocks around the document body.
//
// # PDF Output
//
// ConvertToPDF always writes the HTML page first, then asks a browser to
// print it. Candidates are tried in order until one succeeds:
//
//  1. browsers given with WithBrowsers
//  2. MDCONVERT_BROWSER_BIN, then ROD_BROWSER_BIN
//  3. chrome, google-chrome, chromium, chromium-browser and the standard
//     Windows and macOS install paths
//  4. the browser go-rod's launcher finds on the system
//
// Each candidate must answer "--version" within the version timeout before it
// is asked to print. When every candidate fails, ConvertToPDF returns the
// HTML path with a nil error, logs a warning, and opens the page in the
// default browser so it can be printed by hand (see WithOpenFallback).
//
// # Batch Conversion
//
//	results, err := conv.BatchConvert(ctx, mdconvert.BatchJob{
//	    InputDir:  "docs",
//	    OutputDir: "site",
//	    Format:    mdconvert.FormatHTML,
//	})
//
// Files are converted one at a time in name order. A file that fails is
// logged and reported through BatchJob.Observer; it never aborts the batch.
//
// # Configuration
//
//	conv, err := mdconvert.NewConverter(
//	    mdconvert.WithLogger(logger),
//	    mdconvert.WithRenderTimeout(time.Minute),
//	    mdconvert.WithEngine(mdconvert.EngineAuto),
//	    mdconvert.WithHighlightStyle("monokai"),
//	)
package mdconvert
