package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common   commonFlags
	output   string
	format   string
	pattern  string
	noHeader bool
	browsers []string
	engine   string
	noOpen   bool
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	common commonFlags
	json   bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show timing and diagnostic logs")
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	f := &convertFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output file (single input) or directory (batch)")
	fs.StringVarP(&f.format, "format", "f", "", "output format: html, pdf")
	fs.StringVar(&f.pattern, "pattern", "", "file name glob for directory input (default *.md)")
	fs.BoolVar(&f.noHeader, "no-header", false, "omit the header and footer blocks")
	fs.StringArrayVar(&f.browsers, "browser", nil, "extra browser binary to try first (repeatable)")
	fs.StringVar(&f.engine, "engine", "", "PDF engine: exec, rod, auto")
	fs.BoolVar(&f.noOpen, "no-open", false, "do not open the HTML when no PDF could be printed")
	addCommonFlags(fs, &f.common)

	fs.Usage = func() {}
	fs.SetOutput(io.Discard) // parse errors are reported by the caller

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string) (*doctorFlags, error) {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	f := &doctorFlags{}

	fs.BoolVar(&f.json, "json", false, "print the report as JSON")
	addCommonFlags(fs, &f.common)

	fs.Usage = func() {}
	fs.SetOutput(io.Discard) // parse errors are reported by the caller

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}
