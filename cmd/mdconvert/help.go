package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdconvert <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert Markdown files to HTML or PDF")
	fmt.Fprintln(w, "  doctor     Check the Markdown engine and PDF browsers")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mdconvert help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdconvert convert <file|dir> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert a Markdown file, or every matching file in a directory.")
	fmt.Fprintln(w, "A PDF that no browser can print is kept as HTML (exit 0, with a warning).")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (single input) or directory (batch)")
	fmt.Fprintln(w, "  -f, --format <s>          Output format: html, pdf (default: html)")
	fmt.Fprintln(w, "      --pattern <glob>      File name glob for directories (default: *.md)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "      --no-header           Omit the header and footer blocks")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "PDF:")
	fmt.Fprintln(w, "      --browser <path>      Browser binary to try first (repeatable)")
	fmt.Fprintln(w, "      --engine <s>          exec, rod, auto (default: exec)")
	fmt.Fprintln(w, "      --no-open             Do not open the HTML when PDF fails")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show timing and diagnostic logs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MDCONVERT_CONFIG, MDCONVERT_OUTPUT_DIR, MDCONVERT_FORMAT,")
	fmt.Fprintln(w, "  MDCONVERT_PATTERN, MDCONVERT_BROWSER_BIN, MDCONVERT_TIMEOUT")
	fmt.Fprintln(w, "  Precedence: flags > environment > config file > defaults")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdconvert doctor [--json] [-c config]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run the Markdown engine self-check and check each PDF browser candidate.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mdconvert version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mdconvert help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
