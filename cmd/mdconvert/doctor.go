package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-mdconvert"
	"github.com/alnah/go-mdconvert/internal/hints"
)

// doctorResult is the doctor report, printed as text or JSON.
type doctorResult struct {
	Status   string        `json:"status"` // "ready", "warnings", "errors"
	Engine   engineInfo    `json:"engine"`
	Browsers []browserInfo `json:"browsers"`
	Env      envInfo       `json:"environment"`
	System   systemInfo    `json:"system"`
	Warnings []string      `json:"warnings,omitempty"`
	Errors   []string      `json:"errors,omitempty"`
}

// engineInfo holds the Markdown engine self-check result.
type engineInfo struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// browserInfo holds one PDF candidate's version check result.
type browserInfo struct {
	Bin       string `json:"bin"`
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Error     string `json:"error,omitempty"`
}

// envInfo describes where the CLI runs.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"browser_bin"`
}

// systemInfo holds filesystem checks.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// runDoctorCmd runs the checks and prints the report.
// Exit codes: 0 = OK (including warnings), 1 = errors found, 2 = bad flags or config.
func runDoctorCmd(args []string, env *Environment) int {
	flags, err := parseDoctorFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printDoctorUsage(env.Stdout)
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n\n", err)
		printDoctorUsage(env.Stderr)
		return ExitUsage
	}

	cfg, err := loadConfig(flags.common.config, os.Getenv("MDCONVERT_CONFIG"))
	if err != nil {
		printError(env.Stderr, err, flags.common.config)
		return exitCodeFor(err)
	}

	var opts []mdconvert.Option
	opts = append(opts, mdconvert.WithBrowsers(cfg.PDF.Browsers...), mdconvert.WithVersionTimeout(cfg.VersionTimeout()))
	if env.Runner != nil {
		opts = append(opts, mdconvert.WithCommandRunner(env.Runner))
	}

	result := runDoctor(context.Background(), opts)

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, opts []mdconvert.Option) *doctorResult {
	result := &doctorResult{Env: detectEnvironment()}

	checkConverter(ctx, result, opts)
	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1 for --engine rod")
	}
	result.System.TempWritable = tempWritable()
	if !result.System.TempWritable {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", filepath.Clean(os.TempDir())))
	}

	switch {
	case len(result.Errors) > 0:
		result.Status = "errors"
	case len(result.Warnings) > 0:
		result.Status = "warnings"
	default:
		result.Status = "ready"
	}
	return result
}

// checkConverter runs the engine self-check and checks every browser candidate.
func checkConverter(ctx context.Context, result *doctorResult, opts []mdconvert.Option) {
	conv, err := mdconvert.NewConverter(opts...)
	if err != nil {
		result.Engine.Error = err.Error()
		result.Errors = append(result.Errors, fmt.Sprintf("Converter unavailable: %v", err))
		return
	}
	defer conv.Close()
	result.Engine.OK = true

	var available, timedOut bool
	for _, s := range conv.CheckBrowsers(ctx) {
		info := browserInfo{Bin: s.Bin, Available: s.Available(), Version: s.Version}
		if s.Err != nil {
			info.Error = s.Err.Error()
			timedOut = timedOut || errors.Is(s.Err, mdconvert.ErrCommandTimeout)
		}
		available = available || info.Available
		result.Browsers = append(result.Browsers, info)
	}

	if !available {
		result.Warnings = append(result.Warnings,
			"No browser answered; PDF requests will fall back to HTML"+hints.ForBrowserNotFound())
	}
	if timedOut {
		result.Warnings = append(result.Warnings, "A browser version check timed out"+hints.ForTimeout())
	}
}

// ciVars are set by the CI systems we know about.
var ciVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// detectEnvironment reports platform, CI and container signals.
func detectEnvironment() envInfo {
	info := envInfo{
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
		NoSandbox:  os.Getenv("ROD_NO_SANDBOX"),
		BrowserBin: os.Getenv(mdconvert.EnvBrowserBin),
	}
	info.Container, info.ContainerHint = containerSignal()
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			info.CI = true
		}
	}
	return info
}

// containerSignal returns the first container indicator found, in order:
// MDCONVERT_CONTAINER=1, /.dockerenv, $container (podman, nspawn), and
// KUBERNETES_SERVICE_HOST.
func containerSignal() (bool, string) {
	switch {
	case os.Getenv("MDCONVERT_CONTAINER") == "1":
		return true, "MDCONVERT_CONTAINER=1"
	case hints.IsInContainer():
		return true, "/.dockerenv"
	case os.Getenv("container") != "":
		return true, "container=" + os.Getenv("container")
	case os.Getenv("KUBERNETES_SERVICE_HOST") != "":
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// tempWritable reports whether a file can be created in the temp directory.
func tempWritable() bool {
	f, err := os.CreateTemp("", "mdconvert-doctor-*")
	if err != nil {
		return false
	}
	_ = f.Close()
	_ = os.Remove(f.Name())
	return true
}

// reportLine is one "[TAG] text" line of the text report.
type reportLine struct {
	tag  string
	text string
}

func okLine(format string, args ...any) reportLine {
	return reportLine{"OK", fmt.Sprintf(format, args...)}
}

// section prints a titled block of report lines; empty sections are skipped.
func section(w io.Writer, title string, lines []reportLine) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintln(w, title)
	for _, l := range lines {
		fmt.Fprintf(w, "  [%s] %s\n", l.tag, l.text)
	}
	fmt.Fprintln(w)
}

// printDoctorResult writes the human-readable report.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "mdconvert doctor")
	fmt.Fprintln(w)

	if !r.Engine.OK {
		section(w, "Markdown engine", []reportLine{{"ERROR", r.Engine.Error}})
	} else {
		section(w, "Markdown engine", []reportLine{okLine("goldmark self-check passed")})

		var browsers []reportLine
		for _, b := range r.Browsers {
			switch {
			case b.Available && b.Version != "":
				browsers = append(browsers, okLine("%s (%s)", b.Bin, b.Version))
			case b.Available:
				browsers = append(browsers, okLine("%s", b.Bin))
			default:
				browsers = append(browsers, reportLine{"--", b.Bin})
			}
		}
		section(w, "PDF browsers (in try order)", browsers)
	}

	envLines := []reportLine{okLine("Platform: %s/%s", r.Env.OS, r.Env.Arch)}
	if r.Env.Container {
		envLines = append(envLines, okLine("Container: detected (%s)", r.Env.ContainerHint))
	}
	if r.Env.CI {
		envLines = append(envLines, okLine("CI: detected"))
	}
	section(w, "Environment", envLines)

	if r.System.TempWritable {
		section(w, "System", []reportLine{okLine("Temp directory: writable")})
	} else {
		section(w, "System", []reportLine{{"ERROR", "Temp directory: not writable"}})
	}

	section(w, "Warnings:", tagged("WARN", r.Warnings))
	section(w, "Errors:", tagged("ERROR", r.Errors))

	fmt.Fprintln(w, statusLine[r.Status])
}

func tagged(tag string, texts []string) []reportLine {
	lines := make([]reportLine, 0, len(texts))
	for _, t := range texts {
		lines = append(lines, reportLine{tag, t})
	}
	return lines
}

var statusLine = map[string]string{
	"ready":    "Status: Ready to convert",
	"warnings": "Status: Ready with warnings",
	"errors":   "Status: Not ready (see errors above)",
}
