package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/alnah/go-mdconvert"
	"github.com/alnah/go-mdconvert/internal/config"
	"github.com/alnah/go-mdconvert/internal/fileutil"
	"github.com/alnah/go-mdconvert/internal/hints"
	"github.com/alnah/go-mdconvert/internal/pipeline"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage             = errors.New("invalid usage")
	ErrNoInput           = errors.New("no input specified")
	ErrConversionsFailed = errors.New("conversion(s) failed")
)

// runConvertCmd parses convert flags, runs the conversion and maps the
// outcome to an exit code.
func runConvertCmd(args []string, env *Environment) int {
	flags, positional, err := parseConvertFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printConvertUsage(env.Stdout)
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n\n", err)
		printConvertUsage(env.Stderr)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runConvert(ctx, positional, flags, env); err != nil {
		printError(env.Stderr, err, flags.common.config)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runConvert resolves configuration, then hands the job to a background
// worker. The foreground goroutine only renders the worker's messages.
func runConvert(ctx context.Context, positional []string, flags *convertFlags, env *Environment) error {
	warnUnknownEnvVars(env.Stderr)

	if len(positional) == 0 {
		return ErrNoInput
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: expected one input, got %d", ErrUsage, len(positional))
	}
	input := positional[0]

	envCfg := loadEnvConfig()
	cfg, err := loadConfig(flags.common.config, envCfg.ConfigPath)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	format, err := mdconvert.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	engine, err := mdconvert.ParseEngine(cfg.PDF.Engine)
	if err != nil {
		return err
	}

	view := outputView{quiet: flags.common.quiet, verbose: flags.common.verbose}
	return runWorker(env, view, func(out *outbox) error {
		logger := newLogger(flags.common.verbose, out)
		defer func() { _ = logger.Sync() }()

		conv, err := mdconvert.NewConverter(converterOptions(cfg, engine, logger, env)...)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := conv.Close(); cerr != nil {
				logger.Warn("closing browser", zap.Error(cerr))
			}
		}()

		if fileutil.DirExists(input) {
			return convertDirectory(ctx, conv, out, mdconvert.BatchJob{
				InputDir:            input,
				OutputDir:           firstNonEmpty(flags.output, cfg.Output.Dir),
				Pattern:             cfg.Pattern(),
				Format:              format,
				IncludeHeaderFooter: cfg.HeaderEnabled(),
			})
		}
		return convertSingle(ctx, conv, out, input, resolveOutputPath(input, flags.output, cfg.Output.Dir, format), format, cfg.HeaderEnabled())
	})
}

// loadConfig loads the named config (flag wins over MDCONVERT_CONFIG), or
// the defaults when neither is set.
func loadConfig(flagName, envName string) (*config.Config, error) {
	name := firstNonEmpty(flagName, envName)
	if name == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(name)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	if flags.format != "" {
		cfg.Output.Format = strings.ToLower(flags.format)
	}
	if flags.pattern != "" {
		cfg.Input.Pattern = flags.pattern
	}
	if flags.engine != "" {
		cfg.PDF.Engine = strings.ToLower(flags.engine)
	}
	if len(flags.browsers) > 0 {
		// Flag browsers are tried before config browsers.
		cfg.PDF.Browsers = append(append([]string(nil), flags.browsers...), cfg.PDF.Browsers...)
	}
	if flags.noHeader {
		disabled := false
		cfg.Header.Enabled = &disabled
	}
	if flags.noOpen {
		disabled := false
		cfg.PDF.OpenFallback = &disabled
	}
}

// converterOptions translates the resolved config into library options.
func converterOptions(cfg *config.Config, engine mdconvert.Engine, logger *zap.Logger, env *Environment) []mdconvert.Option {
	opts := []mdconvert.Option{
		mdconvert.WithLogger(logger),
		mdconvert.WithEngine(engine),
		mdconvert.WithBrowsers(cfg.PDF.Browsers...),
		mdconvert.WithVersionTimeout(cfg.VersionTimeout()),
		mdconvert.WithRenderTimeout(cfg.RenderTimeout()),
		mdconvert.WithOpenFallback(cfg.OpenFallback()),
		mdconvert.WithUnsafeHTML(cfg.Markdown.UnsafeHTML),
	}
	if cfg.Header.DateFormat != "" {
		opts = append(opts, mdconvert.WithDateFormat(cfg.Header.DateFormat))
	}
	if cfg.Markdown.HighlightStyle != "" {
		opts = append(opts, mdconvert.WithHighlightStyle(cfg.Markdown.HighlightStyle))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, mdconvert.WithAssetPath(cfg.Assets.BasePath))
	}
	if env.Now != nil {
		opts = append(opts, mdconvert.WithClock(env.Now))
	}
	if env.Runner != nil {
		opts = append(opts, mdconvert.WithCommandRunner(env.Runner))
	}
	if env.Opener != nil {
		opts = append(opts, mdconvert.WithOpener(env.Opener))
	}
	return opts
}

// resolveOutputPath picks the single-file output path:
//   - --output naming a directory (existing, or ending in a separator): stem + ext inside it
//   - --output naming a file: used as is
//   - config output.dir: stem + ext inside it
//   - otherwise empty, meaning next to the input
func resolveOutputPath(input, flagOutput, cfgDir string, format mdconvert.Format) string {
	name := fileutil.Stem(input) + format.Extension()
	if flagOutput != "" {
		if fileutil.DirExists(flagOutput) || strings.HasSuffix(flagOutput, string(os.PathSeparator)) || strings.HasSuffix(flagOutput, "/") {
			return filepath.Join(flagOutput, name)
		}
		return flagOutput
	}
	if cfgDir != "" {
		return filepath.Join(cfgDir, name)
	}
	return ""
}

// convertSingle converts one file and reports it through out. Errors are
// returned rather than reported, so the caller prints them with hints.
func convertSingle(ctx context.Context, conv *mdconvert.Converter, out *outbox, input, output string, format mdconvert.Format, include bool) error {
	out.send(message{kind: msgStart, total: 1})
	r := conv.Convert(ctx, input, output, format, include)
	if r.Err != nil {
		return r.Err
	}
	out.send(message{kind: msgDone, result: r})
	return nil
}

// convertDirectory runs a batch, streaming progress through out.
func convertDirectory(ctx context.Context, conv *mdconvert.Converter, out *outbox, job mdconvert.BatchJob) error {
	var failed int
	job.Observer = func(e mdconvert.BatchEvent) {
		failed = e.Failed
		switch e.Kind {
		case mdconvert.EventStart:
			out.send(message{kind: msgStart, total: e.Total, pattern: job.Pattern, dir: job.InputDir})
		case mdconvert.EventFileDone:
			out.send(message{kind: msgDone, result: e.Result})
		case mdconvert.EventFileFailed:
			out.send(message{kind: msgFailed, result: e.Result})
		case mdconvert.EventFinish:
			out.send(message{kind: msgFinish, total: e.Total, succeeded: e.Succeeded, failed: e.Failed})
		}
	}

	if _, err := conv.BatchConvert(ctx, job); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d", ErrConversionsFailed, failed)
	}
	return nil
}

// newLogger returns a development zap logger writing into w when verbose,
// and a no-op logger otherwise.
func newLogger(verbose bool, w zapcore.WriteSyncer) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		w,
		zapcore.DebugLevel,
	)
	return zap.New(core, zap.Development())
}

// printError prints err with an actionable hint when one applies.
func printError(w io.Writer, err error, configName string) {
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(w, "interrupted")
		return
	}
	fmt.Fprintf(w, "error: %v%s\n", err, hintFor(err, configName))
}

// hintFor selects the hint for err.
func hintFor(err error, configName string) string {
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		if configName == "" {
			configName = os.Getenv("MDCONVERT_CONFIG")
		}
		return hints.ForConfigNotFound(config.SearchPaths(configName))
	case errors.Is(err, mdconvert.ErrDependencyMissing):
		return hints.ForDependencyMissing()
	case errors.Is(err, mdconvert.ErrInputDirectoryNotFound):
		return hints.ForInputNotFound(true)
	case errors.Is(err, mdconvert.ErrInputNotFound):
		return hints.ForInputNotFound(false)
	case errors.Is(err, mdconvert.ErrInvalidHighlightStyle):
		return hints.ForHighlightStyle(pipeline.HighlightStyles())
	case errors.Is(err, mdconvert.ErrInvalidInput):
		return hints.ForInvalidInput()
	case errors.Is(err, mdconvert.ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
