package mdconvert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/alnah/go-mdconvert/internal/fileutil"
)

// BatchConvert converts every regular file in job.InputDir whose name
// matches job.Pattern, one at a time in name order. A file that fails is
// logged, reported to the observer and left out of the results; it never
// aborts the batch. If ctx is cancelled between files, the batch stops and
// returns the results so far with ctx.Err().
func (c *Converter) BatchConvert(ctx context.Context, job BatchJob) ([]ConversionResult, error) {
	files, err := matchFiles(job.InputDir, job.pattern())
	if err != nil {
		return nil, err
	}

	outputDir := job.OutputDir
	if outputDir == "" {
		outputDir = job.InputDir
	} else if err := os.MkdirAll(outputDir, fileutil.DirPermissions); err != nil {
		return nil, fmt.Errorf("%w: creating %s: %v", ErrWriteOutput, outputDir, err)
	}

	format := job.Format
	if format == "" {
		format = FormatHTML
	}

	results := make([]ConversionResult, 0, len(files))
	var failed int
	job.emit(BatchEvent{Kind: EventStart, Index: -1, Total: len(files)})

	for i, input := range files {
		if err := ctx.Err(); err != nil {
			job.emit(BatchEvent{Kind: EventFinish, Index: -1, Total: len(files), Succeeded: len(results), Failed: failed})
			return results, err
		}

		output := filepath.Join(outputDir, fileutil.Stem(input)+format.Extension())
		result := c.Convert(ctx, input, output, format, job.IncludeHeaderFooter)

		event := BatchEvent{Index: i, Total: len(files), InputPath: input, Result: result}
		if result.Err != nil {
			failed++
			c.cfg.logger.Error("file failed",
				zap.String("input", input),
				zap.Error(result.Err))
			event.Kind = EventFileFailed
		} else {
			results = append(results, result)
			c.cfg.logger.Info("file converted",
				zap.String("input", input),
				zap.String("output", result.OutputPath),
				zap.Bool("degraded", result.Degraded),
				zap.Duration("duration", result.Duration))
			event.Kind = EventFileDone
		}
		event.Succeeded, event.Failed = len(results), failed
		job.emit(event)
	}

	job.emit(BatchEvent{Kind: EventFinish, Index: -1, Total: len(files), Succeeded: len(results), Failed: failed})
	return results, nil
}

func (j BatchJob) pattern() string {
	if j.Pattern == "" {
		return DefaultPattern
	}
	return j.Pattern
}

func (j BatchJob) emit(e BatchEvent) {
	if j.Observer != nil {
		j.Observer(e)
	}
}

// matchFiles lists the regular files directly in dir whose names match
// pattern, sorted by name.
func matchFiles(dir, pattern string) ([]string, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, pattern, err)
	}
	if !fileutil.DirExists(dir) {
		return nil, fmt.Errorf("%w: %s", ErrInputDirectoryNotFound, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputDirectoryNotFound, err)
	}

	var files []string
	for _, e := range entries {
		if ok, _ := filepath.Match(pattern, e.Name()); !ok {
			continue
		}
		p := filepath.Join(dir, e.Name())
		// Stat follows symlinks so a link to a regular file counts.
		info, err := os.Stat(p)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, p)
	}
	sort.Strings(files)
	return files, nil
}
