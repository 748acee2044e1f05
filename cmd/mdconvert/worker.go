package main

import (
	"fmt"
	"time"

	"github.com/alnah/go-mdconvert"
	"github.com/alnah/go-mdconvert/internal/hints"
)

// outboxSize bounds how far the worker can run ahead of the terminal.
const outboxSize = 64

// msgKind identifies a worker message.
type msgKind int

const (
	msgLog    msgKind = iota // formatted diagnostic log line
	msgStart                 // job started; total is known
	msgDone                  // one file converted (possibly degraded)
	msgFailed                // one batch file failed
	msgFinish                // batch finished
)

// message is one unit of output sent from the worker to the foreground.
type message struct {
	kind      msgKind
	text      string
	result    mdconvert.ConversionResult
	total     int
	succeeded int
	failed    int
	pattern   string
	dir       string
}

// outbox carries messages from the background worker to the foreground.
// It doubles as the zap sink so diagnostic logs follow the same path.
type outbox struct {
	ch chan message
}

func (o *outbox) send(m message) {
	o.ch <- m
}

// Write implements zapcore.WriteSyncer.
func (o *outbox) Write(p []byte) (int, error) {
	o.send(message{kind: msgLog, text: string(p)})
	return len(p), nil
}

// Sync implements zapcore.WriteSyncer.
func (o *outbox) Sync() error { return nil }

// outputView controls how messages are rendered.
type outputView struct {
	quiet   bool
	verbose bool
}

// runWorker runs job on a background goroutine and renders its messages on
// the calling goroutine, which is the only writer of env's streams.
func runWorker(env *Environment, view outputView, job func(out *outbox) error) error {
	out := &outbox{ch: make(chan message, outboxSize)}
	done := make(chan error, 1)

	go func() {
		defer close(out.ch)
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("internal error: %v", r)
			}
		}()
		done <- job(out)
	}()

	for m := range out.ch {
		render(env, view, m)
	}
	return <-done
}

// render writes one message in the CLI's line format.
func render(env *Environment, view outputView, m message) {
	switch m.kind {
	case msgLog:
		fmt.Fprint(env.Stderr, m.text)

	case msgStart:
		if m.total == 0 {
			if !view.quiet {
				fmt.Fprintf(env.Stderr, "warning: no files matching %s in %s\n", m.pattern, m.dir)
			}
			return
		}
		if !view.quiet && m.total > 1 {
			fmt.Fprintf(env.Stdout, "Converting %d files...\n", m.total)
		}

	case msgDone:
		r := m.result
		if view.quiet {
			return
		}
		if r.Degraded {
			fmt.Fprintf(env.Stderr, "warning: no browser could print %s; kept HTML%s\n", r.InputPath, hints.ForBrowserNotFound())
		}
		if view.verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}

	case msgFailed:
		fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", m.result.InputPath, m.result.Err)

	case msgFinish:
		if !view.quiet && m.total > 1 {
			fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", m.succeeded, m.failed)
		}
	}
}
