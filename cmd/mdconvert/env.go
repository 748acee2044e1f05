package main

import (
	"io"
	"os"
	"time"

	"github.com/alnah/go-mdconvert"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer
	Runner mdconvert.CommandRunner // nil = real subprocesses
	Opener mdconvert.Opener        // nil = desktop default handler
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}
