package main

import (
	"io"
	"os"
	"time"

	"github.com/alnah/go-lessondoc"
	"github.com/alnah/go-lessondoc/internal/config"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, configuration, and converter pool construction.
type Environment struct {
	Now     func() time.Time
	Stdout  io.Writer
	Stderr  io.Writer
	Config  *config.Config // defaults when no --config is given
	NewPool func(size int, opts ...lessondoc.Option) Pool
}

// DefaultEnv returns the production environment backed by headless Chrome.
func DefaultEnv() *Environment {
	return &Environment{
		Now:     time.Now,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Config:  config.DefaultConfig(),
		NewPool: newPoolAdapter,
	}
}
