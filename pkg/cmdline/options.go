// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdline

import (
	"io"
	"log/slog"
	"os"
)

type config struct {
	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer
	color  bool
}

// Option configures Resolve, Run and Help.
type Option func(*config)

// WithLogger sets the logger that receives debug records for subcommand
// descent and flag assignment.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithOutput sets where help and errors are written. Defaults are
// os.Stdout and os.Stderr.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(c *config) {
		c.stdout = stdout
		c.stderr = stderr
	}
}

// WithColor enables colored help when the output is a terminal that allows
// it.
func WithColor(enabled bool) Option {
	return func(c *config) { c.color = enabled }
}

func newConfig(opts []Option) *config {
	c := &config{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return c
}
