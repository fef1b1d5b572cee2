// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tui holds the terminal policy shared by help output and the
// cmdtree binary: whether to color, and how wide the screen is.
package tui

import (
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// DefaultWidth is used when the output is not a terminal.
const DefaultWidth = 80

type Colorizer struct {
	Enabled bool
}

// NewColorizer returns a Colorizer that colors only if enabled is set and
// the environment allows it (NO_COLOR unset, TERM set and not dumb).
func NewColorizer(enabled bool) Colorizer {
	if !enabled {
		return Colorizer{}
	}
	if os.Getenv("NO_COLOR") != "" {
		return Colorizer{}
	}
	termEnv := os.Getenv("TERM")
	if termEnv == "" || termEnv == "dumb" {
		return Colorizer{}
	}
	return Colorizer{Enabled: true}
}

// ForWriter is NewColorizer(enabled) restricted to writers that are
// terminals.
func ForWriter(w io.Writer, enabled bool) Colorizer {
	if !IsTerminal(w) {
		return Colorizer{}
	}
	return NewColorizer(enabled)
}

// Paint renders text with attrs when c is enabled.
func (c Colorizer) Paint(text string, attrs ...color.Attribute) string {
	if !c.Enabled || len(attrs) == 0 {
		return text
	}
	p := color.New(attrs...)
	p.EnableColor()
	return p.Sprint(text)
}

func (c Colorizer) Heading(text string) string { return c.Paint(text, color.Bold) }
func (c Colorizer) Command(text string) string { return c.Paint(text, color.FgCyan) }
func (c Colorizer) Flag(text string) string    { return c.Paint(text, color.FgGreen) }
func (c Colorizer) Dim(text string) string     { return c.Paint(text, color.FgHiBlack) }
func (c Colorizer) Error(text string) string   { return c.Paint(text, color.FgRed) }

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Width returns the column count of w, or DefaultWidth when w is not a
// terminal.
func Width(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return DefaultWidth
	}
	cols, _, err := term.GetSize(int(f.Fd()))
	if err != nil || cols <= 0 {
		return DefaultWidth
	}
	return cols
}
