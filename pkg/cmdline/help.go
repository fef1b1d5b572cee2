// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdline

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/yeetrun/cmdtree/pkg/command"
	"github.com/yeetrun/cmdtree/pkg/flagset"
	"github.com/yeetrun/cmdtree/pkg/tui"
)

// Help writes usage for c to w: description, usage line, aliases, visible
// subcommands, own flags and inherited flags.
func Help(w io.Writer, c *command.Command, opts ...Option) error {
	cfg := newConfig(opts)
	col := tui.ForWriter(w, cfg.color)
	bw := bufio.NewWriter(w)

	if desc := c.Description(); desc != "" {
		for _, line := range wrap(desc, tui.Width(w)) {
			fmt.Fprintln(bw, line)
		}
		fmt.Fprintln(bw)
	}

	fmt.Fprintln(bw, col.Heading("Usage:"))
	fmt.Fprintf(bw, "  %s\n", usageLine(c))
	if c.HasSubcommands() {
		fmt.Fprintf(bw, "  %s <command>\n", c.Path())
	}

	if aliases := c.Aliases(); len(aliases) > 0 {
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, col.Heading("Aliases:"))
		fmt.Fprintf(bw, "  %s\n", strings.Join(append([]string{c.Name()}, aliases...), ", "))
	}

	var subs []*command.Command
	for _, sub := range c.Subcommands() {
		if !sub.Hidden() {
			subs = append(subs, sub)
		}
	}
	if len(subs) > 0 {
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, col.Heading("Commands:"))
		tw := tabwriter.NewWriter(bw, 0, 0, 3, ' ', 0)
		for _, sub := range subs {
			fmt.Fprintf(tw, "  %s\t%s\n", col.Command(sub.Name()), sub.Description())
		}
		tw.Flush()
	}

	own := append(c.LocalFlags(), c.PersistentFlags()...)
	writeFlags(bw, col, "Flags:", own)
	writeFlags(bw, col, "Inherited Flags:", c.InheritedFlags())

	if c.HasSubcommands() {
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, col.Dim(fmt.Sprintf("Use \"%s <command> --help\" for more information about a command.", c.Path())))
	}
	return bw.Flush()
}

func usageLine(c *command.Command) string {
	if suffix := usageSuffix(c); suffix != "" {
		return c.Path() + " " + suffix
	}
	return c.Path()
}

// usageSuffix returns what follows the command path on the usage line.
func usageSuffix(c *command.Command) string {
	var parts []string
	if len(c.VisibleFlags()) > 0 {
		parts = append(parts, "[flags]")
	}
	if c.Action() != nil {
		parts = append(parts, "[args]")
	}
	return strings.Join(parts, " ")
}

func writeFlags(w io.Writer, col tui.Colorizer, heading string, opts []*flagset.Option) {
	if len(opts) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, col.Heading(heading))
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	for _, o := range opts {
		fmt.Fprintf(tw, "  %s\t%s\n", col.Flag(flagUsage(o)), flagDescription(o))
	}
	tw.Flush()
}

// flagUsage renders "-p, --port int" or "    --verbose".
func flagUsage(o *flagset.Option) string {
	s := "    --" + o.Name()
	if o.Shorthand() != "" {
		s = "-" + o.Shorthand() + ", --" + o.Name()
	}
	if o.Kind() == flagset.KindOption {
		s += " " + o.Type()
	}
	return s
}

func flagDescription(o *flagset.Option) string {
	def := o.DefaultString()
	if def == "" || (o.Kind() == flagset.KindFlag && def == "false") {
		return o.Description()
	}
	if o.Type() == "string" {
		def = fmt.Sprintf("%q", def)
	}
	if o.Description() == "" {
		return fmt.Sprintf("(default %s)", def)
	}
	return fmt.Sprintf("%s (default %s)", o.Description(), def)
}

// wrap breaks text into lines of at most width columns at spaces.
func wrap(text string, width int) []string {
	var lines []string
	for para := range strings.SplitSeq(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, word := range words[1:] {
			if len(line)+1+len(word) > width {
				lines = append(lines, line)
				line = word
				continue
			}
			line += " " + word
		}
		lines = append(lines, line)
	}
	return lines
}
