// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"
	"text/tabwriter"

	"github.com/yeetrun/cmdtree/pkg/cmdline"
	"github.com/yeetrun/cmdtree/pkg/cmdutil"
	"github.com/yeetrun/cmdtree/pkg/codec"
	"github.com/yeetrun/cmdtree/pkg/command"
	"github.com/yeetrun/cmdtree/pkg/manifest"
	"github.com/yeetrun/cmdtree/pkg/tui"
	"tailscale.com/util/must"
)

type app struct {
	manifestPath string
	stdin        io.Reader
	stdout       io.Writer
	stderr       io.Writer
	color        bool
	logger       *slog.Logger
}

func (a *app) root() *command.Command {
	root := command.New("cmdtree", "Inspect and exercise command trees declared in manifest files.", nil)

	inspect := must.Get(root.NewSubcommand("inspect", "Print help for every command in the manifest", a.runInspect))
	must.Do(command.AddLocalFlag(inspect, "all", "Include hidden commands", false, "a"))

	resolve := must.Get(root.NewSubcommand("resolve", "Resolve arguments against the manifest tree (resolve -- ARGS...)", a.runResolve))
	must.Do(command.AddLocalFlag(resolve, "json", "Print JSON", false, ""))

	must.Get(root.NewSubcommand("types", "List flag type names", a.runTypes))
	must.Get(root.NewSubcommand("check", "Build the manifest tree and report conflicts", a.runCheck, command.WithAliases("validate")))

	convert := must.Get(root.NewSubcommand("convert", "Re-encode the manifest as YAML or TOML", a.runConvert))
	must.Do(command.AddLocalFlag(convert, "to", "Output format (yaml|toml)", "", "t"))
	must.Do(command.AddLocalFlag(convert, "output", "Write to file instead of stdout", "", "o"))
	must.Do(command.AddLocalFlag(convert, "force", "Overwrite the output file without asking", false, "f"))

	version := must.Get(root.NewSubcommand("version", "Print version information", a.runVersion))
	must.Do(command.AddLocalFlag(version, "json", "Print JSON", false, ""))
	return root
}

func (a *app) errorf(format string, args ...any) int {
	col := tui.ForWriter(a.stderr, a.color)
	fmt.Fprintf(a.stderr, "%s %s\n", col.Error("Error:"), fmt.Sprintf(format, args...))
	return command.ExitFailure
}

func (a *app) loadManifest() (*manifest.Manifest, string, error) {
	path := a.manifestPath
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, "", err
		}
		path, err = manifest.Find(cwd)
		if err != nil {
			return nil, "", err
		}
	}
	a.logger.Debug("loading manifest", "path", path)
	m, err := manifest.Load(path)
	if err != nil {
		return nil, "", err
	}
	return m, path, nil
}

func (a *app) loadTree() (*command.Command, string, error) {
	m, path, err := a.loadManifest()
	if err != nil {
		return nil, "", err
	}
	tree, err := manifest.Build(m.Command, nil, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return tree, path, nil
}

func (a *app) runInspect(_ context.Context, cmd *command.Command, _ []string) int {
	tree, _, err := a.loadTree()
	if err != nil {
		return a.errorf("%v", err)
	}
	all, _ := command.Get[bool](cmd, "all")
	col := tui.ForWriter(a.stdout, a.color)
	first := true
	err = tree.Walk(func(c *command.Command) error {
		if c.Hidden() && !all {
			return command.ErrWalkSkip
		}
		if !first {
			fmt.Fprintln(a.stdout)
		}
		first = false
		fmt.Fprintln(a.stdout, col.Heading("==> "+c.Path()))
		return cmdline.Help(a.stdout, c, cmdline.WithColor(a.color))
	})
	if err != nil {
		return a.errorf("%v", err)
	}
	return command.ExitOK
}

type resolveOutput struct {
	Command string      `json:"command"`
	Args    []string    `json:"args"`
	Help    bool        `json:"help,omitempty"`
	Flags   []flagValue `json:"flags"`
}

type flagValue struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Value   string `json:"value"`
	Changed bool   `json:"changed,omitempty"`
}

func (a *app) runResolve(_ context.Context, cmd *command.Command, args []string) int {
	tree, _, err := a.loadTree()
	if err != nil {
		return a.errorf("%v", err)
	}
	res, err := cmdline.Resolve(tree, args, cmdline.WithLogger(a.logger))
	if err != nil {
		return a.errorf("%v", err)
	}
	out := resolveOutput{
		Command: res.Command.Path(),
		Args:    res.Args,
		Help:    res.Help,
		Flags:   []flagValue{},
	}
	if out.Args == nil {
		out.Args = []string{}
	}
	for _, o := range res.Command.VisibleFlags() {
		out.Flags = append(out.Flags, flagValue{
			Name:    o.Name(),
			Type:    o.Type(),
			Value:   o.String(),
			Changed: o.Changed(),
		})
	}
	if asJSON, _ := command.Get[bool](cmd, "json"); asJSON {
		return a.printJSON(out)
	}

	w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "command:\t%s\n", out.Command)
	fmt.Fprintf(w, "args:\t%s\n", strings.Join(out.Args, " "))
	if out.Help {
		fmt.Fprintf(w, "help:\ttrue\n")
	}
	for _, f := range out.Flags {
		mark := ""
		if f.Changed {
			mark = "*"
		}
		fmt.Fprintf(w, "--%s\t%s\t%s%s\n", f.Name, f.Type, f.Value, mark)
	}
	if err := w.Flush(); err != nil {
		return a.errorf("%v", err)
	}
	return command.ExitOK
}

func (a *app) printJSON(v any) int {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return a.errorf("%v", err)
	}
	fmt.Fprintf(a.stdout, "%s\n", b)
	return command.ExitOK
}

func (a *app) runTypes(_ context.Context, _ *command.Command, _ []string) int {
	reg := codec.Default()
	w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tGO TYPE")
	for _, name := range reg.Names() {
		e, _ := reg.LookupName(name)
		fmt.Fprintf(w, "%s\t%s\n", name, e.Tag())
	}
	if err := w.Flush(); err != nil {
		return a.errorf("%v", err)
	}
	return command.ExitOK
}

func (a *app) runCheck(_ context.Context, _ *command.Command, _ []string) int {
	tree, path, err := a.loadTree()
	if err != nil {
		return a.errorf("%v", err)
	}
	commands, flags := 0, 0
	err = tree.Walk(func(c *command.Command) error {
		commands++
		flags += len(c.LocalFlags()) + len(c.PersistentFlags())
		return nil
	})
	if err != nil {
		return a.errorf("%v", err)
	}
	fmt.Fprintf(a.stdout, "%s: ok (%d commands, %d flags)\n", path, commands, flags)
	return command.ExitOK
}

func (a *app) runConvert(_ context.Context, cmd *command.Command, _ []string) int {
	m, path, err := a.loadManifest()
	if err != nil {
		return a.errorf("%v", err)
	}
	from, err := manifest.FormatOf(path)
	if err != nil {
		return a.errorf("%v", err)
	}
	to := manifest.FormatTOML
	if from == manifest.FormatTOML {
		to = manifest.FormatYAML
	}
	out, _ := command.Get[string](cmd, "output")
	if s, _ := command.Get[string](cmd, "to"); s != "" {
		to = manifest.Format(s)
	} else if out != "" {
		if f, err := manifest.FormatOf(out); err == nil {
			to = f
		}
	}
	data, err := manifest.Encode(m, to)
	if err != nil {
		if errors.Is(err, manifest.ErrUnknownFormat) {
			fmt.Fprintf(a.stderr, "Error: %v\n", err)
			return command.ExitUsage
		}
		return a.errorf("%v", err)
	}
	if out == "" {
		if _, err := a.stdout.Write(data); err != nil {
			return a.errorf("%v", err)
		}
		return command.ExitOK
	}
	if force, _ := command.Get[bool](cmd, "force"); !force {
		if _, err := os.Stat(out); err == nil {
			ok, err := cmdutil.Confirm(a.stdin, a.stderr, fmt.Sprintf("Overwrite %s?", out))
			if err != nil {
				return a.errorf("%v", err)
			}
			if !ok {
				fmt.Fprintln(a.stderr, "Aborted.")
				return command.ExitFailure
			}
		}
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return a.errorf("%v", err)
	}
	a.logger.Info("wrote manifest", "path", out, "format", to)
	return command.ExitOK
}

type versionInfo struct {
	Version string `json:"version"`
	Go      string `json:"go"`
}

func (a *app) runVersion(_ context.Context, cmd *command.Command, _ []string) int {
	info := versionInfo{Version: "(devel)"}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.Go = bi.GoVersion
		if bi.Main.Version != "" {
			info.Version = bi.Main.Version
		}
	}
	if asJSON, _ := command.Get[bool](cmd, "json"); asJSON {
		return a.printJSON(info)
	}
	fmt.Fprintf(a.stdout, "cmdtree %s (%s)\n", info.Version, info.Go)
	return command.ExitOK
}
