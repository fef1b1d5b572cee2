// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdline

import (
	"context"
	"fmt"

	"github.com/google/shlex"
	"github.com/yeetrun/cmdtree/pkg/command"
)

// Run seals the tree under root, resets every flag to its default, resolves
// args and invokes the selected command's action. A tree can be run any
// number of times; values set by one run do not leak into the next. It returns the action's exit code, command.ExitOK after
// printing requested help, or command.ExitUsage for resolution errors and
// commands without an action.
func Run(ctx context.Context, root *command.Command, args []string, opts ...Option) int {
	cfg := newConfig(opts)
	root.Seal()
	_ = root.Walk(func(n *command.Command) error {
		n.ResetFlags()
		return nil
	})

	res, err := Resolve(root, args, opts...)
	if err != nil {
		fmt.Fprintf(cfg.stderr, "Error: %v\n", err)
		fmt.Fprintf(cfg.stderr, "Run '%s --help' for usage.\n", res.Command.Path())
		return command.ExitUsage
	}
	cmd := res.Command
	if res.Help {
		if err := Help(cfg.stdout, cmd, opts...); err != nil {
			return command.ExitFailure
		}
		return command.ExitOK
	}
	if cmd.Action() == nil {
		if len(res.Args) > 0 {
			fmt.Fprintf(cfg.stderr, "Error: unknown command %q for %q\n", res.Args[0], cmd.Path())
		}
		if err := Help(cfg.stderr, cmd, opts...); err != nil {
			return command.ExitFailure
		}
		return command.ExitUsage
	}

	cfg.logger.Debug("run", "command", cmd.Path(), "args", res.Args)
	code := cmd.Run(ctx, res.Args)
	if code != command.ExitOK {
		cfg.logger.Debug("command failed", "command", cmd.Path(), "code", code)
	}
	return code
}

// RunLine splits line with shell quoting rules and runs the result as the
// arguments following root's name.
func RunLine(ctx context.Context, root *command.Command, line string, opts ...Option) int {
	cfg := newConfig(opts)
	args, err := Split(line)
	if err != nil {
		fmt.Fprintf(cfg.stderr, "Error: %v\n", err)
		return command.ExitUsage
	}
	return Run(ctx, root, args, opts...)
}

// Split tokenizes line with shell quoting rules.
func Split(line string) ([]string, error) {
	args, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("splitting %q: %w", line, err)
	}
	return args, nil
}
