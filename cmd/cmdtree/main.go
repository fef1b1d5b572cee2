// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command cmdtree inspects and exercises command trees declared in
// manifest files.
//
//	cmdtree [--manifest FILE] [--log-level LEVEL] [--no-color] <command>
//
// Without --manifest, CMDTREE_MANIFEST is used, and failing that the
// nearest cmdtree.yaml, cmdtree.yml or cmdtree.toml above the working
// directory.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/shayne/yargs"
	"github.com/yeetrun/cmdtree/pkg/cmdline"
)

const manifestEnv = "CMDTREE_MANIFEST"

type globalFlagsParsed struct {
	Manifest string `flag:"manifest" short:"m" help:"Manifest file (CMDTREE_MANIFEST)"`
	LogLevel string `flag:"log-level" help:"Log level (debug|info|warn|error)"`
	NoColor  bool   `flag:"no-color" help:"Disable colored output"`
}

func parseGlobalFlags(args []string) (globalFlagsParsed, []string, error) {
	result, err := yargs.ParseKnownFlags[globalFlagsParsed](args, yargs.KnownFlagsOptions{})
	if err != nil {
		return globalFlagsParsed{}, nil, err
	}
	return result.Flags, result.RemainingArgs, nil
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if level == "" {
		level = "warn"
	}
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q", level)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return runWithInput(ctx, args, os.Stdin, stdout, stderr)
}

func runWithInput(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags, remaining, err := parseGlobalFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	logger, err := newLogger(stderr, flags.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	manifestPath := flags.Manifest
	if manifestPath == "" {
		manifestPath = os.Getenv(manifestEnv)
	}
	a := &app{
		manifestPath: manifestPath,
		stdin:        stdin,
		stdout:       stdout,
		stderr:       stderr,
		color:        !flags.NoColor,
		logger:       logger,
	}
	return cmdline.Run(ctx, a.root(), remaining,
		cmdline.WithOutput(stdout, stderr),
		cmdline.WithLogger(logger),
		cmdline.WithColor(a.color),
	)
}
