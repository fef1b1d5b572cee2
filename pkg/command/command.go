// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package command builds trees of commands that own typed flags.
//
// A command has two flag sets. Local flags are visible only on the command
// that declares them. Persistent flags are visible on the command and every
// descendant. Resolving a flag from a command checks its local flags, then
// its persistent flags, then the persistent flags of each ancestor from the
// nearest up to the root; the first match wins.
//
// Names never shadow. Declaring a flag, or attaching a subtree, fails when
// any name or shorthand would collide with one already visible at that
// point of the tree.
//
// Trees are built single-threaded. After Seal, structural changes fail with
// ErrSealed while flag values can still be assigned.
package command

import (
	"context"
	"slices"
	"strings"

	"github.com/yeetrun/cmdtree/pkg/codec"
	"github.com/yeetrun/cmdtree/pkg/flagset"
)

// Action is invoked with the selected command and its positional arguments.
// A non-zero return is reported as the process exit code.
type Action func(ctx context.Context, cmd *Command, args []string) int

// Exit codes returned by actions and dispatchers.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// Command is a node in a command tree.
type Command struct {
	name        string
	description string
	aliases     []string
	hidden      bool
	action      Action
	codecs      *codec.Registry

	local      *flagset.Set
	persistent *flagset.Set

	parent   *Command // not owned
	children map[string]*Command
	sealed   bool
}

// Option configures a Command created by New.
type Option func(*Command)

// WithAliases sets alternative names the command can be selected by.
func WithAliases(aliases ...string) Option {
	return func(c *Command) { c.aliases = append(c.aliases, aliases...) }
}

// WithHidden omits the command from help listings. It can still be
// selected.
func WithHidden() Option {
	return func(c *Command) { c.hidden = true }
}

// WithCodecs sets the codec registry used for flags declared on the command
// and on descendants that don't set their own.
func WithCodecs(reg *codec.Registry) Option {
	return func(c *Command) { c.codecs = reg }
}

// New returns a detached command. action may be nil for commands that only
// group subcommands.
func New(name, description string, action Action, opts ...Option) *Command {
	c := &Command{
		name:        name,
		description: description,
		action:      action,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.local = flagset.New(c.codecs)
	c.persistent = flagset.New(c.codecs)
	return c
}

func (c *Command) Name() string        { return c.name }
func (c *Command) Description() string { return c.description }
func (c *Command) Hidden() bool        { return c.hidden }
func (c *Command) Action() Action      { return c.action }

// Aliases returns the alternative names of c.
func (c *Command) Aliases() []string { return slices.Clone(c.aliases) }

// Sealed reports whether Seal was called on c's tree.
func (c *Command) Sealed() bool { return c.sealed }

// Codecs returns the codec registry flags on c are resolved through.
func (c *Command) Codecs() *codec.Registry {
	for n := c; n != nil; n = n.parent {
		if n.codecs != nil {
			return n.codecs
		}
	}
	return codec.Default()
}

// Path returns the space-separated names from the root to c.
func (c *Command) Path() string {
	var names []string
	for n := c; n != nil; n = n.parent {
		names = append(names, n.name)
	}
	slices.Reverse(names)
	return strings.Join(names, " ")
}

// Run invokes c's action. A command without an action returns ExitUsage.
func (c *Command) Run(ctx context.Context, args []string) int {
	if c.action == nil {
		return ExitUsage
	}
	return c.action(ctx, c, args)
}
