// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manifest

import (
	"errors"
	"fmt"

	"github.com/yeetrun/cmdtree/pkg/codec"
	"github.com/yeetrun/cmdtree/pkg/command"
	"github.com/yeetrun/cmdtree/pkg/flagset"
)

// ErrUnknownAction is returned by Build when a node names an action that
// is not in the actions map.
var ErrUnknownAction = errors.New("unknown action")

// ErrUnknownType is returned by Build when a flag names a type with no
// codec.
var ErrUnknownType = errors.New("unknown flag type")

// Build constructs the command tree declared by n. Flag types are resolved
// by name in reg (nil means codec.Default). If actions is nil every command
// is built without an action; otherwise each non-empty Action must be a key
// of actions.
func Build(n Node, reg *codec.Registry, actions map[string]command.Action) (*command.Command, error) {
	if reg == nil {
		reg = codec.Default()
	}
	return build(n, n.Name, reg, actions)
}

func build(n Node, path string, reg *codec.Registry, actions map[string]command.Action) (*command.Command, error) {
	var action command.Action
	if n.Action != "" && actions != nil {
		a, ok := actions[n.Action]
		if !ok {
			return nil, fmt.Errorf("%s: %w %q", path, ErrUnknownAction, n.Action)
		}
		action = a
	}
	opts := []command.Option{command.WithCodecs(reg)}
	if len(n.Aliases) > 0 {
		opts = append(opts, command.WithAliases(n.Aliases...))
	}
	if n.Hidden {
		opts = append(opts, command.WithHidden())
	}
	c := command.New(n.Name, n.Description, action, opts...)

	for _, f := range n.Flags {
		o, err := declare(f, reg)
		if err != nil {
			return nil, fmt.Errorf("%s: flag %q: %w", path, f.Name, err)
		}
		if err := c.AddFlag(o, f.Persistent); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	for _, child := range n.Commands {
		sub, err := build(child, path+" "+child.Name, reg, actions)
		if err != nil {
			return nil, err
		}
		if err := c.AddSubcommand(sub); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return c, nil
}

func declare(f Flag, reg *codec.Registry) (*flagset.Option, error) {
	typ := f.Type
	if typ == "" {
		typ = "string"
	}
	e, ok := reg.LookupName(typ)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownType, typ)
	}
	var def any
	if f.Default != "" {
		v, err := e.Parse(f.Default)
		if err != nil {
			return nil, fmt.Errorf("default: %w", err)
		}
		def = v
	}
	return flagset.DeclareEntry(e, f.Name, f.Description, def, f.Short)
}

// FromCommand describes the tree under c as a manifest node. Actions are
// not recoverable from a tree and are left empty.
func FromCommand(c *command.Command) Node {
	n := Node{
		Name:        c.Name(),
		Description: c.Description(),
		Aliases:     c.Aliases(),
		Hidden:      c.Hidden(),
	}
	for _, o := range c.LocalFlags() {
		n.Flags = append(n.Flags, flagOf(o, false))
	}
	for _, o := range c.PersistentFlags() {
		n.Flags = append(n.Flags, flagOf(o, true))
	}
	for _, sub := range c.Subcommands() {
		n.Commands = append(n.Commands, FromCommand(sub))
	}
	return n
}

func flagOf(o *flagset.Option, persistent bool) Flag {
	f := Flag{
		Name:        o.Name(),
		Short:       o.Shorthand(),
		Type:        o.Type(),
		Description: o.Description(),
		Persistent:  persistent,
	}
	if def := o.DefaultString(); def != "" && !(o.Kind() == flagset.KindFlag && def == "false") {
		f.Default = def
	}
	if f.Type == "string" {
		f.Type = ""
	}
	return f
}
