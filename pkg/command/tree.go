// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package command

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode"

	"tailscale.com/util/mak"
	"tailscale.com/util/set"
)

// ErrWalkSkip can be returned by a Walk callback to skip a command's
// children.
var ErrWalkSkip = errors.New("skip subcommands")

// AddSubcommand attaches child below c. It fails, leaving both trees
// unchanged, when child already has a parent, would create a cycle, shares
// a name or alias with a sibling, or declares a flag anywhere in its subtree
// that collides with a persistent flag visible at c.
func (c *Command) AddSubcommand(child *Command) error {
	switch {
	case child == nil:
		return fmt.Errorf("%w: nil subcommand", ErrInvalidName)
	case c.sealed || child.sealed:
		return ErrSealed
	case child == c:
		return ErrSelfAttach
	case child.parent != nil:
		return fmt.Errorf("%w: %q is attached to %q", ErrAlreadyAttached, child.name, child.parent.Path())
	case c.Root() == child:
		return fmt.Errorf("%w: %q", ErrCycle, child.name)
	}
	for _, name := range child.names() {
		if err := validName(name); err != nil {
			return err
		}
	}
	if err := c.siblingConflict(child); err != nil {
		return err
	}
	if err := c.subtreeConflict(child); err != nil {
		return err
	}
	mak.Set(&c.children, child.name, child)
	child.parent = c
	return nil
}

// NewSubcommand creates a command and attaches it below c.
func (c *Command) NewSubcommand(name, description string, action Action, opts ...Option) (*Command, error) {
	child := New(name, description, action, opts...)
	if err := c.AddSubcommand(child); err != nil {
		return nil, err
	}
	return child, nil
}

func validName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case strings.HasPrefix(name, "-"):
		return fmt.Errorf("%w: %q starts with '-'", ErrInvalidName, name)
	case strings.IndexFunc(name, unicode.IsSpace) >= 0:
		return fmt.Errorf("%w: %q contains whitespace", ErrInvalidName, name)
	}
	return nil
}

// names returns the name followed by the aliases.
func (c *Command) names() []string {
	return append([]string{c.name}, c.aliases...)
}

func (c *Command) siblingConflict(child *Command) error {
	seen := set.Set[string]{}
	for _, name := range child.names() {
		if seen.Contains(name) {
			return &SubcommandConflictError{Name: name, Existing: child.name, Parent: c.Path()}
		}
		seen.Add(name)
	}
	for _, sib := range c.children {
		for _, name := range sib.names() {
			if seen.Contains(name) {
				return &SubcommandConflictError{Name: name, Existing: sib.name, Parent: c.Path()}
			}
		}
	}
	return nil
}

// subtreeConflict checks every flag declared in child's subtree against the
// persistent flags that would become visible to it below c.
func (c *Command) subtreeConflict(child *Command) error {
	inherited := c.persistentChain()
	return child.Walk(func(n *Command) error {
		for _, o := range n.ownFlags() {
			if err := conflictIn(inherited, o.Name(), o.Shorthand()); err != nil {
				return err
			}
		}
		return nil
	})
}

// persistentChain returns c and its ancestors, nearest first.
func (c *Command) persistentChain() []*Command {
	var out []*Command
	for n := c; n != nil; n = n.parent {
		out = append(out, n)
	}
	return out
}

func conflictIn(owners []*Command, name, shorthand string) error {
	for _, n := range owners {
		if ce := n.persistent.Conflict(name, shorthand); ce != nil {
			ce.Command = n.Path()
			return ce
		}
	}
	return nil
}

// HasParent reports whether c is attached below another command.
func (c *Command) HasParent() bool { return c.parent != nil }

// Parent returns the command c is attached to, or nil.
func (c *Command) Parent() *Command { return c.parent }

// Root returns the topmost ancestor of c, or c itself.
func (c *Command) Root() *Command {
	n := c
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// HasSubcommands reports whether c has any children.
func (c *Command) HasSubcommands() bool { return len(c.children) > 0 }

// Subcommand returns the direct child named or aliased name.
func (c *Command) Subcommand(name string) (*Command, bool) {
	if child, ok := c.children[name]; ok {
		return child, true
	}
	for _, child := range c.children {
		if slices.Contains(child.aliases, name) {
			return child, true
		}
	}
	return nil, false
}

// Subcommands returns the direct children sorted by name.
func (c *Command) Subcommands() []*Command {
	out := make([]*Command, 0, len(c.children))
	for _, name := range slices.Sorted(maps.Keys(c.children)) {
		out = append(out, c.children[name])
	}
	return out
}

// Walk calls fn for c and then, in name order, for each descendant. If fn
// returns ErrWalkSkip the command's children are skipped; any other error
// stops the walk and is returned.
func (c *Command) Walk(fn func(*Command) error) error {
	if err := fn(c); err != nil {
		if errors.Is(err, ErrWalkSkip) {
			return nil
		}
		return err
	}
	for _, child := range c.Subcommands() {
		if err := child.Walk(fn); err != nil {
			return err
		}
	}
	return nil
}

// Seal freezes the shape of the whole tree containing c. Flags and
// subcommands can no longer be added, but flag values can still be set.
func (c *Command) Seal() {
	_ = c.Root().Walk(func(n *Command) error {
		n.sealed = true
		return nil
	})
}
