// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package command

import (
	"fmt"

	"github.com/yeetrun/cmdtree/pkg/flagset"
)

// AddLocalFlag declares a flag visible only on c.
func AddLocalFlag[T any](c *Command, name, description string, def T, shorthand string) error {
	o, err := flagset.Declare[T](c.Codecs(), name, description, def, shorthand)
	if err != nil {
		return err
	}
	return c.AddFlag(o, false)
}

// AddPersistentFlag declares a flag visible on c and all of its
// descendants.
func AddPersistentFlag[T any](c *Command, name, description string, def T, shorthand string) error {
	o, err := flagset.Declare[T](c.Codecs(), name, description, def, shorthand)
	if err != nil {
		return err
	}
	return c.AddFlag(o, true)
}

// AddFlag registers a declared option on c. The name and shorthand must not
// collide with any flag visible on c. A persistent flag must additionally
// not collide with any flag declared below c.
func (c *Command) AddFlag(o *flagset.Option, persistent bool) error {
	if c.sealed {
		return ErrSealed
	}
	if ce := c.local.Conflict(o.Name(), o.Shorthand()); ce != nil {
		ce.Command = c.Path()
		return ce
	}
	if err := conflictIn(c.persistentChain(), o.Name(), o.Shorthand()); err != nil {
		return err
	}
	if persistent {
		for _, child := range c.Subcommands() {
			err := child.Walk(func(n *Command) error {
				for _, fs := range []*flagset.Set{n.local, n.persistent} {
					if ce := fs.Conflict(o.Name(), o.Shorthand()); ce != nil {
						ce.Command = n.Path()
						return ce
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return c.persistent.Insert(o)
	}
	return c.local.Insert(o)
}

// resolve applies find to each visible set in resolution order.
func (c *Command) resolve(find func(*flagset.Set) (*flagset.Option, bool)) (*flagset.Option, bool) {
	if o, ok := find(c.local); ok {
		return o, true
	}
	for n := c; n != nil; n = n.parent {
		if o, ok := find(n.persistent); ok {
			return o, true
		}
	}
	return nil, false
}

// Lookup returns the visible flag whose long name is name.
func (c *Command) Lookup(name string) (*flagset.Option, bool) {
	return c.resolve(func(s *flagset.Set) (*flagset.Option, bool) { return s.Lookup(name) })
}

// LookupShorthand returns the visible flag whose shorthand is sh.
func (c *Command) LookupShorthand(sh string) (*flagset.Option, bool) {
	return c.resolve(func(s *flagset.Set) (*flagset.Option, bool) { return s.LookupShorthand(sh) })
}

// Find returns the visible flag whose long name or shorthand is token.
func (c *Command) Find(token string) (*flagset.Option, bool) {
	return c.resolve(func(s *flagset.Set) (*flagset.Option, bool) { return s.Find(token) })
}

// SetFlag assigns raw to the visible flag matching name. It returns an
// error wrapping flagset.ErrNotFound when no flag matches, or a
// *codec.FormatError when raw does not parse.
func (c *Command) SetFlag(name, raw string) error {
	o, ok := c.Find(name)
	if !ok {
		return fmt.Errorf("%w: %q on %q", flagset.ErrNotFound, name, c.Path())
	}
	return o.Set(raw)
}

// Get returns the value of the flag visible on c as name. It panics with a
// *flagset.TypeMismatchError if the flag was declared with another type.
func Get[T any](c *Command, name string) (T, bool) {
	o, ok := c.Find(name)
	if !ok {
		var zero T
		return zero, false
	}
	return flagset.Value[T](o), true
}

// LocalFlags returns the flags declared local to c.
func (c *Command) LocalFlags() []*flagset.Option { return c.local.All() }

// PersistentFlags returns the persistent flags declared on c.
func (c *Command) PersistentFlags() []*flagset.Option { return c.persistent.All() }

// InheritedFlags returns the persistent flags of c's ancestors, nearest
// ancestor first.
func (c *Command) InheritedFlags() []*flagset.Option {
	var out []*flagset.Option
	for n := c.parent; n != nil; n = n.parent {
		out = append(out, n.persistent.All()...)
	}
	return out
}

// VisibleFlags returns every flag resolvable from c in resolution order.
func (c *Command) VisibleFlags() []*flagset.Option {
	return append(c.ownFlags(), c.InheritedFlags()...)
}

func (c *Command) ownFlags() []*flagset.Option {
	return append(c.local.All(), c.persistent.All()...)
}

// HasFlags reports whether c declares any local or persistent flag of its
// own. Inherited flags do not count.
func (c *Command) HasFlags() bool { return !c.local.IsEmpty() || !c.persistent.IsEmpty() }

// FlagCount returns the number of visible boolean flags.
func (c *Command) FlagCount() int { return c.countKind(flagset.KindFlag) }

// OptionCount returns the number of visible valued options.
func (c *Command) OptionCount() int { return c.countKind(flagset.KindOption) }

func (c *Command) countKind(k flagset.Kind) int {
	n := 0
	for _, o := range c.VisibleFlags() {
		if o.Kind() == k {
			n++
		}
	}
	return n
}

// ResetFlags restores every flag visible on c to its default.
func (c *Command) ResetFlags() {
	for _, o := range c.VisibleFlags() {
		o.Reset()
	}
}
