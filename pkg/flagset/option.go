// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flagset

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yeetrun/cmdtree/pkg/codec"
	"github.com/yeetrun/cmdtree/pkg/typetag"
)

// Kind distinguishes boolean switches from valued options.
type Kind int

const (
	// KindOption carries a value parsed from text.
	KindOption Kind = iota
	// KindFlag is a bool that toggles when set.
	KindFlag
)

func (k Kind) String() string {
	if k == KindFlag {
		return "flag"
	}
	return "option"
}

// Option is a single named, typed flag. Its value is stored type-erased and
// recovered with Value.
type Option struct {
	name        string
	shorthand   string
	description string
	kind        Kind
	codec       *codec.Entry

	value   any
	def     any
	changed bool
}

func newOption(e *codec.Entry, name, description string, def any, shorthand string) (*Option, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	if shorthand != "" {
		if err := validShorthand(shorthand); err != nil {
			return nil, err
		}
		if shorthand == name {
			return nil, &NameConflictError{Name: shorthand, Existing: name}
		}
	}
	kind := KindOption
	if e.Tag() == typetag.Of[bool]() {
		kind = KindFlag
	}
	return &Option{
		name:        name,
		shorthand:   shorthand,
		description: description,
		kind:        kind,
		codec:       e,
		value:       def,
		def:         def,
	}, nil
}

func validName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case strings.HasPrefix(name, "-"):
		return fmt.Errorf("%w: %q starts with '-'", ErrInvalidName, name)
	case strings.Contains(name, "="):
		return fmt.Errorf("%w: %q contains '='", ErrInvalidName, name)
	case strings.IndexFunc(name, unicode.IsSpace) >= 0:
		return fmt.Errorf("%w: %q contains whitespace", ErrInvalidName, name)
	}
	return nil
}

func validShorthand(sh string) error {
	if utf8.RuneCountInString(sh) != 1 {
		return fmt.Errorf("%w: shorthand %q must be a single character", ErrInvalidName, sh)
	}
	return validName(sh)
}

// Name returns the long name, used as --name.
func (o *Option) Name() string { return o.name }

// Shorthand returns the one-character alias, used as -x, or "".
func (o *Option) Shorthand() string { return o.shorthand }

// Description returns the help text.
func (o *Option) Description() string { return o.description }

// Kind reports whether o is a toggle flag or a valued option.
func (o *Option) Kind() Kind { return o.kind }

// Tag returns the type tag the option was declared with.
func (o *Option) Tag() typetag.Tag { return o.codec.Tag() }

// Type returns the codec name of the option's type, e.g. "int".
func (o *Option) Type() string { return o.codec.Name() }

// Changed reports whether the value was set since declaration or the last
// Reset.
func (o *Option) Changed() bool { return o.changed }

// Interface returns the current value as an any.
func (o *Option) Interface() any { return o.value }

// Set assigns raw to the option. A flag ignores raw and toggles its current
// value. An option parses raw with its codec and keeps its previous value
// when parsing fails.
func (o *Option) Set(raw string) error {
	if o.kind == KindFlag {
		o.value = !o.value.(bool)
		o.changed = true
		return nil
	}
	return o.SetValue(raw)
}

// SetValue parses raw and assigns the result, for flags as well as options.
func (o *Option) SetValue(raw string) error {
	v, err := o.codec.Parse(raw)
	if err != nil {
		return err
	}
	o.value = v
	o.changed = true
	return nil
}

// Reset restores the default value.
func (o *Option) Reset() {
	o.value = o.def
	o.changed = false
}

// String formats the current value with the option's codec.
func (o *Option) String() string {
	return o.codec.Format(o.value)
}

// DefaultString formats the default value with the option's codec.
func (o *Option) DefaultString() string {
	return o.codec.Format(o.def)
}

// Value returns the current value of o as a T. It panics with a
// *TypeMismatchError if o was not declared as a T.
func Value[T any](o *Option) T {
	if got := typetag.Of[T](); got != o.Tag() {
		panic(&TypeMismatchError{Name: o.name, Want: o.Tag(), Got: got})
	}
	return o.value.(T)
}
