// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package flagset implements a registry of typed, named flags.
//
// Every flag has a long name and an optional one-character shorthand. Names
// and shorthands share one namespace per Set: a name may not equal any other
// flag's name or shorthand, so a token never resolves to two flags.
//
// Lookups never guess from the token length. Lookup matches long names,
// LookupShorthand matches shorthands and Find tries both in that order.
package flagset

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/yeetrun/cmdtree/pkg/codec"
	"github.com/yeetrun/cmdtree/pkg/typetag"
	"tailscale.com/util/mak"
)

// Set is a registry of options. The zero value is ready to use and resolves
// types through codec.Default.
type Set struct {
	codecs  *codec.Registry
	byName  map[string]*Option
	byShort map[string]*Option
	order   []*Option
}

// New returns an empty set that resolves types through reg. A nil reg
// means codec.Default.
func New(reg *codec.Registry) *Set {
	return &Set{codecs: reg}
}

// Codecs returns the codec registry used by s.
func (s *Set) Codecs() *codec.Registry {
	if s.codecs == nil {
		return codec.Default()
	}
	return s.codecs
}

// Add declares a flag of type T. T must have a codec in the set's registry.
// A bool T declares a toggle flag.
func Add[T any](s *Set, name, description string, def T, shorthand string) error {
	o, err := Declare[T](s.Codecs(), name, description, def, shorthand)
	if err != nil {
		return err
	}
	return s.Insert(o)
}

// Declare builds an option of type T without registering it anywhere.
func Declare[T any](reg *codec.Registry, name, description string, def T, shorthand string) (*Option, error) {
	tag := typetag.Of[T]()
	e, ok := reg.Lookup(tag)
	if !ok {
		return nil, fmt.Errorf("flag %q: %w for %s", name, codec.ErrNoCodec, tag)
	}
	return newOption(e, name, description, def, shorthand)
}

// DeclareEntry builds an option whose type is only known at run time, as
// for trees loaded from a manifest. A nil def means the zero value.
func DeclareEntry(e *codec.Entry, name, description string, def any, shorthand string) (*Option, error) {
	if def == nil {
		def = e.Zero()
	} else if got := typetag.For(reflect.TypeOf(def)); got != e.Tag() {
		return nil, &TypeMismatchError{Name: name, Want: e.Tag(), Got: got}
	}
	return newOption(e, name, description, def, shorthand)
}

// Insert registers a declared option. It fails with a *NameConflictError,
// leaving s unchanged, if the name or shorthand is already taken.
func (s *Set) Insert(o *Option) error {
	if err := s.Conflict(o.name, o.shorthand); err != nil {
		return err
	}
	mak.Set(&s.byName, o.name, o)
	if o.shorthand != "" {
		mak.Set(&s.byShort, o.shorthand, o)
	}
	s.order = append(s.order, o)
	return nil
}

// Conflict reports whether a flag called name with the given shorthand
// could not be inserted into s.
func (s *Set) Conflict(name, shorthand string) *NameConflictError {
	for _, key := range []string{name, shorthand} {
		if key == "" {
			continue
		}
		if o, ok := s.Find(key); ok {
			return &NameConflictError{Name: key, Existing: o.name}
		}
	}
	return nil
}

// Lookup returns the option whose long name is name.
func (s *Set) Lookup(name string) (*Option, bool) {
	o, ok := s.byName[name]
	return o, ok
}

// LookupShorthand returns the option whose shorthand is sh.
func (s *Set) LookupShorthand(sh string) (*Option, bool) {
	o, ok := s.byShort[sh]
	return o, ok
}

// Find matches token against long names first and shorthands second.
func (s *Set) Find(token string) (*Option, bool) {
	if o, ok := s.Lookup(token); ok {
		return o, true
	}
	return s.LookupShorthand(token)
}

// Has reports whether token names a flag in s.
func (s *Set) Has(token string) bool {
	_, ok := s.Find(token)
	return ok
}

// Set assigns raw to the flag matching name. See Option.Set.
func (s *Set) Set(name, raw string) error {
	o, ok := s.Find(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return o.Set(raw)
}

// Get returns the value of the flag matching name. It panics with a
// *TypeMismatchError if the flag exists with a type other than T.
func Get[T any](s *Set, name string) (T, bool) {
	o, ok := s.Find(name)
	if !ok {
		var zero T
		return zero, false
	}
	return Value[T](o), true
}

// IsEmpty reports whether s holds no options.
func (s *Set) IsEmpty() bool { return len(s.order) == 0 }

// Len returns the number of options in s.
func (s *Set) Len() int { return len(s.order) }

// All returns the options in registration order.
func (s *Set) All() []*Option {
	return slices.Clone(s.order)
}

// Names returns every long name and shorthand in use.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.byName)+len(s.byShort))
	for _, o := range s.order {
		names = append(names, o.name)
		if o.shorthand != "" {
			names = append(names, o.shorthand)
		}
	}
	return names
}

// Reset restores every option to its default.
func (s *Set) Reset() {
	for _, o := range s.order {
		o.Reset()
	}
}
