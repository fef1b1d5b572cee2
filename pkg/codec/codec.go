// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package codec converts flag values to and from their textual form.
//
// A Registry maps a typetag.Tag to a parse/format pair. The process-wide
// registry returned by Default is populated with the built-in types on first
// use; embedding applications add their own types with Register,
// RegisterText or RegisterValue. Isolated registries for tests or plugins are
// created with NewRegistry.
package codec

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/spf13/pflag"
	"github.com/yeetrun/cmdtree/pkg/typetag"
	"tailscale.com/types/lazy"
	"tailscale.com/util/mak"
)

// Entry is the registered codec for a single type.
type Entry struct {
	name   string
	tag    typetag.Tag
	parse  func(string) (any, error)
	format func(any) string
}

// Name returns the textual type name, e.g. "duration".
func (e *Entry) Name() string { return e.name }

// Tag returns the tag of the Go type the entry converts.
func (e *Entry) Tag() typetag.Tag { return e.tag }

// Parse converts s to a value of the entry's type. Failures are always
// reported as *FormatError.
func (e *Entry) Parse(s string) (any, error) {
	v, err := e.parse(s)
	if err != nil {
		var fe *FormatError
		if errors.As(err, &fe) {
			return nil, fe
		}
		return nil, &FormatError{Type: e.name, Input: s, Err: err}
	}
	return v, nil
}

// Format converts v, which must hold the entry's type, to text. A nil
// pointer formats as the empty string.
func (e *Entry) Format(v any) string {
	return e.format(v)
}

// Zero returns the zero value of the entry's type.
func (e *Entry) Zero() any {
	return reflect.Zero(e.tag.Type()).Interface()
}

// Registry holds codecs keyed by type tag and by type name.
type Registry struct {
	mu     sync.RWMutex
	byTag  map[typetag.Tag]*Entry
	byName map[string]*Entry
}

var defaultRegistry lazy.SyncValue[*Registry]

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry.Get(NewRegistry)
}

// NewRegistry returns a registry holding only the built-in codecs.
func NewRegistry() *Registry {
	r := &Registry{}
	registerBuiltins(r)
	return r
}

// Register adds a codec for T under name. format may be nil, in which case
// values are formatted with fmt.Sprint.
func Register[T any](r *Registry, name string, parse func(string) (T, error), format func(T) string) error {
	if parse == nil {
		return fmt.Errorf("codec %q: nil parse func", name)
	}
	if name == "" {
		return fmt.Errorf("codec for %s: empty name", typetag.Of[T]())
	}
	if format == nil {
		format = func(v T) string { return fmt.Sprint(v) }
	}
	e := &Entry{
		name: name,
		tag:  typetag.Of[T](),
		parse: func(s string) (any, error) {
			v, err := parse(s)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
		format: func(v any) string {
			t, ok := v.(T)
			if !ok || isNilPointer(t) {
				return ""
			}
			return format(t)
		},
	}
	return r.add(e)
}

// MustRegister is like Register but panics on error. It is meant for init
// functions.
func MustRegister[T any](r *Registry, name string, parse func(string) (T, error), format func(T) string) {
	if err := Register(r, name, parse, format); err != nil {
		panic(err)
	}
}

// RegisterText adds a codec for a type implementing
// encoding.TextUnmarshaler on its pointer. Values are formatted with
// MarshalText when T or *T implements encoding.TextMarshaler.
func RegisterText[T any, PT interface {
	*T
	encoding.TextUnmarshaler
}](r *Registry, name string) error {
	parse := func(s string) (T, error) {
		var v T
		if err := PT(&v).UnmarshalText([]byte(s)); err != nil {
			return v, err
		}
		return v, nil
	}
	format := func(v T) string {
		m, ok := any(v).(encoding.TextMarshaler)
		if !ok {
			m, ok = any(&v).(encoding.TextMarshaler)
		}
		if !ok {
			return fmt.Sprint(v)
		}
		b, err := m.MarshalText()
		if err != nil {
			return ""
		}
		return string(b)
	}
	return Register(r, name, parse, format)
}

// RegisterValue adds a codec for a type whose pointer implements
// pflag.Value, so custom values written for pflag or cobra can be reused as
// flag types.
func RegisterValue[T any, PT interface {
	*T
	pflag.Value
}](r *Registry, name string) error {
	parse := func(s string) (T, error) {
		var v T
		if err := PT(&v).Set(s); err != nil {
			return v, err
		}
		return v, nil
	}
	format := func(v T) string {
		return PT(&v).String()
	}
	return Register(r, name, parse, format)
}

func (r *Registry) add(e *Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.byTag[e.tag]; ok {
		return fmt.Errorf("%w: %s as %q (already %q)", ErrDuplicate, e.tag, e.name, prev.name)
	}
	if prev, ok := r.byName[e.name]; ok {
		return fmt.Errorf("%w: name %q (held by %s)", ErrDuplicate, e.name, prev.tag)
	}
	mak.Set(&r.byTag, e.tag, e)
	mak.Set(&r.byName, e.name, e)
	return nil
}

// Lookup returns the codec registered for tag.
func (r *Registry) Lookup(tag typetag.Tag) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byTag[tag]
	return e, ok
}

// LookupName returns the codec registered under a textual type name.
func (r *Registry) LookupName(name string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byName[name]
	return e, ok
}

// Names returns the registered type names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Parse converts s to a T using the codec registered for T.
func Parse[T any](r *Registry, s string) (T, error) {
	var zero T
	tag := typetag.Of[T]()
	e, ok := r.Lookup(tag)
	if !ok {
		return zero, fmt.Errorf("%w for %s", ErrNoCodec, tag)
	}
	v, err := e.Parse(s)
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}

// Format converts v to text using the codec registered for T.
func Format[T any](r *Registry, v T) (string, error) {
	tag := typetag.Of[T]()
	e, ok := r.Lookup(tag)
	if !ok {
		return "", fmt.Errorf("%w for %s", ErrNoCodec, tag)
	}
	return e.Format(v), nil
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
