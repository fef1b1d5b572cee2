// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package typetag mints process-wide identity tokens for Go types.
//
// A Tag is assigned the first time a type is seen and never changes for the
// life of the process. Two tags are equal iff they were minted for the same
// type, which lets type-erased values be recovered with a cheap equality
// check instead of a type switch.
package typetag

import (
	"reflect"
	"sync"

	"tailscale.com/util/mak"
)

// Tag identifies a single Go type. The zero Tag is Invalid.
type Tag uint32

// Invalid is never assigned to a type.
const Invalid Tag = 0

var (
	mu    sync.Mutex
	tags  map[reflect.Type]Tag
	types []reflect.Type // types[tag-1]
)

// Of returns the tag for T, minting one on first use.
func Of[T any]() Tag {
	return For(reflect.TypeFor[T]())
}

// For returns the tag for t, minting one on first use. A nil type yields
// Invalid.
func For(t reflect.Type) Tag {
	if t == nil {
		return Invalid
	}
	mu.Lock()
	defer mu.Unlock()
	if tag, ok := tags[t]; ok {
		return tag
	}
	types = append(types, t)
	tag := Tag(len(types))
	mak.Set(&tags, t, tag)
	return tag
}

// Valid reports whether t was minted by this package.
func (t Tag) Valid() bool {
	return t.Type() != nil
}

// Type returns the Go type t was minted for, or nil.
func (t Tag) Type() reflect.Type {
	if t == Invalid {
		return nil
	}
	mu.Lock()
	defer mu.Unlock()
	if int(t) > len(types) {
		return nil
	}
	return types[t-1]
}

func (t Tag) String() string {
	return Name(t)
}

// Name returns the Go type name of tag, or "<invalid>".
func Name(tag Tag) string {
	if typ := tag.Type(); typ != nil {
		return typ.String()
	}
	return "<invalid>"
}
