// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flagset

import (
	"errors"
	"fmt"

	"github.com/yeetrun/cmdtree/pkg/typetag"
)

// Sentinel errors
var (
	// ErrNameConflict matches every name collision, including subcommand
	// collisions reported by package command.
	ErrNameConflict = errors.New("name conflict")

	// ErrNotFound is returned when assigning to a flag that is not visible.
	ErrNotFound = errors.New("flag not found")

	// ErrInvalidName is returned for malformed flag names and shorthands.
	ErrInvalidName = errors.New("invalid flag name")
)

// NameConflictError is returned when a flag name or shorthand is already in
// use. Nothing is registered when it is returned.
type NameConflictError struct {
	Name     string // The colliding name or shorthand
	Existing string // Long name of the flag already holding Name
	Command  string // Path of the command owning Existing (if known)
}

func (e *NameConflictError) Error() string {
	msg := fmt.Sprintf("flag %q conflicts with flag %q", e.Name, e.Existing)
	if e.Name == e.Existing {
		msg = fmt.Sprintf("flag %q already defined", e.Name)
	}
	if e.Command != "" {
		msg += fmt.Sprintf(" on %q", e.Command)
	}
	return msg
}

func (e *NameConflictError) Is(target error) bool {
	return target == ErrNameConflict
}

// TypeMismatchError is the panic value raised when a flag is read as a type
// other than the one it was declared with.
type TypeMismatchError struct {
	Name string
	Want typetag.Tag // tag the flag was declared with
	Got  typetag.Tag // tag requested by the caller
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type tag mismatch: flag %q holds %s, read as %s", e.Name, e.Want, e.Got)
}
