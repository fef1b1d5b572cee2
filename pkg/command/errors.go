// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package command

import (
	"errors"
	"fmt"

	"github.com/yeetrun/cmdtree/pkg/flagset"
)

var (
	// ErrAlreadyAttached is returned when attaching a command that already
	// has a parent.
	ErrAlreadyAttached = errors.New("command already has a parent")

	// ErrSelfAttach is returned when attaching a command to itself.
	ErrSelfAttach = errors.New("command cannot be its own subcommand")

	// ErrCycle is returned when attaching an ancestor as a descendant.
	ErrCycle = errors.New("command is an ancestor of its new parent")

	// ErrSealed is returned by structural mutations after Seal.
	ErrSealed = errors.New("command tree is sealed")

	// ErrInvalidName is returned for malformed command names and aliases.
	ErrInvalidName = errors.New("invalid command name")
)

// SubcommandConflictError is returned when a subcommand's name or alias is
// already used by a sibling. It matches flagset.ErrNameConflict.
type SubcommandConflictError struct {
	Name     string // The colliding name or alias
	Existing string // Name of the sibling holding Name
	Parent   string // Path of the parent command
}

func (e *SubcommandConflictError) Error() string {
	if e.Name == e.Existing {
		return fmt.Sprintf("subcommand %q already exists on %q", e.Name, e.Parent)
	}
	return fmt.Sprintf("subcommand name %q conflicts with %q on %q", e.Name, e.Existing, e.Parent)
}

func (e *SubcommandConflictError) Is(target error) bool {
	return target == flagset.ErrNameConflict
}
