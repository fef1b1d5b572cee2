// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrFormat matches every *FormatError.
	ErrFormat = errors.New("invalid format")

	// ErrNoCodec is returned when a type has no registered codec.
	ErrNoCodec = errors.New("no codec registered")

	// ErrDuplicate is returned when a type or type name is registered twice.
	ErrDuplicate = errors.New("codec already registered")
)

// FormatError is returned when a string does not match a type's textual
// grammar.
type FormatError struct {
	Type  string // codec name, e.g. "int"
	Input string
	Err   error // underlying parse error, may be nil
}

func (e *FormatError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid %s value %q", e.Type, e.Input)
	}
	return fmt.Sprintf("invalid %s value %q: %v", e.Type, e.Input, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// numError strips the strconv wrapper so messages don't repeat the input.
func numError(err error) error {
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return ne.Err
	}
	return err
}
