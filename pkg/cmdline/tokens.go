// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cmdline resolves argument vectors against a command tree and
// dispatches the selected command.
//
// The accepted grammar is
//
//	--name            toggle a bool flag
//	--name=value      set a flag or option
//	--name value      set an option
//	-x, -x=value, -x value
//	--                end of flags; everything after is positional
//
// Bool flags never consume the following token. Options consume it unless
// it starts with '-' and is not a number, so negative numbers work as
// values. Shorthands cannot be clustered: -abc is an unknown flag.
//
// A token that names a subcommand of the current command selects it, as
// long as no positional argument has been seen yet. Flags are resolved
// against the command selected at the point they appear.
package cmdline

import (
	"fmt"
	"strings"

	"github.com/yeetrun/cmdtree/pkg/command"
	"github.com/yeetrun/cmdtree/pkg/flagset"
)

const (
	helpFlagLong  = "help"
	helpFlagShort = "h"
)

// Resolution is the outcome of matching tokens against a tree.
type Resolution struct {
	Command  *command.Command // deepest command selected
	Args     []string         // positional arguments, in order
	Consumed int              // tokens used as flags, flag values or subcommand names
	Help     bool             // -h or --help was given and the tree does not define it
}

// UnknownFlagError is returned for a flag token that no visible flag
// matches.
type UnknownFlagError struct {
	Flag    string // The token as given, without any =value part
	Command string // Path of the command it was resolved against
}

func (e *UnknownFlagError) Error() string {
	return fmt.Sprintf("unknown flag: %s", e.Flag)
}

// MissingValueError is returned when an option is the last token or is
// followed by another flag.
type MissingValueError struct {
	Flag    string
	Command string
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("flag needs a value: %s", e.Flag)
}

// ValueError is returned when a flag value does not parse. Err is the
// *codec.FormatError.
type ValueError struct {
	Flag    string
	Value   string
	Command string
	Err     error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("invalid value %q for flag %s: %v", e.Value, e.Flag, e.Err)
}

func (e *ValueError) Unwrap() error {
	return e.Err
}

// Resolve walks tokens from root, selecting subcommands and assigning flag
// values along the way. On error the returned Resolution still names the
// command reached so far.
func Resolve(root *command.Command, tokens []string, opts ...Option) (*Resolution, error) {
	cfg := newConfig(opts)
	res := &Resolution{Command: root}
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok == "--" {
			res.Consumed++
			res.Args = append(res.Args, tokens[i+1:]...)
			break
		}
		if !isFlagToken(tok) {
			if len(res.Args) == 0 {
				if child, ok := res.Command.Subcommand(tok); ok {
					cfg.logger.Debug("descend", "from", res.Command.Path(), "to", child.Name())
					res.Command = child
					res.Consumed++
					continue
				}
			}
			res.Args = append(res.Args, tok)
			continue
		}

		display, name, value, hasValue, long := splitFlag(tok)
		o, ok := lookup(res.Command, name, long)
		if !ok {
			switch {
			case isNumeric(tok):
				res.Args = append(res.Args, tok)
				continue
			case !hasValue && (long && name == helpFlagLong || !long && name == helpFlagShort):
				res.Help = true
				res.Consumed++
				continue
			}
			return res, &UnknownFlagError{Flag: display, Command: res.Command.Path()}
		}
		res.Consumed++

		var err error
		switch {
		case hasValue:
			err = o.SetValue(value)
		case o.Kind() == flagset.KindFlag:
			err = res.Command.SetFlag(o.Name(), "")
		default:
			if i+1 >= len(tokens) || !takesValue(tokens[i+1]) {
				return res, &MissingValueError{Flag: display, Command: res.Command.Path()}
			}
			i++
			res.Consumed++
			value = tokens[i]
			err = res.Command.SetFlag(o.Name(), value)
		}
		if err != nil {
			return res, &ValueError{Flag: display, Value: value, Command: res.Command.Path(), Err: err}
		}
		cfg.logger.Debug("set flag", "command", res.Command.Path(), "flag", o.Name(), "value", o.String())
	}
	return res, nil
}

func isFlagToken(tok string) bool {
	return len(tok) > 1 && tok[0] == '-'
}

// splitFlag breaks a flag token into its parts. display is the token
// without any =value suffix.
func splitFlag(tok string) (display, name, value string, hasValue, long bool) {
	display, value, hasValue = strings.Cut(tok, "=")
	long = strings.HasPrefix(display, "--")
	name = display[1:]
	if long {
		name = display[2:]
	}
	return display, name, value, hasValue, long
}

func lookup(c *command.Command, name string, long bool) (*flagset.Option, bool) {
	if long {
		return c.Lookup(name)
	}
	return c.LookupShorthand(name)
}

// takesValue reports whether next can be consumed as an option's value.
func takesValue(next string) bool {
	return !strings.HasPrefix(next, "-") || isNumeric(next)
}

// isNumeric reports whether s is a decimal number such as "10", "-10" or
// "-3.14".
func isNumeric(s string) bool {
	if len(s) == 0 {
		return false
	}
	start := 0
	if s[0] == '-' || s[0] == '+' {
		if len(s) == 1 {
			return false
		}
		start = 1
	}
	hasDigit := false
	hasDot := false
	for i := start; i < len(s); i++ {
		switch {
		case s[i] >= '0' && s[i] <= '9':
			hasDigit = true
		case s[i] == '.' && !hasDot:
			hasDot = true
		default:
			return false
		}
	}
	return hasDigit
}
