// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdline

import (
	"github.com/shayne/yargs"
	"github.com/yeetrun/cmdtree/pkg/command"
)

// Registry exports the first two levels of the tree under root as a yargs
// registry. Children without subcommands become SubCommands; children with
// subcommands become Groups holding their own children.
func Registry(root *command.Command) yargs.Registry {
	reg := yargs.Registry{
		Command: yargs.CommandInfo{
			Name:        root.Name(),
			Description: root.Description(),
		},
		SubCommands: map[string]yargs.CommandSpec{},
		Groups:      map[string]yargs.GroupSpec{},
	}
	for _, child := range root.Subcommands() {
		if !child.HasSubcommands() {
			reg.SubCommands[child.Name()] = yargs.CommandSpec{Info: subCommandInfo(child)}
			continue
		}
		group := yargs.GroupSpec{
			Info: yargs.GroupInfo{
				Name:        child.Name(),
				Description: child.Description(),
				Hidden:      child.Hidden(),
				Commands:    map[string]yargs.SubCommandInfo{},
			},
			Commands: map[string]yargs.CommandSpec{},
		}
		for _, leaf := range child.Subcommands() {
			info := subCommandInfo(leaf)
			group.Info.Commands[leaf.Name()] = info
			group.Commands[leaf.Name()] = yargs.CommandSpec{Info: info}
		}
		reg.Groups[child.Name()] = group
	}
	return reg
}

func subCommandInfo(c *command.Command) yargs.SubCommandInfo {
	return yargs.SubCommandInfo{
		Name:        c.Name(),
		Description: c.Description(),
		Usage:       usageSuffix(c),
		Aliases:     c.Aliases(),
		Hidden:      c.Hidden(),
	}
}
