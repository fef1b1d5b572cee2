// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manifest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/yeetrun/cmdtree/pkg/codec"
	"github.com/yeetrun/cmdtree/pkg/command"
	"github.com/yeetrun/cmdtree/pkg/flagset"
)

const appYAML = `version: 1
command:
  name: app
  description: Manage the app.
  flags:
    - name: verbose
      short: v
      type: bool
      persistent: true
      description: verbose output
  commands:
    - name: serve
      action: serve
      aliases: [s]
      flags:
        - name: port
          short: p
          type: int
          default: 8080
        - name: timeout
          type: duration
          default: 30s
        - name: host
          default: localhost
    - name: remote
      hidden: true
      commands:
        - name: add
          action: add
`

const appTOML = `version = 1

[command]
name = "app"
description = "Manage the app."

[[command.flags]]
name = "verbose"
short = "v"
type = "bool"
persistent = true
description = "verbose output"

[[command.commands]]
name = "serve"
action = "serve"
aliases = ["s"]

[[command.commands.flags]]
name = "port"
short = "p"
type = "int"
default = "8080"

[[command.commands.flags]]
name = "timeout"
type = "duration"
default = "30s"

[[command.commands.flags]]
name = "host"
default = "localhost"

[[command.commands]]
name = "remote"
hidden = true

[[command.commands.commands]]
name = "add"
action = "add"
`

func TestDecodeFormatsAgree(t *testing.T) {
	y, err := Decode([]byte(appYAML), FormatYAML)
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	tm, err := Decode([]byte(appTOML), FormatTOML)
	if err != nil {
		t.Fatalf("toml: %v", err)
	}
	if diff := cmp.Diff(y, tm); diff != "" {
		t.Errorf("yaml and toml disagree (-yaml +toml):\n%s", diff)
	}
}

func TestBuild(t *testing.T) {
	m, err := Decode([]byte(appYAML), FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	ran := ""
	actions := map[string]command.Action{
		"serve": func(_ context.Context, c *command.Command, _ []string) int { ran = c.Path(); return 0 },
		"add":   func(_ context.Context, c *command.Command, _ []string) int { ran = c.Path(); return 0 },
	}
	root, err := Build(m.Command, nil, actions)
	if err != nil {
		t.Fatal(err)
	}
	serve, ok := root.Subcommand("s")
	if !ok {
		t.Fatal("alias s not found")
	}
	if got, _ := command.Get[int](serve, "p"); got != 8080 {
		t.Errorf("port = %d", got)
	}
	if got, _ := command.Get[time.Duration](serve, "timeout"); got != 30*time.Second {
		t.Errorf("timeout = %v", got)
	}
	if got, _ := command.Get[string](serve, "host"); got != "localhost" {
		t.Errorf("host = %q", got)
	}
	if got, ok := command.Get[bool](serve, "verbose"); !ok || got {
		t.Errorf("verbose = %v, %v", got, ok)
	}
	remote, _ := root.Subcommand("remote")
	if !remote.Hidden() || remote.Action() != nil {
		t.Errorf("remote hidden=%v action=%v", remote.Hidden(), remote.Action() != nil)
	}
	add, _ := remote.Subcommand("add")
	add.Run(context.Background(), nil)
	if ran != "app remote add" {
		t.Errorf("ran = %q", ran)
	}
}

func TestBuildWithoutActions(t *testing.T) {
	m, err := Decode([]byte(appYAML), FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	root, err := Build(m.Command, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	serve, _ := root.Subcommand("serve")
	if serve.Action() != nil {
		t.Error("action set without an actions map")
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		node Node
		is   error
	}{
		{
			name: "unknown type",
			node: Node{Name: "app", Flags: []Flag{{Name: "x", Type: "complex128"}}},
			is:   ErrUnknownType,
		},
		{
			name: "bad default",
			node: Node{Name: "app", Flags: []Flag{{Name: "port", Type: "int", Default: "http"}}},
			is:   codec.ErrFormat,
		},
		{
			name: "unknown action",
			node: Node{Name: "app", Action: "missing"},
			is:   ErrUnknownAction,
		},
		{
			name: "duplicate flag",
			node: Node{Name: "app", Flags: []Flag{{Name: "x"}, {Name: "x"}}},
			is:   flagset.ErrNameConflict,
		},
		{
			name: "child shadows persistent",
			node: Node{
				Name:     "app",
				Flags:    []Flag{{Name: "verbose", Short: "v", Type: "bool", Persistent: true}},
				Commands: []Node{{Name: "sub", Flags: []Flag{{Name: "version", Short: "v"}}}},
			},
			is: flagset.ErrNameConflict,
		},
		{
			name: "duplicate sibling",
			node: Node{Name: "app", Commands: []Node{{Name: "a"}, {Name: "a"}}},
			is:   flagset.ErrNameConflict,
		},
		{
			name: "bad command name",
			node: Node{Name: "app", Commands: []Node{{Name: "-a"}}},
			is:   command.ErrInvalidName,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.node, nil, map[string]command.Action{})
			if !errors.Is(err, tt.is) {
				t.Errorf("err = %v, want %v", err, tt.is)
			}
		})
	}
}

func TestBuildErrorPath(t *testing.T) {
	n := Node{Name: "app", Commands: []Node{{Name: "serve", Flags: []Flag{{Name: "port", Type: "int", Default: "x"}}}}}
	_, err := Build(n, nil, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	want := `app serve: flag "port": default: invalid int value "x": invalid syntax`
	if err.Error() != want {
		t.Errorf("err = %q, want %q", err, want)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{"unknown yaml key", "command:\n  name: app\n  colour: red\n", FormatYAML},
		{"unknown toml key", "[command]\nname = \"app\"\ncolour = \"red\"\n", FormatTOML},
		{"future version", "version: 2\ncommand:\n  name: app\n", FormatYAML},
		{"no name", "command:\n  description: x\n", FormatYAML},
		{"bad format", "", Format("json")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.data), tt.format); err == nil {
				t.Error("Decode succeeded")
			}
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	m, err := Decode([]byte(appYAML), FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range []Format{FormatYAML, FormatTOML} {
		data, err := Encode(m, f)
		if err != nil {
			t.Fatalf("Encode(%s): %v", f, err)
		}
		back, err := Decode(data, f)
		if err != nil {
			t.Fatalf("Decode(%s): %v\n%s", f, err, data)
		}
		if diff := cmp.Diff(m, back); diff != "" {
			t.Errorf("%s round trip (-want +got):\n%s", f, diff)
		}
	}
}

func TestFromCommand(t *testing.T) {
	m, err := Decode([]byte(appYAML), FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	root, err := Build(m.Command, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	got := FromCommand(root)
	want := m.Command
	serve, remote := want.Commands[0], want.Commands[1]
	// Actions are not carried by a built tree, and children come back
	// sorted by name.
	serve.Action = ""
	remote.Commands = []Node{{Name: "add"}}
	want.Commands = []Node{remote, serve}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FromCommand (-want +got):\n%s", diff)
	}
}

func TestLoadAndFind(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := Find(nested); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Find with no manifest err = %v", err)
	}
	path := filepath.Join(root, "cmdtree.toml")
	if err := os.WriteFile(path, []byte(appTOML), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Find(nested)
	if err != nil {
		t.Fatal(err)
	}
	if got != path {
		t.Errorf("Find = %q, want %q", got, path)
	}
	m, err := Load(got)
	if err != nil {
		t.Fatal(err)
	}
	if m.Command.Name != "app" {
		t.Errorf("name = %q", m.Command.Name)
	}

	yamlPath := filepath.Join(root, "a", "cmdtree.yaml")
	if err := os.WriteFile(yamlPath, []byte(appYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	if got, _ := Find(nested); got != yamlPath {
		t.Errorf("nearest manifest = %q, want %q", got, yamlPath)
	}
	if _, err := Load(filepath.Join(root, "cmdtree.json")); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Load(json) err = %v", err)
	}
}
