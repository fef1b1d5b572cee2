// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package manifest declares command trees in YAML or TOML files.
//
// A manifest describes the shape of a tree: command names, aliases, flags
// with their codec type names and defaults. It carries no flag values;
// values still come from the command line.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Version is the manifest schema version written by this package.
const Version = 1

// Names are the file names Find looks for, in order of preference.
var Names = []string{"cmdtree.yaml", "cmdtree.yml", "cmdtree.toml"}

// ErrUnknownFormat is returned for files that are neither YAML nor TOML.
var ErrUnknownFormat = errors.New("unknown manifest format")

// Format is a manifest encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatOf returns the format implied by path's extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

type Manifest struct {
	Version int  `yaml:"version,omitempty" toml:"version,omitempty"`
	Command Node `yaml:"command" toml:"command"`
}

// Node declares one command and, recursively, its subcommands.
type Node struct {
	Name        string   `yaml:"name" toml:"name"`
	Description string   `yaml:"description,omitempty" toml:"description,omitempty"`
	Aliases     []string `yaml:"aliases,omitempty" toml:"aliases,omitempty"`
	Hidden      bool     `yaml:"hidden,omitempty" toml:"hidden,omitempty"`
	Action      string   `yaml:"action,omitempty" toml:"action,omitempty"` // key into the actions passed to Build
	Flags       []Flag   `yaml:"flags,omitempty" toml:"flags,omitempty"`
	Commands    []Node   `yaml:"commands,omitempty" toml:"commands,omitempty"`
}

// Flag declares one flag. Type is a codec type name; empty means string.
type Flag struct {
	Name        string `yaml:"name" toml:"name"`
	Short       string `yaml:"short,omitempty" toml:"short,omitempty"`
	Type        string `yaml:"type,omitempty" toml:"type,omitempty"`
	Default     string `yaml:"default,omitempty" toml:"default,omitempty"`
	Description string `yaml:"description,omitempty" toml:"description,omitempty"`
	Persistent  bool   `yaml:"persistent,omitempty" toml:"persistent,omitempty"`
}

// Load reads the manifest at path, choosing the decoder by extension.
func Load(path string) (*Manifest, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return m, nil
}

// Decode parses data in the given format. Unknown keys are errors.
func Decode(data []byte, format Format) (*Manifest, error) {
	var m Manifest
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil {
			return nil, err
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &m)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown key %q", undecoded[0].String())
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if m.Version == 0 {
		m.Version = Version
	}
	if m.Version != Version {
		return nil, fmt.Errorf("unsupported manifest version %d", m.Version)
	}
	if m.Command.Name == "" {
		return nil, errors.New("manifest has no command name")
	}
	return &m, nil
}

// Encode renders m in the given format.
func Encode(m *Manifest, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(m); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Find looks for a manifest in startDir and each of its parents. It
// returns an error wrapping os.ErrNotExist if none is found.
func Find(startDir string) (string, error) {
	dir := filepath.Clean(startDir)
	for {
		for _, name := range Names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			} else if !os.IsNotExist(err) {
				return "", err
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("no %s above %s: %w", strings.Join(Names, ", "), startDir, os.ErrNotExist)
}
