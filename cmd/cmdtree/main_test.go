// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const testManifest = `command:
  name: app
  description: Manage the app.
  flags:
    - name: verbose
      short: v
      type: bool
      persistent: true
  commands:
    - name: serve
      description: Start the server
      flags:
        - name: port
          short: p
          type: int
          default: 8080
    - name: debug
      hidden: true
`

func writeManifest(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv(manifestEnv, "")
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestParseGlobalFlags(t *testing.T) {
	flags, rest, err := parseGlobalFlags([]string{"-m", "x.yaml", "resolve", "--no-color", "--", "--manifest", "y"})
	if err != nil {
		t.Fatal(err)
	}
	if flags.Manifest != "x.yaml" || !flags.NoColor {
		t.Errorf("flags = %+v", flags)
	}
	if diff := cmp.Diff([]string{"resolve", "--", "--manifest", "y"}, rest); diff != "" {
		t.Errorf("remaining (-want +got):\n%s", diff)
	}
}

func TestCheck(t *testing.T) {
	path := writeManifest(t, "cmdtree.yaml", testManifest)
	code, stdout, stderr := runCLI(t, "--manifest", path, "check")
	if code != 0 {
		t.Fatalf("code = %d, stderr:\n%s", code, stderr)
	}
	if want := path + ": ok (3 commands, 2 flags)\n"; stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
}

func TestCheckConflict(t *testing.T) {
	bad := strings.Replace(testManifest, "name: port\n          short: p", "name: port\n          short: v", 1)
	path := writeManifest(t, "cmdtree.yaml", bad)
	code, _, stderr := runCLI(t, "-m", path, "validate")
	if code != 1 {
		t.Errorf("code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "conflicts with flag \"verbose\"") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestResolveJSON(t *testing.T) {
	path := writeManifest(t, "cmdtree.yaml", testManifest)
	code, stdout, stderr := runCLI(t, "-m", path, "resolve", "--json", "--", "serve", "-p", "9000", "-v", "x")
	if code != 0 {
		t.Fatalf("code = %d, stderr:\n%s", code, stderr)
	}
	var got resolveOutput
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("bad json %q: %v", stdout, err)
	}
	want := resolveOutput{
		Command: "app serve",
		Args:    []string{"x"},
		Flags: []flagValue{
			{Name: "port", Type: "int", Value: "9000", Changed: true},
			{Name: "verbose", Type: "bool", Value: "true", Changed: true},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("resolve (-want +got):\n%s", diff)
	}
}

func TestResolveText(t *testing.T) {
	path := writeManifest(t, "cmdtree.toml", `[command]
name = "app"

[[command.flags]]
name = "level"
type = "int8"
default = "3"
`)
	code, stdout, stderr := runCLI(t, "-m", path, "resolve", "--", "--level=-1", "a", "b")
	if code != 0 {
		t.Fatalf("code = %d, stderr:\n%s", code, stderr)
	}
	for _, want := range []string{"command:  app\n", "args:     a b\n", "--level   int8  -1*\n"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}
}

func TestResolveError(t *testing.T) {
	path := writeManifest(t, "cmdtree.yaml", testManifest)
	code, _, stderr := runCLI(t, "-m", path, "resolve", "--", "serve", "--port", "http")
	if code != 1 {
		t.Errorf("code = %d, want 1", code)
	}
	if !strings.Contains(stderr, `invalid int value "http"`) {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestInspect(t *testing.T) {
	path := writeManifest(t, "cmdtree.yaml", testManifest)
	code, stdout, _ := runCLI(t, "-m", path, "inspect")
	if code != 0 {
		t.Fatalf("code = %d", code)
	}
	if !strings.Contains(stdout, "==> app serve") || strings.Contains(stdout, "==> app debug") {
		t.Errorf("inspect output:\n%s", stdout)
	}
	_, stdout, _ = runCLI(t, "-m", path, "inspect", "--all")
	if !strings.Contains(stdout, "==> app debug") {
		t.Errorf("inspect --all output:\n%s", stdout)
	}
}

func TestConvert(t *testing.T) {
	path := writeManifest(t, "cmdtree.yaml", testManifest)
	code, stdout, stderr := runCLI(t, "-m", path, "convert")
	if code != 0 {
		t.Fatalf("code = %d, stderr:\n%s", code, stderr)
	}
	if !strings.Contains(stdout, "[[command.commands]]") {
		t.Errorf("convert did not produce TOML:\n%s", stdout)
	}
	code, _, _ = runCLI(t, "-m", path, "convert", "--to", "json")
	if code != 2 {
		t.Errorf("convert --to json code = %d, want 2", code)
	}
}

func TestConvertOutput(t *testing.T) {
	path := writeManifest(t, "cmdtree.yaml", testManifest)
	out := filepath.Join(filepath.Dir(path), "out.toml")
	if code, _, stderr := runCLI(t, "-m", path, "convert", "-o", out); code != 0 {
		t.Fatalf("code = %d, stderr:\n%s", code, stderr)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[[command.commands]]") {
		t.Errorf("output is not TOML:\n%s", data)
	}

	t.Setenv(manifestEnv, "")
	var stdout, stderr bytes.Buffer
	code := runWithInput(context.Background(), []string{"-m", path, "convert", "-o", out}, strings.NewReader("n\n"), &stdout, &stderr)
	if code != 1 || !strings.Contains(stderr.String(), "Overwrite "+out+"? [y/N]") {
		t.Errorf("declined overwrite: code = %d, stderr = %q", code, stderr.String())
	}
	stderr.Reset()
	code = runWithInput(context.Background(), []string{"-m", path, "convert", "-o", out, "--to", "yaml"}, strings.NewReader("y\n"), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("confirmed overwrite: code = %d, stderr = %q", code, stderr.String())
	}
	if code, _, _ := runCLI(t, "-m", path, "convert", "-o", out, "--force"); code != 0 {
		t.Errorf("--force code = %d", code)
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestConvertWriteError(t *testing.T) {
	path := writeManifest(t, "cmdtree.yaml", testManifest)
	t.Setenv(manifestEnv, "")
	var stderr bytes.Buffer
	if code := run(context.Background(), []string{"-m", path, "convert"}, failWriter{}, &stderr); code != 1 {
		t.Errorf("code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "closed") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestTypes(t *testing.T) {
	code, stdout, _ := runCLI(t, "types")
	if code != 0 {
		t.Fatalf("code = %d", code)
	}
	for _, want := range []string{"NAME", "duration  time.Duration", "semver"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("types missing %q:\n%s", want, stdout)
		}
	}
}

func TestManifestFromEnv(t *testing.T) {
	path := writeManifest(t, "cmdtree.yaml", testManifest)
	var stdout, stderr bytes.Buffer
	t.Setenv(manifestEnv, path)
	if code := run(context.Background(), []string{"check"}, &stdout, &stderr); code != 0 {
		t.Fatalf("code = %d, stderr:\n%s", code, stderr.String())
	}
}

func TestUsageErrors(t *testing.T) {
	if code, _, _ := runCLI(t); code != 2 {
		t.Errorf("no args code = %d, want 2", code)
	}
	if code, _, stderr := runCLI(t, "--log-level", "loud", "types"); code != 2 || !strings.Contains(stderr, "invalid --log-level") {
		t.Errorf("bad log level: code = %d, stderr = %q", code, stderr)
	}
	if code, stdout, _ := runCLI(t, "--help"); code != 0 || !strings.Contains(stdout, "resolve") {
		t.Errorf("--help: code = %d\n%s", code, stdout)
	}
}

func TestVersionJSON(t *testing.T) {
	code, stdout, _ := runCLI(t, "version", "--json")
	if code != 0 {
		t.Fatalf("code = %d", code)
	}
	var v versionInfo
	if err := json.Unmarshal([]byte(stdout), &v); err != nil || v.Version == "" {
		t.Errorf("version output %q: %v", stdout, err)
	}
}
