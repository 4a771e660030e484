package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chimp/internal/symfmt"
)

const goodTree = `{"file": "good.chm", "module": {"kind": "module", "body": [
  {"kind": "var", "name": "n", "value": {"kind": "int", "lit": "1"}},
  {"kind": "func", "name": "f", "body": [
    {"kind": "return", "value": {"kind": "ident", "name": "n"}}]}]}}`

const badTree = `{"file": "bad.chm", "module": {"kind": "module", "body": [
  {"kind": "func", "name": "f", "body": [
    {"kind": "return", "value": {"kind": "ident", "name": "missing"}}]}]}}`

// execute runs the CLI inside dir with an isolated user cache.
func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Chdir(dir)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, ".xdg"))
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func write(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestInitThenResolveJSON(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, dir, "init", "demo")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out, `"demo"`) {
		t.Fatalf("unexpected init output %q", out)
	}
	project := filepath.Join(dir, "demo")
	write(t, filepath.Join(project, "trees", "good.json"), goodTree)

	out, err = execute(t, project, "resolve", "--format", "json")
	if err != nil {
		t.Fatalf("resolve: %v\n%s", err, out)
	}
	var doc symfmt.Output
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if doc.Count != 1 || doc.Errors != 0 || doc.Units[0].Symbols == nil {
		t.Fatalf("unexpected output %+v", doc)
	}

	// the second run is served by the project cache
	out, err = execute(t, project, "resolve", "--format", "json")
	if err != nil {
		t.Fatalf("resolve again: %v", err)
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil || !doc.Units[0].Cached {
		t.Fatalf("expected cached unit: %v\n%s", err, out)
	}

	if _, err := execute(t, project, "init"); err == nil {
		t.Fatalf("expected second init to fail")
	}
}

func TestResolveReportsErrors(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "bad.json"), badTree)
	write(t, filepath.Join(dir, "good.json"), goodTree)

	out, err := execute(t, dir, "--color", "off", "resolve", "--no-cache")
	if !errors.Is(err, errUnitsFailed) {
		t.Fatalf("expected errUnitsFailed, got %v", err)
	}
	for _, want := range []string{"SEM3005", `undefined symbol "missing"`, "good.chm: 2 scopes"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestResolveBuiltinFlag(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "bad.json"), badTree)
	out, err := execute(t, dir, "resolve", "--no-cache", "--builtin", "missing", "--format", "short")
	if err != nil {
		t.Fatalf("resolve: %v\n%s", err, out)
	}
}

func TestResolveRejectsBadFlags(t *testing.T) {
	dir := t.TempDir()
	if _, err := execute(t, dir, "resolve", "--format", "xml"); err == nil {
		t.Fatalf("expected format error")
	}
	if _, err := execute(t, dir, "resolve", "--ui", "sometimes"); err == nil {
		t.Fatalf("expected ui error")
	}
	if _, err := execute(t, dir, "--trace-level", "loud", "resolve"); err == nil {
		t.Fatalf("expected trace level error")
	}
}

func TestResolveWithTrace(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "good.json"), goodTree)
	tracePath := filepath.Join(dir, "trace.ndjson")
	if _, err := execute(t, dir, "--trace", tracePath, "--trace-level", "debug", "resolve", "--no-cache", "--quiet"); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	data, err := os.ReadFile(tracePath)
	if err != nil {
		t.Fatalf("read trace: %v", err)
	}
	if !strings.Contains(string(data), "symbols:good.chm") {
		t.Fatalf("trace misses the resolve span:\n%s", data)
	}
}

func TestCleanAndVersion(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, dir, "clean")
	if err != nil || !strings.Contains(out, "removed cache entries") {
		t.Fatalf("clean: %v %q", err, out)
	}
	out, err = execute(t, dir, "version", "--format", "json", "--hash")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode version: %v", err)
	}
	if payload.Tool != "chimp" || payload.GitCommit == "" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, "on": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Fatalf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if shouldUseTUI(uiModeOff, "pretty") || !shouldUseTUI(uiModeOn, "json") {
		t.Fatalf("explicit modes must win")
	}
}
