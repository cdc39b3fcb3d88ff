// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsZeroValue(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	p, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p != (Prefs{}) {
		t.Fatalf("expected zero-value Prefs, got %+v", p)
	}
}

func TestLoadParsesConcurrencyAndDepth(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	confDir := filepath.Join(dir, ConfigDirName)
	if err := os.MkdirAll(confDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	content := "default-remote: https://example.test/\nconcurrency: 6\ndepth: 50\n"
	if err := os.WriteFile(filepath.Join(confDir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Prefs{DefaultRemote: "https://example.test/", Concurrency: 6, Depth: 50}
	if p != want {
		t.Fatalf("Load() = %+v, want %+v", p, want)
	}
}

func TestPathUsesHomeWhenXDGUnset(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", home)

	got, err := Path()
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	want := filepath.Join(home, ".config", ConfigDirName, "config.yaml")
	if got != want {
		t.Fatalf("Path() = %q, want %q", got, want)
	}
}
