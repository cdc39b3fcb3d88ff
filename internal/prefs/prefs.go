// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package prefs loads the CLI's optional per-user preferences file,
// ~/.config/gitmgr/config.yaml (XDG config-dir resolution, a single YAML
// file unmarshaled into a plain struct), trimmed to the one layer this
// engine actually needs: user-wide defaults for flags the caller didn't
// set. There is no project config, no profile switching, and no
// precedence chain — the engine takes its configuration entirely through
// RunContext, so this package only ever supplies fallback values for a
// handful of CLI flags before RunContext is built.
package prefs

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigDirName is the XDG config subdirectory this tool uses.
const ConfigDirName = "gitmgr"

// Prefs holds the subset of user preferences the CLI consults as flag
// defaults. Zero values mean "unset"; callers fall back further to the
// engine's own built-in defaults (scheduler.DefaultConcurrency, depth 0
// meaning full history).
type Prefs struct {
	// DefaultRemote is read from the preferences file and kept here; no
	// command and no engine code consults it.
	DefaultRemote string `yaml:"default-remote"`

	// Concurrency overrides scheduler.DefaultConcurrency when the command
	// line doesn't pass --thread.
	Concurrency int `yaml:"concurrency"`

	// Depth overrides the default (full-history) --depth when the command
	// line doesn't pass one.
	Depth int `yaml:"depth"`
}

// Path returns the resolved preferences file path:
// $XDG_CONFIG_HOME/gitmgr/config.yaml, falling back to
// ~/.config/gitmgr/config.yaml when XDG_CONFIG_HOME is unset.
func Path() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, ConfigDirName, "config.yaml"), nil
}

// Load reads and parses the preferences file. A missing file is not an
// error: it returns a zero-value Prefs, since every field already means
// "unset" at its zero value.
func Load() (Prefs, error) {
	path, err := Path()
	if err != nil {
		return Prefs{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Prefs{}, nil
		}
		return Prefs{}, err
	}

	var p Prefs
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Prefs{}, err
	}
	return p, nil
}
