// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/archmagece/gitmgr/internal/prefs"
	"github.com/archmagece/gitmgr/pkg/ops"
	"github.com/archmagece/gitmgr/pkg/progress"
	"github.com/archmagece/gitmgr/pkg/repoop"
)

// defaultManifestName is the file spec.md §6 shows as the manifest's
// canonical name and the one `init` writes against.
const defaultManifestName = ".gitrepos"

// engine builds one repoop.Engine per invocation, wired to the
// cliShellHook so credential/trust prompts reach the terminal.
func engine() *repoop.Engine {
	return repoop.NewEngineWithHook(newCLIShellHook())
}

// bus returns the progress renderer for this invocation: silent
// invocations get progress.NoopBus, everything else gets the ANSI
// renderer in renderer.go.
func bus() progress.Bus {
	if silent {
		return progress.NoopBus{}
	}
	return newANSIBus()
}

// resolveManifest turns a --config flag value (possibly empty) into an
// absolute manifest path plus the root directory its relative entries are
// resolved against, per spec.md §3's RunContext.Root.
func resolveManifest(configPath string) (root, manifestPath string, err error) {
	if configPath == "" {
		configPath = defaultManifestName
	}
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return "", "", fmt.Errorf("gitmgr: resolving %s: %w", configPath, err)
	}
	return filepath.Dir(abs), abs, nil
}

// buildRunContext assembles an ops.RunContext from the flags common to
// every op-bearing subcommand.
func buildRunContext(configPath string, concurrency, depth int, ignore, labels []string) (ops.RunContext, error) {
	root, manifestPath, err := resolveManifest(configPath)
	if err != nil {
		return ops.RunContext{}, err
	}
	// A flag value of 0 means the user didn't pass --thread/--depth; fall
	// back to the user's preferences file before the engine's own
	// built-in defaults (scheduler.DefaultConcurrency, full-history fetch).
	if concurrency == 0 || depth == 0 {
		if p, err := prefs.Load(); err == nil {
			if concurrency == 0 {
				concurrency = p.Concurrency
			}
			if depth == 0 {
				depth = p.Depth
			}
		}
	}
	return ops.RunContext{
		Root:         root,
		ManifestPath: manifestPath,
		Concurrency:  concurrency,
		Depth:        depth,
		Ignore:       ignore,
		Labels:       labels,
		Hook:         newCLIShellHook(),
		Bus:          bus(),
	}, nil
}

// printSummary writes an op's final one-line result, already reported
// per-repo live via the ProgressBus.
func printSummary(r ops.Result) {
	if silent || r.Op == "" {
		return
	}
	fmt.Println(r.Summary)
}
