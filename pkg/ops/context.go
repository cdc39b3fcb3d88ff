// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package ops wires manifest.Manifest, repoop.Engine, scheduler.Run and
// manifest.Writer together into the operation entry points spec.md
// §2's "Control flow" describes: validate inputs, load the Manifest, apply
// the label+ignore filter, construct one RepoOp per surviving repo, hand
// the task list to the Scheduler with a ProgressBus, collect per-repo
// outcomes, write the mutated Manifest for write operations, and return an
// aggregate outcome. None of the individual packages (manifest, repoop,
// scheduler) know about each other's callers; this package is where they
// meet, as reusable library code instead of duplicated per-command
// cobra.Run bodies.
package ops

import (
	"path/filepath"

	"github.com/archmagece/gitmgr/internal/engineerr"
	"github.com/archmagece/gitmgr/pkg/manifest"
	"github.com/archmagece/gitmgr/pkg/progress"
	"github.com/archmagece/gitmgr/pkg/repoop"
	"github.com/archmagece/gitmgr/pkg/scheduler"
	"github.com/archmagece/gitmgr/pkg/shellhook"
)

// RunContext is the per-invocation context shared read-only across every
// RepoOp in one call, per spec.md §3's "Lifecycle" ("RunContext lives for
// one CLI/API call").
type RunContext struct {
	// Root is the directory the manifest's relative paths are resolved
	// against.
	Root string

	// ManifestPath is the .gitrepos file to load (and, for write
	// operations, to save back).
	ManifestPath string

	// Concurrency overrides scheduler.DefaultConcurrency for this call;
	// 0 means "use the op's default".
	Concurrency int

	// Depth limits fetch/clone depth; 0 means full history.
	Depth int

	// Ignore lists manifest-relative paths to skip, "." aliasing the root
	// entry.
	Ignore []string

	// Labels filters to repos carrying at least one of these labels
	// (empty means no filtering); ["none"] is the exclude-all sentinel.
	Labels []string

	// Hook is the credential/trust interaction surface RepoOp consults.
	// Defaults to shellhook.NoopHook{} when nil.
	Hook shellhook.Hook

	// Bus receives progress events. Defaults to progress.NoopBus{} when
	// nil.
	Bus progress.Bus
}

func (rc RunContext) hook() shellhook.Hook {
	if rc.Hook == nil {
		return shellhook.NoopHook{}
	}
	return rc.Hook
}

func (rc RunContext) bus() progress.Bus {
	if rc.Bus == nil {
		return progress.NoopBus{}
	}
	return rc.Bus
}

// Result is the user-visible aggregate outcome from spec.md §7: a styled
// summary plus the underlying per-repo outcomes, so a CLI can print
// per-repo lines (already delivered live via ProgressBus) and then the
// final "<op>: success" / "<op> failed (k of n)" line.
type Result struct {
	Op      string
	Batch   scheduler.AggregateResult
	Summary string
}

// Err returns the aggregate engine error for r, or nil if every repo
// succeeded.
func (r Result) Err() error {
	return r.Batch.Err(r.Op)
}

func summarize(op string, batch scheduler.AggregateResult) string {
	if len(batch.Failed) == 0 {
		return op + ": success"
	}
	return op + " failed (" + itoa(len(batch.Failed)) + " of " + itoa(len(batch.Outcomes)) + ")"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if neg {
		digits = append([]byte{'-'}, digits...)
	}
	return string(digits)
}

// loadFiltered loads and validates the manifest at rc.ManifestPath and
// returns it alongside the filtered, indexed entry list every operation
// iterates over.
func loadFiltered(rc RunContext) (*manifest.Manifest, []manifest.IndexedEntry, error) {
	m, err := manifest.Load(rc.ManifestPath)
	if err != nil {
		return nil, nil, err
	}
	if err := manifest.Validate(m); err != nil {
		return nil, nil, err
	}
	filtered := manifest.Filter(m.Repos, rc.Ignore, rc.Labels)
	return m, filtered, nil
}

// planFor derives a repoop.RepoPlan from one filtered entry, resolving its
// working directory against rc.Root.
func planFor(rc RunContext, m *manifest.Manifest, ie manifest.IndexedEntry, opts syncOptions) repoop.RepoPlan {
	workDir := rc.Root
	if ie.Entry.Local != "" {
		workDir = filepath.Join(rc.Root, ie.Entry.Local)
	}
	return repoop.RepoPlan{
		Entry:         ie.Entry,
		Index:         ie.Index,
		WorkDir:       workDir,
		DefaultBranch: m.DefaultBranch,
		DefaultRemote: m.DefaultRemote,
		Depth:         rc.Depth,
		StashMode:     opts.StashMode,
		NoTrack:       opts.NoTrack,
		NoCheckout:    opts.NoCheckout,
	}
}

// syncOptions carries the sync-specific flags that don't apply to the
// other operations, kept separate from RunContext so Fetch/Track/etc.
// callers don't have to reason about stash modes they never use.
type syncOptions struct {
	StashMode  repoop.StashMode
	NoTrack    bool
	NoCheckout bool
}

// validateStashHard implements spec.md §4.3's "Stash and Hard are mutually
// exclusive at option-parse time" rule: returns StashHardConflict before
// any RepoOp is scheduled if the caller asked for both.
func validateStashHard(stash, hard bool) error {
	if stash && hard {
		return engineerr.ErrStashHardConflict
	}
	return nil
}
