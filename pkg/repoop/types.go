// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package repoop implements the per-repo state machine: sync, fetch,
// clean, track, snapshot, new-remote-branch, del-remote-branch, new-tag,
// and diagnose. Clone-or-update branching and per-strategy checkout logic
// are generalized into pin-aware operations driven by a manifest entry
// instead of a bare URL+strategy pair.
package repoop

import (
	"github.com/archmagece/gitmgr/internal/gitcmd"
	"github.com/archmagece/gitmgr/pkg/manifest"
	"github.com/archmagece/gitmgr/pkg/progress"
	"github.com/archmagece/gitmgr/pkg/shellhook"
)

// StashMode governs how PreCheckout handles a dirty working tree during sync.
type StashMode int

const (
	// StashModeNormal fails fast if the working tree is dirty.
	StashModeNormal StashMode = iota
	// StashModeStash saves local modifications (including untracked files)
	// before checkout/reset and restores them afterward.
	StashModeStash
	// StashModeHard discards local modifications; reset --hard obliterates them.
	StashModeHard
)

// RemoteRefKind identifies which pin kind a RemoteRef was resolved from.
type RemoteRefKind int

const (
	RemoteRefNone RemoteRefKind = iota
	RemoteRefCommit
	RemoteRefTag
	RemoteRefBranch
)

// RemoteRef is the resolved upstream reference a sync/fetch drives the
// local tree to, per spec.md §3's glossary entry and §4.3's ref-resolution
// priority (commit > tag > branch).
type RemoteRef struct {
	Kind RemoteRefKind

	// Ref is the string passed to git: the commit SHA, the tag name, or
	// "origin/<branch>" for branch refs.
	Ref string

	// BranchName is the bare branch name (no "origin/" prefix), populated
	// only for RemoteRefBranch, since checkout -B needs the bare name.
	BranchName string
}

// RepoPlan is derived once per RepoOp invocation from a RepoEntry plus
// RunContext, per spec.md §3. It is immutable for the duration of one op.
type RepoPlan struct {
	// Entry is the manifest entry this plan was derived from.
	Entry manifest.RepoEntry

	// Index is the entry's position in the filtered, sorted repo list —
	// becomes the RepoId used for progress routing.
	Index int

	// WorkDir is the absolute local working directory for this repo.
	WorkDir string

	// DefaultBranch is the manifest's default_branch, used when the entry
	// has no pin at all.
	DefaultBranch string

	// DefaultRemote is the manifest's default_remote, used when the entry
	// has no remote of its own.
	DefaultRemote string

	// Depth limits fetch/clone depth; 0 means full history.
	Depth int

	// StashMode governs PreCheckout behavior during sync.
	StashMode StashMode

	// NoTrack skips the Track step after checkout/reset.
	NoTrack bool

	// NoCheckout short-circuits after Fetch+DecideRef, leaving the working
	// tree untouched.
	NoCheckout bool
}

// Remote returns the plan's effective remote URL: the entry's own remote
// if set, else the manifest default.
func (p RepoPlan) Remote() string {
	if p.Entry.Remote != "" {
		return p.Entry.Remote
	}
	return p.DefaultRemote
}

// Display returns the path used in progress output: the entry's local
// path, or "." for the root entry.
func (p RepoPlan) Display() string {
	if p.Entry.Local == "" {
		return "."
	}
	return p.Entry.Local
}

// RepoID returns this plan's stable progress identity.
func (p RepoPlan) RepoID() progress.RepoID {
	return progress.RepoID{Index: p.Index, Display: p.Display()}
}

// Outcome is one RepoOp's user-visible result, reported through the
// Scheduler/ProgressBus.
type Outcome struct {
	// Message summarizes what happened ("cloned", "up to date", "untracked: pinned to commit").
	Message progress.StyleMessage

	// NewPin is set when the op mutated this repo's pin (new-remote-branch,
	// new-tag with in-memory tracking), for the caller to fold into a
	// manifest.PinUpdate after the batch completes.
	NewPin *manifest.Pin
}

// Engine bundles the dependencies every RepoOp needs: the git backend and
// the interactive/credential hook. Built once per RunContext and shared
// read-only across concurrent RepoOp invocations (the backend and hook are
// themselves safe for concurrent use).
type Engine struct {
	Git  *gitcmd.Executor
	Hook shellhook.Hook
}

// NewEngine creates an Engine with a default Executor and a NoopHook.
func NewEngine() *Engine {
	return &Engine{Git: gitcmd.NewExecutor(), Hook: shellhook.NoopHook{}}
}

// NewEngineWithHook creates an Engine with a default Executor and the
// given interactive/credential hook.
func NewEngineWithHook(hook shellhook.Hook) *Engine {
	return &Engine{Git: gitcmd.NewExecutor(), Hook: hook}
}
