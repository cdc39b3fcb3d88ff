// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package repoop

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/archmagece/gitmgr/internal/gitcmd"
	"github.com/archmagece/gitmgr/pkg/manifest"
)

func TestTrackSetsUpstreamForBranchPin(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	root := t.TempDir()
	remote := initBareRemote(t, root, "x")
	workDir := filepath.Join(root, "work")
	g := gitcmd.NewExecutor()
	run(t, g, root, "clone", remote, workDir)
	run(t, g, workDir, "branch", "--unset-upstream")

	e := newTestEngine()
	plan := RepoPlan{Entry: manifest.RepoEntry{Local: "x", Pin: manifest.Pin{Branch: "main"}}, WorkDir: workDir}

	outcome, err := e.Track(context.Background(), plan)
	if err != nil {
		t.Fatalf("Track: %v", err)
	}
	if outcome.Message == nil {
		t.Fatal("expected a success message")
	}

	out, gerr := g.RunOutput(context.Background(), workDir, "rev-parse", "--abbrev-ref", "main@{upstream}")
	if gerr != nil {
		t.Fatalf("rev-parse upstream: %v", gerr)
	}
	if trimNL(out) != "origin/main" {
		t.Fatalf("upstream = %q, want origin/main", trimNL(out))
	}
}

func TestTrackReportsUntrackedForCommitPin(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	root := t.TempDir()
	remote := initBareRemote(t, root, "x")
	workDir := filepath.Join(root, "work")
	g := gitcmd.NewExecutor()
	run(t, g, root, "clone", remote, workDir)
	head, gerr := g.RunOutput(context.Background(), workDir, "rev-parse", "HEAD")
	if gerr != nil {
		t.Fatalf("rev-parse HEAD: %v", gerr)
	}

	e := newTestEngine()
	plan := RepoPlan{Entry: manifest.RepoEntry{Local: "x", Pin: manifest.Pin{Commit: trimNL(head)}}, WorkDir: workDir}

	outcome, err := e.Track(context.Background(), plan)
	if err != nil {
		t.Fatalf("Track: %v", err)
	}
	if outcome.Message == nil {
		t.Fatal("expected an untracked info message")
	}
}

func TestTrackFailsOnMissingDirectory(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	e := newTestEngine()
	plan := RepoPlan{WorkDir: filepath.Join(t.TempDir(), "missing")}

	_, err := e.Track(context.Background(), plan)
	if err == nil {
		t.Fatal("Track: expected error for missing directory, got nil")
	}
}
