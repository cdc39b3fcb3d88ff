// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package repoop

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/archmagece/gitmgr/internal/gitcmd"
)

func TestDiagnoseCleanRepo(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	root := t.TempDir()
	remote := initBareRemote(t, root, "x")
	workDir := filepath.Join(root, "work")
	g := gitcmd.NewExecutor()
	run(t, g, root, "clone", remote, workDir)

	e := newTestEngine()
	d, err := e.Diagnose(context.Background(), RepoPlan{WorkDir: workDir})
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if d.Dirty {
		t.Error("Dirty = true, want false for freshly cloned repo")
	}
	if d.Detached {
		t.Error("Detached = true, want false")
	}
	if d.Branch != "main" {
		t.Errorf("Branch = %q, want main", d.Branch)
	}
}

func TestDiagnoseDirtyRepo(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	root := t.TempDir()
	remote := initBareRemote(t, root, "x")
	workDir := filepath.Join(root, "work")
	g := gitcmd.NewExecutor()
	run(t, g, root, "clone", remote, workDir)
	if err := os.WriteFile(filepath.Join(workDir, "new.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	e := newTestEngine()
	d, err := e.Diagnose(context.Background(), RepoPlan{WorkDir: workDir})
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !d.Dirty {
		t.Error("Dirty = false, want true")
	}
}

func TestDiagnoseNotARepo(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	e := newTestEngine()
	_, err := e.Diagnose(context.Background(), RepoPlan{WorkDir: t.TempDir()})
	if err == nil {
		t.Fatal("Diagnose: expected error for non-repo directory, got nil")
	}
}
