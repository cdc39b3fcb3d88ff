// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package repoop

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/archmagece/gitmgr/internal/gitcmd"
)

func setupSparseRepo(t *testing.T) (workDir string) {
	t.Helper()
	root := t.TempDir()
	remote := initBareRemote(t, root, "x")
	workDir = filepath.Join(root, "work")
	g := gitcmd.NewExecutor()
	run(t, g, root, "clone", remote, workDir)
	return workDir
}

func TestApplySparseEnablesNoConeSet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	workDir := setupSparseRepo(t)
	e := newTestEngine()

	if err := e.applySparse(context.Background(), workDir, []string{"subdir/a", "subdir/b"}); err != nil {
		t.Fatalf("applySparse: %v", err)
	}

	g := gitcmd.NewExecutor()
	out, err := g.RunOutput(context.Background(), workDir, "sparse-checkout", "list")
	if err != nil {
		t.Fatalf("sparse-checkout list: %v", err)
	}
	if !strings.Contains(out, "subdir/a") || !strings.Contains(out, "subdir/b") {
		t.Fatalf("sparse-checkout list = %q, want both paths", out)
	}
}

func TestApplySparseDisablesWhenDesiredEmpty(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	workDir := setupSparseRepo(t)
	e := newTestEngine()

	if err := e.applySparse(context.Background(), workDir, []string{"subdir/a"}); err != nil {
		t.Fatalf("applySparse enable: %v", err)
	}
	if err := e.applySparse(context.Background(), workDir, nil); err != nil {
		t.Fatalf("applySparse disable: %v", err)
	}

	g := gitcmd.NewExecutor()
	ok, err := g.RunQuiet(context.Background(), workDir, "config", "--get", "core.sparseCheckout")
	if err != nil {
		t.Fatalf("config --get: %v", err)
	}
	if ok {
		out, _ := g.RunOutput(context.Background(), workDir, "config", "--get", "core.sparseCheckout")
		if strings.TrimSpace(out) == "true" {
			t.Fatalf("core.sparseCheckout still true after disable")
		}
	}
}

func TestApplySparseNoopWhenNeverEnabled(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	workDir := setupSparseRepo(t)
	e := newTestEngine()

	if err := e.applySparse(context.Background(), workDir, nil); err != nil {
		t.Fatalf("applySparse no-op: %v", err)
	}
}
