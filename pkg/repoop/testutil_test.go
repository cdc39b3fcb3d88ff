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

// newTestEngine returns an Engine with no hook, matching the default CLI
// wiring for non-interactive ops.
func newTestEngine() *Engine {
	return NewEngine()
}

// initBareRemote creates a bare repo at dir/name.git seeded with one
// commit on "main", returning its filesystem path for use as a plan's
// remote URL (a local path is a valid git remote).
func initBareRemote(t *testing.T, dir, name string) string {
	t.Helper()
	g := gitcmd.NewExecutor()

	seed := filepath.Join(dir, name+"-seed")
	if err := os.MkdirAll(seed, 0o755); err != nil {
		t.Fatalf("MkdirAll seed: %v", err)
	}
	run(t, g, seed, "init", "-b", "main")
	run(t, g, seed, "config", "user.email", "test@example.com")
	run(t, g, seed, "config", "user.name", "Test")
	if err := os.WriteFile(filepath.Join(seed, "README.md"), []byte("hello\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	run(t, g, seed, "add", "-A")
	run(t, g, seed, "commit", "-m", "initial")

	bare := filepath.Join(dir, name+".git")
	run(t, g, dir, "clone", "--bare", seed, bare)
	return bare
}

// commitFile adds and commits a file in workDir, returning the new
// commit's SHA.
func commitFile(t *testing.T, workDir, name, content, msg string) string {
	t.Helper()
	g := gitcmd.NewExecutor()
	ctx := context.Background()
	if err := os.WriteFile(filepath.Join(workDir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	run(t, g, workDir, "add", "-A")
	run(t, g, workDir, "commit", "-m", msg)
	out, err := g.RunOutput(ctx, workDir, "rev-parse", "HEAD")
	if err != nil {
		t.Fatalf("rev-parse HEAD: %v", err)
	}
	return trimNL(out)
}

func run(t *testing.T, g *gitcmd.Executor, dir string, args ...string) {
	t.Helper()
	result, err := g.Run(context.Background(), dir, args...)
	if err != nil {
		t.Fatalf("git %v: %v", args, err)
	}
	if result.ExitCode != 0 {
		t.Fatalf("git %v: exit %d: %s", args, result.ExitCode, result.Stderr)
	}
}

func trimNL(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
