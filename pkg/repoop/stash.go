package repoop

import (
	"context"
	"strings"

	"github.com/archmagece/gitmgr/internal/engineerr"
)

// saveStash implements spec.md §4.3's stash discipline: untracked files
// are staged first so a plain `git stash create` captures them, then the
// created stash (if any) is stored as a named entry so the caller can
// track whether one was actually produced — unlike a plain `git stash
// push`/`pop` pair, sync needs to know whether THIS op created a stash so
// PostStash can be a safe no-op when the tree was already clean.
func (e *Engine) saveStash(ctx context.Context, workDir string) (ref string, err error) {
	if _, runErr := e.Git.Run(ctx, workDir, "add", "-A"); runErr != nil {
		return "", engineerr.Wrap(engineerr.IOError, "", runErr)
	}

	out, err := e.Git.RunOutput(ctx, workDir, "stash", "create")
	if err != nil {
		return "", engineerr.Wrap(engineerr.IOError, "", err)
	}
	sha := strings.TrimSpace(out)
	if sha == "" {
		return "", nil
	}

	if _, err := e.Git.Run(ctx, workDir, "stash", "store", "-m", "gitmgr sync autostash", sha); err != nil {
		return "", engineerr.Wrap(engineerr.IOError, "", err)
	}
	return sha, nil
}

// popStash restores a stash created by saveStash. No-op if ref is empty,
// matching spec.md's "pop only if a stash was actually created" rule.
func (e *Engine) popStash(ctx context.Context, workDir, ref string) error {
	if ref == "" {
		return nil
	}
	result, err := e.Git.Run(ctx, workDir, "stash", "pop")
	if err != nil {
		return engineerr.Wrap(engineerr.IOError, "", err)
	}
	if result.ExitCode != 0 {
		return engineerr.GitFailure("", []string{"stash", "pop"}, result.ExitCode, result.Stderr)
	}
	return nil
}

// isDirty reports whether the working tree has any uncommitted change,
// used by PreCheckout under StashModeNormal to fail fast.
func (e *Engine) isDirty(ctx context.Context, workDir string) (bool, error) {
	out, err := e.Git.RunOutput(ctx, workDir, "status", "--porcelain")
	if err != nil {
		return false, engineerr.Wrap(engineerr.IOError, "", err)
	}
	return strings.TrimSpace(out) != "", nil
}
