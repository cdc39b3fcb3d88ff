package repoop

import (
	"context"
	"strings"

	"github.com/archmagece/gitmgr/internal/engineerr"
)

// applySparse implements spec.md §4.3's SparseApply step: a non-empty
// desired path set enables no-cone sparse-checkout with those paths; an
// empty desired set disables sparse-checkout if currently enabled, and is
// a no-op otherwise (queried via `sparse-checkout list` only when needed
// to diff, per spec.md).
func (e *Engine) applySparse(ctx context.Context, workDir string, desired []string) error {
	if len(desired) > 0 {
		args := append([]string{"sparse-checkout", "set", "--no-cone"}, desired...)
		result, err := e.Git.Run(ctx, workDir, args...)
		if err != nil {
			return engineerr.Wrap(engineerr.IOError, "", err)
		}
		if result.ExitCode != 0 {
			return engineerr.GitFailure("", args, result.ExitCode, result.Stderr)
		}
		return nil
	}

	current, err := e.Git.RunOutput(ctx, workDir, "sparse-checkout", "list")
	if err != nil {
		// sparse-checkout list fails with a non-repo-fatal error when
		// sparse-checkout was never enabled; treat as "nothing to disable".
		return nil
	}
	if strings.TrimSpace(current) == "" {
		return nil
	}

	result, err := e.Git.Run(ctx, workDir, "sparse-checkout", "disable")
	if err != nil {
		return engineerr.Wrap(engineerr.IOError, "", err)
	}
	if result.ExitCode != 0 {
		return engineerr.GitFailure("", []string{"sparse-checkout", "disable"}, result.ExitCode, result.Stderr)
	}
	return nil
}
