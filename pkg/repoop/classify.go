package repoop

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/archmagece/gitmgr/internal/engineerr"
	"github.com/archmagece/gitmgr/internal/gitcmd"
)

type repoClass int

const (
	classNotARepo repoClass = iota
	classRepo
	classRepoWrongRemote
)

// ensureWorkdir implements spec.md §4.3's EnsureWorkdir state: mkdir -p
// the plan's working directory.
func ensureWorkdir(workDir string) error {
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return engineerr.Wrap(engineerr.CreateDirFailed, "", err)
	}
	return nil
}

// classifyRepo implements spec.md §4.3's ClassifyRepo state.
func (e *Engine) classifyRepo(ctx context.Context, workDir, wantRemote string) (repoClass, error) {
	if !e.Git.IsGitRepository(ctx, workDir) {
		return classNotARepo, nil
	}
	if wantRemote == "" {
		return classRepo, nil
	}
	out, err := e.Git.RunOutput(ctx, workDir, "remote", "get-url", "origin")
	if err != nil {
		// No origin configured yet on an otherwise-valid repo: treat as
		// mismatched so UpdateRemoteIfMismatch adds it.
		return classRepoWrongRemote, nil
	}
	if strings.TrimSpace(out) != wantRemote {
		return classRepoWrongRemote, nil
	}
	return classRepo, nil
}

// initOrUpdateRemote implements spec.md §4.3's {InitIfMissing |
// UpdateRemoteIfMismatch | noop} step.
func (e *Engine) initOrUpdateRemote(ctx context.Context, class repoClass, workDir, remote string) error {
	switch class {
	case classNotARepo:
		result, err := e.Git.Run(ctx, workDir, "init")
		if err != nil {
			return engineerr.Wrap(engineerr.IOError, "", err)
		}
		if result.ExitCode != 0 {
			return engineerr.GitFailure("", []string{"init"}, result.ExitCode, result.Stderr)
		}
		if remote == "" {
			return engineerr.New(engineerr.NoRemoteConfigured, workDir)
		}
		result, err = e.Git.Run(ctx, workDir, "remote", "add", "origin", remote)
		if err != nil {
			return engineerr.Wrap(engineerr.IOError, "", err)
		}
		if result.ExitCode != 0 {
			return engineerr.GitFailure("", []string{"remote", "add", "origin", remote}, result.ExitCode, result.Stderr)
		}
	case classRepoWrongRemote:
		if remote == "" {
			return nil
		}
		args := []string{"remote", "set-url", "origin", remote}
		result, err := e.Git.Run(ctx, workDir, args...)
		if err == nil && result.ExitCode != 0 {
			// set-url fails when origin doesn't exist yet; add it instead.
			args = []string{"remote", "add", "origin", remote}
			result, err = e.Git.Run(ctx, workDir, args...)
		}
		if err != nil {
			return engineerr.Wrap(engineerr.IOError, "", err)
		}
		if result.ExitCode != 0 {
			return engineerr.GitFailure("", args, result.ExitCode, result.Stderr)
		}
	}
	return nil
}

// defaultFetchRetries/defaultFetchDelay implement spec.md §4.1/§7's fetch
// retry policy: 10 attempts, 400ms apart.
const (
	defaultFetchRetries = 10
	defaultFetchDelay   = 400 * time.Millisecond
)

// fetchWithRetry implements the Fetch(with retry, with --depth if
// configured) step, using gitcmd.Retry's fixed policy per spec.md §7
// ("Retries: applied only to fetch ... 10 attempts x 400ms").
func (e *Engine) fetchWithRetry(ctx context.Context, workDir string, depth int) error {
	args := []string{"fetch", "origin", "--prune"}
	if depth > 0 {
		args = append(args, "--depth", strconv.Itoa(depth))
	}

	return gitcmd.Retry(ctx, defaultFetchRetries, defaultFetchDelay, func() error {
		result, err := e.Git.Run(ctx, workDir, args...)
		if err != nil {
			return engineerr.Wrap(engineerr.IOError, "", err)
		}
		if result.ExitCode != 0 {
			return engineerr.GitFailure("", args, result.ExitCode, result.Stderr)
		}
		return nil
	})
}
