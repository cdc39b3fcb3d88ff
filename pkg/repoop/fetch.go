package repoop

import (
	"context"

	"github.com/archmagece/gitmgr/internal/engineerr"
	"github.com/archmagece/gitmgr/pkg/progress"
)

// Fetch implements spec.md §4.3's fetch operation: Start -> EnsureWorkdir
// -> ClassifyRepo -> InitIfMissing -> UpdateRemoteIfMismatch -> Fetch ->
// Success. A strict subset of Sync, stopping before ref resolution and
// checkout.
func (e *Engine) Fetch(ctx context.Context, plan RepoPlan) (Outcome, *engineerr.Error) {
	repo := plan.Display()

	if err := ensureWorkdir(plan.WorkDir); err != nil {
		return Outcome{}, wrapRepo(err, repo)
	}

	remote := plan.Remote()
	class, err := e.classifyRepo(ctx, plan.WorkDir, remote)
	if err != nil {
		return Outcome{}, wrapRepo(err, repo)
	}
	if err := e.initOrUpdateRemote(ctx, class, plan.WorkDir, remote); err != nil {
		return Outcome{}, wrapRepo(err, repo)
	}

	if err := e.fetchWithRetry(ctx, plan.WorkDir, plan.Depth); err != nil {
		return Outcome{}, wrapRepo(err, repo)
	}

	return Outcome{Message: progress.Styled(repo+": fetched", progress.ColorSuccess)}, nil
}
