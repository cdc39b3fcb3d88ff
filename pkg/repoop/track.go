package repoop

import (
	"context"

	"github.com/archmagece/gitmgr/internal/engineerr"
	"github.com/archmagece/gitmgr/pkg/progress"
)

// Track implements spec.md §4.3's track operation: compute the intended
// upstream from the entry's pin and set it, or emit an "untracked" info
// line for commit/tag pins rather than an error.
func (e *Engine) Track(ctx context.Context, plan RepoPlan) (Outcome, *engineerr.Error) {
	repo := plan.Display()

	if !e.Git.IsGitRepository(ctx, plan.WorkDir) {
		return Outcome{}, wrapRepo(engineerr.New(engineerr.DirNotFound, plan.WorkDir), repo)
	}

	ref := DecideRef(plan)
	untracked, err := e.track(ctx, plan.WorkDir, ref)
	if err != nil {
		return Outcome{}, wrapRepo(err, repo)
	}
	if untracked {
		return Outcome{Message: progress.Text(repo + ": untracked (commit/tag pin)")}, nil
	}
	return Outcome{Message: progress.Styled(repo+": tracking "+ref.Ref, progress.ColorSuccess)}, nil
}
