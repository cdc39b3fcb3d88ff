package repoop

import (
	"context"

	"github.com/archmagece/gitmgr/internal/engineerr"
	"github.com/archmagece/gitmgr/pkg/progress"
)

// Sync drives one repo through the full state machine from spec.md §4.3:
// EnsureWorkdir -> ClassifyRepo -> Init/UpdateRemote -> Fetch(retry) ->
// DecideRef -> PreCheckout(stash mode) -> Checkout/Reset -> SparseApply ->
// Track -> PostStash.
func (e *Engine) Sync(ctx context.Context, plan RepoPlan) (Outcome, *engineerr.Error) {
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

	ref := DecideRef(plan)
	if err := e.verifyRef(ctx, plan.WorkDir, ref); err != nil {
		return Outcome{}, wrapRepo(err, repo)
	}

	if plan.NoCheckout {
		return Outcome{Message: progress.Text(repo + ": fetched (no-checkout)")}, nil
	}

	var stashRef string
	dirty, err := e.isDirty(ctx, plan.WorkDir)
	if err != nil {
		return Outcome{}, wrapRepo(err, repo)
	}
	if dirty {
		switch plan.StashMode {
		case StashModeNormal:
			return Outcome{}, wrapRepo(engineerr.New(engineerr.InvalidRepoConfig, "working tree is dirty"), repo)
		case StashModeStash:
			created, stashErr := e.saveStash(ctx, plan.WorkDir)
			if stashErr != nil {
				return Outcome{}, wrapRepo(stashErr, repo)
			}
			stashRef = created
		case StashModeHard:
			// no stash; reset --hard below obliterates local changes.
		}
	}

	if err := e.checkoutOrReset(ctx, plan.WorkDir, ref); err != nil {
		if stashRef != "" {
			_ = e.popStash(ctx, plan.WorkDir, stashRef)
		}
		return Outcome{}, wrapRepo(err, repo)
	}

	if err := e.applySparse(ctx, plan.WorkDir, plan.Entry.Sparse); err != nil {
		return Outcome{}, wrapRepo(err, repo)
	}

	untracked := false
	if !plan.NoTrack {
		var trackErr error
		untracked, trackErr = e.track(ctx, plan.WorkDir, ref)
		if trackErr != nil {
			return Outcome{}, wrapRepo(trackErr, repo)
		}
	}

	if stashRef != "" {
		if err := e.popStash(ctx, plan.WorkDir, stashRef); err != nil {
			return Outcome{}, wrapRepo(err, repo)
		}
	}

	msg := repo + ": synced"
	if untracked {
		msg = repo + ": untracked (commit/tag pin)"
	}
	return Outcome{Message: progress.Styled(msg, progress.ColorSuccess)}, nil
}

// wrapRepo tags an error with the failing repo's display path, unless it
// already carries one. Every internal helper in this package already
// constructs its errors via engineerr.New/Wrap/GitFailure but returns
// them through the plain `error` interface (so ordinary Go control flow
// like `if err != nil` reads naturally inside them); wrapRepo is the one
// place that interface gets narrowed back to *engineerr.Error for the
// Outcome the Scheduler expects.
func wrapRepo(err error, repo string) *engineerr.Error {
	if err == nil {
		return nil
	}
	e, ok := err.(*engineerr.Error)
	if !ok {
		return engineerr.Wrap(engineerr.IOError, repo, err)
	}
	if e.Repo == "" {
		e.Repo = repo
	}
	return e
}
