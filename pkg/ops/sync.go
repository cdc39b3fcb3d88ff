package ops

import (
	"context"

	"github.com/archmagece/gitmgr/internal/engineerr"
	"github.com/archmagece/gitmgr/pkg/progress"
	"github.com/archmagece/gitmgr/pkg/repoop"
	"github.com/archmagece/gitmgr/pkg/scheduler"
)

// SyncOptions are the flags specific to `gitmgr sync`, per spec.md §6's CLI
// surface (`--stash|--hard`, `--no-track`, `--no-checkout`).
type SyncOptions struct {
	Stash      bool
	Hard       bool
	NoTrack    bool
	NoCheckout bool
}

// Sync runs the sync state machine (clone/fetch/reset/stash/sparse-checkout
// with retry) across every repo the manifest's filter selects, per spec.md
// §4.3. StashHardConflict is raised before any subprocess runs if both
// --stash and --hard are set, per spec.md §8 scenario 5.
func Sync(ctx context.Context, rc RunContext, engine *repoop.Engine, so SyncOptions) (Result, error) {
	if err := validateStashHard(so.Stash, so.Hard); err != nil {
		return Result{}, err
	}

	m, filtered, err := loadFiltered(rc)
	if err != nil {
		return Result{}, err
	}

	stashMode := repoop.StashModeNormal
	switch {
	case so.Stash:
		stashMode = repoop.StashModeStash
	case so.Hard:
		stashMode = repoop.StashModeHard
	}
	opts := syncOptions{StashMode: stashMode, NoTrack: so.NoTrack, NoCheckout: so.NoCheckout}

	tasks := make([]scheduler.Task, 0, len(filtered))
	for _, ie := range filtered {
		plan := planFor(rc, m, ie, opts)
		tasks = append(tasks, scheduler.Task{
			ID: plan.RepoID(),
			Run: func(ctx context.Context) (progress.StyleMessage, *engineerr.Error) {
				outcome, err := engine.Sync(ctx, plan)
				return outcome.Message, err
			},
		})
	}

	concurrency := rc.Concurrency
	if concurrency <= 0 {
		concurrency = scheduler.DefaultConcurrency(scheduler.OpSync)
	}

	batch := scheduler.Run(ctx, tasks, concurrency, rc.bus())
	_ = m // sync never mutates pins; m is only needed for plan derivation above.
	return Result{Op: "sync", Batch: batch, Summary: summarize("sync", batch)}, nil
}
