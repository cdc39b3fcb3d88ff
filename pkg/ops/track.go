package ops

import (
	"context"

	"github.com/archmagece/gitmgr/internal/engineerr"
	"github.com/archmagece/gitmgr/pkg/progress"
	"github.com/archmagece/gitmgr/pkg/repoop"
	"github.com/archmagece/gitmgr/pkg/scheduler"
)

// Track implements spec.md §4.3's track operation: for each filtered repo,
// set the upstream branch.Set-upstream-to implied by its pin, or report
// "untracked" for commit/tag pins rather than failing the batch.
func Track(ctx context.Context, rc RunContext, engine *repoop.Engine) (Result, error) {
	m, filtered, err := loadFiltered(rc)
	if err != nil {
		return Result{}, err
	}

	tasks := make([]scheduler.Task, 0, len(filtered))
	for _, ie := range filtered {
		plan := planFor(rc, m, ie, syncOptions{})
		tasks = append(tasks, scheduler.Task{
			ID: plan.RepoID(),
			Run: func(ctx context.Context) (progress.StyleMessage, *engineerr.Error) {
				outcome, err := engine.Track(ctx, plan)
				return outcome.Message, err
			},
		})
	}

	concurrency := rc.Concurrency
	if concurrency <= 0 {
		concurrency = scheduler.DefaultConcurrency(scheduler.OpTrack)
	}

	batch := scheduler.Run(ctx, tasks, concurrency, rc.bus())
	return Result{Op: "track", Batch: batch, Summary: summarize("track", batch)}, nil
}
