package ops

import (
	"context"

	"github.com/archmagece/gitmgr/internal/engineerr"
	"github.com/archmagece/gitmgr/pkg/progress"
	"github.com/archmagece/gitmgr/pkg/repoop"
	"github.com/archmagece/gitmgr/pkg/scheduler"
)

// Fetch implements spec.md §4.3's fetch operation across every filtered
// repo: EnsureWorkdir -> ClassifyRepo -> InitIfMissing ->
// UpdateRemoteIfMismatch -> Fetch(retry) -> Success.
func Fetch(ctx context.Context, rc RunContext, engine *repoop.Engine) (Result, error) {
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
				outcome, err := engine.Fetch(ctx, plan)
				return outcome.Message, err
			},
		})
	}

	concurrency := rc.Concurrency
	if concurrency <= 0 {
		concurrency = scheduler.DefaultConcurrency(scheduler.OpFetch)
	}

	batch := scheduler.Run(ctx, tasks, concurrency, rc.bus())
	return Result{Op: "fetch", Batch: batch, Summary: summarize("fetch", batch)}, nil
}
