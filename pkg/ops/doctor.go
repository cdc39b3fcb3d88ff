package ops

import (
	"context"

	"github.com/archmagece/gitmgr/internal/engineerr"
	"github.com/archmagece/gitmgr/pkg/progress"
	"github.com/archmagece/gitmgr/pkg/repoop"
	"github.com/archmagece/gitmgr/pkg/scheduler"
)

// Doctor implements SPEC_FULL.md §4.3's (expansion) diagnose operation,
// wired to the CLI's `gitmgr doctor` subcommand (§6's expansion): a
// read-only health sweep across every filtered repo, reusing the same
// Scheduler/ProgressBus pipeline as every other op even though it never
// mutates anything.
func Doctor(ctx context.Context, rc RunContext, engine *repoop.Engine) (Result, error) {
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
				d, err := engine.Diagnose(ctx, plan)
				if err != nil {
					return nil, err
				}
				return repoop.DiagnosisMessage(plan.Display(), d), nil
			},
		})
	}

	concurrency := rc.Concurrency
	if concurrency <= 0 {
		concurrency = scheduler.DefaultConcurrency(scheduler.OpDiagnose)
	}

	batch := scheduler.Run(ctx, tasks, concurrency, rc.bus())
	return Result{Op: "doctor", Batch: batch, Summary: summarize("doctor", batch)}, nil
}

// LogRepos implements spec.md §6's `log-repos` CLI surface entry: the
// last commit, one line, per filtered repo.
func LogRepos(ctx context.Context, rc RunContext, engine *repoop.Engine) (Result, error) {
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
				line, err := engine.LastCommit(ctx, plan.WorkDir)
				if err != nil {
					return nil, err
				}
				return progress.Text(plan.Display() + ": " + line), nil
			},
		})
	}

	concurrency := rc.Concurrency
	if concurrency <= 0 {
		concurrency = scheduler.DefaultConcurrency(scheduler.OpLogRepos)
	}

	batch := scheduler.Run(ctx, tasks, concurrency, rc.bus())
	return Result{Op: "log-repos", Batch: batch, Summary: summarize("log-repos", batch)}, nil
}

// LsFiles implements spec.md §6's `ls-files` CLI surface entry: the
// filtered manifest's repo paths, no git subprocess involved — this one
// is manifest-only, so it bypasses the Scheduler entirely (there's
// nothing to parallelize over).
func LsFiles(rc RunContext) ([]string, error) {
	_, filtered, err := loadFiltered(rc)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(filtered))
	for _, ie := range filtered {
		paths = append(paths, displayOf(ie.Entry.Local))
	}
	return paths, nil
}
