package ops

import (
	"context"
	"sync"

	"github.com/archmagece/gitmgr/internal/engineerr"
	"github.com/archmagece/gitmgr/pkg/manifest"
	"github.com/archmagece/gitmgr/pkg/progress"
	"github.com/archmagece/gitmgr/pkg/repoop"
	"github.com/archmagece/gitmgr/pkg/scheduler"
)

// pinCollector gathers manifest.PinUpdate entries from concurrently
// completing Tasks, per spec.md §9's "Cyclic references" design note and
// §5's "the manifest is mutated ... from a single thread, using the
// per-repo success list" rule: Tasks append to it under a mutex, but the
// Manifest itself is only ever touched afterward, from the caller's
// goroutine, once scheduler.Run has returned.
type pinCollector struct {
	mu      sync.Mutex
	updates []manifest.PinUpdate
}

func (c *pinCollector) add(index int, pin manifest.Pin) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updates = append(c.updates, manifest.PinUpdate{Index: index, NewPin: pin})
}

// NewRemoteBranchOptions are the flags specific to `gitmgr new-remote-branch`.
type NewRemoteBranchOptions struct {
	NewName     string
	Force       bool
	NewConfig   string // optional path to write the mutated manifest to; empty means rc.ManifestPath
}

// NewRemoteBranch implements spec.md §4.3's new-remote-branch operation
// across every filtered repo carrying a branch pin: push
// origin/<base>:refs/heads/<new>, then, on success, mutate that repo's
// in-memory pin to <new> and persist the whole manifest via
// manifest.Writer. Concurrency defaults to 1 (sequential), per spec.md
// §4.4 — these operations commonly share network credentials. A filtered
// entry with no branch pin has no base to branch from; per
// original_source's new_branch.rs (`continue` before any remote I/O) and
// spec.md §4.3's "for each repo with a branch pin" scoping, no task is
// even generated for it — it's not a failure, it's simply out of scope
// for this op.
func NewRemoteBranch(ctx context.Context, rc RunContext, engine *repoop.Engine, nb NewRemoteBranchOptions) (Result, error) {
	m, filtered, err := loadFiltered(rc)
	if err != nil {
		return Result{}, err
	}

	collector := &pinCollector{}

	tasks := make([]scheduler.Task, 0, len(filtered))
	for _, ie := range filtered {
		if ie.Entry.Pin.Kind() != manifest.KindBranch {
			continue
		}
		plan := planFor(rc, m, ie, syncOptions{})
		tasks = append(tasks, scheduler.Task{
			ID: plan.RepoID(),
			Run: func(ctx context.Context) (progress.StyleMessage, *engineerr.Error) {
				outcome, err := engine.NewRemoteBranch(ctx, plan, nb.NewName, nb.Force)
				if err != nil {
					return outcome.Message, err
				}
				if outcome.NewPin != nil {
					collector.add(plan.Index, *outcome.NewPin)
				}
				return outcome.Message, nil
			},
		})
	}

	concurrency := rc.Concurrency
	if concurrency <= 0 {
		concurrency = scheduler.DefaultConcurrency(scheduler.OpNewRemoteBranch)
	}

	batch := scheduler.Run(ctx, tasks, concurrency, rc.bus())
	result := Result{Op: "new-remote-branch", Batch: batch, Summary: summarize("new-remote-branch", batch)}

	// Per spec.md §8 invariant 8 ("no-mutation on failure"): only persist
	// the manifest if every repo in the batch succeeded.
	if len(batch.Failed) == 0 && len(collector.updates) > 0 {
		manifest.Apply(m, collector.updates)
		path := nb.NewConfig
		if path == "" {
			path = rc.ManifestPath
		}
		writer := manifest.NewWriter(path)
		if err := writer.Write(m); err != nil {
			return result, err
		}
	}

	return result, result.Err()
}

// DelRemoteBranch implements spec.md §4.3's del-remote-branch operation:
// per filtered repo, verify (via ls-remote) that the named branch exists
// on origin, then push --delete it; absent branches are a silent no-op.
// This op never mutates the manifest's pins (the entries named here are
// selected by --ignore/--labels, not by pin), so there's nothing to write
// back. A filtered entry with no branch pin at all (commit/tag/none) gets
// no task either, mirroring original_source's del_branch.rs `continue`
// over repo_config.branch.is_none() entries.
func DelRemoteBranch(ctx context.Context, rc RunContext, engine *repoop.Engine, branch string) (Result, error) {
	m, filtered, err := loadFiltered(rc)
	if err != nil {
		return Result{}, err
	}

	tasks := make([]scheduler.Task, 0, len(filtered))
	for _, ie := range filtered {
		if ie.Entry.Pin.Kind() != manifest.KindBranch {
			continue
		}
		plan := planFor(rc, m, ie, syncOptions{})
		tasks = append(tasks, scheduler.Task{
			ID: plan.RepoID(),
			Run: func(ctx context.Context) (progress.StyleMessage, *engineerr.Error) {
				outcome, err := engine.DelRemoteBranch(ctx, plan, branch)
				return outcome.Message, err
			},
		})
	}

	concurrency := rc.Concurrency
	if concurrency <= 0 {
		concurrency = scheduler.DefaultConcurrency(scheduler.OpDelRemoteBranch)
	}

	batch := scheduler.Run(ctx, tasks, concurrency, rc.bus())
	return Result{Op: "del-remote-branch", Batch: batch, Summary: summarize("del-remote-branch", batch)}, nil
}

// NewTagOptions are the flags specific to `gitmgr new-tag`.
type NewTagOptions struct {
	Name string
	Push bool
}

// NewTag implements spec.md §4.3's new-tag operation across every
// filtered repo: `git tag <name> --force [<ref>]`, optionally pushed.
func NewTag(ctx context.Context, rc RunContext, engine *repoop.Engine, nt NewTagOptions) (Result, error) {
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
				outcome, err := engine.NewTag(ctx, plan, nt.Name, nt.Push)
				return outcome.Message, err
			},
		})
	}

	concurrency := rc.Concurrency
	if concurrency <= 0 {
		concurrency = scheduler.DefaultConcurrency(scheduler.OpNewTag)
	}

	batch := scheduler.Run(ctx, tasks, concurrency, rc.bus())
	return Result{Op: "new-tag", Batch: batch, Summary: summarize("new-tag", batch)}, nil
}
