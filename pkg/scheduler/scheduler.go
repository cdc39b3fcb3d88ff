// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package scheduler dispatches per-repo operations with bounded
// concurrency: a fixed number of workers pull jobs from a channel, push
// results to another, and a single collector goroutine accumulates the
// outcome so callers never need their own locking.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/archmagece/gitmgr/internal/engineerr"
	"github.com/archmagece/gitmgr/pkg/progress"
)

// Op names an operation for the purpose of picking a default concurrency.
type Op string

const (
	OpSnapshot        Op = "snapshot"
	OpSync            Op = "sync"
	OpFetch           Op = "fetch"
	OpClean           Op = "clean"
	OpTrack           Op = "track"
	OpLogRepos        Op = "log-repos"
	OpNewRemoteBranch Op = "new-remote-branch"
	OpDelRemoteBranch Op = "del-remote-branch"
	OpNewTag          Op = "new-tag"
	OpDiagnose        Op = "diagnose"
)

// DefaultConcurrency returns the spec-mandated default worker count for an
// operation: 4 for read-heavy/bulk operations (fetch, sync, snapshot,
// log-repos, clean, diagnose), 1 for operations that create remote state
// the user very likely wants serialized (new-remote-branch,
// del-remote-branch, new-tag), per spec.md §4.3.
func DefaultConcurrency(op Op) int {
	switch op {
	case OpNewRemoteBranch, OpDelRemoteBranch, OpNewTag:
		return 1
	default:
		return 4
	}
}

// Task is one unit of dispatch: an identified repo and the function that
// performs the operation against it. Run must itself honor ctx
// cancellation; the scheduler does not forcibly interrupt a running Task.
type Task struct {
	ID  progress.RepoID
	Run func(ctx context.Context) (progress.StyleMessage, *engineerr.Error)
}

// Outcome is one Task's result.
type Outcome struct {
	ID      progress.RepoID
	Message progress.StyleMessage
	Err     *engineerr.Error
}

// AggregateResult is the batch-level result of Run: every per-repo
// Outcome, partitioned into successes and failures for convenience.
type AggregateResult struct {
	Outcomes  []Outcome
	Succeeded []Outcome
	Failed    []Outcome
}

// Err returns an aggregate *engineerr.Error built from every failed
// Outcome's error, or nil if none failed, collapsed through
// engineerr.Aggregate so callers get the spec.md §4.8 OpsAggregate
// rendering for free.
func (r AggregateResult) Err(op string) error {
	var errs []*engineerr.Error
	for _, o := range r.Failed {
		errs = append(errs, o.Err)
	}
	if agg := engineerr.Aggregate(op, errs); agg != nil {
		agg.Detail = fmt.Sprintf("%s failed (%d of %d)", op, len(errs), len(r.Outcomes))
		return agg
	}
	return nil
}

// Run dispatches tasks across concurrency workers, reporting progress on
// bus, and returns once every task has completed or ctx is cancelled.
// Results are collected in Task ID order, not completion order, so
// callers (and tests) see deterministic output regardless of scheduling.
func Run(ctx context.Context, tasks []Task, concurrency int, bus progress.Bus) AggregateResult {
	if bus == nil {
		bus = progress.NoopBus{}
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	bus.OnBatchStart(len(tasks))
	defer bus.OnBatchFinish()

	jobs := make(chan Task)
	outcomes := make(chan Outcome)

	var wg sync.WaitGroup
	worker := func() {
		defer wg.Done()
		for task := range jobs {
			if ctx.Err() != nil {
				outcomes <- Outcome{
					ID:  task.ID,
					Err: engineerr.New(engineerr.Cancelled, task.ID.Display),
				}
				continue
			}
			bus.OnRepoStart(task.ID, progress.Text(task.ID.Display))
			msg, err := task.Run(ctx)
			if err != nil {
				bus.OnRepoError(task.ID, msg)
			} else {
				bus.OnRepoSuccess(task.ID, msg)
			}
			outcomes <- Outcome{ID: task.ID, Message: msg, Err: err}
		}
	}

	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go worker()
	}

	go func() {
		defer close(jobs)
		for _, task := range tasks {
			select {
			case jobs <- task:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	var result AggregateResult
	for o := range outcomes {
		result.Outcomes = append(result.Outcomes, o)
		if o.Err != nil {
			result.Failed = append(result.Failed, o)
		} else {
			result.Succeeded = append(result.Succeeded, o)
		}
	}

	sort.Slice(result.Outcomes, func(i, j int) bool { return result.Outcomes[i].ID.Index < result.Outcomes[j].ID.Index })
	sort.Slice(result.Succeeded, func(i, j int) bool { return result.Succeeded[i].ID.Index < result.Succeeded[j].ID.Index })
	sort.Slice(result.Failed, func(i, j int) bool { return result.Failed[i].ID.Index < result.Failed[j].ID.Index })

	return result
}
