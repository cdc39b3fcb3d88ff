package ops

import (
	"context"

	"github.com/archmagece/gitmgr/internal/engineerr"
	"github.com/archmagece/gitmgr/pkg/manifest"
	"github.com/archmagece/gitmgr/pkg/progress"
	"github.com/archmagece/gitmgr/pkg/repoop"
	"github.com/archmagece/gitmgr/pkg/scheduler"
)

// Clean implements spec.md §4.3's clean operation: directories under
// rc.Root that contain a .git entry but aren't accounted for by the
// manifest (after the label filter marks some entries "unused") are
// removed. Per spec.md, the single confirmation this is destructive
// enough to need happens at the caller (the CLI), not here — by the time
// Clean runs, the caller has already confirmed.
func Clean(ctx context.Context, rc RunContext, engine *repoop.Engine) (Result, error) {
	m, filtered, err := loadFiltered(rc)
	if err != nil {
		return Result{}, err
	}

	unused := unusedLocals(m.Repos, filtered)

	orphans, err := engine.FindOrphans(rc.Root, m.Repos, unused)
	if err != nil {
		return Result{}, err
	}

	tasks := make([]scheduler.Task, 0, len(orphans))
	for i, o := range orphans {
		o := o
		id := progress.RepoID{Index: i, Display: displayOf(o.RelPath)}
		tasks = append(tasks, scheduler.Task{
			ID: id,
			Run: func(ctx context.Context) (progress.StyleMessage, *engineerr.Error) {
				if err := engine.RemoveOrphan(o); err != nil {
					return nil, err
				}
				return progress.Styled(id.Display+": removed (orphan)", progress.ColorWarning), nil
			},
		})
	}

	concurrency := rc.Concurrency
	if concurrency <= 0 {
		concurrency = scheduler.DefaultConcurrency(scheduler.OpClean)
	}

	batch := scheduler.Run(ctx, tasks, concurrency, rc.bus())
	return Result{Op: "clean", Batch: batch, Summary: summarize("clean", batch)}, nil
}

func displayOf(relPath string) string {
	if relPath == "" {
		return "."
	}
	return relPath
}

// unusedLocals returns the set of manifest-known Local paths that did not
// survive the active filter — these are the entries spec.md §4.3 calls
// "in manifest but marked unused by filter", eligible for clean's removal
// even though they're declared.
func unusedLocals(all []manifest.RepoEntry, filtered []manifest.IndexedEntry) map[string]struct{} {
	kept := make(map[string]struct{}, len(filtered))
	for _, ie := range filtered {
		kept[ie.Entry.Local] = struct{}{}
	}
	unused := make(map[string]struct{})
	for _, r := range all {
		if _, ok := kept[r.Local]; !ok {
			unused[r.Local] = struct{}{}
		}
	}
	return unused
}
