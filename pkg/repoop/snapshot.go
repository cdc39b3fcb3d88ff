package repoop

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/archmagece/gitmgr/internal/engineerr"
	"github.com/archmagece/gitmgr/pkg/manifest"
)

// snapshotConcurrency bounds the fan-out below: reading origin/HEAD for
// each discovered repo is independent I/O, so it's worth parallelizing
// with an errgroup, but still bounded since a large root can discover
// hundreds of repos.
const snapshotConcurrency = 8

// SnapshotMode selects what Snapshot records for the pin of each
// discovered repo: the branch it's currently on, or the exact commit it's
// at.
type SnapshotMode int

const (
	SnapshotBranch SnapshotMode = iota
	SnapshotCommit
)

// Snapshot implements spec.md §4.3's snapshot operation: walk root looking
// for directories containing .git, and for each one read origin's remote
// URL plus (depending on mode) the current branch or commit SHA, then
// return one manifest.RepoEntry per repo, sorted per invariant 3. The walk
// itself (walkGitDirs in walk.go) is a local depth-first directory
// recursion with no forge-discovery dependency.
func (e *Engine) Snapshot(ctx context.Context, root string, mode SnapshotMode) (*manifest.Manifest, error) {
	found, err := walkGitDirs(root)
	if err != nil {
		return nil, err
	}

	repos := make([]manifest.RepoEntry, len(found))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(snapshotConcurrency)
	for i, d := range found {
		i, d := i, d
		g.Go(func() error {
			repos[i] = e.snapshotOne(gctx, d, mode)
			return nil
		})
	}
	// Each goroutine only ever writes its own index and never returns an
	// error, so Wait can't fail; per-repo read failures degrade to a
	// partially-populated RepoEntry instead of aborting the whole scan.
	_ = g.Wait()

	manifest.SortEntries(repos)

	return &manifest.Manifest{Repos: repos}, nil
}

// snapshotOne reads one discovered repo's origin remote and, per mode, its
// current branch or commit SHA.
func (e *Engine) snapshotOne(ctx context.Context, d discoveredRepo, mode SnapshotMode) manifest.RepoEntry {
	entry := manifest.RepoEntry{Local: d.RelPath}

	remote, err := e.Git.RunOutput(ctx, d.AbsPath, "remote", "get-url", "origin")
	if err == nil {
		entry.Remote = strings.TrimSpace(remote)
	}

	switch mode {
	case SnapshotCommit:
		sha, err := e.Git.RunOutput(ctx, d.AbsPath, "rev-parse", "HEAD")
		if err == nil {
			entry.Pin.Commit = strings.TrimSpace(sha)
		}
	default:
		branch, err := e.Git.RunOutput(ctx, d.AbsPath, "rev-parse", "--abbrev-ref", "HEAD")
		if err == nil {
			name := strings.TrimSpace(branch)
			if name != "" && name != "HEAD" {
				entry.Pin.Branch = name
			}
		}
	}

	return entry
}

// knownPaths extracts the set of relative paths Snapshot/Clean
// consider "known" to the manifest, for Clean's orphan comparison.
func knownPaths(repos []manifest.RepoEntry) map[string]struct{} {
	known := make(map[string]struct{}, len(repos))
	for _, r := range repos {
		known[r.Local] = struct{}{}
	}
	return known
}

// OrphanRepo is one filesystem directory Clean found that contains a .git
// entry but is not accounted for in the manifest.
type OrphanRepo struct {
	RelPath string
	AbsPath string
}

// FindOrphans implements spec.md §4.3's clean discovery step: walk root and
// return every git-containing directory whose relative path is not in the
// manifest (or is present but whose entry is filtered out as "unused").
// An entry carrying manifest.LabelArchived is never reported as an orphan,
// regardless of what unused says — archiving a repo is a stronger, filter-
// independent guarantee that clean will leave it alone. Deletion itself is
// left to the caller, which per spec.md §4.3 must obtain a single
// confirmation before calling RemoveOrphan — the engine never prompts.
func (e *Engine) FindOrphans(root string, manifestRepos []manifest.RepoEntry, unused map[string]struct{}) ([]OrphanRepo, error) {
	found, err := walkGitDirs(root)
	if err != nil {
		return nil, err
	}

	known := knownPaths(manifestRepos)
	archived := archivedPaths(manifestRepos)

	var orphans []OrphanRepo
	for _, d := range found {
		if _, isArchived := archived[d.RelPath]; isArchived {
			continue
		}
		if _, ok := known[d.RelPath]; ok {
			if _, isUnused := unused[d.RelPath]; !isUnused {
				continue
			}
		}
		orphans = append(orphans, OrphanRepo{RelPath: d.RelPath, AbsPath: d.AbsPath})
	}

	sort.Slice(orphans, func(i, j int) bool { return orphans[i].RelPath < orphans[j].RelPath })

	return orphans, nil
}

// archivedPaths returns the set of Local paths whose entry carries
// manifest.LabelArchived.
func archivedPaths(repos []manifest.RepoEntry) map[string]struct{} {
	archived := make(map[string]struct{})
	for _, r := range repos {
		if r.HasLabel(manifest.LabelArchived) {
			archived[r.Local] = struct{}{}
		}
	}
	return archived
}

// RemoveOrphan deletes one orphan directory from disk. Not a git
// subprocess call; uses the same engineerr taxonomy so callers can report
// it through the same ProgressBus path as any other RepoOp failure.
func (e *Engine) RemoveOrphan(o OrphanRepo) *engineerr.Error {
	if err := removeAll(o.AbsPath); err != nil {
		return engineerr.Wrap(engineerr.IOError, o.RelPath, err)
	}
	return nil
}
