package ops

import (
	"context"
	"os"

	"github.com/archmagece/gitmgr/internal/engineerr"
	"github.com/archmagece/gitmgr/pkg/manifest"
	"github.com/archmagece/gitmgr/pkg/repoop"
)

// SnapshotOptions are the flags specific to `gitmgr snapshot`/`init`.
type SnapshotOptions struct {
	Mode  repoop.SnapshotMode
	Force bool
}

// Snapshot implements spec.md §4.3's snapshot operation: walk rc.Root for
// git-containing directories, build one manifest.RepoEntry per repo, and
// write the result with rc.ManifestPath via manifest.Writer. Unlike the
// other operations it never loads an existing manifest first — it
// produces one from scratch (or, with Force, overwrites one) — so it has
// no Scheduler/ProgressBus fan-out of its own; engine.Snapshot bounds its
// per-repo metadata reads with an errgroup instead.
func Snapshot(ctx context.Context, rc RunContext, engine *repoop.Engine, so SnapshotOptions) (*manifest.Manifest, error) {
	if !so.Force {
		if _, err := os.Stat(rc.ManifestPath); err == nil {
			return nil, engineerr.New(engineerr.DirAlreadyInited, rc.ManifestPath)
		}
	}

	m, err := engine.Snapshot(ctx, rc.Root, so.Mode)
	if err != nil {
		return nil, err
	}

	writer := manifest.NewWriter(rc.ManifestPath)
	if err := writer.Write(m); err != nil {
		return nil, err
	}

	return m, nil
}
