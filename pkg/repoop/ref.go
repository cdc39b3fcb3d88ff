package repoop

import (
	"context"
	"fmt"

	"github.com/archmagece/gitmgr/internal/engineerr"
	"github.com/archmagece/gitmgr/pkg/manifest"
)

// DecideRef resolves a plan's pin into a RemoteRef, per spec.md §4.3's
// priority: commit > tag > branch (entry's own branch, else the
// manifest's default_branch). A plan with no pin at all and no default
// branch resolves to RemoteRefNone, which sync treats as "nothing to
// drive the tree to beyond what fetch already retrieved."
func DecideRef(plan RepoPlan) RemoteRef {
	switch plan.Entry.Pin.Kind() {
	case manifest.KindCommit:
		return RemoteRef{Kind: RemoteRefCommit, Ref: plan.Entry.Pin.Commit}
	case manifest.KindTag:
		return RemoteRef{Kind: RemoteRefTag, Ref: plan.Entry.Pin.Tag}
	case manifest.KindBranch:
		name := plan.Entry.Pin.Branch
		return RemoteRef{Kind: RemoteRefBranch, Ref: "origin/" + name, BranchName: name}
	default:
		if plan.DefaultBranch != "" {
			return RemoteRef{Kind: RemoteRefBranch, Ref: "origin/" + plan.DefaultBranch, BranchName: plan.DefaultBranch}
		}
		return RemoteRef{Kind: RemoteRefNone}
	}
}

// verifyRef confirms the resolved ref actually exists in workDir after a
// fetch, covering commit, tag, and origin/branch refs.
func (e *Engine) verifyRef(ctx context.Context, workDir string, ref RemoteRef) error {
	switch ref.Kind {
	case RemoteRefCommit:
		ok, err := e.Git.RunQuiet(ctx, workDir, "cat-file", "-e", ref.Ref+"^{commit}")
		if err != nil {
			return engineerr.Wrap(engineerr.IOError, "", err)
		}
		if !ok {
			return engineerr.New(engineerr.CommitNotFound, ref.Ref)
		}
	case RemoteRefTag:
		ok, err := e.Git.RunQuiet(ctx, workDir, "rev-parse", "--verify", "--quiet", "refs/tags/"+ref.Ref)
		if err != nil {
			return engineerr.Wrap(engineerr.IOError, "", err)
		}
		if !ok {
			return engineerr.New(engineerr.RemoteRefNotFound, fmt.Sprintf("tag %s", ref.Ref))
		}
	case RemoteRefBranch:
		ok, err := e.Git.RunQuiet(ctx, workDir, "rev-parse", "--verify", "--quiet", ref.Ref)
		if err != nil {
			return engineerr.Wrap(engineerr.IOError, "", err)
		}
		if !ok {
			return engineerr.New(engineerr.BranchNotFound, ref.Ref)
		}
	}
	return nil
}
