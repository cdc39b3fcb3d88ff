package repoop

import (
	"context"
	"strings"

	"github.com/archmagece/gitmgr/internal/engineerr"
	"github.com/archmagece/gitmgr/pkg/manifest"
	"github.com/archmagece/gitmgr/pkg/progress"
)

// NewRemoteBranch implements spec.md §4.3's new-remote-branch operation:
// for a repo with a branch pin, push origin/<base>:refs/heads/<newName>,
// where base is the entry's current pinned branch. A repo with no branch
// pin (commit/tag/none) has no base to branch from; both original_source
// variants (new_branch.rs) `continue` over such entries before any remote
// I/O rather than failing the batch, and spec.md §4.3 itself scopes the op
// to "each repo with a branch pin" — so this is a silent, non-error skip,
// matched at the caller (pkg/ops) by never even generating a task for
// these entries; the check here is a defensive second line in case the
// method is ever called directly.
func (e *Engine) NewRemoteBranch(ctx context.Context, plan RepoPlan, newName string, force bool) (Outcome, *engineerr.Error) {
	repo := plan.Display()

	if plan.Entry.Pin.Kind() != manifest.KindBranch {
		return Outcome{Message: progress.Text(repo + ": no branch pin, skipped")}, nil
	}
	base := plan.Entry.Pin.Branch

	if !force {
		exists, err := e.remoteBranchExists(ctx, plan.WorkDir, newName)
		if err != nil {
			return Outcome{}, wrapRepo(err, repo)
		}
		if exists {
			return Outcome{}, wrapRepo(engineerr.New(engineerr.InvalidRepoConfig, "origin/"+newName+" already exists (use --force to overwrite)"), repo)
		}
	}

	refspec := "origin/" + base + ":refs/heads/" + newName
	args := []string{"push", "origin", refspec}
	if force {
		args = []string{"push", "--force", "origin", refspec}
	}
	if err := e.runChecked(ctx, plan.WorkDir, args); err != nil {
		return Outcome{}, wrapRepo(err, repo)
	}

	newPin := manifest.Pin{Branch: newName}
	return Outcome{
		Message: progress.Styled(repo+": pushed origin/"+base+" -> "+newName, progress.ColorSuccess),
		NewPin:  &newPin,
	}, nil
}

func (e *Engine) remoteBranchExists(ctx context.Context, workDir, branch string) (bool, *engineerr.Error) {
	out, err := e.Git.RunOutput(ctx, workDir, "ls-remote", "--heads", "origin", branch)
	if err != nil {
		return false, engineerr.Wrap(engineerr.IOError, "", err)
	}
	return strings.TrimSpace(out) != "", nil
}

// DelRemoteBranch implements spec.md §4.3's del-remote-branch operation:
// verify the branch exists on origin via ls-remote, then push --delete it.
// A branch already absent from origin is silently skipped, not an error,
// per spec.md's explicit "absent branches are silently skipped" rule. An
// entry with no branch pin at all (commit/tag/none) is skipped the same
// way, before any remote I/O — del_branch.rs's `continue` over
// repo_config.branch.is_none() entries in original_source, mirrored here
// (and, primarily, at the pkg/ops caller which never generates a task for
// these entries in the first place).
func (e *Engine) DelRemoteBranch(ctx context.Context, plan RepoPlan, branch string) (Outcome, *engineerr.Error) {
	repo := plan.Display()

	if plan.Entry.Pin.Kind() != manifest.KindBranch {
		return Outcome{Message: progress.Text(repo + ": no branch pin, skipped")}, nil
	}

	exists, err := e.remoteBranchExists(ctx, plan.WorkDir, branch)
	if err != nil {
		return Outcome{}, wrapRepo(err, repo)
	}
	if !exists {
		return Outcome{Message: progress.Text(repo + ": origin/" + branch + " already absent")}, nil
	}

	if err := e.runChecked(ctx, plan.WorkDir, []string{"push", "origin", "--delete", branch}); err != nil {
		return Outcome{}, wrapRepo(err, repo)
	}
	return Outcome{Message: progress.Styled(repo+": deleted origin/"+branch, progress.ColorSuccess)}, nil
}

// NewTag implements spec.md §4.3's new-tag operation: `git tag <name>
// --force [<ref>]`, then optionally push it. The target ref is, per
// spec.md §9's resolved Open Question, the latest of commit/tag/branch/
// default-branch the entry resolves to via DecideRef — the source's
// equivalent code had two identical branch arms for this computation with
// no discernible difference, so SPEC_FULL.md treats "latest resolved ref,
// same priority as sync" as the canonical semantics rather than inventing
// a fifth case.
func (e *Engine) NewTag(ctx context.Context, plan RepoPlan, name string, push bool) (Outcome, *engineerr.Error) {
	repo := plan.Display()

	ref := DecideRef(plan)
	args := []string{"tag", name, "--force"}
	if ref.Kind != RemoteRefNone {
		args = append(args, ref.Ref)
	}
	if err := e.runChecked(ctx, plan.WorkDir, args); err != nil {
		return Outcome{}, wrapRepo(err, repo)
	}

	msg := repo + ": tagged " + name
	if push {
		if err := e.runChecked(ctx, plan.WorkDir, []string{"push", "origin", name, "--force"}); err != nil {
			return Outcome{}, wrapRepo(err, repo)
		}
		msg += " (pushed)"
	}
	return Outcome{Message: progress.Styled(msg, progress.ColorSuccess)}, nil
}
