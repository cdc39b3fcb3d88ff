package repoop

import (
	"context"

	"github.com/archmagece/gitmgr/internal/engineerr"
)

// checkoutOrReset implements spec.md §4.3's Checkout/Reset policy.
func (e *Engine) checkoutOrReset(ctx context.Context, workDir string, ref RemoteRef) error {
	switch ref.Kind {
	case RemoteRefCommit:
		return e.resetHard(ctx, workDir, ref.Ref)

	case RemoteRefTag:
		if err := e.runChecked(ctx, workDir, []string{"checkout", "--detach", ref.Ref}); err != nil {
			return err
		}
		return e.resetHard(ctx, workDir, ref.Ref)

	case RemoteRefBranch:
		hasLocal, err := e.Git.RunQuiet(ctx, workDir, "rev-parse", "--verify", "--quiet", "refs/heads/"+ref.BranchName)
		if err != nil {
			return engineerr.Wrap(engineerr.IOError, "", err)
		}
		if hasLocal {
			if err := e.runChecked(ctx, workDir, []string{"checkout", ref.BranchName}); err != nil {
				return err
			}
			return e.resetHard(ctx, workDir, ref.Ref)
		}
		return e.runChecked(ctx, workDir, []string{"checkout", "-B", ref.BranchName, ref.Ref})

	default:
		return nil
	}
}

func (e *Engine) resetHard(ctx context.Context, workDir, ref string) error {
	return e.runChecked(ctx, workDir, []string{"reset", "--hard", ref})
}

func (e *Engine) runChecked(ctx context.Context, workDir string, args []string) error {
	result, err := e.Git.Run(ctx, workDir, args...)
	if err != nil {
		return engineerr.Wrap(engineerr.IOError, "", err)
	}
	if result.ExitCode != 0 {
		return engineerr.GitFailure("", args, result.ExitCode, result.Stderr)
	}
	return nil
}

// track implements spec.md §4.3's Track step: set the intended upstream
// for branch pins; commit/tag pins are reported "untracked" rather than
// erroring, since there is no meaningful upstream for a detached pin.
func (e *Engine) track(ctx context.Context, workDir string, ref RemoteRef) (untracked bool, err error) {
	if ref.Kind != RemoteRefBranch {
		return true, nil
	}
	result, runErr := e.Git.Run(ctx, workDir, "branch", "--set-upstream-to", ref.Ref)
	if runErr != nil {
		return false, engineerr.Wrap(engineerr.IOError, "", runErr)
	}
	if result.ExitCode != 0 {
		return false, engineerr.GitFailure("", []string{"branch", "--set-upstream-to", ref.Ref}, result.ExitCode, result.Stderr)
	}
	return false, nil
}
