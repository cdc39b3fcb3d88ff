package repoop

import (
	"context"
	"strings"

	"github.com/archmagece/gitmgr/internal/engineerr"
)

// LastCommit returns the one-line `git log -1 --oneline` summary for
// workDir, used by the CLI's log-repos command. Read-only, like Diagnose.
func (e *Engine) LastCommit(ctx context.Context, workDir string) (string, *engineerr.Error) {
	out, err := e.Git.RunOutput(ctx, workDir, "log", "-1", "--oneline")
	if err != nil {
		return "", engineerr.Wrap(engineerr.IOError, "", err)
	}
	return strings.TrimSpace(out), nil
}
