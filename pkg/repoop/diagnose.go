package repoop

import (
	"context"
	"strconv"
	"strings"

	"github.com/archmagece/gitmgr/internal/engineerr"
	"github.com/archmagece/gitmgr/pkg/progress"
)

// Diagnosis is the read-only health report Diagnose produces, per
// SPEC_FULL.md §4.3's (expansion) addition: dirty / ahead-behind / stash
// count / detached-HEAD, none of which spec.md's eight operations surface
// on their own even though sync/fetch compute some of these values
// in-line. Kept deliberately small (two booleans, a branch name and three
// ints) rather
// than a larger status model, since Diagnose has no reason to report
// anything beyond what a health sweep needs.
type Diagnosis struct {
	Dirty      bool
	Detached   bool
	Branch     string
	Ahead      int
	Behind     int
	StashCount int
}

// Diagnose implements the read-only health check. It must never invoke a
// mutating git subcommand — testable property 9 in SPEC_FULL.md §8 — so
// every call below is one of status/rev-parse/rev-list/stash-list.
func (e *Engine) Diagnose(ctx context.Context, plan RepoPlan) (Diagnosis, *engineerr.Error) {
	var d Diagnosis

	if !e.Git.IsGitRepository(ctx, plan.WorkDir) {
		return d, wrapRepo(engineerr.New(engineerr.DirNotFound, plan.WorkDir), plan.Display())
	}

	dirty, err := e.isDirty(ctx, plan.WorkDir)
	if err != nil {
		return d, wrapRepo(err, plan.Display())
	}
	d.Dirty = dirty

	branch, err := e.Git.RunOutput(ctx, plan.WorkDir, "rev-parse", "--abbrev-ref", "HEAD")
	if err == nil {
		name := strings.TrimSpace(branch)
		if name == "HEAD" {
			d.Detached = true
		} else {
			d.Branch = name
		}
	}

	if !d.Detached && d.Branch != "" {
		out, err := e.Git.RunOutput(ctx, plan.WorkDir, "rev-list", "--left-right", "--count", d.Branch+"...origin/"+d.Branch)
		if err == nil {
			fields := strings.Fields(out)
			if len(fields) == 2 {
				d.Ahead, _ = strconv.Atoi(fields[0])
				d.Behind, _ = strconv.Atoi(fields[1])
			}
		}
	}

	stashes, err := e.Git.RunLines(ctx, plan.WorkDir, "stash", "list")
	if err == nil {
		d.StashCount = len(stashes)
	}

	return d, nil
}

// DiagnosisMessage renders a Diagnosis as a one-line progress message.
func DiagnosisMessage(repo string, d Diagnosis) progress.StyleMessage {
	state := "clean"
	color := progress.ColorSuccess
	if d.Dirty {
		state = "dirty"
		color = progress.ColorWarning
	}
	branch := d.Branch
	if d.Detached {
		branch = "detached"
	}
	msg := repo + ": " + branch + " (" + state + ")"
	if d.Ahead > 0 || d.Behind > 0 {
		msg += " ahead " + strconv.Itoa(d.Ahead) + "/behind " + strconv.Itoa(d.Behind)
	}
	if d.StashCount > 0 {
		msg += " stash:" + strconv.Itoa(d.StashCount)
	}
	return progress.Styled(msg, color)
}
