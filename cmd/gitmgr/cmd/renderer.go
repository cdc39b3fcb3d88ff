// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"

	"github.com/archmagece/gitmgr/pkg/progress"
)

// ansiBus renders ProgressBus events to stdout via progress.Render, line
// at a time, rather than a full-screen TUI: gitmgr's batches are flat and
// short-lived, so a scrolling log reads better than a full model/update/
// view rendering loop would.
type ansiBus struct{}

func newANSIBus() progress.Bus {
	return ansiBus{}
}

func (ansiBus) OnBatchStart(total int) {
	fmt.Printf("running against %d repositor%s\n", total, plural(total))
}

func (ansiBus) OnBatchFinish() {}

func (ansiBus) OnRepoStart(id progress.RepoID, msg progress.StyleMessage) {
	if verbose {
		fmt.Printf("%s: %s\n", id.Display, progress.Render(msg))
	}
}

func (ansiBus) OnRepoUpdate(id progress.RepoID, msg progress.StyleMessage) {
	if verbose {
		fmt.Printf("%s: %s\n", id.Display, progress.Render(msg))
	}
}

func (ansiBus) OnRepoSuccess(id progress.RepoID, msg progress.StyleMessage) {
	fmt.Printf("%s: %s\n", id.Display, progress.Render(msg))
}

func (ansiBus) OnRepoError(id progress.RepoID, msg progress.StyleMessage) {
	fmt.Printf("%s: %s\n", id.Display, progress.Render(msg))
}

func plural(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
