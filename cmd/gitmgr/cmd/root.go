// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package cmd implements the gitmgr CLI commands: thin flag-to-RunRequest
// translators over pkg/ops (package-level *cobra.Command vars, an init()
// per file wiring flags, a single Execute(version) entry point).
package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/archmagece/gitmgr/internal/gitcmd"
)

// minGitVersion is spec.md §6's external-process requirement.
const minGitVersion = "2.22"

var (
	// appVersion is set by main.go via Execute.
	appVersion string

	// Global flags, per spec.md §6 ("--silent" applies to every op) plus
	// a --verbose convention shared across subcommands.
	verbose bool
	silent  bool

	// There is no shared --config variable: each op-bearing subcommand
	// registers its own --config flag (spec.md §6 lists it per-command, not
	// as a persistent flag, since init/snapshot don't take it).
)

// rootCmd is the base command when gitmgr is invoked with no subcommand.
var rootCmd = &cobra.Command{
	Use:   "gitmgr",
	Short: "Declarative multi-repository Git orchestration",
	Long: `gitmgr drives a set of Git working trees to the state declared in a
.gitrepos manifest: cloning, fetching, checking out pins, and tracking
upstream branches across many repositories in parallel.`,
	Version:           appVersion,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: checkGitVersion,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&silent, "silent", "s", false, "suppress per-repo progress output")
}

// checkGitVersion implements spec.md §6's startup gate: absence or too-old
// a git binary produces a distinctive error before any subcommand runs.
// The dotted-version compare below is deliberately hand-rolled rather than
// imported from a semver library — see DESIGN.md.
func checkGitVersion(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || cmd.Name() == "gitmgr" {
		return nil
	}
	exec := gitcmd.NewExecutor()
	v, err := exec.GetGitVersion(context.Background())
	if err != nil {
		return fmt.Errorf("gitmgr: git not found in $PATH (requires >= %s): %w", minGitVersion, err)
	}
	if versionLess(v, minGitVersion) {
		return fmt.Errorf("gitmgr: git %s found, requires >= %s", v, minGitVersion)
	}
	return nil
}

// versionLess compares two dot-separated version strings component by
// component, treating a missing or non-numeric component as 0, so the
// shorter version is padded with zeros up to the longer one's length. Only
// the first whitespace-separated field of a is compared, which is enough
// to compare "2.22" against whatever `git version` prints, including
// platform suffixes like "2.39.2 (Apple Git-143)".
func versionLess(a, b string) bool {
	as := strings.Split(strings.Fields(a)[0], ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) || i < len(bs); i++ {
		an, bn := 0, 0
		if i < len(as) {
			an, _ = strconv.Atoi(as[i])
		}
		if i < len(bs) {
			bn, _ = strconv.Atoi(bs[i])
		}
		if an != bn {
			return an < bn
		}
	}
	return false
}

// Execute adds every subcommand to rootCmd and runs it. Exit codes follow
// spec.md §6: 0 on success, 1 on any error.
func Execute(version string) {
	appVersion = version
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
