// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/archmagece/gitmgr/pkg/ops"
	"github.com/archmagece/gitmgr/pkg/repoop"
)

var (
	snapshotForce  bool
	snapshotCommit bool
	snapshotIgnore []string
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Generate ./.gitrepos from the repositories found under the current directory",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.Flags().BoolVar(&snapshotForce, "force", false, "overwrite an existing manifest")
	snapshotCmd.Flags().BoolVar(&snapshotCommit, "commit", false, "pin to the exact commit instead of the current branch")
	snapshotCmd.Flags().StringArrayVar(&snapshotIgnore, "ignore", nil, "manifest-relative path (repeatable); not applied: snapshot records every repository it finds")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	manifestPath := defaultManifestName
	root, path, err := resolveManifest(manifestPath)
	if err != nil {
		return err
	}
	_ = dir // spec.md §6 walks from the manifest's own directory (Root), not an arbitrary scan root

	if !snapshotForce {
		if _, statErr := os.Stat(path); statErr == nil {
			return fmt.Errorf("gitmgr: %s already exists; pass --force to overwrite", path)
		}
	}

	mode := repoop.SnapshotBranch
	if snapshotCommit {
		mode = repoop.SnapshotCommit
	}

	rc := ops.RunContext{Root: root, ManifestPath: path, Hook: newCLIShellHook(), Bus: bus()}
	m, err := ops.Snapshot(context.Background(), rc, engine(), ops.SnapshotOptions{Mode: mode, Force: snapshotForce})
	if err != nil {
		return err
	}

	if !silent {
		fmt.Printf("snapshot: wrote %d repositor%s to %s\n", len(m.Repos), plural(len(m.Repos)), path)
	}
	return nil
}
