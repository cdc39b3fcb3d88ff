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

var initForce bool

// initCmd is spec.md §6's "`init [--force]` - alias for `snapshot` with
// branch mode against `./.gitrepos`".
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate ./.gitrepos from the repositories found in the current directory",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing manifest")
}

func runInit(cmd *cobra.Command, args []string) error {
	root, path, err := resolveManifest(defaultManifestName)
	if err != nil {
		return err
	}

	if !initForce {
		if _, statErr := os.Stat(path); statErr == nil {
			return fmt.Errorf("gitmgr: %s already exists; pass --force to overwrite", path)
		}
	}

	rc := ops.RunContext{Root: root, ManifestPath: path, Hook: newCLIShellHook(), Bus: bus()}
	m, err := ops.Snapshot(context.Background(), rc, engine(), ops.SnapshotOptions{Mode: repoop.SnapshotBranch, Force: initForce})
	if err != nil {
		return err
	}

	if !silent {
		fmt.Printf("init: wrote %d repositor%s to %s\n", len(m.Repos), plural(len(m.Repos)), path)
	}
	return nil
}
