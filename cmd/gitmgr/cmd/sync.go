// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/archmagece/gitmgr/pkg/ops"
)

var (
	syncConfig      string
	syncConcurrency int
	syncDepth       int
	syncStash       bool
	syncHard        bool
	syncNoTrack     bool
	syncNoCheckout  bool
	syncIgnore      []string
	syncLabels      []string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Drive every repository in the manifest to its pinned state",
	Args:  cobra.NoArgs,
	RunE:  runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().StringVar(&syncConfig, "config", "", "path to the manifest file (default .gitrepos)")
	syncCmd.Flags().IntVar(&syncConcurrency, "thread", 0, "number of repos to sync concurrently (default 4)")
	syncCmd.Flags().IntVar(&syncDepth, "depth", 0, "fetch depth (0 means full history)")
	syncCmd.Flags().BoolVar(&syncStash, "stash", false, "stash local changes before checkout/reset, restore after")
	syncCmd.Flags().BoolVar(&syncHard, "hard", false, "discard local changes with reset --hard")
	syncCmd.Flags().BoolVar(&syncNoTrack, "no-track", false, "skip setting the upstream tracking branch")
	syncCmd.Flags().BoolVar(&syncNoCheckout, "no-checkout", false, "fetch and resolve the ref but leave the working tree untouched")
	syncCmd.Flags().StringArrayVar(&syncIgnore, "ignore", nil, "manifest-relative path to skip (repeatable)")
	syncCmd.Flags().StringArrayVar(&syncLabels, "labels", nil, "restrict to repos carrying one of these labels (repeatable)")
}

func runSync(cmd *cobra.Command, args []string) error {
	rc, err := buildRunContext(syncConfig, syncConcurrency, syncDepth, syncIgnore, syncLabels)
	if err != nil {
		return err
	}
	so := ops.SyncOptions{Stash: syncStash, Hard: syncHard, NoTrack: syncNoTrack, NoCheckout: syncNoCheckout}
	r, err := ops.Sync(context.Background(), rc, engine(), so)
	if err != nil {
		return err
	}
	printSummary(r)
	return r.Err()
}
