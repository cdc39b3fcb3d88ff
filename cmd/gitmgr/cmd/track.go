// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/archmagece/gitmgr/pkg/ops"
)

var (
	trackConfig string
	trackIgnore []string
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Set the upstream tracking branch for every pinned repository",
	Args:  cobra.NoArgs,
	RunE:  runTrack,
}

func init() {
	rootCmd.AddCommand(trackCmd)
	trackCmd.Flags().StringVar(&trackConfig, "config", "", "path to the manifest file (default .gitrepos)")
	trackCmd.Flags().StringArrayVar(&trackIgnore, "ignore", nil, "manifest-relative path to skip (repeatable)")
}

func runTrack(cmd *cobra.Command, args []string) error {
	rc, err := buildRunContext(trackConfig, 0, 0, trackIgnore, nil)
	if err != nil {
		return err
	}
	r, err := ops.Track(context.Background(), rc, engine())
	if err != nil {
		return err
	}
	printSummary(r)
	return r.Err()
}
