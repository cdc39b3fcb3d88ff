// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/archmagece/gitmgr/pkg/ops"
)

var (
	fetchConfig      string
	fetchConcurrency int
	fetchDepth       int
	fetchIgnore      []string
	fetchLabels      []string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch every repository declared in the manifest",
	Args:  cobra.NoArgs,
	RunE:  runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().StringVar(&fetchConfig, "config", "", "path to the manifest file (default .gitrepos)")
	fetchCmd.Flags().IntVar(&fetchConcurrency, "thread", 0, "number of repos to fetch concurrently (default 4)")
	fetchCmd.Flags().IntVar(&fetchDepth, "depth", 0, "fetch depth (0 means full history)")
	fetchCmd.Flags().StringArrayVar(&fetchIgnore, "ignore", nil, "manifest-relative path to skip (repeatable)")
	fetchCmd.Flags().StringArrayVar(&fetchLabels, "labels", nil, "restrict to repos carrying one of these labels (repeatable)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	rc, err := buildRunContext(fetchConfig, fetchConcurrency, fetchDepth, fetchIgnore, fetchLabels)
	if err != nil {
		return err
	}
	r, err := ops.Fetch(context.Background(), rc, engine())
	if err != nil {
		return err
	}
	printSummary(r)
	return r.Err()
}
