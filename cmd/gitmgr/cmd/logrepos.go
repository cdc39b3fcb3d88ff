// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/archmagece/gitmgr/pkg/ops"
)

var (
	logReposConfig      string
	logReposConcurrency int
	logReposLabels      []string
)

var logReposCmd = &cobra.Command{
	Use:   "log-repos",
	Short: "Print the last commit on each repository the filter selects",
	Args:  cobra.NoArgs,
	RunE:  runLogRepos,
}

func init() {
	rootCmd.AddCommand(logReposCmd)
	logReposCmd.Flags().StringVar(&logReposConfig, "config", "", "path to the manifest file (default .gitrepos)")
	logReposCmd.Flags().IntVar(&logReposConcurrency, "thread", 0, "number of repos to read concurrently (default 4)")
	logReposCmd.Flags().StringArrayVar(&logReposLabels, "labels", nil, "restrict to repos carrying one of these labels (repeatable)")
}

func runLogRepos(cmd *cobra.Command, args []string) error {
	rc, err := buildRunContext(logReposConfig, logReposConcurrency, 0, nil, logReposLabels)
	if err != nil {
		return err
	}
	r, err := ops.LogRepos(context.Background(), rc, engine())
	if err != nil {
		return err
	}
	printSummary(r)
	return r.Err()
}
