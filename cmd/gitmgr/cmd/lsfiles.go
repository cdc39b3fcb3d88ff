// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/archmagece/gitmgr/pkg/ops"
)

var (
	lsFilesConfig string
	lsFilesLabels []string
)

var lsFilesCmd = &cobra.Command{
	Use:   "ls-files",
	Short: "List the manifest-relative paths of every repository the filter selects",
	Args:  cobra.NoArgs,
	RunE:  runLsFiles,
}

func init() {
	rootCmd.AddCommand(lsFilesCmd)
	lsFilesCmd.Flags().StringVar(&lsFilesConfig, "config", "", "path to the manifest file (default .gitrepos)")
	lsFilesCmd.Flags().StringArrayVar(&lsFilesLabels, "labels", nil, "restrict to repos carrying one of these labels (repeatable)")
}

func runLsFiles(cmd *cobra.Command, args []string) error {
	rc, err := buildRunContext(lsFilesConfig, 0, 0, nil, lsFilesLabels)
	if err != nil {
		return err
	}
	paths, err := ops.LsFiles(rc)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Println(p)
	}
	return nil
}
