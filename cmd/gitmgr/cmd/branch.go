// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/archmagece/gitmgr/pkg/ops"
)

var (
	newBranchName   string
	newBranchConfig string
	newBranchForce  bool
	newBranchIgnore []string
)

var newRemoteBranchCmd = &cobra.Command{
	Use:   "new-remote-branch",
	Short: "Push a new remote branch from each repo's resolved ref and pin to it",
	Args:  cobra.NoArgs,
	RunE:  runNewRemoteBranch,
}

func init() {
	rootCmd.AddCommand(newRemoteBranchCmd)
	newRemoteBranchCmd.Flags().StringVar(&newBranchName, "branch", "", "new branch name (required)")
	newRemoteBranchCmd.Flags().StringVar(&newBranchConfig, "new-config", "", "path to write the mutated manifest to (default: overwrite the loaded one)")
	newRemoteBranchCmd.Flags().BoolVar(&newBranchForce, "force", false, "overwrite the remote branch if it already exists")
	newRemoteBranchCmd.Flags().StringArrayVar(&newBranchIgnore, "ignore", nil, "manifest-relative path to skip (repeatable)")
	_ = newRemoteBranchCmd.MarkFlagRequired("branch")
}

func runNewRemoteBranch(cmd *cobra.Command, args []string) error {
	rc, err := buildRunContext("", 0, 0, newBranchIgnore, nil)
	if err != nil {
		return err
	}
	nb := ops.NewRemoteBranchOptions{NewName: newBranchName, Force: newBranchForce, NewConfig: newBranchConfig}
	r, err := ops.NewRemoteBranch(context.Background(), rc, engine(), nb)
	printSummary(r)
	return err
}

var (
	delBranchName   string
	delBranchIgnore []string
)

var delRemoteBranchCmd = &cobra.Command{
	Use:   "del-remote-branch",
	Short: "Delete a remote branch from every repository that has it",
	Args:  cobra.NoArgs,
	RunE:  runDelRemoteBranch,
}

func init() {
	rootCmd.AddCommand(delRemoteBranchCmd)
	delRemoteBranchCmd.Flags().StringVar(&delBranchName, "branch", "", "branch name to delete (required)")
	delRemoteBranchCmd.Flags().StringArrayVar(&delBranchIgnore, "ignore", nil, "manifest-relative path to skip (repeatable)")
	_ = delRemoteBranchCmd.MarkFlagRequired("branch")
}

func runDelRemoteBranch(cmd *cobra.Command, args []string) error {
	rc, err := buildRunContext("", 0, 0, delBranchIgnore, nil)
	if err != nil {
		return err
	}
	r, err := ops.DelRemoteBranch(context.Background(), rc, engine(), delBranchName)
	if err != nil {
		return err
	}
	printSummary(r)
	return r.Err()
}

var (
	newTagName   string
	newTagPush   bool
	newTagIgnore []string
)

var newTagCmd = &cobra.Command{
	Use:   "new-tag",
	Short: "Tag every repository's resolved ref",
	Args:  cobra.NoArgs,
	RunE:  runNewTag,
}

func init() {
	rootCmd.AddCommand(newTagCmd)
	newTagCmd.Flags().StringVar(&newTagName, "tag", "", "tag name (required)")
	newTagCmd.Flags().BoolVar(&newTagPush, "push", false, "push the tag to origin")
	newTagCmd.Flags().StringArrayVar(&newTagIgnore, "ignore", nil, "manifest-relative path to skip (repeatable)")
	_ = newTagCmd.MarkFlagRequired("tag")
}

func runNewTag(cmd *cobra.Command, args []string) error {
	rc, err := buildRunContext("", 0, 0, newTagIgnore, nil)
	if err != nil {
		return err
	}
	nt := ops.NewTagOptions{Name: newTagName, Push: newTagPush}
	r, err := ops.NewTag(context.Background(), rc, engine(), nt)
	if err != nil {
		return err
	}
	printSummary(r)
	return r.Err()
}
