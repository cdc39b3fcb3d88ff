// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/archmagece/gitmgr/pkg/ops"
)

var (
	doctorConfig string
	doctorLabels []string
)

// doctorCmd is SPEC_FULL.md's expansion wiring RepoOp.Diagnose: a
// read-only health sweep, never mutating a working tree.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Report the health of every repository in the manifest without changing anything",
	Args:  cobra.NoArgs,
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().StringVar(&doctorConfig, "config", "", "path to the manifest file (default .gitrepos)")
	doctorCmd.Flags().StringArrayVar(&doctorLabels, "labels", nil, "restrict to repos carrying one of these labels (repeatable)")
}

func runDoctor(cmd *cobra.Command, args []string) error {
	rc, err := buildRunContext(doctorConfig, 0, 0, nil, doctorLabels)
	if err != nil {
		return err
	}
	r, err := ops.Doctor(context.Background(), rc, engine())
	if err != nil {
		return err
	}
	printSummary(r)
	return r.Err()
}
