// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/archmagece/gitmgr/pkg/ops"
)

var (
	cleanConfig string
	cleanLabels []string
	cleanYes    bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove working directories not accounted for by the manifest",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringVar(&cleanConfig, "config", "", "path to the manifest file (default .gitrepos)")
	cleanCmd.Flags().StringArrayVar(&cleanLabels, "labels", nil, "restrict to repos carrying one of these labels (repeatable)")
	cleanCmd.Flags().BoolVarP(&cleanYes, "yes", "y", false, "skip the confirmation prompt")
}

func runClean(cmd *cobra.Command, args []string) error {
	rc, err := buildRunContext(cleanConfig, 0, 0, nil, cleanLabels)
	if err != nil {
		return err
	}

	if !cleanYes {
		var confirm bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("Remove orphaned working directories?").
					Description("Any directory under the manifest root with a .git entry that the manifest doesn't account for will be deleted.").
					Affirmative("Yes, delete them").
					Negative("No, cancel").
					Value(&confirm),
			),
		).WithTheme(huh.ThemeCharm())
		if err := form.Run(); err != nil {
			return err
		}
		if !confirm {
			fmt.Println("clean: cancelled")
			return nil
		}
	}

	r, err := ops.Clean(context.Background(), rc, engine())
	if err != nil {
		return err
	}
	printSummary(r)
	return r.Err()
}
