// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/archmagece/gitmgr/pkg/ops"
	"github.com/archmagece/gitmgr/pkg/watchmode"
)

var (
	watchConfig string
	watchLabels []string
)

// watchCmd is SPEC_FULL.md's expansion wiring pkg/watchmode: re-run fetch
// whenever the manifest file changes, debounced.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-fetch every repository whenever the manifest file changes",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchConfig, "config", "", "path to the manifest file (default .gitrepos)")
	watchCmd.Flags().StringArrayVar(&watchLabels, "labels", nil, "restrict to repos carrying one of these labels (repeatable)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	rc, err := buildRunContext(watchConfig, 0, 0, nil, watchLabels)
	if err != nil {
		return err
	}
	eng := engine()

	w, err := watchmode.New(rc.ManifestPath, watchmode.Options{
		OnChange: func(ctx context.Context) error {
			fmt.Println("watch: manifest changed, fetching")
			r, err := ops.Fetch(ctx, rc, eng)
			if err != nil {
				return err
			}
			printSummary(r)
			return r.Err()
		},
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		for err := range w.Errors() {
			fmt.Fprintln(os.Stderr, "watch: "+err.Error())
		}
	}()

	fmt.Printf("watch: watching %s for changes (ctrl-c to stop)\n", rc.ManifestPath)
	return w.Run(ctx)
}
