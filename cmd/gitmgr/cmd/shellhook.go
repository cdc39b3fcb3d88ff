// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"

	"github.com/archmagece/gitmgr/pkg/shellhook"
)

// cliShellHook is the terminal-backed shellhook.Hook: every blocking
// decision RepoOp needs from a human goes through a huh.NewConfirm or
// huh.NewInput form (huh.ThemeCharm) instead of a bare fmt.Scanln prompt.
type cliShellHook struct{}

func newCLIShellHook() shellhook.Hook {
	return cliShellHook{}
}

func (cliShellHook) Warn(msg string) {
	fmt.Fprintln(os.Stderr, "warning: "+msg)
}

func (cliShellHook) AskSSHTrust(fingerprint string) bool {
	var trust bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Unknown SSH host key").
				Description(fmt.Sprintf("fingerprint: %s\nTrust this host and continue?", fingerprint)).
				Affirmative("Yes, trust it").
				Negative("No, abort").
				Value(&trust),
		),
	).WithTheme(huh.ThemeCharm())

	if err := form.Run(); err != nil {
		return false
	}
	return trust
}

func (cliShellHook) AskHTTPAuth() (shellhook.Credentials, bool) {
	var username, password string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("HTTP username").
				Value(&username),
			huh.NewInput().
				Title("HTTP password / token").
				EchoMode(huh.EchoModePassword).
				Value(&password),
		),
	).WithTheme(huh.ThemeCharm())

	if err := form.Run(); err != nil {
		return shellhook.Credentials{}, false
	}
	if username == "" && password == "" {
		return shellhook.Credentials{}, false
	}
	return shellhook.Credentials{Username: username, Password: password}, true
}
