// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package shellhook

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Config holds non-interactive credential material for a single repo's
// remote, supplied by the caller up front so sync/fetch never needs to
// block on a prompt for automated runs.
type Config struct {
	// Token is injected into HTTPS clone/fetch URLs.
	Token string

	// Provider selects the token's username convention (github, gitlab,
	// gitea); unrecognized or empty defaults to the GitLab-style
	// "oauth2" convention.
	Provider string

	// SSHKeyPath is the path to an SSH private key file (priority over
	// SSHKeyContent).
	SSHKeyPath string

	// SSHKeyContent is SSH private key material, written to a temp file
	// when SSHKeyPath is empty.
	SSHKeyContent string

	// SSHPort is a non-default SSH port, 0 meaning "use 22".
	SSHPort int
}

// Result is what PrepareAuth hands back for use against GitBackend.
type Result struct {
	// URL is the (possibly token-injected) remote URL to use.
	URL string

	// Env holds extra environment variables (GIT_SSH_COMMAND) to pass to
	// the git subprocess.
	Env []string

	// TempKeyPath is set when an SSH key was written to a temp file, so
	// the caller can clean it up.
	TempKeyPath string

	// Warnings are non-fatal notices the caller should relay through Hook.Warn.
	Warnings []string
}

// PrepareAuth adapts remoteURL and cfg into a Result ready to pass to
// GitBackend: HTTPS URLs get a token injected into the userinfo, SSH URLs
// get GIT_SSH_COMMAND populated from the configured key.
func PrepareAuth(remoteURL string, cfg Config) (*Result, error) {
	result := &Result{URL: remoteURL}

	if isSSHURL(remoteURL) {
		if err := prepareSSHAuth(result, cfg); err != nil {
			return nil, fmt.Errorf("ssh auth setup failed: %w", err)
		}
		return result, nil
	}

	if cfg.Token == "" {
		return result, nil
	}
	modified, err := injectTokenToURL(remoteURL, cfg.Token, cfg.Provider)
	if err != nil {
		return nil, fmt.Errorf("https auth setup failed: %w", err)
	}
	result.URL = modified
	return result, nil
}

func isSSHURL(remoteURL string) bool {
	if strings.HasPrefix(remoteURL, "ssh://") {
		return true
	}
	if strings.Contains(remoteURL, "@") && strings.Contains(remoteURL, ":") {
		if !strings.HasPrefix(remoteURL, "http://") && !strings.HasPrefix(remoteURL, "https://") {
			return true
		}
	}
	return false
}

func injectTokenToURL(remoteURL, token, provider string) (string, error) {
	if isSSHURL(remoteURL) {
		return remoteURL, nil
	}

	parsed, err := url.Parse(remoteURL)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return remoteURL, nil
	}

	var username string
	switch strings.ToLower(provider) {
	case "gitlab":
		username = "oauth2"
	case "github":
		username = "x-access-token"
	case "gitea":
		username = ""
	default:
		username = "oauth2"
	}

	if username != "" {
		parsed.User = url.UserPassword(username, token)
	} else {
		parsed.User = url.User(token)
	}

	return parsed.String(), nil
}

func prepareSSHAuth(result *Result, cfg Config) error {
	var keyPath string

	switch {
	case cfg.SSHKeyPath != "":
		expanded, err := expandHomePath(cfg.SSHKeyPath)
		if err != nil {
			return fmt.Errorf("invalid ssh key path: %w", err)
		}
		if _, err := os.Stat(expanded); os.IsNotExist(err) {
			return fmt.Errorf("ssh key file not found: %s", expanded)
		}
		keyPath = expanded
	case cfg.SSHKeyContent != "":
		tempPath, err := createTempSSHKey(cfg.SSHKeyContent)
		if err != nil {
			return fmt.Errorf("failed to create temp ssh key: %w", err)
		}
		keyPath = tempPath
		result.TempKeyPath = tempPath
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("temporary SSH key created at %s, remove it after use", tempPath))
	}

	if keyPath == "" {
		return nil
	}

	result.Env = append(result.Env, "GIT_SSH_COMMAND="+buildSSHCommand(keyPath, cfg.SSHPort))
	return nil
}

func buildSSHCommand(keyPath string, sshPort int) string {
	cmd := fmt.Sprintf("ssh -i %s -o IdentitiesOnly=yes -o StrictHostKeyChecking=accept-new", keyPath)
	if sshPort > 0 && sshPort != 22 {
		cmd += fmt.Sprintf(" -p %d", sshPort)
	}
	return cmd
}

func createTempSSHKey(content string) (string, error) {
	tempDir := filepath.Join(os.TempDir(), "gitmgr-keys")
	if err := os.MkdirAll(tempDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}

	tempFile, err := os.CreateTemp(tempDir, "ssh-key-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer tempFile.Close()

	if err := os.Chmod(tempFile.Name(), 0o600); err != nil {
		os.Remove(tempFile.Name())
		return "", fmt.Errorf("failed to set file permissions: %w", err)
	}
	if _, err := tempFile.WriteString(content); err != nil {
		os.Remove(tempFile.Name())
		return "", fmt.Errorf("failed to write key content: %w", err)
	}
	if !strings.HasSuffix(content, "\n") {
		if _, err := tempFile.WriteString("\n"); err != nil {
			os.Remove(tempFile.Name())
			return "", fmt.Errorf("failed to write newline: %w", err)
		}
	}

	return tempFile.Name(), nil
}

func expandHomePath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[1:]), nil
}

// MaskTokenInURL masks embedded credentials for safe logging.
func MaskTokenInURL(rawURL string) string {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return rawURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	if parsed.User == nil {
		return rawURL
	}

	username := parsed.User.Username()
	_, hasPass := parsed.User.Password()

	var maskedUserInfo string
	switch {
	case hasPass:
		maskedUserInfo = username + ":***"
	case username != "":
		maskedUserInfo = "***"
	}

	result := parsed.Scheme + "://"
	if maskedUserInfo != "" {
		result += maskedUserInfo + "@"
	}
	result += parsed.Host + parsed.RequestURI()
	return result
}
