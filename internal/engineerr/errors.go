// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package engineerr defines the closed error taxonomy surfaced by the engine
// packages (manifest, repoop, scheduler). Every failure the engine produces
// is an *Error with one of the Kind values below; callers that need to
// branch on failure type should use errors.As / Is against Kind, not string
// matching on Error().
package engineerr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies the category of an engine failure.
type Kind string

const (
	DirNotFound             Kind = "dir_not_found"
	DirAlreadyInited        Kind = "dir_already_inited"
	ConfigFileNotFound      Kind = "config_file_not_found"
	LoadConfigFailed        Kind = "load_config_failed"
	ParseConfigFailed       Kind = "parse_config_failed"
	IOError                 Kind = "io_error"
	GitCommandFailed        Kind = "git_command_failed"
	ProcessWaitFailed       Kind = "process_wait_failed"
	AcquirePermitFailed     Kind = "acquire_permit_failed"
	InvalidRepoConfig       Kind = "invalid_repo_config"
	NoRemoteConfigured      Kind = "no_remote_configured"
	BranchReferenceRequired Kind = "branch_reference_required"
	CreateDirFailed         Kind = "create_dir_failed"
	StashHardConflict       Kind = "stash_hard_conflict"
	RemoteRefNotFound       Kind = "remote_ref_not_found"
	CommitNotFound          Kind = "commit_not_found"
	BranchNotFound          Kind = "branch_not_found"
	Untracked               Kind = "untracked"
	OpsAggregate            Kind = "ops_aggregate"
	Cancelled               Kind = "cancelled"
)

// Error is the single error type used across the engine. It carries enough
// structure for a caller to format a per-repo line without parsing a string,
// while still behaving like a normal Go error via Error/Unwrap/Is.
type Error struct {
	Kind Kind

	// Repo is the repository's manifest-relative local path, empty for
	// errors that aren't tied to one repo (e.g. ParseConfigFailed).
	Repo string

	// Argv is the git argument vector that failed, for GitCommandFailed.
	Argv []string

	// Code is the subprocess exit code, for GitCommandFailed.
	Code int

	// Stderr is the tail of the subprocess's stderr, for GitCommandFailed.
	Stderr string

	// Detail is a free-form message for kinds that have no further
	// structure (IOError, ConfigFileNotFound, ...).
	Detail string

	// Cause is the underlying error, if any.
	Cause error

	// Children holds the per-repo errors an OpsAggregate wraps.
	Children []*Error
}

// New builds a plain Error of the given kind with a detail message.
func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// Wrap builds an Error of the given kind around an underlying cause.
func Wrap(kind Kind, repo string, cause error) *Error {
	return &Error{Kind: kind, Repo: repo, Cause: cause, Detail: errDetail(cause)}
}

// GitFailure builds the GitCommandFailed variant.
func GitFailure(repo string, argv []string, code int, stderr string) *Error {
	return &Error{
		Kind:   GitCommandFailed,
		Repo:   repo,
		Argv:   argv,
		Code:   code,
		Stderr: stderr,
	}
}

// Aggregate builds an OpsAggregate from the per-repo errors of a batch. It
// returns nil if errs is empty, matching spec.md §7's "only place error
// aggregation happens" rule: a clean batch produces no error at all.
func Aggregate(op string, errs []*Error) *Error {
	if len(errs) == 0 {
		return nil
	}
	return &Error{
		Kind:     OpsAggregate,
		Detail:   fmt.Sprintf("%s failed (%d of %d)", op, len(errs), len(errs)),
		Children: errs,
	}
}

func errDetail(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// Error implements error.
func (e *Error) Error() string {
	switch e.Kind {
	case GitCommandFailed:
		msg := fmt.Sprintf("git %s: exit %d", strings.Join(e.Argv, " "), e.Code)
		if e.Stderr != "" {
			msg += ": " + lastLine(e.Stderr)
		}
		return prefixRepo(e.Repo, msg)
	case OpsAggregate:
		var b strings.Builder
		b.WriteString(e.Detail)
		for _, c := range e.Children {
			b.WriteString("\n  ")
			b.WriteString(c.Error())
		}
		return b.String()
	default:
		msg := string(e.Kind)
		if e.Detail != "" {
			msg = e.Detail
		}
		return prefixRepo(e.Repo, msg)
	}
}

func prefixRepo(repo, msg string) string {
	if repo == "" {
		return msg
	}
	return repo + ": " + msg
}

func lastLine(s string) string {
	s = strings.TrimRight(s, "\n")
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error by Kind, the way callers usually want to branch
// ("was this a RemoteRefNotFound?") without caring about Repo/Detail.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind == "" {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinel instances for errors.Is(err, engineerr.ErrCancelled) style checks
// where callers don't need Repo/Detail context.
var (
	ErrCancelled         = &Error{Kind: Cancelled}
	ErrStashHardConflict = &Error{Kind: StashHardConflict}
)

// As reports whether err is (or wraps) an *Error, returning it.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
