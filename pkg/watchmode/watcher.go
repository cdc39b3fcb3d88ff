// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package watchmode implements `gitmgr watch`: an fsnotify watch on the
// manifest file that re-runs a caller-supplied callback (normally fetch)
// after the file settles. It watches a single file (the manifest) and
// fires a single debounced action, rather than diffing per-repo status,
// since watch mode only needs to know "the manifest changed," not what
// changed within it.
package watchmode

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Options configures Watcher.
type Options struct {
	// DebounceDuration is how long the manifest must go unmodified before
	// OnChange fires. Defaults to 500ms.
	DebounceDuration time.Duration

	// OnChange is invoked (once per debounced burst) after the manifest
	// file settles. Errors it returns are delivered on Errors().
	OnChange func(ctx context.Context) error
}

// Watcher watches a single manifest path and debounces its write events,
// per SPEC_FULL.md §8 testable property 10 ("a burst of N manifest writes
// within the debounce window triggers at most one re-fetch").
type Watcher struct {
	fswatch *fsnotify.Watcher
	path    string
	debounce time.Duration
	onChange func(ctx context.Context) error

	errors chan error

	mu     sync.Mutex
	timer  *time.Timer
	cancel context.CancelFunc
}

// New creates a Watcher on path. It watches path's parent directory
// rather than the file itself, since editors and ManifestWriter's
// tmp+rename protocol (pkg/manifest/writer.go) replace the file instead
// of writing into it in place, and a rename target stops being watchable
// once the original inode's watch fires.
func New(path string, opts Options) (*Watcher, error) {
	if opts.DebounceDuration <= 0 {
		opts.DebounceDuration = 500 * time.Millisecond
	}
	if opts.OnChange == nil {
		return nil, fmt.Errorf("watchmode: OnChange is required")
	}

	fswatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watchmode: creating file watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := fswatch.Add(dir); err != nil {
		fswatch.Close()
		return nil, fmt.Errorf("watchmode: watching %s: %w", dir, err)
	}

	return &Watcher{
		fswatch:  fswatch,
		path:     path,
		debounce: opts.DebounceDuration,
		onChange: opts.OnChange,
		errors:   make(chan error, 8),
	}, nil
}

// Errors returns the channel errors from OnChange (and from the
// underlying fsnotify watch) are delivered on.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Run blocks, dispatching debounced OnChange calls, until ctx is
// cancelled or Stop is called.
func (w *Watcher) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	w.mu.Lock()
	w.cancel = cancel
	w.mu.Unlock()
	defer w.fswatch.Close()

	target := filepath.Clean(w.path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fswatch.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule(ctx)

		case err, ok := <-w.fswatch.Errors:
			if !ok {
				return nil
			}
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

// schedule (re)starts the debounce timer; repeated calls within
// DebounceDuration collapse into the single fire the timer produces when
// the burst finally goes quiet.
func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	fire := func() {
		if err := w.onChange(ctx); err != nil {
			select {
			case w.errors <- err:
			default:
			}
		}
	}

	if w.timer == nil {
		w.timer = time.AfterFunc(w.debounce, fire)
		return
	}
	w.timer.Reset(w.debounce)
}

// Stop ends Run.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		w.cancel()
	}
	if w.timer != nil {
		w.timer.Stop()
	}
}
