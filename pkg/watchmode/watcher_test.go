// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package watchmode

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewRequiresOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".gitrepos")
	os.WriteFile(path, []byte("version = \"1\"\n"), 0o644)

	if _, err := New(path, Options{}); err == nil {
		t.Fatal("New() with no OnChange should error")
	}
}

func TestDebouncesBurstToOneFire(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".gitrepos")
	if err := os.WriteFile(path, []byte("version = \"1\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var fires int32
	w, err := New(path, Options{
		DebounceDuration: 50 * time.Millisecond,
		OnChange: func(ctx context.Context) error {
			atomic.AddInt32(&fires, 1)
			return nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	// Burst of writes inside the debounce window should collapse to one fire.
	for i := 0; i < 5; i++ {
		os.WriteFile(path, []byte("version = \"1\"\n"), 0o644)
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(200 * time.Millisecond)
	cancel()
	<-done

	if got := atomic.LoadInt32(&fires); got != 1 {
		t.Errorf("fires = %d, want 1", got)
	}
}
