package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/archmagece/gitmgr/internal/engineerr"
)

// Writer performs the atomic write protocol from spec.md §4.6: write to a
// temp file, fsync it, back up the existing target, rename the temp file
// into place, and roll back the backup on any failure along the way —
// the manifest must never be left torn or partially written.
type Writer struct {
	// Path is the target manifest file.
	Path string
}

// NewWriter creates a Writer for the given manifest path.
func NewWriter(path string) *Writer {
	return &Writer{Path: path}
}

// Write serializes m and atomically replaces the target file.
//
// Protocol:
//  1. ensure the target directory exists.
//  2. write the content to "<name>.tmp-<unique>" in the same directory, fsync it.
//  3. if the target exists, rename it to "<name>.bak-<unique>".
//  4. rename the tmp file to the target.
//  5. on success, remove the backup.
//  6. on failure at step 3 or 4: remove the tmp file; if a backup was made,
//     rename it back; propagate the IO error.
func (w *Writer) Write(m *Manifest) error {
	dir := filepath.Dir(w.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return engineerr.Wrap(engineerr.CreateDirFailed, "", err)
	}

	unique := time.Now().UnixNano()
	tmpPath := fmt.Sprintf("%s.tmp-%d", w.Path, unique)
	bakPath := fmt.Sprintf("%s.bak-%d", w.Path, unique)

	content := Serialize(m)

	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return engineerr.Wrap(engineerr.IOError, "", err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return engineerr.Wrap(engineerr.IOError, "", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return engineerr.Wrap(engineerr.IOError, "", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return engineerr.Wrap(engineerr.IOError, "", err)
	}

	hadBackup := false
	if _, err := os.Stat(w.Path); err == nil {
		if err := os.Rename(w.Path, bakPath); err != nil {
			os.Remove(tmpPath)
			return engineerr.Wrap(engineerr.IOError, "", err)
		}
		hadBackup = true
	}

	if err := os.Rename(tmpPath, w.Path); err != nil {
		os.Remove(tmpPath)
		if hadBackup {
			os.Rename(bakPath, w.Path)
		}
		return engineerr.Wrap(engineerr.IOError, "", err)
	}

	if hadBackup {
		os.Remove(bakPath)
	}

	return nil
}
