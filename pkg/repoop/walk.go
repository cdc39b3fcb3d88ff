package repoop

import (
	"os"
	"path/filepath"

	"github.com/archmagece/gitmgr/internal/engineerr"
)

// discoveredRepo is one directory found to contain a .git entry during a
// root walk, used by both Snapshot and Clean.
type discoveredRepo struct {
	// RelPath is relative to root; "" denotes the root itself.
	RelPath string
	AbsPath string
}

// walkGitDirs recursively walks root looking for directories containing
// .git (depth-first, skipping the ".git" directory itself, continuing into
// subdirectories even after a repo is found so nested checkouts are still
// discovered).
func walkGitDirs(root string) ([]discoveredRepo, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, engineerr.Wrap(engineerr.IOError, "", err)
	}

	var found []discoveredRepo
	if err := walkDir(absRoot, absRoot, &found); err != nil {
		return nil, err
	}
	return found, nil
}

func walkDir(root, current string, found *[]discoveredRepo) error {
	if isDir(filepath.Join(current, ".git")) {
		rel, err := filepath.Rel(root, current)
		if err != nil {
			return engineerr.Wrap(engineerr.IOError, "", err)
		}
		if rel == "." {
			rel = ""
		}
		*found = append(*found, discoveredRepo{RelPath: rel, AbsPath: current})
	}

	entries, err := os.ReadDir(current)
	if err != nil {
		return engineerr.Wrap(engineerr.IOError, current, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == ".git" {
			continue
		}
		if err := walkDir(root, filepath.Join(current, entry.Name()), found); err != nil {
			return err
		}
	}
	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func removeAll(path string) error {
	return os.RemoveAll(path)
}
