package manifest

import (
	"errors"
	"os"

	"github.com/archmagece/gitmgr/internal/engineerr"
)

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, engineerr.New(engineerr.ConfigFileNotFound, path)
		}
		return nil, engineerr.Wrap(engineerr.LoadConfigFailed, "", err)
	}
	return data, nil
}
