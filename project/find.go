package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when no candidate file exists in the start
// directory or any of its parents.
var ErrNotFound = errors.New("not found")

// FindUp searches start and then each parent directory for the first of
// names that exists as a regular file, returning its absolute path. Within
// one directory names are tried in order.
func FindUp(start string, names ...string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", start, err)
	}

	for {
		for _, name := range names {
			candidate := filepath.Join(dir, name)
			info, err := os.Stat(candidate)
			if err == nil && info.Mode().IsRegular() {
				return candidate, nil
			}
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return "", fmt.Errorf("checking %s: %w", candidate, err)
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: none of %v in %s or its parents", ErrNotFound, names, start)
		}
		dir = parent
	}
}
