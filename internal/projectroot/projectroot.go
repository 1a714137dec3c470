// Package projectroot locates the repository a command operates on.
package projectroot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when no enclosing repository root exists.
var ErrNotFound = errors.New("project root not found")

// Find walks up from start to the nearest directory containing .git, either
// a directory or a worktree file.
func Find(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", start, err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: no .git above %s", ErrNotFound, start)
		}
		dir = parent
	}
}

// FindOr returns Find(start), or the absolute start directory when it is not
// inside a repository.
func FindOr(start string) string {
	if root, err := Find(start); err == nil {
		return root
	}
	if abs, err := filepath.Abs(start); err == nil {
		return abs
	}
	return start
}
