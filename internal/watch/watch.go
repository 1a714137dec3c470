// Package watch triggers a callback when a repository's refs change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/hacklet1101/roadmap-kit/internal/logging"
)

// DefaultDebounce is the quiet period after the last change before the
// callback runs.
const DefaultDebounce = 500 * time.Millisecond

// Watcher debounces filesystem events on a set of directories.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	log      *zap.Logger
}

// GitPaths returns the directories whose changes signal new commits: the git
// dir itself (HEAD) and refs/heads.
func GitPaths(gitDir string) []string {
	return []string{gitDir, filepath.Join(gitDir, "refs", "heads")}
}

// New watches every existing directory in paths. At least one must exist.
func New(paths []string, debounce time.Duration, log *zap.Logger) (*Watcher, error) {
	log = logging.OrNop(log)
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	added := 0
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			log.Debug("skipping missing watch path", zap.String("path", p))
			continue
		}
		if err := fsw.Add(p); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("watching %s: %w", p, err)
		}
		log.Debug("watching", zap.String("path", p))
		added++
	}
	if added == 0 {
		_ = fsw.Close()
		return nil, errors.New("no watchable paths")
	}
	return &Watcher{fs: fsw, debounce: debounce, log: log}, nil
}

// relevant drops permission changes and git's transient lock and index files.
func relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	base := filepath.Base(event.Name)
	return !strings.HasSuffix(base, ".lock") && base != "index"
}

// Run calls onChange once per burst of relevant events, after the debounce
// window has passed without further events. It returns when ctx is done and
// closes the underlying watcher.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context)) error {
	defer func() { _ = w.fs.Close() }()

	// Reset on a stopped timer discards any stale expiry since Go 1.23.
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			w.log.Debug("repository changed", zap.String("path", event.Name), zap.Stringer("op", event.Op))
			timer.Reset(w.debounce)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))

		case <-timer.C:
			onChange(ctx)
		}
	}
}
