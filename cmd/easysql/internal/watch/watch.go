// Package watch reruns a callback when a file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ashenguard/easysql/internal/debug"
)

// DefaultDebounce is how long a burst of writes is collapsed into one run.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches a single file.
type Watcher struct {
	file     string
	callback func() error
	watcher  *fsnotify.Watcher
	debounce time.Duration
}

// New watches file. The directory is watched so that editors replacing the
// file on save are still seen.
func New(file string, debounce time.Duration, callback func() error) (*Watcher, error) {
	absPath, err := filepath.Abs(file)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{file: absPath, callback: callback, watcher: watcher, debounce: debounce}, nil
}

// Run calls the callback once, then again after every change, until ctx is
// done. Callback errors after the first run are logged, not returned.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	if err := w.callback(); err != nil {
		return fmt.Errorf("initial run failed: %w", err)
	}

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	var pending <-chan time.Time
	log := debug.With("file", w.file)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if path, err := filepath.Abs(event.Name); err == nil && path == w.file {
				timer.Reset(w.debounce)
				pending = timer.C
			}

		case <-pending:
			pending = nil
			if err := w.callback(); err != nil {
				log.Error("watch callback failed", "error", err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("watch error", "error", err)

		case <-ctx.Done():
			return nil
		}
	}
}
