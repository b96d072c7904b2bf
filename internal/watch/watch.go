// Package watch re-runs work when a file changes.
package watch

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"time"

	"braces.dev/errtrace"
	"github.com/fsnotify/fsnotify"
	"go.abhg.dev/hilite/internal/errdefer"
)

// DefaultDebounce is the default quiet period for a Watcher.
const DefaultDebounce = 100 * time.Millisecond

// Watcher calls a function whenever a file changes.
type Watcher struct {
	// Log receives errors reported by the file watcher
	// or by the function being run.
	Log *log.Logger

	// Debounce is how long the file must stay unchanged
	// before the function runs.
	// Bursts of changes within this period result in a single run.
	// Defaults to DefaultDebounce.
	Debounce time.Duration
}

// Watch calls fn every time the file at path is written or re-created,
// until ctx is cancelled.
// Errors returned by fn are logged and do not stop the watch.
//
// The file's directory is watched rather than the file itself
// so that editors that save by replacing the file are supported.
func (w *Watcher) Watch(ctx context.Context, path string, fn func() error) (err error) {
	logger := w.Log
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	path, err = filepath.Abs(path)
	if err != nil {
		return errtrace.Wrap(err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errtrace.Wrap(err)
	}
	defer errdefer.Close(&err, fsw)

	if err := fsw.Add(filepath.Dir(path)); err != nil {
		return errtrace.Wrap(err)
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time // nil while no run is scheduled
	)
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}

			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Printf("watch %v: %v", path, err)

		case <-fire:
			fire = nil
			if err := fn(); err != nil {
				logger.Printf("%v", err)
			}
		}
	}
}
