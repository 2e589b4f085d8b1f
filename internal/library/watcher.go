package library

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/deadchur/ITC303-platARpus-v1/internal/log"
)

// DefaultDebounce is how long the watcher waits for the directory to go
// quiet before rescanning. Editors fire bursts of events per save.
const DefaultDebounce = 250 * time.Millisecond

// Watcher rescans the library when its directory changes on disk.
type Watcher struct {
	lib      *Library
	debounce time.Duration
	onChange func()

	fsw  *fsnotify.Watcher
	done chan struct{}
}

// NewWatcher returns a Watcher over lib. onChange, if non-nil, runs after
// every triggered rescan, successful or not.
func NewWatcher(lib *Library, debounce time.Duration, onChange func()) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{lib: lib, debounce: debounce, onChange: onChange}
}

// Start begins watching. It fails if the scenes directory does not exist;
// callers that tolerate a missing directory simply skip the watcher.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating filesystem watcher: %w", err)
	}
	if err := fsw.Add(w.lib.Dir()); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("watching scenes directory: %w", err)
	}

	w.fsw = fsw
	w.done = make(chan struct{})
	log.SafeGo("library.watch", func() { w.loop(ctx) })
	log.Info(log.CatLibrary, "watching scenes directory", "dir", w.lib.Dir())
	return nil
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)

	// The timer is parked until the first relevant event.
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(w.debounce)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatLibrary, "filesystem watcher error", err)
		case <-timer.C:
			if err := w.lib.Reload(); err != nil {
				log.ErrorErr(log.CatLibrary, "rescan after change failed", err)
			}
			if w.onChange != nil {
				w.onChange()
			}
		}
	}
}

// Stop closes the watcher and waits for its loop to exit. Safe to call
// when Start never ran or failed.
func (w *Watcher) Stop() {
	if w.fsw == nil {
		return
	}
	_ = w.fsw.Close()
	<-w.done
}
