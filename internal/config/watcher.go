package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"dai/pkg/logging"
)

// Watcher notifies when config.yaml changes on disk.
//
// The directory is watched rather than the file so that editors which
// replace the file through a rename are noticed too.
type Watcher struct {
	mu sync.Mutex

	// dir is the watched configuration directory
	dir string

	// debounceInterval is how long to wait for additional changes
	debounceInterval time.Duration

	watcher *fsnotify.Watcher
	pending *time.Timer
	stopCh  chan struct{}
	running bool
}

// NewWatcher creates a watcher for config.yaml in dir.
func NewWatcher(dir string, debounceInterval time.Duration) *Watcher {
	if debounceInterval == 0 {
		debounceInterval = 500 * time.Millisecond
	}
	return &Watcher{
		dir:              dir,
		debounceInterval: debounceInterval,
	}
}

// Start begins watching. A value is sent on changes after each debounced
// burst of events; sends never block, so a slow reader sees one pending
// notification at most.
func (w *Watcher) Start(ctx context.Context, changes chan<- struct{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(w.dir); err != nil {
		watcher.Close()
		return err
	}

	w.watcher = watcher
	w.stopCh = make(chan struct{})
	w.running = true

	go w.processEvents(ctx, watcher, w.stopCh, changes)

	logging.Info("Config", "Watching %s for configuration changes", FilePath(w.dir))
	return nil
}

func (w *Watcher) processEvents(ctx context.Context, watcher *fsnotify.Watcher, stopCh <-chan struct{}, changes chan<- struct{}) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return

		case <-stopCh:
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != configFileName {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.debounce(changes)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logging.Error("Config", err, "Configuration watcher error")
		}
	}
}

func (w *Watcher) debounce(changes chan<- struct{}) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(w.debounceInterval, func() {
		select {
		case changes <- struct{}{}:
			logging.Debug("Config", "Configuration file changed")
		default:
		}
	})
}

// Stop stops watching. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	w.running = false
	close(w.stopCh)

	if w.pending != nil {
		w.pending.Stop()
		w.pending = nil
	}
	if err := w.watcher.Close(); err != nil {
		logging.Error("Config", err, "Error closing configuration watcher")
	}
	w.watcher = nil
}
