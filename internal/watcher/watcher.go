// Package watcher reports changes to dataset files in a directory,
// coalescing bursts of events into one batch per debounce window.
package watcher

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/chartwell/internal/log"
)

// Extensions lists the file extensions treated as datasets.
var Extensions = []string{".yaml", ".yml", ".json"}

// IsDataset reports whether path has a dataset extension.
func IsDataset(path string) bool {
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(path)))
}

// Watcher monitors a dataset directory and sends the changed paths.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	dir       string
	debounce  time.Duration
	onChange  chan []string
	done      chan struct{}
}

// Config holds watcher configuration options.
type Config struct {
	Dir         string
	DebounceDur time.Duration
}

// DefaultConfig returns the stock watcher settings for dir.
func DefaultConfig(dir string) Config {
	return Config{
		Dir:         dir,
		DebounceDur: 250 * time.Millisecond,
	}
}

// New creates a watcher. Call Start to begin watching.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		dir:       cfg.Dir,
		debounce:  cfg.DebounceDur,
		onChange:  make(chan []string, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching the directory. The returned channel receives the
// sorted set of dataset paths that changed (written, created, removed or
// renamed) within each debounce window.
func (w *Watcher) Start() (<-chan []string, error) {
	if err := w.fsWatcher.Add(w.dir); err != nil {
		return nil, fmt.Errorf("watching directory %s: %w", w.dir, err)
	}

	go w.loop()

	log.Info(log.CatWatcher, "Watching dataset directory", "dir", w.dir, "debounce", w.debounce)
	return w.onChange, nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

func (w *Watcher) loop() {
	var timer *time.Timer
	pending := make(map[string]struct{})

	arm := func() {
		if timer == nil {
			timer = time.NewTimer(w.debounce)
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(w.debounce)
	}

	for {
		var fire <-chan time.Time
		if timer != nil {
			fire = timer.C
		}

		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !isRelevantEvent(event) {
				continue
			}
			pending[event.Name] = struct{}{}
			arm()

		case <-fire:
			if len(pending) == 0 {
				continue
			}
			batch := slices.Sorted(maps.Keys(pending))
			select {
			case w.onChange <- batch:
				clear(pending)
			default:
				// Receiver is behind; keep the paths for the next window.
				arm()
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatcher, "File watch error", err, "dir", w.dir)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return IsDataset(event.Name)
}
