package game

import (
	"os"
	"sync"
	"time"
)

// FileWatcher polls file modification times and triggers a callback on change.
// It uses only the standard library for simplicity.
type FileWatcher struct {
	Paths    []string
	Interval time.Duration
	onChange func(string) // called with path that changed

	stopOnce  sync.Once
	stopCh    chan struct{}
	lastMTime map[string]time.Time // owned by the polling goroutine
}

// NewFileWatcher creates a watcher for given paths and interval.
func NewFileWatcher(paths []string, interval time.Duration, onChange func(string)) *FileWatcher {
	return &FileWatcher{
		Paths:     paths,
		Interval:  interval,
		onChange:  onChange,
		stopCh:    make(chan struct{}),
		lastMTime: make(map[string]time.Time),
	}
}

// WatchCatalog reloads cat whenever the catalog file changes. Reload errors
// go to onError and keep the previous catalog.
func WatchCatalog(cat *Catalog, interval time.Duration, onError func(error)) *FileWatcher {
	return NewFileWatcher([]string{cat.loader.Paths().CatalogPath()}, interval, func(string) {
		if err := cat.Reload(); err != nil && onError != nil {
			onError(err)
		}
	})
}

// Start primes mtimes synchronously, then polls in a goroutine.
func (w *FileWatcher) Start() {
	w.scanAll(true)
	ticker := time.NewTicker(w.Interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.scanAll(false)
			case <-w.stopCh:
				return
			}
		}
	}()
}

// Stop terminates the watcher. It is safe to call more than once.
func (w *FileWatcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

// scanAll checks mtimes and invokes onChange for files that changed since last scan.
// A file that appears after priming counts as a change.
func (w *FileWatcher) scanAll(prime bool) {
	for _, p := range w.Paths {
		fi, err := os.Stat(p)
		if err != nil {
			continue
		}
		mt := fi.ModTime()
		last, ok := w.lastMTime[p]
		w.lastMTime[p] = mt
		if prime || w.onChange == nil {
			continue
		}
		if !ok || mt.After(last) {
			w.onChange(p)
		}
	}
}
