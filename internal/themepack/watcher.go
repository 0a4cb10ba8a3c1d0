package themepack

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/feedkit/feedkit/internal/logger"
)

const defaultDebounce = 250 * time.Millisecond

// ReloadFunc receives the freshly loaded packs, or the error that prevented
// loading them.
type ReloadFunc func(packs []*Pack, err error)

// Watcher reloads packs when their files change. Bursts of events are
// debounced into a single reload.
type Watcher struct {
	paths    []string
	debounce time.Duration
	log      *logger.Logger
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatchLogger sets the watcher logger.
func WithWatchLogger(log *logger.Logger) WatcherOption {
	return func(w *Watcher) {
		if log != nil {
			w.log = log
		}
	}
}

// NewWatcher watches the given pack files and directories.
func NewWatcher(paths []string, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		paths:    append([]string(nil), paths...),
		debounce: defaultDebounce,
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run blocks until ctx is cancelled, calling reload after each debounced
// burst of changes to pack files.
func (w *Watcher) Run(ctx context.Context, reload ReloadFunc) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	watched := 0
	for _, path := range w.paths {
		if _, err := os.Stat(path); err != nil {
			w.log.With("path", path).Warn("skipping unwatchable theme pack path")
			continue
		}
		if err := watcher.Add(path); err != nil {
			w.log.With("path", path).Error(err, "failed to watch theme pack path")
			continue
		}
		watched++
	}
	w.log.WithFields(map[string]any{"paths": watched}).Info("watching theme packs")

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	fire := func() {
		if ctx.Err() != nil {
			return
		}
		packs, err := LoadPaths(w.paths)
		if err != nil {
			w.log.Error(err, "theme pack reload failed")
		} else {
			w.log.WithFields(map[string]any{"packs": len(packs)}).Info("theme packs reloaded")
		}
		reload(packs, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 || !IsPackFile(event.Name) {
				continue
			}
			w.log.WithFields(map[string]any{"file": event.Name, "op": event.Op.String()}).Debug("theme pack changed")

			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, fire)
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Error(err, "theme pack watcher error")
		}
	}
}
