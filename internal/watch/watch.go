// Package watch reloads the runtime section of the config file while the
// server runs.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/matheuskafuri/newsanchor/internal/config"
	"github.com/matheuskafuri/newsanchor/internal/conversation"
	"github.com/matheuskafuri/newsanchor/internal/settings"
)

const defaultDebounce = 300 * time.Millisecond

// Watcher applies edits of the config file's runtime section to the settings
// store and pushes the new prompt to every live conversation.
type Watcher struct {
	path     string
	store    *settings.Store
	syncer   *conversation.Synchronizer
	registry *conversation.Registry
	onChange func(settings.Applied)

	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu      sync.Mutex
	pending time.Time
	reloads int
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func New(path string, store *settings.Store, syncer *conversation.Synchronizer, registry *conversation.Registry) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	return &Watcher{
		path:     filepath.Clean(path),
		store:    store,
		syncer:   syncer,
		registry: registry,
		watcher:  fw,
		debounce: defaultDebounce,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// WithDebounce sets how long the file must stay quiet before a reload.
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// OnChange registers fn to run after each applied reload.
func (w *Watcher) OnChange(fn func(settings.Applied)) *Watcher {
	w.onChange = fn
	return w
}

// Start watches the directory holding the config file, so saves that
// replace the file are seen too. It does not block.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(w.path), err)
	}
	slog.Info("watching config", "path", w.path)

	go w.run(ctx)
	return nil
}

// Stop ends the event loop and waits for it to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	if err := w.watcher.Close(); err != nil {
		slog.Error("closing config watcher", "error", err)
	}
}

// Reloads returns how many times the runtime section was applied.
func (w *Watcher) Reloads() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	interval := w.debounce / 3
	if interval <= 0 {
		interval = 10 * time.Millisecond
	}
	tick := time.NewTicker(interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("config watcher", "error", err)
		case <-tick.C:
			w.flush()
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if filepath.Clean(ev.Name) != w.path {
		return
	}
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return
	}
	w.mu.Lock()
	w.pending = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) flush() {
	w.mu.Lock()
	if w.pending.IsZero() || time.Since(w.pending) < w.debounce {
		w.mu.Unlock()
		return
	}
	w.pending = time.Time{}
	w.mu.Unlock()

	w.Reload()
}

// Reload applies the runtime section of the config file now. A file that
// cannot be read or parsed leaves the settings unchanged.
func (w *Watcher) Reload() {
	u, err := config.LoadRuntime(w.path)
	if err != nil {
		slog.Warn("config reload skipped", "path", w.path, "error", err)
		return
	}
	applied := w.store.Apply(u)
	n := w.syncer.SyncAll(w.registry)

	w.mu.Lock()
	w.reloads++
	w.mu.Unlock()

	slog.Info("runtime config reloaded", "path", w.path, "conversations_updated", n)
	if w.onChange != nil {
		w.onChange(applied)
	}
}
