package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/felixgeelhaar/opregistry/infrastructure/logging"
	"github.com/felixgeelhaar/opregistry/infrastructure/storage/memory"
)

// Watcher reloads a manifest into in-memory stores whenever the file changes.
// Each reload publishes a new directory and catalog together. A manifest that
// fails to load or build leaves the published stores untouched.
type Watcher struct {
	path     string
	loader   *Loader
	stores   *memory.Stores
	onReload func(error)
}

// WatcherOption configures a watcher.
type WatcherOption func(*Watcher)

// WithReloadHook registers a function called after every reload attempt.
func WithReloadHook(fn func(error)) WatcherOption {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

// WithWatchLoader sets the loader used for reloads.
func WithWatchLoader(l *Loader) WatcherOption {
	return func(w *Watcher) {
		w.loader = l
	}
}

// NewWatcher creates a watcher for the manifest at path.
func NewWatcher(path string, stores *memory.Stores, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		path:   filepath.Clean(path),
		loader: NewLoader(),
		stores: stores,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Reload loads the manifest and publishes stores built from it.
func (w *Watcher) Reload() error {
	m, err := w.loader.LoadFile(w.path)
	if err != nil {
		return err
	}
	result, err := Build(m)
	if err != nil {
		return err
	}
	return result.Publish(w.stores)
}

// Run watches the manifest until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	// Watch the parent directory so editors that replace the file are seen.
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.reload()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logging.Warn().
				Add(logging.Component("watcher")).
				Add(logging.Path(w.path)).
				Add(logging.ErrorField(err)).
				Msg("manifest watch error")
		}
	}
}

func (w *Watcher) reload() {
	err := w.Reload()
	if err != nil {
		logging.Error().
			Add(logging.Component("watcher")).
			Add(logging.Path(w.path)).
			Add(logging.ErrorField(err)).
			Msg("manifest reload failed, keeping previous registrations")
	} else {
		logging.Info().
			Add(logging.Component("watcher")).
			Add(logging.Path(w.path)).
			Msg("manifest reloaded")
	}
	if w.onReload != nil {
		w.onReload(err)
	}
}
