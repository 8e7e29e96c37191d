// Package watcher turns file system notifications into change batches for
// the build engine.
package watcher

import (
	"context"
	"errors"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

const eventChannelBuffer = 100

// Watcher implements file system watching using fsnotify.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	logger    ports.Logger
	root      string
	events    chan ports.WatchEvent
	closeOnce sync.Once

	mu      sync.Mutex
	ignores []string
}

// NewWatcher creates a new file system watcher.
func NewWatcher(logger ports.Logger) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Join(domain.ErrWatcherFailed, err)
	}
	return &Watcher{
		fsWatcher: watcher,
		logger:    logger,
		events:    make(chan ports.WatchEvent, eventChannelBuffer),
	}, nil
}

// Ignore excludes directories below the watched root, such as the dist
// directory. Paths may be absolute or relative to the root.
func (w *Watcher) Ignore(paths ...string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, p := range paths {
		w.ignores = append(w.ignores, filepath.Clean(p))
	}
}

// Start begins watching the given root directory recursively.
func (w *Watcher) Start(ctx context.Context, root string) error {
	w.root = filepath.Clean(root)

	for dir := range w.watchRecursively(w.root) {
		if err := w.fsWatcher.Add(dir); err != nil {
			return zerr.With(errors.Join(domain.ErrWatcherAddFailed, err), "dir", dir)
		}
	}

	go w.processEvents(ctx)
	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// Events returns an iterator of file system events.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

// watchRecursively walks the directory tree and yields all watched directories.
func (w *Watcher) watchRecursively(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // skip unreadable directories
			}
			if !d.IsDir() {
				return nil
			}
			if path != root && w.shouldSkip(path) {
				return fs.SkipDir
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// shouldSkip reports whether path lies in an internal or ignored directory.
func (w *Watcher) shouldSkip(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	if domain.IsInternalPath(filepath.ToSlash(rel)) {
		return true
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.ContainsFunc(w.ignores, func(ignored string) bool {
		if !filepath.IsAbs(ignored) {
			ignored = filepath.Join(w.root, ignored)
		}
		return path == ignored || strings.HasPrefix(path, ignored+string(filepath.Separator))
	})
}

// processEvents converts raw fsnotify events until ctx is done or the
// watcher is stopped.
//
//nolint:cyclop // one branch per channel and event kind
func (w *Watcher) processEvents(ctx context.Context) {
	defer w.closeOnce.Do(func() { close(w.events) })

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if w.shouldSkip(event.Name) {
				continue
			}

			watchEvent, ok := convertEvent(event)
			if !ok {
				continue
			}

			if watchEvent.Operation == ports.OpCreate {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					for dir := range w.watchRecursively(event.Name) {
						if err := w.fsWatcher.Add(dir); err != nil {
							w.logger.Warn(zerr.With(errors.Join(domain.ErrWatcherAddFailed, err), "dir", dir).Error())
						}
					}
					// Files created before the directory was watched.
					w.emitExisting(ctx, event.Name)
					continue
				}
			}

			select {
			case w.events <- watchEvent:
			case <-ctx.Done():
				return
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn(zerr.Wrap(err, "file system watcher error").Error())
		}
	}
}

// emitExisting reports the files already present in a new directory.
func (w *Watcher) emitExisting(ctx context.Context, dir string) {
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // skip unreadable entries
		}
		if d.IsDir() {
			if path != dir && w.shouldSkip(path) {
				return fs.SkipDir
			}
			return nil
		}
		select {
		case w.events <- ports.WatchEvent{Path: path, Operation: ports.OpCreate}:
			return nil
		case <-ctx.Done():
			return filepath.SkipAll
		}
	})
}

// convertEvent converts an fsnotify event to a ports.WatchEvent. Chmod-only
// events are dropped.
func convertEvent(event fsnotify.Event) (ports.WatchEvent, bool) {
	switch {
	case event.Has(fsnotify.Create):
		return ports.WatchEvent{Path: event.Name, Operation: ports.OpCreate}, true
	case event.Has(fsnotify.Write):
		return ports.WatchEvent{Path: event.Name, Operation: ports.OpWrite}, true
	case event.Has(fsnotify.Remove):
		return ports.WatchEvent{Path: event.Name, Operation: ports.OpRemove}, true
	case event.Has(fsnotify.Rename):
		return ports.WatchEvent{Path: event.Name, Operation: ports.OpRename}, true
	default:
		return ports.WatchEvent{}, false
	}
}
