package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"sidebarkit/internal/logging"
	"sidebarkit/internal/ports"
)

// FileWatcher reports changes made to a FileStorage key by other processes
type FileWatcher struct {
	storage *FileStorage
}

// Verify interface compliance at compile time
var _ ports.StorageWatcher = (*FileWatcher)(nil)

// NewFileWatcher creates a watcher over the files of storage
func NewFileWatcher(storage *FileStorage) *FileWatcher {
	return &FileWatcher{storage: storage}
}

// Watch implements StorageWatcher.Watch. The directory is watched rather than
// the file so the key can be created or replaced atomically by other writers.
func (w *FileWatcher) Watch(ctx context.Context, key string, onChange func()) error {
	path, err := w.storage.PathFor(key)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.storage.Dir()); err != nil {
		return fmt.Errorf("failed to watch storage directory: %w", err)
	}

	logging.Logger.Debug("Watching storage key", "key", key, "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logging.Logger.Debug("Storage key changed", "key", key, "op", event.Op.String())
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Logger.Warn("Storage watcher error", "error", err)
		}
	}
}
