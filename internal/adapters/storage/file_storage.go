package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sidebarkit/internal/config"
	"sidebarkit/internal/domain"
	"sidebarkit/internal/ports"
)

// FileStorage implements ports.DurableStorage with one JSON file per key.
// Set writes a temp file in the same directory and renames it over the key,
// so readers only ever see a whole document. Writers also hold an exclusive
// lock on a sidecar .lock file so concurrent processes apply in turn.
type FileStorage struct {
	dir string
}

// Verify interface compliance at compile time
var _ ports.DurableStorage = (*FileStorage)(nil)

// NewFileStorage creates a FileStorage rooted at dir, creating it if needed
func NewFileStorage(dir string) (*FileStorage, error) {
	dir = config.ExpandPath(dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileStorage{dir: dir}, nil
}

// Dir returns the directory holding the key files
func (s *FileStorage) Dir() string {
	return s.dir
}

// PathFor returns the file backing key
func (s *FileStorage) PathFor(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

// Get implements StorageReader.Get
func (s *FileStorage) Get(ctx context.Context, key string) (string, error) {
	path, err := s.PathFor(key)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", domain.ErrKeyNotFound, key)
		}
		return "", fmt.Errorf("failed to read storage file: %w", err)
	}
	return string(data), nil
}

// Set implements StorageWriter.Set
func (s *FileStorage) Set(ctx context.Context, key, value string) error {
	path, err := s.PathFor(key)
	if err != nil {
		return err
	}

	unlock, err := s.lock(key)
	if err != nil {
		return err
	}
	defer unlock()

	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write storage file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync storage file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close storage file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("failed to set storage file mode: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace storage file: %w", err)
	}
	committed = true

	return nil
}

// Remove implements StorageWriter.Remove
func (s *FileStorage) Remove(ctx context.Context, key string) error {
	path, err := s.PathFor(key)
	if err != nil {
		return err
	}

	unlock, err := s.lock(key)
	if err != nil {
		return err
	}
	defer unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove storage file: %w", err)
	}
	return nil
}

// lock takes the writer lock for key. The lock file is never renamed, so
// every process contends on the same inode.
func (s *FileStorage) lock(key string) (func(), error) {
	file, err := os.OpenFile(filepath.Join(s.dir, key+".lock"), os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}
	if err := lockFile(file); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	return func() {
		unlockFile(file)
		file.Close()
	}, nil
}

// Close implements DurableStorage.Close
func (s *FileStorage) Close() error {
	return nil
}
