package storage

import (
	"context"
	"fmt"
	"sync"

	"sidebarkit/internal/domain"
	"sidebarkit/internal/ports"
)

// MemoryStorage implements ports.DurableStorage in process memory.
// State survives only as long as the process.
type MemoryStorage struct {
	mu      sync.RWMutex
	entries map[string]string
}

// Verify interface compliance at compile time
var _ ports.DurableStorage = (*MemoryStorage)(nil)

// NewMemoryStorage creates an empty MemoryStorage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{entries: make(map[string]string)}
}

// Get implements StorageReader.Get
func (s *MemoryStorage) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.entries[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrKeyNotFound, key)
	}
	return value, nil
}

// Set implements StorageWriter.Set
func (s *MemoryStorage) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = value
	return nil
}

// Remove implements StorageWriter.Remove
func (s *MemoryStorage) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// Close implements DurableStorage.Close
func (s *MemoryStorage) Close() error {
	return nil
}
