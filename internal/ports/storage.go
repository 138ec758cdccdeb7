package ports

import "context"

// StorageReader reads values from durable storage
type StorageReader interface {
	// Get returns the value stored under key.
	// Returns domain.ErrKeyNotFound when the key is absent.
	Get(ctx context.Context, key string) (string, error)
}

// StorageWriter writes values to durable storage
type StorageWriter interface {
	// Set stores value under key, replacing any previous value
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

// DurableStorage is the composite key/value interface the sidebar store
// mirrors its state into
type DurableStorage interface {
	StorageReader
	StorageWriter
	Close() error
}

// StorageWatcher reports external changes to a storage key
type StorageWatcher interface {
	// Watch calls onChange whenever key is modified outside this process.
	// It blocks until ctx is done.
	Watch(ctx context.Context, key string, onChange func()) error
}
