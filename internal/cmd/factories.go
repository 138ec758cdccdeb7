package cmd

import (
	"context"
	"fmt"

	"sidebarkit/internal/adapters/storage"
	"sidebarkit/internal/config"
	"sidebarkit/internal/logging"
	"sidebarkit/internal/ports"
	"sidebarkit/internal/services"
)

// Container holds all dependencies for the application
type Container struct {
	// Services
	SettingsService *services.SettingsService
	SidebarService  *services.SidebarService

	// Adapters
	Storage ports.DurableStorage
	Store   *services.Store

	// Internal - nil when the backend cannot report external changes
	watcher ports.StorageWatcher
}

// NewContainer creates a new Container with all dependencies wired
func NewContainer(ctx context.Context, settings *config.Settings) (*Container, error) {
	if settings == nil {
		settings = &config.Settings{}
	}

	durable, watcher, err := newStorage(settings.GetStorage())
	if err != nil {
		return nil, err
	}

	store := services.NewStore(ctx, durable, settings.GetStorageKey(), ports.SystemClock)

	return &Container{
		SettingsService: services.NewSettingsService(settings),
		SidebarService:  services.NewSidebarService(store),
		Storage:         durable,
		Store:           store,
		watcher:         watcher,
	}, nil
}

// newStorage opens the configured durable storage backend
func newStorage(backend string) (ports.DurableStorage, ports.StorageWatcher, error) {
	logging.Logger.Debug("Opening durable storage", "backend", backend)

	switch backend {
	case config.StorageFile:
		fs, err := storage.NewFileStorage(config.GetStateDir())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open file storage: %w", err)
		}
		return fs, storage.NewFileWatcher(fs), nil
	case config.StorageSQLite:
		db, err := storage.NewSQLiteStorage(config.GetDBPath())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite storage: %w", err)
		}
		return db, nil, nil
	case config.StorageMemory:
		return storage.NewMemoryStorage(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend '%s'", backend)
	}
}

// CanWatch reports whether the storage backend reports changes made by
// other processes
func (c *Container) CanWatch() bool {
	return c.watcher != nil
}

// Watch reloads the store whenever another process writes the storage key.
// It runs in the background until ctx is done.
func (c *Container) Watch(ctx context.Context) {
	if c.watcher == nil {
		logging.Logger.Debug("Storage backend does not support watching")
		return
	}

	go func() {
		err := c.watcher.Watch(ctx, c.Store.Key(), func() {
			c.Store.Reload(ctx)
		})
		if err != nil {
			logging.Logger.Warn("Storage watcher stopped", "error", err)
		}
	}()
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if c.Storage != nil {
		return c.Storage.Close()
	}
	return nil
}
