package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sidebarkit/internal/adapters/storage"
	"sidebarkit/internal/domain"
)

func toggleMain(st domain.State) domain.State {
	return domain.Toggle(st, "main", false)
}

func TestStore_WatchedFileStorage(t *testing.T) {
	files, err := storage.NewFileStorage(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := NewStore(ctx, files, testKey, fixedClock)
	store.SetState(register("main", domain.SidebarOptions{KeyboardShortcut: "mod+b"}))

	var reloads atomic.Int64
	done := make(chan error, 1)
	go func() {
		done <- storage.NewFileWatcher(files).Watch(ctx, testKey, func() {
			reloads.Add(1)
			store.Reload(ctx)
		})
	}()

	// Toggle until the watcher is registered and echoes the store's own writes
	require.Eventually(t, func() bool {
		store.SetState(toggleMain)
		return reloads.Load() > 0
	}, 5*time.Second, 20*time.Millisecond)

	vanished := 0
	for i := 0; i < 500; i++ {
		store.SetState(toggleMain)
		if _, ok := store.State().Get("main"); !ok {
			vanished++
		}
	}
	assert.Zero(t, vanished, "own writes echoed by the watcher must not reset the state")

	external := NewStore(ctx, files, testKey, fixedClock)
	_, ok := external.State().Get("main")
	require.True(t, ok, "the file must hold a whole record")
	external.SetState(register("inspector", domain.SidebarOptions{KeyboardShortcut: "mod+e"}))

	assert.Eventually(t, func() bool {
		_, ok := store.State().Get("inspector")
		return ok
	}, 5*time.Second, 20*time.Millisecond, "a write from another process must be adopted")

	cancel()
	require.NoError(t, <-done)

	st := store.State()
	assert.Contains(t, st.Sidebars, "main")
	assert.Equal(t, "main", st.KeyboardShortcuts["mod+b"])

	raw, err := files.Get(context.Background(), testKey)
	require.NoError(t, err)
	persisted, err := DecodeState(raw)
	require.NoError(t, err)
	assert.Contains(t, persisted.Sidebars, "main")
	assert.Contains(t, persisted.Sidebars, "inspector")
}
