package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sidebarkit/internal/domain"
	"sidebarkit/internal/logging"
	"sidebarkit/internal/ports"
)

const testKey = "sidebar-state"

var fixedClock = ports.ClockFunc(func() time.Time {
	return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
})

// fakeStorage is an in-memory DurableStorage with injectable failures
type fakeStorage struct {
	mu        sync.Mutex
	afterGet  func()
	getErr    error
	removeErr error
	setErr    error
	sets      int
	values    map[string]string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{values: make(map[string]string)}
}

func (f *fakeStorage) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	hook := f.afterGet
	err := f.getErr
	v, ok := f.values[key]
	f.mu.Unlock()

	// The hook runs after the value was read, simulating a concurrent writer
	if hook != nil {
		hook()
	}
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.ErrKeyNotFound
	}
	return v, nil
}

func (f *fakeStorage) setGetErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getErr = err
}

func (f *fakeStorage) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	f.values[key] = value
	return nil
}

func (f *fakeStorage) Remove(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.removeErr != nil {
		return f.removeErr
	}
	delete(f.values, key)
	return nil
}

func (f *fakeStorage) Close() error { return nil }

func (f *fakeStorage) raw(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	return v, ok
}

// captureLogs routes the package logger into a buffer for the test
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	previous := logging.Logger
	logging.SetOutput(&buf, slog.LevelDebug)
	t.Cleanup(func() { logging.Logger = previous })
	return &buf
}

func register(id string, opts domain.SidebarOptions) func(domain.State) domain.State {
	return func(st domain.State) domain.State { return domain.Register(st, id, opts) }
}

func TestNewStore_MissingKeyStartsEmpty(t *testing.T) {
	store := NewStore(context.Background(), newFakeStorage(), testKey, fixedClock)

	assert.Empty(t, store.State().Sidebars)
	assert.Empty(t, store.State().KeyboardShortcuts)
	assert.Equal(t, testKey, store.Key())
}

// Scenario D
func TestNewStore_MalformedJSONStartsEmptyAndWarns(t *testing.T) {
	logs := captureLogs(t)
	storage := newFakeStorage()
	storage.values[testKey] = "not-json"

	store := NewStore(context.Background(), storage, testKey, fixedClock)

	assert.Empty(t, store.State().Sidebars)
	assert.Contains(t, logs.String(), "Discarding persisted sidebar state")
	assert.Contains(t, logs.String(), `"level":"WARN"`)
}

func TestNewStore_ReadFailureStartsEmpty(t *testing.T) {
	logs := captureLogs(t)
	storage := newFakeStorage()
	storage.getErr = errors.New("disk on fire")

	store := NewStore(context.Background(), storage, testKey, fixedClock)

	assert.Empty(t, store.State().Sidebars)
	assert.Contains(t, logs.String(), "disk on fire")
}

func TestNewStore_NilStorageNeverPersists(t *testing.T) {
	store := NewStore(context.Background(), nil, testKey, nil)

	assert.NotPanics(t, func() {
		store.SetState(register("main", domain.SidebarOptions{}))
		store.Reload(context.Background())
		store.Clear(context.Background())
	})
}

func TestNewStore_ReconcilesOrphanedIndex(t *testing.T) {
	storage := newFakeStorage()
	storage.values[testKey] = `{"version":1,"sidebars":{"main":{"open":true,"openMobile":false,"variant":"default","side":"left","keyboardShortcut":"mod+b"}},"keyboardShortcuts":{"mod+x":"ghost"}}`

	store := NewStore(context.Background(), storage, testKey, fixedClock)

	assert.Equal(t, map[string]string{"mod+b": "main"}, store.State().KeyboardShortcuts)
}

func TestSetState_PersistsAndRoundTrips(t *testing.T) {
	storage := newFakeStorage()
	store := NewStore(context.Background(), storage, testKey, fixedClock)

	store.SetState(register("main", domain.SidebarOptions{KeyboardShortcut: "mod+b"}))
	store.SetState(func(st domain.State) domain.State {
		return domain.SetVariant(st, "main", domain.VariantInset)
	})

	raw, ok := storage.raw(testKey)
	require.True(t, ok)
	assert.Contains(t, raw, `"version":1`)
	assert.Contains(t, raw, `"updatedAt":"2026-01-02T03:04:05Z"`)

	reopened := NewStore(context.Background(), storage, testKey, fixedClock)
	assert.Equal(t, store.State(), reopened.State())
}

func TestSetState_WriteFailureIsSwallowed(t *testing.T) {
	logs := captureLogs(t)
	storage := newFakeStorage()
	storage.setErr = errors.New("quota exceeded")
	store := NewStore(context.Background(), storage, testKey, fixedClock)

	assert.NotPanics(t, func() {
		store.SetState(register("main", domain.SidebarOptions{}))
	})

	_, ok := store.State().Get("main")
	assert.True(t, ok, "in-memory state must advance even when the write fails")
	assert.Contains(t, logs.String(), "quota exceeded")
}

func TestSubscribe_NotifiesInRegistrationOrder(t *testing.T) {
	store := NewStore(context.Background(), newFakeStorage(), testKey, fixedClock)

	var calls []string
	store.Subscribe(func(domain.State) { calls = append(calls, "first") })
	store.Subscribe(func(domain.State) { calls = append(calls, "second") })

	store.SetState(register("main", domain.SidebarOptions{}))
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	store := NewStore(context.Background(), newFakeStorage(), testKey, fixedClock)

	count := 0
	unsubscribe := store.Subscribe(func(domain.State) { count++ })
	store.SetState(register("main", domain.SidebarOptions{}))
	unsubscribe()
	unsubscribe()
	store.SetState(register("tools", domain.SidebarOptions{}))

	assert.Equal(t, 1, count)
}

func TestSubscribe_ListenerSeesNewState(t *testing.T) {
	store := NewStore(context.Background(), newFakeStorage(), testKey, fixedClock)

	var seen domain.State
	store.Subscribe(func(st domain.State) { seen = st })
	store.SetState(register("main", domain.SidebarOptions{}))

	assert.Equal(t, store.State(), seen)
}

func TestSubscribe_ReentrantSetStateKeepsNewestPersisted(t *testing.T) {
	storage := newFakeStorage()
	store := NewStore(context.Background(), storage, testKey, fixedClock)

	store.Subscribe(func(st domain.State) {
		if sb, ok := st.Get("main"); ok && sb.Variant == domain.VariantDefault {
			store.SetState(func(st domain.State) domain.State {
				return domain.SetVariant(st, "main", domain.VariantFloating)
			})
		}
	})

	store.SetState(register("main", domain.SidebarOptions{}))

	assert.Equal(t, domain.VariantFloating, store.State().Sidebars["main"].Variant)
	reopened := NewStore(context.Background(), storage, testKey, fixedClock)
	assert.Equal(t, domain.VariantFloating, reopened.State().Sidebars["main"].Variant,
		"the older snapshot must not overwrite the newer one")
	assert.Equal(t, 1, storage.sets, "the stale outer write is skipped")
}

func TestSetState_ConcurrentWriters(t *testing.T) {
	storage := newFakeStorage()
	store := NewStore(context.Background(), storage, testKey, fixedClock)
	store.SetState(register("main", domain.SidebarOptions{}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.SetState(func(st domain.State) domain.State {
				return domain.Toggle(st, "main", false)
			})
		}()
	}
	wg.Wait()

	// 50 toggles return to the starting value
	assert.True(t, store.State().Sidebars["main"].Open)
	reopened := NewStore(context.Background(), storage, testKey, fixedClock)
	assert.Equal(t, store.State(), reopened.State())
}

func TestReload_AdoptsExternalWrite(t *testing.T) {
	storage := newFakeStorage()
	store := NewStore(context.Background(), storage, testKey, fixedClock)
	other := NewStore(context.Background(), storage, testKey, fixedClock)

	notified := 0
	store.Subscribe(func(domain.State) { notified++ })

	other.SetState(register("main", domain.SidebarOptions{}))
	store.Reload(context.Background())

	_, ok := store.State().Get("main")
	assert.True(t, ok)
	assert.Equal(t, 1, notified)

	store.Reload(context.Background())
	assert.Equal(t, 1, notified, "unchanged storage must not notify")
}

func TestReload_DoesNotWriteBack(t *testing.T) {
	storage := newFakeStorage()
	store := NewStore(context.Background(), storage, testKey, fixedClock)
	storage.values[testKey] = `{"sidebars":{"main":{"open":false}}}`

	store.Reload(context.Background())

	assert.False(t, store.State().Sidebars["main"].Open)
	assert.Zero(t, storage.sets)
}

func TestReload_FailedReadKeepsState(t *testing.T) {
	logs := captureLogs(t)
	storage := newFakeStorage()
	store := NewStore(context.Background(), storage, testKey, fixedClock)
	store.SetState(register("main", domain.SidebarOptions{KeyboardShortcut: "mod+b"}))

	notified := 0
	store.Subscribe(func(domain.State) { notified++ })

	storage.setGetErr(errors.New("disk unplugged"))
	store.Reload(context.Background())
	storage.setGetErr(nil)

	_, ok := store.State().Get("main")
	assert.True(t, ok, "a failed read must not wipe the state")
	assert.Zero(t, notified)
	assert.Contains(t, logs.String(), "disk unplugged")

	store.SetState(func(st domain.State) domain.State { return domain.Toggle(st, "main", false) })

	raw, ok := storage.raw(testKey)
	require.True(t, ok)
	persisted, err := DecodeState(raw)
	require.NoError(t, err)
	assert.Contains(t, persisted.Sidebars, "main")
	assert.Equal(t, "main", persisted.KeyboardShortcuts["mod+b"])
}

func TestReload_UnreadableRecordKeepsState(t *testing.T) {
	storage := newFakeStorage()
	store := NewStore(context.Background(), storage, testKey, fixedClock)
	store.SetState(register("main", domain.SidebarOptions{}))

	storage.values[testKey] = `{"sidebars":`
	store.Reload(context.Background())

	_, ok := store.State().Get("main")
	assert.True(t, ok)
}

func TestReload_IgnoresOwnWrite(t *testing.T) {
	storage := newFakeStorage()
	store := NewStore(context.Background(), storage, testKey, fixedClock)
	store.SetState(register("main", domain.SidebarOptions{}))

	notified := 0
	store.Subscribe(func(domain.State) { notified++ })

	for i := 0; i < 5; i++ {
		store.SetState(func(st domain.State) domain.State { return domain.Toggle(st, "main", false) })
		store.Reload(context.Background())
	}

	assert.Equal(t, 5, notified, "only the toggles notify")
	assert.Equal(t, 6, storage.sets, "reloads must not write back")
}

func TestReload_LocalChangeDuringReadWins(t *testing.T) {
	storage := newFakeStorage()
	store := NewStore(context.Background(), storage, testKey, fixedClock)
	other := NewStore(context.Background(), storage, testKey, fixedClock)
	store.SetState(register("main", domain.SidebarOptions{}))

	// Another process writes, then a local toggle commits while Reload is reading
	other.SetState(register("main", domain.SidebarOptions{Open: boolPtr(false)}))
	storage.afterGet = func() {
		storage.afterGet = nil
		store.SetState(register("inspector", domain.SidebarOptions{}))
	}

	store.Reload(context.Background())

	_, ok := store.State().Get("inspector")
	assert.True(t, ok, "the local change must survive the reload")

	raw, ok := storage.raw(testKey)
	require.True(t, ok)
	persisted, err := DecodeState(raw)
	require.NoError(t, err)
	assert.Contains(t, persisted.Sidebars, "inspector", "the local change must reach storage")
}

func TestReload_ExternalRemoveResetsState(t *testing.T) {
	storage := newFakeStorage()
	store := NewStore(context.Background(), storage, testKey, fixedClock)
	store.SetState(register("main", domain.SidebarOptions{}))

	require.NoError(t, storage.Remove(context.Background(), testKey))
	store.Reload(context.Background())

	assert.Empty(t, store.State().Sidebars)
}

func TestClear_RemovesKeyAndNotifies(t *testing.T) {
	storage := newFakeStorage()
	store := NewStore(context.Background(), storage, testKey, fixedClock)
	store.SetState(register("main", domain.SidebarOptions{KeyboardShortcut: "mod+b"}))

	var seen domain.State
	store.Subscribe(func(st domain.State) { seen = st })
	store.Clear(context.Background())

	assert.Empty(t, store.State().Sidebars)
	assert.Empty(t, store.State().KeyboardShortcuts)
	assert.Empty(t, seen.Sidebars)
	_, ok := storage.raw(testKey)
	assert.False(t, ok)
}

func TestClear_RemoveFailureIsSwallowed(t *testing.T) {
	logs := captureLogs(t)
	storage := newFakeStorage()
	storage.removeErr = errors.New("read-only")
	store := NewStore(context.Background(), storage, testKey, fixedClock)
	store.SetState(register("main", domain.SidebarOptions{}))

	store.Clear(context.Background())

	assert.Empty(t, store.State().Sidebars)
	assert.Contains(t, logs.String(), "read-only")
}
