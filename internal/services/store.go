package services

import (
	"context"
	"errors"
	"reflect"
	"sync"

	"sidebarkit/internal/domain"
	"sidebarkit/internal/logging"
	"sidebarkit/internal/ports"
)

// Listener receives every new state snapshot
type Listener func(domain.State)

type listenerEntry struct {
	fn Listener
	id int
}

// Store holds the single sidebar state and mirrors it into durable storage.
// Listeners run synchronously after each change, in registration order and
// outside the store lock, so a listener may call SetState.
// Storage failures are logged and never surface to callers.
type Store struct {
	clock   ports.Clock
	key     string
	storage ports.DurableStorage

	mu             sync.Mutex
	listeners      []listenerEntry
	nextListenerID int
	revision       uint64
	state          domain.State

	persistMu   sync.Mutex
	persisted   uint64
	settled     uint64
	lastWritten string
}

// NewStore creates a store for key and hydrates it from storage.
// A nil storage yields an in-process store that never persists.
func NewStore(ctx context.Context, storage ports.DurableStorage, key string, clock ports.Clock) *Store {
	if clock == nil {
		clock = ports.SystemClock
	}
	s := &Store{
		clock:   clock,
		key:     key,
		storage: storage,
	}
	st, err := s.load(ctx)
	if err != nil {
		st = domain.NewState()
	}
	s.state = st
	return s
}

// Key returns the storage key the store persists under
func (s *Store) Key() string {
	return s.key
}

// State returns the current snapshot
func (s *Store) State() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetState replaces the state with updater(current), notifies listeners and
// writes the result back to storage. updater must not call into the store.
func (s *Store) SetState(updater func(domain.State) domain.State) {
	s.mu.Lock()
	next := updater(s.state)
	if next.Sidebars == nil || next.KeyboardShortcuts == nil {
		next = fillMaps(next)
	}
	s.state = next
	s.revision++
	rev := s.revision
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	notify(listeners, next)
	s.persist(rev, next)
}

// Subscribe registers fn and returns a function that unregisters it.
// The returned function is safe to call more than once.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextListenerID
	s.nextListenerID++
	s.listeners = append(s.listeners, listenerEntry{fn: fn, id: id})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, l := range s.listeners {
				if l.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Reload re-reads storage and adopts the stored state when it differs from
// the in-memory one. Used when another process wrote the key.
// A failed read keeps the current state. So does a read that races a local
// SetState or returns this store's own last write.
func (s *Store) Reload(ctx context.Context) {
	if s.storage == nil {
		return
	}

	s.mu.Lock()
	startRev := s.revision
	s.mu.Unlock()

	s.persistMu.Lock()
	inFlight := s.settled < startRev
	s.persistMu.Unlock()
	if inFlight {
		logging.Logger.Debug("Reload skipped while a write is in flight", "key", s.key, "revision", startRev)
		return
	}

	raw, found, err := s.read(ctx)
	if err != nil {
		logging.Logger.Warn("Keeping in-memory sidebar state after failed reload", "key", s.key, "error", err)
		return
	}
	if found && s.isOwnWrite(raw) {
		logging.Logger.Debug("Reload ignored own write", "key", s.key)
		return
	}

	loaded := domain.NewState()
	if found {
		if loaded, err = s.decode(raw); err != nil {
			logging.Logger.Warn("Keeping in-memory sidebar state after unreadable reload", "key", s.key, "error", err)
			return
		}
	}

	s.mu.Lock()
	if s.revision != startRev {
		s.mu.Unlock()
		logging.Logger.Debug("Reload superseded by a local change", "key", s.key)
		return
	}
	if reflect.DeepEqual(s.state, loaded) {
		s.mu.Unlock()
		logging.Logger.Debug("Reload found no changes", "key", s.key)
		return
	}
	s.state = loaded
	s.revision++
	rev := s.revision
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	s.markPersisted(rev)
	logging.Logger.Info("Sidebar state reloaded from storage", "key", s.key, "sidebars", len(loaded.Sidebars))
	notify(listeners, loaded)
}

// Clear erases the storage entry and resets the state to empty
func (s *Store) Clear(ctx context.Context) {
	if s.storage != nil {
		if err := s.storage.Remove(ctx, s.key); err != nil {
			logging.Logger.Warn("Failed to remove persisted sidebar state", "key", s.key, "error", err)
		}
	}

	s.mu.Lock()
	empty := domain.NewState()
	s.state = empty
	s.revision++
	rev := s.revision
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	s.markPersisted(rev)
	logging.Logger.Info("Sidebar state cleared", "key", s.key)
	notify(listeners, empty)
}

// load reads and decodes the stored record. A missing key is an empty
// state, not an error.
func (s *Store) load(ctx context.Context) (domain.State, error) {
	if s.storage == nil {
		logging.Logger.Warn("No durable storage, sidebar state will not persist",
			"error", domain.ErrStorageUnavailable)
		return domain.NewState(), nil
	}

	raw, found, err := s.read(ctx)
	if err != nil {
		logging.Logger.Warn("Failed to read persisted sidebar state", "key", s.key, "error", err)
		return domain.State{}, err
	}
	if !found {
		logging.Logger.Debug("No persisted sidebar state", "key", s.key)
		return domain.NewState(), nil
	}

	st, err := s.decode(raw)
	if err != nil {
		logging.Logger.Warn("Discarding persisted sidebar state", "key", s.key, "error", err)
		return domain.State{}, err
	}
	return st, nil
}

// read fetches the raw record. found is false when the key is missing.
func (s *Store) read(ctx context.Context) (raw string, found bool, err error) {
	raw, err = s.storage.Get(ctx, s.key)
	if errors.Is(err, domain.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Join(domain.ErrStorageUnavailable, err)
	}
	return raw, true, nil
}

// decode parses raw and repairs the shortcut index
func (s *Store) decode(raw string) (domain.State, error) {
	st, err := DecodeState(raw)
	if err != nil {
		return domain.State{}, err
	}

	st, fixes := domain.Reconcile(st)
	if fixes > 0 {
		logging.Logger.Info("Repaired shortcut index", "key", s.key, "fixes", fixes)
	}

	logging.Logger.Debug("Loaded persisted sidebar state", "key", s.key, "sidebars", len(st.Sidebars))
	return st, nil
}

// isOwnWrite reports whether raw is the payload this store last wrote
func (s *Store) isOwnWrite(raw string) bool {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	return s.lastWritten != "" && raw == s.lastWritten
}

// persist writes st unless a newer revision was already written
func (s *Store) persist(rev uint64, st domain.State) {
	if s.storage == nil {
		return
	}

	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if rev <= s.persisted {
		logging.Logger.Debug("Skipping stale sidebar state write", "revision", rev, "persisted", s.persisted)
		return
	}

	// Recorded before the write so an older snapshot never follows a failed newer one
	s.persisted = rev
	defer s.settle(rev)

	raw, err := EncodeState(st, s.clock.Now())
	if err != nil {
		logging.Logger.Warn("Failed to encode sidebar state", "error", err)
		return
	}

	if err := s.storage.Set(context.Background(), s.key, raw); err != nil {
		logging.Logger.Warn("Failed to persist sidebar state",
			"key", s.key, "error", errors.Join(domain.ErrStorageWrite, err))
		return
	}
	s.lastWritten = raw
}

// settle records that the write for rev finished. Caller must hold s.persistMu.
func (s *Store) settle(rev uint64) {
	if rev > s.settled {
		s.settled = rev
	}
}

// markPersisted records rev as written without touching storage
func (s *Store) markPersisted(rev uint64) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	if rev > s.persisted {
		s.persisted = rev
	}
	s.settle(rev)
}

// snapshotListeners copies the listener list. Caller must hold s.mu.
func (s *Store) snapshotListeners() []Listener {
	out := make([]Listener, len(s.listeners))
	for i, l := range s.listeners {
		out[i] = l.fn
	}
	return out
}

func notify(listeners []Listener, st domain.State) {
	for _, fn := range listeners {
		fn(st)
	}
}

// fillMaps replaces nil maps returned by an updater with empty ones
func fillMaps(st domain.State) domain.State {
	if st.Sidebars == nil {
		st.Sidebars = make(map[string]domain.Sidebar)
	}
	if st.KeyboardShortcuts == nil {
		st.KeyboardShortcuts = make(map[string]string)
	}
	return st
}
