package services

import (
	"context"

	"sidebarkit/internal/domain"
	"sidebarkit/internal/logging"
)

// SidebarService exposes the sidebar state transitions as named actions.
// Every action is a single SetState on the store; unknown ids are no-ops.
type SidebarService struct {
	store *Store
}

// NewSidebarService creates a new SidebarService
func NewSidebarService(store *Store) *SidebarService {
	return &SidebarService{
		store: store,
	}
}

// Store returns the underlying store
func (s *SidebarService) Store() *Store {
	return s.store
}

// State returns the current snapshot
func (s *SidebarService) State() domain.State {
	return s.store.State()
}

// Subscribe registers a listener on the underlying store
func (s *SidebarService) Subscribe(fn Listener) func() {
	return s.store.Subscribe(fn)
}

// Get returns a sidebar by id
func (s *SidebarService) Get(id string) (domain.Sidebar, bool) {
	return s.store.State().Get(id)
}

// List returns all sidebars sorted by id
func (s *SidebarService) List() []domain.Sidebar {
	return s.store.State().List()
}

// Register creates or replaces a sidebar record built from the defaults
// merged with opts
func (s *SidebarService) Register(id string, opts domain.SidebarOptions) {
	logging.Logger.Info("Registering sidebar", "id", id, "shortcut", opts.KeyboardShortcut)

	var displaced string
	s.store.SetState(func(st domain.State) domain.State {
		displaced, _ = domain.Displaced(st, id, opts.KeyboardShortcut)
		return domain.Register(st, id, opts)
	})
	s.warnDisplaced(id, opts.KeyboardShortcut, displaced)
}

// Unregister removes a sidebar and its shortcut binding
func (s *SidebarService) Unregister(id string) {
	logging.Logger.Info("Unregistering sidebar", "id", id)
	s.store.SetState(func(st domain.State) domain.State {
		return domain.Unregister(st, id)
	})
}

// Toggle flips the open flag relevant for the layout mode
func (s *SidebarService) Toggle(id string, isMobile bool) {
	logging.Logger.Debug("Toggling sidebar", "id", id, "mobile", isMobile)
	s.store.SetState(func(st domain.State) domain.State {
		return domain.Toggle(st, id, isMobile)
	})
}

// SetOpen sets the open flag relevant for the layout mode
func (s *SidebarService) SetOpen(id string, open, isMobile bool) {
	logging.Logger.Debug("Setting sidebar open", "id", id, "open", open, "mobile", isMobile)
	s.store.SetState(func(st domain.State) domain.State {
		return domain.SetOpen(st, id, open, isMobile)
	})
}

// SetVariant changes the variant of a sidebar
func (s *SidebarService) SetVariant(id string, variant domain.Variant) {
	logging.Logger.Debug("Setting sidebar variant", "id", id, "variant", variant)
	s.store.SetState(func(st domain.State) domain.State {
		return domain.SetVariant(st, id, variant)
	})
}

// CycleVariant advances the variant of a sidebar to the next one
func (s *SidebarService) CycleVariant(id string) {
	s.store.SetState(func(st domain.State) domain.State {
		sb, ok := st.Get(id)
		if !ok {
			return st
		}
		return domain.SetVariant(st, id, sb.Variant.Next())
	})
}

// SetActiveItem records the active item of a sidebar
func (s *SidebarService) SetActiveItem(id, item string) {
	logging.Logger.Debug("Setting active item", "id", id, "item", item)
	s.store.SetState(func(st domain.State) domain.State {
		return domain.SetActiveItem(st, id, item)
	})
}

// SetKeyboardShortcut rebinds the shortcut of a sidebar
func (s *SidebarService) SetKeyboardShortcut(id, shortcut string) {
	logging.Logger.Info("Setting keyboard shortcut", "id", id, "shortcut", shortcut)

	var displaced string
	s.store.SetState(func(st domain.State) domain.State {
		if _, ok := st.Get(id); ok {
			displaced, _ = domain.Displaced(st, id, shortcut)
		}
		return domain.SetKeyboardShortcut(st, id, shortcut)
	})
	s.warnDisplaced(id, shortcut, displaced)
}

// ToggleByShortcut toggles the sidebar bound to shortcut. It returns the id
// of the toggled sidebar, or false when no sidebar owns the shortcut.
func (s *SidebarService) ToggleByShortcut(shortcut string, isMobile bool) (string, bool) {
	id, ok := s.store.State().Owner(shortcut)
	if !ok {
		logging.Logger.Debug("No sidebar bound to shortcut", "shortcut", shortcut)
		return "", false
	}
	s.Toggle(id, isMobile)
	return id, true
}

// ClearSidebarState removes the persisted state of one sidebar
func (s *SidebarService) ClearSidebarState(id string) {
	logging.Logger.Info("Clearing sidebar state", "id", id)
	s.store.SetState(func(st domain.State) domain.State {
		return domain.ClearSidebar(st, id)
	})
}

// ClearPersistedState wipes every sidebar and erases the storage entry
func (s *SidebarService) ClearPersistedState(ctx context.Context) {
	logging.Logger.Info("Clearing all persisted sidebar state")
	s.store.Clear(ctx)
}

// Mount is called when a sidebar appears. A missing record is registered
// from opts; an existing record keeps its persisted state and only has its
// shortcut updated when it differs. Reports whether a record was created.
func (s *SidebarService) Mount(id string, opts domain.SidebarOptions) bool {
	existing, ok := s.store.State().Get(id)
	if !ok {
		logging.Logger.Debug("Mounting new sidebar", "id", id)
		s.Register(id, opts)
		return true
	}

	if domain.NormalizeShortcut(opts.KeyboardShortcut) != existing.KeyboardShortcut {
		s.SetKeyboardShortcut(id, opts.KeyboardShortcut)
	}
	logging.Logger.Debug("Mounted sidebar from persisted state", "id", id)
	return false
}

// Unmount is called when a sidebar leaves the layout for good
func (s *SidebarService) Unmount(id string) {
	logging.Logger.Debug("Unmounting sidebar", "id", id)
	s.Unregister(id)
}

func (s *SidebarService) warnDisplaced(id, shortcut, displaced string) {
	if displaced == "" {
		return
	}
	logging.Logger.Warn("Keyboard shortcut reassigned",
		"shortcut", domain.NormalizeShortcut(shortcut),
		"from", displaced,
		"to", id)
}
