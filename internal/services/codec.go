package services

import (
	"encoding/json"
	"fmt"
	"time"

	"sidebarkit/internal/domain"
)

// SchemaVersion is the version written into every persisted record.
// Records without a version field are version 0, the browser-era shape.
const SchemaVersion = 1

// persistedSidebar is the on-disk shape of one sidebar
type persistedSidebar struct {
	ActiveItem       string `json:"activeItem,omitempty"`
	KeyboardShortcut string `json:"keyboardShortcut,omitempty"`
	Open             bool   `json:"open"`
	OpenMobile       bool   `json:"openMobile"`
	Side             string `json:"side"`
	Variant          string `json:"variant"`
}

// persistedState is the on-disk shape of the whole store.
// Unknown top-level fields are dropped on the next write.
type persistedState struct {
	KeyboardShortcuts map[string]string           `json:"keyboardShortcuts"`
	Sidebars          map[string]persistedSidebar `json:"sidebars"`
	UpdatedAt         *time.Time                  `json:"updatedAt,omitempty"`
	Version           int                         `json:"version"`
}

// EncodeState serializes st into the persisted JSON record
func EncodeState(st domain.State, now time.Time) (string, error) {
	out := persistedState{
		KeyboardShortcuts: make(map[string]string, len(st.KeyboardShortcuts)),
		Sidebars:          make(map[string]persistedSidebar, len(st.Sidebars)),
		UpdatedAt:         &now,
		Version:           SchemaVersion,
	}
	for shortcut, id := range st.KeyboardShortcuts {
		out.KeyboardShortcuts[shortcut] = id
	}
	for id, sb := range st.Sidebars {
		out.Sidebars[id] = persistedSidebar{
			ActiveItem:       sb.ActiveItem,
			KeyboardShortcut: sb.KeyboardShortcut,
			Open:             sb.Open,
			OpenMobile:       sb.OpenMobile,
			Side:             string(sb.Side),
			Variant:          string(sb.Variant),
		}
	}

	data, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("failed to marshal sidebar state: %w", err)
	}
	return string(data), nil
}

// DecodeState parses a persisted record, migrating older versions and
// validating every field. Any mismatch yields domain.ErrStorageCorrupt or
// domain.ErrUnsupportedVersion; callers fall back to an empty state.
func DecodeState(raw string) (domain.State, error) {
	var in persistedState
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		return domain.NewState(), fmt.Errorf("%w: %v", domain.ErrStorageCorrupt, err)
	}

	switch {
	case in.Version < 0:
		return domain.NewState(), fmt.Errorf("%w: negative version %d", domain.ErrStorageCorrupt, in.Version)
	case in.Version > SchemaVersion:
		return domain.NewState(), fmt.Errorf("%w: %d (max %d)", domain.ErrUnsupportedVersion, in.Version, SchemaVersion)
	case in.Version == 0:
		in = migrateV0(in)
	}

	st := domain.NewState()
	for id, p := range in.Sidebars {
		if id == "" {
			return domain.NewState(), fmt.Errorf("%w: sidebar with empty id", domain.ErrStorageCorrupt)
		}
		variant, err := domain.ParseVariant(p.Variant)
		if err != nil {
			return domain.NewState(), fmt.Errorf("%w: sidebar %s: %v", domain.ErrStorageCorrupt, id, err)
		}
		side, err := domain.ParseSide(p.Side)
		if err != nil {
			return domain.NewState(), fmt.Errorf("%w: sidebar %s: %v", domain.ErrStorageCorrupt, id, err)
		}
		st.Sidebars[id] = domain.Sidebar{
			ActiveItem:       p.ActiveItem,
			ID:               id,
			KeyboardShortcut: p.KeyboardShortcut,
			Open:             p.Open,
			OpenMobile:       p.OpenMobile,
			Side:             side,
			Variant:          variant,
		}
	}
	for shortcut, id := range in.KeyboardShortcuts {
		st.KeyboardShortcuts[shortcut] = id
	}

	return st, nil
}

// migrateV0 upgrades the browser-era record: shortcuts were stored as typed
// by the caller, so both the record fields and the index are normalized.
func migrateV0(in persistedState) persistedState {
	out := persistedState{
		KeyboardShortcuts: make(map[string]string, len(in.KeyboardShortcuts)),
		Sidebars:          make(map[string]persistedSidebar, len(in.Sidebars)),
		Version:           SchemaVersion,
	}
	for id, p := range in.Sidebars {
		p.KeyboardShortcut = domain.NormalizeShortcut(p.KeyboardShortcut)
		out.Sidebars[id] = p
	}
	for shortcut, id := range in.KeyboardShortcuts {
		if normalized := domain.NormalizeShortcut(shortcut); normalized != "" {
			out.KeyboardShortcuts[normalized] = id
		}
	}
	return out
}
