package services

import (
	"strings"
	"sync/atomic"

	"sidebarkit/internal/domain"
	"sidebarkit/internal/logging"
)

// KeyEvent is a key press with the modifiers the dispatcher cares about
type KeyEvent struct {
	Ctrl bool
	Key  string
	Meta bool
}

// ParseKey converts a terminal key string such as "ctrl+b" or "alt+b" into
// a KeyEvent. alt, meta, cmd and super all set Meta.
func ParseKey(s string) KeyEvent {
	var ev KeyEvent

	s = strings.ToLower(strings.TrimSpace(s))
	// A trailing "+" after a separator is the plus key itself
	if strings.HasSuffix(s, "++") {
		ev.Key = "+"
		s = strings.TrimSuffix(s, "++")
		if s == "" {
			return ev
		}
		s += "+"
	}

	parts := strings.Split(s, "+")
	for i, part := range parts {
		if i == len(parts)-1 && ev.Key == "" {
			ev.Key = part
			break
		}
		switch part {
		case "ctrl", "control":
			ev.Ctrl = true
		case "alt", "meta", "cmd", "command", "option", "super":
			ev.Meta = true
		}
	}
	return ev
}

// ShortcutDispatcher turns modifier key presses into ToggleByShortcut calls.
// One dispatcher serves one UI tree; it ignores events while detached.
type ShortcutDispatcher struct {
	attached atomic.Bool
	service  *SidebarService
}

// NewShortcutDispatcher creates a detached dispatcher
func NewShortcutDispatcher(service *SidebarService) *ShortcutDispatcher {
	return &ShortcutDispatcher{
		service: service,
	}
}

// Attach starts handling key events
func (d *ShortcutDispatcher) Attach() {
	if d.attached.CompareAndSwap(false, true) {
		logging.Logger.Debug("Shortcut dispatcher attached")
	}
}

// Detach stops handling key events
func (d *ShortcutDispatcher) Detach() {
	if d.attached.CompareAndSwap(true, false) {
		logging.Logger.Debug("Shortcut dispatcher detached")
	}
}

// Attached reports whether the dispatcher is handling events
func (d *ShortcutDispatcher) Attached() bool {
	return d.attached.Load()
}

// HandleKey toggles the sidebar bound to the pressed shortcut. It returns
// true when the event was consumed and default handling must be skipped.
func (d *ShortcutDispatcher) HandleKey(ev KeyEvent, isMobile bool) bool {
	if !d.attached.Load() {
		return false
	}
	if !ev.Meta && !ev.Ctrl {
		return false
	}
	if ev.Key == "" {
		return false
	}

	shortcut := domain.ShortcutForKey(ev.Key)
	id, ok := d.service.ToggleByShortcut(shortcut, isMobile)
	if !ok {
		return false
	}

	logging.Logger.Debug("Shortcut toggled sidebar", "shortcut", shortcut, "id", id)
	return true
}
