package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sidebarkit/internal/domain"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		in   string
		want KeyEvent
	}{
		{"b", KeyEvent{Key: "b"}},
		{"ctrl+b", KeyEvent{Ctrl: true, Key: "b"}},
		{"alt+b", KeyEvent{Meta: true, Key: "b"}},
		{"alt+ctrl+B", KeyEvent{Ctrl: true, Key: "b", Meta: true}},
		{"Cmd+K", KeyEvent{Key: "k", Meta: true}},
		{"ctrl++", KeyEvent{Ctrl: true, Key: "+"}},
		{"enter", KeyEvent{Key: "enter"}},
		{"", KeyEvent{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseKey(tt.in))
		})
	}
}

func newAttachedDispatcher(t *testing.T) (*ShortcutDispatcher, *SidebarService) {
	t.Helper()
	svc, _ := newTestService(t)
	d := NewShortcutDispatcher(svc)
	d.Attach()
	return d, svc
}

func TestShortcutDispatcher_TogglesBoundSidebar(t *testing.T) {
	d, svc := newAttachedDispatcher(t)
	svc.Register("main", domain.SidebarOptions{KeyboardShortcut: "mod+b"})

	handled := d.HandleKey(ParseKey("ctrl+b"), false)
	assert.True(t, handled)
	sb, _ := svc.Get("main")
	assert.False(t, sb.Open)

	handled = d.HandleKey(ParseKey("alt+B"), false)
	assert.True(t, handled)
	sb, _ = svc.Get("main")
	assert.True(t, sb.Open)
}

func TestShortcutDispatcher_MobileTogglesOpenMobile(t *testing.T) {
	d, svc := newAttachedDispatcher(t)
	svc.Register("main", domain.SidebarOptions{KeyboardShortcut: "mod+b"})

	assert.True(t, d.HandleKey(KeyEvent{Ctrl: true, Key: "b"}, true))

	sb, _ := svc.Get("main")
	assert.True(t, sb.Open)
	assert.True(t, sb.OpenMobile)
}

func TestShortcutDispatcher_Ignores(t *testing.T) {
	tests := []struct {
		name string
		ev   KeyEvent
	}{
		{"no modifier", KeyEvent{Key: "b"}},
		{"unbound shortcut", KeyEvent{Ctrl: true, Key: "z"}},
		{"empty key", KeyEvent{Ctrl: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, svc := newAttachedDispatcher(t)
			svc.Register("main", domain.SidebarOptions{KeyboardShortcut: "mod+b"})
			before := svc.State()

			assert.False(t, d.HandleKey(tt.ev, false))
			assert.Equal(t, before, svc.State())
		})
	}
}

func TestShortcutDispatcher_DetachedIgnoresEvents(t *testing.T) {
	svc, _ := newTestService(t)
	svc.Register("main", domain.SidebarOptions{KeyboardShortcut: "mod+b"})
	d := NewShortcutDispatcher(svc)

	assert.False(t, d.Attached())
	assert.False(t, d.HandleKey(KeyEvent{Ctrl: true, Key: "b"}, false))

	d.Attach()
	d.Attach()
	assert.True(t, d.Attached())
	assert.True(t, d.HandleKey(KeyEvent{Ctrl: true, Key: "b"}, false))

	d.Detach()
	assert.False(t, d.HandleKey(KeyEvent{Ctrl: true, Key: "b"}, false))
	sb, _ := svc.Get("main")
	assert.False(t, sb.Open, "only the attached press toggled")
}
