package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"sidebarkit/internal/config"
)

// KeyMap contains all keyboard shortcuts organized by context
type KeyMap struct {
	Application ApplicationKeys
	Navigation  NavigationKeys
	Sidebar     SidebarKeys
}

// NewKeyMap creates a new KeyMap with all key bindings initialized.
// Pass nil for keysConfig to use default bindings.
func NewKeyMap(keysConfig config.KeyBindingsConfig) KeyMap {
	defaults := GetDefaultKeyBindings()
	return KeyMap{
		Application: newApplicationKeys(defaults, keysConfig),
		Navigation:  newNavigationKeys(defaults, keysConfig),
		Sidebar:     newSidebarKeys(defaults, keysConfig),
	}
}

// ShortHelp returns the bindings shown in the bottom bar
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Sidebar.Toggle.Binding,
		k.Navigation.FocusNext.Binding,
		k.Sidebar.CycleVariant.Binding,
		k.Application.Mobile.Binding,
		k.Application.Help.Binding,
		k.Application.Quit.Binding,
	}
}

// FullHelp returns every binding grouped by context
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Navigation.Up.Binding, k.Navigation.Down.Binding, k.Navigation.FocusNext.Binding, k.Navigation.FocusPrev.Binding},
		{k.Sidebar.Toggle.Binding, k.Sidebar.CycleVariant.Binding},
		{k.Application.Mobile.Binding, k.Application.Clear.Binding, k.Application.Help.Binding, k.Application.Quit.Binding, k.Application.ForceQuit.Binding},
	}
}

// Tips returns the tips of every binding that has one
func (k KeyMap) Tips() []Tip {
	var tips []Tip
	for _, kt := range []KeyWithTip{
		k.Sidebar.Toggle,
		k.Navigation.FocusNext,
		k.Sidebar.CycleVariant,
		k.Application.Mobile,
		k.Application.Clear,
		k.Application.Help,
	} {
		if kt.Tip != nil {
			tips = append(tips, *kt.Tip)
		}
	}
	return tips
}
