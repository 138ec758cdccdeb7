package ui

import (
	"sidebarkit/internal/config"
)

// NavigationKeys defines key bindings for moving focus and selection
type NavigationKeys struct {
	Down      KeyWithTip
	FocusNext KeyWithTip
	FocusPrev KeyWithTip
	Up        KeyWithTip
}

// newNavigationKeys creates navigation key bindings
func newNavigationKeys(defaults map[string][]string, customKeys config.KeyBindingsConfig) NavigationKeys {
	return NavigationKeys{
		Down:      buildBinding("down", defaults, customKeys),
		FocusNext: buildBinding("focus_next", defaults, customKeys),
		FocusPrev: buildBinding("focus_prev", defaults, customKeys),
		Up:        buildBinding("up", defaults, customKeys),
	}
}
