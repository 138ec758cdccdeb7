package ui

import (
	"sidebarkit/internal/config"
)

// SidebarKeys defines key bindings acting on the focused sidebar
type SidebarKeys struct {
	CycleVariant KeyWithTip
	Toggle       KeyWithTip
}

// newSidebarKeys creates sidebar key bindings
func newSidebarKeys(defaults map[string][]string, customKeys config.KeyBindingsConfig) SidebarKeys {
	return SidebarKeys{
		CycleVariant: buildBinding("cycle_variant", defaults, customKeys),
		Toggle:       buildBinding("toggle", defaults, customKeys),
	}
}
