package ui

import (
	"sort"
	"sync"
)

// KeyDefinition defines the metadata for a configurable key binding.
// All key bindings are defined here as the single source of truth.
type KeyDefinition struct {
	Defaults  []string
	Help      string
	Name      string
	TipFormat string
}

// AllKeyDefinitions contains all configurable key bindings.
// Sidebar keyboard shortcuts are not listed here; they come from the
// sidebar records and are handled by the shortcut dispatcher.
var AllKeyDefinitions = []KeyDefinition{
	// Application keys
	{Name: "clear", Defaults: []string{"X"}, Help: "clear persisted sidebar state", TipFormat: "press %s to reset every sidebar to its defaults"},
	{Name: "force_quit", Defaults: []string{"ctrl+c"}, Help: "force quit"},
	{Name: "help", Defaults: []string{"h", "?"}, Help: "show keyboard shortcuts", TipFormat: "press %s to see all shortcuts"},
	{Name: "mobile", Defaults: []string{"m"}, Help: "toggle mobile layout", TipFormat: "press %s to switch between the desktop and mobile layout"},
	{Name: "quit", Defaults: []string{"q"}, Help: "exit application"},

	// Navigation keys
	{Name: "down", Defaults: []string{"down", "j"}, Help: "select next item"},
	{Name: "focus_next", Defaults: []string{"tab"}, Help: "focus next sidebar", TipFormat: "press %s to move focus between sidebars"},
	{Name: "focus_prev", Defaults: []string{"shift+tab"}, Help: "focus previous sidebar"},
	{Name: "up", Defaults: []string{"up", "k"}, Help: "select previous item"},

	// Sidebar keys
	{Name: "cycle_variant", Defaults: []string{"v"}, Help: "cycle variant", TipFormat: "press %s to cycle default, floating and inset variants"},
	{Name: "toggle", Defaults: []string{"enter", "t"}, Help: "toggle focused sidebar", TipFormat: "press %s to open or collapse the focused sidebar"},
}

var (
	defaultBindingsCache map[string][]string
	defaultBindingsOnce  sync.Once

	keyDefinitionsMap     map[string]KeyDefinition
	keyDefinitionsMapOnce sync.Once

	validKeyNames     []string
	validKeyNamesOnce sync.Once
)

// GetDefaultKeyBindings returns the default key bindings as a map.
// The result is cached after the first call.
func GetDefaultKeyBindings() map[string][]string {
	defaultBindingsOnce.Do(func() {
		defaultBindingsCache = make(map[string][]string, len(AllKeyDefinitions))
		for _, def := range AllKeyDefinitions {
			defaultBindingsCache[def.Name] = def.Defaults
		}
	})
	return defaultBindingsCache
}

// GetKeyDefinition returns the definition for a key by name.
// Returns nil if not found.
func GetKeyDefinition(name string) *KeyDefinition {
	keyDefinitionsMapOnce.Do(func() {
		keyDefinitionsMap = make(map[string]KeyDefinition, len(AllKeyDefinitions))
		for _, def := range AllKeyDefinitions {
			keyDefinitionsMap[def.Name] = def
		}
	})
	if def, ok := keyDefinitionsMap[name]; ok {
		return &def
	}
	return nil
}

// GetValidKeyNames returns all valid key binding names in sorted order
func GetValidKeyNames() []string {
	validKeyNamesOnce.Do(func() {
		validKeyNames = make([]string, len(AllKeyDefinitions))
		for i, def := range AllKeyDefinitions {
			validKeyNames[i] = def.Name
		}
		sort.Strings(validKeyNames)
	})
	return validKeyNames
}
