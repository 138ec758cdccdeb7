package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sidebarkit/internal/domain"
)

// Storage backends
const (
	StorageFile   = "file"
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
)

// Defaults applied when a setting is absent
const (
	DefaultCollapsedColumns = 4
	DefaultCollapsedWidth   = "3.5rem"
	DefaultExpandedColumns  = 28
	DefaultExpandedWidth    = "16rem"
	DefaultMobileBreakpoint = 80
	DefaultStorage          = StorageFile
	DefaultStorageKey       = "sidebar-state"
)

// KeyBindingValue supports "a" or ["up", "k"] in JSON
type KeyBindingValue []string

// UnmarshalJSON implements custom unmarshaling for KeyBindingValue
func (kv *KeyBindingValue) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*kv = arr
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	if str != "" {
		*kv = []string{str}
	}
	return nil
}

// MarshalJSON implements custom marshaling for KeyBindingValue
func (kv KeyBindingValue) MarshalJSON() ([]byte, error) {
	if len(kv) == 1 {
		return json.Marshal(kv[0])
	}
	return json.Marshal([]string(kv))
}

// KeyBindingsConfig holds custom key binding overrides as a map.
// Keys are binding names (e.g., "toggle", "help"), values are the key sequences.
type KeyBindingsConfig map[string]KeyBindingValue

// Validate checks for configuration errors in key bindings.
// The validNames parameter should come from ui.GetValidKeyNames().
func (k KeyBindingsConfig) Validate(validNames []string) error {
	if k == nil {
		return nil
	}

	validSet := make(map[string]bool, len(validNames))
	for _, name := range validNames {
		validSet[name] = true
	}

	keyToAction := make(map[string]string)

	for name, keys := range k {
		if !validSet[name] {
			return fmt.Errorf("unknown key binding '%s'", name)
		}

		if len(keys) == 0 {
			continue // Not configured, will use default
		}

		for _, key := range keys {
			if key == "" {
				return fmt.Errorf("key binding for '%s' contains empty value", name)
			}
			if existing, found := keyToAction[key]; found {
				return fmt.Errorf("key '%s' is assigned to both '%s' and '%s'", key, existing, name)
			}
			keyToAction[key] = name
		}
	}

	return nil
}

// SidebarSettings declares one sidebar of the demo shell
type SidebarSettings struct {
	DefaultOpen      *bool       `json:"default_open,omitempty"`
	ID               string      `json:"id"`
	Items            StringArray `json:"items,omitempty"`
	KeyboardShortcut string      `json:"keyboard_shortcut,omitempty"`
	Side             string      `json:"side,omitempty"`
	Title            string      `json:"title,omitempty"`
	Variant          string      `json:"variant,omitempty"`
}

// Settings represents the structure of $SIDEBARKIT_HOME/settings.json
type Settings struct {
	CollapsedColumns *int              `json:"collapsed_columns,omitempty"`
	CollapsedWidth   string            `json:"collapsed_width,omitempty"`
	Debug            *bool             `json:"debug,omitempty"`
	ExpandedColumns  *int              `json:"expanded_columns,omitempty"`
	ExpandedWidth    string            `json:"expanded_width,omitempty"`
	Keys             KeyBindingsConfig `json:"keys,omitempty"`
	MaxLogFiles      *int              `json:"max_log_files,omitempty"`
	MobileBreakpoint *int              `json:"mobile_breakpoint,omitempty"`
	Sidebars         []SidebarSettings `json:"sidebars,omitempty"`
	Storage          string            `json:"storage,omitempty"`
	StorageKey       string            `json:"storage_key,omitempty"`
	Watch            *bool             `json:"watch,omitempty"`
}

// Validate checks values that cannot be fixed by falling back to defaults
func (s *Settings) Validate() error {
	switch s.Storage {
	case "", StorageFile, StorageMemory, StorageSQLite:
	default:
		return fmt.Errorf("unknown storage backend '%s'", s.Storage)
	}

	seen := make(map[string]bool, len(s.Sidebars))
	for _, sb := range s.Sidebars {
		if sb.ID == "" {
			return fmt.Errorf("sidebar declaration without id")
		}
		if seen[sb.ID] {
			return fmt.Errorf("sidebar '%s' declared twice", sb.ID)
		}
		seen[sb.ID] = true
		if _, err := domain.ParseSide(sb.Side); err != nil {
			return fmt.Errorf("sidebar '%s': %w", sb.ID, err)
		}
		if _, err := domain.ParseVariant(sb.Variant); err != nil {
			return fmt.Errorf("sidebar '%s': %w", sb.ID, err)
		}
	}

	if s.CollapsedColumns != nil && s.ExpandedColumns != nil && *s.CollapsedColumns > *s.ExpandedColumns {
		return fmt.Errorf("collapsed_columns (%d) exceeds expanded_columns (%d)", *s.CollapsedColumns, *s.ExpandedColumns)
	}

	return nil
}

// GetStorage returns the configured storage backend with default applied
func (s *Settings) GetStorage() string {
	if s.Storage == "" {
		return DefaultStorage
	}
	return s.Storage
}

// GetStorageKey returns the durable storage key with default applied
func (s *Settings) GetStorageKey() string {
	if s.StorageKey == "" {
		return DefaultStorageKey
	}
	return s.StorageKey
}

// GetWidths returns the expanded and collapsed CSS widths with defaults applied
func (s *Settings) GetWidths() (expanded, collapsed string) {
	expanded, collapsed = DefaultExpandedWidth, DefaultCollapsedWidth
	if s.ExpandedWidth != "" {
		expanded = s.ExpandedWidth
	}
	if s.CollapsedWidth != "" {
		collapsed = s.CollapsedWidth
	}
	return expanded, collapsed
}

// GetColumns returns the expanded and collapsed terminal widths with defaults applied
func (s *Settings) GetColumns() (expanded, collapsed int) {
	expanded, collapsed = DefaultExpandedColumns, DefaultCollapsedColumns
	if s.ExpandedColumns != nil {
		expanded = *s.ExpandedColumns
	}
	if s.CollapsedColumns != nil {
		collapsed = *s.CollapsedColumns
	}
	return expanded, collapsed
}

// GetMobileBreakpoint returns the terminal width below which the mobile layout is used
func (s *Settings) GetMobileBreakpoint() int {
	if s.MobileBreakpoint == nil {
		return DefaultMobileBreakpoint
	}
	return *s.MobileBreakpoint
}

// StringArray supports both JSON arrays and comma-separated strings
type StringArray []string

// UnmarshalJSON implements custom unmarshaling for StringArray
func (sa *StringArray) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*sa = arr
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*sa = parseCommaSeparated(str)
	return nil
}

// parseCommaSeparated splits comma-separated string and trims whitespace
func parseCommaSeparated(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// LoadSettings loads settings from $SIDEBARKIT_HOME/settings.json.
// Returns empty Settings if file doesn't exist (not an error).
func LoadSettings() (*Settings, error) {
	return LoadSettingsFrom(GetSettingsPath())
}

// LoadSettingsFrom loads settings from path
func LoadSettingsFrom(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil // Not an error, use defaults
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("invalid settings.json: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings.json: %w", err)
	}

	return &settings, nil
}

// SaveSettings saves settings to $SIDEBARKIT_HOME/settings.json
func SaveSettings(settings *Settings) error {
	path := GetSettingsPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}
