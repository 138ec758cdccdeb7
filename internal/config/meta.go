package config

import (
	"reflect"
	"strings"
)

// GetSettingsExample uses reflection to generate example settings.
// This automatically stays in sync when new fields are added to Settings.
func GetSettingsExample() map[string]any {
	t := reflect.TypeOf(Settings{})
	example := make(map[string]any)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		jsonTag := field.Tag.Get("json")
		if jsonTag == "" {
			continue
		}

		jsonName := strings.Split(jsonTag, ",")[0]
		example[jsonName] = generateExampleValue(field.Type, jsonName)
	}

	return example
}

// generateExampleValue creates appropriate example values based on type and field name
func generateExampleValue(t reflect.Type, fieldName string) any {
	if t.Kind() == reflect.Ptr {
		switch t.Elem().Kind() {
		case reflect.Bool:
			return fieldName == "watch"
		case reflect.Int:
			switch fieldName {
			case "collapsed_columns":
				return DefaultCollapsedColumns
			case "expanded_columns":
				return DefaultExpandedColumns
			case "mobile_breakpoint":
				return DefaultMobileBreakpoint
			case "max_log_files":
				return 1000
			}
			return 10
		}
	}

	switch t.Kind() {
	case reflect.String:
		switch fieldName {
		case "collapsed_width":
			return DefaultCollapsedWidth
		case "expanded_width":
			return DefaultExpandedWidth
		case "storage":
			return DefaultStorage
		case "storage_key":
			return DefaultStorageKey
		default:
			return "example"
		}
	case reflect.Map:
		if t.Name() == "KeyBindingsConfig" {
			return map[string]any{
				"toggle": "enter",
				"help":   []string{"h", "?"},
			}
		}
	case reflect.Slice:
		if t.Elem().Name() == "SidebarSettings" {
			return []map[string]any{
				{"id": "file-browser", "side": "left", "keyboard_shortcut": "mod+b", "items": []string{"Documents", "Images"}},
				{"id": "tools", "side": "right", "variant": "floating", "keyboard_shortcut": "mod+t", "default_open": false},
			}
		}
	}

	return nil
}
