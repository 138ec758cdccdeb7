package domain

import "strings"

// ShortcutModifier is the canonical name of the primary modifier in shortcut strings
const ShortcutModifier = "mod"

// primaryModifiers are spellings treated as the primary modifier.
// Terminals report the OS modifier as alt, so alt and option are included.
var primaryModifiers = map[string]bool{
	"alt":     true,
	"cmd":     true,
	"command": true,
	"control": true,
	"ctrl":    true,
	"meta":    true,
	"mod":     true,
	"option":  true,
	"super":   true,
}

// NormalizeShortcut canonicalizes a shortcut string: lowercase, no spaces,
// and every primary modifier spelling collapsed into a single leading "mod".
// "Cmd+B", "ctrl+b" and "mod+b" all normalize to "mod+b".
func NormalizeShortcut(shortcut string) string {
	shortcut = strings.ToLower(strings.TrimSpace(shortcut))
	if shortcut == "" {
		return ""
	}

	parts := strings.Split(shortcut, "+")
	hasMod := false
	rest := make([]string, 0, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		// A trailing "++" means the key itself is "+"
		if part == "" {
			if i == len(parts)-1 && i > 0 && strings.TrimSpace(parts[i-1]) == "" {
				rest = append(rest, "+")
			}
			continue
		}
		if i < len(parts)-1 && primaryModifiers[part] {
			hasMod = true
			continue
		}
		rest = append(rest, part)
	}

	if len(rest) == 0 {
		return ""
	}
	if hasMod {
		return ShortcutModifier + "+" + strings.Join(rest, "+")
	}
	return strings.Join(rest, "+")
}

// ShortcutForKey builds the normalized shortcut for a modifier+key press
func ShortcutForKey(key string) string {
	return ShortcutModifier + "+" + strings.ToLower(key)
}
