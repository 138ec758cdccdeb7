package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"text/tabwriter"

	"sidebarkit/internal/config"
)

// SettingsCmd manages settings
type SettingsCmd struct {
	Keys SettingsKeysCmd `cmd:"keys" help:"Manage key bindings of the demo shell"`
	Meta SettingsMetaCmd `cmd:"meta" help:"Show settings file location and available options"`
	Show SettingsShowCmd `cmd:"show" help:"Show the effective settings" default:"1"`
}

// SettingsShowCmd prints the effective settings after flags and env vars
type SettingsShowCmd struct{}

// effectiveSettings is the settings view with every default applied
type effectiveSettings struct {
	CollapsedColumns int                      `json:"collapsed_columns"`
	CollapsedWidth   string                   `json:"collapsed_width"`
	ExpandedColumns  int                      `json:"expanded_columns"`
	ExpandedWidth    string                   `json:"expanded_width"`
	Keys             config.KeyBindingsConfig `json:"keys,omitempty"`
	MobileBreakpoint int                      `json:"mobile_breakpoint"`
	Sidebars         []config.SidebarSettings `json:"sidebars,omitempty"`
	SettingsFile     string                   `json:"settings_file"`
	Storage          string                   `json:"storage"`
	StorageKey       string                   `json:"storage_key"`
	Watch            bool                     `json:"watch"`
}

// Run executes the show command
func (s *SettingsShowCmd) Run(cli *CLI) error {
	settings := cli.settings
	expandedWidth, collapsedWidth := settings.GetWidths()
	expandedCols, collapsedCols := settings.GetColumns()

	return printJSON(cli.out(), effectiveSettings{
		CollapsedColumns: collapsedCols,
		CollapsedWidth:   collapsedWidth,
		ExpandedColumns:  expandedCols,
		ExpandedWidth:    expandedWidth,
		Keys:             settings.Keys,
		MobileBreakpoint: settings.GetMobileBreakpoint(),
		Sidebars:         settings.Sidebars,
		SettingsFile:     config.GetSettingsPath(),
		Storage:          settings.GetStorage(),
		StorageKey:       settings.GetStorageKey(),
		Watch:            settings.Watch != nil && *settings.Watch,
	})
}

// SettingsMetaCmd displays settings metadata
type SettingsMetaCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
}

// Run executes the meta command
func (s *SettingsMetaCmd) Run(cli *CLI) error {
	settingsFile := config.GetSettingsPath()
	example := config.GetSettingsExample()
	out := cli.out()

	if s.Format == "json" {
		return printJSON(out, map[string]any{
			"settings_file": settingsFile,
			"format":        example,
		})
	}

	fmt.Fprintf(out, "Settings file: %s\n\n", settingsFile)
	fmt.Fprintln(out, "Example settings.json:")
	fmt.Fprintln(out)

	names := make([]string, 0, len(example))
	for name := range example {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, name := range names {
		var valueStr string
		switch v := example[name].(type) {
		case string:
			valueStr = v
		case bool:
			valueStr = fmt.Sprintf("%t", v)
		case int:
			valueStr = fmt.Sprintf("%d", v)
		default:
			data, _ := json.Marshal(v)
			valueStr = string(data)
		}
		fmt.Fprintf(w, "%s\t%s\n", name, valueStr)
	}
	w.Flush()

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Create or edit this file to configure sidebarkit.")
	fmt.Fprintln(out, "All settings are optional and have sensible defaults.")
	return nil
}
