package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"sidebarkit/internal/config"
	"sidebarkit/internal/logging"
	"sidebarkit/internal/ui"
)

// SettingsKeysCmd manages the demo shell key bindings
type SettingsKeysCmd struct {
	List  SettingsKeysListCmd  `cmd:"list" help:"List all key bindings (defaults and custom)" default:"1"`
	Reset SettingsKeysResetCmd `cmd:"reset" help:"Drop a custom key binding"`
	Set   SettingsKeysSetCmd   `cmd:"set" help:"Set a key binding"`
}

// keyBindingRow is one binding as printed by list
type keyBindingRow struct {
	Custom  []string `json:"custom,omitempty"`
	Default []string `json:"default"`
	Help    string   `json:"help"`
	Name    string   `json:"name"`
}

func keyBindingRows(custom config.KeyBindingsConfig) []keyBindingRow {
	defaults := ui.GetDefaultKeyBindings()
	names := ui.GetValidKeyNames()

	rows := make([]keyBindingRow, 0, len(names))
	for _, name := range names {
		row := keyBindingRow{Default: defaults[name], Name: name}
		if def := ui.GetKeyDefinition(name); def != nil {
			row.Help = def.Help
		}
		if keys := custom[name]; len(keys) > 0 {
			row.Custom = keys
		}
		rows = append(rows, row)
	}
	return rows
}

// SettingsKeysListCmd lists all key bindings
type SettingsKeysListCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
}

// Run executes the list command
func (s *SettingsKeysListCmd) Run(cli *CLI) error {
	rows := keyBindingRows(cli.settings.Keys)
	if s.Format == "json" {
		return printJSON(cli.out(), rows)
	}

	out := cli.out()
	fmt.Fprintf(out, "Key Bindings (settings file: %s)\n\n", config.GetSettingsPath())

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "Name\tDefault\tCustom\tAction")
	for _, row := range rows {
		custom := "-"
		if len(row.Custom) > 0 {
			custom = strings.Join(row.Custom, ", ")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", row.Name, strings.Join(row.Default, ", "), custom, row.Help)
	}
	w.Flush()

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Use 'sidebarkit settings keys set <name> <value>' to customize.")
	return nil
}

// SettingsKeysSetCmd sets a key binding
type SettingsKeysSetCmd struct {
	Name  string `arg:"" help:"Binding name (e.g., toggle, help, quit)"`
	Value string `arg:"" help:"Keys (e.g., t, ctrl+s, or comma-separated for multiple: up,k)"`
}

// Run executes the set command
func (s *SettingsKeysSetCmd) Run(cli *CLI) error {
	if err := requireKeyName(s.Name); err != nil {
		return err
	}

	values := parseKeyValues(s.Value)
	if len(values) == 0 {
		return fmt.Errorf("value cannot be empty")
	}

	logging.Logger.Debug("Setting key binding", "name", s.Name, "values", values)

	err := updateKeyBindings(func(keys config.KeyBindingsConfig) {
		keys[s.Name] = values
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cli.out(), "Set '%s' to: %s\n", s.Name, strings.Join(values, ", "))
	return nil
}

// SettingsKeysResetCmd restores the default keys of a binding
type SettingsKeysResetCmd struct {
	Name string `arg:"" help:"Binding name"`
}

// Run executes the reset command
func (s *SettingsKeysResetCmd) Run(cli *CLI) error {
	if err := requireKeyName(s.Name); err != nil {
		return err
	}

	err := updateKeyBindings(func(keys config.KeyBindingsConfig) {
		delete(keys, s.Name)
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cli.out(), "Reset '%s' to: %s\n", s.Name, strings.Join(ui.GetDefaultKeyBindings()[s.Name], ", "))
	return nil
}

func requireKeyName(name string) error {
	if ui.GetKeyDefinition(name) == nil {
		return fmt.Errorf("unknown key '%s'. Valid keys: %s",
			name, strings.Join(ui.GetValidKeyNames(), ", "))
	}
	return nil
}

// updateKeyBindings applies fn to the key bindings stored in settings.json,
// validates the result and saves it
func updateKeyBindings(fn func(config.KeyBindingsConfig)) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	if settings.Keys == nil {
		settings.Keys = make(config.KeyBindingsConfig)
	}
	fn(settings.Keys)
	if len(settings.Keys) == 0 {
		settings.Keys = nil
	}

	if err := settings.Keys.Validate(ui.GetValidKeyNames()); err != nil {
		return fmt.Errorf("conflict: %w", err)
	}

	if err := config.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// parseKeyValues splits a comma-separated key list
func parseKeyValues(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
