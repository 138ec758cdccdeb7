package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"sidebarkit/internal/config"
	"sidebarkit/internal/logging"
	"sidebarkit/internal/ui"
)

// RunCmd starts the demo shell
type RunCmd struct {
	Dev   bool `help:"Enable development mode (shows version info in dialogs)"`
	Watch bool `help:"Reload state written by other processes (file storage only)" env:"SIDEBARKIT_WATCH"`
}

// Run executes the TUI
func (r *RunCmd) Run(cli *CLI) error {
	if !r.Watch && cli.settings.Watch != nil && *cli.settings.Watch {
		r.Watch = true
	}

	keysConfig, err := validatedKeys(cli.settings)
	if err != nil {
		return err
	}

	logging.Logger.Info("Starting sidebarkit shell", "storage", cli.settings.GetStorage(), "key", cli.settings.GetStorageKey())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if r.Watch {
		cli.Container.Watch(ctx)
	}

	model, err := ui.NewModel(cli.Container.SidebarService, cli.Container.SettingsService, keysConfig, r.Dev)
	if err != nil {
		return err
	}
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())

	logging.Logger.Info("Starting TUI program")
	if _, err := p.Run(); err != nil {
		logging.Logger.Error("TUI program error", "error", err)
		return fmt.Errorf("error running program: %w", err)
	}

	logging.Logger.Info("TUI program exited normally")
	return nil
}

// validatedKeys returns the custom key bindings after checking them against
// the known binding names
func validatedKeys(settings *config.Settings) (config.KeyBindingsConfig, error) {
	if settings == nil || settings.Keys == nil {
		return nil, nil
	}
	if err := settings.Keys.Validate(ui.GetValidKeyNames()); err != nil {
		return nil, fmt.Errorf("invalid key bindings in settings.json: %w", err)
	}
	logging.Logger.Debug("Custom key bindings loaded and validated")
	return settings.Keys, nil
}
