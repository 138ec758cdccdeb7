package cmd

import (
	"context"
	"fmt"

	"sidebarkit/internal/logging"
	"sidebarkit/internal/server"
)

// ServeCmd starts the SSH server
type ServeCmd struct {
	Host  string `help:"Host to bind to" default:"localhost"`
	Port  string `help:"Port to listen on" default:"23234"`
	Watch bool   `help:"Reload state written by other processes (file storage only)" env:"SIDEBARKIT_WATCH"`
}

// Run executes the serve command
func (s *ServeCmd) Run(cli *CLI) error {
	if !s.Watch && cli.settings.Watch != nil && *cli.settings.Watch {
		s.Watch = true
	}

	keysConfig, err := validatedKeys(cli.settings)
	if err != nil {
		return err
	}

	logging.Logger.Info("Starting sidebarkit SSH server",
		"host", s.Host,
		"port", s.Port,
		"storage", cli.settings.GetStorage())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if s.Watch {
		cli.Container.Watch(ctx)
	}

	srv, err := server.NewServer(s.Host, s.Port, cli.Container.SidebarService, cli.Container.SettingsService, keysConfig)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}
