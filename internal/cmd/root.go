package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"sidebarkit/internal/config"
	"sidebarkit/internal/logging"
)

// CLI represents the command-line interface structure
type CLI struct {
	Version     kong.VersionFlag `help:"Show version information"`
	Debug       bool             `help:"Enable debug logging to file" short:"d" env:"SIDEBARKIT_DEBUG"`
	DebugFile   string           `help:"Custom path for debug log file (disables automatic cleanup)" env:"SIDEBARKIT_DEBUG_FILE"`
	MaxLogFiles int              `help:"Maximum number of log files to keep (0 = unlimited)" default:"1000" env:"SIDEBARKIT_MAX_LOG_FILES"`
	Storage     string           `help:"Storage backend: file, sqlite or memory (overrides settings.json)" env:"SIDEBARKIT_STORAGE"`
	StorageKey  string           `help:"Durable storage key holding the sidebar state" env:"SIDEBARKIT_STORAGE_KEY"`

	Run       RunCmd       `cmd:"" help:"Start the sidebarkit demo shell (default)" default:"1"`
	Serve     ServeCmd     `cmd:"serve" help:"Serve the demo shell over SSH"`
	Sidebars  SidebarsCmd  `cmd:"sidebars" help:"Inspect and change persisted sidebar state"`
	Bootstrap BootstrapCmd `cmd:"bootstrap" help:"Print pre-paint layout variables from durable storage"`
	Settings  SettingsCmd  `cmd:"settings" help:"Manage settings (show, meta, keys)"`

	// Internal fields (not flags)
	Container *Container       `kong:"-"`
	settings  *config.Settings `kong:"-"`
	stdout    io.Writer        `kong:"-"`
}

// SetSettings sets the settings on the CLI struct
func (c *CLI) SetSettings(settings *config.Settings) {
	c.settings = settings
}

// SetOutput redirects command output, os.Stdout by default
func (c *CLI) SetOutput(w io.Writer) {
	c.stdout = w
}

func (c *CLI) out() io.Writer {
	if c.stdout == nil {
		return os.Stdout
	}
	return c.stdout
}

// AfterApply initializes logging after CLI parsing and applies settings
func (c *CLI) AfterApply() error {
	if c.settings == nil {
		c.settings = &config.Settings{}
	}

	// Precedence: CLI flags > env vars > settings.json > defaults.
	// kong has already applied flags and env vars, so settings only fill
	// values still at their defaults.
	if c.MaxLogFiles == 1000 {
		if _, hasEnv := os.LookupEnv("SIDEBARKIT_MAX_LOG_FILES"); !hasEnv && c.settings.MaxLogFiles != nil {
			c.MaxLogFiles = *c.settings.MaxLogFiles
		}
	}
	if !c.Debug && c.settings.Debug != nil && *c.settings.Debug {
		c.Debug = true
	}
	if c.Storage != "" {
		c.settings.Storage = c.Storage
	}
	if c.StorageKey != "" {
		c.settings.StorageKey = c.StorageKey
	}

	if err := c.settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	logFilePath, err := logging.Initialize(c.Debug, c.DebugFile, c.MaxLogFiles)
	if err != nil {
		return err
	}

	// Set AFTER initialization so child processes append to the same log file
	if c.Debug || c.DebugFile != "" {
		os.Setenv("SIDEBARKIT_DEBUG", "1")
		if logFilePath != "" {
			os.Setenv("SIDEBARKIT_DEBUG_FILE", logFilePath)
		}
	}
	if c.MaxLogFiles != 1000 {
		os.Setenv("SIDEBARKIT_MAX_LOG_FILES", fmt.Sprintf("%d", c.MaxLogFiles))
	}

	// Container is created AFTER logging so storage adapters log to the right sink
	container, err := NewContainer(context.Background(), c.settings)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	c.Container = container

	return nil
}

// Close closes all resources held by the CLI
func (c *CLI) Close() error {
	if c.Container != nil {
		return c.Container.Close()
	}
	return nil
}
