package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sidebarkit/internal/config"
	"sidebarkit/internal/domain"
)

// runCLI parses args against a fresh CLI and runs the selected command
func runCLI(t *testing.T, settings *config.Settings, args ...string) (string, error) {
	t.Helper()

	var cli CLI
	cli.SetSettings(settings)
	var buf bytes.Buffer
	cli.SetOutput(&buf)

	parser, err := kong.New(&cli,
		kong.Name("sidebarkit"),
		kong.Vars{"version": "test"},
		kong.Bind(&cli),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)

	ctx, err := parser.Parse(args)
	if err != nil {
		return buf.String(), err
	}
	defer cli.Close()

	err = ctx.Run()
	return buf.String(), err
}

func withHome(t *testing.T) {
	t.Helper()
	t.Setenv("SIDEBARKIT_HOME", t.TempDir())
}

func TestSidebars_PersistAcrossInvocations(t *testing.T) {
	withHome(t)

	_, err := runCLI(t, nil, "sidebars", "register", "files", "--shortcut", "ctrl+b", "--variant", "inset")
	require.NoError(t, err)

	out, err := runCLI(t, nil, "sidebars", "toggle", "files")
	require.NoError(t, err)
	assert.Contains(t, out, "Sidebar 'files' closed")

	out, err = runCLI(t, nil, "sidebars", "show", "files", "--format", "json")
	require.NoError(t, err)

	var view sidebarView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, sidebarView{
		ID:               "files",
		KeyboardShortcut: "mod+b",
		Open:             false,
		OpenMobile:       false,
		Side:             "left",
		Variant:          "inset",
	}, view)
}

func TestSidebars_UnknownID(t *testing.T) {
	withHome(t)

	for _, args := range [][]string{
		{"sidebars", "show", "ghost"},
		{"sidebars", "toggle", "ghost"},
		{"sidebars", "open", "ghost"},
		{"sidebars", "variant", "ghost"},
		{"sidebars", "active", "ghost", "item"},
		{"sidebars", "clear", "ghost"},
	} {
		_, err := runCLI(t, nil, args...)
		assert.ErrorIs(t, err, domain.ErrSidebarNotFound, args)
	}
}

func TestSidebars_InvalidVariant(t *testing.T) {
	withHome(t)

	_, err := runCLI(t, nil, "sidebars", "register", "files", "--variant", "sideways")
	assert.ErrorIs(t, err, domain.ErrInvalidVariant)
}

func TestSidebars_ShortcutMovesBetweenSidebars(t *testing.T) {
	withHome(t)

	_, err := runCLI(t, nil, "sidebars", "register", "a", "--shortcut", "mod+b")
	require.NoError(t, err)
	_, err = runCLI(t, nil, "sidebars", "register", "b")
	require.NoError(t, err)

	out, err := runCLI(t, nil, "sidebars", "shortcut", "b", "cmd+b")
	require.NoError(t, err)
	assert.Contains(t, out, "Sidebar 'b' shortcut: mod+b")
	assert.Contains(t, out, "Shortcut moved from 'a'")

	out, err = runCLI(t, nil, "sidebars", "list")
	require.NoError(t, err)
	assert.Regexp(t, `(?m)^a\s+open\s+closed\s+default\s+left\s+-`, out)
	assert.Regexp(t, `(?m)^b\s+open\s+closed\s+default\s+left\s+mod\+b`, out)
}

func TestSidebars_VariantCyclesAndMobile(t *testing.T) {
	withHome(t)

	_, err := runCLI(t, nil, "sidebars", "register", "files")
	require.NoError(t, err)

	out, err := runCLI(t, nil, "sidebars", "variant", "files")
	require.NoError(t, err)
	assert.Contains(t, out, "variant: floating")

	out, err = runCLI(t, nil, "sidebars", "open", "files", "--mobile")
	require.NoError(t, err)
	assert.Contains(t, out, "'files' open")

	out, err = runCLI(t, nil, "sidebars", "show", "files")
	require.NoError(t, err)
	assert.Contains(t, out, "Desktop: open")
	assert.Contains(t, out, "Mobile: open")
}

func TestSidebars_Clear(t *testing.T) {
	withHome(t)

	_, err := runCLI(t, nil, "sidebars", "register", "a")
	require.NoError(t, err)
	_, err = runCLI(t, nil, "sidebars", "register", "b")
	require.NoError(t, err)

	_, err = runCLI(t, nil, "sidebars", "clear", "a")
	require.NoError(t, err)
	out, err := runCLI(t, nil, "sidebars", "list", "--format", "json")
	require.NoError(t, err)
	assert.NotContains(t, out, `"id": "a"`)
	assert.Contains(t, out, `"id": "b"`)

	_, err = runCLI(t, nil, "sidebars", "clear")
	require.NoError(t, err)
	out, err = runCLI(t, nil, "sidebars")
	require.NoError(t, err)
	assert.Contains(t, out, "No sidebars registered")
}

func TestSidebars_Prune(t *testing.T) {
	withHome(t)

	_, err := runCLI(t, nil, "sidebars", "register", "main")
	require.NoError(t, err)
	_, err = runCLI(t, nil, "sidebars", "register", "files")
	require.NoError(t, err)

	out, err := runCLI(t, nil, "sidebars", "prune")
	require.NoError(t, err)
	assert.Equal(t, "Sidebar 'files' pruned\n", out)

	out, err = runCLI(t, nil, "sidebars", "list", "--format", "json")
	require.NoError(t, err)
	assert.NotContains(t, out, `"id": "files"`)
	assert.Contains(t, out, `"id": "main"`)

	out, err = runCLI(t, nil, "sidebars", "prune")
	require.NoError(t, err)
	assert.Contains(t, out, "No undeclared sidebars")
}

func TestBootstrap_Formats(t *testing.T) {
	withHome(t)

	_, err := runCLI(t, nil, "sidebars", "register", "main")
	require.NoError(t, err)
	_, err = runCLI(t, nil, "sidebars", "register", "tools", "--closed")
	require.NoError(t, err)

	out, err := runCLI(t, nil, "bootstrap")
	require.NoError(t, err)
	assert.Equal(t, ":root{--sidebar-main-width:16rem;--sidebar-tools-width:3.5rem;}\n", out)

	out, err = runCLI(t, &config.Settings{ExpandedWidth: "20rem"}, "bootstrap", "--format", "json")
	require.NoError(t, err)
	var vars map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &vars))
	assert.Equal(t, map[string]string{
		"--sidebar-main-width":  "20rem",
		"--sidebar-tools-width": "3.5rem",
	}, vars)

	out, err = runCLI(t, nil, "bootstrap", "--format", "script")
	require.NoError(t, err)
	assert.Contains(t, out, `localStorage.getItem("sidebar-state")`)
}

func TestBootstrap_EmptyStorage(t *testing.T) {
	withHome(t)

	out, err := runCLI(t, nil, "bootstrap")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestStorageFlag_OverridesSettings(t *testing.T) {
	withHome(t)
	settings := &config.Settings{Storage: config.StorageSQLite}

	_, err := runCLI(t, settings, "--storage", "memory", "sidebars", "register", "a")
	require.NoError(t, err)
	assert.Equal(t, config.StorageMemory, settings.Storage)

	out, err := runCLI(t, &config.Settings{}, "sidebars", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No sidebars registered", "memory backend never touched the file store")
}

func TestStorage_InvalidBackend(t *testing.T) {
	withHome(t)

	_, err := runCLI(t, nil, "--storage", "floppy", "sidebars")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage backend")
}

func TestNewContainer_Backends(t *testing.T) {
	withHome(t)
	ctx := context.Background()

	for _, backend := range []string{config.StorageFile, config.StorageSQLite, config.StorageMemory} {
		t.Run(backend, func(t *testing.T) {
			c, err := NewContainer(ctx, &config.Settings{Storage: backend, StorageKey: "k-" + backend})
			require.NoError(t, err)

			c.SidebarService.Register("main", domain.SidebarOptions{})
			require.NoError(t, c.Close())

			assert.Equal(t, backend == config.StorageFile, c.CanWatch())
		})
	}

	c, err := NewContainer(ctx, &config.Settings{Storage: config.StorageSQLite, StorageKey: "k-" + config.StorageSQLite})
	require.NoError(t, err)
	defer c.Close()
	_, ok := c.SidebarService.Get("main")
	assert.True(t, ok, "sqlite state survives reopen")
}

func TestSettingsKeys_SetAndReset(t *testing.T) {
	withHome(t)

	out, err := runCLI(t, nil, "settings", "keys", "set", "quit", "Q, ctrl+q")
	require.NoError(t, err)
	assert.Contains(t, out, "Set 'quit' to: Q, ctrl+q")

	saved, err := config.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, config.KeyBindingValue{"Q", "ctrl+q"}, saved.Keys["quit"])

	_, err = runCLI(t, nil, "settings", "keys", "set", "help", "Q")
	assert.ErrorContains(t, err, "conflict")

	_, err = runCLI(t, nil, "settings", "keys", "set", "launch", "l")
	assert.ErrorContains(t, err, "unknown key 'launch'")

	_, err = runCLI(t, nil, "settings", "keys", "reset", "quit")
	require.NoError(t, err)
	saved, err = config.LoadSettings()
	require.NoError(t, err)
	assert.Empty(t, saved.Keys)
}

func TestSettingsKeys_List(t *testing.T) {
	withHome(t)

	out, err := runCLI(t, &config.Settings{Keys: config.KeyBindingsConfig{"toggle": {"space"}}},
		"settings", "keys", "list", "--format", "json")
	require.NoError(t, err)

	var rows []keyBindingRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	for _, row := range rows {
		if row.Name == "toggle" {
			assert.Equal(t, []string{"space"}, row.Custom)
			assert.Equal(t, []string{"enter", "t"}, row.Default)
			return
		}
	}
	t.Fatal("toggle binding not listed")
}

func TestSettingsShow(t *testing.T) {
	withHome(t)

	out, err := runCLI(t, nil, "--storage-key", "custom-key", "settings")
	require.NoError(t, err)

	var shown effectiveSettings
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.Equal(t, "custom-key", shown.StorageKey)
	assert.Equal(t, config.StorageFile, shown.Storage)
	assert.Equal(t, config.DefaultMobileBreakpoint, shown.MobileBreakpoint)
	assert.Equal(t, "16rem", shown.ExpandedWidth)
}
