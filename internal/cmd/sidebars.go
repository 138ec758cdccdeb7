package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"sidebarkit/internal/domain"
	"sidebarkit/internal/services"
)

// SidebarsCmd manages persisted sidebar state
type SidebarsCmd struct {
	Active     SidebarsActiveCmd     `cmd:"active" help:"Set the active item of a sidebar"`
	Clear      SidebarsClearCmd      `cmd:"clear" help:"Clear one sidebar, or all persisted state"`
	Close      SidebarsCloseCmd      `cmd:"close" help:"Close a sidebar"`
	List       SidebarsListCmd       `cmd:"list" help:"List all sidebars" default:"1"`
	Open       SidebarsOpenCmd       `cmd:"open" help:"Open a sidebar"`
	Prune      SidebarsPruneCmd      `cmd:"prune" help:"Remove sidebars the settings no longer declare"`
	Register   SidebarsRegisterCmd   `cmd:"register" help:"Register or replace a sidebar (kept by run until pruned)"`
	Shortcut   SidebarsShortcutCmd   `cmd:"shortcut" help:"Bind or unbind a sidebar keyboard shortcut"`
	Show       SidebarsShowCmd       `cmd:"show" help:"Show a specific sidebar"`
	Toggle     SidebarsToggleCmd     `cmd:"toggle" help:"Toggle a sidebar"`
	Unregister SidebarsUnregisterCmd `cmd:"unregister" help:"Remove a sidebar and its shortcut"`
	Variant    SidebarsVariantCmd    `cmd:"variant" help:"Set or cycle a sidebar variant"`
}

// sidebarView is the JSON shape printed by list and show
type sidebarView struct {
	ActiveItem       string `json:"activeItem,omitempty"`
	ID               string `json:"id"`
	KeyboardShortcut string `json:"keyboardShortcut,omitempty"`
	Open             bool   `json:"open"`
	OpenMobile       bool   `json:"openMobile"`
	Side             string `json:"side"`
	Variant          string `json:"variant"`
}

func newSidebarView(sb domain.Sidebar) sidebarView {
	return sidebarView{
		ActiveItem:       sb.ActiveItem,
		ID:               sb.ID,
		KeyboardShortcut: sb.KeyboardShortcut,
		Open:             sb.Open,
		OpenMobile:       sb.OpenMobile,
		Side:             string(sb.Side),
		Variant:          string(sb.Variant),
	}
}

// requireSidebar returns the sidebar or domain.ErrSidebarNotFound
func requireSidebar(svc *services.SidebarService, id string) (domain.Sidebar, error) {
	sb, ok := svc.Get(id)
	if !ok {
		return domain.Sidebar{}, fmt.Errorf("%w: '%s'", domain.ErrSidebarNotFound, id)
	}
	return sb, nil
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func openLabel(open bool) string {
	if open {
		return "open"
	}
	return "closed"
}

// SidebarsListCmd lists all sidebars
type SidebarsListCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
}

// Run executes the list command
func (s *SidebarsListCmd) Run(cli *CLI) error {
	sidebars := cli.Container.SidebarService.List()

	if s.Format == "json" {
		views := make([]sidebarView, len(sidebars))
		for i, sb := range sidebars {
			views[i] = newSidebarView(sb)
		}
		return printJSON(cli.out(), views)
	}

	if len(sidebars) == 0 {
		fmt.Fprintln(cli.out(), "No sidebars registered")
		return nil
	}

	w := tabwriter.NewWriter(cli.out(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDESKTOP\tMOBILE\tVARIANT\tSIDE\tSHORTCUT\tACTIVE")
	for _, sb := range sidebars {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			sb.ID,
			openLabel(sb.Open),
			openLabel(sb.OpenMobile),
			sb.Variant,
			sb.Side,
			dashIfEmpty(sb.KeyboardShortcut),
			dashIfEmpty(sb.ActiveItem))
	}
	return w.Flush()
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// SidebarsShowCmd shows a specific sidebar
type SidebarsShowCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
	ID     string `arg:"" help:"Sidebar id"`
}

// Run executes the show command
func (s *SidebarsShowCmd) Run(cli *CLI) error {
	sb, err := requireSidebar(cli.Container.SidebarService, s.ID)
	if err != nil {
		return err
	}

	if s.Format == "json" {
		return printJSON(cli.out(), newSidebarView(sb))
	}

	out := cli.out()
	fmt.Fprintf(out, "Sidebar: %s\n", sb.ID)
	fmt.Fprintf(out, "Desktop: %s\n", openLabel(sb.Open))
	fmt.Fprintf(out, "Mobile: %s\n", openLabel(sb.OpenMobile))
	fmt.Fprintf(out, "Variant: %s\n", sb.Variant)
	fmt.Fprintf(out, "Side: %s\n", sb.Side)
	fmt.Fprintf(out, "Shortcut: %s\n", dashIfEmpty(sb.KeyboardShortcut))
	fmt.Fprintf(out, "Active Item: %s\n", dashIfEmpty(sb.ActiveItem))
	return nil
}

// SidebarsRegisterCmd registers a sidebar
type SidebarsRegisterCmd struct {
	Active   string `help:"Initially active item"`
	Closed   bool   `help:"Start closed on desktop"`
	ID       string `arg:"" help:"Sidebar id"`
	Shortcut string `help:"Keyboard shortcut (e.g. mod+b)"`
	Side     string `help:"Side: left or right" default:"left"`
	Variant  string `help:"Variant: default, floating or inset" default:"default"`
}

// Run executes the register command
func (s *SidebarsRegisterCmd) Run(cli *CLI) error {
	if s.ID == "" {
		return fmt.Errorf("sidebar id cannot be empty")
	}
	side, err := domain.ParseSide(s.Side)
	if err != nil {
		return err
	}
	variant, err := domain.ParseVariant(s.Variant)
	if err != nil {
		return err
	}

	opts := domain.SidebarOptions{
		ActiveItem:       s.Active,
		KeyboardShortcut: s.Shortcut,
		Side:             side,
		Variant:          variant,
	}
	if s.Closed {
		closed := false
		opts.Open = &closed
	}

	cli.Container.SidebarService.Register(s.ID, opts)
	fmt.Fprintf(cli.out(), "Sidebar '%s' registered\n", s.ID)
	return nil
}

// SidebarsUnregisterCmd removes a sidebar
type SidebarsUnregisterCmd struct {
	ID string `arg:"" help:"Sidebar id"`
}

// Run executes the unregister command
func (s *SidebarsUnregisterCmd) Run(cli *CLI) error {
	svc := cli.Container.SidebarService
	if _, err := requireSidebar(svc, s.ID); err != nil {
		return err
	}
	svc.Unregister(s.ID)
	fmt.Fprintf(cli.out(), "Sidebar '%s' unregistered\n", s.ID)
	return nil
}

// SidebarsPruneCmd unmounts sidebars missing from the settings file
type SidebarsPruneCmd struct{}

// Run executes the prune command
func (s *SidebarsPruneCmd) Run(cli *CLI) error {
	settings := cli.Container.SettingsService
	decls, err := settings.Sidebars()
	if err != nil {
		return err
	}

	removed := settings.PruneUndeclared(cli.Container.SidebarService, decls)
	if len(removed) == 0 {
		fmt.Fprintln(cli.out(), "No undeclared sidebars")
		return nil
	}
	for _, id := range removed {
		fmt.Fprintf(cli.out(), "Sidebar '%s' pruned\n", id)
	}
	return nil
}

// SidebarsToggleCmd toggles a sidebar
type SidebarsToggleCmd struct {
	ID     string `arg:"" help:"Sidebar id"`
	Mobile bool   `help:"Toggle the mobile (overlay) flag instead of the desktop one"`
}

// Run executes the toggle command
func (s *SidebarsToggleCmd) Run(cli *CLI) error {
	svc := cli.Container.SidebarService
	if _, err := requireSidebar(svc, s.ID); err != nil {
		return err
	}
	svc.Toggle(s.ID, s.Mobile)

	sb, _ := svc.Get(s.ID)
	fmt.Fprintf(cli.out(), "Sidebar '%s' %s\n", s.ID, openLabel(sb.IsOpen(s.Mobile)))
	return nil
}

// SidebarsOpenCmd opens a sidebar
type SidebarsOpenCmd struct {
	ID     string `arg:"" help:"Sidebar id"`
	Mobile bool   `help:"Open the mobile (overlay) sheet instead of the desktop sidebar"`
}

// Run executes the open command
func (s *SidebarsOpenCmd) Run(cli *CLI) error {
	return setOpen(cli, s.ID, true, s.Mobile)
}

// SidebarsCloseCmd closes a sidebar
type SidebarsCloseCmd struct {
	ID     string `arg:"" help:"Sidebar id"`
	Mobile bool   `help:"Close the mobile (overlay) sheet instead of the desktop sidebar"`
}

// Run executes the close command
func (s *SidebarsCloseCmd) Run(cli *CLI) error {
	return setOpen(cli, s.ID, false, s.Mobile)
}

func setOpen(cli *CLI, id string, open, isMobile bool) error {
	svc := cli.Container.SidebarService
	if _, err := requireSidebar(svc, id); err != nil {
		return err
	}
	svc.SetOpen(id, open, isMobile)
	fmt.Fprintf(cli.out(), "Sidebar '%s' %s\n", id, openLabel(open))
	return nil
}

// SidebarsVariantCmd sets or cycles the variant
type SidebarsVariantCmd struct {
	ID      string `arg:"" help:"Sidebar id"`
	Variant string `arg:"" optional:"" help:"default, floating or inset (omit to cycle)"`
}

// Run executes the variant command
func (s *SidebarsVariantCmd) Run(cli *CLI) error {
	svc := cli.Container.SidebarService
	if _, err := requireSidebar(svc, s.ID); err != nil {
		return err
	}

	if s.Variant == "" {
		svc.CycleVariant(s.ID)
	} else {
		variant, err := domain.ParseVariant(s.Variant)
		if err != nil {
			return err
		}
		svc.SetVariant(s.ID, variant)
	}

	sb, _ := svc.Get(s.ID)
	fmt.Fprintf(cli.out(), "Sidebar '%s' variant: %s\n", s.ID, sb.Variant)
	return nil
}

// SidebarsShortcutCmd binds a keyboard shortcut
type SidebarsShortcutCmd struct {
	ID       string `arg:"" help:"Sidebar id"`
	Shortcut string `arg:"" optional:"" help:"Shortcut such as mod+b (omit to unbind)"`
}

// Run executes the shortcut command
func (s *SidebarsShortcutCmd) Run(cli *CLI) error {
	svc := cli.Container.SidebarService
	if _, err := requireSidebar(svc, s.ID); err != nil {
		return err
	}

	previousOwner, hadOwner := svc.State().Owner(domain.NormalizeShortcut(s.Shortcut))
	svc.SetKeyboardShortcut(s.ID, s.Shortcut)

	out := cli.out()
	sb, _ := svc.Get(s.ID)
	if sb.KeyboardShortcut == "" {
		fmt.Fprintf(out, "Sidebar '%s' has no shortcut\n", s.ID)
		return nil
	}
	fmt.Fprintf(out, "Sidebar '%s' shortcut: %s\n", s.ID, sb.KeyboardShortcut)
	if hadOwner && previousOwner != s.ID {
		fmt.Fprintf(out, "Shortcut moved from '%s'\n", previousOwner)
	}
	return nil
}

// SidebarsActiveCmd sets the active item
type SidebarsActiveCmd struct {
	ID   string `arg:"" help:"Sidebar id"`
	Item string `arg:"" help:"Item to mark active"`
}

// Run executes the active command
func (s *SidebarsActiveCmd) Run(cli *CLI) error {
	svc := cli.Container.SidebarService
	if _, err := requireSidebar(svc, s.ID); err != nil {
		return err
	}
	svc.SetActiveItem(s.ID, s.Item)
	fmt.Fprintf(cli.out(), "Sidebar '%s' active item: %s\n", s.ID, s.Item)
	return nil
}

// SidebarsClearCmd clears state
type SidebarsClearCmd struct {
	ID string `arg:"" optional:"" help:"Sidebar id (omit to clear all persisted state)"`
}

// Run executes the clear command
func (s *SidebarsClearCmd) Run(cli *CLI) error {
	svc := cli.Container.SidebarService
	if s.ID == "" {
		svc.ClearPersistedState(context.Background())
		fmt.Fprintln(cli.out(), "All sidebar state cleared")
		return nil
	}

	if _, err := requireSidebar(svc, s.ID); err != nil {
		return err
	}
	svc.ClearSidebarState(s.ID)
	fmt.Fprintf(cli.out(), "Sidebar '%s' cleared\n", s.ID)
	return nil
}
