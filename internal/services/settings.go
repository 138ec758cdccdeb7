package services

import (
	"fmt"

	"sidebarkit/internal/config"
	"sidebarkit/internal/domain"
	"sidebarkit/internal/logging"
)

// SidebarDeclaration is a sidebar the shell renders, as declared in settings
type SidebarDeclaration struct {
	ID      string
	Items   []string
	Options domain.SidebarOptions
	Title   string
}

// defaultDeclarations is used when settings declare no sidebars
var defaultDeclarations = []config.SidebarSettings{
	{
		ID:               "main",
		Items:            config.StringArray{"Home", "Projects", "Inbox", "Settings"},
		KeyboardShortcut: "mod+b",
		Title:            "Navigation",
	},
	{
		ID:               "inspector",
		Items:            config.StringArray{"Details", "Activity", "Comments"},
		KeyboardShortcut: "mod+e",
		Side:             string(domain.SideRight),
		Title:            "Inspector",
		Variant:          string(domain.VariantFloating),
	},
}

// SettingsService turns loaded settings into values the services consume
type SettingsService struct {
	settings *config.Settings
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(settings *config.Settings) *SettingsService {
	if settings == nil {
		settings = &config.Settings{}
	}
	return &SettingsService{
		settings: settings,
	}
}

// Settings returns the underlying settings
func (s *SettingsService) Settings() *config.Settings {
	return s.settings
}

// Sidebars returns the declared sidebars in declaration order
func (s *SettingsService) Sidebars() ([]SidebarDeclaration, error) {
	declared := s.settings.Sidebars
	if len(declared) == 0 {
		logging.Logger.Debug("No sidebars declared, using defaults")
		declared = defaultDeclarations
	}

	out := make([]SidebarDeclaration, 0, len(declared))
	for _, sb := range declared {
		side, err := domain.ParseSide(sb.Side)
		if err != nil {
			return nil, fmt.Errorf("sidebar '%s': %w", sb.ID, err)
		}
		variant, err := domain.ParseVariant(sb.Variant)
		if err != nil {
			return nil, fmt.Errorf("sidebar '%s': %w", sb.ID, err)
		}

		title := sb.Title
		if title == "" {
			title = sb.ID
		}

		out = append(out, SidebarDeclaration{
			ID:    sb.ID,
			Items: []string(sb.Items),
			Options: domain.SidebarOptions{
				KeyboardShortcut: sb.KeyboardShortcut,
				Open:             sb.DefaultOpen,
				Side:             side,
				Variant:          variant,
			},
			Title: title,
		})
	}
	return out, nil
}

// MountDeclared mounts every declared sidebar. Records the settings do not
// declare, such as ones added with "sidebars register", are left alone.
func (s *SettingsService) MountDeclared(svc *SidebarService, decls []SidebarDeclaration) {
	for _, d := range decls {
		svc.Mount(d.ID, d.Options)
	}
}

// PruneUndeclared unmounts every persisted sidebar that decls do not name
// and returns the removed ids in order.
func (s *SettingsService) PruneUndeclared(svc *SidebarService, decls []SidebarDeclaration) []string {
	declared := make(map[string]bool, len(decls))
	for _, d := range decls {
		declared[d.ID] = true
	}

	var removed []string
	for _, id := range svc.State().IDs() {
		if !declared[id] {
			logging.Logger.Info("Unmounting sidebar no longer declared", "id", id)
			svc.Unmount(id)
			removed = append(removed, id)
		}
	}
	return removed
}

// MobileBreakpoint returns the terminal width below which the mobile layout is used
func (s *SettingsService) MobileBreakpoint() int {
	return s.settings.GetMobileBreakpoint()
}

// IsMobile reports whether a terminal of the given width uses the mobile layout
func (s *SettingsService) IsMobile(width int) bool {
	return width > 0 && width < s.MobileBreakpoint()
}
