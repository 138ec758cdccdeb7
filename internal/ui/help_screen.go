package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"sidebarkit/internal/domain"
	"sidebarkit/internal/theme"
)

// HelpScreen displays keyboard shortcuts organized by category
type HelpScreen struct {
	Completed   bool
	content     string         // Pre-built help content
	height      int            // Terminal height
	initialized bool           // Track if viewport has been sized
	keys        *KeyMap        // Key bindings to display
	viewport    viewport.Model // Scrollable viewport
	width       int            // Terminal width
}

// renderShortcut renders a single shortcut line with key and description
func renderShortcut(key, description string) string {
	return theme.HelpKeyStyle.Render(key) + theme.HelpDescStyle.Render(description) + "\n"
}

// renderBinding renders a single shortcut line from a key binding
func renderBinding(binding key.Binding) string {
	help := binding.Help()
	return renderShortcut(help.Key, help.Desc)
}

// terminalShortcut spells a "mod+x" shortcut the way a terminal reports it
func terminalShortcut(shortcut string) string {
	k := strings.TrimPrefix(shortcut, domain.ShortcutModifier+"+")
	if k == shortcut {
		return shortcut
	}
	return "ctrl+" + k + "/alt+" + k
}

// buildHelpContent builds the complete help text content
func buildHelpContent(keys *KeyMap, st domain.State) string {
	var content string

	content += theme.HelpGroupStyle.Render("Navigation") + "\n"
	content += renderBinding(keys.Navigation.Up.Binding)
	content += renderBinding(keys.Navigation.Down.Binding)
	content += renderBinding(keys.Navigation.FocusNext.Binding)
	content += renderBinding(keys.Navigation.FocusPrev.Binding)

	content += "\n" + theme.HelpGroupStyle.Render("Focused Sidebar") + "\n"
	content += renderBinding(keys.Sidebar.Toggle.Binding)
	content += renderBinding(keys.Sidebar.CycleVariant.Binding)

	content += "\n" + theme.HelpGroupStyle.Render("Sidebar Shortcuts") + "\n"
	bound := false
	for _, sb := range st.List() {
		if sb.KeyboardShortcut == "" {
			continue
		}
		bound = true
		content += renderShortcut(terminalShortcut(sb.KeyboardShortcut), "toggle "+sb.ID)
	}
	if !bound {
		content += theme.HelpDescStyle.Render("no sidebar has a keyboard shortcut") + "\n"
	}

	content += "\n" + theme.HelpGroupStyle.Render("Application") + "\n"
	content += renderBinding(keys.Application.Mobile.Binding)
	content += renderBinding(keys.Application.Clear.Binding)
	content += renderBinding(keys.Application.Help.Binding)
	content += renderBinding(keys.Application.Quit.Binding)
	content += renderBinding(keys.Application.ForceQuit.Binding)

	if tips := keys.Tips(); len(tips) > 0 {
		content += "\n" + theme.HelpGroupStyle.Render("Tips") + "\n"
		for _, tip := range tips {
			content += RenderTip(tip) + "\n"
		}
	}

	return content
}

// NewHelpScreen creates a new help screen component
func NewHelpScreen(keys *KeyMap, st domain.State) *HelpScreen {
	return &HelpScreen{
		content:  buildHelpContent(keys, st),
		keys:     keys,
		viewport: viewport.New(0, 0),
	}
}

// Init implements tea.Model
func (h *HelpScreen) Init() tea.Cmd {
	h.viewport.KeyMap.Up.SetKeys("up", "k")
	h.viewport.KeyMap.Down.SetKeys("down", "j")
	return nil
}

// Update implements tea.Model
func (h *HelpScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h.width = msg.Width
		h.height = msg.Height

		// Dialog header: 4 lines, Footer: 2 lines
		viewportHeight := msg.Height - 6
		if viewportHeight < 5 {
			viewportHeight = 5
		}

		h.viewport.Width = msg.Width
		h.viewport.Height = viewportHeight
		h.viewport.SetContent(h.content)
		h.initialized = true
		return h, nil

	case tea.KeyMsg:
		if msg.String() == "esc" || key.Matches(msg, h.keys.Application.Quit.Binding, h.keys.Application.Help.Binding) {
			h.Completed = true
			return h, nil
		}
	}

	var cmd tea.Cmd
	h.viewport, cmd = h.viewport.Update(msg)
	return h, cmd
}

// View implements tea.Model
func (h *HelpScreen) View() string {
	if !h.initialized {
		return "Loading help..."
	}

	footer := theme.HelpStyle.Render("Press esc, q, h, or ? to close • ↑↓/jk/PgUp/PgDn to scroll")
	return h.viewport.View() + "\n\n" + footer
}
