package ui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"sidebarkit/internal/config"
	"sidebarkit/internal/domain"
	"sidebarkit/internal/layout"
	"sidebarkit/internal/logging"
	"sidebarkit/internal/services"
	"sidebarkit/internal/theme"
)

type uiState int

const (
	stateMain uiState = iota
	stateConfirmingClear
	stateHelp
)

// defaultHeight is used until the first WindowSizeMsg arrives
const defaultHeight = 20

// Model is the demo shell: the declared sidebars around a content panel
// describing the store. One Model is one UI tree with its own dispatcher.
type Model struct {
	clearConfirmed   *bool                         // Clear decision (pointer to persist across updates)
	clearDialog      *Dialog                       // Clear confirmation dialog
	closeOnce        sync.Once
	collapsedColumns int                           // Width of a closed sidebar
	decls            []services.SidebarDeclaration // Declared sidebars in declaration order
	devMode          bool                          // Development mode (shows version info in dialogs)
	dispatcher       *services.ShortcutDispatcher  // Sidebar keyboard shortcuts
	expandedColumns  int                           // Width of an open sidebar
	feed             *stateFeed                    // Store notifications
	focused          int                           // Index into decls
	forceMobile      bool                          // Mobile layout regardless of width
	height           int
	help             help.Model
	helpScreen       *Dialog                       // Help screen dialog
	keys             KeyMap                        // Keyboard shortcuts
	settings         *services.SettingsService
	sidebars         *services.SidebarService
	state            uiState
	unsubscribe      func()
	width            int
}

// NewModel mounts the declared sidebars and subscribes to the store
func NewModel(
	sidebars *services.SidebarService,
	settings *services.SettingsService,
	keysConfig config.KeyBindingsConfig,
	devMode bool,
) (*Model, error) {
	decls, err := settings.Sidebars()
	if err != nil {
		return nil, fmt.Errorf("failed to load sidebar declarations: %w", err)
	}
	settings.MountDeclared(sidebars, decls)

	expanded, collapsed := settings.Settings().GetColumns()
	feed := newStateFeed()

	m := &Model{
		collapsedColumns: collapsed,
		decls:            decls,
		devMode:          devMode,
		dispatcher:       services.NewShortcutDispatcher(sidebars),
		expandedColumns:  expanded,
		feed:             feed,
		help:             help.New(),
		keys:             NewKeyMap(keysConfig),
		settings:         settings,
		sidebars:         sidebars,
		state:            stateMain,
	}
	m.unsubscribe = sidebars.Subscribe(feed.publish)

	logging.Logger.Debug("Demo shell created", "sidebars", len(decls))
	return m, nil
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	m.dispatcher.Attach()
	return m.feed.wait()
}

// Close detaches the dispatcher and drops the store subscription.
// Safe to call more than once.
func (m *Model) Close() {
	m.closeOnce.Do(func() {
		m.dispatcher.Detach()
		if m.unsubscribe != nil {
			m.unsubscribe()
		}
		m.feed.close()
		logging.Logger.Debug("Demo shell closed")
	})
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StateChangedMsg:
		m.clampFocus()
		return m, m.feed.wait()
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	}

	switch m.state {
	case stateMain:
		return m.updateMain(msg)
	case stateConfirmingClear:
		return m.updateConfirmingClear(msg)
	case stateHelp:
		return m.updateHelp(msg)
	}
	return m, nil
}

func (m *Model) updateMain(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if key.Matches(keyMsg, m.keys.Application.ForceQuit.Binding) {
		return m, m.quit()
	}

	// Sidebar shortcuts win over the shell's own bindings
	if m.dispatcher.HandleKey(services.ParseKey(keyMsg.String()), m.isMobile()) {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Application.Quit.Binding):
		return m, m.quit()

	case key.Matches(keyMsg, m.keys.Application.Help.Binding):
		m.helpScreen = NewDialog("Help", NewHelpScreen(&m.keys, m.sidebars.State()), m.devMode)
		m.state = stateHelp
		// Send initial WindowSizeMsg so viewport can initialize
		initCmd := m.helpScreen.Init()
		updatedDialog, sizeCmd := m.helpScreen.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		m.helpScreen = updatedDialog.(*Dialog)
		return m, tea.Batch(initCmd, sizeCmd)

	case key.Matches(keyMsg, m.keys.Application.Clear.Binding):
		m.clearDialog = m.createClearDialog()
		m.state = stateConfirmingClear
		return m, m.clearDialog.Init()

	case key.Matches(keyMsg, m.keys.Application.Mobile.Binding):
		m.forceMobile = !m.forceMobile
		logging.Logger.Debug("Mobile layout toggled", "forced", m.forceMobile)

	case key.Matches(keyMsg, m.keys.Navigation.FocusNext.Binding):
		m.moveFocus(1)

	case key.Matches(keyMsg, m.keys.Navigation.FocusPrev.Binding):
		m.moveFocus(-1)

	case key.Matches(keyMsg, m.keys.Navigation.Up.Binding):
		m.moveItem(-1)

	case key.Matches(keyMsg, m.keys.Navigation.Down.Binding):
		m.moveItem(1)

	case key.Matches(keyMsg, m.keys.Sidebar.Toggle.Binding):
		if id := m.focusedID(); id != "" {
			m.sidebars.Toggle(id, m.isMobile())
		}

	case key.Matches(keyMsg, m.keys.Sidebar.CycleVariant.Binding):
		if id := m.focusedID(); id != "" {
			m.sidebars.CycleVariant(id)
		}
	}

	return m, nil
}

func (m *Model) updateHelp(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.helpScreen.Update(msg)
	m.helpScreen = updated.(*Dialog)

	if content, ok := m.helpScreen.Content().(*HelpScreen); ok && content.Completed {
		m.helpScreen = nil
		m.state = stateMain
		return m, nil
	}
	return m, cmd
}

func (m *Model) updateConfirmingClear(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		m.clearDialog = nil
		m.state = stateMain
		return m, nil
	}

	updated, cmd := m.clearDialog.Update(msg)
	m.clearDialog = updated.(*Dialog)

	// Access wrapped huh.Form to check completion
	form, ok := m.clearDialog.Content().(*huh.Form)
	if !ok {
		return m, cmd
	}

	switch form.State {
	case huh.StateCompleted:
		if m.clearConfirmed != nil && *m.clearConfirmed {
			m.sidebars.ClearPersistedState(context.Background())
			// Declared sidebars come back with their defaults
			m.settings.MountDeclared(m.sidebars, m.decls)
		}
		m.clearDialog = nil
		m.state = stateMain
		return m, nil
	case huh.StateAborted:
		m.clearDialog = nil
		m.state = stateMain
		return m, nil
	}
	return m, cmd
}

// createClearDialog creates the confirmation dialog for clearing all state
func (m *Model) createClearDialog() *Dialog {
	confirmed := false
	m.clearConfirmed = &confirmed

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Clear all persisted sidebar state?").
				Description("Every sidebar returns to its declared defaults.").
				Value(m.clearConfirmed).
				Affirmative("Clear").
				Negative("Keep"),
		),
	)
	return NewDialog("Clear State", form, m.devMode)
}

func (m *Model) quit() tea.Cmd {
	m.Close()
	return tea.Quit
}

// isMobile reports whether the mobile (overlay) layout is active
func (m *Model) isMobile() bool {
	return m.forceMobile || m.settings.IsMobile(m.width)
}

func (m *Model) focusedID() string {
	if len(m.decls) == 0 {
		return ""
	}
	return m.decls[m.focused].ID
}

func (m *Model) moveFocus(delta int) {
	if len(m.decls) == 0 {
		return
	}
	m.focused = (m.focused + delta + len(m.decls)) % len(m.decls)
}

func (m *Model) clampFocus() {
	if m.focused >= len(m.decls) {
		m.focused = 0
	}
}

// moveItem selects the previous or next item of the focused sidebar
func (m *Model) moveItem(delta int) {
	if len(m.decls) == 0 {
		return
	}
	decl := m.decls[m.focused]
	if len(decl.Items) == 0 {
		return
	}
	sb, ok := m.sidebars.Get(decl.ID)
	if !ok {
		return
	}

	current := -1
	for i, item := range decl.Items {
		if item == sb.ActiveItem {
			current = i
			break
		}
	}

	next := current + delta
	if current == -1 {
		next = 0
	}
	next = max(0, min(next, len(decl.Items)-1))
	if next != current {
		m.sidebars.SetActiveItem(decl.ID, decl.Items[next])
	}
}

// View implements tea.Model
func (m *Model) View() string {
	switch m.state {
	case stateMain:
		return m.viewMain()
	case stateConfirmingClear:
		if m.clearDialog != nil {
			return m.clearDialog.View()
		}
	case stateHelp:
		if m.helpScreen != nil {
			return m.helpScreen.View()
		}
	}
	return ""
}

func (m *Model) viewMain() string {
	st := m.sidebars.State()
	isMobile := m.isMobile()

	height := m.height
	if height <= 0 {
		height = defaultHeight
	}
	footer := m.help.View(m.keys)
	bodyHeight := max(height-lipgloss.Height(footer)-1, 3)

	var body string
	if isMobile {
		body = m.viewMobile(st, bodyHeight)
	} else {
		body = m.viewDesktop(st, bodyHeight)
	}

	return body + "\n" + footer
}

// viewDesktop lays left sidebars, content, then right sidebars side by side
func (m *Model) viewDesktop(st domain.State, height int) string {
	columns := layout.Columns(st, m.expandedColumns, m.collapsedColumns)

	var left, right []string
	used := 0
	for i, decl := range m.decls {
		sb, ok := st.Get(decl.ID)
		if !ok {
			continue
		}
		width := columns[decl.ID]
		used += width
		view := renderSidebar(decl, sb, sb.Open, width, height, i == m.focused)
		if sb.Side == domain.SideRight {
			right = append(right, view)
		} else {
			left = append(left, view)
		}
	}

	contentWidth := max(m.width-used, 20)
	parts := append(left, m.viewContent(st, false, contentWidth, height))
	parts = append(parts, right...)
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// viewMobile shows the content panel, or an open sidebar as a full-width sheet
func (m *Model) viewMobile(st domain.State, height int) string {
	width := max(m.width, 20)

	sheet := -1
	for i, decl := range m.decls {
		if sb, ok := st.Get(decl.ID); ok && sb.OpenMobile && (sheet == -1 || i == m.focused) {
			sheet = i
		}
	}
	if sheet == -1 {
		return m.viewContent(st, true, width, height)
	}

	decl := m.decls[sheet]
	sb, _ := st.Get(decl.ID)
	return renderSidebar(decl, sb, true, width, height, sheet == m.focused)
}

// viewContent renders the panel describing every sidebar record and the
// layout variables a browser host would receive
func (m *Model) viewContent(st domain.State, isMobile bool, width, height int) string {
	var b strings.Builder
	b.WriteString(theme.TitleStyle.Render("sidebarkit"))
	mode := "desktop"
	if isMobile {
		mode = "mobile"
	}
	b.WriteString(theme.LabelStyle.Render("  " + mode + " layout"))
	b.WriteString("\n\n")

	if len(st.Sidebars) == 0 {
		b.WriteString(theme.LabelStyle.Render("no sidebars registered"))
		b.WriteString("\n")
	}
	for _, sb := range st.List() {
		marker := "  "
		if sb.ID == m.focusedID() {
			marker = theme.ActiveItemStyle.Render("▸ ")
		}
		b.WriteString(marker + stateLine(sb, isMobile) + "\n")
	}

	expandedWidth, collapsedWidth := m.settings.Settings().GetWidths()
	vars := layout.VarsForState(st, layout.Widths{Expanded: expandedWidth, Collapsed: collapsedWidth})
	if len(vars) > 0 {
		b.WriteString("\n")
		b.WriteString(theme.LabelStyle.Render("layout vars"))
		b.WriteString("\n")
		for _, v := range vars {
			b.WriteString(theme.NormalStyle.Render(v.Name + ": " + v.Value))
			b.WriteString("\n")
		}
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		MaxHeight(height).
		Padding(0, 1).
		Render(b.String())
}
