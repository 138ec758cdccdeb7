package server

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/google/uuid"

	"sidebarkit/internal/logging"
	"sidebarkit/internal/ui"
)

// sessionModel wraps ui.Model so the shell is closed when the session ends
type sessionModel struct {
	*ui.Model
	sessionID string
	startTime time.Time
}

func (s *sessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(tea.QuitMsg); ok {
		s.end()
	}

	_, cmd := s.Model.Update(msg)
	return s, cmd
}

func (s *sessionModel) end() {
	s.Model.Close()
	logging.Logger.Info("SSH session ended",
		"session_id", s.sessionID,
		"duration", time.Since(s.startTime).String())
}

// teaHandler creates a demo shell for each SSH session
func (s *Server) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sess.Pty()
	sessionID := uuid.New().String()

	logging.Logger.Info("New SSH session",
		"session_id", sessionID,
		"user", sess.User(),
		"remote_addr", sess.RemoteAddr().String(),
		"term", pty.Term,
		"window", fmt.Sprintf("%dx%d", pty.Window.Width, pty.Window.Height))

	// SSH sessions never use dev mode
	model, err := ui.NewModel(s.sidebars, s.settings, s.keysConfig, false)
	if err != nil {
		logging.Logger.Error("Failed to create shell for SSH session",
			"error", err,
			"session_id", sessionID)
		return errorModel{err}, nil
	}

	wrapped := &sessionModel{
		Model:     model,
		sessionID: sessionID,
		startTime: time.Now(),
	}

	// The connection can drop without a QuitMsg
	go func() {
		<-sess.Context().Done()
		model.Close()
	}()

	return wrapped, []tea.ProgramOption{tea.WithAltScreen()}
}

// errorModel displays an error and exits
type errorModel struct {
	err error
}

func (e errorModel) Init() tea.Cmd {
	return nil
}

func (e errorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return e, tea.Quit
}

func (e errorModel) View() string {
	return fmt.Sprintf("Error: %v\n", e.err)
}
