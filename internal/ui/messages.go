package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"sidebarkit/internal/domain"
)

// StateChangedMsg carries a new store snapshot into the update loop
type StateChangedMsg struct {
	State domain.State
}

// stateFeed forwards store notifications into Bubble Tea. It holds at most
// one pending snapshot; a newer snapshot replaces an unread one.
type stateFeed struct {
	ch        chan domain.State
	closeOnce sync.Once
	done      chan struct{}
}

func newStateFeed() *stateFeed {
	return &stateFeed{
		ch:   make(chan domain.State, 1),
		done: make(chan struct{}),
	}
}

// close releases any pending wait command
func (f *stateFeed) close() {
	f.closeOnce.Do(func() { close(f.done) })
}

// publish is registered as a store listener and may run on any goroutine
func (f *stateFeed) publish(st domain.State) {
	for {
		select {
		case f.ch <- st:
			return
		default:
			select {
			case <-f.ch:
			default:
			}
		}
	}
}

// wait returns a command that blocks until the next snapshot arrives
func (f *stateFeed) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case st := <-f.ch:
			return StateChangedMsg{State: st}
		case <-f.done:
			return nil
		}
	}
}
