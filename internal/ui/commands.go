package ui

import (
	"errors"

	"github.com/atomicstack/tmux-overlay-switcher/internal/input"
	"github.com/atomicstack/tmux-overlay-switcher/internal/overlay"
	"github.com/atomicstack/tmux-overlay-switcher/internal/ui/command"
	tea "github.com/charmbracelet/bubbletea"
)

// handleCommandMsg applies one queued command and then asks the bus for the
// next, so exactly one command is in flight at a time.
func (m *Model) handleCommandMsg(msg tea.Msg) tea.Cmd {
	cmdMsg, ok := msg.(command.Msg)
	if !ok {
		return nil
	}
	switch cmdMsg.Command.Kind {
	case input.CommandToggle:
		err := m.overlay.Toggle()
		switch {
		case errors.Is(err, overlay.ErrNoScreen):
			m.errMsg = ""
			m.retryOpen = m.width == 0
		case err == nil:
			m.errMsg = ""
		default:
			m.errMsg = err.Error()
		}
	case input.CommandNavigate:
		m.overlay.Navigate(cmdMsg.Command.Action)
	}
	return m.bus.Next()
}

func (m *Model) handleCommandDoneMsg(msg tea.Msg) tea.Cmd {
	return nil
}
