package ui

import (
	"github.com/atomicstack/tmux-overlay-switcher/internal/input"
	tea "github.com/charmbracelet/bubbletea"
)

// handleKeyMsg runs the local observers. The gesture observer is always
// present; the navigation observer only consumes keys while it is installed.
// Neither touches the overlay directly; they post to the command queue.
func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if keyMsg.Type == tea.KeyCtrlC {
		return tea.Quit
	}
	ev := input.FromTeaKey(keyMsg)
	if m.hooks.HandleLocal(ev) {
		return nil
	}
	m.hooks.HandleNavigation(ev)
	return nil
}
