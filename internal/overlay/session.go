package overlay

import (
	"time"

	"github.com/atomicstack/tmux-overlay-switcher/internal/navigation"
)

// Session is the state of one open overlay. It is created by Open and
// discarded by Close; candidates never change while it lives.
type Session struct {
	id        string
	openedAt  time.Time
	panels    []*Panel
	selection navigation.Selection
}

func (s *Session) ID() string {
	if s == nil {
		return ""
	}
	return s.id
}

func (s *Session) OpenedAt() time.Time {
	return s.openedAt
}

// Len returns the number of panels.
func (s *Session) Len() int {
	if s == nil {
		return 0
	}
	return len(s.panels)
}

// Panels returns a snapshot of the panels in ordinal order.
func (s *Session) Panels() []Panel {
	if s == nil {
		return nil
	}
	out := make([]Panel, len(s.panels))
	for i, p := range s.panels {
		out[i] = *p
	}
	return out
}

// SelectedIndex returns the selected ordinal.
func (s *Session) SelectedIndex() int {
	if s == nil {
		return 0
	}
	return s.selection.Index()
}

// Selected returns the selected panel, if any.
func (s *Session) Selected() (Panel, bool) {
	if s == nil || len(s.panels) == 0 {
		return Panel{}, false
	}
	return *s.panels[s.selection.Index()], true
}

// NavigationArmed reports whether navigation input is being applied.
func (s *Session) NavigationArmed() bool {
	return s != nil && s.selection.Armed()
}
