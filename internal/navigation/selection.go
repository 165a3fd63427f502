package navigation

// Action is a logical navigation request produced by the input layer.
type Action int

const (
	SelectPrevious Action = iota
	SelectNext
)

func (a Action) String() string {
	switch a {
	case SelectPrevious:
		return "select-previous"
	case SelectNext:
		return "select-next"
	default:
		return "unknown"
	}
}

// Delta returns the signed index offset for the action.
func (a Action) Delta() int {
	if a == SelectPrevious {
		return -1
	}
	return 1
}

// Selection tracks the selected ordinal of an open overlay. The zero value
// is disarmed and ignores every move.
type Selection struct {
	index int
	count int
	armed bool
}

// Arm resets the selection to the first of count entries.
func (s *Selection) Arm(count int) {
	if count < 0 {
		count = 0
	}
	s.count = count
	s.index = 0
	s.armed = true
}

// Disarm clears the selection so later moves are ignored.
func (s *Selection) Disarm() {
	s.armed = false
	s.count = 0
	s.index = 0
}

// Armed reports whether navigation is currently accepted.
func (s *Selection) Armed() bool {
	return s.armed
}

// Index returns the selected ordinal.
func (s *Selection) Index() int {
	return s.index
}

// Count returns the number of selectable entries.
func (s *Selection) Count() int {
	return s.count
}

// Next moves forward, wrapping past the last entry.
func (s *Selection) Next() bool {
	return s.moveBy(1)
}

// Previous moves backward, wrapping before the first entry.
func (s *Selection) Previous() bool {
	return s.moveBy(-1)
}

// Apply performs the move for the given action and reports whether the
// selection changed.
func (s *Selection) Apply(a Action) bool {
	return s.moveBy(a.Delta())
}

func (s *Selection) moveBy(delta int) bool {
	if !s.armed || s.count == 0 {
		s.index = 0
		return false
	}
	old := s.index
	s.index = ((s.index+delta)%s.count + s.count) % s.count
	return s.index != old
}
