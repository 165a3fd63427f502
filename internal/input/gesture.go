package input

import (
	"errors"
	"fmt"
)

// DefaultGesture is the activation gesture used when none is configured.
const DefaultGesture = "alt+shift+o"

// Gesture is the activation trigger. A gesture with an empty Key is a
// modifier chord recognised on modifier changes; otherwise it is a chord
// plus a discrete key press.
type Gesture struct {
	Mods Modifier
	Key  string
}

// ParseGesture parses "alt+shift+o" (chord plus key) or "cmd+shift"
// (modifier chord).
func ParseGesture(s string) (Gesture, error) {
	ev, err := ParseKey(s)
	if err != nil {
		return Gesture{}, fmt.Errorf("parse gesture: %w", err)
	}
	mods := ev.Mods & DeviceIndependentMask
	if mods == 0 {
		return Gesture{}, errors.New("parse gesture: at least one modifier is required")
	}
	if ev.Kind == ModifiersChanged && mods&(mods-1) == 0 {
		return Gesture{}, fmt.Errorf("parse gesture: modifier chord %q needs two modifiers", s)
	}
	return Gesture{Mods: mods, Key: ev.Key}, nil
}

// MustParseGesture is ParseGesture for package-level defaults.
func MustParseGesture(s string) Gesture {
	g, err := ParseGesture(s)
	if err != nil {
		panic(err)
	}
	return g
}

// ErrChordUndeliverable marks modifier-only gestures. Neither the terminal
// nor tmux reports a bare modifier press, so no observer could see one.
var ErrChordUndeliverable = errors.New("modifier-only gesture is never delivered by the terminal or tmux")

// Deliverable reports whether some observer can actually receive the
// gesture. Chords parse and match, but only a chord plus a key reaches the
// switcher as a key press.
func (g Gesture) Deliverable() error {
	if g.Chord() {
		return fmt.Errorf("gesture %q: %w; add a key, e.g. %q", g.String(), ErrChordUndeliverable, g.String()+"+o")
	}
	return nil
}

// Chord reports whether the gesture is modifier-only.
func (g Gesture) Chord() bool {
	return g.Key == ""
}

// Matches reports whether ev triggers the gesture. Chords fire when every
// chord modifier is held on a modifier change; key gestures need the exact
// modifier set on a key press.
func (g Gesture) Matches(ev KeyEvent) bool {
	mods := ev.Mods & DeviceIndependentMask
	if g.Chord() {
		return ev.Kind == ModifiersChanged && g.Mods != 0 && mods&g.Mods == g.Mods
	}
	return ev.Kind == KeyDown && ev.Key == g.Key && mods == g.Mods
}

// Event returns the canonical event that triggers the gesture.
func (g Gesture) Event() KeyEvent {
	if g.Chord() {
		return KeyEvent{Kind: ModifiersChanged, Mods: g.Mods}
	}
	return KeyEvent{Kind: KeyDown, Mods: g.Mods, Key: g.Key}
}

// TmuxKey returns the tmux key name used for the global binding.
func (g Gesture) TmuxKey() (string, error) {
	return TmuxKeyName(g.Event())
}

func (g Gesture) String() string {
	return g.Event().String()
}
