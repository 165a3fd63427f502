package input

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// Modifier is a bit set of held modifier keys.
type Modifier uint16

const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
	ModCapsLock
	ModNumLock
)

// DeviceIndependentMask keeps only the modifiers a gesture may depend on;
// lock keys and other device state are dropped before matching.
const DeviceIndependentMask = ModShift | ModCtrl | ModAlt | ModSuper

// EventKind separates discrete key presses from modifier-only changes.
type EventKind int

const (
	KeyDown EventKind = iota
	ModifiersChanged
)

// KeyEvent is a key press normalised away from any particular source.
// Key is the lower-case base key name and is empty for ModifiersChanged.
type KeyEvent struct {
	Kind EventKind
	Mods Modifier
	Key  string
}

var errEmptyKey = errors.New("empty key")

var modifierNames = map[string]Modifier{
	"shift":   ModShift,
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"alt":     ModAlt,
	"opt":     ModAlt,
	"option":  ModAlt,
	"meta":    ModAlt,
	"cmd":     ModSuper,
	"command": ModSuper,
	"super":   ModSuper,
}

var keyAliases = map[string]string{
	" ":         "space",
	"escape":    "esc",
	"return":    "enter",
	"bspace":    "backspace",
	"pageup":    "pgup",
	"pagedown":  "pgdown",
	"arrowup":   "up",
	"arrowdown": "down",
}

// String renders the event in Bubble Tea's key notation, e.g. "alt+O" or
// "shift+up", so it can be matched against bubbles key bindings.
func (e KeyEvent) String() string {
	var b strings.Builder
	if e.Mods&ModSuper != 0 {
		b.WriteString("super+")
	}
	if e.Mods&ModAlt != 0 {
		b.WriteString("alt+")
	}
	if e.Mods&ModCtrl != 0 {
		b.WriteString("ctrl+")
	}
	if e.Kind == ModifiersChanged {
		if e.Mods&ModShift != 0 {
			b.WriteString("shift+")
		}
		return strings.TrimSuffix(b.String(), "+")
	}
	key := e.Key
	if e.Mods&ModShift != 0 {
		if isLetter(key) {
			key = strings.ToUpper(key)
		} else {
			b.WriteString("shift+")
		}
	}
	b.WriteString(key)
	return b.String()
}

// ParseKey parses Bubble Tea style notation ("alt+O", "ctrl+shift+up",
// "cmd+shift"). A string made only of modifier names yields a
// ModifiersChanged event.
func ParseKey(s string) (KeyEvent, error) {
	if s == "" {
		return KeyEvent{}, errEmptyKey
	}
	var mods Modifier
	rest := s
	for {
		idx := strings.Index(rest, "+")
		if idx <= 0 || idx == len(rest)-1 {
			break
		}
		mod, ok := modifierNames[strings.ToLower(rest[:idx])]
		if !ok {
			break
		}
		mods |= mod
		rest = rest[idx+1:]
	}
	if mod, ok := modifierNames[strings.ToLower(rest)]; ok {
		return KeyEvent{Kind: ModifiersChanged, Mods: mods | mod}, nil
	}
	key, shifted := normaliseKey(rest)
	if key == "" {
		return KeyEvent{}, fmt.Errorf("invalid key %q", s)
	}
	if shifted {
		mods |= ModShift
	}
	return KeyEvent{Kind: KeyDown, Mods: mods, Key: key}, nil
}

// FromTeaKey converts a Bubble Tea key message into a KeyEvent.
func FromTeaKey(msg tea.KeyMsg) KeyEvent {
	ev, err := ParseKey(msg.String())
	if err != nil {
		return KeyEvent{Kind: KeyDown, Key: msg.String()}
	}
	return ev
}

var tmuxNames = map[string]string{
	"up":        "Up",
	"down":      "Down",
	"left":      "Left",
	"right":     "Right",
	"space":     "Space",
	"enter":     "Enter",
	"esc":       "Escape",
	"tab":       "Tab",
	"backspace": "BSpace",
	"home":      "Home",
	"end":       "End",
	"pgup":      "PPage",
	"pgdown":    "NPage",
	"delete":    "DC",
	"insert":    "IC",
}

var tmuxReverse = func() map[string]string {
	out := make(map[string]string, len(tmuxNames))
	for k, v := range tmuxNames {
		out[strings.ToLower(v)] = k
	}
	return out
}()

// ErrNotBindable marks gestures tmux key tables cannot express.
var ErrNotBindable = errors.New("gesture cannot be bound as a tmux key")

// TmuxKeyName renders the event as a tmux key name, e.g. "M-O" or "C-Up".
func TmuxKeyName(e KeyEvent) (string, error) {
	if e.Kind != KeyDown || e.Key == "" {
		return "", fmt.Errorf("%w: modifier-only chord %q", ErrNotBindable, e.String())
	}
	if e.Mods&ModSuper != 0 {
		return "", fmt.Errorf("%w: tmux has no super modifier (%q)", ErrNotBindable, e.String())
	}
	var b strings.Builder
	if e.Mods&ModCtrl != 0 {
		b.WriteString("C-")
	}
	if e.Mods&ModAlt != 0 {
		b.WriteString("M-")
	}
	key := e.Key
	if name, ok := tmuxNames[key]; ok {
		key = name
	} else if strings.HasPrefix(key, "f") && len(key) > 1 && isDigits(key[1:]) {
		key = strings.ToUpper(key)
	}
	if e.Mods&ModShift != 0 {
		if isLetter(e.Key) {
			key = strings.ToUpper(e.Key)
		} else {
			b.WriteString("S-")
		}
	}
	b.WriteString(key)
	return b.String(), nil
}

// ParseTmuxKey parses a tmux key name such as "M-O", "C-M-o" or "S-Up".
func ParseTmuxKey(s string) (KeyEvent, error) {
	rest := strings.TrimSpace(s)
	if rest == "" {
		return KeyEvent{}, errEmptyKey
	}
	if strings.ContainsAny(rest, " \t\n") {
		return KeyEvent{}, fmt.Errorf("invalid tmux key %q", s)
	}
	var mods Modifier
	for len(rest) > 2 && rest[1] == '-' {
		var mod Modifier
		switch rest[0] {
		case 'C', 'c':
			mod = ModCtrl
		case 'M', 'm':
			mod = ModAlt
		case 'S', 's':
			mod = ModShift
		}
		if mod == 0 {
			break
		}
		mods |= mod
		rest = rest[2:]
	}
	if name, ok := tmuxReverse[strings.ToLower(rest)]; ok {
		return KeyEvent{Kind: KeyDown, Mods: mods, Key: name}, nil
	}
	key, shifted := normaliseKey(rest)
	if key == "" {
		return KeyEvent{}, fmt.Errorf("invalid tmux key %q", s)
	}
	if shifted {
		mods |= ModShift
	}
	return KeyEvent{Kind: KeyDown, Mods: mods, Key: key}, nil
}

// normaliseKey lower-cases a key name, reporting whether a single upper-case
// letter implied shift.
func normaliseKey(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	if alias, ok := keyAliases[strings.ToLower(raw)]; ok {
		return alias, false
	}
	if utf8.RuneCountInString(raw) == 1 {
		r, _ := utf8.DecodeRuneInString(raw)
		if unicode.IsUpper(r) {
			return string(unicode.ToLower(r)), true
		}
		return raw, false
	}
	return strings.ToLower(raw), false
}

func isLetter(key string) bool {
	if utf8.RuneCountInString(key) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(key)
	return unicode.IsLetter(r)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
