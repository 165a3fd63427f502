package input

import (
	"fmt"
	"sync"
	"time"

	"github.com/atomicstack/tmux-overlay-switcher/internal/logging/events"
	"github.com/atomicstack/tmux-overlay-switcher/internal/navigation"
	"github.com/charmbracelet/bubbles/key"
	"golang.org/x/time/rate"
)

var (
	DefaultPreviousKeys = []string{"up"}
	DefaultNextKeys     = []string{"down"}
)

// Options configures the hook manager.
type Options struct {
	Gesture      Gesture
	PreviousKeys []string
	NextKeys     []string
	// Debounce drops repeated gestures arriving within the interval. Zero
	// disables debouncing.
	Debounce time.Duration
}

// Manager owns the observers. Gesture recognition is shared by the global
// and local observers, and the navigation observer only exists while the
// overlay is open. Observers only ever post to the queue.
type Manager struct {
	gesture Gesture
	prev    key.Binding
	next    key.Binding
	queue   *Queue
	limiter *rate.Limiter

	mu     sync.Mutex
	nav    *navRegistration
	global *GlobalObserver
}

type navRegistration struct {
	installed time.Time
}

// NewManager validates the navigation keys and prepares the observers. No
// observer is installed until StartGlobal or InstallNavigation is called.
func NewManager(opts Options, queue *Queue) (*Manager, error) {
	if queue == nil {
		queue = NewQueue(DefaultQueueSize)
	}
	if opts.Gesture.Mods == 0 {
		opts.Gesture = MustParseGesture(DefaultGesture)
	}
	prevKeys := opts.PreviousKeys
	if len(prevKeys) == 0 {
		prevKeys = DefaultPreviousKeys
	}
	nextKeys := opts.NextKeys
	if len(nextKeys) == 0 {
		nextKeys = DefaultNextKeys
	}
	prev, err := normaliseKeys(prevKeys)
	if err != nil {
		return nil, fmt.Errorf("previous keys: %w", err)
	}
	next, err := normaliseKeys(nextKeys)
	if err != nil {
		return nil, fmt.Errorf("next keys: %w", err)
	}
	m := &Manager{
		gesture: opts.Gesture,
		prev:    key.NewBinding(key.WithKeys(prev...), key.WithHelp(prevKeys[0], "previous")),
		next:    key.NewBinding(key.WithKeys(next...), key.WithHelp(nextKeys[0], "next")),
		queue:   queue,
	}
	if opts.Debounce > 0 {
		m.limiter = rate.NewLimiter(rate.Every(opts.Debounce), 1)
	}
	return m, nil
}

func normaliseKeys(keys []string) ([]string, error) {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		ev, err := ParseKey(k)
		if err != nil {
			return nil, err
		}
		if ev.Kind != KeyDown {
			return nil, fmt.Errorf("navigation key %q must not be modifier-only", k)
		}
		out = append(out, ev.String())
	}
	return out, nil
}

// Gesture returns the configured activation gesture.
func (m *Manager) Gesture() Gesture {
	return m.gesture
}

// Queue returns the command queue observers post to.
func (m *Manager) Queue() *Queue {
	return m.queue
}

// Bindings exposes the navigation bindings for help rendering.
func (m *Manager) Bindings() []key.Binding {
	return []key.Binding{m.prev, m.next}
}

// Recognize is the single gesture decision used by every observer.
func (m *Manager) Recognize(ev KeyEvent) bool {
	return m.gesture.Matches(ev)
}

// HandleLocal is the local observer. It reports whether the event was
// consumed; a recognised gesture is consumed even when debounced.
func (m *Manager) HandleLocal(ev KeyEvent) bool {
	return m.observe(events.SourceLocal, ev)
}

// HandleGlobal is the global observer entry point used by the socket
// listener.
func (m *Manager) HandleGlobal(ev KeyEvent) bool {
	return m.observe(events.SourceGlobal, ev)
}

func (m *Manager) observe(source events.HookSource, ev KeyEvent) bool {
	if !m.Recognize(ev) {
		return false
	}
	if m.limiter != nil && !m.limiter.Allow() {
		events.Hook.Debounced(source, ev.String())
		return true
	}
	events.Hook.Gesture(source, ev.String())
	m.queue.Post(Toggle())
	return true
}

// InstallNavigation registers the navigation observer. Repeated calls keep
// the single existing registration.
func (m *Manager) InstallNavigation() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.nav != nil {
		events.Hook.NavigationDuplicate()
		return nil
	}
	m.nav = &navRegistration{installed: time.Now()}
	events.Hook.NavigationInstalled()
	return nil
}

// RemoveNavigation tears down the navigation observer if present.
func (m *Manager) RemoveNavigation() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.nav == nil {
		return
	}
	m.nav = nil
	events.Hook.NavigationRemoved()
}

// NavigationInstalled reports whether arrow keys are currently consumed.
func (m *Manager) NavigationInstalled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nav != nil
}

// HandleNavigation is the navigation observer. Matching keys post a
// navigate command and are consumed; anything else passes through.
func (m *Manager) HandleNavigation(ev KeyEvent) bool {
	if !m.NavigationInstalled() {
		return false
	}
	var action navigation.Action
	switch {
	case key.Matches(ev, m.prev):
		action = navigation.SelectPrevious
	case key.Matches(ev, m.next):
		action = navigation.SelectNext
	default:
		events.Hook.PassThrough(ev.String())
		return false
	}
	m.queue.Post(Navigate(action))
	return true
}

// Stop removes every observer.
func (m *Manager) Stop() {
	m.RemoveNavigation()
	m.mu.Lock()
	global := m.global
	m.global = nil
	m.mu.Unlock()
	if global != nil {
		global.Stop()
	}
}
