package overlay

import (
	"fmt"
	"time"

	"github.com/atomicstack/tmux-overlay-switcher/internal/layout"
	"github.com/atomicstack/tmux-overlay-switcher/internal/logging/events"
	"github.com/atomicstack/tmux-overlay-switcher/internal/navigation"
	"github.com/google/uuid"
)

// Options configures a Manager.
type Options struct {
	Engine layout.Engine
	Policy *Policy
}

// Manager owns the single overlay session.
type Manager struct {
	enum   Enumerator
	wm     WindowManager
	hooks  NavigationHooks
	engine layout.Engine
	policy Policy

	session *Session

	now   func() time.Time
	newID func() string
}

// NewManager wires the overlay to its collaborators. A zero engine falls
// back to layout.Default and a nil policy to DefaultPolicy.
func NewManager(enum Enumerator, wm WindowManager, hooks NavigationHooks, opts Options) *Manager {
	engine := opts.Engine
	if engine == (layout.Engine{}) {
		engine = layout.Default()
	}
	policy := DefaultPolicy()
	if opts.Policy != nil {
		policy = *opts.Policy
	}
	return &Manager{
		enum:   enum,
		wm:     wm,
		hooks:  hooks,
		engine: engine,
		policy: policy,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Session returns the open session or nil.
func (m *Manager) Session() *Session {
	return m.session
}

// IsOpen reports whether a session exists.
func (m *Manager) IsOpen() bool {
	return m.session != nil
}

// Engine returns the layout engine in use.
func (m *Manager) Engine() layout.Engine {
	return m.engine
}

func (m *Manager) mustBeOnUIContext(op string) {
	if !m.wm.OnUIContext() {
		panic(fmt.Sprintf("overlay: %s called off the UI context", op))
	}
}

// Toggle closes the overlay when anything is shown and opens it otherwise.
// An open session with no panels counts as shown so that the gesture can
// still dismiss it.
func (m *Manager) Toggle() error {
	m.mustBeOnUIContext("Toggle")
	if m.wm.AnyPanelVisible() || (m.session != nil && m.session.Len() == 0) {
		m.Close()
		return nil
	}
	return m.Open()
}

// Open enumerates candidates and shows one panel per candidate with the
// first one selected. Opening while open replaces the session; the old
// panels are destroyed first.
func (m *Manager) Open() error {
	m.mustBeOnUIContext("Open")
	candidates, err := m.enum.ListEligibleApplications()
	if err != nil {
		err = fmt.Errorf("list applications: %w", err)
		events.Overlay.OpenAborted(events.AbortEnumeration, err)
		return err
	}
	m.destroyStale()

	area, ok := m.wm.WorkArea()
	if !ok || area.Empty() {
		events.Overlay.OpenAborted(events.AbortNoScreen, nil)
		return ErrNoScreen
	}

	frames := m.engine.Frames(len(candidates), 0, area)
	panels := make([]*Panel, 0, len(candidates))
	for i, c := range candidates {
		id, err := m.wm.CreatePanel(i, c, frames[i], m.policy)
		if err != nil {
			for _, p := range panels {
				m.wm.DestroyPanel(p.id)
			}
			err = fmt.Errorf("create panel %d (%s): %w", i, c.Name, err)
			events.Overlay.OpenAborted(events.AbortCreate, err)
			return err
		}
		panels = append(panels, &Panel{id: id, index: i, candidate: c, frame: frames[i]})
	}

	for _, p := range panels {
		m.wm.SetVisible(p.id, true)
		p.visible = true
	}
	if len(panels) > 0 {
		m.wm.MakeKey(panels[0].id)
	}
	events.App.Activate("owner", m.wm.ActivateOwner())

	s := &Session{id: m.newID(), openedAt: m.now(), panels: panels}
	s.selection.Arm(len(panels))
	m.session = s
	if err := m.hooks.InstallNavigation(); err != nil {
		events.Hook.NavigationFailed(err)
	}
	events.Overlay.Open(s.id, len(panels))
	return nil
}

func (m *Manager) destroyStale() {
	m.hooks.RemoveNavigation()
	if m.session == nil {
		return
	}
	events.Overlay.Stale(m.session.id, len(m.session.panels))
	for _, p := range m.session.panels {
		m.wm.DestroyPanel(p.id)
	}
	m.session.selection.Disarm()
	m.session = nil
}

// Close hides and destroys every panel and removes the navigation observer.
// Closing while closed only makes sure the observer is gone.
func (m *Manager) Close() {
	m.mustBeOnUIContext("Close")
	m.hooks.RemoveNavigation()
	s := m.session
	if s == nil {
		return
	}
	for _, p := range s.panels {
		m.wm.SetVisible(p.id, false)
		p.visible = false
	}
	for _, p := range s.panels {
		m.wm.DestroyPanel(p.id)
	}
	s.selection.Disarm()
	m.session = nil
	events.Overlay.Close(s.id, len(s.panels))
}

// Navigate moves the selection, focuses the selected panel and animates the
// column to its new layout. It does nothing while closed or empty.
func (m *Manager) Navigate(action navigation.Action) {
	m.mustBeOnUIContext("Navigate")
	s := m.session
	if s == nil || s.Len() == 0 || !s.selection.Armed() {
		events.Nav.Ignored(action.String())
		return
	}
	s.selection.Apply(action)
	selected := s.selection.Index()
	events.Nav.Move(s.id, action.String(), selected)
	m.wm.MakeKey(s.panels[selected].id)
	m.Relayout(true)
}

// Relayout recomputes every frame for the current selection and work area.
func (m *Manager) Relayout(animate bool) {
	m.mustBeOnUIContext("Relayout")
	s := m.session
	if s == nil || s.Len() == 0 {
		return
	}
	area, ok := m.wm.WorkArea()
	if !ok || area.Empty() {
		return
	}
	selected := s.selection.Index()
	frames := m.engine.Frames(len(s.panels), selected, area)
	for i, p := range s.panels {
		m.wm.SetFrame(p.id, frames[i], animate)
		p.frame = frames[i]
	}
	events.Overlay.Relayout(s.id, selected, animate)
}
