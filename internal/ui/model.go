package ui

import (
	"errors"
	"reflect"
	"time"

	"github.com/atomicstack/tmux-overlay-switcher/internal/input"
	"github.com/atomicstack/tmux-overlay-switcher/internal/layout"
	"github.com/atomicstack/tmux-overlay-switcher/internal/logging"
	"github.com/atomicstack/tmux-overlay-switcher/internal/overlay"
	"github.com/atomicstack/tmux-overlay-switcher/internal/theme"
	"github.com/atomicstack/tmux-overlay-switcher/internal/ui/command"
	tea "github.com/charmbracelet/bubbletea"
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Options configures the UI model.
type Options struct {
	Hooks      *input.Manager
	Enumerator overlay.Enumerator
	Engine     layout.Engine
	Policy     *overlay.Policy
	Presenter  overlay.Presenter
	// Activate focuses the switcher's own pane when the overlay opens.
	Activate          func() error
	AnimationSteps    int
	AnimationInterval time.Duration
	Width             int
	Height            int
	// GlobalStatus is shown in the footer, typically why the global observer
	// is unavailable.
	GlobalStatus string
	OpenOnStart  bool
}

// Model implements the Bubble Tea model hosting the overlay.
type Model struct {
	width        int
	height       int
	desktop      *Desktop
	overlay      *overlay.Manager
	hooks        *input.Manager
	bus          *command.Bus
	presenter    overlay.Presenter
	errMsg       string
	globalStatus string
	openOnStart  bool
	// retryOpen re-posts a toggle that arrived before the terminal size
	// was known.
	retryOpen bool

	handlers map[reflect.Type]msgHandler
}

// NewModel wires the overlay manager to a terminal desktop.
func NewModel(opts Options) (*Model, error) {
	hooks := opts.Hooks
	if hooks == nil {
		var err error
		hooks, err = input.NewManager(input.Options{}, nil)
		if err != nil {
			return nil, err
		}
	}
	if opts.Enumerator == nil {
		return nil, errors.New("ui: enumerator required")
	}
	presenter := opts.Presenter
	if presenter == nil {
		presenter = NewCardPresenter()
	}
	desktop := newDesktop(opts.AnimationSteps, opts.AnimationInterval, opts.Activate)
	m := &Model{
		desktop:      desktop,
		overlay:      overlay.NewManager(opts.Enumerator, desktop, hooks, overlay.Options{Engine: opts.Engine, Policy: opts.Policy}),
		hooks:        hooks,
		bus:          command.New(hooks.Queue()),
		presenter:    presenter,
		globalStatus: opts.GlobalStatus,
		openOnStart:  opts.OpenOnStart,
	}
	if opts.Width > 0 && opts.Height > 0 {
		m.width = opts.Width
		m.height = opts.Height
		desktop.SetSize(opts.Width, opts.Height)
	}
	m.registerHandlers()
	return m, nil
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	if m.openOnStart {
		m.hooks.Queue().Post(input.Toggle())
	}
	return m.bus.Next()
}

// Update responds to Bubble Tea messages. It is the only place overlay
// state changes.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.desktop.enterLoop()
	defer m.desktop.exitLoop()

	cmds := make([]tea.Cmd, 0, 3)
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if cmd := m.desktop.flush(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):          m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}):   m.handleWindowSizeMsg,
		reflect.TypeOf(command.Msg{}):         m.handleCommandMsg,
		reflect.TypeOf(command.DoneMsg{}):     m.handleCommandDoneMsg,
		reflect.TypeOf(animTickMsg{}):         m.handleAnimTickMsg,
		reflect.TypeOf(activationResultMsg{}): m.handleActivationResultMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	default:
		return tea.Batch(cmds...)
	}
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	m.width = size.Width
	m.height = size.Height
	m.desktop.SetSize(size.Width, size.Height)
	m.overlay.Relayout(false)
	if m.retryOpen {
		m.retryOpen = false
		m.hooks.Queue().Post(input.Toggle())
	}
	return nil
}

func (m *Model) handleAnimTickMsg(msg tea.Msg) tea.Cmd {
	tick, ok := msg.(animTickMsg)
	if !ok {
		return nil
	}
	return m.desktop.advance(tick.gen)
}

func (m *Model) handleActivationResultMsg(msg tea.Msg) tea.Cmd {
	result, ok := msg.(activationResultMsg)
	if !ok {
		return nil
	}
	if result.err != nil {
		logging.Errorf("activate switcher pane: %v", result.err)
	}
	return nil
}

// Overlay exposes the overlay manager for inspection.
func (m *Model) Overlay() *overlay.Manager {
	return m.overlay
}

// Desktop exposes the window-manager state for inspection.
func (m *Model) Desktop() *Desktop {
	return m.desktop
}

// Shutdown releases the command bus so a pending wait returns.
func (m *Model) Shutdown() {
	m.bus.Close()
}
