package app

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/atomicstack/tmux-overlay-switcher/internal/input"
	"github.com/atomicstack/tmux-overlay-switcher/internal/layout"
	"github.com/atomicstack/tmux-overlay-switcher/internal/logging"
	"github.com/atomicstack/tmux-overlay-switcher/internal/logging/events"
	"github.com/atomicstack/tmux-overlay-switcher/internal/tmux"
	"github.com/atomicstack/tmux-overlay-switcher/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

// Config describes user-provided application options.
type Config struct {
	SocketPath        string
	HookSocket        string
	Gesture           string
	PreviousKeys      []string
	NextKeys          []string
	Layout            layout.Engine
	AnimationSteps    int
	AnimationInterval time.Duration
	Debounce          time.Duration
	Exclude           []string
	OpenOnStart       bool
	NoGlobal          bool
	Width             int
	Height            int
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	socketPath, err := tmux.ResolveSocketPath(cfg.SocketPath)
	if err != nil {
		return fmt.Errorf("resolve socket path: %w", err)
	}
	gesture, err := input.ParseGesture(cfg.Gesture)
	if err != nil {
		return err
	}
	if err := gesture.Deliverable(); err != nil {
		return err
	}
	hooks, err := input.NewManager(input.Options{
		Gesture:      gesture,
		PreviousKeys: cfg.PreviousKeys,
		NextKeys:     cfg.NextKeys,
		Debounce:     cfg.Debounce,
	}, nil)
	if err != nil {
		return err
	}
	defer hooks.Stop()

	self := tmux.CurrentPane()
	model, err := ui.NewModel(ui.Options{
		Hooks:             hooks,
		Enumerator:        newPaneEnumerator(socketPath, tmux.AppFilter{SelfPane: self, Exclude: cfg.Exclude}),
		Engine:            cfg.Layout,
		Activate:          activateSelf(socketPath, self),
		AnimationSteps:    cfg.AnimationSteps,
		AnimationInterval: cfg.AnimationInterval,
		Width:             cfg.Width,
		Height:            cfg.Height,
		GlobalStatus:      startGlobal(hooks, cfg, socketPath, self),
		OpenOnStart:       cfg.OpenOnStart,
	})
	if err != nil {
		return err
	}
	defer model.Shutdown()

	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		events.App.Stop("killed")
		return nil
	}
	events.App.Stop("exit")
	return err
}

// startGlobal installs the tmux forwarding binding. A failure leaves the
// switcher usable from its own pane and is reported in the footer.
func startGlobal(hooks *input.Manager, cfg Config, socketPath, self string) string {
	if cfg.NoGlobal {
		return ""
	}
	if self == "" {
		return "global gesture off: not inside tmux"
	}
	exe, err := os.Executable()
	if err != nil {
		logging.Error(fmt.Errorf("resolve executable: %w", err))
		return "global gesture off"
	}
	hookSocket := cfg.HookSocket
	if hookSocket == "" {
		hookSocket = input.DefaultSocketPath()
	}
	binder := tmux.KeyBinder{
		SocketPath: socketPath,
		SelfPane:   self,
		Executable: exe,
		HookSocket: hookSocket,
	}
	if err := hooks.StartGlobal(input.GlobalConfig{SocketPath: hookSocket, Binder: binder}); err != nil {
		return "global gesture off"
	}
	return ""
}

// activateSelf focuses the switcher's pane so arrow keys reach it while the
// overlay is open.
func activateSelf(socketPath, self string) func() error {
	if self == "" {
		return nil
	}
	return func() error {
		return tmux.SelectPane(socketPath, tmux.CurrentClientID(socketPath), self)
	}
}
