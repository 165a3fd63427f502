package ui

import tea "github.com/charmbracelet/bubbletea"

// Harness drives the UI model programmatically for tests. Queued commands
// are drained synchronously after each message instead of through a
// blocking wait.
type Harness struct {
	model *Model
}

// NewHarness creates a harness for the provided model.
func NewHarness(model *Model) *Harness {
	if model != nil {
		model.bus.SetManual(true)
	}
	return &Harness{model: model}
}

// Init runs the model's Init command.
func (h *Harness) Init() {
	if h.model == nil {
		return
	}
	h.processCmd(h.model.Init())
	h.pump()
}

// Send routes a message through the model, executes any returned commands
// and then delivers queued commands one at a time.
func (h *Harness) Send(msg tea.Msg) {
	if h.model == nil {
		return
	}
	h.update(msg)
	h.pump()
}

func (h *Harness) update(msg tea.Msg) {
	mdl, cmd := h.model.Update(msg)
	if updated, ok := mdl.(*Model); ok {
		h.model = updated
	}
	h.processCmd(cmd)
}

func (h *Harness) pump() {
	for {
		msg, ok := h.model.bus.Poll()
		if !ok {
			return
		}
		h.update(msg)
	}
}

func (h *Harness) processCmd(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	switch msg := msg.(type) {
	case nil:
		return
	case tea.BatchMsg:
		for _, c := range msg {
			h.processCmd(c)
		}
	case tea.QuitMsg:
		return
	default:
		h.update(msg)
	}
}

// View returns the current view string.
func (h *Harness) View() string {
	if h.model == nil {
		return ""
	}
	return h.model.View()
}

// Model exposes the underlying model.
func (h *Harness) Model() *Model {
	return h.model
}
