package ui

import (
	"fmt"
	"sort"
	"time"

	"github.com/atomicstack/tmux-overlay-switcher/internal/layout"
	"github.com/atomicstack/tmux-overlay-switcher/internal/overlay"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	DefaultAnimationSteps    = 8
	DefaultAnimationInterval = 16 * time.Millisecond
	footerRows               = 1
)

type panelWindow struct {
	id        overlay.PanelID
	index     int
	candidate overlay.Candidate
	frame     layout.Rect
	policy    overlay.Policy
	visible   bool
}

// Desktop implements the overlay's window-manager primitives on top of the
// switcher's own terminal. Panels are composited by View; mutation only
// happens while Update is running.
type Desktop struct {
	width  int
	height int

	windows map[overlay.PanelID]*panelWindow
	order   []overlay.PanelID
	key     overlay.PanelID
	nextID  overlay.PanelID
	inLoop  bool

	steps    int
	interval time.Duration
	pending  map[overlay.PanelID]layout.Rect
	anim     *layout.Tween
	animIDs  []overlay.PanelID
	gen      int

	activate          func() error
	activationPending bool
}

type animTickMsg struct {
	gen int
}

type activationResultMsg struct {
	err error
}

func newDesktop(steps int, interval time.Duration, activate func() error) *Desktop {
	if steps < 0 {
		steps = 0
	}
	if interval <= 0 {
		interval = DefaultAnimationInterval
	}
	return &Desktop{
		windows:  map[overlay.PanelID]*panelWindow{},
		pending:  map[overlay.PanelID]layout.Rect{},
		steps:    steps,
		interval: interval,
		activate: activate,
	}
}

func (d *Desktop) enterLoop() {
	d.inLoop = true
}

func (d *Desktop) exitLoop() {
	d.inLoop = false
}

// SetSize records the terminal size.
func (d *Desktop) SetSize(width, height int) {
	d.width = width
	d.height = height
}

func (d *Desktop) OnUIContext() bool {
	return d.inLoop
}

// WorkArea is the terminal minus the footer. A terminal whose size is
// still unknown has no work area.
func (d *Desktop) WorkArea() (layout.Rect, bool) {
	h := d.height - footerRows
	if d.width <= 0 || h <= 0 {
		return layout.Rect{}, false
	}
	return layout.Rect{X: 0, Y: 0, W: d.width, H: h}, true
}

func (d *Desktop) CreatePanel(index int, c overlay.Candidate, frame layout.Rect, policy overlay.Policy) (overlay.PanelID, error) {
	if frame.Empty() {
		return 0, fmt.Errorf("panel %d: empty frame %s", index, frame)
	}
	d.nextID++
	id := d.nextID
	d.windows[id] = &panelWindow{id: id, index: index, candidate: c, frame: frame, policy: policy}
	d.order = append(d.order, id)
	return id, nil
}

func (d *Desktop) DestroyPanel(id overlay.PanelID) {
	if _, ok := d.windows[id]; !ok {
		return
	}
	delete(d.windows, id)
	delete(d.pending, id)
	d.order = removeID(d.order, id)
	if d.key == id {
		d.key = 0
	}
	if d.anim != nil {
		for _, animID := range d.animIDs {
			if animID == id {
				d.stopAnimation()
				break
			}
		}
	}
}

// SetFrame moves a panel. Animated moves are collected and started as one
// tween once the current Update finishes.
func (d *Desktop) SetFrame(id overlay.PanelID, frame layout.Rect, animate bool) {
	w, ok := d.windows[id]
	if !ok {
		return
	}
	if animate && d.steps > 0 {
		d.pending[id] = frame
		return
	}
	delete(d.pending, id)
	if d.anim != nil {
		d.stopAnimation()
	}
	w.frame = frame
}

func (d *Desktop) SetVisible(id overlay.PanelID, visible bool) {
	if w, ok := d.windows[id]; ok {
		w.visible = visible
	}
}

// MakeKey focuses a panel and raises it above its level.
func (d *Desktop) MakeKey(id overlay.PanelID) {
	if _, ok := d.windows[id]; !ok {
		return
	}
	d.key = id
	d.order = append(removeID(d.order, id), id)
}

// ActivateOwner schedules focusing the switcher's pane. The tmux call runs as
// a command after Update returns.
func (d *Desktop) ActivateOwner() error {
	if d.activate != nil {
		d.activationPending = true
	}
	return nil
}

func (d *Desktop) AnyPanelVisible() bool {
	for _, w := range d.windows {
		if w.visible {
			return true
		}
	}
	return false
}

// flush turns work recorded during Update into commands.
func (d *Desktop) flush() tea.Cmd {
	var cmds []tea.Cmd
	if len(d.pending) > 0 {
		cmds = append(cmds, d.startAnimation())
	}
	if d.activationPending {
		d.activationPending = false
		activate := d.activate
		cmds = append(cmds, func() tea.Msg {
			return activationResultMsg{err: activate()}
		})
	}
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	default:
		return tea.Batch(cmds...)
	}
}

func (d *Desktop) startAnimation() tea.Cmd {
	if d.anim != nil {
		target := d.anim.Target()
		for i, id := range d.animIDs {
			if _, retarget := d.pending[id]; retarget {
				continue
			}
			if w, ok := d.windows[id]; ok {
				w.frame = target[i]
			}
		}
	}
	ids := make([]overlay.PanelID, 0, len(d.pending))
	for id := range d.pending {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	from := make([]layout.Rect, len(ids))
	to := make([]layout.Rect, len(ids))
	for i, id := range ids {
		from[i] = d.windows[id].frame
		to[i] = d.pending[id]
	}
	d.pending = map[overlay.PanelID]layout.Rect{}
	d.anim = layout.NewTween(from, to, d.steps)
	d.animIDs = ids
	d.gen++
	return d.tick()
}

func (d *Desktop) tick() tea.Cmd {
	gen := d.gen
	return tea.Tick(d.interval, func(time.Time) tea.Msg {
		return animTickMsg{gen: gen}
	})
}

// advance applies one animation step. Ticks from a superseded animation are
// ignored.
func (d *Desktop) advance(gen int) tea.Cmd {
	if d.anim == nil || gen != d.gen {
		return nil
	}
	frames := d.anim.Advance()
	for i, id := range d.animIDs {
		if w, ok := d.windows[id]; ok {
			w.frame = frames[i]
		}
	}
	if d.anim.Done() {
		d.anim = nil
		d.animIDs = nil
		return nil
	}
	return d.tick()
}

func (d *Desktop) stopAnimation() {
	if d.anim == nil {
		return
	}
	target := d.anim.Target()
	for i, id := range d.animIDs {
		if w, ok := d.windows[id]; ok {
			w.frame = target[i]
		}
	}
	d.anim = nil
	d.animIDs = nil
	d.gen++
}

// Animating reports whether a tween is in progress.
func (d *Desktop) Animating() bool {
	return d.anim != nil
}

// stack returns visible panels bottom to top: floating panels above normal
// ones, and creation or focus order within a level.
func (d *Desktop) stack() []*panelWindow {
	out := make([]*panelWindow, 0, len(d.order))
	for _, id := range d.order {
		if w := d.windows[id]; w != nil && w.visible {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].policy.Level < out[j].policy.Level
	})
	return out
}

func (d *Desktop) panelCount() int {
	return len(d.windows)
}

func removeID(ids []overlay.PanelID, id overlay.PanelID) []overlay.PanelID {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
