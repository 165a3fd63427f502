package overlay

import (
	"errors"
	"fmt"
	"testing"

	"github.com/atomicstack/tmux-overlay-switcher/internal/layout"
	"github.com/atomicstack/tmux-overlay-switcher/internal/navigation"
)

type fakePanel struct {
	index     int
	candidate Candidate
	frame     layout.Rect
	animated  bool
	visible   bool
	policy    Policy
}

type fakeWM struct {
	offUI     bool
	area      layout.Rect
	noArea    bool
	createErr error
	failAt    int

	nextID     PanelID
	panels     map[PanelID]*fakePanel
	created    int
	destroyed  int
	key        PanelID
	keyHistory []PanelID
	activated  int
}

func newFakeWM() *fakeWM {
	return &fakeWM{
		area:   layout.Rect{X: 0, Y: 0, W: 100, H: 40},
		panels: map[PanelID]*fakePanel{},
		failAt: -1,
	}
}

func (w *fakeWM) OnUIContext() bool { return !w.offUI }

func (w *fakeWM) WorkArea() (layout.Rect, bool) { return w.area, !w.noArea }

func (w *fakeWM) CreatePanel(index int, c Candidate, frame layout.Rect, policy Policy) (PanelID, error) {
	if w.createErr != nil && index == w.failAt {
		return 0, w.createErr
	}
	w.nextID++
	w.created++
	w.panels[w.nextID] = &fakePanel{index: index, candidate: c, frame: frame, policy: policy}
	return w.nextID, nil
}

func (w *fakeWM) DestroyPanel(id PanelID) {
	if _, ok := w.panels[id]; ok {
		delete(w.panels, id)
		w.destroyed++
	}
}

func (w *fakeWM) SetFrame(id PanelID, frame layout.Rect, animate bool) {
	if p, ok := w.panels[id]; ok {
		p.frame = frame
		p.animated = animate
	}
}

func (w *fakeWM) SetVisible(id PanelID, visible bool) {
	if p, ok := w.panels[id]; ok {
		p.visible = visible
	}
}

func (w *fakeWM) MakeKey(id PanelID) {
	w.key = id
	w.keyHistory = append(w.keyHistory, id)
}

func (w *fakeWM) ActivateOwner() error {
	w.activated++
	return nil
}

func (w *fakeWM) AnyPanelVisible() bool {
	for _, p := range w.panels {
		if p.visible {
			return true
		}
	}
	return false
}

func (w *fakeWM) byIndex(i int) *fakePanel {
	for _, p := range w.panels {
		if p.index == i {
			return p
		}
	}
	return nil
}

type fakeHooks struct {
	installed bool
	installs  int
	removes   int
}

func (h *fakeHooks) InstallNavigation() error {
	if !h.installed {
		h.installs++
	}
	h.installed = true
	return nil
}

func (h *fakeHooks) RemoveNavigation() {
	if h.installed {
		h.removes++
	}
	h.installed = false
}

func candidates(n int) []Candidate {
	out := make([]Candidate, n)
	for i := range out {
		out[i] = Candidate{
			Handle: Handle{PaneID: fmt.Sprintf("%%%d", i+1), PID: 100 + i},
			Name:   fmt.Sprintf("app-%d", i),
		}
	}
	return out
}

func newTestManager(n int) (*Manager, *fakeWM, *fakeHooks) {
	wm := newFakeWM()
	hooks := &fakeHooks{}
	list := candidates(n)
	enum := EnumeratorFunc(func() ([]Candidate, error) { return list, nil })
	return NewManager(enum, wm, hooks, Options{}), wm, hooks
}

func expectPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s: expected panic", name)
		}
	}()
	fn()
}

func TestOpenThreeCandidates(t *testing.T) {
	m, wm, hooks := newTestManager(3)
	if err := m.Toggle(); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	s := m.Session()
	if s == nil {
		t.Fatalf("expected an open session")
	}
	if s.ID() == "" || s.Len() != 3 || s.SelectedIndex() != 0 {
		t.Fatalf("unexpected session id=%q len=%d selected=%d", s.ID(), s.Len(), s.SelectedIndex())
	}
	if !s.NavigationArmed() || !hooks.installed {
		t.Fatalf("expected navigation observer armed")
	}
	if wm.activated != 1 {
		t.Fatalf("expected owner activated once, got %d", wm.activated)
	}

	first := wm.byIndex(0)
	if first == nil {
		t.Fatalf("missing panel 0")
	}
	want := []layout.Rect{
		{X: 32, Y: 11, W: 36, H: 7},
		{X: 34, Y: 19, W: 32, H: 5},
		{X: 34, Y: 25, W: 32, H: 5},
	}
	for i, w := range want {
		if got := wm.byIndex(i).frame; got != w {
			t.Fatalf("panel %d frame %s, want %s", i, got, w)
		}
	}
	if wm.key != s.Panels()[0].ID() {
		t.Fatalf("first panel should be key, got %d", wm.key)
	}

	for id, p := range wm.panels {
		if !p.visible {
			t.Fatalf("panel %d not visible", id)
		}
		if p.policy != DefaultPolicy() {
			t.Fatalf("panel %d policy %+v", id, p.policy)
		}
		if p.policy.Opaque || p.policy.Level != LevelFloating || p.policy.ReleasedWhenClosed {
			t.Fatalf("panel %d has wrong window policy %+v", id, p.policy)
		}
	}
	for i, p := range s.Panels() {
		if p.Index() != i || p.Candidate().Name != fmt.Sprintf("app-%d", i) || !p.Visible() {
			t.Fatalf("panel %d: index=%d name=%q visible=%v", i, p.Index(), p.Candidate().Name, p.Visible())
		}
	}
}

func TestSelectPreviousWrapsAndAnimates(t *testing.T) {
	m, wm, _ := newTestManager(3)
	if err := m.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}

	m.Navigate(navigation.SelectPrevious)

	s := m.Session()
	if s.SelectedIndex() != 2 {
		t.Fatalf("expected wrap to 2, got %d", s.SelectedIndex())
	}
	last := wm.byIndex(2)
	if (layout.Size{W: last.frame.W, H: last.frame.H}) != layout.DefaultSelected || !last.animated {
		t.Fatalf("last panel should grow with animation, got %s animated=%v", last.frame, last.animated)
	}
	first := wm.byIndex(0)
	if (layout.Size{W: first.frame.W, H: first.frame.H}) != layout.DefaultBaseline {
		t.Fatalf("first panel should shrink, got %s", first.frame)
	}
	if wm.key != s.Panels()[2].ID() {
		t.Fatalf("selected panel should be key, got %d", wm.key)
	}

	selected, ok := s.Selected()
	if !ok || selected.Index() != 2 || selected.Frame() != last.frame {
		t.Fatalf("Selected = %+v ok=%v", selected, ok)
	}
}

func TestOpenWithNoCandidates(t *testing.T) {
	m, wm, hooks := newTestManager(0)
	if err := m.Toggle(); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	if wm.created != 0 || !m.IsOpen() || m.Session().Len() != 0 || !hooks.installed {
		t.Fatalf("empty overlay: created=%d open=%v armed=%v", wm.created, m.IsOpen(), hooks.installed)
	}

	m.Navigate(navigation.SelectNext)
	m.Navigate(navigation.SelectPrevious)
	if m.Session().SelectedIndex() != 0 {
		t.Fatalf("selection moved in empty overlay: %d", m.Session().SelectedIndex())
	}
	if _, ok := m.Session().Selected(); ok {
		t.Fatalf("empty overlay has no selected panel")
	}

	if err := m.Toggle(); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if m.IsOpen() || hooks.installed {
		t.Fatalf("gesture should dismiss an empty overlay")
	}
}

func TestOpenTwiceReplacesPanels(t *testing.T) {
	m, wm, hooks := newTestManager(3)
	if err := m.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	firstID := m.Session().ID()
	if err := m.Open(); err != nil {
		t.Fatalf("second Open: %v", err)
	}

	if len(wm.panels) != 3 || wm.created != 6 || wm.destroyed != 3 {
		t.Fatalf("old panels should be destroyed first: live=%d created=%d destroyed=%d", len(wm.panels), wm.created, wm.destroyed)
	}
	if m.Session().Len() != 3 || m.Session().ID() == firstID {
		t.Fatalf("expected a fresh session of 3, got %q len=%d", m.Session().ID(), m.Session().Len())
	}
	if !hooks.installed || hooks.removes != 1 {
		t.Fatalf("navigation should be re-armed: installed=%v removes=%d", hooks.installed, hooks.removes)
	}
}

func TestToggleClosesAndRemovesNavigation(t *testing.T) {
	m, wm, hooks := newTestManager(2)
	for i := 0; i < 2; i++ {
		if err := m.Toggle(); err != nil {
			t.Fatalf("Toggle: %v", err)
		}
	}

	if m.IsOpen() || m.Session() != nil || len(wm.panels) != 0 || wm.destroyed != 2 {
		t.Fatalf("close left state behind: open=%v live=%d destroyed=%d", m.IsOpen(), len(wm.panels), wm.destroyed)
	}
	if hooks.installed || m.Session().NavigationArmed() {
		t.Fatalf("navigation observer should be removed")
	}

	if err := m.Toggle(); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if len(wm.panels) != 2 || hooks.installs != 2 {
		t.Fatalf("reopen should start clean: live=%d installs=%d", len(wm.panels), hooks.installs)
	}
}

func TestCloseWhileClosedIsNoOp(t *testing.T) {
	m, wm, hooks := newTestManager(2)
	m.Close()
	m.Close()
	if wm.destroyed != 0 || hooks.removes != 0 {
		t.Fatalf("close while closed touched state: destroyed=%d removes=%d", wm.destroyed, hooks.removes)
	}
}

func TestNavigateWhileClosedIsIgnored(t *testing.T) {
	m, wm, _ := newTestManager(3)
	m.Navigate(navigation.SelectNext)
	if len(wm.keyHistory) != 0 || m.Session() != nil {
		t.Fatalf("navigate while closed changed state: %v", wm.keyHistory)
	}
}

func TestFullCycleReturnsToStart(t *testing.T) {
	m, _, _ := newTestManager(4)
	if err := m.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	for i := 0; i < 4; i++ {
		m.Navigate(navigation.SelectNext)
	}
	if got := m.Session().SelectedIndex(); got != 0 {
		t.Fatalf("expected full cycle to return to 0, got %d", got)
	}
}

func TestOpenAbortsWithoutScreen(t *testing.T) {
	m, wm, hooks := newTestManager(3)
	wm.noArea = true
	if err := m.Open(); !errors.Is(err, ErrNoScreen) {
		t.Fatalf("expected ErrNoScreen, got %v", err)
	}
	if wm.created != 0 || m.IsOpen() || hooks.installed {
		t.Fatalf("aborted open left state behind")
	}
}

func TestOpenAbortsOnEnumerationError(t *testing.T) {
	wm := newFakeWM()
	hooks := &fakeHooks{}
	enum := EnumeratorFunc(func() ([]Candidate, error) { return nil, errors.New("no server") })
	m := NewManager(enum, wm, hooks, Options{})
	if err := m.Toggle(); err == nil {
		t.Fatalf("expected enumeration error")
	}
	if wm.created != 0 || m.IsOpen() {
		t.Fatalf("failed enumeration should not open the overlay")
	}
}

func TestOpenRollsBackWhenPanelCreationFails(t *testing.T) {
	m, wm, hooks := newTestManager(3)
	wm.createErr = errors.New("out of handles")
	wm.failAt = 2
	if err := m.Open(); err == nil {
		t.Fatalf("expected panel creation error")
	}
	if len(wm.panels) != 0 || wm.destroyed != 2 || m.IsOpen() || hooks.installed {
		t.Fatalf("partial open not rolled back: live=%d destroyed=%d", len(wm.panels), wm.destroyed)
	}
}

func TestOffUIContextPanics(t *testing.T) {
	m, wm, _ := newTestManager(1)
	wm.offUI = true
	expectPanic(t, "Toggle", func() { _ = m.Toggle() })
	expectPanic(t, "Navigate", func() { m.Navigate(navigation.SelectNext) })
	if wm.created != 0 {
		t.Fatalf("no panels should be created off the UI context")
	}
}

func TestRelayoutFollowsWorkArea(t *testing.T) {
	m, wm, _ := newTestManager(2)
	if err := m.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	wm.area = layout.Rect{X: 0, Y: 0, W: 60, H: 20}
	m.Relayout(false)

	for i, p := range m.Session().Panels() {
		fp := wm.byIndex(i)
		if fp.frame != p.Frame() || fp.animated {
			t.Fatalf("panel %d: wm frame %s, session frame %s, animated=%v", i, fp.frame, p.Frame(), fp.animated)
		}
		if mid := fp.frame.X + fp.frame.W/2; mid != 30 {
			t.Fatalf("panel %d centred at %d, want 30", i, mid)
		}
	}
}

func TestCustomEngineAndPolicy(t *testing.T) {
	wm := newFakeWM()
	hooks := &fakeHooks{}
	policy := DefaultPolicy()
	policy.Shadow = false
	engine := layout.Engine{Baseline: layout.Size{W: 10, H: 3}, Selected: layout.Size{W: 12, H: 4}, Spacing: 0}
	m := NewManager(EnumeratorFunc(func() ([]Candidate, error) { return candidates(2), nil }), wm, hooks, Options{Engine: engine, Policy: &policy})
	if err := m.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if m.Engine() != engine {
		t.Fatalf("Engine = %+v", m.Engine())
	}
	if got := wm.byIndex(0).frame; got != (layout.Rect{X: 44, Y: 17, W: 12, H: 4}) {
		t.Fatalf("panel 0 frame %s", got)
	}
	if got := wm.byIndex(1).frame; got != (layout.Rect{X: 45, Y: 21, W: 10, H: 3}) {
		t.Fatalf("panel 1 frame %s", got)
	}
	if wm.byIndex(0).policy.Shadow {
		t.Fatalf("custom policy not applied")
	}
}
