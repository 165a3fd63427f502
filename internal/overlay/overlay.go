// Package overlay owns the switcher's on-screen panels. Manager is the
// Closed/Open state machine: it enumerates candidates, creates one panel per
// candidate through a WindowManager, lays them out and moves the selection.
// Every Manager method must be called from the UI context.
package overlay

import (
	"errors"

	"github.com/atomicstack/tmux-overlay-switcher/internal/layout"
)

var (
	// ErrNoScreen is returned by Open when there is no work area to place
	// panels on. Nothing is created.
	ErrNoScreen = errors.New("overlay: no work area available")
)

// Handle identifies the process behind a candidate.
type Handle struct {
	PaneID string
	PID    int
	Target string
}

// Candidate is one running application eligible for the switcher.
type Candidate struct {
	Handle Handle
	Name   string
	Icon   string
}

// Enumerator lists the applications the overlay should show, in a stable
// order.
type Enumerator interface {
	ListEligibleApplications() ([]Candidate, error)
}

// EnumeratorFunc adapts a plain function to Enumerator.
type EnumeratorFunc func() ([]Candidate, error)

func (f EnumeratorFunc) ListEligibleApplications() ([]Candidate, error) {
	return f()
}

// Level is the stacking level a panel is placed on.
type Level int

const (
	LevelNormal Level = iota
	LevelFloating
)

// Policy describes how the window manager treats a panel.
type Policy struct {
	Opaque              bool
	Shadow              bool
	Level               Level
	AllWorkspaces       bool
	MovableByBackground bool
	// ReleasedWhenClosed lets the window manager free a panel on hide.
	// Overlay panels are only ever released by DestroyPanel.
	ReleasedWhenClosed bool
}

// DefaultPolicy is applied to every panel the overlay creates.
func DefaultPolicy() Policy {
	return Policy{
		Opaque:              false,
		Shadow:              true,
		Level:               LevelFloating,
		AllWorkspaces:       true,
		MovableByBackground: true,
		ReleasedWhenClosed:  false,
	}
}

// PanelID is the window manager's handle for a created panel.
type PanelID int

// WindowManager is the set of primitives the overlay drives. Implementations
// are only called from the UI context.
type WindowManager interface {
	OnUIContext() bool
	WorkArea() (layout.Rect, bool)
	CreatePanel(index int, c Candidate, frame layout.Rect, policy Policy) (PanelID, error)
	DestroyPanel(id PanelID)
	SetFrame(id PanelID, frame layout.Rect, animate bool)
	SetVisible(id PanelID, visible bool)
	MakeKey(id PanelID)
	ActivateOwner() error
	AnyPanelVisible() bool
}

// NavigationHooks installs and removes the navigation observer.
type NavigationHooks interface {
	InstallNavigation() error
	RemoveNavigation()
}

// ContentArea is the read-only region a presenter draws into.
type ContentArea struct {
	Width    int
	Height   int
	Selected bool
}

// Presenter renders a candidate inside a panel. It never sees or changes
// panel geometry.
type Presenter interface {
	Render(c Candidate, area ContentArea) string
}

// Panel is one on-screen card. Its ordinal index is fixed at creation.
type Panel struct {
	id        PanelID
	index     int
	candidate Candidate
	frame     layout.Rect
	visible   bool
}

func (p Panel) ID() PanelID {
	return p.id
}

func (p Panel) Index() int {
	return p.index
}

func (p Panel) Candidate() Candidate {
	return p.candidate
}

func (p Panel) Frame() layout.Rect {
	return p.frame
}

func (p Panel) Visible() bool {
	return p.visible
}
