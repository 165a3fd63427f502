package app

import (
	"github.com/atomicstack/tmux-overlay-switcher/internal/icons"
	"github.com/atomicstack/tmux-overlay-switcher/internal/overlay"
	"github.com/atomicstack/tmux-overlay-switcher/internal/tmux"
)

var fetchApplications = tmux.FetchApplications

// paneEnumerator lists the panes running a program as overlay candidates,
// in tmux's session, window and pane order.
type paneEnumerator struct {
	socketPath string
	filter     tmux.AppFilter
}

func newPaneEnumerator(socketPath string, filter tmux.AppFilter) paneEnumerator {
	return paneEnumerator{socketPath: socketPath, filter: filter}
}

func (e paneEnumerator) ListEligibleApplications() ([]overlay.Candidate, error) {
	apps, err := fetchApplications(e.socketPath, e.filter)
	if err != nil {
		return nil, err
	}
	candidates := make([]overlay.Candidate, 0, len(apps))
	for _, a := range apps {
		candidates = append(candidates, overlay.Candidate{
			Handle: overlay.Handle{PaneID: a.PaneID, PID: a.PID, Target: a.Target},
			Name:   a.Label(),
			Icon:   icons.For(a.Command),
		})
	}
	return candidates, nil
}
