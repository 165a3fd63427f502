package events

import "github.com/atomicstack/tmux-overlay-switcher/internal/logging"

type OverlayTracer struct{}

type NavTracer struct{}

type abortReason string

const (
	AbortNoScreen    abortReason = "no-screen"
	AbortEnumeration abortReason = "enumeration"
	AbortCreate      abortReason = "create-panel"
)

var (
	Overlay = OverlayTracer{}
	Nav     = NavTracer{}
)

func (OverlayTracer) Open(session string, panels int) {
	logging.Trace("overlay.open", map[string]interface{}{"session": session, "panels": panels})
}

func (OverlayTracer) OpenAborted(reason abortReason, err error) {
	payload := map[string]interface{}{"reason": string(reason)}
	if err != nil {
		payload["error"] = err.Error()
		logging.Errorf("overlay open aborted (%s): %v", reason, err)
	}
	logging.Trace("overlay.open.aborted", payload)
}

func (OverlayTracer) Stale(session string, panels int) {
	logging.Trace("overlay.stale", map[string]interface{}{"session": session, "panels": panels})
}

func (OverlayTracer) Close(session string, panels int) {
	logging.Trace("overlay.close", map[string]interface{}{"session": session, "panels": panels})
}

func (OverlayTracer) Relayout(session string, selected int, animate bool) {
	logging.Trace("overlay.relayout", map[string]interface{}{"session": session, "selected": selected, "animate": animate})
}

func (NavTracer) Move(session, action string, selected int) {
	logging.Trace("nav.move", map[string]interface{}{"session": session, "action": action, "selected": selected})
}

func (NavTracer) Ignored(action string) {
	logging.Trace("nav.ignored", map[string]interface{}{"action": action})
}
