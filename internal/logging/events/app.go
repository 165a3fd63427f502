package events

import "github.com/atomicstack/tmux-overlay-switcher/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Stop(reason string) {
	logging.Trace("app.stop", map[string]interface{}{"reason": reason})
}

func (AppTracer) Activate(pane string, err error) {
	payload := map[string]interface{}{"pane": pane}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("app.activate", payload)
}
