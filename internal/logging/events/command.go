package events

import "github.com/atomicstack/tmux-overlay-switcher/internal/logging"

type CommandTracer struct{}

var Command = CommandTracer{}

func (CommandTracer) Queue(kind string) {
	logging.Trace("command.queue", map[string]interface{}{"kind": kind})
}

func (CommandTracer) Dropped(kind string) {
	logging.Trace("command.dropped", map[string]interface{}{"kind": kind})
}

func (CommandTracer) Deliver(kind string) {
	logging.Trace("command.deliver", map[string]interface{}{"kind": kind})
}
