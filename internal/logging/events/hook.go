package events

import (
	"time"

	"github.com/atomicstack/tmux-overlay-switcher/internal/logging"
)

type HookTracer struct{}

type HookSource string

const (
	SourceGlobal HookSource = "global"
	SourceLocal  HookSource = "local"
)

var Hook = HookTracer{}

func (HookTracer) GlobalInstalled(key, socket string) {
	logging.Trace("hook.global.installed", map[string]interface{}{"key": key, "socket": socket})
}

// GlobalUnavailable records that the global observer could not be installed.
// The overlay keeps running; only the out-of-focus toggle is lost.
func (HookTracer) GlobalUnavailable(err error) {
	if err == nil {
		return
	}
	logging.Errorf("global hook unavailable, gesture will only work while the switcher has focus: %v", err)
	logging.Trace("hook.global.unavailable", map[string]interface{}{"error": err.Error()})
}

func (HookTracer) GlobalRemoved(key string) {
	logging.Trace("hook.global.removed", map[string]interface{}{"key": key})
}

func (HookTracer) Gesture(source HookSource, key string) {
	logging.Trace("hook.gesture", map[string]interface{}{"source": string(source), "key": key})
}

func (HookTracer) Debounced(source HookSource, key string) {
	logging.Trace("hook.debounced", map[string]interface{}{"source": string(source), "key": key})
}

func (HookTracer) Malformed(line string, err error) {
	logging.Trace("hook.malformed", map[string]interface{}{"line": line, "error": err.Error()})
}

func (HookTracer) NavigationInstalled() {
	logging.Trace("hook.navigation.installed", nil)
}

func (HookTracer) NavigationDuplicate() {
	logging.Trace("hook.navigation.duplicate", nil)
}

func (HookTracer) NavigationRemoved() {
	logging.Trace("hook.navigation.removed", nil)
}

func (HookTracer) PassThrough(key string) {
	logging.Trace("hook.passthrough", map[string]interface{}{"key": key})
}

func (HookTracer) NavigationFailed(err error) {
	logging.Errorf("navigation observer: %v", err)
	logging.Trace("hook.navigation.failed", map[string]interface{}{"error": err.Error()})
}

func (HookTracer) AcceptFailed(err error, retry time.Duration) {
	logging.Errorf("global hook accept: %v (retrying in %s)", err, retry)
	logging.Trace("hook.global.accept_failed", map[string]interface{}{"error": err.Error(), "retry": retry.String()})
}
