package input

import (
	"github.com/atomicstack/tmux-overlay-switcher/internal/logging/events"
	"github.com/atomicstack/tmux-overlay-switcher/internal/navigation"
)

// CommandKind identifies a request for the UI loop.
type CommandKind int

const (
	CommandToggle CommandKind = iota
	CommandNavigate
)

// Command is the only thing observers hand to the UI loop.
type Command struct {
	Kind   CommandKind
	Action navigation.Action
}

// Toggle requests an open/close of the overlay.
func Toggle() Command {
	return Command{Kind: CommandToggle}
}

// Navigate requests a selection move.
func Navigate(a navigation.Action) Command {
	return Command{Kind: CommandNavigate, Action: a}
}

func (c Command) String() string {
	if c.Kind == CommandNavigate {
		return "navigate:" + c.Action.String()
	}
	return "toggle"
}

const DefaultQueueSize = 4

// Queue is the bounded hand-off between observers and the UI loop. Posting
// never blocks; commands beyond capacity are dropped.
type Queue struct {
	ch chan Command
}

// NewQueue creates a queue holding at most size pending commands.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = 1
	}
	return &Queue{ch: make(chan Command, size)}
}

// Post enqueues c and reports whether it was accepted.
func (q *Queue) Post(c Command) bool {
	select {
	case q.ch <- c:
		events.Command.Queue(c.String())
		return true
	default:
		events.Command.Dropped(c.String())
		return false
	}
}

// C exposes the receive side for the UI loop.
func (q *Queue) C() <-chan Command {
	return q.ch
}

// Len returns the number of pending commands.
func (q *Queue) Len() int {
	return len(q.ch)
}
