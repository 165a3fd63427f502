package command

import (
	"sync"

	"github.com/atomicstack/tmux-overlay-switcher/internal/input"
	"github.com/atomicstack/tmux-overlay-switcher/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

// Msg carries one queued command into the UI loop.
type Msg struct {
	Command input.Command
}

// DoneMsg is delivered once the bus is closed.
type DoneMsg struct{}

// Bus hands queued commands to Bubble Tea one at a time. The UI loop asks
// for the next command only after it has applied the previous one.
type Bus struct {
	queue *input.Queue

	mu     sync.Mutex
	manual bool
	done   chan struct{}
	once   sync.Once
}

// New initialises a bus reading from queue.
func New(queue *input.Queue) *Bus {
	return &Bus{queue: queue, done: make(chan struct{})}
}

// Next waits for the next command. It returns nil when the bus is driven
// manually through Poll.
func (b *Bus) Next() tea.Cmd {
	if b == nil || b.queue == nil || b.isManual() {
		return nil
	}
	return func() tea.Msg {
		select {
		case c := <-b.queue.C():
			events.Command.Deliver(c.String())
			return Msg{Command: c}
		case <-b.done:
			return DoneMsg{}
		}
	}
}

// Poll returns a pending command without blocking.
func (b *Bus) Poll() (Msg, bool) {
	if b == nil || b.queue == nil {
		return Msg{}, false
	}
	select {
	case c := <-b.queue.C():
		events.Command.Deliver(c.String())
		return Msg{Command: c}, true
	default:
		return Msg{}, false
	}
}

// SetManual stops Next from blocking so a test harness can drain the queue
// with Poll.
func (b *Bus) SetManual(manual bool) {
	b.mu.Lock()
	b.manual = manual
	b.mu.Unlock()
}

func (b *Bus) isManual() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.manual
}

// Close releases a pending Next.
func (b *Bus) Close() {
	if b == nil {
		return
	}
	b.once.Do(func() { close(b.done) })
}
