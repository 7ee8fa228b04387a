package shared

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/file-tree/pkg/filetree"
)

// eventBuffer bounds how many tree events wait for the UI; scans emit a handful
// per toggle, so this only fills if nobody is listening.
const eventBuffer = 100

// TreeEventMsg wraps a filetree.Event for use as a tea.Msg.
type TreeEventMsg struct {
	Event filetree.Event
}

// EventBridge adapts tree events to bubble tea messages.
// It implements filetree.EventEmitter and provides a channel for TUI consumption.
type EventBridge struct {
	mu        sync.Mutex
	eventChan chan tea.Msg
	closed    bool
	dropped   int
}

// NewEventBridge creates a new event bridge.
func NewEventBridge() *EventBridge {
	return &EventBridge{
		eventChan: make(chan tea.Msg, eventBuffer),
	}
}

// Emit implements filetree.EventEmitter. It never blocks: when the buffer is
// full the event is counted as dropped.
func (b *EventBridge) Emit(event filetree.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	select {
	case b.eventChan <- TreeEventMsg{Event: event}:
	default:
		b.dropped++
	}
}

// Dropped reports how many events were discarded because the buffer was full.
func (b *EventBridge) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.dropped
}

// Subscribe returns the event channel for receiving events.
func (b *EventBridge) Subscribe() <-chan tea.Msg {
	return b.eventChan
}

// ListenCmd returns a tea.Cmd that blocks until an event is received.
// Return it again after handling each TreeEventMsg to keep listening.
func (b *EventBridge) ListenCmd() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-b.eventChan
		if !ok {
			return nil
		}

		return msg
	}
}

// Close closes the event channel. It is safe to call more than once.
func (b *EventBridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.closed {
		b.closed = true
		close(b.eventChan)
	}
}
