package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hay-kot/sooner/internal/core/notify"
)

type drainNotificationsMsg struct{}

// NotificationBuffer carries hub snapshots from arbitrary goroutines into the
// bubbletea loop. Snapshots supersede each other, so only the latest is kept
// and drain signals coalesce.
type NotificationBuffer struct {
	mu      sync.Mutex
	latest  []notify.Notification
	pending bool
	signal  chan struct{}
}

// NewNotificationBuffer constructs a buffer for async snapshot delivery.
func NewNotificationBuffer() *NotificationBuffer {
	return &NotificationBuffer{
		signal: make(chan struct{}, 1),
	}
}

// Push stores snap as the latest snapshot and emits a non-blocking drain
// signal. It has the notify.Subscriber signature.
func (b *NotificationBuffer) Push(snap []notify.Notification) {
	b.mu.Lock()
	b.latest = snap
	b.pending = true
	b.mu.Unlock()

	select {
	case b.signal <- struct{}{}:
	default:
	}
}

// Drain returns the latest snapshot if one arrived since the last drain.
func (b *NotificationBuffer) Drain() ([]notify.Notification, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.pending {
		return nil, false
	}
	out := b.latest
	b.latest = nil
	b.pending = false
	return out, true
}

// WaitForSignal blocks until a snapshot is ready to drain.
func (b *NotificationBuffer) WaitForSignal() tea.Cmd {
	return func() tea.Msg {
		<-b.signal
		return drainNotificationsMsg{}
	}
}
