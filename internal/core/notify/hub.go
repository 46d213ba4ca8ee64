package notify

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/hay-kot/sooner/internal/core/logging"
)

const (
	// DefaultDuration is how long a notification stays open when the caller
	// does not choose a duration.
	DefaultDuration = Duration(5 * time.Second)
	// DefaultCleanupDelay is how long a dismissed notification lingers before
	// it is removed from the store.
	DefaultCleanupDelay = Duration(1_000_000 * time.Millisecond)
)

// Subscriber receives a copy of the notification list after every transition.
type Subscriber func([]Notification)

// Option configures a Hub.
type Option func(*Hub)

// WithClock sets the clock used for expiry and cleanup timers.
func WithClock(c clockwork.Clock) Option {
	return func(h *Hub) { h.clock = c }
}

// WithCapacity sets how many notifications are retained at once.
func WithCapacity(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.state.Limit = n
		}
	}
}

// WithDefaultDuration sets the lifetime used when Options.Duration is zero.
// Loading notifications default to Infinite instead.
func WithDefaultDuration(d Duration) Option {
	return func(h *Hub) {
		if d != 0 {
			h.defaultDuration = d
		}
	}
}

// WithCleanupDelay sets how long dismissed notifications are kept before removal.
func WithCleanupDelay(d Duration) Option {
	return func(h *Hub) {
		if d.IsFinite() {
			h.cleanupDelay = d
		}
	}
}

// WithLogger sets the logger used for transition diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(h *Hub) { h.log = l }
}

// Hub owns the notification store, its timers, and its subscribers. It is the
// single writer for its state; all methods are safe for concurrent use.
type Hub struct {
	mu      sync.Mutex
	state   State
	subs    map[uint64]Subscriber
	nextSub uint64

	// outbox holds snapshots not yet delivered, oldest first. Only the
	// goroutine that set delivering sends them.
	outbox     [][]Notification
	delivering bool

	counter atomic.Uint64

	clock           clockwork.Clock
	timers          *Scheduler
	defaultDuration Duration
	cleanupDelay    Duration
	log             zerolog.Logger
}

// NewHub creates a hub with capacity DefaultCapacity, DefaultDuration and
// DefaultCleanupDelay unless overridden by opts.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		state:           State{Limit: DefaultCapacity},
		subs:            make(map[uint64]Subscriber),
		defaultDuration: DefaultDuration,
		cleanupDelay:    DefaultCleanupDelay,
		log:             logging.Component("notify"),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.clock == nil {
		h.clock = clockwork.NewRealClock()
	}
	h.timers = NewScheduler(h.clock)
	return h
}

// Capacity returns the maximum number of retained notifications.
func (h *Hub) Capacity() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state.Limit
}

// DefaultDuration returns the lifetime applied when none is given.
func (h *Hub) DefaultDuration() Duration {
	return h.defaultDuration
}

// Timers exposes the hub's scheduler, mainly for driving fake clocks.
func (h *Hub) Timers() *Scheduler {
	return h.timers
}

// Subscribe registers fn to be called with a snapshot after every transition.
// The returned function unregisters it.
func (h *Hub) Subscribe(fn Subscriber) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextSub++
	id := h.nextSub
	h.subs[id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

// Snapshot returns a copy of the current notifications, newest first.
func (h *Hub) Snapshot() []Notification {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshotLocked()
}

// Visible returns the notifications that are still open.
func (h *Hub) Visible() []Notification {
	all := h.Snapshot()
	open := all[:0]
	for _, n := range all {
		if n.Open {
			open = append(open, n)
		}
	}
	return open
}

// Get returns the notification with the given id.
func (h *Hub) Get(id string) (Notification, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state.Find(id)
}

// Dispatch applies e to the store, runs its timer side effects, and notifies
// subscribers. Subscribers see snapshots in the order the transitions were
// applied. When a subscriber dispatches, or another goroutine is already
// delivering, the new snapshot is queued behind the current one and sent by
// that delivery loop before it returns.
func (h *Hub) Dispatch(e Event) {
	h.mu.Lock()
	prev := h.state
	h.state = Apply(prev, e)
	h.effectsLocked(prev, e)
	h.outbox = append(h.outbox, h.snapshotLocked())
	if h.delivering {
		h.mu.Unlock()
		return
	}
	h.delivering = true

	for len(h.outbox) > 0 {
		snap := h.outbox[0]
		h.outbox[0] = nil
		h.outbox = h.outbox[1:]
		subs := make([]Subscriber, 0, len(h.subs))
		for _, fn := range h.subs {
			subs = append(subs, fn)
		}
		h.mu.Unlock()

		for _, fn := range subs {
			fn(snap)
		}

		h.mu.Lock()
	}

	h.outbox = nil
	h.delivering = false
	h.mu.Unlock()
}

// Notify raises a new notification and returns a handle to it.
func (h *Hub) Notify(o Options) Handle {
	n := Notification{
		ID:          h.nextID(),
		Title:       o.Title,
		Description: o.Description,
		Variant:     o.Variant,
		Duration:    o.Duration,
		Action:      o.Action,
		Open:        true,
		CreatedAt:   h.clock.Now(),
	}
	if n.Variant == "" {
		n.Variant = VariantDefault
	}
	if n.Duration == 0 {
		n.Duration = h.defaultDuration
		if n.Variant == VariantLoading {
			n.Duration = Infinite
		}
	}

	h.Dispatch(Add{Notification: n})
	return Handle{ID: n.ID, hub: h}
}

// Update merges p into the notification with the given id. A finite duration
// in p restarts the auto-dismiss countdown from now; Infinite stops it.
func (h *Hub) Update(id string, p Patch) {
	h.Dispatch(Update{ID: id, Patch: p})
}

// Dismiss closes the notification with the given id and schedules its removal.
func (h *Hub) Dismiss(id string) {
	if id == "" {
		return
	}
	h.Dispatch(Dismiss{ID: id})
}

// DismissAll closes every notification.
func (h *Hub) DismissAll() {
	h.Dispatch(Dismiss{})
}

// Remove deletes the notification with the given id immediately.
func (h *Hub) Remove(id string) {
	if id == "" {
		return
	}
	h.Dispatch(Remove{ID: id})
}

// Clear deletes every notification immediately.
func (h *Hub) Clear() {
	h.Dispatch(Remove{})
}

// Close stops every pending timer. The hub stays usable, but notifications
// raised before Close no longer expire on their own.
func (h *Hub) Close() {
	h.timers.Stop()
}

// Success raises a success notification.
func (h *Hub) Success(o Options) Handle {
	o.Variant = VariantSuccess
	return h.Notify(o)
}

// Error raises a destructive notification.
func (h *Hub) Error(o Options) Handle {
	o.Variant = VariantDestructive
	return h.Notify(o)
}

// Info raises a default notification.
func (h *Hub) Info(o Options) Handle {
	o.Variant = VariantDefault
	return h.Notify(o)
}

// Loading raises a loading notification. It never expires unless o sets a
// duration; convert it with Handle.Update once the work finishes.
func (h *Hub) Loading(o Options) Handle {
	o.Variant = VariantLoading
	return h.Notify(o)
}

// Quote raises a quote notification.
func (h *Hub) Quote(o Options) Handle {
	o.Variant = VariantQuote
	return h.Notify(o)
}

// Interactive raises a notification whose action the presentation layer
// renders as a control.
func (h *Hub) Interactive(o Options) Handle {
	o.Variant = VariantInteractive
	return h.Notify(o)
}

// Successf raises a success notification with a formatted title.
func (h *Hub) Successf(format string, args ...any) Handle {
	return h.Success(Options{Title: fmt.Sprintf(format, args...)})
}

// Errorf raises a destructive notification with a formatted title.
func (h *Hub) Errorf(format string, args ...any) Handle {
	return h.Error(Options{Title: fmt.Sprintf(format, args...)})
}

// Infof raises a default notification with a formatted title.
func (h *Hub) Infof(format string, args ...any) Handle {
	return h.Info(Options{Title: fmt.Sprintf(format, args...)})
}

// Track shows a loading notification while fn runs, then converts the same
// notification in place using settle(err). A nil settle produces a success
// or destructive notification with the hub's default duration. Track returns
// fn's error.
func (h *Hub) Track(ctx context.Context, o Options, fn func(context.Context) error, settle func(error) Patch) error {
	handle := h.Loading(o)

	err := fn(ctx)

	if settle == nil {
		settle = h.defaultSettle
	}
	handle.Update(settle(err))
	return err
}

func (h *Hub) defaultSettle(err error) Patch {
	d := h.defaultDuration
	if err != nil {
		return Patch{
			Variant:     Ptr(VariantDestructive),
			Description: Ptr(err.Error()),
			Duration:    &d,
		}
	}
	return Patch{
		Variant:  Ptr(VariantSuccess),
		Duration: &d,
	}
}

func (h *Hub) nextID() string {
	return strconv.FormatUint(h.counter.Add(1), 10)
}

func (h *Hub) snapshotLocked() []Notification {
	out := make([]Notification, len(h.state.Toasts))
	copy(out, h.state.Toasts)
	return out
}

// effectsLocked starts and cancels timers so they match the transition from
// prev to the current state.
func (h *Hub) effectsLocked(prev State, e Event) {
	switch e := e.(type) {
	case Add:
		for _, n := range prev.Toasts {
			if _, ok := h.state.Find(n.ID); !ok {
				h.timers.CancelAll(n.ID)
				h.log.Debug().Str("id", n.ID).Msg("notification evicted")
			}
		}
		n := e.Notification
		if _, ok := h.state.Find(n.ID); ok && n.Open && n.Duration.IsFinite() {
			h.startExpiryLocked(n.ID, n.Duration)
		}
		h.log.Debug().
			Str("id", n.ID).
			Str("variant", string(n.Variant)).
			Stringer("duration", n.Duration).
			Msg("notification added")

	case Update:
		n, ok := h.state.Find(e.ID)
		if !ok {
			return
		}
		if d := e.Patch.Duration; d != nil && n.Open {
			switch {
			case d.IsFinite():
				h.startExpiryLocked(n.ID, *d)
			case d.IsInfinite():
				h.timers.Cancel(n.ID, KindExpiry)
			}
		}
		h.log.Debug().Str("id", e.ID).Msg("notification updated")

	case Dismiss:
		for _, n := range prev.Toasts {
			if e.ID != "" && n.ID != e.ID {
				continue
			}
			h.timers.Cancel(n.ID, KindExpiry)
			id := n.ID
			h.timers.ScheduleOnce(id, KindCleanup, h.cleanupDelay.Std(), func() { h.Remove(id) })
			h.log.Debug().Str("id", id).Msg("notification dismissed")
		}

	case Remove:
		for _, n := range prev.Toasts {
			if e.ID != "" && n.ID != e.ID {
				continue
			}
			h.timers.CancelAll(n.ID)
			h.log.Debug().Str("id", n.ID).Msg("notification removed")
		}
	}
}

func (h *Hub) startExpiryLocked(id string, d Duration) {
	h.timers.Schedule(id, KindExpiry, d.Std(), func() { h.Dismiss(id) })
}

// Handle refers to a notification raised through a Hub. The zero Handle is
// inert: its methods do nothing.
type Handle struct {
	ID  string
	hub *Hub
}

// Dismiss closes the notification.
func (h Handle) Dismiss() {
	if h.hub == nil {
		return
	}
	h.hub.Dismiss(h.ID)
}

// Update merges p into the notification.
func (h Handle) Update(p Patch) {
	if h.hub == nil {
		return
	}
	h.hub.Update(h.ID, p)
}

// Valid reports whether the handle refers to a hub notification.
func (h Handle) Valid() bool {
	return h.hub != nil && h.ID != ""
}
