package notify

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Kind distinguishes the two timers a notification can own.
type Kind uint8

const (
	// KindExpiry is the visible-duration timer; it dismisses the notification.
	KindExpiry Kind = iota + 1
	// KindCleanup runs after a dismiss and removes the closed record.
	KindCleanup
)

func (k Kind) String() string {
	switch k {
	case KindExpiry:
		return "expiry"
	case KindCleanup:
		return "cleanup"
	default:
		return "unknown"
	}
}

const idlePollInterval = time.Millisecond

type timerKey struct {
	id   string
	kind Kind
}

type timerEntry struct {
	seq      uint64
	deadline time.Time
	fired    bool
	timer    clockwork.Timer
}

// Scheduler is a registry of pending timers keyed by notification id and
// kind. It holds at most one timer per key, and a timer that was cancelled or
// replaced never runs its callback, even if it had already expired.
type Scheduler struct {
	clock clockwork.Clock

	mu      sync.Mutex
	seq     uint64
	running int
	entries map[timerKey]*timerEntry
}

// NewScheduler creates a scheduler on the given clock. A nil clock uses the
// real wall clock.
func NewScheduler(clock clockwork.Clock) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Scheduler{
		clock:   clock,
		entries: make(map[timerKey]*timerEntry),
	}
}

// Clock returns the clock timers are scheduled on.
func (s *Scheduler) Clock() clockwork.Clock {
	return s.clock
}

// Schedule runs fn after d, replacing any pending timer of the same kind for id.
func (s *Scheduler) Schedule(id string, kind Kind, d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := timerKey{id: id, kind: kind}
	s.stopLocked(key)
	s.startLocked(key, d, fn)
}

// ScheduleOnce is like Schedule but keeps an already pending timer for the
// key. It reports whether a new timer was started.
func (s *Scheduler) ScheduleOnce(id string, kind Kind, d time.Duration, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := timerKey{id: id, kind: kind}
	if e, ok := s.entries[key]; ok && !e.fired {
		return false
	}
	s.startLocked(key, d, fn)
	return true
}

// Cancel stops the pending timer of the given kind for id. It reports whether
// a timer was registered.
func (s *Scheduler) Cancel(id string, kind Kind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopLocked(timerKey{id: id, kind: kind})
}

// CancelAll stops every timer registered for id.
func (s *Scheduler) CancelAll(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked(timerKey{id: id, kind: KindExpiry})
	s.stopLocked(timerKey{id: id, kind: KindCleanup})
}

// Pending reports whether a timer of the given kind is waiting to fire for id.
func (s *Scheduler) Pending(id string, kind Kind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[timerKey{id: id, kind: kind}]
	return ok && !e.fired
}

// Deadline returns when the timer of the given kind for id is due.
func (s *Scheduler) Deadline(id string, kind Kind) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[timerKey{id: id, kind: kind}]
	if !ok || e.fired {
		return time.Time{}, false
	}
	return e.deadline, true
}

// Len returns the number of timers that have not fired yet.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.entries {
		if !e.fired {
			n++
		}
	}
	return n
}

// Stop cancels every pending timer.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.entries {
		s.stopLocked(key)
	}
}

// NextDeadline returns the earliest deadline among timers that have not fired.
func (s *Scheduler) NextDeadline() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		next  time.Time
		found bool
	)
	for _, e := range s.entries {
		if e.fired {
			continue
		}
		if !found || e.deadline.Before(next) {
			next = e.deadline
			found = true
		}
	}
	return next, found
}

// WaitIdle blocks until no timer is due at the current clock time and no
// callback is still running.
func (s *Scheduler) WaitIdle(ctx context.Context) error {
	ticker := time.NewTicker(idlePollInterval)
	defer ticker.Stop()

	for {
		if s.idle() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Advance moves a fake clock forward by d one deadline at a time, waiting for
// each batch of callbacks to settle, so timers fire in deadline order exactly
// as they would in real time.
func (s *Scheduler) Advance(ctx context.Context, fc *clockwork.FakeClock, d time.Duration) error {
	target := fc.Now().Add(d)

	for {
		if err := s.WaitIdle(ctx); err != nil {
			return err
		}
		next, ok := s.NextDeadline()
		if !ok || next.After(target) {
			break
		}
		fc.Advance(next.Sub(fc.Now()))
	}

	if rest := target.Sub(fc.Now()); rest > 0 {
		fc.Advance(rest)
	}
	return s.WaitIdle(ctx)
}

func (s *Scheduler) idle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running > 0 {
		return false
	}
	now := s.clock.Now()
	for _, e := range s.entries {
		if !e.fired && !e.deadline.After(now) {
			return false
		}
	}
	return true
}

func (s *Scheduler) startLocked(key timerKey, d time.Duration, fn func()) {
	if d <= 0 {
		d = time.Nanosecond
	}

	s.seq++
	seq := s.seq
	e := &timerEntry{
		seq:      seq,
		deadline: s.clock.Now().Add(d),
	}
	s.entries[key] = e
	e.timer = s.clock.AfterFunc(d, func() { s.fire(key, seq, fn) })
}

func (s *Scheduler) stopLocked(key timerKey) bool {
	e, ok := s.entries[key]
	if !ok {
		return false
	}
	delete(s.entries, key)
	if e.timer != nil {
		e.timer.Stop()
	}
	return true
}

func (s *Scheduler) fire(key timerKey, seq uint64, fn func()) {
	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok || e.seq != seq {
		s.mu.Unlock()
		return
	}
	e.fired = true
	s.running++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running--
		if cur, ok := s.entries[key]; ok && cur.seq == seq {
			delete(s.entries, key)
		}
		s.mu.Unlock()
	}()

	fn()
}
