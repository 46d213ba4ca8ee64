package notify

import (
	"sync"

	"github.com/hay-kot/sooner/internal/core/logging"
)

// The bridge lets code that does not hold a *Hub raise notifications through
// whichever hub was mounted last. Prefer passing a *Hub explicitly.
var bridge struct {
	mu     sync.RWMutex
	hub    *Hub
	strict bool
}

// Mount makes h the hub used by the package-level helpers, replacing any
// previously mounted hub. The returned function unmounts h if it is still
// the mounted hub.
func Mount(h *Hub) (unmount func()) {
	bridge.mu.Lock()
	bridge.hub = h
	bridge.mu.Unlock()

	return func() {
		bridge.mu.Lock()
		defer bridge.mu.Unlock()
		if bridge.hub == h {
			bridge.hub = nil
		}
	}
}

// Mounted returns the currently mounted hub, or nil.
func Mounted() *Hub {
	bridge.mu.RLock()
	defer bridge.mu.RUnlock()
	return bridge.hub
}

// SetStrict makes package-level helpers panic when no hub is mounted instead
// of dropping the notification. Tests use it to catch missing wiring. The
// returned function restores the previous setting.
func SetStrict(v bool) (restore func()) {
	bridge.mu.Lock()
	prev := bridge.strict
	bridge.strict = v
	bridge.mu.Unlock()

	return func() {
		bridge.mu.Lock()
		bridge.strict = prev
		bridge.mu.Unlock()
	}
}

func mounted(op string, o Options) *Hub {
	bridge.mu.RLock()
	h, strict := bridge.hub, bridge.strict
	bridge.mu.RUnlock()

	if h != nil {
		return h
	}
	if strict {
		panic("notify: " + op + " called before a hub was mounted")
	}

	l := logging.Component("notify")
	l.Warn().
		Str("op", op).
		Str("title", o.Title).
		Msg("no hub mounted, dropping notification")
	return nil
}

// Toast raises a notification on the mounted hub. Without a mounted hub it
// logs a warning and returns an inert Handle.
func Toast(o Options) Handle {
	h := mounted("toast", o)
	if h == nil {
		return Handle{}
	}
	return h.Notify(o)
}

// Success raises a success notification on the mounted hub.
func Success(o Options) Handle {
	o.Variant = VariantSuccess
	return Toast(o)
}

// Error raises a destructive notification on the mounted hub.
func Error(o Options) Handle {
	o.Variant = VariantDestructive
	return Toast(o)
}

// Info raises a default notification on the mounted hub.
func Info(o Options) Handle {
	o.Variant = VariantDefault
	return Toast(o)
}

// Loading raises a loading notification on the mounted hub.
func Loading(o Options) Handle {
	h := mounted("loading", o)
	if h == nil {
		return Handle{}
	}
	return h.Loading(o)
}

// Quote raises a quote notification on the mounted hub.
func Quote(o Options) Handle {
	o.Variant = VariantQuote
	return Toast(o)
}

// Interactive raises a notification with an action control on the mounted hub.
func Interactive(o Options) Handle {
	o.Variant = VariantInteractive
	return Toast(o)
}

// DismissID closes a notification on the mounted hub. It is a no-op without one.
func DismissID(id string) {
	if h := Mounted(); h != nil {
		h.Dismiss(id)
	}
}
