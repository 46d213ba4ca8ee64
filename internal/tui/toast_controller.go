package tui

import (
	"github.com/hay-kot/sooner/internal/core/notify"
)

const (
	defaultToastWidth = 50
	maxVisibleToasts  = 5
)

// ToastController keeps the presentation's copy of the open notifications
// and forwards user dismissals to the hub. The hub owns every lifecycle
// decision; the controller only mirrors its snapshots.
type ToastController struct {
	hub     *notify.Hub
	toasts  []notify.Notification
	ticking bool
}

func NewToastController(hub *notify.Hub) *ToastController {
	return &ToastController{hub: hub}
}

// Sync replaces the visible list with the open notifications in snap,
// newest first. Closed notifications waiting for cleanup are not shown.
func (c *ToastController) Sync(snap []notify.Notification) {
	open := make([]notify.Notification, 0, len(snap))
	for _, n := range snap {
		if n.Open {
			open = append(open, n)
		}
		if len(open) == maxVisibleToasts {
			break
		}
	}
	c.toasts = open
}

// HasToasts returns true if there are any visible toasts.
func (c *ToastController) HasToasts() bool {
	return len(c.toasts) > 0
}

// HasLoading reports whether a loading toast is visible.
func (c *ToastController) HasLoading() bool {
	for _, n := range c.toasts {
		if n.Variant == notify.VariantLoading {
			return true
		}
	}
	return false
}

// Toasts returns the visible toasts, newest first.
func (c *ToastController) Toasts() []notify.Notification {
	return c.toasts
}

// Dismiss closes the newest visible toast.
func (c *ToastController) Dismiss() {
	if len(c.toasts) > 0 {
		c.hub.Dismiss(c.toasts[0].ID)
	}
}

// DismissAll closes every toast.
func (c *ToastController) DismissAll() {
	c.hub.DismissAll()
}

// InvokeAction runs the action of the newest visible toast that carries
// one, then dismisses that toast. It reports whether an action ran.
func (c *ToastController) InvokeAction() bool {
	for _, n := range c.toasts {
		if n.Action == nil {
			continue
		}
		n.Action.Invoke()
		c.hub.Dismiss(n.ID)
		return true
	}
	return false
}

// Ticking returns whether the spinner tick loop is running.
func (c *ToastController) Ticking() bool {
	return c.ticking
}

// SetTicking sets the spinner tick loop state.
func (c *ToastController) SetTicking(v bool) {
	c.ticking = v
}
