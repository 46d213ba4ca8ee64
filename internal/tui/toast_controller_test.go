package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/sooner/internal/core/notify"
)

func TestToastController_Sync_FiltersClosed(t *testing.T) {
	h, _ := newTestHub(t, notify.WithCapacity(3))
	c := NewToastController(h)

	a := h.Info(notify.Options{Title: "a"})
	h.Info(notify.Options{Title: "b"})
	a.Dismiss()
	c.Sync(h.Snapshot())

	require.Len(t, c.Toasts(), 1)
	assert.Equal(t, "b", c.Toasts()[0].Title)
	assert.True(t, c.HasToasts())
}

func TestToastController_Sync_CapsVisible(t *testing.T) {
	h, _ := newTestHub(t, notify.WithCapacity(maxVisibleToasts+3))
	c := NewToastController(h)

	for range maxVisibleToasts + 3 {
		h.Info(notify.Options{Title: "x"})
	}
	c.Sync(h.Snapshot())

	assert.Len(t, c.Toasts(), maxVisibleToasts)
}

func TestToastController_Dismiss_Newest(t *testing.T) {
	h, _ := newTestHub(t, notify.WithCapacity(2))
	c := NewToastController(h)

	older := h.Info(notify.Options{Title: "older"})
	newer := h.Info(notify.Options{Title: "newer"})
	c.Sync(h.Snapshot())

	c.Dismiss()

	n, _ := h.Get(newer.ID)
	assert.False(t, n.Open)
	n, _ = h.Get(older.ID)
	assert.True(t, n.Open)
}

func TestToastController_Dismiss_EmptyIsNoop(t *testing.T) {
	h, _ := newTestHub(t)
	c := NewToastController(h)

	assert.NotPanics(t, c.Dismiss)
	assert.False(t, c.HasToasts())
}

func TestToastController_DismissAll(t *testing.T) {
	h, _ := newTestHub(t, notify.WithCapacity(2))
	c := NewToastController(h)

	h.Info(notify.Options{Title: "a"})
	h.Info(notify.Options{Title: "b"})
	c.DismissAll()

	assert.Empty(t, h.Visible())
}

func TestToastController_InvokeAction(t *testing.T) {
	h, _ := newTestHub(t, notify.WithCapacity(2))
	c := NewToastController(h)

	assert.False(t, c.InvokeAction())

	pressed := 0
	handle := h.Interactive(notify.Options{
		Title:  "Archived",
		Action: notify.Button{Text: "Undo", OnPress: func() { pressed++ }},
	})
	h.Info(notify.Options{Title: "unrelated"})
	c.Sync(h.Snapshot())

	require.True(t, c.InvokeAction())
	assert.Equal(t, 1, pressed)

	n, _ := h.Get(handle.ID)
	assert.False(t, n.Open)
}

func TestToastController_HasLoading(t *testing.T) {
	h, _ := newTestHub(t)
	c := NewToastController(h)

	h.Loading(notify.Options{Title: "working"})
	c.Sync(h.Snapshot())
	assert.True(t, c.HasLoading())

	h.Success(notify.Options{Title: "done"})
	c.Sync(h.Snapshot())
	assert.False(t, c.HasLoading())
}
