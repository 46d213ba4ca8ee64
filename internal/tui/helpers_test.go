package tui

import (
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/hay-kot/sooner/internal/core/notify"
)

func newTestHub(t *testing.T, opts ...notify.Option) (*notify.Hub, *clockwork.FakeClock) {
	t.Helper()

	fc := clockwork.NewFakeClock()
	base := []notify.Option{notify.WithClock(fc), notify.WithLogger(zerolog.Nop())}
	h := notify.NewHub(append(base, opts...)...)
	t.Cleanup(h.Close)
	return h, fc
}
