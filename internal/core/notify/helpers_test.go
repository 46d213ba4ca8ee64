package notify

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T, opts ...Option) (*Hub, *clockwork.FakeClock) {
	t.Helper()

	fc := clockwork.NewFakeClock()
	base := []Option{WithClock(fc), WithLogger(zerolog.Nop())}
	h := NewHub(append(base, opts...)...)
	t.Cleanup(h.Close)
	return h, fc
}

func advance(t *testing.T, h *Hub, fc *clockwork.FakeClock, d time.Duration) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, h.Timers().Advance(ctx, fc, d))
}

func ms(n int64) time.Duration {
	return time.Duration(n) * time.Millisecond
}
