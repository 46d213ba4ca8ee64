package notify

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id, title string) Notification {
	return Notification{ID: id, Title: title, Variant: VariantDefault, Duration: Milliseconds(1000), Open: true}
}

func TestApply_Add_PrependsAndTruncates(t *testing.T) {
	s := State{Limit: 1}

	s = Apply(s, Add{Notification: rec("1", "A")})
	s = Apply(s, Add{Notification: rec("2", "B")})

	require.Len(t, s.Toasts, 1)
	assert.Equal(t, "B", s.Toasts[0].Title)
}

func TestApply_Add_RespectsLimit(t *testing.T) {
	for _, limit := range []int{1, 2, 3, 5} {
		t.Run(strconv.Itoa(limit), func(t *testing.T) {
			s := State{Limit: limit}
			for i := range limit + 3 {
				s = Apply(s, Add{Notification: rec(strconv.Itoa(i), strconv.Itoa(i))})
				assert.LessOrEqual(t, len(s.Toasts), limit)
			}

			require.Len(t, s.Toasts, limit)
			// Newest first: the most recent id leads.
			assert.Equal(t, strconv.Itoa(limit+2), s.Toasts[0].ID)
			assert.Equal(t, strconv.Itoa(3), s.Toasts[limit-1].ID)
		})
	}
}

func TestApply_Add_ZeroLimitKeepsOne(t *testing.T) {
	s := Apply(State{}, Add{Notification: rec("1", "A")})
	s = Apply(s, Add{Notification: rec("2", "B")})

	require.Len(t, s.Toasts, 1)
	assert.Equal(t, "2", s.Toasts[0].ID)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	s := State{Limit: 3}
	s = Apply(s, Add{Notification: rec("1", "A")})
	before := s.Toasts[0]

	_ = Apply(s, Update{ID: "1", Patch: Patch{Title: Ptr("X")}})
	_ = Apply(s, Dismiss{ID: "1"})
	_ = Apply(s, Remove{ID: "1"})

	assert.Equal(t, before, s.Toasts[0])
}

func TestApply_Update_PreservesIdentity(t *testing.T) {
	s := Apply(State{Limit: 1}, Add{Notification: rec("1", "A")})

	s = Apply(s, Update{ID: "1", Patch: Patch{Title: Ptr("X")}})

	n := s.Toasts[0]
	assert.Equal(t, "X", n.Title)
	assert.Equal(t, "1", n.ID)
	assert.Equal(t, VariantDefault, n.Variant)
	assert.Equal(t, Milliseconds(1000), n.Duration)
	assert.True(t, n.Open)
}

func TestApply_Update_AllFields(t *testing.T) {
	s := Apply(State{Limit: 1}, Add{Notification: rec("1", "A")})
	action := Button{Text: "Retry"}

	s = Apply(s, Update{ID: "1", Patch: Patch{
		Title:       Ptr("Saved"),
		Description: Ptr("all good"),
		Variant:     Ptr(VariantSuccess),
		Duration:    Ptr(Milliseconds(3000)),
		Action:      action,
	}})

	n := s.Toasts[0]
	assert.Equal(t, "Saved", n.Title)
	assert.Equal(t, "all good", n.Description)
	assert.Equal(t, VariantSuccess, n.Variant)
	assert.Equal(t, Milliseconds(3000), n.Duration)
	assert.Equal(t, action, n.Action)
}

func TestApply_Update_UnknownIDIsNoop(t *testing.T) {
	s := Apply(State{Limit: 1}, Add{Notification: rec("1", "A")})

	next := Apply(s, Update{ID: "nope", Patch: Patch{Title: Ptr("X")}})
	assert.Equal(t, s, next)

	next = Apply(s, Update{Patch: Patch{Title: Ptr("X")}})
	assert.Equal(t, s, next)
}

func TestApply_Dismiss(t *testing.T) {
	s := State{Limit: 3}
	s = Apply(s, Add{Notification: rec("1", "A")})
	s = Apply(s, Add{Notification: rec("2", "B")})

	t.Run("single", func(t *testing.T) {
		next := Apply(s, Dismiss{ID: "1"})
		a, _ := next.Find("1")
		b, _ := next.Find("2")
		assert.False(t, a.Open)
		assert.True(t, b.Open)
	})

	t.Run("all", func(t *testing.T) {
		next := Apply(s, Dismiss{})
		for _, n := range next.Toasts {
			assert.False(t, n.Open, n.ID)
		}
		assert.Len(t, next.Toasts, 2)
	})

	t.Run("unknown", func(t *testing.T) {
		assert.Equal(t, s, Apply(s, Dismiss{ID: "nope"}))
	})
}

func TestApply_Remove(t *testing.T) {
	s := State{Limit: 3}
	s = Apply(s, Add{Notification: rec("1", "A")})
	s = Apply(s, Add{Notification: rec("2", "B")})

	t.Run("single", func(t *testing.T) {
		next := Apply(s, Remove{ID: "1"})
		require.Len(t, next.Toasts, 1)
		assert.Equal(t, "2", next.Toasts[0].ID)
	})

	t.Run("idempotent", func(t *testing.T) {
		once := Apply(s, Remove{ID: "1"})
		twice := Apply(once, Remove{ID: "1"})
		assert.Equal(t, once, twice)

		never := Apply(s, Remove{ID: "never-created"})
		assert.Equal(t, s, never)
	})

	t.Run("all", func(t *testing.T) {
		next := Apply(s, Remove{})
		assert.Empty(t, next.Toasts)
		assert.Equal(t, 3, next.Limit)
	})
}
