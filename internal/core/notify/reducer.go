package notify

// DefaultCapacity is the number of notifications retained at once. A single
// slot means a new notification replaces whatever is showing.
const DefaultCapacity = 1

// State is the store's view of the active notifications, newest first.
type State struct {
	Limit  int
	Toasts []Notification
}

// Event is a store transition. The set is closed: Add, Update, Dismiss and Remove.
type Event interface {
	event()
}

// Add prepends a notification and truncates the list to the state limit.
type Add struct {
	Notification Notification
}

// Update merges a patch into the notification with the given id.
type Update struct {
	ID    string
	Patch Patch
}

// Dismiss marks the notification closed. An empty ID closes every notification.
type Dismiss struct {
	ID string
}

// Remove deletes the notification. An empty ID clears the list.
type Remove struct {
	ID string
}

func (Add) event()     {}
func (Update) event()  {}
func (Dismiss) event() {}
func (Remove) event()  {}

// Apply returns the state that results from applying e to s. It has no side
// effects, never mutates s.Toasts in place, and tolerates unknown ids.
func Apply(s State, e Event) State {
	switch e := e.(type) {
	case Add:
		limit := s.Limit
		if limit < 1 {
			limit = 1
		}
		next := make([]Notification, 0, min(len(s.Toasts)+1, limit))
		next = append(next, e.Notification)
		for _, n := range s.Toasts {
			if len(next) == limit {
				break
			}
			next = append(next, n)
		}
		return State{Limit: s.Limit, Toasts: next}

	case Update:
		return s.mapMatching(e.ID, false, func(n Notification) Notification {
			return e.Patch.apply(n)
		})

	case Dismiss:
		return s.mapMatching(e.ID, true, func(n Notification) Notification {
			n.Open = false
			return n
		})

	case Remove:
		if e.ID == "" {
			return State{Limit: s.Limit}
		}
		if s.index(e.ID) < 0 {
			return s
		}
		next := make([]Notification, 0, len(s.Toasts)-1)
		for _, n := range s.Toasts {
			if n.ID != e.ID {
				next = append(next, n)
			}
		}
		return State{Limit: s.Limit, Toasts: next}
	}

	return s
}

// mapMatching applies fn to the notification with id, or to every
// notification when id is empty and all is set.
func (s State) mapMatching(id string, all bool, fn func(Notification) Notification) State {
	if id == "" && !all {
		return s
	}
	if id != "" && s.index(id) < 0 {
		return s
	}

	next := make([]Notification, len(s.Toasts))
	for i, n := range s.Toasts {
		if id == "" || n.ID == id {
			n = fn(n)
		}
		next[i] = n
	}
	return State{Limit: s.Limit, Toasts: next}
}

func (s State) index(id string) int {
	for i, n := range s.Toasts {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// Find returns the notification with the given id.
func (s State) Find(id string) (Notification, bool) {
	if i := s.index(id); i >= 0 {
		return s.Toasts[i], true
	}
	return Notification{}, false
}
