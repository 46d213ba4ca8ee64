// Package notify implements the in-process toast notification hub: the record
// type, the pure store transitions, the expiry scheduler, and the factory API
// call sites use to raise, update, and dismiss notifications.
package notify

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Variant is the semantic category of a notification. It drives presentation
// only; the hub treats every variant the same.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
	VariantSuccess     Variant = "success"
	VariantLoading     Variant = "loading"
	VariantQuote       Variant = "quote"
	VariantInteractive Variant = "interactive"
)

// Variants returns every recognised variant in declaration order.
func Variants() []Variant {
	return []Variant{
		VariantDefault,
		VariantDestructive,
		VariantSuccess,
		VariantLoading,
		VariantQuote,
		VariantInteractive,
	}
}

// Valid reports whether v is one of the recognised variants.
func (v Variant) Valid() bool {
	for _, known := range Variants() {
		if v == known {
			return true
		}
	}
	return false
}

// ParseVariant parses a variant name. The empty string yields VariantDefault.
func ParseVariant(s string) (Variant, error) {
	if s == "" {
		return VariantDefault, nil
	}
	v := Variant(strings.ToLower(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", fmt.Errorf("unknown variant %q", s)
	}
	return v, nil
}

// Duration is how long a notification stays open before it is dismissed
// automatically. Infinite disables auto-dismiss.
type Duration time.Duration

// Infinite is the sentinel for "never auto-dismiss".
const Infinite Duration = -1

// Milliseconds builds a finite Duration from a millisecond count.
func Milliseconds(ms int64) Duration {
	return Duration(time.Duration(ms) * time.Millisecond)
}

// IsInfinite reports whether d is the Infinite sentinel (any negative value).
func (d Duration) IsInfinite() bool { return d < 0 }

// IsFinite reports whether d is a positive, finite lifetime.
func (d Duration) IsFinite() bool { return d > 0 }

// Std returns d as a time.Duration. Infinite maps to a negative value.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string {
	if d.IsInfinite() {
		return "infinite"
	}
	return time.Duration(d).String()
}

// ParseDuration accepts "infinite", a Go duration string ("3s", "1500ms"), or
// a bare integer which is read as milliseconds.
func ParseDuration(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "":
		return 0, nil
	case "infinite", "inf", "never":
		return Infinite, nil
	}

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		if ms < 0 {
			return 0, fmt.Errorf("duration %q must not be negative", s)
		}
		return Milliseconds(ms), nil
	}

	std, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	if std < 0 {
		return 0, fmt.Errorf("duration %q must not be negative", s)
	}
	return Duration(std), nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Action is an opaque payload carried alongside a notification, typically a
// control the presentation layer renders. The hub stores and copies it but
// never invokes it.
type Action interface {
	Label() string
	Invoke()
}

// Button is a minimal Action backed by a function.
type Button struct {
	Text    string
	OnPress func()
}

func (b Button) Label() string { return b.Text }

func (b Button) Invoke() {
	if b.OnPress != nil {
		b.OnPress()
	}
}

// Notification is a single toast record.
type Notification struct {
	ID          string
	Title       string
	Description string
	Variant     Variant
	Duration    Duration
	Action      Action
	Open        bool
	CreatedAt   time.Time
}

// Options configure a new notification. Zero values take the hub defaults.
type Options struct {
	Title       string
	Description string
	Variant     Variant
	Duration    Duration
	Action      Action
}

// Patch is a partial update merged into an existing notification. Nil fields
// are left untouched. The id and open flag cannot be patched.
type Patch struct {
	Title       *string
	Description *string
	Variant     *Variant
	Duration    *Duration
	Action      Action
}

// Ptr returns a pointer to v. It keeps Patch literals short.
func Ptr[T any](v T) *T {
	return &v
}

func (p Patch) apply(n Notification) Notification {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Description != nil {
		n.Description = *p.Description
	}
	if p.Variant != nil {
		n.Variant = *p.Variant
	}
	if p.Duration != nil {
		n.Duration = *p.Duration
	}
	if p.Action != nil {
		n.Action = p.Action
	}
	return n
}
