// Package scenario loads YAML scripts of timed hub operations and replays
// them against a notify.Hub on a fake clock.
package scenario

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/sooner/internal/core/notify"
)

// Scenario is a named script of steps. Capacity, DefaultDuration and
// CleanupDelay override the hub configuration when set.
type Scenario struct {
	Name            string          `yaml:"name"`
	Capacity        int             `yaml:"capacity"`
	DefaultDuration notify.Duration `yaml:"default_duration"`
	CleanupDelay    notify.Duration `yaml:"cleanup_delay"`
	Steps           []Step          `yaml:"steps"`

	// Path is the file the scenario was loaded from.
	Path string `yaml:"-"`
}

// Step is one timed operation. Exactly one of the operation fields is set.
type Step struct {
	At      notify.Duration `yaml:"at"`
	Notify  *NotifyStep     `yaml:"notify"`
	Update  *UpdateStep     `yaml:"update"`
	Dismiss *TargetStep     `yaml:"dismiss"`
	Remove  *TargetStep     `yaml:"remove"`
	Expect  *Expect         `yaml:"expect"`
}

// NotifyStep raises a notification and binds its id to Ref.
type NotifyStep struct {
	Ref         string          `yaml:"ref"`
	Title       string          `yaml:"title"`
	Description string          `yaml:"description"`
	Variant     string          `yaml:"variant"`
	Duration    notify.Duration `yaml:"duration"`
	Action      string          `yaml:"action"`
}

// UpdateStep patches the notification bound to Ref.
type UpdateStep struct {
	Ref         string           `yaml:"ref"`
	Title       *string          `yaml:"title"`
	Description *string          `yaml:"description"`
	Variant     *string          `yaml:"variant"`
	Duration    *notify.Duration `yaml:"duration"`
}

// TargetStep names one notification by Ref, or every notification with All.
type TargetStep struct {
	Ref string `yaml:"ref"`
	All bool   `yaml:"all"`
}

// Expect asserts on hub state. Nil fields are not checked. An absent
// notification counts as closed.
type Expect struct {
	Ref     string  `yaml:"ref"`
	Present *bool   `yaml:"present"`
	Open    *bool   `yaml:"open"`
	Title   *string `yaml:"title"`
	Variant *string `yaml:"variant"`
	Count   *int    `yaml:"count"`
	Visible *int    `yaml:"visible"`
}

// Kind returns the name of the operation the step performs, or "" when the
// step sets no operation.
func (s Step) Kind() string {
	switch {
	case s.Notify != nil:
		return "notify"
	case s.Update != nil:
		return "update"
	case s.Dismiss != nil:
		return "dismiss"
	case s.Remove != nil:
		return "remove"
	case s.Expect != nil:
		return "expect"
	default:
		return ""
	}
}

func (s Step) opCount() int {
	n := 0
	for _, set := range []bool{s.Notify != nil, s.Update != nil, s.Dismiss != nil, s.Remove != nil, s.Expect != nil} {
		if set {
			n++
		}
	}
	return n
}

// Validate checks the scenario structure. Steps are checked in the order
// they will run, so a ref must be bound by an earlier notify step.
func (sc *Scenario) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if sc.Name == "" {
		errs = errs.Append("name", fmt.Errorf("is required"))
	}
	if sc.Capacity < 0 {
		errs = errs.Append("capacity", fmt.Errorf("must not be negative"))
	}
	if sc.CleanupDelay.IsInfinite() {
		errs = errs.Append("cleanup_delay", fmt.Errorf("must be finite"))
	}
	if len(sc.Steps) == 0 {
		errs = errs.Append("steps", fmt.Errorf("at least one step is required"))
	}

	bound := make(map[string]bool)
	for _, i := range sc.order() {
		step := sc.Steps[i]
		field := fmt.Sprintf("steps[%d]", i)

		if step.At.IsInfinite() {
			errs = errs.Append(field+".at", fmt.Errorf("must be finite"))
		}
		if n := step.opCount(); n != 1 {
			errs = errs.Append(field, fmt.Errorf("must set exactly one of notify, update, dismiss, remove, expect (got %d)", n))
			continue
		}

		switch {
		case step.Notify != nil:
			if step.Notify.Ref == "" {
				errs = errs.Append(field+".notify.ref", fmt.Errorf("is required"))
			}
			if _, err := notify.ParseVariant(step.Notify.Variant); err != nil {
				errs = errs.Append(field+".notify.variant", err)
			}
			bound[step.Notify.Ref] = true

		case step.Update != nil:
			errs = checkRef(errs, field+".update.ref", step.Update.Ref, bound)
			if step.Update.Variant != nil {
				if _, err := notify.ParseVariant(*step.Update.Variant); err != nil {
					errs = errs.Append(field+".update.variant", err)
				}
			}

		case step.Dismiss != nil:
			errs = checkTarget(errs, field+".dismiss", *step.Dismiss, bound)

		case step.Remove != nil:
			errs = checkTarget(errs, field+".remove", *step.Remove, bound)

		case step.Expect != nil:
			errs = checkExpect(errs, field+".expect", *step.Expect, bound)
		}
	}

	return errs.ToError()
}

func checkRef(errs criterio.FieldErrorsBuilder, field, ref string, bound map[string]bool) criterio.FieldErrorsBuilder {
	switch {
	case ref == "":
		return errs.Append(field, fmt.Errorf("is required"))
	case !bound[ref]:
		return errs.Append(field, fmt.Errorf("%q is not bound by an earlier notify step", ref))
	}
	return errs
}

func checkTarget(errs criterio.FieldErrorsBuilder, field string, t TargetStep, bound map[string]bool) criterio.FieldErrorsBuilder {
	switch {
	case t.All && t.Ref != "":
		return errs.Append(field, fmt.Errorf("ref and all are mutually exclusive"))
	case t.All:
		return errs
	default:
		return checkRef(errs, field+".ref", t.Ref, bound)
	}
}

func checkExpect(errs criterio.FieldErrorsBuilder, field string, e Expect, bound map[string]bool) criterio.FieldErrorsBuilder {
	perRef := e.Present != nil || e.Open != nil || e.Title != nil || e.Variant != nil
	if !perRef && e.Count == nil && e.Visible == nil {
		return errs.Append(field, fmt.Errorf("nothing to check"))
	}
	if perRef || e.Ref != "" {
		errs = checkRef(errs, field+".ref", e.Ref, bound)
	}
	if e.Variant != nil {
		if _, err := notify.ParseVariant(*e.Variant); err != nil {
			errs = errs.Append(field+".variant", err)
		}
	}
	return errs
}

// order returns step indexes sorted by At. Steps sharing an offset keep
// their file order.
func (sc *Scenario) order() []int {
	idx := make([]int, len(sc.Steps))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return cmp.Compare(sc.Steps[a].At, sc.Steps[b].At)
	})
	return idx
}
