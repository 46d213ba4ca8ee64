package scenario

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/hay-kot/sooner/internal/core/logging"
	"github.com/hay-kot/sooner/internal/core/notify"
)

// Entry sources.
const (
	SourceStep   = "step"
	SourceHub    = "hub"
	SourceExpect = "expect"
)

// Entry is one line of a replay timeline.
type Entry struct {
	At     time.Duration
	Source string
	ID     string
	Text   string
}

// Check is the outcome of one expect step.
type Check struct {
	At       time.Duration
	Step     int
	Ref      string
	Want     string
	Failures []string
}

// Passed reports whether every assertion in the check held.
func (c Check) Passed() bool { return len(c.Failures) == 0 }

// Result is the outcome of replaying a scenario.
type Result struct {
	Scenario *Scenario
	Timeline []Entry
	Checks   []Check
	// Refs maps notification ids to the scenario refs that raised them.
	Refs map[string]string
}

// Passed reports whether every check passed.
func (r *Result) Passed() bool {
	return r.Failed() == 0
}

// Failed returns the number of failed checks.
func (r *Result) Failed() int {
	n := 0
	for _, c := range r.Checks {
		if !c.Passed() {
			n++
		}
	}
	return n
}

// Runner replays scenarios against fresh hubs on a fake clock.
type Runner struct {
	opts []notify.Option
	log  zerolog.Logger
}

// NewRunner creates a runner whose hubs are built with opts. Scenario-level
// settings are applied after opts and win.
func NewRunner(opts ...notify.Option) *Runner {
	return &Runner{
		opts: opts,
		log:  logging.Component("scenario"),
	}
}

// WithLogger returns a copy of r that logs through l.
func (r *Runner) WithLogger(l zerolog.Logger) *Runner {
	cp := *r
	cp.log = l
	return &cp
}

// lifecycle stages, in the only order a notification can move through them.
const (
	stageUnseen = iota
	stageOpen
	stageClosed
	stageRemoved
)

type replay struct {
	hub   *notify.Hub
	clock *clockwork.FakeClock
	start time.Time

	mu     sync.Mutex
	res    *Result
	refs   map[string]string
	stages map[string]int
}

// Run replays sc and returns its timeline and check results. Run returns an
// error only when the replay itself cannot proceed.
func (r *Runner) Run(ctx context.Context, sc *Scenario) (*Result, error) {
	fc := clockwork.NewFakeClock()

	opts := slices.Clone(r.opts)
	opts = append(opts, notify.WithClock(fc), notify.WithLogger(r.log))
	if sc.Capacity > 0 {
		opts = append(opts, notify.WithCapacity(sc.Capacity))
	}
	if sc.DefaultDuration != 0 {
		opts = append(opts, notify.WithDefaultDuration(sc.DefaultDuration))
	}
	if sc.CleanupDelay != 0 {
		opts = append(opts, notify.WithCleanupDelay(sc.CleanupDelay))
	}

	hub := notify.NewHub(opts...)
	defer hub.Close()

	rp := &replay{
		hub:    hub,
		clock:  fc,
		start:  fc.Now(),
		res:    &Result{Scenario: sc, Refs: make(map[string]string)},
		refs:   make(map[string]string),
		stages: make(map[string]int),
	}
	unsubscribe := hub.Subscribe(rp.observe)
	defer unsubscribe()

	ctx = logging.WithScenario(ctx, sc.Name)
	r.log.Debug().Ctx(ctx).Int("steps", len(sc.Steps)).Msg("replay started")

	for _, i := range sc.order() {
		step := sc.Steps[i]
		if err := hub.Timers().Advance(ctx, fc, step.At.Std()-rp.elapsed()); err != nil {
			return nil, fmt.Errorf("advance to step %d: %w", i, err)
		}

		sctx := logging.WithStep(ctx, i)
		r.log.Debug().Ctx(sctx).Str("op", step.Kind()).Stringer("at", step.At).Msg("step")
		rp.exec(i, step)
	}

	// Let callbacks raised by the final step settle.
	if err := hub.Timers().WaitIdle(ctx); err != nil {
		return nil, err
	}

	r.log.Debug().Ctx(ctx).Int("failed", rp.res.Failed()).Msg("replay finished")
	return rp.res, nil
}

func (rp *replay) elapsed() time.Duration {
	return rp.clock.Since(rp.start)
}

func (rp *replay) record(source, id, text string) {
	rp.mu.Lock()
	defer rp.mu.Unlock()
	rp.appendLocked(source, id, text)
}

// observe turns hub snapshots into lifecycle entries. Stages only move
// forward, so a transition is recorded once.
func (rp *replay) observe(snap []notify.Notification) {
	rp.mu.Lock()
	defer rp.mu.Unlock()

	present := make(map[string]bool, len(snap))
	for _, n := range snap {
		present[n.ID] = true

		stage := stageOpen
		if !n.Open {
			stage = stageClosed
		}
		if stage > rp.stages[n.ID] {
			rp.stages[n.ID] = stage
			rp.appendLocked(SourceHub, n.ID, describeStage(stage, n))
		}
	}

	var gone []string
	for id, stage := range rp.stages {
		if stage < stageRemoved && !present[id] {
			gone = append(gone, id)
		}
	}
	slices.SortFunc(gone, compareIDs)
	for _, id := range gone {
		rp.stages[id] = stageRemoved
		rp.appendLocked(SourceHub, id, "removed")
	}
}

// compareIDs orders the hub's decimal ids numerically.
func compareIDs(a, b string) int {
	if len(a) != len(b) {
		return cmp.Compare(len(a), len(b))
	}
	return strings.Compare(a, b)
}

func (rp *replay) appendLocked(source, id, text string) {
	rp.res.Timeline = append(rp.res.Timeline, Entry{
		At:     rp.elapsed(),
		Source: source,
		ID:     id,
		Text:   text,
	})
}

func describeStage(stage int, n notify.Notification) string {
	if stage == stageOpen {
		return fmt.Sprintf("shown %s %q (%s)", n.Variant, n.Title, n.Duration)
	}
	return fmt.Sprintf("closed %q", n.Title)
}

func (rp *replay) lookup(ref string) string {
	rp.mu.Lock()
	defer rp.mu.Unlock()
	return rp.refs[ref]
}

func (rp *replay) exec(index int, step Step) {
	switch {
	case step.Notify != nil:
		s := step.Notify
		variant, _ := notify.ParseVariant(s.Variant)
		o := notify.Options{
			Title:       s.Title,
			Description: s.Description,
			Variant:     variant,
			Duration:    s.Duration,
		}
		if s.Action != "" {
			o.Action = notify.Button{Text: s.Action}
		}

		rp.mu.Lock()
		mark := len(rp.res.Timeline)
		rp.mu.Unlock()

		handle := rp.hub.Notify(o)

		// The hub reports the new notification synchronously; keep the step
		// entry ahead of it.
		rp.mu.Lock()
		rp.refs[s.Ref] = handle.ID
		rp.res.Refs[handle.ID] = s.Ref
		rp.res.Timeline = slices.Insert(rp.res.Timeline, mark, Entry{
			At:     rp.elapsed(),
			Source: SourceStep,
			ID:     handle.ID,
			Text:   "notify " + s.Ref,
		})
		rp.mu.Unlock()

	case step.Update != nil:
		s := step.Update
		id := rp.lookup(s.Ref)
		rp.record(SourceStep, id, fmt.Sprintf("update %s%s", s.Ref, s.describe()))
		rp.hub.Update(id, s.patch())

	case step.Dismiss != nil:
		if step.Dismiss.All {
			rp.record(SourceStep, "", "dismiss all")
			rp.hub.DismissAll()
			return
		}
		id := rp.lookup(step.Dismiss.Ref)
		rp.record(SourceStep, id, "dismiss "+step.Dismiss.Ref)
		rp.hub.Dismiss(id)

	case step.Remove != nil:
		if step.Remove.All {
			rp.record(SourceStep, "", "remove all")
			rp.hub.Clear()
			return
		}
		id := rp.lookup(step.Remove.Ref)
		rp.record(SourceStep, id, "remove "+step.Remove.Ref)
		rp.hub.Remove(id)

	case step.Expect != nil:
		e := *step.Expect
		id := rp.lookup(e.Ref)
		check := Check{
			At:       rp.elapsed(),
			Step:     index,
			Ref:      e.Ref,
			Want:     e.describe(),
			Failures: e.evaluate(rp.hub, id),
		}

		rp.mu.Lock()
		rp.res.Checks = append(rp.res.Checks, check)
		rp.mu.Unlock()

		verdict := "pass"
		if !check.Passed() {
			verdict = "FAIL: " + strings.Join(check.Failures, "; ")
		}
		rp.record(SourceExpect, id, fmt.Sprintf("%s -> %s", check.Want, verdict))
	}
}

func (s *UpdateStep) patch() notify.Patch {
	p := notify.Patch{
		Title:       s.Title,
		Description: s.Description,
		Duration:    s.Duration,
	}
	if s.Variant != nil {
		v, _ := notify.ParseVariant(*s.Variant)
		p.Variant = &v
	}
	return p
}

func (s *UpdateStep) describe() string {
	var parts []string
	if s.Title != nil {
		parts = append(parts, fmt.Sprintf("title=%q", *s.Title))
	}
	if s.Description != nil {
		parts = append(parts, fmt.Sprintf("description=%q", *s.Description))
	}
	if s.Variant != nil {
		parts = append(parts, "variant="+*s.Variant)
	}
	if s.Duration != nil {
		parts = append(parts, "duration="+s.Duration.String())
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " ")
}

func (e Expect) describe() string {
	var parts []string
	if e.Ref != "" {
		parts = append(parts, e.Ref)
	}
	if e.Present != nil {
		parts = append(parts, fmt.Sprintf("present=%t", *e.Present))
	}
	if e.Open != nil {
		parts = append(parts, fmt.Sprintf("open=%t", *e.Open))
	}
	if e.Title != nil {
		parts = append(parts, fmt.Sprintf("title=%q", *e.Title))
	}
	if e.Variant != nil {
		parts = append(parts, "variant="+*e.Variant)
	}
	if e.Count != nil {
		parts = append(parts, fmt.Sprintf("count=%d", *e.Count))
	}
	if e.Visible != nil {
		parts = append(parts, fmt.Sprintf("visible=%d", *e.Visible))
	}
	return strings.Join(parts, " ")
}

func (e Expect) evaluate(hub *notify.Hub, id string) []string {
	var (
		fails []string
		n     notify.Notification
		ok    bool
	)
	if id != "" {
		n, ok = hub.Get(id)
	}

	if e.Present != nil && ok != *e.Present {
		fails = append(fails, fmt.Sprintf("present: want %t, got %t", *e.Present, ok))
	}
	if e.Open != nil && n.Open != *e.Open {
		fails = append(fails, fmt.Sprintf("open: want %t, got %t", *e.Open, n.Open))
	}
	if e.Title != nil {
		switch {
		case !ok:
			fails = append(fails, "title: notification is absent")
		case n.Title != *e.Title:
			fails = append(fails, fmt.Sprintf("title: want %q, got %q", *e.Title, n.Title))
		}
	}
	if e.Variant != nil {
		want, _ := notify.ParseVariant(*e.Variant)
		switch {
		case !ok:
			fails = append(fails, "variant: notification is absent")
		case n.Variant != want:
			fails = append(fails, fmt.Sprintf("variant: want %s, got %s", want, n.Variant))
		}
	}
	if e.Count != nil {
		if got := len(hub.Snapshot()); got != *e.Count {
			fails = append(fails, fmt.Sprintf("count: want %d, got %d", *e.Count, got))
		}
	}
	if e.Visible != nil {
		if got := len(hub.Visible()); got != *e.Visible {
			fails = append(fails, fmt.Sprintf("visible: want %d, got %d", *e.Visible, got))
		}
	}
	return fails
}
