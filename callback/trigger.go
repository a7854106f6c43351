package callback

import (
	"fmt"
	"time"
)

// Trigger decides, given the current iteration count, whether the owning
// Callback should run its action on this invocation.
//
// Triggers are stateful: deciding to fire usually advances internal state
// (the last firing iteration, the last firing time, a consumed latch), so
// a trigger must be evaluated exactly once per loop iteration even when
// the result is already known.
type Trigger interface {
	// Fires reports whether the action should run on this invocation.
	// Evaluation may mutate the trigger's own state as a side effect.
	Fires(state any, value float64, t int, extra any) bool

	// Reset returns the trigger to its construction-time state.
	Reset()

	// Signal delivers a named event to the trigger. Triggers that are not
	// event driven ignore it.
	Signal(event string)
}

// noSignal provides the default no-op Signal for triggers that do not
// react to events.
type noSignal struct{}

func (noSignal) Signal(string) {}

// IterationTrigger fires every time a fixed number of iterations has
// elapsed since its last firing. With the Callback counter incrementing by
// one per invocation, an interval of k fires exactly on iterations
// k, 2k, 3k, ...
type IterationTrigger struct {
	noSignal
	interval  int
	lastFireT int
}

// NewIterationTrigger creates a trigger that fires every interval
// iterations. The interval must be positive.
func NewIterationTrigger(interval int) (*IterationTrigger, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("iteration trigger interval must be positive, got %d", interval)
	}
	return &IterationTrigger{interval: interval}, nil
}

// Fires reports whether at least interval iterations have passed since the
// last firing, recording t as the new last firing iteration when it has.
func (tr *IterationTrigger) Fires(_ any, _ float64, t int, _ any) bool {
	if t-tr.lastFireT >= tr.interval {
		tr.lastFireT = t
		return true
	}
	return false
}

// Reset clears the last firing iteration, so the next fire occurs at
// t == interval again.
func (tr *IterationTrigger) Reset() {
	tr.lastFireT = 0
}

// TimeTrigger fires when more than a fixed wall-clock duration has elapsed
// since its last firing. It is purely clock driven: the state, value,
// iteration count, and extra context are ignored.
//
// The first evaluation never fires; it only arms the trigger by recording
// the current time. This keeps the firing cadence anchored to the start of
// the loop rather than to trigger construction, which may happen long
// before iteration begins.
type TimeTrigger struct {
	noSignal
	interval time.Duration
	lastFire time.Time

	// now is swapped out in tests; time.Now otherwise.
	now func() time.Time
}

// NewTimeTrigger creates a trigger that fires when more than interval of
// wall-clock time has passed since its last firing. The interval must be
// positive.
func NewTimeTrigger(interval time.Duration) (*TimeTrigger, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("time trigger interval must be positive, got %v", interval)
	}
	return &TimeTrigger{interval: interval, now: time.Now}, nil
}

// Fires arms the trigger on first evaluation, then fires and re-arms
// whenever more than interval has elapsed since the previous firing.
func (tr *TimeTrigger) Fires(_ any, _ float64, _ int, _ any) bool {
	now := tr.now()
	if tr.lastFire.IsZero() {
		tr.lastFire = now
		return false
	}
	if now.Sub(tr.lastFire) > tr.interval {
		tr.lastFire = now
		return true
	}
	return false
}

// Reset returns the trigger to the unarmed state; the next evaluation arms
// it again without firing.
func (tr *TimeTrigger) Reset() {
	tr.lastFire = time.Time{}
}

// EventTrigger fires once for each recognized event delivered through
// Signal. The latch is consumed on read: after a firing evaluation the
// trigger is quiet again until the next Signal.
type EventTrigger struct {
	recognized map[string]struct{}
	latched    bool
}

// NewEventTrigger creates a trigger that reacts to the given event labels.
func NewEventTrigger(events ...string) *EventTrigger {
	recognized := make(map[string]struct{}, len(events))
	for _, e := range events {
		recognized[e] = struct{}{}
	}
	return &EventTrigger{recognized: recognized}
}

// Fires consumes the latch: it returns the latched state and clears it.
func (tr *EventTrigger) Fires(_ any, _ float64, _ int, _ any) bool {
	fired := tr.latched
	tr.latched = false
	return fired
}

// Signal latches the trigger if event is one of its recognized labels.
// Signalling an unrecognized event overwrites the latch with false, so an
// unrelated event delivered between a recognized Signal and the next
// evaluation discards the pending fire. Callers that interleave event
// streams must route only relevant events to this trigger.
func (tr *EventTrigger) Signal(event string) {
	_, ok := tr.recognized[event]
	tr.latched = ok
}

// Reset clears any pending latch.
func (tr *EventTrigger) Reset() {
	tr.latched = false
}

// Any combines triggers into a single trigger that fires when any member
// fires. Every member is evaluated on every invocation, in order, even
// after an earlier member has already fired: members carry independent
// state (iteration counters, wall-clock arming, latches) that must advance
// in lockstep with the loop, so the OR is deliberately not short-circuited.
func Any(triggers ...Trigger) Trigger {
	return anyTrigger(triggers)
}

type anyTrigger []Trigger

func (ts anyTrigger) Fires(state any, value float64, t int, extra any) bool {
	fired := false
	for _, tr := range ts {
		if tr.Fires(state, value, t, extra) {
			fired = true
		}
	}
	return fired
}

func (ts anyTrigger) Reset() {
	for _, tr := range ts {
		tr.Reset()
	}
}

func (ts anyTrigger) Signal(event string) {
	for _, tr := range ts {
		tr.Signal(event)
	}
}
