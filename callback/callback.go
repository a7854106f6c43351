// Package callback attaches side-effecting actions (progress logging,
// checkpoint persistence, auxiliary evaluation) to an iterative
// optimization loop. The loop itself stays oblivious: it invokes a
// Callback once per iteration with the current state and objective value,
// and the Callback decides through its trigger whether the action runs.
//
// Callbacks are single-threaded by contract. Every invocation is a plain
// function call on the driver's goroutine; trigger and action state is
// mutated in place with no locking. Invoking one Callback concurrently
// from multiple goroutines leaves counters and latches undefined.
package callback

// StopFunc is a caller-supplied predicate consulted on every invocation.
// Returning true tells the driver to halt iteration; the Callback itself
// never stops the loop.
type StopFunc func(state any, value float64, t int, extra any) bool

// NeverStop is the default stop predicate.
func NeverStop(any, float64, int, any) bool { return false }

// Option configures a Callback at construction time.
type Option func(*Callback)

// WithExtra attaches an opaque user context forwarded unchanged to every
// trigger, action, and stop-predicate call. The Callback never inspects or
// mutates it.
func WithExtra(extra any) Option {
	return func(c *Callback) {
		c.extra = extra
	}
}

// WithStop sets the stop predicate consulted on every invocation.
func WithStop(stop StopFunc) Option {
	return func(c *Callback) {
		if stop != nil {
			c.stop = stop
		}
	}
}

// Callback couples a trigger to an action. It counts invocations, asks the
// trigger on each one whether the action should fire, runs the action when
// it should, and reports the stop predicate's verdict back to the driver.
//
// A Callback owns its trigger and action exclusively; the extra context
// and the stop predicate are borrowed collaborators and are never touched
// by Reset.
type Callback struct {
	trigger Trigger
	action  Action
	t       int
	extra   any
	stop    StopFunc
}

// New creates a Callback firing action whenever trigger decides to. To
// drive one action from several conditions, compose them with Any.
func New(action Action, trigger Trigger, opts ...Option) *Callback {
	c := &Callback{
		trigger: trigger,
		action:  action,
		stop:    NeverStop,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Invoke is called by the driver once per loop iteration. It increments
// the iteration counter, evaluates the trigger, fires the action if the
// trigger says so, and returns the stop predicate's result.
//
// An error from the action is returned unmodified: the core never catches,
// wraps, or logs user-code failures. The driver decides how to react.
func (c *Callback) Invoke(state any, value float64) (stop bool, err error) {
	c.t++
	if c.trigger.Fires(state, value, c.t, c.extra) {
		if err := c.action.Apply(state, value, c.t, c.extra); err != nil {
			return false, err
		}
	}
	return c.stop(state, value, c.t, c.extra), nil
}

// T returns the number of invocations since construction or the last
// Reset.
func (c *Callback) T() int {
	return c.t
}

// Reset returns the Callback to its construction-time state: the trigger
// and action are reset and the iteration counter is cleared, so the same
// Callback can be reused across independent optimization runs. Actions
// whose accumulated output is meant to outlive a run (Evaluator,
// CheckpointSaver) treat Reset as a no-op. The callback is returned for
// chaining.
func (c *Callback) Reset() *Callback {
	c.trigger.Reset()
	c.action.Reset()
	c.t = 0
	return c
}

// Signal forwards a named event to the Callback's trigger. A composite
// trigger built with Any delivers the event to every member.
func (c *Callback) Signal(event string) {
	c.trigger.Signal(event)
}

// AnyStop combines stop predicates: the loop halts when any of them says
// so. Like Any for triggers, every predicate is evaluated on every
// invocation so stateful predicates (StallTracker) keep observing the run
// even after another predicate has already voted to stop.
func AnyStop(stops ...StopFunc) StopFunc {
	return func(state any, value float64, t int, extra any) bool {
		halt := false
		for _, s := range stops {
			if s(state, value, t, extra) {
				halt = true
			}
		}
		return halt
	}
}

// Signaler is anything that accepts named events: Callbacks, triggers, and
// composites all qualify.
type Signaler interface {
	Signal(event string)
}

// Signal delivers event to target if it accepts events. Any other target
// is silently ignored, so event producers can broadcast without knowing
// which collaborators care.
func Signal(target any, event string) {
	if s, ok := target.(Signaler); ok {
		s.Signal(event)
	}
}
