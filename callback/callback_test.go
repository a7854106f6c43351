package callback

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingAction captures every Apply call for assertions.
type recordingAction struct {
	firedAt []int
	extras  []any
	resets  int
	err     error
}

func (a *recordingAction) Apply(_ any, _ float64, t int, extra any) error {
	if a.err != nil {
		return a.err
	}
	a.firedAt = append(a.firedAt, t)
	a.extras = append(a.extras, extra)
	return nil
}

func (a *recordingAction) Reset() {
	a.resets++
	a.firedAt = nil
	a.extras = nil
}

// drive invokes the callback n times with the given value, failing the
// test on any error.
func drive(t *testing.T, c *Callback, n int, value float64) {
	t.Helper()

	for i := 0; i < n; i++ {
		_, err := c.Invoke(nil, value)
		require.NoError(t, err)
	}
}

func TestCallbackFiresOnInterval(t *testing.T) {
	action := &recordingAction{}
	c := New(action, mustIterationTrigger(t, 5))

	drive(t, c, 12, 1.0)

	assert.Equal(t, []int{5, 10}, action.firedAt)
	assert.Equal(t, 12, c.T())
}

func TestCallbackStopDefaultsToFalse(t *testing.T) {
	c := New(&recordingAction{}, mustIterationTrigger(t, 1))

	stop, err := c.Invoke(nil, 0)
	require.NoError(t, err)
	assert.False(t, stop)
}

func TestCallbackStopPredicate(t *testing.T) {
	var sawT int
	var sawExtra any
	stop := func(_ any, value float64, tick int, extra any) bool {
		sawT = tick
		sawExtra = extra
		return value < 1.0
	}

	c := New(&recordingAction{}, mustIterationTrigger(t, 100),
		WithExtra("ctx"), WithStop(stop))

	halt, err := c.Invoke(nil, 2.0)
	require.NoError(t, err)
	assert.False(t, halt)

	halt, err = c.Invoke(nil, 0.5)
	require.NoError(t, err)
	assert.True(t, halt)
	assert.Equal(t, 2, sawT)
	assert.Equal(t, "ctx", sawExtra)
}

func TestCallbackForwardsExtraToAction(t *testing.T) {
	action := &recordingAction{}
	extra := map[string]int{"run": 7}
	c := New(action, mustIterationTrigger(t, 1), WithExtra(extra))

	drive(t, c, 2, 0)

	require.Len(t, action.extras, 2)
	for _, got := range action.extras {
		assert.Equal(t, extra, got)
	}
}

func TestCallbackActionErrorPropagatesUnmodified(t *testing.T) {
	sentinel := errors.New("disk full")
	action := &recordingAction{err: sentinel}
	c := New(action, mustIterationTrigger(t, 1))

	_, err := c.Invoke(nil, 0)
	// Propagated as-is, not wrapped.
	assert.Same(t, sentinel, err)
}

func TestIterationAndEventTupleCadence(t *testing.T) {
	action := &recordingAction{}
	c := New(action, Any(mustIterationTrigger(t, 5), NewEventTrigger("end")))

	// Iterations 1..4 never fire; 5 fires.
	drive(t, c, 5, 0)
	assert.Equal(t, []int{5}, action.firedAt)

	// The event fires on the next invocation regardless of counter
	// alignment, and only once.
	c.Signal("end")
	drive(t, c, 2, 0)
	assert.Equal(t, []int{5, 6}, action.firedAt)
}

func TestCallbackResetProtocol(t *testing.T) {
	action := &recordingAction{}
	event := NewEventTrigger("end")
	c := New(action, Any(mustIterationTrigger(t, 3), event))

	drive(t, c, 4, 0)
	c.Signal("end")

	got := c.Reset()
	assert.Same(t, c, got, "Reset returns the callback for chaining")
	assert.Equal(t, 0, c.T())
	assert.Equal(t, 1, action.resets)

	// Counter restarted: the iteration trigger fires at t == 3 again, and
	// the pending event latch is gone.
	drive(t, c, 3, 0)
	assert.Equal(t, []int{3}, action.firedAt)
}

func TestResetKeepsEvaluatorHistory(t *testing.T) {
	eval := NewEvaluator("norm", func(state any) any {
		return state
	})
	c := New(eval, mustIterationTrigger(t, 1))

	for i := 1; i <= 3; i++ {
		_, err := c.Invoke(i, 0)
		require.NoError(t, err)
	}
	require.Equal(t, []any{1, 2, 3}, eval.Results())

	// Reset clears the counter and trigger state but deliberately leaves
	// the evaluation history intact: it outlives individual runs.
	c.Reset()
	assert.Equal(t, []any{1, 2, 3}, eval.Results())

	_, err := c.Invoke(4, 0)
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2, 3, 4}, eval.Results())
}

func TestSignalFreeFunction(t *testing.T) {
	action := &recordingAction{}
	c := New(action, NewEventTrigger("end"))

	Signal(c, "end")
	_, err := c.Invoke(nil, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, action.firedAt)

	// Targets that do not accept events are ignored.
	Signal(42, "end")
	Signal(nil, "end")
	Signal("not a callback", "end")
}

func TestAnyStopEvaluatesAllPredicates(t *testing.T) {
	calls := 0
	counting := func(any, float64, int, any) bool {
		calls++
		return false
	}
	always := func(any, float64, int, any) bool { return true }

	stop := AnyStop(always, counting)
	assert.True(t, stop(nil, 0, 1, nil))
	assert.Equal(t, 1, calls, "later predicates still evaluated")
}
