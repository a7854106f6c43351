package callback

// Action is the side effect a Callback fires when its trigger decides to.
// Implementations receive the opaque optimization state, the current
// objective value, the iteration count, and the borrowed extra context.
type Action interface {
	// Apply performs the side effect. Errors are propagated unmodified to
	// the driver through Callback.Invoke.
	Apply(state any, value float64, t int, extra any) error

	// Reset returns the action to its construction-time state. Actions
	// whose output is meant to survive a Callback reset implement this as
	// a no-op.
	Reset()
}

// noReset provides the default no-op Reset for actions whose accumulated
// output deliberately survives a Callback reset.
type noReset struct{}

func (noReset) Reset() {}

// ActionFunc adapts a plain function to the Action interface. Reset is a
// no-op.
type ActionFunc func(state any, value float64, t int, extra any) error

// Apply calls f.
func (f ActionFunc) Apply(state any, value float64, t int, extra any) error {
	return f(state, value, t, extra)
}

// Reset does nothing.
func (ActionFunc) Reset() {}
