package callback

// Evaluator is an action that applies an auxiliary function to the
// optimization state on every firing and records the results in call
// order. Typical use: sampling a quantity derived from the state (a
// validation score, a norm) every N iterations for later analysis.
type Evaluator struct {
	noReset
	label   string
	f       func(state any) any
	results []any
}

// NewEvaluator creates an evaluator that records f(state) under the given
// label on every firing.
func NewEvaluator(label string, f func(state any) any) *Evaluator {
	return &Evaluator{label: label, f: f}
}

// Apply evaluates f on the state and appends the result. The objective
// value, iteration count, and extra context are ignored.
func (e *Evaluator) Apply(state any, _ float64, _ int, _ any) error {
	e.results = append(e.results, e.f(state))
	return nil
}

// Label returns the label given at construction.
func (e *Evaluator) Label() string {
	return e.label
}

// Results returns the accumulated evaluations in call order. The history
// grows unboundedly for the life of the callback and deliberately survives
// Callback.Reset, so a reused callback keeps appending to the same record
// across runs.
func (e *Evaluator) Results() []any {
	return e.results
}
