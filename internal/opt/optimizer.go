// Package opt contains the optimization drivers that feed the callback
// layer: a built-in adaptive random search and an adapter for the external
// Mayfly library, plus the benchmark objectives they minimize.
package opt

// IterationFunc is invoked once per optimizer iteration with the current
// best parameters and cost. Returning stop == true asks the optimizer to
// halt early; a non-nil error aborts the run and is propagated to the
// caller unmodified.
type IterationFunc func(state []float64, value float64) (stop bool, err error)

// Optimizer defines an optimization algorithm interface.
type Optimizer interface {
	// Run minimizes eval over the box [lower, upper] in dim dimensions.
	// onIter, if non-nil, is called once per iteration.
	// Returns the best parameters and cost found.
	Run(eval func([]float64) float64, lower, upper []float64, dim int, onIter IterationFunc) ([]float64, float64, error)
}
