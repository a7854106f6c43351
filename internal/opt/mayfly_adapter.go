package opt

import (
	"fmt"
	"math/rand"

	"github.com/cwbudde/mayfly"
)

// MayflyAdapter wraps the external Mayfly library to conform to our
// Optimizer interface.
//
// The library owns its iteration loop and exposes no mid-run abort, so the
// iteration callback is fired from inside the objective function, once per
// evaluation. A stop request is recorded and silences further callback
// invocations, but the library run itself continues to completion.
// RandomSearch is the driver to use when immediate stop matters.
type MayflyAdapter struct {
	maxIters int
	popSize  int
	seed     int64
}

// NewMayfly creates a new Mayfly optimizer adapter.
func NewMayfly(maxIters, popSize int, seed int64) *MayflyAdapter {
	return &MayflyAdapter{
		maxIters: maxIters,
		popSize:  popSize,
		seed:     seed,
	}
}

// Run executes the Mayfly optimization using the external library.
func (m *MayflyAdapter) Run(eval func([]float64) float64, lower, upper []float64, dim int, onIter IterationFunc) ([]float64, float64, error) {
	if dim <= 0 {
		return nil, 0, fmt.Errorf("dimension must be positive, got %d", dim)
	}
	if len(lower) < dim || len(upper) < dim {
		return nil, 0, fmt.Errorf("bounds cover %d/%d dimensions, need %d", len(lower), len(upper), dim)
	}

	config := mayfly.NewDefaultConfig()

	var cbErr error
	stopped := false
	objective := eval
	if onIter != nil {
		objective = func(params []float64) float64 {
			cost := eval(params)
			if cbErr == nil && !stopped {
				stop, err := onIter(params, cost)
				if err != nil {
					cbErr = err
				}
				stopped = stop
			}
			return cost
		}
	}

	config.ObjectiveFunc = objective
	config.ProblemSize = dim
	config.MaxIterations = m.maxIters
	config.NPop = m.popSize

	// The external library uses scalar bounds shared across dimensions.
	config.LowerBound = lower[0]
	config.UpperBound = upper[0]

	config.Rand = rand.New(rand.NewSource(m.seed))

	result, err := mayfly.Optimize(config)
	if err != nil {
		return nil, 0, fmt.Errorf("mayfly optimization failed: %w", err)
	}
	if cbErr != nil {
		return result.GlobalBest.Position, result.GlobalBest.Cost, cbErr
	}
	return result.GlobalBest.Position, result.GlobalBest.Cost, nil
}
