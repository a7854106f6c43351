package opt

import (
	"fmt"
	"log/slog"
	"math/rand"
)

// staleBeforeShrink is the number of non-improving iterations tolerated
// before the sampling radius is halved.
const staleBeforeShrink = 20

// minRadius stops the radius shrinking into numeric noise.
const minRadius = 1e-6

// RandomSearch is an adaptive random search optimizer. It samples
// candidates from a Gaussian around the best point so far, shrinking the
// sampling radius when progress stalls. Simple, derivative-free, and it
// invokes the iteration callback synchronously once per iteration, which
// makes it the driver of choice when the callback's stop signal must be
// honored immediately.
type RandomSearch struct {
	maxIters int
	seed     int64
}

// NewRandomSearch creates a random search running at most maxIters
// iterations, seeded for reproducibility.
func NewRandomSearch(maxIters int, seed int64) *RandomSearch {
	return &RandomSearch{maxIters: maxIters, seed: seed}
}

// Run executes the search. The returned parameters are always the best
// seen, even when the run is cut short by the callback or by a callback
// error.
func (r *RandomSearch) Run(eval func([]float64) float64, lower, upper []float64, dim int, onIter IterationFunc) ([]float64, float64, error) {
	if dim <= 0 {
		return nil, 0, fmt.Errorf("dimension must be positive, got %d", dim)
	}
	if len(lower) < dim || len(upper) < dim {
		return nil, 0, fmt.Errorf("bounds cover %d/%d dimensions, need %d", len(lower), len(upper), dim)
	}

	rng := rand.New(rand.NewSource(r.seed))

	// Uniform random starting point inside the box.
	best := make([]float64, dim)
	for i := range best {
		best[i] = lower[i] + rng.Float64()*(upper[i]-lower[i])
	}
	bestCost := eval(best)

	radius := 0.25 // fraction of the box width
	stale := 0

	for iter := 1; iter <= r.maxIters; iter++ {
		cand := make([]float64, dim)
		for i := range cand {
			width := upper[i] - lower[i]
			cand[i] = clamp(best[i]+rng.NormFloat64()*radius*width, lower[i], upper[i])
		}

		cost := eval(cand)
		if cost < bestCost {
			best, bestCost = cand, cost
			stale = 0
		} else {
			stale++
			if stale >= staleBeforeShrink && radius > minRadius {
				radius *= 0.5
				stale = 0
				slog.Debug("Shrinking search radius", "radius", radius, "iteration", iter)
			}
		}

		if onIter != nil {
			stop, err := onIter(best, bestCost)
			if err != nil {
				return best, bestCost, err
			}
			if stop {
				slog.Info("Stopping search early", "iteration", iter, "best_cost", bestCost)
				return best, bestCost, nil
			}
		}
	}

	return best, bestCost, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
