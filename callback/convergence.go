package callback

import (
	"fmt"
	"log/slog"
	"math"
)

// StopBelow returns a stop predicate that halts the loop once the
// objective value drops below target.
func StopBelow(target float64) StopFunc {
	return func(_ any, value float64, _ int, _ any) bool {
		return value < target
	}
}

// StallTracker detects a stalled optimization: after patience consecutive
// invocations without a relative improvement of at least threshold over
// the last significant value, its Stop predicate reports true.
//
// The tracker is a borrowed collaborator, not owned by any Callback, so
// Callback.Reset does not touch it; call Reset here explicitly when
// reusing a tracker across runs.
type StallTracker struct {
	patience  int
	threshold float64

	best            float64
	lastSignificant float64
	stale           int
	seen            int
}

// NewStallTracker creates a tracker that stops after patience invocations
// with relative improvement below threshold. Patience must be positive and
// threshold non-negative.
func NewStallTracker(patience int, threshold float64) (*StallTracker, error) {
	if patience <= 0 {
		return nil, fmt.Errorf("stall patience must be positive, got %d", patience)
	}
	if threshold < 0 {
		return nil, fmt.Errorf("stall threshold must be non-negative, got %g", threshold)
	}
	return &StallTracker{
		patience:        patience,
		threshold:       threshold,
		best:            math.Inf(1),
		lastSignificant: math.Inf(1),
	}, nil
}

// Stop is a StopFunc. It records the value and reports whether the run has
// stalled for at least patience invocations.
func (s *StallTracker) Stop(_ any, value float64, _ int, _ any) bool {
	s.seen++
	if value < s.best {
		s.best = value
	}

	// First value only establishes the baseline.
	if s.seen == 1 {
		s.lastSignificant = value
		return false
	}

	improvement := (s.lastSignificant - value) / s.lastSignificant
	if improvement >= s.threshold {
		s.lastSignificant = value
		s.stale = 0
		return false
	}

	s.stale++
	if s.stale >= s.patience {
		slog.Debug("optimization stalled",
			"best", s.best,
			"last_significant", s.lastSignificant,
			"stale", s.stale,
			"patience", s.patience,
		)
		return true
	}
	return false
}

// Best returns the lowest value seen since construction or the last Reset.
func (s *StallTracker) Best() float64 {
	return s.best
}

// Reset returns the tracker to its construction-time state.
func (s *StallTracker) Reset() {
	s.best = math.Inf(1)
	s.lastSignificant = math.Inf(1)
	s.stale = 0
	s.seen = 0
}
