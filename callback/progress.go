package callback

import (
	"fmt"
	"io"
	"math"
	"os"
)

// headerEvery is the number of data rows between repeated header lines.
const headerEvery = 50

// LogProgress is an action that prints one fixed-width row per firing with
// the iteration count, the current objective value, and the running lowest
// and highest values seen so far. A header row is repeated every 50 rows
// so long runs stay readable when scrolling.
type LogProgress struct {
	w       io.Writer
	count   int
	lowest  float64
	highest float64
}

// NewLogProgress creates a progress logger writing to w. A nil writer
// defaults to standard output.
func NewLogProgress(w io.Writer) *LogProgress {
	if w == nil {
		w = os.Stdout
	}
	return &LogProgress{
		w:       w,
		lowest:  math.Inf(1),
		highest: math.Inf(-1),
	}
}

// Apply updates the running extremes and prints one row. The extremes are
// updated with <= and >= so a value equal to the stored extreme replaces
// it; this keeps behavior well defined for repeated values and for NaN
// inputs, where < and <= disagree.
func (p *LogProgress) Apply(_ any, value float64, t int, _ any) error {
	if p.count%headerEvery == 0 {
		if _, err := fmt.Fprintf(p.w, "%8s  %14s  %14s  %14s\n",
			"iter", "value", "lowest", "highest"); err != nil {
			return err
		}
	}
	p.count++

	if value <= p.lowest {
		p.lowest = value
	}
	if value >= p.highest {
		p.highest = value
	}

	_, err := fmt.Fprintf(p.w, "%8d  %14.6e  %14.6e  %14.6e\n",
		t, value, p.lowest, p.highest)
	return err
}

// Reset clears the row counter and the running extremes.
func (p *LogProgress) Reset() {
	p.count = 0
	p.lowest = math.Inf(1)
	p.highest = math.Inf(-1)
}

// Lowest returns the smallest value seen since construction or the last
// Reset; +Inf before the first firing.
func (p *LogProgress) Lowest() float64 {
	return p.lowest
}

// Highest returns the largest value seen since construction or the last
// Reset; -Inf before the first firing.
func (p *LogProgress) Highest() float64 {
	return p.highest
}
