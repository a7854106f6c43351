package opt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectiveMinima(t *testing.T) {
	tests := []struct {
		name   string
		minAt  []float64
		sample []float64
		want   float64
	}{
		{name: "sphere", minAt: []float64{0, 0, 0}, sample: []float64{1, 2}, want: 5},
		{name: "rosenbrock", minAt: []float64{1, 1, 1}, sample: []float64{0, 0}, want: 1},
		{name: "rastrigin", minAt: []float64{0, 0}, sample: []float64{1, 1}, want: 2},
		{name: "ackley", minAt: []float64{0, 0}, sample: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := ByName(tt.name)
			require.NoError(t, err)

			assert.InDelta(t, obj.Best, obj.Eval(tt.minAt), 1e-9, "cost at the global minimum")
			if tt.sample != nil {
				assert.InDelta(t, tt.want, obj.Eval(tt.sample), 1e-9)
			}
		})
	}
}

func TestByNameUnknown(t *testing.T) {
	_, err := ByName("banana")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sphere")
}

func TestObjectiveBounds(t *testing.T) {
	obj, err := ByName("sphere")
	require.NoError(t, err)

	lower, upper := obj.Bounds(3)
	assert.Equal(t, []float64{-5.12, -5.12, -5.12}, lower)
	assert.Equal(t, []float64{5.12, 5.12, 5.12}, upper)
}
