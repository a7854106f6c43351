package callback

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func headerLines(out string) int {
	count := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "iter") && strings.Contains(line, "lowest") {
			count++
		}
	}
	return count
}

func TestLogProgressTracksExtremes(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogProgress(&buf)

	values := []float64{10.0, 3.0, 7.0}
	for i, v := range values {
		require.NoError(t, p.Apply(nil, v, i+1, nil))
	}

	assert.Equal(t, 3.0, p.Lowest())
	assert.Equal(t, 10.0, p.Highest())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4, "header plus one row per call")
	assert.Contains(t, lines[0], "iter")
	assert.Contains(t, lines[1], "1.000000e+01")
	assert.Contains(t, lines[2], "3.000000e+00")
}

func TestLogProgressHeaderEveryFifty(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogProgress(&buf)

	for i := 1; i <= 51; i++ {
		require.NoError(t, p.Apply(nil, 1.0, i, nil))
	}

	// Headers before rows 1 and 51 (internal counter 0 and 50).
	assert.Equal(t, 2, headerLines(buf.String()))
	assert.Len(t, strings.Split(strings.TrimRight(buf.String(), "\n"), "\n"), 53)
}

func TestLogProgressInitialExtremes(t *testing.T) {
	p := NewLogProgress(nil)

	assert.True(t, math.IsInf(p.Lowest(), 1))
	assert.True(t, math.IsInf(p.Highest(), -1))
}

func TestLogProgressReset(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogProgress(&buf)

	require.NoError(t, p.Apply(nil, 5.0, 1, nil))
	p.Reset()

	assert.True(t, math.IsInf(p.Lowest(), 1))
	assert.True(t, math.IsInf(p.Highest(), -1))

	// Counter restarted: the next row gets a fresh header.
	buf.Reset()
	require.NoError(t, p.Apply(nil, 5.0, 1, nil))
	assert.Equal(t, 1, headerLines(buf.String()))
}
