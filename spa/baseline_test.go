package spa

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeBaselineStaysBelowPeak(t *testing.T) {
	n := 200
	y := make([]float64, n)
	for i := range y {
		y[i] = 5
	}
	// inject a narrow Gaussian-like peak
	for i := 90; i < 110; i++ {
		d := float64(i - 100)
		y[i] += 500 * math.Exp(-d*d/20)
	}

	est := BaselineEstimator{}
	baseline, lightly, err := est.ComputeBaseline(y, 50)
	require.NoError(t, err)
	require.Len(t, baseline, n)
	require.Len(t, lightly, n)

	for i := 95; i < 105; i++ {
		assert.Less(t, baseline[i], y[i])
	}
	for _, v := range baseline {
		assert.GreaterOrEqual(t, v, 0.0)
	}
}
