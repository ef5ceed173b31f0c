package spa

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LLNL/barni"
)

func TestAugmentedSolverReconstructsSignal(t *testing.T) {
	n := 60
	edges := make([]float64, n+1)
	for i := range edges {
		edges[i] = float64(i) * 10
	}
	es, err := barni.NewEnergyScale(edges)
	require.NoError(t, err)

	sensor, err := barni.NewGaussianModel(0.08, 300, 1, 0.6)
	require.NoError(t, err)

	y := make([]float64, n)
	for i := range y {
		y[i] = 20
	}
	peakEnergy := 300.0
	sigma, err := sensor.Resolution(peakEnergy)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		c := es.Center(i)
		d := c - peakEnergy
		y[i] += 2000 * math.Exp(-d*d/(2*sigma*sigma))
	}

	proposed := []barni.Peak{{Energy: peakEnergy, Intensity: 2000}}
	fitter := PeakFitter{}
	triples, err := fitter.ExpandTriples(proposed, sensor)
	require.NoError(t, err)
	triples, err = fitter.ResponseKernels(triples, sensor, edges)
	require.NoError(t, err)

	b, a, err := AugmentedSolver{}.Solve(y, triples, 0.01, 0)
	require.NoError(t, err)
	require.Len(t, b, n)
	require.Len(t, a, 3)

	for _, v := range a {
		assert.GreaterOrEqual(t, v, 0.0)
	}

	recon := make([]float64, n)
	copy(recon, b)
	for j, tr := range triples {
		for i := range recon {
			recon[i] += a[j] * tr.Kernel[i]
		}
	}

	var num, den float64
	for i := range y {
		diff := y[i] - recon[i]
		num += diff * diff
		den += y[i] * y[i]
	}
	relErr := math.Sqrt(num / den)
	assert.Less(t, relErr, 0.1)
}

func TestAugmentedSolverEmptyTriplesIsEmptyPeakSet(t *testing.T) {
	_, _, err := AugmentedSolver{}.Solve([]float64{1, 2, 3}, nil, 0.1, 0)
	require.ErrorIs(t, err, barni.ErrEmptyPeakSet)
}
