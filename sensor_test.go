package barni

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGaussianModelRejectsZeroWideningPower(t *testing.T) {
	_, err := NewGaussianModel(0.08, 662, 1, 0)
	require.ErrorIs(t, err, ErrDomain)
}

func TestGaussianModelResolutionIncreasesWithEnergy(t *testing.T) {
	g, err := NewGaussianModel(0.08, 662, 1, 0.6)
	require.NoError(t, err)

	low, err := g.Resolution(50)
	require.NoError(t, err)
	high, err := g.Resolution(1500)
	require.NoError(t, err)
	assert.Greater(t, high, low)
}

func TestGaussianModelResponseNormalization(t *testing.T) {
	g, err := NewGaussianModel(0.08, 662, 1, 0.6)
	require.NoError(t, err)

	sigma, err := g.Resolution(662)
	require.NoError(t, err)

	edges := make([]float64, 0, 400)
	for e := 662 - 10*sigma; e <= 662+10*sigma; e += sigma / 20 {
		edges = append(edges, e)
	}

	resp, err := g.Response(662, 1, edges)
	require.NoError(t, err)

	sum := 0.0
	for _, v := range resp {
		sum += v
	}
	assert.InDelta(t, 1, sum, 1e-6)
}

func TestGaussianModelResponseIntegralMatchesPointResponseOnFlatFlux(t *testing.T) {
	g, err := NewGaussianModel(0.08, 662, 1, 0.6)
	require.NoError(t, err)

	sigma, err := g.Resolution(662)
	require.NoError(t, err)
	edges := make([]float64, 0, 400)
	for e := 662 - 10*sigma; e <= 662+10*sigma; e += sigma / 20 {
		edges = append(edges, e)
	}

	integral, err := g.ResponseIntegral(661, 663, 1, 1, edges)
	require.NoError(t, err)

	sum := 0.0
	for _, v := range integral {
		sum += v
	}
	assert.InDelta(t, 2, sum, 1e-2)
}
