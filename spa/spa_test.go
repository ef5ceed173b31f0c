package spa

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LLNL/barni"
)

func buildSyntheticSpectrum(t *testing.T, n int, sensor barni.SensorModel, peakEnergies []float64, amps []float64) *barni.Spectrum {
	t.Helper()
	edges := make([]float64, n+1)
	for i := range edges {
		edges[i] = float64(i) * 10
	}
	es, err := barni.NewEnergyScale(edges)
	require.NoError(t, err)

	counts := make([]float64, n)
	for i := range counts {
		counts[i] = 20
	}
	for k, pe := range peakEnergies {
		sigma, err := sensor.Resolution(pe)
		require.NoError(t, err)
		for i := 0; i < n; i++ {
			c := es.Center(i)
			d := c - pe
			counts[i] += amps[k] * math.Exp(-d*d/(2*sigma*sigma))
		}
	}

	s, err := barni.NewSpectrum(counts, es, 100, 100)
	require.NoError(t, err)
	return s
}

func TestSPAAnalyzeSinglePeak(t *testing.T) {
	sensor, err := barni.NewGaussianModel(0.08, 300, 1, 0.6)
	require.NoError(t, err)
	spectrum := buildSyntheticSpectrum(t, 60, sensor, []float64{300}, []float64{3000})

	s := NewSPA(Config{SmoothingFactor: 0.01, StartEnergy: 0})
	result, err := s.Analyze(spectrum, sensor)
	require.NoError(t, err)
	require.NotEmpty(t, result.Peaks)

	for _, p := range result.Peaks {
		assert.GreaterOrEqual(t, p.Energy, 0.0)
		assert.LessOrEqual(t, p.Energy, spectrum.EnergyScale.Edges()[spectrum.EnergyScale.Len()])
		assert.GreaterOrEqual(t, p.Intensity, 0.0)
		assert.Greater(t, p.Width, 0.0)
		assert.GreaterOrEqual(t, p.Baseline, 0.0)
	}

	for i := 1; i < len(result.Peaks); i++ {
		assert.Less(t, result.Peaks[i-1].Energy, result.Peaks[i].Energy)
	}

	for _, v := range result.Continuum.Counts {
		assert.GreaterOrEqual(t, v, 0.0)
	}
}

func TestSPAAnalyzeEmptySpectrumFitsOnlyContinuum(t *testing.T) {
	sensor, err := barni.NewGaussianModel(0.08, 300, 1, 0.6)
	require.NoError(t, err)

	n := 40
	edges := make([]float64, n+1)
	for i := range edges {
		edges[i] = float64(i) * 10
	}
	es, err := barni.NewEnergyScale(edges)
	require.NoError(t, err)
	counts := make([]float64, n)
	for i := range counts {
		counts[i] = 5
	}
	spectrum, err := barni.NewSpectrum(counts, es, 100, 100)
	require.NoError(t, err)

	s := NewSPA(Config{SmoothingFactor: 0.01, StartEnergy: 0})
	result, err := s.Analyze(spectrum, sensor)
	require.NoError(t, err)
	assert.Empty(t, result.Peaks)
	require.NotNil(t, result.Continuum)
}

func TestSPAAnalyzeInputComputesScaleFactor(t *testing.T) {
	sensor, err := barni.NewGaussianModel(0.08, 300, 1, 0.6)
	require.NoError(t, err)
	sample := buildSyntheticSpectrum(t, 60, sensor, []float64{300}, []float64{3000})
	sample.Livetime = 100

	intrinsic := buildSyntheticSpectrum(t, 60, sensor, []float64{300}, []float64{300})
	intrinsic.Livetime = 50

	s := NewSPA(Config{SmoothingFactor: 0.01, StartEnergy: 0})
	results, err := s.AnalyzeInput(barni.IdentificationInput{Sample: sample, Intrinsic: intrinsic}, sensor)
	require.NoError(t, err)
	require.True(t, results.HasIntrinsic)
	assert.InDelta(t, 2, results.ScaleFactor, 1e-9)
}
