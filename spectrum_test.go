package barni

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScale(t *testing.T) *EnergyScale {
	t.Helper()
	es, err := NewEnergyScale([]float64{0, 10, 20, 30, 40, 50})
	require.NoError(t, err)
	return es
}

func TestNewSpectrumShapeMismatch(t *testing.T) {
	es := newTestScale(t)
	_, err := NewSpectrum([]float64{1, 2, 3}, es, 100, 100)
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestNewSpectrumNegativeLivetime(t *testing.T) {
	es := newTestScale(t)
	_, err := NewSpectrum(make([]float64, es.Len()), es, -1, 100)
	require.ErrorIs(t, err, ErrDomain)
}

func TestSpectrumIntegralFullRange(t *testing.T) {
	es := newTestScale(t)
	counts := []float64{10, 20, 30, 40, 50}
	s, err := NewSpectrum(counts, es, 100, 100)
	require.NoError(t, err)

	total := s.Integral(0, 50)
	assert.InDelta(t, 150, total, 1e-9)
}

func TestSpectrumIntegralPartialBin(t *testing.T) {
	es := newTestScale(t)
	counts := []float64{10, 20, 30, 40, 50}
	s, err := NewSpectrum(counts, es, 100, 100)
	require.NoError(t, err)

	// half of bin 0 plus all of bin 1
	got := s.Integral(5, 20)
	assert.InDelta(t, 5+20, got, 1e-9)
}

func TestSpectrumDownsample(t *testing.T) {
	es := newTestScale(t)
	counts := []float64{10, 20, 30, 40, 50}
	s, err := NewSpectrum(counts, es, 100, 100)
	require.NoError(t, err)

	_, err = s.Downsample()
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestSpectrumCopyIsIndependent(t *testing.T) {
	es := newTestScale(t)
	counts := []float64{10, 20, 30, 40, 50}
	s, err := NewSpectrum(counts, es, 100, 100)
	require.NoError(t, err)

	cp := s.Copy()
	cp.Counts[0] = 999
	assert.NotEqual(t, s.Counts[0], cp.Counts[0])
}
