package xmlio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LLNL/barni"
)

func buildSpectrum(t *testing.T) *barni.Spectrum {
	t.Helper()
	es, err := barni.NewEnergyScale([]float64{0, 10, 20, 30})
	require.NoError(t, err)
	s, err := barni.NewSpectrum([]float64{1, 2, 3}, es, 100, 120)
	require.NoError(t, err)
	s.Distance = 50
	s.GammaDose = 0.2
	s.Title = "test-spectrum"
	return s
}

func TestSpectrumWriteReadRoundTrip(t *testing.T) {
	s := buildSpectrum(t)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, s, "sample", false))

	ctx := NewReaderContext()
	v, err := ctx.Load(&buf)
	require.NoError(t, err)

	got, ok := v.(*barni.Spectrum)
	require.True(t, ok)
	assert.Equal(t, s.Counts, got.Counts)
	assert.Equal(t, s.EnergyScale.Edges(), got.EnergyScale.Edges())
	assert.InDelta(t, s.Livetime, got.Livetime, 1e-9)
	assert.InDelta(t, s.Realtime, got.Realtime, 1e-9)
	assert.InDelta(t, s.Distance, got.Distance, 1e-9)
	assert.InDelta(t, s.GammaDose, got.GammaDose, 1e-9)
}

func TestPeakResultWriteReadRoundTrip(t *testing.T) {
	sensor, err := barni.NewGaussianModel(0.08, 300, 1, 0.6)
	require.NoError(t, err)

	pr := &barni.PeakResult{
		Peaks: []barni.Peak{
			{Energy: 300, Intensity: 1500, Baseline: 20, Width: 4},
			{Energy: 600, Intensity: 700, Baseline: 10, Width: 5},
		},
		Continuum: buildSpectrum(t),
		Sensor:    sensor,
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, pr, "sample", false))

	ctx := NewReaderContext()
	v, err := ctx.Load(&buf)
	require.NoError(t, err)

	got, ok := v.(*barni.PeakResult)
	require.True(t, ok)
	require.Len(t, got.Peaks, 2)
	assert.InDelta(t, 300, got.Peaks[0].Energy, 1e-9)
	assert.InDelta(t, 1500, got.Peaks[0].Intensity, 1e-9)
	require.NotNil(t, got.Continuum)
	assert.Equal(t, pr.Continuum.Counts, got.Continuum.Counts)

	gm, ok := got.Sensor.(*barni.GaussianModel)
	require.True(t, ok)
	assert.InDelta(t, sensor.Resolution0, gm.Resolution0, 1e-9)
	assert.InDelta(t, sensor.RefEnergy, gm.RefEnergy, 1e-9)
	assert.InDelta(t, sensor.ElectronicNoise, gm.ElectronicNoise, 1e-9)
	assert.InDelta(t, sensor.WideningPower, gm.WideningPower, 1e-9)
}

func TestPeakResultsWithIntrinsicRoundTrip(t *testing.T) {
	sensor, err := barni.NewGaussianModel(0.08, 300, 1, 0.6)
	require.NoError(t, err)

	sample := &barni.PeakResult{
		Peaks:     []barni.Peak{{Energy: 300, Intensity: 1500, Baseline: 20, Width: 4}},
		Continuum: buildSpectrum(t),
		Sensor:    sensor,
	}
	intrinsic := &barni.PeakResult{
		Peaks:     []barni.Peak{{Energy: 300, Intensity: 80, Baseline: 5, Width: 4}},
		Continuum: buildSpectrum(t),
		Sensor:    sensor,
	}
	results := &barni.PeakResults{Sample: sample, Intrinsic: intrinsic, HasIntrinsic: true, ScaleFactor: 0.5}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, results, "", false))

	ctx := NewReaderContext()
	v, err := ctx.Load(&buf)
	require.NoError(t, err)

	got, ok := v.(*barni.PeakResults)
	require.True(t, ok)
	require.NotNil(t, got.Sample)
	require.True(t, got.HasIntrinsic)
	require.NotNil(t, got.Intrinsic)
	assert.InDelta(t, 0.5, got.ScaleFactor, 1e-9)
	assert.InDelta(t, 300, got.Sample.Peaks[0].Energy, 1e-9)
	assert.InDelta(t, 80, got.Intrinsic.Peaks[0].Intensity, 1e-9)
}

func TestLoadDetectsGzipEnvelope(t *testing.T) {
	s := buildSpectrum(t)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, s, "sample", true))
	require.Equal(t, byte(0x1f), buf.Bytes()[0])
	require.Equal(t, byte(0x8b), buf.Bytes()[1])

	ctx := NewReaderContext()
	v, err := ctx.Load(&buf)
	require.NoError(t, err)

	got, ok := v.(*barni.Spectrum)
	require.True(t, ok)
	assert.Equal(t, s.Counts, got.Counts)
}

func TestLoadRejectsUnknownRootElement(t *testing.T) {
	ctx := NewReaderContext()
	_, err := ctx.Load(strings.NewReader("<Mystery><value>1</value></Mystery>"))
	require.Error(t, err)
}

func TestReadSpectrumRequiresCounts(t *testing.T) {
	ctx := NewReaderContext()
	_, err := ctx.Load(strings.NewReader(`<Spectrum name="sample"><EnergyScale><edges>0 10 20</edges></EnergyScale></Spectrum>`))
	require.Error(t, err)
}

func TestReadGaussianSensorModelRequiresAllFields(t *testing.T) {
	ctx := NewReaderContext()
	_, err := ctx.Load(strings.NewReader(`<GaussianSensorModel><resolution>0.08</resolution></GaussianSensorModel>`))
	require.Error(t, err)
}
