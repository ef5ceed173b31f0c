package spa

import "github.com/LLNL/barni"

// Config holds the tunables of the analysis pipeline: the smoothing scale
// is normalized by bin density, and the low-level discriminator filters
// out peaks too close to electronic noise.
type Config struct {
	SmoothingFactor float64
	StartEnergy     float64
}

// SPA is the smooth peak analysis orchestrator: it drives the
// baseline/proposer/fitter/solver stages and assembles the final
// PeakResult (spec §4.9).
type SPA struct {
	Config   Config
	Baseline BaselineEstimator
	Proposer PeakProposer
	Fitter   PeakFitter
	Solver   AugmentedSolver
}

// NewSPA returns an SPA with the given configuration and default stage
// implementations.
func NewSPA(cfg Config) *SPA {
	return &SPA{Config: cfg}
}

// Analyze decomposes spectrum into a continuum and a set of peaks.
func (s *SPA) Analyze(spectrum *barni.Spectrum, sensor barni.SensorModel) (*barni.PeakResult, error) {
	edges := spectrum.EnergyScale.Edges()
	n := spectrum.EnergyScale.Len()
	mu := s.Config.SmoothingFactor * float64(n) / (edges[n] - edges[0])
	lldChannel := spectrum.EnergyScale.FindBin(s.Config.StartEnergy)

	baseline, lightly, err := s.Baseline.ComputeBaseline(spectrum.Counts, mu)
	if err != nil {
		return nil, err
	}

	proposed, err := s.Proposer.Propose(lightly, baseline, spectrum.EnergyScale, sensor, s.Config.StartEnergy)
	if err != nil {
		return nil, err
	}

	continuumSpectrum := &barni.Spectrum{Counts: baseline, EnergyScale: spectrum.EnergyScale}

	if len(proposed) == 0 {
		return &barni.PeakResult{Peaks: nil, Continuum: continuumSpectrum, Sensor: sensor}, nil
	}

	triples, err := s.Fitter.ExpandTriples(proposed, sensor)
	if err != nil {
		return nil, err
	}
	triples, err = s.Fitter.ResponseKernels(triples, sensor, edges)
	if err != nil {
		return nil, err
	}

	b, a, err := s.Solver.Solve(spectrum.Counts, triples, mu, lldChannel)
	if err != nil {
		return nil, err
	}

	peaks, err := s.Fitter.CombineTriples(triples, a, spectrum.EnergyScale)
	if err != nil {
		return nil, err
	}

	continuumSpectrum = &barni.Spectrum{Counts: b, EnergyScale: spectrum.EnergyScale}
	for i := range peaks {
		peaks[i].Baseline = continuumSpectrum.Integral(peaks[i].Energy-peaks[i].Width, peaks[i].Energy+peaks[i].Width)
	}

	return &barni.PeakResult{Peaks: peaks, Continuum: continuumSpectrum, Sensor: sensor}, nil
}

// AnalyzeInput runs Analyze on the sample and, if present, the intrinsic
// spectrum, reporting the livetime scale factor between the two (spec §6).
func (s *SPA) AnalyzeInput(input barni.IdentificationInput, sensor barni.SensorModel) (*barni.PeakResults, error) {
	sampleResult, err := s.Analyze(input.Sample, sensor)
	if err != nil {
		return nil, err
	}

	out := &barni.PeakResults{Sample: sampleResult}
	if input.Intrinsic == nil {
		return out, nil
	}

	intrinsicResult, err := s.Analyze(input.Intrinsic, sensor)
	if err != nil {
		return nil, err
	}
	out.Intrinsic = intrinsicResult
	out.HasIntrinsic = true
	if input.Intrinsic.Livetime > 0 {
		out.ScaleFactor = input.Sample.Livetime / input.Intrinsic.Livetime
	}
	return out, nil
}
