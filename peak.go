package barni

import "math"

// Peak is a single photopeak (or an ROI aggregate, which reuses the same
// shape): centroid energy, integrated intensity, continuum baseline under
// the peak, and Gaussian width (sigma) at the peak's energy.
type Peak struct {
	Energy    float64
	Intensity float64
	Baseline  float64
	Width     float64
}

// RegionOfInterest is a half-open energy interval [Lower, Upper).
type RegionOfInterest struct {
	Lower float64
	Upper float64
}

// Contains reports whether e falls in [Lower, Upper).
func (r RegionOfInterest) Contains(e float64) bool {
	return e >= r.Lower && e < r.Upper
}

// PeakResult is the output of a peak-analysis pass over one spectrum: the
// ordered (ascending energy) peak list, the estimated smooth continuum, and
// the sensor model used to produce the response kernels.
type PeakResult struct {
	Peaks     []Peak
	Continuum *Spectrum
	Sensor    SensorModel
}

// IntegralOverROI sums every peak whose energy lies within 4 sigma of the
// ROI into a single synthetic Peak: intensity via the Gaussian error
// function, baseline via the continuum integral, and energy as an
// intensity-weighted first moment.
func (r *PeakResult) IntegralOverROI(roi RegionOfInterest) Peak {
	e1, e2 := roi.Lower, roi.Upper
	root2 := math.Sqrt2

	var intensity, energy float64
	for _, p := range r.Peaks {
		if p.Energy > e2 && (p.Energy-e2)/p.Width > 4 {
			continue
		}
		if p.Energy < e1 && (e1-p.Energy)/p.Width > 4 {
			continue
		}
		t2 := math.Erf((e2 - p.Energy) / p.Width / root2)
		t1 := math.Erf((e1 - p.Energy) / p.Width / root2)
		contribution := (t2 - t1) * p.Intensity / 2
		intensity += contribution
		energy += p.Intensity * (p.Energy/2*(t2-t1) -
			p.Width*p.Width*(gaussPDF(e2, p.Energy, p.Width)-gaussPDF(e1, p.Energy, p.Width)))
	}
	if intensity > 0 {
		energy /= intensity
	}

	baseline := 0.0
	if r.Continuum != nil {
		baseline = math.Max(0, r.Continuum.Integral(e1, e2))
	}

	return Peak{Energy: energy, Intensity: intensity, Baseline: baseline}
}

// Fit reconstructs the fitted spectrum: continuum plus every peak's Gaussian
// response, useful for residual/round-trip checks.
func (r *PeakResult) Fit() (*Spectrum, error) {
	edges := r.Continuum.EnergyScale.Edges()
	out := make([]float64, len(r.Continuum.Counts))
	copy(out, r.Continuum.Counts)
	for _, p := range r.Peaks {
		resp, err := r.Sensor.Response(p.Energy, p.Intensity, edges)
		if err != nil {
			return nil, err
		}
		for i := range out {
			out[i] += resp[i]
		}
	}
	return &Spectrum{Counts: out, EnergyScale: r.Continuum.EnergyScale}, nil
}

// IdentificationInput is the core's entry point: a sample spectrum and an
// optional intrinsic-source spectrum used to compute a scale factor for
// intrinsic subtraction downstream (spec.md §6).
type IdentificationInput struct {
	Sample    *Spectrum
	Intrinsic *Spectrum
}

// PeakResults is the core's output: the sample PeakResult, an optional
// intrinsic PeakResult, and the scale factor between the two livetimes.
type PeakResults struct {
	Sample      *PeakResult
	Intrinsic   *PeakResult
	ScaleFactor float64
	HasIntrinsic bool
}
