package barni

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// SensorModel is the detector resolution/response model the core treats as
// a read-only, externally supplied collaborator (spec.md §6). GaussianModel
// is the one concrete implementation the core ships; the core itself only
// ever depends on the SensorModel interface.
type SensorModel interface {
	// Resolution returns the Gaussian standard deviation at energy e.
	Resolution(e float64) (float64, error)
	// Response returns the per-bin integral of a Gaussian of the given
	// intensity centered at center, evaluated against edges.
	Response(center, intensity float64, edges []float64) ([]float64, error)
	// ResponseIntegral integrates a piecewise-linear flux over [e1, e2]
	// convolved with the Gaussian kernel, via composite Simpson's rule.
	ResponseIntegral(e1, e2, i1, i2 float64, edges []float64) ([]float64, error)
}

// GaussianModel parametrizes detector resolution as sigma(e) = (A + B*e)^C.
type GaussianModel struct {
	Resolution0     float64 // R: FWHM/energy at RefEnergy
	RefEnergy       float64 // E0
	ElectronicNoise float64 // eta: FWHM at zero energy
	WideningPower   float64 // C

	a float64
	b float64
}

// NewGaussianModel constructs a GaussianModel and derives its A/B
// coefficients from the resolution parameters.
func NewGaussianModel(resolution, refEnergy, electronicNoise, wideningPower float64) (*GaussianModel, error) {
	if wideningPower == 0 || refEnergy <= 0 {
		return nil, WrapErr("SensorModel", ErrDomain)
	}
	g := &GaussianModel{
		Resolution0:     resolution,
		RefEnergy:       refEnergy,
		ElectronicNoise: electronicNoise,
		WideningPower:   wideningPower,
	}
	g.updateCoefficients()
	if g.a < 0 {
		return nil, WrapErr("SensorModel", ErrDomain)
	}
	return g, nil
}

func (g *GaussianModel) updateCoefficients() {
	fwhmRef := g.Resolution0 * g.RefEnergy
	fwhm0 := g.ElectronicNoise
	c := g.WideningPower
	g.a = math.Pow(fwhm0/2.355, 1/c)
	g.b = (math.Pow(fwhmRef/2.355, 1/c) - g.a) / g.RefEnergy
}

// Resolution implements SensorModel. sigma(e) = (A + B*e)^C.
func (g *GaussianModel) Resolution(e float64) (float64, error) {
	if e < 0 {
		return 0, WrapErr("SensorModel.Resolution", ErrDomain)
	}
	return math.Pow(g.a+g.b*e, g.WideningPower), nil
}

// Response implements SensorModel. It evaluates the Gaussian CDF at each
// bin edge and scales by intensity, so Response(e, 1, edges) sums to ~1.
func (g *GaussianModel) Response(center, intensity float64, edges []float64) ([]float64, error) {
	sigma, err := g.Resolution(center)
	if err != nil {
		return nil, err
	}
	if sigma <= 0 {
		return nil, WrapErr("SensorModel.Response", ErrNumerical)
	}
	nd := distuv.Normal{Mu: center, Sigma: sigma}
	out := make([]float64, len(edges)-1)
	prev := nd.CDF(edges[0])
	for i := 0; i < len(out); i++ {
		next := nd.CDF(edges[i+1])
		out[i] = intensity * (next - prev)
		prev = next
	}
	return out, nil
}

// ResponseIntegral implements SensorModel using composite Simpson's rule to
// integrate a piecewise-linear flux (e1,i1)-(e2,i2) convolved with the
// Gaussian response kernel.
func (g *GaussianModel) ResponseIntegral(e1, e2, i1, i2 float64, edges []float64) ([]float64, error) {
	mid := (e1 + e2) / 2
	sigma, err := g.Resolution(mid)
	if err != nil {
		return nil, err
	}
	if sigma <= 0 {
		return nil, WrapErr("SensorModel.ResponseIntegral", ErrNumerical)
	}

	n := int(math.Ceil((e2 - e1) / (sigma / 2)))
	if n < 4 {
		n = 4
	}
	if n%2 != 0 {
		n++
	}
	h := (e2 - e1) / float64(n)

	out := make([]float64, len(edges)-1)
	accum := func(e, amp float64) error {
		if amp == 0 {
			return nil
		}
		r, err := g.Response(e, amp, edges)
		if err != nil {
			return err
		}
		for i := range out {
			out[i] += r[i]
		}
		return nil
	}

	if err := accum(e1, i1*h/3); err != nil {
		return nil, err
	}
	if err := accum(e2, i2*h/3); err != nil {
		return nil, err
	}
	for k := 1; k < n; k++ {
		weight := 2.0
		if k%2 != 0 {
			weight = 4.0
		}
		e := e1 + float64(k)*h
		f := (e - e1) / (e2 - e1)
		flux := i1*(1-f) + f*i2
		if err := accum(e, flux*h/3*weight); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// gaussPDF is the Gaussian probability density, used by the ROI
// first-moment calculation in PeakResult.IntegralOverROI.
func gaussPDF(x, mu, sigma float64) float64 {
	return math.Exp(-0.5*math.Pow((x-mu)/sigma, 2)) / (sigma * math.Sqrt(2*math.Pi))
}
