package spa

import "github.com/LLNL/barni"

// BaselineEstimator extracts a smooth continuum from a raw channel count
// profile by repeated asymmetric smoothing (spec §4.4).
type BaselineEstimator struct {
	Smoother Smoother
}

// ComputeBaseline returns (baseline, lightlySmoothed). mu is the heavy
// smoothing scale; a light pre-smoothing at 0.05*mu suppresses Poisson
// noise without erasing peaks, and two half-scale correction passes pull
// the estimate down into the valleys between peaks.
func (e BaselineEstimator) ComputeBaseline(y []float64, mu float64) (baseline, lightlySmoothed []float64, err error) {
	u, err := e.Smoother.Smooth(y, barni.ConstantLambda(0.05*mu))
	if err != nil {
		return nil, nil, err
	}

	x, err := e.Smoother.Smooth(u, barni.ConstantLambda(mu))
	if err != nil {
		return nil, nil, err
	}

	m := mu
	for pass := 0; pass < 2; pass++ {
		m /= 2
		resid := make([]float64, len(u))
		for i := range resid {
			v := u[i] - x[i]
			if v > 0 {
				v = 0
			}
			resid[i] = v
		}
		smoothedResid, err := e.Smoother.Smooth(resid, barni.ConstantLambda(m))
		if err != nil {
			return nil, nil, err
		}
		for i := range x {
			px := x[i]
			if px < 0 {
				px = 0
			}
			x[i] = smoothedResid[i] + px
		}
	}

	out := make([]float64, len(x))
	for i, v := range x {
		if v > 0 {
			out[i] = v
		}
	}
	return out, u, nil
}
