package spa

import (
	"math"
	"sort"

	"github.com/LLNL/barni"
)

// PeakProposer scans a baseline-subtracted profile for candidate photopeaks.
type PeakProposer struct{}

// Propose walks u-b looking for local maxima above a significance threshold,
// sub-bin interpolates their centroid, discards anything below the
// low-level discriminator energy, and merges candidates that sit within one
// FWHM of each other (spec §4.5).
func (PeakProposer) Propose(u, b []float64, es *barni.EnergyScale, sensor barni.SensorModel, lld float64) ([]barni.Peak, error) {
	n := len(u)
	if n != len(b) || n != es.Len() {
		return nil, barni.WrapErr("PeakProposer.Propose", barni.ErrShapeMismatch)
	}

	resid := make([]float64, n)
	for i := range resid {
		resid[i] = u[i] - b[i]
	}

	var candidates []barni.Peak

	rising := true
	for i := 2; i < n-1; i++ {
		if resid[i] > resid[i-1] {
			rising = true
			continue
		}
		if !rising {
			continue
		}
		// transition rising -> falling: i-1 is the local maximum (apex).
		rising = false

		apex := i - 1
		current := resid[apex]
		denom := math.Max(b[apex], 1)
		if current/math.Sqrt(denom) <= 1 {
			continue
		}

		p1 := (resid[i] + current) / 2
		p2 := (resid[i-2] + current) / 2
		if p2 < 0 {
			p2 = 0
		}
		if p1 < 0 {
			p1 = 0
		}
		var f float64
		if p1+p2 > 0 {
			f = 0.5 * (p2 - p1) / (p2 + p1)
		}
		channel := float64(apex) + f
		energy := es.FindEnergy(channel)
		if energy < lld {
			continue
		}

		candidates = append(candidates, barni.Peak{
			Energy:    energy,
			Intensity: current,
		})
	}

	return mergeCandidates(candidates, sensor)
}

func mergeCandidates(candidates []barni.Peak, sensor barni.SensorModel) ([]barni.Peak, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Energy < candidates[j].Energy })

	out := []barni.Peak{candidates[0]}
	for _, next := range candidates[1:] {
		cur := out[len(out)-1]
		sigma, err := sensor.Resolution(cur.Energy)
		if err != nil {
			return nil, err
		}
		if math.Abs(next.Energy-cur.Energy) >= 2.35*sigma {
			out = append(out, next)
			continue
		}
		total := cur.Intensity + next.Intensity
		var w float64
		if total > 0 {
			w = cur.Intensity / total
		}
		merged := barni.Peak{
			Energy:    w*cur.Energy + (1-w)*next.Energy,
			Intensity: total,
		}
		out[len(out)-1] = merged
	}
	return out, nil
}
