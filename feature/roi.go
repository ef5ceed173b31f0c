package feature

import (
	"math"
	"sort"

	"github.com/LLNL/barni"
)

// FilterPeakResults collects peaks from a set of PeakResults within
// [lower, upper] and above a signal-to-noise threshold on baseline,
// sorted ascending by energy. Used during region-of-interest definition
// for a new nuclide (spec.md §10 supplemented feature).
func FilterPeakResults(results []*barni.PeakResult, lower, upper, snr float64) []barni.Peak {
	var out []barni.Peak
	for _, r := range results {
		for _, p := range r.Peaks {
			if p.Energy < lower || p.Energy > upper {
				continue
			}
			if p.Baseline <= 0 || p.Intensity/math.Sqrt(p.Baseline) < snr {
				continue
			}
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Energy < out[j].Energy })
	return out
}

// DefineRegions is a heuristic, training-time procedure that groups a
// filtered peak list into a small set of regions of interest: it slides a
// window of decreasing scale over the sorted peak energies, and whenever the
// tightest window spans at most half the sensor resolution (sigma) at its
// center, carves it out as a region around the cluster mean whose half-width
// is the larger of 3 standard deviations of the cluster and
// 0.5*minWidth*resolution.
func DefineRegions(peaks []barni.Peak, sensor barni.SensorModel, limit int, fraction, minWidth float64) ([]barni.RegionOfInterest, error) {
	n := len(peaks)
	scales := []int{int(4 * float64(n) * fraction), int(2 * float64(n) * fraction), int(float64(n) * fraction)}

	var regions []barni.RegionOfInterest
	remaining := append([]barni.Peak(nil), peaks...)

	for _, scale := range scales {
		if scale <= 0 {
			continue
		}
		for len(remaining) > scale {
			energies := make([]float64, len(remaining))
			for i, p := range remaining {
				energies[i] = p.Energy
			}

			bestIdx, bestSpan := -1, math.Inf(1)
			for i := 0; i+scale < len(energies); i++ {
				span := energies[i+scale] - energies[i]
				if span < bestSpan {
					bestSpan = span
					bestIdx = i
				}
			}
			if bestIdx < 0 {
				break
			}
			center := (energies[bestIdx] + energies[bestIdx+scale]) / 2

			resolution, err := sensor.Resolution(center)
			if err != nil {
				return nil, err
			}
			if bestSpan > resolution/2 {
				break
			}

			roi := barni.RegionOfInterest{Lower: center - resolution/2, Upper: center + resolution/2}
			var cluster []float64
			for _, e := range energies {
				if roi.Contains(e) {
					cluster = append(cluster, e)
				}
			}
			mean, std := meanStd(cluster)
			width := math.Max(3*std, resolution*0.5*minWidth)
			final := barni.RegionOfInterest{Lower: mean - width, Upper: mean + width}

			var kept []barni.Peak
			for _, p := range remaining {
				if !final.Contains(p.Energy) {
					kept = append(kept, p)
				}
			}
			remaining = kept
			regions = append(regions, final)

			if len(regions) == limit {
				return regions, nil
			}
		}
	}
	return regions, nil
}

func meanStd(xs []float64) (mean, std float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	for _, x := range xs {
		d := x - mean
		std += d * d
	}
	std = math.Sqrt(std / float64(len(xs)))
	return mean, std
}
