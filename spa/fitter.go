package spa

import (
	"math"

	"github.com/LLNL/barni"
)

// triple is one of the three fit-basis elements a proposed peak expands
// into: an energy, a carried intensity (used only before the solve), and
// its unit-area response kernel.
type triple struct {
	Energy    float64
	Intensity float64
	Kernel    []float64
}

// PeakFitter expands proposed peaks into response-kernelled triples and
// later recombines solved amplitudes back into final peaks (spec §4.6, §4.8).
type PeakFitter struct{}

// ExpandTriples replaces each peak at e0 with three peaks at e0-sigma(e0),
// e0, e0+sigma(e0), each retaining the source intensity.
func (PeakFitter) ExpandTriples(peaks []barni.Peak, sensor barni.SensorModel) ([]triple, error) {
	out := make([]triple, 0, 3*len(peaks))
	for _, p := range peaks {
		sigma, err := sensor.Resolution(p.Energy)
		if err != nil {
			return nil, err
		}
		for _, e := range [3]float64{p.Energy - sigma, p.Energy, p.Energy + sigma} {
			out = append(out, triple{Energy: e, Intensity: p.Intensity})
		}
	}
	return out, nil
}

// ResponseKernels attaches to each triple element a unit-area response
// vector evaluated against the spectrum's bin edges.
func (PeakFitter) ResponseKernels(triples []triple, sensor barni.SensorModel, edges []float64) ([]triple, error) {
	for i := range triples {
		k, err := sensor.Response(triples[i].Energy, 1, edges)
		if err != nil {
			return nil, err
		}
		triples[i].Kernel = k
	}
	return triples, nil
}

// CombineTriples walks amplitude-attached triples in groups of three,
// producing one final Peak per group with an intensity-weighted energy and
// a width derived from matching the combined kernel's integral and peak
// height. Groups with total amplitude zero are discarded.
func (PeakFitter) CombineTriples(triples []triple, amplitudes []float64, es *barni.EnergyScale) ([]barni.Peak, error) {
	if len(triples) != len(amplitudes) || len(triples)%3 != 0 {
		return nil, barni.WrapErr("PeakFitter.CombineTriples", barni.ErrShapeMismatch)
	}
	edges := es.Edges()

	var out []barni.Peak
	for g := 0; g < len(triples); g += 3 {
		group := triples[g : g+3]
		amps := amplitudes[g : g+3]

		total := amps[0] + amps[1] + amps[2]
		if total <= 0 {
			continue
		}

		energy := 0.0
		for i, t := range group {
			energy += amps[i] * t.Energy
		}
		energy /= total

		height := 0.0
		for i, t := range group {
			if amps[i] == 0 {
				continue
			}
			bin := es.FindBin(t.Energy)
			binWidth := edges[bin+1] - edges[bin]
			density := amps[i] * t.Kernel[bin] / binWidth
			if density > height {
				height = density
			}
		}
		if height <= 0 {
			continue
		}

		ratio := total / height
		width := math.Sqrt(ratio * ratio / (2 * math.Pi))

		out = append(out, barni.Peak{
			Energy:    energy,
			Intensity: total,
			Width:     width,
		})
	}
	return out, nil
}
