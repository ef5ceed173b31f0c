package barni

import (
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// Template is a normalized reference spectrum shape (a single radionuclide
// signature, or a pure-background shape) used to synthesize training and
// test spectra via DrawSpectrum. Counts are expected, not measured: they
// carry fractional values directly usable as Poisson means.
type Template struct {
	Name     string
	Spectrum *Spectrum
}

// TemplateList is an ordered collection of templates, e.g. one entry per
// nuclide plus one background entry.
type TemplateList []*Template

// FindByName returns the template with the given name, or nil if absent.
func (l TemplateList) FindByName(name string) *Template {
	for _, t := range l {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// DrawSpectrum synthesizes a Poisson-noise realization of a linear
// combination of templates, scaled by livetime. weights and templates must
// be the same length; weights are per-template count-rate multipliers.
func DrawSpectrum(templates TemplateList, weights []float64, livetime float64, src rand.Source) (*Spectrum, error) {
	if len(templates) == 0 {
		return nil, WrapErr("DrawSpectrum", ErrEmptyPeakSet)
	}
	if len(templates) != len(weights) {
		return nil, WrapErr("DrawSpectrum", ErrShapeMismatch)
	}
	es := templates[0].Spectrum.EnergyScale
	n := es.Len()
	mean := make([]float64, n)
	for ti, t := range templates {
		if t.Spectrum.EnergyScale.Len() != n {
			return nil, WrapErr("DrawSpectrum", ErrShapeMismatch)
		}
		w := weights[ti] * livetime
		for i := 0; i < n; i++ {
			mean[i] += w * t.Spectrum.Counts[i]
		}
	}

	counts := make([]float64, n)
	for i, m := range mean {
		if m <= 0 {
			counts[i] = 0
			continue
		}
		pois := distuv.Poisson{Lambda: m, Src: src}
		counts[i] = pois.Rand()
	}

	return &Spectrum{
		Counts:      counts,
		EnergyScale: es,
		Livetime:    livetime,
		Realtime:    livetime,
	}, nil
}
