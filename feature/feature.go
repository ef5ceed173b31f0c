// Package feature extracts classifier-ready feature vectors from a
// PeakResults by integrating energy regions of interest and normalizing
// each nuclide's ROI counts against its own total.
package feature

import (
	"sort"
	"strconv"

	"github.com/samber/lo"

	"github.com/LLNL/barni"
)

// Nuclide groups the regions of interest that together describe one
// candidate source's gamma signature.
type Nuclide struct {
	Name   string
	Regions []barni.RegionOfInterest
}

// AddRegion appends a region of interest to the nuclide.
func (n *Nuclide) AddRegion(r barni.RegionOfInterest) {
	n.Regions = append(n.Regions, r)
}

// Features is an ordered label->value feature vector.
type Features struct {
	order  []string
	values map[string]float64
}

func newFeatures() *Features {
	return &Features{values: make(map[string]float64)}
}

func (f *Features) set(label string, v float64) {
	if _, ok := f.values[label]; !ok {
		f.order = append(f.order, label)
	}
	f.values[label] = v
}

// Get returns the value for label and whether it was present.
func (f *Features) Get(label string) (float64, bool) {
	v, ok := f.values[label]
	return v, ok
}

// Labels returns feature labels in insertion order.
func (f *Features) Labels() []string {
	return append([]string(nil), f.order...)
}

// Values returns feature values aligned with Labels().
func (f *Features) Values() []float64 {
	out := make([]float64, len(f.order))
	for i, l := range f.order {
		out[i] = f.values[l]
	}
	return out
}

// Extractor consumes a PeakResults and produces a Features vector.
type Extractor interface {
	Extract(results *barni.PeakResults) *Features
}

// ExtractorROI is the feature extractor that integrates, per nuclide, a
// fixed set of energy regions of interest, performing intrinsic-source
// subtraction when an intrinsic result is present (spec.md §6).
type ExtractorROI struct {
	Nuclides []*Nuclide
}

// AddNuclide registers a nuclide's ROI set with the extractor.
func (e *ExtractorROI) AddNuclide(n *Nuclide) {
	e.Nuclides = append(e.Nuclides, n)
}

// Extract implements Extractor. Each ROI count is
// max(0, sampleCounts - scaleFactor*intrinsicCounts), normalized by the sum
// across that nuclide's ROIs.
func (e *ExtractorROI) Extract(results *barni.PeakResults) *Features {
	out := newFeatures()
	for _, nuclide := range e.Nuclides {
		label := "Feature." + nuclide.Name + "."
		counts := make([]float64, len(nuclide.Regions))
		for i, roi := range nuclide.Regions {
			p := results.Sample.IntegralOverROI(roi)
			c := p.Intensity
			if results.HasIntrinsic {
				pi := results.Intrinsic.IntegralOverROI(roi)
				c -= pi.Intensity * results.ScaleFactor
			}
			if c < 0 {
				c = 0
			}
			counts[i] = c
		}

		total := lo.Sum(counts)
		if total <= 0 {
			total = 1
		}
		for i, c := range counts {
			out.set(label+"roi"+strconv.Itoa(i), c/total)
		}
		out.set(label+"total", total)
	}
	return out
}

// Strip returns a copy of the extractor with the named nuclide removed,
// used when a downstream classifier is retrained on a reduced nuclide set.
func (e *ExtractorROI) Strip(name string) *ExtractorROI {
	out := &ExtractorROI{}
	for _, n := range e.Nuclides {
		if n.Name == name {
			continue
		}
		cp := &Nuclide{Name: n.Name, Regions: append([]barni.RegionOfInterest(nil), n.Regions...)}
		out.Nuclides = append(out.Nuclides, cp)
	}
	return out
}

// FeatureLabels returns the labels Extract will emit, in order.
func (e *ExtractorROI) FeatureLabels() []string {
	var out []string
	for _, n := range e.Nuclides {
		label := "Feature." + n.Name + "."
		for i := range n.Regions {
			out = append(out, label+"roi"+strconv.Itoa(i))
		}
		out = append(out, label+"total")
	}
	return out
}

// SortRegions orders each nuclide's regions ascending by lower bound, the
// canonical layout used when persisting the extractor definition.
func (e *ExtractorROI) SortRegions() {
	for _, n := range e.Nuclides {
		sort.Slice(n.Regions, func(i, j int) bool { return n.Regions[i].Lower < n.Regions[j].Lower })
	}
}

