package barni

// Spectrum is a histogram of photon counts versus energy, as recorded by a
// gamma sensor. Counts and the energy scale are required; livetime,
// realtime, distance, dose, and title are optional metadata.
type Spectrum struct {
	Counts      []float64
	EnergyScale *EnergyScale
	Livetime    float64
	Realtime    float64
	Distance    float64
	GammaDose   float64
	Title       string
}

// NewSpectrum constructs a Spectrum, validating that counts and the energy
// scale agree in length and that livetime/realtime are non-negative.
func NewSpectrum(counts []float64, es *EnergyScale, livetime, realtime float64) (*Spectrum, error) {
	if es == nil || len(counts) != es.Len() {
		return nil, WrapErr("Spectrum", ErrShapeMismatch)
	}
	if livetime < 0 || realtime < 0 {
		return nil, WrapErr("Spectrum", ErrDomain)
	}
	cp := make([]float64, len(counts))
	copy(cp, counts)
	return &Spectrum{
		Counts:      cp,
		EnergyScale: es,
		Livetime:    livetime,
		Realtime:    realtime,
	}, nil
}

// Integral returns the total counts in [e1, e2), linearly apportioning the
// partial bins at each end.
func (s *Spectrum) Integral(e1, e2 float64) float64 {
	edges := s.EnergyScale.Edges()
	c1 := s.EnergyScale.FindBin(e1)
	c2 := s.EnergyScale.FindBin(e2)

	u1, u2 := edges[c1], edges[c1+1]
	f1 := (e1 - u1) / (u2 - u1)

	v1, v2 := edges[c2], edges[c2+1]
	f2 := (e2 - v1) / (v2 - v1)

	total := 0.0
	for i := c1; i <= c2; i++ {
		total += s.Counts[i]
	}
	return total - s.Counts[c1]*f1 - s.Counts[c2]*(1-f2)
}

// NormalizedCounts returns counts divided by bin width, i.e. counts per unit
// energy, useful for plotting and cross-spectrum comparison.
func (s *Spectrum) NormalizedCounts() []float64 {
	edges := s.EnergyScale.Edges()
	out := make([]float64, len(s.Counts))
	for i := range out {
		out[i] = s.Counts[i] / (edges[i+1] - edges[i])
	}
	return out
}

// Downsample merges adjacent bin pairs, halving the channel count. The
// energy scale must have an even number of bins; see EnergyScale.Downsample.
func (s *Spectrum) Downsample() (*Spectrum, error) {
	if len(s.Counts)%2 != 0 {
		return nil, WrapErr("Spectrum.Downsample", ErrShapeMismatch)
	}
	es, err := s.EnergyScale.Downsample()
	if err != nil {
		return nil, err
	}
	counts := make([]float64, len(s.Counts)/2)
	for i := range counts {
		counts[i] = s.Counts[2*i] + s.Counts[2*i+1]
	}
	return &Spectrum{
		Counts:      counts,
		EnergyScale: es,
		Livetime:    s.Livetime,
		Realtime:    s.Realtime,
		Distance:    s.Distance,
		GammaDose:   s.GammaDose,
		Title:       s.Title,
	}, nil
}

// Copy returns a deep copy of the spectrum.
func (s *Spectrum) Copy() *Spectrum {
	counts := make([]float64, len(s.Counts))
	copy(counts, s.Counts)
	return &Spectrum{
		Counts:      counts,
		EnergyScale: s.EnergyScale,
		Livetime:    s.Livetime,
		Realtime:    s.Realtime,
		Distance:    s.Distance,
		GammaDose:   s.GammaDose,
		Title:       s.Title,
	}
}

// SpectrumList is a simple ordered collection of spectra for
// training-data generation (for example repeated DrawSpectrum draws), even
// though full training orchestration is out of the core's scope.
type SpectrumList []*Spectrum
