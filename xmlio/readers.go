package xmlio

import (
	"fmt"

	"github.com/LLNL/barni"
)

func readEnergyScale(_ *ReaderContext, el *Element) (interface{}, error) {
	edgesEl := el.Child("edges")
	if edgesEl == nil {
		return nil, fmt.Errorf("xmlio: EnergyScale missing <edges>")
	}
	edges, err := edgesEl.FloatList()
	if err != nil {
		return nil, err
	}
	return barni.NewEnergyScale(edges)
}

func readSpectrum(ctx *ReaderContext, el *Element) (interface{}, error) {
	countsEl := el.Child("counts")
	if countsEl == nil {
		return nil, fmt.Errorf("xmlio: Spectrum missing <counts>")
	}
	counts, err := countsEl.FloatList()
	if err != nil {
		return nil, err
	}

	esEl := el.Child("EnergyScale")
	if esEl == nil {
		return nil, fmt.Errorf("xmlio: Spectrum missing <EnergyScale>")
	}
	esVal, err := ctx.Convert(esEl)
	if err != nil {
		return nil, err
	}
	es := esVal.(*barni.EnergyScale)

	s := &barni.Spectrum{Counts: counts, EnergyScale: es, Title: el.Attr("name")}
	if lt := el.Child("livetime"); lt != nil {
		if s.Livetime, err = lt.Float(); err != nil {
			return nil, err
		}
	}
	if rt := el.Child("realtime"); rt != nil {
		if s.Realtime, err = rt.Float(); err != nil {
			return nil, err
		}
	}
	if d := el.Child("distance"); d != nil {
		if s.Distance, err = d.Float(); err != nil {
			return nil, err
		}
	}
	if gd := el.Child("gamma_dose"); gd != nil {
		if s.GammaDose, err = gd.Float(); err != nil {
			return nil, err
		}
	}
	if title := el.Child("title"); title != nil {
		s.Title = title.Text
	}
	return s, nil
}

func readPeak(_ *ReaderContext, el *Element) (interface{}, error) {
	p := barni.Peak{}
	fields := map[string]*float64{
		"energy":    &p.Energy,
		"intensity": &p.Intensity,
		"baseline":  &p.Baseline,
		"width":     &p.Width,
	}
	for name, dst := range fields {
		c := el.Child(name)
		if c == nil {
			continue
		}
		v, err := c.Float()
		if err != nil {
			return nil, err
		}
		*dst = v
	}
	return p, nil
}

func readGaussianSensorModel(_ *ReaderContext, el *Element) (interface{}, error) {
	fields := map[string]float64{}
	for _, name := range []string{"resolution", "resolutionEnergy", "electronicNoise", "wideningPower"} {
		c := el.Child(name)
		if c == nil {
			return nil, fmt.Errorf("xmlio: GaussianSensorModel missing <%s>", name)
		}
		v, err := c.Float()
		if err != nil {
			return nil, err
		}
		fields[name] = v
	}
	return barni.NewGaussianModel(fields["resolution"], fields["resolutionEnergy"], fields["electronicNoise"], fields["wideningPower"])
}

func readSmoothPeakResult(ctx *ReaderContext, el *Element) (interface{}, error) {
	out := &barni.PeakResult{}
	for _, child := range el.ChildrenNamed("Peak") {
		v, err := readPeak(ctx, child)
		if err != nil {
			return nil, err
		}
		out.Peaks = append(out.Peaks, v.(barni.Peak))
	}
	for _, child := range el.Children {
		if child.Name == "Spectrum" && child.Attr("name") == "continuum" {
			v, err := ctx.Convert(child)
			if err != nil {
				return nil, err
			}
			out.Continuum = v.(*barni.Spectrum)
			continue
		}
		if child.Name == "GaussianSensorModel" {
			v, err := ctx.Convert(child)
			if err != nil {
				return nil, err
			}
			out.Sensor = v.(*barni.GaussianModel)
		}
	}
	return out, nil
}

func readPeakResults(ctx *ReaderContext, el *Element) (interface{}, error) {
	out := &barni.PeakResults{}
	for _, child := range el.ChildrenNamed("SmoothPeakResult") {
		v, err := ctx.Convert(child)
		if err != nil {
			return nil, err
		}
		pr := v.(*barni.PeakResult)
		switch child.Attr("name") {
		case "sample":
			out.Sample = pr
		case "intrinsic":
			out.Intrinsic = pr
			out.HasIntrinsic = true
		}
	}
	if sf := el.Child("scale_factor"); sf != nil {
		v, err := sf.Float()
		if err != nil {
			return nil, err
		}
		out.ScaleFactor = v
	}
	return out, nil
}

func readPeakResultsList(ctx *ReaderContext, el *Element) (interface{}, error) {
	var out []*barni.PeakResults
	for _, child := range el.ChildrenNamed("PeakResults") {
		v, err := ctx.Convert(child)
		if err != nil {
			return nil, err
		}
		out = append(out, v.(*barni.PeakResults))
	}
	return out, nil
}
