package xmlio

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/LLNL/barni"
)

// Write serializes v (a *barni.Spectrum, *barni.PeakResult, or
// *barni.PeakResults) to w as BARNI XML. If gzipped is true, w receives a
// gzip-compressed stream with the standard 0x1F 0x8B envelope.
func Write(w io.Writer, v interface{}, name string, gzipped bool) error {
	if gzipped {
		gz := gzip.NewWriter(w)
		defer gz.Close()
		w = gz
	}
	var b strings.Builder
	if err := writeValue(&b, v, name, 0); err != nil {
		return err
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func indent(n int) string { return strings.Repeat("  ", n) }

func writeValue(b *strings.Builder, v interface{}, name string, depth int) error {
	switch t := v.(type) {
	case *barni.Spectrum:
		return writeSpectrum(b, t, name, depth)
	case barni.Peak:
		writePeak(b, t, depth)
		return nil
	case *barni.PeakResult:
		return writePeakResult(b, t, name, depth)
	case *barni.PeakResults:
		return writePeakResults(b, t, depth)
	case []*barni.PeakResults:
		return writePeakResultsList(b, t, depth)
	case *barni.GaussianModel:
		writeGaussianModel(b, t, depth)
		return nil
	default:
		return fmt.Errorf("xmlio: no writer for %T", v)
	}
}

func writeFloats(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}

func writeSpectrum(b *strings.Builder, s *barni.Spectrum, name string, depth int) error {
	ind := indent(depth)
	fmt.Fprintf(b, "%s<Spectrum name=%q>\n", ind, name)
	fmt.Fprintf(b, "%s  <counts>%s</counts>\n", ind, writeFloats(s.Counts))
	fmt.Fprintf(b, "%s  <EnergyScale><edges>%s</edges></EnergyScale>\n", ind, writeFloats(s.EnergyScale.Edges()))
	fmt.Fprintf(b, "%s  <livetime>%s</livetime>\n", ind, strconv.FormatFloat(s.Livetime, 'g', -1, 64))
	fmt.Fprintf(b, "%s  <realtime>%s</realtime>\n", ind, strconv.FormatFloat(s.Realtime, 'g', -1, 64))
	fmt.Fprintf(b, "%s  <distance>%s</distance>\n", ind, strconv.FormatFloat(s.Distance, 'g', -1, 64))
	fmt.Fprintf(b, "%s  <gamma_dose>%s</gamma_dose>\n", ind, strconv.FormatFloat(s.GammaDose, 'g', -1, 64))
	fmt.Fprintf(b, "%s  <title>%s</title>\n", ind, s.Title)
	fmt.Fprintf(b, "%s</Spectrum>\n", ind)
	return nil
}

func writePeak(b *strings.Builder, p barni.Peak, depth int) {
	ind := indent(depth)
	fmt.Fprintf(b, "%s<Peak><energy>%s</energy><intensity>%s</intensity>"+
		"<baseline>%s</baseline><width>%s</width></Peak>\n", ind,
		strconv.FormatFloat(p.Energy, 'g', -1, 64),
		strconv.FormatFloat(p.Intensity, 'g', -1, 64),
		strconv.FormatFloat(p.Baseline, 'g', -1, 64),
		strconv.FormatFloat(p.Width, 'g', -1, 64))
}

func writeGaussianModel(b *strings.Builder, g *barni.GaussianModel, depth int) {
	ind := indent(depth)
	fmt.Fprintf(b, "%s<GaussianSensorModel>\n", ind)
	fmt.Fprintf(b, "%s  <resolution>%s</resolution>\n", ind, strconv.FormatFloat(g.Resolution0, 'g', -1, 64))
	fmt.Fprintf(b, "%s  <resolutionEnergy>%s</resolutionEnergy>\n", ind, strconv.FormatFloat(g.RefEnergy, 'g', -1, 64))
	fmt.Fprintf(b, "%s  <electronicNoise>%s</electronicNoise>\n", ind, strconv.FormatFloat(g.ElectronicNoise, 'g', -1, 64))
	fmt.Fprintf(b, "%s  <wideningPower>%s</wideningPower>\n", ind, strconv.FormatFloat(g.WideningPower, 'g', -1, 64))
	fmt.Fprintf(b, "%s</GaussianSensorModel>\n", ind)
}

func writePeakResult(b *strings.Builder, r *barni.PeakResult, name string, depth int) error {
	ind := indent(depth)
	fmt.Fprintf(b, "%s<SmoothPeakResult name=%q>\n", ind, name)
	for _, p := range r.Peaks {
		writePeak(b, p, depth+1)
	}
	if r.Continuum != nil {
		if err := writeSpectrum(b, r.Continuum, "continuum", depth+1); err != nil {
			return err
		}
	}
	if gm, ok := r.Sensor.(*barni.GaussianModel); ok {
		writeGaussianModel(b, gm, depth+1)
	}
	fmt.Fprintf(b, "%s</SmoothPeakResult>\n", ind)
	return nil
}

func writePeakResults(b *strings.Builder, r *barni.PeakResults, depth int) error {
	ind := indent(depth)
	fmt.Fprintf(b, "%s<PeakResults>\n", ind)
	if r.Sample != nil {
		if err := writePeakResult(b, r.Sample, "sample", depth+1); err != nil {
			return err
		}
	}
	if r.HasIntrinsic && r.Intrinsic != nil {
		if err := writePeakResult(b, r.Intrinsic, "intrinsic", depth+1); err != nil {
			return err
		}
		fmt.Fprintf(b, "%s  <scale_factor>%s</scale_factor>\n", ind, strconv.FormatFloat(r.ScaleFactor, 'g', -1, 64))
	}
	fmt.Fprintf(b, "%s</PeakResults>\n", ind)
	return nil
}

func writePeakResultsList(b *strings.Builder, list []*barni.PeakResults, depth int) error {
	ind := indent(depth)
	fmt.Fprintf(b, "%s<PeakResultsList>\n", ind)
	for _, r := range list {
		if err := writePeakResults(b, r, depth+1); err != nil {
			return err
		}
	}
	fmt.Fprintf(b, "%s</PeakResultsList>\n", ind)
	return nil
}
