package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/urfave/cli/v2"

	"github.com/LLNL/barni"
	"github.com/LLNL/barni/batch"
	"github.com/LLNL/barni/search"
	"github.com/LLNL/barni/spa"
	"github.com/LLNL/barni/xmlio"
)

func loadSpectrum(path string) (*barni.Spectrum, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ctx := xmlio.NewReaderContext()
	v, err := ctx.Load(f)
	if err != nil {
		return nil, err
	}
	s, ok := v.(*barni.Spectrum)
	if !ok {
		return nil, fmt.Errorf("%s does not contain a Spectrum document", path)
	}
	return s, nil
}

func analyzeOne(specURI, intrinsicURI, configURI, outURI string, gzipOut bool) error {
	cfg, err := barni.LoadPipelineConfig(configURI)
	if err != nil {
		return err
	}
	sensor, err := cfg.Sensor.Build()
	if err != nil {
		return err
	}

	sample, err := loadSpectrum(specURI)
	if err != nil {
		return err
	}

	input := barni.IdentificationInput{Sample: sample}
	if intrinsicURI != "" {
		intrinsic, err := loadSpectrum(intrinsicURI)
		if err != nil {
			return err
		}
		input.Intrinsic = intrinsic
	}

	analyzer := spa.NewSPA(spa.Config{SmoothingFactor: cfg.SmoothingFactor, StartEnergy: cfg.StartEnergy})
	results, err := analyzer.AnalyzeInput(input, sensor)
	if err != nil {
		return err
	}

	out, err := os.Create(outURI)
	if err != nil {
		return err
	}
	defer out.Close()

	return xmlio.Write(out, results, "", gzipOut)
}

// xmlConvert loads a persisted BARNI XML document (transparently unwrapping
// a gzip envelope if present) and rewrites it, optionally toggling gzip
// compression on the way out.
func xmlConvert(inURI, outURI string, gzipOut bool) error {
	in, err := os.Open(inURI)
	if err != nil {
		return err
	}
	defer in.Close()

	ctx := xmlio.NewReaderContext()
	v, err := ctx.Load(in)
	if err != nil {
		return err
	}

	out, err := os.Create(outURI)
	if err != nil {
		return err
	}
	defer out.Close()

	return xmlio.Write(out, v, "", gzipOut)
}

// xmlInspect loads a persisted BARNI XML document and prints a short summary
// of its contents to stdout.
func xmlInspect(inURI string) error {
	in, err := os.Open(inURI)
	if err != nil {
		return err
	}
	defer in.Close()

	ctx := xmlio.NewReaderContext()
	v, err := ctx.Load(in)
	if err != nil {
		return err
	}

	switch t := v.(type) {
	case *barni.Spectrum:
		fmt.Printf("Spectrum %q: %d channels, livetime=%g, realtime=%g\n",
			t.Title, len(t.Counts), t.Livetime, t.Realtime)
	case *barni.PeakResult:
		fmt.Printf("SmoothPeakResult: %d peaks\n", len(t.Peaks))
		for _, p := range t.Peaks {
			fmt.Printf("  energy=%.2f intensity=%.2f width=%.2f\n", p.Energy, p.Intensity, p.Width)
		}
	case *barni.PeakResults:
		fmt.Printf("PeakResults: sample=%v, has_intrinsic=%v, scale_factor=%g\n",
			t.Sample != nil, t.HasIntrinsic, t.ScaleFactor)
	case []*barni.PeakResults:
		fmt.Printf("PeakResultsList: %d entries\n", len(t))
	default:
		fmt.Printf("%T\n", t)
	}
	return nil
}

func batchRun(uri, configURI, searchConfigURI, outdirURI string) error {
	cfg, err := barni.LoadPipelineConfig(configURI)
	if err != nil {
		return err
	}
	sensor, err := cfg.Sensor.Build()
	if err != nil {
		return err
	}

	log.Println("Searching uri:", uri)
	items, err := search.FindSpectra(uri, searchConfigURI)
	if err != nil {
		return err
	}
	log.Println("Number of spectra to process:", len(items))

	jobs := make([]batch.Job, 0, len(items))
	for _, item := range items {
		sample, err := loadSpectrum(item)
		if err != nil {
			log.Println("Skipping", item, "-", err)
			continue
		}
		jobs = append(jobs, batch.Job{ID: item, Input: barni.IdentificationInput{Sample: sample}})
	}

	analyzer := spa.NewSPA(spa.Config{SmoothingFactor: cfg.SmoothingFactor, StartEnergy: cfg.StartEnergy})
	runner := batch.NewRunner(analyzer, sensor, cfg.Workers)

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results := runner.Identify(sigCtx, jobs)

	for _, r := range batch.Failed(results) {
		log.Println("Failed:", r.JobID, "-", r.Err)
	}

	ok := 0
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		outPath := outdirURI + "/" + r.RunID + ".xml"
		f, err := os.Create(outPath)
		if err != nil {
			log.Println("Could not write result for", r.JobID, "-", err)
			continue
		}
		err = xmlio.Write(f, r.Results, "", false)
		f.Close()
		if err != nil {
			log.Println("Could not write result for", r.JobID, "-", err)
			continue
		}
		ok++
	}
	log.Printf("Finished batch: %d ok, %d failed\n", ok, len(results)-ok)
	return nil
}

func main() {
	app := &cli.App{
		Name:  "barni",
		Usage: "smooth peak analysis for gamma-ray spectra",
		Commands: []*cli.Command{
			{
				Name:  "analyze",
				Usage: "decompose a single spectrum into continuum and peaks",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "spectrum-uri", Required: true},
					&cli.StringFlag{Name: "intrinsic-uri"},
					&cli.StringFlag{Name: "config-uri", Required: true},
					&cli.StringFlag{Name: "out-uri", Required: true},
					&cli.BoolFlag{Name: "gzip"},
				},
				Action: func(cCtx *cli.Context) error {
					return analyzeOne(
						cCtx.String("spectrum-uri"),
						cCtx.String("intrinsic-uri"),
						cCtx.String("config-uri"),
						cCtx.String("out-uri"),
						cCtx.Bool("gzip"),
					)
				},
			},
			{
				Name:  "batch",
				Usage: "recursively analyze every spectrum under a URI",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "uri", Required: true},
					&cli.StringFlag{Name: "config-uri", Required: true},
					&cli.StringFlag{Name: "search-config-uri"},
					&cli.StringFlag{Name: "outdir-uri", Required: true},
				},
				Action: func(cCtx *cli.Context) error {
					return batchRun(
						cCtx.String("uri"),
						cCtx.String("config-uri"),
						cCtx.String("search-config-uri"),
						cCtx.String("outdir-uri"),
					)
				},
			},
			{
				Name:  "xml",
				Usage: "convert or inspect a persisted BARNI XML document",
				Subcommands: []*cli.Command{
					{
						Name:  "convert",
						Usage: "rewrite a document, optionally toggling gzip compression",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "in-uri", Required: true},
							&cli.StringFlag{Name: "out-uri", Required: true},
							&cli.BoolFlag{Name: "gzip"},
						},
						Action: func(cCtx *cli.Context) error {
							return xmlConvert(cCtx.String("in-uri"), cCtx.String("out-uri"), cCtx.Bool("gzip"))
						},
					},
					{
						Name:  "inspect",
						Usage: "print a summary of a document's contents",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "in-uri", Required: true},
						},
						Action: func(cCtx *cli.Context) error {
							return xmlInspect(cCtx.String("in-uri"))
						},
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
