// Package batch runs the analysis pipeline across many spectra
// concurrently, fanning work out over a bounded worker pool.
package batch

import (
	"context"

	"github.com/alitto/pond"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/LLNL/barni"
	"github.com/LLNL/barni/spa"
)

// Job is one unit of batch work: a spectrum pair to analyze plus the
// caller's own identifier for matching results back to inputs.
type Job struct {
	ID    string
	Input barni.IdentificationInput
}

// Result pairs a Job's ID with its outcome. Err is non-nil when the
// pipeline failed on that spectrum; Results is nil in that case.
type Result struct {
	JobID   string
	RunID   string
	Results *barni.PeakResults
	Err     error
}

// Runner drives SPA.AnalyzeInput across a pool of worker goroutines.
type Runner struct {
	Analyzer *spa.SPA
	Sensor   barni.SensorModel
	Workers  int
}

// NewRunner returns a Runner with the given worker pool size. A
// non-positive size falls back to a single worker.
func NewRunner(analyzer *spa.SPA, sensor barni.SensorModel, workers int) *Runner {
	if workers <= 0 {
		workers = 1
	}
	return &Runner{Analyzer: analyzer, Sensor: sensor, Workers: workers}
}

// Identify runs every job concurrently and returns one Result per job, not
// necessarily in input order. A panic inside the pipeline (e.g. from a
// malformed spectrum slipping past validation) is recovered into an Err
// rather than taking down the batch.
func (r *Runner) Identify(ctx context.Context, jobs []Job) []Result {
	pool := pond.New(r.Workers, len(jobs), pond.MinWorkers(r.Workers), pond.Context(ctx))

	results := make(chan Result, len(jobs))
	for _, job := range jobs {
		job := job
		pool.Submit(func() {
			results <- r.runOne(job)
		})
	}

	pool.StopAndWait()
	close(results)

	out := make([]Result, 0, len(jobs))
	for res := range results {
		out = append(out, res)
	}
	return out
}

// Failed returns the subset of results whose pipeline run errored.
func Failed(results []Result) []Result {
	return lo.Filter(results, func(r Result, _ int) bool { return r.Err != nil })
}

// Succeeded returns the PeakResults of every result whose pipeline run
// completed without error.
func Succeeded(results []Result) []*barni.PeakResults {
	return lo.FilterMap(results, func(r Result, _ int) (*barni.PeakResults, bool) {
		return r.Results, r.Err == nil
	})
}

func (r *Runner) runOne(job Job) (res Result) {
	res.JobID = job.ID
	res.RunID = uuid.NewString()
	defer func() {
		if p := recover(); p != nil {
			res.Err = barni.WrapErr("batch.Runner", barni.ErrNumerical)
		}
	}()

	results, err := r.Analyzer.AnalyzeInput(job.Input, r.Sensor)
	if err != nil {
		res.Err = err
		return res
	}
	res.Results = results
	return res
}
