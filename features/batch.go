package features

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/RyanBlaney/drone-sonar/logging"
)

// Job is one waveform to extract
type Job struct {
	ID         string    `json:"id" yaml:"id"`
	Samples    []float64 `json:"-" yaml:"-"`
	SampleRate int       `json:"sample_rate" yaml:"sample_rate"`
}

// Result pairs a job with its vector. Results come back in job order.
type Result struct {
	ID     string `json:"id" yaml:"id"`
	Vector Vector `json:"vector" yaml:"vector"`
}

// ExtractBatch extracts every job with at most workers concurrent
// extractions (runtime.NumCPU when workers < 1). The first failing job
// cancels the remaining ones and its error is returned. Cancellation is
// checked between jobs; a running extraction always completes.
func (e *Extractor) ExtractBatch(ctx context.Context, jobs []Job, workers int) ([]Result, error) {
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	results := make([]Result, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			vector, err := e.Extract(job.Samples, job.SampleRate)
			if err != nil {
				return fmt.Errorf("job %d (%s): %w", i, job.ID, err)
			}

			results[i] = Result{ID: job.ID, Vector: vector}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		e.logger.Error(err, "Batch extraction failed", logging.Fields{
			"jobs":    len(jobs),
			"workers": workers,
		})
		return nil, err
	}

	return results, nil
}

// ExtractBatch runs Extractor.ExtractBatch with a new extractor whose frame
// transforms run sequentially, so parallelism comes from the batch only
func ExtractBatch(ctx context.Context, jobs []Job, workers int) ([]Result, error) {
	e, err := NewExtractor(WithFrameWorkers(1))
	if err != nil {
		return nil, err
	}
	return e.ExtractBatch(ctx, jobs, workers)
}
