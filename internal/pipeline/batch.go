package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ballotops/electiontidy/internal/model"
)

// BatchProcessor handles concurrent flattening of multiple input files.
// Each run is independent (its own input, outputs, and tables), so files
// can be processed in parallel without sharing state; the transform
// itself stays single-threaded within one run.
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each run so pipeline
	// state never leaks between inputs.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of concurrent runs.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent runs.
// Default is 4 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     4,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch flattens multiple runs concurrently, respecting the
// configured concurrency limit and context cancellation.
//
// All runs are attempted even when some fail; per-run errors are
// recorded on the runs themselves. The error return indicates
// cancellation only.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, runs []*model.Run) error {
	return bp.ProcessBatchWithCallback(ctx, runs, nil)
}

// ProcessBatchWithCallback flattens multiple runs concurrently and
// invokes the callback as each run finishes. The callback may be called
// from multiple goroutines; callers synchronize their own state.
func (bp *BatchProcessor) ProcessBatchWithCallback(ctx context.Context, runs []*model.Run, callback func(run *model.Run, index int)) error {
	bp.logger.Info("starting batch processing",
		"total_inputs", len(runs),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, run := range runs {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("flattening input",
				"input", run.InputPath,
				"index", i+1,
				"total", len(runs),
			)

			p := bp.pipelineFactory()
			if err := p.Execute(ctx, run); err != nil {
				// The failure is recorded on the run; other inputs
				// still get their chance.
				bp.logger.Error("flatten failed",
					"input", run.InputPath,
					"error", err,
				)
			}

			if callback != nil {
				callback(run, i)
			}
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch processing finished",
		"total_inputs", len(runs),
		"elapsed", time.Since(startTime).Round(time.Millisecond),
	)

	return err
}
