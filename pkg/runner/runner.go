package runner

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/maudfmt/internal/logging"
	"github.com/yaklabco/maudfmt/pkg/format"
)

// Runner orchestrates multi-file formatting using a format.Pipeline.
type Runner struct {
	// Pipeline handles per-file processing with safety guarantees.
	Pipeline *format.Pipeline
}

// New creates a new Runner with the given pipeline.
func New(pipeline *format.Pipeline) *Runner {
	return &Runner{Pipeline: pipeline}
}

// NewFromOptions creates a Runner whose pipeline is configured from opts.Config.
func NewFromOptions(opts Options) *Runner {
	return New(format.NewPipeline(format.PipelineOptionsFromConfig(opts.Config)))
}

// Run discovers files under opts.Paths and formats them concurrently.
// A failure in one file never stops the others; it is recorded on that
// file's outcome. Outcomes are returned in discovery order.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	return r.RunFiles(ctx, files, opts.Jobs)
}

// RunFiles formats an already discovered list of files with at most jobs
// concurrent workers.
func (r *Runner) RunFiles(ctx context.Context, files []string, jobs int) (*Result, error) {
	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
	}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	logger := logging.FromContext(ctx)
	logger.Debug("formatting files", logging.FieldFiles, len(files), logging.FieldJobs, jobs)
	start := time.Now()

	outcomes := make([]FileOutcome, len(files))
	done := make([]bool, len(files))

	var group errgroup.Group
	group.SetLimit(jobs)

	for idx, path := range files {
		if ctx.Err() != nil {
			break
		}
		group.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			outcome := FileOutcome{Path: path}
			fileCtx := logging.WithLogger(ctx, logging.ForFile(logger, path))
			pr, err := r.Pipeline.ProcessFile(fileCtx, path)
			if err != nil {
				outcome.Error = err
				logger.Error("format failed", logging.FieldPath, path, logging.FieldError, err)
			} else {
				outcome.Result = pr
			}
			outcomes[idx] = outcome
			done[idx] = true
			return nil
		})
	}
	_ = group.Wait()
	logger.Debug("files formatted", logging.FieldDuration, time.Since(start))

	for idx, outcome := range outcomes {
		if done[idx] {
			result.accumulate(outcome)
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	return result, nil
}
