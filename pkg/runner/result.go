package runner

import "github.com/yaklabco/maudfmt/pkg/format"

// FileOutcome wraps PipelineResult with resolved path metadata.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Result is nil when Error is set.
	Result *format.PipelineResult

	// Error is set if the file could not be processed.
	Error error
}

// Changed reports whether the file was, or in check mode would be, rewritten.
func (o FileOutcome) Changed() bool {
	return o.Result != nil && o.Result.Result != nil && o.Result.Changed && !o.Result.Skipped
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int

	// FilesSkipped counts files left alone by the pipeline, e.g. because
	// they were modified concurrently or their output failed to re-parse.
	FilesSkipped int
	FilesErrored int

	// FilesChanged counts files whose formatted output differs from the input.
	FilesChanged int
	FilesWritten int

	Invocations int
	Formatted   int
	Failures    int
	Warnings    int
}

// Result is the overall runner result.
type Result struct {
	// Files are ordered deterministically (by path).
	Files []FileOutcome

	Stats Stats
}

// HasChanges reports whether any file differs from its formatted form.
func (r *Result) HasChanges() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesChanged > 0
}

// HasErrors reports whether any file or template could not be processed.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0 || r.Stats.Failures > 0
}

// ChangedFiles returns the paths of files that changed.
func (r *Result) ChangedFiles() []string {
	if r == nil {
		return nil
	}
	var out []string
	for _, f := range r.Files {
		if f.Changed() {
			out = append(out, f.Path)
		}
	}
	return out
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	pr := outcome.Result
	if pr == nil {
		return
	}

	r.Stats.FilesProcessed++

	if pr.Skipped {
		r.Stats.FilesSkipped++
	}
	if pr.Written {
		r.Stats.FilesWritten++
	}
	if outcome.Changed() {
		r.Stats.FilesChanged++
	}

	if pr.Result != nil {
		r.Stats.Invocations += pr.Invocations
		r.Stats.Formatted += pr.Formatted
		r.Stats.Failures += len(pr.Failures)
		r.Stats.Warnings += len(pr.Warnings)
	}
}
