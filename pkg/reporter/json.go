package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/maudfmt/pkg/runner"
)

// jsonSchemaVersion is bumped whenever the output shape changes.
const jsonSchemaVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path        string             `json:"path"`
	Status      string             `json:"status"`
	Changed     bool               `json:"changed"`
	Written     bool               `json:"written,omitempty"`
	Backup      bool               `json:"backup,omitempty"`
	Invocations int                `json:"invocations"`
	Formatted   int                `json:"formatted"`
	Skipped     int                `json:"skipped"`
	Failures    []JSONDiagnostic   `json:"failures,omitempty"`
	Warnings    []JSONDiagnostic   `json:"warnings,omitempty"`
	Diff        *JSONDiffStatistic `json:"diff,omitempty"`
	Error       string             `json:"error,omitempty"`
}

// JSONDiagnostic is a template failure or an expression warning.
type JSONDiagnostic struct {
	Macro   string `json:"macro"`
	Line    int    `json:"line"`
	Column  int    `json:"column,omitempty"`
	Message string `json:"message"`
}

// JSONDiffStatistic summarizes a file's diff.
type JSONDiffStatistic struct {
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked int `json:"filesChecked"`
	FilesChanged int `json:"filesChanged"`
	FilesWritten int `json:"filesWritten"`
	FilesSkipped int `json:"filesSkipped"`
	FilesErrored int `json:"filesErrored"`
	Invocations  int `json:"invocations"`
	Formatted    int `json:"formatted"`
	Failures     int `json:"failures"`
	Warnings     int `json:"warnings"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.FilesChanged, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonSchemaVersion,
		Files:   make([]JSONFileResult, 0),
	}

	if result == nil {
		return output
	}

	for _, file := range result.Files {
		output.Files = append(output.Files, r.fileResult(file))
	}

	stats := result.Stats
	output.Summary = JSONSummary{
		FilesChecked: stats.FilesProcessed,
		FilesChanged: stats.FilesChanged,
		FilesWritten: stats.FilesWritten,
		FilesSkipped: stats.FilesSkipped,
		FilesErrored: stats.FilesErrored,
		Invocations:  stats.Invocations,
		Formatted:    stats.Formatted,
		Failures:     stats.Failures,
		Warnings:     stats.Warnings,
	}

	return output
}

func (r *JSONReporter) fileResult(file runner.FileOutcome) JSONFileResult {
	out := JSONFileResult{Path: displayPath(file.Path, r.opts.WorkingDir)}

	if file.Error != nil {
		out.Status = "error"
		out.Error = file.Error.Error()
		return out
	}

	pr := file.Result
	if pr == nil {
		return out
	}

	out.Status = pr.Summary()
	out.Changed = file.Changed()
	out.Written = pr.Written
	out.Backup = pr.BackupCreated

	if pr.Diff != nil {
		out.Diff = &JSONDiffStatistic{Additions: pr.Diff.Additions, Deletions: pr.Diff.Deletions}
	}

	if pr.Result == nil {
		return out
	}

	out.Invocations = pr.Invocations
	out.Formatted = pr.Formatted
	out.Skipped = pr.Result.Skipped
	for _, f := range pr.Failures {
		out.Failures = append(out.Failures, JSONDiagnostic{Macro: f.Name, Line: f.Line, Message: f.Err.Error()})
	}
	for _, w := range pr.Warnings {
		out.Warnings = append(out.Warnings, JSONDiagnostic{Macro: w.Name, Line: w.Line, Column: w.Column, Message: w.Err.Error()})
	}

	return out
}
