package format

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/yaklabco/maudfmt/pkg/config"
	"github.com/yaklabco/maudfmt/pkg/fix"
	"github.com/yaklabco/maudfmt/pkg/fsutil"
	"github.com/yaklabco/maudfmt/pkg/langdetect"
	"github.com/yaklabco/maudfmt/pkg/locate"
	"github.com/yaklabco/maudfmt/pkg/markdown"
	"github.com/yaklabco/maudfmt/pkg/maud"
	"github.com/yaklabco/maudfmt/pkg/rust"
	"github.com/yaklabco/maudfmt/pkg/source"
)

// Pipeline error types for categorization.
var (
	ErrFileNotFound     = errors.New("file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrWriteFailure     = errors.New("write failure")
)

// PipelineResult is the outcome of one file.
type PipelineResult struct {
	// Result holds the formatting statistics. For Markdown documents the
	// counts are summed over the Rust code blocks.
	*Result

	Path         string
	OriginalInfo *fsutil.FileInfo

	// Diff is set in check and diff modes when the file would change.
	Diff *fix.Diff

	// Skipped is set when the file was left alone; SkipReason says why.
	Skipped    bool
	SkipReason string

	BackupCreated bool
	Written       bool
}

// Summary returns a short human-readable outcome.
func (pr *PipelineResult) Summary() string {
	switch {
	case pr.Skipped:
		return "skipped: " + pr.SkipReason
	case pr.Written && pr.BackupCreated:
		return "formatted (backup created)"
	case pr.Written:
		return "formatted"
	case pr.Result != nil && pr.Changed:
		return "would reformat"
	default:
		return "unchanged"
	}
}

// PipelineOptions controls the per-file pipeline.
type PipelineOptions struct {
	Format Options

	// DryRun computes results and diffs without writing.
	DryRun bool

	Backup fsutil.BackupConfig

	// StrictRaceDetection re-hashes the file before writing instead of
	// trusting size and modification time.
	StrictRaceDetection bool

	// Verify re-parses every template of the output before it is written.
	Verify bool
}

// DefaultPipelineOptions formats in place with verification on.
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		Format:              DefaultOptions(),
		Backup:              fsutil.DefaultBackupConfig(),
		StrictRaceDetection: true,
		Verify:              true,
	}
}

// PipelineOptionsFromConfig builds options from a loaded configuration.
func PipelineOptionsFromConfig(cfg *config.Config) PipelineOptions {
	opts := DefaultPipelineOptions()
	if cfg == nil {
		return opts
	}
	opts.Format = Options{LineLength: cfg.LineLength, MacroNames: cfg.MacroNames}
	opts.DryRun = !cfg.WritesFiles()
	opts.Backup = fsutil.BackupConfig{
		Enabled: cfg.Backups.Enabled,
		Mode:    fsutil.BackupMode(cfg.Backups.Mode),
	}
	return opts
}

// Pipeline formats files safely.
type Pipeline struct {
	Options PipelineOptions
}

// NewPipeline creates a pipeline with the given options.
func NewPipeline(opts PipelineOptions) *Pipeline {
	return &Pipeline{Options: opts}
}

// ProcessFile runs the whole pipeline for one file:
//  1. Read and snapshot the file.
//  2. Format it in memory; Markdown files have their Rust blocks formatted.
//  3. Stop if nothing changed.
//  4. Optionally re-parse the output.
//  5. In dry-run mode, produce a diff and stop.
//  6. Check for concurrent modifications.
//  7. Create a backup if enabled.
//  8. Write atomically.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (*PipelineResult, error) {
	original, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}

	result, err := p.ProcessContent(ctx, path, original)
	if err != nil {
		return nil, err
	}
	result.OriginalInfo = info

	if result.Skipped || !result.Changed || p.Options.DryRun {
		return result, nil
	}

	modified, err := fsutil.CheckModified(ctx, info, p.Options.StrictRaceDetection)
	if err != nil {
		return nil, fmt.Errorf("check modified: %w", err)
	}
	if modified {
		result.Skipped = true
		result.SkipReason = "file modified during processing"
		return result, nil
	}

	created, err := fsutil.CreateBackup(ctx, info, original, p.Options.Backup)
	if err != nil {
		return nil, fmt.Errorf("create backup: %w", err)
	}
	result.BackupCreated = created

	if err := fsutil.WriteAtomic(ctx, path, result.Output, info.Mode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = true

	return result, nil
}

// ProcessContent formats in-memory content without touching the disk. The
// path selects Rust or Markdown handling and names the diff.
func (p *Pipeline) ProcessContent(ctx context.Context, path string, content []byte) (*PipelineResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("processing cancelled: %w", err)
	}

	var (
		res *Result
		err error
	)
	if langdetect.IsMarkdownFile(path) {
		res, err = p.formatMarkdown(ctx, content)
	} else {
		res, err = Format(ctx, content, p.Options.Format)
	}
	if err != nil {
		return nil, err
	}

	result := &PipelineResult{Path: path, Result: res}
	if !res.Changed {
		return result, nil
	}

	if p.Options.Verify && !langdetect.IsMarkdownFile(path) {
		if reason := p.verify(res); reason != "" {
			result.Skipped = true
			result.SkipReason = reason
			result.Changed = false
			result.Output = content
			return result, nil
		}
	}

	if p.Options.DryRun {
		result.Diff = fix.GenerateDiff(path, content, res.Output)
	}
	return result, nil
}

// verify reports why the output of res must not be written, or "". A
// template that already failed on input is expected to fail again.
func (p *Pipeline) verify(res *Result) string {
	failures, err := Verify(res.Output, p.Options.Format.MacroNames)
	if err != nil {
		return fmt.Sprintf("output does not re-parse: %v", err)
	}
	if len(failures) > len(res.Failures) {
		return fmt.Sprintf("output does not re-parse: %v", &failures[0])
	}
	return ""
}

func (p *Pipeline) formatMarkdown(ctx context.Context, content []byte) (*Result, error) {
	total := &Result{}
	format := func(ctx context.Context, code []byte) ([]byte, error) {
		res, err := Format(ctx, code, p.Options.Format)
		if err != nil {
			return nil, err
		}
		total.Invocations += res.Invocations
		total.Formatted += res.Formatted
		total.Skipped += res.Skipped
		total.Failures = append(total.Failures, res.Failures...)
		total.Warnings = append(total.Warnings, res.Warnings...)
		return res.Output, nil
	}

	md, err := markdown.FormatFences(ctx, content, format)
	if err != nil {
		return nil, err
	}
	for _, f := range md.Failures {
		total.Failures = append(total.Failures, InvocationError{Name: "```rust", Line: f.Line, Err: f.Err})
	}

	total.Output = md.Output
	total.Changed = !bytes.Equal(md.Output, content)
	return total, nil
}

// Verify re-parses src the way Format reads it and returns the templates
// that fail to parse.
func Verify(src []byte, names []string) ([]InvocationError, error) {
	if len(names) == 0 {
		names = locate.DefaultMacroNames
	}
	protected, _ := protectIgnored(src)
	file := source.New(protected)
	trees, _, err := rust.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	var failures []InvocationError
	for _, inv := range locate.Find(file, trees, names) {
		if inv.Skip {
			continue
		}
		if _, err := maud.Parse(inv.Body, file); err != nil {
			failures = append(failures, InvocationError{
				Name: inv.Name,
				Line: file.Position(inv.Span.Start).Line + 1,
				Err:  err,
			})
		}
	}
	return failures, nil
}

func categorizeError(err error) error {
	switch {
	case errors.Is(err, fsutil.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	case errors.Is(err, fsutil.ErrPermissionDenied):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	default:
		return err
	}
}
