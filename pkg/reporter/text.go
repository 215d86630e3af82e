package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/maudfmt/internal/ui/pretty"
	"github.com/yaklabco/maudfmt/pkg/runner"
)

// TextReporter formats results as styled terminal output: one line per
// changed, skipped or failed file, then a summary. Template diagnostics are
// logged while formatting and only repeated here in verbose mode.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		result = &runner.Result{}
	}

	changed := 0
	for _, file := range result.Files {
		path := displayPath(file.Path, r.opts.WorkingDir)

		if file.Error != nil {
			fmt.Fprintln(r.bw, r.styles.FormatFileError(path, file.Error))
			continue
		}
		if file.Result == nil {
			continue
		}

		if file.Changed() {
			changed++
		}

		if file.Changed() || file.Result.Skipped || r.opts.Verbose {
			fmt.Fprintln(r.bw, r.styles.FormatFileStatus(path, file.Result.Summary()))
		}

		if r.opts.Verbose && file.Result.Result != nil {
			for i := range file.Result.Failures {
				fmt.Fprint(r.bw, r.styles.FormatFailure(path, &file.Result.Failures[i]))
			}
			for i := range file.Result.Warnings {
				w := &file.Result.Warnings[i]
				fmt.Fprint(r.bw, r.styles.FormatWarning(path, w))
				if w.Source != "" {
					fmt.Fprint(r.bw, r.styles.FormatSourceContext(w.Source, w.Column))
				}
			}
		}
	}

	switch {
	case r.opts.Verbose:
		fmt.Fprint(r.bw, r.styles.FormatSummary(result.Stats, r.opts.Check))
	case r.opts.ShowSummary:
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats, r.opts.Check))
	}

	return changed, nil
}
