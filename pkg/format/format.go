// Package format reformats every template invocation in a Rust document.
package format

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/yaklabco/maudfmt/internal/logging"
	"github.com/yaklabco/maudfmt/pkg/fix"
	"github.com/yaklabco/maudfmt/pkg/locate"
	"github.com/yaklabco/maudfmt/pkg/maud"
	"github.com/yaklabco/maudfmt/pkg/printer"
	"github.com/yaklabco/maudfmt/pkg/rust"
	"github.com/yaklabco/maudfmt/pkg/source"
)

// Sentinel errors for categorization via errors.Is.
var (
	// ErrParse means the document is not lexically valid Rust. No
	// invocation can be located and the document is left as is.
	ErrParse = errors.New("parse rust source")

	// ErrInvalidOptions reports an unusable configuration.
	ErrInvalidOptions = errors.New("invalid options")
)

// Options configures formatting.
type Options struct {
	// LineLength is the maximum width of a formatted line.
	LineLength int

	// MacroNames are the macro paths formatted as templates. Empty means
	// locate.DefaultMacroNames.
	MacroNames []string
}

// DefaultOptions returns a 100 column budget and the default macro names.
func DefaultOptions() Options {
	return Options{
		LineLength: printer.DefaultLineLength,
		MacroNames: locate.DefaultMacroNames,
	}
}

// Validate checks the options.
func (o Options) Validate() error {
	if o.LineLength < 1 {
		return fmt.Errorf("%w: line length must be at least 1, got %d", ErrInvalidOptions, o.LineLength)
	}
	for _, name := range o.MacroNames {
		if name == "" {
			return fmt.Errorf("%w: empty macro name", ErrInvalidOptions)
		}
	}
	return nil
}

// InvocationError is a template that could not be parsed. Its source is
// left unchanged.
type InvocationError struct {
	Name string
	// Line is 1-based.
	Line int
	Err  error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("%s! at line %d: %v", e.Name, e.Line, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }

// Warning is an embedded expression kept verbatim.
type Warning struct {
	Name   string
	Line   int
	Column int
	// Source is the text of the line holding the expression.
	Source string
	Err    error
}

// Result describes one formatted document.
type Result struct {
	Output []byte

	// Invocations counts every located template, skipped ones included.
	Invocations int
	Formatted   int
	Skipped     int

	Failures []InvocationError
	Warnings []Warning

	// Changed is set when Output differs from the input.
	Changed bool
}

// Format reformats the templates in src. A template that fails to parse is
// reported in Result.Failures and left untouched; only a document that
// cannot be tokenized fails as a whole.
func Format(ctx context.Context, src []byte, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	names := opts.MacroNames
	if len(names) == 0 {
		names = locate.DefaultMacroNames
	}

	logger := logging.FromContext(ctx)

	protected, saved := protectIgnored(src)
	file := source.New(protected)

	trees, _, err := rust.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	invocations := locate.Find(file, trees, names)
	result := &Result{Invocations: len(invocations)}

	edits := fix.NewEditBuilder()
	for _, inv := range invocations {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("format cancelled: %w", err)
		}

		line := file.Position(inv.Span.Start).Line + 1
		invLog := logging.ForInvocation(logger, inv.Name, line)
		if inv.Skip {
			invLog.Debug("skipping invocation")
			result.Skipped++
			continue
		}

		ast, err := maud.Parse(inv.Body, file)
		if err != nil {
			invLog.Error("cannot parse template", logging.FieldError, err)
			result.Failures = append(result.Failures, InvocationError{Name: inv.Name, Line: line, Err: err})
			continue
		}

		out, warnings, err := printer.Print(file, inv, ast, printer.Options{LineLength: opts.LineLength})
		if err != nil {
			invLog.Error("cannot lay out template", logging.FieldError, err)
			result.Failures = append(result.Failures, InvocationError{Name: inv.Name, Line: line, Err: err})
			continue
		}
		for _, w := range warnings {
			pos := file.Position(w.Span.Start)
			invLog.Warn("kept expression verbatim",
				logging.FieldPosition, fmt.Sprintf("%d:%d", pos.Line+1, pos.Column+1),
				logging.FieldReason, w.Err)
			result.Warnings = append(result.Warnings, Warning{
				Name: inv.Name, Line: pos.Line + 1, Column: pos.Column + 1,
				Source: file.Line(pos.Line), Err: w.Err,
			})
		}

		result.Formatted++
		if out != file.Slice(inv.Span) {
			edits.ReplaceRange(inv.Span.Start, inv.Span.End, out)
		}
	}

	prepared, err := fix.PrepareEdits(edits.Edits, file.Len())
	if err != nil {
		return nil, fmt.Errorf("prepare edits: %w", err)
	}

	output, err := restoreIgnored(fix.ApplyEdits(protected, prepared), saved)
	if err != nil {
		return nil, err
	}

	result.Output = output
	result.Changed = !bytes.Equal(output, src)
	return result, nil
}

// FormatDocument is Format without context or statistics.
func FormatDocument(src string, opts Options) (string, error) {
	res, err := Format(context.Background(), []byte(src), opts)
	if err != nil {
		return src, err
	}
	return string(res.Output), nil
}
