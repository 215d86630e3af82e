// Package markdown formats Rust code blocks embedded in Markdown documents.
package markdown

import (
	"bytes"
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/maudfmt/pkg/fix"
	"github.com/yaklabco/maudfmt/pkg/langdetect"
	"github.com/yaklabco/maudfmt/pkg/source"
)

// Fence is a fenced code block whose content is one contiguous byte range
// of the document. Blocks nested in list items or block quotes have their
// container prefixes stripped line by line and are not reported.
type Fence struct {
	// Info is the text after the opening fence marker.
	Info string
	// Content spans the code, including the final newline.
	Content source.Span
	// Line is the 1-based line of the first code line.
	Line int
}

// IsRust reports whether the block is labeled Rust, or unlabeled and
// sniffed as Rust.
func (f Fence) IsRust(src []byte) bool {
	if f.Info != "" {
		return langdetect.IsRustTag(f.Info)
	}
	return langdetect.IsRust(src[f.Content.Start:f.Content.End])
}

// Fences lists the contiguous fenced code blocks of src in document order.
func Fences(src []byte) []Fence {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	doc := md.Parser().Parse(text.NewReader(src))

	var fences []Fence
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		block, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		if span, ok := contiguous(src, block.Lines()); ok {
			var info string
			if block.Info != nil {
				info = string(block.Info.Segment.Value(src))
			}
			fences = append(fences, Fence{
				Info:    info,
				Content: span,
				Line:    bytes.Count(src[:span.Start], []byte("\n")) + 1,
			})
		}
		return ast.WalkSkipChildren, nil
	})
	return fences
}

func contiguous(src []byte, lines *text.Segments) (source.Span, bool) {
	if lines.Len() == 0 {
		return source.Span{}, false
	}
	first := lines.At(0)
	if first.Start > 0 && src[first.Start-1] != '\n' {
		return source.Span{}, false
	}
	end := first.Start
	for i := range lines.Len() {
		seg := lines.At(i)
		if seg.Padding != 0 || seg.Start != end {
			return source.Span{}, false
		}
		end = seg.Stop
	}
	return source.Span{Start: first.Start, End: end}, true
}

// FormatFunc formats the content of one code block.
type FormatFunc func(ctx context.Context, code []byte) ([]byte, error)

// FenceError is a Rust block left unchanged because formatting failed.
type FenceError struct {
	Line int
	Err  error
}

func (e *FenceError) Error() string {
	return fmt.Sprintf("code block at line %d: %v", e.Line, e.Err)
}

func (e *FenceError) Unwrap() error { return e.Err }

// Result describes one formatted Markdown document.
type Result struct {
	Output []byte
	// Blocks counts the Rust code blocks found.
	Blocks    int
	Formatted int
	Failures  []FenceError
}

// FormatFences runs fn over every Rust code block of src and patches the
// results back. Bytes outside the blocks are never changed.
func FormatFences(ctx context.Context, src []byte, fn FormatFunc) (*Result, error) {
	result := &Result{}
	edits := fix.NewEditBuilder()

	for _, fence := range Fences(src) {
		if !fence.IsRust(src) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("format cancelled: %w", err)
		}

		result.Blocks++
		code := src[fence.Content.Start:fence.Content.End]
		out, err := fn(ctx, code)
		if err != nil {
			result.Failures = append(result.Failures, FenceError{Line: fence.Line, Err: err})
			continue
		}
		result.Formatted++
		if !bytes.Equal(out, code) {
			edits.ReplaceRange(fence.Content.Start, fence.Content.End, string(out))
		}
	}

	prepared, err := fix.PrepareEdits(edits.Edits, len(src))
	if err != nil {
		return nil, fmt.Errorf("prepare edits: %w", err)
	}
	result.Output = fix.ApplyEdits(src, prepared)
	return result, nil
}
