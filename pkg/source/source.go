// Package source provides a read-only handle over a document's text,
// addressable by byte offset and by line, with an index of line comments.
package source

import (
	"sort"
	"strings"
)

// Span is a half-open byte range [Start, End) in a document.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// Position is a 0-based line and byte column.
type Position struct {
	Line   int
	Column int
}

// Comment is a `//` line comment. Span covers the marker through the end of
// the line, excluding the terminator.
type Comment struct {
	Span Span
	Text string
}

// File is the unmodified content of one document.
type File struct {
	content    string
	lineStarts []int
	comments   map[int]Comment
	blocks     []Span
	ending     string
}

// New indexes content. The handle never mutates it.
func New(content []byte) *File {
	text := string(content)
	f := &File{
		content:    text,
		lineStarts: []int{0},
		comments:   make(map[int]Comment),
		ending:     "\n",
	}

	sawEnding := false
	for i := 0; i < len(text); i++ {
		if text[i] != '\n' {
			continue
		}
		if !sawEnding {
			sawEnding = true
			if i > 0 && text[i-1] == '\r' {
				f.ending = "\r\n"
			}
		}
		f.lineStarts = append(f.lineStarts, i+1)
	}

	return f
}

// Content returns the full text.
func (f *File) Content() string { return f.content }

// Len returns the content length in bytes.
func (f *File) Len() int { return len(f.content) }

// LineEnding returns the first line terminator found, or "\n".
func (f *File) LineEnding() string { return f.ending }

// LineCount returns the number of lines. A trailing terminator starts an
// empty final line.
func (f *File) LineCount() int { return len(f.lineStarts) }

// LineStart returns the byte offset of the first byte of line i.
func (f *File) LineStart(i int) int {
	if i < 0 {
		return 0
	}
	if i >= len(f.lineStarts) {
		return len(f.content)
	}
	return f.lineStarts[i]
}

// Line returns line i without its terminator.
func (f *File) Line(i int) string {
	if i < 0 || i >= len(f.lineStarts) {
		return ""
	}
	start := f.lineStarts[i]
	end := len(f.content)
	if i+1 < len(f.lineStarts) {
		end = f.lineStarts[i+1] - 1
	}
	return strings.TrimSuffix(f.content[start:end], "\r")
}

// Position converts a byte offset into a line and column.
func (f *File) Position(offset int) Position {
	line := sort.Search(len(f.lineStarts), func(i int) bool {
		return f.lineStarts[i] > offset
	}) - 1
	if line < 0 {
		line = 0
	}
	return Position{Line: line, Column: offset - f.lineStarts[line]}
}

// LineOf returns the line holding offset.
func (f *File) LineOf(offset int) int {
	return f.Position(offset).Line
}

// Slice returns the text covered by span.
func (f *File) Slice(span Span) string {
	start := max(span.Start, 0)
	end := min(span.End, len(f.content))
	if start >= end {
		return ""
	}
	return f.content[start:end]
}

// SingleLine reports whether span starts and ends on the same line.
func (f *File) SingleLine(span Span) bool {
	end := span.End
	if end > span.Start {
		end--
	}
	return f.LineOf(span.Start) == f.LineOf(end)
}

// AddComment registers a line comment found by a lexer.
func (f *File) AddComment(c Comment) {
	f.comments[f.LineOf(c.Span.Start)] = c
}

// AddBlockComment registers a `/* */` comment found by a lexer.
func (f *File) AddBlockComment(span Span) {
	f.blocks = append(f.blocks, span)
}

// BlockCommentIn returns the first block comment starting within
// [start, end).
func (f *File) BlockCommentIn(start, end int) (Span, bool) {
	for _, b := range f.blocks {
		if b.Start >= start && b.Start < end {
			return b, true
		}
	}
	return Span{}, false
}

// CommentOn returns the line comment on line i, if any.
func (f *File) CommentOn(i int) (Comment, bool) {
	c, ok := f.comments[i]
	return c, ok
}

// IsBlank reports whether line i holds only whitespace.
func (f *File) IsBlank(i int) bool {
	return strings.TrimSpace(f.Line(i)) == ""
}

// IsCommentLine reports whether the first non-whitespace content of line i
// is a line comment.
func (f *File) IsCommentLine(i int) bool {
	c, ok := f.comments[i]
	if !ok {
		return false
	}
	col := c.Span.Start - f.LineStart(i)
	return strings.TrimSpace(f.Line(i)[:col]) == ""
}

// IsLeading reports whether offset is the first non-whitespace content on
// its line.
func (f *File) IsLeading(offset int) bool {
	pos := f.Position(offset)
	line := f.Line(pos.Line)
	if pos.Column > len(line) {
		return false
	}
	return strings.TrimSpace(line[:pos.Column]) == ""
}

// IsTrailing reports whether only whitespace, optionally followed by a line
// comment, remains on the line after offset.
func (f *File) IsTrailing(offset int) bool {
	pos := f.Position(offset)
	line := f.Line(pos.Line)
	if pos.Column > len(line) {
		return true
	}
	rest := line[pos.Column:]
	if c, ok := f.comments[pos.Line]; ok {
		col := c.Span.Start - f.LineStart(pos.Line)
		if col >= pos.Column {
			rest = line[pos.Column:col]
		}
	}
	return strings.TrimSpace(rest) == ""
}

// CommentAfter returns the line comment that follows offset on the same
// line when offset is trailing.
func (f *File) CommentAfter(offset int) (Comment, bool) {
	if !f.IsTrailing(offset) {
		return Comment{}, false
	}
	pos := f.Position(offset)
	c, ok := f.comments[pos.Line]
	if !ok || c.Span.Start < offset {
		return Comment{}, false
	}
	return c, true
}

// CommentsBetween returns the line comments starting within [start, end)
// in source order.
func (f *File) CommentsBetween(start, end int) []Comment {
	if start >= end {
		return nil
	}
	var out []Comment
	for i := f.LineOf(start); i <= f.LineOf(end-1); i++ {
		if c, ok := f.comments[i]; ok && c.Span.Start >= start && c.Span.Start < end {
			out = append(out, c)
		}
	}
	return out
}

// HasCommentBetween reports whether any line comment starts within
// [start, end).
func (f *File) HasCommentBetween(start, end int) bool {
	return len(f.CommentsBetween(start, end)) > 0
}

// HasCommentOnLines reports whether any of the lines first..last holds a
// line comment.
func (f *File) HasCommentOnLines(first, last int) bool {
	for i := first; i <= last; i++ {
		if _, ok := f.comments[i]; ok {
			return true
		}
	}
	return false
}
