package printer

import (
	"strings"

	"github.com/yaklabco/maudfmt/pkg/source"
)

// commentText normalizes a line comment: one space after the marker,
// trailing whitespace removed. Doc comment markers are kept.
func commentText(raw string) string {
	marker := "//"
	switch {
	case strings.HasPrefix(raw, "///") && !strings.HasPrefix(raw, "////"):
		marker = "///"
	case strings.HasPrefix(raw, "//!"):
		marker = "//!"
	}

	rest := strings.TrimRight(strings.TrimPrefix(raw, marker), " \t")
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		rest = " " + rest
	}
	return marker + rest
}

// leading prints the comment lines above the node starting at offset,
// reaching past blank lines into earlier comment groups. Blank source
// lines become one blank output line; above the first comment only when
// preserve is set. Only nodes that begin their source line are considered.
func (p *Printer) leading(offset, level int, preserve bool) {
	if p.pending {
		p.newLine(level)
	}
	if !p.fresh() || !p.file.IsLeading(offset) {
		return
	}

	line := p.file.LineOf(offset)
	top := line
	for top > 0 && (p.file.IsCommentLine(top-1) || p.file.IsBlank(top-1)) {
		top--
	}

	gap := false
	for i := top; i < line; i++ {
		c, ok := p.file.CommentOn(i)
		if !ok {
			gap = true
			continue
		}
		if p.printed[c.Span.Start] {
			continue
		}
		if gap && preserve {
			p.blankLine()
		}
		gap, preserve = false, true
		p.printed[c.Span.Start] = true
		p.buf += commentText(c.Text)
		p.newLine(level)
	}
	if gap && preserve {
		p.blankLine()
	}
}

// trailing appends the comment that ends the source line of offset, if
// offset is the last content on that line. The line is then closed; the
// next write continues at level.
func (p *Printer) trailing(offset, level int) bool {
	c, ok := p.file.CommentAfter(offset)
	if !ok || p.printed[c.Span.Start] {
		return false
	}
	p.printed[c.Span.Start] = true
	p.buf += "  " + commentText(c.Text)
	p.pending = true
	p.breakLevel = level
	return true
}

// commentLines prints every comment-only line strictly between the lines
// of from and to, each on its own line at level.
func (p *Printer) commentLines(from, to, level int) {
	first := p.file.LineOf(from) + 1
	last := p.file.LineOf(to) - 1
	for i := first; i <= last; i++ {
		if !p.file.IsCommentLine(i) {
			continue
		}
		c, _ := p.file.CommentOn(i)
		if p.printed[c.Span.Start] {
			continue
		}
		p.printed[c.Span.Start] = true
		p.newLine(level)
		p.buf += commentText(c.Text)
	}
}

// between prints the comments starting in [from, to) that no other rule
// placed. A comment after content on the current line trails it; the next
// write starts a new line at level.
func (p *Printer) between(from, to, level int) {
	for _, c := range p.file.CommentsBetween(from, to) {
		if p.printed[c.Span.Start] {
			continue
		}
		p.printed[c.Span.Start] = true
		switch {
		case p.pending:
			p.newLine(level)
		case !p.fresh():
			p.buf = strings.TrimRight(p.buf, " ") + "  "
		}
		p.buf += commentText(c.Text)
		p.pending = true
		p.breakLevel = level
	}
}

// consume marks the comments inside span as printed. Verbatim source
// text carries them.
func (p *Printer) consume(span source.Span) {
	for _, c := range p.file.CommentsBetween(span.Start, span.End) {
		p.printed[c.Span.Start] = true
	}
}

// unplaced returns the first comment in [from, to) that was not printed.
func (p *Printer) unplaced(from, to int) (source.Comment, bool) {
	for _, c := range p.file.CommentsBetween(from, to) {
		if !p.printed[c.Span.Start] {
			return c, true
		}
	}
	return source.Comment{}, false
}

// containsComments reports whether a multi-line delimited span holds a
// line comment on any of its lines.
func (p *Printer) containsComments(open, closing int) bool {
	first, last := p.file.LineOf(open), p.file.LineOf(closing)
	return first != last && p.file.HasCommentOnLines(first, last)
}
