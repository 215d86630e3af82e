// Package printer lays out a parsed maud template under a line-length
// budget, keeping the comments and blank lines of the original source.
package printer

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/maudfmt/pkg/locate"
	"github.com/yaklabco/maudfmt/pkg/maud"
	"github.com/yaklabco/maudfmt/pkg/rust"
	"github.com/yaklabco/maudfmt/pkg/source"
)

// DefaultLineLength is the line budget used when none is configured.
const DefaultLineLength = 100

// Options configures layout.
type Options struct {
	// LineLength is the maximum line width, in columns.
	LineLength int
}

// Warning records an embedded expression that was kept verbatim because it
// could not be rendered.
type Warning struct {
	Span source.Span
	Err  error
}

// Printer holds the output of one invocation.
type Printer struct {
	file *source.File
	opts Options
	base int

	lines []string
	buf   string

	// A line comment ends the current line; the next write starts a new
	// one at breakLevel.
	pending    bool
	breakLevel int
	// printed holds the start offsets of comments already emitted.
	printed map[int]bool

	warnings []Warning
}

// Print renders the template of inv. The first line is written at the
// invocation's own column, so it carries no indentation. A comment the
// layout cannot place fails the invocation with a maud diagnostic rather
// than being dropped.
func Print(file *source.File, inv locate.Invocation, ast *maud.Block, opts Options) (string, []Warning, error) {
	if opts.LineLength < 1 {
		opts.LineLength = DefaultLineLength
	}
	p := &Printer{file: file, opts: opts, base: inv.Indent.Depth(), printed: make(map[int]bool)}

	p.write(inv.Name + "! ")
	if len(ast.Markups) == 0 && !p.file.HasCommentBetween(ast.Open.End, ast.Close.Start) {
		p.write("{}")
	} else {
		p.write("{")
		p.trailing(ast.Open.End, 1)
		p.expandBody(ast, 0)
	}

	if c, ok := p.unplaced(ast.Open.End, ast.Close.Start); ok {
		return "", nil, maud.Diagnostic(file, c.Span.Start, maud.ErrMsgCommentPlacement)
	}
	return p.finish(), p.warnings, nil
}

func (p *Printer) indent(level int) string {
	return strings.Repeat(rust.IndentUnit, p.base+level)
}

func (p *Printer) newLine(level int) {
	p.lines = append(p.lines, p.buf)
	p.buf = p.indent(level)
	p.pending = false
}

// blankLine emits one empty line before the current, still empty, line.
func (p *Printer) blankLine() {
	if n := len(p.lines); n > 0 && p.lines[n-1] == "" {
		return
	}
	p.lines = append(p.lines, "")
}

func (p *Printer) write(s string) {
	if p.pending {
		p.newLine(p.breakLevel)
		s = strings.TrimLeft(s, " ")
	}
	p.buf += s
}

// writeLines writes rendered output whose continuation lines are already
// indented.
func (p *Printer) writeLines(lines []string) {
	p.write(lines[0])
	for _, line := range lines[1:] {
		p.lines = append(p.lines, p.buf)
		p.buf = line
	}
}

// fresh reports whether nothing but indentation has been written to the
// current line.
func (p *Printer) fresh() bool {
	return strings.TrimSpace(p.buf) == ""
}

// lineLen is the display width of the current line.
func (p *Printer) lineLen() int {
	s := p.buf
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return runewidth.StringWidth(s)
}

func (p *Printer) fits(width int) bool {
	return p.lineLen()+width <= p.opts.LineLength
}

func (p *Printer) finish() string {
	lines := append(p.lines, p.buf)
	for i, line := range lines {
		if !strings.Contains(line, "\n") && strings.TrimSpace(line) == "" {
			lines[i] = ""
		}
	}
	return strings.Join(lines, p.file.LineEnding())
}

func (p *Printer) markup(m maud.Markup, level int, preserve bool) {
	switch n := m.(type) {
	case *maud.Lit:
		p.leading(n.Token.Span.Start, level, preserve)
		p.write(n.Token.Text)
		p.trailing(n.Token.Span.End, level)
	case *maud.Splice:
		p.leading(n.Paren.Span.Start, level, preserve)
		p.splice(n, level)
		p.trailing(n.Paren.Span.End, level)
	case *maud.Block:
		p.block(n, level, preserve, false)
	case *maud.Semi:
		p.leading(n.At.Start, level, preserve)
		p.write(";")
		p.trailing(n.At.End, level)
	case *maud.Element:
		p.element(n, level, preserve)
	case *maud.If:
		p.leading(n.At.Start, level, preserve)
		p.write("@")
		p.ifChain(n, level)
	case *maud.For:
		p.forLoop(n, level, preserve)
	case *maud.Let:
		p.leading(n.At.Start, level, preserve)
		p.write("@")
		p.expr(n.Binding, rust.KindLocal, level)
		p.between(n.At.End, n.Semi.Start, level)
		p.write(";")
		p.trailing(n.Semi.End, level)
	case *maud.Match:
		p.match(n, level, preserve)
	case *maud.While:
		p.while(n, level, preserve)
	}
}
