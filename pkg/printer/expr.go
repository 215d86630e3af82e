package printer

import (
	"strings"

	"github.com/yaklabco/maudfmt/pkg/maud"
	"github.com/yaklabco/maudfmt/pkg/rust"
)

// render formats an embedded expression for insertion at level. A
// comment inside the expression, or a renderer error, falls back to the
// verbatim source text and records a warning.
func (p *Printer) render(e maud.Expr, kind rust.RenderKind, level int) []string {
	if len(e.Tokens) == 0 {
		return []string{""}
	}

	span := e.Span()
	var err error
	if p.file.HasCommentBetween(span.Start, span.End) {
		err = &rust.RenderError{Span: span, Reason: "expression contains comments"}
	} else {
		var lines []string
		lines, err = rust.Render(e.Tokens, kind, p.base+level)
		if err == nil {
			return lines
		}
	}

	p.warnings = append(p.warnings, Warning{Span: span, Err: err})
	p.consume(span)
	return verbatim(p.file.Slice(span))
}

func verbatim(text string) []string {
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}
	return lines
}

func (p *Printer) expr(e maud.Expr, kind rust.RenderKind, level int) {
	p.writeLines(p.render(e, kind, level))
}

// exprWidth measures an expression rendered on one line.
func (p *Printer) exprWidth(e maud.Expr, kind rust.RenderKind) (int, bool) {
	if len(e.Tokens) == 0 {
		return 0, true
	}
	line, single, err := rust.RenderLine(e.Tokens, kind)
	if err != nil || p.file.HasCommentBetween(e.Span().Start, e.Span().End) {
		text := p.file.Slice(e.Span())
		return width(text), !strings.Contains(text, "\n")
	}
	if !single {
		return 0, false
	}
	return width(line), true
}

// delimited prints `open expr close` for a splice or a toggle. Comments
// between a delimiter and the expression put the expression on its own
// line, with the closing delimiter below it.
func (p *Printer) delimited(group rust.Token, e maud.Expr, level int) {
	p.write(group.Delim.Open())

	head, tail := group.Close.Start, group.Close.Start
	if len(e.Tokens) > 0 {
		head, tail = e.Span().Start, e.Span().End
	}
	if !p.file.HasCommentBetween(group.Open.End, head) && !p.file.HasCommentBetween(tail, group.Close.Start) {
		p.expr(e, rust.KindExpr, level)
		p.write(group.Delim.Close())
		return
	}

	p.between(group.Open.End, head, level+1)
	if len(e.Tokens) > 0 {
		p.expr(e, rust.KindExpr, level+1)
	}
	p.between(tail, group.Close.Start, level+1)
	p.newLine(level)
	p.write(group.Delim.Close())
}

func (p *Printer) splice(n *maud.Splice, level int) {
	p.delimited(n.Paren, n.Expr, level)
}

// forSource prints a loop source. Bare ranges are printed around their
// operator so that neither side is parenthesized.
func (p *Printer) forSource(e maud.Expr, level int) {
	for i, tok := range e.Tokens {
		if tok.Kind != rust.Punct || tok.Text != ".." && tok.Text != "..=" {
			continue
		}
		start := maud.Expr{Tokens: e.Tokens[:i]}
		end := maud.Expr{Tokens: e.Tokens[i+1:]}
		if len(start.Tokens) > 0 {
			p.expr(start, rust.KindExpr, level)
		}
		p.write(tok.Text)
		if len(end.Tokens) > 0 {
			p.expr(end, rust.KindExpr, level)
		}
		return
	}
	p.expr(e, rust.KindExpr, level)
}
