package printer

import (
	"github.com/yaklabco/maudfmt/pkg/maud"
)

// block prints b at level. It prints as `{}` when empty, on one line when
// its children fit and no comment sits inside it, and otherwise one child
// per line.
func (p *Printer) block(b *maud.Block, level int, preserve, force bool) {
	p.leading(b.Open.Start, level, preserve)

	if len(b.Markups) == 0 && !p.file.HasCommentBetween(b.Open.End, b.Close.Start) {
		p.write("{}")
		p.trailing(b.Close.End, level)
		return
	}

	expand := force || p.containsComments(b.Open.Start, b.Close.Start)
	if !expand {
		w, ok := p.blockWidth(b)
		expand = !ok || !p.fits(w)
	}

	p.write("{")
	if p.trailing(b.Open.End, level+1) || expand {
		p.expandBody(b, level)
		p.trailing(b.Close.End, level)
		return
	}

	for _, m := range b.Markups {
		p.write(" ")
		p.markup(m, level+1, false)
	}
	p.write(" }")
	p.trailing(b.Close.End, level)
}

// expandBody prints the children of b one per line, then the closing
// brace. The opening brace has already been written; a comment after the
// closing brace is left to the caller.
func (p *Printer) expandBody(b *maud.Block, level int) {
	if len(b.Markups) == 0 {
		p.commentLines(b.Open.End, b.Close.Start, level+1)
	} else {
		for i, m := range b.Markups {
			p.newLine(level + 1)
			p.markup(m, level+1, i > 0)
		}
		last := b.Markups[len(b.Markups)-1]
		p.commentLines(last.Span().End, b.Close.Start, level+1)
	}

	p.newLine(level)
	p.write("}")
}
