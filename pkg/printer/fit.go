package printer

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/maudfmt/pkg/maud"
	"github.com/yaklabco/maudfmt/pkg/rust"
)

func width(s string) int {
	return runewidth.StringWidth(s)
}

// markupWidth returns the single-line width of m, or false when m cannot
// be measured without laying it out: elements, control flow, multi-line
// literals, and anything holding such a part.
func (p *Printer) markupWidth(m maud.Markup) (int, bool) {
	switch n := m.(type) {
	case *maud.Lit:
		if strings.Contains(n.Token.Text, "\n") {
			return 0, false
		}
		return width(n.Token.Text), true
	case *maud.Splice:
		return p.groupWidth(n.Paren, n.Expr)
	case *maud.Block:
		return p.blockWidth(n)
	case *maud.Semi:
		return 1, true
	default:
		return 0, false
	}
}

// groupWidth measures `(expr)` or `[expr]`.
func (p *Printer) groupWidth(group rust.Token, e maud.Expr) (int, bool) {
	if p.file.HasCommentBetween(group.Open.End, group.Close.Start) {
		return 0, false
	}
	w, ok := p.exprWidth(e, rust.KindExpr)
	return w + 2, ok
}

// blockWidth measures `{ a b c }`.
func (p *Printer) blockWidth(b *maud.Block) (int, bool) {
	if len(b.Markups) == 0 {
		return 2, true
	}
	total := 3
	for _, m := range b.Markups {
		w, ok := p.markupWidth(m)
		if !ok {
			return 0, false
		}
		total += w + 1
	}
	return total, true
}

func (p *Printer) valueWidth(v maud.NameOrMarkup) (int, bool) {
	if v.Name != nil {
		return width(v.Name.String()), true
	}
	return p.markupWidth(v.Markup)
}

func (p *Printer) togglerWidth(t *maud.Toggler) (int, bool) {
	if t == nil {
		return 0, true
	}
	return p.groupWidth(t.Bracket, t.Cond)
}

// elementWidth measures an element's name, attributes and body opener as
// they print on one line.
func (p *Printer) elementWidth(el *maud.Element) (int, bool) {
	total := 0
	if el.Name != nil {
		total += width(el.Name.String())
	}

	ids, classes, named := partition(el.Attrs)
	for _, a := range ids {
		w, ok := p.valueWidth(a.Value)
		if !ok {
			return 0, false
		}
		total += w + 1
		if el.Name != nil {
			total++
		}
	}
	for _, a := range classes {
		w, ok := p.valueWidth(a.Value)
		if !ok {
			return 0, false
		}
		t, ok := p.togglerWidth(a.Toggler)
		if !ok {
			return 0, false
		}
		total += w + t + 1
	}
	for _, a := range named {
		total += 1 + width(a.Name.String())
		switch a.Kind {
		case maud.AttrNormal:
			w, ok := p.markupWidth(a.Value)
			if !ok {
				return 0, false
			}
			total += w + 1
		case maud.AttrOptional:
			t, ok := p.togglerWidth(a.Toggler)
			if !ok {
				return 0, false
			}
			total += t + 1
		case maud.AttrEmpty:
			t, ok := p.togglerWidth(a.Toggler)
			if !ok {
				return 0, false
			}
			total += t
		}
	}

	if el.Void != nil {
		total++
	} else {
		total += 2
	}
	return total, true
}
