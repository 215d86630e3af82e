package printer

import (
	"github.com/yaklabco/maudfmt/pkg/maud"
)

// partition orders attributes as ids, classes, then named attributes,
// keeping source order within each group.
func partition(attrs []maud.Attr) ([]*maud.IDAttr, []*maud.ClassAttr, []*maud.NamedAttr) {
	var (
		ids     []*maud.IDAttr
		classes []*maud.ClassAttr
		named   []*maud.NamedAttr
	)
	for _, a := range attrs {
		switch a := a.(type) {
		case *maud.IDAttr:
			ids = append(ids, a)
		case *maud.ClassAttr:
			classes = append(classes, a)
		case *maud.NamedAttr:
			named = append(named, a)
		}
	}
	return ids, classes, named
}

func (p *Printer) element(el *maud.Element, level int, preserve bool) {
	ids, classes, named := partition(el.Attrs)
	items := make([]maud.Attr, 0, len(el.Attrs))
	for _, a := range ids {
		items = append(items, a)
	}
	for _, a := range classes {
		items = append(items, a)
	}
	for _, a := range named {
		items = append(items, a)
	}

	var bodyStart int
	if el.Void != nil {
		bodyStart = el.Void.Start
	} else {
		bodyStart = el.Body.Open.Start
	}

	w, ok := p.elementWidth(el)
	wrap := !ok || !p.fits(w) || p.file.HasCommentBetween(el.Span().Start, bodyStart)

	// Comments between attributes stay with the attribute that follows
	// them in the source, wherever it is printed.
	gapStart := make(map[maud.Attr]int, len(el.Attrs))
	prevEnd := el.Span().Start
	if el.Name != nil {
		p.leading(el.Name.Span.Start, level, preserve)
		p.write(el.Name.String())
		p.trailing(el.Name.Span.End, level+1)
		prevEnd = el.Name.Span.End
	} else {
		p.leading(prevEnd, level, preserve)
	}
	for _, a := range el.Attrs {
		gapStart[a] = prevEnd
		prevEnd = a.Span().End
	}

	wrapped := false
	for i, a := range items {
		onOwnLine := i > 0 && wrap
		if onOwnLine {
			p.newLine(level + 1)
			wrapped = true
		}
		p.between(gapStart[a], a.Span().Start, level+1)
		p.attr(a, level, el.Name != nil && !onOwnLine)
	}
	p.between(prevEnd, bodyStart, level+1)

	if el.Void != nil {
		p.write(";")
		p.trailing(el.Void.End, level)
		return
	}

	if wrapped || p.pending {
		p.newLine(level)
	} else {
		p.write(" ")
	}
	p.block(el.Body, level, false, false)
}

// attr prints one attribute. spaced separates it from a preceding tag
// name on the same line.
func (p *Printer) attr(a maud.Attr, level int, spaced bool) {
	switch a := a.(type) {
	case *maud.IDAttr:
		if spaced {
			p.write(" ")
		}
		p.write("#")
		p.nameOrMarkup(a.Value, level)
		p.trailing(a.Value.Span().End, level+1)
	case *maud.ClassAttr:
		p.write(".")
		p.nameOrMarkup(a.Value, level)
		end := a.Value.Span().End
		if a.Toggler != nil {
			p.delimited(a.Toggler.Bracket, a.Toggler.Cond, level+1)
			end = a.Toggler.Bracket.Span.End
		}
		p.trailing(end, level+1)
	case *maud.NamedAttr:
		if spaced || p.lineHasContent() {
			p.write(" ")
		}
		p.write(a.Name.String())
		end := a.Name.Span.End
		switch a.Kind {
		case maud.AttrNormal:
			p.write("=")
			p.markup(a.Value, level+1, false)
			return
		case maud.AttrOptional:
			p.write("=")
		}
		if a.Toggler != nil {
			p.delimited(a.Toggler.Bracket, a.Toggler.Cond, level+1)
			end = a.Toggler.Bracket.Span.End
		}
		p.trailing(end, level+1)
	}
}

// lineHasContent reports whether an attribute follows other text on the
// current line, as a named attribute after an id or class does.
func (p *Printer) lineHasContent() bool {
	return !p.pending && !p.fresh()
}

func (p *Printer) nameOrMarkup(v maud.NameOrMarkup, level int) {
	if v.Name != nil {
		p.write(v.Name.String())
		return
	}
	p.markup(v.Markup, level+1, false)
}
