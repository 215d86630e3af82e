package maud

import (
	"github.com/yaklabco/maudfmt/pkg/rust"
	"github.com/yaklabco/maudfmt/pkg/source"
)

type parser struct {
	file *source.File
	toks []rust.Token
	pos  int
	// end is the offset used for diagnostics at end of input.
	end int
}

// Parse parses the contents of an invocation's delimited group.
func Parse(body rust.Token, file *source.File) (*Block, error) {
	if span, ok := file.BlockCommentIn(body.Span.Start, body.Span.End); ok {
		return nil, newParseError(file, span.Start, ErrMsgBlockComment, "")
	}
	return parseBlock(file, body)
}

func parseBlock(file *source.File, group rust.Token) (*Block, error) {
	p := &parser{file: file, toks: group.Children, end: group.Close.Start}
	markups, err := p.markups()
	if err != nil {
		return nil, err
	}
	return &Block{Open: group.Open, Close: group.Close, Markups: markups}, nil
}

func (p *parser) done() bool { return p.pos >= len(p.toks) }

func (p *parser) cur() rust.Token { return p.toks[p.pos] }

// at reports whether the token n ahead is punctuation or an identifier
// with text s.
func (p *parser) at(n int, s string) bool {
	return p.pos+n < len(p.toks) && p.toks[p.pos+n].Is(s)
}

func (p *parser) errAt(msg string) error {
	if p.done() {
		return newParseError(p.file, p.end, msg, "")
	}
	tok := p.cur()
	return newParseError(p.file, tok.Span.Start, msg, p.file.Slice(tok.Span))
}

func (p *parser) markups() ([]Markup, error) {
	var out []Markup
	for !p.done() {
		m, err := p.markup()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (p *parser) markup() (Markup, error) {
	if p.done() {
		return nil, p.errAt(ErrMsgUnexpectedToken)
	}
	tok := p.cur()

	switch {
	case tok.Kind == rust.Literal:
		p.pos++
		return &Lit{Token: tok}, nil
	case tok.IsGroup(rust.Paren):
		p.pos++
		return &Splice{Paren: tok, Expr: Expr{Tokens: tok.Children}}, nil
	case tok.IsGroup(rust.Brace):
		p.pos++
		return parseBlock(p.file, tok)
	case tok.Is(";"):
		p.pos++
		return &Semi{At: tok.Span}, nil
	case tok.Is("@"):
		return p.control()
	case tok.Kind == rust.Ident, tok.Is("#"), tok.Is("."):
		return p.element()
	default:
		return nil, p.errAt(ErrMsgUnexpectedToken)
	}
}

func (p *parser) element() (*Element, error) {
	el := &Element{}
	if p.cur().Kind == rust.Ident {
		name, err := p.name()
		if err != nil {
			return nil, err
		}
		el.Name = name
	}

	for {
		if p.done() {
			return nil, p.errAt(ErrMsgExpectedBody)
		}
		tok := p.cur()

		switch {
		case tok.Is(";"):
			p.pos++
			span := tok.Span
			el.Void = &span
			return el, nil
		case tok.IsGroup(rust.Brace):
			p.pos++
			body, err := parseBlock(p.file, tok)
			if err != nil {
				return nil, err
			}
			el.Body = body
			return el, nil
		case tok.Is("#"):
			p.pos++
			value, err := p.nameOrMarkup()
			if err != nil {
				return nil, err
			}
			el.Attrs = append(el.Attrs, &IDAttr{Pound: tok.Span, Value: value})
		case tok.Is("."):
			p.pos++
			value, err := p.nameOrMarkup()
			if err != nil {
				return nil, err
			}
			el.Attrs = append(el.Attrs, &ClassAttr{Dot: tok.Span, Value: value, Toggler: p.toggler()})
		case tok.Kind == rust.Ident, tok.Kind == rust.Literal && (p.at(1, "=") || p.pos+1 < len(p.toks) && p.toks[p.pos+1].IsGroup(rust.Bracket)):
			attr, err := p.namedAttr()
			if err != nil {
				return nil, err
			}
			el.Attrs = append(el.Attrs, attr)
		default:
			return nil, p.errAt(ErrMsgExpectedBody)
		}
	}
}

func (p *parser) namedAttr() (*NamedAttr, error) {
	var name *Name
	if tok := p.cur(); tok.Kind == rust.Literal {
		p.pos++
		name = &Name{Fragments: []NameFragment{{Text: tok.Text}}, Quoted: true, Span: tok.Span}
	} else {
		var err error
		if name, err = p.name(); err != nil {
			return nil, err
		}
	}

	attr := &NamedAttr{Name: name, Kind: AttrEmpty}
	if !p.at(0, "=") {
		attr.Toggler = p.toggler()
		return attr, nil
	}
	p.pos++

	if t := p.toggler(); t != nil {
		attr.Kind = AttrOptional
		attr.Toggler = t
		return attr, nil
	}

	value, err := p.value()
	if err != nil {
		return nil, err
	}
	attr.Kind = AttrNormal
	attr.Value = value
	return attr, nil
}

// value parses an attribute value: a literal, a splice or a block.
func (p *parser) value() (Markup, error) {
	if p.done() {
		return nil, p.errAt(ErrMsgExpectedValue)
	}
	tok := p.cur()
	if tok.Kind == rust.Literal || tok.IsGroup(rust.Paren) || tok.IsGroup(rust.Brace) {
		return p.markup()
	}
	return nil, p.errAt(ErrMsgExpectedValue)
}

func (p *parser) nameOrMarkup() (NameOrMarkup, error) {
	if !p.done() && p.cur().Kind == rust.Ident {
		name, err := p.name()
		if err != nil {
			return NameOrMarkup{}, err
		}
		return NameOrMarkup{Name: name}, nil
	}
	m, err := p.value()
	if err != nil {
		return NameOrMarkup{}, err
	}
	return NameOrMarkup{Markup: m}, nil
}

func (p *parser) toggler() *Toggler {
	if p.done() || !p.cur().IsGroup(rust.Bracket) {
		return nil
	}
	tok := p.cur()
	p.pos++
	return &Toggler{Bracket: tok, Cond: Expr{Tokens: tok.Children}}
}

// name parses fragments joined by `-` or `:`.
func (p *parser) name() (*Name, error) {
	if p.done() || p.cur().Kind != rust.Ident {
		return nil, p.errAt(ErrMsgExpectedName)
	}
	first := p.cur()
	name := &Name{Fragments: []NameFragment{{Text: first.Text}}, Span: first.Span}
	p.pos++

	for (p.at(0, "-") || p.at(0, ":")) && p.pos+1 < len(p.toks) {
		next := p.toks[p.pos+1]
		if next.Kind != rust.Ident && next.Kind != rust.Literal {
			break
		}
		name.Fragments[len(name.Fragments)-1].Sep = p.cur().Text
		name.Fragments = append(name.Fragments, NameFragment{Text: next.Text})
		name.Span.End = next.Span.End
		p.pos += 2
	}
	return name, nil
}
