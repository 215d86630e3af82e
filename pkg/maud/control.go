package maud

import (
	"github.com/yaklabco/maudfmt/pkg/rust"
	"github.com/yaklabco/maudfmt/pkg/source"
)

func (p *parser) control() (Markup, error) {
	at := p.cur().Span
	p.pos++
	if p.done() || p.cur().Kind != rust.Ident {
		return nil, p.errAt(ErrMsgExpectedControl)
	}

	switch p.cur().Text {
	case "if":
		p.pos++
		return p.ifExpr(at)
	case "for":
		p.pos++
		return p.forExpr(at)
	case "let":
		return p.letExpr(at)
	case "match":
		p.pos++
		return p.matchExpr(at)
	case "while":
		p.pos++
		cond, err := p.cond()
		if err != nil {
			return nil, err
		}
		body, err := p.block()
		if err != nil {
			return nil, err
		}
		return &While{At: at, Cond: cond, Body: body}, nil
	default:
		return nil, p.errAt(ErrMsgExpectedControl)
	}
}

// untilBrace collects tokens up to the next brace group, which is left
// unconsumed.
func (p *parser) untilBrace() []rust.Token {
	start := p.pos
	for !p.done() && !p.cur().IsGroup(rust.Brace) {
		p.pos++
	}
	return p.toks[start:p.pos]
}

func (p *parser) block() (*Block, error) {
	if p.done() || !p.cur().IsGroup(rust.Brace) {
		return nil, p.errAt(ErrMsgExpectedBlock)
	}
	tok := p.cur()
	p.pos++
	return parseBlock(p.file, tok)
}

func (p *parser) cond() (Cond, error) {
	start := p.pos
	toks := p.untilBrace()
	if len(toks) == 0 {
		p.pos = start
		return Cond{}, p.errAt(ErrMsgEmptyCondition)
	}
	if !toks[0].Is("let") {
		return Cond{Value: Expr{Tokens: toks}}, nil
	}

	for i, tok := range toks {
		if tok.Kind == rust.Punct && tok.Text == "=" {
			return Cond{
				Let:     true,
				Pattern: Expr{Tokens: toks[1:i]},
				Value:   Expr{Tokens: toks[i+1:]},
			}, nil
		}
	}
	p.pos = start
	return Cond{}, p.errAt(ErrMsgMissingLetValue)
}

func (p *parser) ifExpr(at source.Span) (*If, error) {
	cond, err := p.cond()
	if err != nil {
		return nil, err
	}
	then, err := p.block()
	if err != nil {
		return nil, err
	}
	node := &If{At: at, Cond: cond, Then: then}

	if !p.at(0, "@") || !p.at(1, "else") {
		return node, nil
	}
	node.ElseAt = p.cur().Span
	if p.file.HasCommentBetween(then.Close.End, node.ElseAt.Start) {
		return nil, newParseError(p.file, node.ElseAt.Start, ErrMsgCommentBeforeElse, "@else")
	}
	p.pos += 2

	if p.at(0, "if") {
		ifAt := p.cur().Span
		p.pos++
		node.ElseIf, err = p.ifExpr(ifAt)
		return node, err
	}
	node.Else, err = p.block()
	return node, err
}

func (p *parser) forExpr(at source.Span) (*For, error) {
	start := p.pos
	for !p.done() && !p.at(0, "in") {
		p.pos++
	}
	if p.done() {
		p.pos = start
		return nil, p.errAt(ErrMsgMissingIn)
	}
	pattern := p.toks[start:p.pos]
	p.pos++

	src := p.untilBrace()
	if len(src) == 0 {
		return nil, p.errAt(ErrMsgEmptyCondition)
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &For{At: at, Pattern: Expr{Tokens: pattern}, Source: Expr{Tokens: src}, Body: body}, nil
}

func (p *parser) letExpr(at source.Span) (*Let, error) {
	start := p.pos
	for !p.done() && !p.at(0, ";") {
		p.pos++
	}
	if p.done() {
		return nil, p.errAt(ErrMsgMissingSemicolon)
	}
	binding := p.toks[start:p.pos]
	semi := p.cur().Span
	p.pos++
	return &Let{At: at, Binding: Expr{Tokens: binding}, Semi: semi}, nil
}

func (p *parser) matchExpr(at source.Span) (*Match, error) {
	scrutinee := p.untilBrace()
	if len(scrutinee) == 0 {
		return nil, p.errAt(ErrMsgEmptyCondition)
	}
	if p.done() {
		return nil, p.errAt(ErrMsgExpectedBlock)
	}
	brace := p.cur()
	p.pos++

	arms, err := parseArms(p.file, brace)
	if err != nil {
		return nil, err
	}
	return &Match{At: at, Scrutinee: Expr{Tokens: scrutinee}, Brace: brace, Arms: arms}, nil
}

func parseArms(file *source.File, brace rust.Token) ([]MatchArm, error) {
	p := &parser{file: file, toks: brace.Children, end: brace.Close.Start}
	var arms []MatchArm

	for !p.done() {
		start := p.pos
		for !p.done() && !p.at(0, "=>") && !p.at(0, "if") {
			p.pos++
		}
		arm := MatchArm{Pattern: Expr{Tokens: p.toks[start:p.pos]}}

		if p.at(0, "if") {
			p.pos++
			guardStart := p.pos
			for !p.done() && !p.at(0, "=>") {
				p.pos++
			}
			arm.Guard = &Expr{Tokens: p.toks[guardStart:p.pos]}
		}
		if !p.at(0, "=>") {
			return nil, p.errAt(ErrMsgMissingArrow)
		}
		arm.Arrow = p.cur().Span
		p.pos++

		if p.done() {
			return nil, p.errAt(ErrMsgExpectedArmBody)
		}
		body, err := p.markup()
		if err != nil {
			return nil, err
		}
		arm.Body = body

		if p.at(0, ",") {
			span := p.cur().Span
			arm.Comma = &span
			p.pos++
		}
		arms = append(arms, arm)
	}
	return arms, nil
}
