package printer

import (
	"github.com/yaklabco/maudfmt/pkg/maud"
	"github.com/yaklabco/maudfmt/pkg/rust"
)

// ifChain prints `if cond { … }` and any else branches, each on the line of
// the preceding closing brace. The leading `@` has been written.
func (p *Printer) ifChain(n *maud.If, level int) {
	p.write("if ")
	p.cond(n.Cond, level)
	p.between(n.At.End, n.Then.Open.Start, level)
	p.write(" ")
	p.block(n.Then, level, false, false)

	switch {
	case n.ElseIf != nil:
		p.write(" @else")
		p.between(n.ElseAt.Start, n.ElseIf.At.Start, level)
		p.write(" ")
		p.ifChain(n.ElseIf, level)
	case n.Else != nil:
		p.write(" @else")
		p.between(n.ElseAt.Start, n.Else.Open.Start, level)
		p.write(" ")
		p.block(n.Else, level, false, false)
	}
}

// cond prints a condition. Let conditions are assembled here because a
// let is not an expression on its own.
func (p *Printer) cond(c maud.Cond, level int) {
	if !c.Let {
		p.expr(c.Value, rust.KindExpr, level)
		return
	}
	p.write("let ")
	p.expr(c.Pattern, rust.KindPattern, level)
	p.write(" = ")
	p.expr(c.Value, rust.KindExpr, level)
}

func (p *Printer) forLoop(n *maud.For, level int, preserve bool) {
	p.leading(n.At.Start, level, preserve)
	p.write("@for ")
	p.expr(n.Pattern, rust.KindPattern, level)
	p.write(" in ")
	p.forSource(n.Source, level)
	p.between(n.At.End, n.Body.Open.Start, level)
	p.write(" ")
	p.block(n.Body, level, false, true)
}

func (p *Printer) while(n *maud.While, level int, preserve bool) {
	p.leading(n.At.Start, level, preserve)
	p.write("@while ")
	p.cond(n.Cond, level)
	p.between(n.At.End, n.Body.Open.Start, level)
	p.write(" ")
	p.block(n.Body, level, false, true)
}

func (p *Printer) match(n *maud.Match, level int, preserve bool) {
	p.leading(n.At.Start, level, preserve)
	p.write("@match ")
	p.expr(n.Scrutinee, rust.KindExpr, level)
	p.between(n.At.End, n.Brace.Open.Start, level)
	p.write(" {")
	p.trailing(n.Brace.Open.End, level+1)

	if len(n.Arms) == 0 {
		p.commentLines(n.Brace.Open.End, n.Brace.Close.Start, level+1)
	}
	for i, arm := range n.Arms {
		p.newLine(level + 1)
		p.arm(arm, level+1, i > 0)
	}
	if len(n.Arms) > 0 {
		last := n.Arms[len(n.Arms)-1]
		end := last.Body.Span().End
		if last.Comma != nil {
			end = last.Comma.End
		}
		p.commentLines(end, n.Brace.Close.Start, level+1)
	}

	p.newLine(level)
	p.write("}")
	p.trailing(n.Brace.Close.End, level)
}

// arm prints one match arm. Comments around `=>` are printed on its
// near side.
func (p *Printer) arm(arm maud.MatchArm, level int, preserve bool) {
	start := arm.Arrow.Start
	if len(arm.Pattern.Tokens) > 0 {
		start = arm.Pattern.Span().Start
		p.leading(start, level, preserve)
	}
	p.expr(arm.Pattern, rust.KindPattern, level)
	if arm.Guard != nil {
		p.write(" if ")
		p.expr(*arm.Guard, rust.KindExpr, level)
	}
	p.between(start, arm.Arrow.Start, level)
	p.write(" =>")
	p.between(arm.Arrow.End, arm.Body.Span().Start, level)
	p.write(" ")

	if b, ok := arm.Body.(*maud.Block); ok {
		p.block(b, level, false, len(b.Markups) > 1)
	} else {
		p.markup(arm.Body, level, false)
	}
	if arm.Comma != nil {
		p.between(arm.Body.Span().End, arm.Comma.Start, level)
		p.trailing(arm.Comma.End, level)
	}
}
