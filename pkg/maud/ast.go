// Package maud parses the body of a maud `html!` invocation into a markup
// tree.
package maud

import (
	"strings"

	"github.com/yaklabco/maudfmt/pkg/rust"
	"github.com/yaklabco/maudfmt/pkg/source"
)

// Markup is one node of a template.
type Markup interface {
	Span() source.Span
	markup()
}

// Lit is a literal, printed verbatim.
type Lit struct {
	Token rust.Token
}

// Splice interpolates a host expression: `(expr)`.
type Splice struct {
	Paren rust.Token
	Expr  Expr
}

// Block is a braced list of markup.
type Block struct {
	Open    source.Span
	Close   source.Span
	Markups []Markup
}

// Semi is a stray `;`.
type Semi struct {
	At source.Span
}

// Element is `name #id .class attr=value { … }` or a void element ending in `;`.
type Element struct {
	// Name is nil for implicit elements starting with `#` or `.`.
	Name  *Name
	Attrs []Attr
	// Exactly one of Void and Body is set.
	Void *source.Span
	Body *Block
}

func (l *Lit) Span() source.Span    { return l.Token.Span }
func (s *Splice) Span() source.Span { return s.Paren.Span }
func (b *Block) Span() source.Span  { return source.Span{Start: b.Open.Start, End: b.Close.End} }
func (s *Semi) Span() source.Span   { return s.At }

func (e *Element) Span() source.Span {
	span := source.Span{}
	switch {
	case e.Name != nil:
		span.Start = e.Name.Span.Start
	case len(e.Attrs) > 0:
		span.Start = e.Attrs[0].Span().Start
	}
	if e.Body != nil {
		span.End = e.Body.Close.End
	} else if e.Void != nil {
		span.End = e.Void.End
	}
	return span
}

func (*Lit) markup()     {}
func (*Splice) markup()  {}
func (*Block) markup()   {}
func (*Semi) markup()    {}
func (*Element) markup() {}

// Expr is a run of host-language tokens.
type Expr struct {
	Tokens []rust.Token
}

// Span covers the expression's tokens.
func (e Expr) Span() source.Span { return rust.SpanOf(e.Tokens) }

// NameFragment is one piece of a dashed or colon-separated name.
type NameFragment struct {
	Text string
	// Sep is "-", ":" or "" for the last fragment.
	Sep string
}

// Name is an element or attribute name such as `data-id` or `xml:lang`.
type Name struct {
	Fragments []NameFragment
	// Quoted is set for names written as string literals.
	Quoted bool
	Span   source.Span
}

// String joins the fragments.
func (n *Name) String() string {
	var b strings.Builder
	for _, f := range n.Fragments {
		b.WriteString(f.Text)
		b.WriteString(f.Sep)
	}
	return b.String()
}

// NameOrMarkup is the value of an id or class.
type NameOrMarkup struct {
	Name   *Name
	Markup Markup
}

// Span covers the name or the markup.
func (v NameOrMarkup) Span() source.Span {
	if v.Name != nil {
		return v.Name.Span
	}
	return v.Markup.Span()
}

// Toggler is a bracketed boolean condition: `[cond]`.
type Toggler struct {
	Bracket rust.Token
	Cond    Expr
}

// Attr is an id, class or named attribute.
type Attr interface {
	Span() source.Span
	attr()
}

// IDAttr is `#value`.
type IDAttr struct {
	Pound source.Span
	Value NameOrMarkup
}

// ClassAttr is `.value` with an optional toggle.
type ClassAttr struct {
	Dot     source.Span
	Value   NameOrMarkup
	Toggler *Toggler
}

// AttrKind distinguishes the forms of a named attribute.
type AttrKind int

const (
	// AttrNormal is `name=value`.
	AttrNormal AttrKind = iota
	// AttrOptional is `name=[option]`.
	AttrOptional
	// AttrEmpty is `name` or `name[cond]`.
	AttrEmpty
)

// NamedAttr is a named attribute.
type NamedAttr struct {
	Name    *Name
	Kind    AttrKind
	Value   Markup
	Toggler *Toggler
}

func (a *IDAttr) Span() source.Span    { return a.Pound }
func (a *ClassAttr) Span() source.Span { return a.Dot }
func (a *NamedAttr) Span() source.Span { return a.Name.Span }

func (*IDAttr) attr()    {}
func (*ClassAttr) attr() {}
func (*NamedAttr) attr() {}

// Cond is the condition of `@if` or `@while`. Let conditions set Pattern.
type Cond struct {
	Let     bool
	Pattern Expr
	Value   Expr
}

// If is `@if cond { … } @else …`.
type If struct {
	At   source.Span
	Cond Cond
	Then *Block
	// ElseAt is the `@` of the else branch; zero when there is none.
	ElseAt source.Span
	// At most one of ElseIf and Else is set.
	ElseIf *If
	Else   *Block
}

// For is `@for pattern in source { … }`.
type For struct {
	At      source.Span
	Pattern Expr
	Source  Expr
	Body    *Block
}

// Let is `@let binding;`.
type Let struct {
	At      source.Span
	Binding Expr
	Semi    source.Span
}

// MatchArm is `pattern [if guard] => body`.
type MatchArm struct {
	Pattern Expr
	Guard   *Expr
	Arrow   source.Span
	Body    Markup
	Comma   *source.Span
}

// Match is `@match expr { arms }`.
type Match struct {
	At        source.Span
	Scrutinee Expr
	Brace     rust.Token
	Arms      []MatchArm
}

// While is `@while cond { … }`.
type While struct {
	At   source.Span
	Cond Cond
	Body *Block
}

func (n *If) Span() source.Span {
	end := n.Then.Close.End
	switch {
	case n.ElseIf != nil:
		end = n.ElseIf.Span().End
	case n.Else != nil:
		end = n.Else.Close.End
	}
	return source.Span{Start: n.At.Start, End: end}
}

func (n *For) Span() source.Span   { return source.Span{Start: n.At.Start, End: n.Body.Close.End} }
func (n *Let) Span() source.Span   { return source.Span{Start: n.At.Start, End: n.Semi.End} }
func (n *Match) Span() source.Span { return source.Span{Start: n.At.Start, End: n.Brace.Span.End} }
func (n *While) Span() source.Span { return source.Span{Start: n.At.Start, End: n.Body.Close.End} }

func (*If) markup()    {}
func (*For) markup()   {}
func (*Let) markup()   {}
func (*Match) markup() {}
func (*While) markup() {}
