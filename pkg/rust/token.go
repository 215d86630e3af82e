// Package rust tokenizes Rust source into token trees and renders embedded
// expressions, patterns and let-bindings with normalized spacing.
package rust

import "github.com/yaklabco/maudfmt/pkg/source"

// Kind classifies a token.
type Kind int

const (
	Ident Kind = iota
	Lifetime
	Literal
	Punct
	Group
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case Ident:
		return "identifier"
	case Lifetime:
		return "lifetime"
	case Literal:
		return "literal"
	case Punct:
		return "punctuation"
	case Group:
		return "group"
	default:
		return "unknown"
	}
}

// Delimiter is the bracket pair of a group.
type Delimiter int

const (
	NoDelim Delimiter = iota
	Paren
	Bracket
	Brace
)

// Open returns the opening delimiter text.
func (d Delimiter) Open() string {
	switch d {
	case Paren:
		return "("
	case Bracket:
		return "["
	case Brace:
		return "{"
	default:
		return ""
	}
}

// Close returns the closing delimiter text.
func (d Delimiter) Close() string {
	switch d {
	case Paren:
		return ")"
	case Bracket:
		return "]"
	case Brace:
		return "}"
	default:
		return ""
	}
}

// Token is a leaf token or, for Kind == Group, a delimited token tree.
type Token struct {
	Kind Kind
	// Text is the source text of a leaf token; empty for groups.
	Text string
	// Span covers the token; for groups, open through close delimiter.
	Span source.Span

	Delim    Delimiter
	Open     source.Span
	Close    source.Span
	Children []Token
}

// Is reports whether t is a punctuation or identifier token with text s.
func (t Token) Is(s string) bool {
	return (t.Kind == Punct || t.Kind == Ident) && t.Text == s
}

// IsGroup reports whether t is a group with delimiter d.
func (t Token) IsGroup(d Delimiter) bool {
	return t.Kind == Group && t.Delim == d
}

// Inner returns the span strictly between a group's delimiters.
func (t Token) Inner() source.Span {
	return source.Span{Start: t.Open.End, End: t.Close.Start}
}

// SpanOf returns the span from the first to the last token of toks.
func SpanOf(toks []Token) source.Span {
	if len(toks) == 0 {
		return source.Span{}
	}
	return source.Span{Start: toks[0].Span.Start, End: toks[len(toks)-1].Span.End}
}
