package rust

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/yaklabco/maudfmt/pkg/source"
)

// IndentUnit is the text of one indentation level.
const IndentUnit = "    "

// RenderKind selects how a token sequence is interpreted.
type RenderKind int

const (
	// KindExpr is a value expression.
	KindExpr RenderKind = iota
	// KindPattern is a pattern, as in match arms and for loops.
	KindPattern
	// KindLocal is a let-binding starting with the `let` keyword.
	KindLocal
)

// RenderError is returned when tokens cannot be rendered in the requested
// position. The caller keeps the original source text.
type RenderError struct {
	Span   source.Span
	Reason string
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	return fmt.Sprintf("cannot render expression at byte %d: %s", e.Span.Start, e.Reason)
}

// class describes how the last emitted token binds to the next one.
type class int

const (
	clsNone    class = iota // start of a sequence
	clsValue                // identifiers, literals, closing delimiters
	clsKeyword              // keywords that take an operand
	clsBinary               // spaced binary operators
	clsTight                // `.`, `::`, `#`, openers; no space after
	clsSep                  // `,` `;` `:`; space after only
)

//nolint:gochecknoglobals // Read-only lookup table.
var keywords = map[string]bool{
	"as": true, "async": true, "break": true, "const": true, "continue": true,
	"dyn": true, "else": true, "enum": true, "extern": true, "fn": true,
	"for": true, "if": true, "impl": true, "in": true, "let": true,
	"loop": true, "match": true, "mod": true, "move": true, "mut": true,
	"pub": true, "ref": true, "return": true, "static": true, "struct": true,
	"trait": true, "type": true, "unsafe": true, "use": true, "where": true,
	"while": true, "yield": true,
}

// Render formats toks on as few lines as the token structure allows. The
// first line carries no indentation; continuation lines are indented by
// depth units.
func Render(toks []Token, kind RenderKind, depth int) ([]string, error) {
	if len(toks) > 0 {
		leadingLet := toks[0].Kind == Ident && toks[0].Text == "let"
		switch {
		case kind == KindExpr && leadingLet:
			return nil, &RenderError{Span: SpanOf(toks), Reason: "let is only allowed in condition position"}
		case kind == KindLocal && !leadingLet:
			return nil, &RenderError{Span: SpanOf(toks), Reason: "binding must start with let"}
		}
	}

	r := &renderer{depth: depth}
	r.seq(toks)
	return append(r.lines, r.buf.String()), nil
}

// RenderLine renders toks and joins continuation lines. It is used for
// measurement.
func RenderLine(toks []Token, kind RenderKind) (string, bool, error) {
	lines, err := Render(toks, kind, 0)
	if err != nil {
		return "", false, err
	}
	return lines[0], len(lines) == 1, nil
}

type renderer struct {
	lines []string
	buf   strings.Builder
	depth int
}

func (r *renderer) newLine() {
	r.lines = append(r.lines, r.buf.String())
	r.buf.Reset()
	r.buf.WriteString(strings.Repeat(IndentUnit, r.depth))
}

// seq renders one token sequence at the current nesting.
func (r *renderer) seq(toks []Token) {
	prev := clsNone
	inClosure := false
	generics := 0

	for i, tok := range toks {
		cur, tightLeft := r.classify(tok, prev, toks[i:], &inClosure, &generics)
		if prev != clsNone && prev != clsTight && !tightLeft {
			r.buf.WriteByte(' ')
		}

		if tok.Kind == Group {
			r.group(tok)
		} else {
			r.buf.WriteString(tok.Text)
		}
		prev = cur
	}
}

// classify returns the class of tok and whether it binds to the left.
func (r *renderer) classify(tok Token, prev class, rest []Token, inClosure *bool, generics *int) (class, bool) {
	operand := prev != clsValue

	switch tok.Kind {
	case Ident:
		if keywords[tok.Text] {
			return clsKeyword, false
		}
		return clsValue, false
	case Literal, Lifetime:
		return clsValue, false
	case Group:
		if tok.Delim == Brace {
			return clsValue, false
		}
		return clsValue, prev == clsValue
	}

	switch tok.Text {
	case ",", ";":
		return clsSep, true
	case ":":
		return clsSep, true
	case "::", ".":
		return clsTight, true
	case "?":
		return clsValue, true
	case "#", "$":
		return clsTight, false
	case "..", "..=", "...":
		return clsTight, prev == clsValue
	case "!":
		if prev == clsValue {
			return clsTight, true
		}
		return clsTight, false
	case "-", "*", "&", "&&":
		if operand {
			return clsTight, false
		}
		return clsBinary, false
	case "|":
		if *inClosure {
			*inClosure = false
			return clsBinary, true
		}
		if operand {
			*inClosure = true
			return clsTight, false
		}
		return clsBinary, false
	case "||":
		return clsBinary, false
	case "<":
		if r.isGeneric(prev, rest) {
			*generics++
			return clsTight, true
		}
		return clsBinary, false
	case ">":
		if *generics > 0 {
			*generics--
			return clsValue, true
		}
		return clsBinary, false
	case ">>":
		if *generics > 0 {
			*generics = max(*generics-2, 0)
			return clsValue, true
		}
		return clsBinary, false
	}

	return clsBinary, false
}

// isGeneric decides whether `<` opens generic arguments: after `::`, or
// after a capitalized path segment when a matching `>` follows.
func (r *renderer) isGeneric(prev class, rest []Token) bool {
	if r.lastText() == "::" {
		return true
	}
	if prev != clsValue {
		return prev == clsSep && r.lastText() == ":"
	}

	last := r.lastWord()
	if last == "" {
		return false
	}
	first := []rune(last)[0]
	if !unicode.IsUpper(first) {
		return false
	}
	return closesGeneric(rest)
}

func closesGeneric(rest []Token) bool {
	depth := 0
	for _, tok := range rest {
		if tok.Kind != Punct {
			continue
		}
		switch tok.Text {
		case "<":
			depth++
		case ">":
			depth--
		case ">>":
			depth -= 2
		case ";", "&&", "||", "==", "!=", "=", "=>":
			return false
		}
		if depth <= 0 {
			return true
		}
	}
	return false
}

func (r *renderer) lastText() string {
	s := strings.TrimRight(r.buf.String(), " ")
	if strings.HasSuffix(s, "::") {
		return "::"
	}
	if strings.HasSuffix(s, ":") {
		return ":"
	}
	return ""
}

func (r *renderer) lastWord() string {
	s := r.buf.String()
	i := len(s)
	for i > 0 {
		c := rune(s[i-1])
		if c != '_' && !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			break
		}
		i--
	}
	return s[i:]
}

func (r *renderer) group(tok Token) {
	if tok.Delim != Brace {
		r.buf.WriteString(tok.Delim.Open())
		r.seq(tok.Children)
		r.buf.WriteString(tok.Delim.Close())
		return
	}

	if len(tok.Children) == 0 {
		r.buf.WriteString("{}")
		return
	}

	arms := hasTopLevel(tok.Children, "=>")
	if !arms && !hasTopLevel(tok.Children, ";") {
		r.buf.WriteString("{ ")
		r.seq(tok.Children)
		r.buf.WriteString(" }")
		return
	}

	r.buf.WriteString("{")
	r.depth++
	for _, stmt := range splitStatements(tok.Children, arms) {
		r.newLine()
		r.seq(stmt)
	}
	r.depth--
	r.newLine()
	r.buf.WriteString("}")
}

func hasTopLevel(toks []Token, text string) bool {
	for _, tok := range toks {
		if tok.Kind == Punct && tok.Text == text {
			return true
		}
	}
	return false
}

// splitStatements breaks a block's contents into statements, or into match
// arms when arms is set.
func splitStatements(toks []Token, arms bool) [][]Token {
	var out [][]Token
	start := 0
	for i, tok := range toks {
		end := false
		switch {
		case arms && tok.Kind == Punct && tok.Text == ",":
			end = true
		case !arms && tok.Kind == Punct && tok.Text == ";":
			end = true
		case tok.IsGroup(Brace) && i+1 < len(toks):
			next := toks[i+1]
			if arms {
				end = i > 0 && toks[i-1].Is("=>") && !next.Is(",")
			} else {
				end = next.Kind == Literal || next.Kind == Ident && next.Text != "else" && next.Text != "as"
			}
		}
		if end {
			out = append(out, toks[start:i+1])
			start = i + 1
		}
	}
	if start < len(toks) {
		out = append(out, toks[start:])
	}
	return out
}
