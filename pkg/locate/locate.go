// Package locate finds template macro invocations in Rust token trees.
package locate

import (
	"slices"
	"strings"

	"github.com/yaklabco/maudfmt/pkg/rust"
	"github.com/yaklabco/maudfmt/pkg/source"
)

// DefaultMacroNames are the invocation names recognized when none are
// configured.
//
//nolint:gochecknoglobals // Read-only defaults.
var DefaultMacroNames = []string{"maud::html", "html"}

// Indent is the leading whitespace of the line an invocation starts on.
type Indent struct {
	Tabs   int
	Spaces int
}

// Depth normalizes the indentation to 4-column units.
func (i Indent) Depth() int {
	return i.Tabs + i.Spaces/4
}

// Invocation is one recognized macro call site.
type Invocation struct {
	// Name is the macro path as written, without the `!`.
	Name string
	// Span covers the path through the closing delimiter.
	Span   source.Span
	Indent Indent
	// Body is the delimited group holding the template.
	Body rust.Token
	// Skip is set when a skip attribute covers the invocation.
	Skip bool
}

// scope is one skip frame: either everything, or a set of macro names.
type scope struct {
	all    bool
	macros []string
}

func (s scope) covers(name string) bool {
	if s.all {
		return true
	}
	last := name
	if i := strings.LastIndex(name, "::"); i >= 0 {
		last = name[i+2:]
	}
	return slices.Contains(s.macros, name) || slices.Contains(s.macros, last)
}

// scopes is the stack of active skip frames. It is passed by value down
// the traversal, so a frame pushed for one item is gone once the walk
// returns from it.
type scopes []scope

func (st scopes) push(s scope) scopes {
	out := make(scopes, len(st), len(st)+1)
	copy(out, st)
	return append(out, s)
}

func (st scopes) skips(name string) bool {
	for _, s := range st {
		if s.covers(name) {
			return true
		}
	}
	return false
}

//nolint:gochecknoglobals // Read-only lookup table.
var itemKeywords = map[string]bool{
	"fn": true, "pub": true, "impl": true, "mod": true, "struct": true,
	"enum": true, "trait": true, "unsafe": true, "async": true, "extern": true,
	"type": true, "use": true, "const": true, "static": true, "union": true,
}

type finder struct {
	file  *source.File
	names []string
	found []Invocation
}

// Find returns the invocations of any of names in source order. Macro
// bodies are opaque: nothing is collected from inside another macro call.
func Find(file *source.File, trees []rust.Token, names []string) []Invocation {
	f := &finder{file: file, names: names}
	f.walk(trees, nil)
	return f.found
}

func (f *finder) walk(toks []rust.Token, stack scopes) {
	for i := 0; i < len(toks); {
		tok := toks[i]

		if tok.Is("#") && i+2 < len(toks) && toks[i+1].Is("!") && toks[i+2].IsGroup(rust.Bracket) {
			if s, ok := skipAttribute(toks[i+2]); ok {
				stack = stack.push(s)
			}
			i += 3
			continue
		}

		if tok.Is("#") && i+1 < len(toks) && toks[i+1].IsGroup(rust.Bracket) {
			j := i
			var frame scope
			matched := false
			for j+1 < len(toks) && toks[j].Is("#") && toks[j+1].IsGroup(rust.Bracket) {
				if s, ok := skipAttribute(toks[j+1]); ok {
					frame.all = frame.all || s.all
					frame.macros = append(frame.macros, s.macros...)
					matched = true
				}
				j += 2
			}
			if matched {
				end := itemEnd(toks, j)
				f.walk(toks[j:end], stack.push(frame))
				i = end
			} else {
				i = j
			}
			continue
		}

		if name, body, next, ok := macroCall(toks, i); ok {
			if slices.Contains(f.names, strings.TrimPrefix(name, "::")) {
				f.found = append(f.found, Invocation{
					Name:   name,
					Span:   source.Span{Start: tok.Span.Start, End: body.Span.End},
					Indent: f.indentAt(tok.Span.Start),
					Body:   body,
					Skip:   stack.skips(strings.TrimPrefix(name, "::")),
				})
			}
			i = next
			continue
		}

		if tok.Kind == rust.Group {
			f.walk(tok.Children, stack)
		}
		i++
	}
}

// macroCall matches `[::]a::b! <group>` and `macro_rules! name <group>` at
// toks[i].
func macroCall(toks []rust.Token, i int) (string, rust.Token, int, bool) {
	var path strings.Builder
	j := i
	if toks[j].Is("::") {
		path.WriteString("::")
		j++
	}
	for {
		if j >= len(toks) || toks[j].Kind != rust.Ident {
			return "", rust.Token{}, 0, false
		}
		path.WriteString(toks[j].Text)
		j++
		if j < len(toks) && toks[j].Is("::") {
			path.WriteString("::")
			j++
			continue
		}
		break
	}

	if j >= len(toks) || !toks[j].Is("!") {
		return "", rust.Token{}, 0, false
	}
	j++
	if path.String() == "macro_rules" && j < len(toks) && toks[j].Kind == rust.Ident {
		j++
	}
	if j >= len(toks) || toks[j].Kind != rust.Group {
		return "", rust.Token{}, 0, false
	}
	return path.String(), toks[j], j + 1, true
}

// skipAttribute recognizes rustfmt::skip, maudfmt::skip and
// rustfmt::skip::macros(...).
func skipAttribute(group rust.Token) (scope, bool) {
	var parts []string
	var args *rust.Token
	for idx, tok := range group.Children {
		switch {
		case tok.Kind == rust.Ident:
			parts = append(parts, tok.Text)
		case tok.Is("::"):
		case tok.IsGroup(rust.Paren) && idx == len(group.Children)-1:
			args = &group.Children[idx]
		default:
			return scope{}, false
		}
	}

	path := strings.Join(parts, "::")
	switch {
	case args == nil && (path == "rustfmt::skip" || path == "maudfmt::skip"):
		return scope{all: true}, true
	case args != nil && (path == "rustfmt::skip::macros" || path == "maudfmt::skip::macros"):
		var names []string
		for _, tok := range args.Children {
			if tok.Kind == rust.Ident {
				names = append(names, tok.Text)
			}
		}
		return scope{macros: names}, true
	}
	return scope{}, false
}

// itemEnd returns the index just past the item or statement starting at
// toks[start].
func itemEnd(toks []rust.Token, start int) int {
	item := start < len(toks) && toks[start].Kind == rust.Ident && itemKeywords[toks[start].Text]
	for k := start; k < len(toks); k++ {
		if toks[k].Is(";") || item && toks[k].IsGroup(rust.Brace) {
			return k + 1
		}
	}
	return len(toks)
}

func (f *finder) indentAt(offset int) Indent {
	line := f.file.Line(f.file.LineOf(offset))
	var ind Indent
	for _, c := range line {
		switch c {
		case '\t':
			ind.Tabs++
		case ' ':
			ind.Spaces++
		default:
			return ind
		}
	}
	return ind
}
