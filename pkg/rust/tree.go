package rust

import (
	"github.com/yaklabco/maudfmt/pkg/source"
)

func delimOf(text string) (Delimiter, bool) {
	switch text {
	case "(", ")":
		return Paren, text == "("
	case "[", "]":
		return Bracket, text == "["
	case "{", "}":
		return Brace, text == "{"
	default:
		return NoDelim, false
	}
}

// BuildTrees nests flat tokens into groups by matching delimiters.
func BuildTrees(file *source.File, tokens []Token) ([]Token, error) {
	type frame struct {
		open  Token
		delim Delimiter
		toks  []Token
	}

	stack := []frame{{}}
	for _, tok := range tokens {
		delim, opening := NoDelim, false
		if tok.Kind == Punct {
			delim, opening = delimOf(tok.Text)
		}

		switch {
		case delim == NoDelim:
			top := &stack[len(stack)-1]
			top.toks = append(top.toks, tok)
		case opening:
			stack = append(stack, frame{open: tok, delim: delim})
		default:
			if len(stack) == 1 {
				return nil, unbalanced(file, tok.Span.Start, "unexpected closing delimiter "+tok.Text)
			}
			top := stack[len(stack)-1]
			if top.delim != delim {
				return nil, unbalanced(file, tok.Span.Start, "mismatched closing delimiter "+tok.Text)
			}
			stack = stack[:len(stack)-1]
			group := Token{
				Kind:     Group,
				Span:     source.Span{Start: top.open.Span.Start, End: tok.Span.End},
				Delim:    delim,
				Open:     top.open.Span,
				Close:    tok.Span,
				Children: top.toks,
			}
			parent := &stack[len(stack)-1]
			parent.toks = append(parent.toks, group)
		}
	}

	if len(stack) > 1 {
		open := stack[len(stack)-1].open
		return nil, unbalanced(file, open.Span.Start, "unclosed delimiter "+open.Text)
	}
	return stack[0].toks, nil
}

func unbalanced(file *source.File, offset int, msg string) error {
	pos := file.Position(offset)
	return &SyntaxError{Offset: offset, Line: pos.Line, Column: pos.Column, Msg: msg}
}

// Parse lexes and groups a whole document.
func Parse(file *source.File) ([]Token, []Comment, error) {
	flat, comments, err := Lex(file)
	if err != nil {
		return nil, nil, err
	}
	trees, err := BuildTrees(file, flat)
	if err != nil {
		return nil, nil, err
	}
	return trees, comments, nil
}
