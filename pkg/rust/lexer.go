package rust

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yaklabco/maudfmt/pkg/source"
)

// SyntaxError reports input that cannot be tokenized or grouped.
type SyntaxError struct {
	Offset int
	Line   int
	Column int
	Msg    string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line+1, e.Column+1, e.Msg)
}

// Comment is a line or block comment found while lexing.
type Comment struct {
	Span  source.Span
	Text  string
	Block bool
}

// Multi-character operators, longest first within each leading byte.
//
//nolint:gochecknoglobals // Read-only lookup table.
var puncts = []string{
	"<<=", ">>=", "...", "..=",
	"::", "->", "=>", "==", "!=", "<=", ">=", "&&", "||",
	"+=", "-=", "*=", "/=", "%=", "^=", "&=", "|=", "<<", ">>", "..",
}

const singlePuncts = "+-*/%^!&|=<>@.,;:#$?~()[]{}"

type lexer struct {
	src      string
	pos      int
	tokens   []Token
	comments []Comment
	file     *source.File
}

// Lex splits src into leaf tokens and comments. Delimiters are returned as
// Punct tokens; see BuildTrees.
func Lex(file *source.File) ([]Token, []Comment, error) {
	lx := &lexer{src: file.Content(), file: file}
	if err := lx.run(); err != nil {
		return nil, nil, err
	}
	return lx.tokens, lx.comments, nil
}

func (lx *lexer) errorf(offset int, format string, args ...any) error {
	pos := lx.file.Position(offset)
	return &SyntaxError{Offset: offset, Line: pos.Line, Column: pos.Column, Msg: fmt.Sprintf(format, args...)}
}

func (lx *lexer) emit(kind Kind, start int) {
	lx.tokens = append(lx.tokens, Token{
		Kind: kind,
		Text: lx.src[start:lx.pos],
		Span: source.Span{Start: start, End: lx.pos},
	})
}

func (lx *lexer) peek(n int) byte {
	if lx.pos+n < len(lx.src) {
		return lx.src[lx.pos+n]
	}
	return 0
}

func (lx *lexer) run() error {
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		start := lx.pos

		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			lx.pos++
		case c == '/' && lx.peek(1) == '/':
			end := strings.IndexByte(lx.src[lx.pos:], '\n')
			if end < 0 {
				end = len(lx.src)
			} else {
				end += lx.pos
			}
			text := strings.TrimSuffix(lx.src[lx.pos:end], "\r")
			span := source.Span{Start: start, End: start + len(text)}
			lx.comments = append(lx.comments, Comment{Span: span, Text: text})
			lx.file.AddComment(source.Comment{Span: span, Text: text})
			lx.pos = end
		case c == '/' && lx.peek(1) == '*':
			if err := lx.blockComment(); err != nil {
				return err
			}
			lx.file.AddBlockComment(source.Span{Start: start, End: lx.pos})
			lx.comments = append(lx.comments, Comment{
				Span:  source.Span{Start: start, End: lx.pos},
				Text:  lx.src[start:lx.pos],
				Block: true,
			})
		case c == '"':
			if err := lx.quoted(start, '"'); err != nil {
				return err
			}
			lx.suffix()
			lx.emit(Literal, start)
		case c == '\'':
			if err := lx.quote(start); err != nil {
				return err
			}
		case c >= '0' && c <= '9':
			lx.number()
			lx.emit(Literal, start)
		case isIdentStart(lx.runeAt(lx.pos)):
			if err := lx.identOrPrefixed(start); err != nil {
				return err
			}
		default:
			if !lx.punct() {
				r, _ := utf8.DecodeRuneInString(lx.src[lx.pos:])
				return lx.errorf(start, "unexpected character %q", r)
			}
			lx.emit(Punct, start)
		}
	}
	return nil
}

func (lx *lexer) runeAt(i int) rune {
	r, _ := utf8.DecodeRuneInString(lx.src[i:])
	return r
}

func (lx *lexer) identAt(i int) bool {
	return i < len(lx.src) && isIdentStart(lx.runeAt(i))
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (lx *lexer) identEnd(i int) int {
	for i < len(lx.src) {
		r, size := utf8.DecodeRuneInString(lx.src[i:])
		if !isIdentContinue(r) {
			break
		}
		i += size
	}
	return i
}

func (lx *lexer) suffix() {
	if lx.pos < len(lx.src) && isIdentStart(lx.runeAt(lx.pos)) {
		lx.pos = lx.identEnd(lx.pos)
	}
}

// identOrPrefixed handles identifiers, raw identifiers and prefixed string
// literals (b"", r"", br"", c"", cr"", b'').
func (lx *lexer) identOrPrefixed(start int) error {
	end := lx.identEnd(lx.pos)
	word := lx.src[start:end]
	next := byte(0)
	if end < len(lx.src) {
		next = lx.src[end]
	}

	switch {
	case word == "r" && next == '#' && end+1 < len(lx.src) && isIdentStart(lx.runeAt(end+1)):
		lx.pos = lx.identEnd(end + 1)
		lx.emit(Ident, start)
		return nil
	case (word == "r" || word == "br" || word == "cr") && (next == '"' || next == '#'):
		lx.pos = end
		if err := lx.rawString(start); err != nil {
			return err
		}
		lx.suffix()
		lx.emit(Literal, start)
		return nil
	case (word == "b" || word == "c") && next == '"':
		lx.pos = end
		if err := lx.quoted(start, '"'); err != nil {
			return err
		}
		lx.suffix()
		lx.emit(Literal, start)
		return nil
	case word == "b" && next == '\'':
		lx.pos = end
		if err := lx.quoted(start, '\''); err != nil {
			return err
		}
		lx.emit(Literal, start)
		return nil
	}

	lx.pos = end
	lx.emit(Ident, start)
	return nil
}

// quoted consumes a quoted literal starting at lx.pos with escapes.
func (lx *lexer) quoted(start int, quote byte) error {
	lx.pos++
	for lx.pos < len(lx.src) {
		switch lx.src[lx.pos] {
		case '\\':
			lx.pos += 2
		case quote:
			lx.pos++
			return nil
		default:
			lx.pos++
		}
	}
	return lx.errorf(start, "unterminated literal")
}

func (lx *lexer) rawString(start int) error {
	hashes := 0
	for lx.pos < len(lx.src) && lx.src[lx.pos] == '#' {
		hashes++
		lx.pos++
	}
	if lx.pos >= len(lx.src) || lx.src[lx.pos] != '"' {
		return lx.errorf(start, "malformed raw string literal")
	}
	lx.pos++
	closing := "\"" + strings.Repeat("#", hashes)
	idx := strings.Index(lx.src[lx.pos:], closing)
	if idx < 0 {
		return lx.errorf(start, "unterminated raw string literal")
	}
	lx.pos += idx + len(closing)
	return nil
}

// quote distinguishes character literals from lifetimes.
func (lx *lexer) quote(start int) error {
	if lx.peek(1) == '\\' {
		if err := lx.quoted(start, '\''); err != nil {
			return err
		}
		lx.suffix()
		lx.emit(Literal, start)
		return nil
	}

	if lx.pos+1 >= len(lx.src) {
		return lx.errorf(start, "unterminated character literal")
	}
	_, size := utf8.DecodeRuneInString(lx.src[lx.pos+1:])
	after := lx.pos + 1 + size
	if after < len(lx.src) && lx.src[after] == '\'' {
		lx.pos = after + 1
		lx.suffix()
		lx.emit(Literal, start)
		return nil
	}

	if !isIdentStart(lx.runeAt(lx.pos + 1)) {
		return lx.errorf(start, "malformed character literal")
	}
	lx.pos = lx.identEnd(lx.pos + 1)
	lx.emit(Lifetime, start)
	return nil
}

func (lx *lexer) number() {
	if lx.src[lx.pos] == '0' && (lx.peek(1) == 'x' || lx.peek(1) == 'o' || lx.peek(1) == 'b') {
		lx.pos += 2
		for lx.pos < len(lx.src) && (isHex(lx.src[lx.pos]) || lx.src[lx.pos] == '_') {
			lx.pos++
		}
		lx.suffix()
		return
	}

	lx.digits()
	if lx.pos < len(lx.src) && lx.src[lx.pos] == '.' && lx.peek(1) != '.' && !lx.identAt(lx.pos+1) {
		lx.pos++
		lx.digits()
	}
	if lx.pos < len(lx.src) && (lx.src[lx.pos] == 'e' || lx.src[lx.pos] == 'E') {
		n := 1
		if lx.peek(1) == '+' || lx.peek(1) == '-' {
			n = 2
		}
		if c := lx.peek(n); c >= '0' && c <= '9' {
			lx.pos += n
			lx.digits()
		}
	}
	lx.suffix()
}

func (lx *lexer) digits() {
	for lx.pos < len(lx.src) && (lx.src[lx.pos] >= '0' && lx.src[lx.pos] <= '9' || lx.src[lx.pos] == '_') {
		lx.pos++
	}
}

func isHex(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func (lx *lexer) blockComment() error {
	start := lx.pos
	depth := 0
	for lx.pos < len(lx.src) {
		switch {
		case strings.HasPrefix(lx.src[lx.pos:], "/*"):
			depth++
			lx.pos += 2
		case strings.HasPrefix(lx.src[lx.pos:], "*/"):
			depth--
			lx.pos += 2
			if depth == 0 {
				return nil
			}
		default:
			lx.pos++
		}
	}
	return lx.errorf(start, "unterminated block comment")
}

func (lx *lexer) punct() bool {
	rest := lx.src[lx.pos:]
	for _, p := range puncts {
		if strings.HasPrefix(rest, p) {
			lx.pos += len(p)
			return true
		}
	}
	if strings.IndexByte(singlePuncts, rest[0]) >= 0 {
		lx.pos++
		return true
	}
	return false
}
