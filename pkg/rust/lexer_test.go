package rust_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/maudfmt/pkg/rust"
	"github.com/yaklabco/maudfmt/pkg/source"
)

type leaf struct {
	kind rust.Kind
	text string
}

func lex(t *testing.T, src string) []leaf {
	t.Helper()

	toks, _, err := rust.Lex(source.New([]byte(src)))
	require.NoError(t, err)

	out := make([]leaf, 0, len(toks))
	for _, tok := range toks {
		out = append(out, leaf{kind: tok.Kind, text: tok.Text})
	}
	return out
}

func TestLex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want []leaf
	}{
		{
			name: "statement",
			src:  `let x = a::b(1, "s") + 'c';`,
			want: []leaf{
				{rust.Ident, "let"}, {rust.Ident, "x"}, {rust.Punct, "="},
				{rust.Ident, "a"}, {rust.Punct, "::"}, {rust.Ident, "b"},
				{rust.Punct, "("}, {rust.Literal, "1"}, {rust.Punct, ","},
				{rust.Literal, `"s"`}, {rust.Punct, ")"}, {rust.Punct, "+"},
				{rust.Literal, "'c'"}, {rust.Punct, ";"},
			},
		},
		{
			name: "lifetime and char",
			src:  `&'a str '\n'`,
			want: []leaf{
				{rust.Punct, "&"}, {rust.Lifetime, "'a"}, {rust.Ident, "str"},
				{rust.Literal, `'\n'`},
			},
		},
		{
			name: "prefixed strings",
			src:  `r#"a "quoted" b"# b"bytes" br"raw" c"c" b'x'`,
			want: []leaf{
				{rust.Literal, `r#"a "quoted" b"#`}, {rust.Literal, `b"bytes"`},
				{rust.Literal, `br"raw"`}, {rust.Literal, `c"c"`}, {rust.Literal, `b'x'`},
			},
		},
		{
			name: "raw identifier",
			src:  `r#type`,
			want: []leaf{{rust.Ident, "r#type"}},
		},
		{
			name: "numbers",
			src:  `1.5e3f64 0xffu8 1_000 2.0`,
			want: []leaf{
				{rust.Literal, "1.5e3f64"}, {rust.Literal, "0xffu8"},
				{rust.Literal, "1_000"}, {rust.Literal, "2.0"},
			},
		},
		{
			name: "range is not a float",
			src:  `1..2`,
			want: []leaf{{rust.Literal, "1"}, {rust.Punct, ".."}, {rust.Literal, "2"}},
		},
		{
			name: "method on integer",
			src:  `1.max(2)`,
			want: []leaf{
				{rust.Literal, "1"}, {rust.Punct, "."}, {rust.Ident, "max"},
				{rust.Punct, "("}, {rust.Literal, "2"}, {rust.Punct, ")"},
			},
		},
		{
			name: "longest operator wins",
			src:  `a <<= b..=c => d`,
			want: []leaf{
				{rust.Ident, "a"}, {rust.Punct, "<<="}, {rust.Ident, "b"},
				{rust.Punct, "..="}, {rust.Ident, "c"}, {rust.Punct, "=>"}, {rust.Ident, "d"},
			},
		},
		{
			name: "string with escaped quote",
			src:  `"a\"b"`,
			want: []leaf{{rust.Literal, `"a\"b"`}},
		},
		{
			name: "unicode identifier",
			src:  `größe`,
			want: []leaf{{rust.Ident, "größe"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, lex(t, tt.src))
		})
	}
}

func TestLex_Comments(t *testing.T) {
	t.Parallel()

	file := source.New([]byte("a // line\r\nb /* x /* nested */ y */ c\n"))
	toks, comments, err := rust.Lex(file)
	require.NoError(t, err)

	require.Len(t, toks, 3)
	require.Len(t, comments, 2)

	assert.Equal(t, "// line", comments[0].Text)
	assert.False(t, comments[0].Block)
	assert.Equal(t, "/* x /* nested */ y */", comments[1].Text)
	assert.True(t, comments[1].Block)

	c, ok := file.CommentOn(0)
	require.True(t, ok)
	assert.Equal(t, "// line", c.Text)

	span, ok := file.BlockCommentIn(0, file.Len())
	require.True(t, ok)
	assert.Equal(t, comments[1].Span, span)
}

func TestLex_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "unterminated string", src: "a\n  \"abc", want: "2:3: unterminated literal"},
		{name: "unterminated raw string", src: `r#"abc"`, want: "1:1: unterminated raw string literal"},
		{name: "unterminated block comment", src: "/* x", want: "1:1: unterminated block comment"},
		{name: "unexpected character", src: "a € b", want: "1:3: unexpected character '€'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := rust.Lex(source.New([]byte(tt.src)))
			require.Error(t, err)

			var syntaxErr *rust.SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestParse_Trees(t *testing.T) {
	t.Parallel()

	src := "a(b[c]{d})"
	trees, _, err := rust.Parse(source.New([]byte(src)))
	require.NoError(t, err)
	require.Len(t, trees, 2)

	assert.Equal(t, "a", trees[0].Text)

	paren := trees[1]
	require.True(t, paren.IsGroup(rust.Paren))
	assert.Equal(t, source.Span{Start: 1, End: 10}, paren.Span)
	assert.Equal(t, source.Span{Start: 2, End: 9}, paren.Inner())
	require.Len(t, paren.Children, 3)

	assert.True(t, paren.Children[1].IsGroup(rust.Bracket))
	assert.True(t, paren.Children[2].IsGroup(rust.Brace))
	assert.False(t, paren.Children[2].IsGroup(rust.Paren))
	assert.Equal(t, "d", paren.Children[2].Children[0].Text)

	assert.Equal(t, source.Span{Start: 0, End: 10}, rust.SpanOf(trees))
	assert.Equal(t, source.Span{}, rust.SpanOf(nil))
}

func TestParse_Unbalanced(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "mismatched", src: "(]", want: "1:2: mismatched closing delimiter ]"},
		{name: "unexpected", src: "a )", want: "1:3: unexpected closing delimiter )"},
		{name: "unclosed", src: "{\n  (", want: "2:3: unclosed delimiter ("},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := rust.Parse(source.New([]byte(tt.src)))
			var syntaxErr *rust.SyntaxError
			require.True(t, errors.As(err, &syntaxErr))
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestTokenHelpers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "identifier", rust.Ident.String())
	assert.Equal(t, "group", rust.Group.String())
	assert.Equal(t, "unknown", rust.Kind(99).String())

	assert.Equal(t, "(", rust.Paren.Open())
	assert.Equal(t, "]", rust.Bracket.Close())
	assert.Equal(t, "", rust.NoDelim.Open())

	assert.True(t, rust.Token{Kind: rust.Punct, Text: ";"}.Is(";"))
	assert.True(t, rust.Token{Kind: rust.Ident, Text: "else"}.Is("else"))
	assert.False(t, rust.Token{Kind: rust.Literal, Text: "1"}.Is("1"))
}
