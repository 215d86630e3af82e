package format_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/itsatony/go-cuserr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"kr.dev/diff"

	"github.com/yaklabco/maudfmt/pkg/format"
	"github.com/yaklabco/maudfmt/pkg/maud"
)

// dedent strips the common leading tab indentation of a raw string
// fixture and its first newline.
func dedent(s string) string {
	s = strings.TrimPrefix(s, "\n")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimPrefix(l, "\t\t")
	}
	return strings.Join(lines, "\n")
}

func TestFormatDocument(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "top level block expands",
			in:   "html!{ \"Hello world!\" }\n",
			want: "html! {\n    \"Hello world!\"\n}\n",
		},
		{
			name: "element collapses when it fits",
			in: dedent(`
		fn page() -> Markup {
		    html!{div class="test" id="main"{"content"}}
		}
		`),
			want: dedent(`
		fn page() -> Markup {
		    html! {
		        div class="test" id="main" { "content" }
		    }
		}
		`),
		},
		{
			name: "comment keeps block expanded",
			in: dedent(`
		html! {
		    div {
		        // only a comment
		    }
		}
		`),
			want: dedent(`
		html! {
		    div {
		        // only a comment
		    }
		}
		`),
		},
		{
			name: "blank lines collapse to one",
			in: dedent(`
		html! {
		    p { "a" }



		    p { "b" }
		    p { "c" }
		}
		`),
			want: dedent(`
		html! {
		    p { "a" }

		    p { "b" }
		    p { "c" }
		}
		`),
		},
		{
			name: "empty template",
			in:   "fn a() { html!{   } }\n",
			want: "fn a() { html! {} }\n",
		},
		{
			name: "skip attribute",
			in: dedent(`
		#[maudfmt::skip]
		fn a() -> Markup {
		    html!{p{"x"}}
		}

		fn b() -> Markup {
		    html!{p{"x"}}
		}
		`),
			want: dedent(`
		#[maudfmt::skip]
		fn a() -> Markup {
		    html!{p{"x"}}
		}

		fn b() -> Markup {
		    html! {
		        p { "x" }
		    }
		}
		`),
		},
		{
			name: "namespaced name",
			in:   "maud::html!{br;}\n",
			want: "maud::html! {\n    br;\n}\n",
		},
		{
			name: "unrecognized macro untouched",
			in:   "other!{p{\"x\"}}\n",
			want: "other!{p{\"x\"}}\n",
		},
		{
			name: "crlf line endings",
			in:   "fn a() {\r\n    html!{p{\"x\"}}\r\n}\r\n",
			want: "fn a() {\r\n    html! {\r\n        p { \"x\" }\r\n    }\r\n}\r\n",
		},
		{
			name: "no trailing newline",
			in:   "html!{br;}",
			want: "html! {\n    br;\n}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := format.FormatDocument(tt.in, format.DefaultOptions())
			require.NoError(t, err)
			diff.Test(t, t.Errorf, got, tt.want)

			again, err := format.FormatDocument(got, format.DefaultOptions())
			require.NoError(t, err)
			diff.Test(t, t.Errorf, again, got)
		})
	}
}

func TestFormatDocument_IgnoreDirective(t *testing.T) {
	t.Parallel()

	in := dedent(`
		fn a() -> Markup {
		    html! {
		        p {"formatted" }
		        // maudfmt-ignore
		        div class="unformatted"   id="test" { "content" }
		        //maudfmt-ignore this one too
		        span  style="color:red;" { "text" }
		        h1 {"formatted" }
		    }
		}
		`)
	want := dedent(`
		fn a() -> Markup {
		    html! {
		        p { "formatted" }
		        // maudfmt-ignore
		        div class="unformatted"   id="test" { "content" }
		        // maudfmt-ignore this one too
		        span  style="color:red;" { "text" }
		        h1 { "formatted" }
		    }
		}
		`)

	got, err := format.FormatDocument(in, format.DefaultOptions())
	require.NoError(t, err)
	diff.Test(t, t.Errorf, got, want)
}

func TestFormat_FailedInvocationIsIsolated(t *testing.T) {
	t.Parallel()

	in := dedent(`
		fn a() -> Markup {
		    html!{ p }
		}

		fn b() -> Markup {
		    html!{p{"x"}}
		}
		`)

	res, err := format.Format(context.Background(), []byte(in), format.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 2, res.Invocations)
	assert.Equal(t, 1, res.Formatted)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, 2, res.Failures[0].Line)
	assert.Equal(t, "html", res.Failures[0].Name)

	var ce *cuserr.CustomError
	assert.True(t, errors.As(res.Failures[0].Err, &ce))

	assert.Contains(t, string(res.Output), "    html!{ p }\n")
	assert.Contains(t, string(res.Output), "        p { \"x\" }\n")
	assert.True(t, res.Changed)
}

func TestFormat_CommentsKept(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
	}{
		{name: "between siblings after a blank line", in: "html! {\n    p { \"a\" }\n\n    // keepme\n\n    p { \"b\" }\n}\n"},
		{name: "before an attribute", in: "html! {\n    div\n        // keepme\n        class=\"x\" { \"c\" }\n}\n"},
		{name: "after an if condition", in: "html! {\n    @if x // keepme\n    {\n        \"d\"\n    }\n}\n"},
		{name: "after else", in: "html! {\n    @if x {\n        \"d\"\n    } @else // keepme\n    {\n        \"e\"\n    }\n}\n"},
		{name: "before a match arrow", in: "html! {\n    @match y {\n        Some(z) // keepme\n        => { (z) }\n        None => \"none\",\n    }\n}\n"},
		{name: "after a match arrow", in: "html! {\n    @match y {\n        Some(z) => // keepme\n            { (z) }\n    }\n}\n"},
		{name: "first line of a splice", in: "html! {\n    (\n        // keepme\n        value\n    )\n}\n"},
		{name: "last line of a splice", in: "html! {\n    a title=(\n        t // keepme\n    ) {}\n}\n"},
		{name: "after a for source", in: "html! {\n    @for x in xs // keepme\n    {\n        li { (x) }\n    }\n}\n"},
		{name: "after a while condition", in: "html! {\n    @while a // keepme\n    {\n        \"w\"\n    }\n}\n"},
		{name: "before a let semicolon", in: "html! {\n    @let x = 1 // keepme\n    ;\n    (x)\n}\n"},
		{name: "before a void semicolon", in: "html! {\n    input // keepme\n    ;\n}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := format.Format(context.Background(), []byte(tt.in), format.DefaultOptions())
			require.NoError(t, err)
			require.Empty(t, res.Failures)
			assert.Equal(t, 1, strings.Count(string(res.Output), "// keepme"), "output:\n%s", res.Output)

			again, err := format.Format(context.Background(), res.Output, format.DefaultOptions())
			require.NoError(t, err)
			diff.Test(t, t.Errorf, string(again.Output), string(res.Output))
		})
	}
}

func TestFormat_UnplacedCommentFailsTemplate(t *testing.T) {
	t.Parallel()

	in := "html! {\n    a href // c\n    =\"/\" {}\n}\n"
	res, err := format.Format(context.Background(), []byte(in), format.DefaultOptions())
	require.NoError(t, err)

	require.Len(t, res.Failures, 1)
	assert.Equal(t, in, string(res.Output))
	assert.False(t, res.Changed)
	assert.Contains(t, res.Failures[0].Err.Error(), maud.ErrMsgCommentPlacement)

	var ce *cuserr.CustomError
	require.True(t, errors.As(res.Failures[0].Err, &ce))
	line, ok := ce.GetMetadata(maud.MetaKeyLine)
	require.True(t, ok)
	assert.Equal(t, "2", line)
}

func TestFormat_OutsideSpansUntouched(t *testing.T) {
	t.Parallel()

	in := "//! crate docs\nuse maud::{html,  Markup};\n\n\n\nfn a()->Markup{html!{br;}}   \n"
	res, err := format.Format(context.Background(), []byte(in), format.DefaultOptions())
	require.NoError(t, err)

	want := "//! crate docs\nuse maud::{html,  Markup};\n\n\n\nfn a()->Markup{html! {\n    br;\n}}   \n"
	diff.Test(t, t.Errorf, string(res.Output), want)
}

func TestFormat_ParseError(t *testing.T) {
	t.Parallel()

	_, err := format.Format(context.Background(), []byte("fn a() { html!{ p {} }\n"), format.DefaultOptions())
	require.ErrorIs(t, err, format.ErrParse)
}

func TestFormat_Unchanged(t *testing.T) {
	t.Parallel()

	in := "fn a() {}\n"
	res, err := format.Format(context.Background(), []byte(in), format.DefaultOptions())
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, 0, res.Invocations)
	assert.Equal(t, in, string(res.Output))
}

func TestFormat_CustomMacroNames(t *testing.T) {
	t.Parallel()

	opts := format.DefaultOptions()
	opts.MacroNames = []string{"tpl"}

	got, err := format.FormatDocument("tpl!{br;}\nhtml!{br;}\n", opts)
	require.NoError(t, err)
	assert.Equal(t, "tpl! {\n    br;\n}\nhtml!{br;}\n", got)
}

func TestOptions_Validate(t *testing.T) {
	t.Parallel()

	opts := format.DefaultOptions()
	require.NoError(t, opts.Validate())

	opts.LineLength = 0
	require.ErrorIs(t, opts.Validate(), format.ErrInvalidOptions)

	opts = format.DefaultOptions()
	opts.MacroNames = []string{""}
	require.ErrorIs(t, opts.Validate(), format.ErrInvalidOptions)

	_, err := format.FormatDocument("", format.Options{})
	require.ErrorIs(t, err, format.ErrInvalidOptions)
}

func TestFormat_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := format.Format(ctx, []byte("html!{br;}\n"), format.DefaultOptions())
	require.ErrorIs(t, err, context.Canceled)
}

func BenchmarkFormatDocument(b *testing.B) {
	var sb strings.Builder
	for range 50 {
		sb.WriteString("fn page() -> Markup {\n    html!{div.card #main{h1{\"Title\"} @for x in &items{li{(x.name)}} p title=(t){\"body\"}}}\n}\n\n")
	}
	src := sb.String()
	opts := format.DefaultOptions()

	for b.Loop() {
		if _, err := format.FormatDocument(src, opts); err != nil {
			b.Fatal(err)
		}
	}
}
