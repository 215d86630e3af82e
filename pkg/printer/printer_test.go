package printer_test

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"kr.dev/diff"

	"github.com/yaklabco/maudfmt/pkg/locate"
	"github.com/yaklabco/maudfmt/pkg/maud"
	"github.com/yaklabco/maudfmt/pkg/printer"
	"github.com/yaklabco/maudfmt/pkg/rust"
	"github.com/yaklabco/maudfmt/pkg/source"
)

// update rewrites the expected files from the current output.
// Usage: go test ./pkg/printer -run TestGolden -update.
var update = flag.Bool("update", false, "update golden files")

// reprint formats every invocation in src and splices the results back.
func reprint(t *testing.T, src string, opts printer.Options) (string, []printer.Warning) {
	t.Helper()

	file := source.New([]byte(src))
	trees, _, err := rust.Parse(file)
	require.NoError(t, err)

	var (
		out      strings.Builder
		warnings []printer.Warning
		last     int
	)
	for _, inv := range locate.Find(file, trees, locate.DefaultMacroNames) {
		if inv.Skip {
			continue
		}
		ast, err := maud.Parse(inv.Body, file)
		require.NoError(t, err)

		text, warns, err := printer.Print(file, inv, ast, opts)
		require.NoError(t, err)
		warnings = append(warnings, warns...)
		out.WriteString(src[last:inv.Span.Start])
		out.WriteString(text)
		last = inv.Span.End
	}
	out.WriteString(src[last:])
	return out.String(), warnings
}

func TestGolden(t *testing.T) {
	t.Parallel()

	inputs, err := filepath.Glob(filepath.Join("testdata", "*.in.rs"))
	require.NoError(t, err)
	require.NotEmpty(t, inputs)

	for _, input := range inputs {
		name := strings.TrimSuffix(filepath.Base(input), ".in.rs")
		golden := filepath.Join("testdata", name+".rs")

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			src, err := os.ReadFile(input)
			require.NoError(t, err)

			got, warnings := reprint(t, string(src), printer.Options{})
			assert.Empty(t, warnings)

			if *update {
				require.NoError(t, os.WriteFile(golden, []byte(got), 0o600))
				return
			}

			want, err := os.ReadFile(golden)
			require.NoError(t, err)
			diff.Test(t, t.Errorf, got, string(want))

			again, _ := reprint(t, got, printer.Options{})
			diff.Test(t, t.Errorf, again, got)
		})
	}
}

func TestPrint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		in         string
		lineLength int
		want       string
	}{
		{
			name: "empty",
			in:   "html!{  }",
			want: "html! {}",
		},
		{
			name: "comment only",
			in:   "html! { // note\n}",
			want: "html! {  // note\n}",
		},
		{
			name:       "narrow budget expands block",
			in:         `html! { p { "hello" "world" } }`,
			lineLength: 20,
			want:       "html! {\n    p {\n        \"hello\"\n        \"world\"\n    }\n}",
		},
		{
			name: "wide budget keeps block inline",
			in:   `html! { p { "hello" "world" } }`,
			want: "html! {\n    p { \"hello\" \"world\" }\n}",
		},
		{
			name: "loop body always expands",
			in:   `html! { @for i in 0..n { (i) } }`,
			want: "html! {\n    @for i in 0..n {\n        (i)\n    }\n}",
		},
		{
			name: "while let",
			in:   `html! { @while let Some(x)=it.next() { (x) } }`,
			want: "html! {\n    @while let Some(x) = it.next() {\n        (x)\n    }\n}",
		},
		{
			name: "else if chain",
			in:   "html! { @if a { \"a\" } @else if b { \"b\" } @else { \"c\" } }",
			want: "html! {\n    @if a { \"a\" } @else if b { \"b\" } @else { \"c\" }\n}",
		},
		{
			name: "expression split across lines is joined",
			in:   "html! {\n    p {\n        (foo\n            .bar())\n    }\n}",
			want: "html! {\n    p { (foo.bar()) }\n}",
		},
		{
			name: "joined expression is stable",
			in:   "html! {\n    p { (foo.bar()) }\n}",
			want: "html! {\n    p { (foo.bar()) }\n}",
		},
		{
			name: "blank line after open brace dropped",
			in:   "html! {\n\n    p { \"a\" }\n}",
			want: "html! {\n    p { \"a\" }\n}",
		},
		{
			name: "blank line before first comment dropped",
			in:   "html! {\n\n    // c\n    br;\n}",
			want: "html! {\n    // c\n    br;\n}",
		},
		{
			name: "blank line above comment between siblings kept",
			in:   "html! {\n    br;\n\n    // c\n    br;\n}",
			want: "html! {\n    br;\n\n    // c\n    br;\n}",
		},
		{
			name: "doc comment marker kept",
			in:   "html! {\n    ///doc\n    br;\n}",
			want: "html! {\n    /// doc\n    br;\n}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, warnings := reprint(t, tt.in, printer.Options{LineLength: tt.lineLength})
			assert.Empty(t, warnings)
			diff.Test(t, t.Errorf, got, tt.want)
		})
	}
}

func TestPrint_UnrenderableExpressionKeptVerbatim(t *testing.T) {
	t.Parallel()

	got, warnings := reprint(t, "html! { (let x = 1) }", printer.Options{})
	assert.Equal(t, "html! {\n    (let x = 1)\n}", got)

	require.Len(t, warnings, 1)
	var renderErr *rust.RenderError
	require.ErrorAs(t, warnings[0].Err, &renderErr)
	assert.Equal(t, source.Span{Start: 9, End: 18}, warnings[0].Span)
}

func TestPrint_IndentFollowsInvocation(t *testing.T) {
	t.Parallel()

	got, _ := reprint(t, "fn a() {\n\tif x {\n\t\thtml!{br;}\n\t}\n}", printer.Options{})
	assert.Equal(t, "fn a() {\n\tif x {\n\t\thtml! {\n            br;\n        }\n\t}\n}", got)
}
