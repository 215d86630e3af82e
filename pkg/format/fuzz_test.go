package format_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/yaklabco/maudfmt/pkg/format"
)

func FuzzFormat(f *testing.F) {
	seeds := []string{
		"",
		"fn a() {}",
		"html!{}",
		"html! { p { \"x\" } }",
		"html!{div.a#b c=\"d\" e[f] g=[h] { (i) }}",
		"html!{@if a { \"a\" } @else if let Some(b) = c { (b) } @else { br; }}",
		"html!{@for x in 0..n { li { (x) } } @while a { \"w\" }}",
		"html!{@match k { A => \"a\", B if c => { \"b\" } }}",
		"html!{@let x = 1; (x)}",
		"html! {\n    // comment\n    p { \"a\" }  // trailing\n}\n",
		"html! {\n    // maudfmt-ignore\n    p   {  \"kept\" }\n}\n",
		"html!{ /* block */ }",
		"html!{ (",
		"fn a() {\r\n    html!{br;}\r\n}\r\n",
		"#[rustfmt::skip]\nfn a() { html!{p{}} }",
	}
	for _, seed := range seeds {
		f.Add([]byte(seed))
	}

	f.Fuzz(func(t *testing.T, src []byte) {
		res, err := format.Format(context.Background(), src, format.DefaultOptions())
		if err != nil {
			return
		}
		if !res.Changed && !bytes.Equal(res.Output, src) {
			t.Errorf("unchanged result differs from input:\n%q\n%q", src, res.Output)
		}
		if res.Formatted+res.Skipped+len(res.Failures) > res.Invocations {
			t.Errorf("counts exceed invocations: %+v", res)
		}

		again, err := format.Format(context.Background(), res.Output, format.DefaultOptions())
		if err != nil {
			t.Fatalf("formatted output no longer formats: %v\n%q", err, res.Output)
		}
		if !bytes.Equal(again.Output, res.Output) {
			t.Errorf("second pass changed the output:\n%q\n%q", res.Output, again.Output)
		}

		before, err := format.Verify(src, nil)
		if err != nil {
			return
		}
		after, err := format.Verify(res.Output, nil)
		if err != nil {
			t.Fatalf("formatted output no longer parses: %v\n%q", err, res.Output)
		}
		if len(after) > len(before) {
			t.Errorf("formatting added template errors: %d before, %d after\n%q", len(before), len(after), res.Output)
		}
	})
}
