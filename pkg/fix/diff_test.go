package fix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"kr.dev/diff"

	"github.com/yaklabco/maudfmt/pkg/fix"
)

func TestGenerateDiff_Identical(t *testing.T) {
	t.Parallel()

	assert.Nil(t, fix.GenerateDiff("a.rs", nil, nil))
	assert.Nil(t, fix.GenerateDiff("a.rs", []byte("x\ny\n"), []byte("x\ny\n")))
}

func TestGenerateDiff_SingleChange(t *testing.T) {
	t.Parallel()

	original := "use maud::html;\n\nfn a() {\n    html!{p{\"x\"}}\n}\n"
	modified := "use maud::html;\n\nfn a() {\n    html! { p { \"x\" } }\n}\n"

	d := fix.GenerateDiff("src/a.rs", []byte(original), []byte(modified))
	require.NotNil(t, d)

	want := `--- a/src/a.rs
+++ b/src/a.rs
@@ -1,5 +1,5 @@
 use maud::html;
 
 fn a() {
-    html!{p{"x"}}
+    html! { p { "x" } }
 }
`
	diff.Test(t, t.Errorf, d.String(), want)
	assert.Equal(t, 1, d.Additions)
	assert.Equal(t, 1, d.Deletions)
	assert.Equal(t, "diff --git a/src/a.rs b/src/a.rs", d.GitHeader())
}

func TestGenerateDiff_SeparateHunks(t *testing.T) {
	t.Parallel()

	var original, modified string
	for i := range 20 {
		l := string(rune('a'+i)) + "\n"
		original += l
		switch i {
		case 1, 17:
			modified += "X\n"
		default:
			modified += l
		}
	}

	d := fix.GenerateDiff("f.rs", []byte(original), []byte(modified))
	require.NotNil(t, d)
	require.Len(t, d.Hunks, 2)

	assert.Equal(t, 1, d.Hunks[0].OriginalStart)
	assert.Equal(t, 5, d.Hunks[0].OriginalCount)
	assert.Equal(t, 15, d.Hunks[1].OriginalStart)
	assert.Equal(t, 6, d.Hunks[1].OriginalCount)
}

func TestGenerateDiff_NearbyChangesMerge(t *testing.T) {
	t.Parallel()

	original := "a\nb\nc\nd\ne\nf\ng\nh\n"
	modified := "a\nB\nc\nd\ne\nf\nG\nh\n"

	d := fix.GenerateDiff("f.rs", []byte(original), []byte(modified))
	require.NotNil(t, d)
	assert.Len(t, d.Hunks, 1)
}

func TestGenerateDiff_MissingFinalNewline(t *testing.T) {
	t.Parallel()

	d := fix.GenerateDiff("f.rs", []byte("a\nb"), []byte("a\nb\n"))
	require.NotNil(t, d)

	want := `--- a/f.rs
+++ b/f.rs
@@ -1,2 +1,2 @@
 a
-b
\ No newline at end of file
+b
`
	diff.Test(t, t.Errorf, d.String(), want)
}

func TestGenerateDiff_PureInsertion(t *testing.T) {
	t.Parallel()

	d := fix.GenerateDiff("f.rs", nil, []byte("a\nb\n"))
	require.NotNil(t, d)

	want := `--- a/f.rs
+++ b/f.rs
@@ -0,0 +1,2 @@
+a
+b
`
	diff.Test(t, t.Errorf, d.String(), want)
}

func TestDiff_NilSafe(t *testing.T) {
	t.Parallel()

	var d *fix.Diff
	assert.False(t, d.HasChanges())
	assert.Empty(t, d.String())
	assert.Empty(t, d.FullString())
	assert.Empty(t, d.GitHeader())
}

func FuzzGenerateDiff(f *testing.F) {
	f.Add([]byte(""), []byte(""))
	f.Add([]byte("a\nb\nc\n"), []byte("a\nx\nc\n"))
	f.Add([]byte("a\nb"), []byte("a\nb\n"))

	f.Fuzz(func(t *testing.T, original, modified []byte) {
		d := fix.GenerateDiff("f.rs", original, modified)
		if d == nil {
			if string(original) != string(modified) {
				t.Fatal("nil diff for different content")
			}
			return
		}

		for i, h := range d.Hunks {
			var ctx, add, rem int
			for _, l := range h.Lines {
				switch l.Kind {
				case fix.DiffLineContext:
					ctx++
				case fix.DiffLineAdd:
					add++
				case fix.DiffLineRemove:
					rem++
				}
			}
			if ctx+rem != h.OriginalCount || ctx+add != h.ModifiedCount {
				t.Errorf("hunk %d: inconsistent counts", i)
			}
		}
	})
}
