package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"kr.dev/diff"

	"github.com/yaklabco/maudfmt/pkg/fix"
	"github.com/yaklabco/maudfmt/pkg/format"
	"github.com/yaklabco/maudfmt/pkg/reporter"
	"github.com/yaklabco/maudfmt/pkg/runner"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{input: "", want: reporter.FormatText},
		{input: "text", want: reporter.FormatText},
		{input: "json", want: reporter.FormatJSON},
		{input: "diff", want: reporter.FormatDiff},
		{input: " JSON ", want: reporter.FormatJSON},
		{input: "sarif", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := reporter.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.IsValid())
		})
	}

	assert.False(t, reporter.Format("").IsValid())
}

func TestNew(t *testing.T) {
	t.Parallel()

	for _, f := range []reporter.Format{"", reporter.FormatText, reporter.FormatJSON, reporter.FormatDiff} {
		r, err := reporter.New(reporter.Options{Format: f, Writer: &bytes.Buffer{}})
		require.NoError(t, err, f)
		assert.NotNil(t, r)
	}

	_, err := reporter.New(reporter.Options{Format: "xml"})
	require.Error(t, err)
}

// sampleResult describes a run over /work with one reformatted file, one
// unchanged file, one file with a template failure and one unreadable file.
func sampleResult(check bool) *runner.Result {
	original := []byte("fn a() {\n    html!{br;}\n}\n")
	formatted := []byte("fn a() {\n    html! {\n        br;\n    }\n}\n")

	changed := &format.PipelineResult{
		Path:   "/work/src/a.rs",
		Result: &format.Result{Output: formatted, Invocations: 1, Formatted: 1, Changed: true},
	}
	if check {
		changed.Diff = fix.GenerateDiff("/work/src/a.rs", original, formatted)
	} else {
		changed.Written = true
	}

	failing := &format.PipelineResult{
		Path: "/work/src/c.rs",
		Result: &format.Result{
			Invocations: 1,
			Failures: []format.InvocationError{
				{Name: "html", Line: 4, Err: errors.New("expected `{`")},
			},
		},
	}

	res := &runner.Result{
		Files: []runner.FileOutcome{
			{Path: "/work/src/a.rs", Result: changed},
			{Path: "/work/src/b.rs", Result: &format.PipelineResult{
				Path:   "/work/src/b.rs",
				Result: &format.Result{Invocations: 2, Formatted: 2},
			}},
			{Path: "/work/src/c.rs", Result: failing},
			{Path: "/work/src/d.rs", Error: errors.New("permission denied")},
		},
		Stats: runner.Stats{
			FilesDiscovered: 4,
			FilesProcessed:  3,
			FilesErrored:    1,
			FilesChanged:    1,
			Invocations:     4,
			Formatted:       3,
			Failures:        1,
		},
	}
	if !check {
		res.Stats.FilesWritten = 1
	}
	return res
}

func TestTextReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := reporter.NewTextReporter(reporter.Options{
		Writer:      &buf,
		Color:       "never",
		ShowSummary: true,
		WorkingDir:  "/work",
	})

	n, err := r.Report(context.Background(), sampleResult(false))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	want := "src/a.rs: formatted\n" +
		"src/d.rs: error: permission denied\n" +
		"1 file reformatted, 2 files left unchanged, 1 template failed to parse, 1 file with errors\n"
	diff.Test(t, t.Errorf, buf.String(), want)
}

func TestTextReporter_CheckVerbose(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := reporter.NewTextReporter(reporter.Options{
		Writer:     &buf,
		Color:      "never",
		Check:      true,
		Verbose:    true,
		WorkingDir: "/work",
	})

	_, err := r.Report(context.Background(), sampleResult(true))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "src/a.rs: would reformat\n")
	assert.Contains(t, out, "src/b.rs: unchanged\n")
	assert.Contains(t, out, "  src/c.rs:4  error  expected `{`  (html!)\n")
	assert.Contains(t, out, "Formatting finished with errors\n")
}

func TestTextReporter_VerboseWarningContext(t *testing.T) {
	t.Parallel()

	res := &runner.Result{
		Files: []runner.FileOutcome{{Path: "/work/e.rs", Result: &format.PipelineResult{
			Path: "/work/e.rs",
			Result: &format.Result{
				Invocations: 1,
				Formatted:   1,
				Warnings: []format.Warning{{
					Name: "html", Line: 2, Column: 6, Source: "    (let x = 1)", Err: errors.New("boom"),
				}},
			},
		}}},
		Stats: runner.Stats{FilesDiscovered: 1, FilesProcessed: 1, Invocations: 1, Formatted: 1},
	}

	var buf bytes.Buffer
	r := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never", Verbose: true, WorkingDir: "/work"})
	_, err := r.Report(context.Background(), res)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "  e.rs:2:6  warning  kept expression verbatim: boom  (html!)\n")
	assert.Contains(t, out, "            (let x = 1)\n             ^\n")
}

func TestTextReporter_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true})

	n, err := r.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, "No files to format\n", buf.String())
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := reporter.NewJSONReporter(reporter.Options{Writer: &buf, WorkingDir: "/work"})

	n, err := r.Report(context.Background(), sampleResult(true))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var out reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, "1.0.0", out.Version)
	require.Len(t, out.Files, 4)

	a := out.Files[0]
	assert.Equal(t, "src/a.rs", a.Path)
	assert.Equal(t, "would reformat", a.Status)
	assert.True(t, a.Changed)
	require.NotNil(t, a.Diff)
	assert.Equal(t, 3, a.Diff.Additions)
	assert.Equal(t, 1, a.Diff.Deletions)

	c := out.Files[2]
	require.Len(t, c.Failures, 1)
	assert.Equal(t, reporter.JSONDiagnostic{Macro: "html", Line: 4, Message: "expected `{`"}, c.Failures[0])

	d := out.Files[3]
	assert.Equal(t, "error", d.Status)
	assert.Equal(t, "permission denied", d.Error)

	assert.Equal(t, reporter.JSONSummary{
		FilesChecked: 3,
		FilesChanged: 1,
		FilesErrored: 1,
		Invocations:  4,
		Formatted:    3,
		Failures:     1,
	}, out.Summary)
}

func TestJSONReporter_Compact(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := reporter.NewJSONReporter(reporter.Options{Writer: &buf, Compact: true})

	_, err := r.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))
	assert.Contains(t, buf.String(), `"files":[]`)
}

func TestDiffReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := reporter.NewDiffReporter(reporter.Options{
		Writer:      &buf,
		Color:       "never",
		ShowSummary: true,
		WorkingDir:  "/work",
	})

	n, err := r.Report(context.Background(), sampleResult(true))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	want := `diff --git a/src/a.rs b/src/a.rs
--- a/src/a.rs
+++ b/src/a.rs
@@ -1,3 +1,5 @@
 fn a() {
-    html!{br;}
+    html! {
+        br;
+    }
 }

src/d.rs: error: permission denied
1 file changed, 3 insertions(+), 1 deletion(-)
`
	diff.Test(t, t.Errorf, buf.String(), want)
}
