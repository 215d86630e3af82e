package fix

import (
	"fmt"
	"strings"
)

// Diff is a unified diff between an original and a reformatted document.
type Diff struct {
	// Path is the file path used in the headers.
	Path string

	// Hunks holds the changed regions with their context.
	Hunks []DiffHunk

	// Additions is the number of added lines.
	Additions int

	// Deletions is the number of removed lines.
	Deletions int
}

// DiffHunk is one "@@" section of a unified diff.
type DiffHunk struct {
	// OriginalStart is the 1-based first original line, or the line before
	// the hunk when OriginalCount is zero.
	OriginalStart int
	OriginalCount int

	// ModifiedStart follows the same convention for the modified side.
	ModifiedStart int
	ModifiedCount int

	Lines []DiffLine
}

// DiffLine is a single line of a hunk.
type DiffLine struct {
	Kind DiffLineKind

	// Content is the line without its diff prefix or newline.
	Content string

	// NoNewline marks the last line of a document that lacks a final newline.
	NoNewline bool
}

// DiffLineKind says whether a line is context, added or removed.
type DiffLineKind int

const (
	DiffLineContext DiffLineKind = iota
	DiffLineAdd
	DiffLineRemove
)

const contextLines = 3

type line struct {
	text      string
	noNewline bool
}

// GenerateDiff returns the unified diff from original to modified, or nil
// when they are byte-identical.
func GenerateDiff(path string, original, modified []byte) *Diff {
	if string(original) == string(modified) {
		return nil
	}

	ops := diffLines(splitLines(original), splitLines(modified))
	hunks := groupHunks(ops)
	if len(hunks) == 0 {
		return nil
	}

	d := &Diff{Path: path, Hunks: hunks}
	for _, h := range hunks {
		for _, l := range h.Lines {
			switch l.Kind {
			case DiffLineAdd:
				d.Additions++
			case DiffLineRemove:
				d.Deletions++
			}
		}
	}
	return d
}

// GitHeader returns the "diff --git" header line.
func (d *Diff) GitHeader() string {
	if d == nil {
		return ""
	}
	p := strings.TrimPrefix(d.Path, "/")
	return fmt.Sprintf("diff --git a/%s b/%s", p, p)
}

// String renders the diff with "---"/"+++" headers.
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}

	p := strings.TrimPrefix(d.Path, "/")

	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n+++ b/%s\n", p, p)
	for _, h := range d.Hunks {
		b.WriteString(h.Header())
		b.WriteByte('\n')
		for _, l := range h.Lines {
			switch l.Kind {
			case DiffLineContext:
				b.WriteByte(' ')
			case DiffLineAdd:
				b.WriteByte('+')
			case DiffLineRemove:
				b.WriteByte('-')
			}
			b.WriteString(l.Content)
			b.WriteByte('\n')
			if l.NoNewline {
				b.WriteString("\\ No newline at end of file\n")
			}
		}
	}
	return b.String()
}

// FullString renders the diff including the git header.
func (d *Diff) FullString() string {
	if !d.HasChanges() {
		return ""
	}
	return d.GitHeader() + "\n" + d.String()
}

// HasChanges reports whether the diff has any hunks.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

// Header returns the "@@ -a,b +c,d @@" line of the hunk.
func (h DiffHunk) Header() string {
	return fmt.Sprintf("@@ -%s +%s @@",
		hunkRange(h.OriginalStart, h.OriginalCount),
		hunkRange(h.ModifiedStart, h.ModifiedCount))
}

func hunkRange(start, count int) string {
	if count == 1 {
		return fmt.Sprint(start)
	}
	return fmt.Sprintf("%d,%d", start, count)
}

// splitLines splits on "\n". Carriage returns stay part of the line text so
// that line ending changes show up as changed lines.
func splitLines(content []byte) []line {
	if len(content) == 0 {
		return nil
	}
	parts := strings.Split(string(content), "\n")
	last := len(parts) - 1
	if parts[last] == "" {
		parts = parts[:last]
		out := make([]line, len(parts))
		for i, p := range parts {
			out[i] = line{text: p}
		}
		return out
	}
	out := make([]line, len(parts))
	for i, p := range parts {
		out[i] = line{text: p}
	}
	out[last].noNewline = true
	return out
}

type op struct {
	kind DiffLineKind
	line line
}

// diffLines produces an edit script. The common prefix and suffix are
// peeled off first; formatter output usually differs from its input in a
// few small regions, which keeps the quadratic table small.
func diffLines(a, b []line) []op {
	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix &&
		a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}

	ops := make([]op, 0, len(a)+len(b))
	for _, l := range a[:prefix] {
		ops = append(ops, op{DiffLineContext, l})
	}
	ops = append(ops, lcsScript(a[prefix:len(a)-suffix], b[prefix:len(b)-suffix])...)
	for _, l := range a[len(a)-suffix:] {
		ops = append(ops, op{DiffLineContext, l})
	}
	return ops
}

// lcsScript walks a longest-common-subsequence table. Removals are emitted
// before additions within a changed run.
func lcsScript(a, b []line) []op {
	n, m := len(a), len(b)
	// table[i][j] is the LCS length of a[i:] and b[j:].
	table := make([][]int, n+1)
	for i := range table {
		table[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				table[i][j] = table[i+1][j+1] + 1
			} else {
				table[i][j] = max(table[i+1][j], table[i][j+1])
			}
		}
	}

	var ops []op
	i, j := 0, 0
	for i < n || j < m {
		switch {
		case i < n && j < m && a[i] == b[j]:
			ops = append(ops, op{DiffLineContext, a[i]})
			i++
			j++
		case j == m || (i < n && table[i+1][j] >= table[i][j+1]):
			ops = append(ops, op{DiffLineRemove, a[i]})
			i++
		default:
			ops = append(ops, op{DiffLineAdd, b[j]})
			j++
		}
	}
	return ops
}

// groupHunks cuts the script into hunks, merging changes separated by at
// most twice the context size.
func groupHunks(ops []op) []DiffHunk {
	var hunks []DiffHunk

	origLine, modLine := 1, 1
	i := 0
	for i < len(ops) {
		if ops[i].kind == DiffLineContext {
			origLine++
			modLine++
			i++
			continue
		}

		// Find the end of this change cluster.
		end := i
		for end < len(ops) {
			if ops[end].kind != DiffLineContext {
				end++
				continue
			}
			run := end
			for run < len(ops) && ops[run].kind == DiffLineContext {
				run++
			}
			if run == len(ops) || run-end > 2*contextLines {
				break
			}
			end = run
		}

		start := max(i-contextLines, 0)
		stop := min(end+contextLines, len(ops))
		lead := i - start

		h := DiffHunk{
			OriginalStart: origLine - lead,
			ModifiedStart: modLine - lead,
		}
		for _, o := range ops[start:stop] {
			h.Lines = append(h.Lines, DiffLine{Kind: o.kind, Content: o.line.text, NoNewline: o.line.noNewline})
			switch o.kind {
			case DiffLineContext:
				h.OriginalCount++
				h.ModifiedCount++
			case DiffLineRemove:
				h.OriginalCount++
			case DiffLineAdd:
				h.ModifiedCount++
			}
		}
		if h.OriginalCount == 0 {
			h.OriginalStart--
		}
		if h.ModifiedCount == 0 {
			h.ModifiedStart--
		}
		hunks = append(hunks, h)

		for _, o := range ops[i:stop] {
			if o.kind != DiffLineAdd {
				origLine++
			}
			if o.kind != DiffLineRemove {
				modLine++
			}
		}
		i = stop
	}
	return hunks
}
