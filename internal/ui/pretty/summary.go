package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/maudfmt/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func countFiles(n int) string {
	return fmt.Sprintf("%d %s", n, plural(n, wordFile, wordFiles))
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "2 files reformatted, 5 files left unchanged, 1 template failed".
// In check mode changed files are reported as "would be reformatted".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats, check bool) string {
	if stats.FilesDiscovered == 0 {
		return s.Dim.Render("No files to format") + "\n"
	}

	var parts []string

	unchanged := stats.FilesProcessed - stats.FilesChanged - stats.FilesSkipped
	switch {
	case stats.FilesChanged > 0 && check:
		parts = append(parts, s.Changed.Render(countFiles(stats.FilesChanged)+" would be reformatted"))
	case stats.FilesChanged > 0:
		parts = append(parts, s.Success.Render(countFiles(stats.FilesChanged)+" reformatted"))
	}

	if unchanged > 0 {
		word := " left unchanged"
		if check {
			word = " already formatted"
		}
		parts = append(parts, s.Dim.Render(countFiles(unchanged)+word))
	}
	if stats.FilesSkipped > 0 {
		parts = append(parts, s.Warning.Render(countFiles(stats.FilesSkipped)+" skipped"))
	}
	if stats.Failures > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d %s failed to parse",
			stats.Failures, plural(stats.Failures, "template", "templates"))))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(countFiles(stats.FilesErrored)+" with errors"))
	}

	if len(parts) == 0 {
		return s.Success.Render("Nothing to do") + "\n"
	}
	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats, check bool) string {
	var builder strings.Builder

	row := func(label string, value string) {
		builder.WriteString(fmt.Sprintf("  %-19s%s\n", label+":", value))
	}

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	row("Files checked", s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)))
	if stats.FilesChanged > 0 {
		label := "Files reformatted"
		if check {
			label = "Files to reformat"
		}
		row(label, s.Changed.Render(strconv.Itoa(stats.FilesChanged)))
	}
	if stats.FilesSkipped > 0 {
		row("Files skipped", s.Warning.Render(strconv.Itoa(stats.FilesSkipped)))
	}
	if stats.FilesErrored > 0 {
		row("Files with errors", s.Failure.Render(strconv.Itoa(stats.FilesErrored)))
	}

	builder.WriteString("\n")

	row("Templates", s.SummaryValue.Render(strconv.Itoa(stats.Invocations)))
	row("Formatted", s.SummaryValue.Render(strconv.Itoa(stats.Formatted)))
	if stats.Failures > 0 {
		row("Parse failures", s.Error.Render(strconv.Itoa(stats.Failures)))
	}
	if stats.Warnings > 0 {
		row("Warnings", s.Warning.Render(strconv.Itoa(stats.Warnings)))
	}

	builder.WriteString("\n")

	switch {
	case stats.FilesErrored > 0 || stats.Failures > 0:
		builder.WriteString(s.Failure.Render("Formatting finished with errors"))
	case check && stats.FilesChanged > 0:
		builder.WriteString(s.Changed.Render("Some files are not formatted"))
	default:
		builder.WriteString(s.Success.Render("All files formatted"))
	}
	builder.WriteString("\n")

	return builder.String()
}
