package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/maudfmt/pkg/format"
)

// FormatFailure formats a template that could not be parsed and was left as is.
func (s *Styles) FormatFailure(path string, failure *format.InvocationError) string {
	location := fmt.Sprintf("%s:%d", s.FilePath.Render(path), failure.Line)
	return fmt.Sprintf("  %s  %s  %s  %s\n",
		location,
		s.Error.Render("error"),
		s.Message.Render(errorText(failure.Err)),
		s.Macro.Render("("+failure.Name+"!)"),
	)
}

// FormatWarning formats an expression that was kept verbatim.
func (s *Styles) FormatWarning(path string, warning *format.Warning) string {
	location := fmt.Sprintf("%s:%d:%d", s.FilePath.Render(path), warning.Line, warning.Column)
	return fmt.Sprintf("  %s  %s  %s  %s\n",
		location,
		s.Warning.Render("warning"),
		s.Message.Render("kept expression verbatim: "+errorText(warning.Err)),
		s.Macro.Render("("+warning.Name+"!)"),
	)
}

// FormatSourceContext formats the source line with a caret marker.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	const indent = "        "

	builder.WriteString(indent + s.SourceLine.Render(line) + "\n")

	if column > 0 {
		padding := indent + strings.Repeat(" ", column-1)
		builder.WriteString(padding + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// FormatFileStatus formats a one-line outcome for a file.
func (s *Styles) FormatFileStatus(path, status string) string {
	styled := s.Dim.Render(status)
	switch {
	case strings.HasPrefix(status, "skipped"):
		styled = s.Warning.Render(status)
	case status == "would reformat":
		styled = s.Changed.Render(status)
	case strings.HasPrefix(status, "formatted"):
		styled = s.Success.Render(status)
	}
	return s.FilePath.Render(path) + ": " + styled
}

// FormatFileError formats a file that could not be processed at all.
func (s *Styles) FormatFileError(path string, err error) string {
	return s.FilePath.Render(path) + ": " + s.Error.Render("error: "+errorText(err))
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
