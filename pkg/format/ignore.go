package format

import (
	"errors"
	"strings"
)

// IgnoreDirective, as the text of a line comment, keeps the following line
// exactly as written.
const IgnoreDirective = "maudfmt-ignore"

// ignorePlaceholder stands in for a protected line. It is a string
// literal, so it is valid both as Rust and as template markup.
const ignorePlaceholder = `"__MAUDFMT_IGNORED_PLACEHOLDER__"`

// ErrIgnoredLineLost is returned when a protected line cannot be put back,
// for example because its placeholder was joined with other markup.
var ErrIgnoredLineLost = errors.New("line after " + IgnoreDirective + " could not be restored")

// splitLine separates a line from its terminator.
func splitLine(l string) (string, string) {
	body := strings.TrimRight(l, "\r\n")
	return body, l[len(body):]
}

func isIgnoreDirective(line string) bool {
	_, comment, ok := strings.Cut(line, "//")
	return ok && strings.HasPrefix(strings.TrimSpace(comment), IgnoreDirective)
}

// protectIgnored replaces every line that follows an ignore directive with
// the placeholder and returns the replaced lines in order. A directive on
// the last line protects nothing.
func protectIgnored(src []byte) ([]byte, []string) {
	text := string(src)
	if !strings.Contains(text, IgnoreDirective) {
		return src, nil
	}

	lines := strings.SplitAfter(text, "\n")
	var saved []string
	for i := 0; i+1 < len(lines); i++ {
		body, _ := splitLine(lines[i])
		if !isIgnoreDirective(body) || lines[i+1] == "" {
			continue
		}
		next, ending := splitLine(lines[i+1])
		saved = append(saved, next)
		lines[i+1] = ignorePlaceholder + ending
		i++
	}
	if len(saved) == 0 {
		return src, nil
	}
	return []byte(strings.Join(lines, "")), saved
}

// restoreIgnored puts the protected lines back in place of their
// placeholders, whatever indentation the placeholder was given.
func restoreIgnored(out []byte, saved []string) ([]byte, error) {
	if len(saved) == 0 {
		return out, nil
	}

	lines := strings.SplitAfter(string(out), "\n")
	next := 0
	for i, l := range lines {
		body, ending := splitLine(l)
		if next < len(saved) && strings.TrimSpace(body) == ignorePlaceholder {
			lines[i] = saved[next] + ending
			next++
		}
	}
	if next != len(saved) {
		return nil, ErrIgnoredLineLost
	}
	return []byte(strings.Join(lines, "")), nil
}
