package reporter

import (
	"fmt"
	"slices"
	"strings"
)

// Format names a report layout.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatDiff Format = "diff"
)

// formats is also the order shown in error messages.
//
//nolint:gochecknoglobals // Read-only lookup table.
var formats = []Format{FormatText, FormatJSON, FormatDiff}

// ParseFormat accepts a format name in any case. The empty string selects
// text.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return FormatText, nil
	}
	if f := Format(name); f.IsValid() {
		return f, nil
	}
	valid := make([]string, len(formats))
	for i, f := range formats {
		valid[i] = string(f)
	}
	return "", fmt.Errorf("unknown format %q (want one of %s)", name, strings.Join(valid, ", "))
}

func (f Format) String() string { return string(f) }

// IsValid reports whether f is a known format. The empty format is not.
func (f Format) IsValid() bool {
	return slices.Contains(formats, f)
}
