package config

import (
	"bytes"
	"fmt"
	"strings"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every setting with its default value instead of a
	// commented-out sample.
	Full bool
}

// GenerateTemplate creates the contents of a new .maudfmt.yml.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Full {
		return generateFullTemplate()
	}
	return []byte(minimalTemplate), nil
}

const minimalTemplate = `# maudfmt configuration
# See: https://github.com/yaklabco/maudfmt

# Maximum width of a formatted template line
line_length: 100

# Macro paths formatted as templates
# macro_names:
#   - maud::html
#   - html

# Also format rust code fences in Markdown files
# markdown: false

# File patterns to ignore (glob patterns)
# ignore:
#   - "target/**"
#   - "vendor/**"

# Write a backup next to each file before reformatting it
# backups:
#   enabled: false
#   mode: sidecar
`

//nolint:gochecknoglobals // Read-only field documentation.
var fieldDocs = map[string]string{
	"line_length": "Maximum width of a formatted template line",
	"macro_names": "Macro paths formatted as templates",
	"markdown":    "Also format rust code fences in Markdown files",
	"ignore":      "File patterns to ignore (glob patterns)",
	"backups":     "Write a backup next to each file before reformatting it",
}

func generateFullTemplate() ([]byte, error) {
	cfg := NewConfig()
	cfg.Ignore = []string{"target/**"}

	body, err := cfg.ToYAML()
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n")
	for _, line := range strings.SplitAfter(string(body), "\n") {
		key, _, found := strings.Cut(line, ":")
		if doc, ok := fieldDocs[key]; ok && found {
			buf.WriteString("\n# " + doc + "\n")
		}
		buf.WriteString(line)
	}
	return buf.Bytes(), nil
}

// DefaultTemplateHeader returns the header comment of generated configs.
func DefaultTemplateHeader() string {
	return `# maudfmt configuration
# See: https://github.com/yaklabco/maudfmt
`
}
