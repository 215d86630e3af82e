package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yaklabco/maudfmt/internal/configloader"
	"github.com/yaklabco/maudfmt/internal/ui/pretty"
)

// HelpStyles holds the lipgloss styles used in help output.
type HelpStyles struct {
	Command    lipgloss.Style
	Heading    lipgloss.Style
	Subcommand lipgloss.Style
	Flag       lipgloss.Style
	Example    lipgloss.Style
	Dim        lipgloss.Style
}

// NewHelpStyles returns colored styles, or plain ones when color is off.
func NewHelpStyles(colorEnabled bool) *HelpStyles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return &HelpStyles{
			Command:    plain,
			Heading:    plain,
			Subcommand: plain,
			Flag:       plain,
			Example:    plain,
			Dim:        plain,
		}
	}
	return &HelpStyles{
		Command:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Heading:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Subcommand: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Flag:       lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Example:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Dim:        lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// HelpFormatter renders styled usage and help text for cobra commands.
// Color is decided when help is printed, so --color on the same command
// line applies.
type HelpFormatter struct{}

// NewHelpFormatter creates a help formatter.
func NewHelpFormatter() *HelpFormatter {
	return &HelpFormatter{}
}

const usageTemplate = `{{ heading "Usage:" }}
{{- if .Runnable}}
  {{ command .UseLine }}{{end}}
{{- if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]{{end}}

{{- if .HasExample}}

{{ heading "Examples:" }}
{{ example .Example }}
{{- end}}

{{- if .HasAvailableSubCommands}}

{{ heading "Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ subcommand (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}
{{- end}}

{{- if not .HasParent}}

{{ heading "Environment:" }}
{{ environment }}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

const helpTemplate = `{{with (or .Long .Short)}}{{ trimTrailing . }}

{{end}}` + usageTemplate

func (h *HelpFormatter) funcs(styles *HelpStyles) template.FuncMap {
	return template.FuncMap{
		"command":    styles.Command.Render,
		"heading":    styles.Heading.Render,
		"subcommand": styles.Subcommand.Render,
		"example":    styles.Example.Render,
		"flags": func(set interface{ FlagUsages() string }) string {
			return styleFlagUsages(set.FlagUsages(), styles)
		},
		"environment": func() string {
			return environmentUsages(styles)
		},
		"rpad":         rpad,
		"trimTrailing": trimTrailingWhitespace,
	}
}

// ApplyToCommand installs the styled templates on cmd; subcommands inherit
// them.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	cmd.SetUsageFunc(func(c *cobra.Command) error {
		return h.render(c, c.OutOrStderr(), "usage", usageTemplate)
	})
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		if err := h.render(c, c.OutOrStdout(), "help", helpTemplate); err != nil {
			c.PrintErrln(err)
		}
	})
}

func (h *HelpFormatter) render(cmd *cobra.Command, w io.Writer, name, text string) error {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		mode = "auto"
	}
	styles := NewHelpStyles(pretty.IsColorEnabled(mode, w))

	tmpl, err := template.New(name).Funcs(h.funcs(styles)).Parse(text)
	if err != nil {
		return fmt.Errorf("parse %s template: %w", name, err)
	}
	return tmpl.Execute(w, cmd)
}

// styleFlagUsages colors the flag names in pflag's usage block. Each line
// looks like "  -j, --jobs int   description".
func styleFlagUsages(usages string, styles *HelpStyles) string {
	lines := strings.Split(strings.TrimSuffix(usages, "\n"), "\n")
	for i, line := range lines {
		lines[i] = styleFlagLine(line, styles)
	}
	return strings.Join(lines, "\n")
}

func styleFlagLine(line string, styles *HelpStyles) string {
	trimmed := strings.TrimLeft(line, " ")
	indent := line[:len(line)-len(trimmed)]

	// The definition ends at the first run of two or more spaces.
	end := strings.Index(trimmed, "  ")
	if end < 0 {
		return line
	}
	definition, rest := trimmed[:end], trimmed[end:]

	fields := strings.Fields(definition)
	for i, field := range fields {
		if !strings.HasPrefix(field, "-") {
			fields[i] = styles.Dim.Render(field)
			continue
		}
		name, comma := strings.CutSuffix(field, ",")
		fields[i] = styles.Flag.Render(name)
		if comma {
			fields[i] += ","
		}
	}
	return indent + strings.Join(fields, " ") + rest
}

// environmentUsages lists the MAUDFMT_* variables in the same layout as
// the flag block.
func environmentUsages(styles *HelpStyles) string {
	vars := configloader.ListEnvVars()
	width := 0
	for _, v := range vars {
		width = max(width, len(v.Name))
	}
	lines := make([]string, 0, len(vars))
	for _, v := range vars {
		lines = append(lines, "  "+styles.Flag.Render(rpad(v.Name, width))+"   "+v.Description)
	}
	return strings.Join(lines, "\n")
}

func rpad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func trimTrailingWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
