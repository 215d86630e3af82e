package configloader

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/maudfmt/pkg/config"
)

const envVarPrefix = "MAUDFMT_"

// envSetting binds one MAUDFMT_ variable to a config field. set parses the
// raw value and stores it.
type envSetting struct {
	suffix string
	field  string
	help   string
	set    func(cfg *config.Config, value string) error
}

func stringSetting(dst func(*config.Config) *string) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		*dst(cfg) = value
		return nil
	}
}

func boolSetting(dst func(*config.Config) *bool) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%q is not a boolean (use true/false/1/0)", value)
		}
		*dst(cfg) = b
		return nil
	}
}

func intSetting(dst func(*config.Config) *int) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%q is not an integer", value)
		}
		*dst(cfg) = n
		return nil
	}
}

func listSetting(dst func(*config.Config) *[]string) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		*dst(cfg) = ParseList(value)
		return nil
	}
}

// envSettings is sorted by suffix.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envSettings = []envSetting{
	{
		suffix: "BACKUPS_ENABLED", field: "backups.enabled",
		help: "Keep a backup of each file before rewriting it: true or false",
		set:  boolSetting(func(c *config.Config) *bool { return &c.Backups.Enabled }),
	},
	{
		suffix: "BACKUPS_MODE", field: "backups.mode",
		help: "Backup mode: sidecar or none",
		set:  stringSetting(func(c *config.Config) *string { return &c.Backups.Mode }),
	},
	{
		suffix: "CHECK", field: "check",
		help: "Report unformatted files without writing: true or false",
		set:  boolSetting(func(c *config.Config) *bool { return &c.Check }),
	},
	{
		suffix: "DIFF", field: "diff",
		help: "Print a unified diff instead of writing: true or false",
		set:  boolSetting(func(c *config.Config) *bool { return &c.Diff }),
	},
	{
		suffix: "FORMAT", field: "format",
		help: "Report format: text, json or diff",
		set: func(c *config.Config, value string) error {
			c.Format = config.OutputFormat(value)
			return nil
		},
	},
	{
		suffix: "IGNORE", field: "ignore",
		help: "Comma-separated glob patterns to skip",
		set:  listSetting(func(c *config.Config) *[]string { return &c.Ignore }),
	},
	{
		suffix: "JOBS", field: "jobs",
		help: "Files formatted in parallel (0 = number of CPUs)",
		set:  intSetting(func(c *config.Config) *int { return &c.Jobs }),
	},
	{
		suffix: "LINE_LENGTH", field: "line_length",
		help: "Maximum width of a formatted template line",
		set:  intSetting(func(c *config.Config) *int { return &c.LineLength }),
	},
	{
		suffix: "MACRO_NAMES", field: "macro_names",
		help: "Comma-separated macro paths to format",
		set:  listSetting(func(c *config.Config) *[]string { return &c.MacroNames }),
	},
	{
		suffix: "MARKDOWN", field: "markdown",
		help: "Also format rust code blocks in Markdown files: true or false",
		set:  boolSetting(func(c *config.Config) *bool { return &c.Markdown }),
	},
}

// LoadFromEnv overlays every non-empty MAUDFMT_* variable onto cfg.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}
	for _, s := range envSettings {
		name := envVarPrefix + s.suffix
		value := os.Getenv(name)
		if value == "" {
			continue
		}
		if err := s.set(cfg, value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// ParseList splits a comma-separated value, trimming each element and
// dropping empty ones.
func ParseList(value string) []string {
	var out []string
	for part := range strings.SplitSeq(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// GetEnvVarName returns the variable that sets the given config key, or ""
// when none does.
func GetEnvVarName(field string) string {
	i := slices.IndexFunc(envSettings, func(s envSetting) bool { return s.field == field })
	if i < 0 {
		return ""
	}
	return envVarPrefix + envSettings[i].suffix
}

// EnvVar describes one supported environment variable.
type EnvVar struct {
	Name        string
	Description string
}

// ListEnvVars returns the supported variables sorted by name.
func ListEnvVars() []EnvVar {
	vars := make([]EnvVar, 0, len(envSettings))
	for _, s := range envSettings {
		vars = append(vars, EnvVar{Name: envVarPrefix + s.suffix, Description: s.help})
	}
	return vars
}
