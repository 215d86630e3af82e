// Package config defines the configuration types for maudfmt.
// These are plain data structures; loading and layering live in
// internal/configloader.
package config

// DefaultLineLength is the line budget used when none is configured.
const DefaultLineLength = 100

// BackupsConfig controls backups written before a file is reformatted.
type BackupsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Mode    string `mapstructure:"mode" yaml:"mode"` // "sidecar"
}

// OutputFormat selects how results are reported.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatDiff OutputFormat = "diff"
)

// IsValid reports whether f names a known format.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatDiff:
		return true
	default:
		return false
	}
}

// Config is the root configuration structure.
type Config struct {
	// LineLength is the maximum width of a formatted line.
	LineLength int `mapstructure:"line_length" yaml:"line_length"`

	// MacroNames are the macro paths treated as templates.
	MacroNames []string `mapstructure:"macro_names" yaml:"macro_names"`

	// Markdown enables formatting Rust code fences in Markdown files.
	Markdown bool `mapstructure:"markdown" yaml:"markdown"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `mapstructure:"ignore" yaml:"ignore"`

	// Backups configures backups before writing.
	Backups BackupsConfig `mapstructure:"backups" yaml:"backups"`

	// CLI-level options (not persisted to config files).

	// Check reports files that would change without writing them.
	Check bool `mapstructure:"-" yaml:"-"`

	// Diff prints a unified diff instead of writing.
	Diff bool `mapstructure:"-" yaml:"-"`

	// Format specifies the report format.
	Format OutputFormat `mapstructure:"-" yaml:"-"`

	// Jobs is the number of files formatted in parallel. 0 means GOMAXPROCS.
	Jobs int `mapstructure:"-" yaml:"-"`

	// Rustfmt runs rustfmt on every changed file after writing.
	Rustfmt bool `mapstructure:"-" yaml:"-"`
}

// NewConfig returns a Config with the defaults.
func NewConfig() *Config {
	return &Config{
		LineLength: DefaultLineLength,
		MacroNames: []string{"maud::html", "html"},
		Backups: BackupsConfig{
			Enabled: false,
			Mode:    "sidecar",
		},
		Format: FormatText,
	}
}

// WritesFiles reports whether a run with this configuration modifies files
// on disk.
func (c *Config) WritesFiles() bool {
	return !c.Check && !c.Diff
}
