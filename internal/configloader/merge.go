package configloader

import (
	"slices"

	"github.com/yaklabco/maudfmt/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Slices: override replaces base entirely if override is non-nil
//   - Booleans can only be switched on by a later layer
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	if override.LineLength != 0 {
		result.LineLength = override.LineLength
	}
	if override.MacroNames != nil {
		result.MacroNames = slices.Clone(override.MacroNames)
	}
	if override.Ignore != nil {
		result.Ignore = slices.Clone(override.Ignore)
	}
	if override.Markdown {
		result.Markdown = true
	}

	if override.Backups.Mode != "" {
		result.Backups.Mode = override.Backups.Mode
	}
	// false is indistinguishable from unset here, so a later layer can
	// enable backups but not disable them.
	if override.Backups.Enabled {
		result.Backups.Enabled = true
	}

	// CLI-only fields.
	if override.Check {
		result.Check = true
	}
	if override.Diff {
		result.Diff = true
	}
	if override.Rustfmt {
		result.Rustfmt = true
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}

	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
