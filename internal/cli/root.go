// Package cli provides the cobra command tree for maudfmt.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/maudfmt/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	debug      bool
	configPath string
	color      string
}

// NewRootCommand creates the maudfmt command. Running it without a
// subcommand formats the given paths.
func NewRootCommand(info BuildInfo) *cobra.Command {
	global := &globalFlags{}
	flags := &formatFlags{}

	rootCmd := &cobra.Command{
		Use:   "maudfmt [FILE|DIR|GLOB...]",
		Short: "Formatter for maud html! templates in Rust sources",
		Long: `maudfmt rewrites the bodies of maud html! invocations in Rust source files
into a canonical layout. Code outside the templates is never touched.

Directories are searched recursively for .rs files; hidden directories and
cargo "target" directories are skipped. With no paths, the current directory
is formatted. When stdin is piped and no paths are given, the document is
read from stdin and the result is written to stdout.`,
		Example: `  maudfmt src/                      Format every .rs file under src/
  maudfmt --check .                 Exit 1 if any file would change
  maudfmt --diff src/page.rs        Show what would change
  maudfmt -m html,maud::html src/   Recognize only these macros
  cat page.rs | maudfmt --stdin     Format stdin to stdout`,
		Args: cobra.ArbitraryArgs,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if global.debug {
				logging.SetLevel("debug")
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, args, global, flags)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&global.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&global.configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&global.color, "color", "auto",
		"colorize output: auto, always, never")

	addFormatFlags(rootCmd, flags)

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	NewHelpFormatter().ApplyToCommand(rootCmd)

	return rootCmd
}
