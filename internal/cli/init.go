package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/maudfmt/internal/configloader"
	"github.com/yaklabco/maudfmt/internal/logging"
	"github.com/yaklabco/maudfmt/pkg/config"
)

// defaultConfigFile is written by init when --output is not given.
const defaultConfigFile = ".maudfmt.yml"

type initFlags struct {
	force  bool
	full   bool
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a .maudfmt.yml configuration file",
		Long: `Create a .maudfmt.yml configuration file in the current directory.

The default template lists every setting commented out; --full writes the
settings with their default values instead.`,
		Example: `  maudfmt init                     Create .maudfmt.yml
  maudfmt init --full              Write every setting with its default
  maudfmt init -o config/fmt.yml   Write to another path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "write every setting with its default value")
	cmd.Flags().StringVarP(&flags.output, "output", "o", defaultConfigFile, "output file path")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), "info")

	err := configloader.WriteTemplate(flags.output, config.TemplateOptions{Full: flags.full}, flags.force)
	if errors.Is(err, configloader.ErrConfigExists) {
		return fmt.Errorf("%s already exists; use --force to overwrite", flags.output)
	}
	if err != nil {
		return err
	}

	logger.Info("created configuration file", logging.FieldPath, flags.output)
	return nil
}
