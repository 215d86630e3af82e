package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/maudfmt/internal/configloader"
	"github.com/yaklabco/maudfmt/internal/logging"
	"github.com/yaklabco/maudfmt/pkg/config"
	"github.com/yaklabco/maudfmt/pkg/format"
	"github.com/yaklabco/maudfmt/pkg/reporter"
	"github.com/yaklabco/maudfmt/pkg/runner"
)

// stdinName names stdin content in diffs and logs.
const stdinName = "<stdin>"

type formatFlags struct {
	stdin      bool
	macroNames []string
	lineLength int
	check      bool
	diff       bool
	format     string
	jobs       int
	ignore     []string
	markdown   bool
	backup     bool
	rustfmt    bool
	verbose    bool
	compact    bool
}

func addFormatFlags(cmd *cobra.Command, flags *formatFlags) {
	f := cmd.Flags()
	f.BoolVarP(&flags.stdin, "stdin", "s", false, "read a document from stdin and write the result to stdout")
	f.StringSliceVarP(&flags.macroNames, "macro-names", "m", nil,
		"macro paths to format, replacing the defaults (default maud::html,html)")
	f.IntVar(&flags.lineLength, "line-length", 0,
		fmt.Sprintf("maximum line width (default %d)", config.DefaultLineLength))
	f.BoolVar(&flags.check, "check", false, "report files that would change and exit 1 without writing")
	f.BoolVar(&flags.diff, "diff", false, "print a unified diff instead of writing")
	f.StringVar(&flags.format, "format", "", "report format: text, json, diff")
	f.IntVarP(&flags.jobs, "jobs", "j", 0, "number of files formatted in parallel (0 = number of CPUs)")
	f.StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns of files and directories to skip")
	f.BoolVar(&flags.markdown, "markdown", false, "also format rust code blocks in Markdown files")
	f.BoolVar(&flags.backup, "backup", false, "keep a backup of every file before rewriting it")
	f.BoolVar(&flags.rustfmt, "rustfmt", false, "run rustfmt on changed files afterwards")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "list unchanged files and template diagnostics")
	f.BoolVar(&flags.compact, "compact", false, "print minified JSON")
}

// cliConfig turns the flags that were set into a config layer.
func cliConfig(cmd *cobra.Command, flags *formatFlags) (*config.Config, error) {
	cfg := &config.Config{
		Check:   flags.check,
		Diff:    flags.diff,
		Rustfmt: flags.rustfmt,
	}
	changed := cmd.Flags().Changed

	if changed("macro-names") {
		cfg.MacroNames = flags.macroNames
	}
	if changed("line-length") {
		if flags.lineLength < 1 {
			return nil, fmt.Errorf("--line-length must be at least 1, got %d", flags.lineLength)
		}
		cfg.LineLength = flags.lineLength
	}
	if changed("ignore") {
		cfg.Ignore = flags.ignore
	}
	if changed("jobs") {
		if flags.jobs < 0 {
			return nil, fmt.Errorf("--jobs must not be negative, got %d", flags.jobs)
		}
		cfg.Jobs = flags.jobs
	}
	cfg.Markdown = flags.markdown
	cfg.Backups.Enabled = flags.backup

	switch {
	case flags.format != "":
		f, err := reporter.ParseFormat(flags.format)
		if err != nil {
			return nil, err
		}
		cfg.Format = config.OutputFormat(f)
	case flags.diff:
		cfg.Format = config.FormatDiff
	}

	return cfg, nil
}

func runFormat(cmd *cobra.Command, args []string, global *globalFlags, flags *formatFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.Default()
	ctx = logging.WithLogger(ctx, logger)

	cliCfg, err := cliConfig(cmd, flags)
	if err != nil {
		return err
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	loaded, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: global.configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	for _, warning := range loaded.Warnings {
		logger.Warn(warning)
	}
	if len(loaded.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldFiles, loaded.LoadedFrom)
	}

	cfg := loaded.Config
	logger.Debug("configuration resolved",
		logging.FieldLineLength, cfg.LineLength,
		logging.FieldMacroNames, cfg.MacroNames,
		logging.FieldCheck, cfg.Check,
		logging.FieldJobs, cfg.Jobs,
	)

	if flags.stdin || (len(args) == 0 && stdinIsPiped(cmd.InOrStdin())) {
		if len(args) > 0 {
			return errors.New("--stdin does not accept paths")
		}
		return runStdin(ctx, cmd, cfg)
	}

	opts := runner.OptionsFromConfig(cfg, args)
	opts.WorkingDir = workDir
	logger.Debug("discovering files", logging.FieldPaths, opts.Paths, logging.FieldWorkingDir, workDir)

	result, err := runner.NewFromOptions(opts).Run(ctx, opts)
	if err != nil {
		return fmt.Errorf("format run failed: %w", err)
	}

	logger.Debug("run finished",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesChanged, result.Stats.FilesChanged,
		logging.FieldFilesErrored, result.Stats.FilesErrored,
		logging.FieldInvocations, result.Stats.Invocations,
		logging.FieldFailures, result.Stats.Failures,
	)

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      reporter.Format(cfg.Format),
		Color:       global.color,
		Check:       !cfg.WritesFiles(),
		Verbose:     flags.verbose,
		ShowSummary: true,
		Compact:     flags.compact,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}
	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	if cfg.Rustfmt && cfg.WritesFiles() {
		if written := writtenFiles(result); len(written) > 0 {
			if err := runRustfmtFiles(ctx, written); err != nil {
				logging.FromContext(ctx).Warn("rustfmt failed, files keep the maudfmt output", logging.FieldError, err)
			}
		}
	}

	return errorForExitCode(ExitCodeFromResult(result, !cfg.WritesFiles()))
}

// runStdin formats one document from stdin. The formatted document goes to
// stdout unless check or diff mode is on.
func runStdin(ctx context.Context, cmd *cobra.Command, cfg *config.Config) error {
	input, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	name := stdinName
	if cfg.Markdown {
		name = "stdin.md"
	}

	ctx = logging.WithFields(ctx, logging.FieldPath, stdinName)
	pipeline := format.NewPipeline(format.PipelineOptionsFromConfig(cfg))
	pr, err := pipeline.ProcessContent(ctx, name, input)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	failed := len(pr.Failures) > 0

	if !cfg.WritesFiles() {
		if cfg.Diff && pr.Diff != nil {
			if _, err := io.WriteString(out, pr.Diff.FullString()); err != nil {
				return fmt.Errorf("write diff: %w", err)
			}
		}
		switch {
		case failed:
			return ErrFormatFailed
		case pr.Changed:
			return ErrUnformatted
		default:
			return nil
		}
	}

	output := pr.Output
	if cfg.Rustfmt && !cfg.Markdown {
		if piped, err := runRustfmtStdin(ctx, output); err != nil {
			logging.FromContext(ctx).Warn("rustfmt failed, printing the maudfmt output", logging.FieldError, err)
		} else {
			output = piped
		}
	}
	if _, err := out.Write(output); err != nil {
		return fmt.Errorf("write stdout: %w", err)
	}
	if failed {
		return ErrFormatFailed
	}
	return nil
}

// stdinIsPiped reports whether r is a pipe or redirected file rather than a
// terminal or a character device such as /dev/null.
func stdinIsPiped(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	if term.IsTerminal(int(f.Fd())) {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	mode := info.Mode()
	return mode&os.ModeNamedPipe != 0 || mode.IsRegular()
}

func writtenFiles(result *runner.Result) []string {
	var paths []string
	for _, file := range result.Files {
		if file.Result != nil && file.Result.Written {
			paths = append(paths, file.Path)
		}
	}
	return paths
}
