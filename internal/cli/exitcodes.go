package cli

import (
	"errors"

	"github.com/yaklabco/maudfmt/pkg/runner"
)

// Exit codes for maudfmt.
const (
	// ExitSuccess means every file is formatted (or was formatted now).
	ExitSuccess = 0

	// ExitUnformatted means check or diff mode found files that would change.
	ExitUnformatted = 1

	// ExitError means a file could not be processed, a template failed to
	// parse, or the command line or configuration was invalid.
	ExitError = 2
)

var (
	// ErrUnformatted signals that files would be reformatted in check mode.
	ErrUnformatted = errors.New("files are not formatted")

	// ErrFormatFailed signals that at least one file or template failed.
	// The failures have already been reported.
	ErrFormatFailed = errors.New("formatting finished with errors")
)

// ExitCodeFromResult maps a run result to an exit code.
func ExitCodeFromResult(result *runner.Result, check bool) int {
	switch {
	case result.HasErrors():
		return ExitError
	case check && result.HasChanges():
		return ExitUnformatted
	default:
		return ExitSuccess
	}
}

// errorForExitCode returns the sentinel that makes ExitCode yield code.
func errorForExitCode(code int) error {
	switch code {
	case ExitUnformatted:
		return ErrUnformatted
	case ExitError:
		return ErrFormatFailed
	default:
		return nil
	}
}

// ExitCode maps the error returned by the root command to a process exit
// code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrUnformatted):
		return ExitUnformatted
	default:
		return ExitError
	}
}

// IsReported reports whether err only carries an exit status whose details
// were already printed.
func IsReported(err error) bool {
	return errors.Is(err, ErrUnformatted) || errors.Is(err, ErrFormatFailed)
}
