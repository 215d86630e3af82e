package cli

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/yaklabco/maudfmt/internal/logging"
)

// rustfmtEdition is passed to rustfmt so files outside a cargo project
// still parse with modern syntax.
const rustfmtEdition = "2021"

// rustfmtBinary returns $RUSTFMT, as cargo fmt honors it, or rustfmt from
// PATH.
func rustfmtBinary() string {
	return cmp.Or(os.Getenv("RUSTFMT"), "rustfmt")
}

// runRustfmtFiles runs rustfmt over files in place.
func runRustfmtFiles(ctx context.Context, files []string) error {
	logger := logging.FromContext(ctx)

	args := append([]string{"--edition", rustfmtEdition}, files...)
	cmd := exec.CommandContext(ctx, rustfmtBinary(), args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	logger.Debug("running rustfmt", logging.FieldFiles, len(files))
	if err := cmd.Run(); err != nil {
		return rustfmtError(err, &stderr)
	}
	return nil
}

// runRustfmtStdin pipes src through rustfmt and returns its output.
func runRustfmtStdin(ctx context.Context, src []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, rustfmtBinary(), "--edition", rustfmtEdition, "--emit", "stdout")
	cmd.Stdin = bytes.NewReader(src)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, rustfmtError(err, &stderr)
	}
	return stdout.Bytes(), nil
}

func rustfmtError(err error, stderr *bytes.Buffer) error {
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		return fmt.Errorf("rustfmt: %w: %s", err, msg)
	}
	return fmt.Errorf("rustfmt: %w", err)
}
