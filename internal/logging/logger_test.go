package logging_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/maudfmt/internal/logging"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level string
		want  log.Level
	}{
		{level: "debug", want: log.DebugLevel},
		{level: "info", want: log.InfoLevel},
		{level: "warn", want: log.WarnLevel},
		{level: "warning", want: log.WarnLevel},
		{level: "error", want: log.ErrorLevel},
		{level: " DEBUG ", want: log.DebugLevel},
		{level: "Info", want: log.InfoLevel},
		{level: "verbose", want: log.InfoLevel},
		{level: "", want: log.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, logging.ParseLevel(tt.level))
			assert.Equal(t, tt.want, logging.New(tt.level).GetLevel())
		})
	}
}

func TestNewWithWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "warn")
	require.NotNil(t, logger)

	logger.Info("hidden")
	logger.Warn("template parse failed", logging.FieldMacro, "html")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "template parse failed")
	assert.Contains(t, out, "macro=html")
}

func TestForFileAndInvocation(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := logging.NewWithWriter(&buf, "info")

	assert.Same(t, base, logging.ForFile(base, ""))

	fileLog := logging.ForFile(base, "src/main.rs")
	logging.ForInvocation(fileLog, "maud::html", 12).Info("formatted")

	out := buf.String()
	assert.Contains(t, out, "path=src/main.rs")
	assert.Contains(t, out, "macro=maud::html")
	assert.Contains(t, out, "line=12")
}

func TestContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := logging.NewWithWriter(&buf, "info")

	assert.Same(t, logging.Default(), logging.FromContext(context.Background()))

	ctx := logging.WithLogger(context.Background(), base)
	assert.Same(t, base, logging.FromContext(ctx))

	ctx = logging.WithFields(ctx, logging.FieldPath, "<stdin>")
	logging.FromContext(ctx).Info("read input")
	assert.Contains(t, buf.String(), "path=<stdin>")
}

// The default logger is process state, so these two run serially.

func TestSetDefault(t *testing.T) {
	original := logging.Default()
	defer logging.SetDefault(original)

	replacement := logging.New("error")
	logging.SetDefault(replacement)
	assert.Same(t, replacement, logging.Default())
}

func TestSetLevel(t *testing.T) {
	original := logging.Default()
	defer logging.SetDefault(original)

	logging.SetDefault(logging.New("info"))

	logging.SetLevel("debug")
	assert.Equal(t, log.DebugLevel, logging.Default().GetLevel())

	logging.SetLevel("error")
	assert.Equal(t, log.ErrorLevel, logging.Default().GetLevel())
}
