package configloader_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/maudfmt/internal/configloader"
	"github.com/yaklabco/maudfmt/pkg/config"
)

func isolated(dir string) configloader.LoadOptions {
	return configloader.LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))

	res, err := configloader.Load(context.Background(), isolated(dir))
	require.NoError(t, err)

	assert.Equal(t, config.NewConfig(), res.Config)
	assert.Empty(t, res.LoadedFrom)
	assert.Empty(t, res.Warnings)
}

func TestLoad_ProjectConfigFoundUpward(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	writeFile(t, filepath.Join(root, ".maudfmt.yml"), "line_length: 80\nmacro_names: [page]\nmarkdown: true\n")

	sub := filepath.Join(root, "crates", "web")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	res, err := configloader.Load(context.Background(), isolated(sub))
	require.NoError(t, err)

	assert.Equal(t, 80, res.Config.LineLength)
	assert.Equal(t, []string{"page"}, res.Config.MacroNames)
	assert.True(t, res.Config.Markdown)
	assert.Equal(t, []string{filepath.Join(root, ".maudfmt.yml")}, res.LoadedFrom)
}

func TestLoad_StopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	outer := t.TempDir()
	writeFile(t, filepath.Join(outer, ".maudfmt.yml"), "line_length: 60\n")

	repo := filepath.Join(outer, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))

	res, err := configloader.Load(context.Background(), isolated(repo))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultLineLength, res.Config.LineLength)
}

func TestLoad_ExplicitReplacesProject(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	writeFile(t, filepath.Join(dir, ".maudfmt.yml"), "line_length: 60\n")
	explicit := filepath.Join(dir, "ci.yaml")
	writeFile(t, explicit, "ignore: [\"generated/**\"]\n")

	opts := isolated(dir)
	opts.ExplicitPath = explicit

	res, err := configloader.Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, config.DefaultLineLength, res.Config.LineLength)
	assert.Equal(t, []string{"generated/**"}, res.Config.Ignore)
	assert.Equal(t, explicit, res.Paths.Explicit)
	assert.Equal(t, []string{explicit}, res.LoadedFrom)
}

func TestLoad_CLIOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	writeFile(t, filepath.Join(dir, ".maudfmt.yml"), "line_length: 60\n")

	opts := isolated(dir)
	opts.CLIConfig = &config.Config{LineLength: 120, Check: true, Jobs: 2}

	res, err := configloader.Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 120, res.Config.LineLength)
	assert.True(t, res.Config.Check)
	assert.Equal(t, 2, res.Config.Jobs)
	assert.Equal(t, []string{"maud::html", "html"}, res.Config.MacroNames)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		field   string
	}{
		{name: "unknown key", content: "line_lenght: 80\n"},
		{name: "bad line length", content: "line_length: -1\n", field: "line_length"},
		{name: "bad macro name", content: "macro_names: [\"html!\"]\n", field: "macro_names[0]"},
		{name: "bad backup mode", content: "backups:\n  mode: copy\n", field: "backups.mode"},
		{name: "bad ignore glob", content: "ignore: [\"[a\"]\n", field: "ignore[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
			path := filepath.Join(dir, ".maudfmt.yml")
			writeFile(t, path, tt.content)

			_, err := configloader.Load(context.Background(), isolated(dir))
			require.Error(t, err)

			var verr *configloader.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, path, verr.FilePath)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestLoad_Environment(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))

	t.Setenv("MAUDFMT_LINE_LENGTH", "72")
	t.Setenv("MAUDFMT_MACRO_NAMES", "maud::html, page ")
	t.Setenv("MAUDFMT_MARKDOWN", "1")

	opts := isolated(dir)
	opts.IgnoreEnv = false
	opts.CLIConfig = &config.Config{LineLength: 90}

	res, err := configloader.Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 90, res.Config.LineLength, "flags beat the environment")
	assert.Equal(t, []string{"maud::html", "page"}, res.Config.MacroNames)
	assert.True(t, res.Config.Markdown)
}

func TestLoad_EnvironmentInvalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))

	t.Setenv("MAUDFMT_JOBS", "many")

	opts := isolated(dir)
	opts.IgnoreEnv = false

	_, err := configloader.Load(context.Background(), opts)
	require.ErrorContains(t, err, "MAUDFMT_JOBS")
}

func TestValidate_Warnings(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.MacroNames = []string{"html", "::html"}
	cfg.Check = true
	cfg.Backups.Enabled = true

	res := configloader.Validate(cfg)
	assert.True(t, res.Valid())
	assert.True(t, res.HasWarnings())
	assert.Len(t, res.AllMessages(), 2)

	cfg.MacroNames = nil
	assert.False(t, configloader.Validate(cfg).Valid())
}

func TestListEnvVars(t *testing.T) {
	t.Parallel()

	vars := configloader.ListEnvVars()
	require.NotEmpty(t, vars)
	assert.Equal(t, "MAUDFMT_BACKUPS_ENABLED", vars[0].Name)
	assert.Equal(t, "MAUDFMT_LINE_LENGTH", configloader.GetEnvVarName("line_length"))
	assert.Empty(t, configloader.GetEnvVarName("nope"))
}

func TestWriteTemplate(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".maudfmt.yml")
	require.NoError(t, configloader.WriteTemplate(path, config.TemplateOptions{}, false))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	cfg, err := config.FromYAML(content)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultLineLength, cfg.LineLength)

	err = configloader.WriteTemplate(path, config.TemplateOptions{}, false)
	require.ErrorIs(t, err, configloader.ErrConfigExists)
	require.NoError(t, configloader.WriteTemplate(path, config.TemplateOptions{Full: true}, true))
}
