package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.Enabled)
	assert.True(t, cfg.IndentAware)
	assert.True(t, cfg.DecorateHeader)
	assert.True(t, cfg.ShowDivider)
	assert.True(t, cfg.Fallback)
	assert.Equal(t, []string{"*.m"}, cfg.Exclude)
	assert.Equal(t, int64(1_000_000), cfg.Scan.MaxFileSize)
	assert.Contains(t, cfg.Scan.Extensions, ".c")
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
indentAware: false
exclude:
  - "*.m"
  - "vendor/"
scan:
  maxFileSize: 2048
`)
	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.False(t, cfg.IndentAware)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, []string{"*.m", "vendor/"}, cfg.Exclude)
	assert.Equal(t, int64(2048), cfg.Scan.MaxFileSize)
	assert.Equal(t, DefaultExtensions, cfg.Scan.Extensions)
}

func TestLoadInvalidFileFallsBack(t *testing.T) {
	path := writeFile(t, "enabled: [unclosed\n")
	cfg, err := Load(path, nil)
	require.Error(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SECTIONFOLD_INDENTAWARE", "false")
	t.Setenv("SECTIONFOLD_SCAN_MAXFILESIZE", "10")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.False(t, cfg.IndentAware)
	assert.Equal(t, int64(10), cfg.Scan.MaxFileSize)
}

func TestLoadFlagsOverrideFile(t *testing.T) {
	path := writeFile(t, "indentAware: true\n")
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Bool("indent-aware", true, "")
	flags.Int64("max-file-size", 0, "")
	require.NoError(t, flags.Parse([]string{"--indent-aware=false"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)
	assert.False(t, cfg.IndentAware)
	assert.Equal(t, int64(1_000_000), cfg.Scan.MaxFileSize, "unset flag must not override default")
}

func TestFromSettings(t *testing.T) {
	t.Parallel()

	base := Default()
	cfg, err := FromSettings(base, map[string]any{
		"indentAware": false,
		"exclude":     []any{"*.txt"},
		"unknown":     42,
	})
	require.NoError(t, err)
	assert.False(t, cfg.IndentAware)
	assert.Equal(t, []string{"*.txt"}, cfg.Exclude)
	assert.True(t, cfg.ShowDivider)
}

func TestFromSettingsBadType(t *testing.T) {
	t.Parallel()

	base := Default()
	base.ShowDivider = false
	cfg, err := FromSettings(base, map[string]any{"enabled": "maybe"})
	require.Error(t, err)
	assert.Equal(t, base, cfg)
}
