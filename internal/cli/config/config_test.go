package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadConfigDefaults(t *testing.T) {
	ResetConfig()
	chdir(t, t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, "en", cfg.Language)
	assert.Equal(t, DefaultStateFile, cfg.StatePath)
	assert.Equal(t, "auto", cfg.OutputFormat)
	assert.Equal(t, "light", cfg.Theme)
	assert.Equal(t, 14, cfg.FontSize)
	assert.Equal(t, "table", cfg.Settings.ChartType)
	assert.Equal(t, 1000, cfg.Settings.MaxResults)
	assert.True(t, cfg.Settings.EnableSuggestions)
	assert.Empty(t, GetConfigFileUsed())
}

func TestLoadConfigFromFile(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	content := `
base_url: http://localhost:3001/api
language: de
theme: dark
settings:
  chart_type: bar
  max_results: 500
ui:
  port: 9000
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nlq.yaml"), []byte(content), 0o644))
	chdir(t, dir)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3001/api", cfg.BaseURL)
	assert.Equal(t, "de", cfg.Language)
	assert.Equal(t, "dark", cfg.Theme)
	assert.Equal(t, "bar", cfg.Settings.ChartType)
	assert.Equal(t, 500, cfg.Settings.MaxResults)
	require.NotNil(t, cfg.UI)
	assert.Equal(t, 9000, cfg.GetUIConfig().Port)
	assert.Equal(t, "nlq.yaml", GetConfigFileUsed())
	// Unset fields keep defaults.
	assert.Equal(t, 14, cfg.FontSize)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nlq.yaml"), []byte("language: de\n"), 0o644))
	chdir(t, dir)

	t.Setenv("NLQ_LANGUAGE", "fr")
	t.Setenv("NLQ_SETTINGS__CHART_TYPE", "pie")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "fr", cfg.Language)
	assert.Equal(t, "pie", cfg.Settings.ChartType)
}

func TestLoadConfigFlagsOverrideEnv(t *testing.T) {
	ResetConfig()
	chdir(t, t.TempDir())
	t.Setenv("NLQ_LANGUAGE", "fr")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("language", "", "")
	flags.String("state", "", "")
	require.NoError(t, flags.Parse([]string{"--language", "es", "--state", "custom/state.db"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, "es", cfg.Language)
	assert.Equal(t, "custom/state.db", cfg.StatePath)
}

func TestLoadConfigExplicitFile(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: dark\n"), 0o644))

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "dark", cfg.Theme)
	assert.Equal(t, path, GetConfigFileUsed())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		errSubstr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad output", func(c *Config) { c.OutputFormat = "xml" }, "invalid output format"},
		{"bad chart type", func(c *Config) { c.Settings.ChartType = "scatter" }, "invalid chart type"},
		{"max results too low", func(c *Config) { c.Settings.MaxResults = 0 }, "max_results"},
		{"max results too high", func(c *Config) { c.Settings.MaxResults = 20000 }, "max_results"},
		{"font size out of range", func(c *Config) { c.FontSize = 4 }, "font_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				OutputFormat: "auto",
				FontSize:     14,
				Settings:     DefaultSettingsConfig(),
			}
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.errSubstr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errSubstr)
			}
		})
	}
}
