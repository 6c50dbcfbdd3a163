package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMatchesAnalysisConstants(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "online_retail_2.xlsx", cfg.Input.Path)
	assert.Equal(t, "recommendation.xlsx", cfg.Output.Path)
	assert.Equal(t, 0.022, cfg.Mining.MinSupport)
	assert.Equal(t, 3, cfg.Mining.ItemsetSize)
	assert.Equal(t, 10, cfg.Mining.TopN)
	assert.Equal(t, int64(1000), cfg.Filter.MinQuantity)
	require.NoError(t, cfg.Validate())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
input:
  path: sales.xlsx
  sheet: Year 2010-2011
mining:
  min_support: 0.05
  top_n: 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sales.xlsx", cfg.Input.Path)
	assert.Equal(t, "Year 2010-2011", cfg.Input.Sheet)
	assert.Equal(t, 0.05, cfg.Mining.MinSupport)
	assert.Equal(t, 5, cfg.Mining.TopN)
	// Untouched keys keep their defaults.
	assert.Equal(t, 3, cfg.Mining.ItemsetSize)
	assert.Equal(t, "Invoice", cfg.Input.InvoiceColumn)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mining:\n  min_support: 0.05\n"), 0644))

	t.Setenv("BASKETMINER_MINING_MIN_SUPPORT", "0.1")
	t.Setenv("BASKETMINER_OUTPUT_PATH", "out.xlsx")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.1, cfg.Mining.MinSupport)
	assert.Equal(t, "out.xlsx", cfg.Output.Path)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mining: [unterminated"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero support", func(c *Config) { c.Mining.MinSupport = 0 }, "MinSupport"},
		{"support above one", func(c *Config) { c.Mining.MinSupport = 1.5 }, "MinSupport"},
		{"zero itemset size", func(c *Config) { c.Mining.ItemsetSize = 0 }, "ItemsetSize"},
		{"zero top", func(c *Config) { c.Mining.TopN = 0 }, "TopN"},
		{"negative quantity", func(c *Config) { c.Filter.MinQuantity = -1 }, "MinQuantity"},
		{"empty input", func(c *Config) { c.Input.Path = "" }, "Input.Path"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "Level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	cfg.Output.SQLitePath = "patterns.db"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
