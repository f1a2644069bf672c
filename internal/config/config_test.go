package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fifotax.yaml")
	cfg := Default()
	cfg.Reporting.Currency = "USD"
	cfg.Sources = append(cfg.Sources, SourceConfig{Path: "extra.csv", Format: "csv"})

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fifotax.yaml")
	require.NoError(t, os.WriteFile(path, []byte("reporting: ["), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"default is valid", func(c *Config) {}, ""},
		{"missing currency", func(c *Config) { c.Reporting.Currency = "" }, "currency"},
		{"long delimiter", func(c *Config) { c.Reporting.Delimiter = ";;" }, "delimiter"},
		{"no sources", func(c *Config) { c.Sources = nil }, "source"},
		{"source without path", func(c *Config) { c.Sources[0].Path = "" }, "path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDelimiter(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, ',', cfg.Delimiter())

	cfg.Reporting.Delimiter = ";"
	assert.Equal(t, ';', cfg.Delimiter())
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "EUR", cfg.Reporting.Currency)
	assert.Equal(t, "fifo_report.csv", cfg.Reporting.Output)
	assert.Equal(t, "prices.yaml", cfg.PriceFile)
}
