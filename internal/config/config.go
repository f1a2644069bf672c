package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level fifotax.yaml configuration.
type Config struct {
	Reporting ReportingConfig `yaml:"reporting"`
	Sources   []SourceConfig  `yaml:"sources"`
	PriceFile string          `yaml:"price_file,omitempty"`
}

// ReportingConfig controls the output currency and file.
type ReportingConfig struct {
	Currency   string   `yaml:"currency"`
	FiatAssets []string `yaml:"fiat_assets,omitempty"`
	Output     string   `yaml:"output"`
	Delimiter  string   `yaml:"delimiter,omitempty"` // single character, default ","
}

// SourceConfig describes one transaction sheet to ingest.
type SourceConfig struct {
	Path     string `yaml:"path"`
	Sheet    string `yaml:"sheet,omitempty"`
	StartRow int    `yaml:"start_row,omitempty"`
	Format   string `yaml:"format,omitempty"` // inferred from the extension when empty
}

// Load reads a fifotax.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.Reporting.Currency == "" {
		return fmt.Errorf("config: reporting.currency is required")
	}
	if len(c.Reporting.Delimiter) > 1 {
		return fmt.Errorf("config: reporting.delimiter must be a single character, got %q", c.Reporting.Delimiter)
	}
	if len(c.Sources) == 0 {
		return fmt.Errorf("config: at least one source is required")
	}
	for i, s := range c.Sources {
		if s.Path == "" {
			return fmt.Errorf("config: sources[%d].path is required", i)
		}
	}
	return nil
}

// Delimiter returns the configured delimiter rune, ',' by default.
func (c *Config) Delimiter() rune {
	if c.Reporting.Delimiter == "" {
		return ','
	}
	return rune(c.Reporting.Delimiter[0])
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Reporting: ReportingConfig{
			Currency:   "EUR",
			FiatAssets: []string{"USD"},
			Output:     "fifo_report.csv",
			Delimiter:  ",",
		},
		Sources: []SourceConfig{
			{Path: "transactions.xlsx", Sheet: "Transactions", StartRow: 2},
		},
		PriceFile: "prices.yaml",
	}
}
