package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the full checker configuration. Built once per run from
// defaults, an optional JSON config file and CLI flags, then immutable.
type Config struct {
	Tables    []string `mapstructure:"tables" yaml:"tables"`
	MinTables int      `mapstructure:"min_tables" yaml:"min_tables"`
	App       string   `mapstructure:"app" yaml:"app,omitempty"`
	Verbose   bool     `mapstructure:"verbose" yaml:"verbose"`
	Strict    bool     `mapstructure:"strict" yaml:"strict"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Tables:    []string{"users", "orders", "payments", "audit_logs", "logs"},
		MinTables: 2,
		Strict:    true,
	}
}

// LoadFile reads a JSON config file over the defaults. Any read or parse
// error is fatal to the run; keys absent from the file keep their default.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("loading config %q: %w", path, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %q: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations the checker cannot evaluate.
func (c Config) Validate() error {
	if c.MinTables < 1 {
		return fmt.Errorf("min_tables must be at least 1, got %d", c.MinTables)
	}
	if len(c.Tables) == 0 {
		return fmt.Errorf("tables watchlist is empty")
	}
	return nil
}
