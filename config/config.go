package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aqua-quant/aqua/internal/logging"
	"github.com/aqua-quant/aqua/risk"
	"github.com/aqua-quant/aqua/strategy"
)

// Config is the file configuration of the aqua CLI.
type Config struct {
	Account AccountConfig `json:"account" yaml:"account"`
	Risk    risk.Config   `json:"risk" yaml:"risk"`
	Data    DataConfig    `json:"data" yaml:"data"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// AccountConfig names the simulated account. InitialCapital, when set,
// overrides risk.initial_capital.
type AccountConfig struct {
	ID             string  `json:"id" yaml:"id"`
	InitialCapital float64 `json:"initial_capital" yaml:"initial_capital"`
}

// DataConfig locates the price series. When Strategy is set the series'
// signals are generated by that strategy instead of read from the file.
type DataConfig struct {
	Path     string          `json:"path" yaml:"path"`
	Format   string          `json:"format,omitempty" yaml:"format,omitempty"` // csv, parquet or "" (by extension)
	Strategy string          `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	Params   strategy.Params `json:"params" yaml:"params"`
}

// JournalConfig selects where runs are stored and which reports are written.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "none", "sqlite" or "csv"
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	OrgPath    string `json:"org_path,omitempty" yaml:"org_path,omitempty"`
	EquityPNG  string `json:"equity_png,omitempty" yaml:"equity_png,omitempty"`
}

type LoggingConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"` // json or text
}

// LoadFromFile reads a YAML or JSON config over the defaults and validates
// it.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg = Default()
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", jerr)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile writes YAML for .yaml/.yml paths and indented JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// RiskConfig returns the engine configuration with the account's capital
// applied.
func (c *Config) RiskConfig() risk.Config {
	rc := c.Risk
	if c.Account.InitialCapital > 0 {
		rc.InitialCapital = c.Account.InitialCapital
	}
	return rc
}

// Validate checks every section.
func (c *Config) Validate() error {
	if c.Account.InitialCapital < 0 {
		return fmt.Errorf("account.initial_capital must not be negative")
	}
	if err := c.RiskConfig().Validate(); err != nil {
		return err
	}

	switch c.Data.Format {
	case "", "csv", "parquet":
	default:
		return fmt.Errorf("data.format must be 'csv' or 'parquet'")
	}
	if c.Data.Strategy != "" {
		if _, err := strategy.ByName(c.Data.Strategy, c.Data.Params); err != nil {
			return fmt.Errorf("data.strategy: %w", err)
		}
	}

	switch c.Journal.Type {
	case "", "none":
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal trades_file and equity_file required for CSV type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}

	if c.Logging.Level != "" {
		if _, ok := logging.ParseLevel(c.Logging.Level); !ok {
			return fmt.Errorf("logging.level must be debug, info, warn or error")
		}
	}
	switch c.Logging.Format {
	case "", "json", "text":
	default:
		return fmt.Errorf("logging.format must be 'json' or 'text'")
	}
	return nil
}

// Default returns the configuration `aqua config init` writes.
func Default() *Config {
	rc := risk.DefaultConfig()
	return &Config{
		Account: AccountConfig{
			ID:             "BT-001",
			InitialCapital: rc.InitialCapital,
		},
		Risk: rc,
		Data: DataConfig{
			Format: "csv",
			Params: strategy.DefaultParams(),
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./aqua.sqlite",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
