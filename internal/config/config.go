package config

import (
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"holdem-server/internal/util"
)

// Config provides configuration for the Hold'em server
type Config struct {
	loaded   bool
	Database Database `yaml:"database"`
	Table    Table    `yaml:"table"`
	Log      Log      `yaml:"log"`
}

// Database configures where balances are stored
// An empty driver keeps balances in memory.
type Database struct {
	Driver         string `yaml:"driver" envconfig:"driver"`
	DSN            string `yaml:"dsn" envconfig:"dsn"`
	MigrationsPath string `yaml:"migrationsPath" envconfig:"migrations_path"`
}

// Table configures the table
type Table struct {
	Name         string `yaml:"name" envconfig:"name"`
	DefaultStake int    `yaml:"defaultStake" envconfig:"default_stake"`
	AutoRestart  bool   `yaml:"autoRestart" envconfig:"auto_restart"`

	// TurnTimeout is in seconds, zero disables the turn timer
	TurnTimeout int `yaml:"turnTimeout" envconfig:"turn_timeout"`

	// BalanceTimeout is in milliseconds
	BalanceTimeout int `yaml:"balanceTimeout" envconfig:"balance_timeout"`
}

// Log configures logging
type Log struct {
	Level             string `yaml:"level" envconfig:"level"`
	DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
}

// TurnTimeoutDuration returns the turn timeout as a duration
func (t Table) TurnTimeoutDuration() time.Duration {
	return time.Duration(t.TurnTimeout) * time.Second
}

// BalanceTimeoutDuration returns the balance timeout as a duration
func (t Table) BalanceTimeoutDuration() time.Duration {
	return time.Duration(t.BalanceTimeout) * time.Millisecond
}

// DefaultConfig returns the configuration used when nothing is set
func DefaultConfig() Config {
	return Config{
		Database: Database{
			MigrationsPath: "sql",
		},
		Table: Table{
			Name:           "main",
			DefaultStake:   1000,
			AutoRestart:    true,
			BalanceTimeout: 5000,
		},
		Log: Log{
			Level: "info",
		},
	}
}

var config Config

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
// Values come from the defaults, then the config file, then HOLDEM_ environment variables.
// A missing config file is not an error.
func Load() error {
	cfg := DefaultConfig()

	configFile := util.Getenv("HOLDEM_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	if err == nil {
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
			return err
		}
	}

	if err := envconfig.Process("holdem", &cfg); err != nil {
		return err
	}

	cfg.loaded = true
	config = cfg
	return nil
}
