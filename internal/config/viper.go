// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable override, e.g.
// SMARTEXPENSE_STORE_DRIVER.
const EnvPrefix = "SMARTEXPENSE"

// Store drivers.
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Store struct {
		Driver string `mapstructure:"driver" yaml:"driver"`
		Path   string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"store" yaml:"store"`

	Categorization struct {
		HistoryLimit        int     `mapstructure:"history_limit" yaml:"history_limit"`
		AutoAcceptThreshold float64 `mapstructure:"auto_accept_threshold" yaml:"auto_accept_threshold"`
		DefaultsFile        string  `mapstructure:"defaults_file" yaml:"defaults_file"`
	} `mapstructure:"categorization" yaml:"categorization"`

	Parser struct {
		SmallQuantityThreshold int64 `mapstructure:"small_quantity_threshold" yaml:"small_quantity_threshold"`
	} `mapstructure:"parser" yaml:"parser"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Report struct {
		Timezone string `mapstructure:"timezone" yaml:"timezone"`
	} `mapstructure:"report" yaml:"report"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return Load("")
}

// Load reads configuration from defaults, the config file and the
// environment, in increasing order of precedence. An empty configFile
// searches $HOME/.smartexpense, .smartexpense and the working directory for
// config.yaml.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.smartexpense")
		v.AddConfigPath(".smartexpense")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration with every default applied.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	_ = v.Unmarshal(&config)
	return &config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("store.driver", DriverSQLite)
	v.SetDefault("store.path", "smartexpense.db")

	v.SetDefault("categorization.history_limit", 100)
	v.SetDefault("categorization.auto_accept_threshold", 0.8)
	v.SetDefault("categorization.defaults_file", "")

	v.SetDefault("parser.small_quantity_threshold", 20)

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("report.timezone", "America/Argentina/Buenos_Aires")
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	switch config.Store.Driver {
	case DriverSQLite:
		if config.Store.Path == "" {
			return fmt.Errorf("store.path is required for the sqlite driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("invalid store driver: %s (must be '%s' or '%s')", config.Store.Driver, DriverSQLite, DriverMemory)
	}

	if config.Categorization.HistoryLimit < 1 || config.Categorization.HistoryLimit > 1000 {
		return fmt.Errorf("categorization.history_limit must be between 1 and 1000, got: %d", config.Categorization.HistoryLimit)
	}

	if config.Categorization.AutoAcceptThreshold < 0.0 || config.Categorization.AutoAcceptThreshold > 1.0 {
		return fmt.Errorf("categorization.auto_accept_threshold must be between 0.0 and 1.0, got: %f", config.Categorization.AutoAcceptThreshold)
	}

	if config.Parser.SmallQuantityThreshold < 0 {
		return fmt.Errorf("parser.small_quantity_threshold must not be negative, got: %d", config.Parser.SmallQuantityThreshold)
	}

	if len(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if _, err := time.LoadLocation(config.Report.Timezone); err != nil {
		return fmt.Errorf("invalid report.timezone %q: %w", config.Report.Timezone, err)
	}

	return nil
}

// Location returns the configured report time zone, or UTC if it cannot be
// loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Report.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
