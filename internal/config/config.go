package config

import (
	"fmt"
	"os"

	"github.com/jchantrell/lgres/internal/cache"
	"github.com/spf13/viper"
)

type Config struct {
	Database  string   `mapstructure:"database"`
	Output    string   `mapstructure:"output"`
	Types     []string `mapstructure:"types"`
	Compress  bool     `mapstructure:"compress"`
	LogLevel  string   `mapstructure:"log_level"`
	LogFormat string   `mapstructure:"log_format"`
}

// Load initializes and loads configuration from file
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("database", cache.CacheManager().GetDatabasePath())
	v.SetDefault("output", "extracted")
	v.SetDefault("types", []string{})
	v.SetDefault("compress", false)
	v.SetDefault("log_level", LogLevelInfo)
	v.SetDefault("log_format", LogFormatText)

	// Config file handling
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		v.AddConfigPath(home)
		v.AddConfigPath(".")
		v.SetConfigName("lgres")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("LGRES")
	v.AutomaticEnv()

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values that may also have been overridden from flags
func (c *Config) Validate() error {
	if err := validateTypeNames(c.Types); err != nil {
		return fmt.Errorf("invalid type configuration: %w", err)
	}

	if err := validateLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid logging configuration: %w", err)
	}

	if err := validateLogFormat(c.LogFormat); err != nil {
		return fmt.Errorf("invalid logging configuration: %w", err)
	}

	return nil
}
