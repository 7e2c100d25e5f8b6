// Package config loads covertint settings from file, environment and flags.
package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/jmylchreest/covertint/internal/colour"
	"github.com/jmylchreest/covertint/internal/style"
)

const (
	// ConfigName is the config file base name looked up in $HOME and ".".
	ConfigName = ".covertint"

	// EnvPrefix prefixes environment overrides (e.g. COVERTINT_MODE).
	EnvPrefix = "COVERTINT"
)

// Config holds theming settings.
type Config struct {
	Enabled      bool          `mapstructure:"enabled"`
	Mode         string        `mapstructure:"mode"`
	LogLevel     string        `mapstructure:"log_level"`
	Output       string        `mapstructure:"output"`
	Format       string        `mapstructure:"format"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Enabled:  true,
		Mode:     "dark",
		LogLevel: "info",
		Format:   string(style.FormatCSS),
	}
}

// SetDefaults registers defaults on v so unset keys resolve.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("enabled", d.Enabled)
	v.SetDefault("mode", d.Mode)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("output", d.Output)
	v.SetDefault("format", d.Format)
	v.SetDefault("fetch_timeout", d.FetchTimeout)
}

// New creates a viper instance reading file (if set) or ~/.covertint.yaml /
// ./.covertint.yaml, with COVERTINT_* environment overrides.
func New(file string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return nil, fmt.Errorf("failed to find home directory: %w", err)
		}
		v.AddConfigPath(home)
		v.AddConfigPath(".")
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || file != "" {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return v, nil
}

// Decode unmarshals and validates the settings held by v.
func Decode(v *viper.Viper) (*Config, error) {
	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if _, err := colour.ParseMode(c.Mode); err != nil {
		return err
	}

	validLogLevels := []string{"trace", "debug", "info", "warn", "error", "off"}
	if !slices.Contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	if _, err := style.ParseFormat(c.Format); err != nil {
		return err
	}

	if c.FetchTimeout < 0 {
		return fmt.Errorf("fetch timeout cannot be negative: %s", c.FetchTimeout)
	}

	return nil
}

// ModeValue returns the parsed mode. Call after Validate.
func (c *Config) ModeValue() colour.Mode {
	m, _ := colour.ParseMode(c.Mode)
	return m
}

// Level returns the hclog level for LogLevel.
func (c *Config) Level() hclog.Level {
	return hclog.LevelFromString(c.LogLevel)
}

// OutputPath expands a leading ~ in Output.
func (c *Config) OutputPath() (string, error) {
	if c.Output == "" {
		return "", nil
	}
	p, err := homedir.Expand(c.Output)
	if err != nil {
		return "", fmt.Errorf("failed to expand output path: %w", err)
	}
	return filepath.Clean(p), nil
}
