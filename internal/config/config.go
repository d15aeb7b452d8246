// Package config handles configuration loading for QuantSignal.
// It supports YAML config files with environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment overrides, e.g.
// QUANTSIGNAL_SIGNALS_SENSITIVITY=0.4.
const EnvPrefix = "QUANTSIGNAL"

// Sensitivity slider bounds.
const (
	MinSensitivity = 0.1
	MaxSensitivity = 1.0
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config represents the complete application configuration.
type Config struct {
	Signals SignalsConfig `mapstructure:"signals" yaml:"signals" json:"signals"`
	API     APIConfig     `mapstructure:"api"     yaml:"api"     json:"api"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging" json:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics" json:"metrics"`

	// File is the config file that was read, empty when running on
	// defaults and environment only.
	File string `mapstructure:"-" yaml:"-" json:"-"`
}

// SignalsConfig holds the signal generator settings.
type SignalsConfig struct {
	Universe    []string `mapstructure:"universe"    yaml:"universe"    json:"universe"`
	Mean        float64  `mapstructure:"mean"        yaml:"mean"        json:"mean"`
	Sensitivity float64  `mapstructure:"sensitivity" yaml:"sensitivity" json:"sensitivity"` // sampling spread, slider default
	Seed        uint64   `mapstructure:"seed"        yaml:"seed"        json:"seed"`        // 0 = unseeded
}

// APIConfig holds HTTP server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"         json:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"         json:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins" json:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"  json:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format" json:"format"` // "text" or "json"
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
}

// Addr returns the host:port the HTTP server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.API.Host, c.API.Port)
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.quantsignal/config.yaml (home directory)
//  3. /etc/quantsignal/config.yaml (system)
//
// Environment variables override config file values.
// Format: QUANTSIGNAL_<SECTION>_<KEY>, e.g., QUANTSIGNAL_API_PORT
func Load() (*Config, error) {
	v := newViper()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".quantsignal"))
	v.AddConfigPath("/etc/quantsignal")

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return decode(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	return decode(v)
}

// Default returns the built-in defaults without reading files or env.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// SaveToFile writes cfg as YAML, creating parent directories.
func SaveToFile(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// Validate checks value ranges. All failures wrap ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error

	s := c.Signals.Sensitivity
	if s < MinSensitivity || s > MaxSensitivity {
		errs = append(errs, fmt.Errorf("signals.sensitivity %v not in [%.1f, %.1f]", s, MinSensitivity, MaxSensitivity))
	}
	seen := make(map[string]bool, len(c.Signals.Universe))
	for _, name := range c.Signals.Universe {
		name = strings.TrimSpace(name)
		if name == "" {
			errs = append(errs, errors.New("signals.universe contains an empty name"))
			continue
		}
		if seen[name] {
			errs = append(errs, fmt.Errorf("signals.universe lists %q twice", name))
		}
		seen[name] = true
	}
	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, fmt.Errorf("api.port %d out of range", c.API.Port))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q unknown", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q unknown", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	for i, name := range cfg.Signals.Universe {
		cfg.Signals.Universe[i] = strings.TrimSpace(name)
	}
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Signal generator defaults
	v.SetDefault("signals.universe", []string{"Apple", "Microsoft", "NVIDIA", "Amazon", "Alphabet"})
	v.SetDefault("signals.mean", 0.1)
	v.SetDefault("signals.sensitivity", 0.6)
	v.SetDefault("signals.seed", 0)

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8501)
	v.SetDefault("api.cors_origins", []string{})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
