// Package config loads service configuration from an optional YAML file,
// applies environment overrides, then fills remaining zero values with
// defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Default configuration values.
const (
	defaultServiceName    = "scamwatch"
	defaultServiceVersion = "1.0.0"
	defaultServicePort    = 8080
	defaultLogLevel       = "info"
	defaultDBPath         = "scamwatch.db"
	defaultFallbackModel  = "gpt-4o-mini"
	defaultFallbackRPS    = 10
	defaultFallbackBurst  = 20
	defaultTimeoutSec     = 5
)

// Config holds all configuration for the service.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Logging  LoggingConfig  `yaml:"logging"`
	Fallback FallbackConfig `yaml:"fallback"`
	Database DatabaseConfig `yaml:"database"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `yaml:"port"`
	Debug   bool   `yaml:"debug"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// FallbackConfig holds LLM fallback gateway configuration.
type FallbackConfig struct {
	Enabled     bool          `yaml:"enabled"`
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	Model       string        `yaml:"model"`
	Timeout     time.Duration `yaml:"timeout"`
	RPS         int           `yaml:"rps"`
	Burst       int           `yaml:"burst"`
	Temperature float64       `yaml:"temperature"`
}

// DatabaseConfig holds the audit database configuration.
type DatabaseConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load loads configuration from the given path. A missing file is not an
// error; environment overrides and defaults still apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// fall through to env and defaults
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	setDefaults(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SCAMWATCH_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Service.Port = port
		}
	}
	if v := os.Getenv("APP_DEBUG"); v != "" {
		cfg.Service.Debug = v == "true" || v == "1"
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Fallback.APIKey = v
		cfg.Fallback.Enabled = true
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.Fallback.BaseURL = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.Fallback.Model = v
	}
	if v := os.Getenv("SCAMWATCH_DB_PATH"); v != "" {
		cfg.Database.Path = v
		cfg.Database.Enabled = true
	}
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setLoggingDefaults(&cfg.Logging)
	setFallbackDefaults(&cfg.Fallback)
	setDatabaseDefaults(&cfg.Database)
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
	if s.Port == 0 {
		s.Port = defaultServicePort
	}
}

func setLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = defaultLogLevel
	}
}

func setFallbackDefaults(f *FallbackConfig) {
	if f.Model == "" {
		f.Model = defaultFallbackModel
	}
	if f.Timeout == 0 {
		f.Timeout = defaultTimeoutSec * time.Second
	}
	if f.RPS == 0 {
		f.RPS = defaultFallbackRPS
	}
	if f.Burst == 0 {
		f.Burst = defaultFallbackBurst
	}
}

func setDatabaseDefaults(d *DatabaseConfig) {
	if d.Path == "" {
		d.Path = defaultDBPath
	}
}
