package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the server looks for its YAML configuration
const DefaultPath = "configs/config.yaml"

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port            string `yaml:"port" env:"SERVER_PORT"`
		Mode            string `yaml:"mode" env:"SERVER_MODE"`
		ReadTimeout     string `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout    string `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
		ShutdownTimeout string `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
	} `yaml:"server"`

	Session struct {
		Secret          string `yaml:"secret" env:"SESSION_SECRET"`
		TTL             string `yaml:"ttl" env:"SESSION_TTL"`
		CookieName      string `yaml:"cookie_name" env:"SESSION_COOKIE_NAME"`
		CookieSecure    bool   `yaml:"cookie_secure" env:"SESSION_COOKIE_SECURE"`
		CleanupInterval string `yaml:"cleanup_interval" env:"SESSION_CLEANUP_INTERVAL"`
		Issuer          string `yaml:"issuer" env:"SESSION_ISSUER"`
	} `yaml:"session"`

	Form struct {
		Years []string `yaml:"years" env:"FORM_YEARS"`
	} `yaml:"form"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// The file is optional; defaults and env cover a bare run.
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.ReadTimeout = "10s"
	config.Server.WriteTimeout = "10s"
	config.Server.ShutdownTimeout = "10s"

	config.Session.TTL = "30m"
	config.Session.CookieName = "regwizard_session"
	config.Session.CleanupInterval = "1m"
	config.Session.Issuer = "regwizard"

	config.Form.Years = []string{"2013", "2014", "2015"}

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if strings.TrimSpace(config.Server.Port) == "" {
		return fmt.Errorf("server port is required")
	}

	if config.Session.Secret == "" {
		return fmt.Errorf("session secret is required")
	}

	if config.Session.CookieName == "" {
		return fmt.Errorf("session cookie name is required")
	}

	if len(config.Form.Years) == 0 {
		return fmt.Errorf("at least one form year is required")
	}

	durations := map[string]string{
		"server read timeout":      config.Server.ReadTimeout,
		"server write timeout":     config.Server.WriteTimeout,
		"server shutdown timeout":  config.Server.ShutdownTimeout,
		"session ttl":              config.Session.TTL,
		"session cleanup interval": config.Session.CleanupInterval,
	}
	for name, value := range durations {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}

	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return strings.ToLower(c.Server.Mode) == "production"
}
