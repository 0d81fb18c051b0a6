// Package config provides configuration loading for ha-llm-tools.
// Configuration is resolved in order: defaults → YAML file → .env file →
// ENV vars → CLI flags; an explicit setting always wins over the environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var loadEnvOnce sync.Once

// loadDotEnv loads a .env file if one exists (does not override existing env
// vars). It is called once before loading configuration.
func loadDotEnv() {
	loadEnvOnce.Do(func() {
		for _, f := range []string{".env", "configs/.env"} {
			if _, err := os.Stat(f); err == nil {
				_ = godotenv.Load(f)
				return
			}
		}
	})
}

// MissingFieldError indicates mandatory configuration is absent after
// resolution. It is returned before any network call is attempted.
type MissingFieldError struct {
	Field string
	Hint  string
}

func (e *MissingFieldError) Error() string {
	if e.Hint == "" {
		return fmt.Sprintf("%s is required", e.Field)
	}
	return fmt.Sprintf("%s is required (%s)", e.Field, e.Hint)
}

// Config holds all configuration for ha-llm-tools.
type Config struct {
	HomeAssistant HomeAssistantConfig `mapstructure:"homeassistant"`
	Server        ServerConfig        `mapstructure:"server"`
	Logging       LoggingConfig       `mapstructure:"logging"`
}

// HomeAssistantConfig holds Home Assistant connection and feature settings.
type HomeAssistantConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
	// AlarmCode is appended to alarm arm/disarm service calls when set.
	AlarmCode string `mapstructure:"alarm_code"`
	// PrinterNotifyService is the notify service used by send_to_printer.
	PrinterNotifyService string `mapstructure:"printer_notify_service"`
	// CacheTTL is the maximum age of a cached entity list.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	// Timeout bounds every HTTP request.
	Timeout time.Duration `mapstructure:"timeout"`
	// Watch enables the WebSocket cache watcher.
	Watch bool `mapstructure:"watch"`
}

// ServerConfig holds tool server settings.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// mustBindEnv binds environment variables to a config key, panicking on
// error. viper.BindEnv only fails on an empty key, which is a programming
// error.
func mustBindEnv(v *viper.Viper, key string, envVars ...string) {
	if err := v.BindEnv(append([]string{key}, envVars...)...); err != nil {
		panic(fmt.Sprintf("failed to bind env var for key %s: %v", key, err))
	}
}

// newViper builds a viper instance with defaults, optional config file, and
// env var bindings applied.
func newViper(configFile string) (*viper.Viper, error) {
	return configureViper(viper.New(), configFile)
}

// configureViper applies defaults, optional config file, and env var
// bindings to an existing viper instance (which may already carry bound CLI
// flags; those take precedence over the environment).
func configureViper(v *viper.Viper, configFile string) (*viper.Viper, error) {
	v.SetDefault("homeassistant.url", "")
	v.SetDefault("homeassistant.api_key", "")
	v.SetDefault("homeassistant.alarm_code", "")
	v.SetDefault("homeassistant.printer_notify_service", "")
	v.SetDefault("homeassistant.cache_ttl", 5*time.Minute)
	v.SetDefault("homeassistant.timeout", 10*time.Second)
	v.SetDefault("homeassistant.watch", false)
	v.SetDefault("server.port", 8080)
	v.SetDefault("logging.level", "INFO")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	mustBindEnv(v, "homeassistant.url", "HA_URL")
	mustBindEnv(v, "homeassistant.api_key", "HA_API_KEY")
	mustBindEnv(v, "homeassistant.alarm_code", "HA_ALARM_CODE")
	mustBindEnv(v, "homeassistant.printer_notify_service", "HA_PRINTER_NOTIFY_SERVICE")
	mustBindEnv(v, "homeassistant.cache_ttl", "HA_CACHE_TTL")
	mustBindEnv(v, "homeassistant.timeout", "HA_TIMEOUT")
	mustBindEnv(v, "homeassistant.watch", "HA_WATCH")
	mustBindEnv(v, "server.port", "HA_LLM_TOOLS_PORT")
	mustBindEnv(v, "logging.level", "HA_LLM_TOOLS_LOG_LEVEL")

	return v, nil
}

// unmarshal decodes the viper state into a Config and normalizes it.
func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Normalize the base URL: no trailing slash, no /api suffix.
	cfg.HomeAssistant.URL = strings.TrimSuffix(cfg.HomeAssistant.URL, "/")
	cfg.HomeAssistant.URL = strings.TrimSuffix(cfg.HomeAssistant.URL, "/api")

	return cfg, nil
}

// Load loads and validates configuration. The configFile parameter is the
// path to a YAML config file (can be empty).
func Load(configFile string) (*Config, error) {
	loadDotEnv()

	v, err := newViper(configFile)
	if err != nil {
		return nil, err
	}

	cfg, err := unmarshal(v)
	if err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadWithViper loads configuration using a pre-configured viper instance so
// CLI flags bound to it take precedence.
func LoadWithViper(v *viper.Viper, configFile string) (*Config, error) {
	loadDotEnv()

	if _, err := configureViper(v, configFile); err != nil {
		return nil, err
	}

	cfg, err := unmarshal(v)
	if err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadForDisplay loads configuration without validation, for the `config`
// subcommand: the effective configuration is shown even when mandatory
// fields are missing.
func LoadForDisplay(configFile string) (*Config, error) {
	loadDotEnv()

	v, err := newViper(configFile)
	if err != nil {
		return nil, err
	}
	return unmarshal(v)
}

// validate checks that all mandatory configuration is present.
func (c *Config) validate() error {
	if c.HomeAssistant.URL == "" {
		return &MissingFieldError{
			Field: "homeassistant.url",
			Hint:  "set via HA_URL env var, --ha-url flag, or config file",
		}
	}
	if c.HomeAssistant.APIKey == "" {
		return &MissingFieldError{
			Field: "homeassistant.api_key",
			Hint:  "set via HA_API_KEY env var, --ha-api-key flag, or config file",
		}
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	return nil
}

// MaskedConfig returns a copy of the config with sensitive data masked.
func (c *Config) MaskedConfig() Config {
	masked := *c
	if masked.HomeAssistant.APIKey != "" {
		masked.HomeAssistant.APIKey = maskSecret(masked.HomeAssistant.APIKey)
	}
	if masked.HomeAssistant.AlarmCode != "" {
		masked.HomeAssistant.AlarmCode = "****"
	}
	return masked
}

// maskSecret masks a secret, showing only the first 4 and last 4 characters.
func maskSecret(s string) string {
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "****" + s[len(s)-4:]
}
