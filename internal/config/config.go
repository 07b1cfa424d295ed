// Package config provides configuration loading and validation for the CLI.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Default values applied before the config file and environment are read.
const (
	DefaultEnhanceTier    = "standard"
	DefaultFetchTimeout   = 10 * time.Second
	DefaultEnhanceTimeout = 20 * time.Second
	DefaultMaxRedirects   = 10
	DefaultMaxBodyBytes   = 5 << 20
	DefaultConcurrency    = 4
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "json"
)

// Config holds the settings shared by every CLI command.
// Keys double as environment variable names in upper case (GEMINI_API_KEY, FETCH_TIMEOUT, ...).
type Config struct {
	GeminiAPIKey   string        `mapstructure:"gemini_api_key"`
	GeminiModel    string        `mapstructure:"gemini_model"` // overrides the model of EnhanceTier when set
	EnhanceTier    string        `mapstructure:"enhance_tier" validate:"oneof=lite standard advanced"`
	FetchTimeout   time.Duration `mapstructure:"fetch_timeout" validate:"gt=0"`
	EnhanceTimeout time.Duration `mapstructure:"enhance_timeout" validate:"gt=0"`
	UserAgent      string        `mapstructure:"user_agent"`
	APIURL         string        `mapstructure:"api_url" validate:"omitempty,url"` // appended to the default user agent
	MaxRedirects   int           `mapstructure:"max_redirects" validate:"gt=0"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes" validate:"gt=0"`
	Concurrency    int           `mapstructure:"concurrency" validate:"min=1,max=64"`
	LogLevel       string        `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFormat      string        `mapstructure:"log_format" validate:"oneof=json console"`
}

var defaults = map[string]any{
	"gemini_api_key":  "",
	"gemini_model":    "",
	"enhance_tier":    DefaultEnhanceTier,
	"fetch_timeout":   DefaultFetchTimeout,
	"enhance_timeout": DefaultEnhanceTimeout,
	"user_agent":      "",
	"api_url":         "",
	"max_redirects":   DefaultMaxRedirects,
	"max_body_bytes":  DefaultMaxBodyBytes,
	"concurrency":     DefaultConcurrency,
	"log_level":       DefaultLogLevel,
	"log_format":      DefaultLogFormat,
}

// Load reads configuration from defaults, the optional file at path, and the environment,
// in increasing order of precedence. The file format follows its extension.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.EnhanceTier = strings.ToLower(cfg.EnhanceTier)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// The API key is not required here; only enhancement needs it.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("config error: %w", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("'%s' failed '%s' (got %v)", fe.Field(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
}
