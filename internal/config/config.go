// Package config loads process settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the environment-level configuration of the aria binary.
// Command-line flags override these values.
type Config struct {
	LogLevel  string `env:"ARIA_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"ARIA_LOG_FORMAT" envDefault:"text"`

	Script string        `env:"ARIA_SCRIPT"`
	Pace   time.Duration `env:"ARIA_PACE"`

	GeminiAPIKey string `env:"ARIA_GEMINI_API_KEY"`
	GeminiModel  string `env:"ARIA_GEMINI_MODEL" envDefault:"gemini-2.5-flash"`

	RedisAddr string        `env:"ARIA_REDIS_ADDR"`
	RedisTTL  time.Duration `env:"ARIA_REDIS_TTL"`
	PrefsDir  string        `env:"ARIA_PREFS_DIR"`
	Profile   string        `env:"ARIA_PROFILE" envDefault:"default"`
	// PrefsKey is a base64 AES-256 key; set it to encrypt saved preferences.
	PrefsKey          string   `env:"ARIA_PREFS_KEY"`
	PrefsFallbackKeys []string `env:"ARIA_PREFS_FALLBACK_KEYS" envSeparator:","`

	ListenAddr      string        `env:"ARIA_LISTEN_ADDR" envDefault:":8080"`
	MetricsInterval time.Duration `env:"ARIA_METRICS_INTERVAL" envDefault:"2s"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load returns the Config of the current environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
