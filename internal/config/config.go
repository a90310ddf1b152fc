// Package config содержит логику чтения конфигурации клиента магазина.
package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config содержит параметры конфигурации клиента магазина.
type Config struct {
	APIBaseURL      string        `env:"API_BASE_URL"`
	StateDir        string        `env:"STATE_DIR"`
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envAPIBaseURL := cfg.APIBaseURL
	envStateDir := cfg.StateDir
	envRefreshInterval := cfg.RefreshInterval

	flag.StringVar(&cfg.APIBaseURL, "a", "http://localhost:8000", "base URL of the storefront API")
	flag.StringVar(&cfg.StateDir, "s", ".storefront", "directory for local client state")
	flag.DurationVar(&cfg.RefreshInterval, "i", 30*time.Second, "dashboard refresh interval")

	flag.Parse()

	if envAPIBaseURL != "" {
		cfg.APIBaseURL = envAPIBaseURL
	}
	if envStateDir != "" {
		cfg.StateDir = envStateDir
	}
	if envRefreshInterval != 0 {
		cfg.RefreshInterval = envRefreshInterval
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "http://localhost:8000"
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = 30 * time.Second
	}

	return cfg, nil
}
