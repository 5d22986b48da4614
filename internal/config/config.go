package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime settings, loaded from DESKBRIDGE_* environment
// variables. Defaults bind the bridge to loopback only, with CORS scoped
// to the shell's webview origin and the frontend dev server.
type Config struct {
	Host           string        `envconfig:"HOST" default:"127.0.0.1"`
	Port           int           `envconfig:"PORT" default:"8975"`
	AllowedOrigins []string      `envconfig:"ALLOWED_ORIGINS" default:"tauri://localhost,http://localhost:1420"`
	AllowedIPs     []string      `envconfig:"ALLOWED_IPS"`
	AuthSecret     string        `envconfig:"AUTH_SECRET"`
	TokenExpiry    time.Duration `envconfig:"TOKEN_EXPIRY" default:"2160h"`
	AuthDisabled   bool          `envconfig:"AUTH_DISABLED" default:"false"`
	StatsInterval  time.Duration `envconfig:"STATS_INTERVAL" default:"2s"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("DESKBRIDGE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
