// Package config loads the dashboard's runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"sales_dashboard/internal/dashboard"
)

// Prefix is prepended to every variable name, e.g. SALES_DASHBOARD_ADDR.
const Prefix = "SALES_DASHBOARD"

// ErrInvalid is returned when a setting is present but unusable.
var ErrInvalid = errors.New("invalid configuration")

// Config holds runtime configuration.
type Config struct {
	Env              string        `envconfig:"ENV" default:"development"`
	Addr             string        `envconfig:"ADDR" default:":8081"`
	APIBaseURL       string        `envconfig:"API_BASE_URL" default:"http://localhost:3000"`
	HTTPTimeout      time.Duration `envconfig:"HTTP_TIMEOUT" default:"15s"`
	UpstreamRPS      float64       `envconfig:"UPSTREAM_RPS" default:"20"`
	UpstreamBurst    int           `envconfig:"UPSTREAM_BURST" default:"40"`
	LogLevel         string        `envconfig:"LOG_LEVEL" default:"info"`
	EligibilityScope string        `envconfig:"ELIGIBILITY_SCOPE" default:"loaded"`
	CORSOrigins      []string      `envconfig:"CORS_ORIGINS" default:"http://localhost:5173"`
	ShutdownTimeout  time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load reads configuration from SALES_DASHBOARD_* variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("%w: API_BASE_URL must be set", ErrInvalid)
	}
	if c.EligibilityScope != dashboard.ScopeLoaded && c.EligibilityScope != dashboard.ScopeFull {
		return fmt.Errorf("%w: ELIGIBILITY_SCOPE must be %q or %q, got %q", ErrInvalid, dashboard.ScopeLoaded, dashboard.ScopeFull, c.EligibilityScope)
	}
	return nil
}

// IsProduction reports whether the dashboard runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.Env == "production"
}
