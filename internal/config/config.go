// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port          string        `env:"PORT"           envDefault:"3000"`
	SessionSecret string        `env:"SESSION_SECRET,required,notEmpty"`
	SessionTTL    time.Duration `env:"SESSION_TTL"    envDefault:"24h"`
	StaticDir     string        `env:"STATIC_DIR"     envDefault:"./public"`

	MetricsUser string `env:"METRICS_USER"`
	MetricsPass string `env:"METRICS_PASS"`
	PprofSecret string `env:"PPROF_SECRET"`

	RateLimitRPS   float64  `env:"RATE_LIMIT_RPS"       envDefault:"5"`
	RateLimitBurst int      `env:"RATE_LIMIT_BURST"     envDefault:"30"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// TrustProxyHeaders takes the client address from X-Forwarded-For.
	// Enable only behind a proxy that overwrites the header.
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`
}

// Load reads an optional .env file and then parses the environment
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	return Parse()
}

// Parse builds a Config from the current environment
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

// Addr is the listen address for the HTTP server
func (c Config) Addr() string {
	return ":" + c.Port
}

// MetricsEnabled reports whether /metrics should be mounted
func (c Config) MetricsEnabled() bool {
	return c.MetricsUser != "" && c.MetricsPass != ""
}
