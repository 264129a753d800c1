// Package config loads the process configuration from the environment.
// The token-signing and CSRF secrets are mandatory: a process without
// them must fail at startup, never fall back to a default secret.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the full runtime configuration for the server binary.
type Config struct {
	Port  string `env:"PORT" envDefault:"4000"`
	DBURL string `env:"DB_URL,required"`

	// JWTSecret signs session tokens; a single active secret is assumed
	// for the process lifetime.
	JWTSecret string `env:"JWT_SECRET,required"`

	// CSRFSecret derives anti-forgery tokens.
	CSRFSecret string `env:"CSRF_SECRET,required"`

	// Super admin account seeded at startup when both values are set.
	SuperAdminEmail    string `env:"SUPER_ADMIN_EMAIL"`
	SuperAdminPassword string `env:"SUPER_ADMIN_PASSWORD"`

	// Connection pool knobs.
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`

	// HTTP timeouts.
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Address returns the listen address for the HTTP server.
func (c *Config) Address() string { return ":" + c.Port }
