package config

import (
	"fmt"
	"time"
)

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateScorer(); err != nil {
		return err
	}
	if c.Auth.Enabled && c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required when auth is enabled")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.MetricsPort < 0 || c.Server.MetricsPort > 65535 {
		return fmt.Errorf("server.metrics_port must be between 0 and 65535, got %d", c.Server.MetricsPort)
	}
	if c.Server.MetricsPort != 0 && c.Server.MetricsPort == c.Server.Port {
		return fmt.Errorf("server.metrics_port must differ from server.port")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("server.timezone: %w", err)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must not be negative")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	switch c.Database.Driver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("database.driver must be sqlite3 or postgres, got %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	return nil
}

func (c *Config) validateScorer() error {
	s := c.Scorer
	switch s.Type {
	case "none":
		return nil
	case "http":
		if s.URL == "" {
			return fmt.Errorf("scorer.url is required for the http scorer")
		}
	case "llm":
		if s.LLM.Token == "" {
			return fmt.Errorf("scorer.llm.token is required for the llm scorer")
		}
	default:
		return fmt.Errorf("scorer.type must be none, http or llm, got %q", s.Type)
	}
	if s.Retries < 0 || s.Retries > 1 {
		return fmt.Errorf("scorer.retries must be 0 or 1, got %d", s.Retries)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("scorer.timeout must be positive")
	}
	return nil
}

// Location resolves server.timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Server.Timezone == "" || c.Server.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Server.Timezone)
}
