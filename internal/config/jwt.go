package config

import (
	"fmt"
	"time"
)

// DefaultTokenLifetime is how long issued API tokens stay valid.
const DefaultTokenLifetime = 24 * time.Hour

// JWTConfig holds configuration for API bearer-token validation.
type JWTConfig struct {
	Secret   string
	Lifetime time.Duration
}

// JWT returns the token configuration, or nil when auth is disabled.
func (c *Config) JWT() (*JWTConfig, error) {
	if c.Server.JWTSecret == "" {
		return nil, nil
	}
	cfg := &JWTConfig{Secret: c.Server.JWTSecret, Lifetime: DefaultTokenLifetime}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalize validates the configuration.
func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("JWT_SECRET cannot be empty")
	}
	if c.Lifetime < time.Minute {
		return fmt.Errorf("token lifetime must be at least one minute, got: %s", c.Lifetime)
	}
	return nil
}
