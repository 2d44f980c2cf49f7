// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/tomtom215/menurec/internal/logging"
)

// minJWTSecretLength is the HS256 key size in bytes.
const minJWTSecretLength = 32

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateSource,
		c.validateRecommend,
		c.validateReload,
		c.validateNATS,
		c.validateSecurity,
		c.validateLogging,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive")
	}
	return nil
}

func (c *Config) validateSource() error {
	switch c.Source.Driver {
	case "none":
		return nil
	case "postgres", "sqlite":
		if c.Source.DSN == "" {
			return fmt.Errorf("source.dsn is required for driver %q (set SOURCE_DSN or SUPABASE_DB_URL)", c.Source.Driver)
		}
	case "duckdb":
	default:
		return fmt.Errorf("source.driver must be one of postgres, duckdb, sqlite, none; got %q", c.Source.Driver)
	}

	if c.Source.QueryTimeout <= 0 {
		return fmt.Errorf("source.query_timeout must be positive")
	}
	if _, err := time.LoadLocation(c.Source.Timezone); err != nil {
		return fmt.Errorf("source.timezone %q: %w", c.Source.Timezone, err)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	if err := c.EngineConfig().Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	return nil
}

func (c *Config) validateReload() error {
	if c.Reload.MinInterval < 0 {
		return fmt.Errorf("reload.min_interval must not be negative")
	}
	if c.Reload.Timeout <= 0 {
		return fmt.Errorf("reload.timeout must be positive")
	}
	return nil
}

func (c *Config) validateNATS() error {
	if !c.NATS.Enabled {
		return nil
	}
	if err := validateNATSURL(c.NATS.URL); err != nil {
		return fmt.Errorf("nats.url: %w", err)
	}
	if strings.TrimSpace(c.NATS.ReloadSubject) == "" {
		return fmt.Errorf("nats.reload_subject is required when NATS is enabled")
	}
	if strings.ContainsAny(c.NATS.ReloadSubject, " \t") {
		return fmt.Errorf("nats.reload_subject must not contain whitespace")
	}
	return nil
}

// validateNATSURL accepts nats://, tls://, ws:// and wss:// URLs with a host.
func validateNATSURL(rawURL string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}

	validSchemes := map[string]bool{"nats": true, "tls": true, "ws": true, "wss": true}
	if !validSchemes[parsedURL.Scheme] {
		return fmt.Errorf("scheme must be nats, tls, ws, or wss, got: %s", parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("host is required (e.g., localhost:4222)")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	s := c.Security
	if !s.RateLimitDisabled {
		if s.RateLimitRequests <= 0 {
			return fmt.Errorf("security.rate_limit_requests must be positive")
		}
		if s.RateLimitWindow <= 0 {
			return fmt.Errorf("security.rate_limit_window must be positive")
		}
	}
	if s.ReloadJWTSecret != "" && len(s.ReloadJWTSecret) < minJWTSecretLength {
		return fmt.Errorf("security.reload_jwt_secret must be at least %d characters", minJWTSecretLength)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level %q is not a valid level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
}
