// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package config

import (
	"time"

	"github.com/tomtom215/menurec/internal/recommend"
)

// Config holds all service configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Source    SourceConfig    `koanf:"source"`
	Recommend RecommendConfig `koanf:"recommend"`
	Reload    ReloadConfig    `koanf:"reload"`
	NATS      NATSConfig      `koanf:"nats"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// SlowRequestThreshold marks requests logged at warn by the access log.
	SlowRequestThreshold time.Duration `koanf:"slow_request_threshold"`
}

// SourceConfig selects where orders are loaded from.
//
// Environment Variables:
//   - SOURCE_DRIVER: postgres, duckdb, sqlite or none (default: none)
//   - SOURCE_DSN / SUPABASE_DB_URL: connection string (SOURCE_DSN wins)
//   - SOURCE_TABLE: orders table (default: orders)
//   - SOURCE_TIMEZONE: IANA zone used for hour/day features (default: UTC)
type SourceConfig struct {
	Driver       string        `koanf:"driver"`
	DSN          string        `koanf:"dsn"`
	Table        string        `koanf:"table"`
	QueryTimeout time.Duration `koanf:"query_timeout"`
	Timezone     string        `koanf:"timezone"`

	// BreakerFailures is the number of consecutive failed loads that opens
	// the circuit breaker.
	BreakerFailures uint32 `koanf:"breaker_failures"`

	// BreakerTimeout is how long the breaker stays open.
	BreakerTimeout time.Duration `koanf:"breaker_timeout"`
}

// RecommendConfig holds engine and training settings.
type RecommendConfig struct {
	Seed                int64   `koanf:"seed"`
	TopK                int     `koanf:"top_k"`
	HiddenLayers        []int   `koanf:"hidden_layers"`
	MaxIterations       int     `koanf:"max_iterations"`
	LearningRate        float64 `koanf:"learning_rate"`
	L2                  float64 `koanf:"l2"`
	Patience            int     `koanf:"patience"`
	MinItems            int     `koanf:"min_items"`
	MinCustomers        int     `koanf:"min_customers"`
	MinBundleOrders     int     `koanf:"min_bundle_orders"`
	TrainWorkers        int     `koanf:"train_workers"`
	PlaceholderItem     string  `koanf:"placeholder_item"`
	EmptyPopularityItem string  `koanf:"empty_popularity_item"`
}

// ReloadConfig throttles snapshot rebuilds.
type ReloadConfig struct {
	// MinInterval is the minimum time between two rebuilds.
	MinInterval time.Duration `koanf:"min_interval"`

	// Timeout bounds one load, map and train cycle.
	Timeout time.Duration `koanf:"timeout"`
}

// NATSConfig configures the reload subscriber.
type NATSConfig struct {
	Enabled       bool          `koanf:"enabled"`
	URL           string        `koanf:"url"`
	ReloadSubject string        `koanf:"reload_subject"`
	QueueGroup    string        `koanf:"queue_group"`
	MaxReconnects int           `koanf:"max_reconnects"`
	ReconnectWait time.Duration `koanf:"reconnect_wait"`
}

// SecurityConfig holds CORS, rate limiting and reload authentication.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// ReloadJWTSecret, when set, requires an HS256 bearer token on
	// POST /api/v1/reload.
	ReloadJWTSecret string `koanf:"reload_jwt_secret"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// defaultConfig returns the defaults loaded before file and environment.
func defaultConfig() *Config {
	engine := recommend.DefaultConfig()

	return &Config{
		Server: ServerConfig{
			Port:                 8000,
			Host:                 "0.0.0.0",
			ReadTimeout:          10 * time.Second,
			WriteTimeout:         30 * time.Second,
			IdleTimeout:          2 * time.Minute,
			ShutdownTimeout:      15 * time.Second,
			SlowRequestThreshold: 500 * time.Millisecond,
		},
		Source: SourceConfig{
			Driver:          "none",
			Table:           "orders",
			QueryTimeout:    60 * time.Second,
			Timezone:        "UTC",
			BreakerFailures: 3,
			BreakerTimeout:  2 * time.Minute,
		},
		Recommend: RecommendConfig{
			Seed:                engine.Seed,
			TopK:                engine.TopK,
			HiddenLayers:        engine.Model.HiddenLayers,
			MaxIterations:       engine.Model.MaxIterations,
			LearningRate:        engine.Model.LearningRate,
			L2:                  engine.Model.L2,
			Patience:            engine.Model.Patience,
			MinItems:            engine.Training.MinItems,
			MinCustomers:        engine.Training.MinCustomers,
			MinBundleOrders:     engine.Bundle.MinOrders,
			TrainWorkers:        engine.Training.Workers,
			PlaceholderItem:     engine.Fallback.PlaceholderItem,
			EmptyPopularityItem: engine.Fallback.EmptyPopularityItem,
		},
		Reload: ReloadConfig{
			MinInterval: 30 * time.Second,
			Timeout:     15 * time.Minute,
		},
		NATS: NATSConfig{
			Enabled:       false,
			URL:           "nats://127.0.0.1:4222",
			ReloadSubject: "menurec.snapshot.reload",
			QueueGroup:    "menurec",
			MaxReconnects: -1,
			ReconnectWait: 2 * time.Second,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// EngineConfig builds the recommendation engine configuration.
func (c *Config) EngineConfig() *recommend.Config {
	cfg := recommend.DefaultConfig()
	r := c.Recommend

	cfg.Seed = r.Seed
	cfg.TopK = r.TopK
	cfg.Model.HiddenLayers = append([]int(nil), r.HiddenLayers...)
	cfg.Model.MaxIterations = r.MaxIterations
	cfg.Model.LearningRate = r.LearningRate
	cfg.Model.L2 = r.L2
	cfg.Model.Patience = r.Patience
	cfg.Training.MinItems = r.MinItems
	cfg.Training.MinCustomers = r.MinCustomers
	cfg.Training.Workers = r.TrainWorkers
	cfg.Bundle.MinOrders = r.MinBundleOrders
	cfg.Fallback.PlaceholderItem = r.PlaceholderItem
	cfg.Fallback.EmptyPopularityItem = r.EmptyPopularityItem
	return cfg
}

// Location returns the source timezone. Validate has already checked it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Source.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return joinHostPort(c.Server.Host, c.Server.Port)
}
