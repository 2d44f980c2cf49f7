// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config files searched in order. The first
// one found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/menurec/config.yaml",
	"/etc/menurec/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Load builds the configuration from defaults, an optional YAML file and
// the environment, in increasing priority, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// SUPABASE_DB_URL and SOURCE_DSN map to the same key; the explicit one wins.
	if dsn := os.Getenv("SOURCE_DSN"); dsn != "" {
		if err := k.Set("source.dsn", dsn); err != nil {
			return nil, fmt.Errorf("failed to set source.dsn: %w", err)
		}
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns CONFIG_PATH if it exists, else the first default
// path that exists, else "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated strings when they come
// from the environment.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"recommend.hidden_layers",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to config keys.
// Unlisted variables are ignored so unrelated environment does not leak
// into the configuration.
var envMappings = map[string]string{
	"http_port":              "server.port",
	"http_host":              "server.host",
	"http_read_timeout":      "server.read_timeout",
	"http_write_timeout":     "server.write_timeout",
	"http_idle_timeout":      "server.idle_timeout",
	"shutdown_timeout":       "server.shutdown_timeout",
	"slow_request_threshold": "server.slow_request_threshold",

	"source_driver":           "source.driver",
	"source_dsn":              "source.dsn",
	"supabase_db_url":         "source.dsn",
	"source_table":            "source.table",
	"source_query_timeout":    "source.query_timeout",
	"source_timezone":         "source.timezone",
	"source_breaker_failures": "source.breaker_failures",
	"source_breaker_timeout":  "source.breaker_timeout",

	"recommend_seed":                  "recommend.seed",
	"recommend_top_k":                 "recommend.top_k",
	"recommend_hidden_layers":         "recommend.hidden_layers",
	"recommend_max_iter":              "recommend.max_iterations",
	"recommend_learning_rate":         "recommend.learning_rate",
	"recommend_l2":                    "recommend.l2",
	"recommend_patience":              "recommend.patience",
	"recommend_min_items":             "recommend.min_items",
	"recommend_min_customers":         "recommend.min_customers",
	"recommend_min_bundle_orders":     "recommend.min_bundle_orders",
	"recommend_train_workers":         "recommend.train_workers",
	"recommend_placeholder_item":      "recommend.placeholder_item",
	"recommend_empty_popularity_item": "recommend.empty_popularity_item",

	"reload_min_interval": "reload.min_interval",
	"reload_timeout":      "reload.timeout",

	"nats_enabled":        "nats.enabled",
	"nats_url":            "nats.url",
	"nats_reload_subject": "nats.reload_subject",
	"nats_queue_group":    "nats.queue_group",
	"nats_max_reconnects": "nats.max_reconnects",
	"nats_reconnect_wait": "nats.reconnect_wait",

	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_requests",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"reload_jwt_secret":   "security.reload_jwt_secret",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to its config key,
// or "" to skip it.
//
//	HTTP_PORT        -> server.port
//	SUPABASE_DB_URL  -> source.dsn
//	RECOMMEND_MAX_ITER -> recommend.max_iterations
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
