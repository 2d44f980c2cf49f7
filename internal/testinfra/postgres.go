// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultPostgresImage matches the major version Supabase runs.
	DefaultPostgresImage = "postgres:15-alpine"

	// DefaultPostgresPort is the container's Postgres port.
	DefaultPostgresPort = "5432"

	postgresUser     = "menurec"
	postgresPassword = "menurec"
	postgresDB       = "orders"
)

// PostgresContainer is a running Postgres for source integration tests.
type PostgresContainer struct {
	testcontainers.Container
	DSN string
}

// PostgresOption configures the Postgres container.
type PostgresOption func(*postgresConfig)

type postgresConfig struct {
	image        string
	initScripts  []string
	startTimeout time.Duration
}

// WithPostgresImage sets a custom image.
func WithPostgresImage(image string) PostgresOption {
	return func(c *postgresConfig) {
		c.image = image
	}
}

// WithInitSQL runs the statements once the server accepts connections.
func WithInitSQL(statements ...string) PostgresOption {
	return func(c *postgresConfig) {
		c.initScripts = append(c.initScripts, statements...)
	}
}

// NewPostgresContainer starts Postgres and returns a lib/pq DSN for it.
//
//	pg, err := testinfra.NewPostgresContainer(ctx, testinfra.WithInitSQL(schema))
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer testinfra.CleanupContainer(t, ctx, pg)
func NewPostgresContainer(ctx context.Context, opts ...PostgresOption) (*PostgresContainer, error) {
	cfg := &postgresConfig{
		image:        DefaultPostgresImage,
		startTimeout: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	req := testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{DefaultPostgresPort + "/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     postgresUser,
			"POSTGRES_PASSWORD": postgresPassword,
			"POSTGRES_DB":       postgresDB,
			"TZ":                "UTC",
		},
		// The entrypoint restarts the server once after init, so the
		// ready line appears twice.
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort(DefaultPostgresPort+"/tcp"),
		).WithStartupTimeout(cfg.startTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("create postgres container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, DefaultPostgresPort)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	for _, stmt := range cfg.initScripts {
		code, _, err := container.Exec(ctx, []string{"psql", "-U", postgresUser, "-d", postgresDB, "-v", "ON_ERROR_STOP=1", "-c", stmt})
		if err != nil || code != 0 {
			container.Terminate(ctx) //nolint:errcheck
			return nil, fmt.Errorf("init sql failed (exit %d): %w", code, err)
		}
	}

	return &PostgresContainer{
		Container: container,
		DSN: fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			postgresUser, postgresPassword, host, port.Port(), postgresDB),
	}, nil
}
