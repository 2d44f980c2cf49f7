// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package main

import (
	"fmt"
	"io"
	"net/http"

	"github.com/tomtom215/menurec/internal/api"
	"github.com/tomtom215/menurec/internal/config"
	"github.com/tomtom215/menurec/internal/database"
	"github.com/tomtom215/menurec/internal/ingest"
	"github.com/tomtom215/menurec/internal/logging"
	"github.com/tomtom215/menurec/internal/recommend"
	"github.com/tomtom215/menurec/internal/supervisor"
	"github.com/tomtom215/menurec/internal/supervisor/services"
)

// app holds the wired components.
type app struct {
	engine *recommend.Engine
	loader *services.SnapshotLoaderService
	server *http.Server
	tree   *supervisor.SupervisorTree
	closer io.Closer
}

// newApp builds every component from cfg without starting anything.
func newApp(cfg *config.Config) (*app, error) {
	source, closer, err := buildSource(cfg)
	if err != nil {
		return nil, err
	}

	engine, err := recommend.NewEngine(cfg.EngineConfig(), logging.WithComponent("engine"))
	if err != nil {
		closeQuietly(closer)
		return nil, fmt.Errorf("engine: %w", err)
	}

	mapper := ingest.NewMapper(cfg.Location(), ingest.DefaultBlacklist())
	reloader := ingest.NewReloader(source, mapper, engine, logging.WithComponent("ingest"))

	loader := services.NewSnapshotLoaderService(reloader, services.LoaderConfig{
		MinInterval: cfg.Reload.MinInterval,
		Timeout:     cfg.Reload.Timeout,
		LoadOnStart: true,
	}, logging.Logger())

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           buildRouter(cfg, engine, loader).SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		closeQuietly(closer)
		return nil, fmt.Errorf("supervisor: %w", err)
	}

	tree.AddDataService(loader)
	if cfg.NATS.Enabled {
		tree.AddMessagingService(services.NewNATSReloadService(services.NATSReloadConfig{
			URL:           cfg.NATS.URL,
			Subject:       cfg.NATS.ReloadSubject,
			QueueGroup:    cfg.NATS.QueueGroup,
			MaxReconnects: cfg.NATS.MaxReconnects,
			ReconnectWait: cfg.NATS.ReconnectWait,
		}, loader, logging.Logger()))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logging.Logger()))

	return &app{
		engine: engine,
		loader: loader,
		server: server,
		tree:   tree,
		closer: closer,
	}, nil
}

// Close releases the order source.
func (a *app) Close() {
	closeQuietly(a.closer)
}

// buildSource opens the configured order source wrapped in a circuit
// breaker. The returned closer may be nil.
func buildSource(cfg *config.Config) (ingest.OrderSource, io.Closer, error) {
	if cfg.Source.Driver == database.DriverNone {
		logging.Warn().Msg("No order source configured, predictions will answer \"model not trained\"")
		return database.EmptySource{}, nil, nil
	}

	sqlSource, err := database.NewSQLSource(database.SourceConfig{
		Driver:       cfg.Source.Driver,
		DSN:          cfg.Source.DSN,
		Table:        cfg.Source.Table,
		QueryTimeout: cfg.Source.QueryTimeout,
	}, logging.WithComponent("source"))
	if err != nil {
		return nil, nil, fmt.Errorf("order source: %w", err)
	}

	breaker := database.NewBreakerSource(sqlSource, database.BreakerConfig{
		Name:             "order-source-" + cfg.Source.Driver,
		FailureThreshold: cfg.Source.BreakerFailures,
		OpenTimeout:      cfg.Source.BreakerTimeout,
	}, logging.WithComponent("source"))

	return breaker, sqlSource, nil
}

func buildRouter(cfg *config.Config, engine *recommend.Engine, loader *services.SnapshotLoaderService) *api.Router {
	mw := api.DefaultChiMiddlewareConfig()
	mw.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mw.RateLimitRequests = cfg.Security.RateLimitRequests
	mw.RateLimitWindow = cfg.Security.RateLimitWindow
	mw.RateLimitDisabled = cfg.Security.RateLimitDisabled

	return api.NewRouter(api.NewHandler(engine, loader), api.RouterConfig{
		Middleware:           mw,
		ReloadJWTSecret:      cfg.Security.ReloadJWTSecret,
		SlowRequestThreshold: cfg.Server.SlowRequestThreshold,
	})
}

func closeQuietly(c io.Closer) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		logging.Warn().Err(err).Msg("close failed")
	}
}
