// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/menurec/internal/ingest"
	"github.com/tomtom215/menurec/internal/metrics"
)

// Reload triggers.
const (
	TriggerStartup = "startup"
	TriggerHTTP    = "http"
	TriggerNATS    = "nats"
)

// SnapshotReloader runs one load and publish cycle. *ingest.Reloader
// implements it.
type SnapshotReloader interface {
	Reload(ctx context.Context) (*ingest.ReloadStats, error)
}

// LoaderConfig configures the snapshot loader.
type LoaderConfig struct {
	// MinInterval is the minimum time between two rebuilds. Zero disables
	// throttling.
	MinInterval time.Duration

	// Timeout bounds one rebuild.
	// Default: 15m
	Timeout time.Duration

	// LoadOnStart builds the first snapshot when the service starts.
	LoadOnStart bool
}

// SnapshotLoaderService builds the first snapshot at startup and rebuilds it
// on request. At most one request is queued; further requests are refused
// until the queued one starts.
type SnapshotLoaderService struct {
	reloader SnapshotReloader
	config   LoaderConfig
	limiter  *rate.Limiter
	requests chan string
	logger   zerolog.Logger
	name     string

	startupDone atomic.Bool
	reloads     atomic.Int64
}

// NewSnapshotLoaderService creates the loader.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewSnapshotLoaderService(reloader SnapshotReloader, cfg LoaderConfig, logger zerolog.Logger) *SnapshotLoaderService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Minute
	}

	limit := rate.Inf
	if cfg.MinInterval > 0 {
		limit = rate.Every(cfg.MinInterval)
	}

	return &SnapshotLoaderService{
		reloader: reloader,
		config:   cfg,
		limiter:  rate.NewLimiter(limit, 1),
		requests: make(chan string, 1),
		logger:   logger.With().Str("service", "snapshot-loader").Logger(),
		name:     "snapshot-loader",
	}
}

// RequestReload queues a rebuild. It returns false when one is already
// queued.
func (s *SnapshotLoaderService) RequestReload(trigger string) bool {
	select {
	case s.requests <- trigger:
		metrics.RecordReloadRequest(trigger, true)
		s.logger.Info().Str("trigger", trigger).Msg("reload requested")
		return true
	default:
		metrics.RecordReloadRequest(trigger, false)
		s.logger.Debug().Str("trigger", trigger).Msg("reload already pending")
		return false
	}
}

// Reloads returns the number of completed rebuild attempts.
func (s *SnapshotLoaderService) Reloads() int64 {
	return s.reloads.Load()
}

// Serve implements suture.Service. The startup load runs once per process,
// not on every restart.
func (s *SnapshotLoaderService) Serve(ctx context.Context) error {
	if s.config.LoadOnStart && s.startupDone.CompareAndSwap(false, true) {
		s.limiter.Allow()
		s.reload(ctx, TriggerStartup)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case trigger := <-s.requests:
			if err := s.limiter.Wait(ctx); err != nil {
				return ctx.Err()
			}
			s.reload(ctx, trigger)
		}
	}
}

// reload runs one rebuild. Failures are logged by the reloader and never
// stop the service.
func (s *SnapshotLoaderService) reload(ctx context.Context, trigger string) {
	reloadCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	stats, err := s.reloader.Reload(reloadCtx)
	s.reloads.Add(1)

	switch {
	case errors.Is(err, ingest.ErrReloadInProgress):
		s.logger.Debug().Str("trigger", trigger).Msg("reload skipped, another is running")
	case err != nil:
		s.logger.Warn().Err(err).Str("trigger", trigger).Dur("duration", time.Since(start)).Msg("reload failed")
	default:
		s.logger.Info().
			Str("trigger", trigger).
			Int("rows", stats.Mapping.Rows).
			Dur("duration", stats.Duration()).
			Msg("reload complete")
	}
}

// String implements fmt.Stringer for suture logs.
func (s *SnapshotLoaderService) String() string {
	return s.name
}
