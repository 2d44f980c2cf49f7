// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/menurec/internal/metrics"
	"github.com/tomtom215/menurec/internal/recommend"
)

// ErrReloadInProgress is returned when Reload is called while another
// reload is running.
var ErrReloadInProgress = errors.New("reload already in progress")

// Reloader loads orders from a source and publishes a freshly trained
// snapshot to the engine.
type Reloader struct {
	source OrderSource
	mapper *Mapper
	engine *recommend.Engine
	logger zerolog.Logger

	mu      sync.Mutex
	running bool
	last    *ReloadStats
}

// NewReloader creates a reloader.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewReloader(source OrderSource, mapper *Mapper, engine *recommend.Engine, logger zerolog.Logger) *Reloader {
	return &Reloader{
		source: source,
		mapper: mapper,
		engine: engine,
		logger: logger.With().Str("component", "reloader").Str("source", source.Name()).Logger(),
	}
}

// Reload runs one load, map, train and publish cycle.
//
// When loading or training fails and the engine has no snapshot yet, an
// empty snapshot is published so predictions answer "model not trained".
// Otherwise the current snapshot is kept. The error is returned either way.
func (r *Reloader) Reload(ctx context.Context) (*ReloadStats, error) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil, ErrReloadInProgress
	}
	r.running = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	stats := &ReloadStats{Source: r.source.Name(), StartTime: time.Now()}

	snapshot, err := r.build(ctx, stats)
	stats.EndTime = time.Now()

	if err != nil {
		metrics.RecordSnapshotLoad(metrics.LoadOutcomeFailure, stats.Duration())
		if !r.engine.Ready() {
			r.engine.Publish(recommend.EmptySnapshot())
			metrics.RecordSnapshotInfo(r.engine.Snapshot().Info())
			r.logger.Error().Err(err).Msg("initial load failed, serving empty snapshot")
		} else {
			r.logger.Error().Err(err).Msg("reload failed, keeping current snapshot")
		}
		return nil, err
	}

	r.engine.Publish(snapshot)

	info := snapshot.Info()
	metrics.RecordSnapshotLoad(metrics.LoadOutcomeSuccess, stats.Duration())
	metrics.RecordSnapshotInfo(info)
	for _, model := range snapshot.Bank().Infos() {
		metrics.RecordModelTraining(model.TrainDuration)
	}

	r.logger.Info().
		Str("snapshot_id", info.ID).
		Int("orders", stats.Mapping.Orders).
		Int("rows", stats.Mapping.Rows).
		Int("empty_orders", stats.Mapping.EmptyOrders).
		Int("blacklisted", stats.Mapping.Blacklisted).
		Int("trained", len(info.TrainedRestaurants)).
		Int("skipped", len(info.SkippedRestaurants)).
		Dur("duration", stats.Duration()).
		Msg("snapshot reloaded")

	r.mu.Lock()
	r.last = stats
	r.mu.Unlock()

	return stats, nil
}

// build loads and maps orders and trains a snapshot without publishing it.
func (r *Reloader) build(ctx context.Context, stats *ReloadStats) (*recommend.Snapshot, error) {
	rows, err := r.source.LoadOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}

	records, mapping := r.mapper.Map(rows)
	stats.Mapping = mapping

	snapshot, err := recommend.BuildSnapshot(ctx, records, r.engine.Config(), r.logger)
	if err != nil {
		return nil, fmt.Errorf("train snapshot: %w", err)
	}
	return snapshot, nil
}

// LastStats returns the statistics of the last successful reload, or nil.
func (r *Reloader) LastStats() *ReloadStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// IsRunning reports whether a reload is in progress.
func (r *Reloader) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}
