// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Snapshot is the complete read state used to answer predictions: the
// history table, the popularity index and the model bank, all built from the
// same set of records. A Snapshot is never modified after BuildSnapshot
// returns; reloads build a new one.
type Snapshot struct {
	id            string
	builtAt       time.Time
	buildDuration time.Duration

	history    *HistoryStore
	popularity *PopularityIndex
	bank       *ModelBank
}

// BuildSnapshot trains every structure from records.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func BuildSnapshot(ctx context.Context, records []InteractionRecord, cfg *Config, logger zerolog.Logger) (*Snapshot, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	start := time.Now()

	bank, err := TrainModelBank(ctx, records, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("build snapshot: %w", err)
	}

	return &Snapshot{
		id:            uuid.New().String(),
		builtAt:       time.Now().UTC(),
		buildDuration: time.Since(start),
		history:       NewHistoryStore(records),
		popularity:    NewPopularityIndex(records, cfg.Fallback.EmptyPopularityItem),
		bank:          bank,
	}, nil
}

// EmptySnapshot returns a snapshot with no rows. Every prediction against it
// ends in the untrained guard.
func EmptySnapshot() *Snapshot {
	return &Snapshot{
		id:         uuid.New().String(),
		builtAt:    time.Now().UTC(),
		history:    NewHistoryStore(nil),
		popularity: NewPopularityIndex(nil, ""),
		bank:       &ModelBank{models: map[string]*Model{}, skipped: map[string]string{}},
	}
}

// ID returns the snapshot identifier.
func (s *Snapshot) ID() string { return s.id }

// History returns the history store.
func (s *Snapshot) History() *HistoryStore { return s.history }

// Popularity returns the popularity index.
func (s *Snapshot) Popularity() *PopularityIndex { return s.popularity }

// Bank returns the model bank.
func (s *Snapshot) Bank() *ModelBank { return s.bank }

// Info returns the snapshot metadata.
func (s *Snapshot) Info() SnapshotInfo {
	return SnapshotInfo{
		ID:                  s.id,
		BuiltAt:             s.builtAt,
		Rows:                s.history.Len(),
		Restaurants:         s.popularity.Restaurants(),
		TrainedRestaurants:  s.bank.Restaurants(),
		SkippedRestaurants:  s.bank.Skipped(),
		BuildDurationMillis: s.buildDuration.Milliseconds(),
	}
}
