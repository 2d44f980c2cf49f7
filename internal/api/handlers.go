// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package api

import (
	"time"

	"github.com/tomtom215/menurec/internal/recommend"
)

// Recommender serves predictions from the published snapshot.
// *recommend.Engine implements it.
type Recommender interface {
	Predict(req recommend.Request) *recommend.Response
	Ready() bool
	Snapshot() *recommend.Snapshot
}

// ReloadRequester queues a snapshot rebuild. It reports false when a
// rebuild is already pending.
type ReloadRequester interface {
	RequestReload(trigger string) bool
}

// Handler contains dependencies for API handlers.
//
//   - handlers_predict.go: / and /predict
//   - handlers_health.go: probes, snapshot metadata and reload trigger
type Handler struct {
	engine    Recommender
	reloader  ReloadRequester
	startTime time.Time
}

// NewHandler creates a handler. reloader may be nil, in which case the
// reload endpoint answers 503.
func NewHandler(engine Recommender, reloader ReloadRequester) *Handler {
	return &Handler{
		engine:    engine,
		reloader:  reloader,
		startTime: time.Now(),
	}
}

// snapshotInfo returns the published snapshot metadata or nil.
func (h *Handler) snapshotInfo() *recommend.SnapshotInfo {
	snapshot := h.engine.Snapshot()
	if snapshot == nil {
		return nil
	}
	info := snapshot.Info()
	return &info
}
