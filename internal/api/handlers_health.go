// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package api

import (
	"errors"
	"net/http"
	"time"
)

var errNoSnapshot = errors.New("no snapshot published")

// HealthLive answers 200 while the process is running.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady answers 200 once a snapshot has been published, even an empty
// one, and 503 before that.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	info := h.snapshotInfo()
	if !h.engine.Ready() || info == nil {
		respondError(w, r, http.StatusServiceUnavailable, CodeNotReady, "No snapshot published yet", nil)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"ready":       true,
		"snapshot_id": info.ID,
		"trained":     len(info.TrainedRestaurants) > 0,
	})
}

// Snapshot returns the published snapshot metadata.
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	info := h.snapshotInfo()
	if info == nil {
		respondError(w, r, http.StatusServiceUnavailable, CodeNotReady, "No snapshot published yet", errNoSnapshot)
		return
	}
	respondJSON(w, r, http.StatusOK, info)
}

// Reload queues a snapshot rebuild: 202 when accepted, 429 when one is
// already pending.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	if h.reloader == nil {
		respondError(w, r, http.StatusServiceUnavailable, CodeReloadUnavailable, "Reloading is not configured", nil)
		return
	}

	if !h.reloader.RequestReload("http") {
		respondError(w, r, http.StatusTooManyRequests, CodeReloadPending, "A reload is already pending", nil)
		return
	}

	respondJSON(w, r, http.StatusAccepted, map[string]interface{}{
		"accepted": true,
	})
}
