// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/menurec/internal/logging"
	"github.com/tomtom215/menurec/internal/metrics"
	"github.com/tomtom215/menurec/internal/recommend"
	"github.com/tomtom215/menurec/internal/validation"
)

// ServiceBanner is the status string reported by GET /.
const ServiceBanner = "AI Service Online (Multi-Restaurant)"

// maxPredictBody bounds the /predict request body.
const maxPredictBody = 64 << 10

// Request defaults applied when a field is absent.
const (
	defaultHour      = 12
	defaultDayOfWeek = 0
)

// PredictRequest is the /predict body. Pointers distinguish absent fields
// from zero values.
type PredictRequest struct {
	RestaurantID  *string  `json:"restaurant_id" validate:"required,notblank"`
	CustomerID    *string  `json:"customer_id" validate:"required"`
	TicketAverage *float64 `json:"ticket_average" validate:"omitempty,finite,gte=0"`
	IsNewCustomer *bool    `json:"is_new_customer"` // accepted, not used
	Hour          *int     `json:"hour" validate:"omitempty,min=0,max=23"`
	DayOfWeek     *int     `json:"day_of_week" validate:"omitempty,min=0,max=6"`
}

// toRequest applies defaults.
func (p *PredictRequest) toRequest() recommend.Request {
	req := recommend.Request{
		RestaurantID: *p.RestaurantID,
		Hour:         defaultHour,
		DayOfWeek:    defaultDayOfWeek,
	}
	if p.CustomerID != nil {
		req.CustomerID = *p.CustomerID
	}
	if p.TicketAverage != nil {
		req.TicketAverage = *p.TicketAverage
	}
	if p.Hour != nil {
		req.Hour = *p.Hour
	}
	if p.DayOfWeek != nil {
		req.DayOfWeek = *p.DayOfWeek
	}
	return req
}

// Root handles GET /.
func (h *Handler) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   ServiceBanner,
		"ready":    h.engine.Ready(),
		"snapshot": h.snapshotInfo(),
	})
}

// Predict handles POST /predict. Every well-formed request gets a 200 with
// a recommendation; the engine degrades to fallback tiers internally.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	var body PredictRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPredictBody))
	if err := decoder.Decode(&body); err != nil {
		respondError(w, r, http.StatusBadRequest, CodeValidation, "Request body must be a JSON object", err)
		return
	}
	if verr := validation.ValidateStruct(&body); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	req := body.toRequest()
	start := time.Now()
	resp := h.engine.Predict(req)
	elapsed := time.Since(start)
	metrics.RecordPrediction(resp.ModelType, elapsed)

	logging.Ctx(r.Context()).Debug().
		Str("restaurant_id", sanitizeLogValue(req.RestaurantID)).
		Str("customer", logging.MaskCustomer(req.CustomerID)).
		Str("model_type", string(resp.ModelType)).
		Strs("recommendation", resp.Recommendation).
		Dur("duration", elapsed).
		Msg("prediction served")

	writeJSON(w, http.StatusOK, resp)
}
