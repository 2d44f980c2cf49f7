// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/menurec/internal/middleware"
)

// RouterConfig holds router-level settings.
type RouterConfig struct {
	Middleware           *ChiMiddlewareConfig
	ReloadJWTSecret      string
	SlowRequestThreshold time.Duration
}

// Router sets up HTTP routes using the Chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	reloadAuth    *ReloadAuth
	slowThreshold time.Duration
}

// NewRouter creates a router for handler.
func NewRouter(handler *Handler, cfg RouterConfig) *Router {
	threshold := cfg.SlowRequestThreshold
	if threshold <= 0 {
		threshold = middleware.DefaultSlowRequestThreshold
	}
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(cfg.Middleware),
		reloadAuth:    NewReloadAuth(cfg.ReloadJWTSecret),
		slowThreshold: threshold,
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(router.slowThreshold))
	r.Use(middleware.PrometheusMetrics)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered

	r.Get("/", router.handler.Root)
	r.With(router.chiMiddleware.RateLimit()).Post("/predict", router.handler.Predict)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health/live", router.handler.HealthLive)
		r.Get("/health/ready", router.handler.HealthReady)
		r.Get("/snapshot", router.handler.Snapshot)
		r.With(
			router.chiMiddleware.RateLimit(),
			router.reloadAuth.Middleware,
		).Post("/reload", router.handler.Reload)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	return r
}
