// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

// Package middleware provides the HTTP middleware shared by the API router.
//
// All middleware uses the func(http.Handler) http.Handler shape so it plugs
// straight into chi:
//
//	r := chi.NewRouter()
//	r.Use(middleware.RequestID)
//	r.Use(middleware.AccessLog(500 * time.Millisecond))
//	r.Use(middleware.PrometheusMetrics)
//
// RequestID must run first so the access log and handlers see the ID.
// PrometheusMetrics labels by chi route pattern ("/api/v1/snapshot"), never
// by raw path, and folds unmatched paths into a single "unmatched" label.
package middleware
