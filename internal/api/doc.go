// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

/*
Package api provides the HTTP surface of the recommendation service.

Routes (Chi router):

	GET  /                      service banner and snapshot summary
	POST /predict               menu recommendation for one customer
	GET  /api/v1/health/live    liveness probe
	GET  /api/v1/health/ready   readiness probe (a snapshot is published)
	GET  /api/v1/snapshot       metadata of the published snapshot
	POST /api/v1/reload         request a snapshot rebuild
	GET  /metrics               Prometheus metrics

/ and /predict answer with bare JSON objects so existing clients keep
working. The /api/v1 routes use the APIResponse envelope.

Middleware order: request ID, access log, Prometheus metrics, real IP,
panic recovery, CORS. /predict and /api/v1/reload are rate limited with
httprate. When a reload secret is configured, /api/v1/reload requires an
HS256 bearer token.
*/
package api
