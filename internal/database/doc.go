// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

// Package database provides the SQL order sources the snapshot is trained
// from.
//
// SQLSource reads the orders table through database/sql with one of three
// drivers:
//
//	postgres  lib/pq, the production source (Supabase exposes plain Postgres)
//	duckdb    duckdb-go, local analytics files and in-memory tests
//	sqlite    modernc.org/sqlite, exported order dumps
//
// Every driver runs the same query:
//
//	SELECT cliente_telefono, items, "Total_monto", restaurant_id, created_at
//	FROM <table> ORDER BY created_at
//
// Column values are read as interface{} and converted by asString and
// asTime, because the drivers disagree on Go types (lib/pq returns numeric
// as []byte, sqlite may return timestamps as text).
//
// BreakerSource wraps any ingest.OrderSource in a gobreaker circuit breaker
// so a dead upstream fails fast instead of stalling every reload for the
// full query timeout.
package database
