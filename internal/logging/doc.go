// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

// Package logging provides the zerolog-based structured logging used across
// the service.
//
// A process-wide logger is configured once at startup with Init and then
// reached through the package-level helpers:
//
//	logging.Init(logging.Config{Level: "info", Format: "json", Service: "menurec"})
//	logging.Info().Str("restaurant_id", id).Msg("Snapshot published")
//
// Request-scoped fields travel through the context. The HTTP middleware
// stores the request ID and Ctx attaches it to every line:
//
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("Invalid request body")
//
// Components that take an injected logger (the engine, the reloader, the
// services) get one from WithComponent so the "component" field is set.
//
// The supervisor tree logs through log/slog. NewSlogLogger bridges it onto
// the same zerolog output.
//
// Customer identifiers and credentials are never logged in the clear; use
// MaskCustomer, SanitizeToken and SanitizeDSN.
package logging
